package payment

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Payment struct {
	Id         ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	DonationId ulid.ULID       `gorm:"type:varchar(26);uniqueIndex:idx_payments_donation_id;not null" json:"donationId"`
	CampaignId ulid.ULID       `gorm:"type:varchar(26);index:idx_payments_campaign_id;not null" json:"campaignId"`
	Method     Method          `gorm:"type:varchar(20);not null" json:"method"`
	Status     Status          `gorm:"type:varchar(20);not null;index:idx_payments_status" json:"status"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	PaidAt     *time.Time      `gorm:"type:timestamp" json:"paidAt,omitempty"`
	Version    int             `gorm:"not null;default:0" json:"-"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Payment) TableName() string {
	return "payments"
}

// TransitionRecord é o livro-razão de idempotência: uma linha por
// (pagamento, estado alvo) aplicado, para tolerar entregas repetidas do
// gateway sem duplicar o efeito no valor arrecadado.
type TransitionRecord struct {
	Id           ulid.ULID `gorm:"type:varchar(26);primaryKey" json:"id"`
	PaymentId    ulid.ULID `gorm:"type:varchar(26);uniqueIndex:idx_payment_transitions_key,priority:1;not null" json:"paymentId"`
	TargetStatus Status    `gorm:"type:varchar(20);uniqueIndex:idx_payment_transitions_key,priority:2;not null" json:"targetStatus"`
	AppliedAt    time.Time `gorm:"not null" json:"appliedAt"`
}

func (TransitionRecord) TableName() string {
	return "payment_transitions"
}

type Method string

const (
	MethodPix        Method = "PIX"
	MethodBankSlip   Method = "BANK_SLIP"
	MethodCreditCard Method = "CREDIT_CARD"
)

func (m Method) IsValid() bool {
	switch m {
	case MethodPix, MethodBankSlip, MethodCreditCard:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusFailed    Status = "FAILED"
	StatusRefunded  Status = "REFUNDED"
	StatusCanceled  Status = "CANCELED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusFailed, StatusRefunded, StatusCanceled:
		return true
	}
	return false
}

// transitions: apenas PENDING tem mais de um destino; CONFIRMED só pode ser
// estornado. FAILED, REFUNDED e CANCELED são terminais.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusFailed, StatusCanceled},
	StatusConfirmed: {StatusRefunded},
}

func CanTransition(from, to Status) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
