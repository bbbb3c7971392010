package donation

import (
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

type Donation struct {
	Id         ulid.ULID       `gorm:"type:varchar(26);primaryKey" json:"id"`
	CampaignId ulid.ULID       `gorm:"type:varchar(26);index:idx_donations_campaign_id;not null" json:"campaignId"`
	DonorId    ulid.ULID       `gorm:"type:varchar(26);index:idx_donations_donor_id;not null" json:"donorId"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	// Periodicity nula significa doação avulsa; CANCELED marca uma
	// assinatura encerrada pelo doador sem apagar o histórico.
	Periodicity *Periodicity `gorm:"type:varchar(20)" json:"periodicity,omitempty"`
	// OriginId aponta para a doação-assinatura que gerou esta cobrança
	// recorrente; nulo para doações feitas diretamente no funil.
	OriginId     *ulid.ULID `gorm:"type:varchar(26);index:idx_donations_origin_id" json:"originId,omitempty"`
	NextChargeAt *time.Time `gorm:"type:timestamp;index:idx_donations_next_charge" json:"nextChargeAt,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime;not null" json:"createdAt"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime;not null" json:"updatedAt"`
}

func (Donation) TableName() string {
	return "donations"
}

type Periodicity string

const (
	PeriodicityOneTime    Periodicity = "ONE_TIME"
	PeriodicityMonthly    Periodicity = "MONTHLY"
	PeriodicityQuarterly  Periodicity = "QUARTERLY"
	PeriodicitySemiAnnual Periodicity = "SEMI_ANNUAL"
	PeriodicityYearly     Periodicity = "YEARLY"
	PeriodicityCanceled   Periodicity = "CANCELED"
)

func (p Periodicity) IsValid() bool {
	switch p {
	case PeriodicityOneTime, PeriodicityMonthly, PeriodicityQuarterly,
		PeriodicitySemiAnnual, PeriodicityYearly, PeriodicityCanceled:
		return true
	}
	return false
}

// IsRecurring indica se a periodicidade agenda cobranças futuras.
func (p Periodicity) IsRecurring() bool {
	return p.IntervalMonths() > 0
}

func (p Periodicity) IntervalMonths() int {
	switch p {
	case PeriodicityMonthly:
		return 1
	case PeriodicityQuarterly:
		return 3
	case PeriodicitySemiAnnual:
		return 6
	case PeriodicityYearly:
		return 12
	}
	return 0
}
