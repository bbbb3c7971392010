package payment

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

// TransitionApply descreve uma mudança de estado e seu efeito colateral no
// valor arrecadado da campanha. O repositório compromete tudo em uma única
// transação: status + versão, delta em campaigns.current_amount e a linha do
// livro-razão. Nada é aplicado parcialmente.
type TransitionApply struct {
	PaymentID       ulid.ULID
	ExpectedVersion int
	Target          Status
	PaidAt          *time.Time
	CampaignID      ulid.ULID
	// CampaignDelta é zero quando a transição não mexe no arrecadado
	// (FAILED, CANCELED).
	CampaignDelta decimal.Decimal
}

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	GetById(ctx context.Context, id ulid.ULID) (*Payment, error)
	GetByDonationId(ctx context.Context, donationID ulid.ULID) (*Payment, error)
	// Apply retorna false sem erro quando a versão esperada não confere;
	// o chamador relê e reavalia a transição.
	Apply(ctx context.Context, req *TransitionApply) (bool, error)
	ListPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]*Payment, error)
	ListByCampaign(ctx context.Context, campaignID ulid.ULID, status *Status) ([]*Payment, error)
}
