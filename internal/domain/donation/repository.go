package donation

import (
	"context"
	"time"

	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Repository interface {
	Create(ctx context.Context, d *Donation) error
	Update(ctx context.Context, d *Donation) error
	GetById(ctx context.Context, id ulid.ULID) (*Donation, error)
	GetByIdAndDonor(ctx context.Context, id, donorID ulid.ULID) (*Donation, error)
	ListByDonor(ctx context.Context, donorID ulid.ULID, pagination *pkg.PaginationParams) ([]*Donation, int64, error)
	ListByCampaign(ctx context.Context, campaignID ulid.ULID, pagination *pkg.PaginationParams) ([]*Donation, int64, error)
	// ListRecurringDue retorna assinaturas ativas com próxima cobrança
	// vencida até cutoff.
	ListRecurringDue(ctx context.Context, cutoff time.Time, limit int) ([]*Donation, error)
	UpdateSchedule(ctx context.Context, id ulid.ULID, periodicity *Periodicity, nextChargeAt *time.Time) error
}
