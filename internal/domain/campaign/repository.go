package campaign

import (
	"context"

	"Doare/internal/pkg"

	"github.com/oklog/ulid/v2"
)

type Filters struct {
	Status *Status
}

type Repository interface {
	Create(ctx context.Context, c *Campaign) error
	Update(ctx context.Context, c *Campaign) error
	// UpdateStatusCAS aplica fields apenas se a versão armazenada ainda for
	// expectedVersion; retorna false quando outra requisição venceu a corrida.
	UpdateStatusCAS(ctx context.Context, id ulid.ULID, expectedVersion int, fields map[string]interface{}) (bool, error)
	Delete(ctx context.Context, id ulid.ULID) error
	GetById(ctx context.Context, id ulid.ULID) (*Campaign, error)
	List(ctx context.Context, filters *Filters, pagination *pkg.PaginationParams) ([]*Campaign, int64, error)
	FindRoot(ctx context.Context) (*Campaign, error)
	// SetRoot limpa o flag do detentor anterior e marca o novo na mesma
	// transação, serializada contra chamadas concorrentes.
	SetRoot(ctx context.Context, id ulid.ULID) error
	CountDonations(ctx context.Context, campaignID ulid.ULID) (int64, error)
}
