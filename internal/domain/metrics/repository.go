package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Record é uma doação confirmada reduzida ao que o agregador precisa.
type Record struct {
	Date   time.Time
	Amount decimal.Decimal
}

// DonationSource entrega apenas doações cujo pagamento está CONFIRMED; o
// agregador nunca filtra por status.
type DonationSource interface {
	ListConfirmedDonations(ctx context.Context, start, end time.Time) ([]Record, error)
}
