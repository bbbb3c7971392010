package infrastructure

import (
	"context"
	"time"

	"Doare/internal/domain/metrics"
	"Doare/internal/domain/payment"
	appErrors "Doare/internal/errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetricsRepository implementa metrics.DonationSource com um join entre
// doações e pagamentos confirmados.
type MetricsRepository struct {
	DB *gorm.DB
}

type confirmedDonationRow struct {
	Date   time.Time
	Amount decimal.Decimal
}

// localDayRange converte o intervalo de dias para meia-noite no fuso local,
// o mesmo em que created_at é gravado. end é inclusivo no contrato; o limite
// superior é o dia seguinte, exclusivo.
func localDayRange(start, end time.Time) (time.Time, time.Time) {
	lower := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	upper := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.Local).AddDate(0, 0, 1)
	return lower, upper
}

func (r *MetricsRepository) ListConfirmedDonations(ctx context.Context, start, end time.Time) ([]metrics.Record, error) {
	lower, upper := localDayRange(start, end)

	var rows []confirmedDonationRow
	if err := r.DB.WithContext(ctx).Table("donations").
		Select("donations.created_at AS date, donations.amount AS amount").
		Joins("JOIN payments ON payments.donation_id = donations.id").
		Where("payments.status = ?", string(payment.StatusConfirmed)).
		Where("donations.created_at >= ? AND donations.created_at < ?", lower, upper).
		Find(&rows).Error; err != nil {
		return nil, appErrors.NewDatabaseError(err)
	}

	out := make([]metrics.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, metrics.Record{Date: row.Date, Amount: row.Amount})
	}
	return out, nil
}
