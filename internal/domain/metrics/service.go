package metrics

import (
	"context"
	"time"

	appErrors "Doare/internal/errors"
)

type Service struct {
	Source DonationSource
}

func NewService(source DonationSource) *Service {
	return &Service{Source: source}
}

// GetDonationMetrics valida o intervalo, busca as doações confirmadas e
// delega a montagem da série. Falhas da fonte de dados sobem sem retry.
func (s *Service) GetDonationMetrics(ctx context.Context, start, end time.Time) (*Response, error) {
	if start.IsZero() || end.IsZero() {
		return nil, appErrors.NewValidationError("start_date", "datas do intervalo são obrigatórias")
	}
	if truncate(start).After(truncate(end)) {
		return nil, appErrors.NewInvalidRangeError(start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	records, err := s.Source.ListConfirmedDonations(ctx, truncate(start), truncate(end))
	if err != nil {
		return nil, err
	}

	return BuildSeries(start, end, records), nil
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
