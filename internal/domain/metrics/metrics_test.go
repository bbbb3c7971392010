package metrics_test

import (
	"context"
	"testing"
	"time"

	"Doare/internal/domain/metrics"
	appErrors "Doare/internal/errors"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func countSeries(resp *metrics.Response) int {
	n := 0
	if resp.Daily != nil {
		n++
	}
	if resp.Weekly != nil {
		n++
	}
	if resp.Monthly != nil {
		n++
	}
	return n
}

func TestBuildSeriesGranularityBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		check func(t *testing.T, resp *metrics.Response)
	}{
		{
			name:  "um dia",
			start: day(2024, time.March, 10),
			end:   day(2024, time.March, 10),
			check: func(t *testing.T, resp *metrics.Response) {
				if len(resp.Daily) != 1 {
					t.Fatalf("expected 1 daily bucket, got %d", len(resp.Daily))
				}
			},
		},
		{
			name:  "31 dias ainda é diário",
			start: day(2024, time.January, 1),
			end:   day(2024, time.January, 31),
			check: func(t *testing.T, resp *metrics.Response) {
				if len(resp.Daily) != 31 {
					t.Fatalf("expected 31 daily buckets, got %d", len(resp.Daily))
				}
			},
		},
		{
			name:  "32 dias vira semanal",
			start: day(2024, time.January, 1),
			end:   day(2024, time.February, 1),
			check: func(t *testing.T, resp *metrics.Response) {
				if len(resp.Weekly) != 5 {
					t.Fatalf("expected 5 weekly buckets, got %d", len(resp.Weekly))
				}
			},
		},
		{
			name:  "93 dias ainda é semanal",
			start: day(2024, time.January, 1),
			end:   day(2024, time.April, 2),
			check: func(t *testing.T, resp *metrics.Response) {
				if len(resp.Weekly) != 14 {
					t.Fatalf("expected 14 weekly buckets, got %d", len(resp.Weekly))
				}
			},
		},
		{
			name:  "94 dias vira mensal",
			start: day(2024, time.January, 1),
			end:   day(2024, time.April, 3),
			check: func(t *testing.T, resp *metrics.Response) {
				if len(resp.Monthly) != 4 {
					t.Fatalf("expected 4 monthly buckets, got %d", len(resp.Monthly))
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := metrics.BuildSeries(tt.start, tt.end, nil)
			if countSeries(resp) != 1 {
				t.Fatalf("expected exactly one populated series, got %d", countSeries(resp))
			}
			tt.check(t, resp)
		})
	}
}

func TestBuildDailyLabelsAndZeroFill(t *testing.T) {
	t.Parallel()

	start := day(2024, time.June, 1)
	end := day(2024, time.June, 3)

	records := []metrics.Record{
		{Date: day(2024, time.June, 1), Amount: decimal.RequireFromString("10.50")},
		{Date: day(2024, time.June, 3), Amount: decimal.RequireFromString("0.10")},
		{Date: day(2024, time.June, 3), Amount: decimal.RequireFromString("0.20")},
		// fora do intervalo, deve ser ignorado
		{Date: day(2024, time.June, 4), Amount: decimal.NewFromInt(999)},
	}

	resp := metrics.BuildSeries(start, end, records)
	if len(resp.Daily) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(resp.Daily))
	}

	wantLabels := []string{"2024-06-01", "2024-06-02", "2024-06-03"}
	wantAmounts := []string{"10.5", "0", "0.3"}
	for i, b := range resp.Daily {
		if b.Label != wantLabels[i] {
			t.Fatalf("bucket %d: expected label %q, got %q", i, wantLabels[i], b.Label)
		}
		if b.Amount.String() != wantAmounts[i] {
			t.Fatalf("bucket %d: expected amount %s, got %s", i, wantAmounts[i], b.Amount)
		}
	}
}

func TestBuildWeeklyAnchorsAtStartDate(t *testing.T) {
	t.Parallel()

	// 32 dias: 5 semanas, a última com apenas 4 dias
	start := day(2024, time.January, 1)
	end := day(2024, time.February, 1)

	records := []metrics.Record{
		{Date: day(2024, time.January, 1), Amount: decimal.NewFromInt(5)},
		{Date: day(2024, time.January, 7), Amount: decimal.NewFromInt(7)},
		{Date: day(2024, time.January, 8), Amount: decimal.NewFromInt(11)},
		{Date: day(2024, time.February, 1), Amount: decimal.NewFromInt(3)},
	}

	resp := metrics.BuildSeries(start, end, records)
	if len(resp.Weekly) != 5 {
		t.Fatalf("expected 5 weekly buckets, got %d", len(resp.Weekly))
	}

	if resp.Weekly[0].Label != "Semana 1 (01/01 - 07/01)" {
		t.Fatalf("unexpected first label: %q", resp.Weekly[0].Label)
	}
	if !resp.Weekly[0].Amount.Equal(decimal.NewFromInt(12)) {
		t.Fatalf("expected week 1 sum 12, got %s", resp.Weekly[0].Amount)
	}

	if !resp.Weekly[1].Amount.Equal(decimal.NewFromInt(11)) {
		t.Fatalf("expected week 2 sum 11, got %s", resp.Weekly[1].Amount)
	}

	// a última semana é recortada no fim do intervalo
	if resp.Weekly[4].Label != "Semana 5 (29/01 - 01/02)" {
		t.Fatalf("unexpected last label: %q", resp.Weekly[4].Label)
	}
	if !resp.Weekly[4].Amount.Equal(decimal.NewFromInt(3)) {
		t.Fatalf("expected week 5 sum 3, got %s", resp.Weekly[4].Amount)
	}
}

func TestBuildMonthlyLabels(t *testing.T) {
	t.Parallel()

	// intervalo cruzando a virada do ano, com meses parciais nas pontas
	start := day(2023, time.November, 15)
	end := day(2024, time.March, 10)

	records := []metrics.Record{
		{Date: day(2023, time.November, 20), Amount: decimal.NewFromInt(100)},
		{Date: day(2023, time.December, 25), Amount: decimal.NewFromInt(50)},
		{Date: day(2024, time.March, 1), Amount: decimal.NewFromInt(30)},
	}

	resp := metrics.BuildSeries(start, end, records)
	if len(resp.Monthly) != 5 {
		t.Fatalf("expected 5 monthly buckets, got %d", len(resp.Monthly))
	}

	wantLabels := []string{
		"2023 - Novembro",
		"2023 - Dezembro",
		"2024 - Janeiro",
		"2024 - Fevereiro",
		"2024 - Março",
	}
	for i, b := range resp.Monthly {
		if b.Label != wantLabels[i] {
			t.Fatalf("bucket %d: expected %q, got %q", i, wantLabels[i], b.Label)
		}
	}

	if !resp.Monthly[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100 in November, got %s", resp.Monthly[0].Amount)
	}
	if !resp.Monthly[2].Amount.IsZero() {
		t.Fatalf("expected empty January, got %s", resp.Monthly[2].Amount)
	}
}

type fakeDonationSource struct {
	listFn func(ctx context.Context, start, end time.Time) ([]metrics.Record, error)
}

func (f *fakeDonationSource) ListConfirmedDonations(ctx context.Context, start, end time.Time) ([]metrics.Record, error) {
	if f.listFn != nil {
		return f.listFn(ctx, start, end)
	}
	return nil, nil
}

func TestGetDonationMetricsValidation(t *testing.T) {
	t.Parallel()

	svc := metrics.NewService(&fakeDonationSource{})
	ctx := context.Background()

	t.Run("intervalo invertido", func(t *testing.T) {
		_, err := svc.GetDonationMetrics(ctx, day(2024, time.May, 10), day(2024, time.May, 1))
		if err == nil {
			t.Fatalf("expected error")
		}
		appErr, ok := appErrors.AsAppError(err)
		if !ok || appErr.Code != "INVALID_RANGE" {
			t.Fatalf("expected INVALID_RANGE, got %v", err)
		}
	})

	t.Run("datas zeradas", func(t *testing.T) {
		_, err := svc.GetDonationMetrics(ctx, time.Time{}, day(2024, time.May, 1))
		if err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("mesmo dia é válido", func(t *testing.T) {
		resp, err := svc.GetDonationMetrics(ctx, day(2024, time.May, 1), day(2024, time.May, 1))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Daily) != 1 {
			t.Fatalf("expected single daily bucket, got %+v", resp)
		}
	})
}

func TestGetDonationMetricsPropagatesSourceError(t *testing.T) {
	t.Parallel()

	svc := metrics.NewService(&fakeDonationSource{
		listFn: func(ctx context.Context, start, end time.Time) ([]metrics.Record, error) {
			return nil, appErrors.ErrDatabase
		},
	})

	_, err := svc.GetDonationMetrics(context.Background(), day(2024, time.May, 1), day(2024, time.May, 2))
	if err == nil {
		t.Fatalf("expected error")
	}
	appErr, ok := appErrors.AsAppError(err)
	if !ok || appErr.Code != appErrors.ErrDatabase.Code {
		t.Fatalf("expected source error to propagate unchanged, got %v", err)
	}
}
