package infrastructure

import (
	"testing"
	"time"
)

func TestLocalDayRangeCoversLocalDay(t *testing.T) {
	t.Parallel()

	// limites em UTC, como o serviço de métricas os produz
	start := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, time.March, 12, 0, 0, 0, 0, time.UTC)

	lower, upper := localDayRange(start, end)

	if lower.Location() != time.Local || upper.Location() != time.Local {
		t.Fatalf("limites fora do fuso local: %v / %v", lower.Location(), upper.Location())
	}

	wantLower := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.Local)
	wantUpper := time.Date(2025, time.March, 13, 0, 0, 0, 0, time.Local)
	if !lower.Equal(wantLower) {
		t.Fatalf("limite inferior %v, esperado %v", lower, wantLower)
	}
	if !upper.Equal(wantUpper) {
		t.Fatalf("limite superior %v, esperado %v", upper, wantUpper)
	}

	// doação gravada no fim do último dia, no fuso local, cai dentro da faixa
	recorded := time.Date(2025, time.March, 12, 23, 59, 0, 0, time.Local)
	if recorded.Before(lower) || !recorded.Before(upper) {
		t.Fatalf("doação de %v ficou fora da faixa [%v, %v)", recorded, lower, upper)
	}
}
