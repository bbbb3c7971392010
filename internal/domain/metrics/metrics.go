package metrics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Limiares de granularidade em dias corridos (inclusivos): até 31 dias a
// série é diária, até 93 semanal, daí em diante mensal.
const (
	maxDailySpan  = 31
	maxWeeklySpan = 93
)

type Bucket struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Response carrega exatamente uma das três séries, escolhida pelo tamanho do
// intervalo, nunca pela disponibilidade de dados.
type Response struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Daily     []Bucket `json:"daily,omitempty"`
	Weekly    []Bucket `json:"weekly,omitempty"`
	Monthly   []Bucket `json:"monthly,omitempty"`
}

var monthNamesPT = [12]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

// BuildSeries monta a série temporal para [start, end] (datas inclusivas) e
// soma os valores confirmados em seus intervalos. Todos os baldes do
// intervalo aparecem, mesmo zerados; a soma usa aritmética decimal e o
// arredondamento a duas casas acontece só na apresentação.
func BuildSeries(start, end time.Time, records []Record) *Response {
	start = truncateToDate(start)
	end = truncateToDate(end)

	resp := &Response{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}

	span := daySpan(start, end)
	switch {
	case span <= maxDailySpan:
		resp.Daily = buildDaily(start, end, records)
	case span <= maxWeeklySpan:
		resp.Weekly = buildWeekly(start, end, records)
	default:
		resp.Monthly = buildMonthly(start, end, records)
	}

	return resp
}

func buildDaily(start, end time.Time, records []Record) []Bucket {
	span := daySpan(start, end)
	sums := make([]decimal.Decimal, span)

	for _, r := range records {
		date := truncateToDate(r.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		idx := daysBetween(start, date)
		sums[idx] = sums[idx].Add(r.Amount)
	}

	buckets := make([]Bucket, span)
	for i := range buckets {
		day := start.AddDate(0, 0, i)
		buckets[i] = Bucket{
			Label:  day.Format("2006-01-02"),
			Amount: sums[i].Round(2),
		}
	}
	return buckets
}

// buildWeekly ancora a primeira semana exatamente em start, não no início da
// semana-calendário; a última pode ter menos de sete dias.
func buildWeekly(start, end time.Time, records []Record) []Bucket {
	span := daySpan(start, end)
	weeks := (span + 6) / 7
	sums := make([]decimal.Decimal, weeks)

	for _, r := range records {
		date := truncateToDate(r.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		idx := daysBetween(start, date) / 7
		sums[idx] = sums[idx].Add(r.Amount)
	}

	buckets := make([]Bucket, weeks)
	for i := range buckets {
		weekStart := start.AddDate(0, 0, i*7)
		weekEnd := weekStart.AddDate(0, 0, 6)
		if weekEnd.After(end) {
			weekEnd = end
		}
		buckets[i] = Bucket{
			Label:  fmt.Sprintf("Semana %d (%s - %s)", i+1, weekStart.Format("02/01"), weekEnd.Format("02/01")),
			Amount: sums[i].Round(2),
		}
	}
	return buckets
}

// buildMonthly devolve um balde por mês-calendário tocado pelo intervalo,
// incluindo meses parciais nas pontas.
func buildMonthly(start, end time.Time, records []Record) []Bucket {
	months := monthsBetween(start, end) + 1
	sums := make([]decimal.Decimal, months)

	for _, r := range records {
		date := truncateToDate(r.Date)
		if date.Before(start) || date.After(end) {
			continue
		}
		idx := monthsBetween(start, date)
		sums[idx] = sums[idx].Add(r.Amount)
	}

	buckets := make([]Bucket, months)
	for i := range buckets {
		month := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, i, 0)
		buckets[i] = Bucket{
			Label:  fmt.Sprintf("%d - %s", month.Year(), monthNamesPT[month.Month()-1]),
			Amount: sums[i].Round(2),
		}
	}
	return buckets
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daySpan conta dias corridos inclusivos entre duas datas já truncadas.
func daySpan(start, end time.Time) int {
	return daysBetween(start, end) + 1
}

func daysBetween(start, date time.Time) int {
	return int(date.Sub(start) / (24 * time.Hour))
}

func monthsBetween(start, date time.Time) int {
	return (date.Year()-start.Year())*12 + int(date.Month()) - int(start.Month())
}
