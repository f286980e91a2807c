package commands

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
)

type fakeStore struct {
	sales    []models.SaleRecord
	products []models.ProductRecord
	err      error
}

func (s *fakeStore) FetchSales(_ context.Context, start, end time.Time, kind *models.SaleKind) ([]models.SaleRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []models.SaleRecord
	for _, sale := range s.sales {
		if sale.Date.Before(start) || !sale.Date.Before(end) {
			continue
		}
		if kind != nil && sale.Kind != *kind {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}

func (s *fakeStore) FetchProducts(context.Context) ([]models.ProductRecord, error) {
	return s.products, s.err
}

func f(v float64) *float64 { return &v }

func marketSale(date time.Time, total float64) models.SaleRecord {
	return models.SaleRecord{
		Date:    date,
		Weekday: models.WeekdayFor(date),
		Kind:    models.SaleMarket,
		Total:   f(total),
	}
}

func newInterpreter(store Store) *Interpreter {
	return NewInterpreter(store, nil, nil)
}

func TestInterpretHelpIgnoresDataState(t *testing.T) {
	reply := newInterpreter(&fakeStore{err: errors.New("db down")}).Interpret(context.Background(), "ajuda")
	assert.Equal(t, helpReply, reply)
	assert.Contains(t, reply, "- relatorio <mês> <ano>")
	assert.Contains(t, reply, "- comparar <mês1> <ano1> <mês2> <ano2>")
}

func TestInterpretReportEmptyPeriod(t *testing.T) {
	reply := newInterpreter(&fakeStore{}).Interpret(context.Background(), "relatorio agosto 2025")
	assert.Equal(t, "Nenhum registro para 08/2025.", reply)
}

func TestInterpretReportWithTrend(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 100),
		marketSale(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 150),
		marketSale(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), 50),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "relatorio julho 2025")
	assert.Contains(t, reply, "Relatório 07/2025")
	assert.Contains(t, reply, "Receita bruta: R$ 200.00")
	assert.Contains(t, reply, "Receita líquida: R$ 200.00")
	assert.Contains(t, reply, "Média por venda: R$ 100.00")
	assert.Contains(t, reply, "Dias registrados: 2")
	// (200/100 - 1) = +100.00% against June.
	assert.Contains(t, reply, "Tendência vs 06/2025: +100.00%")
}

func TestInterpretReportTrendWithoutPreviousData(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 150),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "relatorio julho 2025")
	assert.Contains(t, reply, "Tendência: sem dados de 06/2025.")
}

func TestInterpretReportTrendNonPositivePrevious(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		{Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Weekday: "Thursday", Kind: models.SaleInvoice, InvoiceCost: 30},
		marketSale(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 150),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "relatorio julho 2025")
	assert.Contains(t, reply, "Tendência: receita líquida de 06/2025 não foi positiva.")
}

func TestInterpretReportFormattingRoundTrips(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		{Date: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), Weekday: "Tuesday", Kind: models.SaleMarket, Total: f(150), LaborCost: 20, CupsCost: 5},
		{Date: time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), Weekday: "Wednesday", Kind: models.SaleMarket, Total: f(250), LaborCost: 20, CupsCost: 10},
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "relatorio julho 2025")

	extract := func(label string) float64 {
		re := regexp.MustCompile(regexp.QuoteMeta(label) + `: R\$ (-?\d+\.\d{2})`)
		match := re.FindStringSubmatch(reply)
		require.Len(t, match, 2, "label %q in %q", label, reply)
		value, err := strconv.ParseFloat(match[1], 64)
		require.NoError(t, err)
		return value
	}

	assert.Equal(t, 400.00, extract("Receita bruta"))
	assert.Equal(t, 345.00, extract("Receita líquida"))
	assert.Equal(t, 200.00, extract("Média por venda"))
	assert.Equal(t, 40.00, extract("Gastos - Func."))
	assert.Equal(t, 15.00, extract("Copos"))
}

func TestInterpretAnnualReport(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC), 100),
		marketSale(time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC), 300),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "relatorio anual 2025")
	assert.Contains(t, reply, "Relatório anual 2025")
	assert.Contains(t, reply, "Receita bruta: R$ 400.00")
	assert.NotContains(t, reply, "Tendência")
}

func TestInterpretCompare(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC), 100),
		marketSale(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), 150),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "comparar 6 2025 7 2025")
	assert.Contains(t, reply, "Receita líquida 06/2025: R$ 100.00")
	assert.Contains(t, reply, "Receita líquida 07/2025: R$ 150.00")
	assert.Contains(t, reply, "Variação: 50.00%")
}

func TestInterpretCompareMissingPeriod(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), 150),
	}}

	interp := newInterpreter(store)
	assert.Equal(t, "Sem dados para 06/2025.", interp.Interpret(context.Background(), "comparar 6 2025 7 2025"))
	assert.Equal(t, "Sem dados para 09/2025.", interp.Interpret(context.Background(), "comparar 7 2025 9 2025"))
}

func TestInterpretCompareNonPositiveBase(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		{Date: time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), Weekday: "Thursday", Kind: models.SaleInvoice, InvoiceCost: 30},
		marketSale(time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC), 150),
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "comparar 6 2025 7 2025")
	assert.Contains(t, reply, "Variação: N/A")
}

func TestInterpretBestDays(t *testing.T) {
	store := &fakeStore{sales: []models.SaleRecord{
		marketSale(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), 200),  // Tuesday
		marketSale(time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), 250),  // Wednesday
		{Date: time.Date(2025, 7, 3, 0, 0, 0, 0, time.UTC), Weekday: "Thursday", Kind: models.SaleInvoice, Total: f(0), InvoiceCost: 5},
	}}

	reply := newInterpreter(store).Interpret(context.Background(), "melhores dias 7 2025")
	assert.Contains(t, reply, "Melhores dias 07/2025")
	assert.Contains(t, reply, "1. Quarta-feira: R$ 250.00")
	assert.Contains(t, reply, "2. Terça-feira: R$ 200.00")
	assert.Contains(t, reply, "3. Quinta-feira: R$ 0.00")
}

func TestInterpretBestDaysEmpty(t *testing.T) {
	reply := newInterpreter(&fakeStore{}).Interpret(context.Background(), "melhores dias 7 2025")
	assert.Equal(t, "Sem dados para 07/2025.", reply)
}

func TestInterpretFetchFailureReadsAsEmpty(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	reply := newInterpreter(store).Interpret(context.Background(), "relatorio julho 2025")
	assert.Equal(t, "Nenhum registro para 07/2025.", reply)
}

func TestInterpretUnknownAndInvalid(t *testing.T) {
	interp := newInterpreter(&fakeStore{})
	assert.Equal(t, unknownReply, interp.Interpret(context.Background(), "oi tudo bem"))
	assert.Equal(t, hintCompare, interp.Interpret(context.Background(), "comparar 6 2025"))
}
