package etl

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		" Vendas Total Feira ": "total",
		"Cartão Feira":         "cartao",
		"Boleto Klaro":         "custo_boleto",
		"Custo Funcionários":   "custo_func",
		"Dia da  Semana":       "dia_da_semana",
		"observações":          "observacoes",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizeHeader(input), "input %q", input)
	}
}

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"1.234,56": 1234.56,
		"150":      150,
		"150.5":    150.5,
		"12,5":     12.5,
		"":         0,
		"abc":      0,
		" 20,00 ":  20,
	}
	for input, want := range cases {
		assert.Equal(t, want, ParseNumber(input), "input %q", input)
	}
}

func TestParseDate(t *testing.T) {
	date, ok := ParseDate("01/07/2025")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), date)

	date, ok = ParseDate("2025-07-01 00:00:00")
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), date)

	_, ok = ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("sem data")
	assert.False(t, ok)
}

func TestParseSheet(t *testing.T) {
	rows := [][]string{
		{"Data", "Dia da Semana", "Tipo Venda", "Vendas Total Feira", "Cartão Feira", "Dinheiro Feira", "Pix Feira", "Custo Funcionários", "Custo Copos", "Boleto Klaro", "Lucro Feira", "Produto ID", "Observações"},
		{"01/07/2025", "terça", "feira", "1.234,56", "800", "234,56", "200", "100", "20", "", "500", "1", "dia cheio"},
		{"03/07/2025", "quinta", "boleto", "", "", "", "", "", "", "55,00", "", "", ""},
		{"", "", "feira", "100", "", "", "", "", "", "", "", "", "sem data, descartada"},
	}

	sales := parseSheet(rows)
	require.Len(t, sales, 2)

	first := sales[0]
	assert.Equal(t, models.SaleMarket, first.Kind)
	assert.Equal(t, "Tuesday", first.Weekday)
	require.NotNil(t, first.Total)
	assert.Equal(t, 1234.56, *first.Total)
	assert.Equal(t, 100.0, first.LaborCost)
	require.NotNil(t, first.ProductID)
	assert.Equal(t, int64(1), *first.ProductID)

	// Boleto rows with empty total and lucro cells load zero-filled, so
	// the day ranking still sees them.
	second := sales[1]
	assert.Equal(t, models.SaleInvoice, second.Kind)
	require.NotNil(t, second.Total)
	assert.Equal(t, 0.0, *second.Total)
	require.NotNil(t, second.Profit)
	assert.Equal(t, 0.0, *second.Profit)
	assert.Equal(t, 55.0, second.InvoiceCost)
	assert.Equal(t, "Thursday", second.Weekday)
}

type captureLoader struct {
	rows []models.SaleRecord
}

func (c *captureLoader) ReplaceSalesForDates(_ context.Context, rows []models.SaleRecord) error {
	c.rows = rows
	return nil
}

func buildWorkbook(t *testing.T) []byte {
	t.Helper()

	wb := excelize.NewFile()
	require.NoError(t, wb.SetSheetName("Sheet1", "registros_2025"))
	require.NoError(t, wb.SetSheetRow("registros_2025", "A1", &[]string{"Data", "Tipo Venda", "Vendas Total Feira", "Custo Copos", "Boleto Klaro"}))
	require.NoError(t, wb.SetSheetRow("registros_2025", "A2", &[]string{"01/07/2025", "feira", "150", "5", ""}))
	require.NoError(t, wb.SetSheetRow("registros_2025", "A3", &[]string{"02/07/2025", "feira", "250", "10", ""}))
	require.NoError(t, wb.SetSheetRow("registros_2025", "A4", &[]string{"03/07/2025", "boleto", "", "", "55,00"}))

	// A tab outside the registros_ prefix must be ignored.
	_, err := wb.NewSheet("config")
	require.NoError(t, err)
	require.NoError(t, wb.SetSheetRow("config", "A1", &[]string{"Data", "Vendas Total Feira"}))
	require.NoError(t, wb.SetSheetRow("config", "A2", &[]string{"09/07/2025", "999"}))

	buf, err := wb.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestPipelineRun(t *testing.T) {
	payload := buildWorkbook(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		_, _ = w.Write(payload)
	}))
	defer server.Close()

	loader := &captureLoader{}
	pipeline := NewPipeline(loader, server.URL, nil)

	require.NoError(t, pipeline.Run(context.Background()))
	require.Len(t, loader.rows, 3)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), loader.rows[0].Date)
	require.NotNil(t, loader.rows[1].Total)
	assert.Equal(t, 250.0, *loader.rows[1].Total)

	invoice := loader.rows[2]
	assert.Equal(t, models.SaleInvoice, invoice.Kind)
	require.NotNil(t, invoice.Total)
	assert.Equal(t, 0.0, *invoice.Total)
	assert.Equal(t, 55.0, invoice.InvoiceCost)
}

func TestPipelineRunDownloadFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	pipeline := NewPipeline(&captureLoader{}, server.URL, nil)
	assert.Error(t, pipeline.Run(context.Background()))
}
