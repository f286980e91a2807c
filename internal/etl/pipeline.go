// Package etl pulls the business spreadsheet export, cleans it and reloads
// the sales table.
package etl

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
)

// recordSheetPrefix selects the spreadsheet tabs holding sale rows.
const recordSheetPrefix = "registros_"

// SalesLoader is the storage side of the pipeline.
type SalesLoader interface {
	ReplaceSalesForDates(ctx context.Context, rows []models.SaleRecord) error
}

// Pipeline downloads the xlsx export and upserts its rows.
type Pipeline struct {
	http      *resty.Client
	loader    SalesLoader
	exportURL string
	logger    *zap.Logger
}

// NewPipeline builds a pipeline for the given export URL.
func NewPipeline(loader SalesLoader, exportURL string, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().SetTimeout(60 * time.Second)
	return &Pipeline{http: client, loader: loader, exportURL: exportURL, logger: logger}
}

// Run executes one full extract-clean-load cycle.
func (p *Pipeline) Run(ctx context.Context) error {
	resp, err := p.http.R().SetContext(ctx).Get(p.exportURL)
	if err != nil {
		return fmt.Errorf("download export: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("download export: status %d", resp.StatusCode())
	}

	rows, err := p.extract(resp.Body())
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		p.logger.Warn("export contained no usable sale rows")
		return nil
	}

	if err := p.loader.ReplaceSalesForDates(ctx, rows); err != nil {
		return fmt.Errorf("load sales: %w", err)
	}

	p.logger.Info("etl cycle finished", zap.Int("rows", len(rows)))
	return nil
}

func (p *Pipeline) extract(payload []byte) ([]models.SaleRecord, error) {
	workbook, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = workbook.Close() }()

	var all []models.SaleRecord
	for _, sheet := range workbook.GetSheetList() {
		if !strings.HasPrefix(strings.ToLower(sheet), recordSheetPrefix) {
			continue
		}

		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}
		parsed := parseSheet(rows)
		p.logger.Debug("sheet parsed",
			zap.String("sheet", sheet),
			zap.Int("rows", len(parsed)))
		all = append(all, parsed...)
	}
	return all, nil
}

// parseSheet turns one tab into sale records. The first row is the header;
// rows without a parseable date are dropped.
func parseSheet(rows [][]string) []models.SaleRecord {
	if len(rows) < 2 {
		return nil
	}

	columns := make(map[string]int, len(rows[0]))
	for idx, header := range rows[0] {
		columns[NormalizeHeader(header)] = idx
	}

	cell := func(row []string, name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	var sales []models.SaleRecord
	for _, row := range rows[1:] {
		date, ok := ParseDate(cell(row, "data"))
		if !ok {
			continue
		}

		kind := models.SaleKind(strings.TrimSpace(strings.ToLower(cell(row, "tipo_venda"))))
		if kind == "" {
			kind = models.SaleMarket
		}

		sale := models.SaleRecord{
			Date:        date,
			Weekday:     models.WeekdayFor(date),
			Kind:        kind,
			Card:        ParseNumber(cell(row, "cartao")),
			Cash:        ParseNumber(cell(row, "dinheiro")),
			Pix:         ParseNumber(cell(row, "pix")),
			LaborCost:   ParseNumber(cell(row, "custo_func")),
			CupsCost:    ParseNumber(cell(row, "custo_copos")),
			InvoiceCost: ParseNumber(cell(row, "custo_boleto")),
			Notes:       strings.TrimSpace(cell(row, "observacoes")),
		}

		// Like the other numeric columns, empty total and lucro cells
		// load as zero, so boleto rows keep a zero total and stay
		// visible in the day ranking.
		total := ParseNumber(cell(row, "total"))
		sale.Total = &total
		profit := ParseNumber(cell(row, "lucro"))
		sale.Profit = &profit
		if raw := strings.TrimSpace(cell(row, "produto_id")); raw != "" {
			if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
				sale.ProductID = &id
			}
		}

		sales = append(sales, sale)
	}
	return sales
}
