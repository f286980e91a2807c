package etl

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ruanmelo/chopptrailer/pkg/dateparse"
)

// headerRenames maps legacy spreadsheet column names onto the canonical
// ones the loader expects. Applied after normalization.
var headerRenames = map[string]string{
	"vendas_total_feira": "total",
	"cartao_feira":       "cartao",
	"dinheiro_feira":     "dinheiro",
	"pix_feira":          "pix",
	"lucro_feira":        "lucro",
	"boleto_klaro":       "custo_boleto",
	"custo_funcionarios": "custo_func",
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeHeader lowercases a column header, strips accents and collapses
// whitespace to underscores, then applies the legacy rename table.
func NormalizeHeader(header string) string {
	normalized := dateparse.Fold(strings.TrimSpace(header))
	normalized = whitespaceRun.ReplaceAllString(normalized, "_")
	if renamed, ok := headerRenames[normalized]; ok {
		return renamed
	}
	return normalized
}

// ParseNumber reads a Brazilian-formatted decimal ("1.234,56"). Plain
// dotted decimals pass through; anything unparseable is zero, matching the
// tolerant behavior of the sheet.
func ParseNumber(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return 0
	}

	if strings.Contains(cell, ",") {
		cell = strings.ReplaceAll(cell, ".", "")
		cell = strings.ReplaceAll(cell, ",", ".")
	}
	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0
	}
	return value
}

var dateLayouts = []string{"02/01/2006", "2/1/2006", "2006-01-02", "02-01-2006"}

// ParseDate reads day-first and ISO date cells.
func ParseDate(cell string) (time.Time, bool) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return time.Time{}, false
	}
	// Datetime cells keep only the date part.
	if len(cell) > 10 && (cell[10] == ' ' || cell[10] == 'T') {
		cell = cell[:10]
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, cell); err == nil {
			return date.UTC(), true
		}
	}
	return time.Time{}, false
}
