package reporting

import (
	"math"
	"sort"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
)

// The functions in this package are pure: they take already-fetched record
// slices and return computed results. Both the HTTP API and the WhatsApp
// interpreter go through them, so the two surfaces always agree on figures.
// A nil result means "no data for the period", which is not an error.

// General computes the financial summary for a slice of sales.
//
// Gross revenue and the sale average exclude boleto entries (pure expenses),
// while every cost column sums over all rows, so a boleto still drags the
// net revenue down. Days recorded counts distinct calendar dates among
// non-boleto rows, not rows.
func General(sales []models.SaleRecord) *models.GeneralReport {
	if len(sales) == 0 {
		return nil
	}

	var gross, labor, cups, invoice float64
	var revenueRows int
	days := make(map[string]struct{})

	for _, sale := range sales {
		labor += sale.LaborCost
		cups += sale.CupsCost
		invoice += sale.InvoiceCost

		if sale.Kind == models.SaleInvoice {
			continue
		}
		gross += sale.TotalOrZero()
		revenueRows++
		days[sale.DayKey()] = struct{}{}
	}

	average := 0.0
	if revenueRows > 0 {
		average = gross / float64(revenueRows)
	}
	totalCost := labor + cups + invoice

	return &models.GeneralReport{
		GrossRevenue: round2(gross),
		NetRevenue:   round2(gross - totalCost),
		AverageSale:  round2(average),
		LaborCost:    round2(labor),
		CupsCost:     round2(cups),
		InvoiceCost:  round2(invoice),
		TotalCost:    round2(totalCost),
		DaysRecorded: len(days),
	}
}

// DayRanking sums revenue per weekday label, most-revenue-first with stable
// ties in first-seen order. Rows without a weekday label or without a total
// are skipped; there is no kind filter here, so a boleto row carrying a
// label and a (zero) total still shows up.
func DayRanking(sales []models.SaleRecord) []models.DayRevenue {
	if len(sales) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	var order []string
	for _, sale := range sales {
		if sale.Weekday == "" || sale.Total == nil {
			continue
		}
		if _, seen := totals[sale.Weekday]; !seen {
			order = append(order, sale.Weekday)
		}
		totals[sale.Weekday] += *sale.Total
	}

	ranking := make([]models.DayRevenue, 0, len(order))
	for _, weekday := range order {
		ranking = append(ranking, models.DayRevenue{Weekday: weekday, Revenue: round2(totals[weekday])})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Revenue > ranking[j].Revenue
	})
	return ranking
}

// ProductProfitRanking sums profit per product, most-profit-first with
// stable ties. Boleto rows, rows without a profit value and rows whose
// product id does not resolve against the catalog are excluded.
func ProductProfitRanking(sales []models.SaleRecord, products []models.ProductRecord) []models.ProductProfit {
	if len(sales) == 0 {
		return nil
	}

	names := make(map[int64]string, len(products))
	for _, product := range products {
		names[product.ID] = product.Name
	}

	totals := make(map[string]float64)
	var order []string
	for _, sale := range sales {
		if sale.Kind == models.SaleInvoice || sale.ProductID == nil || sale.Profit == nil {
			continue
		}
		name, ok := names[*sale.ProductID]
		if !ok {
			continue
		}
		if _, seen := totals[name]; !seen {
			order = append(order, name)
		}
		totals[name] += *sale.Profit
	}

	ranking := make([]models.ProductProfit, 0, len(order))
	for _, name := range order {
		ranking = append(ranking, models.ProductProfit{Product: name, Profit: round2(totals[name])})
	}
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].Profit > ranking[j].Profit
	})
	return ranking
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
