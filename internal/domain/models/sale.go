package models

import "time"

// SaleKind discriminates the three kinds of entries recorded in the sales
// table. Values match the spreadsheet vocabulary so ETL rows map directly.
type SaleKind string

const (
	// SaleMarket is a regular street-fair sale.
	SaleMarket SaleKind = "feira"
	// SaleKeg is a bulk closed-keg sale for an event.
	SaleKeg SaleKind = "barril"
	// SaleInvoice is a pure-expense boleto entry with no revenue.
	SaleInvoice SaleKind = "boleto"
)

// SaleRecord is one row of the sales ledger. Total and Profit are pointers
// because manually entered rows may omit them; the channel breakdown (card,
// cash, pix) is informational and never summed into report totals.
type SaleRecord struct {
	ID          int64      `json:"id"`
	Date        time.Time  `json:"date"`
	Weekday     string     `json:"weekday"`
	Kind        SaleKind   `json:"kind"`
	Total       *float64   `json:"total,omitempty"`
	Card        float64    `json:"card"`
	Cash        float64    `json:"cash"`
	Pix         float64    `json:"pix"`
	LaborCost   float64    `json:"labor_cost"`
	CupsCost    float64    `json:"cups_cost"`
	InvoiceCost float64    `json:"invoice_cost"`
	Profit      *float64   `json:"profit,omitempty"`
	ProductID   *int64     `json:"product_id,omitempty"`
	Notes       string     `json:"notes,omitempty"`
}

// TotalOrZero returns the revenue of the sale, treating absent as zero.
func (s SaleRecord) TotalOrZero() float64 {
	if s.Total == nil {
		return 0
	}
	return *s.Total
}

// DayKey normalizes the sale date to a calendar-day identity.
func (s SaleRecord) DayKey() string {
	return s.Date.Format("2006-01-02")
}

// WeekdayFor derives the English weekday label stored alongside each sale.
// The label is fixed at creation time, like the spreadsheet column it mirrors.
func WeekdayFor(date time.Time) string {
	return date.Weekday().String()
}

// ProductRecord describes one draft-beer product sold from the trailer.
type ProductRecord struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	PricePerLiter   float64 `json:"price_per_liter"`
	KegPrice        float64 `json:"keg_price"`
	KegVolumeLiters float64 `json:"keg_volume_liters"`
}

// MovementKind discriminates stock movement directions.
type MovementKind string

const (
	MovementIn  MovementKind = "entrada"
	MovementOut MovementKind = "saida"
)

// StockMovementRecord tracks keg liters entering or leaving the trailer.
type StockMovementRecord struct {
	ID        int64        `json:"id"`
	Date      time.Time    `json:"date"`
	ProductID int64        `json:"product_id"`
	Kind      MovementKind `json:"kind"`
	Liters    float64      `json:"liters"`
	Notes     string       `json:"notes,omitempty"`
}
