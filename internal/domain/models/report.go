package models

// GeneralReport is the financial summary computed for one period.
// All currency fields are rounded to two decimals.
type GeneralReport struct {
	GrossRevenue float64 `json:"gross_revenue"`
	NetRevenue   float64 `json:"net_revenue"`
	AverageSale  float64 `json:"average_sale"`
	LaborCost    float64 `json:"labor_cost"`
	CupsCost     float64 `json:"cups_cost"`
	InvoiceCost  float64 `json:"invoice_cost"`
	TotalCost    float64 `json:"total_cost"`
	DaysRecorded int     `json:"days_recorded"`
}

// DayRevenue is one entry of the day-of-week revenue ranking. Weekday keeps
// the English label stored on the sale rows; display translation happens at
// the formatting edge.
type DayRevenue struct {
	Weekday string  `json:"weekday"`
	Revenue float64 `json:"revenue"`
}

// ProductProfit is one entry of the per-product profit ranking.
type ProductProfit struct {
	Product string  `json:"product"`
	Profit  float64 `json:"profit"`
}
