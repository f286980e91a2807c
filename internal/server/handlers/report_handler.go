package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/domain/models"
	"github.com/ruanmelo/chopptrailer/internal/service/reporting"
)

// Store is the storage surface the API handlers need.
type Store interface {
	FetchSales(ctx context.Context, start, end time.Time, kind *models.SaleKind) ([]models.SaleRecord, error)
	FetchProducts(ctx context.Context) ([]models.ProductRecord, error)
	InsertSale(ctx context.Context, sale models.SaleRecord) (*models.SaleRecord, error)
	CreateProduct(ctx context.Context, product models.ProductRecord) (*models.ProductRecord, error)
	InsertStockMovement(ctx context.Context, movement models.StockMovementRecord) (*models.StockMovementRecord, error)
	ListStockMovements(ctx context.Context, start, end time.Time) ([]models.StockMovementRecord, error)
}

// ETLRunner triggers one import cycle on demand.
type ETLRunner interface {
	Run(ctx context.Context) error
}

// ReportHandler serves the report and back-office CRUD endpoints. Reports
// go through the same aggregation functions as the chat commands, so both
// surfaces always return the same figures.
type ReportHandler struct {
	store  Store
	etl    ETLRunner
	logger *zap.Logger
}

// NewReportHandler constructs the API handler. etl may be nil when no
// export URL is configured.
func NewReportHandler(store Store, etl ETLRunner, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{store: store, etl: etl, logger: logger}
}

// MonthlyReport serves GET /api/reports/monthly?month=&year=.
func (h *ReportHandler) MonthlyReport(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	start, end := period.Range()
	sales, err := h.fetchSales(c, start, end)
	if err != nil {
		return
	}

	report := reporting.General(sales)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + period.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.String(), "report": report})
}

// AnnualReport serves GET /api/reports/annual?year=.
func (h *ReportHandler) AnnualReport(c *gin.Context) {
	year, ok := yearQuery(c)
	if !ok {
		return
	}

	start, end := models.YearRange(year)
	sales, err := h.fetchSales(c, start, end)
	if err != nil {
		return
	}

	report := reporting.General(sales)
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + strconv.Itoa(year)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "report": report})
}

// BestDays serves GET /api/reports/best-days?month=&year=.
func (h *ReportHandler) BestDays(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	start, end := period.Range()
	sales, err := h.fetchSales(c, start, end)
	if err != nil {
		return
	}

	ranking := reporting.DayRanking(sales)
	if ranking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + period.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.String(), "ranking": ranking})
}

// ProductRanking serves GET /api/reports/products?month=&year=.
func (h *ReportHandler) ProductRanking(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	start, end := period.Range()
	sales, err := h.fetchSales(c, start, end)
	if err != nil {
		return
	}

	products, err := h.store.FetchProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed fetching products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	ranking := reporting.ProductProfitRanking(sales, products)
	if ranking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no records for " + period.String()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.String(), "ranking": ranking})
}

// saleRequest is the create-sale body; the date comes as yyyy-mm-dd.
type saleRequest struct {
	Date        string          `json:"date" binding:"required"`
	Kind        models.SaleKind `json:"kind" binding:"required"`
	Total       *float64        `json:"total"`
	Card        float64         `json:"card"`
	Cash        float64         `json:"cash"`
	Pix         float64         `json:"pix"`
	LaborCost   float64         `json:"labor_cost"`
	CupsCost    float64         `json:"cups_cost"`
	InvoiceCost float64         `json:"invoice_cost"`
	Profit      *float64        `json:"profit"`
	ProductID   *int64          `json:"product_id"`
	Notes       string          `json:"notes"`
}

// CreateSale serves POST /api/sales.
func (h *ReportHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}
	switch req.Kind {
	case models.SaleMarket, models.SaleKeg, models.SaleInvoice:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sale kind"})
		return
	}

	sale, err := h.store.InsertSale(c.Request.Context(), models.SaleRecord{
		Date:        date,
		Kind:        req.Kind,
		Total:       req.Total,
		Card:        req.Card,
		Cash:        req.Cash,
		Pix:         req.Pix,
		LaborCost:   req.LaborCost,
		CupsCost:    req.CupsCost,
		InvoiceCost: req.InvoiceCost,
		Profit:      req.Profit,
		ProductID:   req.ProductID,
		Notes:       req.Notes,
	})
	if err != nil {
		h.logger.Error("failed inserting sale", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusCreated, sale)
}

// ListSales serves GET /api/sales?month=&year=.
func (h *ReportHandler) ListSales(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	start, end := period.Range()
	sales, err := h.fetchSales(c, start, end)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.String(), "sales": sales})
}

// CreateProduct serves POST /api/products.
func (h *ReportHandler) CreateProduct(c *gin.Context) {
	var req models.ProductRecord
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	product, err := h.store.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.logger.Error("failed creating product", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusCreated, product)
}

// ListProducts serves GET /api/products.
func (h *ReportHandler) ListProducts(c *gin.Context) {
	products, err := h.store.FetchProducts(c.Request.Context())
	if err != nil {
		h.logger.Error("failed fetching products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

// movementRequest is the create-stock-movement body.
type movementRequest struct {
	Date      string              `json:"date" binding:"required"`
	ProductID int64               `json:"product_id" binding:"required"`
	Kind      models.MovementKind `json:"kind" binding:"required"`
	Liters    float64             `json:"liters" binding:"required"`
	Notes     string              `json:"notes"`
}

// CreateStockMovement serves POST /api/stock-movements.
func (h *ReportHandler) CreateStockMovement(c *gin.Context) {
	var req movementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return
	}
	if req.Kind != models.MovementIn && req.Kind != models.MovementOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be entrada or saida"})
		return
	}

	movement, err := h.store.InsertStockMovement(c.Request.Context(), models.StockMovementRecord{
		Date:      date,
		ProductID: req.ProductID,
		Kind:      req.Kind,
		Liters:    req.Liters,
		Notes:     req.Notes,
	})
	if err != nil {
		h.logger.Error("failed inserting stock movement", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusCreated, movement)
}

// ListStockMovements serves GET /api/stock-movements?month=&year=.
func (h *ReportHandler) ListStockMovements(c *gin.Context) {
	period, ok := periodQuery(c)
	if !ok {
		return
	}

	start, end := period.Range()
	movements, err := h.store.ListStockMovements(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("failed fetching stock movements", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"period": period.String(), "movements": movements})
}

// RunETL serves POST /api/etl/run.
func (h *ReportHandler) RunETL(c *gin.Context) {
	if h.etl == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "etl not configured"})
		return
	}
	if err := h.etl.Run(c.Request.Context()); err != nil {
		h.logger.Error("manual etl run failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "etl run failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *ReportHandler) fetchSales(c *gin.Context, start, end time.Time) ([]models.SaleRecord, error) {
	sales, err := h.store.FetchSales(c.Request.Context(), start, end, nil)
	if err != nil {
		h.logger.Error("failed fetching sales", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
	}
	return sales, err
}

func periodQuery(c *gin.Context) (models.Period, bool) {
	month, errMonth := strconv.Atoi(c.Query("month"))
	year, errYear := strconv.Atoi(c.Query("year"))
	if errMonth != nil || errYear != nil || month < 1 || month > 12 || year < 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month and year query params are required"})
		return models.Period{}, false
	}
	return models.Period{Month: time.Month(month), Year: year}, true
}

func yearQuery(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year query param is required"})
		return 0, false
	}
	return year, true
}
