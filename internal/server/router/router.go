package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/config"
	"github.com/ruanmelo/chopptrailer/internal/server/handlers"
)

// New wires the gin engine with routes and middlewares. The report and
// CRUD API sits behind basic auth; the webhook endpoints stay public for
// Meta's callbacks.
func New(cfg config.APIConfig, webhook *handlers.WebhookHandler, reports *handlers.ReportHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/webhook", webhook.Verify)
	r.POST("/webhook", webhook.Receive)

	api := r.Group("/api", gin.BasicAuth(gin.Accounts{cfg.User: cfg.Password}))
	{
		api.GET("/reports/monthly", reports.MonthlyReport)
		api.GET("/reports/annual", reports.AnnualReport)
		api.GET("/reports/best-days", reports.BestDays)
		api.GET("/reports/products", reports.ProductRanking)

		api.POST("/sales", reports.CreateSale)
		api.GET("/sales", reports.ListSales)
		api.POST("/products", reports.CreateProduct)
		api.GET("/products", reports.ListProducts)
		api.POST("/stock-movements", reports.CreateStockMovement)
		api.GET("/stock-movements", reports.ListStockMovements)

		api.POST("/etl/run", reports.RunETL)
		api.POST("/send-message", webhook.SendMessage)
	}

	if logger != nil {
		logger.Info("router initialized")
	}
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
