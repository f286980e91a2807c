package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/config"
	"github.com/ruanmelo/chopptrailer/internal/etl"
	"github.com/ruanmelo/chopptrailer/internal/repository/postgres"
	"github.com/ruanmelo/chopptrailer/internal/scheduler"
	"github.com/ruanmelo/chopptrailer/internal/server/handlers"
	"github.com/ruanmelo/chopptrailer/internal/server/router"
	commandsvc "github.com/ruanmelo/chopptrailer/internal/service/commands"
	whatsappsvc "github.com/ruanmelo/chopptrailer/internal/service/whatsapp"
	whatsappclient "github.com/ruanmelo/chopptrailer/pkg/clients/whatsapp"
	"github.com/ruanmelo/chopptrailer/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.Debug))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store, err := postgres.New(context.Background(), cfg.Database.URL, baseLogger.Named("repo.postgres"))
	if err != nil {
		baseLogger.Fatal("failed to init postgres store", zap.Error(err))
	}
	defer store.Close()

	if err := store.EnsureSchema(context.Background()); err != nil {
		baseLogger.Fatal("failed to ensure schema", zap.Error(err))
	}

	interpreter := commandsvc.NewInterpreter(store, nil, baseLogger.Named("svc.commands"))

	whatsClient := whatsappclient.NewClient(whatsappclient.Config{
		AccessToken:   cfg.WhatsApp.AccessToken,
		PhoneNumberID: cfg.WhatsApp.PhoneNumberID,
		BaseURL:       cfg.WhatsApp.BaseURL,
		APIVersion:    cfg.WhatsApp.APIVersion,
	})
	messagingSvc := whatsappsvc.NewService(cfg.WhatsApp, whatsClient, interpreter, baseLogger.Named("svc.whatsapp"))

	var pipeline *etl.Pipeline
	if cfg.ETL.ExportURL != "" {
		pipeline = etl.NewPipeline(store, cfg.ETL.ExportURL, baseLogger.Named("etl"))
	} else {
		baseLogger.Warn("SHEET_EXPORT_URL not set, spreadsheet import disabled")
	}

	webhookHandler := handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.webhook"))
	var etlRunner handlers.ETLRunner
	if pipeline != nil {
		etlRunner = pipeline
	}
	reportHandler := handlers.NewReportHandler(store, etlRunner, baseLogger.Named("handlers.reports"))
	engine := router.New(cfg.API, webhookHandler, reportHandler, baseLogger.Named("router"))

	if pipeline != nil {
		sched := scheduler.New(cfg.ETL, pipeline, baseLogger.Named("scheduler"))
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
