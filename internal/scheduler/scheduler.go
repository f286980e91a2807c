package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/ruanmelo/chopptrailer/internal/config"
)

// ETLRunner is the job the scheduler triggers.
type ETLRunner interface {
	Run(ctx context.Context) error
}

// Scheduler runs the spreadsheet import on a cron schedule in the
// configured timezone.
type Scheduler struct {
	cron   *cron.Cron
	etl    ETLRunner
	cfg    config.ETLConfig
	logger *zap.Logger
}

// New builds the scheduler. The timezone falls back to the host local
// time when the configured name cannot be loaded.
func New(cfg config.ETLConfig, etl ETLRunner, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("invalid timezone, using local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(location)),
		etl:    etl,
		cfg:    cfg,
		logger: logger,
	}
}

// Start registers the cron entry and launches the scheduler.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runImport); err != nil {
		s.logger.Error("failed to schedule etl job",
			zap.String("schedule", s.cfg.CronSchedule),
			zap.Error(err))
		return
	}

	s.logger.Info("scheduler started", zap.String("schedule", s.cfg.CronSchedule))
	s.cron.Start()
}

// Stop halts the scheduler; running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runImport() {
	s.logger.Info("starting scheduled etl run")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.etl.Run(ctx); err != nil {
		s.logger.Error("scheduled etl run failed", zap.Error(err))
		return
	}
	s.logger.Info("scheduled etl run finished")
}
