package jobs

import (
	"fmt"
	"log"

	"CiviPortal/internal/logger"
	"CiviPortal/internal/serviceiface"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CronService struct {
	config map[string]interface{}
	db     *pgxpool.Pool
}

func NewCronService(cfg map[string]interface{}, db *pgxpool.Pool) serviceiface.Service {
	return &CronService{
		config: cfg,
		db:     db,
	}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	log.Println("Starting cron service...")

	refreshConfig := NewDefaultRefreshConfig()
	if s.config != nil {
		if schedule, ok := s.config["summary_schedule"].(string); ok && schedule != "" {
			refreshConfig.SummarySchedule = schedule
		}
		if schedule, ok := s.config["staging_schedule"].(string); ok && schedule != "" {
			refreshConfig.StagingSchedule = schedule
		}
		if tz, ok := s.config["timezone"].(string); ok && tz != "" {
			refreshConfig.TimeZone = tz
		}
	}

	if err := RunRefreshScheduler(refreshConfig, s.db); err != nil {
		return fmt.Errorf("failed to start refresh scheduler: %v", err)
	}

	if logger.GlobalLogger != nil {
		logger.GlobalLogger.LogAudit("Cron service started with summary refresh and staging sweep")
	}
	log.Println("Cron service started — summary refresh and staging sweep scheduled")
	return nil
}

func (s *CronService) Stop() error {
	log.Println("Cron service stopped.")
	return nil
}
