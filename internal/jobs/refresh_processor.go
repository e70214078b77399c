package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"CiviPortal/internal/config"
	"CiviPortal/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
)

// RefreshConfig holds the schedules for the two maintenance jobs: the
// department rollup refresh and the staging sweep.
type RefreshConfig struct {
	SummarySchedule string
	StagingSchedule string
	TimeZone        string
	StagingMaxAge   time.Duration
}

func NewDefaultRefreshConfig() RefreshConfig {
	return RefreshConfig{
		SummarySchedule: config.DefaultSummarySchedule,
		StagingSchedule: config.DefaultStagingSchedule,
		TimeZone:        config.DefaultTimeZone,
		StagingMaxAge:   config.StagingRetentionHours * time.Hour,
	}
}

// RunRefreshScheduler registers both jobs on one cron runner and starts it.
func RunRefreshScheduler(cfg RefreshConfig, pool *pgxpool.Pool) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", cfg.TimeZone, err)
	}

	c := cron.New(cron.WithLocation(loc))

	if _, err := c.AddFunc(cfg.SummarySchedule, func() {
		if err := RefreshDepartmentSummary(context.Background(), pool); err != nil {
			log.Printf("[ERROR] department summary refresh failed: %v", err)
			return
		}
		if logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit("department summary refreshed")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule summary refresh: %w", err)
	}

	if _, err := c.AddFunc(cfg.StagingSchedule, func() {
		deleted, err := SweepStagingRows(context.Background(), pool, cfg.StagingMaxAge)
		if err != nil {
			log.Printf("[ERROR] staging sweep failed: %v", err)
			return
		}
		if deleted > 0 && logger.GlobalLogger != nil {
			logger.GlobalLogger.LogAudit(fmt.Sprintf("staging sweep removed %d abandoned rows", deleted))
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule staging sweep: %w", err)
	}

	c.Start()
	return nil
}

// RefreshDepartmentSummary rebuilds the per-department rollup view that the
// portal's heaviest pages read from.
func RefreshDepartmentSummary(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `REFRESH MATERIALIZED VIEW CONCURRENTLY department_summary`)
	return err
}

// SweepStagingRows removes staging rows older than maxAge. Completed uploads
// clear their own batches; what remains here belongs to crashed or abandoned
// uploads.
func SweepStagingRows(ctx context.Context, pool *pgxpool.Pool, maxAge time.Duration) (int64, error) {
	tag, err := pool.Exec(ctx,
		`DELETE FROM staging_financial_rows WHERE created_at < now() - $1::interval`,
		fmt.Sprintf("%d seconds", int(maxAge.Seconds())),
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
