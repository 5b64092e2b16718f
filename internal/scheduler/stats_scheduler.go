package scheduler

import (
	"context"
	"time"

	"github.com/clickmobile/clickmobile-backend/internal/app/service"
	"github.com/clickmobile/clickmobile-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// StatsScheduler refreshes the cached admin dashboard snapshot on a fixed
// schedule so the first dashboard request of the day never pays the
// aggregation cost.
type StatsScheduler struct {
	cron  *cron.Cron
	stats service.StatsService
}

func NewStatsScheduler(stats service.StatsService) *StatsScheduler {
	return &StatsScheduler{
		cron:  cron.New(),
		stats: stats,
	}
}

// Start registers the hourly refresh job and starts the cron runner.
func (s *StatsScheduler) Start() error {
	_, err := s.cron.AddFunc("0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		logger.Info("Refreshing dashboard statistics", nil)
		if _, err := s.stats.RefreshDashboard(ctx); err != nil {
			logger.Error("Scheduled dashboard refresh failed", err, nil)
			return
		}
		logger.Info("Dashboard statistics refreshed", nil)
	})
	if err != nil {
		logger.Error("Failed to register dashboard refresh job", err, nil)
		return err
	}

	s.cron.Start()
	logger.Info("Stats scheduler started (hourly refresh)", nil)
	return nil
}

// Stop stops the cron runner. Running jobs finish before it returns.
func (s *StatsScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Stats scheduler stopped", nil)
}
