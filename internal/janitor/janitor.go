// Package janitor runs periodic database maintenance. The review scheduler
// never deletes stats rows, so rows for deleted cards or users accumulate
// until this cleans them up.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/memodeck/backend/internal/store"
)

type Janitor struct {
	scheduler *gocron.Scheduler
	store     *store.SQLiteStore
	logger    *slog.Logger
}

func New(s *store.SQLiteStore, logger *slog.Logger) *Janitor {
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     s,
		logger:    logger,
	}
}

// Start schedules the prune job at the given interval and runs the
// scheduler in the background.
func (j *Janitor) Start(interval time.Duration) {
	j.scheduler.Every(interval).Do(j.pruneOrphanStats)
	j.scheduler.StartAsync()
}

func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) pruneOrphanStats() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pruned, err := j.store.PruneOrphanStats(ctx)
	if err != nil {
		j.logger.Error("failed to prune orphan review stats", "error", err)
		return
	}
	if pruned > 0 {
		j.logger.Info("pruned orphan review stats", "rows", pruned)
	}
}
