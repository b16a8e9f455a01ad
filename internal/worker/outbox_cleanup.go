package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/surveypool/search-api/internal/repository"
	"github.com/surveypool/search-api/pkg/logger"
)

// OutboxCleanupWorker trims processed outbox rows past the retention
// window so the table stays small enough for the locked batch scans.
type OutboxCleanupWorker struct {
	repo            repository.OutboxRepository
	retentionDays   int
	cleanupInterval time.Duration
	logger          *logger.Logger
}

func NewOutboxCleanupWorker(repo repository.OutboxRepository, retentionDays int, cleanupInterval time.Duration, logger *logger.Logger) *OutboxCleanupWorker {
	return &OutboxCleanupWorker{
		repo:            repo,
		retentionDays:   retentionDays,
		cleanupInterval: cleanupInterval,
		logger:          logger,
	}
}

func (w *OutboxCleanupWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.cleanup(ctx); err != nil {
				w.logger.Error(err, "failed to clean up outbox events")
			}
		}
	}
}

func (w *OutboxCleanupWorker) cleanup(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -w.retentionDays)

	rows, err := w.repo.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to delete processed events: %w", err)
	}

	if rows > 0 {
		w.logger.Info("cleaned up processed outbox events", "deleted", rows)
	}
	return nil
}
