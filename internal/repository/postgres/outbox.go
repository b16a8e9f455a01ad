package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
)

type outboxRepository struct {
	BaseRepository
}

func NewOutboxRepository(base BaseRepository) repository.OutboxRepository {
	return &outboxRepository{base}
}

func (r *outboxRepository) Create(ctx context.Context, event *model.OutboxEvent) error {
	query := `
		INSERT INTO outbox_events (
			id, event_type, payload, status, created_at, updated_at, retry_count
		) VALUES ($1, $2, $3, $4, $5, $6, 0)
	`
	event.ID = uuid.New()
	event.Status = string(model.OutboxStatusPending)
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			event.ID,
			event.EventType,
			event.Payload,
			event.Status,
			event.CreatedAt,
			event.UpdatedAt,
		)
		return err
	})
}

// staleClaimAge is how long an event may sit in PROCESSING before another
// worker may reclaim it, covering a worker that died mid-batch.
const staleClaimAge = 5 * time.Minute

// ClaimPendingEvents claims a batch of pending events. The claim flips the
// rows to PROCESSING in the same statement that selects them, so it holds
// after the statement commits and a concurrent worker cannot pick up the
// batch; SKIP LOCKED keeps simultaneous claimers off each other's rows.
func (r *outboxRepository) ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error) {
	query := `
		UPDATE outbox_events
		SET status = $1, updated_at = now()
		WHERE id IN (
			SELECT id FROM outbox_events
			WHERE status = $2
			   OR (status = $1 AND updated_at < $3)
			ORDER BY created_at
			LIMIT $4
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, event_type, payload, status, error_message,
		          created_at, processed_at, updated_at, retry_count
	`
	var events []*model.OutboxEvent
	err := r.db.SelectContext(ctx, &events, query,
		model.OutboxStatusProcessing, model.OutboxStatusPending, time.Now().Add(-staleClaimAge), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to claim pending events: %w", err)
	}
	return events, nil
}

func (r *outboxRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	query := `
		UPDATE outbox_events
		SET status = $2,
		    error_message = $3,
		    processed_at = CASE WHEN $2 = 'PROCESSED' THEN now() ELSE processed_at END,
		    retry_count = CASE WHEN $2 = 'FAILED' THEN retry_count + 1 ELSE retry_count END,
		    updated_at = now()
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query, id, status, errorMessage)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outbox event not found")
	}
	return nil
}

func (r *outboxRepository) DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM outbox_events WHERE status = $1 AND processed_at < $2`,
		model.OutboxStatusProcessed, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete processed events: %w", err)
	}
	return result.RowsAffected()
}
