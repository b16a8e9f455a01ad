package postgres

import (
	"context"
	"fmt"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
)

type payoutRepository struct {
	BaseRepository
}

func NewPayoutRepository(base BaseRepository) repository.PayoutRepository {
	return &payoutRepository{base}
}

func (r *payoutRepository) PendingTotals(ctx context.Context) (int64, int64, error) {
	var totals struct {
		Count       int64 `db:"count"`
		AmountCents int64 `db:"amount_cents"`
	}
	err := r.db.GetContext(ctx, &totals, `
		SELECT count(*) AS count, COALESCE(sum(amount_cents), 0) AS amount_cents
		FROM payouts
		WHERE status = $1
	`, model.PayoutStatusPending)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to total pending payouts: %w", err)
	}
	return totals.Count, totals.AmountCents, nil
}
