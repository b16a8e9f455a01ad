package postgres

import (
	"context"
	"fmt"

	"github.com/surveypool/search-api/internal/repository"
)

type jackpotRepository struct {
	BaseRepository
}

func NewJackpotRepository(base BaseRepository) repository.JackpotRepository {
	return &jackpotRepository{base}
}

func (r *jackpotRepository) ActivePoolTotal(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.GetContext(ctx, &total,
		`SELECT COALESCE(sum(pool_cents), 0) FROM jackpots WHERE active`)
	if err != nil {
		return 0, fmt.Errorf("failed to total jackpot pools: %w", err)
	}
	return total, nil
}
