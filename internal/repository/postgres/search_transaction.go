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

type searchTransactionRepository struct {
	BaseRepository
}

func NewSearchTransactionRepository(base BaseRepository) repository.SearchTransactionRepository {
	return &searchTransactionRepository{base}
}

func (r *searchTransactionRepository) Create(ctx context.Context, searchTx *model.SearchTransaction) error {
	query := `
		INSERT INTO search_transactions (
			id, business_id, keywords, genetic_traits,
			health_conditions, time_range, result_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	searchTx.ID = uuid.New()
	searchTx.CreatedAt = time.Now()
	searchTx.UpdatedAt = searchTx.CreatedAt

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			searchTx.ID,
			searchTx.BusinessID,
			searchTx.Keywords,
			searchTx.GeneticTraits,
			searchTx.HealthConditions,
			searchTx.TimeRange,
			searchTx.ResultCount,
			searchTx.CreatedAt,
			searchTx.UpdatedAt,
		)
		return err
	})
}

func (r *searchTransactionRepository) ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*model.SearchTransaction, error) {
	query := `
		SELECT id, business_id, keywords, genetic_traits,
		       health_conditions, time_range, result_count, created_at, updated_at
		FROM search_transactions
		WHERE business_id = $1
		ORDER BY created_at DESC
	`
	var txs []*model.SearchTransaction
	err := r.db.SelectContext(ctx, &txs, query, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list search transactions: %w", err)
	}
	return txs, nil
}

func (r *searchTransactionRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count,
		`SELECT count(*) FROM search_transactions WHERE created_at >= $1`, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count search transactions: %w", err)
	}
	return count, nil
}
