package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	apperrors "github.com/surveypool/search-api/pkg/errors"
)

type accountRepository struct {
	BaseRepository
}

func NewAccountRepository(base BaseRepository) repository.AccountRepository {
	return &accountRepository{base}
}

func (r *accountRepository) Get(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, is_active, points, created_at, updated_at
		FROM accounts
		WHERE id = $1
	`
	var account model.Account
	err := r.db.GetContext(ctx, &account, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	query := `
		SELECT id, name, email, password_hash, role, is_active, points, created_at, updated_at
		FROM accounts
		WHERE email = $1
	`
	var account model.Account
	err := r.db.GetContext(ctx, &account, query, email)
	if err == sql.ErrNoRows {
		return nil, apperrors.NotFound("account", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

// Credit adds amount points to the account. No upper bound.
func (r *accountRepository) Credit(ctx context.Context, id uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperrors.BadRequest("credit amount must be positive", nil)
	}
	return creditBalance(ctx, r.db, id, amount)
}

// creditBalance applies the points increment. Shared with the purchase
// activation transaction so the grant and the claim commit together.
func creditBalance(ctx context.Context, e sqlx.ExecerContext, id uuid.UUID, amount int64) error {
	query := `
		UPDATE accounts
		SET points = points + $2, updated_at = now()
		WHERE id = $1
	`
	result, err := e.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("account", nil)
	}

	return nil
}

// Debit subtracts amount points. The balance guard in the WHERE clause is
// what serializes concurrent debits: of two debits racing on a balance of 1,
// exactly one matches the row.
func (r *accountRepository) Debit(ctx context.Context, id uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperrors.BadRequest("debit amount must be positive", nil)
	}

	query := `
		UPDATE accounts
		SET points = points - $2, updated_at = now()
		WHERE id = $1 AND points >= $2
	`
	result, err := r.db.ExecContext(ctx, query, id, amount)
	if err != nil {
		return fmt.Errorf("failed to debit account: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Either the account is missing or the balance was too low;
		// distinguish so callers can surface the right failure.
		var exists bool
		if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check account existence: %w", err)
		}
		if !exists {
			return apperrors.NotFound("account", nil)
		}
		return apperrors.InsufficientBalance()
	}

	return nil
}
