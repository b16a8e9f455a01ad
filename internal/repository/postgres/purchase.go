package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	apperrors "github.com/surveypool/search-api/pkg/errors"
)

type purchaseRepository struct {
	BaseRepository
}

func NewPurchaseRepository(base BaseRepository) repository.PurchaseRepository {
	return &purchaseRepository{base}
}

func (r *purchaseRepository) Create(ctx context.Context, purchase *model.PurchaseRecord) error {
	query := `
		INSERT INTO purchases (
			id, institution_id, package_id, checkout_session_id,
			amount_cents, points_granted, status, purchase_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	purchase.ID = uuid.New()
	purchase.CreatedAt = time.Now()
	purchase.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			purchase.ID,
			purchase.InstitutionID,
			purchase.PackageID,
			purchase.CheckoutSessionID,
			purchase.AmountCents,
			purchase.PointsGranted,
			purchase.Status,
			purchase.PurchaseDate,
			purchase.CreatedAt,
			purchase.UpdatedAt,
		)
		return err
	})
}

func (r *purchaseRepository) GetBySession(ctx context.Context, sessionID string) (*model.PurchaseRecord, error) {
	return getPurchaseBySession(ctx, r.db, sessionID)
}

func getPurchaseBySession(ctx context.Context, q sqlx.QueryerContext, sessionID string) (*model.PurchaseRecord, error) {
	query := `
		SELECT id, institution_id, package_id, checkout_session_id,
		       amount_cents, points_granted, status, purchase_date,
		       created_at, updated_at
		FROM purchases
		WHERE checkout_session_id = $1
	`
	var purchase model.PurchaseRecord
	err := sqlx.GetContext(ctx, q, &purchase, query, sessionID)
	if err == sql.ErrNoRows {
		return nil, apperrors.UnknownSession(sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase by session: %w", err)
	}
	return &purchase, nil
}

// ActivateAndCredit transitions the pending purchase matching sessionID to
// active and credits its points grant to the institution in the same
// transaction. The status guard in the WHERE clause makes replayed
// confirmations no-ops: the second caller matches zero rows and gets the
// already-active record back. On two concurrent confirmations the loser
// blocks on the row lock until the winner commits, then takes the replay
// branch.
func (r *purchaseRepository) ActivateAndCredit(ctx context.Context, sessionID string) (*model.PurchaseRecord, bool, error) {
	var (
		purchase     *model.PurchaseRecord
		transitioned bool
	)
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		query := `
			UPDATE purchases
			SET status = $2, purchase_date = now(), updated_at = now()
			WHERE checkout_session_id = $1 AND status = $3
			RETURNING id, institution_id, package_id, checkout_session_id,
			          amount_cents, points_granted, status, purchase_date,
			          created_at, updated_at
		`
		var claimed model.PurchaseRecord
		err := tx.GetContext(ctx, &claimed, query, sessionID, model.PurchaseStatusActive, model.PurchaseStatusPending)
		if err == sql.ErrNoRows {
			existing, err := getPurchaseBySession(ctx, tx, sessionID)
			if err != nil {
				return err
			}
			if existing.Status != model.PurchaseStatusActive {
				return apperrors.UnknownSession(sessionID)
			}
			purchase = existing
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to activate purchase: %w", err)
		}

		// The credit rides the same transaction: a failure here rolls the
		// claim back and the session stays pending for the next attempt.
		if err := creditBalance(ctx, tx, claimed.InstitutionID, claimed.PointsGranted); err != nil {
			return err
		}

		purchase = &claimed
		transitioned = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return purchase, transitioned, nil
}

func (r *purchaseRepository) ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]*model.PurchaseRecord, error) {
	query := `
		SELECT id, institution_id, package_id, checkout_session_id,
		       amount_cents, points_granted, status, purchase_date,
		       created_at, updated_at
		FROM purchases
		WHERE institution_id = $1
		ORDER BY created_at DESC
	`
	var purchases []*model.PurchaseRecord
	err := r.db.SelectContext(ctx, &purchases, query, institutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	return purchases, nil
}
