package ledger

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	apperrors "github.com/surveypool/search-api/pkg/errors"
	"github.com/surveypool/search-api/pkg/metrics"
)

// Service is the only component allowed to move points. Balance mutations go
// through the repository's conditional updates so concurrent debits against
// the same account serialize in the database, not in process.
type Service struct {
	accounts  repository.AccountRepository
	purchases repository.PurchaseRepository
	metrics   *metrics.Metrics
}

func NewService(accounts repository.AccountRepository, purchases repository.PurchaseRepository, m *metrics.Metrics) *Service {
	return &Service{
		accounts:  accounts,
		purchases: purchases,
		metrics:   m,
	}
}

func (s *Service) GetAccount(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	account, err := s.accounts.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// Credit adds amount points to the account. No upper bound check.
func (s *Service) Credit(ctx context.Context, accountID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperrors.BadRequest("credit amount must be positive", nil)
	}

	if err := s.accounts.Credit(ctx, accountID, amount); err != nil {
		return fmt.Errorf("failed to credit account: %w", err)
	}

	s.metrics.LedgerCredits.Add(float64(amount))
	return nil
}

// CreditPurchase reconciles a confirmed checkout session into a balance
// credit. The purchase's pending-to-active claim and the credit commit in
// one transaction: a failed credit leaves the purchase pending so a later
// confirmation attempt retries, and a replayed confirmation matches the
// already-active record and credits nothing.
func (s *Service) CreditPurchase(ctx context.Context, sessionID string) (*model.PurchaseRecord, bool, error) {
	purchase, transitioned, err := s.purchases.ActivateAndCredit(ctx, sessionID)
	if err != nil {
		return nil, false, err
	}

	if transitioned {
		s.metrics.LedgerCredits.Add(float64(purchase.PointsGranted))
	}
	return purchase, transitioned, nil
}

// Debit subtracts amount points. Rejected, not clamped, when the balance is
// short; the repository reports that as InsufficientBalance and performs no
// mutation.
func (s *Service) Debit(ctx context.Context, accountID uuid.UUID, amount int64) error {
	if amount <= 0 {
		return apperrors.BadRequest("debit amount must be positive", nil)
	}

	if err := s.accounts.Debit(ctx, accountID, amount); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrInsufficientBalance {
			s.metrics.LedgerDebitsRejected.Inc()
			return err
		}
		return fmt.Errorf("failed to debit account: %w", err)
	}

	s.metrics.LedgerDebits.Add(float64(amount))
	return nil
}
