package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/model"
)

// All repository interfaces in one file
type (
	// AccountRepository handles account reads and the ledger mutations.
	// Credit and Debit are the only writers of the points column.
	AccountRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		Credit(ctx context.Context, id uuid.UUID, amount int64) error
		Debit(ctx context.Context, id uuid.UUID, amount int64) error
	}

	// PurchaseRepository is the append-only purchase history.
	PurchaseRepository interface {
		Create(ctx context.Context, purchase *model.PurchaseRecord) error
		GetBySession(ctx context.Context, sessionID string) (*model.PurchaseRecord, error)
		// ActivateAndCredit flips the pending record matching sessionID to
		// active and credits its points grant to the institution, both in
		// one transaction. A failed credit rolls back the claim so a later
		// confirmation attempt retries it. Returns the record and false
		// when it was already active.
		ActivateAndCredit(ctx context.Context, sessionID string) (*model.PurchaseRecord, bool, error)
		ListByInstitution(ctx context.Context, institutionID uuid.UUID) ([]*model.PurchaseRecord, error)
	}

	SearchTransactionRepository interface {
		Create(ctx context.Context, tx *model.SearchTransaction) error
		ListByBusiness(ctx context.Context, businessID uuid.UUID) ([]*model.SearchTransaction, error)
		CountSince(ctx context.Context, since time.Time) (int64, error)
	}

	// SubmissionRepository reads submissions joined with their surveys.
	// SearchCandidates is a prefilter; the executor applies the
	// authoritative match predicate in process.
	SubmissionRepository interface {
		SearchCandidates(ctx context.Context, keywords []string, since time.Time) ([]*model.SubmissionCandidate, error)
	}

	SurveyRepository interface {
		CountByStatus(ctx context.Context, status model.SurveyStatus) (int64, error)
	}

	PayoutRepository interface {
		PendingTotals(ctx context.Context) (count int64, amountCents int64, err error)
	}

	JackpotRepository interface {
		ActivePoolTotal(ctx context.Context) (int64, error)
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		// ClaimPendingEvents marks a batch of pending events as processing
		// and returns them. The claim is durable: a concurrent worker
		// cannot pick up the same batch.
		ClaimPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		UpdateStatus(ctx context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
