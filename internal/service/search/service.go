package search

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	apperrors "github.com/surveypool/search-api/pkg/errors"
	"github.com/surveypool/search-api/pkg/logger"
	"github.com/surveypool/search-api/pkg/metrics"
)

// searchCost is the flat per-search charge, independent of result volume
// and filter complexity.
const searchCost = 1

// Ledger is the debit side of the points economy as the gate sees it.
type Ledger interface {
	Debit(ctx context.Context, accountID uuid.UUID, amount int64) error
}

// Service is the search gate: it authorizes an attempt, charges it, and
// only then delegates to the executor. The balance precondition is
// advisory; the debit itself is authoritative.
type Service struct {
	accounts     repository.AccountRepository
	transactions repository.SearchTransactionRepository
	outbox       repository.OutboxRepository
	ledger       Ledger
	executor     Executor
	logger       *logger.Logger
	metrics      *metrics.Metrics
}

func NewService(
	accounts repository.AccountRepository,
	transactions repository.SearchTransactionRepository,
	outbox repository.OutboxRepository,
	ledger Ledger,
	executor Executor,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accounts:     accounts,
		transactions: transactions,
		outbox:       outbox,
		ledger:       ledger,
		executor:     executor,
		logger:       log,
		metrics:      m,
	}
}

// Output is the executed search: its results plus the persisted
// transaction id the contact workflow correlates with later.
type Output struct {
	TransactionID uuid.UUID            `json:"transaction_id"`
	Results       []model.SearchResult `json:"results"`
	ResultCount   int                  `json:"result_count"`
}

// Search runs one gated search attempt. Precondition order is fixed and the
// first failure wins: role, active flag, balance, keywords. Once the debit
// commits there is no refund path, even if execution fails afterward.
func (s *Service) Search(ctx context.Context, businessID uuid.UUID, spec model.FilterSpec) (*Output, error) {
	account, err := s.accounts.Get(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	if account.Role != model.RoleBusiness {
		s.metrics.SearchesDenied.WithLabelValues("role_denied").Inc()
		return nil, apperrors.RoleDenied(string(account.Role))
	}
	if !account.IsActive {
		s.metrics.SearchesDenied.WithLabelValues("account_inactive").Inc()
		return nil, apperrors.AccountInactive()
	}
	if account.Points < searchCost {
		s.metrics.SearchesDenied.WithLabelValues("insufficient_balance").Inc()
		return nil, apperrors.InsufficientBalance()
	}
	if len(Tokenize(spec.Keywords)) == 0 {
		s.metrics.SearchesDenied.WithLabelValues("empty_query").Inc()
		return nil, apperrors.EmptyQuery()
	}

	// The debit is the authoritative check: a concurrent search may have
	// drained the balance since the read above.
	if err := s.ledger.Debit(ctx, businessID, searchCost); err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrInsufficientBalance {
			s.metrics.SearchesDenied.WithLabelValues("insufficient_balance").Inc()
			return nil, apperrors.InsufficientBalance()
		}
		return nil, fmt.Errorf("failed to debit search charge: %w", err)
	}

	timer := prometheus.NewTimer(s.metrics.SearchLatency)
	results, err := s.executor.Execute(ctx, spec)
	timer.ObserveDuration()
	if err != nil {
		// The point is already spent. No refund on executor failure.
		s.logger.Error(err, "search execution failed after debit",
			"business_id", businessID.String())
		return nil, fmt.Errorf("search execution failed: %w", err)
	}

	searchTx := &model.SearchTransaction{
		BusinessID:       businessID,
		Keywords:         spec.Keywords,
		GeneticTraits:    pq.StringArray(spec.GeneticTraits),
		HealthConditions: pq.StringArray(spec.HealthConditions),
		TimeRange:        spec.TimeRange,
		ResultCount:      len(results),
	}
	if err := s.transactions.Create(ctx, searchTx); err != nil {
		return nil, fmt.Errorf("failed to persist search transaction: %w", err)
	}

	s.metrics.SearchesExecuted.Inc()
	s.logger.Info("search executed",
		"business_id", businessID.String(),
		"transaction_id", searchTx.ID.String(),
		"result_count", len(results))

	s.enqueueSearchEvent(ctx, searchTx)

	return &Output{
		TransactionID: searchTx.ID,
		Results:       results,
		ResultCount:   len(results),
	}, nil
}

// History lists the business's past search transactions.
func (s *Service) History(ctx context.Context, businessID uuid.UUID) ([]*model.SearchTransaction, error) {
	txs, err := s.transactions.ListByBusiness(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("failed to list search transactions: %w", err)
	}
	return txs, nil
}

func (s *Service) enqueueSearchEvent(ctx context.Context, searchTx *model.SearchTransaction) {
	payload, err := json.Marshal(searchTx)
	if err != nil {
		s.logger.Error(err, "failed to marshal search event")
		return
	}
	event := &model.OutboxEvent{
		EventType: model.EventSearchExecuted,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue search event", "transaction_id", searchTx.ID.String())
	}
}
