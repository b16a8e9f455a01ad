package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/payment"
	"github.com/surveypool/search-api/internal/repository"
	apperrors "github.com/surveypool/search-api/pkg/errors"
	"github.com/surveypool/search-api/pkg/logger"
	"github.com/surveypool/search-api/pkg/metrics"
)

// Ledger is the credit side of the points economy as the orchestrator sees
// it. CreditPurchase must apply the activation claim and the credit
// atomically and be idempotent on the session id.
type Ledger interface {
	CreditPurchase(ctx context.Context, sessionID string) (*model.PurchaseRecord, bool, error)
}

// Catalog resolves purchasable packages.
type Catalog interface {
	GetPackage(id string) (*model.PointPackage, error)
}

// Receipts sends the post-purchase receipt. Failures are logged, never
// propagated.
type Receipts interface {
	SendPurchaseReceipt(ctx context.Context, to string, purchase *model.PurchaseRecord, pkg *model.PointPackage) error
}

type Config struct {
	// BaseURL is this service's public URL; the processor redirects back
	// to it after payment.
	BaseURL string
	// CredentialsPresent gates outbound processor calls. When false every
	// initiation fails with ConfigurationError before any call leaves
	// the process.
	CredentialsPresent bool
}

// Service creates checkout sessions and reconciles confirmed payments into
// ledger credits. Crediting is deliberately separate from the search gate's
// debiting: confirmation arrives out-of-process and possibly replayed, and
// idempotency keyed on the session id substitutes for locking.
type Service struct {
	accounts  repository.AccountRepository
	purchases repository.PurchaseRepository
	outbox    repository.OutboxRepository
	processor payment.Client
	catalog   Catalog
	ledger    Ledger
	receipts  Receipts
	config    Config
	logger    *logger.Logger
	metrics   *metrics.Metrics
}

func NewService(
	accounts repository.AccountRepository,
	purchases repository.PurchaseRepository,
	outbox repository.OutboxRepository,
	processor payment.Client,
	catalog Catalog,
	ledger Ledger,
	receipts Receipts,
	config Config,
	log *logger.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		accounts:  accounts,
		purchases: purchases,
		outbox:    outbox,
		processor: processor,
		catalog:   catalog,
		ledger:    ledger,
		receipts:  receipts,
		config:    config,
		logger:    log,
		metrics:   m,
	}
}

// InitiateResult is the session handle the caller redirects to.
type InitiateResult struct {
	SessionID   string `json:"session_id"`
	RedirectURL string `json:"redirect_url"`
}

// InitiateCheckout validates the institution, records a pending purchase and
// requests a checkout session from the processor. A processor failure is
// terminal for the attempt; nothing is retried.
func (s *Service) InitiateCheckout(ctx context.Context, institutionID uuid.UUID, packageID string) (*InitiateResult, error) {
	if !s.config.CredentialsPresent {
		return nil, apperrors.Configuration("payment processor credentials are not configured")
	}

	account, err := s.accounts.Get(ctx, institutionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get institution account: %w", err)
	}
	if account.Role != model.RoleInstitution {
		return nil, apperrors.RoleDenied(string(account.Role))
	}

	pkg, err := s.catalog.GetPackage(packageID)
	if err != nil {
		return nil, err
	}

	successURL := fmt.Sprintf("%s/api/v1/checkout/success?package_id=%s&points=%d&amount=%d",
		s.config.BaseURL, url.QueryEscape(pkg.ID), pkg.PointsGranted, pkg.PriceCents)
	cancelURL := s.config.BaseURL + "/api/v1/checkout/cancel"

	session, err := s.processor.CreateCheckoutSession(ctx, payment.CreateSessionRequest{
		AmountCents: pkg.PriceCents,
		Currency:    "USD",
		Reference:   pkg.ID,
		SuccessURL:  successURL,
		CancelURL:   cancelURL,
	})
	if err != nil {
		s.metrics.CheckoutSessionsFailed.Inc()
		return nil, apperrors.CheckoutCreationFailed(err)
	}
	if session.ID == "" {
		s.metrics.CheckoutSessionsFailed.Inc()
		return nil, apperrors.CheckoutCreationFailed(fmt.Errorf("processor returned no session id"))
	}

	purchase := &model.PurchaseRecord{
		InstitutionID:     institutionID,
		PackageID:         pkg.ID,
		CheckoutSessionID: session.ID,
		AmountCents:       pkg.PriceCents,
		PointsGranted:     pkg.PointsGranted,
		Status:            model.PurchaseStatusPending,
		PurchaseDate:      time.Now(),
	}
	if err := s.purchases.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("failed to record pending purchase: %w", err)
	}

	s.metrics.CheckoutSessionsCreated.Inc()
	s.logger.Info("checkout session created",
		"institution_id", institutionID.String(),
		"package_id", pkg.ID,
		"session_id", session.ID)

	return &InitiateResult{
		SessionID:   session.ID,
		RedirectURL: session.RedirectURL,
	}, nil
}

// ConfirmPayment reconciles a confirmed checkout session into a ledger
// credit. Idempotent: the purchase's pending-to-active transition gates the
// credit, and the ledger applies both in one transaction, so a replayed
// confirmation credits nothing and still succeeds while a failed credit
// leaves the purchase pending for the next attempt.
func (s *Service) ConfirmPayment(ctx context.Context, sessionID string) (*model.PurchaseRecord, error) {
	purchase, transitioned, err := s.ledger.CreditPurchase(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if !transitioned {
		s.metrics.PaymentReplays.Inc()
		s.logger.Info("replayed payment confirmation ignored", "session_id", sessionID)
		return purchase, nil
	}

	s.metrics.PaymentsConfirmed.Inc()
	s.logger.Info("payment confirmed",
		"session_id", sessionID,
		"institution_id", purchase.InstitutionID.String(),
		"points", purchase.PointsGranted)

	s.enqueueCompletionEvent(ctx, purchase)
	s.sendReceipt(ctx, purchase)

	return purchase, nil
}

func (s *Service) enqueueCompletionEvent(ctx context.Context, purchase *model.PurchaseRecord) {
	payload, err := json.Marshal(purchase)
	if err != nil {
		s.logger.Error(err, "failed to marshal purchase event")
		return
	}
	event := &model.OutboxEvent{
		EventType: model.EventPurchaseComplete,
		Payload:   payload,
	}
	if err := s.outbox.Create(ctx, event); err != nil {
		s.logger.Error(err, "failed to enqueue purchase event", "purchase_id", purchase.ID.String())
	}
}

func (s *Service) sendReceipt(ctx context.Context, purchase *model.PurchaseRecord) {
	account, err := s.accounts.Get(ctx, purchase.InstitutionID)
	if err != nil {
		s.logger.Error(err, "failed to load account for receipt", "purchase_id", purchase.ID.String())
		return
	}
	pkg, err := s.catalog.GetPackage(purchase.PackageID)
	if err != nil {
		s.logger.Error(err, "failed to resolve package for receipt", "purchase_id", purchase.ID.String())
		return
	}
	if err := s.receipts.SendPurchaseReceipt(ctx, account.Email, purchase, pkg); err != nil {
		s.logger.Error(err, "failed to send receipt email", "purchase_id", purchase.ID.String())
	}
}
