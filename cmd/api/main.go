package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/surveypool/search-api/internal/config"
	"github.com/surveypool/search-api/internal/email"
	"github.com/surveypool/search-api/internal/handler"
	authHandler "github.com/surveypool/search-api/internal/handler/auth"
	catalogHandler "github.com/surveypool/search-api/internal/handler/catalog"
	checkoutHandler "github.com/surveypool/search-api/internal/handler/checkout"
	searchHandler "github.com/surveypool/search-api/internal/handler/search"
	statsHandler "github.com/surveypool/search-api/internal/handler/stats"
	"github.com/surveypool/search-api/internal/middleware"
	"github.com/surveypool/search-api/internal/payment"
	"github.com/surveypool/search-api/internal/repository/postgres"
	"github.com/surveypool/search-api/internal/router"
	authService "github.com/surveypool/search-api/internal/service/auth"
	catalogService "github.com/surveypool/search-api/internal/service/catalog"
	checkoutService "github.com/surveypool/search-api/internal/service/checkout"
	ledgerService "github.com/surveypool/search-api/internal/service/ledger"
	reportService "github.com/surveypool/search-api/internal/service/report"
	searchService "github.com/surveypool/search-api/internal/service/search"
	pkgauth "github.com/surveypool/search-api/pkg/auth"
	"github.com/surveypool/search-api/pkg/logger"
	"github.com/surveypool/search-api/pkg/metrics"
	"github.com/surveypool/search-api/pkg/security"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	registry := prometheus.NewRegistry()
	appMetrics := metrics.NewMetrics(registry, "surveypool", "api")

	// Repositories
	base := postgres.NewBaseRepository(db)
	accountRepo := postgres.NewAccountRepository(base)
	purchaseRepo := postgres.NewPurchaseRepository(base)
	searchTxRepo := postgres.NewSearchTransactionRepository(base)
	submissionRepo := postgres.NewSubmissionRepository(base)
	surveyRepo := postgres.NewSurveyRepository(base)
	payoutRepo := postgres.NewPayoutRepository(base)
	jackpotRepo := postgres.NewJackpotRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	// Services
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	hasher := security.NewBcryptHasher(bcrypt.DefaultCost)
	authSvc := authService.NewService(accountRepo, jwtSvc, hasher)

	ledgerSvc := ledgerService.NewService(accountRepo, purchaseRepo, appMetrics)
	catalogSvc := catalogService.NewService()

	processor := payment.NewClient(cfg.Payment)
	receipts := email.NewService(cfg.Email)
	checkoutSvc := checkoutService.NewService(
		accountRepo,
		purchaseRepo,
		outboxRepo,
		processor,
		catalogSvc,
		ledgerSvc,
		receipts,
		checkoutService.Config{
			BaseURL:            cfg.Server.BaseURL,
			CredentialsPresent: cfg.Payment.ClientID != "" && cfg.Payment.ClientSecret != "",
		},
		appLogger,
		appMetrics,
	)

	executor := searchService.NewExecutor(submissionRepo)
	searchSvc := searchService.NewService(accountRepo, searchTxRepo, outboxRepo, ledgerSvc, executor, appLogger, appMetrics)
	reportSvc := reportService.NewService(surveyRepo, payoutRepo, jackpotRepo, searchTxRepo, appLogger)

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	// Handlers
	authMw := middleware.NewAuthMiddleware(authSvc)
	h := handler.NewHandler(db, registry)
	r := router.NewRouter(
		authMw,
		authHandler.NewHandler(authSvc),
		catalogHandler.NewHandler(catalogSvc),
		checkoutHandler.NewHandler(checkoutSvc, purchaseRepo, authMw),
		searchHandler.NewHandler(searchSvc, authMw),
		statsHandler.NewHandler(reportSvc, authMw),
		h,
		router.Config{
			RateLimiter: middleware.RateLimiterConfig{Rate: rate.Limit(50), Burst: 100},
			CORS:        middleware.DefaultCORSConfig(),
			Registry:    registry,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
