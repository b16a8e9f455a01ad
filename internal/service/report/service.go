package report

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/internal/repository"
	"github.com/surveypool/search-api/pkg/logger"
)

const (
	statsCacheKey = "platform_stats"
	statsCacheTTL = 30 * time.Second
)

// Service produces the read-only admin snapshot. Every sub-fetch is
// isolated: a failing source logs, contributes zero and flips the degraded
// flag, so one broken collection never blanks the dashboard.
type Service struct {
	surveys  repository.SurveyRepository
	payouts  repository.PayoutRepository
	jackpots repository.JackpotRepository
	searches repository.SearchTransactionRepository
	cache    *cache.Cache
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(
	surveys repository.SurveyRepository,
	payouts repository.PayoutRepository,
	jackpots repository.JackpotRepository,
	searches repository.SearchTransactionRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		surveys:  surveys,
		payouts:  payouts,
		jackpots: jackpots,
		searches: searches,
		cache:    cache.New(statsCacheTTL, 5*time.Minute),
		logger:   log,
		now:      time.Now,
	}
}

// PlatformStats returns the current snapshot, served from a short-lived
// cache since dashboard accuracy is best-effort.
func (s *Service) PlatformStats(ctx context.Context) (*model.PlatformStats, error) {
	if cached, ok := s.cache.Get(statsCacheKey); ok {
		return cached.(*model.PlatformStats), nil
	}

	stats := &model.PlatformStats{GeneratedAt: s.now()}

	activeSurveys, err := s.surveys.CountByStatus(ctx, model.SurveyStatusActive)
	if err != nil {
		s.logger.Error(err, "survey count degraded to zero")
		stats.Degraded = true
	} else {
		stats.ActiveSurveys = activeSurveys
	}

	payoutCount, payoutCents, err := s.payouts.PendingTotals(ctx)
	if err != nil {
		s.logger.Error(err, "pending payout totals degraded to zero")
		stats.Degraded = true
	} else {
		stats.PendingPayoutCount = payoutCount
		stats.PendingPayoutCents = payoutCents
	}

	jackpotCents, err := s.jackpots.ActivePoolTotal(ctx)
	if err != nil {
		s.logger.Error(err, "jackpot totals degraded to zero")
		stats.Degraded = true
	} else {
		stats.JackpotPoolCents = jackpotCents
	}

	searchCount, err := s.searches.CountSince(ctx, s.now().AddDate(0, 0, -30))
	if err != nil {
		s.logger.Error(err, "search count degraded to zero")
		stats.Degraded = true
	} else {
		stats.SearchesLast30Days = searchCount
	}

	s.cache.Set(statsCacheKey, stats, cache.DefaultExpiration)
	return stats, nil
}
