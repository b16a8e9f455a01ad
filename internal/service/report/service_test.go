package report

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/pkg/logger"
)

type stubSurveyStore struct {
	active int64
	err    error
}

func (s *stubSurveyStore) CountByStatus(context.Context, model.SurveyStatus) (int64, error) {
	return s.active, s.err
}

type stubPayoutStore struct {
	count  int64
	amount int64
	err    error
}

func (s *stubPayoutStore) PendingTotals(context.Context) (int64, int64, error) {
	return s.count, s.amount, s.err
}

type stubJackpotStore struct {
	pool int64
	err  error
}

func (s *stubJackpotStore) ActivePoolTotal(context.Context) (int64, error) {
	return s.pool, s.err
}

type stubSearchCounter struct {
	count int64
	err   error
	since time.Time
}

func (s *stubSearchCounter) Create(context.Context, *model.SearchTransaction) error { return nil }

func (s *stubSearchCounter) ListByBusiness(context.Context, uuid.UUID) ([]*model.SearchTransaction, error) {
	return nil, nil
}

func (s *stubSearchCounter) CountSince(_ context.Context, since time.Time) (int64, error) {
	s.since = since
	return s.count, s.err
}

func healthyFixture() (*Service, *stubSurveyStore, *stubPayoutStore, *stubJackpotStore, *stubSearchCounter) {
	surveys := &stubSurveyStore{active: 12}
	payouts := &stubPayoutStore{count: 3, amount: 4500}
	jackpots := &stubJackpotStore{pool: 20000}
	searches := &stubSearchCounter{count: 87}
	svc := NewService(surveys, payouts, jackpots, searches, logger.NewLogger(nil))
	return svc, surveys, payouts, jackpots, searches
}

func TestPlatformStatsAllSourcesHealthy(t *testing.T) {
	svc, _, _, _, _ := healthyFixture()

	stats, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.ActiveSurveys)
	assert.Equal(t, int64(3), stats.PendingPayoutCount)
	assert.Equal(t, int64(4500), stats.PendingPayoutCents)
	assert.Equal(t, int64(20000), stats.JackpotPoolCents)
	assert.Equal(t, int64(87), stats.SearchesLast30Days)
	assert.False(t, stats.Degraded)
}

func TestPlatformStatsDegradesFailedSourceToZero(t *testing.T) {
	svc, _, payouts, _, _ := healthyFixture()
	payouts.err = fmt.Errorf("payout store unavailable")

	stats, err := svc.PlatformStats(context.Background())
	require.NoError(t, err, "a failed source must not fail the report")
	assert.True(t, stats.Degraded)
	assert.Zero(t, stats.PendingPayoutCount)
	assert.Zero(t, stats.PendingPayoutCents)

	assert.Equal(t, int64(12), stats.ActiveSurveys, "healthy sources keep their values")
	assert.Equal(t, int64(20000), stats.JackpotPoolCents)
	assert.Equal(t, int64(87), stats.SearchesLast30Days)
}

func TestPlatformStatsAllSourcesDown(t *testing.T) {
	svc, surveys, payouts, jackpots, searches := healthyFixture()
	surveys.err = fmt.Errorf("down")
	payouts.err = fmt.Errorf("down")
	jackpots.err = fmt.Errorf("down")
	searches.err = fmt.Errorf("down")

	stats, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.Degraded)
	assert.Zero(t, stats.ActiveSurveys)
	assert.Zero(t, stats.PendingPayoutCount)
	assert.Zero(t, stats.JackpotPoolCents)
	assert.Zero(t, stats.SearchesLast30Days)
}

func TestPlatformStatsSearchWindowIs30Days(t *testing.T) {
	svc, _, _, _, searches := healthyFixture()
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), searches.since)
}

func TestPlatformStatsServedFromCache(t *testing.T) {
	svc, surveys, _, _, _ := healthyFixture()

	first, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)

	surveys.active = 99
	second, err := svc.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.ActiveSurveys, second.ActiveSurveys,
		"snapshots inside the cache window are reused")
}
