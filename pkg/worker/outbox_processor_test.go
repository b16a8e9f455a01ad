package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveypool/search-api/internal/model"
	"github.com/surveypool/search-api/pkg/logger"
	"github.com/surveypool/search-api/pkg/metrics"
)

// memOutboxRepo mirrors the claim semantics of the postgres repository: a
// claim flips the event out of pending in the same step that returns it, so
// a concurrent claimer cannot see the same event.
type memOutboxRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*model.OutboxEvent
	order  []uuid.UUID
}

func newMemOutboxRepo(events ...*model.OutboxEvent) *memOutboxRepo {
	r := &memOutboxRepo{events: make(map[uuid.UUID]*model.OutboxEvent)}
	for _, e := range events {
		r.events[e.ID] = e
		r.order = append(r.order, e.ID)
	}
	return r
}

func (r *memOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event.ID = uuid.New()
	r.events[event.ID] = event
	r.order = append(r.order, event.ID)
	return nil
}

func (r *memOutboxRepo) ClaimPendingEvents(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var claimed []*model.OutboxEvent
	for _, id := range r.order {
		if len(claimed) == limit {
			break
		}
		event := r.events[id]
		if event.Status != string(model.OutboxStatusPending) {
			continue
		}
		event.Status = string(model.OutboxStatusProcessing)
		copied := *event
		claimed = append(claimed, &copied)
	}
	return claimed, nil
}

func (r *memOutboxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status model.OutboxStatus, errorMessage *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("outbox event not found")
	}
	event.Status = string(status)
	event.ErrorMessage = errorMessage
	return nil
}

func (r *memOutboxRepo) DeleteProcessedBefore(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r *memOutboxRepo) status(id uuid.UUID) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[id].Status
}

type memBroker struct {
	mu        sync.Mutex
	published []string
	err       error
}

func (b *memBroker) Publish(_ context.Context, channel string, _ interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.published = append(b.published, channel)
	return nil
}

func (b *memBroker) Subscribe(context.Context, string) (<-chan []byte, error) {
	return nil, nil
}

func (b *memBroker) Close() error { return nil }

func (b *memBroker) publishCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.published)
}

func pendingEvent(eventType string) *model.OutboxEvent {
	return &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   json.RawMessage(`{}`),
		Status:    string(model.OutboxStatusPending),
	}
}

func newTestProcessor(repo *memOutboxRepo, broker *memBroker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Hour,
		RetryAttempts: 2,
		RetryDelay:    time.Millisecond,
	}, logger.NewLogger(nil), metrics.NewMetrics(prometheus.NewRegistry(), "", ""))
}

func TestProcessEventsPublishesAndMarksProcessed(t *testing.T) {
	first := pendingEvent("search.executed")
	second := pendingEvent("purchase.completed")
	repo := newMemOutboxRepo(first, second)
	broker := &memBroker{}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, []string{"search.executed", "purchase.completed"}, broker.published)
	assert.Equal(t, string(model.OutboxStatusProcessed), repo.status(first.ID))
	assert.Equal(t, string(model.OutboxStatusProcessed), repo.status(second.ID))
}

func TestProcessEventsMarksFailedWhenBrokerIsDown(t *testing.T) {
	event := pendingEvent("search.executed")
	repo := newMemOutboxRepo(event)
	broker := &memBroker{err: fmt.Errorf("broker unavailable")}
	p := newTestProcessor(repo, broker)

	require.NoError(t, p.processEvents(context.Background()))

	assert.Equal(t, string(model.OutboxStatusFailed), repo.status(event.ID))
	assert.Zero(t, broker.publishCount())
}

func TestConcurrentProcessorsDoNotDoublePublish(t *testing.T) {
	event := pendingEvent("purchase.completed")
	repo := newMemOutboxRepo(event)
	broker := &memBroker{}

	const processors = 4
	var wg sync.WaitGroup
	for i := 0; i < processors; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := newTestProcessor(repo, broker)
			assert.NoError(t, p.processEvents(context.Background()))
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, broker.publishCount(),
		"a claimed event must be invisible to every other processor")
	assert.Equal(t, string(model.OutboxStatusProcessed), repo.status(event.ID))
}
