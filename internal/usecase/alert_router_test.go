package usecase

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	internalrepo "Sentinel/internal/repository"
	"Sentinel/pkg/cache"
	"Sentinel/pkg/logger"
)

const routerMint = "7xKXtg2CW87d97TXJSDpbD5jBkheTqA83TZRuJosgAsU"

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stdout"})
	require.NoError(t, err)
	return l
}

func scoredToken(score float64) *models.ScoredToken {
	return &models.ScoredToken{
		Event: &models.TokenEvent{
			Mint:         routerMint,
			Symbol:       "TEST",
			LiquiditySol: 60,
		},
		Score:    score,
		ScoredAt: time.Now().UTC(),
	}
}

type fakeNotifier struct {
	name  string
	fail  bool
	sends atomic.Int64
}

func (n *fakeNotifier) Name() string { return n.name }

func (n *fakeNotifier) Send(ctx context.Context, s *models.ScoredToken, urgent bool) error {
	if n.fail {
		return errors.New("webhook 500")
	}
	n.sends.Add(1)
	return nil
}

type fakeStorage struct {
	mu     sync.Mutex
	alerts []string // channel per stored row
}

func (s *fakeStorage) Init(context.Context) error                            { return nil }
func (s *fakeStorage) StoreEvent(context.Context, *models.ScoredToken) error { return nil }
func (s *fakeStorage) StoreAlert(_ context.Context, _ *models.AlertAttempt, channel string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, channel)
	return nil
}
func (s *fakeStorage) RecentEvents(context.Context, time.Time, time.Time, float64, int) ([]*models.ScoredToken, error) {
	return nil, nil
}
func (s *fakeStorage) OutcomeCounts(context.Context, time.Time) (map[string]uint64, error) {
	return nil, nil
}
func (s *fakeStorage) Health(context.Context) error { return nil }
func (s *fakeStorage) Close() error                 { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordEventReceived(string)           {}
func (nopMetrics) RecordEventRejected(string)           {}
func (nopMetrics) RecordEventDeduped()                  {}
func (nopMetrics) RecordScore(float64)                  {}
func (nopMetrics) RecordOutcome(string)                 {}
func (nopMetrics) RecordChannelDelivery(string, string) {}
func (nopMetrics) RecordError(string)                   {}
func (nopMetrics) RecordLatency(string, float64)        {}

func newTestRouter(t *testing.T, notifiers []domrepo.Notifier) (*AlertRouter, *fakeStorage) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	guard := internalrepo.NewCacheDeliveryGuard(mc, 30*time.Second, time.Hour)
	storage := &fakeStorage{}
	r := NewAlertRouter(guard, storage, nopMetrics{}, testLogger(t), notifiers, 70, 85, 95)
	return r, storage
}

func TestRoute_BelowThresholdIsDropped(t *testing.T) {
	n := &fakeNotifier{name: models.ChannelSlack}
	r, _ := newTestRouter(t, []domrepo.Notifier{n})

	attempt, err := r.Route(context.Background(), scoredToken(69.99))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeBelowThreshold, attempt.Outcome)
	assert.Zero(t, n.sends.Load())
}

func TestRoute_ChannelSelectionByScore(t *testing.T) {
	slack := &fakeNotifier{name: models.ChannelSlack}
	discord := &fakeNotifier{name: models.ChannelDiscord}
	telegram := &fakeNotifier{name: models.ChannelTelegram}

	cases := []struct {
		score    float64
		expected []string
	}{
		{70, []string{models.ChannelSlack}},
		{84.99, []string{models.ChannelSlack}},
		{85, []string{models.ChannelSlack, models.ChannelDiscord}},
		{95, []string{models.ChannelSlack, models.ChannelDiscord, models.ChannelTelegram}},
		{100, []string{models.ChannelSlack, models.ChannelDiscord, models.ChannelTelegram}},
	}

	for _, tc := range cases {
		r, _ := newTestRouter(t, []domrepo.Notifier{slack, discord, telegram})

		attempt, err := r.Route(context.Background(), scoredToken(tc.score))
		require.NoError(t, err)
		assert.Equal(t, models.OutcomeDelivered, attempt.Outcome)
		assert.Equal(t, tc.expected, attempt.Delivered, "score %v", tc.score)
	}
}

func TestRoute_SecondPassIsDeduped(t *testing.T) {
	n := &fakeNotifier{name: models.ChannelSlack}
	r, _ := newTestRouter(t, []domrepo.Notifier{n})

	attempt, err := r.Route(context.Background(), scoredToken(90))
	require.NoError(t, err)
	require.Equal(t, models.OutcomeDelivered, attempt.Outcome)

	attempt, err = r.Route(context.Background(), scoredToken(90))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeduped, attempt.Outcome)
	assert.Equal(t, int64(1), n.sends.Load())
}

func TestRoute_ConcurrentRoutersDeliverOnce(t *testing.T) {
	n := &fakeNotifier{name: models.ChannelSlack}
	r, _ := newTestRouter(t, []domrepo.Notifier{n})

	const workers = 16
	var wg sync.WaitGroup
	var delivered atomic.Int64

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			attempt, err := r.Route(context.Background(), scoredToken(90))
			if err != nil {
				return
			}
			if attempt.Outcome == models.OutcomeDelivered {
				delivered.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), delivered.Load())
	assert.Equal(t, int64(1), n.sends.Load())
}

func TestRoute_PartialChannelFailureCountsAsDelivered(t *testing.T) {
	slack := &fakeNotifier{name: models.ChannelSlack, fail: true}
	discord := &fakeNotifier{name: models.ChannelDiscord}
	r, storage := newTestRouter(t, []domrepo.Notifier{slack, discord})

	attempt, err := r.Route(context.Background(), scoredToken(90))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDelivered, attempt.Outcome)
	assert.Equal(t, []string{models.ChannelDiscord}, attempt.Delivered)
	assert.Equal(t, []string{models.ChannelSlack}, attempt.Failed)
	assert.Equal(t, []string{models.ChannelDiscord}, storage.alerts)

	// delivery record set: replay is suppressed
	attempt, err = r.Route(context.Background(), scoredToken(90))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDeduped, attempt.Outcome)
}

func TestRoute_AllChannelsFailedIsRetryable(t *testing.T) {
	n := &fakeNotifier{name: models.ChannelSlack, fail: true}
	r, _ := newTestRouter(t, []domrepo.Notifier{n})

	attempt, err := r.Route(context.Background(), scoredToken(90))
	require.Error(t, err)
	assert.True(t, models.IsTransient(err))
	assert.Equal(t, models.OutcomeFailed, attempt.Outcome)

	// no delivery record was written, the retry can still win
	n.fail = false
	attempt, err = r.Route(context.Background(), scoredToken(90))
	require.NoError(t, err)
	assert.Equal(t, models.OutcomeDelivered, attempt.Outcome)
}
