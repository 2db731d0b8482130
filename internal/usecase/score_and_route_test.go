package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	internalrepo "Sentinel/internal/repository"
	"Sentinel/internal/services/scoring"
	"Sentinel/pkg/cache"
	"Sentinel/pkg/queue"
)

type erroringStorage struct {
	fakeStorage
}

func (s *erroringStorage) StoreEvent(context.Context, *models.ScoredToken) error {
	return errors.New("clickhouse down")
}

func newTestJob(t *testing.T, storage domrepo.Storage, notifiers []domrepo.Notifier) *ScoreAndRouteJob {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	guard := internalrepo.NewCacheDeliveryGuard(mc, 30*time.Second, time.Hour)
	log := testLogger(t)
	router := NewAlertRouter(guard, storage, nopMetrics{}, log, notifiers, 70, 85, 95)
	return NewScoreAndRouteJob(scoring.NewScorer(), nil, nil, router, storage, nil, nopMetrics{}, log)
}

func strongEvent() *models.TokenEvent {
	now := time.Now().UTC()
	return &models.TokenEvent{
		Mint:          routerMint,
		Name:          "Strong Token",
		Symbol:        "STRG",
		TxType:        "create",
		LiquiditySol:  600,
		MarketCapSol:  200,
		Holders:       1500,
		DevHoldingPct: 5,
		TopTenPct:     30,
		SocialScore:   90,
		PriceChange:   80,
		Twitter:       "https://x.com/strong",
		CreatedAt:     now.Add(-time.Minute),
		ReceivedAt:    now,
	}
}

func TestHandle_MalformedPayloadSkipsRetry(t *testing.T) {
	job := newTestJob(t, &fakeStorage{}, nil)

	err := job.Handle(context.Background(), 42)
	require.Error(t, err)
	assert.ErrorIs(t, err, queue.ErrNoRetry)
}

func TestHandle_DeliversStrongLaunch(t *testing.T) {
	storage := &fakeStorage{}
	n := &fakeNotifier{name: models.ChannelSlack}
	job := newTestJob(t, storage, []domrepo.Notifier{n})

	err := job.Handle(context.Background(), strongEvent())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n.sends.Load())
}

func TestHandle_StorageFailureIsRetryable(t *testing.T) {
	job := newTestJob(t, &erroringStorage{}, nil)

	err := job.Handle(context.Background(), strongEvent())
	require.Error(t, err)
	assert.NotErrorIs(t, err, queue.ErrNoRetry)
	assert.True(t, models.IsTransient(err))
}

func TestHandle_AllChannelsDownIsRetryable(t *testing.T) {
	n := &fakeNotifier{name: models.ChannelSlack, fail: true}
	job := newTestJob(t, &fakeStorage{}, []domrepo.Notifier{n})

	err := job.Handle(context.Background(), strongEvent())
	require.Error(t, err)
	assert.NotErrorIs(t, err, queue.ErrNoRetry)
}

func TestJobMetadata(t *testing.T) {
	job := newTestJob(t, &fakeStorage{}, nil)
	assert.Equal(t, "score_and_route", job.Name())
	assert.Equal(t, "score_and_route", job.Type())
}
