package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Sentinel/internal/repository"
	"Sentinel/pkg/cache"
)

type capturingQueue struct {
	mu       sync.Mutex
	messages []interface{}
	err      error
}

func (q *capturingQueue) PublishMessage(ctx context.Context, msgType string, payload interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, payload)
	return nil
}

func (q *capturingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.messages)
}

type countingMetrics struct {
	mu       sync.Mutex
	received int
	rejected map[string]int
	deduped  int
	errors   map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{rejected: map[string]int{}, errors: map[string]int{}}
}

func (m *countingMetrics) RecordEventReceived(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received++
}

func (m *countingMetrics) RecordEventRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

func (m *countingMetrics) RecordEventDeduped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deduped++
}

func (m *countingMetrics) RecordError(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[kind]++
}

func (m *countingMetrics) RecordScore(float64)                  {}
func (m *countingMetrics) RecordOutcome(string)                 {}
func (m *countingMetrics) RecordChannelDelivery(string, string) {}
func (m *countingMetrics) RecordLatency(string, float64)        {}

func newTestPipeline(t *testing.T, q *capturingQueue, opts ...PipelineOption) (*IngestPipeline, *countingMetrics) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })
	deduper := repository.NewCacheDeduper(mc, 300*time.Second, nil)
	m := newCountingMetrics()
	return NewIngestPipeline(NewEventValidator(30, 50), deduper, q, m, opts...), m
}

func TestProcess_EnqueuesValidFrame(t *testing.T) {
	q := &capturingQueue{}
	p, m := newTestPipeline(t, q)

	require.NoError(t, p.Process(context.Background(), validFrame(), "pumpportal"))
	assert.Equal(t, 1, q.count())
	assert.Equal(t, 1, m.received)
}

func TestProcess_DropsRejectedFrames(t *testing.T) {
	q := &capturingQueue{}
	p, m := newTestPipeline(t, q)

	require.NoError(t, p.Process(context.Background(), []byte(`{"txType":"buy"}`), "pumpportal"))
	assert.Zero(t, q.count())
	assert.Equal(t, 1, m.rejected[RejectTxType])
}

func TestProcess_DedupsRepeatedMint(t *testing.T) {
	q := &capturingQueue{}
	p, m := newTestPipeline(t, q)

	require.NoError(t, p.Process(context.Background(), validFrame(), "pumpportal"))
	require.NoError(t, p.Process(context.Background(), validFrame(), "kafka_replay"))

	assert.Equal(t, 1, q.count())
	assert.Equal(t, 1, m.deduped)
	assert.Equal(t, 2, m.received)
}

func TestProcess_PreFilterDropsDust(t *testing.T) {
	q := &capturingQueue{}
	p, m := newTestPipeline(t, q, WithPreFilter(100, 0))

	// validFrame carries marketCapSol 30.5
	require.NoError(t, p.Process(context.Background(), validFrame(), "pumpportal"))
	assert.Zero(t, q.count())
	assert.Equal(t, 1, m.rejected["below_min_market_cap"])
}

func TestProcess_BuffersOnQueueFailure(t *testing.T) {
	q := &capturingQueue{err: errors.New("redis down")}
	p, m := newTestPipeline(t, q, WithBufferSize(10))

	err := p.Process(context.Background(), validFrame(), "pumpportal")
	require.Error(t, err)
	assert.Equal(t, 1, m.errors["pipeline_enqueue"])

	// queue recovers; the background flusher drains the buffer
	q.mu.Lock()
	q.err = nil
	q.mu.Unlock()

	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool { return q.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
