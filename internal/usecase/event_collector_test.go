package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	mid "Sentinel/internal/middleware"
	internalrepo "Sentinel/internal/repository"
	"Sentinel/pkg/cache"
)

type fakeStream struct {
	mu         sync.Mutex
	reads      int
	reconnects int
	frames     chan []byte
	errs       chan error
}

func (s *fakeStream) Connect(context.Context) error   { return nil }
func (s *fakeStream) Subscribe(context.Context) error { return nil }
func (s *fakeStream) Close() error                    { return nil }
func (s *fakeStream) IsConnected() bool               { return true }

func (s *fakeStream) Read(context.Context) (<-chan []byte, <-chan error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	s.frames = make(chan []byte, 8)
	s.errs = make(chan error, 1)
	return s.frames, s.errs
}

func (s *fakeStream) Reconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
	return nil
}

func (s *fakeStream) push(b []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames <- b
}

// fail mimics the websocket client's read loop: it reports the error and
// then closes both channels.
func (s *fakeStream) fail(err error) {
	s.mu.Lock()
	frames, errs := s.frames, s.errs
	s.mu.Unlock()
	errs <- err
	close(errs)
	close(frames)
}

func (s *fakeStream) readCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads
}

type collectorQueue struct {
	mu sync.Mutex
	n  int
}

func (q *collectorQueue) PublishMessage(context.Context, string, interface{}) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.n++
	return nil
}

func (q *collectorQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.n
}

func creationFrame(mint string) []byte {
	return []byte(`{"txType":"create","mint":"` + mint + `","name":"T","symbol":"T","marketCapSol":30,"vSolInBondingCurve":42,"holderCount":10}`)
}

func TestConsume_ResumesAfterStreamError(t *testing.T) {
	stream := &fakeStream{}
	q := &collectorQueue{}
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { mc.Close() })

	pipe := mid.NewIngestPipeline(
		mid.NewEventValidator(30, 50),
		internalrepo.NewCacheDeduper(mc, 300*time.Second, nil),
		q, nopMetrics{},
	)
	c := NewEventCollector(stream, pipe, nopMetrics{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Start(ctx))
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })

	stream.push(creationFrame(routerMint))
	require.Eventually(t, func() bool { return q.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	stream.fail(errors.New("unexpected EOF"))

	// the collector reconnects and restarts the read loop
	require.Eventually(t, func() bool { return stream.readCount() >= 2 }, 2*time.Second, 10*time.Millisecond)

	stream.push(creationFrame("BJzHepbnYvCXtqAx6Kx31SzeYdMxUs7yZJrBpvRr5TJP"))
	require.Eventually(t, func() bool { return q.count() == 2 }, 2*time.Second, 10*time.Millisecond)
}
