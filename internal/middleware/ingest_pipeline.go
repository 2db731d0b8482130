package middleware

import (
	"context"
	"fmt"
	"sync"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	"Sentinel/pkg/queue"
)

// MsgScoreAndRoute is the queue message type for accepted events.
const MsgScoreAndRoute = "score_and_route"

// IngestPipeline sits between the event sources and the worker queue.
// It validates, pre-filters, dedups, and buffers when the queue is
// unavailable.
type IngestPipeline struct {
	validator *EventValidator
	deduper   domrepo.Deduper
	enqueuer  queue.QueueService
	metrics   domrepo.Metrics

	minMarketCap  float64
	minInitialBuy float64

	bufSize int
	bufCh   chan *models.TokenEvent
	stopCh  chan struct{}
	started bool
	mu      sync.Mutex
}

type PipelineOption func(*IngestPipeline)

// WithPreFilter sets minimum market cap and initial buy. Zero disables.
func WithPreFilter(minMarketCap, minInitialBuy float64) PipelineOption {
	return func(p *IngestPipeline) {
		p.minMarketCap = minMarketCap
		p.minInitialBuy = minInitialBuy
	}
}

// WithBufferSize sets the temporary buffer size when the queue is unavailable.
func WithBufferSize(n int) PipelineOption {
	return func(p *IngestPipeline) {
		if n > 0 {
			p.bufSize = n
		}
	}
}

// NewIngestPipeline creates a new pipeline.
func NewIngestPipeline(validator *EventValidator, deduper domrepo.Deduper, enqueuer queue.QueueService, metrics domrepo.Metrics, opts ...PipelineOption) *IngestPipeline {
	p := &IngestPipeline{
		validator: validator,
		deduper:   deduper,
		enqueuer:  enqueuer,
		metrics:   metrics,
		bufSize:   1000,
		bufCh:     make(chan *models.TokenEvent, 1000),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.bufSize != cap(p.bufCh) {
		p.bufCh = make(chan *models.TokenEvent, p.bufSize)
	}
	return p
}

// Start launches background flushing of buffered events.
func (p *IngestPipeline) Start(ctx context.Context) {
	p.mu.Lock()
	if p.started {
		p.mu.Unlock()
		return
	}
	p.started = true
	p.mu.Unlock()

	go func() {
		backoff := 50 * time.Millisecond
		for {
			select {
			case <-p.stopCh:
				return
			case e := <-p.bufCh:
				if e == nil {
					continue
				}
				if err := p.enqueuer.PublishMessage(ctx, MsgScoreAndRoute, e); err != nil {
					if backoff < 2*time.Second {
						backoff *= 2
					}
					p.metrics.RecordError("pipeline_flush")
					time.Sleep(backoff)
					// requeue if space; drop otherwise
					select {
					case p.bufCh <- e:
					default:
						p.metrics.RecordError("pipeline_buffer_drop")
					}
				} else {
					backoff = 50 * time.Millisecond
				}
			}
		}
	}()
}

// Stop stops the background flushing.
func (p *IngestPipeline) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.started = false
	p.mu.Unlock()
	close(p.stopCh)
}

// Process validates, filters, dedups, and enqueues one raw frame. Buffers
// the event when the queue rejects it.
func (p *IngestPipeline) Process(ctx context.Context, data []byte, source string) error {
	p.metrics.RecordEventReceived(source)

	e, reason := p.validator.Validate(data, source, time.Now())
	if e == nil {
		p.metrics.RecordEventRejected(reason)
		return nil
	}

	if p.minMarketCap > 0 && e.MarketCapSol < p.minMarketCap {
		p.metrics.RecordEventRejected("below_min_market_cap")
		return nil
	}
	if p.minInitialBuy > 0 && e.InitialBuySol < p.minInitialBuy {
		p.metrics.RecordEventRejected("below_min_initial_buy")
		return nil
	}

	if !p.deduper.MarkSeen(ctx, e.Mint) {
		p.metrics.RecordEventDeduped()
		return nil
	}

	if err := p.enqueuer.PublishMessage(ctx, MsgScoreAndRoute, e); err != nil {
		p.metrics.RecordError("pipeline_enqueue")
		select {
		case p.bufCh <- e:
		default:
			p.metrics.RecordError("pipeline_buffer_full")
		}
		return fmt.Errorf("pipeline enqueue: %w", err)
	}
	return nil
}
