package usecase

import (
	"context"

	domrepo "Sentinel/internal/domain/repository"
	mid "Sentinel/internal/middleware"
)

// SourceLive tags events read from the venue WebSocket.
const SourceLive = "pumpportal"

// EventCollector reads the launch stream and feeds frames into the ingest
// pipeline.
type EventCollector struct {
	stream  domrepo.LaunchStream
	pipe    *mid.IngestPipeline
	metrics domrepo.Metrics
}

// NewEventCollector creates a new EventCollector instance.
func NewEventCollector(stream domrepo.LaunchStream, pipe *mid.IngestPipeline, metrics domrepo.Metrics) *EventCollector {
	return &EventCollector{stream: stream, pipe: pipe, metrics: metrics}
}

// IsConnected returns true if the launch stream is connected.
func (c *EventCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *EventCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	c.pipe.Start(ctx)
	frames, errs := c.stream.Read(ctx)
	go c.consume(ctx, frames, errs)
	return nil
}

func (c *EventCollector) consume(ctx context.Context, frames <-chan []byte, errs <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				// the read loop closed its channels; a nil channel
				// never fires, so the frames case drains what is left
				errs = nil
				continue
			}
			if err == nil {
				continue
			}
			c.metrics.RecordError("stream")
			frames, errs = c.reopen(ctx)
			if frames == nil {
				return
			}
		case b, ok := <-frames:
			if !ok {
				frames = nil
				if errs == nil {
					// both ends gone without a reported error
					frames, errs = c.reopen(ctx)
					if frames == nil {
						return
					}
				}
				continue
			}
			if b == nil {
				continue
			}
			_ = c.pipe.Process(ctx, b, SourceLive)
		}
	}
}

// reopen reconnects the stream and restarts the read loop. Returns nil
// channels only when the context is cancelled.
func (c *EventCollector) reopen(ctx context.Context) (<-chan []byte, <-chan error) {
	for {
		if ctx.Err() != nil {
			return nil, nil
		}
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream_reconnect")
			continue
		}
		return c.stream.Read(ctx)
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *EventCollector) Shutdown(ctx context.Context) error {
	c.pipe.Stop()
	return c.stream.Close()
}
