package repository

import (
	"context"
	"time"

	"Sentinel/internal/domain/models"
)

// LaunchStream is a live feed of token creation events.
type LaunchStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan []byte, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Deduper remembers which mints have been seen inside the ingest window.
type Deduper interface {
	// MarkSeen reports true when the mint was not seen before and is now
	// marked. Fails open: infrastructure errors are swallowed and treated
	// as unseen.
	MarkSeen(ctx context.Context, mint string) bool
}

// DeliveryGuard arbitrates alert delivery between concurrent routers.
type DeliveryGuard interface {
	AlreadyDelivered(ctx context.Context, mint string) (bool, error)
	AcquireInFlight(ctx context.Context, mint string) (bool, error)
	ReleaseInFlight(ctx context.Context, mint string) error
	RecordDelivered(ctx context.Context, mint string) error
}

// Publisher fans scored events out to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, s *models.ScoredToken) error
	Close() error
}

// Storage persists scored events and alert audit rows.
type Storage interface {
	Init(ctx context.Context) error
	StoreEvent(ctx context.Context, s *models.ScoredToken) error
	StoreAlert(ctx context.Context, a *models.AlertAttempt, channel string) error
	RecentEvents(ctx context.Context, from, to time.Time, minScore float64, limit int) ([]*models.ScoredToken, error)
	OutcomeCounts(ctx context.Context, since time.Time) (map[string]uint64, error)
	Health(ctx context.Context) error
	Close() error
}

// Notifier delivers one alert to one channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, s *models.ScoredToken, urgent bool) error
}

// Metrics is the pipeline's instrumentation surface.
type Metrics interface {
	RecordEventReceived(source string)
	RecordEventRejected(reason string)
	RecordEventDeduped()
	RecordScore(score float64)
	RecordOutcome(outcome string)
	RecordChannelDelivery(channel, status string)
	RecordError(kind string)
	RecordLatency(op string, seconds float64)
}
