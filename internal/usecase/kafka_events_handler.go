package usecase

import (
	"context"

	mid "Sentinel/internal/middleware"
	pkgkafka "Sentinel/pkg/kafka"
)

// SourceReplay tags events re-ingested from Kafka.
const SourceReplay = "kafka_replay"

// KafkaEventsHandler re-ingests creation events from a Kafka topic
// (backfill/replay) through the same validate-dedup-enqueue path as the
// live stream.
type KafkaEventsHandler struct {
	topic string
	pipe  *mid.IngestPipeline
}

func NewKafkaEventsHandler(topic string, pipe *mid.IngestPipeline) *KafkaEventsHandler {
	return &KafkaEventsHandler{topic: topic, pipe: pipe}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	return h.pipe.Process(ctx, b, SourceReplay)
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)
