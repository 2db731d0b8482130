package di

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/repository"
	mid "Sentinel/internal/middleware"
	internalrepo "Sentinel/internal/repository"
	"Sentinel/internal/service/metadata"
	"Sentinel/internal/service/notify"
	"Sentinel/internal/service/pumpportal"
	"Sentinel/internal/service/social"
	"Sentinel/internal/services/scoring"
	"Sentinel/internal/usecase"
	"Sentinel/pkg/cache"
	pkgch "Sentinel/pkg/clickhouse"
	"Sentinel/pkg/config"
	pkgkafka "Sentinel/pkg/kafka"
	"Sentinel/pkg/logger"
	"Sentinel/pkg/metrics"
	"Sentinel/pkg/queue"
	"Sentinel/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	format := "json"
	level := "info"
	if cfg.Environment == "development" {
		format = "console"
		level = "debug"
	}
	return logger.New(&logger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideRedisCache creates the shared Redis client.
func ProvideRedisCache(cfg *config.Config) (*cache.RedisCache, error) {
	c, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return c, nil
}

// ProvideCacheService exposes the Redis client as the cache interface.
func ProvideCacheService(c *cache.RedisCache) cache.Service {
	return c
}

// ProvideClickHouseClient creates a ClickHouse client and applies the schema.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideStorage creates the ClickHouse storage repository.
func ProvideStorage(chClient *pkgch.Client) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), internalrepo.EventsTable, internalrepo.AlertsTable)
}

// ProvideKafkaProducer creates a Kafka producer. Nil when no brokers are
// configured; the signal fan-out is then disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvidePublisher creates the signals publisher. Nil without a producer.
func ProvidePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.SignalsTopic, cfg.Scoring.Thresholds.Secondary)
}

// ProvideKafkaConsumer creates the replay consumer. Nil when replay is off.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if !cfg.Kafka.Replay.Enabled {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Replay.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Replay.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Replay.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Replay.RetryMax, cfg.Kafka.Replay.BackoffMin, cfg.Kafka.Replay.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Replay.DLQTopic),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideScorer builds the composite scorer from config.
func ProvideScorer(cfg *config.Config) *scoring.Scorer {
	w := cfg.Scoring.Weights
	return scoring.NewScorer(
		scoring.WithWeights(scoring.Weights{
			Liquidity: w.Liquidity,
			Volume:    w.Volume,
			Holders:   w.Holders,
			Social:    w.Social,
			Momentum:  w.Momentum,
			Recency:   w.Recency,
		}),
		scoring.WithTiers(
			tierTable(cfg.Scoring.Tiers.Liquidity),
			tierTable(cfg.Scoring.Tiers.Volume),
			tierTable(cfg.Scoring.Tiers.Holders),
		),
		scoring.WithPenaltyPerFlag(cfg.Scoring.PenaltyPerFlag),
		scoring.WithDenylist(cfg.Scoring.Denylist),
		scoring.WithSocialRequired(cfg.Scoring.SocialRequired),
	)
}

// tierTable converts configured tier rules; empty config keeps the defaults.
func tierTable(rules []config.TierRule) []scoring.Tier {
	if len(rules) == 0 {
		return nil
	}
	tiers := make([]scoring.Tier, len(rules))
	for i, r := range rules {
		tiers[i] = scoring.Tier{Min: r.Min, Score: r.Score}
	}
	return tiers
}

// ProvideDeduper creates the ingest deduper.
func ProvideDeduper(c cache.Service, cfg *config.Config, log *logger.Logger) repository.Deduper {
	return internalrepo.NewCacheDeduper(c, cfg.Pipeline.DedupWindow, log)
}

// ProvideDeliveryGuard creates the alert delivery guard.
func ProvideDeliveryGuard(c cache.Service, cfg *config.Config) repository.DeliveryGuard {
	return internalrepo.NewCacheDeliveryGuard(c, cfg.Pipeline.InFlightTTL, cfg.Pipeline.DeliveryTTL)
}

// ProvideNotifiers builds the configured channels in priority order:
// slack first, then discord, then telegram.
func ProvideNotifiers(cfg *config.Config) []repository.Notifier {
	var notifiers []repository.Notifier
	if cfg.Alerts.Slack.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.Alerts.Slack.WebhookURL, cfg.Alerts.Timeout))
	}
	if cfg.Alerts.Discord.WebhookURL != "" {
		notifiers = append(notifiers, notify.NewDiscordNotifier(cfg.Alerts.Discord.WebhookURL, cfg.Alerts.Timeout))
	}
	if cfg.Alerts.Telegram.BotToken != "" && cfg.Alerts.Telegram.ChatID != "" {
		notifiers = append(notifiers, notify.NewTelegramNotifier(cfg.Alerts.Telegram.BotToken, cfg.Alerts.Telegram.ChatID, cfg.Alerts.Timeout))
	}
	return notifiers
}

// ProvideAlertRouter creates the alert router.
func ProvideAlertRouter(
	guard repository.DeliveryGuard,
	storage repository.Storage,
	m repository.Metrics,
	log *logger.Logger,
	notifiers []repository.Notifier,
	cfg *config.Config,
) *usecase.AlertRouter {
	t := cfg.Scoring.Thresholds
	return usecase.NewAlertRouter(guard, storage, m, log, notifiers, t.Primary, t.Secondary, t.Urgent)
}

// ProvideMetadataEnricher creates the metadata client.
func ProvideMetadataEnricher(cfg *config.Config, log *logger.Logger) usecase.MetadataEnricher {
	return metadata.NewClient(cfg, log)
}

// ProvideSocialScorer creates the cached social score reader.
func ProvideSocialScorer(c cache.Service, log *logger.Logger) usecase.SocialScorer {
	return social.NewReader(c, log)
}

// ProvideScoreAndRouteJob creates the pipeline worker job.
func ProvideScoreAndRouteJob(
	scorer *scoring.Scorer,
	enricher usecase.MetadataEnricher,
	socialScorer usecase.SocialScorer,
	router *usecase.AlertRouter,
	storage repository.Storage,
	publisher repository.Publisher,
	m repository.Metrics,
	log *logger.Logger,
) *usecase.ScoreAndRouteJob {
	return usecase.NewScoreAndRouteJob(scorer, enricher, socialScorer, router, storage, publisher, m, log)
}

// ProvideQueue creates the Redis-backed work queue with the worker job
// registered. The same queue instance publishes and consumes.
func ProvideQueue(log *logger.Logger, cfg *config.Config, c *cache.RedisCache, job *usecase.ScoreAndRouteJob) *queue.RedisQueue {
	q := queue.NewRedisQueue(log, &queue.QueueConfig{
		Workers:    cfg.Pipeline.Workers,
		QueueSize:  cfg.Pipeline.QueueSize,
		RetryLimit: cfg.Pipeline.RetryLimit,
		RetryDelay: cfg.Pipeline.RetryDelay,
	}, c.Client(), queue.ModeProducerConsumer)
	q.RegisterJob(job)
	return q
}

// ProvideEventValidator creates the frame validator.
func ProvideEventValidator(cfg *config.Config) *mid.EventValidator {
	return mid.NewEventValidator(cfg.Pipeline.MintMinLen, cfg.Pipeline.MintMaxLen)
}

// ProvideIngestPipeline assembles the validate-dedup-enqueue stage.
func ProvideIngestPipeline(
	validator *mid.EventValidator,
	deduper repository.Deduper,
	q *queue.RedisQueue,
	m repository.Metrics,
	cfg *config.Config,
) *mid.IngestPipeline {
	return mid.NewIngestPipeline(validator, deduper, q, m,
		mid.WithPreFilter(cfg.Pipeline.MinMarketCap, cfg.Pipeline.MinInitialBuy),
		mid.WithBufferSize(cfg.Pipeline.QueueSize),
	)
}

// ProvideLaunchStream creates the PumpPortal WebSocket stream.
func ProvideLaunchStream(cfg *config.Config) repository.LaunchStream {
	return pumpportal.New(
		cfg.PumpPortal.APIKey,
		cfg.PumpPortal.WebSocketURL,
		cfg.PumpPortal.ReconnectDelay,
		cfg.PumpPortal.PingInterval,
	)
}

// ProvideEventCollector creates the stream collector.
func ProvideEventCollector(stream repository.LaunchStream, pipe *mid.IngestPipeline, m repository.Metrics) *usecase.EventCollector {
	return usecase.NewEventCollector(stream, pipe, m)
}

// ProvideReplayHandler creates the Kafka replay handler.
func ProvideReplayHandler(cfg *config.Config, pipe *mid.IngestPipeline) *usecase.KafkaEventsHandler {
	return usecase.NewKafkaEventsHandler(cfg.Kafka.Replay.Topic, pipe)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	collector *usecase.EventCollector,
	q *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	replay *usecase.KafkaEventsHandler,
	storage repository.Storage,
	chClient *pkgch.Client,
	redisCache *cache.RedisCache,
	producer *pkgkafka.Producer,
) *server.App {
	return server.New(cfg, log, collector, q, consumer, replay, storage, chClient, redisCache, producer)
}
