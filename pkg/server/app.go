package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"Sentinel/internal/domain/repository"
	"Sentinel/internal/handler/api"
	"Sentinel/internal/usecase"
	"Sentinel/pkg/cache"
	pkgch "Sentinel/pkg/clickhouse"
	"Sentinel/pkg/config"
	xhttp "Sentinel/pkg/http"
	pkgkafka "Sentinel/pkg/kafka"
	applogger "Sentinel/pkg/logger"
	"Sentinel/pkg/queue"
)

// App encapsulates the entire application lifecycle: the WebSocket
// collector, the Redis work queue, the optional Kafka replay consumer,
// and the operational HTTP API.
type App struct {
	cfg         *config.Config
	log         *applogger.Logger
	collector   *usecase.EventCollector
	queue       *queue.RedisQueue
	consumer    *pkgkafka.Consumer
	replay      *usecase.KafkaEventsHandler
	storage     repository.Storage
	chClient    *pkgch.Client
	redisCache  *cache.RedisCache
	producer    *pkgkafka.Producer
	httpServer  *xhttp.Server
	httpHandler xhttp.Handler
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	collector *usecase.EventCollector,
	q *queue.RedisQueue,
	consumer *pkgkafka.Consumer,
	replay *usecase.KafkaEventsHandler,
	storage repository.Storage,
	chClient *pkgch.Client,
	redisCache *cache.RedisCache,
	producer *pkgkafka.Producer,
) *App {
	return &App{
		cfg:        cfg,
		log:        log,
		collector:  collector,
		queue:      q,
		consumer:   consumer,
		replay:     replay,
		storage:    storage,
		chClient:   chClient,
		redisCache: redisCache,
		producer:   producer,
	}
}

// SetHTTPHandler allows tests to inject an HTTP handler.
func (a *App) SetHTTPHandler(h xhttp.Handler) { a.httpHandler = h }

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := a.httpHandler
	if handler == nil {
		handler = api.NewStatusHandler(a.log, a.storage, a.collector)
	}
	a.httpServer = xhttp.NewServer(handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)

	// Workers first so enqueued events drain from the start
	if err := a.queue.Start(); err != nil {
		return err
	}

	go func() {
		if err := a.collector.Start(ctx); err != nil {
			a.log.Error("collector error", applogger.Error(err))
		}
	}()
	a.log.Info("collector started", applogger.String("ws_url", a.cfg.PumpPortal.WebSocketURL))

	if a.consumer != nil && a.replay != nil {
		a.consumer.RegisterHandler(a.replay)
		go func() {
			if err := a.consumer.Start(); err != nil {
				a.log.Error("kafka consumer error", applogger.Error(err))
			}
		}()
		a.log.Info("replay consumer started", applogger.String("topic", a.replay.Topic()))
	}

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown(ctx)
}

// shutdown stops services in ingest order: sources first, then workers,
// then the API, then infrastructure clients.
func (a *App) shutdown(ctx context.Context) error {
	if err := a.collector.Shutdown(ctx); err != nil {
		a.log.Warn("collector stop error", applogger.Error(err))
	}

	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	stopCtx, cancel := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.queue.Stop(stopCtx); err != nil {
		a.log.Warn("queue stop error", applogger.Error(err))
	}

	shutdownCtx, cancelHTTP := context.WithTimeout(ctx, a.cfg.Server.ShutdownTimeout)
	defer cancelHTTP()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", applogger.Error(err))
		}
	}
	if a.chClient != nil {
		if err := a.chClient.Close(); err != nil {
			a.log.Warn("clickhouse close error", applogger.Error(err))
		}
	}
	if a.redisCache != nil {
		if err := a.redisCache.Close(); err != nil {
			a.log.Warn("redis close error", applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
