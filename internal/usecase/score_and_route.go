package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	"Sentinel/internal/middleware"
	"Sentinel/internal/services/scoring"
	"Sentinel/pkg/logger"
	"Sentinel/pkg/queue"
)

// MetadataEnricher fills metadata fields the feed frame lacks.
type MetadataEnricher interface {
	Enrich(ctx context.Context, e *models.TokenEvent)
}

// SocialScorer reads an externally computed social score for a mint.
type SocialScorer interface {
	Score(ctx context.Context, mint string) float64
}

// ScoreAndRouteJob is the per-event worker: enrich, score, persist, fan out,
// route. It runs on the Redis queue; transient failures are retried by the
// queue's retry schedule, permanent ones go straight to the DLQ.
type ScoreAndRouteJob struct {
	scorer    *scoring.Scorer
	enricher  MetadataEnricher
	social    SocialScorer
	router    *AlertRouter
	storage   domrepo.Storage
	publisher domrepo.Publisher
	metrics   domrepo.Metrics
	log       *logger.Logger
}

// NewScoreAndRouteJob creates the pipeline worker job. enricher, social, and
// publisher may be nil when the corresponding integration is not configured.
func NewScoreAndRouteJob(
	scorer *scoring.Scorer,
	enricher MetadataEnricher,
	social SocialScorer,
	router *AlertRouter,
	storage domrepo.Storage,
	publisher domrepo.Publisher,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *ScoreAndRouteJob {
	return &ScoreAndRouteJob{
		scorer:    scorer,
		enricher:  enricher,
		social:    social,
		router:    router,
		storage:   storage,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
}

func (j *ScoreAndRouteJob) Name() string { return "score_and_route" }

func (j *ScoreAndRouteJob) Type() string { return middleware.MsgScoreAndRoute }

func (j *ScoreAndRouteJob) Handle(ctx context.Context, payload interface{}) error {
	e, err := queue.ParsePayload[models.TokenEvent](payload)
	if err != nil {
		// malformed payloads cannot become valid by retrying
		return errors.Join(queue.ErrNoRetry, fmt.Errorf("parse event payload: %w", err))
	}

	start := time.Now()

	if j.enricher != nil {
		j.enricher.Enrich(ctx, e)
	}
	if j.social != nil {
		e.SocialScore = j.social.Score(ctx, e.Mint)
	}

	scored := j.scorer.Score(e, time.Now())
	j.metrics.RecordScore(scored.Score)
	j.log.Info("event scored",
		logger.String("mint", e.Mint),
		logger.String("symbol", e.Symbol),
		logger.Float64("score", scored.Score),
		logger.Strings("risk_flags", scored.RiskFlags))

	if err := j.storage.StoreEvent(ctx, scored); err != nil {
		j.metrics.RecordError("store_event")
		return fmt.Errorf("store event %s: %w", e.Mint, err)
	}

	// fan-out is best effort: a Kafka outage must not block alerting
	if j.publisher != nil {
		if err := j.publisher.Publish(ctx, scored); err != nil {
			j.metrics.RecordError("signal_publish")
			j.log.Warn("signal publish failed",
				logger.String("mint", e.Mint),
				logger.Error(err))
		}
	}

	attempt, err := j.router.Route(ctx, scored)
	if err != nil {
		if models.IsPermanent(err) {
			return errors.Join(queue.ErrNoRetry, err)
		}
		return fmt.Errorf("route %s: %w", e.Mint, err)
	}

	j.metrics.RecordLatency("score_and_route", time.Since(start).Seconds())
	j.log.Info("event routed",
		logger.String("mint", e.Mint),
		logger.String("outcome", string(attempt.Outcome)),
		logger.Strings("channels", attempt.Delivered))
	return nil
}

var _ queue.Job = (*ScoreAndRouteJob)(nil)
