package usecase

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/models"
	domrepo "Sentinel/internal/domain/repository"
	"Sentinel/pkg/logger"
)

// AlertRouter decides whether a scored event becomes an alert and delivers
// it. Exactly one router wins per mint: a short-lived in-flight lock guards
// the send, a long-lived delivery record suppresses repeats.
type AlertRouter struct {
	guard     domrepo.DeliveryGuard
	storage   domrepo.Storage
	metrics   domrepo.Metrics
	log       *logger.Logger
	notifiers []domrepo.Notifier

	primary   float64
	secondary float64
	urgent    float64
}

// NewAlertRouter creates a router with ascending thresholds. Notifier order
// determines send order; the first notifier is the primary channel.
func NewAlertRouter(
	guard domrepo.DeliveryGuard,
	storage domrepo.Storage,
	metrics domrepo.Metrics,
	log *logger.Logger,
	notifiers []domrepo.Notifier,
	primary, secondary, urgent float64,
) *AlertRouter {
	return &AlertRouter{
		guard:     guard,
		storage:   storage,
		metrics:   metrics,
		log:       log,
		notifiers: notifiers,
		primary:   primary,
		secondary: secondary,
		urgent:    urgent,
	}
}

// Route runs one routing pass. The returned attempt always carries a
// terminal outcome; the error is non-nil only when the pass should be
// retried (all channels failed or the guard was unreachable).
func (r *AlertRouter) Route(ctx context.Context, s *models.ScoredToken) (*models.AlertAttempt, error) {
	attempt := &models.AlertAttempt{
		Mint:   s.Event.Mint,
		Symbol: s.Event.Symbol,
		Score:  s.Score,
		At:     time.Now().UTC(),
	}

	if s.Score < r.primary {
		return r.finish(ctx, attempt, models.OutcomeBelowThreshold), nil
	}

	delivered, err := r.guard.AlreadyDelivered(ctx, s.Event.Mint)
	if err != nil {
		return attempt, models.Transient(fmt.Errorf("delivery check: %w", err))
	}
	if delivered {
		return r.finish(ctx, attempt, models.OutcomeDeduped), nil
	}

	acquired, err := r.guard.AcquireInFlight(ctx, s.Event.Mint)
	if err != nil {
		return attempt, models.Transient(fmt.Errorf("acquire in-flight: %w", err))
	}
	if !acquired {
		return r.finish(ctx, attempt, models.OutcomeInFlight), nil
	}
	defer func() {
		if err := r.guard.ReleaseInFlight(ctx, s.Event.Mint); err != nil {
			r.log.Warn("release in-flight failed, lock will expire",
				logger.String("mint", s.Event.Mint),
				logger.Error(err))
		}
	}()

	// the lock is ours; the delivery record may have appeared between the
	// check and the acquire
	if delivered, err := r.guard.AlreadyDelivered(ctx, s.Event.Mint); err == nil && delivered {
		return r.finish(ctx, attempt, models.OutcomeDeduped), nil
	}

	urgent := s.Score >= r.urgent
	for _, n := range r.selectChannels(s.Score) {
		if err := n.Send(ctx, s, urgent); err != nil {
			attempt.Failed = append(attempt.Failed, n.Name())
			r.metrics.RecordChannelDelivery(n.Name(), "error")
			r.log.Warn("channel send failed",
				logger.String("channel", n.Name()),
				logger.String("mint", s.Event.Mint),
				logger.Error(err))
			continue
		}
		attempt.Delivered = append(attempt.Delivered, n.Name())
		r.metrics.RecordChannelDelivery(n.Name(), "ok")
	}

	// partial success still counts as delivered; failed channels are not
	// replayed, the audit trail records the gap
	if len(attempt.Delivered) > 0 {
		if err := r.guard.RecordDelivered(ctx, s.Event.Mint); err != nil {
			r.log.Error("record delivery failed, duplicates possible",
				logger.String("mint", s.Event.Mint),
				logger.Error(err))
		}
		attempt.Outcome = models.OutcomeDelivered
		r.metrics.RecordOutcome(string(attempt.Outcome))
		r.audit(ctx, attempt)
		return attempt, nil
	}

	attempt.Outcome = models.OutcomeFailed
	r.metrics.RecordOutcome(string(attempt.Outcome))
	r.audit(ctx, attempt)
	return attempt, models.Transient(fmt.Errorf("all channels failed for %s", s.Event.Mint))
}

// selectChannels returns the notifiers the score qualifies for, preserving
// registration order.
func (r *AlertRouter) selectChannels(score float64) []domrepo.Notifier {
	n := 0
	switch {
	case score >= r.urgent:
		n = 3
	case score >= r.secondary:
		n = 2
	case score >= r.primary:
		n = 1
	}
	if n > len(r.notifiers) {
		n = len(r.notifiers)
	}
	return r.notifiers[:n]
}

func (r *AlertRouter) finish(ctx context.Context, attempt *models.AlertAttempt, outcome models.Outcome) *models.AlertAttempt {
	attempt.Outcome = outcome
	r.metrics.RecordOutcome(string(outcome))
	r.audit(ctx, attempt)
	return attempt
}

// audit persists the attempt: one row per delivered channel, or a single
// channel-less row for terminal non-delivery outcomes. Best effort.
func (r *AlertRouter) audit(ctx context.Context, attempt *models.AlertAttempt) {
	if r.storage == nil {
		return
	}

	channels := attempt.Delivered
	if len(channels) == 0 {
		channels = []string{""}
	}
	for _, ch := range channels {
		if err := r.storage.StoreAlert(ctx, attempt, ch); err != nil {
			r.metrics.RecordError("alert_audit")
			r.log.Warn("alert audit write failed",
				logger.String("mint", attempt.Mint),
				logger.Error(err))
		}
	}
}
