package repository

import (
	"context"
	"fmt"
	"time"

	"Sentinel/internal/domain/repository"
	"Sentinel/pkg/cache"
	"Sentinel/pkg/logger"
)

const (
	seenKeyFmt      = "seen:%s"
	deliveredKeyFmt = "alert:delivered:%s"
	inflightKeyFmt  = "alert:inflight:%s"
)

// CacheDeduper implements Deduper on the shared cache. Dedup is best-effort:
// when the cache is unreachable the event passes through, because a missed
// launch costs more than a duplicate alert (delivery has its own guard).
type CacheDeduper struct {
	cache  cache.Service
	window time.Duration
	log    *logger.Logger
}

// NewCacheDeduper creates a deduper with the given seen-window.
func NewCacheDeduper(c cache.Service, window time.Duration, log *logger.Logger) repository.Deduper {
	return &CacheDeduper{cache: c, window: window, log: log}
}

func (d *CacheDeduper) MarkSeen(ctx context.Context, mint string) bool {
	fresh, err := d.cache.SetNX(ctx, fmt.Sprintf(seenKeyFmt, mint), "1", d.window)
	if err != nil {
		if d.log != nil {
			d.log.Warn("dedup check failed, passing event through",
				logger.String("mint", mint),
				logger.Error(err))
		}
		return true
	}
	return fresh
}

// CacheDeliveryGuard implements DeliveryGuard with two markers per mint:
// a long-lived delivery record and a short-lived in-flight lock. Both rely
// on SET NX EX so concurrent routers agree on a single winner.
type CacheDeliveryGuard struct {
	cache       cache.Service
	inflightTTL time.Duration
	deliveryTTL time.Duration
}

// NewCacheDeliveryGuard creates a delivery guard with the given TTLs.
func NewCacheDeliveryGuard(c cache.Service, inflightTTL, deliveryTTL time.Duration) repository.DeliveryGuard {
	return &CacheDeliveryGuard{cache: c, inflightTTL: inflightTTL, deliveryTTL: deliveryTTL}
}

func (g *CacheDeliveryGuard) AlreadyDelivered(ctx context.Context, mint string) (bool, error) {
	return g.cache.Exists(ctx, fmt.Sprintf(deliveredKeyFmt, mint))
}

func (g *CacheDeliveryGuard) AcquireInFlight(ctx context.Context, mint string) (bool, error) {
	return g.cache.TryLock(ctx, fmt.Sprintf(inflightKeyFmt, mint), g.inflightTTL)
}

func (g *CacheDeliveryGuard) ReleaseInFlight(ctx context.Context, mint string) error {
	return g.cache.Unlock(ctx, fmt.Sprintf(inflightKeyFmt, mint))
}

func (g *CacheDeliveryGuard) RecordDelivered(ctx context.Context, mint string) error {
	return g.cache.Set(ctx, fmt.Sprintf(deliveredKeyFmt, mint), time.Now().UTC().Format(time.RFC3339), g.deliveryTTL)
}
