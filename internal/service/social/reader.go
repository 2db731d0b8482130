package social

import (
	"context"
	"errors"
	"fmt"

	"Sentinel/pkg/cache"
	"Sentinel/pkg/logger"
)

// Reader returns the externally computed social score for a mint. A
// separate crawler writes "social:<mint>" keys; tokens without a key
// score zero.
type Reader struct {
	cache cache.Service
	log   *logger.Logger
}

func NewReader(c cache.Service, log *logger.Logger) *Reader {
	return &Reader{cache: c, log: log}
}

func (r *Reader) Score(ctx context.Context, mint string) float64 {
	var score float64
	err := r.cache.Get(ctx, fmt.Sprintf("social:%s", mint), &score)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) && r.log != nil {
			r.log.Debug("social score read failed",
				logger.String("mint", mint),
				logger.Error(err))
		}
		return 0
	}
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
