package uploads

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultTTL           = time.Hour
	DefaultCleanInterval = 10 * time.Minute
)

// StartCleaner sweeps uploads older than ttl every interval until ctx is done.
func StartCleaner(ctx context.Context, sweeper Sweeper, interval, ttl time.Duration, logger zerolog.Logger) {
	if sweeper == nil {
		return
	}
	if interval <= 0 {
		interval = DefaultCleanInterval
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	go cleanupLoop(ctx, sweeper, interval, ttl, logger)
}

func cleanupLoop(ctx context.Context, sweeper Sweeper, interval, ttl time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sweepOnce(ctx, sweeper, ttl, logger)
		}
	}
}

func sweepOnce(ctx context.Context, sweeper Sweeper, ttl time.Duration, logger zerolog.Logger) {
	n, err := sweeper.Sweep(ctx, time.Now().Add(-ttl))
	if err != nil {
		logger.Error().Err(err).Msg("sweep expired uploads")
		return
	}
	if n > 0 {
		logger.Info().Int("removed", n).Msg("swept expired uploads")
	}
}
