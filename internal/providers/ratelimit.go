package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"waugzee/internal/logger"
)

// RateLimiter enforces the per-adapter min_interval floor between the start
// of consecutive outgoing requests (§4.1). Grounded on the teacher's
// discogsRateLimiter.service.go sliding-window gate, simplified from a
// capacity-per-window counter to a single last-request-timestamp floor,
// which is all the spec calls for. The state is a plain string key holding
// the start time of the last request, not a sorted set.
type RateLimiter struct {
	cache      valkey.Client
	log        logger.Logger
	adapter    string
	minInterval time.Duration
}

// NewRateLimiter builds a gate for one adapter name, keyed so that
// different adapters never contend on the same valkey key (rate-limit
// state is explicitly not shared across adapters, per §5).
func NewRateLimiter(cache valkey.Client, adapterName string, minInterval time.Duration) *RateLimiter {
	return &RateLimiter{
		cache:       cache,
		log:         logger.New("providers").File("ratelimit").Function(adapterName),
		adapter:     adapterName,
		minInterval: minInterval,
	}
}

func (r *RateLimiter) key() string {
	return fmt.Sprintf("ratelimit:%s:last", r.adapter)
}

// Wait blocks until minInterval has elapsed since the last call start for
// this adapter, then records the new call start. Serializes per adapter;
// different adapters never block each other.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r.minInterval <= 0 {
		return nil
	}

	for {
		now := time.Now()

		getCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		lastStr, err := r.cache.Do(getCtx, r.cache.B().Get().Key(r.key()).Build()).ToString()
		cancel()

		var wait time.Duration
		if err == nil && lastStr != "" {
			if lastNanos, parseErr := parseUnixNano(lastStr); parseErr == nil {
				elapsed := now.Sub(time.Unix(0, lastNanos))
				if elapsed < r.minInterval {
					wait = r.minInterval - elapsed
				}
			}
		}

		if wait <= 0 {
			setCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			setErr := r.cache.Do(setCtx, r.cache.B().Set().Key(r.key()).
				Value(formatUnixNano(now.UnixNano())).Ex(r.minInterval*10).Build()).Error()
			cancel()
			if setErr != nil {
				r.log.Warn("failed to record rate limiter timestamp", "error", setErr)
			}
			return nil
		}

		r.log.Debug("throttling outgoing request", "adapter", r.adapter, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

func formatUnixNano(n int64) string {
	return fmt.Sprintf("%d", n)
}

func parseUnixNano(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscanf(s, "%d", &n)
	return n, err
}
