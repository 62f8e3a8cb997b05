package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Counter is a fixed-window request counter
type Counter interface {
	// Incr increments key and returns the new value. The window starts with
	// the first increment.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RedisCounter counts requests in Redis with INCR and EXPIRE NX in one
// MULTI/EXEC, so a counter is never left without a TTL. Needs Redis 7+.
type RedisCounter struct {
	rdb *redis.Client
}

// NewRedisCounter wraps a Redis client
func NewRedisCounter(rdb *redis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

func (c *RedisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	_, err := c.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return incr.Val(), nil
}

// KeyFunc derives the rate limit bucket for a request
type KeyFunc func(r *http.Request) string

// ClientIPKey buckets requests by remote address, method and path
func ClientIPKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "rate:" + host + ":" + r.Method + ":" + r.URL.Path
}

// RateLimiter rejects requests over limit per window with 429. Counter
// failures let the request through so a Redis outage does not take uploads down.
func RateLimiter(counter Counter, limit int, window time.Duration, key KeyFunc, logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			count, err := counter.Incr(r.Context(), key(r), window)
			if err != nil {
				logger.Warn("rate limiter unavailable", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if count > int64(limit) {
				w.Header().Set("Retry-After", strconv.Itoa(int(window.Seconds())))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
