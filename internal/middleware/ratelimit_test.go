package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (c *memoryCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	if c.err != nil {
		return 0, c.err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.counts == nil {
		c.counts = make(map[string]int64)
	}
	c.counts[key]++
	return c.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	handler := RateLimiter(&memoryCounter{}, 2, time.Minute, ClientIPKey, nil)(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf/", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)

		if rr.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", rr.Header().Get("Retry-After"))
			assert.JSONEq(t, `{"error":"Too many requests"}`, rr.Body.String())
		}
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_SeparateClients(t *testing.T) {
	handler := RateLimiter(&memoryCounter{}, 1, time.Minute, ClientIPKey, nil)(okHandler())

	for _, addr := range []string{"10.0.0.1:1", "10.0.0.2:1"} {
		req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf/", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRateLimiter_FailsOpen(t *testing.T) {
	handler := RateLimiter(&memoryCounter{err: errors.New("redis down")}, 0, time.Minute, ClientIPKey, nil)(okHandler())

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/upload-pdf/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestClientIPKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/upload-pdf/", nil)
	req.RemoteAddr = "192.168.1.5:4242"
	assert.Equal(t, "rate:192.168.1.5:POST:/api/upload-pdf/", ClientIPKey(req))

	req.RemoteAddr = "no-port"
	assert.Equal(t, "rate:no-port:POST:/api/upload-pdf/", ClientIPKey(req))
}

// scriptedRedis answers pipelines in place of a server
type scriptedRedis struct {
	count     int64
	expireErr error
	cmds      [][]interface{}
}

func (h *scriptedRedis) DialHook(next redis.DialHook) redis.DialHook          { return next }
func (h *scriptedRedis) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (h *scriptedRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			h.cmds = append(h.cmds, cmd.Args())
			switch c := cmd.(type) {
			case *redis.IntCmd:
				h.count++
				c.SetVal(h.count)
			case *redis.BoolCmd:
				if h.expireErr != nil {
					c.SetErr(h.expireErr)
					return h.expireErr
				}
				c.SetVal(h.count == 1)
			}
		}
		return nil
	}
}

func newScriptedCounter(h *scriptedRedis) *RedisCounter {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	rdb.AddHook(h)
	return NewRedisCounter(rdb)
}

func TestRedisCounter_IncrAndExpireInOneTransaction(t *testing.T) {
	h := &scriptedRedis{}
	counter := newScriptedCounter(h)

	for want := int64(1); want <= 2; want++ {
		count, err := counter.Incr(context.Background(), "rate:k", time.Minute)
		require.NoError(t, err)
		assert.Equal(t, want, count)
	}

	require.Len(t, h.cmds, 8)
	for i := 0; i < len(h.cmds); i += 4 {
		assert.Equal(t, "multi", h.cmds[i][0])
		assert.Equal(t, []interface{}{"incr", "rate:k"}, h.cmds[i+1])
		assert.Equal(t, []interface{}{"expire", "rate:k", int64(60), "NX"}, h.cmds[i+2])
		assert.Equal(t, "exec", h.cmds[i+3][0])
	}
}

func TestRedisCounter_ExpireErrorIsReturned(t *testing.T) {
	h := &scriptedRedis{expireErr: errors.New("READONLY")}
	counter := newScriptedCounter(h)

	_, err := counter.Incr(context.Background(), "rate:k", time.Minute)
	assert.EqualError(t, err, "READONLY")

	handler := RateLimiter(counter, 0, time.Minute, ClientIPKey, nil)(okHandler())
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/upload-pdf/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
