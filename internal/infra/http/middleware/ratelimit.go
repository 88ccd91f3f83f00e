package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// INCR + EXPIRE atômico: KEYS[1] = contador, ARGV[1] = janela em segundos.
// Retorna {contagem, ttl}.
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

var rateLimitScript = goredis.NewScript(rateLimitLuaScript)

// RateLimiter limita requisições por IP. Usa o Redis quando configurado e cai
// para a contagem em memória se o Redis falhar (fail-open).
type RateLimiter struct {
	redis     *goredis.Client
	limit     int
	window    time.Duration
	keyPrefix string
	log       *zap.Logger

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
	now       func() time.Time
}

type visitor struct {
	count     int
	lastReset time.Time
}

func NewRateLimiter(redisClient *goredis.Client, limit int, window time.Duration, keyPrefix string, log *zap.Logger) *RateLimiter {
	if log == nil {
		log = zap.NewNop()
	}
	return &RateLimiter{
		redis:     redisClient,
		limit:     limit,
		window:    window,
		keyPrefix: keyPrefix,
		log:       log,
		visitors:  make(map[string]*visitor),
		now:       time.Now,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		count, resetAt := rl.hit(r.Context(), ip)

		remaining := rl.limit - count
		if remaining < 0 {
			remaining = 0
		}
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > rl.limit {
			retryAfter := int(resetAt.Sub(rl.now()).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]string{
				"error": "Too many requests. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) hit(ctx context.Context, ip string) (int, time.Time) {
	if rl.redis != nil {
		count, resetAt, err := rl.hitRedis(ctx, rl.keyPrefix+ip)
		if err == nil {
			return count, resetAt
		}
		rl.log.Warn("⚠️ rate limit no redis falhou, usando memória", zap.Error(err))
	}
	return rl.hitMemory(ip)
}

func (rl *RateLimiter) hitRedis(ctx context.Context, key string) (int, time.Time, error) {
	ttlSeconds := int(rl.window.Seconds())
	if ttlSeconds < 1 {
		ttlSeconds = 1
	}

	result, err := rateLimitScript.Run(ctx, rl.redis, []string{key}, ttlSeconds).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)

	return int(count), rl.now().Add(time.Duration(ttl) * time.Second), nil
}

func (rl *RateLimiter) hitMemory(ip string) (int, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	rl.sweep(now)

	v, exists := rl.visitors[ip]
	if !exists || now.Sub(v.lastReset) > rl.window {
		rl.visitors[ip] = &visitor{count: 1, lastReset: now}
		return 1, now.Add(rl.window)
	}

	v.count++
	return v.count, v.lastReset.Add(rl.window)
}

// sweep remove visitantes antigos; chamado com o lock.
func (rl *RateLimiter) sweep(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.window*2 {
		return
	}
	for ip, v := range rl.visitors {
		if now.Sub(v.lastReset) > rl.window*2 {
			delete(rl.visitors, ip)
		}
	}
	rl.lastSweep = now
}

// getClientIP usa só o endereço do socket. X-Forwarded-For e X-Real-IP vêm
// do cliente e não servem de chave; atrás do API Gateway o RemoteAddr já é o
// sourceIp do evento.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
