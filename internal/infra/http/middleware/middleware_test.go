package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusCreated)
})

func doRequest(h http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leads", nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// TestRateLimiterMemory - 429 depois do limite, por IP
func TestRateLimiterMemory(t *testing.T) {
	rl := NewRateLimiter(nil, 2, time.Minute, "rl:lead:", nil)
	h := rl.Handler(okHandler)

	assert.Equal(t, http.StatusCreated, doRequest(h, "1.1.1.1").Code)
	assert.Equal(t, http.StatusCreated, doRequest(h, "1.1.1.1").Code)
	rec := doRequest(h, "1.1.1.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusCreated, doRequest(h, "2.2.2.2").Code)
}

// TestRateLimiterMemoryWindowReset - janela nova zera a contagem
func TestRateLimiterMemoryWindowReset(t *testing.T) {
	now := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(nil, 1, time.Minute, "rl:lead:", nil)
	rl.now = func() time.Time { return now }
	h := rl.Handler(okHandler)

	assert.Equal(t, http.StatusCreated, doRequest(h, "1.1.1.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "1.1.1.1").Code)

	now = now.Add(2 * time.Minute)
	assert.Equal(t, http.StatusCreated, doRequest(h, "1.1.1.1").Code)
}

// TestRateLimiterRedis - contador compartilhado no Redis com TTL
func TestRateLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	h := NewRateLimiter(client, 2, time.Minute, "rl:lead:", nil).Handler(okHandler)

	doRequest(h, "3.3.3.3")
	doRequest(h, "3.3.3.3")
	rec := doRequest(h, "3.3.3.3")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	val, err := mr.Get("rl:lead:3.3.3.3")
	require.NoError(t, err)
	assert.Equal(t, "3", val)
	assert.Equal(t, time.Minute, mr.TTL("rl:lead:3.3.3.3"))
}

// TestRateLimiterRedisDownFailsOpen - Redis fora cai para memória
func TestRateLimiterRedisDownFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	h := NewRateLimiter(client, 1, time.Minute, "rl:lead:", nil).Handler(okHandler)

	assert.Equal(t, http.StatusCreated, doRequest(h, "4.4.4.4").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(h, "4.4.4.4").Code)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.0.9:5555"
	assert.Equal(t, "192.168.0.9", getClientIP(req))

	// headers do cliente não mudam a chave
	req.Header.Set("X-Real-IP", "8.8.8.8")
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	assert.Equal(t, "192.168.0.9", getClientIP(req))
}

// TestRateLimiterIgnoresForwardedFor - trocar o X-Forwarded-For a cada
// requisição do mesmo socket não escapa do limite
func TestRateLimiterIgnoresForwardedFor(t *testing.T) {
	h := NewRateLimiter(nil, 2, time.Minute, "rl:lead:", nil).Handler(okHandler)

	accepted := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/leads", nil)
		req.RemoteAddr = "9.9.9.9:5555"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusCreated {
			accepted++
		}
	}

	assert.Equal(t, 2, accepted)
}

// TestMetricsUsesRoutePattern - label de path é o padrão da rota
func TestMetricsUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Metrics)
	r.Get("/things/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "418"))
	req := httptest.NewRequest(http.MethodGet, "/things/42", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/things/{id}", "418"))

	assert.Equal(t, before+1, after)
}

func TestFunnelRecorder(t *testing.T) {
	before := testutil.ToFloat64(leadsCaptured.WithLabelValues("false"))
	FunnelRecorder{}.LeadCaptured(false)
	assert.Equal(t, before+1, testutil.ToFloat64(leadsCaptured.WithLabelValues("false")))

	beforeErr := testutil.ToFloat64(integrationErrors.WithLabelValues("dentalink"))
	FunnelRecorder{}.IntegrationError("dentalink")
	assert.Equal(t, beforeErr+1, testutil.ToFloat64(integrationErrors.WithLabelValues("dentalink")))
}

// TestRequestLogger - uma linha por requisição com status
func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(okHandler)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/leads", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "request", entry.Message)
	assert.EqualValues(t, http.StatusCreated, entry.ContextMap()["status"])
}
