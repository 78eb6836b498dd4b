package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"taxi24/internal/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
	ttl  map[string]time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string]string), ttl: make(map[string]time.Duration)}
}

func (f *fakeStore) Get(_ context.Context, key string) *redis.StringCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch v := value.(type) {
	case []byte:
		f.data[key] = string(v)
	case string:
		f.data[key] = v
	}
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestIdempotency_ReplaysResponse(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	calls := 0

	r := gin.New()
	r.Use(Idempotency(store, logger.Nop()))
	r.POST("/v1/trips", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"call": calls})
	})

	send := func(key string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/trips", nil)
		if key != "" {
			req.Header.Set(idempotencyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	first := send("k1")
	second := send("k1")

	if calls != 1 {
		t.Fatalf("expected handler to run once, ran %d times", calls)
	}
	if second.Code != http.StatusCreated || second.Body.String() != first.Body.String() {
		t.Errorf("expected replay of %d %s, got %d %s", first.Code, first.Body, second.Code, second.Body)
	}
	if second.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected replay marker header")
	}
	if store.ttl["idempotency:POST:/v1/trips:k1"] != idempotencyTTL {
		t.Errorf("unexpected ttl map %v", store.ttl)
	}

	send("")
	send("k2")
	if calls != 3 {
		t.Errorf("expected 3 handler runs, got %d", calls)
	}
}

func TestIdempotency_SkipsServerErrorsAndReads(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	calls := 0

	r := gin.New()
	r.Use(Idempotency(store, logger.Nop()))
	r.PATCH("/v1/trips/:id/complete", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusGatewayTimeout, gin.H{})
	})
	r.GET("/v1/trips", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusOK, gin.H{})
	})

	for i := 0; i < 2; i++ {
		for _, req := range []*http.Request{
			httptest.NewRequest(http.MethodPatch, "/v1/trips/t1/complete", nil),
			httptest.NewRequest(http.MethodGet, "/v1/trips", nil),
		} {
			req.Header.Set(idempotencyHeader, "same")
			r.ServeHTTP(httptest.NewRecorder(), req)
		}
	}

	if calls != 4 {
		t.Errorf("expected every request to reach the handler, got %d", calls)
	}
	if len(store.data) != 0 {
		t.Errorf("expected nothing stored, got %v", store.data)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	r := gin.New()
	r.Use(RequestID())
	r.GET("/health", func(c *gin.Context) {
		seen = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen != "abc-123" || w.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("expected propagated id, got ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if seen == "" || seen == "abc-123" || w.Header().Get(RequestIDHeader) != seen {
		t.Errorf("expected generated id, got ctx=%q header=%q", seen, w.Header().Get(RequestIDHeader))
	}
}

func TestCORSPreflight(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(CORSMiddleware())
	r.POST("/v1/trips", func(c *gin.Context) { c.Status(http.StatusCreated) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/v1/trips", nil))

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing allow origin header")
	}
}
