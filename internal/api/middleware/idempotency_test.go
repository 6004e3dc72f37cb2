package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/idempotency"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCache struct{}

func (failingCache) Get(context.Context, string) (idempotency.Entry, bool, error) {
	return idempotency.Entry{}, false, errors.New("redis down")
}

func (failingCache) Set(context.Context, string, idempotency.Entry, time.Duration) error {
	return errors.New("redis down")
}

func (failingCache) Close() error { return nil }

func newMemoryCache(t *testing.T) *idempotency.MemoryCache {
	t.Helper()
	c, err := idempotency.NewMemoryCache(time.Hour, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

// countingHandler returns 201 with a body that includes the call number.
func countingHandler(calls *int32) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call":` + string(rune('0'+n)) + `}`))
	})
}

func submitRequest(userID uuid.UUID, key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/practice/submit", strings.NewReader(body))
	if key != "" {
		req.Header.Set(IdempotencyKeyHeader, key)
	}
	return req.WithContext(shared.WithUserID(req.Context(), userID))
}

func TestIdempotency_ReplaysStoredResponse(t *testing.T) {
	t.Parallel()

	var calls int32
	h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))
	userID := uuid.New()

	first := httptest.NewRecorder()
	h.ServeHTTP(first, submitRequest(userID, "k1", `{"user_answer":"x"}`))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, submitRequest(userID, "k1", `{"user_answer":"x"}`))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, "application/json", second.Header().Get("Content-Type"))
	assert.Equal(t, "true", second.Header().Get(ReplayedHeader))
	assert.Empty(t, first.Header().Get(ReplayedHeader))
}

func TestIdempotency_KeysAreScopedPerUser(t *testing.T) {
	t.Parallel()

	var calls int32
	h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))

	h.ServeHTTP(httptest.NewRecorder(), submitRequest(uuid.New(), "shared", `{}`))
	h.ServeHTTP(httptest.NewRecorder(), submitRequest(uuid.New(), "shared", `{}`))

	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestIdempotency_RejectsKeyReuseWithDifferentBody(t *testing.T) {
	t.Parallel()

	var calls int32
	h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))
	userID := uuid.New()

	h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "k", `{"user_answer":"x"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, submitRequest(userID, "k", `{"user_answer":"y"}`))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestIdempotency_PassThrough(t *testing.T) {
	t.Parallel()

	t.Run("no key", func(t *testing.T) {
		t.Parallel()
		var calls int32
		h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))
		userID := uuid.New()
		h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "", `{}`))
		h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "", `{}`))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("server errors are not stored", func(t *testing.T) {
		t.Parallel()
		var calls int32
		failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(http.StatusInternalServerError)
		})
		h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(failing)
		userID := uuid.New()
		h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "k", `{}`))
		h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "k", `{}`))
		assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	})

	t.Run("cache failure fails open", func(t *testing.T) {
		t.Parallel()
		var calls int32
		h := NewIdempotency(failingCache{}, time.Minute).Handler(countingHandler(&calls))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, submitRequest(uuid.New(), "k", `{}`))
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})
}

func TestIdempotency_RequestValidation(t *testing.T) {
	t.Parallel()

	var calls int32
	h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, submitRequest(uuid.New(), strings.Repeat("k", 256), `{}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/practice/submit", strings.NewReader(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "k")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestIdempotency_ConcurrentDuplicatesRunOnce(t *testing.T) {
	t.Parallel()

	var calls int32
	h := NewIdempotency(newMemoryCache(t), time.Minute).Handler(countingHandler(&calls))
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.ServeHTTP(httptest.NewRecorder(), submitRequest(userID, "same", `{"a":1}`))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
