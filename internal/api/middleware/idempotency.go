package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/idempotency"
	"github.com/phrazzld/texdrill-api/internal/platform/logger"
	"github.com/phrazzld/texdrill-api/internal/redact"
)

// Idempotency headers.
const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 255
)

// Idempotency replays the stored response of a request whose
// Idempotency-Key was seen before within the TTL. Keys are scoped to the
// authenticated user, so it must run after Authenticate. Requests without
// the header pass through untouched.
type Idempotency struct {
	cache idempotency.Cache
	ttl   time.Duration
	locks *keyLocks
	now   func() time.Time
}

// NewIdempotency creates the middleware.
func NewIdempotency(cache idempotency.Cache, ttl time.Duration) *Idempotency {
	if cache == nil {
		panic("cache cannot be nil")
	}
	return &Idempotency{cache: cache, ttl: ttl, locks: newKeyLocks(), now: time.Now}
}

// Handler wraps next.
func (m *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if key == "" {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxIdempotencyKeyLen {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Idempotency-Key is too long")
			return
		}

		userID, ok := shared.UserIDFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, shared.MaxRequestBodyBytes))
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))
		hash := requestHash(r, body)

		cacheKey := userID.String() + ":" + key
		unlock := m.locks.lock(cacheKey)
		defer unlock()

		log := logger.FromContext(r.Context())
		ctx := r.Context()

		entry, found, err := m.cache.Get(ctx, cacheKey)
		if err != nil {
			log.Warn("idempotency lookup failed, handling request normally", redact.ErrorAttr(err))
		}
		if found {
			if entry.RequestHash != hash {
				shared.RespondWithError(w, r, http.StatusUnprocessableEntity,
					"Idempotency-Key was already used for a different request")
				return
			}
			log.Debug("replaying stored response", slog.String("idempotency_key", key))
			if entry.ContentType != "" {
				w.Header().Set("Content-Type", entry.ContentType)
			}
			w.Header().Set(ReplayedHeader, "true")
			w.WriteHeader(entry.Status)
			_, _ = w.Write(entry.Body)
			return
		}

		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status >= http.StatusInternalServerError {
			return
		}
		err = m.cache.Set(ctx, cacheKey, idempotency.Entry{
			Status:      rec.status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
			RequestHash: hash,
			StoredAt:    m.now().UTC(),
		}, m.ttl)
		if err != nil {
			log.Warn("failed to store idempotent response", redact.ErrorAttr(err))
		}
	})
}

func requestHash(r *http.Request, body []byte) string {
	h := sha256.New()
	h.Write([]byte(r.Method))
	h.Write([]byte{0})
	h.Write([]byte(r.URL.Path))
	h.Write([]byte{0})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// responseRecorder copies the status and body while writing through.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	body        bytes.Buffer
	wroteHeader bool
}

func (r *responseRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(p []byte) (int, error) {
	r.wroteHeader = true
	r.body.Write(p)
	return r.ResponseWriter.Write(p)
}

// keyLocks serializes requests that share a key within this process.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*refLock)}
}

func (k *keyLocks) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &refLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
