package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/texdrill-api/internal/api/shared"
	"github.com/phrazzld/texdrill-api/internal/mocks"
	"github.com/stretchr/testify/require"
)

// testDeps holds the mocks behind a test router.
type testDeps struct {
	users    *mocks.MockUserService
	lessons  *mocks.MockLessonService
	reviews  *mocks.MockReviewService
	jwt      *mocks.MockJWTService
	password *mocks.MockPasswordVerifier
}

func newTestDeps() *testDeps {
	return &testDeps{
		users:    &mocks.MockUserService{},
		lessons:  &mocks.MockLessonService{},
		reviews:  &mocks.MockReviewService{},
		jwt:      &mocks.MockJWTService{Token: "access", RefreshToken: "refresh"},
		password: &mocks.MockPasswordVerifier{ShouldSucceed: true},
	}
}

// withUser stands in for the auth middleware. uuid.Nil leaves the request
// unauthenticated.
func withUser(userID uuid.UUID) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID != uuid.Nil {
				r = r.WithContext(shared.WithUserID(r.Context(), userID))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (d *testDeps) router(userID uuid.UUID) http.Handler {
	authHandler := NewAuthHandler(d.users, d.jwt, d.password)
	lessonHandler := NewLessonHandler(d.lessons)
	practiceHandler := NewPracticeHandler(d.reviews)
	reviewHandler := NewReviewHandler(d.reviews)
	userHandler := NewUserHandler(d.reviews)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Post("/practice/check", practiceHandler.Check)

		r.Group(func(r chi.Router) {
			r.Use(withUser(userID))
			r.Get("/lessons", lessonHandler.ListLessons)
			r.Get("/lessons/{id}", lessonHandler.GetLesson)
			r.Get("/lessons/{id}/progress", lessonHandler.GetProgress)
			r.Post("/lessons/{id}/complete", lessonHandler.CompleteLesson)
			r.Post("/practice/submit", practiceHandler.SubmitAttempt)
			r.Post("/practice/hint", practiceHandler.RequestHint)
			r.Get("/reviews/due", reviewHandler.ListDue)
			r.Get("/reviews/stats", reviewHandler.Stats)
			r.Post("/users/me/reset", userHandler.ResetData)
		})
	})
	return r
}

func doRequest(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func doRequestWithUser(
	t *testing.T,
	h http.HandlerFunc,
	userID uuid.UUID,
	method, path string,
) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req = req.WithContext(shared.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
