package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/texdrill-api/internal/api"
	apiMiddleware "github.com/phrazzld/texdrill-api/internal/api/middleware"
	"github.com/phrazzld/texdrill-api/internal/redact"
)

// setupRouter registers middleware and routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.Trace(app.logger))

	authHandler := api.NewAuthHandler(app.userService, app.jwtService, app.passwordVerifier)
	lessonHandler := api.NewLessonHandler(app.lessonService)
	practiceHandler := api.NewPracticeHandler(app.reviewService)
	reviewHandler := api.NewReviewHandler(app.reviewService)
	userHandler := api.NewUserHandler(app.reviewService)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)
	idempotent := apiMiddleware.NewIdempotency(app.idempotencyCache, app.config.Idempotency.TTL())

	r.Route("/api", func(r chi.Router) {
		// Public endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)
		r.Post("/practice/check", practiceHandler.Check)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/lessons", lessonHandler.ListLessons)
			r.Get("/lessons/{id}", lessonHandler.GetLesson)
			r.Get("/lessons/{id}/progress", lessonHandler.GetProgress)
			r.Post("/lessons/{id}/complete", lessonHandler.CompleteLesson)

			r.With(idempotent.Handler).Post("/practice/submit", practiceHandler.SubmitAttempt)
			r.Post("/practice/hint", practiceHandler.RequestHint)

			r.Get("/reviews/due", reviewHandler.ListDue)
			r.Get("/reviews/stats", reviewHandler.Stats)

			r.Post("/users/me/reset", userHandler.ResetData)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", redact.ErrorAttr(err))
		}
	})

	return r
}
