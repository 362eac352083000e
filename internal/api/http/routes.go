package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/quizforge/internal/auth"
	authmw "github.com/mind-engage/quizforge/internal/auth/middleware"
	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/quiz"
	"github.com/mind-engage/quizforge/internal/rbac"
	"github.com/mind-engage/quizforge/internal/storage"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

type Deps struct {
	Store  quiz.Store
	Blobs  storage.BlobStore // optional
	Events syncx.Recorder    // optional
	Gen    generate.Service  // nil when no API key is configured
	Jobs   Enqueuer          // nil when REDIS_URL is unset
	Feed   EventFeed         // nil without a database

	Auth      *authmw.AuthService
	Admin     authmw.Admin
	GuestAuth bool

	CORSOrigins  []string
	MockExamSize int
	Rand         quiz.Rand // nil uses the global source

	// Ready reports whether backing services are reachable.
	Ready func(ctx context.Context) error
}

func NewRouter(d Deps) chi.Router {
	if d.Events == nil {
		d.Events = syncx.Discard
	}
	if d.MockExamSize <= 0 {
		d.MockExamSize = 30
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(90 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Post("/auth/login", authmw.LoginHandler(d.Auth, d.Admin))
	r.Post("/auth/guest", auth.GuestLoginHandler(d.Auth, d.GuestAuth))

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(d.Auth))

		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes", ListQuizzesHandler(d.Store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}", GetQuizHandler(d.Store))
		pr.With(rbac.Require("quiz:view")).
			Get("/quizzes/{quizID}/source", QuizSourceHandler(d.Blobs))
		pr.With(rbac.Require("quiz:delete")).
			Delete("/quizzes/{quizID}", DeleteQuizHandler(d.Store, d.Blobs, d.Events))

		pr.With(rbac.Require("quiz:create")).
			Post("/upload", UploadQuizHandler(d.Store, d.Blobs, d.Events))
		pr.With(rbac.Require("quiz:generate")).
			Post("/generate", GenerateHandler(d.Gen, d.Jobs))
		pr.With(rbac.Require("mock:create")).
			Post("/mock-exam", MockExamHandler(d.Store, d.Events, d.MockExamSize, d.Rand))

		pr.With(rbac.Require("attempt:record")).
			Post("/quizzes/{quizID}/attempts", RecordAttemptHandler(d.Store, d.Events))
		pr.With(rbac.Require("attempt:view")).
			Get("/attempts", LatestAttemptsHandler(d.Store))

		if d.Feed != nil {
			pr.With(rbac.Require("events:view")).
				Get("/admin/events", ListEventsHandler(d.Feed))
		}
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if d.Ready != nil {
			if err := d.Ready(r.Context()); err != nil {
				http.Error(w, "not ready: "+err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	return r
}
