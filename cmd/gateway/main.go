package main

import (
	"context"
	"log"
	"net/http"
	"time"

	api "github.com/mind-engage/quizforge/internal/api/http"
	auth "github.com/mind-engage/quizforge/internal/auth/middleware"
	"github.com/mind-engage/quizforge/internal/config"
	"github.com/mind-engage/quizforge/internal/db"
	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/jobs"
	"github.com/mind-engage/quizforge/internal/quiz"
	storage "github.com/mind-engage/quizforge/internal/storage"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// --- Store ---
	var (
		store  quiz.Store
		events syncx.Recorder = syncx.Discard
		feed   api.EventFeed
		ready  func(context.Context) error
	)
	if cfg.DBDriver == "memory" {
		store = quiz.NewMemoryStore()
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		dbh, err := db.Open(ctx, db.Driver(cfg.DBDriver), cfg.DBDSN)
		cancel()
		if err != nil {
			log.Fatalf("db open failed: %v", err)
		}
		defer dbh.Close()
		store = quiz.NewSQLStore(dbh, db.Driver(cfg.DBDriver))
		repo := syncx.NewEventRepo(dbh, "")
		events, feed = repo, repo
		ready = dbh.PingContext
	}

	bs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	// --- Generation (optional) ---
	var gen generate.Service
	if g, err := generate.New(generate.Options{
		APIKey:  cfg.OpenRouterAPIKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Model:   cfg.GenerateModel,
		Referer: cfg.GenerateReferer,
		Title:   cfg.GenerateTitle,
	}); err == nil {
		gen = g
	} else {
		log.Printf("quiz generation disabled: %v", err)
	}

	// --- Background jobs (optional) ---
	var enq api.Enqueuer
	if cfg.RedisURL != "" && gen != nil {
		jm, err := jobs.NewManager(cfg.RedisURL)
		if err != nil {
			log.Fatalf("jobs: %v", err)
		}
		jm.RegisterHandlers(gen, store, events)
		if err := jm.Start(); err != nil {
			log.Fatalf("jobs start: %v", err)
		}
		defer jm.Stop()
		enq = jm
	}

	r := api.NewRouter(api.Deps{
		Store:        store,
		Blobs:        bs,
		Events:       events,
		Gen:          gen,
		Jobs:         enq,
		Feed:         feed,
		Auth:         auth.NewAuthService(cfg.AuthHMACSecret),
		Admin:        auth.Admin{User: cfg.AdminUser, PassHash: cfg.AdminPassHash},
		GuestAuth:    cfg.EnableGuestAuth,
		CORSOrigins:  cfg.CORSOrigins(),
		MockExamSize: cfg.MockExamSize,
		Ready:        ready,
	})

	s := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("listening on %s (mode=%s, db=%s)", cfg.HTTPAddr, cfg.Mode, cfg.DBDriver)
	log.Fatal(s.ListenAndServe())
}
