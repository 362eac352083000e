// Package jobs runs quiz generation in the background on a Redis-backed
// asynq queue.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"

	"github.com/mind-engage/quizforge/internal/generate"
	"github.com/mind-engage/quizforge/internal/quiz"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

const TypeGenerateQuiz = "quiz:generate"

type Manager struct {
	client *asynq.Client
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewManager(redisURL string) (*Manager, error) {
	redisOpt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis url: %w", err)
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 4,
		Queues: map[string]int{
			"default": 1,
		},
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			log.Printf("job failed: type=%s error=%v", task.Type(), err)
		}),
		Logger: &AsynqLogger{},
	})

	return &Manager{
		client: asynq.NewClient(redisOpt),
		server: server,
		mux:    asynq.NewServeMux(),
	}, nil
}

func (m *Manager) RegisterHandlers(gen generate.Service, store quiz.Store, events syncx.Recorder) {
	m.mux.HandleFunc(TypeGenerateQuiz, HandleGenerate(gen, store, events))
}

// Start runs the worker in the background.
func (m *Manager) Start() error {
	log.Println("starting job worker")
	return m.server.Start(m.mux)
}

func (m *Manager) Stop() {
	log.Println("stopping job worker")
	m.server.Shutdown()
	_ = m.client.Close()
}

// EnqueueGenerate queues a generation request and returns the task id.
func (m *Manager) EnqueueGenerate(ctx context.Context, req generate.Request) (string, error) {
	task, err := NewGenerateTask(req)
	if err != nil {
		return "", err
	}
	info, err := m.client.EnqueueContext(ctx, task,
		asynq.MaxRetry(2),
		asynq.Timeout(2*time.Minute),
	)
	if err != nil {
		return "", fmt.Errorf("enqueue %s: %w", TypeGenerateQuiz, err)
	}
	log.Printf("queued generate job: id=%s questions=%d", info.ID, req.NumQuestions)
	return info.ID, nil
}

func NewGenerateTask(req generate.Request) (*asynq.Task, error) {
	req, err := req.Normalize()
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeGenerateQuiz, b), nil
}

// HandleGenerate generates a quiz and saves it. Replies that do not decode
// into a valid quiz are not retried.
func HandleGenerate(gen generate.Service, store quiz.Store, events syncx.Recorder) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var req generate.Request
		if err := json.Unmarshal(task.Payload(), &req); err != nil {
			return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
		}
		q, err := gen.Generate(ctx, req)
		if errors.Is(err, quiz.ErrMalformedQuiz) || errors.Is(err, generate.ErrNoContent) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		if err != nil {
			return err
		}
		saved, err := store.PutQuiz(ctx, q)
		if err != nil {
			return err
		}
		syncx.Emit(ctx, events, syncx.EventQuizCreated, saved.ID, map[string]any{"name": saved.Name, "source": "generate"})
		log.Printf("generated quiz %s (%q, %d questions)", saved.ID, saved.Name, len(saved.Questions))
		return nil
	}
}

type AsynqLogger struct{}

func (l *AsynqLogger) Debug(args ...interface{}) {}

func (l *AsynqLogger) Info(args ...interface{}) {
	log.Print(args...)
}

func (l *AsynqLogger) Warn(args ...interface{}) {
	log.Print(append([]interface{}{"WARN "}, args...)...)
}

func (l *AsynqLogger) Error(args ...interface{}) {
	log.Print(append([]interface{}{"ERROR "}, args...)...)
}

func (l *AsynqLogger) Fatal(args ...interface{}) {
	log.Fatal(args...)
}
