package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mind-engage/quizforge/internal/generate"
)

// Enqueuer hands generation requests to the background worker.
type Enqueuer interface {
	EnqueueGenerate(ctx context.Context, req generate.Request) (string, error)
}

type QueuedResponse struct {
	Message string `json:"message"`
	TaskID  string `json:"task_id"`
}

// POST /generate[?async=1]  { "context": "...", "numQuestions": 5 }
//
// The synchronous form returns the generated quiz without saving it. The
// async form queues a job that saves the quiz when it is done.
func GenerateHandler(gen generate.Service, jobs Enqueuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generate.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		req, err := req.Normalize()
		if err != nil {
			writeError(w, err)
			return
		}

		if r.URL.Query().Get("async") == "1" {
			if jobs == nil {
				http.Error(w, "background jobs are not configured", http.StatusServiceUnavailable)
				return
			}
			id, err := jobs.EnqueueGenerate(r.Context(), req)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, http.StatusAccepted, QueuedResponse{Message: "Generation queued", TaskID: id})
			return
		}

		if gen == nil {
			writeError(w, generate.ErrNotConfigured)
			return
		}
		q, err := gen.Generate(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}
