package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	authmw "github.com/mind-engage/quizforge/internal/auth/middleware"
	"github.com/mind-engage/quizforge/internal/quiz"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

// POST /quizzes/{quizID}/attempts  { "score": 3, "total": 5 }
func RecordAttemptHandler(store quiz.Store, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Score *int `json:"score"`
			Total *int `json:"total"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.Score == nil || req.Total == nil {
			http.Error(w, "missing score or total", http.StatusBadRequest)
			return
		}
		if *req.Score < 0 || *req.Total < 0 || *req.Score > *req.Total {
			http.Error(w, "score must be between 0 and total", http.StatusBadRequest)
			return
		}

		player := authmw.SubjectFromContext(r.Context())
		rec, err := store.RecordAttempt(r.Context(), chi.URLParam(r, "quizID"), player, quiz.Attempt{Score: *req.Score, Total: *req.Total})
		if err != nil {
			writeError(w, err)
			return
		}
		syncx.Emit(r.Context(), events, syncx.EventAttemptRecorded, rec.QuizID, rec)
		writeJSON(w, http.StatusCreated, rec)
	}
}

// GET /attempts  -> { "<quizID>": { "score": .., "total": .. } }
func LatestAttemptsHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest, err := store.LatestAttempts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, latest)
	}
}
