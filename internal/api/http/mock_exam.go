package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mind-engage/quizforge/internal/quiz"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

const (
	mockExamName        = "Mock Exam"
	mockExamDescription = "Randomized mock exam from all topics"
)

// POST /mock-exam  { "numQuestions": 30 }  (body optional)
func MockExamHandler(store quiz.Store, events syncx.Recorder, defaultSize int, rnd quiz.Rand) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			NumQuestions int `json:"numQuestions"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "bad json", http.StatusBadRequest)
			return
		}
		if req.NumQuestions <= 0 {
			req.NumQuestions = defaultSize
		}

		all, err := store.AllQuestions(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if len(all) == 0 {
			http.Error(w, "no questions available", http.StatusBadRequest)
			return
		}

		saved, err := store.PutQuiz(r.Context(), quiz.Quiz{
			Name:        mockExamName,
			Description: mockExamDescription,
			Questions:   quiz.Sample(all, req.NumQuestions, rnd),
		})
		if err != nil {
			writeError(w, err)
			return
		}
		syncx.Emit(r.Context(), events, syncx.EventQuizCreated, saved.ID, map[string]any{"name": saved.Name, "source": "mock-exam"})
		writeJSON(w, http.StatusCreated, CreatedResponse{Message: "Mock exam created", QuizID: saved.ID})
	}
}
