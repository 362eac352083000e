package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizforge/internal/catalog"
	"github.com/mind-engage/quizforge/internal/quiz"
	"github.com/mind-engage/quizforge/internal/storage"
	syncx "github.com/mind-engage/quizforge/internal/sync"
)

// maxUpload bounds the size of an uploaded quiz file.
const maxUpload = 4 << 20

type CreatedResponse struct {
	Message string `json:"message"`
	QuizID  string `json:"quiz_id"`
}

// GET /quizzes[?page=N]
func ListQuizzesHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := store.ListQuizzes(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		latest, err := store.LatestAttempts(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		list = quiz.WithLastAttempts(list, latest)

		if p := r.URL.Query().Get("page"); p != "" {
			writeJSON(w, http.StatusOK, catalog.Slice(list, parseIntDefault(p, 1), catalog.PageSize))
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// GET /quizzes/{quizID}
func GetQuizHandler(store quiz.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, q)
	}
}

// DELETE /quizzes/{quizID}
func DeleteQuizHandler(store quiz.Store, bs storage.BlobStore, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "quizID")
		if err := store.DeleteQuiz(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		if bs != nil {
			if err := bs.Delete(storage.UploadKey(id)); err != nil {
				log.Printf("delete upload %s: %v", id, err)
			}
		}
		syncx.Emit(r.Context(), events, syncx.EventQuizDeleted, id, map[string]string{"id": id})
		w.WriteHeader(http.StatusNoContent)
	}
}

// POST /upload  (multipart, field "file")
func UploadQuizHandler(store quiz.Store, bs storage.BlobStore, events syncx.Recorder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload)
		f, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()

		raw, err := io.ReadAll(f)
		if err != nil {
			http.Error(w, "read file: "+err.Error(), http.StatusBadRequest)
			return
		}
		var q quiz.Quiz
		if err := json.Unmarshal(raw, &q); err != nil {
			http.Error(w, "bad json: "+err.Error(), http.StatusBadRequest)
			return
		}
		q.ID = ""
		q = quiz.Normalize(q)
		if err := quiz.Validate(q); err != nil {
			writeError(w, err)
			return
		}

		saved, err := store.PutQuiz(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		if bs != nil {
			if _, err := bs.Put(storage.UploadKey(saved.ID), bytes.NewReader(raw)); err != nil {
				log.Printf("archive upload %s: %v", saved.ID, err)
			}
		}
		syncx.Emit(r.Context(), events, syncx.EventQuizCreated, saved.ID, map[string]any{"name": saved.Name, "source": "upload"})
		writeJSON(w, http.StatusCreated, CreatedResponse{Message: "Quiz uploaded", QuizID: saved.ID})
	}
}
