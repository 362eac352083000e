package http

import (
	"errors"
	"io"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/quizforge/internal/storage"
)

// GET /quizzes/{quizID}/source  -> the file the quiz was uploaded from
func QuizSourceHandler(bs storage.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bs == nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(storage.UploadKey(chi.URLParam(r, "quizID")))
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, storage.ErrInvalidKey) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			writeError(w, err)
			return
		}
		defer rc.Close()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.Copy(w, rc)
	}
}
