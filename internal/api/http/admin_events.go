package http

import (
	"context"
	"net/http"
	"strconv"

	syncx "github.com/mind-engage/quizforge/internal/sync"
)

// EventFeed reads the event log. *syncx.EventRepo implements it.
type EventFeed interface {
	Since(ctx context.Context, seq int64, limit int) ([]syncx.Event, error)
}

// GET /admin/events?since=SEQ&limit=N
func ListEventsHandler(feed EventFeed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		since, _ := strconv.ParseInt(r.URL.Query().Get("since"), 10, 64)
		limit := parseIntDefault(r.URL.Query().Get("limit"), 100)
		if limit > 1000 {
			limit = 1000
		}
		list, err := feed.Since(r.Context(), since, limit)
		if err != nil {
			writeError(w, err)
			return
		}
		if list == nil {
			list = []syncx.Event{}
		}
		writeJSON(w, http.StatusOK, list)
	}
}
