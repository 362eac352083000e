package auth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	authmw "github.com/mind-engage/quizforge/internal/auth/middleware"
)

const guestCookie = "qf_guest_id"

// GuestLoginHandler issues a player token. A browser that already holds a
// guest cookie keeps its identity; otherwise a new one is minted.
func GuestLoginHandler(a *authmw.AuthService, enabled bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !enabled {
			http.Error(w, "guest auth disabled", http.StatusForbidden)
			return
		}

		userID := ""
		if c, err := r.Cookie(guestCookie); err == nil && strings.HasPrefix(c.Value, "guest|") {
			userID = c.Value
		}
		if userID == "" {
			userID = "guest|" + uuid.NewString()
		}
		username := "guest-" + userID[len(userID)-6:]

		tok, err := a.IssueJWT(userID, authmw.RolePlayer)
		if err != nil {
			http.Error(w, "issue token", http.StatusInternalServerError)
			return
		}
		// refresh TTL on every login
		http.SetCookie(w, &http.Cookie{
			Name:     guestCookie,
			Value:    userID,
			Path:     "/",
			HttpOnly: true,
			Secure:   true,
			SameSite: http.SameSiteNoneMode,
			Expires:  time.Now().Add(30 * 24 * time.Hour),
		})
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(authmw.TokenResponse{AccessToken: tok, Username: username, Role: authmw.RolePlayer})
	}
}
