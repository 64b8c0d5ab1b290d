package auth

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/kilianp07/driverboard/api"
	"github.com/kilianp07/driverboard/core/session"
)

// The driver view is gated by a single shared credential pair for the
// whole roster. This is the intended trust model for a small internal
// tool, not a placeholder for user management.
const (
	loginUser = "logs"
	loginPass = "logs9191"
)

// NewLoginHandler handles POST /api/login. A successful login sets the
// HTTP-only session cookie; any failure is a generic 401.
func NewLoginHandler(sessions *session.Service, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			api.WriteError(w, http.StatusBadRequest, "missing credentials")
			return
		}
		if creds.Username == "" || creds.Password == "" {
			api.WriteError(w, http.StatusBadRequest, "missing credentials")
			return
		}
		if creds.Username != loginUser || creds.Password != loginPass {
			api.WriteError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		token := sessions.Issue(session.RoleDriver, now())
		http.SetCookie(w, &http.Cookie{
			Name:     session.CookieName,
			Value:    token,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   int(session.TTL.Seconds()),
		})
		api.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
}
