package tasks

import (
	"net/http"
	"time"

	"github.com/kilianp07/driverboard/api"
	"github.com/kilianp07/driverboard/core/model"
	"github.com/kilianp07/driverboard/core/report"
	"github.com/kilianp07/driverboard/core/session"
	"github.com/kilianp07/driverboard/core/snapshot"
	"github.com/kilianp07/driverboard/core/status"
	"github.com/kilianp07/driverboard/infra/logger"
	"github.com/kilianp07/driverboard/infra/upstream"
)

// requireSession verifies the session cookie against the request-time
// clock. Missing, malformed and expired cookies are indistinguishable to
// the caller.
func requireSession(r *http.Request, sessions *session.Service, now time.Time) bool {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return false
	}
	_, err = sessions.Verify(cookie.Value, now)
	return err == nil
}

// NewTasksHandler handles GET /api/tasks: the session-gated live
// per-driver current/next projection.
func NewTasksHandler(sessions *session.Service, client *upstream.Client, cls *status.Classifier, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	log := logger.New("tasks-handler")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		at := now()
		if !requireSession(r, sessions, at) {
			api.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		records, err := client.FetchRows(r.Context())
		if err != nil {
			log.Errorf("fetch rows: %v", err)
			api.WriteError(w, http.StatusInternalServerError, "upstream fetch failed")
			return
		}
		api.WriteJSON(w, http.StatusOK, map[string][]model.TaskRow{
			"rows": cls.Rows(records, at),
		})
	})
}

// NewSummaryHandler handles GET /api/summary: a session-gated fleet
// utilization summary computed from the retained snapshot. An empty
// snapshot yields an empty summary, not an error.
func NewSummaryHandler(sessions *session.Service, store snapshot.Store, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if !requireSession(r, sessions, now()) {
			api.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		snap := store.Get()
		api.WriteJSON(w, http.StatusOK, struct {
			Date        string             `json:"date"`
			AsOf        time.Time          `json:"asOf"`
			Utilization report.Utilization `json:"utilization"`
		}{
			Date:        snap.Date,
			AsOf:        snap.BlocksAt,
			Utilization: report.Summarize(snap.ByDriver),
		})
	})
}
