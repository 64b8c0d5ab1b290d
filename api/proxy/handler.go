package proxy

import (
	"net/http"

	"github.com/kilianp07/driverboard/api"
	"github.com/kilianp07/driverboard/infra/logger"
	"github.com/kilianp07/driverboard/infra/upstream"
)

// NewSheetProxyHandler forwards GET/POST bodies to the upstream macro
// endpoint, echoing its status code and body. The dashboard calls this
// path cross-origin, so responses carry permissive CORS headers and
// OPTIONS preflights short-circuit with 204.
func NewSheetProxyHandler(client *upstream.Client) http.Handler {
	log := logger.New("sheet-proxy")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodPost {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		status, body, err := client.Forward(r.Context(), r.Method, r.Body)
		if err != nil {
			log.Errorf("forward: %v", err)
			api.WriteError(w, http.StatusInternalServerError, "proxy failed")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if _, err := w.Write(body); err != nil {
			log.Errorf("write response: %v", err)
		}
	})
}
