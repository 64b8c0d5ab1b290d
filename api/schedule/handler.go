package schedule

import (
	"net/http"

	"github.com/kilianp07/driverboard/api"
	"github.com/kilianp07/driverboard/core/model"
	coreschedule "github.com/kilianp07/driverboard/core/schedule"
	"github.com/kilianp07/driverboard/infra/logger"
	"github.com/kilianp07/driverboard/infra/upstream"
)

// NewBlocksHandler handles GET /api/blocks: a read-through of the day's
// full block set, grouped per driver. No session is required. Upstream
// failures surface as an explicit error payload, never a panic.
func NewBlocksHandler(client *upstream.Client) http.Handler {
	log := logger.New("blocks-handler")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			api.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		date, records, err := client.FetchBlocks(r.Context())
		if err != nil {
			log.Errorf("fetch blocks: %v", err)
			api.WriteError(w, http.StatusInternalServerError, "upstream fetch failed")
			return
		}
		byDriver := coreschedule.Group(coreschedule.Normalize(records))
		api.WriteJSON(w, http.StatusOK, model.DayBlocks{Date: date, ByDriver: byDriver})
	})
}
