package status

import (
	"strings"
	"time"

	"github.com/kilianp07/driverboard/core/fleet"
	"github.com/kilianp07/driverboard/core/model"
	"github.com/kilianp07/driverboard/core/schedule"
)

// Rest window bounds in local hours. From RestStartHour up to midnight
// and from midnight until RestEndHour every driver is forced unavailable
// regardless of the raw task text.
const (
	RestStartHour = 23
	RestEndHour   = 6
)

// RestLabel replaces the current task text during the rest window.
const RestLabel = "Unavailable (Rest Hours)"

// Placeholder is shown for any cell upstream left empty.
const Placeholder = "—"

// IsRest reports whether now falls inside the nightly rest window. The
// caller supplies the instant; the classifier never reads a clock.
func IsRest(now time.Time) bool {
	h := now.Hour()
	return h >= RestStartHour || h < RestEndHour
}

// IsAvailable reports whether a task text marks the driver available.
// Only an exact case-insensitive match counts: "Available now" is busy.
func IsAvailable(task string) bool {
	return strings.EqualFold(task, "available")
}

// Classifier turns raw upstream dashboard records into display rows.
type Classifier struct {
	fleet *fleet.Resolver
}

// NewClassifier returns a Classifier using the given fleet resolver.
func NewClassifier(r *fleet.Resolver) *Classifier {
	return &Classifier{fleet: r}
}

// Row classifies a single upstream record against the supplied instant.
// The upstream sheet already designates the current and next task for
// each driver; the classifier only derives the availability state and
// enriches the row with vehicle and team data. Missing cells fall back
// to the placeholder, never an error.
func (c *Classifier) Row(rec map[string]any, now time.Time) model.TaskRow {
	driver := schedule.Field(rec, "Driver")
	cur := schedule.Field(rec, "Current Task")
	row := model.TaskRow{
		Driver:     orPlaceholder(driver),
		Vehicle:    c.fleet.Vehicle(driver),
		Team:       c.fleet.Team(driver),
		TaskPeriod: orPlaceholder(schedule.Field(rec, "Task Period")),
		NextTask:   orPlaceholder(schedule.Field(rec, "Next Task")),
		NextPeriod: orPlaceholder(schedule.Field(rec, "Next Task Period")),
	}
	if IsRest(now) {
		row.CurrentTask = RestLabel
		row.RestHours = true
		return row
	}
	row.CurrentTask = orPlaceholder(cur)
	row.Available = IsAvailable(cur)
	return row
}

// Rows classifies every record against the same instant.
func (c *Classifier) Rows(recs []map[string]any, now time.Time) []model.TaskRow {
	rows := make([]model.TaskRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, c.Row(rec, now))
	}
	return rows
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}
