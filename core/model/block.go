package model

// Block represents one task assignment for a driver. Start and End carry
// the upstream "HH:MM" zero-padded format, so plain string comparison
// orders them chronologically.
type Block struct {
	Driver string `json:"driver"`
	Start  string `json:"start"`
	End    string `json:"end"`
	Task   string `json:"task"`
}

// DriverSchedule maps a driver label to the day's blocks, sorted ascending
// by start time. Keys are the exact trimmed upstream labels; labels that
// differ only in case are distinct drivers.
type DriverSchedule map[string][]Block

// DayBlocks is the grouped block set for one day as served to clients.
type DayBlocks struct {
	Date     string         `json:"date"`
	ByDriver DriverSchedule `json:"byDriver"`
}

// TaskRow is one live dashboard row: the upstream-designated current and
// next task for a driver, enriched with vehicle, team and availability.
type TaskRow struct {
	Driver      string `json:"driver"`
	Vehicle     string `json:"vehicle"`
	Team        string `json:"team"`
	CurrentTask string `json:"currentTask"`
	TaskPeriod  string `json:"taskPeriod"`
	NextTask    string `json:"nextTask"`
	NextPeriod  string `json:"nextPeriod"`
	Available   bool   `json:"available"`
	RestHours   bool   `json:"restHours"`
}
