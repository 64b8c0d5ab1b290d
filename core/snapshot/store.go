package snapshot

import (
	"sync"
	"time"

	"github.com/kilianp07/driverboard/core/model"
)

// Snapshot is the last successfully fetched view of the day. BlocksAt
// and RowsAt record when each half was refreshed; zero values mean the
// poller has not completed that fetch yet.
type Snapshot struct {
	Date     string               `json:"date"`
	ByDriver model.DriverSchedule `json:"byDriver"`
	Rows     []model.TaskRow      `json:"rows"`
	BlocksAt time.Time            `json:"blocksAt"`
	RowsAt   time.Time            `json:"rowsAt"`
}

// Stale reports whether the older half of the snapshot is older than
// maxAge at the supplied instant. An empty snapshot is always stale.
func (s Snapshot) Stale(now time.Time, maxAge time.Duration) bool {
	oldest := s.BlocksAt
	if s.RowsAt.Before(oldest) {
		oldest = s.RowsAt
	}
	return oldest.IsZero() || now.Sub(oldest) > maxAge
}

// Updated is published on the event bus after a refresh lands in the
// store.
type Updated struct {
	Snap Snapshot
}

// Store retains the last good snapshot. A failed fetch never clears it.
type Store interface {
	SetBlocks(date string, byDriver model.DriverSchedule, at time.Time)
	SetRows(rows []model.TaskRow, at time.Time)
	Get() Snapshot
}

// MemoryStore is the in-process Store implementation. Returned values
// share the stored map and slice; callers treat them as read-only.
type MemoryStore struct {
	mu  sync.RWMutex
	cur Snapshot
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) SetBlocks(date string, byDriver model.DriverSchedule, at time.Time) {
	s.mu.Lock()
	s.cur.Date = date
	s.cur.ByDriver = byDriver
	s.cur.BlocksAt = at
	s.mu.Unlock()
}

func (s *MemoryStore) SetRows(rows []model.TaskRow, at time.Time) {
	s.mu.Lock()
	s.cur.Rows = rows
	s.cur.RowsAt = at
	s.mu.Unlock()
}

func (s *MemoryStore) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
