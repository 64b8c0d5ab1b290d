package poll

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	corelogger "github.com/kilianp07/driverboard/core/logger"
)

// Config defines the refresh cadence.
type Config struct {
	IntervalSeconds int `json:"interval_seconds"`
}

// SetDefaults applies the standard one-minute cadence.
func (c *Config) SetDefaults() {
	if c.IntervalSeconds <= 0 {
		c.IntervalSeconds = 60
	}
}

// Fetch is one upstream refresh action executed every cycle. Actions in
// a cycle run concurrently and fail independently; an error in one never
// aborts the others.
type Fetch struct {
	Name string
	Run  func(ctx context.Context) error
}

// State mirrors the client-visible poll state. Countdown is display-only
// and never influences when a fetch actually runs.
type State struct {
	LastRun   time.Time `json:"last_run"`
	NextRun   time.Time `json:"next_run"`
	Countdown int       `json:"countdown"`
}

// Poller runs the fetch set immediately, re-aligns to the top of the
// next wall-clock minute (computed once at startup), then repeats at the
// configured cadence until stopped. Exactly one repeating timer exists
// per Poller; Stop releases the alignment timer, the repeating ticker
// and the countdown ticker.
type Poller struct {
	interval time.Duration
	fetches  []Fetch
	now      func() time.Time
	log      corelogger.Logger

	mu    sync.Mutex
	state State

	stop     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
	done     chan struct{}
}

// New builds a Poller. now supplies every instant the poller reads, so
// tests can drive it without a wall clock.
func New(cfg Config, now func() time.Time, log corelogger.Logger, fetches ...Fetch) *Poller {
	cfg.SetDefaults()
	if now == nil {
		now = time.Now
	}
	return &Poller{
		interval: time.Duration(cfg.IntervalSeconds) * time.Second,
		fetches:  fetches,
		now:      now,
		log:      log,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// NextMinute returns the top of the minute strictly after t.
func NextMinute(t time.Time) time.Time {
	return t.Truncate(time.Minute).Add(time.Minute)
}

// Run executes the poll loop until the context is canceled or Stop is
// called. It blocks; callers usually run it in its own goroutine.
func (p *Poller) Run(ctx context.Context) {
	p.started.Store(true)
	defer close(p.done)

	p.runCycle(ctx)

	start := p.now()
	alignAt := NextMinute(start)
	align := time.NewTimer(alignAt.Sub(start))
	defer align.Stop()
	countdown := time.NewTicker(time.Second)
	defer countdown.Stop()
	p.setNextRun(alignAt)

	var ticker *time.Ticker
	var tickC <-chan time.Time
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-align.C:
			p.runCycle(ctx)
			p.setNextRun(p.now().Add(p.interval))
			ticker = time.NewTicker(p.interval)
			tickC = ticker.C
		case <-tickC:
			p.runCycle(ctx)
			p.setNextRun(p.now().Add(p.interval))
		case <-countdown.C:
			// Cosmetic only. Updating the countdown must never
			// trigger a fetch or shift the schedule.
			p.refreshCountdown()
		}
	}
}

// Stop cancels the loop and releases all timers. It is idempotent and
// returns once the loop has exited.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	if p.started.Load() {
		<-p.done
	}
}

// State returns a copy of the current poll state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Poller) runCycle(ctx context.Context) {
	cycle := uuid.NewString()
	started := p.now()
	var wg sync.WaitGroup
	for _, f := range p.fetches {
		wg.Add(1)
		go func(f Fetch) {
			defer wg.Done()
			if err := f.Run(ctx); err != nil {
				p.log.Errorf("cycle %s: %s fetch: %v", cycle, f.Name, err)
			}
		}(f)
	}
	// All fetches complete or fail before the next cycle may start.
	wg.Wait()
	p.mu.Lock()
	p.state.LastRun = started
	p.mu.Unlock()
	p.log.Debugw("cycle complete", map[string]any{
		"cycle":    cycle,
		"duration": p.now().Sub(started).String(),
	})
}

func (p *Poller) setNextRun(at time.Time) {
	p.mu.Lock()
	p.state.NextRun = at
	p.state.Countdown = remaining(at, p.now())
	p.mu.Unlock()
}

func (p *Poller) refreshCountdown() {
	p.mu.Lock()
	p.state.Countdown = remaining(p.state.NextRun, p.now())
	p.mu.Unlock()
}

func remaining(next, now time.Time) int {
	if next.IsZero() || !next.After(now) {
		return 0
	}
	return int(next.Sub(now).Round(time.Second) / time.Second)
}
