// Package poller fetches contest standings on a fixed interval.
//
// Readiness polls the final leaderboard until at least one entry has a
// positive score, then releases its retry. Live refreshes the general
// leaderboard forever. Both guarantee:
//
//   - at most one fetch in flight; ticks arriving mid-fetch are skipped
//   - at most one retry held, acquired and released through one handle
//   - nothing is applied after Stop, including a fetch that was in flight
package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

// Fixed poll intervals.
const (
	ReadinessInterval = 5 * time.Second
	LiveInterval      = 30 * time.Second
)

// Fetcher returns the current standings.
type Fetcher func(ctx context.Context) (leaderboard.RankedList, error)

// Options configures a poller. Zero values select defaults.
type Options struct {
	Interval  time.Duration
	Scheduler Scheduler
	Logger    *zap.Logger
	OnChange  func(Snapshot)
	// OnStop runs once, after Stop has released the retry.
	OnStop    func()
}

// core serializes fetches and owns the retry handle. Concrete pollers supply
// apply, which runs with mu held after every non-stale fetch.
type core struct {
	name     string
	fetch    Fetcher
	sched    Scheduler
	interval time.Duration
	log      *zap.Logger
	apply    func(list leaderboard.RankedList, err error) Snapshot
	onChange func(Snapshot)
	onStop   func()

	mu       sync.Mutex
	ctx      context.Context
	retry    Cancel // non-nil iff a retry is held
	gen      uint64
	started  bool
	inFlight bool
	stopped  bool
}

func (c *core) init(name string, fetch Fetcher, defaultInterval time.Duration, opts Options) {
	c.name = name
	c.fetch = fetch
	c.sched = opts.Scheduler
	c.interval = opts.Interval
	c.log = opts.Logger
	c.onChange = opts.OnChange
	c.onStop = opts.OnStop
	if c.sched == nil {
		c.sched = TickerScheduler{}
	}
	if c.interval <= 0 {
		c.interval = defaultInterval
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	c.log = c.log.With(zap.String("poller", name))
}

// begin marks the poller started and keeps ctx for fetches.
// It reports false if the poller was already started or stopped.
func (c *core) begin(ctx context.Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.stopped {
		return false
	}
	c.started = true
	c.ctx = ctx
	context.AfterFunc(ctx, c.Stop)
	return true
}

// poll runs one fetch unless one is already running or the poller stopped.
func (c *core) poll() {
	c.mu.Lock()
	if c.stopped || !c.started {
		c.mu.Unlock()
		return
	}
	if c.inFlight {
		c.mu.Unlock()
		c.log.Debug("tick skipped, fetch in flight")
		return
	}
	c.inFlight = true
	gen, ctx := c.gen, c.ctx
	c.mu.Unlock()

	started := time.Now()
	list, err := c.fetch(ctx)
	c.complete(gen, list, err, time.Since(started))
}

func (c *core) complete(gen uint64, list leaderboard.RankedList, err error, took time.Duration) {
	c.mu.Lock()
	if gen != c.gen || c.stopped {
		c.mu.Unlock()
		c.log.Debug("discarding stale fetch result", zap.Uint64("generation", gen))
		return
	}
	c.inFlight = false
	if err != nil {
		c.log.Warn("fetch failed", zap.Error(err), zap.Duration("took", took))
	} else {
		c.log.Debug("fetch complete", zap.Int("entries", len(list)), zap.Duration("took", took))
	}
	snap := c.apply(list, err)
	onChange := c.onChange
	c.mu.Unlock()

	if onChange != nil {
		onChange(snap)
	}
}

// acquireRetry schedules the repeating poll unless one is held. Requires mu.
func (c *core) acquireRetry() {
	if c.retry != nil {
		return
	}
	c.log.Debug("retry scheduled", zap.Duration("interval", c.interval))
	c.retry = c.sched.Every(c.interval, c.poll)
}

// releaseRetry cancels the held retry, if any. Requires mu.
func (c *core) releaseRetry() {
	if c.retry == nil {
		return
	}
	c.log.Debug("retry cancelled")
	c.retry()
	c.retry = nil
}

// Stop cancels any pending retry. A fetch already in flight is left to
// finish and its result is discarded. It is safe to call more than once.
func (c *core) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	c.gen++
	c.releaseRetry()
	onStop := c.onStop
	c.mu.Unlock()

	if onStop != nil {
		onStop()
	}
}

// Refresh fetches now unless a fetch is already in flight.
func (c *core) Refresh() {
	go c.poll()
}

// Stopped reports whether Stop has been called.
func (c *core) Stopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}
