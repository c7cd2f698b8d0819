package poller

import (
	"context"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

// Live refreshes the general leaderboard every interval until stopped.
// A failed fetch keeps the last good list.
type Live struct {
	core
	snap Snapshot
}

// NewLive creates a live poller. The interval defaults to LiveInterval.
func NewLive(fetch Fetcher, opts Options) *Live {
	l := &Live{}
	l.init("live", fetch, LiveInterval, opts)
	l.apply = l.handle
	return l
}

// Start fetches immediately and then on every interval.
func (l *Live) Start(ctx context.Context) {
	if !l.begin(ctx) {
		return
	}
	l.mu.Lock()
	if !l.stopped {
		l.acquireRetry()
	}
	l.mu.Unlock()
	go l.poll()
}

// Snapshot returns the current state.
func (l *Live) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap.clone()
}

func (l *Live) handle(list leaderboard.RankedList, err error) Snapshot {
	l.snap.Fetches++
	if err != nil {
		l.snap.Err = err
	} else {
		l.snap.Err = nil
		l.snap.Phase = Ready
		l.snap.Entries = list
	}
	l.snap.Retrying = l.retry != nil
	return l.snap.clone()
}
