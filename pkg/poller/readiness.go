package poller

import (
	"context"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

// Phase is the readiness of the final standings.
type Phase int

const (
	// Loading: no fetch has succeeded yet.
	Loading Phase = iota
	// Pending: the last successful fetch had no positive scores.
	Pending
	// Ready: at least one entry has a positive score.
	Ready
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	default:
		return "unknown"
	}
}

// Snapshot is a copy of a poller's state, safe to keep after the call.
type Snapshot struct {
	Phase Phase
	// Entries holds the scored entries for Readiness and the full list for Live.
	Entries leaderboard.RankedList
	// Err is the last fetch error, cleared by the next success. Display only.
	Err     error
	Fetches int
	// Retrying reports whether a retry is currently held.
	Retrying bool
}

// Top3 returns the podium entries of the snapshot.
func (s Snapshot) Top3() leaderboard.RankedList {
	return leaderboard.Top3(s.Entries)
}

func (s Snapshot) clone() Snapshot {
	out := s
	if s.Entries != nil {
		out.Entries = append(leaderboard.RankedList(nil), s.Entries...)
	}
	return out
}

// Readiness polls the final leaderboard until scores exist.
type Readiness struct {
	core
	snap Snapshot
}

// NewReadiness creates a readiness poller. The interval defaults to
// ReadinessInterval.
func NewReadiness(fetch Fetcher, opts Options) *Readiness {
	r := &Readiness{}
	r.init("readiness", fetch, ReadinessInterval, opts)
	r.apply = r.handle
	return r
}

// Start issues the first fetch. Later calls are ignored. Cancelling ctx
// stops the poller.
func (r *Readiness) Start(ctx context.Context) {
	if r.begin(ctx) {
		go r.poll()
	}
}

// Snapshot returns the current state.
func (r *Readiness) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snap.clone()
}

// handle applies one fetch outcome. Called with mu held.
func (r *Readiness) handle(list leaderboard.RankedList, err error) Snapshot {
	r.snap.Fetches++
	if err != nil {
		// Phase and retry stay as they are; the next tick, if any, tries again.
		r.snap.Err = err
		r.snap.Retrying = r.retry != nil
		return r.snap.clone()
	}

	r.snap.Err = nil
	scored := leaderboard.Scored(list)
	if len(scored) == 0 {
		r.snap.Phase = Pending
		r.snap.Entries = nil
		r.acquireRetry()
	} else {
		r.snap.Phase = Ready
		r.snap.Entries = scored
		r.releaseRetry()
	}
	r.snap.Retrying = r.retry != nil
	return r.snap.clone()
}
