package poller

import "sync"

// Feed is a latest-wins snapshot channel. The channel holds only the newest
// snapshot: a slow reader skips intermediate states and the poller never
// blocks on it. Wire Send as Options.OnChange and Close as Options.OnStop so
// readers see the channel close when the poller stops.
type Feed struct {
	mu     sync.Mutex
	ch     chan Snapshot
	closed bool
}

// NewFeed returns an open feed.
func NewFeed() *Feed {
	return &Feed{ch: make(chan Snapshot, 1)}
}

// Send replaces any unread snapshot with s. It is a no-op after Close.
func (f *Feed) Send(s Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	select {
	case <-f.ch:
	default:
	}
	f.ch <- s
}

// Close closes the channel. An unread snapshot stays readable. Safe to call
// more than once.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.ch)
	}
}

// C returns the receive side.
func (f *Feed) C() <-chan Snapshot {
	return f.ch
}
