package poller

import (
	"sync"
	"time"
)

// Cancel releases a scheduled repetition. Calling it more than once is a no-op.
type Cancel func()

// Scheduler runs fn every d until the returned Cancel is called.
// Implementations must not invoke fn from within Every.
type Scheduler interface {
	Every(d time.Duration, fn func()) Cancel
}

// TickerScheduler schedules on time.Ticker. Ticks that arrive while fn is
// still running are dropped by the ticker.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(d time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(d)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				// A tick can be buffered when Cancel races with it.
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}
