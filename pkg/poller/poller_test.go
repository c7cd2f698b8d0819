package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/dkoosis/promptboard/pkg/leaderboard"
)

// fakeScheduler records repetitions so tests can fire them by hand.
type fakeScheduler struct {
	mu          sync.Mutex
	timers      []*fakeTimer
	scheduled   int
	cancelCalls int
}

type fakeTimer struct {
	fn        func()
	interval  time.Duration
	cancelled bool
}

func (f *fakeScheduler) Every(d time.Duration, fn func()) Cancel {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{fn: fn, interval: d}
	f.timers = append(f.timers, t)
	f.scheduled++
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.cancelCalls++
		t.cancelled = true
	}
}

// held returns the number of live repetitions.
func (f *fakeScheduler) held() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.timers {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// fire runs one tick of every live repetition.
func (f *fakeScheduler) fire() {
	f.mu.Lock()
	var fns []func()
	for _, t := range f.timers {
		if !t.cancelled {
			fns = append(fns, t.fn)
		}
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type fetchResult struct {
	list leaderboard.RankedList
	err  error
}

// scriptedFetch returns results in order, repeating the last one.
type scriptedFetch struct {
	mu      sync.Mutex
	results []fetchResult
	calls   int
}

func (s *scriptedFetch) fetch(context.Context) (leaderboard.RankedList, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	r := s.results[0]
	if len(s.results) > 1 {
		s.results = s.results[1:]
	}
	return r.list, r.err
}

func (s *scriptedFetch) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

var (
	unscored = leaderboard.RankedList{{Name: "A", Score: 0}, {Name: "B", Score: 0}}
	final    = leaderboard.RankedList{{Name: "A", Score: 92}, {Name: "B", Score: 81}, {Name: "C", Score: 70}}
	errDown  = errors.New("connection refused")
)

// newReadinessForTest returns a started poller whose fetches run only when
// the test calls poll or fires the scheduler.
func newReadinessForTest(t *testing.T, results ...fetchResult) (*Readiness, *fakeScheduler, *scriptedFetch) {
	t.Helper()
	sched := &fakeScheduler{}
	sf := &scriptedFetch{results: results}
	r := NewReadiness(sf.fetch, Options{Scheduler: sched, Logger: zaptest.NewLogger(t)})
	require.True(t, r.begin(context.Background()))
	t.Cleanup(r.Stop)
	return r, sched, sf
}

func TestReadiness_EntersPending_When_NoEntryIsScored(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{list: unscored})

	r.poll()

	snap := r.Snapshot()
	assert.Equal(t, Pending, snap.Phase)
	assert.Empty(t, snap.Top3(), "podium must not be rendered while pending")
	assert.True(t, snap.Retrying)
	assert.Equal(t, 1, sched.held())
	assert.Equal(t, ReadinessInterval, sched.timers[0].interval)
}

func TestReadiness_BecomesReady_When_RetryReturnsScores(t *testing.T) {
	r, sched, sf := newReadinessForTest(t, fetchResult{list: unscored}, fetchResult{list: final})

	r.poll()
	sched.fire()

	snap := r.Snapshot()
	assert.Equal(t, 2, sf.count())
	assert.Equal(t, Ready, snap.Phase)
	assert.False(t, snap.Retrying)
	assert.Equal(t, 0, sched.held())
	assert.Equal(t, 1, sched.cancelCalls)
	assert.Equal(t, final, snap.Top3())
}

func TestReadiness_HoldsExactlyOneRetry_When_EmptyRepeatedly(t *testing.T) {
	r, sched, sf := newReadinessForTest(t, fetchResult{list: leaderboard.RankedList{}})

	r.poll()
	for i := 0; i < 5; i++ {
		assert.Equal(t, 1, sched.held())
		sched.fire()
	}

	assert.Equal(t, 6, sf.count())
	assert.Equal(t, 1, sched.scheduled)
	assert.Equal(t, 0, sched.cancelCalls)
	assert.Equal(t, Pending, r.Snapshot().Phase)
}

func TestReadiness_TreatsNilResultAsEmpty(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{list: nil})

	r.poll()

	assert.Equal(t, Pending, r.Snapshot().Phase)
	assert.NoError(t, r.Snapshot().Err)
	assert.Equal(t, 1, sched.held())
}

func TestReadiness_CancelsOnce_When_ReadyRepeats(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{list: unscored}, fetchResult{list: final})

	r.poll()
	r.poll()
	r.poll()

	assert.Equal(t, 1, sched.cancelCalls)
	assert.Equal(t, 1, sched.scheduled)
	assert.Equal(t, Ready, r.Snapshot().Phase)
}

func TestReadiness_NeverSchedules_When_FirstResultIsReady(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{list: final})

	r.poll()
	r.poll()

	assert.Equal(t, 0, sched.scheduled)
	assert.Equal(t, 0, sched.cancelCalls)
}

func TestReadiness_StaysLoading_When_FirstFetchFails(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{err: errDown})

	r.poll()

	snap := r.Snapshot()
	assert.Equal(t, Loading, snap.Phase)
	assert.ErrorIs(t, snap.Err, errDown)
	assert.Equal(t, 0, sched.scheduled)
}

func TestReadiness_KeepsRetry_When_FetchFailsWhilePending(t *testing.T) {
	r, sched, _ := newReadinessForTest(t,
		fetchResult{list: unscored}, fetchResult{err: errDown}, fetchResult{list: final})

	r.poll()
	sched.fire()

	snap := r.Snapshot()
	assert.Equal(t, Pending, snap.Phase)
	assert.ErrorIs(t, snap.Err, errDown)
	assert.Equal(t, 1, sched.held())
	assert.Equal(t, 1, sched.scheduled)

	sched.fire()

	snap = r.Snapshot()
	assert.Equal(t, Ready, snap.Phase)
	assert.NoError(t, snap.Err, "success clears the error")
}

func TestReadiness_StaysReady_When_LaterFetchFails(t *testing.T) {
	r, _, _ := newReadinessForTest(t, fetchResult{list: final}, fetchResult{err: errDown})

	r.poll()
	r.poll()

	snap := r.Snapshot()
	assert.Equal(t, Ready, snap.Phase)
	assert.Equal(t, final, snap.Entries)
	assert.Error(t, snap.Err)
}

func TestReadiness_NoFetchAfterStop_When_RetryPending(t *testing.T) {
	r, sched, sf := newReadinessForTest(t, fetchResult{list: unscored})
	r.poll()
	before := r.Snapshot()

	r.Stop()
	sched.fire()
	r.poll()

	assert.Equal(t, 0, sched.held())
	assert.Equal(t, 1, sf.count())
	assert.Equal(t, before, r.Snapshot())
	assert.True(t, r.Stopped())
}

func TestReadiness_StopIsIdempotent(t *testing.T) {
	r, sched, _ := newReadinessForTest(t, fetchResult{list: unscored})
	r.poll()

	r.Stop()
	r.Stop()

	assert.Equal(t, 1, sched.cancelCalls)
}

func TestReadiness_DiscardsInFlightResult_When_StoppedMidFetch(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	var changes int
	var mu sync.Mutex

	r := NewReadiness(func(ctx context.Context) (leaderboard.RankedList, error) {
		close(entered)
		<-release
		return final, nil
	}, Options{
		Scheduler: &fakeScheduler{},
		OnChange: func(Snapshot) {
			mu.Lock()
			changes++
			mu.Unlock()
		},
	})
	require.True(t, r.begin(context.Background()))

	done := make(chan struct{})
	go func() {
		r.poll()
		close(done)
	}()
	<-entered
	r.Stop()
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 0, changes)
	assert.Equal(t, Loading, r.Snapshot().Phase)
	assert.Equal(t, 0, r.Snapshot().Fetches)
}

func TestReadiness_SkipsTick_When_FetchInFlight(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	var calls int
	var mu sync.Mutex

	r := NewReadiness(func(ctx context.Context) (leaderboard.RankedList, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		entered <- struct{}{}
		<-release
		return unscored, nil
	}, Options{Scheduler: &fakeScheduler{}})
	require.True(t, r.begin(context.Background()))
	defer r.Stop()

	done := make(chan struct{})
	go func() {
		r.poll()
		close(done)
	}()
	<-entered
	r.poll() // returns immediately
	close(release)
	<-done

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls)
}

func TestReadiness_Start_ReachesReadyWithRealTicker(t *testing.T) {
	sf := &scriptedFetch{results: []fetchResult{{list: unscored}, {list: unscored}, {list: final}}}
	changes := make(chan Snapshot, 16)
	r := NewReadiness(sf.fetch, Options{
		Interval: 5 * time.Millisecond,
		Logger:   zaptest.NewLogger(t),
		OnChange: func(s Snapshot) { changes <- s },
	})

	r.Start(context.Background())
	r.Start(context.Background()) // ignored
	defer r.Stop()

	require.Eventually(t, func() bool {
		return r.Snapshot().Phase == Ready
	}, 2*time.Second, 5*time.Millisecond)

	count := sf.count()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, count, sf.count(), "no fetches after ready")
	assert.False(t, r.Snapshot().Retrying)
}

func TestReadiness_StopsWhenContextCancelled(t *testing.T) {
	sf := &scriptedFetch{results: []fetchResult{{list: unscored}}}
	r := NewReadiness(sf.fetch, Options{Interval: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	r.Start(ctx)
	cancel()

	require.Eventually(t, r.Stopped, time.Second, 5*time.Millisecond)
}

func TestLive_KeepsLastList_When_FetchFails(t *testing.T) {
	sched := &fakeScheduler{}
	sf := &scriptedFetch{results: []fetchResult{{list: final}, {err: errDown}, {list: unscored}}}
	l := NewLive(sf.fetch, Options{Scheduler: sched})
	require.True(t, l.begin(context.Background()))
	l.mu.Lock()
	l.acquireRetry()
	l.mu.Unlock()
	defer l.Stop()

	assert.Equal(t, LiveInterval, sched.timers[0].interval)

	l.poll()
	assert.Equal(t, final, l.Snapshot().Entries)

	sched.fire()
	snap := l.Snapshot()
	assert.Equal(t, final, snap.Entries)
	assert.ErrorIs(t, snap.Err, errDown)

	sched.fire()
	snap = l.Snapshot()
	assert.Equal(t, unscored, snap.Entries, "live shows unscored entries too")
	assert.NoError(t, snap.Err)
	assert.Equal(t, 1, sched.held())
	assert.Equal(t, 3, snap.Fetches)
}

func TestLive_StopReleasesRetry(t *testing.T) {
	sched := &fakeScheduler{}
	sf := &scriptedFetch{results: []fetchResult{{list: final}}}
	l := NewLive(sf.fetch, Options{Scheduler: sched})

	l.Start(context.Background())
	require.Eventually(t, func() bool { return l.Snapshot().Fetches == 1 }, time.Second, time.Millisecond)
	l.Stop()

	assert.Equal(t, 0, sched.held())
	sched.fire()
	assert.Equal(t, 1, sf.count())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "loading", Loading.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "ready", Ready.String())
	assert.Equal(t, "unknown", Phase(9).String())
}

func TestFeed_KeepsNewestSnapshot(t *testing.T) {
	feed := NewFeed()
	ch := feed.C()

	feed.Send(Snapshot{Fetches: 1})
	feed.Send(Snapshot{Fetches: 2})
	feed.Send(Snapshot{Fetches: 3})

	got := <-ch
	assert.Equal(t, 3, got.Fetches)
	select {
	case s := <-ch:
		t.Fatalf("unexpected extra snapshot %+v", s)
	default:
	}
}

func TestFeed_FeedsOnChange(t *testing.T) {
	feed := NewFeed()
	sf := &scriptedFetch{results: []fetchResult{{list: final}}}
	r := NewReadiness(sf.fetch, Options{Scheduler: &fakeScheduler{}, OnChange: feed.Send, OnStop: feed.Close})
	r.Start(context.Background())
	t.Cleanup(r.Stop)

	select {
	case s := <-feed.C():
		assert.Equal(t, Ready, s.Phase)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}
}

func TestFeed_ClosesWhenPollerStops(t *testing.T) {
	feed := NewFeed()
	stops := 0
	l := NewLive(func(context.Context) (leaderboard.RankedList, error) { return nil, nil }, Options{
		Scheduler: &fakeScheduler{},
		OnChange:  feed.Send,
		OnStop:    func() { stops++; feed.Close() },
	})
	ctx, cancel := context.WithCancel(context.Background())
	l.Start(ctx)

	cancel()

	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-feed.C():
			if !ok {
				l.Stop()
				assert.Equal(t, 1, stops, "OnStop runs once")
				feed.Send(Snapshot{Fetches: 9}) // no panic after close
				return
			}
		case <-deadline:
			t.Fatal("feed not closed after stop")
		}
	}
}
