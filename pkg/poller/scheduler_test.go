package poller

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickerScheduler_RepeatsUntilCancelled(t *testing.T) {
	var n atomic.Int32
	cancel := TickerScheduler{}.Every(2*time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()
	cancel() // idempotent

	stopped := n.Load()
	time.Sleep(20 * time.Millisecond)
	assert.LessOrEqual(t, n.Load(), stopped+1, "at most one tick may already be running")
}
