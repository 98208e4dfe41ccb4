package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name string, d time.Duration) {
	mu.Lock()
	frameTotals[name] += d
	mu.Unlock()
}

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	stop := Track("work")
	time.Sleep(time.Millisecond)
	stop()
	Track("work")()

	snap := Snapshot()
	require.Contains(t, snap, "work")
	assert.GreaterOrEqual(t, snap["work"], time.Millisecond)

	ResetFrame()
	assert.Empty(t, Snapshot())
}

func TestTopN(t *testing.T) {
	ResetFrame()
	record("render", 4200*time.Microsecond)
	record("update", 100*time.Microsecond)
	record("input", 3*time.Millisecond)
	record("idle", 3*time.Millisecond)

	assert.Equal(t, "render:4.2ms, idle:3ms", TopN(2))
	assert.Len(t, Top(10), 4)
	assert.Equal(t, "", TopN(0))
}

func TestSnapshotIsCopy(t *testing.T) {
	ResetFrame()
	record("a", time.Second)
	snap := Snapshot()
	snap["a"] = 0
	assert.Equal(t, time.Second, Snapshot()["a"])
}
