package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageStats_Percentiles(t *testing.T) {
	stats := NewPageStats(time.Hour)
	for _, ms := range []int{100, 200, 300, 400, 500} {
		stats.Record(time.Duration(ms)*time.Millisecond, 2)
	}

	snap := stats.Snapshot()

	require.Equal(t, 5, snap.Pages)
	assert.Equal(t, 10, snap.Items)
	assert.InDelta(t, 100, snap.MinMs, 0.001)
	assert.InDelta(t, 500, snap.MaxMs, 0.001)
	assert.InDelta(t, 300, snap.AvgMs, 0.001)
	assert.InDelta(t, 300, snap.P50Ms, 0.001)
	assert.InDelta(t, 480, snap.P95Ms, 0.001)
	assert.InDelta(t, 496, snap.P99Ms, 0.001)
}

func TestPageStats_PrunesOutsideWindow(t *testing.T) {
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	stats := NewPageStats(time.Minute)
	stats.now = func() time.Time { return clock }

	stats.Record(40*time.Millisecond, 1)
	clock = clock.Add(2 * time.Minute)
	assert.Equal(t, 0, stats.Snapshot().Pages)

	stats.Record(70*time.Millisecond, 3)
	snap := stats.Snapshot()
	require.Equal(t, 1, snap.Pages)
	assert.InDelta(t, 70, snap.MinMs, 0.001)
	assert.Equal(t, 3, snap.Items)
}

func TestPageStats_ClampsNegativeAndToleratesNil(t *testing.T) {
	stats := NewPageStats(time.Hour)
	stats.Record(-time.Second, 0)
	assert.Zero(t, stats.Snapshot().MaxMs)

	var none *PageStats
	none.Record(time.Second, 1)
}
