package pipeline

import (
	"slices"
	"sync"
	"time"
)

type pageSample struct {
	at       time.Time
	duration time.Duration
	items    int
}

// StatsSnapshot aggregates the page samples inside the rolling window.
type StatsSnapshot struct {
	Pages      int     `json:"pages"`
	Items      int     `json:"items"`
	MinMs      float64 `json:"min_ms"`
	MaxMs      float64 `json:"max_ms"`
	AvgMs      float64 `json:"avg_ms"`
	P50Ms      float64 `json:"p50_ms"`
	P95Ms      float64 `json:"p95_ms"`
	P99Ms      float64 `json:"p99_ms"`
	WindowSecs float64 `json:"window_secs"`
}

// PageStats tracks per-page processing latency within a rolling window.
// A nil *PageStats ignores records.
type PageStats struct {
	mu      sync.Mutex
	samples []pageSample
	window  time.Duration
	now     func() time.Time
}

func NewPageStats(window time.Duration) *PageStats {
	if window <= 0 {
		window = time.Hour
	}
	return &PageStats{
		samples: make([]pageSample, 0, 256),
		window:  window,
		now:     time.Now,
	}
}

// Record adds one processed page.
func (s *PageStats) Record(d time.Duration, items int) {
	if s == nil {
		return
	}
	if d < 0 {
		d = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, pageSample{at: now, duration: d, items: items})
}

func (s *PageStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := StatsSnapshot{WindowSecs: s.window.Seconds()}
	if len(s.samples) == 0 {
		return snap
	}

	ms := make([]float64, len(s.samples))
	var sum float64
	for i, sm := range s.samples {
		ms[i] = float64(sm.duration) / float64(time.Millisecond)
		sum += ms[i]
		snap.Items += sm.items
	}
	slices.Sort(ms)

	snap.Pages = len(ms)
	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = sum / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	snap.P99Ms = percentile(ms, 99)
	return snap
}

func (s *PageStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.samples = slices.DeleteFunc(s.samples, func(sm pageSample) bool {
		return sm.at.Before(cutoff)
	})
}

// percentile interpolates linearly between the closest ranks of sorted.
func percentile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if pct <= 0 {
		return sorted[0]
	}
	if pct >= 100 {
		return sorted[len(sorted)-1]
	}

	index := float64(len(sorted)-1) * pct / 100
	lower := int(index)
	if lower+1 >= len(sorted) {
		return sorted[lower]
	}
	weight := index - float64(lower)
	return sorted[lower] + (sorted[lower+1]-sorted[lower])*weight
}
