package soak

import (
	"sort"
	"time"
)

// Summary is the result of one soak run.
type Summary struct {
	Ops             uint64  `json:"ops"`
	DurationSeconds int64   `json:"duration_s"`
	OpsPerSecond    float64 `json:"ops_per_s"`
	HitRate         float64 `json:"hit_rate"`
	P95Micros       int64   `json:"p95_us"`

	Reads         uint64        `json:"-"`
	Hits          uint64        `json:"-"`
	Writes        uint64        `json:"-"`
	CanaryUpdates uint64        `json:"-"`
	Elapsed       time.Duration `json:"-"`
}

// Percentile returns the sample at index floor(q*n) of the ascending order
// of samples, or 0 when there are none. samples is not modified.
func Percentile(samples []int64, q float64) int64 {
	if len(samples) == 0 {
		return 0
	}

	sorted := make([]int64, len(samples))
	copy(sorted, samples)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	idx := int(float64(len(sorted)) * q)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	if idx < 0 {
		idx = 0
	}

	return sorted[idx]
}

// HitRate is hits over attempted reads; zero reads yields 0.
func HitRate(hits, reads uint64) float64 {
	if reads == 0 {
		reads = 1
	}

	return float64(hits) / float64(reads)
}

// CanaryPct is the canary percentage announced at operation count ops.
func CanaryPct(ops uint64) uint64 {
	return (ops / canaryStep) % canaryCycle
}

func newSummary(cfg Config, c counters, samples []int64, elapsed time.Duration) *Summary {
	secs := int64(cfg.Duration / time.Second)
	div := secs
	if div < 1 {
		div = 1
	}

	return &Summary{
		Ops:             c.ops,
		DurationSeconds: secs,
		OpsPerSecond:    float64(c.ops) / float64(div),
		HitRate:         HitRate(c.hits, c.reads),
		P95Micros:       Percentile(samples, 0.95),
		Reads:           c.reads,
		Hits:            c.hits,
		Writes:          c.writes,
		CanaryUpdates:   c.canaryUpdates,
		Elapsed:         elapsed,
	}
}
