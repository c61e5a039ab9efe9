package tuner

import (
	"math"
)

const (
	missWeightBase  = 1.0
	missWeightSlope = 5.0
	memWeightScale  = 8192.0
	memWeightFloor  = 0.1
	memWeightCeil   = 10.0
	baselineWeight  = 1.0

	// largest miss rate whose weight still fits in [weightMin, weightMax]
	maxMissRate = (weightMax - missWeightBase) / missWeightSlope
)

// Derive maps a stats snapshot to a complete policy document. It is pure:
// the same snapshot always yields the same document.
func Derive(s Snapshot) Document {
	return Document{
		Version: Version,
		Weights: Weights{
			WMiss:  MissWeight(s.MissRate),
			WReuse: baselineWeight,
			WMem:   MemWeight(s.AvgSizeBytes),
			WRisk:  baselineWeight,
		},
		Thresholds:     defaultThresholds(),
		Guardrails:     defaultGuardrails(),
		PerOwnerPriors: defaultPriors(),
		Ranges:         defaultRanges(),
	}
}

// MissWeight grows linearly with the observed miss rate. Negative rates count
// as zero and the result never exceeds the upper bound of the weight range.
func MissWeight(missRate float64) float64 {
	return round4(missWeightBase + clamp(missRate, 0, maxMissRate)*missWeightSlope)
}

// MemWeight scales with average object size, bounded to [0.1, 10].
func MemWeight(avgSizeBytes float64) float64 {
	return round4(clamp(avgSizeBytes/memWeightScale, memWeightFloor, memWeightCeil))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Min(hi, math.Max(lo, v))
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}
