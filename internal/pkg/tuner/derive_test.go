package tuner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDerive_DefaultSnapshot(t *testing.T) {
	doc := Derive(Snapshot{MissRate: 0.1, AvgSizeBytes: 1024})

	assert.Equal(t, 1.5, doc.Weights.WMiss)
	assert.Equal(t, 0.125, doc.Weights.WMem)
	assert.Equal(t, 1.0, doc.Weights.WReuse)
	assert.Equal(t, 1.0, doc.Weights.WRisk)
	assert.Equal(t, doc, Derive(DefaultSnapshot()))
}

func TestDerive_ZeroSnapshotClampsMemWeight(t *testing.T) {
	doc := Derive(Snapshot{})

	assert.Equal(t, 1.0, doc.Weights.WMiss)
	assert.Equal(t, 0.1, doc.Weights.WMem)
}

func TestDerive_FixedFields(t *testing.T) {
	doc := Derive(Snapshot{MissRate: 0.42, AvgSizeBytes: 1 << 20})

	assert.Equal(t, "tuner-v1", doc.Version)
	assert.Equal(t, 0.0, doc.Thresholds.AdmitThreshold)
	assert.Equal(t, 0.85, doc.Thresholds.EvictPressure)
	assert.Equal(t, uint64(50000), doc.Guardrails.MaxEvictionsPerSecond)
	assert.Equal(t, uint64(50000), doc.Guardrails.MaxAdmissionsPerSecond)
	assert.Equal(t, map[string]OwnerPrior{
		"default": {PReusePrior: 0.5},
		"premium": {PReusePrior: 0.7},
	}, doc.PerOwnerPriors)

	w := Range{0, 1000}
	assert.Equal(t, 0.0, doc.Ranges.WMiss.Min())
	assert.Equal(t, 1000.0, doc.Ranges.WMiss.Max())
	assert.Equal(t, 1.0, doc.Ranges.EvictPressure.Max())
	assert.Equal(t, Ranges{WMiss: w, WReuse: w, WMem: w, WRisk: w, EvictPressure: Range{0.1, 1.0}}, doc.Ranges)
}

func TestDerive_DocumentsDoNotShareState(t *testing.T) {
	a := Derive(DefaultSnapshot())
	a.PerOwnerPriors["premium"] = OwnerPrior{PReusePrior: 0.01}

	b := Derive(DefaultSnapshot())
	assert.Equal(t, 0.7, b.PerOwnerPriors["premium"].PReusePrior)
}

func TestMemWeight(t *testing.T) {
	cases := []struct {
		avg  float64
		want float64
	}{
		{0, 0.1},
		{-4096, 0.1},
		{819, 0.1},
		{8192, 1},
		{12345, 1.507},
		{81920, 10},
		{1e12, 10},
		{math.Inf(1), 10},
		{math.NaN(), 0.1},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, MemWeight(c.avg), "avg_size_bytes=%v", c.avg)
	}
}

func TestMissWeight(t *testing.T) {
	assert.Equal(t, 1.0, MissWeight(0))
	assert.Equal(t, 1.0, MissWeight(-0.3))
	assert.Equal(t, 2.1665, MissWeight(0.2333))
	assert.Equal(t, 6.0, MissWeight(1))
	assert.Equal(t, 8.5, MissWeight(1.5))
	assert.Equal(t, 86.0, MissWeight(17))
	assert.Equal(t, 1000.0, MissWeight(199.8))
	assert.Equal(t, 1000.0, MissWeight(5000))
	assert.Equal(t, 1000.0, MissWeight(math.Inf(1)))
	assert.Equal(t, 1.0, MissWeight(math.Inf(-1)))
}

func TestProperty_MissWeightMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Float64Range(-10, 10).Draw(rt, "a")
		b := rapid.Float64Range(-10, 10).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}

		wa, wb := MissWeight(a), MissWeight(b)
		assert.GreaterOrEqual(rt, wa, 1.0)
		assert.LessOrEqual(rt, wa, wb)
	})
}

func TestProperty_MemWeightBounded(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		avg := rapid.Float64().Draw(rt, "avg_size_bytes")

		w := MemWeight(avg)
		assert.GreaterOrEqual(rt, w, 0.1)
		assert.LessOrEqual(rt, w, 10.0)
	})
}

func TestProperty_DerivedDocumentIsValid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := Snapshot{
			MissRate:     rapid.Float64().Draw(rt, "miss_rate"),
			AvgSizeBytes: rapid.Float64().Draw(rt, "avg_size_bytes"),
		}

		doc := Derive(s)
		require.NoError(rt, doc.Validate())
		assert.True(rt, doc.Ranges.WMiss.Contains(doc.Weights.WMiss))
		assert.True(rt, doc.Ranges.WReuse.Contains(doc.Weights.WReuse))
		assert.True(rt, doc.Ranges.WMem.Contains(doc.Weights.WMem))
		assert.True(rt, doc.Ranges.WRisk.Contains(doc.Weights.WRisk))
		assert.True(rt, doc.Ranges.EvictPressure.Contains(doc.Thresholds.EvictPressure))
	})
}

func TestValidate_RejectsOutOfRange(t *testing.T) {
	cases := map[string]func(d *Document){
		"weight above range":       func(d *Document) { d.Weights.WMiss = 1000.5 },
		"negative weight":          func(d *Document) { d.Weights.WRisk = -1 },
		"nan weight":               func(d *Document) { d.Weights.WMem = math.NaN() },
		"evict pressure too low":   func(d *Document) { d.Thresholds.EvictPressure = 0.05 },
		"evict range widened":      func(d *Document) { d.Ranges.EvictPressure = Range{0, 2}; d.Thresholds.EvictPressure = 1.5 },
		"negative weight range":    func(d *Document) { d.Ranges.WReuse = Range{-1, 1000} },
		"zero guardrail":           func(d *Document) { d.Guardrails.MaxAdmissionsPerSecond = 0 },
		"prior above one":          func(d *Document) { d.PerOwnerPriors["premium"] = OwnerPrior{PReusePrior: 1.2} },
		"missing version":          func(d *Document) { d.Version = "" },
		"infinite admit threshold": func(d *Document) { d.Thresholds.AdmitThreshold = math.Inf(-1) },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			doc := Derive(DefaultSnapshot())
			mutate(&doc)
			assert.ErrorIs(t, doc.Validate(), ErrInvalidDocument)
		})
	}
}
