package tuner

import (
	"errors"
	"fmt"
	"math"
)

const (
	Version = "tuner-v1"

	DefaultAdmitThreshold = 0.0
	DefaultEvictPressure  = 0.85

	DefaultMaxEvictionsPerSecond  = 50000
	DefaultMaxAdmissionsPerSecond = 50000

	DefaultOwner = "default"
	PremiumOwner = "premium"

	defaultReusePrior = 0.5
	premiumReusePrior = 0.7

	weightMin        = 0.0
	weightMax        = 1000.0
	evictPressureMin = 0.1
	evictPressureMax = 1.0
)

var ErrInvalidDocument = errors.New("invalid policy document")

// Range is a closed [min, max] interval, serialized as a two element array.
type Range [2]float64

func (r Range) Min() float64 { return r[0] }
func (r Range) Max() float64 { return r[1] }

func (r Range) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= r[0] && v <= r[1]
}

type Weights struct {
	WMiss  float64 `json:"w_miss"`
	WReuse float64 `json:"w_reuse"`
	WMem   float64 `json:"w_mem"`
	WRisk  float64 `json:"w_risk"`
}

type Thresholds struct {
	AdmitThreshold float64 `json:"admit_threshold"`
	EvictPressure  float64 `json:"evict_pressure"`
}

type Guardrails struct {
	MaxEvictionsPerSecond  uint64 `json:"max_evictions_per_second"`
	MaxAdmissionsPerSecond uint64 `json:"max_admissions_per_second"`
}

type OwnerPrior struct {
	PReusePrior float64 `json:"p_reuse_prior"`
}

type Ranges struct {
	WMiss         Range `json:"w_miss"`
	WReuse        Range `json:"w_reuse"`
	WMem          Range `json:"w_mem"`
	WRisk         Range `json:"w_risk"`
	EvictPressure Range `json:"evict_pressure"`
}

// Document is the parameter file consumed by the cache's cost policy engine.
type Document struct {
	Version        string                `json:"version"`
	Weights        Weights               `json:"weights"`
	Thresholds     Thresholds            `json:"thresholds"`
	Guardrails     Guardrails            `json:"guardrails"`
	PerOwnerPriors map[string]OwnerPrior `json:"per_owner_priors"`
	Ranges         Ranges                `json:"ranges"`
}

func defaultThresholds() Thresholds {
	return Thresholds{
		AdmitThreshold: DefaultAdmitThreshold,
		EvictPressure:  DefaultEvictPressure,
	}
}

func defaultGuardrails() Guardrails {
	return Guardrails{
		MaxEvictionsPerSecond:  DefaultMaxEvictionsPerSecond,
		MaxAdmissionsPerSecond: DefaultMaxAdmissionsPerSecond,
	}
}

func defaultPriors() map[string]OwnerPrior {
	return map[string]OwnerPrior{
		DefaultOwner: {PReusePrior: defaultReusePrior},
		PremiumOwner: {PReusePrior: premiumReusePrior},
	}
}

func defaultRanges() Ranges {
	w := Range{weightMin, weightMax}

	return Ranges{
		WMiss:         w,
		WReuse:        w,
		WMem:          w,
		WRisk:         w,
		EvictPressure: Range{evictPressureMin, evictPressureMax},
	}
}

// Validate checks the document against its own declared ranges.
func (d *Document) Validate() error {
	if d.Version == "" {
		return fmt.Errorf("%w: empty version", ErrInvalidDocument)
	}

	weights := []struct {
		name string
		v    float64
		r    Range
	}{
		{"w_miss", d.Weights.WMiss, d.Ranges.WMiss},
		{"w_reuse", d.Weights.WReuse, d.Ranges.WReuse},
		{"w_mem", d.Weights.WMem, d.Ranges.WMem},
		{"w_risk", d.Weights.WRisk, d.Ranges.WRisk},
	}
	for _, w := range weights {
		if w.r.Min() < 0 {
			return fmt.Errorf("%w: %s range %v admits negative weights", ErrInvalidDocument, w.name, w.r)
		}
		if !w.r.Contains(w.v) {
			return fmt.Errorf("%w: %s=%v outside %v", ErrInvalidDocument, w.name, w.v, w.r)
		}
	}

	ep := d.Thresholds.EvictPressure
	if !d.Ranges.EvictPressure.Contains(ep) {
		return fmt.Errorf("%w: evict_pressure=%v outside %v", ErrInvalidDocument, ep, d.Ranges.EvictPressure)
	}
	if ep < evictPressureMin || ep > evictPressureMax {
		return fmt.Errorf("%w: evict_pressure=%v outside [%v, %v]",
			ErrInvalidDocument, ep, evictPressureMin, evictPressureMax)
	}

	if math.IsNaN(d.Thresholds.AdmitThreshold) || math.IsInf(d.Thresholds.AdmitThreshold, 0) {
		return fmt.Errorf("%w: admit_threshold must be finite", ErrInvalidDocument)
	}

	if d.Guardrails.MaxEvictionsPerSecond == 0 || d.Guardrails.MaxAdmissionsPerSecond == 0 {
		return fmt.Errorf("%w: guardrails must be positive", ErrInvalidDocument)
	}

	for owner, p := range d.PerOwnerPriors {
		if !(Range{0, 1}).Contains(p.PReusePrior) {
			return fmt.Errorf("%w: prior for %q=%v outside [0, 1]", ErrInvalidDocument, owner, p.PReusePrior)
		}
	}

	return nil
}
