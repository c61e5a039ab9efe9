package soak

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/ziyasal/pomaitools/internal/pkg/common"
)

const (
	DefaultDuration    = 180 * time.Second
	DefaultKeySpace    = 1000
	DefaultWriteRatio  = 0.35
	DefaultValueSize   = 64
	DefaultTTLSeconds  = 30
	DefaultCanaryEvery = 10

	// CanaryParam is the live policy knob mutated during a run.
	CanaryParam = "POLICY.CANARY_PCT"
	// canaryStep ops share one canary value; values cycle through [0, canaryCycle).
	canaryStep  = 100
	canaryCycle = 20
)

type Config struct {
	Duration    time.Duration
	KeySpace    int
	WriteRatio  float64
	ValueSize   int
	TTLSeconds  int
	CanaryEvery uint64
}

func DefaultConfig() Config {
	return Config{
		Duration:    DefaultDuration,
		KeySpace:    DefaultKeySpace,
		WriteRatio:  DefaultWriteRatio,
		ValueSize:   DefaultValueSize,
		TTLSeconds:  DefaultTTLSeconds,
		CanaryEvery: DefaultCanaryEvery,
	}
}

type driverOption func(*Driver) error

// WithDuration sets the wall-clock length of the run.
func WithDuration(d time.Duration) driverOption {
	return func(dr *Driver) error {
		if d <= 0 {
			return fmt.Errorf("duration must be positive, got %s", d)
		}

		dr.cfg.Duration = d
		return nil
	}
}

// WithKeySpace sets how many distinct keys (k0..k<n-1>) are addressed.
func WithKeySpace(n int) driverOption {
	return func(dr *Driver) error {
		if n <= 0 {
			return fmt.Errorf("key space must be positive, got %d", n)
		}

		dr.cfg.KeySpace = n
		return nil
	}
}

// WithWriteRatio sets the probability that an operation is a SET.
func WithWriteRatio(r float64) driverOption {
	return func(dr *Driver) error {
		if r < 0 || r > 1 {
			return fmt.Errorf("write ratio must be within [0, 1], got %v", r)
		}

		dr.cfg.WriteRatio = r
		return nil
	}
}

func WithValueSize(size int) driverOption {
	return func(dr *Driver) error {
		if size < 0 {
			return fmt.Errorf("value size must not be negative, got %d", size)
		}

		dr.cfg.ValueSize = size
		return nil
	}
}

func WithTTL(seconds int) driverOption {
	return func(dr *Driver) error {
		if seconds <= 0 {
			return fmt.Errorf("ttl must be positive, got %d", seconds)
		}

		dr.cfg.TTLSeconds = seconds
		return nil
	}
}

func WithClock(c common.Clock) driverOption {
	return func(dr *Driver) error {
		dr.clock = c
		return nil
	}
}

// WithRand sets the source for key and operation selection.
func WithRand(r *rand.Rand) driverOption {
	return func(dr *Driver) error {
		dr.rnd = r
		return nil
	}
}

func WithLogger(l common.Logger) driverOption {
	return func(dr *Driver) error {
		dr.logger = l
		return nil
	}
}

func WithRecorder(r Recorder) driverOption {
	return func(dr *Driver) error {
		dr.recorder = r
		return nil
	}
}
