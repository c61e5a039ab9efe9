// Package soak drives a sustained mixed read/write workload against a RESP
// cache while periodically retuning its canary admission percentage.
//
// A run issues strictly sequential requests on one connection until the
// configured wall-clock duration has elapsed, then reports throughput, hit
// rate and the p95 latency of reads.
package soak

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ziyasal/pomaitools/internal/pkg/common"
	"github.com/ziyasal/pomaitools/pkg/resp"
)

// Sender sends one command and returns the raw reply.
type Sender interface {
	Send(parts ...interface{}) ([]byte, error)
}

// Recorder observes individual operations as they complete.
type Recorder interface {
	ObserveGet(latency time.Duration, hit bool)
	ObserveSet()
	ObserveCanary(pct uint64)
}

type nopRecorder struct{}

func (nopRecorder) ObserveGet(time.Duration, bool) {}
func (nopRecorder) ObserveSet()                    {}
func (nopRecorder) ObserveCanary(uint64)           {}

type counters struct {
	ops           uint64
	reads         uint64
	hits          uint64
	writes        uint64
	canaryUpdates uint64
}

// Progress is a point-in-time view of a run, safe to take while it is in flight.
type Progress struct {
	Running       bool    `json:"running"`
	Ops           uint64  `json:"ops"`
	Reads         uint64  `json:"reads"`
	Hits          uint64  `json:"hits"`
	Writes        uint64  `json:"writes"`
	CanaryUpdates uint64  `json:"canary_updates"`
	CanaryPct     uint64  `json:"canary_pct"`
	HitRate       float64 `json:"hit_rate"`
	ElapsedMillis int64   `json:"elapsed_ms"`
}

type Driver struct {
	cfg      Config
	conn     Sender
	clock    common.Clock
	rnd      *rand.Rand
	logger   common.Logger
	recorder Recorder
	value    string

	running       atomic.Bool
	startedAt     atomic.Int64
	ops           atomic.Uint64
	reads         atomic.Uint64
	hits          atomic.Uint64
	writes        atomic.Uint64
	canaryUpdates atomic.Uint64
	canaryPct     atomic.Uint64
}

func NewDriver(conn Sender, opts ...driverOption) (*Driver, error) {
	d := &Driver{
		cfg:      DefaultConfig(),
		conn:     conn,
		clock:    common.NewSystemClock(),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:   common.NewDefaultLogger(),
		recorder: nopRecorder{},
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	d.value = strings.Repeat("x", d.cfg.ValueSize)

	return d, nil
}

func (d *Driver) Config() Config {
	return d.cfg
}

// Run executes the soak loop until the configured duration elapses. Any
// transport error aborts the run and no summary is produced. Error replies
// from the server are not inspected.
func (d *Driver) Run(ctx context.Context) (*Summary, error) {
	var c counters
	samples := make([]int64, 0, 1<<16)
	ttl := strconv.Itoa(d.cfg.TTLSeconds)

	start := d.clock.Now()
	d.startedAt.Store(start.UnixNano())
	d.running.Store(true)
	defer d.running.Store(false)

	d.logger.Info(fmt.Sprintf("soak run started: duration=%s keys=%d write_ratio=%.2f",
		d.cfg.Duration, d.cfg.KeySpace, d.cfg.WriteRatio))

	for d.clock.Now().Sub(start) < d.cfg.Duration {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("soak run aborted after %d ops: %w", c.ops, ctx.Err())
		default:
		}

		key := d.nextKey()

		if c.ops%d.cfg.CanaryEvery == 0 {
			pct := CanaryPct(c.ops)
			if _, err := d.conn.Send("CONFIG", "SET", CanaryParam, pct); err != nil {
				return nil, fmt.Errorf("config set %s at op %d: %w", CanaryParam, c.ops, err)
			}

			if d.canaryPct.Swap(pct) != pct {
				d.logger.Debug(fmt.Sprintf("%s=%d at op %d", CanaryParam, pct, c.ops))
			}
			c.canaryUpdates++
			d.canaryUpdates.Store(c.canaryUpdates)
			d.recorder.ObserveCanary(pct)
		}

		if d.rnd.Float64() < d.cfg.WriteRatio {
			if _, err := d.conn.Send("SET", key, d.value, "EX", ttl); err != nil {
				return nil, fmt.Errorf("set %s at op %d: %w", key, c.ops, err)
			}

			c.writes++
			d.writes.Store(c.writes)
			d.recorder.ObserveSet()
		} else {
			t := d.clock.Now()
			reply, err := d.conn.Send("GET", key)
			if err != nil {
				return nil, fmt.Errorf("get %s at op %d: %w", key, c.ops, err)
			}
			latency := d.clock.Now().Sub(t)

			samples = append(samples, common.Micros(latency))
			hit := !resp.IsNull(reply)
			c.reads++
			if hit {
				c.hits++
			}
			d.reads.Store(c.reads)
			d.hits.Store(c.hits)
			d.recorder.ObserveGet(latency, hit)
		}

		c.ops++
		d.ops.Store(c.ops)
	}

	summary := newSummary(d.cfg, c, samples, d.clock.Now().Sub(start))
	d.logger.Info(fmt.Sprintf("soak run finished: ops=%d reads=%d hits=%d writes=%d canary_updates=%d elapsed=%s",
		c.ops, c.reads, c.hits, c.writes, c.canaryUpdates, summary.Elapsed))

	return summary, nil
}

// Progress may be called concurrently with Run.
func (d *Driver) Progress() Progress {
	p := Progress{
		Running:       d.running.Load(),
		Ops:           d.ops.Load(),
		Reads:         d.reads.Load(),
		Hits:          d.hits.Load(),
		Writes:        d.writes.Load(),
		CanaryUpdates: d.canaryUpdates.Load(),
		CanaryPct:     d.canaryPct.Load(),
	}
	p.HitRate = HitRate(p.Hits, p.Reads)

	if started := d.startedAt.Load(); started != 0 {
		p.ElapsedMillis = d.clock.Now().Sub(time.Unix(0, started)).Milliseconds()
	}

	return p
}

func (d *Driver) nextKey() string {
	return "k" + strconv.Itoa(d.rnd.Intn(d.cfg.KeySpace))
}
