// Package tuner turns a cache statistics snapshot into the parameter file of
// the cache's cost-based admission/eviction policy.
//
// Derivation is deterministic. Only the miss weight and the memory weight
// depend on the snapshot; every other field is a fixed default. The emitted
// document always satisfies its own declared ranges.
package tuner

import (
	"fmt"
	"os"

	"github.com/ziyasal/pomaitools/internal/pkg/common"
)

type Tuner struct {
	logger common.Logger
	hash   common.Hasher
}

type tunerOption func(*Tuner)

func WithLogger(l common.Logger) tunerOption {
	return func(t *Tuner) {
		t.logger = l
	}
}

// WithHasher sets the hasher used to fingerprint input snapshots, xxh3 by default.
func WithHasher(h common.Hasher) tunerOption {
	return func(t *Tuner) {
		t.hash = h
	}
}

func New(opts ...tunerOption) *Tuner {
	t := &Tuner{
		logger: common.NewDefaultLogger(),
		hash:   common.NewDefaultHasher(),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// LoadSnapshotFile reads and parses the snapshot at path, choosing the
// decoder from the file extension.
func (t *Tuner) LoadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read stats snapshot: %w", err)
	}

	format := FormatFromPath(path)
	t.logger.Debug(fmt.Sprintf("snapshot %s format=%s fingerprint=%s",
		path, format, common.Fingerprint(t.hash, data)))

	s, err := ParseSnapshot(data, format)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Run derives a policy document from the snapshot at input and writes it to
// output. Nothing is written when the input cannot be read or parsed.
func (t *Tuner) Run(input, output string) (*Document, error) {
	s, err := t.LoadSnapshotFile(input)
	if err != nil {
		return nil, err
	}

	doc := Derive(s)
	if err := WriteDocument(output, &doc); err != nil {
		return nil, err
	}

	t.logger.Info(fmt.Sprintf("derived %s from miss_rate=%v avg_size_bytes=%v: w_miss=%v w_mem=%v",
		doc.Version, s.MissRate, s.AvgSizeBytes, doc.Weights.WMiss, doc.Weights.WMem))

	return &doc, nil
}
