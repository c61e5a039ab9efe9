package tuner

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnapshot_JSON(t *testing.T) {
	s, err := ParseSnapshot([]byte(`{"miss_rate": 0.25, "avg_size_bytes": 4096, "hits": 12}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, Snapshot{MissRate: 0.25, AvgSizeBytes: 4096}, s)
}

func TestParseSnapshot_Defaults(t *testing.T) {
	s, err := ParseSnapshot([]byte(`{}`), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, DefaultSnapshot(), s)
	assert.Equal(t, 0.1, s.MissRate)
	assert.Equal(t, 1024.0, s.AvgSizeBytes)
}

func TestParseSnapshot_LenientFields(t *testing.T) {
	cases := map[string]Snapshot{
		`{"miss_rate": "0.3", "avg_size_bytes": " 2048 "}`:   {MissRate: 0.3, AvgSizeBytes: 2048},
		`{"miss_rate": "lots", "avg_size_bytes": [1, 2]}`:    DefaultSnapshot(),
		`{"miss_rate": null, "avg_size_bytes": {"p50": 9}}`:  DefaultSnapshot(),
		`{"miss_rate": true, "avg_size_bytes": "NaN"}`:       DefaultSnapshot(),
		`{"miss_rate": 0, "avg_size_bytes": 0, "extra": []}`: {MissRate: 0, AvgSizeBytes: 0},
	}

	for in, want := range cases {
		s, err := ParseSnapshot([]byte(in), FormatJSON)
		require.NoError(t, err, in)
		assert.Equal(t, want, s, in)
	}
}

func TestParseSnapshot_HugeValues(t *testing.T) {
	cases := []struct {
		in     string
		format Format
		want   Snapshot
	}{
		{`{"miss_rate": 0.1, "avg_size_bytes": 1e400}`, FormatJSON, Snapshot{MissRate: 0.1, AvgSizeBytes: math.Inf(1)}},
		{`{"miss_rate": -1e400, "avg_size_bytes": -1e400}`, FormatJSON, Snapshot{MissRate: math.Inf(-1), AvgSizeBytes: math.Inf(-1)}},
		{`{"avg_size_bytes": "Infinity"}`, FormatJSON, Snapshot{MissRate: 0.1, AvgSizeBytes: math.Inf(1)}},
		{`{"avg_size_bytes": "1e999"}`, FormatJSON, Snapshot{MissRate: 0.1, AvgSizeBytes: math.Inf(1)}},
		{"avg_size_bytes: .inf\n", FormatYAML, Snapshot{MissRate: 0.1, AvgSizeBytes: math.Inf(1)}},
		{"avg_size_bytes: \".inf\"\n", FormatYAML, Snapshot{MissRate: 0.1, AvgSizeBytes: math.Inf(1)}},
	}

	for _, c := range cases {
		s, err := ParseSnapshot([]byte(c.in), c.format)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, s, c.in)

		doc := Derive(s)
		require.NoError(t, doc.Validate(), c.in)
		assert.True(t, doc.Weights.WMem == 0.1 || doc.Weights.WMem == 10, c.in)
	}
}

func TestParseSnapshot_YAMLNonStringKeys(t *testing.T) {
	in := "1: x\ntrue: y\nmiss_rate: 0.3\navg_size_bytes: 2048\n"

	s, err := ParseSnapshot([]byte(in), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{MissRate: 0.3, AvgSizeBytes: 2048}, s)
}

func TestParseSnapshot_YAML(t *testing.T) {
	in := "miss_rate: 0.05\navg_size_bytes: 16384\nowner: premium\n"

	s, err := ParseSnapshot([]byte(in), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{MissRate: 0.05, AvgSizeBytes: 16384}, s)
}

func TestParseSnapshot_Malformed(t *testing.T) {
	cases := []struct {
		in     string
		format Format
	}{
		{`{"miss_rate": 0.1`, FormatJSON},
		{``, FormatJSON},
		{`[0.1, 1024]`, FormatJSON},
		{`0.1`, FormatJSON},
		{`null`, FormatJSON},
		{`{"miss_rate": 0.1} {"miss_rate": 0.2}`, FormatJSON},
		{"- 0.1\n- 1024\n", FormatYAML},
		{"miss_rate: [unclosed\n", FormatYAML},
		{"", FormatYAML},
	}

	for _, c := range cases {
		_, err := ParseSnapshot([]byte(c.in), c.format)
		assert.ErrorIs(t, err, ErrMalformedSnapshot, "%s %q", c.format, c.in)
	}
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatYAML, FormatFromPath("stats.yaml"))
	assert.Equal(t, FormatYAML, FormatFromPath("/tmp/STATS.YML"))
	assert.Equal(t, FormatJSON, FormatFromPath("stats.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("stats"))
}
