package tuner

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMissRate     = 0.1
	DefaultAvgSizeBytes = 1024.0
)

var ErrMalformedSnapshot = errors.New("malformed stats snapshot")

type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	default:
		return "json"
	}
}

// FormatFromPath picks YAML for .yaml/.yml files and JSON for anything else.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Snapshot holds the cache statistics the tuner derives parameters from.
type Snapshot struct {
	MissRate     float64
	AvgSizeBytes float64
}

func DefaultSnapshot() Snapshot {
	return Snapshot{
		MissRate:     DefaultMissRate,
		AvgSizeBytes: DefaultAvgSizeBytes,
	}
}

// ParseSnapshot decodes a statistics document. The document itself must be
// a mapping; individual fields that are absent, of the wrong type or NaN
// fall back to their defaults and unknown fields are ignored. Values too
// large for a float64 become ±Inf and are left to the derivation's clamps.
func ParseSnapshot(data []byte, format Format) (Snapshot, error) {
	var doc interface{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		err = decodeJSON(data, &doc)
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %s: %v", ErrMalformedSnapshot, format, err)
	}

	fields, ok := mapping(doc)
	if !ok {
		return Snapshot{}, fmt.Errorf("%w: expected a %s object, got %T", ErrMalformedSnapshot, format, doc)
	}

	s := DefaultSnapshot()
	if v, ok := number(fields["miss_rate"]); ok {
		s.MissRate = v
	}
	if v, ok := number(fields["avg_size_bytes"]); ok {
		s.AvgSizeBytes = v
	}

	return s, nil
}

// decodeJSON keeps numbers as literals so that out-of-range values reach
// number instead of failing the whole document.
func decodeJSON(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after top-level value")
	}

	return nil
}

// mapping returns the string-keyed entries of a decoded mapping. YAML
// mappings with any non-string key decode as map[interface{}]interface{}.
func mapping(doc interface{}) (map[string]interface{}, bool) {
	switch m := doc.(type) {
	case map[string]interface{}:
		return m, true
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(m))
		for k, v := range m {
			if key, ok := k.(string); ok {
				out[key] = v
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func number(v interface{}) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, ok := parseFloat(string(x))
		if !ok {
			return 0, false
		}
		f = parsed
	case string:
		parsed, ok := parseFloat(yamlInf(strings.TrimSpace(x)))
		if !ok {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) {
		return 0, false
	}

	return f, true
}

// yamlInf rewrites YAML's infinity spellings into ones strconv understands.
func yamlInf(s string) string {
	switch strings.ToLower(s) {
	case ".inf", "+.inf":
		return "+Inf"
	case "-.inf":
		return "-Inf"
	default:
		return s
	}
}

// parseFloat accepts overflowing literals as ±Inf.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}

	return f, true
}
