// Package benchcmp compares two benchmark result documents and classifies
// each benchmark as a regression, an improvement or neutral.
package benchcmp

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/xeipuuv/gojsonschema"
)

// DefaultTimeUnit is assumed when a benchmark does not declare its unit.
const DefaultTimeUnit = "ns"

// Load errors.
var (
	ErrMalformed = errors.New("malformed benchmark document")
	ErrSchema    = errors.New("benchmark document does not match schema")
)

//go:embed schema.json
var schemaBytes []byte

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Benchmark is one measured entry.
type Benchmark struct {
	Name          string  `json:"name"`
	TimeUnit      string  `json:"time_unit,omitempty"`
	RunType       string  `json:"run_type,omitempty"`
	AggregateName string  `json:"aggregate_name,omitempty"`
	CPUTime       float64 `json:"cpu_time"`
	RealTime      float64 `json:"real_time,omitempty"`
}

// Unit returns the declared time unit or DefaultTimeUnit.
func (b Benchmark) Unit() string {
	if b.TimeUnit == "" {
		return DefaultTimeUnit
	}

	return b.TimeUnit
}

// Results is a benchmark document.
type Results struct {
	Context    map[string]any `json:"context,omitempty"`
	Benchmarks []Benchmark    `json:"benchmarks"`
}

// Find returns the first benchmark named name.
func (r *Results) Find(name string) (Benchmark, bool) {
	for _, bench := range r.Benchmarks {
		if bench.Name == name {
			return bench, true
		}
	}

	return Benchmark{}, false
}

// LoadFile reads and decodes the benchmark document at path.
func LoadFile(path string) (*Results, error) {
	//nolint:gosec // path is a user-supplied CLI argument.
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	results, decodeErr := Decode(data)
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w", path, decodeErr)
	}

	return results, nil
}

// Decode checks data against the embedded schema and decodes it.
func Decode(data []byte) (*Results, error) {
	result, validateErr := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if validateErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, validateErr)
	}

	if !result.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrSchema, describeSchemaErrors(result.Errors()))
	}

	var results Results

	unmarshalErr := json.Unmarshal(data, &results)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, unmarshalErr)
	}

	return &results, nil
}

func describeSchemaErrors(schemaErrors []gojsonschema.ResultError) string {
	parts := make([]string, 0, len(schemaErrors))

	for _, schemaErr := range schemaErrors {
		parts = append(parts, fmt.Sprintf("%s: %s", schemaErr.Field(), schemaErr.Description()))
	}

	return strings.Join(parts, "; ")
}
