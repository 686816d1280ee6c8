package benchcmp_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bfcheck/pkg/benchcmp"
)

const googleBenchmarkDoc = `{
  "context": {"date": "2025-11-02T10:00:00+00:00", "num_cpus": 8},
  "benchmarks": [
    {"name": "BM_BigIntMul/64", "run_type": "iteration", "iterations": 1000,
     "real_time": 812.5, "cpu_time": 810.25, "time_unit": "ns"},
    {"name": "BM_PrimeSieve", "cpu_time": 12.5, "time_unit": "us"}
  ]
}`

func TestDecode_GoogleBenchmarkDocument(t *testing.T) {
	t.Parallel()

	res, err := benchcmp.Decode([]byte(googleBenchmarkDoc))
	require.NoError(t, err)

	require.Len(t, res.Benchmarks, 2)
	assert.Equal(t, "BM_BigIntMul/64", res.Benchmarks[0].Name)
	assert.InDelta(t, 810.25, res.Benchmarks[0].CPUTime, pctDelta)
	assert.Equal(t, "iteration", res.Benchmarks[0].RunType)
	assert.Equal(t, "us", res.Benchmarks[1].Unit())
	assert.Contains(t, res.Context, "num_cpus")

	found, ok := res.Find("BM_PrimeSieve")
	require.True(t, ok)
	assert.InDelta(t, 12.5, found.CPUTime, pctDelta)

	_, ok = res.Find("BM_Missing")
	assert.False(t, ok)
}

func TestDecode_MalformedJSON(t *testing.T) {
	t.Parallel()

	_, err := benchcmp.Decode([]byte(`{"benchmarks": [`))
	require.ErrorIs(t, err, benchcmp.ErrMalformed)
}

func TestDecode_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing benchmarks", doc: `{"context": {}}`},
		{name: "benchmarks not array", doc: `{"benchmarks": {}}`},
		{name: "missing cpu_time", doc: `{"benchmarks": [{"name": "a"}]}`},
		{name: "string cpu_time", doc: `{"benchmarks": [{"name": "a", "cpu_time": "fast"}]}`},
		{name: "missing name", doc: `{"benchmarks": [{"cpu_time": 1}]}`},
		{name: "negative cpu_time", doc: `{"benchmarks": [{"name": "a", "cpu_time": -1}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := benchcmp.Decode([]byte(tt.doc))
			require.ErrorIs(t, err, benchcmp.ErrSchema)
		})
	}
}

func TestDecode_EmptyNameAccepted(t *testing.T) {
	t.Parallel()

	res, err := benchcmp.Decode([]byte(`{"benchmarks": [{"name": "", "cpu_time": 3}]}`))
	require.NoError(t, err)

	found, ok := res.Find("")
	require.True(t, ok)
	assert.InDelta(t, 3.0, found.CPUTime, pctDelta)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "current.json")
	require.NoError(t, os.WriteFile(path, []byte(googleBenchmarkDoc), 0o600))

	res, err := benchcmp.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, res.Benchmarks, 2)
}

func TestLoadFile_Missing(t *testing.T) {
	t.Parallel()

	_, err := benchcmp.LoadFile(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
