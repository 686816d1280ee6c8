package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/bfcheck/pkg/config"
	"github.com/Sumatoshi-tech/bfcheck/pkg/units"
)

const (
	testThreshold   = 7.5
	thresholdDelta  = 0.001
	configFilePerm  = 0o600
	testMaxFileSize = 64 * units.MiB
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".bfcheck.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), configFilePerm))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultRequireHeader, cfg.BFile.RequireHeader)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.BFile.MaxFileSize)
	assert.InDelta(t, config.DefaultThreshold, cfg.Benchmark.Threshold, thresholdDelta)
	assert.Equal(t, config.DefaultMetricsFile, cfg.Observability.MetricsFile)
	assert.Equal(t, config.DefaultOutputFormat, cfg.Output.Format)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, config.DefaultLogJSON, cfg.Logging.JSON)
	assert.Equal(t, config.DefaultOTLPEndpoint, cfg.Observability.OTLPEndpoint)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(256*units.MiB), size)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `bfile:
  require_header: true
  max_file_size: "64MiB"
benchmark:
  threshold: 7.5
output:
  format: table
logging:
  level: debug
  json: true
observability:
  metrics_file: "/tmp/bench.prom"
  otlp_endpoint: "localhost:4317"
  otlp_insecure: true
  otlp_headers: "x-team=seq"
  environment: ci
`)

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)

	assert.True(t, cfg.BFile.RequireHeader)
	assert.InDelta(t, testThreshold, cfg.Benchmark.Threshold, thresholdDelta)
	assert.Equal(t, "/tmp/bench.prom", cfg.Observability.MetricsFile)
	assert.Equal(t, config.FormatTable, cfg.Output.Format)
	assert.True(t, cfg.Logging.JSON)
	assert.Equal(t, "localhost:4317", cfg.Observability.OTLPEndpoint)
	assert.True(t, cfg.Observability.OTLPInsecure)
	assert.Equal(t, "x-team=seq", cfg.Observability.OTLPHeaders)
	assert.Equal(t, "ci", cfg.Observability.Environment)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, uint64(testMaxFileSize), size)

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(config.ConfigEnvVar, "")
	t.Setenv("BFCHECK_BFILE_REQUIRE_HEADER", "true")
	t.Setenv("BFCHECK_BENCHMARK_THRESHOLD", "7.5")
	t.Setenv("BFCHECK_LOGGING_LEVEL", "error")

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.BFile.RequireHeader)
	assert.InDelta(t, testThreshold, cfg.Benchmark.Threshold, thresholdDelta)
	assert.Equal(t, "error", cfg.Logging.Level)
	assert.Empty(t, cfg.Source)
}

func TestLoadConfig_PathFromEnvironment(t *testing.T) {
	path := writeConfig(t, "benchmark:\n  threshold: 7.5\n")
	t.Setenv(config.ConfigEnvVar, path)

	cfg, err := config.LoadConfig("")
	require.NoError(t, err)

	assert.InDelta(t, testThreshold, cfg.Benchmark.Threshold, thresholdDelta)
	assert.Equal(t, path, cfg.Source)

	t.Setenv(config.ConfigEnvVar, filepath.Join(t.TempDir(), "absent.yaml"))

	_, err = config.LoadConfig("")
	require.Error(t, err)
}

func TestLoadConfig_RecordsSource(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, "logging:\n  level: info\n")

	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Source)

	_, err = config.LoadConfig(writeConfig(t, "benchmark:\n  threshold: 0\n"))
	require.ErrorContains(t, err, ".bfcheck.yaml")
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		want    error
		name    string
		content string
	}{
		{name: "zero threshold", content: "benchmark:\n  threshold: 0\n", want: config.ErrInvalidThreshold},
		{name: "negative threshold", content: "benchmark:\n  threshold: -1\n", want: config.ErrInvalidThreshold},
		{name: "bad size", content: "bfile:\n  max_file_size: lots\n", want: config.ErrInvalidSize},
		{name: "bad level", content: "logging:\n  level: chatty\n", want: config.ErrInvalidLogLevel},
		{name: "bad format", content: "output:\n  format: xml\n", want: config.ErrInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestConfig_UnlimitedSize(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, "bfile:\n  max_file_size: \"0\"\n"))
	require.NoError(t, err)

	size, err := cfg.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}
