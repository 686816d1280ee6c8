// Package observability provides OpenTelemetry-based tracing, metrics, and
// structured logging for the bfcheck commands.
package observability

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// AppMode identifies the application execution mode.
type AppMode string

const (
	// ModeCLI is an interactive command invocation.
	ModeCLI AppMode = "cli"
	// ModeCI is an invocation from a CI job, where metrics files are collected.
	ModeCI AppMode = "ci"
)

const (
	// defaultServiceName is the default OTel service name.
	defaultServiceName = "bfcheck"

	// defaultShutdownTimeoutSec is the default shutdown timeout in seconds.
	defaultShutdownTimeoutSec = 5

	// envCI is set by most CI systems.
	envCI = "CI"
)

// Config holds all observability configuration.
type Config struct {
	// LogWriter receives log records. Nil means stderr.
	LogWriter io.Writer

	// OTLPHeaders are additional gRPC metadata headers for the OTLP exporters.
	OTLPHeaders map[string]string

	// ServiceName is the OTel resource service name.
	ServiceName string

	// ServiceVersion is the semantic version of the running binary.
	ServiceVersion string

	// Environment is the deployment environment (e.g. "ci", "dev").
	Environment string

	// Mode identifies how the binary was launched.
	Mode AppMode

	// OTLPEndpoint is the OTLP gRPC collector address (e.g. "localhost:4317").
	// Empty disables export.
	OTLPEndpoint string

	// LogLevel controls the minimum slog severity.
	LogLevel slog.Level

	// ShutdownTimeoutSec is the maximum seconds to wait for flush on shutdown.
	ShutdownTimeoutSec int

	// OTLPInsecure disables TLS for the OTLP gRPC connection.
	OTLPInsecure bool

	// LogJSON enables JSON-formatted log output.
	LogJSON bool
}

// DefaultConfig returns a Config with sensible defaults for zero-config startup.
func DefaultConfig() Config {
	return Config{
		ServiceName:        defaultServiceName,
		Mode:               DetectMode(),
		LogLevel:           slog.LevelWarn,
		ShutdownTimeoutSec: defaultShutdownTimeoutSec,
	}
}

// DetectMode returns ModeCI when the CI environment variable is set.
func DetectMode() AppMode {
	if os.Getenv(envCI) != "" {
		return ModeCI
	}

	return ModeCLI
}

func (c Config) exportsOTLP() bool {
	return c.OTLPEndpoint != ""
}

func (c Config) shutdownTimeout() time.Duration {
	if c.ShutdownTimeoutSec <= 0 {
		return defaultShutdownTimeoutSec * time.Second
	}

	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
