package config

import "github.com/Sumatoshi-tech/bfcheck/pkg/benchcmp"

// B-file defaults.
const (
	DefaultRequireHeader = false
	DefaultMaxFileSize   = "256MiB"
)

// Benchmark defaults.
const (
	DefaultThreshold = benchcmp.DefaultThreshold
)

// Output and logging defaults.
const (
	DefaultOutputFormat = ""
	DefaultLogLevel     = "warn"
	DefaultLogJSON      = false
)

// Observability defaults.
const (
	DefaultMetricsFile  = ""
	DefaultOTLPEndpoint = ""
	DefaultOTLPInsecure = false
	DefaultOTLPHeaders  = ""
	DefaultEnvironment  = ""
)
