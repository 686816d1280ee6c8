package observability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricFilesChecked    = "bfcheck.files.checked"
	metricComparisons     = "bfcheck.comparisons"
	metricBenchmarks      = "bfcheck.benchmarks"
	metricBenchmarkChange = "bfcheck.benchmark.change"
	metricCommandDuration = "bfcheck.command.duration"

	attrOutcome   = "outcome"
	attrBenchmark = "benchmark"
	attrStatus    = "status"

	unitFile       = "{file}"
	unitComparison = "{comparison}"
	unitBenchmark  = "{benchmark}"
	unitPercent    = "%"
	unitSeconds    = "s"
)

// ErrNoRegistry is returned when metrics are written without a registry.
var ErrNoRegistry = errors.New("no metrics registry")

// durationBucketBoundaries covers sub-millisecond checks of small files up to
// multi-second reads of files near the size cap.
var durationBucketBoundaries = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

// CheckMetrics holds the instruments recorded by the commands.
type CheckMetrics struct {
	filesChecked    metric.Int64Counter
	comparisons     metric.Int64Counter
	benchmarks      metric.Int64Counter
	benchmarkChange metric.Float64Gauge
	commandDuration metric.Float64Histogram
}

// NewCheckMetrics creates the instruments from mt.
func NewCheckMetrics(mt metric.Meter) (*CheckMetrics, error) {
	b := newMetricBuilder(mt)

	cm := &CheckMetrics{
		filesChecked:    b.counter(metricFilesChecked, "B-files validated, by outcome", unitFile),
		comparisons:     b.counter(metricComparisons, "Reference comparisons, by outcome", unitComparison),
		benchmarks:      b.counter(metricBenchmarks, "Benchmarks compared, by status", unitBenchmark),
		benchmarkChange: b.gauge(metricBenchmarkChange, "Percent change of cpu_time against baseline", unitPercent),
		commandDuration: b.histogram(metricCommandDuration, "Command duration in seconds", unitSeconds),
	}

	if b.err != nil {
		return nil, b.err
	}

	return cm, nil
}

// RecordFile counts one validated file. outcome is "valid" or a failure reason kind.
func (cm *CheckMetrics) RecordFile(ctx context.Context, outcome string) {
	cm.filesChecked.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordComparison counts one reference comparison.
func (cm *CheckMetrics) RecordComparison(ctx context.Context, outcome string) {
	cm.comparisons.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOutcome, outcome)))
}

// RecordBenchmark counts one benchmark and, unless it is new, records its change.
func (cm *CheckMetrics) RecordBenchmark(ctx context.Context, name, status string, changePct float64, hasBaseline bool) {
	cm.benchmarks.Add(ctx, 1, metric.WithAttributes(attribute.String(attrStatus, status)))

	if hasBaseline {
		cm.benchmarkChange.Record(ctx, changePct, metric.WithAttributes(attribute.String(attrBenchmark, name)))
	}
}

// RecordDuration records how long a command took.
func (cm *CheckMetrics) RecordDuration(ctx context.Context, command string, elapsed time.Duration) {
	cm.commandDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String(attrCommand, command)))
}

// WriteTextfile writes every metric in registry to path in the Prometheus
// text exposition format, for collection by a node exporter textfile collector.
func WriteTextfile(path string, registry *prometheus.Registry) error {
	if registry == nil {
		return ErrNoRegistry
	}

	err := prometheus.WriteToTextfile(path, registry)
	if err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}

	return nil
}

// metricBuilder stops at the first instrument creation error so a batch of
// instruments needs a single error check.
type metricBuilder struct {
	mt  metric.Meter
	err error
}

func newMetricBuilder(mt metric.Meter) *metricBuilder {
	return &metricBuilder{mt: mt}
}

func (b *metricBuilder) counter(name, desc, unit string) metric.Int64Counter {
	if b.err != nil {
		return nil
	}

	c, err := b.mt.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return c
}

func (b *metricBuilder) gauge(name, desc, unit string) metric.Float64Gauge {
	if b.err != nil {
		return nil
	}

	g, err := b.mt.Float64Gauge(name, metric.WithDescription(desc), metric.WithUnit(unit))
	if err != nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return g
}

func (b *metricBuilder) histogram(name, desc, unit string) metric.Float64Histogram {
	if b.err != nil {
		return nil
	}

	h, err := b.mt.Float64Histogram(name,
		metric.WithDescription(desc),
		metric.WithUnit(unit),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		b.err = fmt.Errorf("create %s: %w", name, err)
	}

	return h
}
