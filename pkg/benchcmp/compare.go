package benchcmp

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// DefaultThreshold is the percent change beyond which a benchmark is flagged.
const DefaultThreshold = 5.0

const percent = 100

// ErrUnitMismatch is returned when a benchmark's baseline and current time
// units differ and cannot be converted.
var ErrUnitMismatch = errors.New("incompatible time units")

// unitNanos is the length of each Google Benchmark time unit in nanoseconds.
var unitNanos = map[string]float64{
	"ns": 1,
	"us": 1e3,
	"ms": 1e6,
	"s":  1e9,
}

// ConvertTime expresses value, measured in unit from, in unit to.
func ConvertTime(value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}

	fromNanos, fromKnown := unitNanos[from]
	toNanos, toKnown := unitNanos[to]

	if !fromKnown || !toKnown {
		return 0, fmt.Errorf("%w: %q and %q", ErrUnitMismatch, from, to)
	}

	return value * fromNanos / toNanos, nil
}

// Status classifies one benchmark.
type Status string

// Benchmark statuses.
const (
	StatusRegression  Status = "regression"
	StatusImprovement Status = "improvement"
	StatusNeutral     Status = "neutral"
	StatusNew         Status = "new"
)

// Comparison is the outcome for one benchmark of the current document.
type Comparison struct {
	Name      string  `json:"name"       yaml:"name"`
	Status    Status  `json:"status"     yaml:"status"`
	Unit      string  `json:"unit"       yaml:"unit"`
	Baseline  float64 `json:"baseline"   yaml:"baseline"`
	Current   float64 `json:"current"    yaml:"current"`
	ChangePct float64 `json:"change_pct" yaml:"change_pct"`
}

// MarshalJSON encodes an infinite change as the string "+Inf", which JSON numbers cannot hold.
func (c Comparison) MarshalJSON() ([]byte, error) {
	type plain Comparison

	if !math.IsInf(c.ChangePct, 0) {
		return json.Marshal(plain(c))
	}

	return json.Marshal(struct {
		plain

		ChangePct string `json:"change_pct"`
	}{
		plain:     plain(c),
		ChangePct: strconv.FormatFloat(c.ChangePct, 'f', -1, 64),
	})
}

// Report is the folded result of comparing every current benchmark.
type Report struct {
	Comparisons  []Comparison `json:"comparisons"  yaml:"comparisons"`
	Threshold    float64      `json:"threshold"    yaml:"threshold"`
	Regressions  int          `json:"regressions"  yaml:"regressions"`
	Improvements int          `json:"improvements" yaml:"improvements"`
	Neutral      int          `json:"neutral"      yaml:"neutral"`
	New          int          `json:"new"          yaml:"new"`
}

// NeedHuman reports whether at least one benchmark regressed.
func (r Report) NeedHuman() bool {
	return r.Regressions > 0
}

func (r Report) add(cmp Comparison) Report {
	r.Comparisons = append(r.Comparisons, cmp)

	switch cmp.Status {
	case StatusRegression:
		r.Regressions++
	case StatusImprovement:
		r.Improvements++
	case StatusNeutral:
		r.Neutral++
	case StatusNew:
		r.New++
	}

	return r
}

// Compare classifies every benchmark of current against the first baseline
// entry with the same name. Benchmarks present only in baseline are ignored.
// Baseline times are converted to the unit of the current benchmark; a pair
// of units that cannot be converted fails the whole comparison.
func Compare(baseline, current *Results, threshold float64) (Report, error) {
	report := Report{Threshold: threshold}

	for _, bench := range current.Benchmarks {
		cmp, err := compareOne(baseline, bench, threshold)
		if err != nil {
			return Report{}, err
		}

		report = report.add(cmp)
	}

	return report, nil
}

func compareOne(baseline *Results, current Benchmark, threshold float64) (Comparison, error) {
	cmp := Comparison{
		Name:    current.Name,
		Unit:    current.Unit(),
		Current: current.CPUTime,
	}

	base, found := baseline.Find(current.Name)
	if !found {
		cmp.Status = StatusNew

		return cmp, nil
	}

	baseTime, err := ConvertTime(base.CPUTime, base.Unit(), cmp.Unit)
	if err != nil {
		return Comparison{}, fmt.Errorf("benchmark %q: %w", current.Name, err)
	}

	cmp.Baseline = baseTime
	cmp.ChangePct = ChangePercent(baseTime, current.CPUTime)
	cmp.Status = Classify(cmp.ChangePct, threshold)

	return cmp, nil
}

// ChangePercent returns (current - baseline) / baseline * 100.
// A zero baseline yields 0 when current is also zero and +Inf otherwise.
func ChangePercent(baseline, current float64) float64 {
	if baseline == 0 {
		if current == 0 {
			return 0
		}

		return math.Inf(1)
	}

	return (current - baseline) / baseline * percent
}

// Classify maps a percent change onto a status. Changes exactly at the
// threshold are neutral.
func Classify(changePct, threshold float64) Status {
	switch {
	case changePct > threshold:
		return StatusRegression
	case changePct < -threshold:
		return StatusImprovement
	default:
		return StatusNeutral
	}
}
