package bfile

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sumatoshi-tech/bfcheck/pkg/safeconv"
	"github.com/Sumatoshi-tech/bfcheck/pkg/textutil"
	"github.com/Sumatoshi-tech/bfcheck/pkg/units"
)

// DefaultMaxFileSize caps how much of a file is loaded into memory.
const DefaultMaxFileSize = 256 * units.MiB

// Options controls the optional validation rules.
type Options struct {
	// RequireHeader demands that the first line is a comment naming the program.
	RequireHeader bool

	// MaxFileSize rejects larger files. Zero disables the cap.
	MaxFileSize uint64
}

// DefaultOptions returns the relaxed rule set with the default size cap.
func DefaultOptions() Options {
	return Options{MaxFileSize: DefaultMaxFileSize}
}

// Range is the first and last index seen among data lines, in scan order.
type Range struct {
	First int64 `json:"first" yaml:"first"`
	Last  int64 `json:"last"  yaml:"last"`
}

// String formats the range as "first .. last".
func (r Range) String() string {
	return fmt.Sprintf("%d .. %d", r.First, r.Last)
}

// Sequence is the content extracted from a valid b-file.
type Sequence struct {
	Path   string
	Values []string
	Range  Range
	Lines  int
}

// Len returns the number of data lines.
func (s *Sequence) Len() int {
	return len(s.Values)
}

// ReadFile validates the b-file at path and returns its values in file order.
// Failures are returned as *ValidationError with Path set.
func ReadFile(path string, opts Options) (*Sequence, error) {
	data, readErr := loadFile(path, opts.MaxFileSize)
	if readErr != nil {
		readErr.Path = path

		return nil, readErr
	}

	seq, parseErr := parse(data, opts)
	if parseErr != nil {
		parseErr.Path = path

		return nil, parseErr
	}

	seq.Path = path

	return seq, nil
}

// Parse validates b-file content already held in memory.
// Checks run in a fixed order: trailing blank line, header, per-line
// format and index continuity, then non-empty data.
func Parse(data []byte, opts Options) (*Sequence, error) {
	seq, parseErr := parse(data, opts)
	if parseErr != nil {
		return nil, parseErr
	}

	return seq, nil
}

func parse(data []byte, opts Options) (*Sequence, *ValidationError) {
	lines := textutil.SplitLines(data)

	if len(lines) == 0 || !IsBlank(lines[len(lines)-1]) {
		return nil, &ValidationError{Kind: ErrMissingTrailingBlankLine}
	}

	if opts.RequireHeader && !strings.HasPrefix(lines[0], CommentMarker) {
		return nil, &ValidationError{Kind: ErrMissingHeader}
	}

	seq := &Sequence{Lines: len(lines)}

	var seen bool

	for i, text := range lines {
		line := ClassifyLine(text, i+1)

		switch line.Kind {
		case LineBlank, LineComment:
			continue
		case LineInvalid:
			return nil, newLineError(ErrInvalidFormat, line.Number)
		case LineData:
		}

		if seen && !follows(seq.Range.Last, line.Index) {
			return nil, newLineError(ErrNonConsecutiveIndex, line.Number)
		}

		if !seen {
			seq.Range.First = line.Index
			seen = true
		}

		seq.Range.Last = line.Index
		seq.Values = append(seq.Values, line.Value)
	}

	if !seen {
		return nil, &ValidationError{Kind: ErrEmptySequence}
	}

	return seq, nil
}

// follows reports whether next is prev+1. Nothing follows math.MaxInt64.
func follows(prev, next int64) bool {
	return prev != math.MaxInt64 && next == prev+1
}

// FileRange returns the first and last index of the data lines in path.
// The file is expected to be valid already; only line format is checked.
func FileRange(path string) (Range, error) {
	data, readErr := loadFile(path, 0)
	if readErr != nil {
		readErr.Path = path

		return Range{}, readErr
	}

	var (
		rng  Range
		seen bool
	)

	for i, text := range textutil.SplitLines(data) {
		line := ClassifyLine(text, i+1)

		switch line.Kind {
		case LineBlank, LineComment:
			continue
		case LineInvalid:
			return Range{}, &ValidationError{Kind: ErrInvalidFormat, Path: path, Line: line.Number}
		case LineData:
		}

		if !seen {
			rng.First = line.Index
			seen = true
		}

		rng.Last = line.Index
	}

	if !seen {
		return Range{}, &ValidationError{Kind: ErrEmptySequence, Path: path}
	}

	return rng, nil
}

func loadFile(path string, maxSize uint64) ([]byte, *ValidationError) {
	if strings.TrimSpace(path) == "" || strings.ContainsRune(path, '\x00') {
		return nil, &ValidationError{Kind: ErrNotFound}
	}

	cleanPath := filepath.Clean(path)

	info, statErr := os.Stat(cleanPath)
	if statErr != nil || !info.Mode().IsRegular() {
		return nil, &ValidationError{Kind: ErrNotFound}
	}

	size := safeconv.MustInt64ToUint64(info.Size())
	if maxSize > 0 && size > maxSize {
		return nil, &ValidationError{
			Kind:   ErrFileTooLarge,
			Detail: fmt.Sprintf("%s > %s", units.FormatSize(size), units.FormatSize(maxSize)),
		}
	}

	//nolint:gosec // cleanPath is normalized and type checked above.
	data, readErr := os.ReadFile(cleanPath)
	if readErr != nil {
		return nil, &ValidationError{Kind: ErrNotFound, Detail: readErr.Error()}
	}

	return data, nil
}
