// Package units provides binary size multipliers and human-readable size
// parsing for size-valued settings such as "256MiB".
package units

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Binary size multipliers.
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
)

// Unlimited is the size string that disables a size cap.
const Unlimited = "0"

// ErrInvalidSize is returned when a size string cannot be parsed.
var ErrInvalidSize = errors.New("invalid size")

// ParseSize parses sizes like "64MiB", "1GB" or "4096". Empty and "0" mean zero.
func ParseSize(value string) (uint64, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == Unlimited {
		return 0, nil
	}

	size, err := humanize.ParseBytes(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidSize, value, err)
	}

	return size, nil
}

// FormatSize renders a byte count with binary units, e.g. "256 MiB".
func FormatSize(size uint64) string {
	return humanize.IBytes(size)
}
