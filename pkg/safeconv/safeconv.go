// Package safeconv provides integer conversions that panic instead of
// silently wrapping.
package safeconv

// MustInt64ToUint64 converts a non-negative int64, such as a file size, to uint64.
// It panics on a negative value.
func MustInt64ToUint64(v int64) uint64 {
	if v < 0 {
		panic("safeconv: negative int64 to uint64 conversion")
	}

	return uint64(v)
}
