// Package bfile validates b-files: line-oriented text files where each data
// line holds an index and a value, indices increase by one, comments start
// with '#' and the file ends with a blank line.
package bfile

import (
	"regexp"
	"strconv"
	"strings"
)

// CommentMarker starts a comment line.
const CommentMarker = "#"

// indexBase and indexBits bound the parsed index to int64.
const (
	indexBase = 10
	indexBits = 64
)

var dataLinePattern = regexp.MustCompile(`^(-?\d+)\s(-?\d+)$`)

// LineKind categorizes a physical line.
type LineKind int

// Line kinds.
const (
	LineBlank LineKind = iota
	LineComment
	LineData
	LineInvalid
)

// String returns the lower-case name of the kind.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineData:
		return "data"
	case LineInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// Line is one classified physical line. Index and Value are set for data lines only.
// Value is the original token so that big values compare exactly as written.
type Line struct {
	Value  string
	Index  int64
	Number int
	Kind   LineKind
}

// ClassifyLine categorizes text, the content of 1-based physical line number.
func ClassifyLine(text string, number int) Line {
	stripped := strings.TrimSpace(text)

	switch {
	case stripped == "":
		return Line{Kind: LineBlank, Number: number}
	case strings.HasPrefix(stripped, CommentMarker):
		return Line{Kind: LineComment, Number: number}
	}

	match := dataLinePattern.FindStringSubmatch(stripped)
	if match == nil {
		return Line{Kind: LineInvalid, Number: number}
	}

	index, parseErr := strconv.ParseInt(match[1], indexBase, indexBits)
	if parseErr != nil {
		return Line{Kind: LineInvalid, Number: number}
	}

	return Line{
		Kind:   LineData,
		Number: number,
		Index:  index,
		Value:  match[2],
	}
}

// IsBlank reports whether text is empty after stripping whitespace.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
