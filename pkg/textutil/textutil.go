// Package textutil provides byte-level text utilities: physical line
// splitting and line counting.
package textutil

import (
	"bytes"
)

const (
	lineFeed       = '\n'
	carriageReturn = '\r'
	lineBreaks     = "\r\n"
)

// SplitLines splits data into physical lines, each keeping its terminator.
// "\n", "\r\n" and a lone "\r" all end a line, as in universal-newline text
// reading. A final fragment without a terminator is returned as its own line;
// a trailing terminator does not produce an extra empty line, so "a\n" yields
// one line and "a\n\n" yields two. Returns nil for empty data.
func SplitLines(data []byte) []string {
	if len(data) == 0 {
		return nil
	}

	lines := make([]string, 0, CountLines(data))

	for len(data) > 0 {
		end := lineEnd(data)
		lines = append(lines, string(data[:end]))
		data = data[end:]
	}

	return lines
}

// CountLines returns the number of lines SplitLines would produce.
func CountLines(data []byte) int {
	count := 0

	for len(data) > 0 {
		data = data[lineEnd(data):]
		count++
	}

	return count
}

// lineEnd returns the length of the first line of data, terminator included.
func lineEnd(data []byte) int {
	cut := bytes.IndexAny(data, lineBreaks)
	if cut < 0 {
		return len(data)
	}

	if data[cut] == carriageReturn && cut+1 < len(data) && data[cut+1] == lineFeed {
		return cut + 2
	}

	return cut + 1
}
