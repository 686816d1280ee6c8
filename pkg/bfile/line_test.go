package bfile_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/bfcheck/pkg/bfile"
)

func TestClassifyLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		text  string
		kind  bfile.LineKind
		index int64
		value string
	}{
		{name: "empty", text: "", kind: bfile.LineBlank},
		{name: "whitespace", text: " \t\r\n", kind: bfile.LineBlank},
		{name: "comment", text: "# A000045 Fibonacci\n", kind: bfile.LineComment},
		{name: "indented comment", text: "   #prog\n", kind: bfile.LineComment},
		{name: "data", text: "0 5\n", kind: bfile.LineData, index: 0, value: "5"},
		{name: "negative", text: "-3 -17\n", kind: bfile.LineData, index: -3, value: "-17"},
		{name: "tab separated", text: "7\t42", kind: bfile.LineData, index: 7, value: "42"},
		{name: "surrounding whitespace", text: "  10 20  \r\n", kind: bfile.LineData, index: 10, value: "20"},
		{
			name:  "big value kept verbatim",
			text:  "99 354224848179261915075\n",
			kind:  bfile.LineData,
			index: 99,
			value: "354224848179261915075",
		},
		{name: "leading zeros kept", text: "1 007", kind: bfile.LineData, index: 1, value: "007"},
		{name: "two separators", text: "1  2", kind: bfile.LineInvalid},
		{name: "three fields", text: "1 2 3", kind: bfile.LineInvalid},
		{name: "single field", text: "12", kind: bfile.LineInvalid},
		{name: "plus sign", text: "+1 2", kind: bfile.LineInvalid},
		{name: "decimal", text: "1 2.5", kind: bfile.LineInvalid},
		{name: "text", text: "hello world", kind: bfile.LineInvalid},
		{name: "index overflow", text: "99999999999999999999 1", kind: bfile.LineInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			line := bfile.ClassifyLine(tt.text, 4)

			assert.Equal(t, tt.kind, line.Kind)
			assert.Equal(t, 4, line.Number)
			assert.Equal(t, tt.index, line.Index)
			assert.Equal(t, tt.value, line.Value)
		})
	}
}

func TestLineKind_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "blank", bfile.LineBlank.String())
	assert.Equal(t, "comment", bfile.LineComment.String())
	assert.Equal(t, "data", bfile.LineData.String())
	assert.Equal(t, "invalid", bfile.LineInvalid.String())
	assert.Equal(t, "unknown", bfile.LineKind(42).String())
}

func TestIsBlank(t *testing.T) {
	t.Parallel()

	assert.True(t, bfile.IsBlank("\n"))
	assert.True(t, bfile.IsBlank("  \t"))
	assert.False(t, bfile.IsBlank("0 1\n"))
}
