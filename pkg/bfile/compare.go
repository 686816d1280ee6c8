package bfile

import "fmt"

// Mismatch is the first position where two value sequences differ.
type Mismatch struct {
	Candidate string `json:"candidate" yaml:"candidate"`
	Reference string `json:"reference" yaml:"reference"`
	Position  int    `json:"position"  yaml:"position"`
}

// String formats the mismatch for log lines.
func (m Mismatch) String() string {
	return fmt.Sprintf("index %d: %s != %s", m.Position, m.Candidate, m.Reference)
}

// Comparison is the result of a prefix comparison between a candidate and a reference.
type Comparison struct {
	Candidate *Sequence
	Reference *Sequence
	Mismatch  *Mismatch
	Compared  int
}

// Compatible reports whether every overlapping position matched.
func (c *Comparison) Compatible() bool {
	return c.Mismatch == nil
}

// Compare validates both files and checks that their values agree over the
// length of the shorter sequence. A validation failure of either file is
// returned as an error and no comparison takes place.
func Compare(candidatePath, referencePath string, opts Options) (*Comparison, error) {
	candidate, candidateErr := ReadFile(candidatePath, opts)
	if candidateErr != nil {
		return nil, candidateErr
	}

	reference, referenceErr := ReadFile(referencePath, opts)
	if referenceErr != nil {
		return nil, referenceErr
	}

	return CompareSequences(candidate, reference), nil
}

// CompareSequences compares values position by position, stopping at the
// first textual difference. Extra values in the longer sequence are ignored.
func CompareSequences(candidate, reference *Sequence) *Comparison {
	result := &Comparison{Candidate: candidate, Reference: reference}

	overlap := min(candidate.Len(), reference.Len())

	for pos := range overlap {
		result.Compared++

		if candidate.Values[pos] != reference.Values[pos] {
			result.Mismatch = &Mismatch{
				Position:  pos,
				Candidate: candidate.Values[pos],
				Reference: reference.Values[pos],
			}

			break
		}
	}

	return result
}
