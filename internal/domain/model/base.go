// Package model contains the value types passed between the basecalling stages.
package model

import (
	"fmt"
	"strings"
)

// Base is a single nucleotide label.
type Base byte

// Callable bases plus the no-signal marker.
const (
	A Base = 'A'
	C Base = 'C'
	G Base = 'G'
	T Base = 'T'
	// N is emitted for spots where no channel recorded any signal.
	N Base = 'N'
)

// NumDyes is the number of dye channels measured at each spot.
const NumDyes = 4

// bases lists the callable bases in index order (A=0, C=1, G=2, T=3).
var bases = [NumDyes]Base{A, C, G, T}

// BaseAt returns the callable base with index i.
func BaseAt(i int) Base { return bases[i] }

// Bases returns the callable bases in index order.
func Bases() [NumDyes]Base { return bases }

// String implements fmt.Stringer.
func (b Base) String() string { return string(rune(b)) }

// ParseBase parses a reference label. Case and surrounding blanks are ignored.
// N is accepted for reference positions that were never resolved; it can never
// match a call.
func ParseBase(s string) (Base, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 1 {
		return 0, fmt.Errorf("%w: reference base %q", ErrMalformedInput, s)
	}
	switch b := Base(s[0]); b {
	case A, C, G, T, N:
		return b, nil
	default:
		return 0, fmt.Errorf("%w: reference base %q", ErrMalformedInput, s)
	}
}

// ParseSequence parses one reference label per element.
func ParseSequence(labels []string) ([]Base, error) {
	out := make([]Base, len(labels))
	for i, l := range labels {
		b, err := ParseBase(l)
		if err != nil {
			return nil, fmt.Errorf("spot %d: %w", i+1, err)
		}
		out[i] = b
	}
	return out, nil
}

// SequenceString renders bases as a plain string.
func SequenceString(seq []Base) string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for _, b := range seq {
		sb.WriteByte(byte(b))
	}
	return sb.String()
}
