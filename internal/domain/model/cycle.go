package model

import (
	"fmt"
	"math"
)

// Cycle is one sequencing round: the intensity table and its reference.
type Cycle struct {
	Name        string
	Dyes        [NumDyes]Dye
	Intensities *Intensities
	Reference   []Base
}

// NewCycle validates that the reference covers every spot.
func NewCycle(name string, dyes [NumDyes]Dye, x *Intensities, ref []Base) (*Cycle, error) {
	if x == nil || x.Spots() == 0 {
		return nil, fmt.Errorf("cycle %s: %w", name, ErrEmptyCycle)
	}
	if len(ref) != x.Spots() {
		return nil, fmt.Errorf("cycle %s: %w: %d reference bases for %d spots",
			name, ErrMalformedInput, len(ref), x.Spots())
	}
	seen := make(map[Dye]bool, NumDyes)
	for _, d := range dyes {
		if seen[d] {
			return nil, fmt.Errorf("cycle %s: %w: duplicate dye %q", name, ErrMalformedInput, d)
		}
		seen[d] = true
	}
	return &Cycle{Name: name, Dyes: dyes, Intensities: x, Reference: ref}, nil
}

// Spots returns the number of spots in the cycle.
func (c *Cycle) Spots() int { return c.Intensities.Spots() }

// CycleResult is everything computed for one cycle.
type CycleResult struct {
	Name         string
	Map          DyeBaseMap
	Dominant     Assignment
	Basecalls    []Base
	Mismatches   int
	Spots        int
	ErrorPercent float64
	// Contrast is NaN when no spot carried signal.
	Contrast float64
	NoSignal int
}

// ContrastDefined reports whether at least one spot contributed to Contrast.
func (r *CycleResult) ContrastDefined() bool {
	return !math.IsNaN(r.Contrast)
}
