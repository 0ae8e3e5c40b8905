// Package basecall turns one cycle of dye intensities into base calls.
//
// A cycle is processed in four steps: the dominant dye of every spot is
// selected, the dye-to-base bijection that best matches the reference is
// searched, the winning map is applied to the dominant dyes, and the signal
// contrast is estimated from the raw intensities.
package basecall

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/okian/basecall/internal/domain/contrast"
	"github.com/okian/basecall/internal/domain/mapping"
	"github.com/okian/basecall/internal/domain/model"
)

// SelectDominant returns, per spot, the index of the brightest dye. Ties go to
// the lowest dye index. Spots whose intensities sum to zero get model.NoSignal.
func SelectDominant(x *model.Intensities) model.Assignment {
	out := make(model.Assignment, x.Spots())
	for i := range out {
		row := x.Row(i)
		if floats.Sum(row) == 0 {
			out[i] = model.NoSignal
			continue
		}
		out[i] = floats.MaxIdx(row)
	}
	return out
}

// Assign applies m to every dominant dye. No-signal spots are called model.N.
func Assign(m model.DyeBaseMap, dominant model.Assignment) ([]model.Base, error) {
	calls := make([]model.Base, len(dominant))
	for i, dye := range dominant {
		if dye == model.NoSignal {
			calls[i] = model.N
			continue
		}
		b, ok := m.Base(dye)
		if !ok {
			return nil, fmt.Errorf("spot %d: %w: index %d", i+1, model.ErrUnknownDye, dye)
		}
		calls[i] = b
	}
	return calls, nil
}

// Call runs the full computation for one cycle.
func Call(c *model.Cycle) (*model.CycleResult, error) {
	if c == nil || c.Intensities == nil || c.Spots() == 0 {
		return nil, model.ErrEmptyCycle
	}
	dominant := SelectDominant(c.Intensities)

	best, err := mapping.Search(c.Dyes, dominant, c.Reference)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", c.Name, err)
	}

	calls, err := Assign(best.Map, dominant)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", c.Name, err)
	}

	ctr := contrast.Estimate(c.Intensities)

	return &model.CycleResult{
		Name:         c.Name,
		Map:          best.Map,
		Dominant:     dominant,
		Basecalls:    calls,
		Mismatches:   best.Mismatches,
		Spots:        best.Spots,
		ErrorPercent: best.ErrorPercent,
		Contrast:     ctr.Mean,
		NoSignal:     ctr.NoSignal,
	}, nil
}

// Mismatches counts calls that differ from ref. N never matches.
func Mismatches(calls, ref []model.Base) int {
	n := 0
	for i, b := range calls {
		if b == model.N || i >= len(ref) || b != ref[i] {
			n++
		}
	}
	return n
}
