package mapping

import (
	"fmt"

	"github.com/okian/basecall/internal/domain/model"
)

// Candidate is one scored bijection.
type Candidate struct {
	Map        model.DyeBaseMap
	Mismatches int
}

// Result is the winning candidate of a search.
type Result struct {
	Map          model.DyeBaseMap
	Mismatches   int
	Spots        int
	ErrorPercent float64
}

// Score counts the spots whose call under m disagrees with ref. No-signal
// spots always count as mismatches. The assignment is only read.
func Score(m model.DyeBaseMap, dominant model.Assignment, ref []model.Base) (int, error) {
	if len(dominant) != len(ref) {
		return 0, fmt.Errorf("%w: %d assignments for %d reference bases", model.ErrMalformedInput, len(dominant), len(ref))
	}
	errs := 0
	for spot, dye := range dominant {
		if dye == model.NoSignal {
			errs++
			continue
		}
		b, ok := m.Base(dye)
		if !ok {
			return 0, fmt.Errorf("spot %d: %w: index %d", spot+1, model.ErrUnknownDye, dye)
		}
		if b != ref[spot] {
			errs++
		}
	}
	return errs, nil
}

// Candidates scores every bijection in evaluation order.
func Candidates(dyes [model.NumDyes]model.Dye, dominant model.Assignment, ref []model.Base) ([]Candidate, error) {
	out := make([]Candidate, 0, len(bijections))
	for _, perm := range bijections {
		m := model.PermutedMap(dyes, perm)
		n, err := Score(m, dominant, ref)
		if err != nil {
			return nil, err
		}
		out = append(out, Candidate{Map: m, Mismatches: n})
	}
	return out, nil
}

// Search returns the bijection with the fewest mismatches. Ties keep the
// earliest candidate in evaluation order.
func Search(dyes [model.NumDyes]model.Dye, dominant model.Assignment, ref []model.Base) (Result, error) {
	if len(dominant) == 0 {
		return Result{}, model.ErrEmptyCycle
	}
	cands, err := Candidates(dyes, dominant, ref)
	if err != nil {
		return Result{}, err
	}
	best := 0
	for i := 1; i < len(cands); i++ {
		if cands[i].Mismatches < cands[best].Mismatches {
			best = i
		}
	}
	spots := len(dominant)
	return Result{
		Map:          cands[best].Map,
		Mismatches:   cands[best].Mismatches,
		Spots:        spots,
		ErrorPercent: 100 * float64(cands[best].Mismatches) / float64(spots),
	}, nil
}
