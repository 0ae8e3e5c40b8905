package simulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/basecall/internal/domain/basecall"
	"github.com/okian/basecall/internal/domain/model"
	"github.com/okian/basecall/pkg/logger"
)

// Verify compares basecaller results with the planted truth. The map only
// has to agree on dyes that were dominant in at least one spot, since the
// others cannot be identified from the data.
func Verify(ctx context.Context, t *Table, results []*model.CycleResult) (Stats, error) {
	var stats Stats
	if len(results) != len(t.Cycles) {
		return stats, fmt.Errorf("%w: %d results for %d cycles", ErrMismatch, len(results), len(t.Cycles))
	}

	var errs []error
	for i, ct := range t.Cycles {
		r := results[i]
		stats.Cycles++
		stats.Spots += len(ct.Reference)
		stats.NoSignal += ct.NoSignal
		stats.Misreads += ct.Misreads

		if err := verifyCycle(ct, r); err != nil {
			errs = append(errs, err)
			continue
		}
		stats.Recovered++
		logger.Get().Debug(ctx, "planted map recovered",
			logger.String("cycle", ct.Name),
			logger.String("map", r.Map.String()),
			logger.Float64("error_percent", r.ErrorPercent),
		)
	}
	return stats, errors.Join(errs...)
}

func verifyCycle(ct *CycleTruth, r *model.CycleResult) error {
	if r.Name != ct.Name {
		return fmt.Errorf("%w: cycle %s: result is for cycle %s", ErrMismatch, ct.Name, r.Name)
	}
	if r.NoSignal != ct.NoSignal {
		return fmt.Errorf("%w: cycle %s: %d no-signal spots, planted %d", ErrMismatch, ct.Name, r.NoSignal, ct.NoSignal)
	}
	if !r.Map.IsBijection() {
		return fmt.Errorf("%w: cycle %s: map %s is not a bijection", ErrMismatch, ct.Name, r.Map)
	}
	used := usedDyes(ct)
	for d, dye := range ct.Planted.Dyes {
		got, ok := r.Map.BaseFor(dye)
		if used[d] && (!ok || got != ct.Planted.Bases[d]) {
			return fmt.Errorf("%w: cycle %s: got map %s, planted %s", ErrMismatch, ct.Name, r.Map, ct.Planted)
		}
	}
	if n := basecall.Mismatches(r.Basecalls, ct.Reference); n != r.Mismatches {
		return fmt.Errorf("%w: cycle %s: %d calls disagree with the reference, result reports %d",
			ErrMismatch, ct.Name, n, r.Mismatches)
	}
	if want := ct.ExpectedErrorPercent(); r.ErrorPercent != want {
		return fmt.Errorf("%w: cycle %s: error %g%%, planted %g%%", ErrMismatch, ct.Name, r.ErrorPercent, want)
	}
	return nil
}

// usedDyes marks the dyes that won at least one spot.
func usedDyes(ct *CycleTruth) [model.NumDyes]bool {
	var used [model.NumDyes]bool
	for _, row := range ct.Intensities {
		best, bestV := -1, 0.0
		for d, v := range row {
			if v > bestV {
				best, bestV = d, v
			}
		}
		if best >= 0 {
			used[best] = true
		}
	}
	return used
}
