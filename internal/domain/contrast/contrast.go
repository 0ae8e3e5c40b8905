// Package contrast measures how far the brightest channel stands out from the
// other three at each spot.
package contrast

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/basecall/internal/domain/model"
)

// Result is the cycle-level contrast.
type Result struct {
	// Mean is the average per-spot RMS contrast, NaN when every spot lacked signal.
	Mean     float64
	NoSignal int
	Spots    int
}

// Defined reports whether Mean was computed from at least one spot.
func (r Result) Defined() bool { return !math.IsNaN(r.Mean) }

// Spot returns the RMS contrast of a single spot and false when the spot has
// no signal. With squared intensities s and m = max(s), the contrast is
// sqrt(sum(m - s_i) / n).
func Spot(row []float64) (float64, bool) {
	sq := make([]float64, len(row))
	floats.MulTo(sq, row, row)
	m := floats.Max(sq)
	if m == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range sq {
		sum += m - s
	}
	return math.Sqrt(sum / float64(len(sq))), true
}

// Estimate averages the spot contrast over spots with signal.
func Estimate(x *model.Intensities) Result {
	n := x.Spots()
	values := make([]float64, 0, n)
	res := Result{Spots: n}
	for i := 0; i < n; i++ {
		c, ok := Spot(x.Row(i))
		if !ok {
			res.NoSignal++
			continue
		}
		values = append(values, c)
	}
	if len(values) == 0 {
		res.Mean = math.NaN()
		return res
	}
	res.Mean = stat.Mean(values, nil)
	return res
}
