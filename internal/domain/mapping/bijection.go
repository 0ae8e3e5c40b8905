// Package mapping searches the dye-to-base assignment that best explains a
// reference sequence.
package mapping

import (
	"slices"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/okian/basecall/internal/domain/model"
)

// Bijection gives, for each dye index, the index of its base.
type Bijection [model.NumDyes]int

// bijections holds all 4! assignments in lexicographic order, so index 0 is
// the identity (A, C, G, T) and the last is (T, G, C, A).
var bijections = buildBijections()

func buildBijections() []Bijection {
	perms := combin.Permutations(model.NumDyes, model.NumDyes)
	slices.SortFunc(perms, slices.Compare[[]int])
	out := make([]Bijection, len(perms))
	for i, p := range perms {
		copy(out[i][:], p)
	}
	return out
}

// Bijections returns every bijection between the dyes and the bases in
// evaluation order.
func Bijections() []Bijection {
	return slices.Clone(bijections)
}

// NumBijections is the size of the search space.
func NumBijections() int {
	return len(bijections)
}
