package model_test

import (
	"errors"
	"math"
	"testing"

	model "github.com/okian/basecall/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

var dyes = [model.NumDyes]model.Dye{"d1", "d2", "d3", "d4"}

func TestParseBase(t *testing.T) {
	convey.Convey("Given reference labels", t, func() {
		convey.Convey("When they are valid in any case", func() {
			for in, want := range map[string]model.Base{"A": model.A, "c": model.C, " g ": model.G, "T": model.T, "n": model.N} {
				b, err := model.ParseBase(in)
				convey.So(err, convey.ShouldBeNil)
				convey.So(b, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When they are not bases", func() {
			for _, in := range []string{"", "X", "AC", "1"} {
				_, err := model.ParseBase(in)
				convey.So(errors.Is(err, model.ErrMalformedInput), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When a sequence contains a bad label", func() {
			_, err := model.ParseSequence([]string{"A", "Z"})
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "spot 2")
		})
	})
}

func TestDyeBaseMap(t *testing.T) {
	convey.Convey("Given the identity map", t, func() {
		m := model.IdentityMap(dyes)

		convey.Convey("Then it maps dyes to A, C, G, T in order", func() {
			convey.So(m.String(), convey.ShouldEqual, "{d1: A, d2: C, d3: G, d4: T}")
			convey.So(m.IsBijection(), convey.ShouldBeTrue)
			b, ok := m.BaseFor("d3")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(b, convey.ShouldEqual, model.G)
		})

		convey.Convey("Then out of range dyes are reported", func() {
			_, ok := m.Base(model.NoSignal)
			convey.So(ok, convey.ShouldBeFalse)
			_, ok = m.Base(model.NumDyes)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a permuted map", t, func() {
		m := model.PermutedMap(dyes, [model.NumDyes]int{3, 2, 1, 0})

		convey.Convey("Then bases follow the permutation", func() {
			convey.So(m.String(), convey.ShouldEqual, "{d1: T, d2: G, d3: C, d4: A}")
			convey.So(m.Pairs()["d4"], convey.ShouldEqual, "A")
		})

		convey.Convey("Then a repeated base is not a bijection", func() {
			m.Bases[0] = model.A
			convey.So(m.IsBijection(), convey.ShouldBeFalse)
		})
	})
}

func TestIntensities(t *testing.T) {
	convey.Convey("Given intensity rows", t, func() {
		convey.Convey("When they are valid", func() {
			x, err := model.NewIntensities([][model.NumDyes]float64{{1, 2, 3, 4}, {0, 0, 0, 0}})
			convey.So(err, convey.ShouldBeNil)
			convey.So(x.Spots(), convey.ShouldEqual, 2)
			convey.So(x.Row(0), convey.ShouldResemble, []float64{1, 2, 3, 4})
			convey.So(x.At(0, 3), convey.ShouldEqual, 4)
		})

		convey.Convey("When a value is negative or not finite", func() {
			for _, v := range []float64{-1, math.NaN(), math.Inf(1)} {
				_, err := model.NewIntensities([][model.NumDyes]float64{{v, 0, 0, 0}})
				convey.So(errors.Is(err, model.ErrMalformedInput), convey.ShouldBeTrue)
			}
		})

		convey.Convey("When there are no rows", func() {
			_, err := model.NewIntensities(nil)
			convey.So(errors.Is(err, model.ErrEmptyCycle), convey.ShouldBeTrue)
			convey.So(errors.Is(err, model.ErrMalformedInput), convey.ShouldBeTrue)
		})
	})
}

func TestNewCycle(t *testing.T) {
	convey.Convey("Given a two-spot intensity table", t, func() {
		x, err := model.NewIntensities([][model.NumDyes]float64{{1, 0, 0, 0}, {0, 1, 0, 0}})
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("When the reference has one base per spot", func() {
			c, err := model.NewCycle("1", dyes, x, []model.Base{model.A, model.C})
			convey.So(err, convey.ShouldBeNil)
			convey.So(c.Spots(), convey.ShouldEqual, 2)
		})

		convey.Convey("When the reference length differs", func() {
			_, err := model.NewCycle("1", dyes, x, []model.Base{model.A})
			convey.So(errors.Is(err, model.ErrMalformedInput), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "cycle 1")
		})

		convey.Convey("When two dyes share a name", func() {
			_, err := model.NewCycle("1", [model.NumDyes]model.Dye{"a", "a", "b", "c"}, x, []model.Base{model.A, model.C})
			convey.So(errors.Is(err, model.ErrMalformedInput), convey.ShouldBeTrue)
		})
	})
}

func TestAssignmentNoSignalCount(t *testing.T) {
	convey.Convey("Given an assignment with one no-signal spot", t, func() {
		a := model.Assignment{0, 1, model.NoSignal}
		convey.So(a.NoSignalCount(), convey.ShouldEqual, 1)
	})
}
