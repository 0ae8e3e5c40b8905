package model

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Intensities is an immutable spots x NumDyes table of measured signal.
type Intensities struct {
	m *mat.Dense
}

// NewIntensities copies rows into a matrix. Values must be finite and non-negative.
func NewIntensities(rows [][NumDyes]float64) (*Intensities, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyCycle
	}
	data := make([]float64, 0, len(rows)*NumDyes)
	for i, r := range rows {
		for j, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
				return nil, fmt.Errorf("%w: spot %d dye %d: intensity %v", ErrMalformedInput, i+1, j+1, v)
			}
		}
		data = append(data, r[:]...)
	}
	return &Intensities{m: mat.NewDense(len(rows), NumDyes, data)}, nil
}

// Spots returns the number of rows.
func (x *Intensities) Spots() int {
	r, _ := x.m.Dims()
	return r
}

// Row returns a read-only view of spot i. Callers must not modify it.
func (x *Intensities) Row(i int) []float64 {
	return x.m.RawRowView(i)
}

// At returns the intensity of dye j at spot i.
func (x *Intensities) At(i, j int) float64 {
	return x.m.At(i, j)
}
