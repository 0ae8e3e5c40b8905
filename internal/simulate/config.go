// Package simulate generates synthetic intensity tables with a known
// dye-to-base map and checks that the basecaller recovers it.
package simulate

import (
	"fmt"

	"github.com/okian/basecall/internal/domain/model"
)

// Default generation parameters.
const (
	DefaultSpots     = 1000
	DefaultAmplitude = 1000.0
	DefaultNoise     = 0.3
	maxNoise         = 0.5
)

// Config holds the knobs for one synthetic table.
type Config struct {
	Spots        int     // rows per table
	Cycles       int     // cycles per row, laid out like the default schema
	Seed         uint64  // same seed, same table
	Amplitude    float64 // scale of the dominant intensity
	Noise        float64 // off-channel intensity as a fraction of Amplitude, below 0.5
	NoSignalRate float64 // fraction of spots with four zero intensities
	MisreadRate  float64 // fraction of spots whose reference disagrees with the planted call
}

// DefaultConfig returns a two-cycle table of DefaultSpots spots.
func DefaultConfig() Config {
	return Config{
		Spots:     DefaultSpots,
		Cycles:    2,
		Seed:      1,
		Amplitude: DefaultAmplitude,
		Noise:     DefaultNoise,
	}
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	switch {
	case c.Spots < 1:
		return fmt.Errorf("%w: spots must be positive", ErrInvalidConfig)
	case c.Cycles < 1:
		return fmt.Errorf("%w: cycles must be positive", ErrInvalidConfig)
	case c.Amplitude < 1:
		return fmt.Errorf("%w: amplitude must be at least 1", ErrInvalidConfig)
	case c.Noise < 0 || c.Noise >= maxNoise:
		return fmt.Errorf("%w: noise must be in [0, %g)", ErrInvalidConfig, maxNoise)
	case c.NoSignalRate < 0 || c.NoSignalRate > 1:
		return fmt.Errorf("%w: no-signal rate must be in [0, 1]", ErrInvalidConfig)
	case c.MisreadRate < 0 || c.MisreadRate > 1:
		return fmt.Errorf("%w: misread rate must be in [0, 1]", ErrInvalidConfig)
	}
	return nil
}

// CycleTruth is one generated cycle and the answer the basecaller should find.
type CycleTruth struct {
	Name        string
	Planted     model.DyeBaseMap
	Reference   []model.Base
	Intensities [][model.NumDyes]float64
	NoSignal    int
	Misreads    int
}

// ExpectedErrorPercent is the error of the planted map against the reference.
func (c *CycleTruth) ExpectedErrorPercent() float64 {
	return 100 * float64(c.NoSignal+c.Misreads) / float64(len(c.Reference))
}

// Table is a generated input file.
type Table struct {
	Cycles []*CycleTruth
}

// Stats summarises a simulate run.
type Stats struct {
	Spots     int
	Cycles    int
	NoSignal  int
	Misreads  int
	Recovered int
}
