package simulate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"

	"github.com/okian/basecall/internal/domain/mapping"
	"github.com/okian/basecall/internal/domain/model"
	"github.com/okian/basecall/pkg/logger"
)

// DyeNames are the channel headers of the first cycle. Later cycles add a
// _<cycle> suffix.
var DyeNames = [model.NumDyes]model.Dye{"Cy3", "Cy5", "FAM", "ROX"}

// Generate builds a table from cfg. The same cfg always yields the same table.
func Generate(ctx context.Context, cfg Config) (*Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	all := mapping.Bijections()

	t := &Table{Cycles: make([]*CycleTruth, cfg.Cycles)}
	for c := range cfg.Cycles {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generation cancelled: %w", err)
		}
		name := strconv.Itoa(c + 1)
		dyes := cycleDyes(c)
		planted := model.PermutedMap(dyes, all[rng.IntN(len(all))])
		t.Cycles[c] = generateCycle(rng, cfg, name, planted)
	}

	logger.Get().Debug(ctx, "generated table",
		logger.Int("spots", cfg.Spots),
		logger.Int("cycles", cfg.Cycles),
	)
	return t, nil
}

func cycleDyes(c int) [model.NumDyes]model.Dye {
	if c == 0 {
		return DyeNames
	}
	var out [model.NumDyes]model.Dye
	for i, d := range DyeNames {
		out[i] = model.Dye(string(d) + "_" + strconv.Itoa(c+1))
	}
	return out
}

func generateCycle(rng *rand.Rand, cfg Config, name string, planted model.DyeBaseMap) *CycleTruth {
	ct := &CycleTruth{
		Name:        name,
		Planted:     planted,
		Reference:   make([]model.Base, cfg.Spots),
		Intensities: make([][model.NumDyes]float64, cfg.Spots),
	}
	for i := range cfg.Spots {
		dye := rng.IntN(model.NumDyes)
		called := planted.Bases[dye]
		ct.Reference[i] = called

		if rng.Float64() < cfg.NoSignalRate {
			ct.NoSignal++
			continue
		}
		if rng.Float64() < cfg.MisreadRate {
			ct.Reference[i] = model.BaseAt((baseIndex(called) + 1 + rng.IntN(model.NumDyes-1)) % model.NumDyes)
			ct.Misreads++
		}
		// The dominant channel stays above 1-maxNoise of Amplitude, the others
		// below Noise of it, so the planted dye always wins.
		for d := range model.NumDyes {
			if d == dye {
				ct.Intensities[i][d] = round2(cfg.Amplitude * (1 - maxNoise*rng.Float64()*0.9))
			} else {
				ct.Intensities[i][d] = round2(cfg.Amplitude * cfg.Noise * rng.Float64())
			}
		}
	}
	return ct
}

func baseIndex(b model.Base) int {
	for i, x := range model.Bases() {
		if x == b {
			return i
		}
	}
	return 0
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}
