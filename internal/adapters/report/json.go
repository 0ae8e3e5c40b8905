package report

import (
	"encoding/json"
	"io"
	"math"
)

// FormatJSON emits the same facts as the text log as one JSON document.
const FormatJSON = "json"

func init() { Register(FormatJSON, WriteJSON) }

type jsonCycle struct {
	Cycle        string            `json:"cycle"`
	DyeBaseMap   map[string]string `json:"dye_base_map"`
	Spots        int               `json:"spots"`
	NoSignal     int               `json:"no_signal_spots"`
	Mismatches   int               `json:"mismatches"`
	ErrorPercent float64           `json:"error_percent"`
	Contrast     *float64          `json:"contrast"` // null when undefined
}

type jsonReport struct {
	Input  string      `json:"input"`
	Digest string      `json:"blake2b_256,omitempty"`
	Cycles []jsonCycle `json:"cycles"`
}

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r *Report) error {
	out := jsonReport{Input: r.Path, Digest: r.Digest, Cycles: make([]jsonCycle, 0, len(r.Cycles))}
	for _, c := range r.Cycles {
		jc := jsonCycle{
			Cycle:        c.Name,
			DyeBaseMap:   c.Map.Pairs(),
			Spots:        c.Spots,
			NoSignal:     c.NoSignal,
			Mismatches:   c.Mismatches,
			ErrorPercent: c.ErrorPercent,
		}
		if !math.IsNaN(c.Contrast) {
			v := c.Contrast
			jc.Contrast = &v
		}
		out.Cycles = append(out.Cycles, jc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
