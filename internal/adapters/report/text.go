package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/basecall/internal/domain/model"
)

// FormatText is the human-readable analysis log.
const FormatText = "text"

func init() { Register(FormatText, WriteText) }

// WriteText writes one block per cycle.
func WriteText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)
	for _, c := range r.Cycles {
		fmt.Fprintf(bw, "For cycle %s:\n", c.Name)
		fmt.Fprintf(bw, "Dye to base map that minimizes error : %s\n", formatMap(c.Map))
		fmt.Fprintf(bw, "Number of spots for which no signal was received: %d\n", c.NoSignal)
		fmt.Fprintf(bw, "Error in basecalls (including spots where no signal was received): %s%%\n",
			formatFloat(c.ErrorPercent))
		fmt.Fprintf(bw, "Dye signal contrast with the given biochemistry: %s\n\n", FormatContrast(c.Contrast))
	}
	return bw.Flush()
}

// FormatContrast rounds to three decimals; NaN renders as "undefined".
func FormatContrast(v float64) string {
	if math.IsNaN(v) {
		return "undefined"
	}
	return formatFloat(math.Round(v*1000) / 1000)
}

// formatFloat writes the shortest exact decimal and keeps one fractional
// digit on whole numbers, so 100 reads 100.0 as in existing logs.
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}

// formatMap renders the map in dye order as {'Cy3': 'A', 'Cy5': 'C', ...}.
func formatMap(m model.DyeBaseMap) string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, d := range m.Dyes {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "'%s': '%s'", d, m.Bases[i])
	}
	sb.WriteByte('}')
	return sb.String()
}
