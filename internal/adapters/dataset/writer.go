package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/okian/basecall/internal/domain/model"
)

// CallsColumnPrefix names the inserted basecall columns, e.g. new_calls_1.
const CallsColumnPrefix = "new_calls_"

// WriteCalls writes the input table with each cycle's calls column placed
// at the cycle's CallsAt position. results follow ds.Schema order.
func WriteCalls(w io.Writer, ds *Dataset, results []*model.CycleResult) error {
	if len(results) != len(ds.Schema) {
		return fmt.Errorf("%d results for %d cycles", len(results), len(ds.Schema))
	}
	for _, r := range results {
		if len(r.Basecalls) != len(ds.Rows) {
			return fmt.Errorf("cycle %s: %d calls for %d rows", r.Name, len(r.Basecalls), len(ds.Rows))
		}
	}

	// at[j] lists the results written in front of input column j.
	width := len(ds.Header)
	at := make([][]int, width+1)
	for i, c := range ds.Schema {
		j := min(c.callsAt(), width)
		at[j] = append(at[j], i)
	}
	merge := func(rec []string, calls func(r *model.CycleResult) string) []string {
		out := make([]string, 0, width+len(results))
		for j := range width + 1 {
			for _, i := range at[j] {
				out = append(out, calls(results[i]))
			}
			if j < width {
				out = append(out, rec[j])
			}
		}
		return out
	}

	cw := csv.NewWriter(w)
	header := merge(ds.Header, func(r *model.CycleResult) string { return CallsColumnPrefix + r.Name })
	if err := cw.Write(header); err != nil {
		return err
	}
	for row, rec := range ds.Rows {
		out := merge(rec, func(r *model.CycleResult) string { return r.Basecalls[row].String() })
		if err := cw.Write(out); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// OutputPath swaps the extension of input for suffix: run.csv -> run_new_calls.csv.
func OutputPath(input, suffix string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + suffix
}
