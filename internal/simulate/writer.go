package simulate

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/okian/basecall/internal/adapters/dataset"
	"github.com/okian/basecall/internal/domain/model"
)

// columnsPerCycle is the reference, the four dyes and a spacer.
const columnsPerCycle = 2 + model.NumDyes

const outputPerm = 0o644

// Schema is the layout WriteCSV uses. For two cycles it equals
// dataset.DefaultSchema.
func (t *Table) Schema() dataset.Schema {
	s := make(dataset.Schema, len(t.Cycles))
	for c, ct := range t.Cycles {
		base := c * columnsPerCycle
		s[c] = dataset.CycleColumns{Name: ct.Name, Reference: base, CallsAt: base + columnsPerCycle}
		if c == len(t.Cycles)-1 {
			s[c].CallsAt-- // no spacer after the last cycle
		}
		for d := range model.NumDyes {
			s[c].Dyes[d] = base + 1 + d
		}
	}
	return s
}

// WriteCSV writes t with a header row. Every cycle but the last is followed
// by an empty spacer column.
func WriteCSV(w io.Writer, t *Table) error {
	if len(t.Cycles) == 0 {
		return fmt.Errorf("%w: table has no cycles", ErrInvalidConfig)
	}
	cw := csv.NewWriter(w)
	width := len(t.Cycles)*columnsPerCycle - 1

	header := make([]string, 0, width)
	for c, ct := range t.Cycles {
		header = append(header, "ref"+ct.Name)
		for _, d := range ct.Planted.Dyes {
			header = append(header, string(d))
		}
		if c < len(t.Cycles)-1 {
			header = append(header, "spacer")
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	spots := len(t.Cycles[0].Reference)
	row := make([]string, 0, width)
	for i := range spots {
		row = row[:0]
		for c, ct := range t.Cycles {
			row = append(row, ct.Reference[i].String())
			for _, v := range ct.Intensities[i] {
				row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
			}
			if c < len(t.Cycles)-1 {
				row = append(row, "")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile generates a table from cfg and writes it to path.
func WriteFile(ctx context.Context, cfg Config, path string) (*Table, error) {
	t, err := Generate(ctx, cfg)
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputPerm)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteCSV(f, t); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("write %s: %w", path, err)
	}
	return t, nil
}
