package dataset

import (
	"context"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"

	"github.com/okian/basecall/internal/domain/model"
)

// Dataset is a parsed input file.
type Dataset struct {
	Path   string
	Digest string // blake2b-256 of the raw file, hex encoded
	Schema Schema
	Header []string
	Rows   [][]string
	Cycles []*model.Cycle
}

// Read opens path and parses it with schema.
func Read(ctx context.Context, path string, schema Schema) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := Parse(f, schema)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	ds.Path = path
	return ds, nil
}

// Parse reads a CSV table with a header row from r.
func Parse(r io.Reader, schema Schema) (*Dataset, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	h, _ := blake2b.New256(nil)
	cr := csv.NewReader(io.TeeReader(r, h))
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedInput, ErrNoHeader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedInput, err)
	}
	width := schema.width()
	if len(header) < width {
		return nil, fmt.Errorf("%w: header has %d columns, layout needs %d", model.ErrMalformedInput, len(header), width)
	}

	ds := &Dataset{Schema: schema, Header: header}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", model.ErrMalformedInput, err)
		}
		if blank(rec) {
			continue
		}
		if len(rec) < width {
			return nil, fmt.Errorf("%w: row %d has %d columns, layout needs %d",
				model.ErrMalformedInput, len(ds.Rows)+1, len(rec), width)
		}
		if len(rec) > len(header) {
			return nil, fmt.Errorf("%w: row %d has %d columns, header has %d",
				model.ErrMalformedInput, len(ds.Rows)+1, len(rec), len(header))
		}
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		ds.Rows = append(ds.Rows, rec)
	}
	// Drain whatever the csv reader left unread so the digest covers the file.
	_, _ = io.Copy(io.Discard, io.TeeReader(r, h))
	ds.Digest = hex.EncodeToString(h.Sum(nil))

	for _, cols := range schema {
		c, err := ds.cycle(cols)
		if err != nil {
			return nil, err
		}
		ds.Cycles = append(ds.Cycles, c)
	}
	return ds, nil
}

func (ds *Dataset) cycle(cols CycleColumns) (*model.Cycle, error) {
	var dyes [model.NumDyes]model.Dye
	for j, col := range cols.Dyes {
		dyes[j] = model.Dye(strings.TrimSpace(ds.Header[col]))
	}
	rows := make([][model.NumDyes]float64, len(ds.Rows))
	labels := make([]string, len(ds.Rows))
	for i, rec := range ds.Rows {
		labels[i] = rec[cols.Reference]
		for j, col := range cols.Dyes {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[col]), 64)
			if err != nil {
				return nil, fmt.Errorf("cycle %s: %w: row %d column %q: %q is not a number",
					cols.Name, model.ErrMalformedInput, i+1, ds.Header[col], rec[col])
			}
			rows[i][j] = v
		}
	}
	ref, err := model.ParseSequence(labels)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", cols.Name, err)
	}
	x, err := model.NewIntensities(rows)
	if err != nil {
		return nil, fmt.Errorf("cycle %s: %w", cols.Name, err)
	}
	return model.NewCycle(cols.Name, dyes, x, ref)
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
