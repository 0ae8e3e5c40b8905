// Package dataset reads intensity tables from CSV and writes the results table.
//
// Column positions are resolved once, through a Schema, into named cycle
// fields. Nothing downstream of this package knows the file layout.
package dataset

import (
	"fmt"

	"github.com/okian/basecall/internal/domain/model"
)

// CycleColumns locates one cycle's fields in a row.
type CycleColumns struct {
	Name      string
	Reference int
	Dyes      [model.NumDyes]int
	// CallsAt is the input column the cycle's calls column is written in
	// front of. Zero places it right after the cycle's last field; positions
	// past the end of the row append it.
	CallsAt int
}

// callsAt resolves CallsAt against the cycle's own columns.
func (c CycleColumns) callsAt() int {
	if c.CallsAt > 0 {
		return c.CallsAt
	}
	last := c.Reference
	for _, d := range c.Dyes {
		last = max(last, d)
	}
	return last + 1
}

// Schema lists the cycles stored in each row.
type Schema []CycleColumns

// DefaultSchema is the two-cycle layout: reference, four dyes, a spacer
// column, then the second cycle's reference and dyes. Each calls column
// closes its cycle's block, the first one after the spacer.
func DefaultSchema() Schema {
	return Schema{
		{Name: "1", Reference: 0, Dyes: [model.NumDyes]int{1, 2, 3, 4}, CallsAt: 6},
		{Name: "2", Reference: 6, Dyes: [model.NumDyes]int{7, 8, 9, 10}, CallsAt: 11},
	}
}

// Validate checks that every cycle has a name and non-negative, distinct columns.
func (s Schema) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: schema has no cycles", ErrSchema)
	}
	names := make(map[string]bool, len(s))
	for i, c := range s {
		if c.Name == "" {
			return fmt.Errorf("%w: cycle %d has no name", ErrSchema, i+1)
		}
		if names[c.Name] {
			return fmt.Errorf("%w: duplicate cycle name %q", ErrSchema, c.Name)
		}
		names[c.Name] = true
		cols := map[int]bool{c.Reference: true}
		if c.Reference < 0 {
			return fmt.Errorf("%w: cycle %s: negative reference column", ErrSchema, c.Name)
		}
		if c.CallsAt < 0 {
			return fmt.Errorf("%w: cycle %s: negative calls column", ErrSchema, c.Name)
		}
		for _, d := range c.Dyes {
			if d < 0 || cols[d] {
				return fmt.Errorf("%w: cycle %s: bad dye column %d", ErrSchema, c.Name, d)
			}
			cols[d] = true
		}
	}
	return nil
}

// width is the minimum number of columns a row needs.
func (s Schema) width() int {
	w := 0
	for _, c := range s {
		w = max(w, c.Reference+1)
		for _, d := range c.Dyes {
			w = max(w, d+1)
		}
	}
	return w
}
