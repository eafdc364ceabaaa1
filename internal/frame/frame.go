package frame

import (
	"fmt"
	"maps"
	"slices"
)

// Frame is an ordered collection of equal-length columns.
type Frame struct {
	names []string
	cols  map[string]*Column
	nrow  int
}

// New assembles a frame from columns. Column names must be unique and all
// columns must have the same length.
func New(cols ...*Column) (*Frame, error) {
	f := &Frame{cols: make(map[string]*Column, len(cols))}
	for i, c := range cols {
		if c == nil {
			return nil, fmt.Errorf("%w: column %d is nil", ErrCoercion, i)
		}
		if _, dup := f.cols[c.Name()]; dup {
			return nil, fmt.Errorf("%w: duplicate column %q", ErrCoercion, c.Name())
		}
		if i == 0 {
			f.nrow = c.Len()
		} else if c.Len() != f.nrow {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrCoercion, c.Name(), c.Len(), f.nrow)
		}
		f.names = append(f.names, c.Name())
		f.cols[c.Name()] = c
	}
	return f, nil
}

// NRow returns the number of rows.
func (f *Frame) NRow() int { return f.nrow }

// Names returns the column names in order.
func (f *Frame) Names() []string { return slices.Clone(f.names) }

// Column looks up a column by name.
func (f *Frame) Column(name string) (*Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Has reports whether the frame has a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Clone returns an independent frame value. Columns are immutable and
// therefore shared.
func (f *Frame) Clone() *Frame {
	return &Frame{names: slices.Clone(f.names), cols: maps.Clone(f.cols), nrow: f.nrow}
}

// WithColumns returns a new frame where each given column replaces the
// column of the same name, or is appended when no such column exists.
func (f *Frame) WithColumns(cols ...*Column) (*Frame, error) {
	out := f.Clone()
	for _, c := range cols {
		if len(out.names) > 0 && c.Len() != out.nrow {
			return nil, fmt.Errorf("%w: column %q has %d rows, expected %d", ErrCoercion, c.Name(), c.Len(), out.nrow)
		}
		if len(out.names) == 0 {
			out.nrow = c.Len()
		}
		if _, exists := out.cols[c.Name()]; !exists {
			out.names = append(out.names, c.Name())
		}
		out.cols[c.Name()] = c
	}
	return out, nil
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if err := Require(f, names...); err != nil {
		return nil, err
	}
	out := &Frame{cols: make(map[string]*Column, len(names)), nrow: f.nrow}
	for _, n := range names {
		if _, dup := out.cols[n]; dup {
			continue
		}
		out.names = append(out.names, n)
		out.cols[n] = f.cols[n]
	}
	return out, nil
}

// AsCategorical returns a frame where the named columns are re-encoded as
// categorical factors.
func (f *Frame) AsCategorical(names ...string) (*Frame, error) {
	if err := Require(f, names...); err != nil {
		return nil, err
	}
	converted := make([]*Column, 0, len(names))
	for _, n := range names {
		converted = append(converted, f.cols[n].AsCategorical())
	}
	return f.WithColumns(converted...)
}

// Require checks that every named column is present.
func Require(f *Frame, names ...string) error {
	var missing []string
	for _, n := range names {
		if !f.Has(n) {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrMissingColumn, missing)
	}
	return nil
}
