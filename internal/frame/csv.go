package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// CSVOptions configures ReadCSV.
type CSVOptions struct {
	// Categorical lists columns that must not be inferred as numeric.
	Categorical []string
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// missingTokens are cell values read as missing.
var missingTokens = []string{"", "NA", "NaN", "null"}

// ReadCSV reads a header-first CSV table. A column is numeric when every
// non-missing cell converts to a number; otherwise it is categorical.
func ReadCSV(r io.Reader, opts CSVOptions) (*Frame, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty csv input", ErrCoercion)
		}
		return nil, fmt.Errorf("%w: %v", ErrCoercion, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	cells := make([][]cty.Value, len(header))
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCoercion, err)
		}
		for i, raw := range record {
			raw = strings.TrimSpace(raw)
			if slices.Contains(missingTokens, raw) {
				cells[i] = append(cells[i], missingValue)
				continue
			}
			cells[i] = append(cells[i], cty.StringVal(raw))
		}
	}

	cols := make([]*Column, 0, len(header))
	for i, name := range header {
		forced := slices.Contains(opts.Categorical, name)
		vals := cells[i]
		if !forced {
			if nums, ok := toNumbers(vals); ok {
				vals = nums
			}
		}
		col, err := columnFromValues(name, vals, forced)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(cols...)
}

// toNumbers converts every non-missing string cell to a number, reporting
// false as soon as one cell does not convert.
func toNumbers(vals []cty.Value) ([]cty.Value, bool) {
	out := make([]cty.Value, len(vals))
	for i, v := range vals {
		if isNil(v) {
			out[i] = v
			continue
		}
		n, err := convert.Convert(v, cty.Number)
		if err != nil {
			return nil, false
		}
		out[i] = n
	}
	return out, true
}
