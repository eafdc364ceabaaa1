// Package features derives model covariates from existing dataset columns.
package features

import (
	"errors"
	"fmt"

	"github.com/specialistvlad/hiermodel/internal/frame"
)

var (
	// ErrNotNumeric is returned when a feature source column is categorical.
	ErrNotNumeric = errors.New("column is not numeric")
)

// CumulativePrefix returns the marker tag that prefixes every cumulative
// membership column derived from the named time column.
func CumulativePrefix(time string) string {
	return "c" + time
}

// CumulativeName returns the column name for the step at time value t.
func CumulativeName(time string, t float64) string {
	return CumulativePrefix(time) + frame.FormatNumber(t)
}

// AddCumulativeSteps appends one indicator column per distinct value of the
// time column except the first. The column for step s is 1 for every row
// whose time is at or after s, so each step switches on one more
// coefficient. Columns that already exist are reused rather than rebuilt.
// The names of the step columns are returned in time order.
func AddCumulativeSteps(data *frame.Frame, time string) (*frame.Frame, []string, error) {
	col, ok := data.Column(time)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", frame.ErrMissingColumn, time)
	}
	if col.Kind() != frame.Numeric {
		return nil, nil, fmt.Errorf("%w: %q is %s", ErrNotNumeric, time, col.Kind())
	}
	if col.HasMissing() {
		return nil, nil, fmt.Errorf("%w: %q", frame.ErrMissingValue, time)
	}

	steps := col.DistinctNumbers()
	if len(steps) < 2 {
		return data, nil, nil
	}

	names := make([]string, 0, len(steps)-1)
	var added []*frame.Column
	for _, step := range steps[1:] {
		name := CumulativeName(time, step)
		names = append(names, name)
		if data.Has(name) {
			continue
		}
		vals := make([]float64, col.Len())
		for i := range vals {
			if col.Float(i) >= step {
				vals[i] = 1
			}
		}
		added = append(added, frame.NewNumeric(name, vals))
	}

	if len(added) == 0 {
		return data, names, nil
	}
	out, err := data.WithColumns(added...)
	if err != nil {
		return nil, nil, err
	}
	return out, names, nil
}
