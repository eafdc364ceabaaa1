package frame

import (
	"fmt"
	"math"
	"slices"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// CoerceOptions controls validation of incoming tabular data.
type CoerceOptions struct {
	// Required lists columns that must be present.
	Required []string
	// Categorical lists columns that are re-encoded as factors regardless of
	// their inferred type.
	Categorical []string
	// Numeric lists columns that must have been read as numbers.
	Numeric []string
}

// Coerce validates a frame against the options and applies forced
// categorical encodings.
func Coerce(f *Frame, opts CoerceOptions) (*Frame, error) {
	if f == nil {
		return nil, fmt.Errorf("%w: no data", ErrCoercion)
	}
	if err := Require(f, opts.Required...); err != nil {
		return nil, err
	}
	for _, name := range opts.Numeric {
		col, ok := f.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		if col.Kind() != Numeric {
			return nil, fmt.Errorf("%w: column %q is %s, want numeric", ErrCoercion, name, col.Kind())
		}
	}
	if len(opts.Categorical) == 0 {
		return f, nil
	}
	return f.AsCategorical(opts.Categorical...)
}

// FromRecords normalises row-oriented data, such as decoded JSON objects,
// into a Frame. Columns appear in sorted name order. A column whose values
// are all numbers becomes numeric; anything else is rendered to strings and
// becomes categorical. Absent keys and nil values are missing.
func FromRecords(records []map[string]any) (*Frame, error) {
	nameSet := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			nameSet[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(nameSet))
	for k := range nameSet {
		names = append(names, k)
	}
	slices.Sort(names)

	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		vals := make([]cty.Value, len(records))
		for i, rec := range records {
			raw, ok := rec[name]
			if !ok || raw == nil {
				vals[i] = missingValue
				continue
			}
			ty, err := gocty.ImpliedType(raw)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %v", ErrCoercion, name, i, err)
			}
			v, err := gocty.ToCtyValue(raw, ty)
			if err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %v", ErrCoercion, name, i, err)
			}
			vals[i] = v
		}
		col, err := columnFromValues(name, vals, false)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	return New(cols...)
}

// columnFromValues builds a column from cty values. Null values are missing.
func columnFromValues(name string, vals []cty.Value, forceCategorical bool) (*Column, error) {
	numeric := !forceCategorical
	for _, v := range vals {
		if isNil(v) {
			continue
		}
		if !v.Type().Equals(cty.Number) {
			numeric = false
			break
		}
	}

	if numeric {
		nums := make([]float64, len(vals))
		for i, v := range vals {
			if isNil(v) {
				nums[i] = math.NaN()
				continue
			}
			var f float64
			if err := gocty.FromCtyValue(v, &f); err != nil {
				return nil, fmt.Errorf("%w: column %q row %d: %v", ErrCoercion, name, i, err)
			}
			nums[i] = f
		}
		return NewNumeric(name, nums), nil
	}

	strs := make([]string, len(vals))
	missing := make([]bool, len(vals))
	for i, v := range vals {
		if isNil(v) {
			missing[i] = true
			continue
		}
		sv, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, fmt.Errorf("%w: column %q row %d: %v", ErrCoercion, name, i, err)
		}
		strs[i] = sv.AsString()
	}
	return NewCategorical(name, strs, missing), nil
}

// missingValue marks an absent cell before the column type is known.
var missingValue = cty.NullVal(cty.DynamicPseudoType)

func isNil(v cty.Value) bool {
	return v.IsNull()
}
