package frame

import (
	"fmt"
	"math"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Kind is the storage class of a column.
type Kind int

const (
	// Numeric columns hold float64 values; NaN marks a missing value.
	Numeric Kind = iota
	// Categorical columns hold level codes into an explicit, ordered level set.
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Column is a single immutable dataset column.
type Column struct {
	name   string
	kind   Kind
	nums   []float64
	codes  []int // -1 marks a missing value
	levels []string
}

// NewNumeric creates a numeric column. NaN values are treated as missing.
func NewNumeric(name string, values []float64) *Column {
	return &Column{name: name, kind: Numeric, nums: slices.Clone(values)}
}

// NewCategorical creates a categorical column whose levels are the distinct
// non-missing values in sorted order. missing may be nil.
func NewCategorical(name string, values []string, missing []bool) *Column {
	seen := make(map[string]struct{})
	var levels []string
	for i, v := range values {
		if isMissingAt(missing, i) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			levels = append(levels, v)
		}
	}
	sortLevels(levels)
	col, _ := newCategoricalWithLevels(name, values, missing, levels)
	return col
}

// NewCategoricalWithLevels creates a categorical column with an explicit
// level order. Levels that do not occur in the data are dropped so the
// resulting column never carries empty levels.
func NewCategoricalWithLevels(name string, values []string, levels []string) (*Column, error) {
	present := make(map[string]struct{}, len(values))
	for _, v := range values {
		present[v] = struct{}{}
	}
	kept := make([]string, 0, len(levels))
	for _, l := range levels {
		if _, ok := present[l]; ok {
			kept = append(kept, l)
		}
	}
	return newCategoricalWithLevels(name, values, nil, kept)
}

func newCategoricalWithLevels(name string, values []string, missing []bool, levels []string) (*Column, error) {
	index := make(map[string]int, len(levels))
	for i, l := range levels {
		index[l] = i
	}
	codes := make([]int, len(values))
	for i, v := range values {
		if isMissingAt(missing, i) {
			codes[i] = -1
			continue
		}
		code, ok := index[v]
		if !ok {
			return nil, fmt.Errorf("%w: column %q value %q is not a declared level", ErrCoercion, name, v)
		}
		codes[i] = code
	}
	return &Column{name: name, kind: Categorical, codes: codes, levels: slices.Clone(levels)}, nil
}

func isMissingAt(missing []bool, i int) bool {
	return missing != nil && i < len(missing) && missing[i]
}

// Name returns the column name.
func (c *Column) Name() string { return c.name }

// Kind returns the storage class of the column.
func (c *Column) Kind() Kind { return c.kind }

// Len returns the number of rows.
func (c *Column) Len() int {
	if c.kind == Numeric {
		return len(c.nums)
	}
	return len(c.codes)
}

// Levels returns a copy of the ordered level set of a categorical column.
func (c *Column) Levels() []string { return slices.Clone(c.levels) }

// IsMissing reports whether row i has no value.
func (c *Column) IsMissing(i int) bool {
	if c.kind == Numeric {
		return math.IsNaN(c.nums[i])
	}
	return c.codes[i] < 0
}

// HasMissing reports whether any row has no value.
func (c *Column) HasMissing() bool {
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			return true
		}
	}
	return false
}

// Float returns the numeric value of row i.
func (c *Column) Float(i int) float64 { return c.nums[i] }

// Code returns the level index of row i of a categorical column, or -1.
func (c *Column) Code(i int) int { return c.codes[i] }

// Label returns the row value rendered as a string.
func (c *Column) Label(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.kind == Numeric {
		return FormatNumber(c.nums[i])
	}
	return c.levels[c.codes[i]]
}

// Value returns row i as a cty value; missing values are typed nulls.
func (c *Column) Value(i int) cty.Value {
	if c.kind == Numeric {
		if c.IsMissing(i) {
			return cty.NullVal(cty.Number)
		}
		return cty.NumberFloatVal(c.nums[i])
	}
	if c.IsMissing(i) {
		return cty.NullVal(cty.String)
	}
	return cty.StringVal(c.levels[c.codes[i]])
}

// Distinct returns the number of distinct non-missing values.
func (c *Column) Distinct() int {
	if c.kind == Categorical {
		return len(c.levels)
	}
	return len(c.DistinctNumbers())
}

// DistinctNumbers returns the sorted distinct non-missing values of a
// numeric column.
func (c *Column) DistinctNumbers() []float64 {
	seen := make(map[float64]struct{})
	var out []float64
	for _, v := range c.nums {
		if math.IsNaN(v) {
			continue
		}
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return out
}

// AsCategorical re-encodes the column as a categorical factor. Numeric
// columns get levels ordered by numeric value.
func (c *Column) AsCategorical() *Column {
	if c.kind == Categorical {
		return c
	}
	distinct := c.DistinctNumbers()
	levels := make([]string, len(distinct))
	index := make(map[float64]int, len(distinct))
	for i, v := range distinct {
		levels[i] = FormatNumber(v)
		index[v] = i
	}
	codes := make([]int, len(c.nums))
	for i, v := range c.nums {
		if math.IsNaN(v) {
			codes[i] = -1
			continue
		}
		codes[i] = index[v]
	}
	return &Column{name: c.name, kind: Categorical, codes: codes, levels: levels}
}
