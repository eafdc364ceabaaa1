package design

import (
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FixedColumn names the pooling design column of unpooled effects.
const FixedColumn = "fixed"

// Random is the pooling design: one row per effect, one column per
// standard deviation parameter.
type Random struct {
	Formula string
	Columns []string
	Effects []string
	// Design is nil when there are no effects.
	Design *mat.Dense
}

// BuildPooling compiles the pooling design of an effects table. With no
// groups it is a single intercept column; otherwise it has a "fixed"
// column followed by one indicator column per group.
func BuildPooling(e *Effects) *Random {
	out := &Random{Effects: e.Names()}
	if len(e.Groups) == 0 {
		out.Formula = "~ 1"
		out.Columns = []string{InterceptName}
	} else {
		out.Formula = "~ 0 + " + strings.Join(append([]string{FixedColumn}, e.Groups...), " + ")
		out.Columns = append([]string{FixedColumn}, e.Groups...)
	}
	if len(e.Rows) == 0 {
		return out
	}

	d := mat.NewDense(len(e.Rows), len(out.Columns), nil)
	for i, r := range e.Rows {
		if len(e.Groups) == 0 {
			d.Set(i, 0, 1)
			continue
		}
		if r.Fixed {
			d.Set(i, 0, 1)
		}
		for j, g := range e.Groups {
			if r.InPool(g) {
				d.Set(i, j+1, 1)
			}
		}
	}
	out.Design = d
	return out
}
