package design

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/specialistvlad/hiermodel/internal/formula"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// InterceptName is the column name of the intercept.
const InterceptName = "(Intercept)"

// Component is one factor of a design column. Level is empty for
// numeric variables.
type Component struct {
	Variable string `json:"variable" yaml:"variable" msgpack:"variable"`
	Level    string `json:"level,omitempty" yaml:"level,omitempty" msgpack:"level,omitempty"`
}

func (c Component) String() string {
	return c.Variable + c.Level
}

// Column describes one design matrix column.
type Column struct {
	Name       string      `json:"name" yaml:"name" msgpack:"name"`
	Term       string      `json:"term" yaml:"term" msgpack:"term"`
	Components []Component `json:"components,omitempty" yaml:"components,omitempty" msgpack:"components,omitempty"`
}

// Options control Build.
type Options struct {
	NoContrasts NoContrasts
	// Sparse stores one design row per distinct combination of the
	// referenced variables.
	Sparse bool
}

// Fixed is a compiled fixed-effects design.
type Fixed struct {
	Formula   string
	Intercept bool
	Terms     []string
	Columns   []Column
	// Design is nil when the design has no rows or no columns.
	Design *mat.Dense
	// Index maps each dataset row to its row in Design.
	Index []int
	// NRows is the number of design rows, kept when Design is nil.
	NRows int
}

// ColumnNames lists the column names in order.
func (f *Fixed) ColumnNames() []string {
	out := make([]string, len(f.Columns))
	for i, c := range f.Columns {
		out[i] = c.Name
	}
	return out
}

// ColumnIndex returns the position of the named column.
func (f *Fixed) ColumnIndex(name string) (int, bool) {
	for i, c := range f.Columns {
		if c.Name == name {
			return i, true
		}
	}
	return -1, false
}

type coding struct {
	variable string
	col      *frame.Column
	levels   []int // nil for numeric
	labels   []string
}

type termPlan struct {
	label  string
	vars   []string
	coding []coding
}

// Build compiles the fixed design for terms over data. Terms are ordered
// by degree (main effects before interactions, stable otherwise) and
// repeated variable sets are dropped. A factor is coded with every level
// when NoContrasts selects it, or when the term without that factor is not
// already in the model; otherwise its first level is the reference.
func Build(terms []formula.Term, intercept bool, data *frame.Frame, opts Options) (*Fixed, error) {
	plans, err := planTerms(terms)
	if err != nil {
		return nil, err
	}

	var referenced []string
	for _, p := range plans {
		for _, v := range p.vars {
			if !slices.Contains(referenced, v) {
				referenced = append(referenced, v)
			}
		}
	}
	if err := frame.Require(data, referenced...); err != nil {
		return nil, err
	}
	for _, v := range referenced {
		col, _ := data.Column(v)
		if col.HasMissing() {
			return nil, fmt.Errorf("%w: %q", frame.ErrMissingValue, v)
		}
	}

	out := &Fixed{Intercept: intercept}
	labels := make([]string, 0, len(plans)+1)
	if intercept {
		labels = append(labels, "1")
		out.Columns = append(out.Columns, Column{Name: InterceptName, Term: InterceptName})
	} else {
		labels = append(labels, "0")
	}

	emptyPresent := intercept
	var seen [][]string
	for i := range plans {
		p := &plans[i]
		fullSingle := false
		for _, v := range p.vars {
			col, _ := data.Column(v)
			c := coding{variable: v, col: col}
			if col.Kind() == frame.Categorical {
				full := opts.NoContrasts.Forces(p.label, v)
				if !full {
					rest := without(p.vars, v)
					if len(rest) == 0 {
						full = !emptyPresent
					} else {
						full = !containsSet(seen, rest)
					}
				}
				levels := col.Levels()
				start := 1
				if full {
					start = 0
					fullSingle = len(p.vars) == 1
				}
				for l := start; l < len(levels); l++ {
					c.levels = append(c.levels, l)
					c.labels = append(c.labels, levels[l])
				}
			}
			p.coding = append(p.coding, c)
		}
		seen = append(seen, p.vars)
		if fullSingle {
			emptyPresent = true
		}
		out.Terms = append(out.Terms, p.label)
		labels = append(labels, p.label)
		out.Columns = append(out.Columns, expandColumns(*p)...)
	}
	if err := checkColumnNames(out.Columns); err != nil {
		return nil, err
	}
	out.Formula = "~ " + strings.Join(labels, " + ")

	rows := identity(data.NRow())
	out.Index = identity(data.NRow())
	if opts.Sparse {
		rows, out.Index = uniqueRows(data, referenced)
	}
	out.NRows = len(rows)
	out.Design = fill(out.Columns, plans, rows)
	return out, nil
}

// checkColumnNames rejects designs where two columns share a name, since
// effects are keyed by column name.
func checkColumnNames(cols []Column) error {
	owner := make(map[string]string, len(cols))
	for _, c := range cols {
		if prev, ok := owner[c.Name]; ok {
			return fmt.Errorf("%w: %q from terms %q and %q", ErrDuplicateColumn, c.Name, prev, c.Term)
		}
		owner[c.Name] = c.Term
	}
	return nil
}

func planTerms(terms []formula.Term) ([]termPlan, error) {
	var plans []termPlan
	for _, t := range terms {
		switch t.(type) {
		case formula.Var, formula.Interaction:
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedTerm, t)
		}
		vars := formula.Variables(t)
		if slices.ContainsFunc(plans, func(p termPlan) bool { return sameSet(p.vars, vars) }) {
			continue
		}
		plans = append(plans, termPlan{label: t.String(), vars: vars})
	}
	sort.SliceStable(plans, func(i, j int) bool { return len(plans[i].vars) < len(plans[j].vars) })
	return plans, nil
}

// expandColumns enumerates the columns of a term with the first variable
// varying fastest.
func expandColumns(p termPlan) []Column {
	counts := make([]int, len(p.coding))
	total := 1
	for i, c := range p.coding {
		counts[i] = 1
		if c.col.Kind() == frame.Categorical {
			counts[i] = len(c.levels)
		}
		total *= counts[i]
	}
	if total == 0 {
		return nil
	}

	cols := make([]Column, 0, total)
	pick := make([]int, len(p.coding))
	for n := 0; n < total; n++ {
		rem := n
		for i := range pick {
			pick[i] = rem % counts[i]
			rem /= counts[i]
		}
		comps := make([]Component, len(p.coding))
		names := make([]string, len(p.coding))
		for i, c := range p.coding {
			comps[i] = Component{Variable: c.variable}
			if c.col.Kind() == frame.Categorical {
				comps[i].Level = c.labels[pick[i]]
			}
			names[i] = comps[i].String()
		}
		cols = append(cols, Column{Name: strings.Join(names, ":"), Term: p.label, Components: comps})
	}
	return cols
}

func fill(cols []Column, plans []termPlan, rows []int) *mat.Dense {
	if len(rows) == 0 || len(cols) == 0 {
		return nil
	}
	codings := make(map[string]*frame.Column)
	for _, p := range plans {
		for _, c := range p.coding {
			codings[c.variable] = c.col
		}
	}

	d := mat.NewDense(len(rows), len(cols), nil)
	for r, src := range rows {
		for j, col := range cols {
			if col.Components == nil {
				d.Set(r, j, 1)
				continue
			}
			v := 1.0
			for _, comp := range col.Components {
				data := codings[comp.Variable]
				if data.Kind() == frame.Numeric {
					v *= data.Float(src)
					continue
				}
				if data.Label(src) != comp.Level {
					v = 0
					break
				}
			}
			d.Set(r, j, v)
		}
	}
	return d
}

// uniqueRows returns the first dataset row of every distinct combination
// of vars, and the mapping of each dataset row onto those.
func uniqueRows(data *frame.Frame, vars []string) (rows, index []int) {
	cols := make([]*frame.Column, len(vars))
	for i, v := range vars {
		cols[i], _ = data.Column(v)
	}
	seen := make(map[string]int)
	index = make([]int, data.NRow())
	var key strings.Builder
	for i := 0; i < data.NRow(); i++ {
		key.Reset()
		for _, c := range cols {
			if c.Kind() == frame.Numeric {
				key.WriteString(frame.FormatNumber(c.Float(i)))
			} else {
				key.WriteString(c.Label(i))
			}
			key.WriteByte(0x1f)
		}
		k := key.String()
		pos, ok := seen[k]
		if !ok {
			pos = len(rows)
			seen[k] = pos
			rows = append(rows, i)
		}
		index[i] = pos
	}
	return rows, index
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

func without(vars []string, v string) []string {
	out := make([]string, 0, len(vars))
	for _, w := range vars {
		if w != v {
			out = append(out, w)
		}
	}
	return out
}

func containsSet(sets [][]string, s []string) bool {
	return slices.ContainsFunc(sets, func(x []string) bool { return sameSet(x, s) })
}

func sameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		if !slices.Contains(b, v) {
			return false
		}
	}
	return true
}
