package formula

import (
	"strconv"
	"strings"
)

// Term is one summand of a specification. The concrete types are
// Intercept, Var, Interaction, Grouped and RandomWalk.
type Term interface {
	String() string
	isTerm()
}

// Intercept is an explicit '1' (Present) or '0' inside a grouped term.
type Intercept struct {
	Present bool
}

// Var is a single column reference.
type Var struct {
	Name string
}

// Interaction crosses two or more columns.
type Interaction struct {
	Vars []string
}

// Grouped is a random-effect term '(Fixed | Group)'.
type Grouped struct {
	Fixed []Term
	Group []Term
}

// WalkType selects how random-walk steps are pooled across strata.
type WalkType string

const (
	Independent WalkType = "independent"
	Dependent   WalkType = "dependent"
)

// Valid reports whether t is a recognised walk type.
func (t WalkType) Valid() bool {
	return t == Independent || t == Dependent
}

// RandomWalk is a 'rw(time, by, type)' term. By is empty when the walk
// is not stratified.
type RandomWalk struct {
	Time string
	By   string
	Type WalkType
}

func (Intercept) isTerm()   {}
func (Var) isTerm()         {}
func (Interaction) isTerm() {}
func (Grouped) isTerm()     {}
func (RandomWalk) isTerm()  {}

func (t Intercept) String() string {
	if t.Present {
		return "1"
	}
	return "0"
}

func (t Var) String() string {
	return quoteName(t.Name)
}

func (t Interaction) String() string {
	parts := make([]string, len(t.Vars))
	for i, v := range t.Vars {
		parts[i] = quoteName(v)
	}
	return strings.Join(parts, ":")
}

// FixedString renders the left side of the bar.
func (t Grouped) FixedString() string {
	return joinTerms(t.Fixed)
}

// GroupString renders the right side of the bar.
func (t Grouped) GroupString() string {
	return joinTerms(t.Group)
}

func (t Grouped) String() string {
	return "(" + t.FixedString() + " | " + t.GroupString() + ")"
}

func (t RandomWalk) String() string {
	var b strings.Builder
	b.WriteString("rw(")
	b.WriteString(quoteName(t.Time))
	if t.By != "" {
		b.WriteString(", by = ")
		b.WriteString(quoteName(t.By))
	}
	if t.Type == Dependent {
		b.WriteString(`, type = "dependent"`)
	}
	b.WriteString(")")
	return b.String()
}

// Variables lists the columns a term references, in order of appearance.
func Variables(t Term) []string {
	switch t := t.(type) {
	case Var:
		return []string{t.Name}
	case Interaction:
		return append([]string(nil), t.Vars...)
	case Grouped:
		var out []string
		for _, sub := range t.Fixed {
			out = appendUnique(out, Variables(sub)...)
		}
		for _, sub := range t.Group {
			out = appendUnique(out, Variables(sub)...)
		}
		return out
	case RandomWalk:
		if t.By != "" {
			return []string{t.Time, t.By}
		}
		return []string{t.Time}
	}
	return nil
}

// Formula is a parsed specification: an intercept flag and an ordered
// list of distinct terms.
type Formula struct {
	Intercept bool
	Terms     []Term
}

// String renders the canonical specification, always stating the
// intercept explicitly.
func (f *Formula) String() string {
	parts := make([]string, 0, len(f.Terms)+1)
	parts = append(parts, Intercept{Present: f.Intercept}.String())
	for _, t := range f.Terms {
		parts = append(parts, t.String())
	}
	return "~ " + strings.Join(parts, " + ")
}

// Labels returns the rendered form of every term, without the intercept.
func (f *Formula) Labels() []string {
	out := make([]string, len(f.Terms))
	for i, t := range f.Terms {
		out[i] = t.String()
	}
	return out
}

func joinTerms(terms []Term) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " + ")
}

func quoteName(name string) string {
	for i, r := range name {
		if (i == 0 && !isIdentStart(r)) || !isIdentContinue(r) {
			return "`" + name + "`"
		}
	}
	return name
}

func appendUnique(dst []string, vals ...string) []string {
	for _, v := range vals {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// sameVars reports whether two variable lists name the same set.
func sameVars(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for _, v := range a {
		found := false
		for _, w := range b {
			if v == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// interceptLiteral accepts a number literal only when it is exactly 0 or 1.
func interceptLiteral(text string) (bool, bool) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return false, false
	}
	switch v {
	case 1:
		return true, true
	case 0:
		return false, true
	}
	return false, false
}
