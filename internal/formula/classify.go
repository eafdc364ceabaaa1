package formula

import "strings"

// RandomEffect is the raw descriptor of one grouped term.
type RandomEffect struct {
	// Fixed holds the labels left of the bar, e.g. ["1", "x"].
	Fixed []string
	// Random holds the labels right of the bar, e.g. ["location"].
	Random []string
}

// FixedString renders the left side as a specification fragment.
func (re RandomEffect) FixedString() string {
	return strings.Join(re.Fixed, " + ")
}

// RandomString renders the right side as a specification fragment.
func (re RandomEffect) RandomString() string {
	return strings.Join(re.Random, " + ")
}

func (re RandomEffect) String() string {
	return "(" + re.FixedString() + " | " + re.RandomString() + ")"
}

// Parsed partitions a specification into its three term families. Every
// term of the input lands in exactly one of Fixed, Random or
// RandomWalks.
type Parsed struct {
	Intercept   bool
	Fixed       []string
	Random      []RandomEffect
	RandomWalks []RandomWalk
}

// FixedFormula renders the fixed part, including the intercept flag.
func (p *Parsed) FixedFormula() string {
	parts := append([]string{Intercept{Present: p.Intercept}.String()}, p.Fixed...)
	return "~ " + strings.Join(parts, " + ")
}

// ExtractRandomWalks removes random-walk terms, returning the residual
// formula and the walks in order of appearance.
func ExtractRandomWalks(f *Formula) (*Formula, []RandomWalk) {
	residual := &Formula{Intercept: f.Intercept}
	var walks []RandomWalk
	for _, t := range f.Terms {
		if rw, ok := t.(RandomWalk); ok {
			walks = append(walks, rw)
			continue
		}
		residual.Terms = append(residual.Terms, t)
	}
	return residual, walks
}

// SplitGrouped separates grouped terms from the remaining fixed terms.
func SplitGrouped(f *Formula) (fixed []Term, grouped []Grouped) {
	for _, t := range f.Terms {
		if g, ok := t.(Grouped); ok {
			grouped = append(grouped, g)
			continue
		}
		fixed = append(fixed, t)
	}
	return fixed, grouped
}

// Classify parses src and partitions its terms.
func Classify(src string) (*Parsed, error) {
	f, err := Parse(src)
	if err != nil {
		return nil, err
	}
	return ClassifyFormula(f), nil
}

// ClassifyFormula partitions an already parsed formula.
func ClassifyFormula(f *Formula) *Parsed {
	residual, walks := ExtractRandomWalks(f)
	fixed, grouped := SplitGrouped(residual)

	p := &Parsed{Intercept: f.Intercept, RandomWalks: walks}
	for _, t := range fixed {
		p.Fixed = append(p.Fixed, t.String())
	}
	for _, g := range grouped {
		re := RandomEffect{}
		for _, t := range g.Fixed {
			re.Fixed = append(re.Fixed, t.String())
		}
		for _, t := range g.Group {
			re.Random = append(re.Random, t.String())
		}
		p.Random = append(p.Random, re)
	}
	return p
}

// ParseTerm parses a single term label such as "x", "a:b" or "1".
func ParseTerm(label string) (Term, error) {
	if present, ok := interceptLiteral(strings.TrimSpace(label)); ok {
		return Intercept{Present: present}, nil
	}
	f, err := Parse(label)
	if err != nil {
		return nil, err
	}
	if len(f.Terms) != 1 || !f.Intercept {
		return nil, errorf(0, "%q is not a single term", label)
	}
	return f.Terms[0], nil
}
