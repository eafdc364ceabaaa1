package formula

// build lowers top-level summands into a Formula.
func build(summands []summand) (*Formula, error) {
	f := &Formula{Intercept: true}
	for _, s := range summands {
		if num, ok := s.node.(numberNode); ok {
			present, ok := interceptLiteral(num.text)
			if !ok {
				return nil, errorf(num.offset, "numeric term %q is not an intercept (use 0 or 1)", num.text)
			}
			if s.negated {
				if !present {
					return nil, errorf(num.offset, "'- 0' is not supported")
				}
				present = false
			}
			f.Intercept = present
			continue
		}
		if s.negated {
			return nil, errorf(s.node.pos(), "term removal is only supported for the intercept")
		}

		switch n := s.node.(type) {
		case callNode:
			rw, err := buildRandomWalk(n)
			if err != nil {
				return nil, err
			}
			f.add(rw)
		case groupNode:
			g, err := buildGrouped(n)
			if err != nil {
				return nil, err
			}
			f.add(g)
		default:
			sets, err := expand(n)
			if err != nil {
				return nil, err
			}
			for _, vars := range sets {
				f.add(fromVars(vars))
			}
		}
	}
	return f, nil
}

// add appends t unless an equivalent term is already present.
func (f *Formula) add(t Term) {
	for _, existing := range f.Terms {
		if equivalent(existing, t) {
			return
		}
	}
	f.Terms = append(f.Terms, t)
}

func equivalent(a, b Term) bool {
	switch a.(type) {
	case Var, Interaction:
		switch b.(type) {
		case Var, Interaction:
			return sameVars(Variables(a), Variables(b))
		}
		return false
	}
	return a.String() == b.String()
}

func fromVars(vars []string) Term {
	if len(vars) == 1 {
		return Var{Name: vars[0]}
	}
	return Interaction{Vars: vars}
}

// expand lowers a fixed-effect expression to a list of variable sets,
// one per resulting term. a*b yields a, b and a:b.
func expand(n node) ([][]string, error) {
	switch n := n.(type) {
	case identNode:
		return [][]string{{n.name}}, nil
	case parenNode:
		var out [][]string
		for _, s := range n.inner {
			if s.negated {
				return nil, errorf(s.node.pos(), "term removal is not supported inside parentheses")
			}
			if _, ok := s.node.(numberNode); ok {
				return nil, errorf(s.node.pos(), "intercept literal is not allowed inside parentheses")
			}
			sets, err := expand(s.node)
			if err != nil {
				return nil, err
			}
			out = unionSets(out, sets)
		}
		return out, nil
	case binaryNode:
		left, err := expand(n.left)
		if err != nil {
			return nil, err
		}
		right, err := expand(n.right)
		if err != nil {
			return nil, err
		}
		crossed := cross(left, right)
		if n.op == tokColon {
			return crossed, nil
		}
		return unionSets(unionSets(left, right), crossed), nil
	case numberNode:
		return nil, errorf(n.offset, "number %q cannot appear in an interaction", n.text)
	case callNode:
		if n.name == "rw" {
			return nil, errorf(n.offset, "rw() must be a top-level term")
		}
		return nil, errorf(n.offset, "unsupported function %q", n.name)
	case groupNode:
		return nil, errorf(n.offset, "grouped terms cannot be nested")
	}
	return nil, errorf(n.pos(), "unsupported expression")
}

func cross(left, right [][]string) [][]string {
	var out [][]string
	for _, l := range left {
		for _, r := range right {
			vars := appendUnique(append([]string(nil), l...), r...)
			out = unionSets(out, [][]string{vars})
		}
	}
	return out
}

func unionSets(dst, src [][]string) [][]string {
	for _, s := range src {
		found := false
		for _, d := range dst {
			if sameVars(d, s) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, s)
		}
	}
	return dst
}

// buildGrouped keeps the fixed part as written: an omitted '1' is not
// implied.
func buildGrouped(n groupNode) (Grouped, error) {
	var g Grouped
	for _, s := range n.fixed {
		if num, ok := s.node.(numberNode); ok {
			present, ok := interceptLiteral(num.text)
			if !ok || (s.negated && !present) {
				return Grouped{}, errorf(num.offset, "invalid intercept literal %q", num.text)
			}
			g.Fixed = append(g.Fixed, Intercept{Present: present && !s.negated})
			continue
		}
		if s.negated {
			return Grouped{}, errorf(s.node.pos(), "term removal is only supported for the intercept")
		}
		sets, err := expand(s.node)
		if err != nil {
			return Grouped{}, err
		}
		for _, vars := range sets {
			g.Fixed = appendTerm(g.Fixed, fromVars(vars))
		}
	}
	for _, s := range n.group {
		if s.negated {
			return Grouped{}, errorf(s.node.pos(), "term removal is not supported in a grouping")
		}
		if num, ok := s.node.(numberNode); ok {
			return Grouped{}, errorf(num.offset, "number %q cannot be a grouping", num.text)
		}
		sets, err := expand(s.node)
		if err != nil {
			return Grouped{}, err
		}
		for _, vars := range sets {
			g.Group = appendTerm(g.Group, fromVars(vars))
		}
	}
	return g, nil
}

func appendTerm(dst []Term, t Term) []Term {
	for _, d := range dst {
		if equivalent(d, t) {
			return dst
		}
	}
	return append(dst, t)
}

var walkArgs = []string{"time", "by", "type"}

func buildRandomWalk(n callNode) (RandomWalk, error) {
	if n.name != "rw" {
		return RandomWalk{}, errorf(n.offset, "unsupported function %q", n.name)
	}
	values := make(map[string]token, len(walkArgs))
	positional := 0
	for _, arg := range n.args {
		name := arg.name
		if name == "" {
			if positional >= len(walkArgs) {
				return RandomWalk{}, errorf(arg.value.offset, "rw() takes at most %d arguments", len(walkArgs))
			}
			name = walkArgs[positional]
			positional++
		}
		if !isWalkArg(name) {
			return RandomWalk{}, errorf(arg.value.offset, "rw() has no argument %q", name)
		}
		if _, dup := values[name]; dup {
			return RandomWalk{}, errorf(arg.value.offset, "rw() argument %q given twice", name)
		}
		values[name] = arg.value
	}

	rw := RandomWalk{Type: Independent}
	timeTok, ok := values["time"]
	if !ok {
		return RandomWalk{}, errorf(n.offset, "rw() requires a time column")
	}
	if timeTok.kind == tokNumber || timeTok.text == "" {
		return RandomWalk{}, errorf(timeTok.offset, "rw() time must be a column name")
	}
	rw.Time = timeTok.text
	if by, ok := values["by"]; ok {
		if by.kind == tokNumber || by.text == "" {
			return RandomWalk{}, errorf(by.offset, "rw() by must be a column name")
		}
		rw.By = by.text
	}
	if typ, ok := values["type"]; ok {
		rw.Type = WalkType(typ.text)
		if !rw.Type.Valid() {
			return RandomWalk{}, errorf(typ.offset, "rw() type must be %q or %q, got %q", Independent, Dependent, typ.text)
		}
	}
	return rw, nil
}

func isWalkArg(name string) bool {
	for _, a := range walkArgs {
		if a == name {
			return true
		}
	}
	return false
}
