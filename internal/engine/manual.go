package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/formula"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// ManualSpec lists the terms of a hand-assembled model.
type ManualSpec struct {
	// Fixed terms, as labels ("x", "a:b"). "1" and "0" set the intercept.
	Fixed []string
	// Random terms are added to the design with every level coded, and
	// each gets a pooling group of the same name.
	Random []string
	// CustomRandom names are column prefixes: every dataset column with
	// that prefix becomes a term, and the prefix names a pooling group
	// matched by effect-name prefix.
	CustomRandom []string
	NoContrasts  design.NoContrasts
	AddIntercept bool
	Sparse       bool
	// Matcher overrides the membership test for Random groups. The default
	// matches effects built from exactly the term's variables.
	Matcher func(term formula.Term) design.Matcher
	// Groups are pooling groups with explicit membership tests, added after
	// the Random and CustomRandom groups.
	Groups []Group
}

// Group is a named pooling group and its membership test.
type Group struct {
	Name  string
	Match design.Matcher
}

// Manual is a hand-assembled model.
type Manual struct {
	Fixed   *design.Fixed
	Effects *design.Effects
	Random  *design.Random
}

// BuildManual compiles the fixed design, its effects table and a pooling
// design for spec. Without random terms the pooling design is
// intercept-only.
func BuildManual(ctx context.Context, data *frame.Frame, spec ManualSpec) (*Manual, error) {
	logger := ctxlog.FromContext(ctx)

	intercept := spec.AddIntercept
	var terms []formula.Term
	for _, label := range spec.Fixed {
		t, err := formula.ParseTerm(label)
		if err != nil {
			return nil, fmt.Errorf("fixed term %q: %w", label, err)
		}
		if ic, ok := t.(formula.Intercept); ok {
			intercept = ic.Present
			continue
		}
		terms = append(terms, t)
	}

	randomTerms := make([]formula.Term, 0, len(spec.Random))
	for _, label := range spec.Random {
		t, err := formula.ParseTerm(label)
		if err != nil {
			return nil, fmt.Errorf("random term %q: %w", label, err)
		}
		if _, ok := t.(formula.Intercept); ok {
			return nil, fmt.Errorf("%w: random term cannot be an intercept", ErrInvalidSpecification)
		}
		randomTerms = append(randomTerms, t)
	}
	terms = append(terms, randomTerms...)

	for _, prefix := range spec.CustomRandom {
		for _, name := range data.Names() {
			if strings.HasPrefix(name, prefix) {
				terms = append(terms, formula.Var{Name: name})
			}
		}
	}

	nc := spec.NoContrasts.With(spec.Random...)
	fixed, err := design.Build(terms, intercept, data, design.Options{NoContrasts: nc, Sparse: spec.Sparse})
	if err != nil {
		return nil, err
	}
	effects := design.Describe(fixed)
	logger.Debug("Manual design built.", "formula", fixed.Formula, "columns", len(fixed.Columns), "rows", fixed.NRows)

	for i, t := range randomTerms {
		m := design.OverVariables(formula.Variables(t)...)
		if spec.Matcher != nil {
			m = spec.Matcher(t)
		}
		if effects, err = addGroup(ctx, effects, spec.Random[i], m); err != nil {
			return nil, err
		}
	}
	for _, prefix := range spec.CustomRandom {
		if effects, err = addGroup(ctx, effects, prefix, design.HasPrefix(prefix)); err != nil {
			return nil, err
		}
	}
	for _, g := range spec.Groups {
		if effects, err = addGroup(ctx, effects, g.Name, g.Match); err != nil {
			return nil, err
		}
	}

	return &Manual{
		Fixed:   fixed,
		Effects: effects,
		Random:  design.BuildPooling(effects),
	}, nil
}

func addGroup(ctx context.Context, effects *design.Effects, name string, m design.Matcher) (*design.Effects, error) {
	out, n, err := design.AddPoolingGroup(effects, name, m)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		ctxlog.FromContext(ctx).Warn("Pooling group matched no effects.", "group", name)
	}
	return out, nil
}
