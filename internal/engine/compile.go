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

// Options control Compile.
type Options struct {
	// Sparse de-duplicates fixed design rows.
	Sparse bool
}

// Model is a compiled specification.
type Model struct {
	// Formula is the specification as given.
	Formula string
	Parsed  *formula.Parsed
	// Expanded is the fixed specification after random walks and random
	// effects are unrolled into fixed terms.
	Expanded string
	Fixed    *design.Fixed
	Effects  *design.Effects
	Random   *design.Random
	// Data is the dataset with every derived column added.
	Data        *frame.Frame
	Diagnostics []Diagnostic
}

type generated struct {
	term   string
	vars   []string
	source string
}

// Compile builds the designs for spec over data. Random walks are
// compiled first and random effects second, each seeing the dataset left
// by the previous stage. data itself is never modified.
func Compile(ctx context.Context, spec string, data *frame.Frame, opts Options) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	parsed, err := formula.Classify(spec)
	if err != nil {
		return nil, err
	}
	logger.Debug("Specification classified.",
		"fixed", len(parsed.Fixed), "random_effects", len(parsed.Random), "random_walks", len(parsed.RandomWalks))

	m := &Model{Formula: spec, Parsed: parsed}
	var userTerms []generated
	for _, label := range parsed.Fixed {
		t, err := formula.ParseTerm(label)
		if err != nil {
			return nil, err
		}
		userTerms = append(userTerms, generated{term: label, vars: formula.Variables(t), source: "fixed"})
	}

	var walkFrags, effectFrags []*Fragment
	for _, rw := range parsed.RandomWalks {
		frag, err := CompileRandomWalk(ctx, rw, data)
		if err != nil {
			return nil, err
		}
		data = frag.Data
		walkFrags = append(walkFrags, frag)
		m.Diagnostics = append(m.Diagnostics, frag.Diagnostics...)
	}
	for _, re := range parsed.Random {
		frag, err := CompileRandomEffect(ctx, re, data)
		if err != nil {
			return nil, err
		}
		data = frag.Data
		effectFrags = append(effectFrags, frag)
		m.Diagnostics = append(m.Diagnostics, frag.Diagnostics...)
	}

	var effectTerms, walkTerms []string
	seen := userTerms
	for _, group := range []struct {
		frags []*Fragment
		out   *[]string
		kind  string
	}{
		{frags: effectFrags, out: &effectTerms, kind: "random effect"},
		{frags: walkFrags, out: &walkTerms, kind: "random walk"},
	} {
		for _, frag := range group.frags {
			for _, label := range frag.Terms {
				t, err := formula.ParseTerm(label)
				if err != nil {
					return nil, err
				}
				g := generated{term: label, vars: formula.Variables(t), source: group.kind}
				if err := checkDuplicate(seen, g); err != nil {
					return nil, err
				}
				seen = append(seen, g)
				*group.out = append(*group.out, label)
			}
		}
	}

	expanded := make([]string, 0, len(parsed.Fixed)+len(effectTerms)+len(walkTerms))
	expanded = append(expanded, parsed.Fixed...)
	expanded = append(expanded, effectTerms...)
	expanded = append(expanded, walkTerms...)
	m.Expanded = render(parsed.Intercept, expanded)

	manual, err := BuildManual(ctx, data, ManualSpec{
		Fixed:        expanded,
		NoContrasts:  design.Only(append(effectTerms, walkTerms...)...),
		AddIntercept: parsed.Intercept,
		Sparse:       opts.Sparse,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("Fixed design built.", "formula", manual.Fixed.Formula, "columns", len(manual.Fixed.Columns))

	effects := manual.Effects
	for _, frag := range append(effectFrags, walkFrags...) {
		var dropped []string
		effects, dropped = design.Merge(effects, frag.Effects)
		if len(dropped) > 0 {
			logger.Warn("Effects without a fixed design column were dropped.", "effects", dropped)
		}
	}
	logger.Debug("Effects merged.", "effects", len(effects.Rows), "groups", len(effects.Groups))

	m.Fixed = manual.Fixed
	m.Effects = effects
	m.Random = design.BuildPooling(effects)
	m.Data = data
	return m, nil
}

func checkDuplicate(seen []generated, g generated) error {
	for _, s := range seen {
		if sameVars(s.vars, g.vars) {
			return fmt.Errorf("%w: %s term %q collides with %s term %q", ErrDuplicateTerm, g.source, g.term, s.source, s.term)
		}
	}
	return nil
}

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

func render(intercept bool, terms []string) string {
	parts := make([]string, 0, len(terms)+1)
	parts = append(parts, formula.Intercept{Present: intercept}.String())
	parts = append(parts, terms...)
	return "~ " + strings.Join(parts, " + ")
}
