package engine

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/formula"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// GroupSeparator joins the parts of a generated pooling group name.
const GroupSeparator = "__"

// grouping is one resolved right-hand side of a grouped term.
type grouping struct {
	label string
	outer string
	// inner is set for an A:B grouping expanded per level of B.
	inner string
	// pooled is false when the grouping has too few levels to pool.
	pooled bool
}

func (g grouping) vars() []string {
	if g.inner != "" {
		return []string{g.outer, g.inner}
	}
	return []string{g.outer}
}

// CompileRandomEffect expands a grouped term (fixed | random) into the
// fixed terms fixed_i:random_j, where a fixed part of "1" reduces to the
// grouping alone and "0" is dropped. Grouping columns are re-encoded as
// categorical and every level is coded.
//
// A plain grouping g pools each generated term in its own group, named
// "g" for the intercept and "<fixed>__g" otherwise. An A:B grouping is
// expanded per level b of B into groups "[<fixed>__]A__B<b>", so A varies
// independently within each level of B. A B with fewer than two levels
// degrades to a plain grouping on A; a plain grouping with fewer than two
// levels is left unpooled.
func CompileRandomEffect(ctx context.Context, re formula.RandomEffect, data *frame.Frame) (*Fragment, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling random effect.", "term", re.String())

	frag := &Fragment{}
	groupings := make([]grouping, 0, len(re.Random))
	var categorical []string
	for _, label := range re.Random {
		t, err := formula.ParseTerm(label)
		if err != nil {
			return nil, fmt.Errorf("grouping %q: %w", label, err)
		}
		vars := formula.Variables(t)
		switch {
		case len(vars) == 0:
			return nil, fmt.Errorf("%w: grouping %q names no column", ErrInvalidSpecification, label)
		case len(vars) > 2:
			return nil, fmt.Errorf("%w: grouping %q crosses %d columns, at most 2 are supported", ErrUnsupportedInteraction, label, len(vars))
		}
		for _, v := range vars {
			if !data.Has(v) {
				return nil, fmt.Errorf("%w: %s: %q", ErrMissingGroupingColumn, re, v)
			}
		}

		g := grouping{label: label, outer: vars[0], pooled: true}
		if len(vars) == 2 {
			inner, _ := data.Column(vars[1])
			if n := inner.Distinct(); n < 2 {
				frag.Diagnostics = append(frag.Diagnostics, degraded(ctx, re.String(), vars[1], n, "grouping on "+vars[0]+" only"))
				g.label = formula.Var{Name: vars[0]}.String()
			} else {
				g.inner = vars[1]
			}
		}
		if g.inner == "" {
			outer, _ := data.Column(g.outer)
			if n := outer.Distinct(); n < 2 {
				frag.Diagnostics = append(frag.Diagnostics, degraded(ctx, re.String(), g.outer, n, "effect is left unpooled"))
				g.pooled = false
			}
		}
		groupings = append(groupings, g)
		for _, v := range vars {
			if !slices.Contains(categorical, v) {
				categorical = append(categorical, v)
			}
		}
	}

	data, err := data.AsCategorical(categorical...)
	if err != nil {
		return nil, err
	}

	type plan struct {
		fixed    string
		fixedVar []string
		group    grouping
	}
	var plans []plan
	for _, g := range groupings {
		for _, label := range re.Fixed {
			t, err := formula.ParseTerm(label)
			if err != nil {
				return nil, fmt.Errorf("effect %q: %w", label, err)
			}
			var term string
			var fixedVars []string
			if ic, ok := t.(formula.Intercept); ok {
				if !ic.Present {
					continue
				}
				term = g.label
			} else {
				fixedVars = formula.Variables(t)
				term = termOf(union(fixedVars, g.vars())).String()
				label = t.String()
			}
			if slices.ContainsFunc(plans, func(p plan) bool { return p.group.label == g.label && p.fixed == label }) {
				continue
			}
			frag.Terms = append(frag.Terms, term)
			plans = append(plans, plan{fixed: label, fixedVar: fixedVars, group: g})
		}
	}

	var groups []Group
	for _, p := range plans {
		if !p.group.pooled {
			continue
		}
		prefix := ""
		if p.fixed != "1" {
			prefix = p.fixed + GroupSeparator
		}
		onTerm := design.OverVariables(union(p.fixedVar, p.group.vars())...)

		if p.group.inner == "" {
			groups = append(groups, Group{Name: prefix + p.group.outer, Match: onTerm})
			continue
		}
		inner, _ := data.Column(p.group.inner)
		for _, level := range inner.Levels() {
			groups = append(groups, Group{
				Name:  prefix + p.group.outer + GroupSeparator + p.group.inner + level,
				Match: design.All(onTerm, design.HasComponent(p.group.inner, level)),
			})
		}
	}

	manual, err := BuildManual(ctx, data, ManualSpec{
		Fixed:       frag.Terms,
		NoContrasts: design.AllLevels(),
		Groups:      groups,
	})
	if err != nil {
		return nil, err
	}

	frag.Data = data
	frag.Effects = manual.Effects
	logger.Debug("Random effect compiled.", "term", re.String(), "terms", len(frag.Terms), "groups", len(manual.Effects.Groups))
	return frag, nil
}

func union(a, b []string) []string {
	out := slices.Clone(a)
	for _, v := range b {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}

func termOf(vars []string) formula.Term {
	if len(vars) == 1 {
		return formula.Var{Name: vars[0]}
	}
	return formula.Interaction{Vars: vars}
}
