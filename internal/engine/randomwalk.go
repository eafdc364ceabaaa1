package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/features"
	"github.com/specialistvlad/hiermodel/internal/formula"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// WalkGroupPrefix starts every random-walk pooling group name.
const WalkGroupPrefix = "rw__"

// CompileRandomWalk expands rw into cumulative step columns, crossed with
// the by column when it has at least two levels. A walk without by, or a
// dependent walk, pools all steps in one group named "rw__<time>". An
// independent walk gets one group per by level, "rw__<by><level>__<time>".
func CompileRandomWalk(ctx context.Context, rw formula.RandomWalk, data *frame.Frame) (*Fragment, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Compiling random walk.", "term", rw.String())

	data, steps, err := features.AddCumulativeSteps(data, rw.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRandomWalkInput, rw, err)
	}
	if len(steps) == 0 {
		return nil, fmt.Errorf("%w: %s: time column %q needs at least two distinct values", ErrInvalidRandomWalkInput, rw, rw.Time)
	}

	frag := &Fragment{}
	by := rw.By
	if by != "" {
		col, ok := data.Column(by)
		if !ok {
			return nil, fmt.Errorf("%w: %s: %q", ErrMissingGroupingColumn, rw, by)
		}
		if n := col.Distinct(); n < 2 {
			frag.Diagnostics = append(frag.Diagnostics, degraded(ctx, rw.String(), by, n, "random walk is not stratified"))
			by = ""
		} else if data, err = data.AsCategorical(by); err != nil {
			return nil, err
		}
	}

	for _, step := range steps {
		if by == "" {
			frag.Terms = append(frag.Terms, formula.Var{Name: step}.String())
			continue
		}
		frag.Terms = append(frag.Terms, formula.Interaction{Vars: []string{by, step}}.String())
	}

	var groups []Group
	onSteps := design.AnyVariable(steps...)
	if by == "" || rw.Type == formula.Dependent {
		groups = append(groups, Group{Name: WalkGroupPrefix + rw.Time, Match: onSteps})
	} else {
		col, _ := data.Column(by)
		for _, level := range col.Levels() {
			groups = append(groups, Group{
				Name:  WalkGroupPrefix + by + level + "__" + rw.Time,
				Match: design.All(onSteps, design.HasComponent(by, level)),
			})
		}
	}

	manual, err := BuildManual(ctx, data, ManualSpec{
		Fixed:       frag.Terms,
		NoContrasts: design.AllLevels(),
		Groups:      groups,
	})
	if err != nil {
		if errors.Is(err, frame.ErrMissingValue) {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidRandomWalkInput, rw, err)
		}
		return nil, err
	}

	frag.Data = data
	frag.Effects = manual.Effects
	logger.Debug("Random walk compiled.", "term", rw.String(), "terms", len(frag.Terms), "groups", len(manual.Effects.Groups))
	return frag, nil
}
