package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
)

// DiagnosticKind classifies a non-fatal compilation finding.
type DiagnosticKind string

// DegradedGrouping reports a grouping variable with fewer than two levels
// that was simplified away.
const DegradedGrouping DiagnosticKind = "degraded_grouping"

// Diagnostic is a non-fatal finding recorded while compiling.
type Diagnostic struct {
	Kind     DiagnosticKind `json:"kind" yaml:"kind" msgpack:"kind"`
	Term     string         `json:"term" yaml:"term" msgpack:"term"`
	Variable string         `json:"variable" yaml:"variable" msgpack:"variable"`
	Levels   int            `json:"levels" yaml:"levels" msgpack:"levels"`
	Message  string         `json:"message" yaml:"message" msgpack:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Kind, d.Message, d.Term)
}

// degraded logs and returns a DegradedGrouping diagnostic.
func degraded(ctx context.Context, term, variable string, levels int, fallback string) Diagnostic {
	d := Diagnostic{
		Kind:     DegradedGrouping,
		Term:     term,
		Variable: variable,
		Levels:   levels,
		Message:  fmt.Sprintf("%q has %d distinct level(s); %s", variable, levels, fallback),
	}
	ctxlog.FromContext(ctx).Warn("Grouping variable has too few levels, simplifying term.",
		"term", term, "variable", variable, "levels", levels, "fallback", fallback)
	return d
}
