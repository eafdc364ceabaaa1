// Package testutil holds fixtures and helpers shared by tests.
package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hiermodel/internal/frame"
)

// AgeGroups are the levels of the age_group column in WeeklyFrame.
var AgeGroups = []string{"00+", "05-14", "15+"}

// WeeklyFrame returns weeks 1..10 crossed with three age groups, plus a
// numeric count column.
func WeeklyFrame(t *testing.T) *frame.Frame {
	t.Helper()

	var weeks, counts []float64
	var groups []string
	for w := 1; w <= 10; w++ {
		for i, g := range AgeGroups {
			weeks = append(weeks, float64(w))
			groups = append(groups, g)
			counts = append(counts, float64(w*10+i))
		}
	}
	f, err := frame.NewBuilder().
		Numeric("week", weeks...).
		Categorical("age_group", groups...).
		Numeric("count", counts...).
		Build()
	require.NoError(t, err)
	return f
}

// CrossedFrame returns every combination of A in {a1, a2} and B in
// {b1, b2}, with a constant column C and a numeric covariate x.
func CrossedFrame(t *testing.T) *frame.Frame {
	t.Helper()

	f, err := frame.NewBuilder().
		Categorical("A", "a1", "a2", "a1", "a2").
		Categorical("B", "b1", "b1", "b2", "b2").
		Categorical("C", "only", "only", "only", "only").
		Categorical("D", "d1", "d2", "d3", "d1").
		Numeric("x", 0.5, 1.5, 2.5, 3.5).
		Build()
	require.NoError(t, err)
	return f
}
