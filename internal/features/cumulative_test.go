package features

import (
	"math"
	"testing"

	"github.com/specialistvlad/hiermodel/internal/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCumulativeSteps(t *testing.T) {
	// --- Arrange ---
	data, err := frame.NewBuilder().Numeric("week", 3, 1, 2, 3).Build()
	require.NoError(t, err)

	// --- Act ---
	out, names, err := AddCumulativeSteps(data, "week")

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, []string{"cweek2", "cweek3"}, names)

	c2, ok := out.Column("cweek2")
	require.True(t, ok)
	c3, _ := out.Column("cweek3")
	for i, want := range [][2]float64{{1, 1}, {0, 0}, {1, 0}, {1, 1}} {
		assert.Equal(t, want[0], c2.Float(i), "cweek2 row %d", i)
		assert.Equal(t, want[1], c3.Float(i), "cweek3 row %d", i)
	}
	assert.False(t, data.Has("cweek2"), "input frame must not change")
}

func TestAddCumulativeSteps_Idempotent(t *testing.T) {
	data, err := frame.NewBuilder().Numeric("week", 1, 2).Build()
	require.NoError(t, err)

	once, names, err := AddCumulativeSteps(data, "week")
	require.NoError(t, err)
	twice, again, err := AddCumulativeSteps(once, "week")
	require.NoError(t, err)

	assert.Equal(t, names, again)
	assert.Equal(t, once.Names(), twice.Names())
}

func TestAddCumulativeSteps_Errors(t *testing.T) {
	withGap, err := frame.NewBuilder().
		Categorical("g", "a", "b").
		Numeric("gappy", 1, math.NaN()).
		Build()
	require.NoError(t, err)

	testCases := []struct {
		name   string
		column string
		target error
	}{
		{name: "missing column", column: "week", target: frame.ErrMissingColumn},
		{name: "categorical column", column: "g", target: ErrNotNumeric},
		{name: "missing values", column: "gappy", target: frame.ErrMissingValue},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := AddCumulativeSteps(withGap, tc.column)
			require.ErrorIs(t, err, tc.target)
		})
	}
}

func TestAddCumulativeSteps_SingleValue(t *testing.T) {
	data, err := frame.NewBuilder().Numeric("week", 4, 4).Build()
	require.NoError(t, err)

	out, names, err := AddCumulativeSteps(data, "week")
	require.NoError(t, err)
	assert.Empty(t, names)
	assert.Equal(t, data.Names(), out.Names())
}
