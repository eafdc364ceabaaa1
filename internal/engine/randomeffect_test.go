package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hiermodel/internal/formula"
	"github.com/specialistvlad/hiermodel/internal/frame"
	"github.com/specialistvlad/hiermodel/internal/testutil"
)

func TestCompileRandomEffect(t *testing.T) {
	testCases := []struct {
		name       string
		re         formula.RandomEffect
		wantTerms  []string
		wantGroups []string
	}{
		{
			name:       "intercept",
			re:         formula.RandomEffect{Fixed: []string{"1"}, Random: []string{"D"}},
			wantTerms:  []string{"D"},
			wantGroups: []string{"D"},
		},
		{
			name:       "zero is dropped",
			re:         formula.RandomEffect{Fixed: []string{"0", "x"}, Random: []string{"D"}},
			wantTerms:  []string{"x:D"},
			wantGroups: []string{"x__D"},
		},
		{
			name:       "several groupings",
			re:         formula.RandomEffect{Fixed: []string{"1"}, Random: []string{"A", "B"}},
			wantTerms:  []string{"A", "B"},
			wantGroups: []string{"A", "B"},
		},
		{
			name:       "interaction grouping",
			re:         formula.RandomEffect{Fixed: []string{"1", "x"}, Random: []string{"A:B"}},
			wantTerms:  []string{"A:B", "x:A:B"},
			wantGroups: []string{"A__Bb1", "A__Bb2", "x__A__Bb1", "x__A__Bb2"},
		},
		{
			name:       "only the intercept is suppressed",
			re:         formula.RandomEffect{Fixed: []string{"0"}, Random: []string{"A"}},
			wantTerms:  nil,
			wantGroups: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, _ := testutil.LoggedContext(t)

			// --- Act ---
			frag, err := CompileRandomEffect(ctx, tc.re, testutil.CrossedFrame(t))

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.wantTerms, frag.Terms)
			assert.Equal(t, tc.wantGroups, frag.Effects.Groups)
			for _, g := range frag.Effects.Groups {
				assert.NotEmpty(t, frag.Effects.Members(g), g)
			}
		})
	}
}

func TestCompileRandomEffect_NumericGroupingIsCategorical(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LoggedContext(t)
	data, err := frame.NewBuilder().Numeric("site", 3, 1, 2, 1).Build()
	require.NoError(t, err)

	// --- Act ---
	frag, err := CompileRandomEffect(ctx, formula.RandomEffect{Fixed: []string{"1"}, Random: []string{"site"}}, data)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"site1", "site2", "site3"}, frag.Effects.Members("site"))
}
