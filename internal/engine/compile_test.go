package engine

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/hiermodel/internal/design"
	"github.com/specialistvlad/hiermodel/internal/frame"
	"github.com/specialistvlad/hiermodel/internal/testutil"
)

func weekColumns(prefix string) []string {
	var out []string
	for w := 2; w <= 10; w++ {
		out = append(out, fmt.Sprintf("%scweek%d", prefix, w))
	}
	return out
}

func TestCompile_ScenarioFixedPlusRandomWalk(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LoggedContext(t)
	data := testutil.WeeklyFrame(t)

	// --- Act ---
	m, err := Compile(ctx, "~ 1 + age_group + rw(week)", data, Options{})

	// --- Assert ---
	require.NoError(t, err)
	wantColumns := append([]string{"(Intercept)", "age_group05-14", "age_group15+"}, weekColumns("")...)
	if diff := cmp.Diff(wantColumns, m.Fixed.ColumnNames()); diff != "" {
		t.Errorf("fixed columns mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "~ 1 + age_group + cweek2 + cweek3 + cweek4 + cweek5 + cweek6 + cweek7 + cweek8 + cweek9 + cweek10", m.Expanded)

	assert.Equal(t, []string{"rw__week"}, m.Effects.Groups)
	assert.Equal(t, weekColumns(""), m.Effects.Members("rw__week"))
	assert.Equal(t, "~ 0 + fixed + rw__week", m.Random.Formula)
	r, c := m.Random.Design.Dims()
	assert.Equal(t, 11, r)
	assert.Equal(t, 2, c)

	assert.True(t, m.Data.Has("cweek10"))
	assert.False(t, data.Has("cweek10"), "caller's dataset must not change")
	assert.Empty(t, m.Diagnostics)
}

func TestCompile_ScenarioGroupedIntercept(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LoggedContext(t)
	data, err := frame.NewBuilder().Categorical("age_group", testutil.AgeGroups...).Build()
	require.NoError(t, err)

	// --- Act ---
	m, err := Compile(ctx, "(1 | age_group)", data, Options{})

	// --- Assert ---
	// The implicit intercept is kept, as only "0" or "-1" removes it: the
	// fixed design has (Intercept) plus one column per level, and the three
	// level columns are the effects pooled together.
	require.NoError(t, err)
	assert.Equal(t, []string{"(Intercept)", "age_group00+", "age_group05-14", "age_group15+"}, m.Fixed.ColumnNames())
	assert.Len(t, m.Effects.Rows, 3)
	assert.Equal(t, []string{"age_group"}, m.Effects.Groups)
	assert.Equal(t, []string{"age_group00+", "age_group05-14", "age_group15+"}, m.Effects.Members("age_group"))
	assert.Equal(t, []string{"fixed", "age_group"}, m.Random.Columns)
	assert.Equal(t, "~ 1 + age_group", m.Expanded)
}

func TestCompile_ScenarioInteractionGrouping(t *testing.T) {
	// --- Arrange ---
	ctx, _ := testutil.LoggedContext(t)

	// --- Act ---
	m, err := Compile(ctx, "~ (1 | A:B)", testutil.CrossedFrame(t), Options{})

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, []string{"(Intercept)", "Aa1:Bb1", "Aa2:Bb1", "Aa1:Bb2", "Aa2:Bb2"}, m.Fixed.ColumnNames())
	assert.Equal(t, []string{"A__Bb1", "A__Bb2"}, m.Effects.Groups)
	assert.Equal(t, []string{"Aa1:Bb1", "Aa2:Bb1"}, m.Effects.Members("A__Bb1"))
	assert.Equal(t, []string{"Aa1:Bb2", "Aa2:Bb2"}, m.Effects.Members("A__Bb2"))
}

func TestCompile_RandomWalkTypes(t *testing.T) {
	testCases := []struct {
		name       string
		spec       string
		wantGroups []string
		wantSizes  []int
	}{
		{
			name:       "independent by group",
			spec:       "~ 1 + rw(week, by = age_group)",
			wantGroups: []string{"rw__age_group00+__week", "rw__age_group05-14__week", "rw__age_group15+__week"},
			wantSizes:  []int{9, 9, 9},
		},
		{
			name:       "dependent by group",
			spec:       `~ 1 + rw(week, age_group, type = "dependent")`,
			wantGroups: []string{"rw__week"},
			wantSizes:  []int{27},
		},
		{
			name:       "ungrouped",
			spec:       "~ rw(week)",
			wantGroups: []string{"rw__week"},
			wantSizes:  []int{9},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, _ := testutil.LoggedContext(t)

			// --- Act ---
			m, err := Compile(ctx, tc.spec, testutil.WeeklyFrame(t), Options{})

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.wantGroups, m.Effects.Groups)
			for i, g := range tc.wantGroups {
				assert.Len(t, m.Effects.Members(g), tc.wantSizes[i], g)
			}
		})
	}
}

func TestCompile_IndependentWalkMembership(t *testing.T) {
	ctx, _ := testutil.LoggedContext(t)

	m, err := Compile(ctx, "~ rw(week, by = age_group)", testutil.WeeklyFrame(t), Options{})

	require.NoError(t, err)
	assert.Equal(t, weekColumns("age_group15+:"), m.Effects.Members("rw__age_group15+__week"))
}

func TestCompile_GroupedWithSlope(t *testing.T) {
	ctx, _ := testutil.LoggedContext(t)

	m, err := Compile(ctx, "~ 1 + (1 + x | D) + (x | A:B)", testutil.CrossedFrame(t), Options{})

	require.NoError(t, err)
	assert.Equal(t, []string{"D", "x__D", "x__A__Bb1", "x__A__Bb2"}, m.Effects.Groups)
	assert.Equal(t, []string{"Dd1", "Dd2", "Dd3"}, m.Effects.Members("D"))
	assert.Equal(t, []string{"x:Dd1", "x:Dd2", "x:Dd3"}, m.Effects.Members("x__D"))
	assert.Equal(t, []string{"x:Aa1:Bb2", "x:Aa2:Bb2"}, m.Effects.Members("x__A__Bb2"))
	assert.Equal(t, "~ 1 + D + x:D + x:A:B", m.Expanded)
}

func TestCompile_DegenerateGrouping(t *testing.T) {
	testCases := []struct {
		name         string
		spec         string
		wantGroups   []string
		wantVariable string
	}{
		{
			name:         "random walk by a constant",
			spec:         "~ rw(week, by = C)",
			wantGroups:   []string{"rw__week"},
			wantVariable: "C",
		},
		{
			name:         "interaction with a constant",
			spec:         "~ (1 | A:C)",
			wantGroups:   []string{"A"},
			wantVariable: "C",
		},
		{
			name:         "grouping on a constant",
			spec:         "~ (1 | C)",
			wantGroups:   nil,
			wantVariable: "C",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, logs := testutil.LoggedContext(t)
			data, err := testutil.CrossedFrame(t).WithColumns(frame.NewNumeric("week", []float64{1, 2, 3, 4}))
			require.NoError(t, err)

			// --- Act ---
			m, err := Compile(ctx, tc.spec, data, Options{})

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.wantGroups, m.Effects.Groups)
			require.Len(t, m.Diagnostics, 1)
			assert.Equal(t, DegradedGrouping, m.Diagnostics[0].Kind)
			assert.Equal(t, tc.wantVariable, m.Diagnostics[0].Variable)
			assert.Equal(t, 1, m.Diagnostics[0].Levels)
			assert.Contains(t, logs.String(), "too few levels")
		})
	}

	t.Run("constant grouping stays a plain fixed effect", func(t *testing.T) {
		ctx, _ := testutil.LoggedContext(t)
		m, err := Compile(ctx, "~ (1 | C)", testutil.CrossedFrame(t), Options{})
		require.NoError(t, err)
		assert.Equal(t, "~ 1", m.Random.Formula)
		row, ok := m.Effects.Row("Conly")
		require.True(t, ok)
		assert.True(t, row.Fixed)
	})
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		spec    string
		wantErr error
	}{
		{name: "malformed", spec: "~ a +", wantErr: ErrInvalidSpecification},
		{name: "two sided", spec: "y ~ a", wantErr: ErrInvalidSpecification},
		{name: "missing time column", spec: "~ rw(day)", wantErr: ErrInvalidRandomWalkInput},
		{name: "categorical time column", spec: "~ rw(A)", wantErr: ErrInvalidRandomWalkInput},
		{name: "single time point", spec: "~ rw(const)", wantErr: ErrInvalidRandomWalkInput},
		{name: "time with gaps", spec: "~ rw(gappy)", wantErr: ErrInvalidRandomWalkInput},
		{name: "missing walk grouping", spec: "~ rw(week, by = nope)", wantErr: ErrMissingGroupingColumn},
		{name: "missing effect grouping", spec: "~ (1 | nope)", wantErr: ErrMissingGroupingColumn},
		{name: "three way grouping", spec: "~ (1 | A:B:D)", wantErr: ErrUnsupportedInteraction},
		{name: "effect duplicates fixed", spec: "~ 1 + A + (1 | A)", wantErr: ErrDuplicateTerm},
		{name: "interaction duplicates fixed", spec: "~ B:A + (1 | A:B)", wantErr: ErrDuplicateTerm},
		{name: "walk duplicates fixed", spec: "~ cweek2 + rw(week)", wantErr: ErrDuplicateTerm},
		{name: "effects duplicate each other", spec: "~ (1 | A) + (0 + 1 | A)", wantErr: ErrDuplicateTerm},
		{name: "unknown fixed column", spec: "~ nope", wantErr: frame.ErrMissingColumn},
		{name: "generated column names collide", spec: "~ (1 | a) + (1 | ab)", wantErr: design.ErrDuplicateColumn},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			ctx, _ := testutil.LoggedContext(t)
			data, err := testutil.CrossedFrame(t).WithColumns(
				frame.NewNumeric("week", []float64{1, 2, 3, 4}),
				frame.NewNumeric("const", []float64{7, 7, 7, 7}),
				frame.NewNumeric("gappy", []float64{1, 2, math.NaN(), 4}),
				frame.NewCategorical("a", []string{"b1", "b2", "b1", "b2"}, nil),
				frame.NewCategorical("ab", []string{"1", "2", "1", "2"}, nil),
			)
			require.NoError(t, err)

			// --- Act ---
			_, err = Compile(ctx, tc.spec, data, Options{})

			// --- Assert ---
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.wantErr), "got %v", err)
		})
	}
}

func TestCompile_PoolingTotality(t *testing.T) {
	specs := []string{
		"~ 1 + age_group + rw(week)",
		"~ 0 + (1 | age_group) + rw(week, by = age_group)",
		"~ age_group * count + rw(week, age_group, dependent)",
	}

	for _, spec := range specs {
		t.Run(spec, func(t *testing.T) {
			ctx, _ := testutil.LoggedContext(t)

			m, err := Compile(ctx, spec, testutil.WeeklyFrame(t), Options{Sparse: true})

			require.NoError(t, err)
			var want []string
			for _, c := range m.Fixed.Columns {
				if c.Name != design.InterceptName {
					want = append(want, c.Name)
				}
			}
			assert.Equal(t, want, m.Effects.Names(), "one effect row per design column, in order")
			r, c := m.Random.Design.Dims()
			assert.Equal(t, len(want), r)
			assert.Equal(t, len(m.Random.Columns), c)
			assert.Len(t, m.Fixed.Index, m.Data.NRow())
		})
	}
}

func TestCompile_GeneratedTermsKeepAllLevels(t *testing.T) {
	ctx, _ := testutil.LoggedContext(t)

	m, err := Compile(ctx, "~ 1 + (1 | age_group) + rw(week, by = age_group)", testutil.WeeklyFrame(t), Options{})

	require.NoError(t, err)
	perTerm := map[string]int{}
	for _, c := range m.Fixed.Columns {
		perTerm[c.Term]++
	}
	assert.Equal(t, len(testutil.AgeGroups), perTerm["age_group"])
	assert.Equal(t, len(testutil.AgeGroups), perTerm["age_group:cweek5"])
}

func TestCompile_Sparse(t *testing.T) {
	ctx, _ := testutil.LoggedContext(t)

	m, err := Compile(ctx, "~ 1 + age_group", testutil.WeeklyFrame(t), Options{Sparse: true})

	require.NoError(t, err)
	assert.Equal(t, 3, m.Fixed.NRows)
	assert.Len(t, m.Fixed.Index, 30)
	assert.Equal(t, []int{0, 1, 2, 0, 1, 2}, m.Fixed.Index[:6])
}
