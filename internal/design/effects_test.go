package design

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func describeSample(t *testing.T, src string, nc NoContrasts) *Effects {
	t.Helper()
	ts, intercept := terms(t, src)
	fixed, err := Build(ts, intercept, sampleFrame(t), Options{NoContrasts: nc})
	require.NoError(t, err)
	return Describe(fixed)
}

func TestDescribe(t *testing.T) {
	// --- Act ---
	e := describeSample(t, "~ 1 + g + w", NoContrasts{})

	// --- Assert ---
	assert.Equal(t, []string{"gb", "gc", "w"}, e.Names())
	assert.Empty(t, e.Groups)
	for _, r := range e.Rows {
		assert.True(t, r.Fixed)
		assert.Empty(t, r.Pools)
	}
	row, ok := e.Row("gb")
	require.True(t, ok)
	assert.Equal(t, []Component{{Variable: "g", Level: "b"}}, row.Components)
}

func TestAddPoolingGroup(t *testing.T) {
	testCases := []struct {
		name        string
		match       Matcher
		wantMembers []string
	}{
		{name: "prefix", match: HasPrefix("h"), wantMembers: []string{"hx", "hy"}},
		{name: "named", match: Named("hx", "nope"), wantMembers: []string{"hx"}},
		{name: "over variables", match: OverVariables("h", "g"), wantMembers: []string{"ga:hx", "gb:hx", "gc:hx", "ga:hy", "gb:hy", "gc:hy"}},
		{name: "component", match: All(OverVariables("g", "h"), HasComponent("h", "y")), wantMembers: []string{"ga:hy", "gb:hy", "gc:hy"}},
		{name: "nothing", match: HasPrefix("zzz"), wantMembers: nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			base := describeSample(t, "~ 0 + g + h + g:h", AllLevels())

			// --- Act ---
			out, n, err := AddPoolingGroup(base, "pool", tc.match)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, len(tc.wantMembers), n)
			assert.Equal(t, tc.wantMembers, out.Members("pool"))
			assert.Equal(t, []string{"pool"}, out.Groups)
			for _, r := range out.Rows {
				assert.Equal(t, !r.InPool("pool"), r.Fixed, r.Name)
			}
			assert.Empty(t, base.Groups, "input table must not change")
		})
	}
}

func TestAddPoolingGroup_Invalid(t *testing.T) {
	base := describeSample(t, "~ 1 + g", NoContrasts{})

	_, _, err := AddPoolingGroup(base, "", HasPrefix("g"))
	assert.ErrorIs(t, err, ErrEmptyGroupName)

	_, _, err = AddPoolingGroup(base, "g", nil)
	assert.Error(t, err)
}

func TestMerge(t *testing.T) {
	// --- Arrange ---
	base := describeSample(t, "~ 1 + g + w", Only("g"))
	base, _, err := AddPoolingGroup(base, "first", Named("ga", "w"))
	require.NoError(t, err)

	fragment := &Effects{
		Groups: []string{"second"},
		Rows: []EffectRow{
			{Effect: Effect{Name: "gb"}, Pools: []string{"second"}},
			{Effect: Effect{Name: "ga"}, Fixed: true},
			{Effect: Effect{Name: "orphan"}, Pools: []string{"second"}},
		},
	}

	// --- Act ---
	out, dropped := Merge(base, fragment)

	// --- Assert ---
	assert.Equal(t, []string{"ga", "gb", "gc", "w"}, out.Names())
	assert.Equal(t, []string{"first", "second"}, out.Groups)
	assert.Equal(t, []string{"orphan"}, dropped)

	ga, _ := out.Row("ga")
	assert.True(t, ga.Fixed, "fragment row replaces base memberships")
	assert.Empty(t, ga.Pools)

	gb, _ := out.Row("gb")
	assert.False(t, gb.Fixed)
	assert.Equal(t, []string{"second"}, gb.Pools)

	w, _ := out.Row("w")
	assert.Equal(t, []string{"first"}, w.Pools, "untouched rows keep memberships")

	gc, _ := out.Row("gc")
	assert.True(t, gc.Fixed)
}

func TestBuildPooling(t *testing.T) {
	t.Run("no groups", func(t *testing.T) {
		// --- Arrange ---
		e := describeSample(t, "~ 1 + g", NoContrasts{})

		// --- Act ---
		r := BuildPooling(e)

		// --- Assert ---
		assert.Equal(t, "~ 1", r.Formula)
		assert.Equal(t, []string{"(Intercept)"}, r.Columns)
		assert.True(t, mat.Equal(mat.NewDense(2, 1, []float64{1, 1}), r.Design))
	})

	t.Run("groups", func(t *testing.T) {
		// --- Arrange ---
		e := describeSample(t, "~ 1 + g + w", Only("g"))
		e, _, err := AddPoolingGroup(e, "g", HasPrefix("g"))
		require.NoError(t, err)

		// --- Act ---
		r := BuildPooling(e)

		// --- Assert ---
		assert.Equal(t, "~ 0 + fixed + g", r.Formula)
		assert.Equal(t, []string{"fixed", "g"}, r.Columns)
		assert.Equal(t, []string{"ga", "gb", "gc", "w"}, r.Effects)
		want := mat.NewDense(4, 2, []float64{
			0, 1,
			0, 1,
			0, 1,
			1, 0,
		})
		assert.True(t, mat.Equal(want, r.Design))
	})

	t.Run("empty table", func(t *testing.T) {
		r := BuildPooling(&Effects{})
		assert.Nil(t, r.Design)
		assert.Equal(t, "~ 1", r.Formula)
	})
}
