package formula

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Canonical(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{name: "bare intercept", src: "~ 1", want: "~ 1"},
		{name: "tilde optional", src: "a + b", want: "~ 1 + a + b"},
		{name: "no intercept via zero", src: "~ 0 + a", want: "~ 0 + a"},
		{name: "no intercept via minus one", src: "~ a - 1", want: "~ 0 + a"},
		{name: "leading minus one", src: "-1 + a", want: "~ 0 + a"},
		{name: "interaction", src: "~ a:b", want: "~ 1 + a:b"},
		{name: "crossing expands", src: "~ a*b", want: "~ 1 + a + b + a:b"},
		{name: "three way crossing", src: "~ a*b*c", want: "~ 1 + a + b + a:b + c + a:c + b:c + a:b:c"},
		{name: "parenthesised sum crossed", src: "~ (a + b):c", want: "~ 1 + a:c + b:c"},
		{name: "duplicates collapse", src: "~ a + a + b:a + a:b", want: "~ 1 + a + b:a"},
		{name: "grouped", src: "~ (1 + x | g)", want: "~ 1 + (1 + x | g)"},
		{name: "grouped interaction", src: "~ (1 | a:b)", want: "~ 1 + (1 | a:b)"},
		{name: "rw positional", src: "~ rw(week, g, dependent)", want: `~ 1 + rw(week, by = g, type = "dependent")`},
		{name: "rw named", src: `~ rw(time = week, type = "independent")`, want: "~ 1 + rw(week)"},
		{name: "quoted name", src: "~ `age group`", want: "~ 1 + `age group`"},
		{name: "dotted name", src: "~ .hidden + day_of_week", want: "~ 1 + .hidden + day_of_week"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			f, err := Parse(tc.src)

			// --- Assert ---
			require.NoError(t, err)
			assert.Equal(t, tc.want, f.String())
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	srcs := []string{
		"~ 1 + age_group + day_of_week:age_group",
		"~ 0 + a + (1 + x | g) + rw(week, by = g)",
		`~ 1 + rw(week, by = g, type = "dependent")`,
	}
	for _, src := range srcs {
		t.Run(src, func(t *testing.T) {
			f := MustParse(src)
			again, err := Parse(f.String())
			require.NoError(t, err)
			assert.Equal(t, f, again)
		})
	}
}

func TestParse_Terms(t *testing.T) {
	// --- Act ---
	f, err := Parse("~ 1 + a + a:b + (1 + x | g) + rw(week)")

	// --- Assert ---
	require.NoError(t, err)
	require.Len(t, f.Terms, 4)
	assert.Equal(t, Var{Name: "a"}, f.Terms[0])
	assert.Equal(t, Interaction{Vars: []string{"a", "b"}}, f.Terms[1])
	assert.Equal(t, Grouped{
		Fixed: []Term{Intercept{Present: true}, Var{Name: "x"}},
		Group: []Term{Var{Name: "g"}},
	}, f.Terms[2])
	assert.Equal(t, RandomWalk{Time: "week", Type: Independent}, f.Terms[3])
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{name: "empty", src: "  ", wantMsg: "empty specification"},
		{name: "two sided", src: "y ~ x", wantMsg: "two-sided"},
		{name: "dangling plus", src: "~ a +", wantMsg: "unexpected end of input"},
		{name: "unknown function", src: "~ log(x)", wantMsg: `unsupported function "log"`},
		{name: "nested rw", src: "~ rw(week):a", wantMsg: "rw() must be a top-level term"},
		{name: "rw without time", src: "~ rw(by = g)", wantMsg: "requires a time column"},
		{name: "rw bad type", src: "~ rw(week, type = ar1)", wantMsg: "rw() type must be"},
		{name: "rw too many args", src: "~ rw(week, g, dependent, x)", wantMsg: "at most 3"},
		{name: "rw unknown arg", src: "~ rw(week, lag = 2)", wantMsg: `no argument "lag"`},
		{name: "rw duplicate arg", src: "~ rw(week, time = day)", wantMsg: "given twice"},
		{name: "term removal", src: "~ a - b", wantMsg: "term removal"},
		{name: "numeric term", src: "~ 2 + a", wantMsg: "not an intercept"},
		{name: "unbalanced", src: "~ (a + b", wantMsg: "expected ')' or '|'"},
		{name: "nested group", src: "~ ((1 | g) | h)", wantMsg: "cannot be nested"},
		{name: "number grouping", src: "~ (1 | 1)", wantMsg: "cannot be a grouping"},
		{name: "bad character", src: "~ a $ b", wantMsg: "unexpected character"},
		{name: "unterminated quote", src: "~ `a", wantMsg: "unterminated"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Act ---
			_, err := Parse(tc.src)

			// --- Assert ---
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidSpecification))
			assert.Contains(t, err.Error(), tc.wantMsg)

			var synErr *SyntaxError
			assert.True(t, errors.As(err, &synErr))
		})
	}
}

func TestVariables(t *testing.T) {
	testCases := []struct {
		name string
		term Term
		want []string
	}{
		{name: "var", term: Var{Name: "a"}, want: []string{"a"}},
		{name: "interaction", term: Interaction{Vars: []string{"a", "b"}}, want: []string{"a", "b"}},
		{name: "grouped", term: MustParse("~ (1 + x | g:x)").Terms[0], want: []string{"x", "g"}},
		{name: "rw", term: RandomWalk{Time: "week", By: "g"}, want: []string{"week", "g"}},
		{name: "intercept", term: Intercept{Present: true}, want: nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Variables(tc.term))
		})
	}
}
