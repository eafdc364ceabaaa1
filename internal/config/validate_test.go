package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validModel() *Model {
	return &Model{
		Data:   &DataSource{Path: "/data/obs.csv"},
		Models: []*ModelSpec{{Name: "m", Formula: "~ 1", Sparse: true}},
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		mutate  func(m *Model)
		wantMsg string
	}{
		{name: "valid", mutate: func(*Model) {}},
		{name: "no data", mutate: func(m *Model) { m.Data = nil }, wantMsg: "data path is required"},
		{name: "no models", mutate: func(m *Model) { m.Models = nil }, wantMsg: "at least one model"},
		{
			name:    "duplicate model",
			mutate:  func(m *Model) { m.Models = append(m.Models, &ModelSpec{Name: "m", Formula: "~ x"}) },
			wantMsg: `model "m" is defined more than once`,
		},
		{name: "empty formula", mutate: func(m *Model) { m.Models[0].Formula = " " }, wantMsg: "empty formula"},
		{name: "bad format", mutate: func(m *Model) { m.Output = &Output{Format: "xml"} }, wantMsg: `output format "xml"`},
		{
			name:    "bad column type",
			mutate:  func(m *Model) { m.Data.Columns = map[string]ColumnType{"week": "date"} },
			wantMsg: "type must be number or string",
		},
		{
			name: "number and categorical",
			mutate: func(m *Model) {
				m.Data.Columns = map[string]ColumnType{"week": ColumnNumber}
				m.Data.Categorical = []string{"week"}
			},
			wantMsg: "declared number and categorical",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// --- Arrange ---
			m := validModel()
			tc.mutate(m)

			// --- Act ---
			err := Validate(m)

			// --- Assert ---
			if tc.wantMsg == "" {
				require.NoError(t, err)
				assert.Equal(t, FormatSummary, m.Output.Format, "default format")
				return
			}
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestMerge(t *testing.T) {
	a := &Model{Models: []*ModelSpec{{Name: "a"}}}
	b := &Model{Data: &DataSource{Path: "x"}, Models: []*ModelSpec{{Name: "b"}}, Output: &Output{Format: "json"}}

	a.Merge(b)
	a.Merge(nil)

	assert.Equal(t, "x", a.Data.Path)
	assert.Equal(t, "json", a.Output.Format)
	require.Len(t, a.Models, 2)
	assert.Equal(t, "b", a.Models[1].Name)
}

func TestDataSource_ColumnsByType(t *testing.T) {
	d := &DataSource{Columns: map[string]ColumnType{"week": ColumnNumber, "site": ColumnString, "day": ColumnNumber}}
	assert.Equal(t, []string{"day", "week"}, d.Numeric())
	assert.Equal(t, []string{"site"}, d.Strings())
}
