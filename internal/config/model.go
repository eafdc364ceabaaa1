package config

// ColumnType declares the expected kind of a dataset column.
type ColumnType string

const (
	ColumnNumber ColumnType = "number"
	ColumnString ColumnType = "string"
)

// Model is the unified representation of a run configuration.
type Model struct {
	Data   *DataSource
	Models []*ModelSpec
	Output *Output
}

// DataSource describes the dataset shared by every model.
type DataSource struct {
	// Path is absolute once loaded; loaders resolve it against the
	// configuration file's directory.
	Path        string
	Required    []string
	Categorical []string
	Columns     map[string]ColumnType
}

// ModelSpec is one named model specification.
type ModelSpec struct {
	Name    string
	Formula string
	Sparse  bool
}

// Output selects the result format and destination. An empty Dir writes
// to the application's output writer.
type Output struct {
	Format string
	Dir    string
}

// Output formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatMsgpack = "msgpack"
	FormatSummary = "summary"
)

// Formats lists every supported output format.
var Formats = []string{FormatJSON, FormatYAML, FormatMsgpack, FormatSummary}

// DefaultSparse is used when a model does not set sparse.
const DefaultSparse = true

// Merge folds other into m: models are appended, and data and output are
// taken from other when m has none.
func (m *Model) Merge(other *Model) {
	if other == nil {
		return
	}
	if m.Data == nil {
		m.Data = other.Data
	}
	if m.Output == nil {
		m.Output = other.Output
	}
	m.Models = append(m.Models, other.Models...)
}
