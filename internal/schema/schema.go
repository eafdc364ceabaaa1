// Package schema holds the HCL block structures of a run configuration
// file, decoded with gohcl.
package schema

import "github.com/hashicorp/hcl/v2"

// Column declares the expected type of one dataset column.
type Column struct {
	Name string         `hcl:"name,label"`
	Type hcl.Expression `hcl:"type"`
}

// Data represents the `data` block: the dataset shared by all models.
type Data struct {
	Path        string    `hcl:"path"`
	Required    []string  `hcl:"required,optional"`
	Categorical []string  `hcl:"categorical,optional"`
	Columns     []*Column `hcl:"column,block"`
}

// Model represents a `model "name"` block.
type Model struct {
	Name    string `hcl:"name,label"`
	Formula string `hcl:"formula"`
	Sparse  *bool  `hcl:"sparse,optional"`
}

// Output represents the `output` block.
type Output struct {
	Format string `hcl:"format,optional"`
	Dir    string `hcl:"dir,optional"`
}

// File is the top-level structure of a configuration file. Any block may
// appear in any file; data and output may appear at most once overall.
type File struct {
	Data   *Data    `hcl:"data,block"`
	Models []*Model `hcl:"model,block"`
	Output *Output  `hcl:"output,block"`
	Remain hcl.Body `hcl:",remain"`
}
