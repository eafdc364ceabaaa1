package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/specialistvlad/hiermodel/internal/config"
	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/fsutil"
	"github.com/specialistvlad/hiermodel/internal/schema"
)

// Extension is the file extension the loader reads.
const Extension = ".hcl"

// Loader is the HCL-specific implementation of the config.Loader interface.
type Loader struct{}

// NewLoader creates a new HCL configuration loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses every .hcl file found under paths and merges their blocks
// into one model. It does not validate the result.
func (l *Loader) Load(ctx context.Context, paths ...string) (*config.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.ResolvePaths(paths, Extension)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	parser := hclparse.NewParser()
	model := &config.Model{}
	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}

		var root schema.File
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL file %s: %w", file, diags)
		}

		part, err := translateFile(ctx, file, &root)
		if err != nil {
			return nil, err
		}
		if part.Data != nil && model.Data != nil {
			return nil, fmt.Errorf("%w: duplicate data block in %s", config.ErrInvalidConfig, file)
		}
		if part.Output != nil && model.Output != nil {
			return nil, fmt.Errorf("%w: duplicate output block in %s", config.ErrInvalidConfig, file)
		}
		model.Merge(part)
	}

	logger.Debug("HCL loading complete.", "models", len(model.Models), "has_data", model.Data != nil)
	return model, nil
}
