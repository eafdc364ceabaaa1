package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/engine"
	"github.com/specialistvlad/hiermodel/internal/export"
)

// ErrModelsFailed is returned by Run when at least one model did not
// compile. The successful models are still exported.
var ErrModelsFailed = errors.New("model compilation failed")

// Run compiles every configured model and exports the results.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	data, err := a.loadData(ctx)
	if err != nil {
		return err
	}

	jobs := make([]engine.Job, len(a.model.Models))
	formulas := make(map[string]string, len(jobs))
	for i, spec := range a.model.Models {
		jobs[i] = engine.Job{Name: spec.Name, Formula: spec.Formula, Options: engine.Options{Sparse: spec.Sparse}}
		formulas[spec.Name] = spec.Formula
	}

	a.logger.Info("Compiling models.", "count", len(jobs), "workers", a.config.Workers)
	results, err := engine.CompileAll(ctx, data, jobs, a.config.Workers)
	if err != nil {
		return fmt.Errorf("compilation interrupted: %w", err)
	}

	failed := 0
	docs := make([]*export.Document, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
		doc, err := export.NewDocument(formulas[r.Name], r)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}

	out := a.model.Output
	opts := export.Options{Format: out.Format, Color: a.color}
	if out.Dir != "" {
		paths, err := export.WriteFiles(out.Dir, docs, opts)
		if err != nil {
			return fmt.Errorf("failed to write results: %w", err)
		}
		a.logger.Info("Results written.", "dir", out.Dir, "files", len(paths))
	} else if err := export.Write(a.outW, docs, opts); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d models", ErrModelsFailed, failed, len(jobs))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}
