package engine

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/specialistvlad/hiermodel/internal/ctxlog"
	"github.com/specialistvlad/hiermodel/internal/frame"
)

// Job is one named specification to compile.
type Job struct {
	Name    string
	Formula string
	Options Options
}

// Result pairs a job with its compiled model or its error.
type Result struct {
	Name  string
	Model *Model
	Err   error
}

// CompileAll compiles jobs concurrently, at most workers at a time
// (GOMAXPROCS when workers <= 0). Every job works on its own copy of
// data. A failing job is reported in its Result and does not stop the
// others; the returned error is non-nil only when ctx is cancelled.
// Results are in job order.
func CompileAll(ctx context.Context, data *frame.Frame, jobs []Job, workers int) ([]Result, error) {
	logger := ctxlog.FromContext(ctx)
	results := make([]Result, len(jobs))
	if len(jobs) == 0 {
		return results, nil
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(workers, len(jobs)))

	for i, job := range jobs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			jobCtx := ctxlog.WithLogger(gctx, logger.With("model", job.Name))
			model, err := Compile(jobCtx, job.Formula, data.Clone(), job.Options)
			if err != nil {
				err = fmt.Errorf("model %q: %w", job.Name, err)
				ctxlog.FromContext(jobCtx).Error("Model compilation failed.", "error", err)
			}
			results[i] = Result{Name: job.Name, Model: model, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	logger.Debug("Batch compilation finished.", "models", len(jobs))
	return results, nil
}
