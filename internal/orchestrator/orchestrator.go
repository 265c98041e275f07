// Package orchestrator fans a multi-file check out across goroutines, one
// independent tenv.Context per file (spec's concurrency model lives above
// the synchronous per-file checker API, never inside it), and aggregates
// the resulting diagnostics back in deterministic, input order.
package orchestrator

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nxgtri/funxycheck/internal/checkast"
	"github.com/nxgtri/funxycheck/internal/checker"
	"github.com/nxgtri/funxycheck/internal/diag"
	"github.com/nxgtri/funxycheck/internal/tenv"
)

// File pairs one parsed source unit with the path it came from, for
// labeling its diagnostics.
type File struct {
	Path  string
	Block *checkast.Block
}

// Result is one file's outcome: the diagnostics its own collector gathered
// (so a caller can distinguish which file produced which error) plus the
// error CheckBlock returned for it, if any.
type Result struct {
	Path  string
	Diags []*diag.Error
	Err   error
}

// Options configures a Run. Loader is shared read-only state, safe to reuse
// across every concurrently-checked file since ModuleLoader implementations
// are expected to only read from disk/caches. MaxConcurrency caps how many
// files are checked at once; 0 means unlimited (bounded only by Go's own
// goroutine scheduling).
type Options struct {
	Loader         checker.ModuleLoader
	MaxConcurrency int
}

// Run checks every file concurrently, each against its own fresh
// tenv.Context, and returns one Result per input file in the same order
// they were given — concurrency is purely an implementation detail callers
// never observe in the ordering of results.
func Run(ctx context.Context, files []File, opts Options) ([]Result, error) {
	results := make([]Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	if opts.MaxConcurrency > 0 {
		g.SetLimit(opts.MaxConcurrency)
	}

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			col := diag.NewCollector(false)
			env := tenv.NewEnv(tenv.NewContext())
			c := checker.New(env, col, opts.Loader)
			checkErr := c.CheckBlock(f.Block)
			results[i] = Result{Path: f.Path, Diags: col.Errors(), Err: checkErr}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// HasErrors reports whether any result in rs carries a diagnostic of
// SeverityError.
func HasErrors(rs []Result) bool {
	for _, r := range rs {
		for _, d := range r.Diags {
			if d.Severity == diag.SeverityError {
				return true
			}
		}
	}
	return false
}
