package types

import (
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hintcheck/hintcheck/internal/config"
	"github.com/hintcheck/hintcheck/internal/diag"
	"github.com/hintcheck/hintcheck/internal/hierarchy"
)

// CheckAll checks independent modules concurrently. Each worker owns its
// own checker, resolver cache, and diagnostic list; the only shared state
// is the hierarchy oracle, which must be fully built before the first
// worker starts and is read-only from then on. Results are indexed like
// the input so callers can pair diagnostics with their module.
func CheckAll(mods []*Module, oracle hierarchy.Oracle, opts config.Options) ([][]diag.Diagnostic, error) {
	results := make([][]diag.Diagnostic, len(mods))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, mod := range mods {
		i, mod := i, mod
		g.Go(func() error {
			diags, err := NewChecker(oracle, opts).Check(mod)
			if err != nil {
				return err
			}
			results[i] = diags
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
