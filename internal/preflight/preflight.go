// Package preflight verifies the environment before the daemon (or an
// operator) commits to running the pipeline.
package preflight

import (
	"context"

	"clipcast/internal/config"
)

// Result is the outcome of one readiness check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Check is a single named readiness probe.
type Check struct {
	Name string
	Run  func(ctx context.Context, cfg *config.Config) error
}

// Run executes the checks in order and never stops early; operators want
// the full picture, not the first failure.
func Run(ctx context.Context, cfg *config.Config, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	for _, check := range checks {
		result := Result{Name: check.Name, Passed: true, Detail: "ok"}
		if err := check.Run(ctx, cfg); err != nil {
			result.Passed = false
			result.Detail = err.Error()
		}
		results = append(results, result)
	}
	return results
}

// AllPassed reports whether every result passed.
func AllPassed(results []Result) bool {
	for _, result := range results {
		if !result.Passed {
			return false
		}
	}
	return true
}
