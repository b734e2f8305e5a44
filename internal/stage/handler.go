// Package stage defines the contract every pipeline stage implements.
package stage

import (
	"context"

	"clipcast/internal/registry"
)

// Handler is one pipeline stage. The workflow manager calls Prepare then
// Execute while the job carries the stage's transient status; any returned
// error fails the job.
type Handler interface {
	// Prepare validates inputs and primes state before Execute. Mutations
	// to job are persisted by the manager before Execute runs.
	Prepare(ctx context.Context, job *registry.Job) error

	// Execute performs the stage's work, mutating job with its results.
	Execute(ctx context.Context, job *registry.Job) error

	// HealthCheck reports whether the stage's external dependencies are
	// usable right now.
	HealthCheck(ctx context.Context) Health
}
