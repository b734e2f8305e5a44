// Package registry is the durable record of jobs, highlights and content
// plans, backed by SQLite.
//
// Job.Status is the single authoritative lifecycle field. The store enforces
// the monotonic stage order through Transition and exposes an atomic claim
// for concurrent workflow workers.
package registry
