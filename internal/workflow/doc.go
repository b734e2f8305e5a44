// Package workflow drives jobs through the pipeline.
//
// Worker goroutines poll the registry for submitted jobs, claim one
// atomically, and run the full ordered stage sequence in a single task,
// persisting every status transition. A stage error fails the job; nothing
// is retried. Kick wakes the pollers early so freshly submitted work starts
// without waiting out the poll interval.
package workflow
