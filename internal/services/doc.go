// Package services defines the error taxonomy and context helpers shared by
// the pipeline stages and the capability clients.
//
// Failures are classified with sentinel markers (ErrExternalTool,
// ErrValidation, ...) wrapped through Wrap, which also builds the
// operator-facing detail string recorded on failed jobs.
package services
