// Package logging centralizes slog construction and the structured field
// conventions used across clipcast.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for log aggregation. Helper constructors (String, Int, Error,
// ...) keep call sites terse, and WithContext augments a logger with the
// job/stage/request fields carried on a context by the services package.
package logging
