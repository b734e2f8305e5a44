// Package api is the boundary surface of clipcast: submission, status and
// result queries, and removal. The CLI (and any future transport) goes
// through this facade rather than touching the registry directly.
package api
