// Package config loads and validates the TOML configuration shared by the
// daemon and the CLI.
//
// Loading goes through three phases: decode over Default(), normalize
// (path expansion, environment overrides, list canonicalization), then
// Validate. EnsureDirectories creates every configured directory so the
// rest of the system can assume they exist.
package config
