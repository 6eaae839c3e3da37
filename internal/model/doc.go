// Package model defines the error types and exit codes shared by the
// layerconf packages.
//
// This package contains pure data structures with no external dependencies.
// Merge conflicts, capability mismatches and directory creation failures are
// typed errors so that callers can inspect them with errors.As. The CLI
// translates them into process exit codes through CLIError.
package model
