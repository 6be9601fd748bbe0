// Package model defines the domain types and value objects for the
// archscaffold CLI and MCP server.
//
// This package contains pure data structures with no external dependencies.
// Patterns are immutable catalog records; Results are per-invocation
// snapshots produced by the scaffolder. Nothing here touches the filesystem.
//
// The package also defines the typed failure kinds surfaced by the
// scaffolding core (SecurityViolationError, DirectoryCreationError,
// FileCreationError) and the CLI exit codes (ExitCode, CLIError) that the
// command layer maps them to.
package model
