// Package bundle implements the domain layer for the asset bundle system.
//
// This package follows Domain-Driven Design (DDD) principles:
//   - Contains only pure Go code with standard library imports (no external dependencies)
//   - Defines the entity type (Bundle) and value objects (Asset, Position)
//   - Declares the shared error taxonomy for resolution and publication
//   - Has no knowledge of infrastructure concerns (file I/O, YAML parsing, publishing)
//
// # Core Types
//
// Bundle represents an immutable named collection of script/style resources
// with dependency links and publishing metadata. Use Builder for construction.
//
// Asset represents a single script or style resource with an optional explicit
// collection key, position override and per-entry options.
//
// Position is a nullable integer ordering hint. The zero value is unset;
// use At to create a set position. Positions propagate as non-decreasing
// minimums down the dependency graph during registration.
//
// # Errors
//
// The package-level sentinel errors (ErrCircularDependency, ErrPositionConflict,
// ErrMissingConfiguration, ErrInvalidFileEntry, ErrFileNotFound, ErrPublishIO,
// ErrUnknownBundle) are shared by the resolver, collector and publisher so
// callers can classify failures with errors.Is regardless of which stage
// raised them.
package bundle
