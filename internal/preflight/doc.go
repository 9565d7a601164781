// Package preflight provides readiness checks for the filesystem paths a
// photo migration depends on.
//
// The check command prints every result; migrate refuses to touch the project
// tree when the project directory is not writable or when the filesystem
// cannot absorb the physical copies a fan-out relocation needs.
package preflight
