// Package relocate reconciles photo files referenced by an inspection table
// with the <root>/<segment>/<filename> storage convention.
//
// A run diagnoses the table first: a table whose photo paths already follow
// the convention is left untouched, and any referenced file missing on disk
// aborts before anything moves. Otherwise references are collected per
// physical file and shared files are classified for the operator report. The
// simulator then computes destination mappings, starting with the original
// filenames and escalating to date-prefixed or random names only for the
// references implicated in a collision unless the operator elects to rename
// everything. Disk mutation happens once, after the operator accepted a
// collision-free mapping; the table is rewritten only after every file has
// landed.
//
// Operator interaction goes through the Decider interface so tests can script
// answers; the console implementation lives in the prompt package.
package relocate
