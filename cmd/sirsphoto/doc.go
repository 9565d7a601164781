// Package main hosts the sirsphoto CLI entrypoint and command graph.
//
// The Cobra-based command tree loads the project configuration, opens the
// GeoPackage holding the inspection layer and hands the table to the
// relocation engine. `check` and `report` are read-only; `migrate` asks the
// operator on the terminal before touching any file and writes the rewritten
// photo columns back to the GeoPackage once every photo is in place.
//
// Keep this package lean: behavior lives in internal/relocate and its
// collaborators, commands only wire configuration, logging and output.
package main
