// Package gpkg reads inspection layers from a GeoPackage into a table and
// writes rewritten photo columns back.
//
// A GeoPackage is a SQLite database; layers are listed in gpkg_contents and
// their geometry columns in gpkg_geometry_columns. Geometry blobs are never
// loaded: the relocation engine only reads scalar columns, and writes touch
// only the columns the caller names.
package gpkg
