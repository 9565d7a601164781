// Package table models the inspection dataset as a row-indexed structure with
// column accessors.
//
// A Table is the single writable resource of a migration run: it is read by
// the diagnostics and simulation passes and mutated only through Set, which
// the relocation rewriter calls once files have been moved on disk. Column
// naming helpers derive the photo path, photo date, and observation date
// columns from the conventions used by inspection exports
// (`<obs>_<pho>_chemin`, `<obs>_<pho>_date`, `<obs>_date`).
package table
