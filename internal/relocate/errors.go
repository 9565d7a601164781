package relocate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrMissingAsset          = errors.New("missing photo files")
	ErrStructuralConflict    = errors.New("structural conflict")
	ErrUnresolvableCollision = errors.New("unresolvable destination collision")
	ErrUserCancelled         = errors.New("migration cancelled")
	ErrRelocationFailure     = errors.New("photo relocation failed")
)

// Reporter is implemented by errors that carry a multi-line operator report.
type Reporter interface {
	Report() []string
}

// MissingAssetError lists every referenced file absent from disk.
type MissingAssetError struct {
	Paths []string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("%s: %d file(s) not found", ErrMissingAsset, len(e.Paths))
}

func (e *MissingAssetError) Unwrap() error { return ErrMissingAsset }

func (e *MissingAssetError) Report() []string {
	lines := []string{"These photos cannot be found on disk:"}
	for _, p := range e.Paths {
		lines = append(lines, "  "+p)
	}
	return append(lines, "Fix the paths or restore the files, then run the migration again.")
}

// StructuralConflictError reports a write that would put a value of the
// wrong kind into a column, or a segment that cannot name a directory.
type StructuralConflictError struct {
	Row    int64
	Column string
	Value  string
	Reason string
}

func (e *StructuralConflictError) Error() string {
	return fmt.Sprintf("%s: row %d column %s: %s", ErrStructuralConflict, e.Row, e.Column, e.Reason)
}

func (e *StructuralConflictError) Unwrap() error { return ErrStructuralConflict }

func (e *StructuralConflictError) Report() []string {
	return []string{
		"Table structure error while writing photo paths:",
		"  " + e.Reason,
		fmt.Sprintf("  row=%d column=%s value=%s", e.Row, e.Column, e.Value),
		"Check the column configuration of the GeoPackage before retrying.",
	}
}

// CollisionError reports destinations still shared after the last strategy.
type CollisionError struct {
	Destinations []string
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnresolvableCollision, strings.Join(e.Destinations, ", "))
}

func (e *CollisionError) Unwrap() error { return ErrUnresolvableCollision }

func (e *CollisionError) Report() []string {
	lines := []string{"Destination collisions remain even with random unique names:"}
	for _, d := range e.Destinations {
		lines = append(lines, "  "+d)
	}
	return append(lines, "Check the photo paths and the permissions of the project directory.")
}

// RelocationError wraps an I/O failure raised while moving or copying files.
type RelocationError struct {
	Source      string
	Destination string
	Completed   int
	Total       int
	Err         error
}

func (e *RelocationError) Error() string {
	return fmt.Sprintf("%s: %s -> %s: %v", ErrRelocationFailure, e.Source, e.Destination, e.Err)
}

func (e *RelocationError) Unwrap() []error { return []error{ErrRelocationFailure, e.Err} }

func (e *RelocationError) Report() []string {
	return []string{
		"Error while relocating photos:",
		"  " + e.Err.Error(),
		fmt.Sprintf("  source=%s", e.Source),
		fmt.Sprintf("  destination=%s", e.Destination),
		fmt.Sprintf("%d of %d files were relocated before the failure; the project tree may be partially migrated.", e.Completed, e.Total),
	}
}

// ReportLines returns the operator report of err, falling back to its message.
func ReportLines(err error) []string {
	var r Reporter
	if errors.As(err, &r) {
		return r.Report()
	}
	return []string{err.Error()}
}
