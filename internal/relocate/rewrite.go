package relocate

import (
	"fmt"
	"strings"

	"sirsphoto/internal/table"
)

type cellWrite struct {
	row    *table.Row
	column string
	value  string
}

// Rewrite stores the relative destination of every placement in its
// originating cell. All writes are validated before the first one is made,
// so a structural conflict leaves the table untouched.
func Rewrite(d *Dataset, mapping *Mapping) (int, error) {
	var writes []cellWrite
	for _, src := range mapping.Sources() {
		for _, p := range mapping.Placements(src) {
			w, err := planWrite(d, p)
			if err != nil {
				return 0, err
			}
			writes = append(writes, w)
		}
	}
	for _, w := range writes {
		if err := d.Table.Set(w.row, w.column, table.Text(w.value)); err != nil {
			return 0, err
		}
	}
	return len(writes), nil
}

func planWrite(d *Dataset, p Placement) (cellWrite, error) {
	conflict := func(value, reason string) error {
		return &StructuralConflictError{Row: p.Ref.Row, Column: p.Ref.Column, Value: value, Reason: reason}
	}
	row, ok := d.Table.Row(p.Ref.Row)
	if !ok {
		return cellWrite{}, conflict(p.Dest, "row not found in table")
	}
	if d.Layout.IsDate(p.Ref.Column) {
		return cellWrite{}, conflict(p.Dest, "photo path routed into a date column")
	}
	if !d.Layout.IsPhotoPath(p.Ref.Column) {
		return cellWrite{}, conflict(p.Dest, "column is not a photo path column")
	}
	rel, err := d.Resolver.Rel(p.Dest)
	if err != nil {
		return cellWrite{}, conflict(p.Dest, fmt.Sprintf("destination outside project root: %v", err))
	}
	if _, isDate := ParseDate(rel); isDate {
		return cellWrite{}, conflict(rel, "value looks like a date, not a photo path")
	}
	if !strings.HasPrefix(rel, p.Ref.Segment+"/") {
		return cellWrite{}, conflict(rel, fmt.Sprintf("path does not start with segment %q", p.Ref.Segment))
	}
	return cellWrite{row: row, column: p.Ref.Column, value: rel}, nil
}
