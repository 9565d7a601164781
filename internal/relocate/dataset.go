package relocate

import (
	"iter"
	"strings"

	"sirsphoto/internal/config"
	"sirsphoto/internal/table"
)

// UndefinedSegment is used for rows without a segment value.
const UndefinedSegment = "undefined"

// Dataset binds a table to the column conventions and project root the
// engine works with.
type Dataset struct {
	Table    *table.Table
	Layout   table.Layout
	Resolver Resolver

	// SegmentColumn names the segment column. When the table has no such
	// column the value itself is the segment of every row.
	SegmentColumn string
	// DisorderColumns are tried in order; the first non-empty value labels
	// the disorder of a row.
	DisorderColumns []string
}

// NewDataset binds tbl to the project root and columns of cfg.
func NewDataset(cfg *config.Config, tbl *table.Table) *Dataset {
	return &Dataset{
		Table:           tbl,
		Layout:          cfg.Layout(),
		Resolver:        NewResolver(cfg.Paths.ProjectDir),
		SegmentColumn:   cfg.Columns.Segment,
		DisorderColumns: []string{cfg.Columns.Designation, cfg.Columns.Label},
	}
}

// Cell is one non-empty photo path of the table.
type Cell struct {
	Row    *table.Row
	Column string
	Raw    string
}

// StaticSegment reports whether every row shares the configured segment value.
func (d *Dataset) StaticSegment() bool {
	return strings.TrimSpace(d.SegmentColumn) != "" && !d.Table.HasColumn(d.SegmentColumn)
}

// Segment returns the segment id of row.
func (d *Dataset) Segment(row *table.Row) string {
	if d.StaticSegment() {
		return strings.TrimSpace(d.SegmentColumn)
	}
	v := d.Table.Get(row, d.SegmentColumn)
	if v.IsEmpty() {
		return UndefinedSegment
	}
	return v.String()
}

// Disorder returns the disorder label of row, nil when no column has one.
func (d *Dataset) Disorder(row *table.Row) *string {
	for _, col := range d.DisorderColumns {
		if col == "" {
			continue
		}
		v := d.Table.Get(row, col)
		if !v.IsEmpty() {
			s := v.String()
			return &s
		}
	}
	return nil
}

// PhotoColumns returns the photo path columns in table order.
func (d *Dataset) PhotoColumns() []string {
	return d.Layout.PhotoPathColumns(d.Table)
}

// Cells yields every non-empty photo path in row-major scan order.
func (d *Dataset) Cells() iter.Seq[Cell] {
	columns := d.PhotoColumns()
	return func(yield func(Cell) bool) {
		for _, row := range d.Table.Rows() {
			for _, col := range columns {
				v := d.Table.Get(row, col)
				if v.IsEmpty() {
					continue
				}
				if !yield(Cell{Row: row, Column: col, Raw: v.String()}) {
					return
				}
			}
		}
	}
}

// ValidSegment reports whether segment can name a single directory below
// the project root.
func ValidSegment(segment string) bool {
	switch segment {
	case "", ".", "..":
		return false
	}
	return !strings.ContainsAny(segment, `/\`)
}
