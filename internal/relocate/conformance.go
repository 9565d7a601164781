package relocate

import (
	"strings"

	"sirsphoto/internal/fileutil"
)

// Status is the outcome of a conformance check.
type Status string

const (
	StatusConform        Status = "conform"
	StatusNeedsMigration Status = "needs_migration"
	StatusMissing        Status = "missing"
)

// CellRef locates one photo cell.
type CellRef struct {
	Row     int64  `json:"row"`
	Column  string `json:"column"`
	Segment string `json:"segment"`
	Value   string `json:"value"`
}

// Diagnosis is the result of Diagnose.
type Diagnosis struct {
	Status        Status    `json:"status"`
	Checked       int       `json:"checked"`
	Missing       []string  `json:"missing,omitempty"`
	NonConformant []CellRef `json:"non_conformant,omitempty"`
	// InvalidSegments lists cells whose segment cannot name a directory.
	InvalidSegments []CellRef `json:"invalid_segments,omitempty"`
}

// Err returns the fatal error carried by the diagnosis, if any.
func (d Diagnosis) Err() error {
	if d.Status == StatusMissing {
		return &MissingAssetError{Paths: d.Missing}
	}
	if len(d.InvalidSegments) > 0 {
		c := d.InvalidSegments[0]
		return &StructuralConflictError{
			Row:    c.Row,
			Column: c.Column,
			Value:  c.Segment,
			Reason: "segment value cannot be used as a directory name",
		}
	}
	return nil
}

// Diagnose checks every photo cell for existence on disk and for the
// <segment>/<filename> layout. Missing files take priority over
// non-conformant paths.
func Diagnose(d *Dataset) Diagnosis {
	var diag Diagnosis
	seenMissing := make(map[string]struct{})
	for cell := range d.Cells() {
		diag.Checked++
		abs := d.Resolver.Resolve(cell.Raw)
		if !fileutil.Exists(abs) {
			if _, dup := seenMissing[abs]; !dup {
				seenMissing[abs] = struct{}{}
				diag.Missing = append(diag.Missing, abs)
			}
		}
		segment := d.Segment(cell.Row)
		ref := CellRef{Row: cell.Row.ID, Column: cell.Column, Segment: segment, Value: cell.Raw}
		if !ValidSegment(segment) {
			diag.InvalidSegments = append(diag.InvalidSegments, ref)
		}
		if !strings.HasPrefix(NormalizeSeparators(cell.Raw), segment+"/") {
			diag.NonConformant = append(diag.NonConformant, ref)
		}
	}
	switch {
	case len(diag.Missing) > 0:
		diag.Status = StatusMissing
	case len(diag.NonConformant) > 0:
		diag.Status = StatusNeedsMigration
	default:
		diag.Status = StatusConform
	}
	return diag
}
