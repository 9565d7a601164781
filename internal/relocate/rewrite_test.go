package relocate

import (
	"errors"
	"testing"

	"sirsphoto/internal/table"
	"sirsphoto/internal/testsupport"
)

func rewriteDataset(t *testing.T) *Dataset {
	t.Helper()
	tbl := testsupport.NewTable(t,
		map[string]string{"troncon": "T1", "obs1_pho1_chemin": "in/a.jpg", "obs1_pho2_chemin": "in/b.jpg"},
	)
	return &Dataset{
		Table:         tbl,
		Layout:        table.DefaultLayout(),
		Resolver:      Resolver{Root: "/proj"},
		SegmentColumn: "troncon",
	}
}

func TestRewriteWritesRelativePaths(t *testing.T) {
	d := rewriteDataset(t)
	m := newMapping()
	m.add("/proj/in/a.jpg", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho1_chemin"}, Dest: "/proj/T1/a.jpg"})
	m.add("/proj/in/b.jpg", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho2_chemin"}, Dest: "/proj/T1/20230501_b.jpg"})

	n, err := Rewrite(d, m)
	if err != nil || n != 2 {
		t.Fatalf("Rewrite = %d, %v", n, err)
	}
	if got := testsupport.Cell(t, d.Table, 1, "obs1_pho1_chemin"); got != "T1/a.jpg" {
		t.Fatalf("pho1 = %q", got)
	}
	if got := testsupport.Cell(t, d.Table, 1, "obs1_pho2_chemin"); got != "T1/20230501_b.jpg" {
		t.Fatalf("pho2 = %q", got)
	}
}

func TestRewriteStructuralConflicts(t *testing.T) {
	tests := []struct {
		name string
		p    Placement
	}{
		{"date column", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho1_date"}, Dest: "/proj/T1/a.jpg"}},
		{"non photo column", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "designation"}, Dest: "/proj/T1/a.jpg"}},
		{"date value", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho1_chemin"}, Dest: "/proj/2023-05-01"}},
		{"wrong segment", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho1_chemin"}, Dest: "/proj/T2/a.jpg"}},
		{"unknown row", Placement{Ref: Reference{Row: 42, Segment: "T1", Column: "obs1_pho1_chemin"}, Dest: "/proj/T1/a.jpg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := rewriteDataset(t)
			before := d.Table.Clone()
			m := newMapping()
			m.add("/proj/in/b.jpg", Placement{Ref: Reference{Row: 1, Segment: "T1", Column: "obs1_pho2_chemin"}, Dest: "/proj/T1/b.jpg"})
			m.add("/proj/in/a.jpg", tt.p)

			_, err := Rewrite(d, m)
			var conflict *StructuralConflictError
			if !errors.As(err, &conflict) || !errors.Is(err, ErrStructuralConflict) {
				t.Fatalf("expected structural conflict, got %v", err)
			}
			if !d.Table.Equal(before) {
				t.Fatal("table modified despite conflict")
			}
		})
	}
}
