package table

import "strings"

// Layout describes the column naming convention of photo references.
type Layout struct {
	PhotoMarker string
	PathSuffix  string
	DateSuffix  string
}

// DefaultLayout matches `<obs>_<pho>_chemin` / `<obs>_<pho>_date` exports.
func DefaultLayout() Layout {
	return Layout{PhotoMarker: "_pho", PathSuffix: "_chemin", DateSuffix: "_date"}
}

func (l Layout) normalized() Layout {
	def := DefaultLayout()
	if strings.TrimSpace(l.PhotoMarker) == "" {
		l.PhotoMarker = def.PhotoMarker
	}
	if strings.TrimSpace(l.PathSuffix) == "" {
		l.PathSuffix = def.PathSuffix
	}
	if strings.TrimSpace(l.DateSuffix) == "" {
		l.DateSuffix = def.DateSuffix
	}
	return l
}

// IsPhotoPath reports whether column holds photo paths.
func (l Layout) IsPhotoPath(column string) bool {
	l = l.normalized()
	return strings.Contains(column, l.PhotoMarker) && strings.HasSuffix(column, l.PathSuffix)
}

// IsDate reports whether column holds dates by naming convention.
func (l Layout) IsDate(column string) bool {
	l = l.normalized()
	return strings.HasSuffix(column, l.DateSuffix)
}

// PhotoPathColumns returns the photo path columns of t in table order.
func (l Layout) PhotoPathColumns(t *Table) []string {
	var out []string
	for _, c := range t.columns {
		if l.IsPhotoPath(c) {
			out = append(out, c)
		}
	}
	return out
}

// PhotoDateColumn returns the sibling date column of a photo path column
// (obs1_pho1_chemin → obs1_pho1_date).
func (l Layout) PhotoDateColumn(pathColumn string) string {
	l = l.normalized()
	return strings.TrimSuffix(pathColumn, l.PathSuffix) + l.DateSuffix
}

// ObservationDateColumn returns the date column of the observation owning a
// photo path column (obs1_pho1_chemin → obs1_date). It returns "" when the
// column does not carry the photo marker.
func (l Layout) ObservationDateColumn(pathColumn string) string {
	l = l.normalized()
	idx := strings.LastIndex(pathColumn, l.PhotoMarker)
	if idx <= 0 {
		return ""
	}
	return pathColumn[:idx] + l.DateSuffix
}
