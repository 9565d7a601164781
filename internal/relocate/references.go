package relocate

import (
	"fmt"
	"path/filepath"
)

// DisorderPlaceholder renders a missing disorder label.
const DisorderPlaceholder = "None"

// Reference is one occurrence of a photo path in one table cell.
type Reference struct {
	Row      int64
	Segment  string
	Disorder *string
	Column   string
}

// DisorderLabel returns the disorder label or the placeholder.
func (r Reference) DisorderLabel() string {
	if r.Disorder == nil {
		return DisorderPlaceholder
	}
	return *r.Disorder
}

func (r Reference) String() string {
	return fmt.Sprintf("(%s:%s:%s)", r.Segment, r.DisorderLabel(), r.Column)
}

// Asset is a physical file with the references pointing at it.
type Asset struct {
	Path string
	Refs []Reference
}

// Shared reports whether more than one cell points at the asset.
func (a *Asset) Shared() bool {
	return len(a.Refs) > 1
}

// Name returns the base name of the asset.
func (a *Asset) Name() string {
	return filepath.Base(a.Path)
}

// ReferenceMap groups references by canonical source path, in scan order.
type ReferenceMap struct {
	order  []string
	assets map[string]*Asset
}

func newReferenceMap() *ReferenceMap {
	return &ReferenceMap{assets: make(map[string]*Asset)}
}

func (m *ReferenceMap) add(path string, ref Reference) {
	a, ok := m.assets[path]
	if !ok {
		a = &Asset{Path: path}
		m.assets[path] = a
		m.order = append(m.order, path)
	}
	a.Refs = append(a.Refs, ref)
}

// Assets returns the assets in first-reference order.
func (m *ReferenceMap) Assets() []*Asset {
	out := make([]*Asset, 0, len(m.order))
	for _, p := range m.order {
		out = append(out, m.assets[p])
	}
	return out
}

// Asset returns the asset for a canonical path.
func (m *ReferenceMap) Asset(path string) (*Asset, bool) {
	a, ok := m.assets[path]
	return a, ok
}

// Len returns the number of distinct assets.
func (m *ReferenceMap) Len() int {
	return len(m.order)
}

// References returns the total number of references.
func (m *ReferenceMap) References() int {
	n := 0
	for _, a := range m.assets {
		n += len(a.Refs)
	}
	return n
}

// Collect maps every non-empty photo cell to the asset it resolves to.
func Collect(d *Dataset) *ReferenceMap {
	refs := newReferenceMap()
	for cell := range d.Cells() {
		refs.add(d.Resolver.Resolve(cell.Raw), Reference{
			Row:      cell.Row.ID,
			Segment:  d.Segment(cell.Row),
			Disorder: d.Disorder(cell.Row),
			Column:   cell.Column,
		})
	}
	return refs
}
