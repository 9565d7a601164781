package relocate

import (
	"path/filepath"
	"sort"

	"golang.org/x/text/cases"

	"sirsphoto/internal/fileutil"
)

// Placement is the destination computed for one reference.
type Placement struct {
	Ref  Reference
	Dest string
}

// Mapping assigns destinations to every source asset, in scan order. A
// source may list the same destination several times when its references
// collapse onto one copy.
type Mapping struct {
	order      []string
	placements map[string][]Placement
}

func newMapping() *Mapping {
	return &Mapping{placements: make(map[string][]Placement)}
}

func (m *Mapping) add(source string, p Placement) {
	if _, ok := m.placements[source]; !ok {
		m.order = append(m.order, source)
	}
	m.placements[source] = append(m.placements[source], p)
}

// Sources returns the source paths in scan order.
func (m *Mapping) Sources() []string {
	return m.order
}

// Placements returns every placement of source.
func (m *Mapping) Placements(source string) []Placement {
	return m.placements[source]
}

// Destinations returns the distinct destinations of source in first-seen order.
func (m *Mapping) Destinations(source string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, p := range m.placements[source] {
		if _, dup := seen[p.Dest]; dup {
			continue
		}
		seen[p.Dest] = struct{}{}
		out = append(out, p.Dest)
	}
	return out
}

// Len returns the number of source assets.
func (m *Mapping) Len() int {
	return len(m.order)
}

// Changes counts placements whose destination differs from their source.
func (m *Mapping) Changes() int {
	n := 0
	for _, src := range m.order {
		for _, p := range m.placements[src] {
			if p.Dest != src {
				n++
			}
		}
	}
	return n
}

// CollisionSet holds destinations claimed by more than one source asset or
// already occupied by an unrelated file. Keys are case-folded so names that
// only differ in case collide on case-insensitive filesystems too.
type CollisionSet struct {
	paths  map[string]string
	claims map[string][]string
}

func (c *CollisionSet) add(key, dest string, sources []string) {
	if c.paths == nil {
		c.paths = make(map[string]string)
		c.claims = make(map[string][]string)
	}
	c.paths[key] = dest
	c.claims[key] = sources
}

// Len returns the number of colliding destinations.
func (c CollisionSet) Len() int {
	return len(c.paths)
}

// Contains reports whether dest is a colliding destination.
func (c CollisionSet) Contains(dest string) bool {
	_, ok := c.paths[foldKey(dest)]
	return ok
}

// Paths returns the colliding destinations, sorted.
func (c CollisionSet) Paths() []string {
	out := make([]string, 0, len(c.paths))
	for _, p := range c.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Claimants returns the sources mapped onto dest. An occupied destination
// claimed by a single source lists only that source.
func (c CollisionSet) Claimants(dest string) []string {
	return c.claims[foldKey(dest)]
}

func foldKey(p string) string {
	return cases.Fold().String(filepath.Clean(p))
}

// Outcome is the result of one simulation pass.
type Outcome struct {
	Pair       StrategyPair
	Mapping    *Mapping
	Collisions CollisionSet
}

// Clean reports whether the mapping can be applied.
func (o Outcome) Clean() bool {
	return o.Collisions.Len() == 0
}

// Simulator computes destination mappings without touching the filesystem
// beyond existence checks.
type Simulator struct {
	Dataset *Dataset
	Refs    *ReferenceMap
	Namer   *Namer
}

// Baseline simulates Keep for every reference.
func (s *Simulator) Baseline() Outcome {
	return s.Simulate(Uniform(Keep), CollisionSet{})
}

// Simulate maps every reference using pair. References whose Keep
// destination belongs to baseline use pair.ForCollisions, others use
// pair.ForOthers.
func (s *Simulator) Simulate(pair StrategyPair, baseline CollisionSet) Outcome {
	mapping := newMapping()
	for _, asset := range s.Refs.Assets() {
		for _, ref := range asset.Refs {
			dir := s.Dataset.Resolver.SegmentDir(ref.Segment)
			strategy := pair.ForOthers
			if pair.ForCollisions != pair.ForOthers {
				keepDest := filepath.Join(dir, s.Namer.Name(asset.Path, ref, Keep))
				if baseline.Contains(keepDest) {
					strategy = pair.ForCollisions
				}
			}
			mapping.add(asset.Path, Placement{
				Ref:  ref,
				Dest: filepath.Join(dir, s.Namer.Name(asset.Path, ref, strategy)),
			})
		}
	}
	return Outcome{Pair: pair, Mapping: mapping, Collisions: detectCollisions(mapping)}
}

func detectCollisions(m *Mapping) CollisionSet {
	type claim struct {
		dest    string
		sources []string
	}
	var order []string
	claims := make(map[string]*claim)
	for _, src := range m.Sources() {
		for _, dest := range m.Destinations(src) {
			key := foldKey(dest)
			c, ok := claims[key]
			if !ok {
				c = &claim{dest: dest}
				claims[key] = c
				order = append(order, key)
			}
			if len(c.sources) == 0 || c.sources[len(c.sources)-1] != src {
				c.sources = append(c.sources, src)
			}
		}
	}

	sources := make(map[string]struct{}, m.Len())
	for _, src := range m.Sources() {
		sources[foldKey(src)] = struct{}{}
	}

	var set CollisionSet
	for _, key := range order {
		c := claims[key]
		if len(c.sources) > 1 || occupied(c.sources[0], c.dest, sources) {
			set.add(key, c.dest, c.sources)
		}
	}
	return set
}

// occupied reports whether dest already holds a file that relocating src
// there would overwrite. The source itself, under any spelling, is not an
// occupant. Neither is an earlier copy of the same bytes, unless that file
// is itself a source about to move away.
func occupied(src, dest string, sources map[string]struct{}) bool {
	if !fileutil.Exists(dest) || reachesSource(src, dest) {
		return false
	}
	if _, moving := sources[foldKey(dest)]; moving {
		return true
	}
	return !fileutil.SameContent(src, dest)
}
