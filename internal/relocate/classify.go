package relocate

// Category describes why an asset is referenced more than once.
type Category int

const (
	CrossSegment Category = iota
	SameObservation
	SameDisorder
	SameSegmentDifferentDisorder
)

// Categories lists every category in precedence order.
var Categories = []Category{CrossSegment, SameObservation, SameDisorder, SameSegmentDifferentDisorder}

// ReportOrder lists the categories from the narrowest sharing to the widest,
// the order in which they are presented to the operator.
var ReportOrder = []Category{SameObservation, SameDisorder, SameSegmentDifferentDisorder, CrossSegment}

func (c Category) String() string {
	switch c {
	case CrossSegment:
		return "cross_segment"
	case SameObservation:
		return "same_observation"
	case SameDisorder:
		return "same_disorder"
	case SameSegmentDifferentDisorder:
		return "same_segment_different_disorder"
	default:
		return "unknown"
	}
}

// Title is the operator-facing heading of the category.
func (c Category) Title() string {
	switch c {
	case CrossSegment:
		return "Photos shared across segments (physical copy required)"
	case SameObservation:
		return "Photos repeated within one observation"
	case SameDisorder:
		return "Photos shared by observations of the same disorder"
	case SameSegmentDifferentDisorder:
		return "Photos shared by different disorders of one segment"
	default:
		return c.String()
	}
}

// Classification buckets shared assets by category.
type Classification struct {
	buckets map[Category][]*Asset
}

// Classify assigns every shared asset to exactly one category.
func Classify(refs *ReferenceMap) Classification {
	c := Classification{buckets: make(map[Category][]*Asset)}
	for _, asset := range refs.Assets() {
		if !asset.Shared() {
			continue
		}
		cat := categorize(asset.Refs)
		c.buckets[cat] = append(c.buckets[cat], asset)
	}
	return c
}

func categorize(refs []Reference) Category {
	rows := make(map[int64]struct{})
	segments := make(map[string]struct{})
	labels := make(map[string]struct{})
	for _, r := range refs {
		rows[r.Row] = struct{}{}
		segments[r.Segment] = struct{}{}
		labels[r.DisorderLabel()] = struct{}{}
	}
	switch {
	case len(segments) > 1:
		return CrossSegment
	case len(rows) == 1:
		return SameObservation
	case len(labels) == 1:
		return SameDisorder
	default:
		return SameSegmentDifferentDisorder
	}
}

// Assets returns the assets of a category in scan order.
func (c Classification) Assets(cat Category) []*Asset {
	return c.buckets[cat]
}

// Total returns the number of shared assets.
func (c Classification) Total() int {
	n := 0
	for _, b := range c.buckets {
		n += len(b)
	}
	return n
}

// Empty reports whether no asset is shared.
func (c Classification) Empty() bool {
	return c.Total() == 0
}

// HasCrossSegment reports whether some asset must be physically duplicated
// into several segment directories.
func (c Classification) HasCrossSegment() bool {
	return len(c.buckets[CrossSegment]) > 0
}
