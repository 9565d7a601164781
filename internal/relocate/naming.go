package relocate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sirsphoto/internal/config"
	"sirsphoto/internal/exifdate"
	"sirsphoto/internal/textutil"
)

// Strategy selects how a destination filename is derived.
type Strategy int

const (
	Keep Strategy = iota
	PrefixDate
	UUID
)

func (s Strategy) String() string {
	switch s {
	case Keep:
		return "keep"
	case PrefixDate:
		return "prefix_date"
	case UUID:
		return "uuid"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// StrategyPair applies ForCollisions to references implicated in the
// baseline collision set and ForOthers to everything else.
type StrategyPair struct {
	ForCollisions Strategy
	ForOthers     Strategy
}

// Uniform applies the same strategy to every reference.
func Uniform(s Strategy) StrategyPair {
	return StrategyPair{ForCollisions: s, ForOthers: s}
}

func (p StrategyPair) String() string {
	if p.ForCollisions == p.ForOthers {
		return p.ForCollisions.String() + " (all)"
	}
	return fmt.Sprintf("%s (collisions) / %s (others)", p.ForCollisions, p.ForOthers)
}

// NoDate is the date prefix used when no date is known.
const NoDate = "00000000"

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.000",
	"2006/01/02",
	"02/01/2006",
}

// KeepName returns the sanitized original filename.
func KeepName(base string) string {
	return textutil.SanitizeFileName(base)
}

// ParseDate parses the date formats found in inspection exports.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// DatePrefix formats ts as the YYYYMMDD filename prefix.
func DatePrefix(ts time.Time) string {
	if ts.IsZero() {
		return NoDate
	}
	return ts.Format("20060102")
}

// Namer computes destination filenames for references of a dataset.
type Namer struct {
	Dataset *Dataset
	// FallbackObservationDate allows the observation date column when the
	// photo has no date of its own.
	FallbackObservationDate bool
	// CaptureDate, when set, is consulted after the table dates.
	CaptureDate func(path string) (time.Time, error)
	// NewID returns a random stem; uuid v4 hex when nil.
	NewID func() string
}

// NewNamer returns a namer for d honoring the date fallbacks of cfg.
func NewNamer(cfg *config.Config, d *Dataset) *Namer {
	n := &Namer{Dataset: d, FallbackObservationDate: cfg.Photos.FallbackObservationDate}
	if cfg.Photos.FallbackEXIFDate {
		n.CaptureDate = exifdate.CaptureDate
	}
	return n
}

// Name returns the destination filename of ref, whose asset lives at source.
// UUID draws a fresh stem on every call, so an asset referenced twice by
// the same row still ends up as two physical copies under that strategy.
func (n *Namer) Name(source string, ref Reference, s Strategy) string {
	stem, ext := textutil.SplitFileName(baseName(source))
	switch s {
	case PrefixDate:
		return textutil.JoinFileName(n.EffectiveDate(source, ref)+"_"+textutil.SanitizeStem(stem), ext)
	case UUID:
		return textutil.JoinFileName(n.newID(), ext)
	default:
		return textutil.JoinFileName(textutil.SanitizeStem(stem), ext)
	}
}

// EffectiveDate returns the YYYYMMDD date used by the PrefixDate strategy.
func (n *Namer) EffectiveDate(source string, ref Reference) string {
	d := n.Dataset
	row, ok := d.Table.Row(ref.Row)
	if ok {
		if ts, ok := ParseDate(d.Table.Get(row, d.Layout.PhotoDateColumn(ref.Column)).String()); ok {
			return DatePrefix(ts)
		}
		if n.FallbackObservationDate {
			if col := d.Layout.ObservationDateColumn(ref.Column); col != "" {
				if ts, ok := ParseDate(d.Table.Get(row, col).String()); ok {
					return DatePrefix(ts)
				}
			}
		}
	}
	if n.CaptureDate != nil {
		if ts, err := n.CaptureDate(source); err == nil {
			return DatePrefix(ts)
		}
	}
	return NoDate
}

func (n *Namer) newID() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// baseName handles both separator styles regardless of the host OS.
func baseName(p string) string {
	p = NormalizeSeparators(p)
	if idx := strings.LastIndex(p, "/"); idx >= 0 {
		return p[idx+1:]
	}
	return p
}
