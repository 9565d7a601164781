package relocate

import (
	"path/filepath"
	"strings"
)

// Resolver turns raw table paths into canonical absolute paths rooted at the
// project directory. It never touches the filesystem.
type Resolver struct {
	Root string
}

// NewResolver returns a resolver for root, made absolute when possible.
func NewResolver(root string) Resolver {
	if abs, err := filepath.Abs(root); err == nil {
		return Resolver{Root: abs}
	}
	return Resolver{Root: filepath.Clean(root)}
}

// NormalizeSeparators converts backslashes to forward slashes and trims
// surrounding whitespace.
func NormalizeSeparators(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), `\`, "/")
}

// Resolve returns the canonical absolute path for raw.
func (r Resolver) Resolve(raw string) string {
	p := filepath.FromSlash(NormalizeSeparators(raw))
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(r.Root, p)
}

// Rel returns abs relative to the project root with forward slashes.
func (r Resolver) Rel(abs string) (string, error) {
	rel, err := filepath.Rel(r.Root, abs)
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}

// SegmentDir returns the destination directory of a segment.
func (r Resolver) SegmentDir(segment string) string {
	return filepath.Join(r.Root, segment)
}
