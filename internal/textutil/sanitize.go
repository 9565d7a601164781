package textutil

import (
	"regexp"
	"strings"
)

// FallbackStem replaces a stem that sanitizes to nothing.
const FallbackStem = "photo"

var (
	whitespace  = regexp.MustCompile(`\s+`)
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)
)

// SplitFileName splits name on its last dot. A name without a dot, or whose
// only dot is leading, has no extension.
func SplitFileName(name string) (stem, ext string) {
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return name, ""
	}
	return name[:idx], name[idx+1:]
}

// SanitizeStem replaces whitespace runs with underscores and drops
// characters outside [A-Za-z0-9._-]. An empty result becomes FallbackStem.
func SanitizeStem(stem string) string {
	stem = whitespace.ReplaceAllString(strings.TrimSpace(stem), "_")
	stem = unsafeChars.ReplaceAllString(stem, "")
	if stem == "" {
		return FallbackStem
	}
	return stem
}

// JoinFileName appends the sanitized, lower-cased extension to stem.
func JoinFileName(stem, ext string) string {
	ext = strings.ToLower(unsafeChars.ReplaceAllString(ext, ""))
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}

// SanitizeFileName returns the sanitized form of a base name.
func SanitizeFileName(name string) string {
	stem, ext := SplitFileName(name)
	return JoinFileName(SanitizeStem(stem), ext)
}
