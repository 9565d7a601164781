// Package textutil provides filename sanitization for relocated photos.
//
// Photo names coming from field tablets mix spaces, accents and punctuation.
// Sanitized names keep only [A-Za-z0-9._-] in the stem and a lower-cased
// extension, so the same photo gets the same name on every filesystem.
package textutil
