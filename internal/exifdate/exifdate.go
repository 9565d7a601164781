// Package exifdate reads capture dates embedded in photo files.
package exifdate

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ErrNoDate is returned when a file carries no usable EXIF date.
var ErrNoDate = errors.New("no exif date")

const exifLayout = "2006:01:02 15:04:05"

// CaptureDate returns the capture date of the photo at path. Tags are tried
// from the most to the least reliable: DateTimeOriginal, DateTimeDigitized,
// then DateTime.
func CaptureDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("open photo: %w", err)
	}
	defer f.Close()

	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrNoDate, err)
	}

	for _, field := range []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized} {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		raw, err := tag.StringVal()
		if err != nil {
			continue
		}
		if ts, ok := parse(raw); ok {
			return ts, nil
		}
	}
	if ts, err := x.DateTime(); err == nil && plausible(ts) {
		return ts, nil
	}
	return time.Time{}, ErrNoDate
}

func parse(raw string) (time.Time, bool) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "\x00")
	ts, err := time.ParseInLocation(exifLayout, raw, time.Local)
	if err != nil || !plausible(ts) {
		return time.Time{}, false
	}
	return ts, true
}

// plausible filters zeroed camera clocks.
func plausible(ts time.Time) bool {
	return ts.Year() > 1900 && ts.Year() <= time.Now().Year()+1
}
