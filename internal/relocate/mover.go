package relocate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"sirsphoto/internal/fileutil"
	"sirsphoto/internal/logging"
)

// MoveStats summarizes an applied mapping.
type MoveStats struct {
	Moved     int `json:"moved"`
	Copied    int `json:"copied"`
	Removed   int `json:"removed"`
	Unchanged int `json:"unchanged"`
}

// Mover realizes a collision-free mapping on disk.
type Mover struct {
	Logger *slog.Logger
}

// Apply moves or copies every source to its destinations. A source with one
// destination is moved; a source with several is copied to each of them and
// removed only when every copy was verified and none of the destinations is
// the source itself. Destinations already holding the source's bytes are
// accepted as done, so a run interrupted during copies can be repeated.
func (m *Mover) Apply(ctx context.Context, mapping *Mapping) (MoveStats, error) {
	logger := logging.NewComponentLogger(m.Logger, "mover")
	var stats MoveStats
	total := mapping.Len()
	for i, src := range mapping.Sources() {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if err := m.applySource(logger, src, mapping.Destinations(src), &stats); err != nil {
			var relErr *RelocationError
			if errors.As(err, &relErr) {
				relErr.Completed = i
				relErr.Total = total
			}
			return stats, err
		}
	}
	logger.Info("photos relocated",
		logging.Int("moved", stats.Moved),
		logging.Int("copied", stats.Copied),
		logging.Int("removed", stats.Removed),
		logging.Int("unchanged", stats.Unchanged),
	)
	return stats, nil
}

func (m *Mover) applySource(logger *slog.Logger, src string, dests []string, stats *MoveStats) error {
	if !fileutil.Exists(src) {
		return &RelocationError{Source: src, Destination: dests[0], Err: fs.ErrNotExist}
	}

	if len(dests) == 1 {
		dst := dests[0]
		switch {
		case samePath(src, dst):
			stats.Unchanged++
			return nil
		case fileutil.SameFile(src, dst):
			if err := fileutil.Respell(src, dst); err != nil {
				return &RelocationError{Source: src, Destination: dst, Err: err}
			}
		default:
			done, err := alreadyCopied(src, dst)
			if err != nil {
				return err
			}
			if !done {
				if err := fileutil.MoveFile(src, dst); err != nil {
					return &RelocationError{Source: src, Destination: dst, Err: err}
				}
			} else if err := os.Remove(src); err != nil {
				return &RelocationError{Source: src, Destination: dst, Err: err}
			}
		}
		logger.Debug("photo moved", logging.String(logging.FieldSource, src), logging.String(logging.FieldDestination, dst))
		stats.Moved++
		return nil
	}

	keepSource := false
	respell := ""
	for _, dst := range dests {
		if samePath(src, dst) {
			keepSource = true
			continue
		}
		if fileutil.SameFile(src, dst) {
			respell = dst
			continue
		}
		done, err := alreadyCopied(src, dst)
		if err != nil {
			return err
		}
		if done {
			continue
		}
		if err := fileutil.CopyFileVerified(src, dst); err != nil {
			return &RelocationError{Source: src, Destination: dst, Err: err}
		}
		logger.Debug("photo copied", logging.String(logging.FieldSource, src), logging.String(logging.FieldDestination, dst))
		stats.Copied++
	}
	switch {
	case keepSource:
		return nil
	case respell != "":
		if err := fileutil.Respell(src, respell); err != nil {
			return &RelocationError{Source: src, Destination: respell, Err: err}
		}
		stats.Moved++
		return nil
	}
	if err := os.Remove(src); err != nil {
		return &RelocationError{Source: src, Destination: dests[0], Err: fmt.Errorf("remove source after copies: %w", err)}
	}
	stats.Removed++
	return nil
}

// samePath reports whether a and b spell the same directory entry byte for
// byte. Names differing only by case are distinct here.
func samePath(a, b string) bool {
	return filepath.Clean(a) == filepath.Clean(b)
}

// reachesSource reports whether writing dst would land on src itself.
func reachesSource(src, dst string) bool {
	return samePath(src, dst) || fileutil.SameFile(src, dst)
}

// alreadyCopied reports whether dst holds the content of src. An existing
// destination with different content is an error.
func alreadyCopied(src, dst string) (bool, error) {
	if !fileutil.Exists(dst) {
		return false, nil
	}
	want, err := fileutil.Fingerprint(src)
	if err != nil {
		return false, &RelocationError{Source: src, Destination: dst, Err: err}
	}
	got, err := fileutil.Fingerprint(dst)
	if err != nil {
		return false, &RelocationError{Source: src, Destination: dst, Err: err}
	}
	if !bytes.Equal(want, got) {
		return false, &RelocationError{Source: src, Destination: dst, Err: fs.ErrExist}
	}
	return true, nil
}

// RequiredBytes estimates the extra space the copies of mapping need.
func RequiredBytes(mapping *Mapping) uint64 {
	var need uint64
	for _, src := range mapping.Sources() {
		dests := mapping.Destinations(src)
		if len(dests) < 2 {
			continue
		}
		info, err := os.Stat(src)
		if err != nil {
			continue
		}
		for _, dst := range dests {
			if !reachesSource(src, dst) {
				need += uint64(info.Size())
			}
		}
	}
	return need
}
