package relocate

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"sirsphoto/internal/logging"
)

// LockFileName is created in the project root while a migration runs.
const LockFileName = ".sirsphoto.lock"

// ErrProjectLocked is returned when another migration holds the project lock.
var ErrProjectLocked = errors.New("another migration is running on this project")

// ProjectLock is an advisory lock on a project directory.
type ProjectLock struct {
	path   string
	lock   *flock.Flock
	logger *slog.Logger
}

// AcquireProjectLock takes the project lock without blocking.
func AcquireProjectLock(root string, logger *slog.Logger) (*ProjectLock, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	path := filepath.Join(root, LockFileName)
	l := &ProjectLock{path: path, lock: flock.New(path), logger: logger}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrProjectLocked, path)
	}
	return l, nil
}

// Release unlocks and removes the lock file.
func (l *ProjectLock) Release() {
	if err := l.lock.Unlock(); err != nil {
		logging.WarnWithContext(l.logger, "failed to release project lock", "lock_release",
			logging.String("lock", l.path),
			logging.Error(err),
		)
		return
	}
	if err := os.Remove(l.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		l.logger.Debug("lock file not removed", logging.String("lock", l.path), logging.Error(err))
	}
}
