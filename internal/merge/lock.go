package merge

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
)

// LockFileName is created in the output directory for the duration of a run.
const LockFileName = ".pairmerge.lock"

func acquireRunLock(outputDir string) (*flock.Flock, error) {
	path := filepath.Join(outputDir, LockFileName)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunLocked, path)
	}
	return lock, nil
}
