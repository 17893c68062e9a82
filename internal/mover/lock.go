package mover

import (
	"fmt"

	"github.com/gofrs/flock"
)

// AcquireLock takes the commit-session lock. The returned release function
// must be called once the session ends. A second commit session started
// while the lock is held fails immediately instead of queueing behind the
// first.
func AcquireLock(path string) (func(), error) {
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another commit session is already running (lock %s)", path)
	}
	return func() {
		_ = lock.Unlock()
	}, nil
}
