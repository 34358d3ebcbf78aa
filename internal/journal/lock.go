package journal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofrs/flock"
)

// fileLockRetryInterval is the interval between consecutive attempts to
// acquire the journal file lock. 50ms balances responsiveness after the
// holder releases against CPU overhead from busy-polling.
const fileLockRetryInterval = 50 * time.Millisecond

// acquireFileLock acquires an exclusive lock on the given path, retrying at
// fileLockRetryInterval until it succeeds or ctx is done.
func acquireFileLock(ctx context.Context, lockPath string) (*flock.Flock, error) {
	fl := flock.New(lockPath)

	locked, err := fl.TryLockContext(ctx, fileLockRetryInterval)
	if err != nil {
		return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, err)
	}

	if !locked {
		// TryLockContext should return an error when it fails; handle the
		// case where it returns (false, nil) unexpectedly.
		if ctx.Err() != nil {
			return nil, fmt.Errorf("acquiring file lock %s: %w", lockPath, ctx.Err())
		}
		return nil, fmt.Errorf("acquiring file lock %s: lock not acquired", lockPath)
	}

	return fl, nil
}

// releaseFileLock releases the lock and closes its file descriptor. The
// lock file is intentionally left on disk: removing it could invalidate a
// lock concurrently acquired by another process. Close() unlocks
// internally. Errors are logged at debug level; this is best-effort
// cleanup and not worth failing a record over.
func releaseFileLock(log *slog.Logger, fl *flock.Flock) {
	if fl != nil {
		if err := fl.Close(); err != nil {
			log.Debug("failed to release journal lock", "path", fl.Path(), "err", err)
		}
	}
}
