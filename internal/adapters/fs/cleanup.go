package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bft-labs/handoff/internal/ports"
)

// RemoveStaleTemps deletes temporary files in the base and slot directories
// whose modification time is older than maxAge. A writer holds its temp file
// for milliseconds, so anything older belongs to a process that died before
// the rename. Missing directories are not an error.
func (s *Store) RemoveStaleTemps(ctx context.Context, maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, dir := range []string{s.baseDir, s.NamedDir()} {
		if err := checkContext(ctx, "sweep", dir); err != nil {
			return removed, err
		}

		ents, err := os.ReadDir(dir)
		if errors.Is(err, iofs.ErrNotExist) {
			continue
		}
		if err != nil {
			return removed, err
		}

		for _, e := range ents {
			if e.IsDir() || !IsTempFile(e.Name()) {
				continue
			}
			info, err := e.Info()
			if err != nil || info.ModTime().After(cutoff) {
				continue
			}

			path := filepath.Join(dir, e.Name())
			if err := os.Remove(path); err != nil && !errors.Is(err, iofs.ErrNotExist) {
				s.logger.Warn("remove stale temp file failed",
					ports.String("path", path),
					ports.Err(err))
				continue
			}
			removed++
		}
	}
	return removed, nil
}
