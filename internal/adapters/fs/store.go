// Package fs implements the handoff storage ports on the local file system.
//
// Layout under the base directory:
//
//	stack.json         the whole stack, newest first
//	named/<name>.json  one file per named slot
//
// Every write goes to a temporary file in the destination directory and is
// renamed over the target, so readers in other processes see either the old
// or the new file, never a partial one.
package fs

import (
	"context"
	"errors"
	iofs "io/fs"
	"os"
	"path/filepath"
	"sync"

	logAdapter "github.com/bft-labs/handoff/internal/adapters/log"
	"github.com/bft-labs/handoff/internal/domain"
	"github.com/bft-labs/handoff/internal/ports"
)

const (
	stackFileName = "stack.json"
	namedDirName  = "named"
	slotExt       = ".json"

	dirPerm  = 0o700
	filePerm = 0o600
)

// Store implements ports.Store using JSON files under a base directory.
type Store struct {
	baseDir string
	logger  ports.Logger

	mu     sync.Mutex
	stamps map[string]stamp
}

// stamp is what this process last left at a path.
type stamp struct {
	info    iofs.FileInfo
	deleted bool
}

// NewStore creates a Store rooted at baseDir. Nothing is touched on disk until
// the first write.
func NewStore(baseDir string, logger ports.Logger) *Store {
	if logger == nil {
		logger = logAdapter.NewNoopLogger()
	}
	return &Store{
		baseDir: baseDir,
		logger:  logger,
		stamps:  make(map[string]stamp),
	}
}

// BaseDir returns the storage root.
func (s *Store) BaseDir() string { return s.baseDir }

// StackPath returns the full path of the stack file.
func (s *Store) StackPath() string { return filepath.Join(s.baseDir, stackFileName) }

// NamedDir returns the directory holding slot files.
func (s *Store) NamedDir() string { return filepath.Join(s.baseDir, namedDirName) }

func (s *Store) slotPath(name string) string {
	return filepath.Join(s.NamedDir(), name+slotExt)
}

// EnsureDirs creates the base and slot directories if they are missing.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.NamedDir(), dirPerm); err != nil {
		return &domain.StorageError{Op: "create directory", Target: s.NamedDir(), Err: err}
	}
	return nil
}

// IsOwnWrite reports whether the file at path is exactly what this Store last
// wrote or deleted there. A file replaced by another process is a different
// file (atomic rename), so it never matches.
func (s *Store) IsOwnWrite(path string) bool {
	s.mu.Lock()
	st, ok := s.stamps[filepath.Clean(path)]
	s.mu.Unlock()
	if !ok {
		return false
	}

	fi, err := os.Stat(path)
	if err != nil {
		return st.deleted && errors.Is(err, iofs.ErrNotExist)
	}
	if st.deleted {
		return false
	}
	return os.SameFile(st.info, fi) &&
		fi.Size() == st.info.Size() &&
		fi.ModTime().Equal(st.info.ModTime())
}

// setStamp records st as what this process leaves at path and returns a
// func restoring the previous record. Stamps are set before the file system
// change so a watcher event arriving right after it already matches.
func (s *Store) setStamp(path string, st stamp) (restore func()) {
	key := filepath.Clean(path)
	s.mu.Lock()
	prev, had := s.stamps[key]
	s.stamps[key] = st
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if had {
			s.stamps[key] = prev
		} else {
			delete(s.stamps, key)
		}
	}
}

// stageWrite is the writeFileAtomic hook that stamps path with the file about
// to be renamed over it.
func (s *Store) stageWrite(path string) func(iofs.FileInfo) func() {
	return func(fi iofs.FileInfo) func() {
		return s.setStamp(path, stamp{info: fi})
	}
}

func checkContext(ctx context.Context, op, target string) error {
	if err := ctx.Err(); err != nil {
		return &domain.StorageError{Op: op, Target: target, Err: err}
	}
	return nil
}

var (
	_ ports.Store          = (*Store)(nil)
	_ ports.OwnWriteFilter = (*Store)(nil)
	_ ports.TempSweeper    = (*Store)(nil)
)
