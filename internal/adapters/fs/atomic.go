package fs

import (
	iofs "io/fs"
	"os"
	"path/filepath"
)

// writeFileAtomic writes data to a temporary file next to path and renames it
// into place. The temporary name is unique per call so concurrent writers in
// different processes never share a temp file.
//
// staged, when non-nil, receives the finished temporary file's info right
// before the rename. Rename keeps inode, size and mtime, so that info already
// describes the file that appears at path. If the rename fails, the func
// staged returned is called.
func writeFileAtomic(path string, data []byte, staged func(iofs.FileInfo) func()) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, filePerm); err != nil {
		os.Remove(tmpName)
		return err
	}

	undo := func() {}
	if staged != nil {
		fi, err := os.Stat(tmpName)
		if err != nil {
			os.Remove(tmpName)
			return err
		}
		if u := staged(fi); u != nil {
			undo = u
		}
	}

	// Atomic rename
	if err := os.Rename(tmpName, path); err != nil {
		undo()
		os.Remove(tmpName)
		return err
	}
	return nil
}

// IsTempFile reports whether name is a temporary file left by writeFileAtomic.
func IsTempFile(name string) bool {
	base := filepath.Base(name)
	return len(base) > 0 && base[0] == '.' && filepath.Ext(base) == ".tmp"
}
