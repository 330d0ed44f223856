// Package fs provides the filesystem every file-backed adapter reads and writes.
package fs

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"go.trai.ch/zerr"
)

// NewOS returns the host filesystem.
func NewOS() afero.Fs {
	return afero.NewOsFs()
}

// NewMemory returns an empty in-memory filesystem.
func NewMemory() afero.Fs {
	return afero.NewMemMapFs()
}

// WriteFileAtomic writes data to a temporary sibling of path and renames it into
// place, so readers never see a partial file.
func WriteFileAtomic(fsys afero.Fs, path string, data []byte, perm os.FileMode) error {
	tmp, err := afero.TempFile(fsys, filepath.Dir(path), ".watt-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "cannot create temporary file"), "path", path)
	}
	name := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		_ = fsys.Remove(name)
		if werr == nil {
			werr = cerr
		}
		return zerr.With(zerr.Wrap(werr, "cannot write temporary file"), "path", path)
	}

	if err := fsys.Chmod(name, perm); err != nil {
		_ = fsys.Remove(name)
		return zerr.With(zerr.Wrap(err, "cannot set file mode"), "path", path)
	}
	if err := fsys.Rename(name, path); err != nil {
		_ = fsys.Remove(name)
		return zerr.With(zerr.Wrap(err, "cannot move file into place"), "path", path)
	}
	return nil
}
