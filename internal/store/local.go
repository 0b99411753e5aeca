package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// LocalStore implements Store on an afero filesystem.
//
// Storage layout:
//
//	root/
//	  <host>/<port>/<bucket>/<key...>
//
// Writes land in a temp file next to the target and are renamed over it.
type LocalStore struct {
	root string
	fs   afero.Fs
}

// NewLocalStore returns a store rooted at root. A nil fs uses the OS filesystem.
func NewLocalStore(fs afero.Fs, root string) *LocalStore {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &LocalStore{root: root, fs: fs}
}

func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Path(elem ...string) string {
	return filepath.Join(append([]string{s.root}, elem...)...)
}

func (s *LocalStore) Has(path string) (bool, error) {
	info, err := s.fs.Stat(path)
	if err == nil {
		return info.Mode().IsRegular(), nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

func (s *LocalStore) Write(path string, r io.Reader) (n int64, err error) {
	dir := filepath.Dir(path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := afero.TempFile(s.fs, dir, "."+filepath.Base(path)+".*.partial")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = s.fs.Remove(tmp.Name())
		}
	}()

	n, err = io.Copy(tmp, r)
	if cerr := tmp.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("failed to write object: %w", err)
	}

	if err := s.fs.Chmod(tmp.Name(), 0644); err != nil {
		return n, fmt.Errorf("failed to chmod object: %w", err)
	}
	if err := s.fs.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("failed to move object into place: %w", err)
	}
	return n, nil
}
