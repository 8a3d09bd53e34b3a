package library

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// CreateFS defines a file system interface that supports creating files and
// directories, for writing warrior listings.
type CreateFS interface {
	// Sub returns a filesystem for a subdirectory.
	Sub(name string) (sub CreateFS, err error)
	// Create creates a new file for writing.
	Create(name string) (file io.WriteCloser, err error)
	// Mkdir creates a new directory with the specified permissions.
	Mkdir(name string, filemode fs.FileMode) (err error)
}

// DirFS returns a CreateFS rooted at an operating system directory.
func DirFS(dir string) CreateFS {
	return dirFS(dir)
}

type dirFS string

var _ CreateFS = dirFS("")

func (dir dirFS) path(name string) string {
	return filepath.Join(string(dir), filepath.FromSlash(name))
}

func (dir dirFS) Sub(name string) (sub CreateFS, err error) {
	path := dir.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if !info.IsDir() {
		err = errors.Wrapf(fs.ErrInvalid, "%v: not a directory", path)
		return
	}

	sub = dirFS(path)
	return
}

func (dir dirFS) Create(name string) (file io.WriteCloser, err error) {
	osfile, err := os.Create(dir.path(name))
	if err != nil {
		return
	}

	file = osfile
	return
}

func (dir dirFS) Mkdir(name string, filemode fs.FileMode) (err error) {
	return os.Mkdir(dir.path(name), filemode)
}
