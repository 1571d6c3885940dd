package file

import (
	"io"
	"os"
)

// File is the handle a rewriter session holds for its whole lifetime.
type File interface {
	io.Reader
	io.Writer
	io.Seeker
	io.Closer
	io.ReaderAt
	Truncate(size int64) error
	Sync() error
}

// FileSystem defines the storage operations the engine performs on
// manifest documents.
type FileSystem interface {
	// Open opens a file using specified flag.
	Open(name string, flag int) (File, error)

	// OpenExclusive opens a read/write file and acquires an exclusive
	// lock on it. If someone else holds the lock, it fails with an error
	// instead of blocking.
	OpenExclusive(name string, flag int) (File, error)

	// Exists returns true if the named file exists.
	Exists(name string) bool

	// Remove removes named file.
	Remove(name string) error

	// Rename renames(moves) oldpath to newpath. If newpath already exists,
	// Rename replaces it.
	Rename(oldpath, newpath string) error
}

type osFileSystem struct{}

func (osFileSystem) Open(name string, flag int) (File, error) {
	return os.OpenFile(name, flag, 0666)
}

func (osFileSystem) OpenExclusive(name string, flag int) (File, error) {
	f, err := os.OpenFile(name, flag, 0666)
	if err != nil {
		return nil, err
	}
	if err := lock(f); err != nil {
		f.Close()
		return nil, err
	}
	return lockedFile{f}, nil
}

func (osFileSystem) Exists(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

func (osFileSystem) Remove(name string) error {
	return os.Remove(name)
}

func (osFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// lockedFile releases its lock when closed.
type lockedFile struct {
	*os.File
}

func (f lockedFile) Close() error {
	unlock(f.File)
	return f.File.Close()
}

var DefaultFileSystem FileSystem = osFileSystem{}
