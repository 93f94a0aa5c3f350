package contracts

import (
	"io"
	"os"
)

// FileSystem is the subset of filesystem operations the downloader needs
// to stage, verify, and persist asset bytes. It is satisfied by an
// afero.Fs-backed adapter in shell/, which lets the exact same core code
// run against a real disk or an in-memory filesystem in tests.
type FileSystem interface {
	Stat(path string) (os.FileInfo, error)
	Open(path string) (io.ReadCloser, error)
	MkdirAll(path string, perm os.FileMode) error
	Create(path string) (io.WriteCloser, error)
	Rename(oldPath, newPath string) error
	Remove(path string) error
	Glob(pattern string) ([]string, error)
}

// IsNotExist reports whether err indicates the path looked up does not
// exist, mirroring os.IsNotExist for FileSystem implementations that wrap
// a non-os backend.
func IsNotExist(err error) bool {
	return os.IsNotExist(err)
}
