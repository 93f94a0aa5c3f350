package shell

import (
	"io"
	"os"

	"github.com/spf13/afero"
)

// AferoFileSystem adapts an afero.Fs to contracts.FileSystem, wrapping
// afero instead of os directly so the exact same AtomicWriter runs
// against a real disk in production and an in-memory afero.MemMapFs in
// tests without a single type assertion anywhere in core/.
type AferoFileSystem struct {
	fs afero.Fs
}

// NewOSFileSystem returns an AferoFileSystem backed by the real disk.
func NewOSFileSystem() *AferoFileSystem {
	return &AferoFileSystem{fs: afero.NewOsFs()}
}

// NewMemoryFileSystem returns an AferoFileSystem backed by memory, for
// tests that exercise AtomicWriter without touching disk.
func NewMemoryFileSystem() *AferoFileSystem {
	return &AferoFileSystem{fs: afero.NewMemMapFs()}
}

func NewAferoFileSystem(fs afero.Fs) *AferoFileSystem {
	return &AferoFileSystem{fs: fs}
}

func (this *AferoFileSystem) Stat(path string) (os.FileInfo, error) {
	return this.fs.Stat(path)
}

func (this *AferoFileSystem) Open(path string) (io.ReadCloser, error) {
	return this.fs.Open(path)
}

func (this *AferoFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return this.fs.MkdirAll(path, perm)
}

func (this *AferoFileSystem) Create(path string) (io.WriteCloser, error) {
	return this.fs.Create(path)
}

func (this *AferoFileSystem) Rename(oldPath, newPath string) error {
	return this.fs.Rename(oldPath, newPath)
}

func (this *AferoFileSystem) Remove(path string) error {
	return this.fs.Remove(path)
}

func (this *AferoFileSystem) Glob(pattern string) ([]string, error) {
	return afero.Glob(this.fs, pattern)
}
