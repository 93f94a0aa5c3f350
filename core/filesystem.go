package core

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/smarty/assetmirror/contracts"
)

// manifestCacheName is the filename WriteManifestCache/ReadManifestCache
// use under a version directory when --keep-manifest is set.
const manifestCacheName = ".manifest.msgpack"

// AtomicWriter persists asset bytes to a version directory using
// write-then-rename so a reader never observes a partially written file,
// and can recognize and clean up its own crash debris by filename prefix.
// It is grounded on the teacher's DiskFileSystem.Create, generalized from
// a single os.Create to the write-temp/rename-into-place sequence §4.7
// and §4.9 require, and driven through contracts.FileSystem so the same
// code exercises a real disk or an in-memory filesystem in tests.
type AtomicWriter struct {
	fs contracts.FileSystem
}

func NewAtomicWriter(fs contracts.FileSystem) *AtomicWriter {
	return &AtomicWriter{fs: fs}
}

// VersionDir returns the directory an asset version's files live under.
func VersionDir(outputRoot string, version uint64) string {
	return filepath.Join(outputRoot, fmt.Sprintf("%d", version))
}

// AssetPath returns the final on-disk path for a named asset within a
// version directory.
func AssetPath(outputRoot string, version uint64, name string) string {
	return filepath.Join(VersionDir(outputRoot, version), name)
}

func tempName(name string) string {
	return fmt.Sprintf(".%s.%s.tmp", name, uuid.NewString())
}

// WriteAtomic creates dir if absent, writes content to a sibling temp file
// named ".{name}.{uuid}.tmp", and renames it into place as {dir}/{name}.
func (this *AtomicWriter) WriteAtomic(dir, name string, content []byte) error {
	if err := this.fs.MkdirAll(dir, 0755); err != nil {
		return &contracts.IOPermissionError{Path: dir, Cause: err}
	}

	tempPath := filepath.Join(dir, tempName(name))
	writer, err := this.fs.Create(tempPath)
	if err != nil {
		return &contracts.IOPermissionError{Path: tempPath, Cause: err}
	}
	if _, err := writer.Write(content); err != nil {
		_ = writer.Close()
		_ = this.fs.Remove(tempPath)
		return fmt.Errorf("writing %s: %w", tempPath, err)
	}
	if err := writer.Close(); err != nil {
		_ = this.fs.Remove(tempPath)
		return fmt.Errorf("closing %s: %w", tempPath, err)
	}

	finalPath := filepath.Join(dir, name)
	if err := this.fs.Rename(tempPath, finalPath); err != nil {
		_ = this.fs.Remove(tempPath)
		return fmt.Errorf("renaming %s into place: %w", tempPath, err)
	}
	return nil
}

// CleanStaleTempFiles removes any leftover ".*.tmp" sibling temp files
// under dir. A process killed mid-write (SIGINT, crash) can leave these
// behind; the next run removes them before starting so they never get
// mistaken for a partially-complete asset.
func (this *AtomicWriter) CleanStaleTempFiles(dir string) error {
	matches, err := this.fs.Glob(filepath.Join(dir, ".*.tmp"))
	if err != nil {
		if contracts.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, match := range matches {
		if err := this.fs.Remove(match); err != nil && !contracts.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// ReadFile reads a file's full contents, returning (nil, false, nil) when
// the file does not exist rather than an error.
func (this *AtomicWriter) ReadFile(path string) ([]byte, bool, error) {
	reader, err := this.fs.Open(path)
	if err != nil {
		if contracts.IsNotExist(err) || os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, false, err
	}
	return content, true, nil
}

// ManifestCachePath returns where WriteManifestCache/ReadManifestCache
// store a version's verified manifest bytes.
func ManifestCachePath(outputRoot string, version uint64) string {
	return filepath.Join(VersionDir(outputRoot, version), manifestCacheName)
}

// WriteManifestCache persists already-verified manifest bytes so a later
// `diff` invocation can run without a network round-trip. It is additive
// and only ever called when Options.KeepManifest is set.
func (this *AtomicWriter) WriteManifestCache(outputRoot string, version uint64, raw []byte) error {
	dir := VersionDir(outputRoot, version)
	if err := this.fs.MkdirAll(dir, 0755); err != nil {
		return &contracts.IOPermissionError{Path: dir, Cause: err}
	}
	return this.WriteAtomic(dir, manifestCacheName, raw)
}

// ReadManifestCache loads manifest bytes previously written by
// WriteManifestCache, reporting found=false (not an error) if absent.
func (this *AtomicWriter) ReadManifestCache(outputRoot string, version uint64) (raw []byte, found bool, err error) {
	return this.ReadFile(ManifestCachePath(outputRoot, version))
}
