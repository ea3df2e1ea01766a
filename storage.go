package filelock

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/absfs/absfs"
	"github.com/google/uuid"
	"github.com/natefinch/atomic"
)

// FileSystem is the part of absfs.FileSystem a Locker needs. Any
// absfs.FileSystem, such as memfs, satisfies it.
type FileSystem interface {
	OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error)
	Stat(name string) (os.FileInfo, error)
	Rename(oldpath, newpath string) error
	Remove(name string) error
}

// atomicWriter is implemented by filesystems with a native atomic replace.
type atomicWriter interface {
	WriteFileAtomic(name string, data []byte, perm os.FileMode) error
}

// OSFileSystem is a FileSystem backed by the host operating system.
type OSFileSystem struct{}

var _ FileSystem = OSFileSystem{}

func (OSFileSystem) OpenFile(name string, flag int, perm os.FileMode) (absfs.File, error) {
	return os.OpenFile(name, flag, perm)
}

func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

func (OSFileSystem) Remove(name string) error {
	return os.Remove(name)
}

// WriteFileAtomic writes data to a synced temp file in the same directory
// and renames it over name. New files get perm; replaced files keep their
// existing mode.
func (OSFileSystem) WriteFileAtomic(name string, data []byte, perm os.FileMode) error {
	_, statErr := os.Stat(name)
	if err := atomic.WriteFile(name, bytes.NewReader(data)); err != nil {
		return err
	}
	if errors.Is(statErr, fs.ErrNotExist) {
		return os.Chmod(name, perm)
	}
	return nil
}

// readFile returns the whole content of name. Missing files match
// ErrSourceNotFound and permission failures match ErrAccessDenied.
func readFile(fsys FileSystem, name string) ([]byte, error) {
	f, err := fsys.OpenFile(name, os.O_RDONLY, 0)
	if err != nil {
		return nil, classifyReadError(name, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, classifyReadError(name, err)
	}
	return data, nil
}

func classifyReadError(name string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &IOError{Operation: "read", Path: name, Message: "file does not exist", Err: fmt.Errorf("%w: %w", ErrSourceNotFound, err)}
	case errors.Is(err, fs.ErrPermission):
		return &IOError{Operation: "read", Path: name, Message: "permission denied", Err: fmt.Errorf("%w: %w", ErrAccessDenied, err)}
	default:
		return NewIOError("read", name, fmt.Errorf("%w: %w", ErrAccessDenied, err))
	}
}

// exists reports whether name can be stat'ed.
func exists(fsys FileSystem, name string) (bool, error) {
	_, err := fsys.Stat(name)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// writeFileAtomic replaces name with data so that readers observe either
// the old content or the new content, never a mix. Failures match
// ErrDestinationWrite.
func writeFileAtomic(fsys FileSystem, name string, data []byte, perm os.FileMode) error {
	if aw, ok := fsys.(atomicWriter); ok {
		if err := aw.WriteFileAtomic(name, data, perm); err != nil {
			return NewIOError("write", name, fmt.Errorf("%w: %w", ErrDestinationWrite, err))
		}
		return nil
	}

	tmp := filepath.Join(filepath.Dir(name), ".filelock-"+uuid.NewString()+".tmp")
	if err := writeTemp(fsys, tmp, data, perm); err != nil {
		fsys.Remove(tmp)
		return NewIOError("write", name, fmt.Errorf("%w: %w", ErrDestinationWrite, err))
	}
	if err := fsys.Rename(tmp, name); err != nil {
		fsys.Remove(tmp)
		return NewIOError("rename", name, fmt.Errorf("%w: %w", ErrDestinationWrite, err))
	}
	return nil
}

func writeTemp(fsys FileSystem, name string, data []byte, perm os.FileMode) error {
	f, err := fsys.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
