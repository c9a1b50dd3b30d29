package storage

import (
	"context"
	"io/fs"
	"os"
)

// DefaultFileMode is applied to files written by OSFileSystem.
const DefaultFileMode fs.FileMode = 0o644

// FileSystem reads, writes and checks for named files.
type FileSystem interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
	WriteFile(ctx context.Context, name string, data []byte) error
	// Exists reports whether name exists and is not a directory.
	Exists(ctx context.Context, name string) bool
}

// OSFileSystem is the FileSystem backed by the local disk.
type OSFileSystem struct {
	mode fs.FileMode
}

// OSOption configures an OSFileSystem.
type OSOption func(*OSFileSystem)

// WithFileMode overrides the permission bits used for written files.
func WithFileMode(mode fs.FileMode) OSOption {
	return func(f *OSFileSystem) {
		f.mode = mode
	}
}

// NewOSFileSystem constructs a disk backed FileSystem.
func NewOSFileSystem(opts ...OSOption) *OSFileSystem {
	f := &OSFileSystem{mode: DefaultFileMode}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *OSFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return os.ReadFile(name)
}

func (f *OSFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mode := f.mode
	if mode == 0 {
		mode = DefaultFileMode
	}
	return os.WriteFile(name, data, mode)
}

func (f *OSFileSystem) Exists(ctx context.Context, name string) bool {
	if ctx.Err() != nil {
		return false
	}
	info, err := os.Stat(name)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
