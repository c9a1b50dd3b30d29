package storage

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// MemoryFileSystem is an in-memory FileSystem intended for tests and
// examples. Names are normalised with filepath.Clean.
type MemoryFileSystem struct {
	mu          sync.RWMutex
	files       map[string][]byte
	readErrors  map[string]error
	writeErrors map[string]error
}

func NewMemoryFileSystem() *MemoryFileSystem {
	return &MemoryFileSystem{
		files:       map[string][]byte{},
		readErrors:  map[string]error{},
		writeErrors: map[string]error{},
	}
}

// Put stores data under name without going through WriteFile.
func (m *MemoryFileSystem) Put(name string, data []byte) {
	m.mu.Lock()
	m.files[filepath.Clean(name)] = cloneBytes(data)
	m.mu.Unlock()
}

// FailRead makes every ReadFile of name return err. A nil err clears it.
func (m *MemoryFileSystem) FailRead(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.readErrors, filepath.Clean(name))
		return
	}
	m.readErrors[filepath.Clean(name)] = err
}

// FailWrite makes every WriteFile of name return err. A nil err clears it.
func (m *MemoryFileSystem) FailWrite(name string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.writeErrors, filepath.Clean(name))
		return
	}
	m.writeErrors[filepath.Clean(name)] = err
}

// Names returns the stored file names sorted alphabetically.
func (m *MemoryFileSystem) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m *MemoryFileSystem) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := filepath.Clean(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	if err, ok := m.readErrors[key]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	data, ok := m.files[key]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return cloneBytes(data), nil
}

func (m *MemoryFileSystem) WriteFile(ctx context.Context, name string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key := filepath.Clean(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.writeErrors[key]; ok {
		return &fs.PathError{Op: "open", Path: name, Err: err}
	}
	m.files[key] = cloneBytes(data)
	return nil
}

func (m *MemoryFileSystem) Exists(ctx context.Context, name string) bool {
	if ctx.Err() != nil {
		return false
	}
	m.mu.RLock()
	_, ok := m.files[filepath.Clean(name)]
	m.mu.RUnlock()
	return ok
}

func cloneBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out
}
