package jsonconfig

import (
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/goliatone/go-jsonconfig/dotpath"
)

const (
	markerPrefix = "@{"
	markerSuffix = "}"
)

// FormatMarker returns the main-file placeholder for a key stored in the file
// at rel, a path relative to the main file's directory.
func FormatMarker(rel string) string {
	return markerPrefix + filepath.ToSlash(rel) + markerSuffix
}

// ParseMarker extracts the relative path from a marker string. Values that do
// not start with "@{", end with "}" and enclose a non-empty path are not
// markers.
func ParseMarker(value string) (string, bool) {
	if len(value) <= len(markerPrefix)+len(markerSuffix) {
		return "", false
	}
	if !strings.HasPrefix(value, markerPrefix) || !strings.HasSuffix(value, markerSuffix) {
		return "", false
	}
	return value[len(markerPrefix) : len(value)-len(markerSuffix)], true
}

// References returns a copy of the reference table: top-level key to the
// absolute path of the file holding its value.
func (s *Store) References() map[string]string {
	return maps.Clone(s.references)
}

// SetReference marks the top-level key to be persisted in file on the next
// Save. A relative file resolves against the main file's directory. The file
// may not be the main file or the target of another key.
func (s *Store) SetReference(key, file string) error {
	if key == "" || strings.Contains(key, dotpath.Separator) {
		return fmt.Errorf("%w: %q", ErrNestedReference, key)
	}
	target := s.resolvePath(file)
	if owner, ok := s.referenceOwner(target); ok && owner != key {
		return fmt.Errorf("%w: %s holds %q", ErrReferenceConflict, target, owner)
	}
	s.references[key] = target
	return nil
}

// referenceOwner reports which key is persisted in file. The main file is
// owned by the empty key.
func (s *Store) referenceOwner(file string) (string, bool) {
	if file == s.mainPath() {
		return "", true
	}
	for _, key := range sortedKeys(s.references) {
		if s.references[key] == file {
			return key, true
		}
	}
	return "", false
}

func (s *Store) mainPath() string {
	if abs, err := filepath.Abs(s.filename); err == nil {
		return abs
	}
	return filepath.Clean(s.filename)
}

// RemoveReference inlines key into the main file on the next Save. The
// previously written reference file is left on disk.
func (s *Store) RemoveReference(key string) *Store {
	delete(s.references, key)
	return s
}

func (s *Store) dir() string {
	return filepath.Dir(s.filename)
}

func (s *Store) resolvePath(file string) string {
	file = filepath.FromSlash(file)
	if !filepath.IsAbs(file) {
		file = filepath.Join(s.dir(), file)
	}
	if abs, err := filepath.Abs(file); err == nil {
		return abs
	}
	return filepath.Clean(file)
}

// relativePath renders file relative to the main file's directory, falling
// back to the absolute path when no relative form exists.
func (s *Store) relativePath(file string) string {
	base, err := filepath.Abs(s.dir())
	if err != nil {
		return filepath.ToSlash(file)
	}
	rel, err := filepath.Rel(base, file)
	if err != nil {
		return filepath.ToSlash(file)
	}
	return filepath.ToSlash(rel)
}

func sortedKeys[V any](m map[string]V) []string {
	return slices.Sorted(maps.Keys(m))
}
