// Package dotpath resolves dot separated key paths ("a.b.c") against nested
// map[string]any trees such as the ones produced by encoding/json.
//
// Segments are literal keys. A numeric segment also indexes into a []any
// node. None of the functions panic on missing paths or type mismatches.
package dotpath

import (
	"strconv"
	"strings"
)

// Separator splits a path into segments.
const Separator = "."

// Split returns the segments of path. The empty path has no segments.
func Split(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, Separator)
}

// Join builds a path from segments, skipping a leading empty prefix.
func Join(prefix, segment string) string {
	if prefix == "" {
		return segment
	}
	return prefix + Separator + segment
}

// Lookup returns the value addressed by path and whether it exists. A stored
// nil counts as existing.
func Lookup(root map[string]any, path string) (any, bool) {
	segments := Split(path)
	if len(segments) == 0 || root == nil {
		return nil, false
	}
	var current any = root
	for _, segment := range segments {
		next, ok := child(current, segment)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// Has reports whether path addresses an existing value.
func Has(root map[string]any, path string) bool {
	_, ok := Lookup(root, path)
	return ok
}

// Get returns the value at path or def when it is absent.
func Get(root map[string]any, path string, def any) any {
	if value, ok := Lookup(root, path); ok {
		return value
	}
	return def
}

// Set assigns value at path, creating intermediate maps as needed. An
// intermediate value that is neither a map nor an indexable slice is replaced
// by an empty map. Out of range slice indexes leave root untouched.
func Set(root map[string]any, path string, value any) {
	segments := Split(path)
	if len(segments) == 0 || root == nil {
		return
	}
	var current any = root
	for _, segment := range segments[:len(segments)-1] {
		next, ok := child(current, segment)
		if ok && isContainer(next) {
			current = next
			continue
		}
		created := map[string]any{}
		if !assign(current, segment, created) {
			return
		}
		current = created
	}
	assign(current, segments[len(segments)-1], value)
}

// Delete removes the value at path and reports whether anything was removed.
// Parent maps are left in place even when they become empty. Slice elements
// cannot be deleted.
func Delete(root map[string]any, path string) bool {
	segments := Split(path)
	if len(segments) == 0 || root == nil {
		return false
	}
	parent := any(root)
	if len(segments) > 1 {
		var ok bool
		parent, ok = Lookup(root, strings.Join(segments[:len(segments)-1], Separator))
		if !ok {
			return false
		}
	}
	node, ok := parent.(map[string]any)
	if !ok {
		return false
	}
	last := segments[len(segments)-1]
	if _, exists := node[last]; !exists {
		return false
	}
	delete(node, last)
	return true
}

func child(node any, segment string) (any, bool) {
	switch typed := node.(type) {
	case map[string]any:
		value, ok := typed[segment]
		return value, ok
	case []any:
		index, ok := sliceIndex(typed, segment)
		if !ok {
			return nil, false
		}
		return typed[index], true
	default:
		return nil, false
	}
}

func assign(node any, segment string, value any) bool {
	switch typed := node.(type) {
	case map[string]any:
		typed[segment] = value
		return true
	case []any:
		index, ok := sliceIndex(typed, segment)
		if !ok {
			return false
		}
		typed[index] = value
		return true
	default:
		return false
	}
}

func isContainer(value any) bool {
	switch value.(type) {
	case map[string]any, []any:
		return true
	default:
		return false
	}
}

func sliceIndex(items []any, segment string) (int, bool) {
	index, err := strconv.Atoi(segment)
	if err != nil || index < 0 || index >= len(items) {
		return 0, false
	}
	return index, true
}
