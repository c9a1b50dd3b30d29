package dotpath

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleTree() map[string]any {
	return map[string]any{
		"test": map[string]any{
			"value": "hello",
			"flag":  false,
			"count": float64(0),
			"empty": nil,
		},
		"list": []any{"a", map[string]any{"name": "b"}},
		"":     map[string]any{"": "blank"},
	}
}

func TestSplit(t *testing.T) {
	cases := []struct {
		path string
		want []string
	}{
		{path: "", want: nil},
		{path: "a", want: []string{"a"}},
		{path: "a.b.c", want: []string{"a", "b", "c"}},
		{path: "a..b", want: []string{"a", "", "b"}},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, Split(tc.path)); diff != "" {
				t.Fatalf("split mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookup(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{name: "top level map", path: "test", want: sampleTree()["test"], found: true},
		{name: "nested string", path: "test.value", want: "hello", found: true},
		{name: "stored false", path: "test.flag", want: false, found: true},
		{name: "stored zero", path: "test.count", want: float64(0), found: true},
		{name: "stored nil", path: "test.empty", want: nil, found: true},
		{name: "missing leaf", path: "test.missing", found: false},
		{name: "through scalar", path: "test.value.deeper", found: false},
		{name: "slice index", path: "list.0", want: "a", found: true},
		{name: "through slice", path: "list.1.name", want: "b", found: true},
		{name: "slice out of range", path: "list.5", found: false},
		{name: "slice non numeric", path: "list.name", found: false},
		{name: "empty segments", path: ".", want: "blank", found: true},
		{name: "empty path", path: "", found: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := Lookup(sampleTree(), tc.path)
			if ok != tc.found {
				t.Fatalf("expected found=%v, got %v", tc.found, ok)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("value mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHasAndGetDefaults(t *testing.T) {
	tree := sampleTree()
	if Has(tree, "world") {
		t.Fatalf("expected world to be absent")
	}
	if !Has(tree, "test.value") {
		t.Fatalf("expected test.value to exist")
	}
	if got := Get(tree, "world", nil); got != nil {
		t.Fatalf("expected nil default, got %v", got)
	}
	if got := Get(tree, "world", "fallback"); got != "fallback" {
		t.Fatalf("expected fallback, got %v", got)
	}
	if got := Get(tree, "test.flag", true); got != false {
		t.Fatalf("expected stored false to win over default, got %v", got)
	}
	if Has(nil, "test") {
		t.Fatalf("nil root should never report values")
	}
}

func TestSet(t *testing.T) {
	cases := []struct {
		name  string
		start map[string]any
		path  string
		value any
		want  map[string]any
	}{
		{
			name:  "single segment",
			start: map[string]any{},
			path:  "test",
			value: "hello",
			want:  map[string]any{"test": "hello"},
		},
		{
			name:  "creates intermediates",
			start: map[string]any{},
			path:  "test.value",
			value: "hello",
			want:  map[string]any{"test": map[string]any{"value": "hello"}},
		},
		{
			name:  "keeps siblings",
			start: map[string]any{"test": map[string]any{"other": true}},
			path:  "test.value",
			value: "hello",
			want:  map[string]any{"test": map[string]any{"other": true, "value": "hello"}},
		},
		{
			name:  "replaces scalar intermediate",
			start: map[string]any{"test": "scalar"},
			path:  "test.value",
			value: 1,
			want:  map[string]any{"test": map[string]any{"value": 1}},
		},
		{
			name:  "assigns slice element",
			start: map[string]any{"list": []any{"a", "b"}},
			path:  "list.1",
			value: "c",
			want:  map[string]any{"list": []any{"a", "c"}},
		},
		{
			name:  "out of range slice is a no-op",
			start: map[string]any{"list": []any{"a"}},
			path:  "list.3",
			value: "c",
			want:  map[string]any{"list": []any{"a"}},
		},
		{
			name:  "empty path is a no-op",
			start: map[string]any{"a": 1},
			path:  "",
			value: 2,
			want:  map[string]any{"a": 1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			Set(tc.start, tc.path, tc.value)
			if diff := cmp.Diff(tc.want, tc.start); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	cases := []struct {
		name    string
		start   map[string]any
		path    string
		removed bool
		want    map[string]any
	}{
		{
			name:    "only key",
			start:   map[string]any{"test": "hello"},
			path:    "test",
			removed: true,
			want:    map[string]any{},
		},
		{
			name:    "whole subtree",
			start:   map[string]any{"test": map[string]any{"value": "hello"}},
			path:    "test",
			removed: true,
			want:    map[string]any{},
		},
		{
			name:    "leaf keeps parent",
			start:   map[string]any{"test": map[string]any{"value": "hello"}},
			path:    "test.value",
			removed: true,
			want:    map[string]any{"test": map[string]any{}},
		},
		{
			name:    "missing path",
			start:   map[string]any{"test": "hello"},
			path:    "test.value.deeper",
			removed: false,
			want:    map[string]any{"test": "hello"},
		},
		{
			name:    "slice element untouched",
			start:   map[string]any{"list": []any{"a"}},
			path:    "list.0",
			removed: false,
			want:    map[string]any{"list": []any{"a"}},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Delete(tc.start, tc.path); got != tc.removed {
				t.Fatalf("expected removed=%v, got %v", tc.removed, got)
			}
			if diff := cmp.Diff(tc.want, tc.start); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
