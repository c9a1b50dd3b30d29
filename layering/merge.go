// Package layering clones and merges decoded JSON trees (map[string]any,
// []any and scalars).
package layering

// Merge composes trees ordered from strongest to weakest, returning a new tree
// that keeps values from stronger layers while filling missing keys from
// weaker ones. Nested maps merge recursively; any other value from a stronger
// layer replaces the weaker value wholesale. A nil value in a stronger layer
// is treated as unset. Inputs are never mutated.
func Merge(layers ...map[string]any) map[string]any {
	if len(layers) == 0 {
		return map[string]any{}
	}
	merged := CloneMap(layers[len(layers)-1])
	if merged == nil {
		merged = map[string]any{}
	}
	for i := len(layers) - 2; i >= 0; i-- {
		merged = mergeMap(layers[i], merged)
	}
	return merged
}

// mergeMap overlays strong onto weak. weak is owned by the caller and may be
// reused in the result.
func mergeMap(strong, weak map[string]any) map[string]any {
	for key, value := range strong {
		if value == nil {
			if _, exists := weak[key]; !exists {
				weak[key] = nil
			}
			continue
		}
		strongMap, strongIsMap := value.(map[string]any)
		weakMap, weakIsMap := weak[key].(map[string]any)
		if strongIsMap && weakIsMap {
			weak[key] = mergeMap(strongMap, weakMap)
			continue
		}
		weak[key] = Clone(value)
	}
	return weak
}

// Clone returns a deep copy of a decoded JSON value.
func Clone(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CloneMap(typed)
	case []any:
		if typed == nil {
			return []any(nil)
		}
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = Clone(item)
		}
		return out
	default:
		return typed
	}
}

// CloneMap returns a deep copy of m. A nil map stays nil.
func CloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = Clone(value)
	}
	return out
}
