package jsonconfig

import (
	"github.com/goliatone/go-jsonconfig/dotpath"
)

// FieldDescriptor names a leaf path of the config tree and its JSON kind.
type FieldDescriptor struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Fields flattens the config tree into leaf descriptors sorted by path.
// Arrays and empty objects are leaves; arrays report their first element's
// kind as "array<kind>".
func (s *Store) Fields() []FieldDescriptor {
	fields := deriveFieldDescriptors(s.config, "")
	if fields == nil {
		fields = []FieldDescriptor{}
	}
	return fields
}

func deriveFieldDescriptors(value any, prefix string) []FieldDescriptor {
	switch typed := value.(type) {
	case map[string]any:
		if len(typed) == 0 {
			if prefix == "" {
				return nil
			}
			return []FieldDescriptor{{Path: prefix, Type: "object"}}
		}
		var fields []FieldDescriptor
		for _, key := range sortedKeys(typed) {
			fields = append(fields, deriveFieldDescriptors(typed[key], dotpath.Join(prefix, key))...)
		}
		return fields
	case []any:
		kind := "array"
		if len(typed) > 0 {
			kind = "array<" + jsonKind(typed[0]) + ">"
		}
		return []FieldDescriptor{{Path: prefix, Type: kind}}
	default:
		return []FieldDescriptor{{Path: prefix, Type: jsonKind(typed)}}
	}
}
