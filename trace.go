package jsonconfig

import (
	"encoding/json"

	"github.com/goliatone/go-jsonconfig/dotpath"
	"github.com/goliatone/go-jsonconfig/layering"
)

// Trace records which file a path is persisted in and what it holds.
type Trace struct {
	Path string `json:"path"`
	// File is the main file, or the reference file when the path lives
	// under a referenced top-level key.
	File string `json:"file"`
	// Reference is the referenced top-level key, if any.
	Reference string `json:"reference,omitempty"`
	Value     any    `json:"value,omitempty"`
	Found     bool   `json:"found"`
}

// Trace reports where path is stored. Value is a deep copy.
func (s *Store) Trace(path string) Trace {
	trace := Trace{Path: path, File: s.filename}
	if segments := dotpath.Split(path); len(segments) > 0 {
		if file, ok := s.references[segments[0]]; ok {
			trace.File = file
			trace.Reference = segments[0]
		}
	}
	if value, ok := dotpath.Lookup(s.config, path); ok {
		trace.Value = layering.Clone(value)
		trace.Found = true
	}
	return trace
}

// ToJSON serialises the trace for logging or transport.
func (t Trace) ToJSON() ([]byte, error) {
	type alias Trace
	return json.Marshal(alias(t))
}

// TraceFromJSON decodes a payload produced by ToJSON.
func TraceFromJSON(payload []byte) (Trace, error) {
	type alias Trace
	var trace alias
	if err := json.Unmarshal(payload, &trace); err != nil {
		return Trace{}, err
	}
	return Trace(trace), nil
}
