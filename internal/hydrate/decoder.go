// Package hydrate decodes config subtrees into typed values, recording where
// the subtree is persisted so failures point at the file to fix.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-jsonconfig/layering"
)

// Stages reported by Error.
const (
	StagePreHook  = "pre-hook"
	StageDecode   = "decode"
	StagePostHook = "post-hook"
)

// Context identifies the subtree being decoded and the file holding it.
type Context struct {
	Path string
	File string
	// Reference is the referenced top-level key the subtree lives under.
	Reference string
}

func (c Context) label() string {
	path := c.Path
	if path == "" {
		path = "<root>"
	}
	if c.File == "" {
		return path
	}
	return path + " (" + c.File + ")"
}

// Error reports the stage and location of a failed decode.
type Error struct {
	Stage   string
	Context Context
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s %s: %v", e.Stage, e.Context.label(), e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// PreHook rewrites a private copy of the subtree before decoding.
type PreHook func(Context, any) (any, error)

// PostHook validates or adjusts the decoded value.
type PostHook[T any] func(Context, *T) error

// DecoderOption configures a Decoder.
type DecoderOption[T any] func(*Decoder[T])

// Decoder converts config subtrees into T by round-tripping them through
// encoding/json.
type Decoder[T any] struct {
	preHooks  []PreHook
	postHooks []PostHook[T]
	useNumber bool
	strict    bool
}

// WithPreHook appends a hook run before decoding. Hooks returning nil keep
// the current payload.
func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

// WithPostHook appends a hook run on the decoded value.
func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithUseNumber keeps numbers held in interface values as json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.useNumber = true
	}
}

// WithDisallowUnknownFields rejects keys without a matching struct field.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.strict = true
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts payload into T. The payload is cloned first so hooks never
// touch the caller's tree.
func (d *Decoder[T]) Decode(ctx Context, payload any) (T, error) {
	var result T

	current := layering.Clone(payload)
	for _, hook := range d.preHooks {
		next, err := hook(ctx, current)
		if err != nil {
			return result, &Error{Stage: StagePreHook, Context: ctx, Err: err}
		}
		if next != nil {
			current = next
		}
	}

	buffer, err := json.Marshal(current)
	if err != nil {
		return result, &Error{Stage: StageDecode, Context: ctx, Err: err}
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	if d.useNumber {
		decoder.UseNumber()
	}
	if d.strict {
		decoder.DisallowUnknownFields()
	}
	if err := decoder.Decode(&result); err != nil {
		var zero T
		return zero, &Error{Stage: StageDecode, Context: ctx, Err: err}
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			var zero T
			return zero, &Error{Stage: StagePostHook, Context: ctx, Err: err}
		}
	}
	return result, nil
}
