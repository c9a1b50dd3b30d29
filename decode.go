package jsonconfig

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-jsonconfig/dotpath"
	"github.com/goliatone/go-jsonconfig/internal/hydrate"
)

// DecodeOption configures Decode.
type DecodeOption[T any] func(*hydrate.Decoder[T])

// DecodeUseNumber decodes numbers held in interface values as json.Number.
func DecodeUseNumber[T any]() DecodeOption[T] {
	return DecodeOption[T](hydrate.WithUseNumber[T]())
}

// DecodeStrict rejects object keys that have no matching struct field.
func DecodeStrict[T any]() DecodeOption[T] {
	return DecodeOption[T](hydrate.WithDisallowUnknownFields[T]())
}

// DecodePreHook rewrites the subtree before decoding. The payload is a copy.
func DecodePreHook[T any](hook func(path string, payload any) (any, error)) DecodeOption[T] {
	return DecodeOption[T](hydrate.WithPreHook[T](func(ctx hydrate.Context, payload any) (any, error) {
		return hook(ctx.Path, payload)
	}))
}

// DecodePostHook validates or adjusts the decoded value.
func DecodePostHook[T any](hook func(path string, value *T) error) DecodeOption[T] {
	return DecodeOption[T](hydrate.WithPostHook[T](func(ctx hydrate.Context, value *T) error {
		return hook(ctx.Path, value)
	}))
}

// Decode converts the subtree at path into T. An empty path decodes the
// whole tree. A missing path returns ErrPathNotFound; hook and decoding
// failures return a *DecodeError naming the file that holds the subtree.
func Decode[T any](s *Store, path string, opts ...DecodeOption[T]) (T, error) {
	var zero T
	var payload any = s.config
	if path != "" {
		value, ok := dotpath.Lookup(s.config, path)
		if !ok {
			return zero, fmt.Errorf("jsonconfig: decode %q: %w", path, ErrPathNotFound)
		}
		payload = value
	}

	decoderOpts := make([]hydrate.DecoderOption[T], 0, len(opts))
	for _, opt := range opts {
		if opt != nil {
			decoderOpts = append(decoderOpts, hydrate.DecoderOption[T](opt))
		}
	}
	trace := s.Trace(path)
	value, err := hydrate.NewDecoder(decoderOpts...).Decode(hydrate.Context{
		Path:      path,
		File:      trace.File,
		Reference: trace.Reference,
	}, payload)
	if err != nil {
		decodeErr := &DecodeError{Path: path, File: trace.File, Reference: trace.Reference, Stage: hydrate.StageDecode, Err: err}
		var hydrateErr *hydrate.Error
		if errors.As(err, &hydrateErr) {
			decodeErr.Stage = hydrateErr.Stage
			decodeErr.Err = hydrateErr.Err
		}
		return zero, decodeErr
	}
	return value, nil
}
