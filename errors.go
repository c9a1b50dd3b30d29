package jsonconfig

import (
	"errors"
	"fmt"
)

var (
	// ErrNestedReference indicates a reference key that is empty or not top-level.
	ErrNestedReference = errors.New("jsonconfig: references must be non-empty top-level keys")
	// ErrReferenceConflict indicates a reference target that is the main file
	// or already holds another key.
	ErrReferenceConflict = errors.New("jsonconfig: reference target already in use")
	// ErrEmptyExpression indicates Evaluate was called without an expression.
	ErrEmptyExpression = errors.New("jsonconfig: expression must not be empty")
	// ErrNoEvaluator indicates no evaluator could be resolved.
	ErrNoEvaluator = errors.New("jsonconfig: evaluator not configured")
	// ErrPathNotFound indicates Decode was given a path with no value.
	ErrPathNotFound = errors.New("jsonconfig: path not found")
)

// IOError reports a failed read or write of a config or reference file.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonconfig: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ParseError reports a file whose contents are not a valid config document.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonconfig: parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// DecodeError reports a failed Decode together with the file that holds the
// subtree. Stage is "pre-hook", "decode" or "post-hook".
type DecodeError struct {
	Path      string
	File      string
	Reference string
	Stage     string
	Err       error
}

func (e *DecodeError) Error() string {
	if e == nil {
		return "<nil>"
	}
	path := e.Path
	if path == "" {
		path = "<root>"
	}
	return fmt.Sprintf("jsonconfig: %s %s in %s: %v", e.Stage, path, e.File, e.Err)
}

func (e *DecodeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// EvaluationError captures evaluator metadata alongside the originating error.
type EvaluationError struct {
	Engine string
	Expr   string
	Err    error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("jsonconfig: %s evaluator %s: %v", e.Engine, describeExpression(e.Expr), e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEvaluationError(engine, expr string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		return evalErr
	}

	return &EvaluationError{
		Engine: engine,
		Expr:   expr,
		Err:    err,
	}
}
