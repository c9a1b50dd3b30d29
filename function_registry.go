package jsonconfig

import (
	"errors"
	"fmt"
	"maps"
	"strings"
	"sync"

	"github.com/goliatone/go-jsonconfig/dotpath"
)

// Names of the functions every evaluator exposes. They read the RuleContext
// of the evaluation they run in.
const (
	// FuncDefined reports whether a dotted path has a value: defined("db.dsn").
	FuncDefined = "defined"
	// FuncLookup returns the value at a dotted path, or the optional second
	// argument when absent: lookup("server.port", 8080).
	FuncLookup = "lookup"
	// FuncReference returns the file a top-level key is saved to, or "" when
	// the key is stored inline: reference("db").
	FuncReference = "reference"
)

// ErrReservedFunction indicates a registration that would shadow a built-in.
var ErrReservedFunction = errors.New("jsonconfig: function name is reserved")

// Function is a callable exposed to expressions.
type Function func(args ...any) (any, error)

// FunctionRegistry holds user functions keyed by lower-cased name. It is safe
// for concurrent use.
type FunctionRegistry struct {
	mu        sync.RWMutex
	functions map[string]Function
}

// NewFunctionRegistry constructs an empty registry.
func NewFunctionRegistry() *FunctionRegistry {
	return &FunctionRegistry{functions: map[string]Function{}}
}

// Register stores fn under name. Duplicates and built-in names are rejected.
func (r *FunctionRegistry) Register(name string, fn Function) error {
	key := strings.ToLower(strings.TrimSpace(name))
	switch {
	case key == "":
		return fmt.Errorf("jsonconfig: function name must not be empty")
	case fn == nil:
		return fmt.Errorf("jsonconfig: function %q is nil", name)
	case isBuiltinFunction(key):
		return fmt.Errorf("%w: %q", ErrReservedFunction, name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.functions == nil {
		r.functions = map[string]Function{}
	}
	if _, exists := r.functions[key]; exists {
		return fmt.Errorf("jsonconfig: function %q already registered", name)
	}
	r.functions[key] = fn
	return nil
}

// Clone returns an independent copy. A nil registry clones to nil.
func (r *FunctionRegistry) Clone() *FunctionRegistry {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &FunctionRegistry{functions: maps.Clone(r.functions)}
}

// Call runs the user function registered for name.
func (r *FunctionRegistry) Call(name string, args ...any) (any, error) {
	if r == nil {
		return nil, fmt.Errorf("jsonconfig: function %q not registered", name)
	}
	r.mu.RLock()
	fn := r.functions[strings.ToLower(name)]
	r.mu.RUnlock()
	if fn == nil {
		return nil, fmt.Errorf("jsonconfig: function %q not registered", name)
	}
	return fn(args...)
}

// Names returns the registered names sorted alphabetically.
func (r *FunctionRegistry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return sortedKeys(r.functions)
}

// bind returns the functions visible to one evaluation: user functions plus
// the built-ins reading ctx.
func (r *FunctionRegistry) bind(ctx RuleContext) map[string]Function {
	bound := builtinFunctions(ctx)
	if r == nil {
		return bound
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name, fn := range r.functions {
		bound[name] = fn
	}
	return bound
}

func builtinFunctions(ctx RuleContext) map[string]Function {
	return map[string]Function{
		FuncDefined: func(args ...any) (any, error) {
			path, err := stringArg(FuncDefined, args, 1, 1)
			if err != nil {
				return nil, err
			}
			return dotpath.Has(ctx.Snapshot, path), nil
		},
		FuncLookup: func(args ...any) (any, error) {
			path, err := stringArg(FuncLookup, args, 1, 2)
			if err != nil {
				return nil, err
			}
			var fallback any
			if len(args) == 2 {
				fallback = args[1]
			}
			return dotpath.Get(ctx.Snapshot, path, fallback), nil
		},
		FuncReference: func(args ...any) (any, error) {
			key, err := stringArg(FuncReference, args, 1, 1)
			if err != nil {
				return nil, err
			}
			return ctx.References[key], nil
		},
	}
}

func isBuiltinFunction(name string) bool {
	return name == FuncDefined || name == FuncLookup || name == FuncReference
}

// stringArg validates the argument count and returns the first argument.
func stringArg(fn string, args []any, minArgs, maxArgs int) (string, error) {
	if len(args) < minArgs || len(args) > maxArgs {
		return "", fmt.Errorf("jsonconfig: %s expects %d to %d arguments, got %d", fn, minArgs, maxArgs, len(args))
	}
	value, ok := args[0].(string)
	if !ok {
		return "", fmt.Errorf("jsonconfig: %s expects a string path, got %T", fn, args[0])
	}
	return value, nil
}

// WithFunctionRegistry exposes the functions in registry to the default
// evaluator. The registry is copied.
func WithFunctionRegistry(registry *FunctionRegistry) Option {
	return func(cfg *storeConfig) {
		if registry == nil {
			return
		}
		cfg.functions = registry.Clone()
	}
}

// WithCustomFunction registers fn under name for the default evaluator.
// Invalid, reserved or duplicate registrations are ignored.
func WithCustomFunction(name string, fn Function) Option {
	return func(cfg *storeConfig) {
		if cfg.functions == nil {
			cfg.functions = NewFunctionRegistry()
		}
		_ = cfg.functions.Register(name, fn)
	}
}
