package jsonconfig

import (
	"strings"

	celgo "github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"
)

// CELEvaluatorOption configures NewCELEvaluator.
type CELEvaluatorOption func(*celEvaluator)

// CELWithProgramCache caches checked expressions. The cache key includes the
// declared config keys.
func CELWithProgramCache(cache ProgramCache) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.cache = cache
	}
}

// CELWithFunctionRegistry makes registered functions reachable through
// call(name) and call(name, [args]).
func CELWithFunctionRegistry(registry *FunctionRegistry) CELEvaluatorOption {
	return func(e *celEvaluator) {
		e.registry = registry.Clone()
	}
}

type celEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewCELEvaluator constructs an Evaluator backed by cel-go. Top-level config
// keys that are valid CEL identifiers are declared as dyn variables; every key
// is reachable through config["key"].
func NewCELEvaluator(opts ...CELEvaluatorOption) Evaluator {
	e := &celEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *celEvaluator) engine() string { return "cel" }

func (e *celEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	ctx = ctx.withDefaults()
	variables := celVariables(ctx.Snapshot)

	// the environment binds functions to ctx, so only the checked AST is shared
	env, err := e.environment(ctx, variables)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}
	ast, err := e.check(env, expression, variables)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}
	program, err := env.Program(ast)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}

	activation := map[string]any{
		"now":      ctx.timestamp(),
		"args":     ctx.Args,
		"metadata": ctx.Metadata,
		"config":   ctx.Snapshot,
	}
	for _, key := range variables {
		activation[key] = ctx.Snapshot[key]
	}
	out, _, err := program.Eval(activation)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}
	return out.Value(), nil
}

// Compile defers checking to evaluation time because the declared variables
// depend on the snapshot.
func (e *celEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	return celRule{evaluator: e, expression: expression}, nil
}

func (e *celEvaluator) check(env *celgo.Env, expression string, variables []string) (*celgo.Ast, error) {
	key := expression + "\x00" + strings.Join(variables, ",")
	if e.cache != nil {
		if cached, ok := e.cache.Get(key); ok {
			if ast, ok := cached.(*celgo.Ast); ok {
				return ast, nil
			}
		}
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, issues.Err()
	}
	if e.cache != nil {
		e.cache.Set(key, ast)
	}
	return ast, nil
}

func (e *celEvaluator) environment(ctx RuleContext, variables []string) (*celgo.Env, error) {
	builtins := builtinFunctions(ctx)
	opts := []celgo.EnvOption{
		celgo.Variable("now", celgo.TimestampType),
		celgo.Variable("args", celgo.DynType),
		celgo.Variable("metadata", celgo.DynType),
		celgo.Variable("config", celgo.DynType),
		celgo.Function(FuncDefined,
			celgo.Overload("defined_string", []*celgo.Type{celgo.StringType}, celgo.BoolType,
				celgo.UnaryBinding(celUnary(builtins[FuncDefined]))),
		),
		celgo.Function(FuncLookup,
			celgo.Overload("lookup_string", []*celgo.Type{celgo.StringType}, celgo.DynType,
				celgo.UnaryBinding(celUnary(builtins[FuncLookup]))),
			celgo.Overload("lookup_string_dyn", []*celgo.Type{celgo.StringType, celgo.DynType}, celgo.DynType,
				celgo.BinaryBinding(celBinary(builtins[FuncLookup]))),
		),
		celgo.Function(FuncReference,
			celgo.Overload("reference_string", []*celgo.Type{celgo.StringType}, celgo.StringType,
				celgo.UnaryBinding(celUnary(builtins[FuncReference]))),
		),
	}
	if e.registry != nil {
		call := func(args ...any) (any, error) {
			name, _ := args[0].(string)
			return e.registry.Call(name, args[1:]...)
		}
		opts = append(opts, celgo.Function("call",
			celgo.Overload("call_string", []*celgo.Type{celgo.StringType}, celgo.DynType,
				celgo.UnaryBinding(celUnary(call))),
			celgo.Overload("call_string_list", []*celgo.Type{celgo.StringType, celgo.ListType(celgo.DynType)}, celgo.DynType,
				celgo.BinaryBinding(func(name, list ref.Val) ref.Val {
					args, errVal := celListArgs(list)
					if errVal != nil {
						return errVal
					}
					return celResult(call(append([]any{name.Value()}, args...)...))
				})),
		))
	}
	for _, key := range variables {
		opts = append(opts, celgo.Variable(key, celgo.DynType))
	}
	return celgo.NewEnv(opts...)
}

func celUnary(fn Function) func(ref.Val) ref.Val {
	return func(arg ref.Val) ref.Val {
		return celResult(fn(arg.Value()))
	}
}

func celBinary(fn Function) func(ref.Val, ref.Val) ref.Val {
	return func(lhs, rhs ref.Val) ref.Val {
		return celResult(fn(lhs.Value(), rhs.Value()))
	}
}

func celResult(value any, err error) ref.Val {
	if err != nil {
		return types.NewErr("%v", err)
	}
	if value == nil {
		return types.NullValue
	}
	return types.DefaultTypeAdapter.NativeToValue(value)
}

func celListArgs(list ref.Val) ([]any, ref.Val) {
	lister, ok := list.(traits.Lister)
	if !ok {
		return nil, types.NewErr("jsonconfig: call arguments must be a list")
	}
	size, _ := lister.Size().(types.Int)
	args := make([]any, 0, int(size))
	for i := types.Int(0); i < size; i++ {
		args = append(args, lister.Get(i).Value())
	}
	return args, nil
}

type celRule struct {
	evaluator  *celEvaluator
	expression string
}

func (r celRule) Evaluate(ctx RuleContext) (any, error) {
	return r.evaluator.Evaluate(ctx, r.expression)
}

// celVariables returns the snapshot keys usable as CEL identifiers, sorted.
func celVariables(snapshot map[string]any) []string {
	variables := make([]string, 0, len(snapshot))
	for _, key := range sortedKeys(snapshot) {
		if isCELIdentifier(key) && !celReserved[key] {
			variables = append(variables, key)
		}
	}
	return variables
}

var celReserved = map[string]bool{
	"now": true, "args": true, "metadata": true, "config": true,
	FuncDefined: true, FuncLookup: true, FuncReference: true, "call": true,
	"true": true, "false": true, "null": true, "in": true,
	"as": true, "break": true, "const": true, "continue": true, "else": true,
	"for": true, "function": true, "if": true, "import": true, "let": true,
	"loop": true, "package": true, "namespace": true, "return": true,
	"var": true, "void": true, "while": true,
}

func isCELIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
