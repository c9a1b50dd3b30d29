package jsonconfig

import (
	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
)

// ExprEvaluatorOption configures NewExprEvaluator.
type ExprEvaluatorOption func(*exprEvaluator)

// ExprWithProgramCache caches compiled programs by expression.
func ExprWithProgramCache(cache ProgramCache) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.cache = cache
	}
}

// ExprWithFunctionRegistry makes the registered functions callable by name.
func ExprWithFunctionRegistry(registry *FunctionRegistry) ExprEvaluatorOption {
	return func(e *exprEvaluator) {
		e.registry = registry.Clone()
	}
}

type exprEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewExprEvaluator constructs the default Evaluator, backed by
// expr-lang/expr. Programs compile without a typed environment, so unknown
// config keys evaluate to nil instead of failing compilation.
func NewExprEvaluator(opts ...ExprEvaluatorOption) Evaluator {
	e := &exprEvaluator{}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

func (e *exprEvaluator) engine() string { return "expr" }

func (e *exprEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *exprEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	if e.cache != nil {
		if program, ok := e.cache.Get(expression); ok {
			if program, ok := program.(*exprvm.Program); ok {
				return &exprRule{evaluator: e, program: program, expression: expression}, nil
			}
		}
	}

	options := []exprlang.Option{
		exprlang.Env(map[string]any{}),
		exprlang.AllowUndefinedVariables(),
	}
	for _, name := range e.registry.Names() {
		options = append(options, exprlang.Function(name, func(args ...any) (any, error) {
			return e.registry.Call(name, args...)
		}))
	}
	program, err := exprlang.Compile(expression, options...)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return &exprRule{evaluator: e, program: program, expression: expression}, nil
}

type exprRule struct {
	evaluator  *exprEvaluator
	program    *exprvm.Program
	expression string
}

func (r *exprRule) Evaluate(ctx RuleContext) (any, error) {
	env := expressionBindings(ctx.withDefaults(), r.evaluator.registry)
	result, err := exprlang.Run(r.program, env)
	if err != nil {
		return nil, wrapEvaluationError(r.evaluator.engine(), r.expression, err)
	}
	return result, nil
}
