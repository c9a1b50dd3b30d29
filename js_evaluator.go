//go:build js_eval

package jsonconfig

import (
	"github.com/dop251/goja"
)

type jsEvaluator struct {
	cache    ProgramCache
	registry *FunctionRegistry
}

// NewJSEvaluator constructs an Evaluator backed by goja. The expression is
// evaluated as a single JavaScript expression in a fresh runtime with the
// same bindings as the expr engine.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	cfg := applyJSEvaluatorOptions(opts)
	return &jsEvaluator{
		cache:    cfg.cache,
		registry: cfg.registry,
	}
}

func (e *jsEvaluator) engine() string { return "js" }

func (e *jsEvaluator) Evaluate(ctx RuleContext, expression string) (any, error) {
	rule, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}
	return rule.Evaluate(ctx)
}

func (e *jsEvaluator) Compile(expression string) (CompiledRule, error) {
	if expression == "" {
		return nil, ErrEmptyExpression
	}
	if e.cache != nil {
		if cached, ok := e.cache.Get(expression); ok {
			if program, ok := cached.(*goja.Program); ok {
				return &jsRule{evaluator: e, program: program, expression: expression}, nil
			}
		}
	}
	program, err := goja.Compile("config-expression", "(function(){ return ("+expression+"); })()", true)
	if err != nil {
		return nil, wrapEvaluationError(e.engine(), expression, err)
	}
	if e.cache != nil {
		e.cache.Set(expression, program)
	}
	return &jsRule{evaluator: e, program: program, expression: expression}, nil
}

type jsRule struct {
	evaluator  *jsEvaluator
	program    *goja.Program
	expression string
}

func (r *jsRule) Evaluate(ctx RuleContext) (any, error) {
	vm := goja.New()
	for name, value := range expressionBindings(ctx.withDefaults(), r.evaluator.registry) {
		if err := vm.Set(name, value); err != nil {
			return nil, wrapEvaluationError(r.evaluator.engine(), r.expression, err)
		}
	}
	value, err := vm.RunProgram(r.program)
	if err != nil {
		return nil, wrapEvaluationError(r.evaluator.engine(), r.expression, err)
	}
	return value.Export(), nil
}

func jsEvaluatorAvailable() bool {
	return true
}
