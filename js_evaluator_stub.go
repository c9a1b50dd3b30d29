//go:build !js_eval

package jsonconfig

import "fmt"

// NewJSEvaluator returns an evaluator that fails every call unless the module
// is built with the js_eval tag.
func NewJSEvaluator(opts ...JSEvaluatorOption) Evaluator {
	_ = applyJSEvaluatorOptions(opts)
	return jsUnavailable{}
}

type jsUnavailable struct{}

var errJSUnavailable = fmt.Errorf("%w: js engine requires the js_eval build tag", ErrNoEvaluator)

func (jsUnavailable) engine() string { return "js" }

func (jsUnavailable) Evaluate(RuleContext, string) (any, error) {
	return nil, errJSUnavailable
}

func (jsUnavailable) Compile(string) (CompiledRule, error) {
	return nil, errJSUnavailable
}

func jsEvaluatorAvailable() bool {
	return false
}
