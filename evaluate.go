package jsonconfig

import (
	"time"

	"go.uber.org/zap"
)

// Evaluate runs expr against a snapshot of the config tree using the
// configured evaluator, or an expr-lang evaluator when none was set.
func (s *Store) Evaluate(expr string) (any, error) {
	return s.EvaluateWith(RuleContext{}, expr)
}

// EvaluateWith runs expr using ctx, falling back to a snapshot of the config
// tree when ctx.Snapshot is nil.
func (s *Store) EvaluateWith(ctx RuleContext, expr string) (any, error) {
	if expr == "" {
		return nil, ErrEmptyExpression
	}
	evaluator, err := s.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = s.Snapshot()
	}
	if ctx.References == nil {
		ctx.References = s.References()
	}
	ctx = ctx.withDefaults()

	engine := evaluatorEngineName(evaluator)
	start := time.Now()
	value, evalErr := evaluator.Evaluate(ctx, expr)
	evalErr = wrapEvaluationError(engine, expr, evalErr)

	s.cfg.logger.Debug("Expression evaluated",
		zap.String("engine", engine),
		zap.String("expr", expr),
		zap.Duration("duration", time.Since(start)),
		zap.Error(evalErr),
	)
	if evalErr != nil {
		return nil, evalErr
	}
	return value, nil
}

func (s *Store) resolveEvaluator() (Evaluator, error) {
	if s.cfg.evaluator != nil {
		return s.cfg.evaluator, nil
	}
	var exprOpts []ExprEvaluatorOption
	if s.cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(s.cfg.programCache))
	}
	if s.cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(s.cfg.functions))
	}
	evaluator := NewExprEvaluator(exprOpts...)
	if evaluator == nil {
		return nil, ErrNoEvaluator
	}
	s.cfg.evaluator = evaluator
	return evaluator, nil
}

func evaluatorEngineName(e Evaluator) string {
	if e == nil {
		return "unknown"
	}
	if named, ok := e.(engineNamer); ok {
		return named.engine()
	}
	return "custom"
}
