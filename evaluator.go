package jsonconfig

import (
	"maps"
	"sync"
	"time"
)

// RuleContext carries inputs needed when evaluating an expression.
type RuleContext struct {
	// Snapshot is exposed to expressions as top-level variables. Evaluate
	// fills it with a deep copy of the store when nil.
	Snapshot map[string]any
	// References maps referenced top-level keys to their files. Evaluate
	// fills it from the store when nil.
	References map[string]string
	Now        *time.Time
	Args       map[string]any
	Metadata   map[string]any
}

func (ctx RuleContext) withDefaults() RuleContext {
	if ctx.Now == nil {
		now := time.Now()
		ctx.Now = &now
	}
	if ctx.Snapshot == nil {
		ctx.Snapshot = map[string]any{}
	}
	if ctx.References == nil {
		ctx.References = map[string]string{}
	}
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

func (ctx RuleContext) timestamp() time.Time {
	return *ctx.withDefaults().Now
}

// Evaluator executes expressions against a RuleContext.
type Evaluator interface {
	Evaluate(ctx RuleContext, expr string) (any, error)
	Compile(expr string) (CompiledRule, error)
}

// engineNamer is implemented by the bundled evaluators.
type engineNamer interface {
	engine() string
}

// CompiledRule represents a reusable expression program.
type CompiledRule interface {
	Evaluate(ctx RuleContext) (any, error)
}

// ProgramCache stores compiled expression programs keyed by expression strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// MemoryProgramCache is an unbounded ProgramCache safe for concurrent use.
type MemoryProgramCache struct {
	mu       sync.RWMutex
	programs map[string]any
}

// NewMemoryProgramCache returns an empty MemoryProgramCache.
func NewMemoryProgramCache() *MemoryProgramCache {
	return &MemoryProgramCache{programs: map[string]any{}}
}

func (c *MemoryProgramCache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	value, ok := c.programs[key]
	return value, ok
}

func (c *MemoryProgramCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.programs[key] = value
}

// Keys returns the cached expressions.
func (c *MemoryProgramCache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return sortedKeys(maps.Clone(c.programs))
}

// expressionBindings returns the variables seen by the expr and js engines:
// top-level config keys, the whole tree as "config", now, args, metadata and
// every bound function. The fixed names win over config keys.
func expressionBindings(ctx RuleContext, registry *FunctionRegistry) map[string]any {
	bindings := make(map[string]any, len(ctx.Snapshot)+8)
	for key, value := range ctx.Snapshot {
		bindings[key] = value
	}
	bindings["config"] = ctx.Snapshot
	bindings["now"] = ctx.timestamp()
	bindings["args"] = ctx.Args
	bindings["metadata"] = ctx.Metadata
	for name, fn := range registry.bind(ctx) {
		bindings[name] = (func(...any) (any, error))(fn)
	}
	return bindings
}
