package jsonconfig

import (
	"github.com/goliatone/go-jsonconfig/pkg/activity"
	"github.com/goliatone/go-jsonconfig/pkg/storage"
	"go.uber.org/zap"
)

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	logger         *zap.Logger
	fs             storage.FileSystem
	activityHooks  activity.Hooks
	emitterOptions []activity.EmitterOption
	evaluator      Evaluator
	programCache   ProgramCache
	functions      *FunctionRegistry
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.fs == nil {
		cfg.fs = storage.NewOSFileSystem()
	}
	return cfg
}

// WithLogger sets the structured logger. A nil logger keeps the no-op default.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *storeConfig) {
		cfg.logger = logger
	}
}

// WithFileSystem replaces the disk backed file system.
func WithFileSystem(fs storage.FileSystem) Option {
	return func(cfg *storeConfig) {
		cfg.fs = fs
	}
}

// WithActivityHooks attaches hooks notified on every mutation, save and
// restore. Nil entries are dropped.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := hooks.Compact()
	return func(cfg *storeConfig) {
		cfg.activityHooks = normalized
	}
}

// WithActivityChannel overrides the channel stamped on activity events.
func WithActivityChannel(channel string) Option {
	return func(cfg *storeConfig) {
		cfg.emitterOptions = append(cfg.emitterOptions, activity.WithChannel(channel))
	}
}

// WithActivityActor stamps actor and tenant ids on activity events.
func WithActivityActor(actorID, tenantID string) Option {
	return func(cfg *storeConfig) {
		cfg.emitterOptions = append(cfg.emitterOptions, activity.WithActor(actorID, tenantID))
	}
}

// WithEvaluator sets the expression evaluator used by Evaluate.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *storeConfig) {
		cfg.evaluator = e
	}
}

// WithProgramCache registers a program cache for the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *storeConfig) {
		cfg.programCache = cache
	}
}
