package jsonconfig

import (
	"context"

	"github.com/goliatone/go-jsonconfig/dotpath"
	"github.com/goliatone/go-jsonconfig/layering"
	"github.com/goliatone/go-jsonconfig/pkg/activity"
	"go.uber.org/zap"
)

// State tracks where a Store is in its load/mutate/save lifecycle.
type State int

const (
	// StateEmpty is the state right after New.
	StateEmpty State = iota
	// StateLoaded means the tree was restored or mutated since the last save.
	StateLoaded
	// StatePersisted means the last operation was a successful Save.
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StatePersisted:
		return "persisted"
	default:
		return "unknown"
	}
}

// Store owns an in-memory config tree, the table of keys persisted in
// separate files, and the canonical file the tree is saved to.
type Store struct {
	filename   string
	config     map[string]any
	references map[string]string
	state      State
	revision   string

	cfg     storeConfig
	emitter *activity.Emitter
}

// New creates an empty store persisted at filename.
func New(filename string, opts ...Option) *Store {
	cfg := applyOptions(opts)
	return &Store{
		filename:   filename,
		config:     map[string]any{},
		references: map[string]string{},
		state:      StateEmpty,
		cfg:        cfg,
		emitter:    activity.NewEmitter(cfg.activityHooks, cfg.emitterOptions...),
	}
}

// Filename returns the canonical file path given to New.
func (s *Store) Filename() string {
	return s.filename
}

// State reports the lifecycle state of the store.
func (s *Store) State() State {
	return s.state
}

// Values returns the live config tree. Mutating it bypasses activity events.
func (s *Store) Values() map[string]any {
	return s.config
}

// Snapshot returns a deep copy of the config tree.
func (s *Store) Snapshot() map[string]any {
	return layering.CloneMap(s.config)
}

// Has reports whether path addresses an existing value.
func (s *Store) Has(path string) bool {
	return dotpath.Has(s.config, path)
}

// Get returns the value at path. When the path is absent it returns the first
// default given, or nil.
func (s *Store) Get(path string, def ...any) any {
	var fallback any
	if len(def) > 0 {
		fallback = def[0]
	}
	return dotpath.Get(s.config, path, fallback)
}

// GetAs returns the value at path as T, or def when the path is absent or
// holds a value of another type. JSON numbers restored from disk are float64.
func GetAs[T any](s *Store, path string, def T) T {
	value, ok := dotpath.Lookup(s.config, path)
	if !ok {
		return def
	}
	typed, ok := value.(T)
	if !ok {
		return def
	}
	return typed
}

// Set assigns value at path, creating intermediate maps as needed.
func (s *Store) Set(path string, value any) *Store {
	if path == "" {
		return s
	}
	old, _ := dotpath.Lookup(s.config, path)
	if s.emitter.Enabled() {
		old = layering.Clone(old)
	}
	dotpath.Set(s.config, path, value)
	s.state = StateLoaded

	if s.emitter.Enabled() {
		s.emit(context.Background(), activity.BuildConfigUpdatedEvent(activity.ConfigEventInput{
			File:     s.filename,
			Path:     path,
			OldValue: old,
			NewValue: layering.Clone(value),
		}))
	}
	return s
}

// Del removes the value at path if present. Parents are kept even when they
// end up empty.
func (s *Store) Del(path string) *Store {
	old, ok := dotpath.Lookup(s.config, path)
	if !ok || !dotpath.Delete(s.config, path) {
		return s
	}
	s.state = StateLoaded

	if s.emitter.Enabled() {
		s.emit(context.Background(), activity.BuildConfigDeletedEvent(activity.ConfigEventInput{
			File:     s.filename,
			Path:     path,
			OldValue: layering.Clone(old),
		}))
	}
	return s
}

func (s *Store) emit(ctx context.Context, event activity.Event) {
	if !s.emitter.Enabled() {
		return
	}
	if err := s.emitter.Emit(ctx, event); err != nil {
		s.cfg.logger.Warn("Activity hook failed",
			zap.String("verb", event.Verb),
			zap.String("file", s.filename),
			zap.Error(err),
		)
	}
}
