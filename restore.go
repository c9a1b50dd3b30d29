package jsonconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-jsonconfig/pkg/activity"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type pendingReference struct {
	key   string
	file  string
	value any
	found bool
}

// Restore replaces the config tree and the reference table with the content
// of the canonical file. Top-level markers whose target file exists are
// inlined and recorded as references; markers pointing at a missing file stay
// as literal strings. On any error the store is left unchanged.
func (s *Store) Restore(ctx context.Context) error {
	start := time.Now()

	data, err := s.cfg.fs.ReadFile(ctx, s.filename)
	if err != nil {
		return &IOError{Op: "read", Path: s.filename, Err: err}
	}

	config, err := decodeDocument(s.filename, data)
	if err != nil {
		return err
	}

	references, err := s.loadReferences(ctx, config)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.config = config
	s.references = references
	s.state = StateLoaded

	s.cfg.logger.Debug("Config restored",
		zap.String("file", s.filename),
		zap.Int("references", len(references)),
		zap.Duration("duration", time.Since(start)),
	)
	s.emit(ctx, activity.BuildConfigRestoredEvent(activity.ConfigEventInput{
		File:       s.filename,
		References: s.References(),
	}))
	return nil
}

// loadReferences reads every existing marker target concurrently and inlines
// the results into config once all of them succeeded.
func (s *Store) loadReferences(ctx context.Context, config map[string]any) (map[string]string, error) {
	var pending []pendingReference
	for _, key := range sortedKeys(config) {
		raw, ok := config[key].(string)
		if !ok {
			continue
		}
		rel, ok := ParseMarker(raw)
		if !ok {
			continue
		}
		pending = append(pending, pendingReference{key: key, file: s.resolvePath(rel)})
	}

	references := make(map[string]string, len(pending))
	if len(pending) == 0 {
		return references, nil
	}

	var g errgroup.Group
	for i := range pending {
		ref := &pending[i]
		g.Go(func() error {
			if !s.cfg.fs.Exists(ctx, ref.file) {
				// a cancelled context also reports false
				return ctx.Err()
			}
			data, err := s.cfg.fs.ReadFile(ctx, ref.file)
			if err != nil {
				return &IOError{Op: "read", Path: ref.file, Err: err}
			}
			var value any
			if err := json.Unmarshal(data, &value); err != nil {
				return &ParseError{Path: ref.file, Err: err}
			}
			ref.value = value
			ref.found = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, ref := range pending {
		if !ref.found {
			s.cfg.logger.Debug("Reference target missing, keeping marker",
				zap.String("key", ref.key),
				zap.String("target", ref.file),
			)
			continue
		}
		config[ref.key] = ref.value
		references[ref.key] = ref.file
	}
	return references, nil
}

func decodeDocument(path string, data []byte) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	root, ok := doc.(map[string]any)
	if !ok {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("expected a JSON object, got %s", jsonKind(doc))}
	}
	return root, nil
}

func jsonKind(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, json.Number, int, int32, int64, float32, uint, uint32, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", value)
	}
}
