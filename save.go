package jsonconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-jsonconfig/pkg/activity"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type pendingWrite struct {
	path string
	data []byte
}

// Save writes the config tree to the canonical file. Every referenced key
// present in the tree is written to its own file and replaced in the main
// file by a marker. All files are written concurrently; the first failure is
// returned and writes that already succeeded are kept.
func (s *Store) Save(ctx context.Context) error {
	start := time.Now()

	writes, err := s.pendingWrites()
	if err != nil {
		return err
	}

	var g errgroup.Group
	for _, w := range writes {
		g.Go(func() error {
			if err := s.cfg.fs.WriteFile(ctx, w.path, w.data); err != nil {
				return &IOError{Op: "write", Path: w.path, Err: err}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.cfg.logger.Debug("Config save failed",
			zap.String("file", s.filename),
			zap.Int("files", len(writes)),
			zap.Error(err),
		)
		return err
	}

	revision := uuid.NewString()
	s.state = StatePersisted
	s.revision = revision

	s.cfg.logger.Debug("Config saved",
		zap.String("file", s.filename),
		zap.Int("files", len(writes)),
		zap.String("revision", revision),
		zap.Duration("duration", time.Since(start)),
	)
	s.emit(ctx, activity.BuildConfigSavedEvent(activity.ConfigEventInput{
		File:       s.filename,
		Revision:   revision,
		References: s.References(),
	}))
	return nil
}

// Revision returns the id generated by the last successful Save, or "".
func (s *Store) Revision() string {
	return s.revision
}

// pendingWrites encodes the reference files followed by the main file. The
// marker substitution happens on a shallow copy of the top-level map.
func (s *Store) pendingWrites() ([]pendingWrite, error) {
	main := s.config
	writes := make([]pendingWrite, 0, len(s.references)+1)

	if len(s.references) > 0 {
		main = make(map[string]any, len(s.config))
		for key, value := range s.config {
			main[key] = value
		}
		claimed := map[string]string{s.mainPath(): ""}
		for _, key := range sortedKeys(s.references) {
			value, ok := s.config[key]
			if !ok {
				continue
			}
			file := s.references[key]
			if owner, taken := claimed[file]; taken {
				return nil, fmt.Errorf("%w: %s for %q and %q", ErrReferenceConflict, file, owner, key)
			}
			claimed[file] = key
			data, err := json.Marshal(value)
			if err != nil {
				return nil, fmt.Errorf("jsonconfig: encode %s: %w", file, err)
			}
			writes = append(writes, pendingWrite{path: file, data: data})
			main[key] = FormatMarker(s.relativePath(file))
		}
	}

	data, err := json.Marshal(main)
	if err != nil {
		return nil, fmt.Errorf("jsonconfig: encode %s: %w", s.filename, err)
	}
	return append(writes, pendingWrite{path: s.filename, data: data}), nil
}
