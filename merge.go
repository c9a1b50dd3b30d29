package jsonconfig

import (
	"context"

	"github.com/goliatone/go-jsonconfig/layering"
	"github.com/goliatone/go-jsonconfig/pkg/activity"
)

// Merge deep-merges overlay into the config tree. Overlay values win and a
// nil overlay value leaves the existing value in place. The tree is
// replaced, so maps previously returned by Values are stale afterwards.
func (s *Store) Merge(overlay map[string]any) *Store {
	if len(overlay) == 0 {
		return s
	}
	s.config = layering.Merge(overlay, s.config)
	s.state = StateLoaded

	if s.emitter.Enabled() {
		s.emit(context.Background(), activity.BuildConfigLayerAppliedEvent(activity.ConfigEventInput{
			File:     s.filename,
			NewValue: layering.CloneMap(overlay),
			Metadata: map[string]any{"keys": sortedKeys(overlay)},
		}))
	}
	return s
}
