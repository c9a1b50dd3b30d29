package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-jsonconfig/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook forwards config store activity to a go-users ActivitySink.
type Hook struct {
	Sink usertypes.ActivitySink
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
// Actor and tenant ids that are not UUIDs are recorded as uuid.Nil and kept
// verbatim in the record data.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectType == "" || normalized.ObjectID == "" {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	data := cloneMap(normalized.Metadata)
	actorID, ok := parseUUID(normalized.ActorID)
	if !ok && normalized.ActorID != "" {
		data = ensure(data)
		data["actor"] = normalized.ActorID
	}
	tenantID, ok := parseUUID(normalized.TenantID)
	if !ok && normalized.TenantID != "" {
		data = ensure(data)
		data["tenant"] = normalized.TenantID
	}

	record := usertypes.ActivityRecord{
		ActorID:    actorID,
		TenantID:   tenantID,
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       data,
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now()
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(input string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(input))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func ensure(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	return data
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
