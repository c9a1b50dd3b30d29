package activity

import (
	"strings"
	"time"
)

// Verbs emitted by the config store.
const (
	VerbConfigUpdated      = "config.updated"
	VerbConfigDeleted      = "config.deleted"
	VerbConfigLayerApplied = "config.layer.applied"
	VerbConfigSaved        = "config.saved"
	VerbConfigRestored     = "config.restored"
)

const (
	ObjectTypeConfig      = "config"
	ObjectTypeConfigLayer = "config.layer"
)

// ConfigEventInput describes the common fields for config lifecycle events.
type ConfigEventInput struct {
	ActorID    string
	TenantID   string
	ObjectID   string
	Channel    string
	File       string
	Path       string
	OldValue   any
	NewValue   any
	Revision   string
	References map[string]string
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildConfigUpdatedEvent describes a value assigned at Path.
func BuildConfigUpdatedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigUpdated, ObjectTypeConfig, input)
}

// BuildConfigDeletedEvent describes a value removed at Path.
func BuildConfigDeletedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigDeleted, ObjectTypeConfig, input)
}

// BuildConfigLayerAppliedEvent describes an overlay merged into the config.
func BuildConfigLayerAppliedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigLayerApplied, ObjectTypeConfigLayer, input)
}

// BuildConfigSavedEvent describes a successful save of File.
func BuildConfigSavedEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigSaved, ObjectTypeConfig, input)
}

// BuildConfigRestoredEvent describes a successful restore from File.
func BuildConfigRestoredEvent(input ConfigEventInput) Event {
	return buildConfigEvent(VerbConfigRestored, ObjectTypeConfig, input)
}

func buildConfigEvent(verb, objectType string, input ConfigEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.File != "" {
		metadata = ensureMetadata(metadata)
		metadata["file"] = input.File
	}
	if input.Path != "" {
		metadata = ensureMetadata(metadata)
		metadata["path"] = input.Path
	}
	if input.Revision != "" {
		metadata = ensureMetadata(metadata)
		metadata["revision"] = input.Revision
	}
	if len(input.References) > 0 {
		metadata = ensureMetadata(metadata)
		refs := make(map[string]any, len(input.References))
		for key, file := range input.References {
			refs[key] = file
		}
		metadata["references"] = refs
	}
	if input.OldValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["old_value"] = input.OldValue
	}
	if input.NewValue != nil {
		metadata = ensureMetadata(metadata)
		metadata["new_value"] = input.NewValue
	}

	objectID := strings.TrimSpace(input.ObjectID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.File)
	}
	if objectID == "" {
		objectID = strings.TrimSpace(input.Path)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
