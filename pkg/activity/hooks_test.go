package activity

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " config.updated ",
		ActorID:    " actor ",
		TenantID:   " tenant ",
		ObjectType: " config ",
		ObjectID:   " /etc/app/config.json ",
		Channel:    " config ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "config.updated" || got.ObjectType != "config" || got.ObjectID != "/etc/app/config.json" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.TenantID != "tenant" || got.Channel != "config" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if evt.Metadata["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", evt.Metadata)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}
	if err := hooks.Notify(context.Background(), Event{}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events captured, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFanOutAndJoinErrors(t *testing.T) {
	capture := &CaptureHook{}
	boom1 := errors.New("boom1")
	boom2 := errors.New("boom2")
	var ctxSeen bool
	hooks := Hooks{
		HookFunc(func(ctx context.Context, event Event) error {
			if ctx != nil {
				ctxSeen = true
			}
			return nil
		}),
		capture,
		HookFunc(func(_ context.Context, _ Event) error { return boom1 }),
		nil,
		HookFunc(func(_ context.Context, _ Event) error { return boom2 }),
	}

	err := hooks.Notify(nil, Event{Verb: VerbConfigUpdated, ObjectType: ObjectTypeConfig, ObjectID: "a.b"})
	if !errors.Is(err, boom1) || !errors.Is(err, boom2) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if !ctxSeen {
		t.Fatalf("expected context fallback to be non-nil")
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected event to be captured once, got %d", len(capture.Events))
	}
}

func TestHooksCompact(t *testing.T) {
	if got := (Hooks{nil, nil}).Compact(); got != nil {
		t.Fatalf("expected nil for all-nil hooks, got %v", got)
	}
	capture := &CaptureHook{}
	if got := (Hooks{nil, capture}).Compact(); len(got) != 1 {
		t.Fatalf("expected one hook, got %d", len(got))
	}
}

func TestEmitterDisabledWithoutHooks(t *testing.T) {
	emitter := NewEmitter(nil)
	if emitter.Enabled() {
		t.Fatalf("expected emitter to be disabled")
	}
	if err := emitter.Emit(context.Background(), Event{Verb: "x", ObjectType: "y", ObjectID: "z"}); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var nilEmitter *Emitter
	if nilEmitter.Enabled() {
		t.Fatalf("nil emitter must report disabled")
	}
}

func TestEmitterAppliesDefaults(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, WithActor("actor-1", "tenant-1"))

	if err := emitter.Emit(context.Background(), Event{Verb: "x", ObjectType: "y", ObjectID: "z"}); err != nil {
		t.Fatalf("emit: %v", err)
	}
	event, ok := capture.Last()
	if !ok {
		t.Fatalf("expected one event captured")
	}
	if event.Channel != DefaultChannel {
		t.Fatalf("expected default channel applied, got %q", event.Channel)
	}
	if event.ActorID != "actor-1" || event.TenantID != "tenant-1" {
		t.Fatalf("expected identity defaults, got %+v", event)
	}
}

func TestEmitterPreservesExplicitFields(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, WithChannel("settings"), WithActor("actor-1", ""))
	occurred := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	err := emitter.Emit(context.Background(), Event{
		Verb:       "x",
		ObjectType: "y",
		ObjectID:   "z",
		ActorID:    "actor-2",
		Channel:    "custom",
		OccurredAt: occurred,
	})
	if err != nil {
		t.Fatalf("emit: %v", err)
	}
	event, _ := capture.Last()
	if event.Channel != "custom" || event.ActorID != "actor-2" {
		t.Fatalf("expected explicit fields preserved, got %+v", event)
	}
	if !event.OccurredAt.Equal(occurred) {
		t.Fatalf("expected occurred_at preserved, got %v", event.OccurredAt)
	}
}
