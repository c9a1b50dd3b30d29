package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events that do not name a channel.
const DefaultChannel = "config"

// Emitter fans out events to hooks while applying identity defaults.
type Emitter struct {
	hooks    Hooks
	channel  string
	actorID  string
	tenantID string
}

// EmitterOption configures an Emitter.
type EmitterOption func(*Emitter)

// WithChannel overrides DefaultChannel.
func WithChannel(channel string) EmitterOption {
	return func(e *Emitter) {
		if channel = strings.TrimSpace(channel); channel != "" {
			e.channel = channel
		}
	}
}

// WithActor stamps actor and tenant ids on events that carry none.
func WithActor(actorID, tenantID string) EmitterOption {
	return func(e *Emitter) {
		e.actorID = strings.TrimSpace(actorID)
		e.tenantID = strings.TrimSpace(tenantID)
	}
}

// NewEmitter constructs an emitter. It is disabled when hooks is empty.
func NewEmitter(hooks Hooks, opts ...EmitterOption) *Emitter {
	e := &Emitter{
		hooks:   hooks.Compact(),
		channel: DefaultChannel,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && len(e.hooks) > 0
}

// Emit forwards the event to all hooks, filling channel and identity defaults.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.actorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.tenantID
	}
	return e.hooks.Notify(ctx, event)
}
