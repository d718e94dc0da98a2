// Package dispatch delivers rendered entities through platform adapters,
// negotiating the richest output format a destination supports.
package dispatch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsu2059q/ghpreview/internal/github"
	"github.com/wsu2059q/ghpreview/internal/render"
)

// DetailKind distinguishes direct and group conversations.
type DetailKind string

const (
	// DetailDirect is a one-on-one conversation.
	DetailDirect DetailKind = "direct"
	// DetailGroup is a group conversation.
	DetailGroup DetailKind = "group"
)

// Detail identifies one conversation on a platform.
type Detail struct {
	Kind DetailKind
	ID   string
}

// Destination is a fully qualified delivery target.
type Destination struct {
	Platform string
	Detail   Detail
}

// Sender delivers rendered content to one conversation. Formats reports the
// supported output formats; Send may fail at delivery time, which is distinct
// from a resolution failure.
type Sender interface {
	Formats() []render.Format
	Send(ctx context.Context, format render.Format, content string) error
}

// Adapter produces senders for conversations on one platform.
type Adapter interface {
	Sender(detail Detail) Sender
}

// Dispatcher picks the richest mutually supported format for a destination
// and falls back through the remaining formats on delivery failure.
type Dispatcher struct {
	registry *Registry
	logger   zerolog.Logger
}

// NewDispatcher constructs a dispatcher over the given adapter registry.
func NewDispatcher(registry *Registry, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{registry: registry, logger: logger}
}

// Deliver renders the entity and sends it to the destination. It walks the
// preferred format order restricted to the destination's capabilities,
// advancing past per-format delivery failures, and reports whether any
// format was delivered.
func (d *Dispatcher) Deliver(ctx context.Context, dest Destination, entity github.Entity) bool {
	adapter, ok := d.registry.Adapter(dest.Platform)
	if !ok {
		d.logger.Warn().Str("platform", dest.Platform).Msg("no adapter for platform")
		return false
	}

	sender := adapter.Sender(dest.Detail)
	supported := make(map[render.Format]bool, len(sender.Formats()))
	for _, format := range sender.Formats() {
		supported[format] = true
	}

	for _, format := range render.RichestFirst {
		if !supported[format] {
			continue
		}
		content := render.Render(entity, format)
		if content == "" {
			continue
		}
		if err := sender.Send(ctx, format, content); err != nil {
			d.logger.Warn().
				Err(err).
				Str("platform", dest.Platform).
				Str("format", string(format)).
				Str("entity", entity.FullName).
				Msg("delivery failed, trying next format")
			continue
		}
		return true
	}

	d.logger.Warn().
		Str("platform", dest.Platform).
		Str("entity", entity.FullName).
		Msg("no format delivered")
	return false
}
