// Package bot wires inbound chat events to the classify → resolve → deliver
// pipeline.
package bot

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/wsu2059q/ghpreview/internal/classify"
	"github.com/wsu2059q/ghpreview/internal/dispatch"
	"github.com/wsu2059q/ghpreview/internal/github"
)

// EventMessage is the only event type the handler acts on.
const EventMessage = "message"

// Event is an inbound runtime event. Non-message events are ignored.
type Event struct {
	Type     string
	Platform string
	Detail   dispatch.Detail
	Text     string
}

// EntityCache resolves references with URL-keyed memoization.
type EntityCache interface {
	GetOrResolve(ctx context.Context, rawURL string, ref classify.Reference) (github.Entity, error)
}

// Deliverer sends a resolved entity to a destination.
type Deliverer interface {
	Deliver(ctx context.Context, dest dispatch.Destination, entity github.Entity) bool
}

// Handler processes one inbound event at a time. Events may be handled
// concurrently by independent goroutines; within one event, URLs are
// resolved and delivered in order of appearance.
type Handler struct {
	cache     EntityCache
	deliverer Deliverer
	logger    zerolog.Logger
}

// NewHandler constructs an event handler.
func NewHandler(cache EntityCache, deliverer Deliverer, logger zerolog.Logger) *Handler {
	return &Handler{
		cache:     cache,
		deliverer: deliverer,
		logger:    logger,
	}
}

// HandleEvent scans a message event for GitHub references and delivers a
// summary for each one. A failure on one URL never aborts the others: bad
// references degrade to silence.
func (h *Handler) HandleEvent(ctx context.Context, event Event) {
	if event.Type != EventMessage {
		return
	}

	matches := classify.Classify(event.Text)
	if len(matches) == 0 {
		return
	}

	dest := dispatch.Destination{Platform: event.Platform, Detail: event.Detail}
	for _, match := range matches {
		entity, err := h.cache.GetOrResolve(ctx, match.RawURL, match.Ref)
		if err != nil {
			h.logger.Warn().
				Err(err).
				Str("url", match.RawURL).
				Str("failure", string(github.ClassifyFailure(err))).
				Msg("resolution failed")
			continue
		}
		h.deliverer.Deliver(ctx, dest, entity)
	}
}
