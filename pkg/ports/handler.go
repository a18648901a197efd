package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// EventHandler is the inbound face of the engine. Transports (chat runner,
// HTTP, MCP) translate their wire format into domain events and hand them to
// this interface, one event in, one reply out.
//
// Implementations do not serialize calls per user; that is the transport's
// responsibility (see pkg/session.Gate).
type EventHandler interface {
	Handle(ctx context.Context, ev domain.Event) (domain.Reply, error)
}

// HandlerFunc adapts a plain function to the EventHandler interface, in the
// manner of http.HandlerFunc.
type HandlerFunc func(ctx context.Context, ev domain.Event) (domain.Reply, error)

// Handle calls f(ctx, ev).
func (f HandlerFunc) Handle(ctx context.Context, ev domain.Event) (domain.Reply, error) {
	return f(ctx, ev)
}
