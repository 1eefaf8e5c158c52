package db

import (
	"context"

	"github.com/pq-async/pqgo/transport"
)

// Notify wrappers delegate to the handle's reserved connection. LISTEN
// state lives on that physical connection, which is why a Handle keeps it
// reserved for its whole lifetime rather than returning it to the pool
// between statements (§4.I, §4.F "notify").

func (h *Handle) Listen(ctx context.Context, channel string) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.Listen(ctx, channel)
}

func (h *Handle) Unlisten(ctx context.Context, channel string) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.Unlisten(ctx, channel)
}

func (h *Handle) UnlistenAll(ctx context.Context) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.UnlistenAll(ctx)
}

func (h *Handle) Notify(ctx context.Context, channel, payload string) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.Notify(ctx, channel, payload)
}

// Notifications returns the out-of-band channel notifications for this
// handle's connection arrive on, independent of any query in flight.
func (h *Handle) Notifications() <-chan transport.Notification {
	return h.conn.Notifications()
}
