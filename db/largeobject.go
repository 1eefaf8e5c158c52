package db

import "context"

// Large-object wrappers delegate straight to the handle's reserved
// connection (§4.F large-object extension, exposed at the façade level per
// §4.I).

func (h *Handle) LoCreate(ctx context.Context) (uint32, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return 0, err
	}
	return h.conn.LoCreate(ctx)
}

func (h *Handle) LoOpen(ctx context.Context, oid uint32, mode int32) (int32, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return 0, err
	}
	return h.conn.LoOpen(ctx, oid, mode)
}

func (h *Handle) LoRead(ctx context.Context, fd int32, n int32) ([]byte, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return nil, err
	}
	return h.conn.LoRead(ctx, fd, n)
}

func (h *Handle) LoWrite(ctx context.Context, fd int32, data []byte) (int32, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return 0, err
	}
	return h.conn.LoWrite(ctx, fd, data)
}

func (h *Handle) LoLseek(ctx context.Context, fd, offset, whence int32) (int32, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return 0, err
	}
	return h.conn.LoLseek(ctx, fd, offset, whence)
}

func (h *Handle) LoTell(ctx context.Context, fd int32) (int32, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return 0, err
	}
	return h.conn.LoTell(ctx, fd)
}

func (h *Handle) LoClose(ctx context.Context, fd int32) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.LoClose(ctx, fd)
}

func (h *Handle) LoUnlink(ctx context.Context, oid uint32) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	return h.conn.LoUnlink(ctx, oid)
}
