package db

import (
	"context"

	pqresult "github.com/pq-async/pqgo/result"
	"github.com/pq-async/pqgo/transport"
)

// Reader streams a query's rows one at a time without materializing a full
// table (§4.I "query_reader").
type Reader struct {
	inner *transport.Reader
}

// QueryReader executes sql on the handle's connection and returns a Reader
// pulling rows lazily (§4.I).
func (h *Handle) QueryReader(ctx context.Context, sql string, args ...any) (*Reader, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return nil, err
	}
	bindParams, oids, err := bindParamsFor(args)
	if err != nil {
		return nil, err
	}
	if err := h.conn.Parse(ctx, "", sql, oids); err != nil {
		return nil, err
	}
	if err := h.conn.Bind(ctx, "", "", bindParams, nil); err != nil {
		return nil, err
	}
	cols, err := h.conn.DescribePortal(ctx, "")
	if err != nil {
		return nil, err
	}
	inner, err := h.conn.QueryReader(ctx, "", cols)
	if err != nil {
		return nil, err
	}
	return &Reader{inner: inner}, nil
}

// Next returns the reader's next row, or ok=false at end of stream.
func (r *Reader) Next(ctx context.Context) (pqresult.Row, bool, error) {
	return r.inner.Next(ctx)
}

// Close discards any remaining rows and drains the connection back to
// ready state (§8 "streaming reader closure").
func (r *Reader) Close(ctx context.Context) error {
	return r.inner.Close(ctx)
}
