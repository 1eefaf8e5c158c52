// Package db implements the database handle façade of §4.I: one physical
// connection reserved for the handle's lifetime, offered through both a
// blocking call style and a callback call style driven by the handle's own
// strand, wiring pool+async+transport+result+params together. Grounded on
// the teacher's flat package-level driver surface (a single firebirdsql
// package exposing connection + statement operations) and
// original_source/include/pq-async/async.h's database/connection_pool
// façade shape.
package db

import (
	"context"
	"sync/atomic"

	pqasync "github.com/pq-async/pqgo/async"
	pqwire "github.com/pq-async/pqgo/internal/wire"
	"github.com/pq-async/pqgo/params"
	"github.com/pq-async/pqgo/pool"
	pqresult "github.com/pq-async/pqgo/result"
	"github.com/pq-async/pqgo/transport"

	perrors "github.com/pq-async/pqgo/errors"
)

type preparedStmt struct {
	sql       string
	paramOIDs []uint32
}

// Handle is a database connection façade: one reserved transport.Conn, a
// strand for ordering its callback-style operations, and a logical
// prepared-statement registry re-materialized (cheaply, via
// transport.Conn.HasPrepared) on whichever physical connection is current.
type Handle struct {
	pool  *pool.Pool
	queue *pqasync.Queue

	strand *pqasync.Strand[error]

	conn *transport.Conn

	prepared map[string]preparedStmt
}

// Open reserves a connection from p and returns a handle bound to it for
// its whole lifetime (§4.G: "each connection is exclusively owned by
// whichever strand currently reserves it").
func Open(ctx context.Context, p *pool.Pool, queue *pqasync.Queue) (*Handle, error) {
	conn, err := p.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &Handle{
		pool:     p,
		queue:    queue,
		strand:   pqasync.NewStrand[error](queue, true),
		conn:     conn,
		prepared: map[string]preparedStmt{},
	}, nil
}

// Close releases the handle's reserved connection back to the pool.
func (h *Handle) Close() error {
	if h.conn == nil {
		return nil
	}
	h.pool.Release(h.conn)
	h.conn = nil
	return nil
}

// Queue returns the event queue this handle's callback-style operations
// and strand run on, for combinator scheduling (§4.J).
func (h *Handle) Queue() *pqasync.Queue { return h.queue }

func (h *Handle) checkNotReentrant(ctx context.Context) error {
	if pqasync.IsRunningOn(ctx, h.queue) {
		return perrors.ErrReentrantBlockingCall
	}
	return nil
}

func onceErr(cb func(error)) func(error) {
	var fired int32
	return func(err error) {
		if !atomic.CompareAndSwapInt32(&fired, 0, 1) {
			perrors.Fatal(perrors.New(perrors.KindCallbackDoubleFired, "completion callback invoked more than once"))
			return
		}
		cb(err)
	}
}

func onceValue[T any](cb func(T, error)) func(T, error) {
	var fired int32
	return func(v T, err error) {
		if !atomic.CompareAndSwapInt32(&fired, 0, 1) {
			perrors.Fatal(perrors.New(perrors.KindCallbackDoubleFired, "completion callback invoked more than once"))
			return
		}
		cb(v, err)
	}
}

// bindParamsFor builds a Parse+Bind parameter set from args, returning the
// bind-ready slice and the Parse-time OID list.
func bindParamsFor(args []any) ([]pqwire.BindParam, []uint32, error) {
	pk, err := params.New(args...)
	if err != nil {
		return nil, nil, err
	}
	bindParams := make([]pqwire.BindParam, pk.Len())
	oids := make([]uint32, pk.Len())
	pk.Each(func(i int, p params.Param) {
		bindParams[i] = pqwire.BindParam{Format: int16(p.Format), Value: p.Buf}
		oids[i] = uint32(p.OID)
	})
	return bindParams, oids, nil
}

// execute runs sql with the given args on the handle's reserved connection,
// using the simple-query protocol when there are no parameters and the
// extended (anonymous statement/portal) protocol otherwise.
func (h *Handle) execute(ctx context.Context, sql string, args ...any) (transport.CommandTag, error) {
	if len(args) == 0 {
		_, tag, err := h.conn.SimpleQuery(ctx, sql)
		return tag, err
	}
	bindParams, oids, err := bindParamsFor(args)
	if err != nil {
		return transport.CommandTag{}, err
	}
	if err := h.conn.Parse(ctx, "", sql, oids); err != nil {
		return transport.CommandTag{}, err
	}
	if err := h.conn.Bind(ctx, "", "", bindParams, nil); err != nil {
		return transport.CommandTag{}, err
	}
	cols, err := h.conn.DescribePortal(ctx, "")
	if err != nil {
		return transport.CommandTag{}, err
	}
	_, tag, err := h.conn.ExecutePortal(ctx, "", 0, cols)
	return tag, err
}

func (h *Handle) query(ctx context.Context, sql string, args ...any) (*pqresult.Table, error) {
	if len(args) == 0 {
		table, _, err := h.conn.SimpleQuery(ctx, sql)
		return table, err
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
	table, _, err := h.conn.ExecutePortal(ctx, "", 0, cols)
	return table, err
}

// Execute runs sql (blocking style) and returns its command tag (§4.I).
func (h *Handle) Execute(ctx context.Context, sql string, args ...any) (transport.CommandTag, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return transport.CommandTag{}, err
	}
	return h.execute(ctx, sql, args...)
}

// ExecuteCB runs sql on the handle's strand and invokes cb exactly once
// with its command tag (§4.I callback style).
func (h *Handle) ExecuteCB(sql string, args []any, cb func(transport.CommandTag, error)) {
	guarded := onceValue(cb)
	h.strand.PushBack(func(ctx context.Context) {
		tag, err := h.execute(ctx, sql, args...)
		guarded(tag, err)
	})
}

// Query runs sql and returns its full result table (§4.I).
func (h *Handle) Query(ctx context.Context, sql string, args ...any) (*pqresult.Table, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return nil, err
	}
	return h.query(ctx, sql, args...)
}

// QueryCB runs sql on the handle's strand and delivers its result table.
func (h *Handle) QueryCB(sql string, args []any, cb func(*pqresult.Table, error)) {
	guarded := onceValue(cb)
	h.strand.PushBack(func(ctx context.Context) {
		table, err := h.query(ctx, sql, args...)
		guarded(table, err)
	})
}

// QuerySingle runs sql and returns its first row, or ok=false if the
// result set is empty (§4.I "query_single").
func (h *Handle) QuerySingle(ctx context.Context, sql string, args ...any) (pqresult.Row, bool, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return pqresult.Row{}, false, err
	}
	table, err := h.query(ctx, sql, args...)
	if err != nil {
		return pqresult.Row{}, false, err
	}
	if table == nil || len(table.Rows) == 0 {
		return pqresult.Row{}, false, nil
	}
	return table.Rows[0], true, nil
}

// QueryValue runs sql and decodes (row 0, col 0) as T (§4.I "query_value<T>").
// A free function: Go forbids a generic method introducing its own type
// parameter on a non-generic receiver.
func QueryValue[T any](ctx context.Context, h *Handle, sql string, args ...any) (T, error) {
	var zero T
	row, ok, err := h.QuerySingle(ctx, sql, args...)
	if err != nil {
		return zero, err
	}
	if !ok {
		return zero, perrors.New(perrors.KindNullValue, "query returned no rows")
	}
	return pqresult.As[T](row, 0)
}

// ExecQueries runs a semicolon-separated batch of parameterless statements
// (§4.I "exec_queries").
func (h *Handle) ExecQueries(ctx context.Context, sqlBatch string) ([]*pqresult.Table, []transport.CommandTag, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return nil, nil, err
	}
	return h.conn.ExecQueries(ctx, sqlBatch)
}

// Prepare registers name for sql on the handle's connection. Reuse is
// detected by name unless force replaces an existing definition (§4.I).
func (h *Handle) Prepare(ctx context.Context, name, sql string, force bool, paramOIDs ...uint32) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	if _, exists := h.prepared[name]; exists && !force {
		return nil
	}
	if force && h.conn.HasPrepared(name) {
		if err := h.conn.ClosePrepared(ctx, pqwire.DescribeStatement, name); err != nil {
			return err
		}
	}
	if err := h.conn.Parse(ctx, name, sql, paramOIDs); err != nil {
		return err
	}
	h.prepared[name] = preparedStmt{sql: sql, paramOIDs: paramOIDs}
	return nil
}

// DeallocatePrepared forgets name, closing it on the wire if currently
// cached on this handle's connection (§4.I).
func (h *Handle) DeallocatePrepared(ctx context.Context, name string) error {
	if err := h.checkNotReentrant(ctx); err != nil {
		return err
	}
	delete(h.prepared, name)
	if !h.conn.HasPrepared(name) {
		return nil
	}
	return h.conn.ClosePrepared(ctx, pqwire.DescribeStatement, name)
}

// ExecutePrepared runs the named prepared statement, re-materializing it on
// the handle's current connection first if needed.
func (h *Handle) ExecutePrepared(ctx context.Context, name string, args ...any) (transport.CommandTag, error) {
	if err := h.checkNotReentrant(ctx); err != nil {
		return transport.CommandTag{}, err
	}
	def, ok := h.prepared[name]
	if !ok {
		return transport.CommandTag{}, perrors.Newf(perrors.KindInvalidArgument, "no prepared statement named %q", name)
	}
	if err := h.conn.Parse(ctx, name, def.sql, def.paramOIDs); err != nil {
		return transport.CommandTag{}, err
	}
	bindParams, _, err := bindParamsFor(args)
	if err != nil {
		return transport.CommandTag{}, err
	}
	if err := h.conn.Bind(ctx, "", name, bindParams, nil); err != nil {
		return transport.CommandTag{}, err
	}
	cols, err := h.conn.DescribePortal(ctx, "")
	if err != nil {
		return transport.CommandTag{}, err
	}
	_, tag, err := h.conn.ExecutePortal(ctx, "", 0, cols)
	return tag, err
}
