// Simple and extended query execution, and the streaming row reader
// (§4.F "simple query" / "extended query" / "streaming read").
package transport

import (
	"context"
	"strconv"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
	pqwire "github.com/pq-async/pqgo/internal/wire"
	pqresult "github.com/pq-async/pqgo/result"

	perrors "github.com/pq-async/pqgo/errors"
)

// CommandTag reports the rows-affected count parsed from a CommandComplete
// tag (e.g. "INSERT 0 3", "SELECT 5").
type CommandTag struct {
	Tag          string
	RowsAffected int64
}

func columnsFromRowDescription(payload []byte) (*pqresult.Columns, error) {
	r := pqwire.NewReader(payload)
	n, err := r.Int16()
	if err != nil {
		return nil, err
	}
	cols := make([]pqresult.Column, n)
	for i := 0; i < int(n); i++ {
		name, err := r.CString()
		if err != nil {
			return nil, err
		}
		if _, err := r.Int32(); err != nil { // table OID
			return nil, err
		}
		if _, err := r.Int16(); err != nil { // column attnum
			return nil, err
		}
		typOID, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		if _, err := r.Int16(); err != nil { // type size
			return nil, err
		}
		if _, err := r.Int32(); err != nil { // type modifier
			return nil, err
		}
		format, err := r.Int16()
		if err != nil {
			return nil, err
		}
		cols[i] = pqresult.Column{Name: name, OID: pqcodec.OID(typOID), Format: pqcodec.Format(format)}
	}
	return pqresult.NewColumns(cols), nil
}

func parseCommandComplete(payload []byte) CommandTag {
	tag := string(payload[:len(payload)-1]) // drop the trailing null
	ct := CommandTag{Tag: tag}
	start := -1
	for i := len(tag) - 1; i >= 0; i-- {
		if tag[i] == ' ' {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return ct
	}
	last := tag[start:]
	n, err := strconv.ParseInt(last, 10, 64)
	if err != nil {
		return ct
	}
	ct.RowsAffected = n
	return ct
}

func dataRowValues(payload []byte) ([][]byte, error) {
	r := pqwire.NewReader(payload)
	n, err := r.Int16()
	if err != nil {
		return nil, err
	}
	vals := make([][]byte, n)
	for i := 0; i < int(n); i++ {
		v, isNull, err := r.Bytes32()
		if err != nil {
			return nil, err
		}
		if isNull {
			vals[i] = nil
		} else {
			vals[i] = append([]byte(nil), v...)
		}
	}
	return vals, nil
}

// SimpleQuery runs sql as a single text-protocol statement and returns its
// result table (§4.F "simple query").
func (c *Conn) SimpleQuery(ctx context.Context, sql string) (*pqresult.Table, CommandTag, error) {
	tables, tags, err := c.ExecQueries(ctx, sql)
	if err != nil {
		return nil, CommandTag{}, err
	}
	if len(tables) == 0 {
		return nil, tags[len(tags)-1], nil
	}
	return tables[len(tables)-1], tags[len(tags)-1], nil
}

// ExecQueries runs a semicolon-separated batch of statements without
// parameters (§4.I exec_queries), returning one table per statement that
// produced rows and every statement's command tag in order.
func (c *Conn) ExecQueries(ctx context.Context, sql string) ([]*pqresult.Table, []CommandTag, error) {
	if err := c.send(pqwire.BuildQuery(sql)); err != nil {
		return nil, nil, err
	}
	var tables []*pqresult.Table
	var tags []CommandTag
	var cur *pqresult.Table

	for {
		msg, err := c.next(ctx)
		if err != nil {
			return nil, nil, err
		}
		switch msg.Type {
		case pqwire.TagRowDescription:
			cols, err := columnsFromRowDescription(msg.Payload)
			if err != nil {
				return nil, nil, err
			}
			cur = pqresult.NewTable(cols)
			c.state = StateStreamingRows
		case pqwire.TagDataRow:
			vals, err := dataRowValues(msg.Payload)
			if err != nil {
				return nil, nil, err
			}
			if cur != nil {
				cur.Append(vals)
			}
		case pqwire.TagCommandComplete:
			tags = append(tags, parseCommandComplete(msg.Payload))
			if cur != nil {
				tables = append(tables, cur)
				cur = nil
			}
			c.state = StateAwaitingResult
		case pqwire.TagEmptyQueryResponse:
			tags = append(tags, CommandTag{})
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return nil, nil, parseErrorResponse(msg.Payload)
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return tables, tags, nil
		}
	}
}

// drainToReady reads and discards messages until ReadyForQuery, used after
// an error response so the connection can be reused (§4.F).
func (c *Conn) drainToReady(ctx context.Context) {
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return
		}
		if msg.Type == pqwire.TagReadyForQuery {
			c.state = StateIdle
			return
		}
	}
}

// Parse sends a Parse message; name != "" caches the statement on this
// connection until a matching Close is issued (§4.F).
func (c *Conn) Parse(ctx context.Context, name, sql string, paramOIDs []uint32) error {
	if name != "" && c.HasPrepared(name) {
		return nil
	}
	if err := c.send(pqwire.BuildParse(name, sql, paramOIDs)); err != nil {
		return err
	}
	if err := c.send(pqwire.BuildFlush()); err != nil {
		return err
	}
	msg, err := c.next(ctx)
	if err != nil {
		return err
	}
	switch msg.Type {
	case pqwire.TagParseComplete:
		c.markPrepared(name)
		return nil
	case pqwire.TagErrorResponse:
		c.drainToReady(ctx)
		return parseErrorResponse(msg.Payload)
	}
	return perrors.Newf(perrors.KindProtocolViolation, "unexpected message 0x%x after Parse", msg.Type)
}

// Bind sends a Bind message creating portal from the named (possibly
// anonymous) prepared statement.
func (c *Conn) Bind(ctx context.Context, portal, statement string, params []pqwire.BindParam, resultFormats []int16) error {
	if err := c.send(pqwire.BuildBind(portal, statement, params, resultFormats)); err != nil {
		return err
	}
	if err := c.send(pqwire.BuildFlush()); err != nil {
		return err
	}
	msg, err := c.next(ctx)
	if err != nil {
		return err
	}
	switch msg.Type {
	case pqwire.TagBindComplete:
		return nil
	case pqwire.TagErrorResponse:
		c.drainToReady(ctx)
		return parseErrorResponse(msg.Payload)
	}
	return perrors.Newf(perrors.KindProtocolViolation, "unexpected message 0x%x after Bind", msg.Type)
}

// DescribePortal sends Describe(Portal) + Flush and returns its column list
// (§4.F extended query: Describe precedes Execute so the caller knows the
// row shape before any DataRow arrives).
func (c *Conn) DescribePortal(ctx context.Context, portal string) (*pqresult.Columns, error) {
	if err := c.send(pqwire.BuildDescribe(pqwire.DescribePortal, portal)); err != nil {
		return nil, err
	}
	if err := c.send(pqwire.BuildFlush()); err != nil {
		return nil, err
	}
	msg, err := c.next(ctx)
	if err != nil {
		return nil, err
	}
	switch msg.Type {
	case pqwire.TagRowDescription:
		return columnsFromRowDescription(msg.Payload)
	case pqwire.TagNoData:
		return pqresult.NewColumns(nil), nil
	case pqwire.TagErrorResponse:
		c.drainToReady(ctx)
		return nil, parseErrorResponse(msg.Payload)
	}
	return nil, perrors.Newf(perrors.KindProtocolViolation, "unexpected message 0x%x after Describe", msg.Type)
}

// ExecutePortal runs Execute+Sync against a bound portal and returns its
// table and command tag (§4.F extended query). cols must come from a
// preceding DescribePortal call.
func (c *Conn) ExecutePortal(ctx context.Context, portal string, rowLimit int32, cols *pqresult.Columns) (*pqresult.Table, CommandTag, error) {
	if err := c.send(pqwire.BuildExecute(portal, rowLimit)); err != nil {
		return nil, CommandTag{}, err
	}
	if err := c.send(pqwire.BuildSync()); err != nil {
		return nil, CommandTag{}, err
	}
	cur := pqresult.NewTable(cols)
	var tag CommandTag
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return nil, CommandTag{}, err
		}
		switch msg.Type {
		case pqwire.TagDataRow:
			vals, err := dataRowValues(msg.Payload)
			if err != nil {
				return nil, CommandTag{}, err
			}
			cur.Append(vals)
		case pqwire.TagCommandComplete:
			tag = parseCommandComplete(msg.Payload)
		case pqwire.TagPortalSuspended:
			// row-limit reached; caller may Execute again for more rows.
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return nil, CommandTag{}, parseErrorResponse(msg.Payload)
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return cur, tag, nil
		}
	}
}

// ClosePrepared closes a prepared statement or portal by name (§4.F).
func (c *Conn) ClosePrepared(ctx context.Context, target pqwire.DescribeTarget, name string) error {
	if err := c.send(pqwire.BuildClose(target, name)); err != nil {
		return err
	}
	if err := c.send(pqwire.BuildSync()); err != nil {
		return err
	}
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return err
		}
		switch msg.Type {
		case pqwire.TagCloseComplete:
			if target == pqwire.DescribeStatement {
				c.forgetPrepared(name)
			}
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return nil
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return parseErrorResponse(msg.Payload)
		}
	}
}

// Reader streams rows one at a time, buffering at most one row ahead
// (§4.F "streaming read").
type Reader struct {
	conn      *Conn
	cols      *pqresult.Columns
	buffered  *pqresult.Row
	done      bool
	err       error
	closed    bool
}

// QueryReader executes portal and returns a Reader that pulls rows lazily
// instead of materializing a full Table. cols must come from a preceding
// DescribePortal call.
func (c *Conn) QueryReader(ctx context.Context, portal string, cols *pqresult.Columns) (*Reader, error) {
	if err := c.send(pqwire.BuildExecute(portal, 0)); err != nil {
		return nil, err
	}
	if err := c.send(pqwire.BuildSync()); err != nil {
		return nil, err
	}
	r := &Reader{conn: c, cols: cols}
	r.fill(ctx)
	return r, r.err
}

func (r *Reader) fill(ctx context.Context) {
	if r.done || r.buffered != nil || r.err != nil {
		return
	}
	for {
		msg, err := r.conn.next(ctx)
		if err != nil {
			r.err = err
			return
		}
		switch msg.Type {
		case pqwire.TagDataRow:
			vals, err := dataRowValues(msg.Payload)
			if err != nil {
				r.err = err
				return
			}
			row := pqresult.NewRow(r.cols, vals)
			r.buffered = &row
			return
		case pqwire.TagCommandComplete, pqwire.TagPortalSuspended:
			// end of rows; keep reading up to ReadyForQuery
		case pqwire.TagErrorResponse:
			r.err = parseErrorResponse(msg.Payload)
			r.conn.drainToReady(ctx)
			r.done = true
			return
		case pqwire.TagReadyForQuery:
			r.conn.state = StateIdle
			r.done = true
			return
		}
	}
}

// Next returns the next row, or ok=false at end of stream (§4.I query_reader).
func (r *Reader) Next(ctx context.Context) (pqresult.Row, bool, error) {
	if r.buffered == nil {
		r.fill(ctx)
	}
	if r.err != nil {
		return pqresult.Row{}, false, r.err
	}
	if r.buffered == nil {
		return pqresult.Row{}, false, nil
	}
	row := *r.buffered
	r.buffered = nil
	r.fill(ctx)
	return row, true, nil
}

// Close discards remaining rows but still drains to the next
// Ready-for-query (§4.F, §8 "streaming reader closure").
func (r *Reader) Close(ctx context.Context) error {
	if r.closed {
		return nil
	}
	r.closed = true
	for !r.done {
		r.buffered = nil
		r.fill(ctx)
		if r.err != nil {
			return r.err
		}
	}
	return nil
}
