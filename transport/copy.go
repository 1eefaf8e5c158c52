// COPY in/out support (§4.F "large object" sibling operation, the server's
// bulk row-streaming protocol extension).
package transport

import (
	"context"

	pqwire "github.com/pq-async/pqgo/internal/wire"

	perrors "github.com/pq-async/pqgo/errors"
)

// CopyIn runs sql (a "COPY ... FROM STDIN" statement) and streams data as a
// sequence of CopyData messages, terminating with CopyDone.
func (c *Conn) CopyIn(ctx context.Context, sql string, data [][]byte) (CommandTag, error) {
	if err := c.send(pqwire.BuildQuery(sql)); err != nil {
		return CommandTag{}, err
	}
	msg, err := c.next(ctx)
	if err != nil {
		return CommandTag{}, err
	}
	if msg.Type != pqwire.TagCopyInResponse {
		if msg.Type == pqwire.TagErrorResponse {
			c.drainToReady(ctx)
			return CommandTag{}, parseErrorResponse(msg.Payload)
		}
		return CommandTag{}, perrors.Newf(perrors.KindProtocolViolation, "expected CopyInResponse, got 0x%x", msg.Type)
	}
	c.state = StateInCopy
	for _, chunk := range data {
		if err := c.send(pqwire.BuildCopyData(chunk)); err != nil {
			return CommandTag{}, err
		}
	}
	if err := c.send(pqwire.BuildCopyDone()); err != nil {
		return CommandTag{}, err
	}
	var tag CommandTag
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return CommandTag{}, err
		}
		switch msg.Type {
		case pqwire.TagCommandComplete:
			tag = parseCommandComplete(msg.Payload)
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return CommandTag{}, parseErrorResponse(msg.Payload)
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return tag, nil
		}
	}
}

// CopyOut runs sql (a "COPY ... TO STDOUT" statement) and returns every
// CopyData chunk the server sends.
func (c *Conn) CopyOut(ctx context.Context, sql string) ([][]byte, CommandTag, error) {
	if err := c.send(pqwire.BuildQuery(sql)); err != nil {
		return nil, CommandTag{}, err
	}
	msg, err := c.next(ctx)
	if err != nil {
		return nil, CommandTag{}, err
	}
	if msg.Type != pqwire.TagCopyOutResponse {
		if msg.Type == pqwire.TagErrorResponse {
			c.drainToReady(ctx)
			return nil, CommandTag{}, parseErrorResponse(msg.Payload)
		}
		return nil, CommandTag{}, perrors.Newf(perrors.KindProtocolViolation, "expected CopyOutResponse, got 0x%x", msg.Type)
	}
	c.state = StateInCopy
	var chunks [][]byte
	var tag CommandTag
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return nil, CommandTag{}, err
		}
		switch msg.Type {
		case pqwire.TagCopyData:
			chunks = append(chunks, append([]byte(nil), msg.Payload...))
		case pqwire.TagCopyDone:
		case pqwire.TagCommandComplete:
			tag = parseCommandComplete(msg.Payload)
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return nil, CommandTag{}, parseErrorResponse(msg.Payload)
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return chunks, tag, nil
		}
	}
}
