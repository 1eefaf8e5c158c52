// Large-object operations via the server's lo_* protocol extension,
// exposed as FunctionCall ('F') messages over the well-known builtin
// function OIDs (§4.F "large object", §4.I lo_create/lo_open/lo_read/
// lo_write/lo_lseek/lo_close/lo_unlink).
package transport

import (
	"context"
	"encoding/binary"

	pqwire "github.com/pq-async/pqgo/internal/wire"

	perrors "github.com/pq-async/pqgo/errors"
)

// Well-known builtin function OIDs for the lo_* family (stable across
// Postgres versions; see pg_proc.dat upstream).
const (
	fnLoCreat    uint32 = 957
	fnLoCreate   uint32 = 715
	fnLoOpen     uint32 = 952
	fnLoClose    uint32 = 953
	fnLoRead     uint32 = 954
	fnLoWrite    uint32 = 955
	fnLoLseek    uint32 = 956
	fnLoLseek64  uint32 = 3170
	fnLoTell     uint32 = 958
	fnLoTell64   uint32 = 3171
	fnLoUnlink   uint32 = 964
	fnLoTruncate uint32 = 1004
)

// Large-object open modes (bitmask, matches libpq's INV_READ/INV_WRITE).
const (
	LoModeRead  int32 = 0x40000
	LoModeWrite int32 = 0x20000
)

// lo_lseek whence values, matching POSIX SEEK_*.
const (
	LoSeekSet int32 = 0
	LoSeekCur int32 = 1
	LoSeekEnd int32 = 2
)

func encodeI32(v int32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, uint32(v))
	return b
}

func decodeI32(b []byte) int32 { return int32(binary.BigEndian.Uint32(b)) }

// callFunction sends a FunctionCall and returns its result bytes.
func (c *Conn) callFunction(ctx context.Context, fnOID uint32, args [][]byte) ([]byte, error) {
	formats := make([]int16, len(args))
	for i := range formats {
		formats[i] = 1
	}
	if err := c.send(pqwire.BuildFunctionCall(fnOID, formats, args, 1)); err != nil {
		return nil, err
	}
	if err := c.send(pqwire.BuildSync()); err != nil {
		return nil, err
	}
	var result []byte
	for {
		msg, err := c.next(ctx)
		if err != nil {
			return nil, err
		}
		switch msg.Type {
		case 'V': // FunctionCallResponse
			r := pqwire.NewReader(msg.Payload)
			data, isNull, err := r.Bytes32()
			if err != nil {
				return nil, err
			}
			if !isNull {
				result = append([]byte(nil), data...)
			}
		case pqwire.TagErrorResponse:
			c.drainToReady(ctx)
			return nil, parseErrorResponse(msg.Payload)
		case pqwire.TagReadyForQuery:
			c.state = StateIdle
			return result, nil
		}
	}
}

// LoCreate creates a new large object and returns its OID (lo_creat(-1)).
func (c *Conn) LoCreate(ctx context.Context) (uint32, error) {
	out, err := c.callFunction(ctx, fnLoCreat, [][]byte{encodeI32(-1)})
	if err != nil {
		return 0, err
	}
	if len(out) != 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "lo_creat returned malformed oid")
	}
	return binary.BigEndian.Uint32(out), nil
}

// LoOpen opens oid with the given mode bitmask and returns a server-side
// large-object file descriptor.
func (c *Conn) LoOpen(ctx context.Context, oid uint32, mode int32) (int32, error) {
	out, err := c.callFunction(ctx, fnLoOpen, [][]byte{encodeI32(int32(oid)), encodeI32(mode)})
	if err != nil {
		return 0, err
	}
	if len(out) != 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "lo_open returned malformed descriptor")
	}
	return decodeI32(out), nil
}

func (c *Conn) LoRead(ctx context.Context, fd int32, n int32) ([]byte, error) {
	return c.callFunction(ctx, fnLoRead, [][]byte{encodeI32(fd), encodeI32(n)})
}

func (c *Conn) LoWrite(ctx context.Context, fd int32, data []byte) (int32, error) {
	out, err := c.callFunction(ctx, fnLoWrite, [][]byte{encodeI32(fd), data})
	if err != nil {
		return 0, err
	}
	if len(out) != 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "lowrite returned malformed count")
	}
	return decodeI32(out), nil
}

func (c *Conn) LoLseek(ctx context.Context, fd int32, offset int32, whence int32) (int32, error) {
	out, err := c.callFunction(ctx, fnLoLseek, [][]byte{encodeI32(fd), encodeI32(offset), encodeI32(whence)})
	if err != nil {
		return 0, err
	}
	if len(out) != 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "lo_lseek returned malformed offset")
	}
	return decodeI32(out), nil
}

func (c *Conn) LoTell(ctx context.Context, fd int32) (int32, error) {
	out, err := c.callFunction(ctx, fnLoTell, [][]byte{encodeI32(fd)})
	if err != nil {
		return 0, err
	}
	if len(out) != 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "lo_tell returned malformed offset")
	}
	return decodeI32(out), nil
}

func (c *Conn) LoClose(ctx context.Context, fd int32) error {
	_, err := c.callFunction(ctx, fnLoClose, [][]byte{encodeI32(fd)})
	return err
}

func (c *Conn) LoUnlink(ctx context.Context, oid uint32) error {
	_, err := c.callFunction(ctx, fnLoUnlink, [][]byte{encodeI32(int32(oid))})
	return err
}
