// Package wire implements PostgreSQL frontend/backend protocol v3.0 message
// framing (§6): one-byte type tag (absent only on the startup message),
// big-endian int32 length prefix (including itself), then payload.
package wire

import (
	"encoding/binary"

	perrors "github.com/pq-async/pqgo/errors"
)

// Frontend message type tags.
const (
	TagBind            byte = 'B'
	TagClose           byte = 'C'
	TagCopyData        byte = 'd'
	TagCopyDone        byte = 'c'
	TagCopyFail        byte = 'f'
	TagDescribe        byte = 'D'
	TagExecute         byte = 'E'
	TagFlush           byte = 'H'
	TagFunctionCall    byte = 'F'
	TagParse           byte = 'P'
	TagPasswordMessage byte = 'p'
	TagQuery           byte = 'Q'
	TagSync            byte = 'S'
	TagTerminate       byte = 'X'
)

// Backend message type tags.
const (
	TagAuthentication      byte = 'R'
	TagBackendKeyData      byte = 'K'
	TagBindComplete        byte = '2'
	TagCloseComplete       byte = '3'
	TagCommandComplete     byte = 'C'
	TagCopyInResponse      byte = 'G'
	TagCopyOutResponse     byte = 'H'
	TagDataRow             byte = 'D'
	TagEmptyQueryResponse  byte = 'I'
	TagErrorResponse       byte = 'E'
	TagNoData              byte = 'n'
	TagNoticeResponse      byte = 'N'
	TagNotificationResp    byte = 'A'
	TagParameterDescribe   byte = 't'
	TagParameterStatus     byte = 'S'
	TagParseComplete       byte = '1'
	TagPortalSuspended     byte = 's'
	TagReadyForQuery       byte = 'Z'
	TagRowDescription      byte = 'T'
)

// Authentication sub-codes carried in the int32 following TagAuthentication.
const (
	AuthOK              int32 = 0
	AuthCleartextPwd    int32 = 3
	AuthMD5Pwd          int32 = 5
	AuthSASL            int32 = 10
	AuthSASLContinue    int32 = 11
	AuthSASLFinal       int32 = 12
)

// Message is a parsed backend message: its type tag and raw payload (with
// the type byte and length prefix already stripped).
type Message struct {
	Type    byte
	Payload []byte
}

// Builder accumulates a frontend message's payload before framing it.
type Builder struct {
	typ byte
	buf []byte
}

// NewBuilder starts a message of the given type. typ == 0 means untyped
// (used only for the startup message, which has no type byte).
func NewBuilder(typ byte) *Builder {
	return &Builder{typ: typ}
}

func (b *Builder) Byte(v byte) *Builder {
	b.buf = append(b.buf, v)
	return b
}

func (b *Builder) Int16(v int16) *Builder {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], uint16(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *Builder) Int32(v int32) *Builder {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(v))
	b.buf = append(b.buf, tmp[:]...)
	return b
}

func (b *Builder) Bytes(v []byte) *Builder {
	b.buf = append(b.buf, v...)
	return b
}

// CString appends a null-terminated string, the protocol's string encoding.
func (b *Builder) CString(s string) *Builder {
	b.buf = append(b.buf, []byte(s)...)
	b.buf = append(b.buf, 0)
	return b
}

// Bytes32 appends a length-prefixed byte slice, or -1 for a nil slice (the
// array/range element and Bind-parameter convention, §4.A/§4.D).
func (b *Builder) Bytes32(v []byte) *Builder {
	if v == nil {
		return b.Int32(-1)
	}
	return b.Int32(int32(len(v))).Bytes(v)
}

// Raw returns the accumulated payload without any framing, for callers
// that need to keep appending raw bytes outside the Builder's own helpers.
func (b *Builder) Raw() []byte { return b.buf }

// Build frames the accumulated payload: [type byte if any][int32 length][payload].
func (b *Builder) Build() []byte {
	length := int32(len(b.buf) + 4)
	out := make([]byte, 0, length+1)
	if b.typ != 0 {
		out = append(out, b.typ)
	}
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(length))
	out = append(out, tmp[:]...)
	out = append(out, b.buf...)
	return out
}

// Reader walks a backend message's payload left to right.
type Reader struct {
	buf []byte
	pos int
}

func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

func (r *Reader) remaining() int { return len(r.buf) - r.pos }

func (r *Reader) Byte() (byte, error) {
	if r.remaining() < 1 {
		return 0, perrors.New(perrors.KindProtocolViolation, "message truncated reading byte")
	}
	v := r.buf[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) Int16() (int16, error) {
	if r.remaining() < 2 {
		return 0, perrors.New(perrors.KindProtocolViolation, "message truncated reading int16")
	}
	v := int16(binary.BigEndian.Uint16(r.buf[r.pos:]))
	r.pos += 2
	return v, nil
}

func (r *Reader) Int32() (int32, error) {
	if r.remaining() < 4 {
		return 0, perrors.New(perrors.KindProtocolViolation, "message truncated reading int32")
	}
	v := int32(binary.BigEndian.Uint32(r.buf[r.pos:]))
	r.pos += 4
	return v, nil
}

func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Int32()
	return uint32(v), err
}

// CString reads a null-terminated string.
func (r *Reader) CString() (string, error) {
	start := r.pos
	for r.pos < len(r.buf) && r.buf[r.pos] != 0 {
		r.pos++
	}
	if r.pos >= len(r.buf) {
		return "", perrors.New(perrors.KindProtocolViolation, "unterminated string in message")
	}
	s := string(r.buf[start:r.pos])
	r.pos++
	return s, nil
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if r.remaining() < n {
		return nil, perrors.New(perrors.KindProtocolViolation, "message truncated reading bytes")
	}
	v := r.buf[r.pos : r.pos+n]
	r.pos += n
	return v, nil
}

// Bytes32 reads a length-prefixed value; a length of -1 is represented as
// a nil slice with isNull=true (the wire's null convention).
func (r *Reader) Bytes32() (data []byte, isNull bool, err error) {
	n, err := r.Int32()
	if err != nil {
		return nil, false, err
	}
	if n < 0 {
		return nil, true, nil
	}
	b, err := r.Bytes(int(n))
	return b, false, err
}

// Rest returns all remaining unread bytes.
func (r *Reader) Rest() []byte { return r.buf[r.pos:] }

// Len reports how much payload is left unread.
func (r *Reader) Len() int { return r.remaining() }
