package pgtype

import (
	"github.com/google/uuid"

	pqcodec "github.com/pq-async/pqgo/internal/codec"

	perrors "github.com/pq-async/pqgo/errors"
)

// UUID wraps google/uuid.UUID as the public value type for the uuid OID.
type UUID struct {
	uuid.UUID
}

func NewUUID() UUID { return UUID{uuid.New()} }

func ParseUUID(s string) (UUID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, perrors.Wrapf(perrors.KindInvalidArgument, err, "invalid uuid literal %q", s)
	}
	return UUID{u}, nil
}

func DecodeUUID(buf []byte) (UUID, error) {
	b, err := pqcodec.DecodeUUIDBytes(buf)
	if err != nil {
		return UUID{}, err
	}
	return UUID{uuid.UUID(b)}, nil
}

func (u UUID) Encode() []byte {
	b := [16]byte(u.UUID)
	return b[:]
}
