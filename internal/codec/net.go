package codec

import (
	perrors "github.com/pq-async/pqgo/errors"
)

// Family codes for inet/cidr (§4.A).
const (
	FamilyV4 byte = 2
	FamilyV6 byte = 3
)

// NetAddr is the wire-level decode of inet/cidr (§3 Network types).
type NetAddr struct {
	Family  byte
	Bits    byte
	IsCidr  bool
	Address [16]byte
	AddrLen int
}

// EncodeInet renders the 1-byte family, 1-byte mask bits, 1-byte cidr flag,
// 1-byte address length, then the address bytes (§4.A inet/cidr).
func EncodeInet(a NetAddr) []byte {
	buf := make([]byte, 0, 4+a.AddrLen)
	buf = append(buf, a.Family, a.Bits, boolByte(a.IsCidr), byte(a.AddrLen))
	buf = append(buf, a.Address[:a.AddrLen]...)
	return buf
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// DecodeInet parses the inet/cidr wire layout.
func DecodeInet(buf []byte) (NetAddr, error) {
	if len(buf) < 4 {
		return NetAddr{}, perrors.New(perrors.KindTypeMismatch, "inet/cidr header truncated")
	}
	family, bits, isCidr, addrLen := buf[0], buf[1], buf[2] != 0, int(buf[3])
	if len(buf) < 4+addrLen {
		return NetAddr{}, perrors.New(perrors.KindTypeMismatch, "inet/cidr address truncated")
	}
	var a NetAddr
	a.Family, a.Bits, a.IsCidr, a.AddrLen = family, bits, isCidr, addrLen
	copy(a.Address[:addrLen], buf[4:4+addrLen])
	return a, nil
}

// --- macaddr / macaddr8 -----------------------------------------------

// DecodeMacAddr returns the 6 raw bytes (§4.A macaddr).
func DecodeMacAddr(buf []byte) ([6]byte, error) {
	var out [6]byte
	if len(buf) != 6 {
		return out, perrors.New(perrors.KindTypeMismatch, "macaddr must be 6 bytes")
	}
	copy(out[:], buf)
	return out, nil
}

// DecodeMacAddr8 returns the 8 raw bytes; when only 6 bytes are supplied by
// a v6-incapable server, performs the EUI-64 conversion by inserting
// 0xFF 0xFE at positions 3-4 (§3 macaddr8).
func DecodeMacAddr8(buf []byte) ([8]byte, error) {
	var out [8]byte
	switch len(buf) {
	case 8:
		copy(out[:], buf)
		return out, nil
	case 6:
		copy(out[0:3], buf[0:3])
		out[3] = 0xFF
		out[4] = 0xFE
		copy(out[5:8], buf[3:6])
		return out, nil
	default:
		return out, perrors.New(perrors.KindTypeMismatch, "macaddr8 must be 6 or 8 bytes")
	}
}

func EncodeMacAddr(v [6]byte) []byte  { return v[:] }
func EncodeMacAddr8(v [8]byte) []byte { return v[:] }
