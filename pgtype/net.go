// Package pgtype holds the public value types for the network, geometric,
// range, money, uuid, and json wire types of §3. Every type except Range[T]
// has a to_string() style String method carried over from original_source's
// per-type classes.
package pgtype

import (
	"fmt"
	"net"

	pqcodec "github.com/pq-async/pqgo/internal/codec"

	perrors "github.com/pq-async/pqgo/errors"
)

// Family mirrors the wire family byte (§4.A inet/cidr).
type Family byte

const (
	FamilyV4 Family = Family(pqcodec.FamilyV4)
	FamilyV6 Family = Family(pqcodec.FamilyV6)
)

// Inet is a host address with an optional mask (§3 Network types).
type Inet struct {
	Family  Family
	Bits    byte
	Address net.IP
}

// Cidr additionally requires all bits right of the mask to be zero,
// enforced in NewCidr.
type Cidr struct {
	Family  Family
	Bits    byte
	Address net.IP
}

func addrLenFor(f Family) int {
	if f == FamilyV6 {
		return 16
	}
	return 4
}

// NewCidr validates the host-bits-clear invariant at construction (§3:
// "cidr additionally requires that all bits right of the mask are zero").
func NewCidr(family Family, bits byte, addr net.IP) (Cidr, error) {
	n := addrLenFor(family)
	raw := addr.To4()
	if family == FamilyV6 {
		raw = addr.To16()
	}
	if raw == nil || len(raw) != n {
		return Cidr{}, perrors.Newf(perrors.KindInvalidArgument, "address does not match family (want %d bytes)", n)
	}
	mask := net.CIDRMask(int(bits), n*8)
	masked := raw.Mask(mask)
	for i := range raw {
		if raw[i] != masked[i] {
			return Cidr{}, perrors.New(perrors.KindInvalidArgument, "cidr host bits must be zero")
		}
	}
	return Cidr{Family: family, Bits: bits, Address: append(net.IP(nil), raw...)}, nil
}

func (c Cidr) String() string {
	return fmt.Sprintf("%s/%d", c.Address.String(), c.Bits)
}

func (i Inet) String() string {
	maxBits := addrLenFor(i.Family) * 8
	if int(i.Bits) == maxBits {
		return i.Address.String()
	}
	return fmt.Sprintf("%s/%d", i.Address.String(), i.Bits)
}

func decodeNetAddr(a pqcodec.NetAddr) (Family, net.IP) {
	fam := Family(a.Family)
	return fam, net.IP(append([]byte(nil), a.Address[:a.AddrLen]...))
}

// DecodeInet wraps codec.DecodeInet into the public Inet value.
func DecodeInet(buf []byte) (Inet, error) {
	a, err := pqcodec.DecodeInet(buf)
	if err != nil {
		return Inet{}, err
	}
	fam, ip := decodeNetAddr(a)
	return Inet{Family: fam, Bits: a.Bits, Address: ip}, nil
}

// DecodeCidr wraps codec.DecodeInet into the public Cidr value.
func DecodeCidr(buf []byte) (Cidr, error) {
	a, err := pqcodec.DecodeInet(buf)
	if err != nil {
		return Cidr{}, err
	}
	fam, ip := decodeNetAddr(a)
	return Cidr{Family: fam, Bits: a.Bits, Address: ip}, nil
}

func (i Inet) encode() pqcodec.NetAddr {
	var a pqcodec.NetAddr
	a.Family, a.Bits, a.IsCidr = byte(i.Family), i.Bits, false
	a.AddrLen = addrLenFor(i.Family)
	copy(a.Address[:a.AddrLen], i.Address)
	return a
}

func (c Cidr) encode() pqcodec.NetAddr {
	var a pqcodec.NetAddr
	a.Family, a.Bits, a.IsCidr = byte(c.Family), c.Bits, true
	a.AddrLen = addrLenFor(c.Family)
	copy(a.Address[:a.AddrLen], c.Address)
	return a
}

// Encode renders the binary wire form (§4.A inet/cidr).
func (i Inet) Encode() []byte { return pqcodec.EncodeInet(i.encode()) }

// Encode renders the binary wire form (§4.A inet/cidr).
func (c Cidr) Encode() []byte { return pqcodec.EncodeInet(c.encode()) }

// MacAddr is a 6-byte hardware address (§3 Network types).
type MacAddr [6]byte

func (m MacAddr) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", m[0], m[1], m[2], m[3], m[4], m[5])
}

func DecodeMacAddr(buf []byte) (MacAddr, error) {
	b, err := pqcodec.DecodeMacAddr(buf)
	return MacAddr(b), err
}

func (m MacAddr) Encode() []byte { return pqcodec.EncodeMacAddr([6]byte(m)) }

// MacAddr8 is an 8-byte EUI-64 hardware address.
type MacAddr8 [8]byte

func (m MacAddr8) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x:%02x:%02x",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7])
}

// DecodeMacAddr8 performs the EUI-64 conversion when the server sends only
// 6 bytes (§3: "bytes 4-5 inserted as 0xFF 0xFE").
func DecodeMacAddr8(buf []byte) (MacAddr8, error) {
	b, err := pqcodec.DecodeMacAddr8(buf)
	return MacAddr8(b), err
}

func (m MacAddr8) Encode() []byte { return pqcodec.EncodeMacAddr8([8]byte(m)) }
