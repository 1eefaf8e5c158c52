// Geometric type wire codecs (§3/§4.A): point, line, lseg, box, path,
// polygon, circle. Grounded on
// original_source/src/pg_type_geo_def.h/.cpp for field layout and the
// bounding-box-on-decode behavior for polygon.
package codec

import (
	"encoding/binary"
	"math"

	perrors "github.com/pq-async/pqgo/errors"
)

func encodeF8(v float64) []byte { return EncodeFloat8(v) }

func decodeF8(buf []byte) (float64, error) {
	if len(buf) < 8 {
		return 0, perrors.New(perrors.KindTypeMismatch, "expected 8 bytes for float8 field")
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf)), nil
}

type Point struct{ X, Y float64 }

func EncodePoint(p Point) []byte {
	return append(encodeF8(p.X), encodeF8(p.Y)...)
}

func DecodePoint(buf []byte) (Point, error) {
	if len(buf) != 16 {
		return Point{}, perrors.New(perrors.KindTypeMismatch, "point must be 16 bytes")
	}
	x, _ := decodeF8(buf[0:8])
	y, _ := decodeF8(buf[8:16])
	return Point{x, y}, nil
}

type Line struct{ A, B, C float64 }

func EncodeLine(l Line) []byte {
	buf := encodeF8(l.A)
	buf = append(buf, encodeF8(l.B)...)
	buf = append(buf, encodeF8(l.C)...)
	return buf
}

func DecodeLine(buf []byte) (Line, error) {
	if len(buf) != 24 {
		return Line{}, perrors.New(perrors.KindTypeMismatch, "line must be 24 bytes")
	}
	a, _ := decodeF8(buf[0:8])
	b, _ := decodeF8(buf[8:16])
	c, _ := decodeF8(buf[16:24])
	return Line{a, b, c}, nil
}

type Lseg struct{ P1, P2 Point }

func EncodeLseg(l Lseg) []byte {
	buf := EncodePoint(l.P1)
	return append(buf, EncodePoint(l.P2)...)
}

func DecodeLseg(buf []byte) (Lseg, error) {
	if len(buf) != 32 {
		return Lseg{}, perrors.New(perrors.KindTypeMismatch, "lseg must be 32 bytes")
	}
	p1, _ := DecodePoint(buf[0:16])
	p2, _ := DecodePoint(buf[16:32])
	return Lseg{p1, p2}, nil
}

// Box stores high,low points, caller-normalized (§3 Box).
type Box struct{ High, Low Point }

func EncodeBox(b Box) []byte {
	buf := EncodePoint(b.High)
	return append(buf, EncodePoint(b.Low)...)
}

func DecodeBox(buf []byte) (Box, error) {
	if len(buf) != 32 {
		return Box{}, perrors.New(perrors.KindTypeMismatch, "box must be 32 bytes")
	}
	hi, _ := DecodePoint(buf[0:16])
	lo, _ := DecodePoint(buf[16:32])
	return Box{hi, lo}, nil
}

type Path struct {
	Closed bool
	Points []Point
}

func EncodePath(p Path) []byte {
	buf := make([]byte, 0, 5+16*len(p.Points))
	buf = append(buf, boolByte(p.Closed))
	buf = append(buf, EncodeInt4(int32(len(p.Points)))...)
	for _, pt := range p.Points {
		buf = append(buf, EncodePoint(pt)...)
	}
	return buf
}

func DecodePath(buf []byte) (Path, error) {
	if len(buf) < 5 {
		return Path{}, perrors.New(perrors.KindTypeMismatch, "path header truncated")
	}
	closed := buf[0] != 0
	n, err := DecodeInt4(buf[1:5])
	if err != nil {
		return Path{}, err
	}
	pts := make([]Point, n)
	off := 5
	for i := 0; i < int(n); i++ {
		if len(buf) < off+16 {
			return Path{}, perrors.New(perrors.KindTypeMismatch, "path points truncated")
		}
		p, err := DecodePoint(buf[off : off+16])
		if err != nil {
			return Path{}, err
		}
		pts[i] = p
		off += 16
	}
	return Path{Closed: closed, Points: pts}, nil
}

// Polygon carries a bounding box computed on decode from its point extents
// (§3 Polygon, §4.A polygon: "bounding box computed on decode from extents").
type Polygon struct {
	Points []Point
	Bounds Box
}

func EncodePolygon(p Polygon) []byte {
	buf := make([]byte, 0, 4+16*len(p.Points))
	buf = append(buf, EncodeInt4(int32(len(p.Points)))...)
	for _, pt := range p.Points {
		buf = append(buf, EncodePoint(pt)...)
	}
	return buf
}

func DecodePolygon(buf []byte) (Polygon, error) {
	if len(buf) < 4 {
		return Polygon{}, perrors.New(perrors.KindTypeMismatch, "polygon header truncated")
	}
	n, err := DecodeInt4(buf[0:4])
	if err != nil {
		return Polygon{}, err
	}
	pts := make([]Point, n)
	off := 4
	for i := 0; i < int(n); i++ {
		if len(buf) < off+16 {
			return Polygon{}, perrors.New(perrors.KindTypeMismatch, "polygon points truncated")
		}
		p, err := DecodePoint(buf[off : off+16])
		if err != nil {
			return Polygon{}, err
		}
		pts[i] = p
		off += 16
	}
	poly := Polygon{Points: pts}
	if len(pts) > 0 {
		hi, lo := pts[0], pts[0]
		for _, p := range pts[1:] {
			if p.X > hi.X {
				hi.X = p.X
			}
			if p.Y > hi.Y {
				hi.Y = p.Y
			}
			if p.X < lo.X {
				lo.X = p.X
			}
			if p.Y < lo.Y {
				lo.Y = p.Y
			}
		}
		poly.Bounds = Box{High: hi, Low: lo}
	}
	return poly, nil
}

type Circle struct {
	Center Point
	Radius float64
}

func EncodeCircle(c Circle) []byte {
	buf := EncodePoint(c.Center)
	return append(buf, encodeF8(c.Radius)...)
}

func DecodeCircle(buf []byte) (Circle, error) {
	if len(buf) != 24 {
		return Circle{}, perrors.New(perrors.KindTypeMismatch, "circle must be 24 bytes")
	}
	c, _ := DecodePoint(buf[0:16])
	r, _ := decodeF8(buf[16:24])
	return Circle{Center: c, Radius: r}, nil
}
