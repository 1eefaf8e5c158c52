package pgtype

import (
	"fmt"

	pqcodec "github.com/pq-async/pqgo/internal/codec"
)

type Point struct{ X, Y float64 }

func (p Point) String() string { return fmt.Sprintf("(%g,%g)", p.X, p.Y) }

func DecodePoint(buf []byte) (Point, error) {
	p, err := pqcodec.DecodePoint(buf)
	return Point(p), err
}

func (p Point) Encode() []byte { return pqcodec.EncodePoint(pqcodec.Point(p)) }

// Line stores the coefficients a,b,c of ax+by+c=0 (§3 Geometric).
type Line struct{ A, B, C float64 }

func (l Line) String() string { return fmt.Sprintf("{%g,%g,%g}", l.A, l.B, l.C) }

func DecodeLine(buf []byte) (Line, error) {
	l, err := pqcodec.DecodeLine(buf)
	return Line(l), err
}

func (l Line) Encode() []byte { return pqcodec.EncodeLine(pqcodec.Line(l)) }

type Lseg struct{ P1, P2 Point }

func (l Lseg) String() string { return fmt.Sprintf("[%s,%s]", l.P1, l.P2) }

func DecodeLseg(buf []byte) (Lseg, error) {
	l, err := pqcodec.DecodeLseg(buf)
	return Lseg{Point(l.P1), Point(l.P2)}, err
}

func (l Lseg) Encode() []byte {
	return pqcodec.EncodeLseg(pqcodec.Lseg{P1: pqcodec.Point(l.P1), P2: pqcodec.Point(l.P2)})
}

// Box stores high,low points; the caller is responsible for normalizing
// which corner is "high" (§3: "caller-normalized").
type Box struct{ High, Low Point }

func (b Box) String() string { return fmt.Sprintf("(%s,%s)", b.High, b.Low) }

func DecodeBox(buf []byte) (Box, error) {
	b, err := pqcodec.DecodeBox(buf)
	return Box{Point(b.High), Point(b.Low)}, err
}

func (b Box) Encode() []byte {
	return pqcodec.EncodeBox(pqcodec.Box{High: pqcodec.Point(b.High), Low: pqcodec.Point(b.Low)})
}

type Path struct {
	Closed bool
	Points []Point
}

func (p Path) String() string {
	open, close := "[", "]"
	if p.Closed {
		open, close = "(", ")"
	}
	s := open
	for i, pt := range p.Points {
		if i > 0 {
			s += ","
		}
		s += pt.String()
	}
	return s + close
}

func DecodePath(buf []byte) (Path, error) {
	p, err := pqcodec.DecodePath(buf)
	if err != nil {
		return Path{}, err
	}
	return Path{Closed: p.Closed, Points: toPoints(p.Points)}, nil
}

func (p Path) Encode() []byte {
	return pqcodec.EncodePath(pqcodec.Path{Closed: p.Closed, Points: fromPoints(p.Points)})
}

// Polygon carries a bounding box computed on decode from its point extents
// (§3 Polygon).
type Polygon struct {
	Points []Point
	Bounds Box
}

func (p Polygon) String() string {
	s := "("
	for i, pt := range p.Points {
		if i > 0 {
			s += ","
		}
		s += pt.String()
	}
	return s + ")"
}

func DecodePolygon(buf []byte) (Polygon, error) {
	p, err := pqcodec.DecodePolygon(buf)
	if err != nil {
		return Polygon{}, err
	}
	return Polygon{Points: toPoints(p.Points), Bounds: Box(p.Bounds)}, nil
}

func (p Polygon) Encode() []byte {
	return pqcodec.EncodePolygon(pqcodec.Polygon{Points: fromPoints(p.Points)})
}

type Circle struct {
	Center Point
	Radius float64
}

func (c Circle) String() string { return fmt.Sprintf("<%s,%g>", c.Center, c.Radius) }

func DecodeCircle(buf []byte) (Circle, error) {
	c, err := pqcodec.DecodeCircle(buf)
	return Circle{Center: Point(c.Center), Radius: c.Radius}, err
}

func (c Circle) Encode() []byte {
	return pqcodec.EncodeCircle(pqcodec.Circle{Center: pqcodec.Point(c.Center), Radius: c.Radius})
}

func toPoints(pts []pqcodec.Point) []Point {
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point(p)
	}
	return out
}

func fromPoints(pts []Point) []pqcodec.Point {
	out := make([]pqcodec.Point, len(pts))
	for i, p := range pts {
		out[i] = pqcodec.Point(p)
	}
	return out
}
