package geometry

import "slices"

type ShapeKind string

const (
	ShapeRect    ShapeKind = "rect"
	ShapeCircle  ShapeKind = "circle"
	ShapePolygon ShapeKind = "polygon"
	ShapeLine    ShapeKind = "line"
)

// Shape is the geometric payload of a shape node. Kind selects which of the
// payload fields are meaningful; Position, Rotation and Scale are shared.
//
// Position is the top-left corner of a rect and the center of a circle.
// Polygon points and line endpoints are local to Position.
type Shape struct {
	Kind     ShapeKind `json:"kind"`
	Position Vec2      `json:"position"`
	Rotation float64   `json:"rotation"`
	Scale    Vec2      `json:"scale"`

	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Radius float64 `json:"radius,omitempty"`
	Points []Vec2  `json:"points,omitempty"`
	A      Vec2    `json:"a,omitzero"`
	B      Vec2    `json:"b,omitzero"`
}

func NewRect(x, y, width, height float64) Shape {
	return Shape{Kind: ShapeRect, Position: V(x, y), Scale: V(1, 1), Width: width, Height: height}
}

func NewCircle(cx, cy, radius float64) Shape {
	return Shape{Kind: ShapeCircle, Position: V(cx, cy), Scale: V(1, 1), Radius: radius}
}

func NewPolygon(points ...Vec2) Shape {
	return Shape{Kind: ShapePolygon, Scale: V(1, 1), Points: slices.Clone(points)}
}

func NewLine(a, b Vec2) Shape {
	return Shape{Kind: ShapeLine, Scale: V(1, 1), A: a, B: b}
}

// Clone returns a copy that shares no memory with s.
func (s Shape) Clone() Shape {
	s.Points = slices.Clone(s.Points)
	return s
}

// Rect returns the world-space rectangle of a rect shape.
func (s Shape) Rect() Rect {
	return Rect{X: s.Position.X, Y: s.Position.Y, Width: s.Width, Height: s.Height}
}

func (s Shape) Circle() Circle {
	return Circle{Center: s.Position, Radius: s.Radius}
}

// Polygon returns the polygon with its points offset into world space.
func (s Shape) Polygon() Polygon {
	pts := make([]Vec2, len(s.Points))
	for i, p := range s.Points {
		pts[i] = p.Add(s.Position)
	}
	return Polygon{Points: pts}
}

func (s Shape) Line() Line {
	return Line{A: s.A.Add(s.Position), B: s.B.Add(s.Position)}
}

// HitTest reports whether p falls on the shape. tolerance applies to lines.
func (s Shape) HitTest(p Vec2, tolerance float64) bool {
	switch s.Kind {
	case ShapeRect:
		return s.Rect().Contains(p)
	case ShapeCircle:
		return s.Circle().Contains(p)
	case ShapePolygon:
		return s.Polygon().Contains(p)
	case ShapeLine:
		return s.Line().Contains(p, tolerance)
	default:
		return false
	}
}

// Bounds returns the world-space bounding box of the shape. ok is false for
// shapes with nothing to bound: rects without area and empty point sets.
func (s Shape) Bounds() (BBox, bool) {
	switch s.Kind {
	case ShapeRect:
		if s.Width == 0 || s.Height == 0 {
			return BBox{}, false
		}
		corners := s.Rect().Corners()
		return BBoxOfPoints(corners[:]), true
	case ShapeCircle:
		return s.Circle().BBox(), true
	case ShapePolygon:
		if len(s.Points) == 0 {
			return BBox{}, false
		}
		return s.Polygon().BBox(), true
	case ShapeLine:
		return s.Line().BBox(), true
	default:
		return BBox{}, false
	}
}
