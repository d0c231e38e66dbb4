package geometry

import "math"

// DefaultLineTolerance is the hit distance for line segments in world units.
const DefaultLineTolerance = 2.0

type Circle struct {
	Center Vec2    `json:"center"`
	Radius float64 `json:"radius"`
}

// Contains reports whether p is within the circle, boundary inclusive.
func (c Circle) Contains(p Vec2) bool {
	return p.Distance(c.Center) <= c.Radius
}

func (c Circle) BBox() BBox {
	return BBox{
		MinX: c.Center.X - c.Radius,
		MinY: c.Center.Y - c.Radius,
		MaxX: c.Center.X + c.Radius,
		MaxY: c.Center.Y + c.Radius,
	}
}

type Polygon struct {
	Points []Vec2 `json:"points"`
}

// Contains applies the even-odd ray casting rule. Polygons with fewer than
// three points contain nothing.
func (poly Polygon) Contains(p Vec2) bool {
	pts := poly.Points
	if len(pts) < 3 {
		return false
	}

	inside := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		xi, yi := pts[i].X, pts[i].Y
		xj, yj := pts[j].X, pts[j].Y

		if (yi > p.Y) != (yj > p.Y) && p.X < (xj-xi)*(p.Y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// Area returns the unsigned shoelace area.
func (poly Polygon) Area() float64 {
	pts := poly.Points
	if len(pts) < 2 {
		return 0
	}
	var sum float64
	for i := range pts {
		sum += pts[i].Cross(pts[(i+1)%len(pts)])
	}
	return math.Abs(sum) / 2
}

func (poly Polygon) BBox() BBox {
	return BBoxOfPoints(poly.Points)
}

type Line struct {
	A Vec2 `json:"a"`
	B Vec2 `json:"b"`
}

func (l Line) Length() float64 { return l.A.Distance(l.B) }

// PointAt returns the point at parameter t along the segment.
func (l Line) PointAt(t float64) Vec2 { return l.A.Lerp(l.B, t) }

// ClosestPoint projects p onto the segment, clamped to its endpoints.
func (l Line) ClosestPoint(p Vec2) Vec2 {
	d := l.B.Sub(l.A)
	lengthSq := d.LengthSq()
	if lengthSq == 0 {
		return l.A
	}
	t := Clamp(p.Sub(l.A).Dot(d)/lengthSq, 0, 1)
	return l.A.Add(d.Scale(t))
}

// Contains reports whether p lies within tolerance of the segment. A
// zero-length segment degrades to a point distance check.
func (l Line) Contains(p Vec2, tolerance float64) bool {
	return p.Sub(l.ClosestPoint(p)).LengthSq() <= tolerance*tolerance
}

func (l Line) BBox() BBox {
	return BBoxOfPoints([]Vec2{l.A, l.B})
}

// CircleRectIntersect reports whether c overlaps r, using the point of r
// closest to the circle center.
func CircleRectIntersect(c Circle, r Rect) bool {
	closest := Vec2{
		X: Clamp(c.Center.X, r.X, r.X+r.Width),
		Y: Clamp(c.Center.Y, r.Y, r.Y+r.Height),
	}
	return c.Center.Sub(closest).LengthSq() <= c.Radius*c.Radius
}

// LineLineIntersection returns the intersection of the infinite lines through
// p1-p2 and p3-p4. Parallel lines report false.
func LineLineIntersection(p1, p2, p3, p4 Vec2) (Vec2, bool) {
	den := (p1.X-p2.X)*(p3.Y-p4.Y) - (p1.Y-p2.Y)*(p3.X-p4.X)
	if math.Abs(den) < 1e-6 {
		return Vec2{}, false
	}

	a := p1.X*p2.Y - p1.Y*p2.X
	b := p3.X*p4.Y - p3.Y*p4.X
	return Vec2{
		X: (a*(p3.X-p4.X) - (p1.X-p2.X)*b) / den,
		Y: (a*(p3.Y-p4.Y) - (p1.Y-p2.Y)*b) / den,
	}, true
}

// SubdivideLine returns segments+1 evenly spaced points from a to b.
func SubdivideLine(a, b Vec2, segments int) []Vec2 {
	if segments <= 0 {
		return []Vec2{a}
	}
	out := make([]Vec2, 0, segments+1)
	for i := 0; i <= segments; i++ {
		out = append(out, a.Lerp(b, float64(i)/float64(segments)))
	}
	return out
}
