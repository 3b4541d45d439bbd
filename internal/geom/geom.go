package geom

import "math"

// Point is a location in either canvas or screen space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns the vector from q to p.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// RectFromPoints returns the normalised rect spanned by two corners.
func RectFromPoints(a, b Point) Rect {
	minX, maxX := min(a.X, b.X), max(a.X, b.X)
	minY, maxY := min(a.Y, b.Y), max(a.Y, b.Y)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// MaxX returns the right edge.
func (r Rect) MaxX() float64 { return r.X + r.Width }

// MaxY returns the bottom edge.
func (r Rect) MaxY() float64 { return r.Y + r.Height }

// Min returns the top-left corner.
func (r Rect) Min() Point { return Point{X: r.X, Y: r.Y} }

// Max returns the bottom-right corner.
func (r Rect) Max() Point { return Point{X: r.MaxX(), Y: r.MaxY()} }

// Contains checks if a point is inside the rect, edges included.
func (r Rect) Contains(p Point) bool {
	return PointInRect(p, r)
}

// IsEmpty checks if the rect has zero or negative area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both rects.
func (r Rect) Union(other Rect) Rect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return unionOf(r, other)
}

func unionOf(a, b Rect) Rect {
	minX := min(a.X, b.X)
	minY := min(a.Y, b.Y)
	maxX := max(a.MaxX(), b.MaxX())
	maxY := max(a.MaxY(), b.MaxY())
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Expand grows the rect by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		X:      r.X - margin,
		Y:      r.Y - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Translate returns the rect moved by (dx, dy).
func (r Rect) Translate(dx, dy float64) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, Width: r.Width, Height: r.Height}
}

// Center returns the center point of the rect.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Distance returns the euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// RectsIntersect reports whether a and b overlap. Edges are closed, so
// rects that only touch intersect.
func RectsIntersect(a, b Rect) bool {
	return !(b.X > a.MaxX() || b.MaxX() < a.X ||
		b.Y > a.MaxY() || b.MaxY() < a.Y)
}

// PointInRect reports whether p lies in r, all four edges included.
func PointInRect(p Point, r Rect) bool {
	return p.X >= r.X && p.X <= r.MaxX() && p.Y >= r.Y && p.Y <= r.MaxY()
}

// PointToSegmentDistance returns the distance from p to the segment s-e.
// The projection is clamped to the segment's endpoints.
func PointToSegmentDistance(p, s, e Point) float64 {
	dx := e.X - s.X
	dy := e.Y - s.Y
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return Distance(p, s)
	}

	t := ((p.X-s.X)*dx + (p.Y-s.Y)*dy) / lenSq
	t = max(0, min(1, t))

	proj := Point{X: s.X + t*dx, Y: s.Y + t*dy}
	return Distance(p, proj)
}

// MergeBounds returns the minimal rect enclosing every rect in rects, or the
// zero Rect when rects is empty.
func MergeBounds(rects []Rect) Rect {
	if len(rects) == 0 {
		return Rect{}
	}
	result := rects[0]
	for _, r := range rects[1:] {
		result = unionOf(result, r)
	}
	return result
}

// BoundsOf returns the minimal rect enclosing pts, or the zero Rect.
func BoundsOf(pts []Point) Rect {
	if len(pts) == 0 {
		return Rect{}
	}
	minX, minY := pts[0].X, pts[0].Y
	maxX, maxY := minX, minY
	for _, p := range pts[1:] {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
