// Package shape implements the closed set of drawable shape kinds.
//
// Every capability (bounds, hit test, translation, painting) dispatches on
// Kind with an exhaustive switch; there is no open-ended interface.
package shape

import (
	"fmt"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/paint"
)

// Kind identifies the shape variant.
type Kind uint8

const (
	KindRectangle Kind = iota + 1
	KindPath
)

func (k Kind) String() string {
	switch k {
	case KindRectangle:
		return "rectangle"
	case KindPath:
		return "path"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "rectangle":
		return KindRectangle, true
	case "path":
		return KindPath, true
	}
	return 0, false
}

// HitTolerance is added to half the stroke width when hit testing paths.
const HitTolerance = 3.0

// Style holds paint attributes.
type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// DefaultStyle is used when a factory has no style configured.
var DefaultStyle = Style{Stroke: "#1f2937", StrokeWidth: 2, Opacity: 1}

// SelectionStroke outlines the selected shape.
const SelectionStroke = "#2563eb"

// Shape is a drawable element in canvas space.
//
// X and Y are the shape's origin: the top-left corner of a rectangle, and
// for a path the top-left of its points when it was created, moved along
// with the points by Translate.
type Shape struct {
	ID       string
	Kind     Kind
	X, Y     float64
	Width    float64 // rectangle only
	Height   float64 // rectangle only
	Points   []geom.Point
	Style    Style
	Selected bool
}

// Origin returns the shape's position.
func (s *Shape) Origin() geom.Point {
	return geom.Point{X: s.X, Y: s.Y}
}

// BoundingBox returns the axis-aligned bounds reflecting the current
// position. Bounds include half the stroke width, so they cover every
// painted pixel.
func (s *Shape) BoundingBox() geom.Rect {
	switch s.Kind {
	case KindRectangle:
		return s.box().Expand(s.Style.StrokeWidth / 2)
	case KindPath:
		return geom.BoundsOf(s.Points).Expand(s.Style.StrokeWidth / 2)
	default:
		return geom.Rect{}
	}
}

// box is the rectangle geometry without its stroke.
func (s *Shape) box() geom.Rect {
	return geom.Rect{X: s.X, Y: s.Y, Width: s.Width, Height: s.Height}
}

// ContainsPoint is the precise hit test.
func (s *Shape) ContainsPoint(p geom.Point) bool {
	switch s.Kind {
	case KindRectangle:
		return geom.PointInRect(p, s.BoundingBox())
	case KindPath:
		return s.pathContains(p)
	default:
		return false
	}
}

func (s *Shape) pathContains(p geom.Point) bool {
	reach := s.Style.StrokeWidth/2 + HitTolerance
	switch len(s.Points) {
	case 0:
		return false
	case 1:
		return geom.Distance(p, s.Points[0]) <= reach
	}
	for i := 1; i < len(s.Points); i++ {
		if geom.PointToSegmentDistance(p, s.Points[i-1], s.Points[i]) <= reach {
			return true
		}
	}
	return false
}

// Translate moves the shape by (dx, dy). Path points move with it.
func (s *Shape) Translate(dx, dy float64) {
	s.X += dx
	s.Y += dy
	if s.Kind == KindPath {
		for i := range s.Points {
			s.Points[i].X += dx
			s.Points[i].Y += dy
		}
	}
}

// Clone returns a deep copy.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Points = append([]geom.Point(nil), s.Points...)
	return &c
}

// Render paints the shape in screen space through t.
func (s *Shape) Render(c paint.Canvas, t geom.Transform) {
	c.Save()
	defer c.Restore()

	opacity := s.Style.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	c.SetAlpha(opacity)

	switch s.Kind {
	case KindRectangle:
		r := geom.TransformRect(s.box(), t)
		c.BeginPath()
		c.Rect(r)
		c.SetFill(s.Style.Fill)
		c.Fill()
		c.SetStroke(s.Style.Stroke, s.Style.StrokeWidth*t.ScaleX)
		c.Stroke()
	case KindPath:
		StrokePolyline(c, s.Points, t, s.Style.Stroke, s.Style.StrokeWidth)
	}

	if s.Selected {
		c.SetAlpha(1)
		c.SetStroke(SelectionStroke, 1)
		// Inset so the outline stays within the bounds.
		outline := geom.TransformRect(s.BoundingBox(), t)
		if outline.Width > 1 && outline.Height > 1 {
			outline = outline.Expand(-0.5)
		}
		c.BeginPath()
		c.Rect(outline)
		c.Stroke()
	}
}

// StrokePolyline strokes pts, given in canvas space, through t. It is also
// used for in-progress previews.
func StrokePolyline(c paint.Canvas, pts []geom.Point, t geom.Transform, stroke string, width float64) {
	if len(pts) == 0 {
		return
	}
	c.BeginPath()
	first := geom.ApplyTransform(pts[0], t)
	c.MoveTo(first.X, first.Y)
	for _, p := range pts[1:] {
		sp := geom.ApplyTransform(p, t)
		c.LineTo(sp.X, sp.Y)
	}
	c.SetStroke(stroke, width*t.ScaleX)
	c.Stroke()
}
