package shape

import (
	"errors"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/typeid"
)

var (
	ErrTooSmall     = errors.New("shape: rectangle below minimum size")
	ErrTooFewPoints = errors.New("shape: path needs at least two points")
)

// DefaultMinSize is the smallest accepted rectangle side in canvas units.
const DefaultMinSize = 5.0

// Factory builds shapes from completed gestures and rejects degenerate ones.
type Factory struct {
	MinSize float64
	Style   Style
	NewID   func() string
}

// NewFactory returns a factory with the default minimum size and style.
func NewFactory() *Factory {
	return &Factory{MinSize: DefaultMinSize, Style: DefaultStyle, NewID: typeid.NewShapeID}
}

// NewRectangle builds a rectangle spanning start and end in canvas space.
func (f *Factory) NewRectangle(start, end geom.Point) (*Shape, error) {
	r := geom.RectFromPoints(start, end)
	if r.Width < f.MinSize || r.Height < f.MinSize {
		return nil, ErrTooSmall
	}
	return &Shape{
		ID:     f.id(),
		Kind:   KindRectangle,
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		Style:  f.Style,
	}, nil
}

// NewPath builds a freehand path from canvas-space points.
// The points are copied.
func (f *Factory) NewPath(points []geom.Point) (*Shape, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	origin := geom.BoundsOf(points).Min()
	return &Shape{
		ID:     f.id(),
		Kind:   KindPath,
		X:      origin.X,
		Y:      origin.Y,
		Points: append([]geom.Point(nil), points...),
		Style:  f.Style,
	}, nil
}

func (f *Factory) id() string {
	if f.NewID == nil {
		return typeid.NewShapeID()
	}
	return f.NewID()
}
