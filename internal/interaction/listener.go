package interaction

import (
	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/shape"
)

// Listener receives the controller's notifications synchronously, from
// inside the pointer or key handler that caused them. All points are in
// canvas space.
type Listener interface {
	// SelectionChanged reports the new selection; nil means none.
	SelectionChanged(sel *shape.Shape)
	// ShapeMoved reports a dragged shape and its bounds before the move.
	ShapeMoved(sh *shape.Shape, oldBounds geom.Rect)
	PathDrawing(points []geom.Point)
	PathComplete(points []geom.Point)
	RectangleDrawing(start, end geom.Point)
	RectangleComplete(start, end geom.Point)
}

// NopListener ignores every notification.
type NopListener struct{}

func (NopListener) SelectionChanged(*shape.Shape) {}
func (NopListener) ShapeMoved(*shape.Shape, geom.Rect) {}
func (NopListener) PathDrawing([]geom.Point) {}
func (NopListener) PathComplete([]geom.Point) {}
func (NopListener) RectangleDrawing(geom.Point, geom.Point) {}
func (NopListener) RectangleComplete(geom.Point, geom.Point) {}
