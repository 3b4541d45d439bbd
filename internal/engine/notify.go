package engine

import (
	"log/slog"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/shape"
)

// notifier receives the interaction controller's notifications and turns
// them into renderer work and scene additions.
type notifier struct {
	e *Engine
}

func (n notifier) SelectionChanged(sel *shape.Shape) {
	e := n.e
	if prev := e.lastSelected; prev != nil {
		e.markShape(prev)
	}
	if sel != nil {
		e.markShape(sel)
	}
	e.lastSelected = sel
}

func (n notifier) ShapeMoved(sh *shape.Shape, oldBounds geom.Rect) {
	e := n.e
	e.renderer.MarkCanvasDirty(oldBounds)
	e.markShape(sh)
	e.modified = true
}

func (n notifier) PathDrawing(points []geom.Point) {
	e := n.e
	e.renderer.SetPreview(&shape.Shape{Kind: shape.KindPath, Points: points, Style: e.factory.Style})
}

func (n notifier) PathComplete(points []geom.Point) {
	e := n.e
	e.renderer.ClearPreview()
	sh, err := e.factory.NewPath(points)
	if err != nil {
		slog.Debug("path rejected", "error", err)
		return
	}
	n.add(sh)
}

func (n notifier) RectangleDrawing(start, end geom.Point) {
	e := n.e
	r := geom.RectFromPoints(start, end)
	e.renderer.SetPreview(&shape.Shape{
		Kind:   shape.KindRectangle,
		X:      r.X,
		Y:      r.Y,
		Width:  r.Width,
		Height: r.Height,
		Style:  e.factory.Style,
	})
}

func (n notifier) RectangleComplete(start, end geom.Point) {
	e := n.e
	e.renderer.ClearPreview()
	sh, err := e.factory.NewRectangle(start, end)
	if err != nil {
		slog.Debug("rectangle rejected", "error", err, "start", start, "end", end)
		return
	}
	n.add(sh)
}

func (n notifier) add(sh *shape.Shape) {
	if err := n.e.AddShape(sh); err != nil {
		slog.Debug("shape dropped", "id", sh.ID, "error", err)
	}
}
