// Package interaction turns normalised pointer, wheel and key input into
// scene mutations and notifications.
package interaction

import (
	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/scene"
	"github.com/inamate/sketchboard/internal/shape"
	"github.com/inamate/sketchboard/internal/viewport"
)

// Invalidator is told when the whole view must be repainted.
type Invalidator interface {
	InvalidateAll()
}

// Gesture is the in-progress gesture state. It is reset on pointer up and
// on mode switch.
type Gesture struct {
	Mode    Mode
	Active  bool
	Start   geom.Point
	Current geom.Point
	// Points is the freehand sequence in pen mode.
	Points []geom.Point
	// Dragged is the shape being moved in select mode.
	Dragged *shape.Shape
	// DragOffset is the pointer position relative to the dragged shape's
	// origin when the drag began.
	DragOffset geom.Point
}

// Controller is the interaction state machine. It is not safe for
// concurrent use.
type Controller struct {
	scene    *scene.Scene
	vp       *viewport.Viewport
	inv      Invalidator
	listener Listener

	mode    Mode
	gesture Gesture
}

func NewController(sc *scene.Scene, vp *viewport.Viewport, inv Invalidator) *Controller {
	return &Controller{scene: sc, vp: vp, inv: inv, listener: NopListener{}}
}

// SetListener installs the notification sink, replacing any previous one.
// A nil listener discards notifications.
func (c *Controller) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	c.listener = l
}

func (c *Controller) Mode() Mode {
	return c.mode
}

// SetMode switches mode, abandons any gesture and clears the selection.
func (c *Controller) SetMode(m Mode) {
	c.mode = m
	c.gesture = Gesture{Mode: m}
	c.ClearSelection()
}

// Gesture returns a copy of the in-progress gesture.
func (c *Controller) Gesture() Gesture {
	g := c.gesture
	g.Points = append([]geom.Point(nil), g.Points...)
	return g
}

// ClearSelection deselects and notifies if something was selected.
func (c *Controller) ClearSelection() {
	if c.scene.ClearSelection() != nil {
		c.listener.SelectionChanged(nil)
	}
}

// DeleteSelected removes the selected shape from the scene.
func (c *Controller) DeleteSelected() (*shape.Shape, bool) {
	sh, ok := c.scene.DeleteSelected()
	if !ok {
		return nil, false
	}
	if c.gesture.Dragged == sh {
		c.gesture = Gesture{Mode: c.mode}
	}
	c.listener.SelectionChanged(nil)
	return sh, true
}

func (c *Controller) PointerDown(screen geom.Point) {
	p := c.vp.ScreenToCanvas(screen)
	c.gesture = Gesture{Mode: c.mode, Active: true, Start: p, Current: p}

	switch c.mode {
	case ModeSelect:
		hit, ok := c.scene.HitTest(p)
		if !ok {
			c.gesture.Active = false
			c.ClearSelection()
			return
		}
		if prev := c.scene.Select(hit); prev != hit {
			c.listener.SelectionChanged(hit)
		}
		c.gesture.Dragged = hit
		c.gesture.DragOffset = p.Sub(hit.Origin())
	case ModePen:
		c.gesture.Points = []geom.Point{p}
		c.listener.PathDrawing(c.gesture.Points)
	case ModeRectangle:
		c.listener.RectangleDrawing(p, p)
	}
}

func (c *Controller) PointerMove(screen geom.Point) {
	if !c.gesture.Active {
		return
	}
	p := c.vp.ScreenToCanvas(screen)
	last := c.gesture.Current
	c.gesture.Current = p

	switch c.mode {
	case ModeSelect:
		sh := c.gesture.Dragged
		if sh == nil {
			return
		}
		d := p.Sub(last)
		if d == (geom.Point{}) {
			return
		}
		old := sh.BoundingBox()
		sh.Translate(d.X, d.Y)
		c.scene.Update(sh)
		c.listener.ShapeMoved(sh, old)
	case ModePen:
		c.gesture.Points = append(c.gesture.Points, p)
		c.listener.PathDrawing(c.gesture.Points)
	case ModeRectangle:
		c.listener.RectangleDrawing(c.gesture.Start, p)
	}
}

func (c *Controller) PointerUp(screen geom.Point) {
	if !c.gesture.Active {
		return
	}
	p := c.vp.ScreenToCanvas(screen)
	g := c.gesture
	c.gesture = Gesture{Mode: c.mode}

	switch c.mode {
	case ModeSelect:
		// The drag ends; the selection stays.
	case ModePen:
		if len(g.Points) > 1 {
			c.listener.PathComplete(g.Points)
		}
	case ModeRectangle:
		c.listener.RectangleComplete(g.Start, p)
	}
}

// Wheel zooms about the cursor.
func (c *Controller) Wheel(screen geom.Point, deltaY float64) {
	c.vp.Zoom(screen, deltaY)
	c.inv.InvalidateAll()
}

// Pan moves the view by a screen-space delta.
func (c *Controller) Pan(dx, dy float64) {
	c.vp.Pan(dx, dy)
	c.inv.InvalidateAll()
}

// KeyDown handles a key by its DOM key name and reports whether it did
// anything with it.
func (c *Controller) KeyDown(key string) bool {
	switch key {
	case "Delete", "Backspace":
		_, ok := c.DeleteSelected()
		return ok
	case "Escape":
		c.gesture = Gesture{Mode: c.mode}
		c.ClearSelection()
		return true
	case "v", "V":
		c.SetMode(ModeSelect)
		return true
	case "p", "P":
		c.SetMode(ModePen)
		return true
	case "r", "R":
		c.SetMode(ModeRectangle)
		return true
	}
	return false
}
