// Package render repaints only the screen regions that changed.
//
// Changes are queued as screen-space dirty rects. Each Tick either repaints
// the whole screen (after a view change or while a gesture preview is live)
// or clips to every queued rect in turn and repaints the shapes the index
// returns for it.
package render

import (
	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/paint"
	"github.com/inamate/sketchboard/internal/shape"
	"github.com/inamate/sketchboard/internal/viewport"
)

// DefaultMargin pads each dirty rect so antialiased edges are repainted.
const DefaultMargin = 2.0

// Source answers region queries in draw order. *scene.Scene implements it.
type Source interface {
	Query(region geom.Rect) []*shape.Shape
}

// Preview is painted on top of the scene in screen space on every frame
// while set. A *shape.Shape is a valid preview.
type Preview interface {
	Render(c paint.Canvas, t geom.Transform)
}

// Frame summarises one Tick. Regions counts the dirty regions painted and is
// zero for a full repaint.
type Frame struct {
	Painted bool
	Full    bool
	Regions int
	Shapes  int
}

type Option func(*Renderer)

// WithMargin sets the dirty rect padding in screen pixels.
func WithMargin(m float64) Option {
	return func(r *Renderer) { r.margin = m }
}

// WithBackground fills cleared areas with a colour instead of leaving them
// transparent.
func WithBackground(color string) Option {
	return func(r *Renderer) { r.background = color }
}

// WithCoalescing merges overlapping dirty rects before painting.
func WithCoalescing(on bool) Option {
	return func(r *Renderer) { r.coalesce = on }
}

// Renderer owns the dirty queue. Like the scene it is driven from a single
// goroutine.
type Renderer struct {
	src        Source
	vp         *viewport.Viewport
	margin     float64
	background string
	coalesce   bool

	full    bool
	dirty   []geom.Rect
	preview Preview
}

// New creates a renderer. The first Tick paints everything.
func New(src Source, vp *viewport.Viewport, opts ...Option) *Renderer {
	r := &Renderer{src: src, vp: vp, margin: DefaultMargin, full: true}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MarkDirty queues a screen-space rect for repaint.
func (r *Renderer) MarkDirty(screen geom.Rect) {
	if screen.IsEmpty() {
		return
	}
	r.dirty = append(r.dirty, screen)
}

// MarkCanvasDirty queues a canvas-space rect, converted through the current
// view transform.
func (r *Renderer) MarkCanvasDirty(canvas geom.Rect) {
	r.MarkDirty(r.vp.CanvasToScreenRect(canvas))
}

// InvalidateAll requests a full repaint on the next Tick.
func (r *Renderer) InvalidateAll() {
	r.full = true
}

// SetPreview installs p; the renderer repaints fully until it is cleared.
func (r *Renderer) SetPreview(p Preview) {
	r.preview = p
}

// ClearPreview removes the preview and schedules one more full repaint to
// erase it.
func (r *Renderer) ClearPreview() {
	if r.preview != nil {
		r.preview = nil
		r.full = true
	}
}

// Pending reports whether the next Tick would paint.
func (r *Renderer) Pending() bool {
	return r.full || r.preview != nil || len(r.dirty) > 0
}

// Tick paints whatever is outstanding into c.
func (r *Renderer) Tick(c paint.Canvas) Frame {
	var f Frame
	t := r.vp.Transform()

	switch {
	case r.full || r.preview != nil:
		f = Frame{Painted: true, Full: true}
		r.clear(c, r.vp.ScreenBounds())
		f.Shapes = r.paintShapes(c, r.src.Query(r.vp.VisibleCanvasBounds()), t)
	case len(r.dirty) == 0:
		return f
	default:
		regions := r.dirty
		if r.coalesce {
			regions = Coalesce(regions)
		}
		f = Frame{Painted: true, Regions: len(regions)}
		for _, region := range regions {
			region = region.Expand(r.margin)
			c.Save()
			c.ClipRect(region)
			r.clear(c, region)
			shapes := r.src.Query(r.vp.ScreenToCanvasRect(region))
			f.Shapes += r.paintShapes(c, shapes, t)
			c.Restore()
		}
	}

	r.full = false
	r.dirty = r.dirty[:0]

	if r.preview != nil {
		r.preview.Render(c, t)
	}
	return f
}

func (r *Renderer) clear(c paint.Canvas, region geom.Rect) {
	c.ClearRect(region)
	if r.background == "" {
		return
	}
	c.Save()
	c.SetFill(r.background)
	c.BeginPath()
	c.Rect(region)
	c.Fill()
	c.Restore()
}

func (r *Renderer) paintShapes(c paint.Canvas, shapes []*shape.Shape, t geom.Transform) int {
	for _, s := range shapes {
		s.Render(c, t)
	}
	return len(shapes)
}

// Coalesce merges rects that overlap until none do. The result covers the
// same area or more.
func Coalesce(rects []geom.Rect) []geom.Rect {
	out := append([]geom.Rect(nil), rects...)
	for merged := true; merged; {
		merged = false
		for i := 0; i < len(out); i++ {
			for j := i + 1; j < len(out); j++ {
				if geom.RectsIntersect(out[i], out[j]) {
					out[i] = out[i].Union(out[j])
					out = append(out[:j], out[j+1:]...)
					merged = true
					j--
				}
			}
		}
	}
	return out
}
