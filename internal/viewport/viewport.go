// Package viewport maps between screen space (CSS pixels) and canvas space.
package viewport

import (
	"github.com/inamate/sketchboard/internal/geom"
)

const (
	MinScale = 0.1
	MaxScale = 10.0

	zoomInFactor  = 1.1
	zoomOutFactor = 0.9
)

// Viewport holds the view transform and the screen size. The interaction
// controller is its only writer; the renderer reads it when painting.
type Viewport struct {
	t          geom.Transform
	width      float64
	height     float64
	pixelRatio float64
}

// New returns an identity viewport of the given screen size.
func New(width, height, pixelRatio float64) *Viewport {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	return &Viewport{t: geom.Identity(), width: width, height: height, pixelRatio: pixelRatio}
}

// Transform returns the current canvas-to-screen transform.
func (v *Viewport) Transform() geom.Transform {
	return v.t
}

// SetTransform replaces the transform. Scale is clamped to the zoom limits.
func (v *Viewport) SetTransform(t geom.Transform) {
	t.ScaleX = clamp(t.ScaleX)
	t.ScaleY = clamp(t.ScaleY)
	v.t = t
}

// Scale returns the zoom level.
func (v *Viewport) Scale() float64 {
	return v.t.ScaleX
}

// PixelRatio returns the device pixel ratio.
func (v *Viewport) PixelRatio() float64 {
	return v.pixelRatio
}

func (v *Viewport) ScreenToCanvas(p geom.Point) geom.Point {
	// Scale never leaves [MinScale, MaxScale], so the inverse always exists.
	c, _ := geom.ApplyInverseTransform(p, v.t)
	return c
}

func (v *Viewport) CanvasToScreen(p geom.Point) geom.Point {
	return geom.ApplyTransform(p, v.t)
}

func (v *Viewport) ScreenToCanvasRect(r geom.Rect) geom.Rect {
	c, _ := geom.InverseTransformRect(r, v.t)
	return c
}

func (v *Viewport) CanvasToScreenRect(r geom.Rect) geom.Rect {
	return geom.TransformRect(r, v.t)
}

// Pan moves the view by a screen-space delta.
func (v *Viewport) Pan(dx, dy float64) {
	v.t.TranslateX += dx
	v.t.TranslateY += dy
}

// Zoom scales about the screen point under the cursor. A negative wheel
// delta zooms in. The canvas point under screen stays put.
func (v *Viewport) Zoom(screen geom.Point, deltaY float64) {
	factor := zoomOutFactor
	if deltaY < 0 {
		factor = zoomInFactor
	}
	v.ZoomBy(screen, factor)
}

// ZoomBy multiplies the scale by factor about screen.
func (v *Viewport) ZoomBy(screen geom.Point, factor float64) {
	anchor := v.ScreenToCanvas(screen)
	scale := clamp(v.t.ScaleX * factor)
	v.t.ScaleX = scale
	v.t.ScaleY = scale
	v.t.TranslateX = screen.X - anchor.X*scale
	v.t.TranslateY = screen.Y - anchor.Y*scale
}

// Fit centres r on screen at the largest scale that shows all of it,
// leaving a small border.
func (v *Viewport) Fit(r geom.Rect) {
	if r.IsEmpty() || v.width <= 0 || v.height <= 0 {
		return
	}
	scale := min(v.width*0.9/r.Width, v.height*0.9/r.Height)
	scale = clamp(scale)
	c := r.Center()
	v.t = geom.Transform{
		ScaleX:     scale,
		ScaleY:     scale,
		TranslateX: v.width/2 - c.X*scale,
		TranslateY: v.height/2 - c.Y*scale,
	}
}

// Resize updates the screen size and pixel ratio. The transform is kept.
func (v *Viewport) Resize(width, height, pixelRatio float64) {
	v.width = width
	v.height = height
	if pixelRatio > 0 {
		v.pixelRatio = pixelRatio
	}
}

// ScreenBounds returns the whole screen in CSS pixels.
func (v *Viewport) ScreenBounds() geom.Rect {
	return geom.Rect{Width: v.width, Height: v.height}
}

// DeviceSize returns the backing store size in device pixels.
func (v *Viewport) DeviceSize() (int, int) {
	return int(v.width*v.pixelRatio + 0.5), int(v.height*v.pixelRatio + 0.5)
}

// VisibleCanvasBounds returns the canvas region currently on screen.
func (v *Viewport) VisibleCanvasBounds() geom.Rect {
	return v.ScreenToCanvasRect(v.ScreenBounds())
}

func clamp(s float64) float64 {
	return min(max(s, MinScale), MaxScale)
}
