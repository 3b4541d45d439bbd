package paint

import (
	"image"
	"image/color"
	"math"

	"github.com/inamate/sketchboard/internal/geom"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type rasterState struct {
	fill        color.RGBA
	hasFill     bool
	stroke      color.RGBA
	hasStroke   bool
	strokeWidth float64
	alpha       float64
	clip        image.Rectangle
}

type subpath struct {
	points []geom.Point // device pixels
	closed bool
}

// Raster is a Canvas that paints into an RGBA image sized in device pixels.
// Screen coordinates are multiplied by the pixel ratio.
type Raster struct {
	img   *image.RGBA
	ratio float64
	state rasterState
	stack []rasterState
	path  []subpath
	z     *vector.Rasterizer
}

// NewRaster creates a raster canvas of width x height device pixels.
func NewRaster(width, height int, pixelRatio float64) *Raster {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Raster{
		img:   img,
		ratio: pixelRatio,
		state: rasterState{strokeWidth: 1, alpha: 1, clip: img.Bounds()},
		z:     vector.NewRasterizer(1, 1),
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.RGBA {
	return r.img
}

func (r *Raster) Save() {
	r.stack = append(r.stack, r.state)
}

func (r *Raster) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
}

func (r *Raster) ClipRect(rect geom.Rect) {
	r.state.clip = r.state.clip.Intersect(r.deviceRect(rect))
}

func (r *Raster) ClearRect(rect geom.Rect) {
	area := r.deviceRect(rect).Intersect(r.state.clip)
	if area.Empty() {
		return
	}
	draw.Draw(r.img, area, image.Transparent, image.Point{}, draw.Src)
}

func (r *Raster) SetFill(c string) {
	r.state.fill, r.state.hasFill = ParseColor(c)
}

func (r *Raster) SetStroke(c string, width float64) {
	r.state.stroke, r.state.hasStroke = ParseColor(c)
	r.state.strokeWidth = width
}

func (r *Raster) SetAlpha(alpha float64) {
	r.state.alpha = max(0, min(1, alpha))
}

func (r *Raster) BeginPath() {
	r.path = r.path[:0]
}

func (r *Raster) MoveTo(x, y float64) {
	r.path = append(r.path, subpath{points: []geom.Point{r.device(x, y)}})
}

func (r *Raster) LineTo(x, y float64) {
	if len(r.path) == 0 {
		r.MoveTo(x, y)
		return
	}
	last := &r.path[len(r.path)-1]
	last.points = append(last.points, r.device(x, y))
}

func (r *Raster) Rect(rect geom.Rect) {
	r.MoveTo(rect.X, rect.Y)
	r.LineTo(rect.MaxX(), rect.Y)
	r.LineTo(rect.MaxX(), rect.MaxY())
	r.LineTo(rect.X, rect.MaxY())
	r.ClosePath()
}

func (r *Raster) ClosePath() {
	if len(r.path) > 0 {
		r.path[len(r.path)-1].closed = true
	}
}

func (r *Raster) Fill() {
	if !r.state.hasFill || len(r.path) == 0 {
		return
	}
	var polys [][]geom.Point
	for _, sp := range r.path {
		if len(sp.points) >= 3 {
			polys = append(polys, sp.points)
		}
	}
	r.paintPolygons(polys, r.state.fill)
}

// Stroke polygonises every segment into a quad extended by half the width
// at both ends, which gives square caps and joins.
func (r *Raster) Stroke() {
	if !r.state.hasStroke || r.state.strokeWidth <= 0 || len(r.path) == 0 {
		return
	}
	half := r.state.strokeWidth * r.ratio / 2

	var polys [][]geom.Point
	for _, sp := range r.path {
		pts := sp.points
		if sp.closed && len(pts) > 1 {
			pts = append(pts[:len(pts):len(pts)], pts[0])
		}
		if len(pts) == 1 {
			p := pts[0]
			polys = append(polys, []geom.Point{
				{X: p.X - half, Y: p.Y - half}, {X: p.X + half, Y: p.Y - half},
				{X: p.X + half, Y: p.Y + half}, {X: p.X - half, Y: p.Y + half},
			})
			continue
		}
		for i := 1; i < len(pts); i++ {
			if q := segmentQuad(pts[i-1], pts[i], half); q != nil {
				polys = append(polys, q)
			}
		}
	}
	r.paintPolygons(polys, r.state.stroke)
}

func segmentQuad(a, b geom.Point, half float64) []geom.Point {
	length := geom.Distance(a, b)
	if length == 0 {
		return nil
	}
	dx, dy := (b.X-a.X)/length*half, (b.Y-a.Y)/length*half
	nx, ny := -dy, dx
	a = geom.Point{X: a.X - dx, Y: a.Y - dy}
	b = geom.Point{X: b.X + dx, Y: b.Y + dy}
	return []geom.Point{
		{X: a.X + nx, Y: a.Y + ny},
		{X: b.X + nx, Y: b.Y + ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: a.X - nx, Y: a.Y - ny},
	}
}

// paintPolygons rasterises polys into a coverage mask limited to their
// bounds and the current clip, then composites c through it.
func (r *Raster) paintPolygons(polys [][]geom.Point, c color.RGBA) {
	if len(polys) == 0 {
		return
	}
	var all []geom.Point
	for _, p := range polys {
		all = append(all, p...)
	}
	b := geom.BoundsOf(all)
	area := image.Rect(
		int(math.Floor(b.X)), int(math.Floor(b.Y)),
		int(math.Ceil(b.MaxX())), int(math.Ceil(b.MaxY())),
	).Intersect(r.state.clip)
	if area.Empty() {
		return
	}

	w, h := area.Dx(), area.Dy()
	r.z.Reset(w, h)
	ox, oy := float64(area.Min.X), float64(area.Min.Y)
	for _, poly := range polys {
		r.z.MoveTo(float32(poly[0].X-ox), float32(poly[0].Y-oy))
		for _, p := range poly[1:] {
			r.z.LineTo(float32(p.X-ox), float32(p.Y-oy))
		}
		r.z.ClosePath()
	}

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	r.z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	src := image.NewUniform(scaleAlpha(c, r.state.alpha))
	draw.DrawMask(r.img, area, src, image.Point{}, mask, image.Point{}, draw.Over)
}

func scaleAlpha(c color.RGBA, alpha float64) color.RGBA {
	if alpha >= 1 {
		return c
	}
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(float64(c.A) * alpha),
	}
}

func (r *Raster) device(x, y float64) geom.Point {
	return geom.Point{X: x * r.ratio, Y: y * r.ratio}
}

func (r *Raster) deviceRect(rect geom.Rect) image.Rectangle {
	return image.Rect(
		int(math.Floor(rect.X*r.ratio)), int(math.Floor(rect.Y*r.ratio)),
		int(math.Ceil(rect.MaxX()*r.ratio)), int(math.Ceil(rect.MaxY()*r.ratio)),
	)
}
