package document

import (
	"math/rand/v2"
	"time"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/typeid"
)

var samplePalette = []Style{
	{Fill: "#e94560", Stroke: "#000000", StrokeWidth: 2, Opacity: 1},
	{Fill: "#0f3460", Stroke: "#16213e", StrokeWidth: 2, Opacity: 1},
	{Fill: "#53d769", Stroke: "#2d6a4f", StrokeWidth: 2, Opacity: 1},
	{Fill: "#f5a623", Stroke: "#c78400", StrokeWidth: 2, Opacity: 1},
	{Stroke: "#bd10e0", StrokeWidth: 3, Opacity: 1},
}

// NewSampleBoard generates n shapes scattered over a 1280x720 canvas. The
// same seed always produces the same geometry; ids are fresh.
func NewSampleBoard(id string, n int, seed uint64) *Board {
	now := time.Now().UTC().Format(time.RFC3339)
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	b := NewEmptyBoard(id, "Sample")
	b.CreatedAt = now
	b.UpdatedAt = now

	for i := range n {
		style := samplePalette[i%len(samplePalette)]
		x := rng.Float64() * float64(b.Width-100)
		y := rng.Float64() * float64(b.Height-100)

		if i%3 == 2 {
			pts := make([]geom.Point, 2+rng.IntN(6))
			p := geom.Pt(x, y)
			for j := range pts {
				pts[j] = p
				p = p.Add(geom.Pt(rng.Float64()*20, rng.Float64()*20-10))
			}
			origin := geom.BoundsOf(pts).Min()
			style.Fill = ""
			b.Shapes = append(b.Shapes, Shape{
				ID:     typeid.NewShapeID(),
				Type:   ShapeTypePath,
				X:      origin.X,
				Y:      origin.Y,
				Points: pts,
				Style:  style,
			})
			continue
		}

		b.Shapes = append(b.Shapes, Shape{
			ID:     typeid.NewShapeID(),
			Type:   ShapeTypeRect,
			X:      x,
			Y:      y,
			Width:  10 + rng.Float64()*90,
			Height: 10 + rng.Float64()*90,
			Style:  style,
		})
	}
	return b
}
