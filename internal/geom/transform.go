package geom

import "errors"

// ErrSingularTransform is returned when a transform with a zero scale is
// inverted.
var ErrSingularTransform = errors.New("geom: transform has zero scale")

// Transform is the canvas to screen affine map:
//
//	screen.x = canvas.x*ScaleX + TranslateX
//	screen.y = canvas.y*ScaleY + TranslateY
//
// There is no rotation or skew; the whole scene shares one transform.
type Transform struct {
	ScaleX     float64 `json:"scaleX"`
	ScaleY     float64 `json:"scaleY"`
	TranslateX float64 `json:"translateX"`
	TranslateY float64 `json:"translateY"`
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{ScaleX: 1, ScaleY: 1}
}

// Invertible reports whether both scales are non-zero.
func (t Transform) Invertible() bool {
	return t.ScaleX != 0 && t.ScaleY != 0
}

// ToSlice returns the transform as a Canvas2D [a, b, c, d, e, f] matrix.
func (t Transform) ToSlice() []float64 {
	return []float64{t.ScaleX, 0, 0, t.ScaleY, t.TranslateX, t.TranslateY}
}

// ApplyTransform maps a canvas point to screen space.
func ApplyTransform(p Point, t Transform) Point {
	return Point{
		X: p.X*t.ScaleX + t.TranslateX,
		Y: p.Y*t.ScaleY + t.TranslateY,
	}
}

// ApplyInverseTransform maps a screen point back to canvas space.
func ApplyInverseTransform(p Point, t Transform) (Point, error) {
	if !t.Invertible() {
		return Point{}, ErrSingularTransform
	}
	return Point{
		X: (p.X - t.TranslateX) / t.ScaleX,
		Y: (p.Y - t.TranslateY) / t.ScaleY,
	}, nil
}

// TransformRect maps a canvas rect to its screen-space bounding box.
func TransformRect(r Rect, t Transform) Rect {
	return RectFromPoints(ApplyTransform(r.Min(), t), ApplyTransform(r.Max(), t))
}

// InverseTransformRect maps a screen rect to its canvas-space bounding box.
func InverseTransformRect(r Rect, t Transform) (Rect, error) {
	a, err := ApplyInverseTransform(r.Min(), t)
	if err != nil {
		return Rect{}, err
	}
	b, err := ApplyInverseTransform(r.Max(), t)
	if err != nil {
		return Rect{}, err
	}
	return RectFromPoints(a, b), nil
}
