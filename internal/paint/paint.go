// Package paint defines the paint context shapes draw themselves into and
// two implementations of it: a Recorder that compiles draw commands for a
// browser Canvas2D frontend, and a Raster that paints into an image.
//
// All coordinates are screen-space CSS pixels.
package paint

import (
	"image/color"
	"strconv"
	"strings"

	"github.com/inamate/sketchboard/internal/geom"
	"golang.org/x/image/colornames"
)

// Canvas is the paint context capability. It follows the Canvas2D model:
// Save/Restore bracket state changes, ClipRect narrows the current clip,
// and a path is built with BeginPath/MoveTo/LineTo then filled or stroked.
type Canvas interface {
	Save()
	Restore()
	ClipRect(r geom.Rect)
	ClearRect(r geom.Rect)

	SetFill(color string)
	SetStroke(color string, width float64)
	SetAlpha(alpha float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(r geom.Rect)
	ClosePath()
	Fill()
	Stroke()
}

// ParseColor parses "#rgb", "#rrggbb", "#rrggbbaa" or a CSS colour name.
// It reports false for "", "none", "transparent" and anything unparseable.
func ParseColor(s string) (color.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "", "none", "transparent":
		return color.RGBA{}, false
	}

	if !strings.HasPrefix(s, "#") {
		c, ok := colornames.Map[s]
		return c, ok
	}

	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, false
	}

	// Straight alpha in the string, premultiplied in color.RGBA.
	a := uint32(v & 0xff)
	return color.RGBA{
		R: uint8(uint32(v>>24&0xff) * a / 0xff),
		G: uint8(uint32(v>>16&0xff) * a / 0xff),
		B: uint8(uint32(v>>8&0xff) * a / 0xff),
		A: uint8(a),
	}, true
}
