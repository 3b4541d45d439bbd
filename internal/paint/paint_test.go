package paint

import (
	"encoding/json"
	"image/color"
	"testing"

	"github.com/inamate/sketchboard/internal/geom"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   color.RGBA
		wantOK bool
	}{
		{"#ff0000", color.RGBA{255, 0, 0, 255}, true},
		{"#0f0", color.RGBA{0, 255, 0, 255}, true},
		{"#0000ff80", color.RGBA{0, 0, 128, 128}, true},
		{"Red", color.RGBA{255, 0, 0, 255}, true},
		{"none", color.RGBA{}, false},
		{"", color.RGBA{}, false},
		{"#12", color.RGBA{}, false},
		{"#zzzzzz", color.RGBA{}, false},
		{"notacolour", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRecorderCommands(t *testing.T) {
	r := NewRecorder()
	r.Save()
	r.ClipRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 10})
	r.SetFill("#fff")
	r.SetStroke("#000", 2)
	r.BeginPath()
	r.Rect(geom.Rect{X: 1, Y: 1, Width: 5, Height: 5})
	r.Fill()
	r.Stroke()
	r.Restore()

	cmds := r.Commands()
	ops := make([]string, len(cmds))
	for i, c := range cmds {
		ops[i] = c.Op
	}
	want := []string{"save", "clip", "path", "path", "restore"}
	if len(ops) != len(want) {
		t.Fatalf("ops = %v, want %v", ops, want)
	}
	for i := range want {
		if ops[i] != want[i] {
			t.Fatalf("ops = %v, want %v", ops, want)
		}
	}
	if cmds[2].Fill != "#fff" || cmds[2].Stroke != "" {
		t.Errorf("fill command = %+v", cmds[2])
	}
	if cmds[3].Stroke != "#000" || cmds[3].StrokeWidth != 2 {
		t.Errorf("stroke command = %+v", cmds[3])
	}

	s, err := r.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded []map[string]any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		t.Fatalf("JSON output does not decode: %v", err)
	}

	r.Reset()
	if s, _ := r.JSON(); s != "[]" {
		t.Errorf("JSON after Reset = %s", s)
	}
}

func TestRecorderSkipsInvisiblePaint(t *testing.T) {
	r := NewRecorder()
	r.BeginPath()
	r.MoveTo(0, 0)
	r.LineTo(5, 5)
	r.Fill() // no fill colour set
	r.SetStroke("#000", 0)
	r.Stroke()
	if n := len(r.Commands()); n != 0 {
		t.Errorf("recorded %d commands, want 0", n)
	}
}

func TestRasterFillAndClip(t *testing.T) {
	r := NewRaster(20, 20, 1)
	r.Save()
	r.ClipRect(geom.Rect{X: 0, Y: 0, Width: 10, Height: 20})
	r.SetFill("#ff0000")
	r.BeginPath()
	r.Rect(geom.Rect{X: 2, Y: 2, Width: 16, Height: 16})
	r.Fill()
	r.Restore()

	img := r.Image()
	if got := img.RGBAAt(5, 5); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("inside clip pixel = %v, want red", got)
	}
	if got := img.RGBAAt(15, 5); got.A != 0 {
		t.Errorf("outside clip pixel = %v, want transparent", got)
	}
	if got := img.RGBAAt(1, 1); got.A != 0 {
		t.Errorf("outside shape pixel = %v, want transparent", got)
	}

	r.ClearRect(geom.Rect{X: 0, Y: 0, Width: 20, Height: 20})
	if got := img.RGBAAt(5, 5); got.A != 0 {
		t.Errorf("pixel after ClearRect = %v", got)
	}
}

func TestRasterStrokePixelRatio(t *testing.T) {
	r := NewRaster(40, 40, 2)
	r.SetStroke("#000000", 2)
	r.BeginPath()
	r.MoveTo(2, 10)
	r.LineTo(18, 10)
	r.Stroke()

	img := r.Image()
	// Screen (10, 10) is device (20, 20).
	if got := img.RGBAAt(20, 20); got.A != 255 {
		t.Errorf("stroke centre alpha = %d, want 255", got.A)
	}
	if got := img.RGBAAt(20, 30); got.A != 0 {
		t.Errorf("pixel away from stroke alpha = %d, want 0", got.A)
	}
}
