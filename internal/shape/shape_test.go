package shape

import (
	"errors"
	"fmt"
	"testing"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/paint"
)

func testFactory() *Factory {
	n := 0
	return &Factory{
		MinSize: DefaultMinSize,
		Style:   DefaultStyle,
		NewID: func() string {
			n++
			return fmt.Sprintf("shape_%d", n)
		},
	}
}

func TestFactoryRejectsSmallRectangle(t *testing.T) {
	f := testFactory()
	if _, err := f.NewRectangle(geom.Pt(0, 0), geom.Pt(2, 2)); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("NewRectangle(2x2) err = %v, want ErrTooSmall", err)
	}
	if _, err := f.NewRectangle(geom.Pt(0, 0), geom.Pt(50, 2)); !errors.Is(err, ErrTooSmall) {
		t.Fatalf("NewRectangle(50x2) err = %v, want ErrTooSmall", err)
	}

	s, err := f.NewRectangle(geom.Pt(20, 30), geom.Pt(10, 10))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.BoundingBox(); got != (geom.Rect{X: 9, Y: 9, Width: 12, Height: 22}) {
		t.Errorf("BoundingBox = %v", got)
	}
	if s.ID != "shape_1" || s.Kind != KindRectangle {
		t.Errorf("shape = %+v", s)
	}
}

func TestFactoryRejectsSinglePoint(t *testing.T) {
	f := testFactory()
	if _, err := f.NewPath([]geom.Point{{X: 1, Y: 1}}); !errors.Is(err, ErrTooFewPoints) {
		t.Fatalf("err = %v, want ErrTooFewPoints", err)
	}

	pts := []geom.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}
	s, err := f.NewPath(pts)
	if err != nil {
		t.Fatal(err)
	}
	pts[0].X = 99
	if s.Points[0].X != 0 {
		t.Error("NewPath did not copy its points")
	}
}

func TestPathHitTest(t *testing.T) {
	f := testFactory()
	s, _ := f.NewPath([]geom.Point{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}})

	for _, p := range []geom.Point{{X: 50, Y: 0}, {X: 50, Y: 3}, {X: 101, Y: 50}} {
		if !s.ContainsPoint(p) {
			t.Errorf("ContainsPoint(%v) = false", p)
		}
	}
	// Inside the bounding box but far from the stroke.
	if s.ContainsPoint(geom.Pt(30, 60)) {
		t.Error("ContainsPoint(30,60) = true")
	}
}

func TestTranslate(t *testing.T) {
	f := testFactory()
	rect, _ := f.NewRectangle(geom.Pt(5, 5), geom.Pt(25, 25))
	path, _ := f.NewPath([]geom.Point{{X: 5, Y: 5}, {X: 15, Y: 25}})

	for _, s := range []*Shape{rect, path} {
		before := s.BoundingBox()
		s.Translate(3, 4)
		after := s.BoundingBox()
		if after.X != before.X+3 || after.Y != before.Y+4 ||
			after.Width != before.Width || after.Height != before.Height {
			t.Errorf("%s: bounds %v -> %v, want shift by (3,4)", s.Kind, before, after)
		}
		if s.Origin() != geom.Pt(8, 9) {
			t.Errorf("%s: origin = %v, want (8,9)", s.Kind, s.Origin())
		}
	}
}

func TestPathBoundsIncludeStroke(t *testing.T) {
	f := testFactory()
	f.Style.StrokeWidth = 4
	s, _ := f.NewPath([]geom.Point{{X: 10, Y: 10}, {X: 20, Y: 10}})
	if got := s.BoundingBox(); got != (geom.Rect{X: 8, Y: 8, Width: 14, Height: 4}) {
		t.Errorf("BoundingBox = %v", got)
	}
}

func TestRenderRecordsScreenSpace(t *testing.T) {
	f := testFactory()
	f.Style.Fill = "#ff0000"
	s, _ := f.NewRectangle(geom.Pt(10, 10), geom.Pt(20, 20))
	s.Selected = true

	rec := paint.NewRecorder()
	s.Render(rec, geom.Transform{ScaleX: 2, ScaleY: 2, TranslateX: 5, TranslateY: 5})

	var paths []paint.Command
	for _, c := range rec.Commands() {
		if c.Op == "path" {
			paths = append(paths, c)
		}
	}
	if len(paths) != 3 {
		t.Fatalf("got %d path commands, want fill, stroke and selection", len(paths))
	}
	move := paths[0].Path[0]
	if move[0] != "M" || move[1] != 25.0 || move[2] != 25.0 {
		t.Errorf("first path command = %v, want [M 25 25]", move)
	}
	if paths[1].StrokeWidth != DefaultStyle.StrokeWidth*2 {
		t.Errorf("stroke width = %v, want scaled by zoom", paths[1].StrokeWidth)
	}
	if paths[2].Stroke != SelectionStroke {
		t.Errorf("selection stroke = %q", paths[2].Stroke)
	}
}

func TestKindRoundTrip(t *testing.T) {
	for _, k := range []Kind{KindRectangle, KindPath} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("ellipse"); ok {
		t.Error("ParseKind(ellipse) succeeded")
	}
}
