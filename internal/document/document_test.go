package document

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/shape"
)

func TestShapesRoundTrip(t *testing.T) {
	live := []*shape.Shape{
		{ID: "shape_a", Kind: shape.KindRectangle, X: 1, Y: 2, Width: 30, Height: 40, Style: shape.DefaultStyle, Selected: true},
		{ID: "shape_b", Kind: shape.KindPath, X: 0, Y: 0, Points: []geom.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, Style: shape.DefaultStyle},
	}
	b := NewEmptyBoard("board_x", "Test")
	b.SetShapes(live)

	data, err := json.Marshal(b)
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	got, err := parsed.ToShapes()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d shapes", len(got))
	}
	if got[0].ID != "shape_a" || got[0].Kind != shape.KindRectangle || got[0].BoundingBox() != live[0].BoundingBox() {
		t.Errorf("rectangle = %+v", got[0])
	}
	if got[0].Selected {
		t.Error("selection was persisted")
	}
	if got[1].Kind != shape.KindPath || len(got[1].Points) != 2 || got[1].Points[1] != geom.Pt(5, 5) {
		t.Errorf("path = %+v", got[1])
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"zero size", `{"id":"b","width":0,"height":10}`, ErrInvalidBoard},
		{"unknown type", `{"id":"b","width":10,"height":10,"shapes":[{"id":"s","type":"ShapeEllipse"}]}`, ErrUnknownShapeType},
		{"duplicate id", `{"id":"b","width":10,"height":10,"shapes":[{"id":"s","type":"ShapeRect"},{"id":"s","type":"VectorPath"}]}`, ErrInvalidBoard},
		{"missing id", `{"id":"b","width":10,"height":10,"shapes":[{"type":"ShapeRect"}]}`, ErrInvalidBoard},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := Parse([]byte("{")); err == nil {
		t.Error("Parse accepted malformed JSON")
	}
}

func TestSampleBoardDeterministic(t *testing.T) {
	a := NewSampleBoard("board_a", 30, 7)
	b := NewSampleBoard("board_b", 30, 7)
	if len(a.Shapes) != 30 {
		t.Fatalf("got %d shapes", len(a.Shapes))
	}
	if err := a.Validate(); err != nil {
		t.Fatal(err)
	}
	for i := range a.Shapes {
		if a.Shapes[i].X != b.Shapes[i].X || a.Shapes[i].Type != b.Shapes[i].Type {
			t.Fatalf("shape %d differs between runs with the same seed", i)
		}
	}
	shapes, err := a.ToShapes()
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range shapes {
		if s.Kind == shape.KindPath && len(s.Points) < 2 {
			t.Errorf("sample path %s has %d points", s.ID, len(s.Points))
		}
	}
}
