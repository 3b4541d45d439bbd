package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"image/png"
	"testing"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/paint"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ScreenWidth, cfg.ScreenHeight = 400, 300
	e := NewEngine(cfg)
	// Drain the initial full repaint.
	e.TickCommands()
	return e
}

func TestRectangleTooSmallIsDropped(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetMode("rectangle"); err != nil {
		t.Fatal(err)
	}
	e.PointerDown(10, 10)
	e.PointerMove(12, 12)
	e.PointerUp(12, 12)
	if e.Len() != 0 {
		t.Fatalf("Len = %d after 2x2 rectangle, want 0", e.Len())
	}

	e.PointerDown(10, 10)
	e.PointerMove(60, 40)
	e.PointerUp(60, 40)
	if e.Len() != 1 {
		t.Fatalf("Len = %d after 50x30 rectangle, want 1", e.Len())
	}
	if !e.Modified() {
		t.Error("board not marked modified")
	}
}

func TestPenCreatesPath(t *testing.T) {
	e := newTestEngine(t)
	e.SetMode("pen")
	e.PointerDown(10, 10)
	e.PointerMove(20, 20)

	// The preview keeps every frame full while drawing.
	var cmds []paint.Command
	if err := json.Unmarshal([]byte(e.TickCommands()), &cmds); err != nil {
		t.Fatal(err)
	}
	if len(cmds) == 0 || cmds[0].Op != "clear" {
		t.Fatalf("preview frame = %v, want full repaint", cmds)
	}

	e.PointerMove(30, 10)
	e.PointerUp(30, 10)
	b := e.Board()
	if len(b.Shapes) != 1 || b.Shapes[0].Type != document.ShapeTypePath || len(b.Shapes[0].Points) != 3 {
		t.Fatalf("board shapes = %+v", b.Shapes)
	}
}

func TestSelectDragAndDelete(t *testing.T) {
	e := newTestEngine(t)
	e.LoadBoard(&document.Board{
		ID: "board_t", Width: 1000, Height: 1000,
		Shapes: []document.Shape{
			{ID: "shape_1", Type: document.ShapeTypeRect, X: 0, Y: 0, Width: 50, Height: 50},
			{ID: "shape_2", Type: document.ShapeTypeRect, X: 25, Y: 25, Width: 50, Height: 50},
		},
	})
	e.TickCommands()

	if id := e.HitTest(30, 30); id != "shape_2" {
		t.Fatalf("HitTest(30,30) = %q, want topmost shape_2", id)
	}

	e.PointerDown(30, 30)
	e.PointerMove(130, 130)
	e.PointerUp(130, 130)
	if e.Selection() != "shape_2" {
		t.Fatalf("selection = %q", e.Selection())
	}
	if id := e.HitTest(30, 30); id != "shape_1" {
		t.Errorf("after drag HitTest(30,30) = %q, want shape_1", id)
	}
	if id := e.HitTest(150, 150); id != "shape_2" {
		t.Errorf("after drag HitTest(150,150) = %q, want shape_2", id)
	}
	if s := e.TickCommands(); s == "[]" {
		t.Error("drag produced no repaint")
	}

	if !e.KeyDown("Delete") {
		t.Fatal("Delete not handled")
	}
	if e.Len() != 1 || e.Selection() != "" {
		t.Errorf("after delete Len=%d selection=%q", e.Len(), e.Selection())
	}
	if s := e.TickCommands(); s == "[]" {
		t.Error("delete produced no repaint")
	}
	if s := e.TickCommands(); s != "[]" {
		t.Errorf("idle frame = %s, want []", s)
	}
}

func TestSetModeRejectsUnknown(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetMode("lasso"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("err = %v, want ErrUnknownMode", err)
	}
}

func TestBoardRoundTrip(t *testing.T) {
	e := newTestEngine(t)
	e.LoadSampleBoard("board_s", 20, 1)
	data, err := json.Marshal(e.Board())
	if err != nil {
		t.Fatal(err)
	}

	other := newTestEngine(t)
	if err := other.LoadBoardJSON(string(data)); err != nil {
		t.Fatal(err)
	}
	if other.Len() != 20 || other.Board().ID != "board_s" {
		t.Errorf("reloaded Len=%d id=%s", other.Len(), other.Board().ID)
	}
	if other.Modified() {
		t.Error("freshly loaded board reports modified")
	}
}

func TestRenderPNG(t *testing.T) {
	e := newTestEngine(t)
	e.LoadSampleBoard("board_p", 10, 3)
	e.MarkSaved(e.Board())

	var buf bytes.Buffer
	if err := e.RenderPNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("image size = %v", b)
	}
	// RenderPNG leaves the live renderer's first full frame pending.
	if s := e.TickCommands(); s == "[]" {
		t.Error("pending frame consumed by RenderPNG")
	}
}

func TestLoadBoardRejectsDuplicateIDs(t *testing.T) {
	e := newTestEngine(t)
	e.LoadSampleBoard("board_x", 5, 1)

	err := e.LoadBoard(&document.Board{
		ID: "board_y", Width: 100, Height: 100,
		Shapes: []document.Shape{
			{ID: "shape_1", Type: document.ShapeTypeRect, Width: 10, Height: 10},
			{ID: "shape_1", Type: document.ShapeTypeRect, X: 20, Width: 10, Height: 10},
		},
	})
	if !errors.Is(err, document.ErrInvalidBoard) {
		t.Fatalf("err = %v, want ErrInvalidBoard", err)
	}
	if e.Len() != 5 || e.Board().ID != "board_x" {
		t.Errorf("after failed load Len=%d board=%s, want the previous board", e.Len(), e.Board().ID)
	}
}
