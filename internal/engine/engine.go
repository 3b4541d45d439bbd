package engine

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/interaction"
	"github.com/inamate/sketchboard/internal/paint"
	"github.com/inamate/sketchboard/internal/quadtree"
	"github.com/inamate/sketchboard/internal/render"
	"github.com/inamate/sketchboard/internal/scene"
	"github.com/inamate/sketchboard/internal/shape"
	"github.com/inamate/sketchboard/internal/typeid"
	"github.com/inamate/sketchboard/internal/viewport"
)

var ErrUnknownMode = errors.New("engine: unknown mode")

// Config holds the tuning knobs fixed for an engine's lifetime.
type Config struct {
	ScreenWidth   float64
	ScreenHeight  float64
	PixelRatio    float64
	IndexCapacity int
	IndexMaxDepth int
	DirtyMargin   float64
	MinShapeSize  float64
	Coalesce      bool
}

func DefaultConfig() Config {
	return Config{
		ScreenWidth:   1280,
		ScreenHeight:  720,
		PixelRatio:    1,
		IndexCapacity: quadtree.DefaultCapacity,
		IndexMaxDepth: quadtree.DefaultMaxDepth,
		DirtyMargin:   render.DefaultMargin,
		MinShapeSize:  shape.DefaultMinSize,
	}
}

// Engine owns one board's live state: the scene and its index, the view,
// the renderer and the interaction controller. It processes commands from
// the frontend and returns draw commands. It is not safe for concurrent
// use.
type Engine struct {
	cfg      Config
	board    document.Board
	scene    *scene.Scene
	vp       *viewport.Viewport
	renderer *render.Renderer
	ctl      *interaction.Controller
	factory  *shape.Factory
	recorder *paint.Recorder

	// lastSelected is the shape whose outline is currently painted.
	lastSelected *shape.Shape
	modified     bool
}

// NewEngine creates an engine holding an empty board.
func NewEngine(cfg Config) *Engine {
	e := &Engine{
		cfg:      cfg,
		vp:       viewport.New(cfg.ScreenWidth, cfg.ScreenHeight, cfg.PixelRatio),
		factory:  shape.NewFactory(),
		recorder: paint.NewRecorder(),
	}
	if cfg.MinShapeSize > 0 {
		e.factory.MinSize = cfg.MinShapeSize
	}
	empty := document.NewEmptyBoard(typeid.NewBoardID(), "Untitled")
	e.reset(*empty, e.newScene(empty.Bounds()))
	return e
}

func (e *Engine) newScene(bounds geom.Rect) *scene.Scene {
	var opts []quadtree.Option
	if e.cfg.IndexCapacity > 0 {
		opts = append(opts, quadtree.WithCapacity(e.cfg.IndexCapacity))
	}
	if e.cfg.IndexMaxDepth > 0 {
		opts = append(opts, quadtree.WithMaxDepth(e.cfg.IndexMaxDepth))
	}
	return scene.New(bounds, opts...)
}

// reset installs sc as the live scene for the board described by meta.
func (e *Engine) reset(meta document.Board, sc *scene.Scene) {
	meta.Shapes = nil
	e.board = meta
	e.scene = sc

	ropts := []render.Option{render.WithMargin(e.cfg.DirtyMargin), render.WithCoalescing(e.cfg.Coalesce)}
	if meta.Background != "" {
		ropts = append(ropts, render.WithBackground(meta.Background))
	}
	e.renderer = render.New(e.scene, e.vp, ropts...)

	e.ctl = interaction.NewController(e.scene, e.vp, e.renderer)
	e.ctl.SetListener(notifier{e})
	e.lastSelected = nil
	e.modified = false
}

// --- Commands (frontend → backend) ---

// LoadBoard replaces the engine state with b. The view transform is kept.
// On error the engine keeps its current board.
func (e *Engine) LoadBoard(b *document.Board) error {
	if err := b.Validate(); err != nil {
		return err
	}
	shapes, err := b.ToShapes()
	if err != nil {
		return err
	}
	sc := e.newScene(b.Bounds())
	for _, sh := range shapes {
		if err := sc.Add(sh); err != nil {
			return fmt.Errorf("load shape %s: %w", sh.ID, err)
		}
	}
	e.reset(*b, sc)
	slog.Debug("board loaded", "board", b.ID, "shapes", len(shapes))
	return nil
}

// LoadBoardJSON decodes and loads a board.
func (e *Engine) LoadBoardJSON(data string) error {
	b, err := document.Parse([]byte(data))
	if err != nil {
		return err
	}
	return e.LoadBoard(b)
}

// LoadSampleBoard loads a generated board of n shapes.
func (e *Engine) LoadSampleBoard(boardID string, n int, seed uint64) {
	// Generated boards always validate.
	_ = e.LoadBoard(document.NewSampleBoard(boardID, n, seed))
}

func (e *Engine) PointerDown(x, y float64) { e.ctl.PointerDown(geom.Pt(x, y)) }
func (e *Engine) PointerMove(x, y float64) { e.ctl.PointerMove(geom.Pt(x, y)) }
func (e *Engine) PointerUp(x, y float64) { e.ctl.PointerUp(geom.Pt(x, y)) }

// Wheel zooms about the screen point (x, y).
func (e *Engine) Wheel(x, y, deltaY float64) {
	e.ctl.Wheel(geom.Pt(x, y), deltaY)
}

func (e *Engine) Pan(dx, dy float64) {
	e.ctl.Pan(dx, dy)
}

// KeyDown forwards a DOM key name and reports whether it was handled.
func (e *Engine) KeyDown(key string) bool {
	n := e.scene.Len()
	handled := e.ctl.KeyDown(key)
	if e.scene.Len() != n {
		e.modified = true
	}
	if handled {
		// Escape and mode keys abandon any gesture in progress.
		e.renderer.ClearPreview()
	}
	return handled
}

// SetMode switches the interaction mode by name.
func (e *Engine) SetMode(name string) error {
	m, ok := interaction.ParseMode(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	e.ctl.SetMode(m)
	e.renderer.ClearPreview()
	return nil
}

func (e *Engine) Mode() string {
	return e.ctl.Mode().String()
}

// SetStyle sets the style for new shapes. A selected shape is restyled too.
func (e *Engine) SetStyle(style shape.Style) {
	e.factory.Style = style
	if sel := e.scene.Selected(); sel != nil {
		e.markShape(sel)
		sel.Style = style
		e.scene.Update(sel)
		e.markShape(sel)
		e.modified = true
	}
}

// Resize changes the screen size. The whole view is repainted.
func (e *Engine) Resize(width, height, pixelRatio float64) {
	e.vp.Resize(width, height, pixelRatio)
	e.renderer.InvalidateAll()
}

// ResizeCanvas changes the board size and rebuilds the index.
func (e *Engine) ResizeCanvas(width, height int) {
	e.board.Width = width
	e.board.Height = height
	e.scene.Resize(e.board.Bounds())
	e.renderer.InvalidateAll()
	e.modified = true
}

// FitView zooms the view to show the whole board.
func (e *Engine) FitView() {
	e.vp.Fit(e.board.Bounds())
	e.renderer.InvalidateAll()
}

// AddShape adds sh on top of the board.
func (e *Engine) AddShape(sh *shape.Shape) error {
	if err := e.scene.Add(sh); err != nil {
		return err
	}
	e.markShape(sh)
	e.modified = true
	return nil
}

// RemoveShape removes a shape by id.
func (e *Engine) RemoveShape(id string) bool {
	sh, ok := e.scene.Get(id)
	if !ok {
		return false
	}
	e.markShape(sh)
	e.scene.Remove(id)
	if e.lastSelected == sh {
		e.lastSelected = nil
	}
	e.modified = true
	return true
}

// DeleteSelected removes the selected shape.
func (e *Engine) DeleteSelected() bool {
	_, ok := e.ctl.DeleteSelected()
	if ok {
		e.modified = true
	}
	return ok
}

func (e *Engine) ClearSelection() {
	e.ctl.ClearSelection()
}

// MarkSaved records the version and timestamps a store assigned to a
// snapshot taken from Board, and clears the modified flag.
func (e *Engine) MarkSaved(saved *document.Board) {
	e.board.Version = saved.Version
	e.board.CreatedAt = saved.CreatedAt
	e.board.UpdatedAt = saved.UpdatedAt
	e.modified = false
}

// --- Queries (frontend ← backend) ---

// Tick paints outstanding changes into c.
func (e *Engine) Tick(c paint.Canvas) render.Frame {
	return e.renderer.Tick(c)
}

// TickCommands paints outstanding changes as a JSON draw command list. An
// idle frame is "[]".
func (e *Engine) TickCommands() string {
	e.recorder.Reset()
	if f := e.renderer.Tick(e.recorder); !f.Painted {
		return "[]"
	}
	result, err := e.recorder.JSON()
	if err != nil {
		slog.Error("encode draw commands", "error", err)
	}
	return result
}

// RenderPNG paints the whole visible view into a PNG at device resolution.
// It does not disturb the pending dirty regions.
func (e *Engine) RenderPNG(w io.Writer) error {
	width, height := e.vp.DeviceSize()
	raster := paint.NewRaster(width, height, e.vp.PixelRatio())

	var opts []render.Option
	if e.board.Background != "" {
		opts = append(opts, render.WithBackground(e.board.Background))
	}
	render.New(e.scene, e.vp, opts...).Tick(raster)

	if err := png.Encode(w, raster.Image()); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Board returns a snapshot of the board and its shapes in draw order.
func (e *Engine) Board() *document.Board {
	b := e.board
	b.SetShapes(e.scene.All())
	return &b
}

// HitTest returns the id of the topmost shape at the screen point, or "".
func (e *Engine) HitTest(x, y float64) string {
	sh, ok := e.scene.HitTest(e.vp.ScreenToCanvas(geom.Pt(x, y)))
	if !ok {
		return ""
	}
	return sh.ID
}

// Selection returns the selected shape id, or "".
func (e *Engine) Selection() string {
	if sel := e.scene.Selected(); sel != nil {
		return sel.ID
	}
	return ""
}

func (e *Engine) Transform() geom.Transform {
	return e.vp.Transform()
}

func (e *Engine) Len() int {
	return e.scene.Len()
}

// Stats reports the spatial index shape.
func (e *Engine) Stats() quadtree.Stats {
	return e.scene.Stats()
}

// Modified reports whether the board changed since it was loaded or
// last marked saved.
func (e *Engine) Modified() bool {
	return e.modified
}

// markShape queues the screen footprint of sh.
func (e *Engine) markShape(sh *shape.Shape) {
	e.renderer.MarkCanvasDirty(sh.BoundingBox())
}
