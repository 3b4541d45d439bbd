// Package scene owns the authoritative shape collection, its draw order and
// the current selection, and keeps the spatial index in step with every
// structural change.
package scene

import (
	"errors"
	"log/slog"
	"slices"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/quadtree"
	"github.com/inamate/sketchboard/internal/shape"
)

var ErrDuplicateID = errors.New("scene: shape id already present")

// Scene is the element store. It is not safe for concurrent use; the owning
// session goroutine serialises all access.
type Scene struct {
	shapes   map[string]*shape.Shape
	order    []string
	index    *quadtree.Tree[string]
	selected *shape.Shape
}

// New creates an empty scene whose index covers bounds.
func New(bounds geom.Rect, opts ...quadtree.Option) *Scene {
	return &Scene{
		shapes: make(map[string]*shape.Shape),
		index:  quadtree.New[string](bounds, opts...),
	}
}

// Bounds returns the indexed universe.
func (s *Scene) Bounds() geom.Rect {
	return s.index.Bounds()
}

// Len returns the number of shapes.
func (s *Scene) Len() int {
	return len(s.order)
}

// Add appends sh on top of the draw order and indexes it.
func (s *Scene) Add(sh *shape.Shape) error {
	if _, ok := s.shapes[sh.ID]; ok {
		return ErrDuplicateID
	}
	s.shapes[sh.ID] = sh
	s.order = append(s.order, sh.ID)
	s.indexShape(sh)
	return nil
}

// Remove deletes the shape with the given id. Removing the selected shape
// clears the selection.
func (s *Scene) Remove(id string) bool {
	sh, ok := s.shapes[id]
	if !ok {
		return false
	}
	delete(s.shapes, id)
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
	s.index.Remove(id)
	if s.selected == sh {
		sh.Selected = false
		s.selected = nil
	}
	return true
}

// Get looks up a shape by id.
func (s *Scene) Get(id string) (*shape.Shape, bool) {
	sh, ok := s.shapes[id]
	return sh, ok
}

// All returns every shape in draw order.
func (s *Scene) All() []*shape.Shape {
	out := make([]*shape.Shape, len(s.order))
	for i, id := range s.order {
		out[i] = s.shapes[id]
	}
	return out
}

// Update re-indexes sh after a geometry change.
func (s *Scene) Update(sh *shape.Shape) {
	if _, ok := s.shapes[sh.ID]; !ok {
		return
	}
	s.indexShape(sh)
}

// Query returns the shapes whose bounds intersect region, in draw order.
func (s *Scene) Query(region geom.Rect) []*shape.Shape {
	ids := s.index.Query(region)
	out := make([]*shape.Shape, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.shapes[id])
	}
	return out
}

// HitTest returns the topmost shape whose precise hit test contains p.
func (s *Scene) HitTest(p geom.Point) (*shape.Shape, bool) {
	id, ok := s.index.QueryPoint(p, func(id string) bool {
		return s.shapes[id].ContainsPoint(p)
	})
	if !ok {
		return nil, false
	}
	return s.shapes[id], true
}

// Selected returns the selected shape, or nil.
func (s *Scene) Selected() *shape.Shape {
	return s.selected
}

// Select makes sh the only selected shape and returns the previous one.
func (s *Scene) Select(sh *shape.Shape) (prev *shape.Shape) {
	prev = s.ClearSelection()
	if sh != nil {
		sh.Selected = true
		s.selected = sh
	}
	return prev
}

// ClearSelection deselects and returns the selected shape, if any.
func (s *Scene) ClearSelection() *shape.Shape {
	prev := s.selected
	if prev != nil {
		prev.Selected = false
		s.selected = nil
	}
	return prev
}

// DeleteSelected removes the selected shape and returns it.
func (s *Scene) DeleteSelected() (*shape.Shape, bool) {
	sh := s.selected
	if sh == nil {
		return nil, false
	}
	s.Remove(sh.ID)
	return sh, true
}

// Resize changes the indexed universe and rebuilds the index in draw order.
func (s *Scene) Resize(bounds geom.Rect) {
	entries := make([]quadtree.Entry[string], 0, len(s.order))
	for _, id := range s.order {
		entries = append(entries, quadtree.Entry[string]{Key: id, Bounds: s.shapes[id].BoundingBox()})
	}
	s.index.Rebuild(bounds, entries)
	slog.Debug("scene index rebuilt", "bounds", bounds, "shapes", len(entries))
}

// Clear removes every shape and empties the index.
func (s *Scene) Clear() {
	s.shapes = make(map[string]*shape.Shape)
	s.order = nil
	s.selected = nil
	s.index.Clear()
}

// Stats reports the index shape.
func (s *Scene) Stats() quadtree.Stats {
	return s.index.Stats()
}

func (s *Scene) indexShape(sh *shape.Shape) {
	if !s.index.Insert(sh.ID, sh.BoundingBox()) {
		slog.Debug("shape outside index bounds", "id", sh.ID, "bounds", sh.BoundingBox())
	}
}
