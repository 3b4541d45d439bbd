package document

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/inamate/sketchboard/internal/geom"
	"github.com/inamate/sketchboard/internal/shape"
)

var (
	ErrUnknownShapeType = errors.New("document: unknown shape type")
	ErrInvalidBoard     = errors.New("document: invalid board")
)

// Board is the persisted snapshot of a whiteboard.
type Board struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Version    int     `json:"version"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Background string  `json:"background"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	Shapes     []Shape `json:"shapes"`
}

type ShapeType string

const (
	ShapeTypeRect ShapeType = "ShapeRect"
	ShapeTypePath ShapeType = "VectorPath"
)

type Style struct {
	Fill        string  `json:"fill"`
	Stroke      string  `json:"stroke"`
	StrokeWidth float64 `json:"strokeWidth"`
	Opacity     float64 `json:"opacity"`
}

// Shape is a single element in draw order. Width and Height apply to
// rectangles, Points to paths.
type Shape struct {
	ID     string       `json:"id"`
	Type   ShapeType    `json:"type"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Width  float64      `json:"width,omitempty"`
	Height float64      `json:"height,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
	Style  Style        `json:"style"`
}

// NewEmptyBoard creates an empty board with the default canvas size.
func NewEmptyBoard(id, name string) *Board {
	return &Board{
		ID:         id,
		Name:       name,
		Version:    1,
		Width:      1280,
		Height:     720,
		Background: "#ffffff",
		Shapes:     []Shape{},
	}
}

// Parse decodes and validates a board.
func Parse(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the canvas size, every shape type and that shape ids are
// present and unique.
func (b *Board) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: canvas size %dx%d", ErrInvalidBoard, b.Width, b.Height)
	}
	seen := make(map[string]struct{}, len(b.Shapes))
	for i, s := range b.Shapes {
		if s.ID == "" {
			return fmt.Errorf("%w: shape %d has no id", ErrInvalidBoard, i)
		}
		if _, dup := seen[s.ID]; dup {
			return fmt.Errorf("%w: duplicate shape id %s", ErrInvalidBoard, s.ID)
		}
		seen[s.ID] = struct{}{}
		if _, err := s.kind(); err != nil {
			return err
		}
	}
	return nil
}

// Bounds returns the canvas rectangle.
func (b *Board) Bounds() geom.Rect {
	return geom.Rect{Width: float64(b.Width), Height: float64(b.Height)}
}

// ToShapes converts the snapshot to live shapes in draw order.
func (b *Board) ToShapes() ([]*shape.Shape, error) {
	out := make([]*shape.Shape, 0, len(b.Shapes))
	for _, s := range b.Shapes {
		kind, err := s.kind()
		if err != nil {
			return nil, err
		}
		out = append(out, &shape.Shape{
			ID:     s.ID,
			Kind:   kind,
			X:      s.X,
			Y:      s.Y,
			Width:  s.Width,
			Height: s.Height,
			Points: append([]geom.Point(nil), s.Points...),
			Style:  shape.Style(s.Style),
		})
	}
	return out, nil
}

// SetShapes replaces the snapshot's shapes with shapes, in order.
func (b *Board) SetShapes(shapes []*shape.Shape) {
	b.Shapes = make([]Shape, 0, len(shapes))
	for _, s := range shapes {
		b.Shapes = append(b.Shapes, FromShape(s))
	}
}

// FromShape converts a live shape. Selection is not persisted.
func FromShape(s *shape.Shape) Shape {
	out := Shape{
		ID:    s.ID,
		X:     s.X,
		Y:     s.Y,
		Style: Style(s.Style),
	}
	switch s.Kind {
	case shape.KindRectangle:
		out.Type = ShapeTypeRect
		out.Width = s.Width
		out.Height = s.Height
	case shape.KindPath:
		out.Type = ShapeTypePath
		out.Points = append([]geom.Point(nil), s.Points...)
	}
	return out
}

func (s Shape) kind() (shape.Kind, error) {
	switch s.Type {
	case ShapeTypeRect:
		return shape.KindRectangle, nil
	case ShapeTypePath:
		return shape.KindPath, nil
	}
	return 0, fmt.Errorf("%w: %q (shape %s)", ErrUnknownShapeType, s.Type, s.ID)
}
