package session

import (
	"encoding/json"

	"github.com/inamate/sketchboard/internal/document"
	"github.com/inamate/sketchboard/internal/shape"
)

type Message struct {
	Type      string          `json:"type"`
	BoardID   string          `json:"boardId,omitempty"`
	SessionID string          `json:"sessionId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client to server
	TypePointerDown    = "pointer.down"
	TypePointerMove    = "pointer.move"
	TypePointerUp      = "pointer.up"
	TypeWheel          = "wheel"
	TypePan            = "pan"
	TypeKeyDown        = "key.down"
	TypeModeSet        = "mode.set"
	TypeStyleSet       = "style.set"
	TypeViewportResize = "viewport.resize"
	TypeShapeDelete    = "shape.delete"
	TypeSelectionClear = "selection.clear"
	TypeBoardSave      = "board.save"

	// Server to client
	TypeWelcome   = "welcome"
	TypeFrame     = "frame"
	TypeSelection = "selection"
	TypeSaved     = "saved"
	TypeError     = "error"
)

type PointerPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type WheelPayload struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

type PanPayload struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

type KeyPayload struct {
	Key string `json:"key"`
}

type ModePayload struct {
	Mode string `json:"mode"`
}

type StylePayload = shape.Style

type ResizePayload struct {
	Width      float64 `json:"width"`
	Height     float64 `json:"height"`
	PixelRatio float64 `json:"pixelRatio"`
}

type ShapeDeletePayload struct {
	ID string `json:"id"`
}

type WelcomePayload struct {
	SessionID string          `json:"sessionId"`
	Board     *document.Board `json:"board"`
	Mode      string          `json:"mode"`
}

type FramePayload struct {
	Full     bool            `json:"full"`
	Regions  int             `json:"regions"`
	Commands json.RawMessage `json:"commands"`
}

type SelectionPayload struct {
	ShapeID string `json:"shapeId"`
}

type SavedPayload struct {
	Version   int    `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	SessionID string `json:"sessionId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
