package paint

import (
	"encoding/json"

	"github.com/inamate/sketchboard/internal/geom"
)

// Command is a single drawing operation for the frontend to execute on a
// Canvas2D context, in painter's order.
type Command struct {
	Op          string        `json:"op"`                    // "save", "restore", "clip", "clear", "path"
	Rect        *geom.Rect    `json:"rect,omitempty"`        // for "clip" and "clear"
	Path        []PathCommand `json:"path,omitempty"`        // for "path"
	Fill        string        `json:"fill,omitempty"`        // fill colour, fill ops only
	Stroke      string        `json:"stroke,omitempty"`      // stroke colour, stroke ops only
	StrokeWidth float64       `json:"strokeWidth,omitempty"` // stroke width in screen px
	Opacity     float64       `json:"opacity,omitempty"`     // global alpha
}

// PathCommand represents a single path segment.
// Format matches Canvas2D: ["M", x, y], ["L", x, y], ["Z"].
type PathCommand []any

type recorderState struct {
	fill        string
	stroke      string
	strokeWidth float64
	alpha       float64
}

// Recorder is a Canvas that records commands instead of painting.
type Recorder struct {
	commands []Command
	state    recorderState
	stack    []recorderState
	path     []PathCommand
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	r := &Recorder{}
	r.Reset()
	return r
}

// Reset drops recorded commands and restores the default state.
func (r *Recorder) Reset() {
	r.commands = r.commands[:0]
	r.stack = r.stack[:0]
	r.path = nil
	r.state = recorderState{strokeWidth: 1, alpha: 1}
}

// Commands returns the recorded commands.
func (r *Recorder) Commands() []Command {
	return r.commands
}

// JSON serialises the recorded commands.
func (r *Recorder) JSON() (string, error) {
	if len(r.commands) == 0 {
		return "[]", nil
	}
	data, err := json.Marshal(r.commands)
	if err != nil {
		return "[]", err
	}
	return string(data), nil
}

func (r *Recorder) Save() {
	r.stack = append(r.stack, r.state)
	r.commands = append(r.commands, Command{Op: "save"})
}

func (r *Recorder) Restore() {
	if len(r.stack) == 0 {
		return
	}
	r.state = r.stack[len(r.stack)-1]
	r.stack = r.stack[:len(r.stack)-1]
	r.commands = append(r.commands, Command{Op: "restore"})
}

func (r *Recorder) ClipRect(rect geom.Rect) {
	r.commands = append(r.commands, Command{Op: "clip", Rect: &rect})
}

func (r *Recorder) ClearRect(rect geom.Rect) {
	r.commands = append(r.commands, Command{Op: "clear", Rect: &rect})
}

func (r *Recorder) SetFill(color string) {
	r.state.fill = color
}

func (r *Recorder) SetStroke(color string, width float64) {
	r.state.stroke = color
	r.state.strokeWidth = width
}

func (r *Recorder) SetAlpha(alpha float64) {
	r.state.alpha = alpha
}

func (r *Recorder) BeginPath() {
	r.path = nil
}

func (r *Recorder) MoveTo(x, y float64) {
	r.path = append(r.path, PathCommand{"M", x, y})
}

func (r *Recorder) LineTo(x, y float64) {
	r.path = append(r.path, PathCommand{"L", x, y})
}

func (r *Recorder) Rect(rect geom.Rect) {
	r.MoveTo(rect.X, rect.Y)
	r.LineTo(rect.MaxX(), rect.Y)
	r.LineTo(rect.MaxX(), rect.MaxY())
	r.LineTo(rect.X, rect.MaxY())
	r.ClosePath()
}

func (r *Recorder) ClosePath() {
	r.path = append(r.path, PathCommand{"Z"})
}

func (r *Recorder) Fill() {
	if len(r.path) == 0 || r.state.fill == "" {
		return
	}
	r.commands = append(r.commands, Command{
		Op:      "path",
		Path:    r.path,
		Fill:    r.state.fill,
		Opacity: r.state.alpha,
	})
}

func (r *Recorder) Stroke() {
	if len(r.path) == 0 || r.state.stroke == "" || r.state.strokeWidth <= 0 {
		return
	}
	r.commands = append(r.commands, Command{
		Op:          "path",
		Path:        r.path,
		Stroke:      r.state.stroke,
		StrokeWidth: r.state.strokeWidth,
		Opacity:     r.state.alpha,
	})
}
