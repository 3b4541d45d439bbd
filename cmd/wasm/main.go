//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/inamate/sketchboard/internal/engine"
	"github.com/inamate/sketchboard/internal/shape"
)

var eng *engine.Engine

func main() {
	eng = engine.NewEngine(engine.DefaultConfig())

	// Create the engine API object
	api := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	api.Set("loadBoard", js.FuncOf(loadBoard))
	api.Set("loadSampleBoard", js.FuncOf(loadSampleBoard))
	api.Set("pointerDown", js.FuncOf(pointerDown))
	api.Set("pointerMove", js.FuncOf(pointerMove))
	api.Set("pointerUp", js.FuncOf(pointerUp))
	api.Set("wheel", js.FuncOf(wheel))
	api.Set("pan", js.FuncOf(pan))
	api.Set("keyDown", js.FuncOf(keyDown))
	api.Set("setMode", js.FuncOf(setMode))
	api.Set("setStyle", js.FuncOf(setStyle))
	api.Set("resize", js.FuncOf(resize))
	api.Set("fitView", js.FuncOf(fitView))
	api.Set("removeShape", js.FuncOf(removeShape))
	api.Set("deleteSelected", js.FuncOf(deleteSelected))
	api.Set("clearSelection", js.FuncOf(clearSelection))
	api.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	api.Set("getBoard", js.FuncOf(getBoard))
	api.Set("hitTest", js.FuncOf(hitTest))
	api.Set("getSelection", js.FuncOf(getSelection))
	api.Set("getMode", js.FuncOf(getMode))
	api.Set("getTransform", js.FuncOf(getTransform))
	api.Set("getStats", js.FuncOf(getStats))

	// Register on global scope
	js.Global().Set("sketchboardEngine", api)

	// Signal that WASM is ready
	js.Global().Set("sketchboardWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errorResult(msg string) any {
	return js.ValueOf(map[string]any{"error": msg})
}

func okResult() any {
	return js.ValueOf(map[string]any{"ok": true})
}

// point reads args[0] and args[1] as screen coordinates.
func point(args []js.Value) (float64, float64, bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	return args[0].Float(), args[1].Float(), true
}

// --- Command Handlers ---

func loadBoard(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing board JSON")
	}
	if err := eng.LoadBoardJSON(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func loadSampleBoard(this js.Value, args []js.Value) any {
	boardID := "board_sample"
	n, seed := 200, uint64(1)
	if len(args) > 0 && args[0].Type() == js.TypeString {
		boardID = args[0].String()
	}
	if len(args) > 1 && args[1].Type() == js.TypeNumber {
		n = args[1].Int()
	}
	if len(args) > 2 && args[2].Type() == js.TypeNumber {
		seed = uint64(args[2].Int())
	}
	eng.LoadSampleBoard(boardID, n, seed)
	return okResult()
}

func pointerDown(this js.Value, args []js.Value) any {
	if x, y, ok := point(args); ok {
		eng.PointerDown(x, y)
	}
	return nil
}

func pointerMove(this js.Value, args []js.Value) any {
	if x, y, ok := point(args); ok {
		eng.PointerMove(x, y)
	}
	return nil
}

func pointerUp(this js.Value, args []js.Value) any {
	if x, y, ok := point(args); ok {
		eng.PointerUp(x, y)
	}
	return nil
}

func wheel(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.Wheel(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func pan(this js.Value, args []js.Value) any {
	if dx, dy, ok := point(args); ok {
		eng.Pan(dx, dy)
	}
	return nil
}

func keyDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.KeyDown(args[0].String()))
}

func setMode(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing mode")
	}
	if err := eng.SetMode(args[0].String()); err != nil {
		return errorResult(err.Error())
	}
	return okResult()
}

func setStyle(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return errorResult("missing style JSON")
	}
	var style shape.Style
	if err := json.Unmarshal([]byte(args[0].String()), &style); err != nil {
		return errorResult(err.Error())
	}
	eng.SetStyle(style)
	return okResult()
}

func resize(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.Resize(args[0].Float(), args[1].Float(), args[2].Float())
	return nil
}

func fitView(this js.Value, args []js.Value) any {
	eng.FitView()
	return nil
}

func removeShape(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.RemoveShape(args[0].String()))
}

func deleteSelected(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.DeleteSelected())
}

func clearSelection(this js.Value, args []js.Value) any {
	eng.ClearSelection()
	return nil
}

// tick is called once per animation frame and returns the draw commands
// for whatever changed, "[]" when nothing did.
func tick(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.TickCommands())
}

// --- Query Handlers ---

func getBoard(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(eng.Board())
	return js.ValueOf(string(data))
}

func hitTest(this js.Value, args []js.Value) any {
	x, y, ok := point(args)
	if !ok {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(x, y))
}

func getSelection(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Selection())
}

func getMode(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Mode())
}

func getTransform(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(eng.Transform())
	return js.ValueOf(string(data))
}

func getStats(this js.Value, args []js.Value) any {
	data, _ := json.Marshal(eng.Stats())
	return js.ValueOf(string(data))
}
