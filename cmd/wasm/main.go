//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/Yashodeeps/tessera/internal/engine"
	"github.com/Yashodeeps/tessera/internal/events"
	"github.com/Yashodeeps/tessera/internal/geometry"
	"github.com/Yashodeeps/tessera/internal/scene"
	"github.com/Yashodeeps/tessera/internal/store"
)

var eng *engine.Engine

func main() {
	var err error
	eng, err = engine.New(nil, nil, engine.WithScene(engine.SampleScene()))
	if err != nil {
		panic(err)
	}

	// Create the engine API object
	tesseraEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → engine) ---
	tesseraEngine.Set("pointerEvent", js.FuncOf(pointerEvent))
	tesseraEngine.Set("activateTool", js.FuncOf(activateTool))
	tesseraEngine.Set("undo", js.FuncOf(undo))
	tesseraEngine.Set("redo", js.FuncOf(redo))
	tesseraEngine.Set("deleteSelected", js.FuncOf(deleteSelected))
	tesseraEngine.Set("setSelection", js.FuncOf(setSelection))
	tesseraEngine.Set("pan", js.FuncOf(pan))
	tesseraEngine.Set("zoomAt", js.FuncOf(zoomAt))
	tesseraEngine.Set("loadScene", js.FuncOf(loadScene))
	tesseraEngine.Set("loadSampleScene", js.FuncOf(loadSampleScene))
	tesseraEngine.Set("subscribe", js.FuncOf(subscribe))

	// --- Queries (frontend ← engine) ---
	tesseraEngine.Set("render", js.FuncOf(render))
	tesseraEngine.Set("hitTest", js.FuncOf(hitTest))
	tesseraEngine.Set("getState", js.FuncOf(getState))
	tesseraEngine.Set("canUndo", js.FuncOf(canUndo))
	tesseraEngine.Set("canRedo", js.FuncOf(canRedo))
	tesseraEngine.Set("getTools", js.FuncOf(getTools))

	// Register on global scope
	js.Global().Set("tesseraEngine", tesseraEngine)

	// Signal that WASM is ready
	js.Global().Set("tesseraWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func result(err error) any {
	if err != nil {
		return js.ValueOf(map[string]any{"error": err.Error()})
	}
	return js.ValueOf(map[string]any{"ok": true})
}

func missing(what string) any {
	return js.ValueOf(map[string]any{"error": "missing " + what})
}

// --- Command Handlers ---

// pointerEvent(phase, x, y, {shift, ctrl, meta, screen})
func pointerEvent(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return missing("phase and coordinates")
	}
	phase, err := events.ParsePhase(args[0].String())
	if err != nil {
		return result(err)
	}
	p := geometry.V(args[1].Float(), args[2].Float())

	var mods events.Modifiers
	screen := false
	if len(args) > 3 && args[3].Type() == js.TypeObject {
		opts := args[3]
		mods.Shift = opts.Get("shift").Truthy()
		mods.Ctrl = opts.Get("ctrl").Truthy()
		mods.Meta = opts.Get("meta").Truthy()
		screen = opts.Get("screen").Truthy()
	}

	if screen {
		return result(eng.PointerEventScreen(phase, p, mods))
	}
	return result(eng.PointerEvent(phase, p, mods))
}

func activateTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("tool id")
	}
	return result(eng.ActivateTool(args[0].String()))
}

func undo(this js.Value, args []js.Value) any {
	return result(eng.Undo())
}

func redo(this js.Value, args []js.Value) any {
	return result(eng.Redo())
}

func deleteSelected(this js.Value, args []js.Value) any {
	return result(eng.DeleteSelected())
}

func setSelection(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		eng.Select(nil)
		return nil
	}

	arr := args[0]
	length := arr.Length()
	ids := make([]string, length)
	for i := 0; i < length; i++ {
		ids[i] = arr.Index(i).String()
	}
	eng.Select(ids)
	return nil
}

func pan(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.Pan(args[0].Float(), args[1].Float())
	return nil
}

// zoomAt(factor, screenX, screenY)
func zoomAt(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return nil
	}
	eng.ZoomAt(args[0].Float(), geometry.V(args[1].Float(), args[2].Float()))
	return nil
}

func loadScene(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return missing("scene JSON")
	}
	var sc scene.Scene
	if err := json.Unmarshal([]byte(args[0].String()), &sc); err != nil {
		return result(err)
	}
	return result(eng.LoadScene(sc))
}

func loadSampleScene(this js.Value, args []js.Value) any {
	return result(eng.LoadScene(engine.SampleScene()))
}

// subscribe(fn) calls fn after every state change and returns an
// unsubscribe function.
func subscribe(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeFunction {
		return nil
	}
	fn := args[0]
	unsubscribe := eng.Subscribe(func(store.CoreState) { fn.Invoke() })

	var release js.Func
	release = js.FuncOf(func(this js.Value, args []js.Value) any {
		unsubscribe()
		release.Release()
		return nil
	})
	return release
}

// --- Query Handlers ---

func render(this js.Value, args []js.Value) any {
	out, _ := engine.DrawCommandsToJSON(eng.DisplayList())
	return js.ValueOf(out)
}

func hitTest(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("")
	}
	return js.ValueOf(eng.HitTest(geometry.V(args[0].Float(), args[1].Float())))
}

func getState(this js.Value, args []js.Value) any {
	data, err := json.Marshal(struct {
		store.CoreState
		CanUndo bool `json:"canUndo"`
		CanRedo bool `json:"canRedo"`
	}{eng.State(), eng.CanUndo(), eng.CanRedo()})
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}

func canUndo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.CanUndo())
}

func canRedo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.CanRedo())
}

func getTools(this js.Value, args []js.Value) any {
	ids := eng.ToolIDs()
	out := make([]any, len(ids))
	for i, id := range ids {
		out[i] = id
	}
	return js.ValueOf(out)
}
