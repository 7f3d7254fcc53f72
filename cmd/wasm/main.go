//go:build js && wasm

package main

import (
	"log/slog"
	"os"
	"syscall/js"

	"github.com/svgjww/viewer/internal/engine"
	"github.com/svgjww/viewer/internal/printout"
)

var eng *engine.Engine

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	eng = engine.NewEngine()
	eng.SetPrinter(printout.Printer)

	api := newViewerAPI()

	// --- Commands (frontend → engine) ---
	api.register("loadDocument", loadDocument)
	api.register("loadFile", loadFile)
	api.register("loadSampleDocument", loadSampleDocument)
	api.register("resize", resize)
	api.register("dispatch", dispatch)
	api.register("pointer", pointer)
	api.register("touch", touch)
	api.register("wheel", wheel)
	api.register("key", key)
	api.register("click", click)

	// --- Queries (frontend ← engine) ---
	api.register("render", render)
	api.register("viewBox", viewBox)
	api.register("layers", layers)
	api.register("documentInfo", documentInfo)
	api.register("selection", selection)
	api.register("displayStatus", displayStatus)
	api.register("roles", roles)

	api.exportTo(js.Global(), "jwwViewer")
	js.Global().Set("jwwWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

// --- Command Handlers ---

// loadDocument(json, sourceName) replaces the session with a parsed document.
func loadDocument(args []js.Value) (interface{}, error) {
	if len(args) < 1 || args[0].Type() != js.TypeString {
		return nil, &wasmError{Message: "missing document JSON", Code: 400}
	}
	source := ""
	if len(args) > 1 && args[1].Type() == js.TypeString {
		source = args[1].String()
	}
	if err := eng.LoadJSON([]byte(args[0].String()), source); err != nil {
		slog.Error("load document", "source", source, "error", err)
		return nil, err
	}
	return eng.DocumentInfo()
}

func loadSampleDocument(args []js.Value) (interface{}, error) {
	eng.LoadSampleDocument()
	return eng.DocumentInfo()
}

func resize(args []js.Value) (interface{}, error) {
	if len(args) < 2 {
		return nil, &wasmError{Message: "resize needs width and height", Code: 400}
	}
	eng.Resize(args[0].Float(), args[1].Float())
	return viewState(engine.EffectView), nil
}

func dispatch(args []js.Value) (interface{}, error) {
	var a engine.Action
	if err := decodeArg(args, 0, &a); err != nil {
		return nil, err
	}
	res, err := eng.Dispatch(a)
	if err != nil {
		return nil, err
	}
	out := viewState(res.Effect)
	out.Output = res.Output
	return out, nil
}

func pointer(args []js.Value) (interface{}, error) {
	var ev engine.PointerEvent
	if err := decodeArg(args, 0, &ev); err != nil {
		return nil, err
	}
	return eventResponse(eng.Pointer(ev)), nil
}

func touch(args []js.Value) (interface{}, error) {
	var ev engine.TouchEvent
	if err := decodeArg(args, 0, &ev); err != nil {
		return nil, err
	}
	return eventResponse(eng.Touch(ev)), nil
}

func wheel(args []js.Value) (interface{}, error) {
	var ev engine.WheelEvent
	if err := decodeArg(args, 0, &ev); err != nil {
		return nil, err
	}
	return eventResponse(eng.Wheel(ev)), nil
}

func key(args []js.Value) (interface{}, error) {
	var ev engine.KeyEvent
	if err := decodeArg(args, 0, &ev); err != nil {
		return nil, err
	}
	return eventResponse(eng.Key(ev)), nil
}

func click(args []js.Value) (interface{}, error) {
	var ev engine.ClickEvent
	if err := decodeArg(args, 0, &ev); err != nil {
		return nil, err
	}
	return eventResponse(eng.Click(ev)), nil
}

// --- Query Handlers ---

func render(args []js.Value) (interface{}, error) {
	return eng.Render()
}

func viewBox(args []js.Value) (interface{}, error) {
	return viewState(engine.EffectView), nil
}

func layers(args []js.Value) (interface{}, error) {
	return eng.Layers(), nil
}

func documentInfo(args []js.Value) (interface{}, error) {
	return eng.DocumentInfo()
}

func selection(args []js.Value) (interface{}, error) {
	return eng.Selection(), nil
}

func displayStatus(args []js.Value) (interface{}, error) {
	return eng.DisplayStatus(), nil
}

func roles(args []js.Value) (interface{}, error) {
	return engine.Roles(), nil
}
