//go:build js && wasm

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"runtime/debug"
	"syscall/js"

	"github.com/svgjww/viewer/internal/document"
	"github.com/svgjww/viewer/internal/engine"
)

// wasmResponse is the JSON envelope every exported call returns.
type wasmResponse struct {
	Data  interface{} `json:"data,omitempty"`
	Error *wasmError  `json:"error,omitempty"`
}

type wasmError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *wasmError) Error() string { return e.Message }

type viewerAPI struct {
	exports map[string]js.Func
}

func newViewerAPI() *viewerAPI {
	return &viewerAPI{exports: make(map[string]js.Func)}
}

func (api *viewerAPI) register(name string, fn func(args []js.Value) (interface{}, error)) {
	api.exports[name] = wrapCall(fn)
}

func (api *viewerAPI) exportTo(target js.Value, name string) {
	ns := make(map[string]interface{}, len(api.exports))
	for n, fn := range api.exports {
		ns[n] = fn
	}
	target.Set(name, js.ValueOf(ns))
}

func wrapCall(fn func(args []js.Value) (interface{}, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) (result any) {
		defer func() {
			if r := recover(); r != nil {
				result = encode(wasmResponse{Error: &wasmError{
					Message: fmt.Sprintf("panic recovered: %v\n%s", r, debug.Stack()),
					Code:    500,
				}})
			}
		}()

		data, err := fn(args)
		if err != nil {
			return encode(wasmResponse{Error: toWASMError(err)})
		}
		return encode(wasmResponse{Data: data})
	})
}

func toWASMError(err error) *wasmError {
	var we *wasmError
	if errors.As(err, &we) {
		return we
	}
	var pe *document.ParseError
	switch {
	case errors.As(err, &pe):
		return &wasmError{Message: pe.Message, Code: 422}
	case errors.Is(err, document.ErrNoDocument):
		return &wasmError{Message: err.Error(), Code: 409}
	case errors.Is(err, engine.ErrUnknownRole), errors.Is(err, engine.ErrUnknownLayer), errors.Is(err, engine.ErrUnknownTheme):
		return &wasmError{Message: err.Error(), Code: 400}
	}
	return &wasmError{Message: err.Error(), Code: 500}
}

func encode(resp wasmResponse) string {
	out, err := json.Marshal(resp)
	if err != nil {
		out, _ = json.Marshal(wasmResponse{Error: &wasmError{Message: err.Error(), Code: 500}})
	}
	return string(out)
}

// decodeArg unmarshals the JSON string argument at i into v.
func decodeArg(args []js.Value, i int, v interface{}) error {
	if len(args) <= i || args[i].Type() != js.TypeString {
		return &wasmError{Message: fmt.Sprintf("argument %d: expected JSON string", i), Code: 400}
	}
	if err := json.Unmarshal([]byte(args[i].String()), v); err != nil {
		return &wasmError{Message: fmt.Sprintf("argument %d: %v", i, err), Code: 400}
	}
	return nil
}
