//go:build js && wasm

package main

import (
	"errors"
	"syscall/js"

	"github.com/svgjww/viewer/internal/document"
)

// jsParser adapts a page-supplied parser function (Uint8Array in, JSON
// string or object out) to a ParseFunc. A thrown exception becomes an error
// carrying its message, which may be empty.
func jsParser(fn js.Value) document.ParseFunc {
	return func(data []byte) (out []byte, err error) {
		defer func() {
			if r := recover(); r != nil {
				jsErr, ok := r.(js.Error)
				if !ok {
					panic(r)
				}
				err = errors.New(thrownMessage(jsErr.Value))
			}
		}()

		arr := js.Global().Get("Uint8Array").New(len(data))
		js.CopyBytesToJS(arr, data)
		res := fn.Invoke(arr)
		if res.Type() != js.TypeString {
			res = js.Global().Get("JSON").Call("stringify", res)
		}
		return []byte(res.String()), nil
	}
}

func thrownMessage(v js.Value) string {
	switch v.Type() {
	case js.TypeString:
		return v.String()
	case js.TypeObject:
		if m := v.Get("message"); m.Type() == js.TypeString {
			return m.String()
		}
	}
	return ""
}

// loadFile(bytes, sourceName, parser) parses a raw drawing with the page's
// parser and replaces the session.
func loadFile(args []js.Value) (interface{}, error) {
	if len(args) < 3 || args[2].Type() != js.TypeFunction {
		return nil, &wasmError{Message: "loadFile needs bytes, a file name and a parser function", Code: 400}
	}
	src := args[0]
	data := make([]byte, src.Get("length").Int())
	js.CopyBytesToGo(data, src)

	if err := eng.LoadFile(jsParser(args[2]), data, args[1].String()); err != nil {
		return nil, err
	}
	return eng.DocumentInfo()
}
