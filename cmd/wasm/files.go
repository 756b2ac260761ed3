//go:build js && wasm

package main

import (
	"context"
	"errors"
	"syscall/js"

	"github.com/kittclouds/grudgebook/pkg/imageload"
)

// jsFile adapts a browser File (or Blob) to imageload.File.
type jsFile struct {
	v js.Value
}

func (f jsFile) Name() string {
	if n := f.v.Get("name"); n.Type() == js.TypeString {
		return n.String()
	}
	return ""
}

func (f jsFile) ContentType() string {
	if t := f.v.Get("type"); t.Type() == js.TypeString {
		return t.String()
	}
	return ""
}

// ReadAll awaits file.arrayBuffer(). Browser reads cannot be cancelled.
func (f jsFile) ReadAll(_ context.Context) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}
	done := make(chan result, 1)

	onOK := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		arr := js.Global().Get("Uint8Array").New(args[0])
		data := make([]byte, arr.Get("length").Int())
		js.CopyBytesToGo(data, arr)
		done <- result{data: data}
		return nil
	})
	defer onOK.Release()

	onErr := js.FuncOf(func(this js.Value, args []js.Value) interface{} {
		msg := "read failed"
		if len(args) > 0 {
			msg = args[0].Call("toString").String()
		}
		done <- result{err: errors.New(msg)}
		return nil
	})
	defer onErr.Release()

	f.v.Call("arrayBuffer").Call("then", onOK).Call("catch", onErr)

	r := <-done
	return r.data, r.err
}

// filesOf converts a FileList or an array of Files.
func filesOf(list js.Value) []imageload.File {
	n := list.Get("length").Int()
	files := make([]imageload.File, 0, n)
	for i := 0; i < n; i++ {
		files = append(files, jsFile{v: list.Index(i)})
	}
	return files
}
