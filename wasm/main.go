// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

//go:build js && wasm

// Command wasm exposes worlds to JavaScript hosts.
//
// Each call of the global DocWorld() returns an object bound
// to its own session.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"syscall/js"

	"github.com/hashicorp/docworld/internal/settings"
	"github.com/hashicorp/docworld/library"
	"github.com/hashicorp/docworld/session"
	"github.com/hashicorp/docworld/world"
	"github.com/hashicorp/go-multierror"
)

func main() {
	js.Global().Set("DocWorld", js.FuncOf(newWorld))

	// Keep the program running
	select {}
}

func newWorld(this js.Value, args []js.Value) interface{} {
	sess, err := session.NewSession()
	if err != nil {
		return jsError(fmt.Sprintf("Failed to create session: %s", err))
	}
	b := &binding{sess: sess}

	return js.ValueOf(map[string]interface{}{
		"configure":          js.FuncOf(b.configure),
		"setInputs":          js.FuncOf(b.setInputs),
		"setFonts":           js.FuncOf(b.setFonts),
		"addFont":            js.FuncOf(b.addFont),
		"setSourcesAndFiles": js.FuncOf(b.setSourcesAndFiles),
		"addSource":          js.FuncOf(b.addSource),
		"addFile":            js.FuncOf(b.addFile),
		"compile":            js.FuncOf(b.compile),
		"renderPdf":          js.FuncOf(b.renderPdf),
		"renderSvg":          js.FuncOf(b.renderSvg),
		"renderSvgPages":     js.FuncOf(b.renderSvgPages),
		"fonts":              js.FuncOf(b.fonts),
	})
}

type binding struct {
	sess *session.Session
}

func (b *binding) configure(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("configure requires an options object")
	}
	raw := stringifyJSON(args[0])

	var input map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &input); err != nil {
		return jsError(fmt.Sprintf("Invalid options: %s", err))
	}
	opts, err := settings.DecodeOptions(input)
	if err != nil {
		return jsError(err.Error())
	}
	if err := b.sess.Configure(opts.Options); err != nil {
		return jsError(err.Error())
	}

	unused := make([]interface{}, 0, len(opts.UnusedKeys))
	for _, k := range opts.UnusedKeys {
		unused = append(unused, k)
	}
	return jsSuccess(map[string]interface{}{
		"unusedKeys": unused,
	})
}

func (b *binding) setInputs(this js.Value, args []js.Value) interface{} {
	raw := "null"
	if len(args) > 0 {
		raw = stringifyJSON(args[0])
	}
	inputs, err := library.DecodeInputsJSON([]byte(raw))
	if err != nil {
		return jsError(err.Error())
	}
	b.sess.SetInputs(inputs)
	return jsSuccess(map[string]interface{}{})
}

func (b *binding) setFonts(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("setFonts requires an array of buffers")
	}
	arr := args[0]
	inputs := make([]world.FontInput, 0, arr.Length())
	for i := 0; i < arr.Length(); i++ {
		data, err := bytesFromJS(arr.Index(i))
		if err != nil {
			return jsError(fmt.Sprintf("font %d: %s", i, err))
		}
		inputs = append(inputs, world.FontInput{
			Path: fmt.Sprintf("font-%d", i),
			Data: data,
		})
	}
	return fontsResult(b.sess.SetFonts(inputs))
}

func (b *binding) addFont(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return jsError("addFont requires a buffer")
	}
	path := "font"
	if len(args) > 1 {
		path = args[1].String()
	}
	data, err := bytesFromJS(args[0])
	if err != nil {
		return jsError(err.Error())
	}
	return fontsResult(b.sess.AddFont(world.FontInput{
		Path: path,
		Data: data,
	}))
}

func (b *binding) setSourcesAndFiles(this js.Value, args []js.Value) interface{} {
	sources := make([]world.SourceInput, 0)
	files := make([]world.FileInput, 0)

	if len(args) > 0 && args[0].Type() == js.TypeObject {
		for _, path := range objectKeys(args[0]) {
			sources = append(sources, world.SourceInput{
				Path: path,
				Text: args[0].Get(path).String(),
			})
		}
	}
	if len(args) > 1 && args[1].Type() == js.TypeObject {
		for _, path := range objectKeys(args[1]) {
			data, err := bytesFromJS(args[1].Get(path))
			if err != nil {
				return jsError(fmt.Sprintf("%s: %s", path, err))
			}
			files = append(files, world.FileInput{
				Path: path,
				Data: data,
			})
		}
	}

	if err := b.sess.SetSourcesAndFiles(sources, files); err != nil {
		return jsError(err.Error())
	}
	return jsSuccess(map[string]interface{}{})
}

func (b *binding) addSource(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return jsError("addSource requires a path and text")
	}
	if err := b.sess.AddSource(args[0].String(), args[1].String()); err != nil {
		return jsError(err.Error())
	}
	return jsSuccess(map[string]interface{}{})
}

func (b *binding) addFile(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return jsError("addFile requires a path and a buffer")
	}
	data, err := bytesFromJS(args[1])
	if err != nil {
		return jsError(err.Error())
	}
	if err := b.sess.AddFile(args[0].String(), data); err != nil {
		return jsError(err.Error())
	}
	return jsSuccess(map[string]interface{}{})
}

func (b *binding) compile(this js.Value, args []js.Value) interface{} {
	result := b.sess.Compile(context.Background())
	return map[string]interface{}{
		"id":       result.ID,
		"success":  result.Success(),
		"text":     result.Text(),
		"errors":   len(result.Errors()),
		"warnings": len(result.Warnings()),
	}
}

func (b *binding) renderPdf(this js.Value, args []js.Value) interface{} {
	data, err := b.sess.RenderPDF()
	if err != nil {
		return jsError(err.Error())
	}
	return bytesToJS(data)
}

func (b *binding) renderSvg(this js.Value, args []js.Value) interface{} {
	return b.sess.RenderSVG()
}

func (b *binding) renderSvgPages(this js.Value, args []js.Value) interface{} {
	pages := b.sess.RenderSVGPages()
	out := make([]interface{}, 0, len(pages))
	for _, p := range pages {
		out = append(out, p)
	}
	return out
}

func (b *binding) fonts(this js.Value, args []js.Value) interface{} {
	infos := b.sess.Fonts()
	out := make([]interface{}, 0, len(infos))
	for _, info := range infos {
		out = append(out, map[string]interface{}{
			"family":    info.Family,
			"subfamily": info.Subfamily,
			"style":     info.Style.String(),
			"weight":    info.Weight,
		})
	}
	return out
}

func fontsResult(err error) interface{} {
	if err == nil {
		return jsSuccess(map[string]interface{}{})
	}
	errs := make([]interface{}, 0)
	if me, ok := err.(*multierror.Error); ok {
		for _, e := range me.Errors {
			errs = append(errs, e.Error())
		}
	} else {
		errs = append(errs, err.Error())
	}
	return map[string]interface{}{
		"success": false,
		"errors":  errs,
	}
}

func objectKeys(obj js.Value) []string {
	keys := js.Global().Get("Object").Call("keys", obj)
	out := make([]string, 0, keys.Length())
	for i := 0; i < keys.Length(); i++ {
		out = append(out, keys.Index(i).String())
	}
	sort.Strings(out)
	return out
}

func stringifyJSON(v js.Value) string {
	if v.IsUndefined() {
		return "null"
	}
	return js.Global().Get("JSON").Call("stringify", v).String()
}

// bytesFromJS copies a Uint8Array, any other typed array view
// or an ArrayBuffer into a Go slice
func bytesFromJS(v js.Value) ([]byte, error) {
	uint8Array := js.Global().Get("Uint8Array")
	arrayBuffer := js.Global().Get("ArrayBuffer")

	switch {
	case v.Type() != js.TypeObject:
		return nil, fmt.Errorf("expected Uint8Array or ArrayBuffer, given %s", v.Type())
	case v.InstanceOf(uint8Array):
	case v.InstanceOf(arrayBuffer):
		v = uint8Array.New(v)
	case arrayBuffer.Call("isView", v).Bool():
		v = uint8Array.New(v.Get("buffer"), v.Get("byteOffset"), v.Get("byteLength"))
	default:
		return nil, fmt.Errorf("expected Uint8Array or ArrayBuffer")
	}

	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf, nil
}

func bytesToJS(data []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(data))
	js.CopyBytesToJS(arr, data)
	return arr
}

func jsError(message string) map[string]interface{} {
	return map[string]interface{}{
		"success": false,
		"error":   message,
	}
}

func jsSuccess(data map[string]interface{}) map[string]interface{} {
	data["success"] = true
	return data
}
