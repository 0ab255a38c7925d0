//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/voxelsplace/schem2vox/api"
	"github.com/voxelsplace/schem2vox/config"
)

func bytesFromJS(v js.Value) []byte {
	buf := make([]byte, v.Get("length").Int())
	js.CopyBytesToGo(buf, v)
	return buf
}

func bytesToJS(b []byte) js.Value {
	arr := js.Global().Get("Uint8Array").New(len(b))
	js.CopyBytesToJS(arr, b)
	return arr
}

// convertOptions reads an optional JS object with the same keys as the
// [convert] config section.
func convertOptions(v js.Value) config.Convert {
	c := config.Default().Convert
	if v.Type() != js.TypeObject {
		return c
	}
	ints := map[string]*int{
		"way": &c.Way, "scale": &c.Scale, "min_y": &c.MinY, "max_y": &c.MaxY,
		"heightmap": &c.Heightmap, "max_chunk_voxels": &c.MaxChunkVoxels,
	}
	for k, p := range ints {
		if f := v.Get(k); f.Type() == js.TypeNumber {
			*p = f.Int()
		}
	}
	bools := map[string]*bool{"excavate": &c.Excavate, "color": &c.Color, "top": &c.Top}
	for k, p := range bools {
		if f := v.Get(k); f.Type() == js.TypeBoolean {
			*p = f.Bool()
		}
	}
	return c
}

// convert(name, bytes, options?) -> Uint8Array | error string
func convert(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return js.ValueOf("missing file name or bytes")
	}
	var opts js.Value
	if len(args) > 2 {
		opts = args[2]
	}
	out, err := api.ConvertNamed(args[0].String(), bytesFromJS(args[1]), convertOptions(opts))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func vox2glb(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vox bytes")
	}
	out, err := api.VOXToGLB(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return bytesToJS(out)
}

func voxinfo(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf("missing vox bytes")
	}
	s, err := api.VOXInfo(bytesFromJS(args[0]))
	if err != nil {
		return js.ValueOf(err.Error())
	}
	return js.ValueOf(s)
}

func main() {
	js.Global().Set("schem2vox", js.FuncOf(convert))
	js.Global().Set("vox2glb", js.FuncOf(vox2glb))
	js.Global().Set("voxinfo", js.FuncOf(voxinfo))
	select {}
}
