// Copyright 2023 Gustavo C. Viegas. All rights reserved.

//go:build js && wasm

// Kernelwasm exposes the scene schema version and a numeric
// entry point to JavaScript hosts.
//
// It registers two functions on the global object:
//
//	schemaVersion() string
//	add(a, b number) number
package main

import (
	"syscall/js"

	"github.com/gviegas/scenegraph/scene"
)

func schemaVersion(js.Value, []js.Value) any { return scene.Current.String() }

func add(_ js.Value, args []js.Value) any {
	if len(args) != 2 {
		return js.Global().Get("NaN")
	}
	return args[0].Float() + args[1].Float()
}

func main() {
	g := js.Global()
	g.Set("schemaVersion", js.FuncOf(schemaVersion))
	g.Set("add", js.FuncOf(add))
	select {}
}
