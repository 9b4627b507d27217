// Command hello-js is the browser build of the greeting.
// Build with: GOOS=js GOARCH=wasm go build -o web/hello.wasm ./cmd/hello-js

//go:build js && wasm

package main

import (
	"syscall/js"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
	"github.com/woxQAQ/hello-wasm/pkg/greeting"
)

func main() {
	js.Global().Set(wasmapi.ExportGreet, js.FuncOf(func(js.Value, []js.Value) any {
		return greeting.Greet()
	}))

	// Signal that greet is callable.
	js.Global().Set("helloReady", true)

	// Keep the Go program running so JS can keep calling greet.
	select {}
}
