// Command hello-wasi is the greeting built as a WASI reactor for hosts such
// as `hello --target wasi`.
// Build with: GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o web/hello-wasi.wasm ./cmd/hello-wasi

//go:build wasip1

package main

import (
	"runtime"
	"unsafe"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
	"github.com/woxQAQ/hello-wasm/pkg/greeting"
)

//go:wasmimport host log_message
func logMessage(level, ptr, length uint32)

// greet returns greeting.Greet() as a packed (ptr, len). The string is a
// constant, so its bytes stay put for the life of the instance.
//
//go:wasmexport greet
func greet() uint64 {
	msg := greeting.Greet()
	debug("greet called")
	ptr, length := stringToPtr(msg)
	return wasmapi.Pack(ptr, length)
}

func debug(msg string) {
	ptr, length := stringToPtr(msg)
	logMessage(uint32(wasmapi.LogLevelDebug), ptr, length)
	runtime.KeepAlive(msg)
}

func stringToPtr(s string) (uint32, uint32) {
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(s)))), uint32(len(s))
}

// main is required for package main; reactor builds never run it.
func main() {}
