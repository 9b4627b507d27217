// Package bundle reads the manifest that describes the built Wasm targets
// and prepares the wasip1 build for the host runtime.
package bundle

import (
	"time"

	"github.com/woxQAQ/hello-wasm/internal/wasm"
)

//go:generate sh -c "GOOS=js GOARCH=wasm go build -o ../../web/hello.wasm ../../cmd/hello-js"
//go:generate sh -c "GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o ../../web/hello-wasi.wasm ../../cmd/hello-wasi"
//go:generate sh -c "cp \"$(go env GOROOT)/lib/wasm/wasm_exec.js\" ../../web/"

// Bundle is a parsed manifest plus its compiled wasip1 module.
type Bundle struct {
	Manifest *Manifest

	// Compiled is nil when the bundle has no wasip1 target.
	Compiled *wasm.CompiledModule

	LoadedAt time.Time
}

func (b *Bundle) Name() string {
	return b.Manifest.Name
}

func (b *Bundle) Version() string {
	return b.Manifest.Version
}

// ModuleName returns the name the wasip1 module is cached under, or "" if
// the bundle has none.
func (b *Bundle) ModuleName() string {
	if b.Compiled == nil {
		return ""
	}
	return b.Compiled.Name
}
