package bundle

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/hello-wasm/internal/wasm"
	"github.com/woxQAQ/hello-wasm/internal/wasm/wasmtest"
)

func newTestLoader(t *testing.T) (*wasm.Runtime, *Loader) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { runtime.Close(context.Background()) })

	return runtime, NewLoader(runtime, logger)
}

func TestLoaderLoad(t *testing.T) {
	runtime, loader := newTestLoader(t)

	dir := writeBundle(t, validManifest, "hello.wasm", "wasm_exec.js")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello-wasi.wasm"), wasmtest.GreetModule, 0o644))

	b, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "hello", b.Name())
	assert.Equal(t, "0.1.0", b.Version())
	require.NotNil(t, b.Compiled)
	assert.Equal(t, filepath.Join(dir, "hello-wasi.wasm"), b.ModuleName())
	assert.False(t, b.LoadedAt.IsZero())

	_, ok := runtime.GetCompiledModule(b.ModuleName())
	assert.True(t, ok, "wasip1 module should be cached on the runtime")
}

func TestLoaderLoadWithoutWasip1Target(t *testing.T) {
	_, loader := newTestLoader(t)

	dir := writeBundle(t,
		"name: hello\nversion: 0.1.0\ntargets: [{kind: js, file: hello.wasm, loader: wasm_exec.js}]\nexports: [greet]\n",
		"hello.wasm", "wasm_exec.js")

	b, err := loader.Load(context.Background(), dir)
	require.NoError(t, err)

	assert.Nil(t, b.Compiled)
	assert.Empty(t, b.ModuleName())
}

func TestLoaderLoadInvalidModule(t *testing.T) {
	_, loader := newTestLoader(t)

	// Empty file is not a valid Wasm binary.
	dir := writeBundle(t, validManifest, "hello.wasm", "wasm_exec.js", "hello-wasi.wasm")

	_, err := loader.Load(context.Background(), dir)

	var loadErr *BundleLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, "hello", loadErr.BundleName)

	var compileErr *wasm.CompilationError
	assert.ErrorAs(t, err, &compileErr)
}

func TestLoaderLoadMissingManifest(t *testing.T) {
	_, loader := newTestLoader(t)

	_, err := loader.Load(context.Background(), t.TempDir())

	var notFound *ManifestNotFoundError
	require.ErrorAs(t, err, &notFound)
}
