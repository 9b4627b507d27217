package greeter

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/hello-wasm/internal/bundle"
	"github.com/woxQAQ/hello-wasm/internal/config"
	"github.com/woxQAQ/hello-wasm/internal/wasm"
	"github.com/woxQAQ/hello-wasm/internal/wasm/wasmtest"
)

func testOptions(t *testing.T, bundleDir string) Options {
	t.Helper()

	logger := zaptest.NewLogger(t)
	runtime, err := wasm.NewRuntime(context.Background(), logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { runtime.Close(context.Background()) })

	return Options{Runtime: runtime, BundleDir: bundleDir, Logger: logger}
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
}

func TestNewNative(t *testing.T) {
	g, err := New(context.Background(), config.TargetNative, Options{})
	require.NoError(t, err)
	assert.IsType(t, Native{}, g)
}

func TestNewWasi(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, bundle.ManifestFile, []byte(
		"name: hello\nversion: 0.1.0\ntargets: [{kind: wasip1, file: hello-wasi.wasm}]\nexports: [greet]\n"))
	writeFile(t, dir, "hello-wasi.wasm", wasmtest.GreetModule)

	ctx := context.Background()
	g, err := New(ctx, config.TargetWasi, testOptions(t, dir))
	require.NoError(t, err)

	got, err := g.Greet(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got)
}

func TestNewWasiWithoutWasip1Target(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, bundle.ManifestFile, []byte(
		"name: hello\nversion: 0.1.0\ntargets: [{kind: js, file: hello.wasm, loader: wasm_exec.js}]\nexports: [greet]\n"))
	writeFile(t, dir, "hello.wasm", nil)
	writeFile(t, dir, "wasm_exec.js", nil)

	_, err := New(context.Background(), config.TargetWasi, testOptions(t, dir))

	var notFound *bundle.TargetNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, bundle.TargetWasip1, notFound.Kind)
}

func TestNewWasiMissingBundle(t *testing.T) {
	_, err := New(context.Background(), config.TargetWasi, testOptions(t, t.TempDir()))

	var notFound *bundle.ManifestNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestNewUnknownTarget(t *testing.T) {
	_, err := New(context.Background(), "browser", Options{})

	var unknown *UnknownTargetError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "unknown target 'browser' (must be one of: native, wasi)", err.Error())
}
