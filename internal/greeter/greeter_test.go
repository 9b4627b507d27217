package greeter

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/woxQAQ/hello-wasm/internal/wasm"
	"github.com/woxQAQ/hello-wasm/internal/wasm/wasmtest"
	"github.com/woxQAQ/hello-wasm/pkg/greeting"
)

func newModuleGreeter(t *testing.T, name string, code []byte) (*wasm.Runtime, *Module) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	ctx := context.Background()

	runtime, err := wasm.NewRuntime(ctx, logger, nil)
	require.NoError(t, err)
	t.Cleanup(func() { runtime.Close(context.Background()) })

	_, err = wasm.NewModuleLoader(runtime, logger).LoadModuleFromMemory(ctx, name, code)
	require.NoError(t, err)

	instances := wasm.NewInstanceManager(runtime, wasm.NewHostFunctions(logger), logger)
	return runtime, NewModule(instances, name, logger)
}

func TestNativeGreet(t *testing.T) {
	got, err := Native{}.Greet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got)
}

func TestModuleGreet(t *testing.T) {
	runtime, g := newModuleGreeter(t, "greet", wasmtest.GreetModule)

	got, err := g.Greet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Hello, world!", got)

	// The instance is released after each call.
	assert.Equal(t, 0, runtime.InstanceCount())
}

func TestTargetsAgree(t *testing.T) {
	_, module := newModuleGreeter(t, "greet", wasmtest.GreetModule)

	for name, g := range map[string]Greeter{"native": Native{}, "module": module} {
		t.Run(name, func(t *testing.T) {
			got, err := g.Greet(context.Background())
			require.NoError(t, err)
			assert.Equal(t, greeting.Message, got)
		})
	}
}

func TestModuleGreetRepeated(t *testing.T) {
	_, g := newModuleGreeter(t, "greet", wasmtest.GreetModule)

	for i := 0; i < 5; i++ {
		got, err := g.Greet(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "Hello, world!", got)
	}
}

func TestModuleGreetMissingExport(t *testing.T) {
	runtime, g := newModuleGreeter(t, "memory-only", wasmtest.MemoryModule)

	_, err := g.Greet(context.Background())

	var notFound *wasm.FunctionNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, 0, runtime.InstanceCount())
}

func TestModuleGreetUnknownModule(t *testing.T) {
	_, g := newModuleGreeter(t, "greet", wasmtest.GreetModule)
	g.moduleName = "missing"

	_, err := g.Greet(context.Background())

	var notFound *wasm.ModuleNotFoundError
	require.ErrorAs(t, err, &notFound)
}
