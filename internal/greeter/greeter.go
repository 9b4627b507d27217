// Package greeter produces the greeting through one of the build targets.
package greeter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
	"github.com/woxQAQ/hello-wasm/internal/wasm"
	"github.com/woxQAQ/hello-wasm/pkg/greeting"
)

// Greeter returns the greeting text.
type Greeter interface {
	Greet(ctx context.Context) (string, error)
}

// Native calls greeting.Greet in-process.
type Native struct{}

func (Native) Greet(context.Context) (string, error) {
	return greeting.Greet(), nil
}

// Module calls the greet export of a compiled guest. Every call runs in a
// fresh instance that is closed before Greet returns.
type Module struct {
	instances  *wasm.InstanceManager
	moduleName string
	logger     *zap.Logger
}

// NewModule returns a Greeter backed by the compiled module moduleName.
func NewModule(instances *wasm.InstanceManager, moduleName string, logger *zap.Logger) *Module {
	return &Module{
		instances:  instances,
		moduleName: moduleName,
		logger:     logger.With(zap.String("component", "greeter")),
	}
}

func (m *Module) Greet(ctx context.Context) (string, error) {
	start := time.Now()

	instance, err := m.instances.Instantiate(ctx, &wasm.InstanceConfig{ModuleName: m.moduleName})
	if err != nil {
		return "", err
	}
	defer func() {
		if err := instance.Close(ctx); err != nil {
			m.logger.Warn("Failed to close instance",
				zap.String("instance_id", instance.ID),
				zap.Error(err),
			)
		}
	}()

	results, err := instance.Call(ctx, wasmapi.ExportGreet)
	if err != nil {
		return "", err
	}
	if len(results) != 1 {
		return "", fmt.Errorf("%s returned %d values, want 1", wasmapi.ExportGreet, len(results))
	}

	msg, err := wasm.NewMemory(instance.Module()).ReadPacked(results[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s result: %w", wasmapi.ExportGreet, err)
	}

	m.logger.Debug("Greeting produced by guest",
		zap.String("module", m.moduleName),
		zap.Duration("duration", time.Since(start)),
	)

	return msg, nil
}
