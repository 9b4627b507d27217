package wasm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
)

// InstanceManager creates and manages module instances.
type InstanceManager struct {
	runtime   *Runtime
	logger    *zap.Logger
	hostFuncs *HostFunctions
}

// NewInstanceManager creates a new instance manager.
// The first manager to instantiate on a Runtime provides its host functions.
func NewInstanceManager(runtime *Runtime, hostFuncs *HostFunctions, logger *zap.Logger) *InstanceManager {
	return &InstanceManager{
		runtime:   runtime,
		hostFuncs: hostFuncs,
		logger:    logger.With(zap.String("component", "wasm-instance")),
	}
}

// InstanceConfig holds configuration for creating instances.
type InstanceConfig struct {
	// Module name to instantiate.
	ModuleName string

	// Instance ID (if empty, a UUID is generated).
	InstanceID string
}

// Instance represents an instantiated Wasm module.
type Instance struct {
	module  api.Module
	runtime *Runtime

	ID        string
	Name      string
	CreatedAt int64

	// Exported functions, resolved once at instantiation.
	exports map[string]api.Function
}

// Instantiate creates a new instance from a compiled module.
func (m *InstanceManager) Instantiate(ctx context.Context, config *InstanceConfig) (*Instance, error) {
	if m.runtime.IsClosed() {
		return nil, ErrRuntimeClosed
	}

	compiled, ok := m.runtime.GetCompiledModule(config.ModuleName)
	if !ok {
		return nil, &ModuleNotFoundError{ModuleName: config.ModuleName}
	}

	limit := m.runtime.config.MaxInstances
	if !m.runtime.reserveInstance(limit) {
		return nil, &InstanceLimitError{ModuleName: config.ModuleName, Limit: limit}
	}

	instance, err := m.instantiate(ctx, compiled, config)
	if err != nil {
		m.runtime.releaseInstance()
		return nil, err
	}

	m.runtime.trackInstance(instance.ID, instance)

	m.logger.Debug("Module instantiated",
		zap.String("instance_id", instance.ID),
		zap.Int("exported_functions", len(instance.exports)),
	)

	return instance, nil
}

func (m *InstanceManager) instantiate(ctx context.Context, compiled *CompiledModule, config *InstanceConfig) (*Instance, error) {
	if err := m.instantiateHostModules(ctx); err != nil {
		return nil, err
	}

	instanceID := config.InstanceID
	if instanceID == "" {
		instanceID = uuid.NewString()
	}

	m.logger.Debug("Instantiating Wasm module",
		zap.String("module", config.ModuleName),
		zap.String("instance_id", instanceID),
	)

	var out io.Writer = io.Discard
	if m.runtime.config.DebugEnabled {
		out = os.Stderr
	}

	// Reactor builds export _initialize; modules without it skip the call.
	moduleConfig := wazero.NewModuleConfig().
		WithName(instanceID).
		WithStdout(out).
		WithStderr(out).
		WithStartFunctions(wasmapi.ExportInitialize)

	module, err := m.runtime.runtime.InstantiateModule(ctx, compiled.Module, moduleConfig)
	if err != nil {
		return nil, &InstantiationError{
			ModuleName: config.ModuleName,
			InstanceID: instanceID,
			Err:        err,
		}
	}

	return &Instance{
		module:    module,
		runtime:   m.runtime,
		ID:        instanceID,
		Name:      config.ModuleName,
		CreatedAt: time.Now().Unix(),
		exports:   cacheExportedFunctions(compiled, module),
	}, nil
}

// instantiateHostModules makes WASI preview1 and the host module available
// to guests. It runs once per Runtime; later calls return the first result.
func (m *InstanceManager) instantiateHostModules(ctx context.Context) error {
	r := m.runtime
	r.hostOnce.Do(func() {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.runtime); err != nil {
			r.hostErr = fmt.Errorf("failed to instantiate WASI: %w", err)
			return
		}

		builder := m.hostFuncs.export(r.runtime.NewHostModuleBuilder(wasmapi.HostModule))
		if _, err := builder.Instantiate(ctx); err != nil {
			r.hostErr = fmt.Errorf("failed to instantiate host module: %w", err)
		}
	})
	return r.hostErr
}

// Module returns the underlying wazero module.
func (i *Instance) Module() api.Module {
	return i.module
}

// Call invokes an exported function, bounded by the runtime's execution timeout.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	fn, ok := i.exports[name]
	if !ok {
		return nil, &FunctionNotFoundError{ModuleName: i.Name, FunctionName: name}
	}

	timeout := i.runtime.config.ExecutionTimeout
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	results, err := fn.Call(ctx, params...)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{FunctionName: name, Duration: timeout, Err: err}
		}
		return nil, fmt.Errorf("call %s in module %s: %w", name, i.Name, err)
	}

	return results, nil
}

// Close closes the instance and releases resources.
func (i *Instance) Close(ctx context.Context) error {
	i.runtime.DeleteInstance(i.ID)
	return i.module.Close(ctx)
}

func cacheExportedFunctions(compiled *CompiledModule, module api.Module) map[string]api.Function {
	exports := make(map[string]api.Function)

	for name := range compiled.Module.ExportedFunctions() {
		if fn := module.ExportedFunction(name); fn != nil {
			exports[name] = fn
		}
	}

	return exports
}
