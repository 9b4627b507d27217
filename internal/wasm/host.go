package wasm

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	wasmapi "github.com/woxQAQ/hello-wasm/api/wasm"
)

// HostFunctions implements the functions guests import from the "host" module.
type HostFunctions struct {
	logger *zap.Logger
}

// NewHostFunctions creates a new host functions implementation.
func NewHostFunctions(logger *zap.Logger) *HostFunctions {
	return &HostFunctions{
		logger: logger.With(zap.String("component", "wasm-host")),
	}
}

// logMessage is called by guests to log messages.
// Signature: log_message(level, ptr, length)
func (h *HostFunctions) logMessage(ctx context.Context, mod api.Module, level uint32, ptr uint32, length uint32) {
	msg, ok := mod.Memory().Read(ptr, length)
	if !ok {
		h.logger.Error("Failed to read log message from Wasm memory",
			zap.String("module", mod.Name()),
			zap.Uint32("ptr", ptr),
			zap.Uint32("length", length),
		)
		return
	}

	guest := zap.String("module", mod.Name())

	switch wasmapi.LogLevel(level) {
	case wasmapi.LogLevelDebug:
		h.logger.Debug(string(msg), guest)
	case wasmapi.LogLevelInfo:
		h.logger.Info(string(msg), guest)
	case wasmapi.LogLevelWarn:
		h.logger.Warn(string(msg), guest)
	case wasmapi.LogLevelError:
		h.logger.Error(string(msg), guest)
	default:
		h.logger.Info(string(msg), guest, zap.Uint32("level", level))
	}
}

// export registers the host functions on builder.
func (h *HostFunctions) export(builder wazero.HostModuleBuilder) wazero.HostModuleBuilder {
	return builder.NewFunctionBuilder().
		WithFunc(h.logMessage).
		WithParameterNames("level", "ptr", "length").
		Export(wasmapi.HostLogMessage)
}
