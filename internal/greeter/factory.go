package greeter

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/woxQAQ/hello-wasm/internal/bundle"
	"github.com/woxQAQ/hello-wasm/internal/config"
	"github.com/woxQAQ/hello-wasm/internal/wasm"
)

// UnknownTargetError occurs when no Greeter exists for a target name.
type UnknownTargetError struct {
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("unknown target '%s' (must be one of: %s, %s)",
		e.Target, config.TargetNative, config.TargetWasi)
}

// Options carries what the wasi target needs. Native ignores it.
type Options struct {
	Runtime   *wasm.Runtime
	BundleDir string
	Logger    *zap.Logger
}

// New returns the Greeter for target. For the wasi target it loads the
// bundle in opts.BundleDir and compiles its wasip1 module on opts.Runtime.
func New(ctx context.Context, target string, opts Options) (Greeter, error) {
	switch target {
	case config.TargetNative:
		return Native{}, nil
	case config.TargetWasi:
		b, err := bundle.NewLoader(opts.Runtime, opts.Logger).Load(ctx, opts.BundleDir)
		if err != nil {
			return nil, err
		}
		if b.Compiled == nil {
			return nil, &bundle.TargetNotFoundError{Bundle: b.Name(), Kind: bundle.TargetWasip1}
		}

		instances := wasm.NewInstanceManager(opts.Runtime, wasm.NewHostFunctions(opts.Logger), opts.Logger)
		return NewModule(instances, b.ModuleName(), opts.Logger), nil
	default:
		return nil, &UnknownTargetError{Target: target}
	}
}
