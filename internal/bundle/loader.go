package bundle

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/woxQAQ/hello-wasm/internal/wasm"
)

// Loader handles loading bundles from disk.
type Loader struct {
	moduleLoader *wasm.ModuleLoader
	logger       *zap.Logger
}

// NewLoader creates a new bundle loader.
func NewLoader(runtime *wasm.Runtime, logger *zap.Logger) *Loader {
	return &Loader{
		moduleLoader: wasm.NewModuleLoader(runtime, logger),
		logger:       logger.With(zap.String("component", "bundle-loader")),
	}
}

// Load parses the manifest in dir and compiles its wasip1 target, if any.
func (l *Loader) Load(ctx context.Context, dir string) (*Bundle, error) {
	l.logger.Debug("Loading bundle", zap.String("dir", dir))

	manifest, err := ParseManifest(dir)
	if err != nil {
		return nil, err
	}

	b := &Bundle{
		Manifest: manifest,
		LoadedAt: time.Now(),
	}

	target, err := manifest.Target(TargetWasip1)
	if err != nil {
		l.logger.Info("Bundle has no wasip1 target",
			zap.String("name", manifest.Name),
			zap.String("version", manifest.Version),
		)
		return b, nil
	}

	compiled, err := l.moduleLoader.LoadModuleFromFile(ctx, manifest.FilePath(target))
	if err != nil {
		return nil, &BundleLoadError{
			BundleName: manifest.Name,
			Err:        err,
		}
	}
	b.Compiled = compiled

	l.logger.Info("Bundle loaded",
		zap.String("name", manifest.Name),
		zap.String("version", manifest.Version),
		zap.Int64("size_bytes", compiled.SizeBytes),
	)

	return b, nil
}
