// Package cli implements the hello command line.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/woxQAQ/hello-wasm/internal/config"
	"github.com/woxQAQ/hello-wasm/internal/greeter"
	"github.com/woxQAQ/hello-wasm/internal/logging"
	"github.com/woxQAQ/hello-wasm/internal/wasm"
)

// Execute runs the root command until it finishes or the process receives
// SIGINT/SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand returns the hello command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(logging.New)
}

// app holds state shared by the commands of one invocation.
type app struct {
	newLogger func(level string) (*zap.Logger, error)

	configPath string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCommand(newLogger func(level string) (*zap.Logger, error)) *cobra.Command {
	a := &app{newLogger: newLogger}

	cmd := &cobra.Command{
		Use:   "hello",
		Short: "Print a greeting",
		Long: `Print "Hello, world!" using the native build (default) or the
wasip1 Wasm build hosted in-process.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: a.runGreet,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "Path to configuration file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("bundle-dir", "./web", "Directory holding manifest.yaml and the Wasm builds")

	cmd.Flags().String("target", config.TargetNative, "Build that produces the greeting (native, wasi)")

	cmd.AddCommand(a.newServeCommand(), newVersionCommand())

	return cmd
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, cmd.Flags())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := a.newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logger

	a.logger.Debug("Configuration loaded",
		zap.String("command", cmd.Name()),
		zap.String("config", a.configPath),
		zap.String("target", cfg.Target),
		zap.String("bundle_dir", cfg.BundleDir),
	)

	return nil
}

func (a *app) runGreet(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	opts := greeter.Options{
		BundleDir: a.cfg.BundleDir,
		Logger:    a.logger,
	}

	if a.cfg.Target == config.TargetWasi {
		runtime, err := wasm.NewRuntime(ctx, a.logger, a.runtimeConfig())
		if err != nil {
			return fmt.Errorf("failed to initialize Wasm runtime: %w", err)
		}
		defer func() {
			if err := runtime.Close(ctx); err != nil {
				a.logger.Error("Failed to shutdown Wasm runtime", zap.Error(err))
			}
		}()
		opts.Runtime = runtime
	}

	g, err := greeter.New(ctx, a.cfg.Target, opts)
	if err != nil {
		return err
	}

	msg, err := g.Greet(ctx)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return err
}

func (a *app) runtimeConfig() *wasm.RuntimeConfig {
	return &wasm.RuntimeConfig{
		MemoryPages:      a.cfg.Wasm.MemoryPages,
		DebugEnabled:     a.cfg.Wasm.Debug,
		CacheDir:         a.cfg.Wasm.CacheDir,
		MaxInstances:     a.cfg.Wasm.MaxInstances,
		ExecutionTimeout: a.cfg.Wasm.ExecutionTimeout,
	}
}
