package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, TargetNative, cfg.Target)
	assert.Equal(t, "./web", cfg.BundleDir)
	assert.Equal(t, "127.0.0.1:8080", cfg.Web.Addr)
	assert.Equal(t, 5*time.Second, cfg.Web.ShutdownTimeout)
	assert.Equal(t, uint32(256), cfg.Wasm.MemoryPages)
	assert.False(t, cfg.Wasm.Debug)
	assert.Empty(t, cfg.Wasm.CacheDir)
	assert.Equal(t, 100, cfg.Wasm.MaxInstances)
	assert.Equal(t, 30*time.Second, cfg.Wasm.ExecutionTimeout)
}

func TestLoadFromFile(t *testing.T) {
	t.Chdir(t.TempDir())

	path := writeConfig(t, `
log_level: debug
target: wasi
bundle_dir: /srv/hello
web:
  addr: 0.0.0.0:9000
  shutdown_timeout: 2s
wasm:
  memory_pages: 64
  debug: true
  execution_timeout: 1s
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, TargetWasi, cfg.Target)
	assert.Equal(t, "/srv/hello", cfg.BundleDir)
	assert.Equal(t, "0.0.0.0:9000", cfg.Web.Addr)
	assert.Equal(t, 2*time.Second, cfg.Web.ShutdownTimeout)
	assert.Equal(t, uint32(64), cfg.Wasm.MemoryPages)
	assert.True(t, cfg.Wasm.Debug)
	assert.Equal(t, time.Second, cfg.Wasm.ExecutionTimeout)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Wasm.MaxInstances)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	require.Error(t, err)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "log_level: [unterminated\n")

	_, err := Load(path, nil)
	require.Error(t, err)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Chdir(t.TempDir())
	path := writeConfig(t, "web:\n  addr: 0.0.0.0:9000\n")
	t.Setenv("HELLO_WEB_ADDR", "127.0.0.1:7000")
	t.Setenv("HELLO_WASM_MAX_INSTANCES", "3")

	cfg, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:7000", cfg.Web.Addr)
	assert.Equal(t, 3, cfg.Wasm.MaxInstances)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("HELLO_BUNDLE_DIR") })

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("HELLO_BUNDLE_DIR=/from/dotenv\n"), 0o644))

	cfg, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "/from/dotenv", cfg.BundleDir)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HELLO_TARGET", TargetNative)

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("target", TargetNative, "")
	flags.String("log-level", "info", "")
	require.NoError(t, flags.Parse([]string{"--target", TargetWasi}))

	cfg, err := Load("", flags)
	require.NoError(t, err)

	assert.Equal(t, TargetWasi, cfg.Target)
	// Unchanged flags do not shadow lower layers.
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Target: TargetNative,
			Web:    WebConfig{ShutdownTimeout: time.Second},
			Wasm:   WasmConfig{MemoryPages: 1, MaxInstances: 1},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown target", func(c *Config) { c.Target = "browser" }},
		{"zero memory pages", func(c *Config) { c.Wasm.MemoryPages = 0 }},
		{"too many memory pages", func(c *Config) { c.Wasm.MemoryPages = 65537 }},
		{"zero max instances", func(c *Config) { c.Wasm.MaxInstances = 0 }},
		{"negative execution timeout", func(c *Config) { c.Wasm.ExecutionTimeout = -time.Second }},
		{"zero shutdown timeout", func(c *Config) { c.Web.ShutdownTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
