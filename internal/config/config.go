package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HELLO_WEB_ADDR.
const EnvPrefix = "HELLO"

// Targets understood by the CLI.
const (
	TargetNative = "native"
	TargetWasi   = "wasi"
)

// Config is the application configuration.
type Config struct {
	LogLevel  string     `mapstructure:"log_level"`
	Target    string     `mapstructure:"target"`
	BundleDir string     `mapstructure:"bundle_dir"`
	Web       WebConfig  `mapstructure:"web"`
	Wasm      WasmConfig `mapstructure:"wasm"`
}

// WebConfig holds the browser host configuration.
type WebConfig struct {
	// Listen address.
	Addr string `mapstructure:"addr"`
	// Grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// WasmConfig holds Wasm runtime configuration.
type WasmConfig struct {
	// Memory limit per module (in pages, 64KB each).
	MemoryPages uint32 `mapstructure:"memory_pages"`
	// Forward guest stdout/stderr.
	Debug bool `mapstructure:"debug"`
	// Compilation cache directory.
	CacheDir string `mapstructure:"cache_dir"`
	// Maximum concurrent instances.
	MaxInstances int `mapstructure:"max_instances"`
	// Bound on a single guest call.
	ExecutionTimeout time.Duration `mapstructure:"execution_timeout"`
}

// flagKeys maps config keys to the CLI flags that override them.
var flagKeys = map[string]string{
	"log_level":  "log-level",
	"target":     "target",
	"bundle_dir": "bundle-dir",
	"web.addr":   "addr",
}

// Load builds the configuration from, in increasing precedence: defaults,
// the config file at configPath, a .env file in the working directory,
// HELLO_* environment variables and the flags in flags. configPath and
// flags may be empty/nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("log_level", "info")
	v.SetDefault("target", TargetNative)
	v.SetDefault("bundle_dir", "./web")

	v.SetDefault("web.addr", "127.0.0.1:8080")
	v.SetDefault("web.shutdown_timeout", 5*time.Second)

	v.SetDefault("wasm.memory_pages", 256) // 16MB
	v.SetDefault("wasm.debug", false)
	v.SetDefault("wasm.cache_dir", "")
	v.SetDefault("wasm.max_instances", 100)
	v.SetDefault("wasm.execution_timeout", 30*time.Second)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", configPath, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	switch c.Target {
	case TargetNative, TargetWasi:
	default:
		return fmt.Errorf("invalid target %q (must be one of: %s, %s)", c.Target, TargetNative, TargetWasi)
	}

	if c.Wasm.MemoryPages == 0 || c.Wasm.MemoryPages > 65536 {
		return fmt.Errorf("wasm.memory_pages must be in 1..65536, got %d", c.Wasm.MemoryPages)
	}

	if c.Wasm.MaxInstances <= 0 {
		return fmt.Errorf("wasm.max_instances must be positive, got %d", c.Wasm.MaxInstances)
	}

	if c.Wasm.ExecutionTimeout < 0 {
		return fmt.Errorf("wasm.execution_timeout must not be negative, got %v", c.Wasm.ExecutionTimeout)
	}

	if c.Web.ShutdownTimeout <= 0 {
		return fmt.Errorf("web.shutdown_timeout must be positive, got %v", c.Web.ShutdownTimeout)
	}

	return nil
}
