// Package config provides centralized configuration for the service.
// Settings layer defaults, an optional YAML file, and ROSTERD_ prefixed
// environment variables, and are validated on startup to fail fast on
// misconfiguration.
package config

import "time"

// Config holds all service configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Sheet    SheetConfig    `koanf:"sheet"`
	Sync     SyncConfig     `koanf:"sync"`
	Sim      SimConfig      `koanf:"sim"`
	Security SecurityConfig `koanf:"security"`
	Log      LogConfig      `koanf:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout is the keep-alive timeout.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown on exit.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// SheetConfig holds published-sheet fetch settings.
type SheetConfig struct {
	// URL is the published CSV export of the registration sheet.
	// Required for serve and sync.
	URL string `koanf:"url"`

	// Timeout is the per-fetch HTTP timeout.
	Timeout time.Duration `koanf:"timeout"`

	// MaxBytes caps the response body size. Zero uses the built-in
	// default, negative disables the cap.
	MaxBytes int64 `koanf:"max_bytes"`
}

// SyncConfig holds scheduling settings for background syncs.
type SyncConfig struct {
	// Interval is the time between scheduled syncs.
	Interval time.Duration `koanf:"interval"`

	// RunOnStart triggers a sync as soon as the scheduler starts.
	RunOnStart bool `koanf:"run_on_start"`

	// Timeout bounds a single sync run end to end.
	Timeout time.Duration `koanf:"timeout"`
}

// SimConfig holds simulated-backend settings.
type SimConfig struct {
	// Latency is an artificial per-write delay. Zero means none.
	Latency time.Duration `koanf:"latency"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// APIKey protects mutating endpoints when set. Empty disables
	// API-key auth.
	APIKey string `koanf:"api_key"`

	// TrustedProxies lists proxy CIDRs whose forwarding headers are
	// honored for client IPs.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level: debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is the log format: text or json.
	Format string `koanf:"format"`
}

// Default returns a Config populated with default values. The sheet URL
// has no default and must be supplied by file or environment.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Sheet: SheetConfig{
			Timeout:  30 * time.Second,
			MaxBytes: 10 * 1024 * 1024,
		},
		Sync: SyncConfig{
			Interval:   15 * time.Minute,
			RunOnStart: true,
			Timeout:    2 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
