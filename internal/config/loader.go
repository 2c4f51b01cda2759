package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering, low to high precedence:
//  1. defaults (Default())
//  2. YAML file, from path if non-empty, else the ROSTERD_CONFIG env var
//  3. environment variables with the ROSTERD_ prefix
//
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path == "" {
		path = os.Getenv("ROSTERD_CONFIG")
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	// ROSTERD_SHEET_MAX_BYTES -> sheet.max_bytes: the first underscore
	// separates section from key, later underscores stay literal.
	envProvider := env.Provider("ROSTERD_", ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, "ROSTERD_"))
		return strings.Replace(s, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config env: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("config unmarshal: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Addr == "" {
		errs = append(errs, "server.addr must not be empty")
	}
	if c.Server.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must be non-negative")
	}
	if c.Server.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must be non-negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}

	if c.Sheet.URL == "" {
		errs = append(errs, "sheet.url is required; set it to the published CSV export of the registration sheet")
	} else if u, err := url.Parse(c.Sheet.URL); err != nil {
		errs = append(errs, fmt.Sprintf("sheet.url is not a valid URL: %v", err))
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("sheet.url scheme (%q) must be http or https", u.Scheme))
	}
	if c.Sheet.Timeout < 0 {
		errs = append(errs, "sheet.timeout must be non-negative")
	}

	if c.Sync.Interval <= 0 {
		errs = append(errs, "sync.interval must be positive")
	} else if c.Sync.Interval < time.Second {
		errs = append(errs, fmt.Sprintf("sync.interval (%s) must be at least 1s", c.Sync.Interval))
	}
	if c.Sync.Timeout <= 0 {
		errs = append(errs, "sync.timeout must be positive")
	}

	if c.Sim.Latency < 0 {
		errs = append(errs, "sim.latency must be non-negative")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Log.Level)] {
		errs = append(errs, fmt.Sprintf("log.level (%q) must be one of: debug, info, warn, error", c.Log.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Log.Format)] {
		errs = append(errs, fmt.Sprintf("log.format (%q) must be one of: text, json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe representation of the config for startup logs.
// The sheet URL is a capability URL and the API key is a secret, so
// both are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Addr: %q, ShutdownTimeout: %s}, ", c.Server.Addr, c.Server.ShutdownTimeout))
	b.WriteString(fmt.Sprintf("Sheet: {URL: [MASKED], Timeout: %s, MaxBytes: %d}, ",
		c.Sheet.Timeout, c.Sheet.MaxBytes))
	b.WriteString(fmt.Sprintf("Sync: {Interval: %s, RunOnStart: %v, Timeout: %s}, ",
		c.Sync.Interval, c.Sync.RunOnStart, c.Sync.Timeout))
	b.WriteString(fmt.Sprintf("Sim: {Latency: %s}, ", c.Sim.Latency))
	b.WriteString(fmt.Sprintf("Security: {APIKey: %s, TrustedProxies: %v}, ",
		maskPresence(c.Security.APIKey), c.Security.TrustedProxies))
	b.WriteString(fmt.Sprintf("Log: {Level: %q, Format: %q}", c.Log.Level, c.Log.Format))
	b.WriteString("}")
	return b.String()
}

func maskPresence(secret string) string {
	if secret == "" {
		return "[UNSET]"
	}
	return "[MASKED]"
}
