// Package config loads settings from an optional .env file, an optional TOML file and the environment.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Key sources
const (
	KeySourcePage   = "page"
	KeySourceGlobal = "global"
)

type Config struct {
	Grab      GrabConfig      `toml:"grab"`
	Browser   BrowserConfig   `toml:"browser"`
	WebSocket WebSocketConfig `toml:"websocket"`
	Log       LogConfig       `toml:"log"`
}

type GrabConfig struct {
	Enabled bool `toml:"enabled"`
	// Hotkey is a comma separated key list, like "Control,C"
	Hotkey    string `toml:"hotkey"`
	KeyHoldMS int    `toml:"key_hold_ms"`
	// Adapter is "", "cursor" or "websocket"
	Adapter   string `toml:"adapter"`
	KeySource string `toml:"key_source"`
	Redact    bool   `toml:"redact"`
}

type BrowserConfig struct {
	Driver       string `toml:"driver"`
	Headless     bool   `toml:"headless"`
	StartURL     string `toml:"start_url"`
	DriverPath   string `toml:"driver_path"`
	ChromeBinary string `toml:"chrome_binary"`
}

type WebSocketConfig struct {
	Addr string `toml:"addr"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default configuration
func Default() *Config {
	hotkey := "Control,C"
	if runtime.GOOS == "darwin" {
		hotkey = "Meta,C"
	}

	return &Config{
		Grab: GrabConfig{
			Enabled:   true,
			Hotkey:    hotkey,
			KeyHoldMS: 500,
			KeySource: KeySourcePage,
			Redact:    true,
		},
		Browser: BrowserConfig{
			Driver: "playwright",
		},
		WebSocket: WebSocketConfig{
			Addr: "127.0.0.1:7331",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load - reads .env when present, then GRAB_CONFIG when set, then environment overrides.
// It reports whether a .env file was found.
func Load() (*Config, bool, error) {
	// .env file is optional
	envLoaded := godotenv.Load() == nil

	cfg := Default()
	if path := os.Getenv("GRAB_CONFIG"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, envLoaded, err
		}
	}
	ApplyEnv(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, envLoaded, err
	}
	return cfg, envLoaded, nil
}

// LoadFile - decodes the TOML file at path over cfg
func LoadFile(path string, cfg *Config) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv - overrides cfg with the GRAB_* variables and the selenium paths.
// Malformed booleans and numbers are ignored.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := lookup(name); ok {
			switch strings.TrimSpace(v) {
			case "true":
				*dst = true
			case "false":
				*dst = false
			}
		}
	}

	boolean("GRAB_ENABLED", &cfg.Grab.Enabled)
	str("GRAB_HOTKEY", &cfg.Grab.Hotkey)
	if v, ok := lookup("GRAB_KEY_HOLD_MS"); ok {
		if ms, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			cfg.Grab.KeyHoldMS = ms
		}
	}
	str("GRAB_ADAPTER", &cfg.Grab.Adapter)
	str("GRAB_KEY_SOURCE", &cfg.Grab.KeySource)
	boolean("GRAB_REDACT", &cfg.Grab.Redact)

	str("GRAB_URL", &cfg.Browser.StartURL)
	str("GRAB_DRIVER", &cfg.Browser.Driver)
	boolean("GRAB_HEADLESS", &cfg.Browser.Headless)
	str("BROWSER_DRIVER_PATH", &cfg.Browser.DriverPath)
	str("CHROME_BINARY_PATH", &cfg.Browser.ChromeBinary)

	str("GRAB_WS_ADDR", &cfg.WebSocket.Addr)
	str("GRAB_LOG_LEVEL", &cfg.Log.Level)
}

// Validate - checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Grab.Adapter {
	case "", "cursor", "websocket":
	default:
		return fmt.Errorf("unknown adapter %q", c.Grab.Adapter)
	}
	switch c.Grab.KeySource {
	case KeySourcePage, KeySourceGlobal:
	default:
		return fmt.Errorf("unknown key source %q", c.Grab.KeySource)
	}
	switch c.Browser.Driver {
	case "playwright", "selenium":
	default:
		return fmt.Errorf("unknown browser driver %q", c.Browser.Driver)
	}
	return nil
}
