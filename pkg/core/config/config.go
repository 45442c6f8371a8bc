// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     config
// Description: Application configuration loaded from TOML or YAML
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	dcerr "github.com/msto63/deepclock/foundation/core/error"
	"github.com/msto63/deepclock/foundation/utils/timex"
)

// EnvConfigPath names the environment variable holding the config file path
const EnvConfigPath = "DEEPCLOCK_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Interval IntervalConfig `toml:"interval" yaml:"interval"`
	Display  DisplayConfig  `toml:"display" yaml:"display"`
	Store    StoreConfig    `toml:"store" yaml:"store"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	DataDir   string `toml:"data_dir" yaml:"data_dir"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
}

// IntervalConfig holds the default interval. Both values are parsed with
// timex.Parse; empty means "not configured".
type IntervalConfig struct {
	Start string `toml:"start" yaml:"start"`
	End   string `toml:"end" yaml:"end"`
}

// DisplayConfig holds refresh and tier settings. Thresholds are in millions
// of years ago.
type DisplayConfig struct {
	Refresh        Duration `toml:"refresh" yaml:"refresh"`
	TeaseMya       float64  `toml:"tease_mya" yaml:"tease_mya"`
	EarthFormedMya float64  `toml:"earth_formed_mya" yaml:"earth_formed_mya"`
	ImageSplitMya  float64  `toml:"image_split_mya" yaml:"image_split_mya"`
	CoarseStepMya  float64  `toml:"coarse_step_mya" yaml:"coarse_step_mya"`
	FineStepMya    float64  `toml:"fine_step_mya" yaml:"fine_step_mya"`

	// EventsWindow bounds, in percent of the projected distance
	EventsLowPercent  int64 `toml:"events_low_percent" yaml:"events_low_percent"`
	EventsHighPercent int64 `toml:"events_high_percent" yaml:"events_high_percent"`
}

// StoreConfig holds sqlite settings
type StoreConfig struct {
	Path        string   `toml:"path" yaml:"path"`
	BusyTimeout Duration `toml:"busy_timeout" yaml:"busy_timeout"`
}

// ServerConfig holds HTTP and websocket settings
type ServerConfig struct {
	Host            string   `toml:"host" yaml:"host"`
	Port            int      `toml:"port" yaml:"port"`
	PushInterval    Duration `toml:"push_interval" yaml:"push_interval"`
	ReadTimeout     Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    Duration `toml:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	AllowedOrigins  []string `toml:"allowed_origins" yaml:"allowed_origins"`
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Format represents the configuration file format
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func detectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatTOML
	}
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load loads configuration from a TOML or YAML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, dcerr.Newf("config file not found: %s", path).
				WithCode(dcerr.CodeMissingConfig).
				WithOperation("config.Load").
				WithDetail("path", path)
		}
		return nil, dcerr.Wrap(err, "read config").
			WithCode(dcerr.CodeConfigError).
			WithOperation("config.Load")
	}

	cfg, err := Parse(content, detectFormat(path))
	if err != nil {
		return nil, dcerr.Wrap(err, "failed to parse config").
			WithOperation("config.Load").
			WithDetail("path", path)
	}
	return cfg, nil
}

// Parse decodes configuration content, applies defaults, expands
// environment variables and validates the result.
func Parse(content []byte, format Format) (*Config, error) {
	var cfg Config

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(content))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, dcerr.Wrap(err, "YAML parse error").
				WithCode(dcerr.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	default:
		md, err := toml.Decode(string(content), &cfg)
		if err != nil {
			return nil, dcerr.Wrap(err, "TOML parse error").
				WithCode(dcerr.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, dcerr.Newf("unknown config key: %s", undecoded[0]).
				WithCode(dcerr.CodeInvalidConfig).
				WithOperation("config.Parse")
		}
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from DEEPCLOCK_CONFIG or the default
// locations. A MISSING_CONFIG error means no file was found anywhere.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return nil, dcerr.Newf("no config file found, set %s or create configs/config.toml", EnvConfigPath).
			WithCode(dcerr.CodeMissingConfig).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// DefaultPaths lists the locations searched by LoadFromEnv, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/config.toml",
		"./config.toml",
		"./config.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config/deepclock/config.toml"),
			filepath.Join(home, ".config/deepclock/config.yaml"),
		)
	}
	return paths
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "deepclock"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Display
	if c.Display.Refresh.Duration == 0 {
		c.Display.Refresh.Duration = 100 * time.Millisecond
	}
	if c.Display.TeaseMya == 0 {
		c.Display.TeaseMya = 0.02
	}
	if c.Display.EarthFormedMya == 0 {
		c.Display.EarthFormedMya = 4540
	}
	if c.Display.ImageSplitMya == 0 {
		c.Display.ImageSplitMya = 3600
	}
	if c.Display.CoarseStepMya == 0 {
		c.Display.CoarseStepMya = 0.5
	}
	if c.Display.FineStepMya == 0 {
		c.Display.FineStepMya = 0.2
	}
	if c.Display.EventsLowPercent == 0 {
		c.Display.EventsLowPercent = 95
	}
	if c.Display.EventsHighPercent == 0 {
		c.Display.EventsHighPercent = 105
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "deepclock.db")
	}
	if c.Store.BusyTimeout.Duration == 0 {
		c.Store.BusyTimeout.Duration = 5 * time.Second
	}

	// Server
	if c.Server.Host == "" {
		c.Server.Host = "127.0.0.1"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8088
	}
	if c.Server.PushInterval.Duration == 0 {
		c.Server.PushInterval.Duration = time.Second
	}
	if c.Server.ReadTimeout.Duration == 0 {
		c.Server.ReadTimeout.Duration = 10 * time.Second
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.ShutdownTimeout.Duration == 0 {
		c.Server.ShutdownTimeout.Duration = 5 * time.Second
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
	c.Interval.Start = os.ExpandEnv(c.Interval.Start)
	c.Interval.End = os.ExpandEnv(c.Interval.End)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	invalid := func(field, format string, args ...interface{}) error {
		return dcerr.Newf(format, args...).
			WithCode(dcerr.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("field", field)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("server.port", "server port out of range: %d", c.Server.Port)
	}
	if c.Display.Refresh.Duration < 0 || c.Server.PushInterval.Duration < 0 {
		return invalid("display.refresh", "refresh and push intervals must be positive")
	}
	if c.Display.TeaseMya < 0 || c.Display.TeaseMya >= c.Display.ImageSplitMya ||
		c.Display.ImageSplitMya >= c.Display.EarthFormedMya {
		return invalid("display", "tier thresholds must satisfy 0 <= tease_mya < image_split_mya < earth_formed_mya")
	}
	if c.Display.CoarseStepMya <= 0 || c.Display.FineStepMya <= 0 {
		return invalid("display", "image steps must be positive")
	}
	if c.Display.EventsLowPercent <= 0 || c.Display.EventsLowPercent >= c.Display.EventsHighPercent {
		return invalid("display", "events window must satisfy 0 < low < high, got %d..%d",
			c.Display.EventsLowPercent, c.Display.EventsHighPercent)
	}

	if _, _, _, err := c.Interval.Times(); err != nil {
		return err
	}
	return nil
}

// Times parses the configured interval. ok is false when either bound is
// unset.
func (ic IntervalConfig) Times() (start, end time.Time, ok bool, err error) {
	if ic.Start == "" || ic.End == "" {
		return time.Time{}, time.Time{}, false, nil
	}

	start, err = timex.Parse(ic.Start)
	if err != nil {
		return time.Time{}, time.Time{}, false, dcerr.Wrap(err, "interval.start").
			WithCode(dcerr.CodeInvalidConfig).
			WithOperation("config.Interval")
	}
	end, err = timex.Parse(ic.End)
	if err != nil {
		return time.Time{}, time.Time{}, false, dcerr.Wrap(err, "interval.end").
			WithCode(dcerr.CodeInvalidConfig).
			WithOperation("config.Interval")
	}
	return start, end, true, nil
}
