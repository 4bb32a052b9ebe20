package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

// EnvPrefix prefixes every environment override, e.g. ALARMVIEW_FEED_URL.
const EnvPrefix = "ALARMVIEW_"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Logging LoggingConfig `toml:"logging" yaml:"logging"`
	Viewer  ViewerConfig  `toml:"viewer" yaml:"viewer"`
	Store   StoreConfig   `toml:"store" yaml:"store"`
	Feed    FeedConfig    `toml:"feed" yaml:"feed"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name" env:"NAME"`
	Environment string `toml:"environment" yaml:"environment" env:"ENVIRONMENT"`
	DataDir     string `toml:"data_dir" yaml:"data_dir" env:"DATA_DIR"`
}

// LoggingConfig holds log output settings
type LoggingConfig struct {
	Level  string `toml:"level" yaml:"level" env:"LOG_LEVEL"`
	Format string `toml:"format" yaml:"format" env:"LOG_FORMAT"`
	// File enables rotated file output; empty logs to stderr.
	File       string `toml:"file" yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `toml:"max_size_mb" yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `toml:"max_backups" yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `toml:"max_age_days" yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
	Compress   bool   `toml:"compress" yaml:"compress" env:"LOG_COMPRESS"`
}

// ViewerConfig holds settings of the operation viewer
type ViewerConfig struct {
	Title string `toml:"title" yaml:"title" env:"VIEWER_TITLE"`
	// VehiclesFile overrides the vehicle file next to the executable.
	VehiclesFile string `toml:"vehicles_file" yaml:"vehicles_file" env:"VEHICLES_FILE"`
	// BaseDir resolves vehicle images; empty means the executable's directory.
	BaseDir      string   `toml:"base_dir" yaml:"base_dir" env:"VIEWER_BASE_DIR"`
	HistoryLimit int      `toml:"history_limit" yaml:"history_limit" env:"VIEWER_HISTORY_LIMIT"`
	StoreTimeout Duration `toml:"store_timeout" yaml:"store_timeout" env:"VIEWER_STORE_TIMEOUT"`
}

// StoreConfig holds the operation database settings
type StoreConfig struct {
	Path string `toml:"path" yaml:"path" env:"STORE_PATH"`
}

// FeedConfig holds the operation feed settings
type FeedConfig struct {
	// URL of the websocket feed; empty disables it.
	URL               string   `toml:"url" yaml:"url" env:"FEED_URL"`
	ReconnectInterval Duration `toml:"reconnect_interval" yaml:"reconnect_interval" env:"FEED_RECONNECT_INTERVAL"`
	HandshakeTimeout  Duration `toml:"handshake_timeout" yaml:"handshake_timeout" env:"FEED_HANDSHAKE_TIMEOUT"`
}

// Duration wraps time.Duration for TOML, YAML and environment parsing
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
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML formats the duration as a string
func (d Duration) MarshalYAML() (interface{}, error) {
	return d.Duration.String(), nil
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, mdwerror.Newf("config file not found: %s", path).WithCode(mdwerror.CodeMissingConfig)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to read config").WithCode(mdwerror.CodeConfigError)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse config").WithCode(mdwerror.CodeInvalidConfig)
		}
	default:
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse config").WithCode(mdwerror.CodeInvalidConfig)
		}
	}

	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in defaults with environment overrides applied
func Default() (*Config, error) {
	var cfg Config
	if err := cfg.finish(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadFromEnv loads configuration from the ALARMVIEW_CONFIG environment
// variable or the default locations. Without a file the defaults are used.
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvPrefix + "CONFIG")
	if path == "" {
		for _, p := range DefaultPaths() {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return Default()
	}
	return Load(path)
}

// DefaultPaths lists the files LoadFromEnv looks for, in order
func DefaultPaths() []string {
	paths := []string{
		"./configs/alarmview.toml",
		"./alarmview.toml",
		"./alarmview.yaml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "alarmview", "config.toml"),
			filepath.Join(home, ".config", "alarmview", "config.yaml"),
		)
	}
	return paths
}

func (c *Config) finish() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return mdwerror.Wrap(err, "parse env").WithCode(mdwerror.CodeInvalidConfig)
	}
	c.applyDefaults()
	c.expandEnvVars()
	return nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "alarmview"
	}
	if c.General.Environment == "" {
		c.General.Environment = "production"
	}
	if c.General.DataDir == "" {
		c.General.DataDir = "./data"
	}

	// Logging
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
	if c.Logging.MaxAgeDays == 0 {
		c.Logging.MaxAgeDays = 28
	}

	// Viewer
	if c.Viewer.Title == "" {
		c.Viewer.Title = "Einsatz-Monitor"
	}
	if c.Viewer.HistoryLimit == 0 {
		c.Viewer.HistoryLimit = 50
	}
	if c.Viewer.StoreTimeout.Duration == 0 {
		c.Viewer.StoreTimeout.Duration = 5 * time.Second
	}

	// Store
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "operations.db")
	}

	// Feed
	if c.Feed.ReconnectInterval.Duration == 0 {
		c.Feed.ReconnectInterval.Duration = 5 * time.Second
	}
	if c.Feed.HandshakeTimeout.Duration == 0 {
		c.Feed.HandshakeTimeout.Duration = 10 * time.Second
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.General.DataDir = os.ExpandEnv(c.General.DataDir)
	c.Logging.File = os.ExpandEnv(c.Logging.File)
	c.Viewer.VehiclesFile = os.ExpandEnv(c.Viewer.VehiclesFile)
	c.Viewer.BaseDir = os.ExpandEnv(c.Viewer.BaseDir)
	c.Store.Path = os.ExpandEnv(c.Store.Path)
	c.Feed.URL = os.ExpandEnv(c.Feed.URL)
}

// Validate checks values that defaults cannot repair
func (c *Config) Validate() error {
	if c.Viewer.HistoryLimit < 0 {
		return mdwerror.Newf("viewer.history_limit must not be negative: %d", c.Viewer.HistoryLimit).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	if c.Feed.URL != "" && !strings.HasPrefix(c.Feed.URL, "ws://") && !strings.HasPrefix(c.Feed.URL, "wss://") {
		return mdwerror.Newf("feed.url must use ws:// or wss://: %s", c.Feed.URL).
			WithCode(mdwerror.CodeInvalidConfig)
	}
	return nil
}
