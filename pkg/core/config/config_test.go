package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/alarmview/foundation/core/error"
)

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"seconds", 30 * time.Second, "30s"},
		{"minutes", 5 * time.Minute, "5m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Duration{tt.duration}
			result, err := d.MarshalText()

			if err != nil {
				t.Errorf("MarshalText() error = %v", err)
				return
			}

			if string(result) != tt.expected {
				t.Errorf("MarshalText() = %v, want %v", string(result), tt.expected)
			}
		})
	}
}

func TestConfig_applyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.applyDefaults()

	if cfg.General.Name != "alarmview" {
		t.Errorf("General.Name = %v, want alarmview", cfg.General.Name)
	}
	if cfg.General.DataDir != "./data" {
		t.Errorf("General.DataDir = %v, want ./data", cfg.General.DataDir)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %v, want info", cfg.Logging.Level)
	}
	if cfg.Viewer.Title != "Einsatz-Monitor" {
		t.Errorf("Viewer.Title = %v", cfg.Viewer.Title)
	}
	if cfg.Viewer.HistoryLimit != 50 {
		t.Errorf("Viewer.HistoryLimit = %v, want 50", cfg.Viewer.HistoryLimit)
	}
	if cfg.Viewer.StoreTimeout.Duration != 5*time.Second {
		t.Errorf("Viewer.StoreTimeout = %v, want 5s", cfg.Viewer.StoreTimeout.Duration)
	}
	if cfg.Store.Path != filepath.Join("./data", "operations.db") {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if cfg.Feed.URL != "" {
		t.Errorf("Feed.URL = %v, want disabled", cfg.Feed.URL)
	}
	if cfg.Feed.ReconnectInterval.Duration != 5*time.Second {
		t.Errorf("Feed.ReconnectInterval = %v, want 5s", cfg.Feed.ReconnectInterval.Duration)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.toml")
	if err == nil {
		t.Fatal("Load() expected error for non-existent file")
	}
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("error code = %v, want MISSING_CONFIG", mdwerror.GetCode(err))
	}
}

func TestLoad_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "alarmview.toml")

	configContent := `
[general]
name = "FF Ansbach"
data_dir = "/var/lib/alarmview"

[viewer]
vehicles_file = "/etc/alarmview/vehicles.xml"
store_timeout = "2s"

[feed]
url = "ws://localhost:8090/ws"
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.Name != "FF Ansbach" {
		t.Errorf("General.Name = %v", cfg.General.Name)
	}
	if cfg.Viewer.VehiclesFile != "/etc/alarmview/vehicles.xml" {
		t.Errorf("Viewer.VehiclesFile = %v", cfg.Viewer.VehiclesFile)
	}
	if cfg.Viewer.StoreTimeout.Duration != 2*time.Second {
		t.Errorf("Viewer.StoreTimeout = %v, want 2s", cfg.Viewer.StoreTimeout.Duration)
	}
	if cfg.Feed.URL != "ws://localhost:8090/ws" {
		t.Errorf("Feed.URL = %v", cfg.Feed.URL)
	}

	// defaults for missing values, derived from the configured data dir
	if cfg.Store.Path != filepath.Join("/var/lib/alarmview", "operations.db") {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if cfg.Viewer.HistoryLimit != 50 {
		t.Errorf("Viewer.HistoryLimit = %v, want 50 (default)", cfg.Viewer.HistoryLimit)
	}
}

func TestLoad_YAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "alarmview.yaml")
	configContent := `
logging:
  level: debug
  file: /tmp/alarmview.log
viewer:
  history_limit: 10
feed:
  url: wss://leitstelle.example/ws
  reconnect_interval: 30s
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Logging.Level != "debug" || cfg.Logging.File != "/tmp/alarmview.log" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
	if cfg.Viewer.HistoryLimit != 10 {
		t.Errorf("Viewer.HistoryLimit = %v", cfg.Viewer.HistoryLimit)
	}
	if cfg.Feed.ReconnectInterval.Duration != 30*time.Second {
		t.Errorf("Feed.ReconnectInterval = %v", cfg.Feed.ReconnectInterval.Duration)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"toml syntax", "bad.toml", "[general\nname ="},
		{"toml duration", "bad.toml", "[feed]\nreconnect_interval = \"soon\""},
		{"yaml syntax", "bad.yml", "general: [unclosed"},
		{"yaml duration", "bad.yaml", "viewer:\n  store_timeout: later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.file)
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Load() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "alarmview.toml")
	if err := os.WriteFile(configPath, []byte("[feed]\nurl = \"ws://file/ws\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("ALARMVIEW_FEED_URL", "ws://env/ws")
	t.Setenv("ALARMVIEW_VIEWER_STORE_TIMEOUT", "750ms")
	t.Setenv("ALARMVIEW_LOG_LEVEL", "warn")

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Feed.URL != "ws://env/ws" {
		t.Errorf("Feed.URL = %v, want env override", cfg.Feed.URL)
	}
	if cfg.Viewer.StoreTimeout.Duration != 750*time.Millisecond {
		t.Errorf("Viewer.StoreTimeout = %v", cfg.Viewer.StoreTimeout.Duration)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %v", cfg.Logging.Level)
	}
}

func TestConfig_expandEnvVars(t *testing.T) {
	t.Setenv("ALARMVIEW_TEST_HOME", "/srv/feuerwehr")

	cfg := &Config{
		Store:  StoreConfig{Path: "$ALARMVIEW_TEST_HOME/operations.db"},
		Viewer: ViewerConfig{VehiclesFile: "${ALARMVIEW_TEST_HOME}/vehicles.xml"},
	}
	cfg.expandEnvVars()

	if cfg.Store.Path != "/srv/feuerwehr/operations.db" {
		t.Errorf("Store.Path = %v", cfg.Store.Path)
	}
	if cfg.Viewer.VehiclesFile != "/srv/feuerwehr/vehicles.xml" {
		t.Errorf("Viewer.VehiclesFile = %v", cfg.Viewer.VehiclesFile)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("falls back to defaults", func(t *testing.T) {
		tmpDir := t.TempDir()
		t.Setenv("ALARMVIEW_CONFIG", "")
		t.Setenv("HOME", tmpDir)
		chdir(t, tmpDir)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatalf("LoadFromEnv() error = %v", err)
		}
		if cfg.General.Name != "alarmview" {
			t.Errorf("General.Name = %v", cfg.General.Name)
		}
	})

	t.Run("explicit file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		if err := os.WriteFile(path, []byte("[general]\nname = \"custom\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		t.Setenv("ALARMVIEW_CONFIG", path)

		cfg, err := LoadFromEnv()
		if err != nil {
			t.Fatal(err)
		}
		if cfg.General.Name != "custom" {
			t.Errorf("General.Name = %v", cfg.General.Name)
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		t.Setenv("ALARMVIEW_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))
		if _, err := LoadFromEnv(); err == nil {
			t.Error("expected error for a missing explicit file")
		}
	})
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"ws feed", func(c *Config) { c.Feed.URL = "ws://host/ws" }, false},
		{"http feed", func(c *Config) { c.Feed.URL = "http://host/ws" }, true},
		{"negative history", func(c *Config) { c.Viewer.HistoryLimit = -1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.applyDefaults()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}
