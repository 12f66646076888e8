package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults applied when neither flags, environment nor settings.json set a value
const (
	DefaultAddr                   = "127.0.0.1:5001"
	DefaultShutdownTimeoutSeconds = 30
)

// Settings represents the structure of $TEMPO_HOME/settings.json
type Settings struct {
	Addr                   string `json:"addr,omitempty"`
	DBPath                 string `json:"db_path,omitempty"`
	Debug                  *bool  `json:"debug,omitempty"`
	MaxLogFiles            *int   `json:"max_log_files,omitempty"`
	ShutdownTimeoutSeconds *int   `json:"shutdown_timeout_seconds,omitempty"`
}

// LoadSettings loads settings from $TEMPO_HOME/settings.json.
// Returns empty Settings if the file doesn't exist (not an error).
func LoadSettings() (*Settings, error) {
	return LoadSettingsFrom(GetSettingsPath())
}

// LoadSettingsFrom loads settings from an explicit path
func LoadSettingsFrom(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	if settings.DBPath != "" {
		settings.DBPath = ExpandPath(settings.DBPath)
	}

	return &settings, nil
}

// SaveSettings saves settings to $TEMPO_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// ServeConfig is the resolved configuration of the HTTP server
type ServeConfig struct {
	Addr            string
	DBPath          string
	ShutdownTimeout time.Duration
}

// ResolveServeConfig applies precedence: flags > env vars > settings.json > defaults.
// Flag values equal to their defaults are treated as unset.
func ResolveServeConfig(flagAddr, flagDBPath string, settings *Settings) ServeConfig {
	if settings == nil {
		settings = &Settings{}
	}

	cfg := ServeConfig{
		Addr:            DefaultAddr,
		DBPath:          GetDBPath(),
		ShutdownTimeout: DefaultShutdownTimeoutSeconds * time.Second,
	}

	if settings.Addr != "" {
		cfg.Addr = settings.Addr
	}
	if settings.DBPath != "" {
		cfg.DBPath = settings.DBPath
	}
	if settings.ShutdownTimeoutSeconds != nil && *settings.ShutdownTimeoutSeconds > 0 {
		cfg.ShutdownTimeout = time.Duration(*settings.ShutdownTimeoutSeconds) * time.Second
	}

	if v := os.Getenv("TEMPO_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("TEMPO_DB_PATH"); v != "" {
		cfg.DBPath = ExpandPath(v)
	}
	if v := os.Getenv("TEMPO_SHUTDOWN_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			cfg.ShutdownTimeout = time.Duration(parsed) * time.Second
		}
	}

	if flagAddr != "" && flagAddr != DefaultAddr {
		cfg.Addr = flagAddr
	}
	if flagDBPath != "" {
		cfg.DBPath = ExpandPath(flagDBPath)
	}

	return cfg
}
