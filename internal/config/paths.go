package config

import (
	"os"
	"path/filepath"
)

// GetTempoHome returns TEMPO_HOME or the ~/.tempo default
func GetTempoHome() string {
	tempoHome := os.Getenv("TEMPO_HOME")
	if tempoHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".tempo"
		}
		return filepath.Join(homeDir, ".tempo")
	}
	return ExpandPath(tempoHome)
}

// GetDBPath returns $TEMPO_HOME/tempo.db
func GetDBPath() string {
	return filepath.Join(GetTempoHome(), "tempo.db")
}

// GetSettingsPath returns $TEMPO_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetTempoHome(), "settings.json")
}

// GetLockPath returns the serve lock next to dbPath. For the default
// database that is $TEMPO_HOME/serve.lock.
func GetLockPath(dbPath string) string {
	return filepath.Join(filepath.Dir(dbPath), "serve.lock")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}
