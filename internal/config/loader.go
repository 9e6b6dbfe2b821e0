package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default settings file name.
const DefaultConfigFile = ".procgen"

// ErrConfigNotFound is returned when the settings file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// HistorySettings controls run history recording.
type HistorySettings struct {
	// Enable records every successful run.
	Enable bool `yaml:"enable,omitempty"`

	// Dir overrides the database directory (default: XDG data dir).
	Dir string `yaml:"dir,omitempty"`
}

// Settings is the structure of the .procgen settings file.
// Every field is optional; zero values leave the defaults in place.
type Settings struct {
	Input          string          `yaml:"input,omitempty"`
	Output         string          `yaml:"output,omitempty"`
	Limit          int             `yaml:"limit,omitempty"`
	Seed           uint64          `yaml:"seed,omitempty"`
	DestinationEnv string          `yaml:"destinationEnv,omitempty"`
	EnvFile        string          `yaml:"envFile,omitempty"`
	Summary        bool            `yaml:"summary,omitempty"`
	History        HistorySettings `yaml:"history,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FindConfigFile searches for the settings file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .procgen in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .procgen in the user's home directory
//
// Returns the path to the settings file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// LoadEnvFile loads variables from a dotenv file into the process
// environment. Variables already present in the environment are kept.
// A missing file is ignored.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}
