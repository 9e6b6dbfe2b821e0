package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultInputPath is where the crawler leaves its subscription list.
	DefaultInputPath = "data/crawledsubs.yaml"

	// DefaultOutputPath is the configuration file read by the aggregator.
	DefaultOutputPath = "generated-process.json"

	// DefaultSampleLimit is the maximum number of subscriptions placed into
	// one generated configuration.
	DefaultSampleLimit = 10

	// DefaultDestinationEnv names the variable holding "username/gistid".
	DefaultDestinationEnv = "GIST_LINK"

	// DefaultEnvFile is the dotenv file loaded before the environment is read.
	// A missing file is not an error.
	DefaultEnvFile = ".env"

	// AppName is the application name used for XDG directory paths.
	AppName = "procgen"
)

// Config holds all options of a generation run.
// It is populated from defaults, the settings file and CLI flags, in that
// order, and passed down explicitly rather than kept in global state.
type Config struct {
	// InputPath is the crawled subscription document (YAML or JSON).
	InputPath string

	// OutputPath is overwritten with the generated configuration.
	OutputPath string

	// SampleLimit caps the number of domain entries.
	SampleLimit int

	// Seed makes sampling reproducible. Zero means a random seed.
	Seed uint64

	// DestinationEnv is the environment variable holding the destination.
	DestinationEnv string

	// EnvFile is a dotenv file loaded before DestinationEnv is read.
	EnvFile string

	// ConfigFilePath is the explicit settings file path, if any.
	ConfigFilePath string

	// Verbose enables debug logging.
	Verbose bool

	// Summary prints a Markdown summary after the configuration is written.
	Summary bool

	// SaveHistory records the run in the history database.
	SaveHistory bool

	// HistoryDir holds the history database.
	HistoryDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		InputPath:      DefaultInputPath,
		OutputPath:     DefaultOutputPath,
		SampleLimit:    DefaultSampleLimit,
		DestinationEnv: DefaultDestinationEnv,
		EnvFile:        DefaultEnvFile,
		HistoryDir:     XDGDataDir(),
	}
}

// ApplySettings copies the non-zero values of a settings file into c.
func (c *Config) ApplySettings(s *Settings) {
	if s == nil {
		return
	}
	if s.Input != "" {
		c.InputPath = s.Input
	}
	if s.Output != "" {
		c.OutputPath = s.Output
	}
	if s.Limit != 0 {
		c.SampleLimit = s.Limit
	}
	if s.Seed != 0 {
		c.Seed = s.Seed
	}
	if s.DestinationEnv != "" {
		c.DestinationEnv = s.DestinationEnv
	}
	if s.EnvFile != "" {
		c.EnvFile = s.EnvFile
	}
	if s.Summary {
		c.Summary = true
	}
	if s.History.Enable {
		c.SaveHistory = true
	}
	if s.History.Dir != "" {
		c.HistoryDir = s.History.Dir
	}
}

// XDGDataDir returns the XDG data directory for procgen.
// On Linux: ~/.local/share/procgen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for procgen.
// On Linux: ~/.config/procgen
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns the first
// problem found.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrEmptyInputPath
	}
	if c.OutputPath == "" {
		return ErrEmptyOutputPath
	}
	if c.SampleLimit <= 0 {
		return ErrInvalidSampleLimit
	}
	if c.DestinationEnv == "" {
		return ErrEmptyEnvVar
	}
	return nil
}
