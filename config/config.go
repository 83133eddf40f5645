// ABOUTME: Configuration management for download defaults and simulation timing
// ABOUTME: Handles loading/saving TOML config files with env overrides and fallback to defaults

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix namespaces environment overrides (VIDGRAB_DOWNLOAD_PATH, ...)
const envPrefix = "VIDGRAB"

// Config holds user defaults and simulation timing
type Config struct {
	// Download defaults
	DownloadPath string `toml:"download_path" split_words:"true"`
	Quality      string `toml:"quality" split_words:"true"`

	// Simulation timing in milliseconds
	AnalyzeDelayMS int `toml:"analyze_delay_ms" split_words:"true"`
	StepDelayMS    int `toml:"step_delay_ms" split_words:"true"`

	// Playlists larger than this ask for confirmation
	PlaylistWarnThreshold int `toml:"playlist_warn_threshold" split_words:"true"`
}

// AnalyzeDelay returns the analysis delay as a duration
func (c Config) AnalyzeDelay() time.Duration {
	return time.Duration(c.AnalyzeDelayMS) * time.Millisecond
}

// StepDelay returns the per-step download delay as a duration
func (c Config) StepDelay() time.Duration {
	return time.Duration(c.StepDelayMS) * time.Millisecond
}

// GetConfigPath returns the default config file path
// First tries current directory, then falls back to ~/.config/vidgrab/config.toml
func GetConfigPath() string {
	if _, err := os.Stat("./vidgrab.toml"); err == nil {
		return "./vidgrab.toml"
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./vidgrab.toml"
	}

	return filepath.Join(home, ".config", "vidgrab", "config.toml")
}

// LoadConfig loads configuration from a TOML file and applies env overrides.
// If the file doesn't exist, defaults are used. Missing keys keep their defaults.
func LoadConfig(path string) (Config, error) {
	config, err := LoadFile(path)
	if err != nil {
		return config, err
	}

	if err := envconfig.Process(envPrefix, &config); err != nil {
		return DefaultConfig(), fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	return sanitize(config), nil
}

// LoadFile loads only what is stored on disk, without env overrides
func LoadFile(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return DefaultConfig(), fmt.Errorf("failed to read config file: %w", err)
	}

	if err == nil {
		if err := toml.Unmarshal(data, &config); err != nil {
			return DefaultConfig(), fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	return sanitize(config), nil
}

// SaveConfig saves configuration to a TOML file
func SaveConfig(path string, config Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Printf("Warning: failed to close config file: %v\n", err)
		}
	}()

	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(sanitize(config)); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		DownloadPath:          defaultDownloadPath(),
		Quality:               "best",
		AnalyzeDelayMS:        2000,
		StepDelayMS:           100,
		PlaylistWarnThreshold: 20,
	}
}

// defaultDownloadPath returns ~/Downloads, or ./downloads when home is unknown
func defaultDownloadPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./downloads"
	}

	return filepath.Join(home, "Downloads")
}

// sanitize replaces out-of-range values with defaults
func sanitize(config Config) Config {
	defaults := DefaultConfig()

	switch config.Quality {
	case "best", "good", "standard":
	default:
		config.Quality = defaults.Quality
	}

	if config.DownloadPath == "" {
		config.DownloadPath = defaults.DownloadPath
	}

	if config.AnalyzeDelayMS < 0 {
		config.AnalyzeDelayMS = defaults.AnalyzeDelayMS
	}

	if config.StepDelayMS < 0 {
		config.StepDelayMS = defaults.StepDelayMS
	}

	if config.PlaylistWarnThreshold < 1 {
		config.PlaylistWarnThreshold = defaults.PlaylistWarnThreshold
	}

	return config
}
