// ABOUTME: Shared initialization code for all modes (CLI, TUI, trials)
// ABOUTME: Provides debug logging, option resolution and config loading

package main

import (
	"fmt"
	"log/slog"
	"os"

	"vidgrab/config"
	"vidgrab/workflow"
)

const debugLogFile = "vidgrab-debug.log"

var debugLog *slog.Logger

// RunOptions contains command-line options for all modes
type RunOptions struct {
	URL          string
	Quality      workflow.Quality
	DownloadPath string
	Playlist     workflow.PlaylistChoice
	AssumeYes    bool
	Seed         uint64
	DebugLog     bool
}

// resolveOptions fills unset flag values from the loaded config
func resolveOptions(opts RunOptions, quality, playlist string, cfg config.Config) (RunOptions, error) {
	if quality == "" {
		quality = cfg.Quality
	}

	q, err := workflow.ParseQuality(quality)
	if err != nil {
		return opts, err
	}

	opts.Quality = q

	if opts.DownloadPath == "" {
		opts.DownloadPath = cfg.DownloadPath
	}

	if playlist != "" {
		choice, err := workflow.ParsePlaylistChoice(playlist)
		if err != nil {
			return opts, err
		}

		opts.Playlist = choice
	}

	return opts, nil
}

// loadSharedConfig loads the config file, falling back to defaults on error
func loadSharedConfig(path string) *config.SharedConfig {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		debugf("[CONFIG] Using defaults, failed to load %s: %v", path, err)
	}

	return config.NewSharedConfig(cfg)
}

// SetupDebugLog initializes debug logging
func SetupDebugLog(filename string) error {
	if err := InitDebugLog(filename); err != nil {
		return fmt.Errorf("failed to initialize debug log: %w", err)
	}

	if isTTY(os.Stdout) {
		fmt.Printf("Debug logging enabled: %s\n", filename)
	}

	return nil
}

// InitDebugLog initializes debug logging
func InitDebugLog(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create debug log file: %w", err)
	}

	debugLog = slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))

	return nil
}

// debugf logs debug messages if enabled
func debugf(format string, args ...any) {
	if debugLog != nil {
		debugLog.Debug(fmt.Sprintf(format, args...))
	}
}

// isTTY checks if the given file is a terminal
func isTTY(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}

	return (stat.Mode() & os.ModeCharDevice) != 0
}
