// ABOUTME: Messages and injected dependencies for the TUI package
// ABOUTME: Allows clean separation and easy testing with fake clocks and random sources

package tui

import (
	"vidgrab/config"
	"vidgrab/workflow"
)

// Dependencies holds all external dependencies for the TUI
type Dependencies struct {
	SharedConfig *config.SharedConfig
	Clock        workflow.Clock
	Rand         workflow.Random
	NewRunID     func() string
	SaveConfig   func(path string, cfg config.Config) error
	LoadFile     func(path string) (config.Config, error) // On-disk config without env overrides
	Debugf       func(format string, args ...any)
	ConfigPath   string
}

// Update is a progress report or the final outcome of a download run
type Update struct {
	RunID    string
	Progress workflow.Progress
	Final    bool
	Result   workflow.Result
	Err      error
}

// analysisDoneMsg carries analyzer output back to the Update loop
type analysisDoneMsg struct {
	runID string
	info  workflow.VideoInfo
	err   error
}

// configReloadedMsg carries a config file reload
type configReloadedMsg struct {
	cfg config.Config
	err error
}

// noticeExpiredMsg clears the notice set at sequence seq
type noticeExpiredMsg struct {
	seq int
}
