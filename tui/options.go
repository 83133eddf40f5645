// ABOUTME: TUI mode configuration and command-line options
// ABOUTME: Defines input parameters for running the TUI

package tui

// Options contains configuration for running the TUI
type Options struct {
	InitialURL  string // Pre-filled URL field
	WatchConfig bool   // Reload config file on change
}
