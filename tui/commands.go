// ABOUTME: Bubble Tea commands that run simulated work off the Update loop
// ABOUTME: Analysis, the download ladder and config file watching all report back as messages

package tui

import (
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"vidgrab/config"
	"vidgrab/workflow"
)

// configDebounce lets editors finish atomic writes before reloading
const configDebounce = 100 * time.Millisecond

// analyze runs the simulated analyzer with the current config delay
func (m *model) analyze(runID, url string) tea.Cmd {
	analyzer := workflow.NewAnalyzer(m.clock, m.rand)
	analyzer.Delay = m.sharedConfig.Get().AnalyzeDelay()
	ctx := m.ctx
	debugf := m.debugf

	return func() tea.Msg {
		debugf("[TUI] Analyzing %q (run %s)", url, runID)

		info, err := analyzer.Analyze(ctx, url)

		return analysisDoneMsg{runID: runID, info: info, err: err}
	}
}

// startDownload runs the ladder in a command goroutine, streaming every step
// and the final outcome through updateChan so they arrive in order
func (m *model) startDownload(runID string, info workflow.VideoInfo) tea.Cmd {
	downloader := workflow.NewDownloader(m.clock, m.rand)
	downloader.StepDelay = m.sharedConfig.Get().StepDelay()
	ctx := m.ctx
	updates := m.updateChan
	debugf := m.debugf

	return func() tea.Msg {
		defer func() {
			if r := recover(); r != nil {
				debugf("[PANIC] startDownload panic: %v", r)
				debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
				panic(r)
			}
		}()

		send := func(u Update) bool {
			select {
			case updates <- u:
				return true
			case <-ctx.Done():
				return false
			}
		}

		result, err := downloader.Run(ctx, info, func(p workflow.Progress) {
			send(Update{RunID: runID, Progress: p})
		})

		if ctx.Err() != nil {
			return nil
		}

		debugf("[TUI] Run %s finished after %d method(s): err=%v", runID, result.Attempts, err)
		send(Update{RunID: runID, Final: true, Result: result, Err: err})

		return nil
	}
}

// waitForUpdate waits for download updates and returns them as messages
func waitForUpdate(updateChan <-chan Update) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-updateChan
		if !ok {
			return nil
		}

		return update
	}
}

// watchConfig creates a watcher for the config file
func watchConfig(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}

	if err := watcher.Add(path); err != nil {
		_ = watcher.Close()

		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	return watcher, nil
}

// waitForConfigChange blocks until the config file is written, then reloads it
func waitForConfigChange(watcher *fsnotify.Watcher, path string, debugf func(string, ...any)) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}

				if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
					time.Sleep(configDebounce)

					cfg, err := config.LoadConfig(path)

					return configReloadedMsg{cfg: cfg, err: err}
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}

				debugf("[WATCHER] Error: %v", err)
			}
		}
	}
}
