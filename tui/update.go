// ABOUTME: Event handling and state updates for the TUI
// ABOUTME: Implements the Bubble Tea Update() function and per-phase key handlers

package tui

import (
	"errors"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"vidgrab/workflow"
)

// Update handles messages and updates the model
//
//nolint:ireturn // Bubble Tea framework requires returning tea.Model interface
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] Update panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r)
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progressBar.Width = min(max(msg.Width-4, 10), maxProgressWidth)
		m.urlInput.Width = max(msg.Width-16, 10)
		m.pathInput.Width = max(msg.Width-16, 10)
		m.help.Width = msg.Width

		return m, nil

	case analysisDoneMsg:
		return m.handleAnalysisDone(msg)

	case Update:
		return m.handleDownloadUpdate(msg)

	case spinner.TickMsg:
		if m.state.Phase != workflow.PhaseAnalyzing || m.state.Dialog != workflow.DialogNone {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case configReloadedMsg:
		return m.handleConfigReloaded(msg)

	case noticeExpiredMsg:
		if msg.seq == m.noticeSeq {
			_ = m.apply(workflow.DismissNotice{})
		}

		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.ForceQuit) {
			return m.handleQuitKey()
		}

		switch m.state.Phase {
		case workflow.PhaseIdle:
			return m.handleIdleKey(msg)
		case workflow.PhaseAnalyzing:
			return m.handleDialogKey(msg)
		case workflow.PhaseSuccess, workflow.PhaseError:
			return m.handleTerminalKey(msg)
		case workflow.PhaseDownloading:
			// no cancel affordance: a run always finishes
			if key.Matches(msg, keys.Quit) {
				return m.handleQuitKey()
			}
		}
	}

	return m, nil
}

// handleQuitKey cancels simulated work, saves option defaults and quits
func (m *model) handleQuitKey() (model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	m.persistOptions()

	return *m, tea.Quit
}

// handleIdleKey handles the input form
func (m *model) handleIdleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Submit):
		return m.submit()

	case key.Matches(msg, keys.NextField):
		return *m, m.setFocus(m.focus + 1)

	case key.Matches(msg, keys.PrevField):
		return *m, m.setFocus(m.focus - 1)
	}

	var cmd tea.Cmd

	switch m.focus {
	case focusURL:
		m.urlInput, cmd = m.urlInput.Update(msg)
	case focusPath:
		m.pathInput, cmd = m.pathInput.Update(msg)
	case focusQuality:
		switch {
		case key.Matches(msg, keys.Left):
			m.selectQuality(-1)
		case key.Matches(msg, keys.Right):
			m.selectQuality(1)
		case key.Matches(msg, keys.Quit):
			return m.handleQuitKey()
		}
	}

	m.syncInputs()

	return *m, cmd
}

// submit starts analysis of the URL field
func (m *model) submit() (model, tea.Cmd) {
	m.syncInputs()

	runID := m.newRunID()
	if err := m.apply(workflow.Submit{RunID: runID}); err != nil {
		return *m, m.expireNotice()
	}

	m.urlInput.Blur()
	m.pathInput.Blur()

	return *m, tea.Batch(m.analyze(runID, m.state.URL), m.spinner.Tick)
}

// handleAnalysisDone applies analyzer output and starts the download when no dialog is needed
func (m *model) handleAnalysisDone(msg analysisDoneMsg) (model, tea.Cmd) {
	if msg.runID != m.state.RunID {
		m.debugf("[TUI] Ignoring stale analysis for run %s", msg.runID)

		return *m, nil
	}

	if msg.err != nil {
		if errors.Is(msg.err, workflow.ErrInvalidURL) || errors.Is(msg.err, workflow.ErrEmptyURL) {
			_ = m.apply(workflow.AnalysisFailed{RunID: msg.runID, Err: msg.err})

			return *m, tea.Batch(m.setFocus(focusURL), m.expireNotice())
		}

		// interrupted on quit
		return *m, nil
	}

	if err := m.apply(workflow.AnalysisSucceeded{RunID: msg.runID, Info: msg.info}); err != nil {
		return *m, nil
	}

	if m.state.Dialog == workflow.DialogPlaylist {
		m.dialogCursor = 0

		return *m, nil
	}

	return *m, m.beginDownload()
}

// beginDownload starts the ladder for the current run
func (m *model) beginDownload() tea.Cmd {
	if m.state.Phase != workflow.PhaseDownloading || m.state.Video == nil {
		return nil
	}

	m.debugf("[TUI] Starting download run %s (age restricted: %v, choice: %q)",
		m.state.RunID, m.state.Video.IsAgeRestricted, m.state.Options.PlaylistChoice)

	return tea.Batch(
		m.startDownload(m.state.RunID, *m.state.Video),
		waitForUpdate(m.updateChan),
	)
}

// handleDownloadUpdate applies a progress step or the final outcome
func (m *model) handleDownloadUpdate(msg Update) (model, tea.Cmd) {
	if msg.RunID != m.state.RunID || m.state.Phase != workflow.PhaseDownloading {
		m.debugf("[TUI] Ignoring stale Update for run %s", msg.RunID)

		return *m, nil
	}

	if !msg.Final {
		_ = m.apply(workflow.ProgressReported{RunID: msg.RunID, Progress: msg.Progress})

		return *m, waitForUpdate(m.updateChan)
	}

	if msg.Err != nil {
		_ = m.apply(workflow.DownloadFailed{RunID: msg.RunID, Err: msg.Err})
	} else {
		_ = m.apply(workflow.DownloadSucceeded{RunID: msg.RunID, Result: msg.Result})
	}

	return *m, m.expireNotice()
}

// handleDialogKey handles the playlist dialog and the large playlist confirmation
func (m *model) handleDialogKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state.Dialog {
	case workflow.DialogPlaylist:
		choice := workflow.ChoiceNone

		switch {
		case key.Matches(msg, keys.Single):
			choice = workflow.ChoiceSingle
		case key.Matches(msg, keys.Playlist):
			choice = workflow.ChoicePlaylist
		case key.Matches(msg, keys.Cancel):
			choice = workflow.ChoiceCancel
		case key.Matches(msg, keys.Left):
			m.dialogCursor = max(m.dialogCursor-1, 0)
		case key.Matches(msg, keys.Right):
			m.dialogCursor = min(m.dialogCursor+1, len(playlistButtons)-1)
		case key.Matches(msg, keys.Submit):
			choice = playlistButtons[m.dialogCursor]
		}

		if choice == workflow.ChoiceNone {
			return *m, nil
		}

		return m.resolveDialog(workflow.ChoosePlaylist{Choice: choice})

	case workflow.DialogConfirmLarge:
		switch {
		case key.Matches(msg, keys.Yes):
			return m.resolveDialog(workflow.ConfirmLarge{Accept: true})
		case key.Matches(msg, keys.No):
			return m.resolveDialog(workflow.ConfirmLarge{Accept: false})
		}
	}

	return *m, nil
}

// resolveDialog applies a dialog answer and follows up on the resulting phase
func (m *model) resolveDialog(ev workflow.Event) (model, tea.Cmd) {
	if err := m.apply(ev); err != nil {
		return *m, nil
	}

	switch m.state.Phase {
	case workflow.PhaseDownloading:
		return *m, m.beginDownload()
	case workflow.PhaseIdle:
		return *m, tea.Batch(m.setFocus(focusURL), m.expireNotice())
	}

	return *m, nil
}

// handleTerminalKey handles the success and error screens
func (m *model) handleTerminalKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Reset), key.Matches(msg, keys.Submit):
		if err := m.apply(workflow.Reset{}); err != nil {
			return *m, nil
		}

		return *m, m.setFocus(focusURL)

	case key.Matches(msg, keys.Quit):
		return m.handleQuitKey()
	}

	return *m, nil
}

// handleConfigReloaded swaps in a reloaded config file
func (m *model) handleConfigReloaded(msg configReloadedMsg) (model, tea.Cmd) {
	if msg.err != nil {
		m.debugf("[TUI] Config reload failed, keeping previous config: %v", msg.err)
	} else {
		m.sharedConfig.Update(msg.cfg)
		m.state.Threshold = msg.cfg.PlaylistWarnThreshold
		m.debugf("[TUI] Config reloaded: analyze=%v step=%v threshold=%d",
			msg.cfg.AnalyzeDelay(), msg.cfg.StepDelay(), msg.cfg.PlaylistWarnThreshold)
	}

	if m.watcher == nil {
		return *m, nil
	}

	return *m, waitForConfigChange(m.watcher, m.configPath, m.debugf)
}
