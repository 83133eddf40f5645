// ABOUTME: Rendering and display functions for the TUI
// ABOUTME: Implements the Bubble Tea View() function and per-phase render helpers

package tui

import (
	"fmt"
	"runtime/debug"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"vidgrab/workflow"
)

// View renders the TUI
func (m model) View() string {
	defer func() {
		if r := recover(); r != nil {
			m.debugf("[PANIC] View panic: %v", r)
			m.debugf("[PANIC] Stack trace: %s", string(debug.Stack()))
			panic(r)
		}
	}()

	if m.quitting {
		return "Saving settings and exiting...\n"
	}

	sections := []string{titleStyle.Render("vidgrab · video downloader (simulation)"), ""}

	switch m.state.Phase {
	case workflow.PhaseIdle:
		sections = append(sections, m.renderForm())
	case workflow.PhaseAnalyzing:
		sections = append(sections, m.renderAnalyzing())
	case workflow.PhaseDownloading:
		sections = append(sections, m.renderInfo(), m.renderProgress())
	case workflow.PhaseSuccess:
		sections = append(sections, m.renderInfo(), m.renderProgress(), m.renderSuccess())
	case workflow.PhaseError:
		sections = append(sections, m.renderInfo(), m.renderError())
	}

	if notice := m.renderNotice(); notice != "" {
		sections = append(sections, "", notice)
	}

	sections = append(sections, "", m.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, sections...) + "\n"
}

// renderForm renders the URL, quality and path inputs
func (m model) renderForm() string {
	label := func(field int, text string) string {
		if m.focus == field {
			return focusedLabelStyle.Render(text)
		}

		return labelStyle.Render(text)
	}

	var radios []string

	for i, q := range workflow.Qualities {
		mark := "( )"
		if i == m.qualityIdx {
			mark = "(•)"
		}

		radios = append(radios, fmt.Sprintf("%s %s", mark, q.Label()))
	}

	lines := []string{
		label(focusURL, "URL") + m.urlInput.View(),
		label(focusQuality, "Quality") + strings.Join(radios, "  "),
		label(focusPath, "Save to") + m.pathInput.View(),
	}

	return strings.Join(lines, "\n")
}

// renderAnalyzing renders the spinner or the pending dialog
func (m model) renderAnalyzing() string {
	switch m.state.Dialog {
	case workflow.DialogPlaylist:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderInfo(), m.renderPlaylistDialog())
	case workflow.DialogConfirmLarge:
		return lipgloss.JoinVertical(lipgloss.Left, m.renderInfo(), m.renderConfirmDialog())
	default:
		return fmt.Sprintf("%s Analyzing %s ...", m.spinner.View(), workflow.Truncate(m.state.URL, 50))
	}
}

// renderInfo renders the read-only metadata panel
func (m model) renderInfo() string {
	v := m.state.Video
	if v == nil {
		return ""
	}

	lines := []string{
		titleStyle.Render(v.Title),
		fmt.Sprintf("Uploader: %s", v.Uploader),
		fmt.Sprintf("Duration: %s", workflow.FormatDuration(v.DurationSeconds)),
		fmt.Sprintf("Quality:  %s", m.state.Options.Quality.Label()),
	}

	var badges []string

	for _, b := range v.Badges() {
		style := playlistBadgeStyle
		if b == workflow.BadgeAgeRestricted {
			style = ageBadgeStyle
		}

		badges = append(badges, style.Render(b))
	}

	if len(badges) > 0 {
		lines = append(lines, strings.Join(badges, " "))
	}

	return infoBoxStyle.Render(strings.Join(lines, "\n"))
}

// renderPlaylistDialog renders the single/playlist/cancel choice
func (m model) renderPlaylistDialog() string {
	labels := map[workflow.PlaylistChoice]string{
		workflow.ChoiceSingle:   "[s] This video only",
		workflow.ChoicePlaylist: fmt.Sprintf("[p] Entire playlist (%d)", m.state.Video.Count()),
		workflow.ChoiceCancel:   "[c] Cancel",
	}

	buttons := make([]string, 0, len(playlistButtons))

	for i, choice := range playlistButtons {
		style := buttonStyle
		if i == m.dialogCursor {
			style = selectedButtonStyle
		}

		buttons = append(buttons, style.Render(labels[choice]))
	}

	body := "This link belongs to a playlist. What would you like to download?\n\n" +
		lipgloss.JoinHorizontal(lipgloss.Top, buttons...)

	return dialogStyle.Render(body)
}

// renderConfirmDialog renders the large playlist warning
func (m model) renderConfirmDialog() string {
	body := fmt.Sprintf("This playlist has %d videos, which may take a long time.\nDownload all of them? [y/n]",
		m.state.Video.Count())

	return dialogStyle.Render(body)
}

// renderProgress renders the progress bar with percentage and method label
func (m model) renderProgress() string {
	bar := m.progressBar.ViewAs(m.state.Progress / 100)

	method := m.state.Method
	if method == "" {
		method = "Preparing"
	}

	if i := slices.Index(workflow.Methods, m.state.Method); i >= 0 {
		method = fmt.Sprintf("%s (method %d/%d)", method, i+1, len(workflow.Methods))
	}

	return fmt.Sprintf("%s\n%s %5.1f%%", bar, methodStyle.Render(method), m.state.Progress)
}

// renderSuccess renders the completion banner
func (m model) renderSuccess() string {
	return successStyle.Render(fmt.Sprintf("Download complete! Saved to %s", m.state.Options.DownloadPath))
}

// renderError renders the failure banner
func (m model) renderError() string {
	return errorStyle.Render("Download failed: " + m.state.Err)
}

// renderNotice renders the transient notice line
func (m model) renderNotice() string {
	if m.state.Notice == "" {
		return ""
	}

	return noticeStyle.Width(m.width).Render(m.state.Notice)
}

// renderHelp renders the key help for the current phase
func (m model) renderHelp() string {
	return m.help.ShortHelpView(m.helpBindings())
}

// helpBindings lists the keys that do something in the current phase
func (m model) helpBindings() []key.Binding {
	switch m.state.Phase {
	case workflow.PhaseIdle:
		return []key.Binding{keys.Submit, keys.NextField, keys.PrevField, keys.Left, keys.Right, keys.ForceQuit}
	case workflow.PhaseAnalyzing:
		switch m.state.Dialog {
		case workflow.DialogPlaylist:
			return []key.Binding{keys.Single, keys.Playlist, keys.Cancel, keys.Left, keys.Right, keys.Submit}
		case workflow.DialogConfirmLarge:
			return []key.Binding{keys.Yes, keys.No}
		}

		return []key.Binding{keys.ForceQuit}
	case workflow.PhaseDownloading:
		return []key.Binding{keys.Quit}
	case workflow.PhaseSuccess, workflow.PhaseError:
		return []key.Binding{keys.Reset, keys.Quit}
	}

	return nil
}
