// ABOUTME: Terminal UI model and core state management
// ABOUTME: Bubble Tea model wrapping the workflow state holder and its simulated runs

// Package tui provides an interactive terminal UI for the simulated download workflow.
package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"vidgrab/config"
	"vidgrab/workflow"
)

// Idle form fields in tab order
const (
	focusURL = iota
	focusQuality
	focusPath
	focusCount
)

// Layout and timing constants
const (
	defaultWidth          = 80
	maxProgressWidth      = 60
	inputCharLimit        = 2048
	statusMessageDuration = 5 * time.Second // How long to show transient notices
	updateBufferSize      = 16
)

// playlistButtons are the dialog answers in display order
var playlistButtons = []workflow.PlaylistChoice{
	workflow.ChoiceSingle,
	workflow.ChoicePlaylist,
	workflow.ChoiceCancel,
}

// model holds the TUI state
type model struct {
	// Dependencies
	sharedConfig *config.SharedConfig
	clock        workflow.Clock
	rand         workflow.Random
	newRunID     func() string
	saveConfig   func(string, config.Config) error
	loadFile     func(string) (config.Config, error)
	debugf       func(string, ...any)
	configPath   string

	// Options the session started with, so quit only saves what was edited
	startQuality workflow.Quality
	startPath    string

	// Workflow state; only Update mutates it
	state workflow.State

	// Run lifecycle
	// Framework exception: Context stored in struct because Bubble Tea's Init/Update/View
	// pattern doesn't allow passing context through function parameters.
	ctx        context.Context    //nolint:containedctx // See framework exception above
	cancel     context.CancelFunc // Cancels in-flight simulated work on quit
	updateChan chan Update        // Download progress and outcome
	watcher    *fsnotify.Watcher  // Config file watcher, nil when disabled

	// Widgets
	urlInput     textinput.Model
	pathInput    textinput.Model
	spinner      spinner.Model
	progressBar  progress.Model
	help         help.Model
	focus        int
	qualityIdx   int
	dialogCursor int

	// UI state
	width     int
	height    int
	quitting  bool
	noticeSeq int // Incremented per notice so only the latest one expires
}

// Key bindings
type keyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Submit    key.Binding
	NextField key.Binding
	PrevField key.Binding
	Left      key.Binding
	Right     key.Binding
	Reset     key.Binding
	Single    key.Binding
	Playlist  key.Binding
	Cancel    key.Binding
	Yes       key.Binding
	No        key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "download"),
	),
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab", "previous field"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "previous option"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "next option"),
	),
	Reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "start over"),
	),
	Single: key.NewBinding(
		key.WithKeys("s", "1"),
		key.WithHelp("s", "this video only"),
	),
	Playlist: key.NewBinding(
		key.WithKeys("p", "2"),
		key.WithHelp("p", "entire playlist"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("c", "3", "esc"),
		key.WithHelp("c", "cancel"),
	),
	Yes: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "yes"),
	),
	No: key.NewBinding(
		key.WithKeys("n", "esc"),
		key.WithHelp("n", "no"),
	),
}

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(10)

	focusedLabelStyle = labelStyle.
				Foreground(lipgloss.Color("12"))

	infoBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("11")).
			Padding(0, 1)

	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("250"))

	selectedButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(lipgloss.Color("240")).
				Foreground(lipgloss.Color("15")).
				Bold(true)

	ageBadgeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("1")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	playlistBadgeStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("4")).
				Foreground(lipgloss.Color("15")).
				Padding(0, 1)

	successStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("10")).
			Foreground(lipgloss.Color("10")).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("9")).
			Foreground(lipgloss.Color("9")).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("15")).
			Padding(0, 1)

	methodStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("14"))
)

// Run starts the TUI mode with injected dependencies
func Run(opts Options, deps Dependencies) error {
	m := initModel(opts, deps)

	if opts.WatchConfig {
		watcher, err := watchConfig(deps.ConfigPath)
		if err != nil {
			deps.Debugf("[TUI] Config watch disabled: %v", err)
		} else {
			m.watcher = watcher

			defer watcher.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	if fm, ok := finalModel.(model); ok && fm.state.Phase == workflow.PhaseSuccess {
		fmt.Printf("\nDownload complete: %s\n", fm.state.Options.DownloadPath)
	}

	return nil
}

// initModel creates the initial model with injected dependencies
func initModel(opts Options, deps Dependencies) model {
	cfg := deps.SharedConfig.Get()

	quality, err := workflow.ParseQuality(cfg.Quality)
	if err != nil {
		quality = workflow.QualityBest
	}

	ctx, cancel := context.WithCancel(context.Background())

	urlInput := textinput.New()
	urlInput.Placeholder = "https://www.youtube.com/watch?v=..."
	urlInput.Prompt = ""
	urlInput.CharLimit = inputCharLimit
	urlInput.SetValue(opts.InitialURL)
	urlInput.Focus()

	pathInput := textinput.New()
	pathInput.Placeholder = "/path/to/downloads"
	pathInput.Prompt = ""
	pathInput.CharLimit = inputCharLimit
	pathInput.SetValue(cfg.DownloadPath)

	spin := spinner.New(spinner.WithSpinner(spinner.Dot))

	state := workflow.NewState(quality, cfg.DownloadPath, cfg.PlaylistWarnThreshold)
	state.URL = opts.InitialURL

	m := model{
		sharedConfig: deps.SharedConfig,
		clock:        deps.Clock,
		rand:         deps.Rand,
		newRunID:     deps.NewRunID,
		saveConfig:   deps.SaveConfig,
		loadFile:     deps.LoadFile,
		debugf:       deps.Debugf,
		configPath:   deps.ConfigPath,

		startQuality: quality,
		startPath:    cfg.DownloadPath,

		state: state,

		ctx:        ctx,
		cancel:     cancel,
		updateChan: make(chan Update, updateBufferSize),

		urlInput:    urlInput,
		pathInput:   pathInput,
		spinner:     spin,
		progressBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(maxProgressWidth)),
		help:        help.New(),
		focus:       focusURL,
		qualityIdx:  qualityIndex(quality),

		width: defaultWidth,
	}

	return m
}

// Init initializes the model
func (m model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink}

	if m.watcher != nil {
		cmds = append(cmds, waitForConfigChange(m.watcher, m.configPath, m.debugf))
	}

	return tea.Batch(cmds...)
}

// apply runs ev through the reducer and logs rejected events
func (m *model) apply(ev workflow.Event) error {
	next, err := workflow.Reduce(m.state, ev)
	if err != nil {
		m.debugf("[TUI] Event %T rejected in phase %s: %v", ev, m.state.Phase, err)
	}

	noticeChanged := next.Notice != m.state.Notice
	m.state = next

	if noticeChanged && next.Notice != "" {
		m.noticeSeq++
	}

	return err
}

// expireNotice returns a command clearing the current notice after statusMessageDuration
func (m *model) expireNotice() tea.Cmd {
	if m.state.Notice == "" {
		return nil
	}

	seq := m.noticeSeq

	return tea.Tick(statusMessageDuration, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// setFocus moves keyboard focus between idle form fields
func (m *model) setFocus(field int) tea.Cmd {
	m.focus = (field + focusCount) % focusCount
	m.urlInput.Blur()
	m.pathInput.Blur()

	switch m.focus {
	case focusURL:
		return m.urlInput.Focus()
	case focusPath:
		return m.pathInput.Focus()
	}

	return nil
}

// syncInputs pushes text field values into the workflow state
func (m *model) syncInputs() {
	if m.state.Phase != workflow.PhaseIdle {
		return
	}

	if m.urlInput.Value() != m.state.URL {
		_ = m.apply(workflow.SetURL{URL: m.urlInput.Value()})
	}

	if m.pathInput.Value() != m.state.Options.DownloadPath {
		_ = m.apply(workflow.SetDownloadPath{Path: m.pathInput.Value()})
	}
}

// selectQuality moves the quality radio by delta, wrapping around
func (m *model) selectQuality(delta int) {
	n := len(workflow.Qualities)
	m.qualityIdx = ((m.qualityIdx+delta)%n + n) % n
	_ = m.apply(workflow.SetQuality{Quality: workflow.Qualities[m.qualityIdx]})
}

// persistOptions saves the quality and path edited in the TUI as the new
// defaults. The rest of the file is rewritten from disk, never from the
// session config, so env overrides and flags stay temporary.
func (m *model) persistOptions() {
	cfg, err := m.loadFile(m.configPath)
	if err != nil {
		m.debugf("[TUI] Not saving config on quit, failed to read %s: %v", m.configPath, err)

		return
	}

	if m.state.Options.Quality != m.startQuality {
		cfg.Quality = string(m.state.Options.Quality)
	}

	if m.state.Options.DownloadPath != m.startPath {
		cfg.DownloadPath = m.state.Options.DownloadPath
	}

	if err := m.saveConfig(m.configPath, cfg); err != nil {
		m.debugf("[TUI] Failed to save config on quit: %v", err)
	}
}

func qualityIndex(q workflow.Quality) int {
	for i, candidate := range workflow.Qualities {
		if candidate == q {
			return i
		}
	}

	return 0
}
