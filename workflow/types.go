// ABOUTME: Core data types for the simulated download workflow
// ABOUTME: Defines phases, video metadata, download options and the state holder

// Package workflow models a simulated video download: URL analysis, a playlist
// decision, and a multi-method download ladder driven by injected clocks and
// random sources. Nothing in this package touches the network or the disk.
package workflow

import "fmt"

// Phase is the single active stage of the workflow
type Phase int

// Workflow phases. Exactly one is active at any time.
const (
	PhaseIdle Phase = iota
	PhaseAnalyzing
	PhaseDownloading
	PhaseSuccess
	PhaseError
)

// String returns the lowercase phase name
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAnalyzing:
		return "analyzing"
	case PhaseDownloading:
		return "downloading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// IsTerminal returns true for phases that only a reset can leave
func (p Phase) IsTerminal() bool {
	return p == PhaseSuccess || p == PhaseError
}

// Quality is the requested download quality preset
type Quality string

// Quality presets
const (
	QualityBest     Quality = "best"
	QualityGood     Quality = "good"
	QualityStandard Quality = "standard"
)

// Qualities lists presets in display order
var Qualities = []Quality{QualityBest, QualityGood, QualityStandard}

// Label returns the human readable label shown next to the radio button
func (q Quality) Label() string {
	switch q {
	case QualityBest:
		return "Best (highest available)"
	case QualityGood:
		return "Good (720p)"
	case QualityStandard:
		return "Standard (480p)"
	default:
		return string(q)
	}
}

// ParseQuality converts a string to a Quality preset
func ParseQuality(s string) (Quality, error) {
	for _, q := range Qualities {
		if string(q) == s {
			return q, nil
		}
	}

	return "", fmt.Errorf("unknown quality %q (want best, good or standard)", s)
}

// PlaylistChoice is the answer picked in the playlist dialog
type PlaylistChoice string

// Playlist dialog answers
const (
	ChoiceNone     PlaylistChoice = ""
	ChoiceSingle   PlaylistChoice = "single"
	ChoicePlaylist PlaylistChoice = "playlist"
	ChoiceCancel   PlaylistChoice = "cancel"
)

// ParsePlaylistChoice converts a string to a PlaylistChoice
func ParsePlaylistChoice(s string) (PlaylistChoice, error) {
	switch PlaylistChoice(s) {
	case ChoiceSingle, ChoicePlaylist, ChoiceCancel:
		return PlaylistChoice(s), nil
	default:
		return ChoiceNone, fmt.Errorf("unknown playlist choice %q (want single, playlist or cancel)", s)
	}
}

// VideoInfo is the fabricated metadata produced by the analyzer.
// PlaylistCount is non-nil exactly when IsPlaylist is true.
type VideoInfo struct {
	Title           string
	Uploader        string
	DurationSeconds int
	IsAgeRestricted bool
	IsPlaylist      bool
	PlaylistCount   *int
}

// Count returns the playlist size, or 0 for a single video
func (v VideoInfo) Count() int {
	if v.PlaylistCount == nil {
		return 0
	}

	return *v.PlaylistCount
}

// DownloadOptions holds user selected options
type DownloadOptions struct {
	Quality        Quality
	DownloadPath   string
	PlaylistChoice PlaylistChoice
}

// Dialog identifies the modal currently blocking progression
type Dialog int

// Modal dialogs
const (
	DialogNone Dialog = iota
	DialogPlaylist
	DialogConfirmLarge
)

// State is the complete workflow state. It is a value type: transitions
// return a new State and never mutate the receiver.
type State struct {
	Phase     Phase
	URL       string
	Options   DownloadOptions
	Video     *VideoInfo
	Progress  float64
	Method    string
	Err       string
	Notice    string
	Dialog    Dialog
	RunID     string
	Threshold int // playlist size above which a confirmation is required
}

// NewState returns an idle state with the given defaults
func NewState(quality Quality, downloadPath string, threshold int) State {
	return State{
		Phase: PhaseIdle,
		Options: DownloadOptions{
			Quality:      quality,
			DownloadPath: downloadPath,
		},
		Threshold: threshold,
	}
}
