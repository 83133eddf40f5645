// ABOUTME: Pure reducer implementing the workflow state machine
// ABOUTME: Each event maps a State to a new State or rejects it with an error

package workflow

import (
	"errors"
	"fmt"
	"strings"
)

// Event is an input to Reduce
type Event interface {
	event()
}

// SetURL edits the URL text field
type SetURL struct{ URL string }

// SetQuality picks a quality preset
type SetQuality struct{ Quality Quality }

// SetDownloadPath edits the destination path
type SetDownloadPath struct{ Path string }

// Submit starts analysis of the current URL under a new run ID
type Submit struct{ RunID string }

// AnalysisSucceeded delivers analyzer output
type AnalysisSucceeded struct {
	RunID string
	Info  VideoInfo
}

// AnalysisFailed delivers an analyzer error
type AnalysisFailed struct {
	RunID string
	Err   error
}

// ChoosePlaylist answers the playlist dialog
type ChoosePlaylist struct{ Choice PlaylistChoice }

// ConfirmLarge answers the large playlist confirmation
type ConfirmLarge struct{ Accept bool }

// ProgressReported delivers a downloader progress step
type ProgressReported struct {
	RunID    string
	Progress Progress
}

// DownloadSucceeded ends a run successfully
type DownloadSucceeded struct {
	RunID  string
	Result Result
}

// DownloadFailed ends a run with an error
type DownloadFailed struct {
	RunID string
	Err   error
}

// Reset returns a finished workflow to idle
type Reset struct{}

// DismissNotice clears the transient notice
type DismissNotice struct{}

func (SetURL) event()            {}
func (SetQuality) event()        {}
func (SetDownloadPath) event()   {}
func (Submit) event()            {}
func (AnalysisSucceeded) event() {}
func (AnalysisFailed) event()    {}
func (ChoosePlaylist) event()    {}
func (ConfirmLarge) event()      {}
func (ProgressReported) event()  {}
func (DownloadSucceeded) event() {}
func (DownloadFailed) event()    {}
func (Reset) event()             {}
func (DismissNotice) event()     {}

// Notice texts
const (
	noticeCancelled = "Download cancelled"
	noticeDeclined  = "Playlist download declined"
	noticeCompleted = "Download completed"
)

// Reduce applies ev to s. A rejected event returns the error and a state that
// differs from s at most in its Notice.
func Reduce(s State, ev Event) (State, error) {
	switch ev := ev.(type) {
	case SetURL:
		if s.Phase != PhaseIdle {
			return s, invalid(s, ev)
		}

		s.URL = ev.URL

		return s, nil

	case SetQuality:
		if s.Phase != PhaseIdle {
			return s, invalid(s, ev)
		}

		s.Options.Quality = ev.Quality

		return s, nil

	case SetDownloadPath:
		if s.Phase != PhaseIdle {
			return s, invalid(s, ev)
		}

		s.Options.DownloadPath = ev.Path

		return s, nil

	case Submit:
		return submit(s, ev)

	case AnalysisSucceeded:
		if s.Phase != PhaseAnalyzing || s.Dialog != DialogNone || ev.RunID != s.RunID {
			return s, invalid(s, ev)
		}

		return analyzed(s, ev.Info), nil

	case AnalysisFailed:
		if s.Phase != PhaseAnalyzing || ev.RunID != s.RunID {
			return s, invalid(s, ev)
		}

		s.Phase = PhaseIdle
		s.Video = nil
		s.Dialog = DialogNone
		s.Err = errorText(ev.Err)
		s.Notice = s.Err

		return s, nil

	case ChoosePlaylist:
		return choosePlaylist(s, ev.Choice)

	case ConfirmLarge:
		if s.Phase != PhaseAnalyzing || s.Dialog != DialogConfirmLarge {
			return s, invalid(s, ev)
		}

		if !ev.Accept {
			return discard(s, noticeDeclined), nil
		}

		return startDownload(s), nil

	case ProgressReported:
		if s.Phase != PhaseDownloading || ev.RunID != s.RunID {
			return s, invalid(s, ev)
		}

		if ev.Progress.Value > s.Progress {
			s.Progress = min(ev.Progress.Value, 100)
		}

		s.Method = ev.Progress.Method

		return s, nil

	case DownloadSucceeded:
		if s.Phase != PhaseDownloading || ev.RunID != s.RunID {
			return s, invalid(s, ev)
		}

		s.Phase = PhaseSuccess
		s.Progress = 100
		s.Method = ev.Result.Method
		s.Notice = noticeCompleted

		return s, nil

	case DownloadFailed:
		if s.Phase != PhaseDownloading || ev.RunID != s.RunID {
			return s, invalid(s, ev)
		}

		s.Phase = PhaseError
		s.Err = errorText(ev.Err)
		s.Notice = s.Err

		return s, nil

	case Reset:
		if !s.Phase.IsTerminal() {
			return s, invalid(s, ev)
		}

		s.Phase = PhaseIdle
		s.Video = nil
		s.Progress = 0
		s.Err = ""
		s.Method = ""
		s.Notice = ""
		s.Dialog = DialogNone
		s.RunID = ""
		s.Options.PlaylistChoice = ChoiceNone

		return s, nil

	case DismissNotice:
		s.Notice = ""

		return s, nil
	}

	return s, fmt.Errorf("%w: unknown event %T", ErrInvalidTransition, ev)
}

func submit(s State, ev Submit) (State, error) {
	if s.Phase != PhaseIdle {
		return s, invalid(s, ev)
	}

	if strings.TrimSpace(s.URL) == "" {
		s.Notice = ErrEmptyURL.Error()

		return s, ErrEmptyURL
	}

	s.Phase = PhaseAnalyzing
	s.RunID = ev.RunID
	s.Video = nil
	s.Progress = 0
	s.Method = ""
	s.Err = ""
	s.Notice = ""
	s.Dialog = DialogNone
	s.Options.PlaylistChoice = ChoiceNone

	return s, nil
}

func analyzed(s State, info VideoInfo) State {
	s.Video = &info

	if info.IsPlaylist {
		s.Dialog = DialogPlaylist

		return s
	}

	return startDownload(s)
}

func choosePlaylist(s State, choice PlaylistChoice) (State, error) {
	if s.Phase != PhaseAnalyzing || s.Dialog != DialogPlaylist {
		return s, invalid(s, ChoosePlaylist{Choice: choice})
	}

	s.Options.PlaylistChoice = choice

	switch choice {
	case ChoiceSingle:
		return startDownload(s), nil
	case ChoicePlaylist:
		if s.Video != nil && s.Video.Count() > s.Threshold {
			s.Dialog = DialogConfirmLarge

			return s, nil
		}

		return startDownload(s), nil
	case ChoiceCancel:
		return discard(s, noticeCancelled), nil
	default:
		return s, fmt.Errorf("%w: unknown playlist choice %q", ErrInvalidTransition, choice)
	}
}

func startDownload(s State) State {
	s.Phase = PhaseDownloading
	s.Dialog = DialogNone
	s.Progress = 0
	s.Method = ""

	return s
}

// discard abandons the analysis result and returns to idle
func discard(s State, notice string) State {
	s.Phase = PhaseIdle
	s.Dialog = DialogNone
	s.Video = nil
	s.RunID = ""
	s.Notice = notice

	return s
}

func invalid(s State, ev Event) error {
	return fmt.Errorf("%w: %T in phase %s", ErrInvalidTransition, ev, s.Phase)
}

// errorText strips wrapping so the user sees the fixed message for known failures
func errorText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAllMethodsFailed):
		return ErrAllMethodsFailed.Error()
	case errors.Is(err, ErrInvalidURL):
		return ErrInvalidURL.Error()
	case errors.Is(err, ErrEmptyURL):
		return ErrEmptyURL.Error()
	default:
		return err.Error()
	}
}
