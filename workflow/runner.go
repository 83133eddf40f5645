// ABOUTME: Sequential driver that feeds analyzer and downloader output through Reduce
// ABOUTME: Used by the headless CLI and trials modes; the TUI drives the same steps via commands

package workflow

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Runner drives one workflow run without a UI
type Runner struct {
	Analyzer   *Analyzer
	Downloader *Downloader
	NewRunID   func() string
}

// NewRunner creates a runner sharing clock and random source between both stages
func NewRunner(clock Clock, rnd Random) *Runner {
	return &Runner{
		Analyzer:   NewAnalyzer(clock, rnd),
		Downloader: NewDownloader(clock, rnd),
		NewRunID:   uuid.NewString,
	}
}

// Analyze submits s.URL and applies the analysis outcome. A validation
// failure is not returned as an error: it is recorded in the returned
// state (phase idle, Err set), matching what the UI shows.
func (r *Runner) Analyze(ctx context.Context, s State) (State, error) {
	s, err := Reduce(s, Submit{RunID: r.NewRunID()})
	if err != nil {
		return s, err
	}

	info, err := r.Analyzer.Analyze(ctx, s.URL)
	if err != nil {
		if ctx.Err() != nil {
			return s, err
		}

		return Reduce(s, AnalysisFailed{RunID: s.RunID, Err: err})
	}

	return Reduce(s, AnalysisSucceeded{RunID: s.RunID, Info: info})
}

// Download runs the ladder for a state in the downloading phase. observe is
// called with every intermediate state; it may be nil.
func (r *Runner) Download(ctx context.Context, s State, observe func(State)) (State, error) {
	if s.Phase != PhaseDownloading || s.Video == nil {
		return s, fmt.Errorf("%w: download requested in phase %s", ErrInvalidTransition, s.Phase)
	}

	var reduceErr error

	result, err := r.Downloader.Run(ctx, *s.Video, func(p Progress) {
		next, perr := Reduce(s, ProgressReported{RunID: s.RunID, Progress: p})
		if perr != nil {
			reduceErr = perr

			return
		}

		s = next
		if observe != nil {
			observe(s)
		}
	})

	if reduceErr != nil {
		return s, reduceErr
	}

	if err != nil {
		if ctx.Err() != nil {
			return s, err
		}

		return Reduce(s, DownloadFailed{RunID: s.RunID, Err: err})
	}

	return Reduce(s, DownloadSucceeded{RunID: s.RunID, Result: result})
}
