// ABOUTME: CLI mode implementation for non-interactive simulated downloads
// ABOUTME: Handles progress display, playlist resolution, and signal handling for command-line usage

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"vidgrab/config"
	"vidgrab/workflow"
)

var (
	errNotConfirmed = errors.New("large playlist not confirmed (rerun with -yes)")
	errCancelled    = errors.New("download cancelled")
)

// cliDeps are the injectable pieces of a CLI run
type cliDeps struct {
	clock    workflow.Clock
	rand     workflow.Random
	newRunID func() string
	cfg      config.Config
	tty      bool
	start    func() time.Time
}

// RunCLI executes one simulated download without the TUI
func RunCLI(opts RunOptions, cfg config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	defer signal.Stop(stop)

	go func() {
		select {
		case <-stop:
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCLI(ctx, opts, cliDeps{
		clock:    workflow.RealClock{},
		rand:     workflow.NewRandom(opts.Seed),
		newRunID: uuid.NewString,
		cfg:      cfg,
		tty:      isTTY(os.Stdout),
		start:    time.Now,
	}, os.Stdout)
}

// runCLI drives the workflow through the reducer and prints progress to w
func runCLI(ctx context.Context, opts RunOptions, deps cliDeps, w io.Writer) error {
	runner := workflow.NewRunner(deps.clock, deps.rand)
	runner.Analyzer.Delay = deps.cfg.AnalyzeDelay()
	runner.Downloader.StepDelay = deps.cfg.StepDelay()
	runner.NewRunID = deps.newRunID

	state := workflow.NewState(opts.Quality, opts.DownloadPath, deps.cfg.PlaylistWarnThreshold)
	state.URL = opts.URL

	fmt.Fprintf(w, "Analyzing %s ...\n", workflow.Truncate(strings.TrimSpace(opts.URL), 60))

	state, err := runner.Analyze(ctx, state)

	switch {
	case errors.Is(err, workflow.ErrEmptyURL):
		return fmt.Errorf("analysis failed: %w", err)
	case err != nil:
		return fmt.Errorf("analysis interrupted: %w", err)
	case state.Phase == workflow.PhaseIdle:
		return fmt.Errorf("analysis failed: %s", state.Err)
	}

	printVideoInfo(w, state)

	if state.Dialog != workflow.DialogNone {
		state, err = resolvePlaylist(w, state, opts)
		if err != nil {
			return err
		}
	}

	debugf("[CLI] Run %s downloading (quality %s, choice %q)", state.RunID, state.Options.Quality, state.Options.PlaylistChoice)

	started := deps.start()
	lastMethod := ""

	state, err = runner.Download(ctx, state, func(s workflow.State) {
		if deps.tty {
			idx := methodIndex(s.Method)
			fmt.Fprintf(w, "\r%s %s\033[K",
				formatElapsed(deps.start().Sub(started)),
				FormatProgressLine(workflow.Progress{Value: s.Progress, Method: s.Method, MethodIndex: idx}, len(workflow.Methods)))

			return
		}

		// Non-TTY: one line per method to avoid log spam
		if s.Method != lastMethod {
			lastMethod = s.Method
			fmt.Fprintf(w, "Trying method %d/%d: %s\n", methodIndex(s.Method)+1, len(workflow.Methods), s.Method)
		}
	})

	if deps.tty {
		fmt.Fprint(w, "\r\033[K")
	}

	if err != nil {
		return fmt.Errorf("download interrupted: %w", err)
	}

	if state.Phase == workflow.PhaseError {
		fmt.Fprintf(w, "Download failed: %s\n", state.Err)

		return fmt.Errorf("download failed: %w", workflow.ErrAllMethodsFailed)
	}

	fmt.Fprintf(w, "Download complete! Saved to %s (via %s)\n", state.Options.DownloadPath, state.Method)

	return nil
}

// resolvePlaylist answers the playlist dialog from flags
func resolvePlaylist(w io.Writer, s workflow.State, opts RunOptions) (workflow.State, error) {
	choice := opts.Playlist
	if choice == workflow.ChoiceNone {
		choice = workflow.ChoiceSingle
		fmt.Fprintln(w, "Link belongs to a playlist, downloading this video only (use -playlist playlist for all)")
	}

	s, err := workflow.Reduce(s, workflow.ChoosePlaylist{Choice: choice})
	if err != nil {
		return s, err
	}

	if s.Phase == workflow.PhaseIdle {
		fmt.Fprintln(w, s.Notice)

		return s, errCancelled
	}

	if s.Dialog == workflow.DialogConfirmLarge {
		if !opts.AssumeYes {
			fmt.Fprintf(w, "This playlist has %d videos (threshold %d).\n", s.Video.Count(), s.Threshold)
			s, _ = workflow.Reduce(s, workflow.ConfirmLarge{Accept: false})
			fmt.Fprintln(w, s.Notice)

			return s, errNotConfirmed
		}

		s, err = workflow.Reduce(s, workflow.ConfirmLarge{Accept: true})
		if err != nil {
			return s, err
		}
	}

	return s, nil
}

func printVideoInfo(w io.Writer, s workflow.State) {
	v := s.Video
	if v == nil {
		return
	}

	fmt.Fprintf(w, "Title:    %s\n", v.Title)
	fmt.Fprintf(w, "Uploader: %s\n", v.Uploader)
	fmt.Fprintf(w, "Duration: %s\n", workflow.FormatDuration(v.DurationSeconds))
	fmt.Fprintf(w, "Quality:  %s\n", s.Options.Quality.Label())

	if badges := v.Badges(); len(badges) > 0 {
		fmt.Fprintf(w, "Notes:    %s\n", strings.Join(badges, ", "))
	}
}

func methodIndex(method string) int {
	for i, m := range workflow.Methods {
		if m == method {
			return i
		}
	}

	return 0
}
