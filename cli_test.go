// ABOUTME: Tests for CLI mode and option resolution
// ABOUTME: Drives runCLI with an instant clock and scripted random draws

package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vidgrab/config"
	"vidgrab/workflow"
)

// scriptedRandom replays draws in order and repeats the last one
type scriptedRandom struct {
	floats []float64
	ints   []int
}

func (r *scriptedRandom) Float64() float64 {
	v := r.floats[0]
	if len(r.floats) > 1 {
		r.floats = r.floats[1:]
	}

	return v
}

func (r *scriptedRandom) IntN(n int) int {
	v := r.ints[0]
	if len(r.ints) > 1 {
		r.ints = r.ints[1:]
	}

	return min(v, n-1)
}

func testDeps(rnd workflow.Random, tty bool) cliDeps {
	return cliDeps{
		clock:    workflow.InstantClock{},
		rand:     rnd,
		newRunID: func() string { return "run-1" },
		cfg:      config.DefaultConfig(),
		tty:      tty,
		start:    func() time.Time { return time.Unix(0, 0) },
	}
}

func cliOpts(url string) RunOptions {
	return RunOptions{URL: url, Quality: workflow.QualityGood, DownloadPath: "/tmp/videos"}
}

func TestRunCLISuccess(t *testing.T) {
	var out bytes.Buffer

	// not age restricted, then fail twice and succeed on the third method
	rnd := &scriptedRandom{floats: []float64{0.5, 0.99, 0.99, 0.1}, ints: []int{0}}

	err := runCLI(context.Background(), cliOpts("https://youtu.be/abc"), testDeps(rnd, false), &out)
	if err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	got := out.String()

	for _, want := range []string{
		"Title:    Sample Video Title",
		"Uploader: Sample Channel",
		"Duration: 3:33",
		"Quality:  Good",
		"Trying method 1/5: " + workflow.Methods[0],
		"Trying method 3/5: " + workflow.Methods[2],
		"Download complete! Saved to /tmp/videos (via " + workflow.Methods[2] + ")",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, got)
		}
	}

	if strings.Contains(got, "Trying method 4/5") {
		t.Errorf("Expected run to stop after the third method, got:\n%s", got)
	}
}

func TestRunCLIFailure(t *testing.T) {
	var out bytes.Buffer

	rnd := &scriptedRandom{floats: []float64{0.95}, ints: []int{0}}

	err := runCLI(context.Background(), cliOpts("https://youtu.be/abc"), testDeps(rnd, false), &out)
	if !errors.Is(err, workflow.ErrAllMethodsFailed) {
		t.Fatalf("Expected ErrAllMethodsFailed, got %v", err)
	}

	if !strings.Contains(out.String(), "Download failed: "+workflow.ErrAllMethodsFailed.Error()) {
		t.Errorf("Expected failure banner, got:\n%s", out.String())
	}
}

func TestRunCLIInvalidURL(t *testing.T) {
	var out bytes.Buffer

	rnd := &scriptedRandom{floats: []float64{0.5}, ints: []int{0}}

	err := runCLI(context.Background(), cliOpts("not-a-url"), testDeps(rnd, false), &out)
	if err == nil || !strings.Contains(err.Error(), workflow.ErrInvalidURL.Error()) {
		t.Fatalf("Expected invalid URL error, got %v", err)
	}

	if strings.Contains(out.String(), "Title:") {
		t.Errorf("Expected no metadata for invalid URL, got:\n%s", out.String())
	}
}

func TestRunCLIBlankURL(t *testing.T) {
	var out bytes.Buffer

	rnd := &scriptedRandom{floats: []float64{0.5}, ints: []int{0}}

	err := runCLI(context.Background(), cliOpts("   "), testDeps(rnd, false), &out)
	if !errors.Is(err, workflow.ErrEmptyURL) {
		t.Fatalf("Expected ErrEmptyURL, got %v", err)
	}
}

func TestRunCLIPlaylist(t *testing.T) {
	const url = "https://www.youtube.com/watch?v=abc&list=PL1"

	tests := []struct {
		name      string
		choice    workflow.PlaylistChoice
		count     int // IntN draw, count is draw+5
		assumeYes bool
		wantErr   error
		wantOut   string
	}{
		{name: "defaults to single video", count: 40, wantOut: "downloading this video only"},
		{name: "small playlist", choice: workflow.ChoicePlaylist, count: 5, wantOut: "Download complete"},
		{name: "large playlist confirmed", choice: workflow.ChoicePlaylist, count: 40, assumeYes: true, wantOut: "Download complete"},
		{name: "large playlist not confirmed", choice: workflow.ChoicePlaylist, count: 40, wantErr: errNotConfirmed, wantOut: "This playlist has 45 videos"},
		{name: "cancelled", choice: workflow.ChoiceCancel, count: 5, wantErr: errCancelled, wantOut: "Download cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer

			// age restricted, first method succeeds
			rnd := &scriptedRandom{floats: []float64{0.1}, ints: []int{tt.count}}

			opts := cliOpts(url)
			opts.Playlist = tt.choice
			opts.AssumeYes = tt.assumeYes

			err := runCLI(context.Background(), opts, testDeps(rnd, false), &out)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Expected error %v, got %v", tt.wantErr, err)
			}

			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.wantOut, out.String())
			}

			if !strings.Contains(out.String(), "Age restricted") {
				t.Errorf("Expected badges in output, got:\n%s", out.String())
			}
		})
	}
}

func TestRunCLITerminalStatusLine(t *testing.T) {
	var out bytes.Buffer

	rnd := &scriptedRandom{floats: []float64{0.1}, ints: []int{0}}

	if err := runCLI(context.Background(), cliOpts("https://youtu.be/abc"), testDeps(rnd, true), &out); err != nil {
		t.Fatalf("Expected success, got %v", err)
	}

	got := out.String()

	// the first method ends at 20%, completion is reported by the banner
	if !strings.Contains(got, "\r") || !strings.Contains(got, "20.0%") || strings.Contains(got, "100.0%") {
		t.Errorf("Expected overwriting status line stopping at 20%%, got %q", got)
	}

	if strings.Contains(got, "Trying method") {
		t.Errorf("Expected no per-method lines on a terminal, got %q", got)
	}
}

func TestRunCLICancelled(t *testing.T) {
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rnd := &scriptedRandom{floats: []float64{0.5}, ints: []int{0}}

	err := runCLI(ctx, cliOpts("https://youtu.be/abc"), testDeps(rnd, false), &out)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestResolveOptions(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Quality = "standard"
	cfg.DownloadPath = "/srv/media"

	opts, err := resolveOptions(RunOptions{}, "", "", cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if opts.Quality != workflow.QualityStandard || opts.DownloadPath != "/srv/media" || opts.Playlist != workflow.ChoiceNone {
		t.Errorf("Expected config defaults, got %+v", opts)
	}

	opts, err = resolveOptions(RunOptions{DownloadPath: "/tmp"}, "best", "playlist", cfg)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if opts.Quality != workflow.QualityBest || opts.DownloadPath != "/tmp" || opts.Playlist != workflow.ChoicePlaylist {
		t.Errorf("Expected flag values, got %+v", opts)
	}

	if _, err := resolveOptions(RunOptions{}, "4k", "", cfg); err == nil {
		t.Error("Expected error for unknown quality")
	}

	if _, err := resolveOptions(RunOptions{}, "", "all", cfg); err == nil {
		t.Error("Expected error for unknown playlist choice")
	}
}
