// ABOUTME: Tests for trials mode statistics and report output
// ABOUTME: Runs seeded trials in the worker pool and checks totals, odds and table shape

package main

import (
	"bytes"
	"context"
	"math"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"vidgrab/workflow"
)

func TestExpectedShareSumsToOne(t *testing.T) {
	for _, restricted := range []bool{false, true} {
		total := ExpectedFailure(restricted)
		for i := range workflow.Methods {
			total += ExpectedShare(i, restricted)
		}

		if math.Abs(total-1) > 1e-9 {
			t.Errorf("Expected shares to sum to 1 (restricted=%v), got %v", restricted, total)
		}
	}

	tests := []struct {
		method     int
		restricted bool
		want       float64
	}{
		{0, false, 0.9},
		{1, false, 0.09},
		{0, true, 0.16},
		{1, true, 0.84 * 0.32},
	}

	for _, tt := range tests {
		if got := ExpectedShare(tt.method, tt.restricted); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Expected share %v for method %d (restricted=%v), got %v", tt.want, tt.method, tt.restricted, got)
		}
	}
}

func TestRunTrialsTotals(t *testing.T) {
	const n = 2000

	stats := runTrials(context.Background(), n, 7, 4, nil)

	if stats.Trials != n || stats.Interrupted != 0 {
		t.Fatalf("Expected %d finished trials, got %+v", n, stats)
	}

	if stats.Normal.Runs+stats.Restricted.Runs != n {
		t.Errorf("Expected runs to add up to %d, got %d + %d", n, stats.Normal.Runs, stats.Restricted.Runs)
	}

	for _, o := range []OutcomeStats{stats.Normal, stats.Restricted} {
		sum := 0
		for _, c := range o.ByMethod {
			sum += c
		}

		if sum != o.Successes {
			t.Errorf("Expected per-method successes to add up to %d, got %d", o.Successes, sum)
		}

		if o.Attempts < o.Runs || o.Attempts > o.Runs*len(workflow.Methods) {
			t.Errorf("Expected attempts within [%d, %d], got %d", o.Runs, o.Runs*len(workflow.Methods), o.Attempts)
		}
	}

	// roughly 30% of videos are age restricted
	restrictedShare := float64(stats.Restricted.Runs) / n
	if restrictedShare < 0.25 || restrictedShare > 0.35 {
		t.Errorf("Expected about 30%% restricted runs, got %.3f", restrictedShare)
	}

	// normal videos succeed on the first method about 90% of the time
	normalFirst := float64(stats.Normal.ByMethod[0]) / float64(stats.Normal.Runs)
	if normalFirst < 0.86 || normalFirst > 0.94 {
		t.Errorf("Expected about 90%% first-method normal successes, got %.3f", normalFirst)
	}

	// restricted videos only manage about 16% on the first method
	restrictedFirst := float64(stats.Restricted.ByMethod[0]) / float64(stats.Restricted.Runs)
	if restrictedFirst < 0.11 || restrictedFirst > 0.21 {
		t.Errorf("Expected about 16%% first-method restricted successes, got %.3f", restrictedFirst)
	}
}

func TestRunTrialsSeededIsReproducible(t *testing.T) {
	a := runTrials(context.Background(), 300, 99, 3, nil)
	b := runTrials(context.Background(), 300, 99, 1, nil)

	if a.Normal.Runs != b.Normal.Runs || a.Normal.Successes != b.Normal.Successes || a.Restricted.Attempts != b.Restricted.Attempts {
		t.Errorf("Expected identical stats for the same seed, got %+v and %+v", a, b)
	}
}

func TestNewTrialPoolSizing(t *testing.T) {
	tests := []struct {
		workers int
		want    int
	}{
		{0, runtime.NumCPU()},
		{-1, runtime.NumCPU()},
		{3, 3},
	}

	for _, tt := range tests {
		wp := newTrialPool(tt.workers)
		if got := wp.Workers(); got != tt.want {
			t.Errorf("newTrialPool(%d): expected %d workers, got %d", tt.workers, tt.want, got)
		}

		wp.Close()
	}
}

func TestRunTrialsDefaultWorkers(t *testing.T) {
	stats := runTrials(context.Background(), 40, 3, 0, nil)

	if stats.Normal.Runs+stats.Restricted.Runs != 40 || stats.Interrupted != 0 {
		t.Errorf("Expected 40 finished runs on the CPU sized pool, got %+v", stats)
	}
}

func TestRunTrialsCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := runTrials(ctx, 50, 1, 2, nil)

	if stats.Interrupted != 50 || stats.Normal.Runs+stats.Restricted.Runs != 0 {
		t.Errorf("Expected every trial interrupted, got %+v", stats)
	}
}

func TestRunTrialsReportsProgress(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
	)

	tracker := newTrialTracker(20, time.Now, func(done, _ int, _ float64) {
		mu.Lock()
		calls = append(calls, done)
		mu.Unlock()
	})

	runTrials(context.Background(), 20, 5, 2, tracker)

	mu.Lock()
	defer mu.Unlock()

	if len(calls) == 0 || calls[len(calls)-1] != 20 {
		t.Errorf("Expected a final report at 20, got %v", calls)
	}
}

func TestPrintTrials(t *testing.T) {
	stats := TrialStats{
		Trials:     10,
		Normal:     OutcomeStats{Runs: 8, Successes: 6, ByMethod: []int{2, 2, 1, 1, 0}, Attempts: 30},
		Restricted: OutcomeStats{Runs: 2, Successes: 2, ByMethod: []int{2, 0, 0, 0, 0}, Attempts: 2},
	}

	var out bytes.Buffer
	if err := printTrials(&out, stats); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")

	// summary, header, separator, one row per method, failure row
	if want := 3 + len(workflow.Methods) + 1; len(lines) != want {
		t.Fatalf("Expected %d lines, got %d:\n%s", want, len(lines), out.String())
	}

	if lines[0] != "Trials: 10 (normal 8, age restricted 2)" {
		t.Errorf("Unexpected summary line %q", lines[0])
	}

	if !strings.Contains(lines[3], workflow.Methods[0]) || !strings.Contains(lines[3], "25.0%") || !strings.Contains(lines[3], "100.0%") {
		t.Errorf("Unexpected first method row %q", lines[3])
	}

	if last := lines[len(lines)-1]; !strings.Contains(last, "All methods failed") || !strings.Contains(last, "25.0%") {
		t.Errorf("Unexpected failure row %q", last)
	}
}
