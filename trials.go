// ABOUTME: Trials mode runs many simulated downloads in parallel on an instant clock
// ABOUTME: Reports how often each fallback method succeeds against the expected odds

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"vidgrab/pool"
	"vidgrab/workflow"
)

const trialURL = "https://www.youtube.com/watch?v=trial"

// OutcomeStats aggregates runs of one kind (age restricted or not)
type OutcomeStats struct {
	Runs      int
	Successes int
	ByMethod  []int // successes that finished on each method index
	Attempts  int   // methods tried across all runs
}

// TrialStats is the merged result of a trials run
type TrialStats struct {
	Trials      int
	Interrupted int
	Normal      OutcomeStats
	Restricted  OutcomeStats
}

func newOutcomeStats() OutcomeStats {
	return OutcomeStats{ByMethod: make([]int, len(workflow.Methods))}
}

func (o *OutcomeStats) record(s workflow.State) {
	o.Runs++

	if s.Phase != workflow.PhaseSuccess {
		o.Attempts += len(workflow.Methods)

		return
	}

	i := methodIndex(s.Method)
	o.Successes++
	o.ByMethod[i]++
	o.Attempts += i + 1
}

func (o *OutcomeStats) merge(other OutcomeStats) {
	o.Runs += other.Runs
	o.Successes += other.Successes
	o.Attempts += other.Attempts

	for i, n := range other.ByMethod {
		o.ByMethod[i] += n
	}
}

// ExpectedShare is the probability that a run succeeds exactly on method i
func ExpectedShare(i int, ageRestricted bool) float64 {
	total := len(workflow.Methods)
	share := workflow.SuccessProbability(i, total, ageRestricted)

	for k := range i {
		share *= 1 - workflow.SuccessProbability(k, total, ageRestricted)
	}

	return share
}

// ExpectedFailure is the probability that every method fails
func ExpectedFailure(ageRestricted bool) float64 {
	fail := 1.0
	for k := range workflow.Methods {
		fail *= 1 - workflow.SuccessProbability(k, len(workflow.Methods), ageRestricted)
	}

	return fail
}

// trialSeed derives a per-trial seed; zero keeps every trial entropy seeded
func trialSeed(seed uint64, i int) uint64 {
	if seed == 0 {
		return 0
	}

	return seed + uint64(i)
}

// newTrialPool sizes the pool to the CPUs when workers is not positive
func newTrialPool(workers int) *pool.WorkerPool {
	if workers <= 0 {
		return pool.NewWorkerPool(runtime.NumCPU() * 2)
	}

	return pool.NewWorkerPoolSize(workers, workers*2)
}

// runTrials runs n independent workflows, each with its own random source,
// and merges their outcomes under a mutex
func runTrials(ctx context.Context, n int, seed uint64, workers int, tracker *trialTracker) TrialStats {
	stats := TrialStats{Trials: n, Normal: newOutcomeStats(), Restricted: newOutcomeStats()}

	var mu sync.Mutex

	wp := newTrialPool(workers)
	defer wp.Close()

	debugf("[TRIALS] Running %d trials on %d workers", n, wp.Workers())

	for i := range n {
		wp.Submit(func() {
			s, err := runTrial(ctx, trialSeed(seed, i))

			mu.Lock()
			switch {
			case err != nil:
				stats.Interrupted++
			case s.Video != nil && s.Video.IsAgeRestricted:
				stats.Restricted.record(s)
			default:
				stats.Normal.record(s)
			}
			mu.Unlock()

			if tracker != nil {
				tracker.finish()
			}
		})
	}

	wp.Wait()

	return stats
}

// runTrial drives one workflow from submit to a terminal phase
func runTrial(ctx context.Context, seed uint64) (workflow.State, error) {
	if err := ctx.Err(); err != nil {
		return workflow.State{}, err
	}

	runner := workflow.NewRunner(workflow.InstantClock{}, workflow.NewRandom(seed))
	runner.NewRunID = func() string { return "trial" }

	s := workflow.NewState(workflow.QualityBest, os.TempDir(), 0)
	s.URL = trialURL

	s, err := runner.Analyze(ctx, s)
	if err != nil {
		return s, err
	}

	return runner.Download(ctx, s, nil)
}

// RunTrials executes trials mode and prints the report to stdout
func RunTrials(n int, seed uint64) error {
	if n <= 0 {
		return fmt.Errorf("trials must be positive, got %d", n)
	}

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

	var tracker *trialTracker

	if isTTY(os.Stdout) {
		tracker = newTrialTracker(n, time.Now, func(done, total int, perSec float64) {
			fmt.Printf("\r%d/%d trials (%.0f/s)\033[K", done, total, perSec)
		})
	}

	started := time.Now()
	stats := runTrials(ctx, n, seed, 0, tracker)

	if tracker != nil {
		fmt.Print("\r\033[K")
	}

	debugf("[TRIALS] %d trials in %v (%d interrupted)", n, time.Since(started), stats.Interrupted)

	return printTrials(os.Stdout, stats)
}

// printTrials writes the per-method table for both kinds of video
func printTrials(w io.Writer, stats TrialStats) error {
	fmt.Fprintf(w, "Trials: %d (normal %d, age restricted %d",
		stats.Trials, stats.Normal.Runs, stats.Restricted.Runs)

	if stats.Interrupted > 0 {
		fmt.Fprintf(w, ", interrupted %d", stats.Interrupted)
	}

	fmt.Fprintln(w, ")")

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "#\tMethod\tNormal\tExpected\tRestricted\tExpected")
	fmt.Fprintln(tw, "-\t------\t------\t--------\t----------\t--------")

	for i, method := range workflow.Methods {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f%%\t%s\t%.1f%%\n",
			i+1,
			method,
			formatPercent(stats.Normal.ByMethod[i], stats.Normal.Runs),
			ExpectedShare(i, false)*100,
			formatPercent(stats.Restricted.ByMethod[i], stats.Restricted.Runs),
			ExpectedShare(i, true)*100,
		)
	}

	fmt.Fprintf(tw, "-\tAll methods failed\t%s\t%.1f%%\t%s\t%.1f%%\n",
		formatPercent(stats.Normal.Runs-stats.Normal.Successes, stats.Normal.Runs),
		ExpectedFailure(false)*100,
		formatPercent(stats.Restricted.Runs-stats.Restricted.Successes, stats.Restricted.Runs),
		ExpectedFailure(true)*100,
	)

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write trials report: %w", err)
	}

	return nil
}
