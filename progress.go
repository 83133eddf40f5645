// ABOUTME: Progress tracking for trials mode
// ABOUTME: Counts finished trials across workers and reports throughput at a fixed interval

package main

import (
	"sync"
	"time"
)

const trialReportInterval = 500 * time.Millisecond

// trialTracker counts finished trials; safe for concurrent use
type trialTracker struct {
	mu         sync.Mutex
	total      int
	done       int
	start      time.Time
	lastReport time.Time
	interval   time.Duration
	now        func() time.Time
	report     func(done, total int, perSec float64)
}

func newTrialTracker(total int, now func() time.Time, report func(done, total int, perSec float64)) *trialTracker {
	start := now()

	return &trialTracker{
		total:      total,
		start:      start,
		lastReport: start,
		interval:   trialReportInterval,
		now:        now,
		report:     report,
	}
}

// finish records one finished trial and reports when the interval has passed
// or the last trial is done
func (tt *trialTracker) finish() {
	tt.mu.Lock()
	defer tt.mu.Unlock()

	tt.done++

	now := tt.now()
	if tt.done < tt.total && now.Sub(tt.lastReport) < tt.interval {
		return
	}

	tt.lastReport = now

	if tt.report == nil {
		return
	}

	perSec := 0.0
	if elapsed := now.Sub(tt.start).Seconds(); elapsed > 0 {
		perSec = float64(tt.done) / elapsed
	}

	tt.report(tt.done, tt.total, perSec)
}
