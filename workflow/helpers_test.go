// ABOUTME: Deterministic fakes for clock and randomness used across workflow tests
// ABOUTME: Fake clock records requested delays, scripted random replays fixed draws

package workflow

import (
	"context"
	"strconv"
	"time"
)

// fakeClock returns immediately and records every requested delay
type fakeClock struct {
	sleeps []time.Duration
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.sleeps = append(c.sleeps, d)

	return ctx.Err()
}

func (c *fakeClock) total() time.Duration {
	var sum time.Duration
	for _, d := range c.sleeps {
		sum += d
	}

	return sum
}

// scriptedRandom replays floats and ints in order, repeating the last value when exhausted
type scriptedRandom struct {
	floats []float64
	ints   []int
	fi, ii int
}

func (r *scriptedRandom) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}

	v := r.floats[min(r.fi, len(r.floats)-1)]
	r.fi++

	return v
}

func (r *scriptedRandom) IntN(n int) int {
	if len(r.ints) == 0 {
		return 0
	}

	v := r.ints[min(r.ii, len(r.ints)-1)]
	r.ii++

	if v >= n {
		return n - 1
	}

	return v
}

// sequentialIDs returns a run ID generator producing run-1, run-2, ...
func sequentialIDs() func() string {
	n := 0

	return func() string {
		n++

		return "run-" + strconv.Itoa(n)
	}
}

func intPtr(v int) *int {
	return &v
}
