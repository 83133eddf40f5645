// ABOUTME: Injectable time and randomness sources for simulated work
// ABOUTME: Real implementations wrap time and math/rand/v2; tests supply fakes

package workflow

import (
	"context"
	"math/rand/v2"
	"time"
)

// Clock waits for simulated work to finish
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// Random supplies the random draws behind the simulation
type Random interface {
	Float64() float64
	IntN(n int) int
}

// RealClock sleeps on the wall clock
type RealClock struct{}

// Sleep blocks for d or until ctx is done
func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// InstantClock returns immediately; used by trials mode
type InstantClock struct{}

// Sleep returns ctx.Err() without waiting
func (InstantClock) Sleep(ctx context.Context, _ time.Duration) error {
	return ctx.Err()
}

// NewRandom returns a Random seeded with seed, or from runtime entropy when seed is 0
func NewRandom(seed uint64) Random {
	if seed == 0 {
		return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
