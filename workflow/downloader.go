// ABOUTME: Simulated multi-method download ladder
// ABOUTME: Animates progress per method and draws success with method-dependent odds

package workflow

import (
	"context"
	"fmt"
	"time"
)

// Download ladder constants
const (
	DefaultStepDelay       = 100 * time.Millisecond
	stepsPerMethod         = 10 // inner loop visits 0,10,...,100
	stepSize               = 10
	unrestrictedSuccess    = 0.9
	restrictedSuccessScale = 0.8
)

// Methods is the ordered download ladder
var Methods = []string{
	"Standard extraction",
	"Alternate player client",
	"Embedded player",
	"Age-gate bypass",
	"Authenticated fallback",
}

// Progress is a single progress report from the downloader
type Progress struct {
	Value       float64 // overall progress in [0,100]
	Method      string
	MethodIndex int
}

// Result describes how a finished run ended
type Result struct {
	Method      string
	MethodIndex int
	Attempts    int // number of methods tried, including the successful one
}

// Downloader runs the simulated download ladder
type Downloader struct {
	Clock     Clock
	Rand      Random
	StepDelay time.Duration
	Methods   []string
}

// NewDownloader creates a downloader with the default ladder and step delay
func NewDownloader(clock Clock, rnd Random) *Downloader {
	return &Downloader{Clock: clock, Rand: rnd, StepDelay: DefaultStepDelay, Methods: Methods}
}

// SuccessProbability returns the chance that method index i succeeds out of total methods
func SuccessProbability(i, total int, ageRestricted bool) float64 {
	if !ageRestricted {
		return unrestrictedSuccess
	}

	return float64(i+1) / float64(total) * restrictedSuccessScale
}

// MethodProgress maps inner step value j of method i to overall progress
func MethodProgress(i, j, total int) float64 {
	return float64(i*100+j) / float64(total)
}

// Run walks the ladder until a method succeeds or all fail. report is called
// for every step in order. Reaching 100 is left to the success event.
func (d *Downloader) Run(ctx context.Context, info VideoInfo, report func(Progress)) (Result, error) {
	total := len(d.Methods)

	for i, method := range d.Methods {
		for step := 0; step <= stepsPerMethod; step++ {
			report(Progress{
				Value:       MethodProgress(i, step*stepSize, total),
				Method:      method,
				MethodIndex: i,
			})

			if err := d.Clock.Sleep(ctx, d.StepDelay); err != nil {
				return Result{}, fmt.Errorf("download interrupted during %s: %w", method, err)
			}
		}

		if d.Rand.Float64() < SuccessProbability(i, total, info.IsAgeRestricted) {
			return Result{Method: method, MethodIndex: i, Attempts: i + 1}, nil
		}
	}

	return Result{Attempts: total}, ErrAllMethodsFailed
}
