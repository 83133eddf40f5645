// ABOUTME: Simulated URL analysis producing fabricated video metadata
// ABOUTME: Validates the URL, waits a fixed delay, then draws random attributes

package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Analysis constants
const (
	DefaultAnalyzeDelay = 2 * time.Second
	ageRestrictedChance = 0.3
	minPlaylistCount    = 5
	playlistCountSpread = 50 // counts fall in [5, 54]
	playlistMarker      = "list="
	placeholderTitle    = "Sample Video Title"
	placeholderUploader = "Sample Channel"
	placeholderDuration = 213
)

// acceptedHosts are the substrings a URL must contain to pass validation
var acceptedHosts = []string{"youtube.com", "youtu.be"}

// Analyzer fabricates VideoInfo for a URL
type Analyzer struct {
	Clock Clock
	Rand  Random
	Delay time.Duration
}

// NewAnalyzer creates an analyzer with the default delay
func NewAnalyzer(clock Clock, rnd Random) *Analyzer {
	return &Analyzer{Clock: clock, Rand: rnd, Delay: DefaultAnalyzeDelay}
}

// ValidateURL checks that url is non-empty and names an accepted host
func ValidateURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	for _, host := range acceptedHosts {
		if strings.Contains(url, host) {
			return nil
		}
	}

	return fmt.Errorf("%w: %q", ErrInvalidURL, url)
}

// IsPlaylistURL reports whether url carries the playlist query marker
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, playlistMarker)
}

// Analyze validates url, waits the analysis delay and returns fabricated metadata.
// Validation happens before the delay so a bad URL fails immediately.
func (a *Analyzer) Analyze(ctx context.Context, url string) (VideoInfo, error) {
	if err := ValidateURL(url); err != nil {
		return VideoInfo{}, err
	}

	if err := a.Clock.Sleep(ctx, a.Delay); err != nil {
		return VideoInfo{}, fmt.Errorf("analysis interrupted: %w", err)
	}

	info := VideoInfo{
		Title:           placeholderTitle,
		Uploader:        placeholderUploader,
		DurationSeconds: placeholderDuration,
		IsAgeRestricted: a.Rand.Float64() < ageRestrictedChance,
		IsPlaylist:      IsPlaylistURL(url),
	}

	if info.IsPlaylist {
		count := minPlaylistCount + a.Rand.IntN(playlistCountSpread)
		info.PlaylistCount = &count
	}

	return info, nil
}
