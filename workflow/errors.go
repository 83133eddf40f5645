// ABOUTME: Sentinel errors for the download workflow
// ABOUTME: Callers match these with errors.Is

package workflow

import "errors"

var (
	// ErrEmptyURL is returned when a blank URL is submitted
	ErrEmptyURL = errors.New("please enter a URL")

	// ErrInvalidURL is returned when the URL is not a recognised video link
	ErrInvalidURL = errors.New("invalid YouTube URL")

	// ErrAllMethodsFailed is returned when every download method failed
	ErrAllMethodsFailed = errors.New("all download methods failed; the video may be private, removed or region locked")

	// ErrInvalidTransition is returned when an event does not apply to the current phase
	ErrInvalidTransition = errors.New("invalid transition")
)
