// ABOUTME: Display formatting for workflow values
// ABOUTME: Durations as M:SS, badge strings for video metadata and rune-safe truncation

package workflow

import "fmt"

// FormatDuration renders seconds as M:SS (minutes are not wrapped into hours)
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}

	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// BadgeAgeRestricted is the badge for videos that need an age-gated method
const BadgeAgeRestricted = "Age restricted"

// Badges returns the labels shown next to the video title
func (v VideoInfo) Badges() []string {
	var badges []string

	if v.IsAgeRestricted {
		badges = append(badges, BadgeAgeRestricted)
	}

	if v.IsPlaylist {
		badges = append(badges, fmt.Sprintf("Playlist (%d videos)", v.Count()))
	}

	return badges
}

// Truncate shortens s to at most maxLen runes, ending in "..." when cut
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}

	if maxLen <= 3 {
		return string(runes[:max(maxLen, 0)])
	}

	return string(runes[:maxLen-3]) + "..."
}
