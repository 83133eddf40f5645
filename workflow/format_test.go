// ABOUTME: Tests for workflow display formatting
// ABOUTME: Covers durations, badges, truncation and quality parsing

package workflow

import (
	"slices"
	"testing"
	"unicode/utf8"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		seconds int
		want    string
	}{
		{0, "0:00"},
		{5, "0:05"},
		{60, "1:00"},
		{213, "3:33"},
		{3725, "62:05"},
		{-3, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.seconds); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestBadges(t *testing.T) {
	if b := (VideoInfo{}).Badges(); len(b) != 0 {
		t.Errorf("Expected no badges, got %v", b)
	}

	info := VideoInfo{IsAgeRestricted: true, IsPlaylist: true, PlaylistCount: intPtr(12)}
	want := []string{"Age restricted", "Playlist (12 videos)"}

	if got := info.Badges(); !slices.Equal(got, want) {
		t.Errorf("Expected %v, got %v", want, got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"https://youtu.be/abc", 10, "https:/..."},
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"abc", 0, ""},
		{"https://youtu.be/ñññññ", 20, "https://youtu.be/..."},
		{"https://ñ.example/ñññññ", 12, "https://ñ..."},
		{"日本語のタイトル", 8, "日本語のタイトル"},
		{"日本語のタイトルです", 8, "日本語のタ..."},
	}

	for _, tt := range tests {
		got := Truncate(tt.in, tt.maxLen)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}

		if !utf8.ValidString(got) || utf8.RuneCountInString(got) > tt.maxLen {
			t.Errorf("Truncate(%q, %d) returned invalid or long %q", tt.in, tt.maxLen, got)
		}
	}
}

func TestParseQuality(t *testing.T) {
	for _, q := range Qualities {
		got, err := ParseQuality(string(q))
		if err != nil || got != q {
			t.Errorf("ParseQuality(%q) = %q, %v", q, got, err)
		}
	}

	if _, err := ParseQuality("ultra"); err == nil {
		t.Error("Expected error for unknown quality")
	}
}
