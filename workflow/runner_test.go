// ABOUTME: End-to-end scenarios for the sequential runner
// ABOUTME: Drives analysis, playlist decisions and downloads with deterministic fakes

package workflow

import (
	"context"
	"testing"
)

func newTestRunner(rnd Random) *Runner {
	r := NewRunner(&fakeClock{}, rnd)
	r.NewRunID = sequentialIDs()

	return r
}

func TestRunnerSingleVideoSucceeds(t *testing.T) {
	// 0.9 keeps the video unrestricted, 0.1 passes the first method
	r := newTestRunner(&scriptedRandom{floats: []float64{0.9, 0.1}})

	s, err := Reduce(newTestState(), SetURL{URL: "https://youtu.be/abc"})
	if err != nil {
		t.Fatal(err)
	}

	s, err = r.Analyze(context.Background(), s)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if s.Phase != PhaseDownloading {
		t.Fatalf("Expected downloading, got %s", s.Phase)
	}

	var observed []float64

	s, err = r.Download(context.Background(), s, func(st State) { observed = append(observed, st.Progress) })
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if s.Phase != PhaseSuccess || s.Progress != 100 {
		t.Errorf("Expected success at 100, got %s at %.1f", s.Phase, s.Progress)
	}

	for i := 1; i < len(observed); i++ {
		if observed[i] < observed[i-1] {
			t.Errorf("Progress decreased at %d: %.1f -> %.1f", i, observed[i-1], observed[i])
		}
	}

	// 100 only arrives with the success phase
	if last := observed[len(observed)-1]; last != 20 {
		t.Errorf("Expected last downloading progress 20, got %.1f", last)
	}
}

func TestRunnerInvalidURL(t *testing.T) {
	r := newTestRunner(&scriptedRandom{})

	s, err := Reduce(newTestState(), SetURL{URL: "not-a-url"})
	if err != nil {
		t.Fatal(err)
	}

	s, err = r.Analyze(context.Background(), s)
	if err != nil {
		t.Fatalf("Expected validation failure recorded in state, got error %v", err)
	}

	if s.Phase != PhaseIdle {
		t.Errorf("Expected idle, got %s", s.Phase)
	}

	if s.Video != nil {
		t.Error("Expected no video info")
	}

	if s.Err == "" || s.Notice == "" {
		t.Errorf("Expected error and notice set, got err=%q notice=%q", s.Err, s.Notice)
	}
}

func TestRunnerLargePlaylistConfirmed(t *testing.T) {
	// unrestricted draw, playlist count 5+20=25, then first method succeeds
	r := newTestRunner(&scriptedRandom{floats: []float64{0.9, 0.1}, ints: []int{20}})

	s, err := Reduce(newTestState(), SetURL{URL: "https://www.youtube.com/playlist?list=XYZ"})
	if err != nil {
		t.Fatal(err)
	}

	s, err = r.Analyze(context.Background(), s)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if s.Dialog != DialogPlaylist {
		t.Fatalf("Expected playlist dialog, got %d", s.Dialog)
	}

	if s.Video.Count() != 25 {
		t.Fatalf("Expected 25 videos, got %d", s.Video.Count())
	}

	s = mustReduce(t, s, ChoosePlaylist{Choice: ChoicePlaylist})
	if s.Dialog != DialogConfirmLarge {
		t.Fatalf("Expected confirmation dialog, got %d", s.Dialog)
	}

	s = mustReduce(t, s, ConfirmLarge{Accept: true})

	s, err = r.Download(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if s.Phase != PhaseSuccess {
		t.Errorf("Expected success, got %s", s.Phase)
	}
}

func TestRunnerExhaustion(t *testing.T) {
	// restricted draw, then every method fails
	r := newTestRunner(&scriptedRandom{floats: []float64{0.1, 0.99}})

	s, err := Reduce(newTestState(), SetURL{URL: "https://youtu.be/abc"})
	if err != nil {
		t.Fatal(err)
	}

	s, err = r.Analyze(context.Background(), s)
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if !s.Video.IsAgeRestricted {
		t.Fatal("Expected age restricted video")
	}

	s, err = r.Download(context.Background(), s, nil)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if s.Phase != PhaseError {
		t.Errorf("Expected error phase, got %s", s.Phase)
	}

	if s.Err != ErrAllMethodsFailed.Error() {
		t.Errorf("Expected fixed message, got %q", s.Err)
	}
}

func TestRunnerDownloadRequiresDownloadingPhase(t *testing.T) {
	r := newTestRunner(&scriptedRandom{})

	if _, err := r.Download(context.Background(), newTestState(), nil); err == nil {
		t.Error("Expected error when downloading from idle")
	}
}
