package store

import "testing"

func TestBeatmapRendering(t *testing.T) {
	b := &Beatmap{
		ID:      1917158,
		Artist:  "FELT",
		Title:   "Day after",
		Version: "Dream",
	}

	if got, want := b.FullName(), "FELT - Day after [Dream]"; got != want {
		t.Errorf("FullName() = %q, want %q", got, want)
	}
	if got, want := b.URL(), "https://osu.ppy.sh/b/1917158"; got != want {
		t.Errorf("URL() = %q, want %q", got, want)
	}
}
