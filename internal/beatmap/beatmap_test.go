package beatmap

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/store"
)

// memStore keeps beatmaps in memory and records upserts.
type memStore struct {
	byMD5    map[string]*store.Beatmap
	byID     map[int32]*store.Beatmap
	bySet    map[int32][]store.Beatmap
	upserted []string
}

func newMemStore() *memStore {
	return &memStore{
		byMD5: make(map[string]*store.Beatmap),
		byID:  make(map[int32]*store.Beatmap),
		bySet: make(map[int32][]store.Beatmap),
	}
}

func (m *memStore) BeatmapByMD5(ctx context.Context, md5 string) (*store.Beatmap, error) {
	return m.byMD5[md5], nil
}

func (m *memStore) BeatmapByID(ctx context.Context, id int32) (*store.Beatmap, error) {
	return m.byID[id], nil
}

func (m *memStore) BeatmapsBySetID(ctx context.Context, setID int32) ([]store.Beatmap, error) {
	return m.bySet[setID], nil
}

func (m *memStore) UpsertBeatmap(ctx context.Context, b *store.Beatmap) error {
	m.upserted = append(m.upserted, b.MD5)
	return nil
}

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// newTestFetcher builds a fetcher whose HTTP client answers from respond
// instead of the network, counting the calls.
func newTestFetcher(st Store, calls *int, respond func(req *http.Request) (int, string)) *Fetcher {
	f := NewFetcher(st, "testkey")
	f.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		*calls++
		status, body := respond(req)
		return &http.Response{
			StatusCode: status,
			Status:     http.StatusText(status),
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	})}
	return f
}

const dayAfterJSON = `[{
	"beatmap_id": "1917158", "beatmapset_id": "916990",
	"file_md5": "c6b24a324a867105bbf9b36fca900a43",
	"artist": "FELT", "title": "Day after", "version": "Dream", "creator": "xi",
	"total_length": "254", "max_combo": "1911", "approved": "1", "mode": "0",
	"bpm": "175", "diff_size": "4", "diff_overall": "9", "diff_approach": "9.3",
	"diff_drain": "5.5", "difficultyrating": "5.87215",
	"last_update": "2019-03-07 18:54:22"
}]`

func TestToBeatmap(t *testing.T) {
	doc := apiBeatmap{
		BeatmapID:    "1917158",
		BeatmapsetID: "916990",
		FileMD5:      "c6b24a324a867105bbf9b36fca900a43",
		Artist:       "FELT",
		Title:        "Day after",
		Version:      "Dream",
		Creator:      "xi",
		TotalLength:  "254",
		MaxCombo:     "1911",
		Approved:     "1",
		Mode:         "0",
		BPM:          "175",
		DiffSize:     "4",
		DiffOverall:  "9",
		DiffApproach: "9.3",
		DiffDrain:    "5.5",
		Difficulty:   "5.87215",
		LastUpdate:   "2019-03-07 18:54:22",
	}

	b, err := doc.toBeatmap()
	if err != nil {
		t.Fatalf("toBeatmap() error = %v", err)
	}

	if b.ID != 1917158 || b.SetID != 916990 {
		t.Errorf("ids = %d/%d", b.ID, b.SetID)
	}
	if b.Status != model.StatusRanked {
		t.Errorf("status = %v, want ranked", b.Status)
	}
	if !b.Frozen {
		t.Error("ranked maps should arrive frozen")
	}
	if b.TotalLength != 254 || b.MaxCombo != 1911 {
		t.Errorf("length/combo = %d/%d", b.TotalLength, b.MaxCombo)
	}
	if b.AR != 9.3 || b.HP != 5.5 || b.BPM != 175 {
		t.Errorf("difficulty values = %v/%v/%v", b.AR, b.HP, b.BPM)
	}
	if want := "FELT - Day after (xi) [Dream].osu"; b.Filename != want {
		t.Errorf("filename = %q, want %q", b.Filename, want)
	}
}

func TestToBeatmapStatuses(t *testing.T) {
	tests := []struct {
		approved string
		status   model.RankedStatus
		frozen   bool
	}{
		{"1", model.StatusRanked, true},
		{"2", model.StatusApproved, true},
		{"3", model.StatusQualified, false},
		{"4", model.StatusLoved, true},
		{"0", model.StatusPending, false},
		{"-2", model.StatusPending, false},
	}

	for _, tt := range tests {
		doc := apiBeatmap{
			BeatmapID: "1", BeatmapsetID: "1", TotalLength: "60",
			Approved: tt.approved, Mode: "0",
		}
		b, err := doc.toBeatmap()
		if err != nil {
			t.Fatalf("toBeatmap(approved=%s) error = %v", tt.approved, err)
		}
		if b.Status != tt.status || b.Frozen != tt.frozen {
			t.Errorf("approved=%s: status = %v frozen = %v, want %v/%v",
				tt.approved, b.Status, b.Frozen, tt.status, tt.frozen)
		}
	}
}

func TestToBeatmapRejectsBadNumbers(t *testing.T) {
	doc := apiBeatmap{
		BeatmapID: "soon", BeatmapsetID: "1", TotalLength: "60",
		Approved: "0", Mode: "0",
	}
	if _, err := doc.toBeatmap(); err == nil {
		t.Error("toBeatmap() accepted a non-numeric id")
	}
}

func TestToBeatmapNullNumerics(t *testing.T) {
	// max_combo and bpm come back null for some converts; the string
	// fields stay empty and read as zero.
	doc := apiBeatmap{
		BeatmapID: "1", BeatmapsetID: "1", TotalLength: "60",
		Approved: "0", Mode: "3",
	}
	b, err := doc.toBeatmap()
	if err != nil {
		t.Fatalf("toBeatmap() error = %v", err)
	}
	if b.MaxCombo != 0 || b.BPM != 0 || b.Stars != 0 {
		t.Errorf("absent numerics = %d/%v/%v, want zeroes", b.MaxCombo, b.BPM, b.Stars)
	}
}

func TestFilenameSanitized(t *testing.T) {
	doc := apiBeatmap{
		BeatmapID: "1", BeatmapsetID: "1", TotalLength: "60",
		Approved: "0", Mode: "0",
		Artist:  `who?`,
		Title:   `a:b\c/d*e<f>g"h|i`,
		Creator: "mapper", Version: "Insane",
	}
	b, err := doc.toBeatmap()
	if err != nil {
		t.Fatalf("toBeatmap() error = %v", err)
	}
	if want := "who - abcdefghi (mapper) [Insane].osu"; b.Filename != want {
		t.Errorf("filename = %q, want %q", b.Filename, want)
	}
}

func TestByMD5DatabaseFirst(t *testing.T) {
	st := newMemStore()
	st.byMD5["c6b24a324a867105bbf9b36fca900a43"] = &store.Beatmap{
		MD5: "c6b24a324a867105bbf9b36fca900a43", ID: 1917158,
	}

	calls := 0
	f := newTestFetcher(st, &calls, func(*http.Request) (int, string) {
		return http.StatusOK, "[]"
	})

	b, err := f.ByMD5(context.Background(), "c6b24a324a867105bbf9b36fca900a43")
	if err != nil {
		t.Fatalf("ByMD5() error = %v", err)
	}
	if b == nil || b.ID != 1917158 {
		t.Fatalf("ByMD5() = %+v", b)
	}
	if calls != 0 {
		t.Errorf("API calls = %d, want 0", calls)
	}
}

func TestByMD5APIFallback(t *testing.T) {
	st := newMemStore()
	calls := 0
	f := newTestFetcher(st, &calls, func(req *http.Request) (int, string) {
		q := req.URL.Query()
		if q.Get("k") != "testkey" {
			t.Errorf("api key = %q", q.Get("k"))
		}
		if q.Get("h") != "c6b24a324a867105bbf9b36fca900a43" {
			t.Errorf("hash param = %q", q.Get("h"))
		}
		return http.StatusOK, dayAfterJSON
	})

	b, err := f.ByMD5(context.Background(), "c6b24a324a867105bbf9b36fca900a43")
	if err != nil {
		t.Fatalf("ByMD5() error = %v", err)
	}
	if b == nil || b.ID != 1917158 || b.Artist != "FELT" {
		t.Fatalf("ByMD5() = %+v", b)
	}
	if calls != 1 {
		t.Errorf("API calls = %d, want 1", calls)
	}
	if len(st.upserted) != 1 || st.upserted[0] != b.MD5 {
		t.Errorf("upserted = %v", st.upserted)
	}
}

func TestByIDMiss(t *testing.T) {
	st := newMemStore()
	calls := 0
	f := newTestFetcher(st, &calls, func(req *http.Request) (int, string) {
		if got := req.URL.Query().Get("b"); got != "404918" {
			t.Errorf("map param = %q", got)
		}
		return http.StatusOK, "[]"
	})

	b, err := f.ByID(context.Background(), 404918)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if b != nil {
		t.Errorf("ByID() = %+v, want nil", b)
	}
}

func TestBySetIDFetchesWholeSet(t *testing.T) {
	st := newMemStore()
	const setJSON = `[
		{"beatmap_id": "1", "beatmapset_id": "916990", "file_md5": "easy",
		 "total_length": "254", "approved": "1", "mode": "0"},
		{"beatmap_id": "2", "beatmapset_id": "916990", "file_md5": "hard",
		 "total_length": "254", "approved": "1", "mode": "0"}
	]`

	calls := 0
	f := newTestFetcher(st, &calls, func(req *http.Request) (int, string) {
		if got := req.URL.Query().Get("s"); got != "916990" {
			t.Errorf("set param = %q", got)
		}
		return http.StatusOK, setJSON
	})

	maps, err := f.BySetID(context.Background(), 916990)
	if err != nil {
		t.Fatalf("BySetID() error = %v", err)
	}
	if len(maps) != 2 {
		t.Fatalf("BySetID() returned %d maps", len(maps))
	}
	if len(st.upserted) != 2 {
		t.Errorf("upserted = %v", st.upserted)
	}

	// Cached sets skip the API on the next lookup.
	st.bySet[916990] = maps
	if _, err := f.BySetID(context.Background(), 916990); err != nil {
		t.Fatalf("BySetID() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("API calls = %d, want 1", calls)
	}
}

func TestFromAPIServerError(t *testing.T) {
	st := newMemStore()
	calls := 0
	f := newTestFetcher(st, &calls, func(*http.Request) (int, string) {
		return http.StatusUnauthorized, ""
	})

	if _, err := f.ByID(context.Background(), 1); err == nil {
		t.Error("ByID() swallowed an API error")
	}
	if len(st.upserted) != 0 {
		t.Errorf("upserted = %v, want none", st.upserted)
	}
}
