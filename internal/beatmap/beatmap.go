// Package beatmap resolves beatmaps database-first, falling back to the
// official osu! API. API results are written back so every map is fetched
// remotely at most once.
package beatmap

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hikariosu/hikari/internal/model"
	"github.com/hikariosu/hikari/internal/store"
)

const getBeatmapsURL = "https://old.ppy.sh/api/get_beatmaps"

// Store is the slice of the database the fetcher reads and caches into.
type Store interface {
	BeatmapByMD5(ctx context.Context, md5 string) (*store.Beatmap, error)
	BeatmapByID(ctx context.Context, id int32) (*store.Beatmap, error)
	BeatmapsBySetID(ctx context.Context, setID int32) ([]store.Beatmap, error)
	UpsertBeatmap(ctx context.Context, b *store.Beatmap) error
}

// Fetcher resolves beatmaps. Lookups hit the database first; misses go to
// the osu! API with the configured key.
type Fetcher struct {
	store  Store
	apiKey string
	client *http.Client
}

func NewFetcher(st Store, apiKey string) *Fetcher {
	return &Fetcher{
		store:  st,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// ByMD5 resolves one beatmap by file hash, nil when it exists nowhere.
func (f *Fetcher) ByMD5(ctx context.Context, md5 string) (*store.Beatmap, error) {
	b, err := f.store.BeatmapByMD5(ctx, md5)
	if err != nil || b != nil {
		return b, err
	}

	maps, err := f.fromAPI(ctx, url.Values{"h": {md5}})
	if err != nil {
		return nil, err
	}
	for i := range maps {
		if maps[i].MD5 == md5 {
			return &maps[i], nil
		}
	}
	return nil, nil
}

// ByID resolves one beatmap by map id, nil when it exists nowhere.
func (f *Fetcher) ByID(ctx context.Context, id int32) (*store.Beatmap, error) {
	b, err := f.store.BeatmapByID(ctx, id)
	if err != nil || b != nil {
		return b, err
	}

	maps, err := f.fromAPI(ctx, url.Values{"b": {strconv.Itoa(int(id))}})
	if err != nil {
		return nil, err
	}
	for i := range maps {
		if maps[i].ID == id {
			return &maps[i], nil
		}
	}
	return nil, nil
}

// BySetID resolves every difficulty of a set, nil when the set exists
// nowhere.
func (f *Fetcher) BySetID(ctx context.Context, setID int32) ([]store.Beatmap, error) {
	maps, err := f.store.BeatmapsBySetID(ctx, setID)
	if err != nil || len(maps) > 0 {
		return maps, err
	}

	return f.fromAPI(ctx, url.Values{"s": {strconv.Itoa(int(setID))}})
}

// fromAPI queries get_beatmaps and caches every returned difficulty.
func (f *Fetcher) fromAPI(ctx context.Context, params url.Values) ([]store.Beatmap, error) {
	params.Set("k", f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, getBeatmapsURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("building get_beatmaps request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("querying get_beatmaps: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("get_beatmaps responded %s", resp.Status)
	}

	var docs []apiBeatmap
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, fmt.Errorf("decoding get_beatmaps response: %w", err)
	}

	maps := make([]store.Beatmap, 0, len(docs))
	for _, doc := range docs {
		b, err := doc.toBeatmap()
		if err != nil {
			return nil, fmt.Errorf("parsing get_beatmaps entry: %w", err)
		}
		maps = append(maps, *b)
	}

	for i := range maps {
		if err := f.store.UpsertBeatmap(ctx, &maps[i]); err != nil {
			return nil, err
		}
	}

	return maps, nil
}

// apiBeatmap is one get_beatmaps entry. The osu! API serializes every
// number as a string, and a few fields may be null.
type apiBeatmap struct {
	BeatmapID    string `json:"beatmap_id"`
	BeatmapsetID string `json:"beatmapset_id"`
	FileMD5      string `json:"file_md5"`
	Artist       string `json:"artist"`
	Title        string `json:"title"`
	Version      string `json:"version"`
	Creator      string `json:"creator"`
	TotalLength  string `json:"total_length"`
	MaxCombo     string `json:"max_combo"`
	Approved     string `json:"approved"`
	Mode         string `json:"mode"`
	BPM          string `json:"bpm"`
	DiffSize     string `json:"diff_size"`
	DiffOverall  string `json:"diff_overall"`
	DiffApproach string `json:"diff_approach"`
	DiffDrain    string `json:"diff_drain"`
	Difficulty   string `json:"difficultyrating"`
	LastUpdate   string `json:"last_update"`
}

// filenameReplacer strips the characters osu! never writes into .osu
// filenames.
var filenameReplacer = strings.NewReplacer(
	`:`, "", `\`, "", `/`, "", `*`, "", `<`, "", `>`, "", `?`, "", `"`, "", `|`, "",
)

func (a apiBeatmap) toBeatmap() (*store.Beatmap, error) {
	id, err := strconv.ParseInt(a.BeatmapID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("beatmap_id %q: %w", a.BeatmapID, err)
	}
	setID, err := strconv.ParseInt(a.BeatmapsetID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("beatmapset_id %q: %w", a.BeatmapsetID, err)
	}
	totalLength, err := strconv.ParseInt(a.TotalLength, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("total_length %q: %w", a.TotalLength, err)
	}
	approved, err := strconv.Atoi(a.Approved)
	if err != nil {
		return nil, fmt.Errorf("approved %q: %w", a.Approved, err)
	}
	mode, err := strconv.Atoi(a.Mode)
	if err != nil {
		return nil, fmt.Errorf("mode %q: %w", a.Mode, err)
	}

	status := model.RankedStatusFromAPI(approved)

	// Ranked, approved and loved maps arrive frozen so later refreshes
	// cannot silently revert a moderated status.
	frozen := status == model.StatusRanked ||
		status == model.StatusApproved ||
		status == model.StatusLoved

	b := &store.Beatmap{
		MD5:         a.FileMD5,
		ID:          int32(id),
		SetID:       int32(setID),
		Artist:      a.Artist,
		Title:       a.Title,
		Version:     a.Version,
		Creator:     a.Creator,
		TotalLength: int32(totalLength),
		Status:      status,
		Mode:        model.Mode(mode),
		CS:          parseFloat(a.DiffSize),
		OD:          parseFloat(a.DiffOverall),
		AR:          parseFloat(a.DiffApproach),
		HP:          parseFloat(a.DiffDrain),
		Stars:       parseFloat(a.Difficulty),
		LastUpdate:  a.LastUpdate,
		MaxCombo:    int32(parseFloat(a.MaxCombo)),
		BPM:         parseFloat(a.BPM),
		Filename: filenameReplacer.Replace(fmt.Sprintf(
			"%s - %s (%s) [%s].osu", a.Artist, a.Title, a.Creator, a.Version,
		)),
		Frozen: frozen,
	}
	return b, nil
}

// parseFloat reads the API's optional numeric strings; absent values
// read as 0.
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
