package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hikariosu/hikari/internal/model"
)

// Beatmap is a document in the maps collection.
type Beatmap struct {
	MD5         string             `bson:"md5"`
	ID          int32              `bson:"id"`
	SetID       int32              `bson:"set_id"`
	Artist      string             `bson:"artist"`
	Title       string             `bson:"title"`
	Version     string             `bson:"version"`
	Creator     string             `bson:"creator"`
	TotalLength int32              `bson:"total_length"`
	Status      model.RankedStatus `bson:"status"`
	Plays       int32              `bson:"plays"`
	Passes      int32              `bson:"passes"`
	Mode        model.Mode         `bson:"mode"`
	CS          float64            `bson:"cs"`
	OD          float64            `bson:"od"`
	AR          float64            `bson:"ar"`
	HP          float64            `bson:"hp"`
	Stars       float64            `bson:"diff"`
	LastUpdate  string             `bson:"last_update"`
	MaxCombo    int32              `bson:"max_combo"`
	BPM         float64            `bson:"bpm"`
	Filename    string             `bson:"filename"`
	Frozen      bool               `bson:"frozen"`
}

// FullName renders the map the way chat messages refer to it.
func (b *Beatmap) FullName() string {
	return fmt.Sprintf("%s - %s [%s]", b.Artist, b.Title, b.Version)
}

// URL is the beatmap's page on the official site.
func (b *Beatmap) URL() string {
	return fmt.Sprintf("https://osu.ppy.sh/b/%d", b.ID)
}

func (s *Store) findBeatmap(ctx context.Context, filter bson.M) (*Beatmap, error) {
	var b Beatmap
	err := s.maps().FindOne(ctx, filter).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying beatmap %v: %w", filter, err)
	}
	return &b, nil
}

// BeatmapByMD5 fetches a beatmap by file hash.
func (s *Store) BeatmapByMD5(ctx context.Context, md5 string) (*Beatmap, error) {
	return s.findBeatmap(ctx, bson.M{"md5": md5})
}

// BeatmapByID fetches a beatmap by map id.
func (s *Store) BeatmapByID(ctx context.Context, id int32) (*Beatmap, error) {
	return s.findBeatmap(ctx, bson.M{"id": id})
}

// BeatmapsBySetID fetches every difficulty of a set.
func (s *Store) BeatmapsBySetID(ctx context.Context, setID int32) ([]Beatmap, error) {
	cursor, err := s.maps().Find(ctx, bson.M{"set_id": setID})
	if err != nil {
		return nil, fmt.Errorf("querying beatmap set %d: %w", setID, err)
	}
	defer cursor.Close(ctx)

	var maps []Beatmap
	if err := cursor.All(ctx, &maps); err != nil {
		return nil, fmt.Errorf("decoding beatmap set %d: %w", setID, err)
	}
	return maps, nil
}

// UpsertBeatmap writes the beatmap document keyed by md5.
func (s *Store) UpsertBeatmap(ctx context.Context, b *Beatmap) error {
	_, err := s.maps().UpdateOne(ctx,
		bson.M{"md5": b.MD5},
		bson.M{"$set": b},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("upserting beatmap %s: %w", b.MD5, err)
	}
	return nil
}

// SetBeatmapStatus updates the ranked status of one map and freezes it so
// later metadata refreshes keep the moderated value.
func (s *Store) SetBeatmapStatus(ctx context.Context, md5 string, status model.RankedStatus) error {
	_, err := s.maps().UpdateOne(ctx,
		bson.M{"md5": md5},
		bson.M{"$set": bson.M{"status": status, "frozen": true}},
	)
	if err != nil {
		return fmt.Errorf("updating status of beatmap %s: %w", md5, err)
	}
	return nil
}
