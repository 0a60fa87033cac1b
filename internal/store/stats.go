package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hikariosu/hikari/internal/model"
)

// Stats is a per-user, per-mode document in the ustats collection.
type Stats struct {
	TotalScore  int64   `bson:"total_score"`
	RankedScore int64   `bson:"ranked_score"`
	Accuracy    float64 `bson:"accuracy"`
	PP          int32   `bson:"pp"`
	MaxCombo    int32   `bson:"max_combo"`
	TotalHits   int32   `bson:"total_hits"`
	Playcount   int32   `bson:"playcount"`
	Playtime    int32   `bson:"playtime"`
}

// UserStats fetches the stored stats for one user and mode. Ranks are not
// stored here; the caller composes them from the leaderboard.
func (s *Store) UserStats(ctx context.Context, userID int32, mode model.Mode) (*Stats, error) {
	var st Stats
	err := s.stats().FindOne(ctx, bson.M{"user_id": userID, "mode": mode}).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying stats for user %d mode %d: %w", userID, mode, err)
	}
	return &st, nil
}
