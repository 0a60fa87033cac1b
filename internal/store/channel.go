package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/hikariosu/hikari/internal/model"
)

// Channel is a chat channel definition in the channels collection.
type Channel struct {
	Name       string           `bson:"name"`
	Topic      string           `bson:"topic"`
	Privileges model.Privileges `bson:"priv"`
	AutoJoin   bool             `bson:"auto_join"`
}

// Channels loads every channel definition.
func (s *Store) Channels(ctx context.Context) ([]Channel, error) {
	cursor, err := s.channels().Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("querying channels: %w", err)
	}
	defer cursor.Close(ctx)

	var channels []Channel
	if err := cursor.All(ctx, &channels); err != nil {
		return nil, fmt.Errorf("decoding channels: %w", err)
	}
	return channels, nil
}
