// Package store persists accounts, stats, login records and beatmaps in
// MongoDB. Lookups return nil, nil when the document does not exist.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store wraps a Mongo client scoped to one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB and returns a Store bound to the named database.
func Connect(ctx context.Context, dsn, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(dsn))
	if err != nil {
		return nil, fmt.Errorf("connecting to mongodb: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("pinging mongodb: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

// Close disconnects the underlying client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) users() *mongo.Collection        { return s.db.Collection("users") }
func (s *Store) stats() *mongo.Collection        { return s.db.Collection("ustats") }
func (s *Store) logins() *mongo.Collection       { return s.db.Collection("logins") }
func (s *Store) clientHashes() *mongo.Collection { return s.db.Collection("client_hashes") }
func (s *Store) channels() *mongo.Collection     { return s.db.Collection("channels") }
func (s *Store) logs() *mongo.Collection         { return s.db.Collection("logs") }
func (s *Store) maps() *mongo.Collection         { return s.db.Collection("maps") }
