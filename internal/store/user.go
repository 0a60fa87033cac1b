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

// User is a document in the users collection.
type User struct {
	ID             int32            `bson:"id"`
	Name           string           `bson:"name"`
	SafeName       string           `bson:"safe_name"`
	PasswordBcrypt string           `bson:"password_bcrypt"`
	RegisterTime   int64            `bson:"register_time"`
	LatestActivity int64            `bson:"latest_activity"`
	Email          string           `bson:"email"`
	Country        string           `bson:"country"`
	Privileges     model.Privileges `bson:"privileges"`
	SilenceEnd     int64            `bson:"silence_end"`
	Friends        []int32          `bson:"friends"`
	Blocked        []int32          `bson:"blocked"`
}

func (s *Store) findUser(ctx context.Context, filter bson.M) (*User, error) {
	var u User
	err := s.users().FindOne(ctx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying user %v: %w", filter, err)
	}
	return &u, nil
}

// UserBySafeName fetches a user by their lowercased, underscored name.
func (s *Store) UserBySafeName(ctx context.Context, safeName string) (*User, error) {
	return s.findUser(ctx, bson.M{"safe_name": safeName})
}

// UserByID fetches a user by account id.
func (s *Store) UserByID(ctx context.Context, id int32) (*User, error) {
	return s.findUser(ctx, bson.M{"id": id})
}

// UserByName fetches a user by display name.
func (s *Store) UserByName(ctx context.Context, name string) (*User, error) {
	return s.findUser(ctx, bson.M{"name": name})
}

// SetCountry overwrites the stored country acronym. Used when an account
// registered through the web (country "xx") logs into bancho for the first
// time and the country becomes known from geolocation.
func (s *Store) SetCountry(ctx context.Context, id int32, acronym string) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"country": acronym}},
	)
	if err != nil {
		return fmt.Errorf("updating country for user %d: %w", id, err)
	}
	return nil
}

// SetPrivileges overwrites the stored privilege bitfield.
func (s *Store) SetPrivileges(ctx context.Context, id int32, privileges model.Privileges) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"privileges": privileges}},
	)
	if err != nil {
		return fmt.Errorf("updating privileges for user %d: %w", id, err)
	}
	return nil
}

// SetSilenceEnd overwrites the unix second the user's silence expires at.
func (s *Store) SetSilenceEnd(ctx context.Context, id int32, end int64) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"silence_end": end}},
	)
	if err != nil {
		return fmt.Errorf("updating silence end for user %d: %w", id, err)
	}
	return nil
}

// SetLatestActivity stamps the user's last seen time (unix seconds).
func (s *Store) SetLatestActivity(ctx context.Context, id int32, when int64) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$set": bson.M{"latest_activity": when}},
	)
	if err != nil {
		return fmt.Errorf("updating latest activity for user %d: %w", id, err)
	}
	return nil
}

// AddFriend appends friendID to the user's friends array.
func (s *Store) AddFriend(ctx context.Context, id, friendID int32) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$push": bson.M{"friends": friendID}},
	)
	if err != nil {
		return fmt.Errorf("adding friend %d for user %d: %w", friendID, id, err)
	}
	return nil
}

// RemoveFriend removes friendID from the user's friends array.
func (s *Store) RemoveFriend(ctx context.Context, id, friendID int32) error {
	_, err := s.users().UpdateOne(ctx,
		bson.M{"id": id},
		bson.M{"$pull": bson.M{"friends": friendID}},
	)
	if err != nil {
		return fmt.Errorf("removing friend %d for user %d: %w", friendID, id, err)
	}
	return nil
}

// AppendLogAction pushes a moderation action onto the user's log document,
// creating the document on first use.
func (s *Store) AppendLogAction(ctx context.Context, userID int32, action, sender, info string) error {
	_, err := s.logs().UpdateOne(ctx,
		bson.M{"id": userID},
		bson.M{"$addToSet": bson.M{"actions": bson.M{
			"action": action,
			"sender": sender,
			"info":   info,
		}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("logging %s for user %d: %w", action, userID, err)
	}
	return nil
}
