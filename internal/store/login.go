package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoginRecord is one appended document in the logins collection.
type LoginRecord struct {
	UserID     int32  `bson:"userid"`
	IP         string `bson:"ip"`
	OsuVersion string `bson:"osu_ver"`
	OsuStream  string `bson:"osu_stream"`
	Datetime   string `bson:"datetime"`
}

// InsertLogin appends a login record, stamping the current time.
func (s *Store) InsertLogin(ctx context.Context, rec LoginRecord) error {
	rec.Datetime = time.Now().Format(time.RFC3339)
	if _, err := s.logins().InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("inserting login record for user %d: %w", rec.UserID, err)
	}
	return nil
}

// ClientHashes is the hardware identity a client reports at login.
type ClientHashes struct {
	UserID       int32  `bson:"userid"`
	OsuMD5       string `bson:"osu_md5"`
	AdaptersMD5  string `bson:"adapters"`
	UninstallMD5 string `bson:"uninstall"`
	DiskMD5      string `bson:"disk"`
}

// RecordClientHashes upserts the hardware identity document, counting how
// often this exact identity has been seen.
func (s *Store) RecordClientHashes(ctx context.Context, h ClientHashes) error {
	identity := bson.M{
		"userid":    h.UserID,
		"osu_md5":   h.OsuMD5,
		"adapters":  h.AdaptersMD5,
		"uninstall": h.UninstallMD5,
		"disk":      h.DiskMD5,
	}
	_, err := s.clientHashes().UpdateOne(ctx,
		identity,
		bson.M{
			"$inc":         bson.M{"occurrences": 1},
			"$set":         bson.M{"latest_time": time.Now().Format(time.RFC3339)},
			"$setOnInsert": identity,
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("recording client hashes for user %d: %w", h.UserID, err)
	}
	return nil
}

// HardwareMatches returns ids of other accounts that logged in with matching
// hardware hashes. Wine clients report fake uninstall/disk hashes, so for
// them only the adapters hash (stored under uninstall) is comparable.
func (s *Store) HardwareMatches(ctx context.Context, h ClientHashes, wine bool) ([]int32, error) {
	filter := bson.M{"userid": bson.M{"$ne": h.UserID}}
	if wine {
		filter["uninstall"] = h.AdaptersMD5
	} else {
		filter["adapters"] = h.AdaptersMD5
		filter["uninstall"] = h.UninstallMD5
		filter["disk"] = h.DiskMD5
	}

	cursor, err := s.clientHashes().Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("querying hardware matches for user %d: %w", h.UserID, err)
	}
	defer cursor.Close(ctx)

	var ids []int32
	for cursor.Next(ctx) {
		var doc struct {
			UserID int32 `bson:"userid"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding hardware match: %w", err)
		}
		ids = append(ids, doc.UserID)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterating hardware matches: %w", err)
	}
	return ids, nil
}
