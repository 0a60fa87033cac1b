// Package leaderboard reads and maintains the pp rankings kept in Redis
// sorted sets: one global set per mode plus one per country.
package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-redis/redis/v8"

	"github.com/hikariosu/hikari/internal/model"
)

// Leaderboard wraps the Redis client for rank lookups and membership edits.
type Leaderboard struct {
	rdb *redis.Client
}

// New returns a Leaderboard over an already connected client.
func New(rdb *redis.Client) *Leaderboard {
	return &Leaderboard{rdb: rdb}
}

func globalKey(mode model.Mode) string {
	return fmt.Sprintf("hikari:leaderboard:%d", mode)
}

func countryKey(mode model.Mode, country string) string {
	return fmt.Sprintf("hikari:leaderboard:%d:%s", mode, country)
}

func member(userID int32) string {
	return strconv.Itoa(int(userID))
}

func (l *Leaderboard) rank(ctx context.Context, key string, userID int32) (int32, error) {
	rank, err := l.rdb.ZRevRank(ctx, key, member(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("ranking user %d in %s: %w", userID, key, err)
	}
	return int32(rank) + 1, nil
}

// GlobalRank returns the 1-based rank of the user for a mode, 0 if unranked.
func (l *Leaderboard) GlobalRank(ctx context.Context, userID int32, mode model.Mode) (int32, error) {
	return l.rank(ctx, globalKey(mode), userID)
}

// CountryRank returns the 1-based rank within one country, 0 if unranked.
func (l *Leaderboard) CountryRank(ctx context.Context, userID int32, mode model.Mode, country string) (int32, error) {
	return l.rank(ctx, countryKey(mode, country), userID)
}

// RemoveUser drops the user from the global and country sets of one mode.
// Restricted accounts hold no ranks.
func (l *Leaderboard) RemoveUser(ctx context.Context, userID int32, mode model.Mode, country string) error {
	if err := l.rdb.ZRem(ctx, globalKey(mode), member(userID)).Err(); err != nil {
		return fmt.Errorf("removing user %d from mode %d rankings: %w", userID, mode, err)
	}
	if err := l.rdb.ZRem(ctx, countryKey(mode, country), member(userID)).Err(); err != nil {
		return fmt.Errorf("removing user %d from %s rankings: %w", userID, country, err)
	}
	return nil
}

// AddUser scores the user into the global and country sets of one mode.
func (l *Leaderboard) AddUser(ctx context.Context, userID int32, mode model.Mode, country string, pp int32) error {
	entry := &redis.Z{Score: float64(pp), Member: member(userID)}
	if err := l.rdb.ZAdd(ctx, globalKey(mode), entry).Err(); err != nil {
		return fmt.Errorf("adding user %d to mode %d rankings: %w", userID, mode, err)
	}
	if err := l.rdb.ZAdd(ctx, countryKey(mode, country), entry).Err(); err != nil {
		return fmt.Errorf("adding user %d to %s rankings: %w", userID, country, err)
	}
	return nil
}
