// Package cache provides a Redis read-through cache for the ranked board.
// Listing the board is the hottest read in the app; every posting mutation
// invalidates the owner's entry, so a stale bucket never outlives the next
// score change.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonathan/job-tracker/internal/types"
)

// BoardTTL bounds staleness even without an explicit invalidation.
const BoardTTL = 5 * time.Minute

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Board caches one user's ranked posting list.
type Board struct {
	rdb *redis.Client
}

// NewBoard returns a board cache. A nil client disables caching; every
// method becomes a no-op miss.
func NewBoard(rdb *redis.Client) *Board {
	return &Board{rdb: rdb}
}

func boardKey(userID uuid.UUID) string {
	return "board:" + userID.String()
}

// Get returns the cached board for a user, or (nil, false) on a miss.
// Cache errors are swallowed: the caller falls through to the database.
func (b *Board) Get(ctx context.Context, userID uuid.UUID) ([]types.JobPosting, bool) {
	if b.rdb == nil {
		return nil, false
	}

	data, err := b.rdb.Get(ctx, boardKey(userID)).Bytes()
	if err != nil {
		return nil, false
	}

	var postings []types.JobPosting
	if err := json.Unmarshal(data, &postings); err != nil {
		return nil, false
	}
	return postings, true
}

// Set stores a user's board.
func (b *Board) Set(ctx context.Context, userID uuid.UUID, postings []types.JobPosting) {
	if b.rdb == nil {
		return
	}

	data, err := json.Marshal(postings)
	if err != nil {
		return
	}
	_ = b.rdb.Set(ctx, boardKey(userID), data, BoardTTL).Err()
}

// Invalidate drops a user's cached board after any posting mutation.
func (b *Board) Invalidate(ctx context.Context, userID uuid.UUID) {
	if b.rdb == nil {
		return
	}
	_ = b.rdb.Del(ctx, boardKey(userID)).Err()
}
