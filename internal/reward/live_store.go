package reward

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// LiveStore caches the most recently computed accrual for active sessions so
// frequent status polls don't need a database round-trip between checkpoints
type LiveStore struct {
	rdb *redis.Client
	ctx context.Context
}

// NewLiveStore creates a new LiveStore instance
func NewLiveStore() *LiveStore {
	return &LiveStore{
		rdb: GetRedisClient(),
		ctx: GetContext(),
	}
}

func liveKey(userID string) string {
	return fmt.Sprintf("live:mining:%s", userID)
}

// SetAccrual records the current accrued amount for a user's active session
func (ls *LiveStore) SetAccrual(userID string, coins float64, ttl time.Duration) error {
	if ls == nil || ls.rdb == nil {
		return fmt.Errorf("Redis client not available")
	}
	return ls.rdb.Set(ls.ctx, liveKey(userID), strconv.FormatFloat(coins, 'f', -1, 64), ttl).Err()
}

// GetAccrual returns the cached accrual for a user, if present
func (ls *LiveStore) GetAccrual(userID string) (float64, bool, error) {
	if ls == nil || ls.rdb == nil {
		return 0, false, nil
	}

	val, err := ls.rdb.Get(ls.ctx, liveKey(userID)).Result()
	if err == redis.Nil {
		return 0, false, nil
	} else if err != nil {
		return 0, false, err
	}

	coins, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, false, err
	}
	return coins, true, nil
}

// Clear drops the cached accrual after a session finalizes
func (ls *LiveStore) Clear(userID string) error {
	if ls == nil || ls.rdb == nil {
		return nil
	}
	return ls.rdb.Del(ls.ctx, liveKey(userID)).Err()
}
