package reward

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles client-driven mutations like start-mining attempts
type RateLimiter struct {
	rdb *redis.Client
	ctx context.Context
}

// NewRateLimiter creates a new RateLimiter instance
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		rdb: GetRedisClient(),
		ctx: GetContext(),
	}
}

// RateLimitConfig defines rate limit rules
type RateLimitConfig struct {
	MaxStartAttempts int           // per window
	StartWindow      time.Duration // window for start-mining attempts
	MaxTaskUpdates   int           // per window
	TaskWindow       time.Duration // window for badge task updates
}

// DefaultRateLimitConfig returns default rate limit configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		MaxStartAttempts: 5,
		StartWindow:      time.Minute,
		MaxTaskUpdates:   20,
		TaskWindow:       time.Minute,
	}
}

// CheckStartRateLimit checks if the user may attempt to start a session
func (rl *RateLimiter) CheckStartRateLimit(userID string, config RateLimitConfig) (bool, error) {
	return rl.check(fmt.Sprintf("rate:mining-start:%s", userID), config.MaxStartAttempts)
}

// RecordStartAttempt records a start-mining attempt
func (rl *RateLimiter) RecordStartAttempt(userID string, config RateLimitConfig) error {
	return rl.record(fmt.Sprintf("rate:mining-start:%s", userID), config.StartWindow)
}

// CheckTaskRateLimit checks if the user may submit a badge task update
func (rl *RateLimiter) CheckTaskRateLimit(userID string, config RateLimitConfig) (bool, error) {
	return rl.check(fmt.Sprintf("rate:badge-task:%s", userID), config.MaxTaskUpdates)
}

// RecordTaskUpdate records a badge task update
func (rl *RateLimiter) RecordTaskUpdate(userID string, config RateLimitConfig) error {
	return rl.record(fmt.Sprintf("rate:badge-task:%s", userID), config.TaskWindow)
}

func (rl *RateLimiter) check(key string, max int) (bool, error) {
	if rl == nil || rl.rdb == nil {
		// Without Redis the limiter degrades to allow-all
		return true, nil
	}

	count, err := rl.rdb.Get(rl.ctx, key).Int()
	if err == redis.Nil {
		return true, nil
	} else if err != nil {
		return false, err
	}

	if count >= max {
		return false, nil
	}

	return true, nil
}

func (rl *RateLimiter) record(key string, window time.Duration) error {
	if rl == nil || rl.rdb == nil {
		return nil
	}

	count, err := rl.rdb.Incr(rl.ctx, key).Result()
	if err != nil {
		return err
	}

	// Set expiration if first time
	if count == 1 {
		rl.rdb.Expire(rl.ctx, key, window)
	}

	return nil
}
