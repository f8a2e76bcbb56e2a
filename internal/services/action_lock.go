package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// ActionLock marks a request as having an action in flight so an overlapping
// approve/reject fails fast instead of queueing behind the row lock. With a
// nil Redis client every acquire succeeds and the database row lock alone
// serializes actions.
type ActionLock struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
	token  func() string
}

func NewActionLock(redisClient *redis.Client, ttl time.Duration, logger *zap.Logger) *ActionLock {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionLock{redis: redisClient, ttl: ttl, logger: logger, token: uuid.NewString}
}

func lockKey(pipeline string, id int64) string {
	return fmt.Sprintf("lock:%s:%d", pipeline, id)
}

// Acquire returns ok=false only when another holder owns the key. Redis
// errors are logged and treated as acquired.
func (l *ActionLock) Acquire(ctx context.Context, pipeline string, id int64) (release func(), ok bool) {
	noop := func() {}
	if l == nil || l.redis == nil {
		return noop, true
	}

	key := lockKey(pipeline, id)
	token := l.token()
	acquired, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		l.logger.Warn("action lock unavailable, relying on row lock",
			zap.String("key", key), zap.Error(err))
		return noop, true
	}
	if !acquired {
		return noop, false
	}

	return func() {
		if err := l.redis.Eval(context.Background(), releaseScript, []string{key}, token).Err(); err != nil && err != redis.Nil {
			l.logger.Warn("failed to release action lock", zap.String("key", key), zap.Error(err))
		}
	}, true
}
