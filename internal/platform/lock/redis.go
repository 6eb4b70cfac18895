package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultRedisTTL      = 5 * time.Second
	defaultRetryInterval = 25 * time.Millisecond
	redisKeyPrefix       = "daily-report:lock:"
)

var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Redis は Redis の SET NX PX を用いてプロセスをまたいでキーを直列化します。
type Redis struct {
	client        redis.Cmdable
	ttl           time.Duration
	retryInterval time.Duration
	logger        *zap.Logger
}

// NewRedis は Redis ロックを生成します。ttl が 0 以下の場合は 5 秒を使用します。
func NewRedis(client redis.Cmdable, ttl time.Duration, logger *zap.Logger) *Redis {
	if ttl <= 0 {
		ttl = defaultRedisTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Redis{client: client, ttl: ttl, retryInterval: defaultRetryInterval, logger: logger}
}

// Lock は key のロックを取得するまで再試行します。
// 取得したロックは ttl 経過で自動的に失効します。
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := redisKeyPrefix + key
	token := uuid.NewString()

	for {
		ok, err := r.client.SetNX(ctx, redisKey, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: redis setnx %s: %w", redisKey, err)
		}
		if ok {
			return func() { r.release(redisKey, token) }, nil
		}

		timer := time.NewTimer(r.retryInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

func (r *Redis) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.ttl)
	defer cancel()

	if err := releaseScript.Run(ctx, r.client, []string{redisKey}, token).Err(); err != nil && err != redis.Nil {
		r.logger.Warn("failed to release redis lock", zap.String("key", redisKey), zap.Error(err))
	}
}
