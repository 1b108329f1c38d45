package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"

	"github.com/redis/go-redis/v9"
)

type redisAttemptEntry struct {
	Payload   string    `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// RedisAttemptRepository keeps a running attempt counter and a capped log of the most
// recent payloads.
type RedisAttemptRepository struct {
	client redis.Cmdable
	prefix string
	logCap int64
}

func NewRedisAttemptRepository(client redis.Cmdable, prefix string, logCap int64) *RedisAttemptRepository {
	if logCap <= 0 {
		logCap = 1000
	}
	return &RedisAttemptRepository{client: client, prefix: prefix, logCap: logCap}
}

func (r *RedisAttemptRepository) totalKey() string {
	return r.prefix + ":total"
}

func (r *RedisAttemptRepository) logKey() string {
	return r.prefix + ":log"
}

func (r *RedisAttemptRepository) Create(ctx context.Context, attempt *entity.Attempt) error {
	entry, err := json.Marshal(redisAttemptEntry{Payload: attempt.Payload, Timestamp: attempt.CreatedAt})
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	total := pipe.Incr(ctx, r.totalKey())
	pipe.LPush(ctx, r.logKey(), string(entry))
	pipe.LTrim(ctx, r.logKey(), 0, r.logCap-1)
	if _, err = pipe.Exec(ctx); err != nil {
		return err
	}

	attempt.ID = uint64(total.Val())
	return nil
}

func (r *RedisAttemptRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.client.Get(ctx, r.totalKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *RedisAttemptRepository) DeleteAll(ctx context.Context) (int64, error) {
	count, err := r.Count(ctx)
	if err != nil {
		return 0, err
	}
	if err = r.client.Del(ctx, r.totalKey(), r.logKey()).Err(); err != nil {
		return 0, err
	}
	return count, nil
}
