package conn_counter

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// redisConnCounter держит живые счётчики подключений по серверам.
// TTL обновляется на каждом изменении: мёртвые ключи сами исчезают.
type redisConnCounter struct {
	cli     *redis.Client
	ttl     time.Duration
	keyPref string
}

func NewRedisConnCounter(cli *redis.Client, ttl time.Duration) *redisConnCounter {
	return &redisConnCounter{
		cli:     cli,
		ttl:     ttl,
		keyPref: "conns:",
	}
}

func (r *redisConnCounter) Incr(ctx context.Context, serverID string) error {
	key := r.keyPref + serverID
	if err := r.cli.Incr(ctx, key).Err(); err != nil {
		return err
	}
	return r.cli.Expire(ctx, key, r.ttl).Err()
}

func (r *redisConnCounter) Decr(ctx context.Context, serverID string) error {
	key := r.keyPref + serverID
	val, err := r.cli.Decr(ctx, key).Result()
	if err != nil {
		return err
	}
	// счётчик не должен уходить в минус после рестартов
	if val < 0 {
		return r.cli.Set(ctx, key, 0, r.ttl).Err()
	}
	return r.cli.Expire(ctx, key, r.ttl).Err()
}

func (r *redisConnCounter) Get(ctx context.Context, serverID string) (int, error) {
	const op = "location internal.repository.conn_counter.Get"

	val, err := r.cli.Get(ctx, r.keyPref+serverID).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		logrus.Errorf("%s: %v", op, err)
		return 0, err
	}
	return val, nil
}
