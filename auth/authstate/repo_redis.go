package authstate

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo stores authorization states in redis so any worker process can
// serve the provider callback. GETDEL gives atomic single-use semantics
// and the TTL enforces expiry without a sweeper.
type RedisRepo struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisRepo(client redis.UniversalClient) (*RedisRepo, error) {
	if client == nil {
		return nil, errors.New("[NewRedisRepo] redis client is required")
	}
	return &RedisRepo{client: client, prefix: "authstate:"}, nil
}

func (r *RedisRepo) Put(ctx context.Context, state string, data *State, ttl time.Duration) error {
	if state == "" {
		return errors.New("state cannot be empty")
	}
	if data == nil {
		return errors.New("state data cannot be nil")
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return errors.Wrap(err, "marshal state")
	}
	if err := r.client.Set(ctx, r.prefix+state, payload, ttl).Err(); err != nil {
		return errors.Wrap(err, "persist state")
	}
	return nil
}

func (r *RedisRepo) Consume(ctx context.Context, state string) (*State, error) {
	if state == "" {
		return nil, errors.New("state cannot be empty")
	}

	payload, err := r.client.GetDel(ctx, r.prefix+state).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load state")
	}

	var data State
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		return nil, errors.Wrap(err, "decode state")
	}
	return &data, nil
}
