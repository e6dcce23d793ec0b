package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/quocanhngo/signalsender/internal/model"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "signalsender:cmd:"

// RedisStore keeps commands in Redis so every server instance sees the same
// pending command. Take uses GETDEL (Redis 6.2+).
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore creates a store. A zero ttl keeps commands until consumed.
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Set(ctx context.Context, deviceID string, cmd model.DeviceCommand) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+deviceID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("set command: %w", err)
	}
	return nil
}

func (s *RedisStore) Take(ctx context.Context, deviceID string) (model.DeviceCommand, bool, error) {
	return s.decode(s.rdb.GetDel(ctx, redisKeyPrefix+deviceID).Bytes())
}

func (s *RedisStore) Get(ctx context.Context, deviceID string) (model.DeviceCommand, bool, error) {
	return s.decode(s.rdb.Get(ctx, redisKeyPrefix+deviceID).Bytes())
}

func (s *RedisStore) decode(data []byte, err error) (model.DeviceCommand, bool, error) {
	if errors.Is(err, redis.Nil) {
		return model.DeviceCommand{}, false, nil
	}
	if err != nil {
		return model.DeviceCommand{}, false, fmt.Errorf("read command: %w", err)
	}

	var cmd model.DeviceCommand
	if err := json.Unmarshal(data, &cmd); err != nil {
		return model.DeviceCommand{}, false, fmt.Errorf("decode command: %w", err)
	}
	return cmd, true, nil
}
