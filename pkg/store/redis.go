package store

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/formpath/formpath/pkg/schema"
)

// RedisStore keeps snapshots in Redis, one key per document id. Intended for
// deployments where several machines share saved progress.
type RedisStore struct {
	client *redis.Client
}

// RedisConfig configures the Redis connection.
type RedisConfig struct {
	Addr     string // host:port, defaults to localhost:6379
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return &RedisStore{client: client}, nil
}

// Save overwrites the snapshot for formID. Snapshots do not expire; they are
// removed explicitly after a successful export.
func (s *RedisStore) Save(ctx context.Context, formID string, answers schema.AnswerSet) error {
	data, err := json.Marshal(newSnapshot(answers))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, Key(formID), data, 0).Err()
}

// Load retrieves the snapshot for formID.
func (s *RedisStore) Load(ctx context.Context, formID string) (schema.AnswerSet, bool, error) {
	data, err := s.client.Get(ctx, Key(formID)).Bytes()
	if err == redis.Nil {
		return schema.AnswerSet{}, false, nil
	}
	if err != nil {
		return schema.AnswerSet{}, false, err
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return schema.AnswerSet{}, false, nil
	}
	return snap.answerSet(), true, nil
}

// Clear removes the snapshot for formID.
func (s *RedisStore) Clear(ctx context.Context, formID string) error {
	return s.client.Del(ctx, Key(formID)).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ensure RedisStore implements Store.
var _ Store = (*RedisStore)(nil)
