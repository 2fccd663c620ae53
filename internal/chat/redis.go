package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chat:conversation:"

// redisStore implements Store using Redis with optimistic locking.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// Create implements Store.
func (s *redisStore) Create(ctx context.Context, c *Conversation) error {
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now
	c.Version = 1

	val, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+c.ID, val, s.ttl).Err()
}

// Get implements Store.
func (s *redisStore) Get(ctx context.Context, id string) (*Conversation, error) {
	key := redisKeyPrefix + id
	val, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var c Conversation
	if err := json.Unmarshal([]byte(val), &c); err != nil {
		return nil, err
	}

	// Refresh TTL on read
	_ = s.client.Expire(ctx, key, s.ttl).Err()

	return &c, nil
}

// Update implements Store.
func (s *redisStore) Update(ctx context.Context, c *Conversation) error {
	key := redisKeyPrefix + c.ID

	return s.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Result()
		if err == redis.Nil {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		var stored Conversation
		if err := json.Unmarshal([]byte(val), &stored); err != nil {
			return err
		}

		if stored.Version != c.Version {
			return ErrVersionConflict
		}

		c.Version++
		c.UpdatedAt = time.Now()

		newVal, err := json.Marshal(c)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, newVal, s.ttl)
			return nil
		})
		return err
	}, key)
}

// Delete implements Store.
func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, redisKeyPrefix+id).Err()
}

// Close implements Store.
func (s *redisStore) Close() error {
	return s.client.Close()
}
