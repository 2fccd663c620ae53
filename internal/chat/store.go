package chat

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// Common errors for conversation store operations.
var (
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrInvalidStoreType = errors.New("invalid store type")
	ErrVersionConflict  = errors.New("conversation version conflict")
	ErrNotFound         = errors.New("conversation not found")
)

// Store defines the interface for conversation storage.
type Store interface {
	// Create creates a new conversation with Version set to 1.
	Create(ctx context.Context, c *Conversation) error

	// Get retrieves a conversation by ID.
	// Returns nil if the conversation is not found (not an error).
	Get(ctx context.Context, id string) (*Conversation, error)

	// Update updates an existing conversation with optimistic locking.
	// Returns ErrVersionConflict if the version does not match,
	// ErrNotFound if the conversation does not exist.
	Update(ctx context.Context, c *Conversation) error

	// Delete deletes a conversation by ID.
	Delete(ctx context.Context, id string) error

	// Close closes the store and releases any resources.
	Close() error
}

// StoreType represents the type of conversation store.
type StoreType string

const (
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
)

// StoreOption is a functional option for configuring a store.
type StoreOption func(*storeConfig)

type storeConfig struct {
	redisClient *redis.Client
	redisTTL    time.Duration
}

// WithRedisClient sets the Redis client for the Redis store.
func WithRedisClient(client *redis.Client) StoreOption {
	return func(c *storeConfig) {
		c.redisClient = client
	}
}

// WithRedisTTL sets the TTL for Redis keys.
func WithRedisTTL(ttl time.Duration) StoreOption {
	return func(c *storeConfig) {
		c.redisTTL = ttl
	}
}

// NewStore creates a Store of the given type.
// For Redis, requires WithRedisClient.
func NewStore(storeType StoreType, opts ...StoreOption) (Store, error) {
	config := &storeConfig{}
	for _, opt := range opts {
		opt(config)
	}

	switch storeType {
	case StoreTypeMemory:
		return &memoryStore{
			conversations: make(map[string]*Conversation),
		}, nil

	case StoreTypeRedis:
		if config.redisClient == nil {
			return nil, ErrInvalidConfig
		}
		ttl := config.redisTTL
		if ttl <= 0 {
			ttl = 24 * time.Hour
		}
		return &redisStore{
			client: config.redisClient,
			ttl:    ttl,
		}, nil

	default:
		return nil, ErrInvalidStoreType
	}
}
