// Package cache keeps rendered lead views in Redis. Every write to the CRM
// drops all of them at once.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	prefix = "service:crm"
	// genKey holds the current view generation. Every view key carries it,
	// so bumping it hides all earlier views at once.
	genKey = prefix + "|views|gen"
)

// Views is a read-through cache of lead views.
type Views interface {
	// Get reports false on a miss.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
	// Invalidate drops every view stored so far.
	Invalidate(ctx context.Context) error
}

func LeadsKey() string { return prefix + "|leads|all" }

func LeadKey(id string) string { return fmt.Sprintf("%s|lead|id:%v", prefix, id) }

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server at url (redis://...) and checks it answers.
// Views of past generations are only removed by expiry, so ttl must be positive.
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*Redis, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// versioned returns key under the current generation.
func (r *Redis) versioned(ctx context.Context, key string) (string, error) {
	gen, err := r.client.Get(ctx, genKey).Int64()
	if errors.Is(err, redis.Nil) {
		gen = 0
	} else if err != nil {
		return "", fmt.Errorf("read view generation: %w", err)
	}
	return fmt.Sprintf("%s|gen:%d", key, gen), nil
}

func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	vkey, err := r.versioned(ctx, key)
	if err != nil {
		return false, err
	}
	str, err := r.client.Get(ctx, vkey).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(str), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// Set stores the view under the current generation. A view written while an
// Invalidate runs lands in the old generation and is never read.
func (r *Redis) Set(ctx context.Context, key string, value interface{}) error {
	b, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	vkey, err := r.versioned(ctx, key)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, vkey, b, r.ttl).Err()
}

// Invalidate starts a new generation. Views of the previous one expire on
// their own.
func (r *Redis) Invalidate(ctx context.Context) error {
	return r.client.Incr(ctx, genKey).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

// Nop never stores anything. It is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Get(context.Context, string, interface{}) (bool, error) { return false, nil }
func (Nop) Set(context.Context, string, interface{}) error         { return nil }
func (Nop) Invalidate(context.Context) error                       { return nil }
