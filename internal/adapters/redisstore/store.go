package redisstore

// Package redisstore provides the durable credential scope backed by Redis.
// Records written here survive gateway restarts, which is what "remember me"
// selects at login time.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store is a Redis-backed scope store. Each gateway session maps to one hash
// holding the five credential fields; TTL is applied to the whole hash so the
// fields can never expire independently of each other.
type Store struct {
	client redis.UniversalClient
	prefix string
}

// New creates a Redis-backed scope store with the default key prefix.
func New(client redis.UniversalClient) *Store {
	return &Store{
		client: client,
		prefix: "creds:",
	}
}

// NewWithPrefix creates a Redis-backed scope store with a custom key prefix.
func NewWithPrefix(client redis.UniversalClient, prefix string) *Store {
	return &Store{
		client: client,
		prefix: prefix,
	}
}

func (s *Store) Write(ctx context.Context, sid string, fields map[string]string, ttl time.Duration) error {
	if sid == "" {
		return errors.New("session ID cannot be empty")
	}
	if ttl <= 0 {
		return errors.New("ttl must be positive")
	}

	key := s.prefix + sid
	flat := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		flat = append(flat, k, v)
	}

	// Replace-then-expire in one transaction so a reader never observes a
	// partially written record.
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key, flat...)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis write credentials: %w", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, sid string) (map[string]string, error) {
	if sid == "" {
		return map[string]string{}, nil
	}

	fields, err := s.client.HGetAll(ctx, s.prefix+sid).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("redis read credentials: %w", err)
	}
	return fields, nil
}

func (s *Store) Delete(ctx context.Context, sid string) error {
	if sid == "" {
		return nil // Nothing to delete
	}
	if err := s.client.Del(ctx, s.prefix+sid).Err(); err != nil {
		return fmt.Errorf("redis delete credentials: %w", err)
	}
	return nil
}
