// Package redisstore implements fiber.Storage on top of Redis.
package redisstore

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces session keys.
const DefaultPrefix = "jnu:sess:"

const scanBatch = 100

// Storage stores session blobs as plain Redis strings.
type Storage struct {
	client  redis.UniversalClient
	prefix  string
	timeout time.Duration
}

// Options configure New.
type Options struct {
	Addr     string
	Username string
	Password string
	DB       int
	Prefix   string
	Timeout  time.Duration
}

// New connects to Redis and pings it.
func New(opts Options) (*Storage, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Username: opts.Username,
		Password: opts.Password,
		DB:       opts.DB,
	})

	s := NewWithClient(client, opts.Prefix)
	if opts.Timeout > 0 {
		s.timeout = opts.Timeout
	}

	ctx, cancel := s.ctx()
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return s, nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client redis.UniversalClient, prefix string) *Storage {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Storage{
		client:  client,
		prefix:  prefix,
		timeout: 5 * time.Second,
	}
}

func (s *Storage) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.timeout)
}

// Get returns the value of key, nil when it does not exist.
func (s *Storage) Get(key string) ([]byte, error) {
	if key == "" {
		return nil, nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	val, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}

	return val, err
}

// Set stores val under key. A zero exp keeps the key forever.
func (s *Storage) Set(key string, val []byte, exp time.Duration) error {
	if key == "" || len(val) == 0 {
		return nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Set(ctx, s.prefix+key, val, exp).Err()
}

// Delete removes key.
func (s *Storage) Delete(key string) error {
	if key == "" {
		return nil
	}

	ctx, cancel := s.ctx()
	defer cancel()

	return s.client.Del(ctx, s.prefix+key).Err()
}

// Reset removes every key under the prefix.
func (s *Storage) Reset() error {
	ctx, cancel := s.ctx()
	defer cancel()

	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()

	var batch []string

	for iter.Next(ctx) {
		batch = append(batch, iter.Val())

		if len(batch) == scanBatch {
			if err := s.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}

			batch = batch[:0]
		}
	}

	if err := iter.Err(); err != nil {
		return err
	}

	if len(batch) > 0 {
		return s.client.Del(ctx, batch...).Err()
	}

	return nil
}

// Close closes the Redis client.
func (s *Storage) Close() error {
	return s.client.Close()
}
