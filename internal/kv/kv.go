// Package kv provides the string key-value backends task data is persisted in.
package kv

import (
	"context"
	"fmt"
	"strings"
)

// Backend is a durable string key-value store.
type Backend interface {
	// Get returns the stored value. ok is false when the key has never been set.
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

type Options struct {
	Backend  string
	DBPath   string
	RedisURL string
}

// Open returns the backend named by opts.Backend. An empty name selects SQLite.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case "", BackendSQLite:
		s, err := OpenSQLite(opts.DBPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		r, err := OpenRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
