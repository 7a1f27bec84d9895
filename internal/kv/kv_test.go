package kv

import (
	"context"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := b.Get(ctx, "tasks"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := b.Set(ctx, "tasks", `[{"id":"a"}]`); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := b.Set(ctx, "tasks", `[]`); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := b.Get(ctx, "tasks")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if v != `[]` {
		t.Fatalf("expected overwritten value, got %q", v)
	}
}

func TestSQLiteBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "haru.db")
	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	exerciseBackend(t, s)
}

func TestSQLiteBackend_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "haru.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.Set(ctx, "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	v, ok, err := s.Get(ctx, "k")
	if err != nil || !ok || v != "v1" {
		t.Fatalf("expected v1 after reopen, got %q ok=%v err=%v", v, ok, err)
	}
}

func TestRedisBackend(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	b, err := OpenRedis(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)

	if ttl := mr.TTL("tasks"); ttl != 0 {
		t.Fatalf("expected no expiry, got %v", ttl)
	}
}

func TestRedisBackend_WrapsClient(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedis(client)
	t.Cleanup(func() { _ = b.Close() })
	exerciseBackend(t, b)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemory())
}

func TestOpen_UnknownBackend(t *testing.T) {
	if _, err := Open(context.Background(), Options{Backend: "etcd"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestParseConnString(t *testing.T) {
	opts := parseConnString("cache:6380,password=secret,ssl=true")
	if opts.Addr != "cache:6380" || opts.Password != "secret" || opts.TLSConfig == nil {
		t.Fatalf("unexpected options: addr=%q password=%q tls=%v", opts.Addr, opts.Password, opts.TLSConfig != nil)
	}
}
