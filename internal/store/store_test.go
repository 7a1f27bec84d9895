package store

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"haru/internal/kv"
	"haru/internal/task"
)

const testKey = "pastel_todo_items_v1"

func newTestStore(t *testing.T, backend kv.Backend) *Store {
	t.Helper()
	s, err := New(backend, testKey, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestStore_RoundTrip(t *testing.T) {
	backend, err := kv.OpenSQLite(filepath.Join(t.TempDir(), "haru.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = backend.Close() })
	s := newTestStore(t, backend)
	ctx := context.Background()

	want := []task.Task{
		{ID: "a", Title: "Pay rent", Date: "2024-03-05", Done: true, CreatedAt: 1709600000123},
		{ID: "b", Title: "Call mom", Date: "2024-03-06", CreatedAt: 1709600000456},
	}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got := s.Load(ctx)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestStore_SavesWireFormat(t *testing.T) {
	backend := kv.NewMemory()
	s := newTestStore(t, backend)
	ctx := context.Background()

	if err := s.Save(ctx, []task.Task{{ID: "a", Title: "x", Date: "2024-03-05", CreatedAt: 7}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, ok, _ := backend.Get(ctx, testKey)
	if !ok {
		t.Fatalf("expected value under %s", testKey)
	}
	for _, field := range []string{`"id":"a"`, `"title":"x"`, `"date":"2024-03-05"`, `"done":false`, `"createdAt":7`} {
		if !strings.Contains(raw, field) {
			t.Fatalf("expected %s in %s", field, raw)
		}
	}

	if err := s.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if raw, _, _ := backend.Get(ctx, testKey); raw != "[]" {
		t.Fatalf("expected empty array, got %q", raw)
	}
}

func TestStore_LoadFailsSoft(t *testing.T) {
	for _, tc := range []struct {
		name string
		raw  string
	}{
		{"not json", "this is not json"},
		{"truncated", `[{"id":"a","title":"x"`},
		{"object instead of array", `{"id":"a"}`},
		{"null", `null`},
		{"missing date", `[{"id":"a","title":"x","done":false,"createdAt":1}]`},
		{"bad date format", `[{"id":"a","title":"x","date":"03/05/2024","done":false,"createdAt":1}]`},
		{"fractional createdAt", `[{"id":"a","title":"x","date":"2024-03-05","done":false,"createdAt":1.5}]`},
	} {
		t.Run(tc.name, func(t *testing.T) {
			backend := kv.NewMemory()
			ctx := context.Background()
			if err := backend.Set(ctx, testKey, tc.raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
			var buf bytes.Buffer
			logger := log.New(&buf)
			logger.SetLevel(log.DebugLevel)
			s, err := New(backend, testKey, logger)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			got := s.Load(ctx)
			if got == nil || len(got) != 0 {
				t.Fatalf("expected empty non-nil set, got %#v", got)
			}
			if !strings.Contains(buf.String(), "discarding stored tasks") {
				t.Fatalf("expected debug log entry, got %q", buf.String())
			}
		})
	}
}

func TestStore_LoadMissingKeyIsEmpty(t *testing.T) {
	s := newTestStore(t, kv.NewMemory())
	if got := s.Load(context.Background()); len(got) != 0 {
		t.Fatalf("expected empty set, got %+v", got)
	}
}

type failingBackend struct{ kv.Memory }

func (failingBackend) Get(context.Context, string) (string, bool, error) {
	return "", false, errors.New("backend down")
}

func (failingBackend) Set(context.Context, string, string) error {
	return errors.New("backend down")
}

func TestStore_BackendErrors(t *testing.T) {
	s := newTestStore(t, &failingBackend{})
	ctx := context.Background()
	if got := s.Load(ctx); len(got) != 0 {
		t.Fatalf("expected empty set on read failure, got %+v", got)
	}
	if err := s.Save(ctx, []task.Task{}); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestStore_WithRepository(t *testing.T) {
	backend := kv.NewMemory()
	s := newTestStore(t, backend)
	ctx := context.Background()

	repo := task.NewRepository(ctx, s)
	created, err := repo.Create(ctx, "Pay rent", "2024-03-05")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.Toggle(ctx, created.ID); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	reloaded := task.NewRepository(ctx, newTestStore(t, backend))
	got, ok := reloaded.Get(created.ID)
	if !ok || !got.Done || got.Title != "Pay rent" {
		t.Fatalf("expected persisted done task, got %+v ok=%v", got, ok)
	}
}

func TestNew_Validates(t *testing.T) {
	if _, err := New(nil, testKey, nil); err == nil {
		t.Fatalf("expected error for nil backend")
	}
	if _, err := New(kv.NewMemory(), " ", nil); err == nil {
		t.Fatalf("expected error for empty key")
	}
}
