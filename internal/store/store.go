// Package store persists the task set as one JSON document under a single
// key of a kv.Backend.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/charmbracelet/log"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"haru/internal/kv"
	"haru/internal/task"
)

//go:embed schema/tasks.json
var tasksSchema string

const schemaURL = "haru://schema/tasks.json"

var errNoData = errors.New("no stored tasks")

// numberAPI keeps numbers as json.Number so schema checks see exact integers.
var numberAPI = sonic.Config{UseNumber: true}.Froze()

type Store struct {
	backend kv.Backend
	key     string
	schema  *jsonschema.Schema
	logger  *log.Logger
}

func New(backend kv.Backend, key string, logger *log.Logger) (*Store, error) {
	if backend == nil {
		return nil, errors.New("store: backend is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, errors.New("store: key is empty")
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(tasksSchema)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Store{backend: backend, key: key, schema: schema, logger: logger}, nil
}

// Load returns the stored tasks. Any failure to read or decode the stored
// value yields an empty set.
func (s *Store) Load(ctx context.Context) []task.Task {
	tasks, err := s.load(ctx)
	if err != nil {
		if !errors.Is(err, errNoData) {
			s.logger.Debug("discarding stored tasks", "key", s.key, "err", err)
		}
		return []task.Task{}
	}
	return tasks
}

func (s *Store) load(ctx context.Context) ([]task.Task, error) {
	raw, ok, err := s.backend.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, errNoData
	}
	return Decode([]byte(raw), s.schema)
}

// Save overwrites the stored value with tasks.
func (s *Store) Save(ctx context.Context, tasks []task.Task) error {
	if tasks == nil {
		tasks = []task.Task{}
	}
	data, err := sonic.ConfigStd.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode tasks: %w", err)
	}
	if err := s.backend.Set(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Decode parses a stored document, rejecting anything that does not match
// the task record schema.
func Decode(data []byte, schema *jsonschema.Schema) ([]task.Task, error) {
	var doc any
	if err := numberAPI.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if schema != nil {
		if err := schema.Validate(doc); err != nil {
			return nil, fmt.Errorf("validate: %w", err)
		}
	}
	var tasks []task.Task
	if err := sonic.ConfigStd.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	return tasks, nil
}
