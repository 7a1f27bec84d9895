package task

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store persists the whole record set.
type Store interface {
	Load(ctx context.Context) []Task
	Save(ctx context.Context, tasks []Task) error
}

// Repository owns the in-memory record set. Every mutation is followed by a
// full save of the set.
type Repository struct {
	mu    sync.Mutex
	store Store
	tasks []Task
	now   func() time.Time
	newID func() string
}

type Option func(*Repository)

func WithClock(now func() time.Time) Option {
	return func(r *Repository) { r.now = now }
}

func WithIDGenerator(gen func() string) Option {
	return func(r *Repository) { r.newID = gen }
}

// NewRepository loads the current record set from store.
func NewRepository(ctx context.Context, store Store, opts ...Option) *Repository {
	r := &Repository{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.tasks = store.Load(ctx)
	return r
}

func (r *Repository) Create(ctx context.Context, title, date string) (Task, error) {
	title, err := normalizeTitle(title)
	if err != nil {
		return Task{}, err
	}
	d, err := ParseDate(date)
	if err != nil {
		return Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	t := Task{
		ID:        r.newID(),
		Title:     title,
		Date:      FormatDate(d),
		Done:      false,
		CreatedAt: r.now().UnixMilli(),
	}
	r.tasks = append(r.tasks, t)
	return t, r.save(ctx)
}

// Update merges p into the task with the given id. Unknown ids are ignored.
func (r *Repository) Update(ctx context.Context, id string, p Patch) error {
	var title, date string
	if p.Title != nil {
		var err error
		if title, err = normalizeTitle(*p.Title); err != nil {
			return err
		}
	}
	if p.Date != nil {
		d, err := ParseDate(*p.Date)
		if err != nil {
			return err
		}
		date = FormatDate(d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	t := r.tasks[idx]
	if p.Title != nil {
		t.Title = title
	}
	if p.Date != nil {
		t.Date = date
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	r.tasks[idx] = t
	return r.save(ctx)
}

// Toggle flips done. Unknown ids are ignored.
func (r *Repository) Toggle(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	r.tasks[idx].Done = !r.tasks[idx].Done
	return r.save(ctx)
}

// Delete removes the task with the given id. Unknown ids are ignored.
func (r *Repository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return nil
	}
	r.tasks = slices.Delete(r.tasks, idx, idx+1)
	return r.save(ctx)
}

// List returns a copy of the record set in insertion order.
func (r *Repository) List() []Task {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.tasks)
}

func (r *Repository) Get(id string) (Task, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.indexOf(id)
	if idx < 0 {
		return Task{}, false
	}
	return r.tasks[idx], true
}

func (r *Repository) indexOf(id string) int {
	return slices.IndexFunc(r.tasks, func(t Task) bool { return t.ID == id })
}

func (r *Repository) save(ctx context.Context) error {
	if err := r.store.Save(ctx, slices.Clone(r.tasks)); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	return nil
}
