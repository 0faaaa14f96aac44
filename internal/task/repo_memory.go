package task

import (
	"context"
	"sync"
	"sync/atomic"

	"taskloop/internal/clock"
)

// MemoryRepo keeps tasks in insertion order. Nothing survives a restart.
type MemoryRepo struct {
	mu     sync.RWMutex
	tasks  []Task
	nextID atomic.Int64
	clock  clock.Clock
}

func NewMemoryRepo(c clock.Clock) *MemoryRepo {
	return &MemoryRepo{
		tasks: make([]Task, 0),
		clock: clock.Or(c),
	}
}

// Seed appends fixed tasks and moves the id counter past the largest seeded id.
func (r *MemoryRepo) Seed(ctx context.Context, tasks []Task) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, t := range tasks {
		if r.indexOf(t.ID) >= 0 {
			continue
		}
		r.tasks = append(r.tasks, t)
		if t.ID > r.nextID.Load() {
			r.nextID.Store(t.ID)
		}
	}
	return nil
}

func (r *MemoryRepo) indexOf(id int64) int {
	for i, t := range r.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (r *MemoryRepo) List(ctx context.Context) ([]Task, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, len(r.tasks))
	copy(out, r.tasks)
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id int64) (Task, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	return r.tasks[i], nil
}

func (r *MemoryRepo) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tasks)
}

func (r *MemoryRepo) Create(ctx context.Context, in Input) (Task, error) {
	_ = ctx

	in = in.Normalized()
	if err := ValidateCreate(in); err != nil {
		return Task{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	t := newTask(r.nextID.Add(1), in, r.clock.Now())
	r.tasks = append(r.tasks, t)
	return t, nil
}

func (r *MemoryRepo) Update(ctx context.Context, id int64, in Input) (Task, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}

	in = in.Normalized()
	if err := ValidateUpdate(in); err != nil {
		return Task{}, err
	}

	t := r.tasks[i]
	t.apply(in)
	r.tasks[i] = t
	return t, nil
}

func (r *MemoryRepo) Toggle(ctx context.Context, id int64) (Task, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	r.tasks[i].Toggle()
	return r.tasks[i], nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id int64) (Task, error) {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return Task{}, &NotFoundError{ID: id}
	}
	removed := r.tasks[i]
	r.tasks = append(r.tasks[:i], r.tasks[i+1:]...)
	return removed, nil
}
