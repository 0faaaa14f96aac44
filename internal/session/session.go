// Package session holds the client-side view of the task list: the active
// filter, search and sort, the last fetched tasks and the error shown to the
// user. The server stays the source of truth; every mutation is followed by a
// full refetch.
package session

import (
	"context"
	"strings"
	"sync"

	"taskloop/internal/query"
	"taskloop/internal/task"
)

const MsgFetchFailed = "Failed to fetch tasks"

// Backend is the transport the session drives. *client.Client implements it.
type Backend interface {
	List(ctx context.Context, opts query.Options) ([]task.Task, error)
	Create(ctx context.Context, in task.Input) (task.Task, error)
	Update(ctx context.Context, id int64, in task.Input) (task.Task, error)
	Toggle(ctx context.Context, id int64) (task.Task, error)
	Delete(ctx context.Context, id int64) (task.Task, error)
}

// Session is safe for concurrent use; fetches may complete out of order and
// only the most recently started one is applied.
type Session struct {
	backend Backend

	mu     sync.Mutex
	filter query.Filter
	search string
	sort   query.SortKey
	tasks  []task.Task
	err    string
	gen    uint64
}

func New(b Backend) *Session {
	return &Session{backend: b, filter: query.FilterAll, tasks: []task.Task{}}
}

func (s *Session) Filter() query.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

func (s *Session) SetFilter(f query.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

func (s *Session) Search() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.search
}

func (s *Session) SetSearch(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.search = term
}

func (s *Session) Sort() query.SortKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sort
}

func (s *Session) SetSort(k query.SortKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sort = k
}

// Options is the query the next fetch sends.
func (s *Session) Options() query.Options {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.optionsLocked()
}

func (s *Session) optionsLocked() query.Options {
	return query.Options{
		Completed: s.filter.Completed(),
		Search:    strings.TrimSpace(s.search),
		Sort:      s.sort,
	}
}

// Tasks returns a copy of the last applied list.
func (s *Session) Tasks() []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]task.Task(nil), s.tasks...)
}

// Err is the message to display, empty when the last operation succeeded.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) ClearErr() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// BeginFetch starts a fetch and returns its generation and query.
func (s *Session) BeginFetch() (uint64, query.Options) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	return s.gen, s.optionsLocked()
}

// ApplyFetch stores the outcome of fetch gen. It reports false and changes
// nothing when a newer fetch has started since.
func (s *Session) ApplyFetch(gen uint64, tasks []task.Task, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return false
	}
	if err != nil {
		s.err = MsgFetchFailed
		return true
	}
	s.tasks = append([]task.Task(nil), tasks...)
	s.err = ""
	return true
}

// Refresh refetches the list with the current options.
func (s *Session) Refresh(ctx context.Context) error {
	gen, opts := s.BeginFetch()
	tasks, err := s.backend.List(ctx, opts)
	s.ApplyFetch(gen, tasks, err)
	return err
}

func (s *Session) Create(ctx context.Context, in task.Input) (task.Task, error) {
	return s.mutate(ctx, func() (task.Task, error) { return s.backend.Create(ctx, in) })
}

func (s *Session) Update(ctx context.Context, id int64, in task.Input) (task.Task, error) {
	return s.mutate(ctx, func() (task.Task, error) { return s.backend.Update(ctx, id, in) })
}

func (s *Session) Toggle(ctx context.Context, id int64) (task.Task, error) {
	return s.mutate(ctx, func() (task.Task, error) { return s.backend.Toggle(ctx, id) })
}

func (s *Session) Delete(ctx context.Context, id int64) (task.Task, error) {
	return s.mutate(ctx, func() (task.Task, error) { return s.backend.Delete(ctx, id) })
}

// mutate runs op and refetches on success. A failed mutation surfaces the
// server's message and leaves the list untouched.
func (s *Session) mutate(ctx context.Context, op func() (task.Task, error)) (task.Task, error) {
	t, err := op()
	if err != nil {
		s.mu.Lock()
		s.err = err.Error()
		s.mu.Unlock()
		return task.Task{}, err
	}
	// the mutation stands even if the refetch fails; the fetch error is shown
	_ = s.Refresh(ctx)
	return t, nil
}
