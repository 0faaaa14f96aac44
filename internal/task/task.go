package task

import (
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists the accepted priorities in display order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

type Task struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"createdAt"`
	Priority    Priority  `json:"priority"`
}

// Input carries the user-supplied fields of a create or update request.
// Completed is only read on update; nil means the field was absent.
type Input struct {
	Title       string   `json:"title" validate:"required,max=25"`
	Description string   `json:"description" validate:"required,max=200"`
	Priority    Priority `json:"priority" validate:"oneof=low medium high"`
	Completed   *bool    `json:"completed,omitempty"`
}

// Normalized returns a copy with title and description trimmed.
func (in Input) Normalized() Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func newTask(id int64, in Input, now time.Time) Task {
	return Task{
		ID:          id,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   now,
		Priority:    in.Priority,
	}
}

// apply replaces every mutable field. ID and CreatedAt are left alone.
func (t *Task) apply(in Input) {
	t.Title = in.Title
	t.Description = in.Description
	t.Priority = in.Priority
	if in.Completed != nil {
		t.Completed = *in.Completed
	}
}

func (t *Task) Toggle() {
	t.Completed = !t.Completed
}

// Input returns the task's mutable fields as an update payload.
func (t Task) Input() Input {
	completed := t.Completed
	return Input{
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   &completed,
	}
}
