// Package form holds the draft state of the create/edit task form and checks
// it against the same rules the server enforces before anything is sent.
package form

import (
	"context"
	"errors"

	"taskloop/internal/task"
)

// Submitter persists a validated draft. The transport client and the session
// both satisfy it.
type Submitter interface {
	Create(ctx context.Context, in task.Input) (task.Task, error)
	Update(ctx context.Context, id int64, in task.Input) (task.Task, error)
}

type Draft struct {
	Title       string
	Description string
	Priority    task.Priority
}

func emptyDraft() Draft {
	return Draft{Priority: task.PriorityMedium}
}

type Controller struct {
	submitter Submitter
	draft     Draft
	editing   *task.Task
	err       string
}

func NewController(s Submitter) *Controller {
	return &Controller{submitter: s, draft: emptyDraft()}
}

func (c *Controller) Draft() Draft { return c.draft }

func (c *Controller) SetDraft(d Draft) { c.draft = d }

// Editing returns the task being edited, or nil in create mode.
func (c *Controller) Editing() *task.Task {
	if c.editing == nil {
		return nil
	}
	t := *c.editing
	return &t
}

// Err is the message shown under the form, empty when the last submit passed.
func (c *Controller) Err() string { return c.err }

// Edit loads an existing task into the draft.
func (c *Controller) Edit(t task.Task) {
	c.editing = &t
	c.draft = Draft{Title: t.Title, Description: t.Description, Priority: t.Priority}
	c.err = ""
}

// Cancel leaves edit mode and clears the draft.
func (c *Controller) Cancel() {
	c.editing = nil
	c.draft = emptyDraft()
	c.err = ""
}

func (c *Controller) input() task.Input {
	in := task.Input{
		Title:       c.draft.Title,
		Description: c.draft.Description,
		Priority:    c.draft.Priority,
	}.Normalized()
	if c.editing != nil {
		completed := c.editing.Completed
		in.Completed = &completed
	}
	return in
}

// Submit validates the draft and sends it as a create or an update. On a
// validation failure nothing is sent and the first violated rule is returned.
func (c *Controller) Submit(ctx context.Context) (task.Task, error) {
	in := c.input()
	if err := task.ValidateCreate(in); err != nil {
		c.err = err.Error()
		return task.Task{}, err
	}

	var (
		saved task.Task
		err   error
	)
	if c.editing != nil {
		saved, err = c.submitter.Update(ctx, c.editing.ID, in)
	} else {
		saved, err = c.submitter.Create(ctx, in)
	}
	if err != nil {
		c.err = err.Error()
		return task.Task{}, err
	}

	c.Cancel()
	return saved, nil
}

// IsValidation reports whether err came from the local rule check.
func IsValidation(err error) bool {
	var verr *task.ValidationError
	return errors.As(err, &verr)
}
