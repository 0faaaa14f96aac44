package form

import (
	"context"
	"errors"
	"strings"
	"testing"

	"taskloop/internal/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	op string
	id int64
	in task.Input
}

type fakeSubmitter struct {
	calls []call
	err   error
}

func (f *fakeSubmitter) Create(_ context.Context, in task.Input) (task.Task, error) {
	f.calls = append(f.calls, call{op: "create", in: in})
	if f.err != nil {
		return task.Task{}, f.err
	}
	return task.Task{ID: 7, Title: in.Title, Description: in.Description, Priority: in.Priority}, nil
}

func (f *fakeSubmitter) Update(_ context.Context, id int64, in task.Input) (task.Task, error) {
	f.calls = append(f.calls, call{op: "update", id: id, in: in})
	if f.err != nil {
		return task.Task{}, f.err
	}
	return task.Task{ID: id, Title: in.Title, Description: in.Description, Priority: in.Priority, Completed: *in.Completed}, nil
}

func TestController_DefaultsToMediumPriority(t *testing.T) {
	c := NewController(&fakeSubmitter{})
	assert.Equal(t, task.PriorityMedium, c.Draft().Priority)
	assert.Nil(t, c.Editing())
}

func TestController_SubmitCreateTrimsAndResets(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewController(sub)
	c.SetDraft(Draft{Title: "  Buy milk ", Description: " 2% milk ", Priority: task.PriorityLow})

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), saved.ID)

	require.Len(t, sub.calls, 1)
	assert.Equal(t, "create", sub.calls[0].op)
	assert.Equal(t, "Buy milk", sub.calls[0].in.Title)
	assert.Equal(t, "2% milk", sub.calls[0].in.Description)
	assert.Nil(t, sub.calls[0].in.Completed)

	assert.Equal(t, emptyDraft(), c.Draft())
	assert.Empty(t, c.Err())
}

func TestController_InvalidDraftSubmitsNothing(t *testing.T) {
	tests := []struct {
		name  string
		draft Draft
		want  string
	}{
		{"blank title", Draft{Title: " ", Description: "d", Priority: task.PriorityLow}, task.MsgRequired},
		{"long title", Draft{Title: strings.Repeat("x", 26), Description: "d", Priority: task.PriorityLow}, task.MsgTitleTooLong},
		{"long description", Draft{Title: "t", Description: strings.Repeat("x", 201), Priority: task.PriorityLow}, task.MsgDescriptionTooLong},
		{"bad priority", Draft{Title: "t", Description: "d", Priority: "asap"}, task.MsgPriorityInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			sub := &fakeSubmitter{}
			c := NewController(sub)
			c.SetDraft(tc.draft)

			_, err := c.Submit(context.Background())
			require.Error(t, err)
			assert.True(t, IsValidation(err))
			assert.Equal(t, tc.want, c.Err())
			assert.Empty(t, sub.calls)
			assert.Equal(t, tc.draft, c.Draft(), "draft kept for correction")
		})
	}
}

func TestController_EditCarriesCompleted(t *testing.T) {
	sub := &fakeSubmitter{}
	c := NewController(sub)
	c.Edit(task.Task{ID: 3, Title: "Old", Description: "desc", Priority: task.PriorityHigh, Completed: true})

	require.NotNil(t, c.Editing())
	assert.Equal(t, "Old", c.Draft().Title)

	d := c.Draft()
	d.Title = "New"
	c.SetDraft(d)

	saved, err := c.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), saved.ID)
	require.Len(t, sub.calls, 1)
	assert.Equal(t, "update", sub.calls[0].op)
	require.NotNil(t, sub.calls[0].in.Completed)
	assert.True(t, *sub.calls[0].in.Completed)
	assert.Nil(t, c.Editing(), "successful update leaves edit mode")
}

func TestController_SubmitterErrorSurfaces(t *testing.T) {
	sub := &fakeSubmitter{err: errors.New("Task not found")}
	c := NewController(sub)
	c.Edit(task.Task{ID: 99, Title: "t", Description: "d", Priority: task.PriorityLow})

	_, err := c.Submit(context.Background())
	require.Error(t, err)
	assert.False(t, IsValidation(err))
	assert.Equal(t, "Task not found", c.Err())
	assert.NotNil(t, c.Editing())
}

func TestController_Cancel(t *testing.T) {
	c := NewController(&fakeSubmitter{})
	c.Edit(task.Task{ID: 1, Title: "t", Description: "d", Priority: task.PriorityHigh})
	c.Cancel()

	assert.Nil(t, c.Editing())
	assert.Equal(t, emptyDraft(), c.Draft())
}
