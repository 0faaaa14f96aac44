package page

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskloop/internal/query"
	"taskloop/internal/task"
)

func render(t *testing.T, tasks []task.Task, opts query.Options) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, BoardPage(tasks, opts).Render(context.Background(), &buf))
	return buf.String()
}

func TestBoardPage_TriplesTrackWhenLooping(t *testing.T) {
	tasks := task.DefaultSeed()
	html := render(t, tasks, query.Options{})

	assert.Equal(t, 3*len(tasks), strings.Count(html, `<article class="card`))
	assert.Contains(t, html, `data-origin="5"`)
	// origin 5 at 300px per slide
	assert.Contains(t, html, "translateX(-1500.00px)")
	assert.Contains(t, html, "transition: none")
	assert.Equal(t, len(tasks), strings.Count(html, "<li>"))
}

func TestBoardPage_StaticWhenFewTasks(t *testing.T) {
	tasks := task.DefaultSeed()[:2]
	html := render(t, tasks, query.Options{})

	assert.Equal(t, 2, strings.Count(html, `<article class="card`))
	assert.Contains(t, html, "translateX(0.00px)")
}

func TestBoardPage_EscapesUserText(t *testing.T) {
	tasks := []task.Task{{
		ID:          9,
		Title:       `<script>alert(1)</script>`,
		Description: `"quoted" & more`,
		CreatedAt:   time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		Priority:    task.PriorityHigh,
	}}
	html := render(t, tasks, query.Options{Search: `"><b>`})

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.Contains(t, html, "&amp; more")
	assert.NotContains(t, html, `value=""><b>"`)
}

func TestBoardPage_ToolbarReflectsOptions(t *testing.T) {
	done := true
	html := render(t, nil, query.Options{Completed: &done, Sort: query.SortTitleAsc})

	assert.Contains(t, html, "No tasks found.")
	assert.Contains(t, html, `<a href="/?completed=true&amp;sort=title_asc" class="active">Completed</a>`)
	assert.Contains(t, html, `<option value="title_asc" selected>`)
	assert.Contains(t, html, `<input type="hidden" name="completed" value="true">`)
}
