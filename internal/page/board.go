// Package page renders the server-side task board.
package page

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"taskloop/internal/carousel"
	"taskloop/internal/query"
	"taskloop/internal/task"
)

// ViewportWidth is the nominal carousel width the page lays slides out for.
const ViewportWidth = 900

type filterTab struct {
	filter query.Filter
	label  string
}

var tabs = []filterTab{
	{query.FilterAll, "All"},
	{query.FilterCompleted, "Completed"},
	{query.FilterPending, "Pending"},
}

// BoardPage renders tasks, already filtered and sorted with opts, as a
// carousel track positioned at its origin followed by a plain list.
func BoardPage(tasks []task.Task, opts query.Options) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!doctype html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<title>Tasks</title><link rel="stylesheet" href="/static/css/board.css"></head><body>`)
		b.WriteString(`<h1>Tasks</h1>`)

		writeToolbar(&b, opts)
		writeCarousel(&b, tasks)
		writeList(&b, tasks)

		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func writeToolbar(b *strings.Builder, opts query.Options) {
	b.WriteString(`<nav class="toolbar">`)
	for _, tab := range tabs {
		o := opts
		o.Completed = tab.filter.Completed()
		class := ""
		if sameFilter(opts.Completed, o.Completed) {
			class = ` class="active"`
		}
		fmt.Fprintf(b, `<a href="%s"%s>%s</a>`, templ.EscapeString(link(o)), class, tab.label)
	}

	b.WriteString(`<form method="get" action="/">`)
	if opts.Completed != nil {
		fmt.Fprintf(b, `<input type="hidden" name="completed" value="%t">`, *opts.Completed)
	}
	fmt.Fprintf(b, `<input type="search" name="search" placeholder="Search titles" value="%s">`, templ.EscapeString(opts.Search))
	b.WriteString(`<select name="sort">`)
	for _, k := range query.SortKeys {
		sel := ""
		if k == opts.Sort {
			sel = " selected"
		}
		fmt.Fprintf(b, `<option value="%s"%s>%s</option>`, templ.EscapeString(string(k)), sel, templ.EscapeString(k.Label()))
	}
	b.WriteString(`</select><button type="submit">Apply</button></form></nav>`)
}

func writeCarousel(b *strings.Builder, tasks []task.Task) {
	if len(tasks) == 0 {
		b.WriteString(`<p class="empty">No tasks found.</p>`)
		return
	}

	eng := carousel.New(tasks, ViewportWidth, carousel.Options{})
	transform, transition := eng.Current().CSS()
	width := eng.SlideWidth()

	b.WriteString(`<section class="carousel-viewport">`)
	fmt.Fprintf(b, `<div class="carousel-track" data-origin="%d" style="transform: %s; transition: %s">`,
		eng.Origin(), transform, transition)
	for _, t := range eng.Slides() {
		writeCard(b, t, width)
	}
	b.WriteString(`</div></section>`)
}

func writeCard(b *strings.Builder, t task.Task, width float64) {
	class := "card"
	if t.Completed {
		class += " completed"
	}
	fmt.Fprintf(b, `<article class="%s" style="width: %.2fpx" data-id="%d">`, class, width-8, t.ID)
	fmt.Fprintf(b, `<h3>%s</h3>`, templ.EscapeString(t.Title))
	fmt.Fprintf(b, `<span class="badge badge-%s">%s</span>`, templ.EscapeString(string(t.Priority)), templ.EscapeString(string(t.Priority)))
	fmt.Fprintf(b, `<p>%s</p>`, templ.EscapeString(t.Description))
	fmt.Fprintf(b, `<time datetime="%s">%s</time>`, t.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"), t.CreatedAt.Format("Jan 2, 2006"))
	b.WriteString(`</article>`)
}

func writeList(b *strings.Builder, tasks []task.Task) {
	if len(tasks) == 0 {
		return
	}
	b.WriteString(`<ul class="task-list">`)
	for _, t := range tasks {
		mark := "[ ]"
		if t.Completed {
			mark = "[x]"
		}
		fmt.Fprintf(b, `<li>%s %s</li>`, mark, templ.EscapeString(t.Title))
	}
	b.WriteString(`</ul>`)
}

func link(o query.Options) string {
	v := o.Values()
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

func sameFilter(a, b *bool) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
