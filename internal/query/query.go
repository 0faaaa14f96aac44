// Package query derives filtered, searched and sorted views of a task list.
// Nothing here mutates its input.
package query

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"taskloop/internal/task"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortNone      SortKey = ""
	SortDateAsc   SortKey = "date_asc"
	SortDateDesc  SortKey = "date_desc"
	SortTitleAsc  SortKey = "title_asc"
	SortTitleDesc SortKey = "title_desc"
)

// SortKeys lists the accepted sort keys in menu order.
var SortKeys = []SortKey{SortNone, SortDateDesc, SortDateAsc, SortTitleAsc, SortTitleDesc}

func (k SortKey) Valid() bool {
	return slices.Contains(SortKeys, k)
}

func (k SortKey) Label() string {
	switch k {
	case SortDateDesc:
		return "Newest first"
	case SortDateAsc:
		return "Oldest first"
	case SortTitleAsc:
		return "Title A-Z"
	case SortTitleDesc:
		return "Title Z-A"
	default:
		return "No sorting"
	}
}

// Filter is the completion tab selected in a UI.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

func (f Filter) Valid() bool {
	return slices.Contains(Filters, f)
}

// Completed maps the tab to the completed query parameter. FilterAll and
// unknown values mean no filter.
func (f Filter) Completed() *bool {
	switch f {
	case FilterCompleted:
		v := true
		return &v
	case FilterPending:
		v := false
		return &v
	default:
		return nil
	}
}

type Options struct {
	Completed *bool
	Search    string
	Sort      SortKey
}

// ParseValues reads completed, search and sort. Values other than "true" and
// "false" for completed are ignored, as are unknown sort keys.
func ParseValues(v url.Values) Options {
	var opts Options
	switch v.Get("completed") {
	case "true":
		c := true
		opts.Completed = &c
	case "false":
		c := false
		opts.Completed = &c
	}
	opts.Search = v.Get("search")
	if k := SortKey(v.Get("sort")); k.Valid() {
		opts.Sort = k
	}
	return opts
}

// Values encodes only the parameters that differ from their defaults.
func (o Options) Values() url.Values {
	v := url.Values{}
	if o.Completed != nil {
		v.Set("completed", strconv.FormatBool(*o.Completed))
	}
	if s := strings.TrimSpace(o.Search); s != "" {
		v.Set("search", s)
	}
	if o.Sort != SortNone {
		v.Set("sort", string(o.Sort))
	}
	return v
}

// Apply filters by completion, then by title search, then sorts. Sorting runs
// last so it only ever compares retained tasks.
func Apply(tasks []task.Task, opts Options) []task.Task {
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if opts.Completed != nil && t.Completed != *opts.Completed {
			continue
		}
		out = append(out, t)
	}

	if opts.Search != "" {
		out = slices.DeleteFunc(out, func(t task.Task) bool {
			return !containsFold(t.Title, opts.Search)
		})
	}

	sortTasks(out, opts.Sort)
	return out
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func sortTasks(tasks []task.Task, key SortKey) {
	switch key {
	case SortDateAsc:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		})
	case SortDateDesc:
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case SortTitleAsc, SortTitleDesc:
		// Collators keep internal buffers, so each sort gets its own.
		col := collate.New(language.English)
		slices.SortStableFunc(tasks, func(a, b task.Task) int {
			if key == SortTitleDesc {
				a, b = b, a
			}
			return col.CompareString(a.Title, b.Title)
		})
	}
}
