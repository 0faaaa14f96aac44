// Package tui renders the task carousel in the terminal. The carousel engine
// owns the looping state; this package applies its transforms and reports
// transition completion back to it.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskloop/internal/carousel"
	"taskloop/internal/events"
	"taskloop/internal/query"
	"taskloop/internal/session"
	"taskloop/internal/task"
)

// PixelsPerColumn converts terminal columns to the pixel widths the
// carousel breakpoints are expressed in.
const PixelsPerColumn = 8

const defaultTickInterval = time.Second

type Options struct {
	Context  context.Context
	Carousel carousel.Options
	// TickInterval paces the lock-timeout check.
	TickInterval time.Duration
}

type Model struct {
	ctx    context.Context
	sess   *session.Session
	engine *carousel.Engine[task.Task]
	tick   time.Duration

	width, height int
	last          carousel.Transform
	stepSeq       int

	searching bool
	input     string
	status    string
	busy      bool
	quitting  bool
}

// RemoteChangeMsg tells the model another client changed the task list.
type RemoteChangeMsg struct {
	Event events.Event
}

type refreshedMsg struct {
	err error
}

type mutatedMsg struct {
	op   string
	task task.Task
	err  error
}

type transitionEndMsg struct {
	seq int
}

type lockTickMsg struct{}

func New(sess *session.Session, opts Options) Model {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = defaultTickInterval
	}
	const initialColumns = 80
	return Model{
		ctx:    opts.Context,
		sess:   sess,
		engine: carousel.New(sess.Tasks(), initialColumns*PixelsPerColumn, opts.Carousel),
		tick:   opts.TickInterval,
		width:  initialColumns,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.lockTick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.last = m.engine.Resize(float64(msg.Width * PixelsPerColumn))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)

	case refreshedMsg:
		m.busy = false
		m.reload()
		return m, nil

	case mutatedMsg:
		m.busy = false
		if msg.err == nil {
			m.status = statusFor(msg.op, msg.task)
			m.reload()
		} else {
			m.status = ""
		}
		return m, nil

	case RemoteChangeMsg:
		cmd := m.refresh()
		return m, cmd

	case transitionEndMsg:
		if msg.seq != m.stepSeq {
			return m, nil
		}
		if t, jumped := m.engine.TransitionEnd(carousel.SourceTrack); jumped {
			m.last = t
		}
		return m, nil

	case lockTickMsg:
		if t, settled := m.engine.Tick(); settled {
			m.last = t
		}
		return m, m.lockTick()
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		return m.step(carousel.Backward)
	case "right", "l":
		return m.step(carousel.Forward)
	case "f":
		m.sess.SetFilter(next(query.Filters, m.sess.Filter()))
		cmd := m.refresh()
		return m, cmd
	case "s":
		m.sess.SetSort(next(query.SortKeys, m.sess.Sort()))
		cmd := m.refresh()
		return m, cmd
	case "/":
		m.searching = true
		m.input = m.sess.Search()
		return m, nil
	case "r":
		cmd := m.refresh()
		return m, cmd
	case " ", "t":
		if t, ok := m.Focused(); ok {
			cmd := m.mutate("toggle", func(ctx context.Context) (task.Task, error) {
				return m.sess.Toggle(ctx, t.ID)
			})
			return m, cmd
		}
	case "d", "delete":
		if t, ok := m.Focused(); ok {
			cmd := m.mutate("delete", func(ctx context.Context) (task.Task, error) {
				return m.sess.Delete(ctx, t.ID)
			})
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.input = ""
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.sess.SetSearch(m.input)
		cmd := m.refresh()
		return m, cmd
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
		return m, nil
	case tea.KeySpace:
		m.input += " "
		return m, nil
	case tea.KeyRunes:
		m.input += string(msg.Runes)
		return m, nil
	}
	return m, nil
}

func (m Model) step(dir carousel.Direction) (tea.Model, tea.Cmd) {
	t, ok := m.engine.Step(dir)
	if !ok {
		return m, nil
	}
	m.last = t
	m.stepSeq++
	seq := m.stepSeq
	return m, tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return transitionEndMsg{seq: seq}
	})
}

// reload hands the session's list to the engine, which returns to its origin.
func (m *Model) reload() {
	m.last = m.engine.SetItems(m.sess.Tasks())
	m.stepSeq++
}

func (m *Model) refresh() tea.Cmd {
	m.busy = true
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		return refreshedMsg{err: sess.Refresh(ctx)}
	}
}

func (m *Model) mutate(op string, fn func(context.Context) (task.Task, error)) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		t, err := fn(ctx)
		return mutatedMsg{op: op, task: t, err: err}
	}
}

func (m Model) lockTick() tea.Cmd {
	return tea.Tick(m.tick, func(time.Time) tea.Msg { return lockTickMsg{} })
}

// Focused is the card actions apply to: the middle of the visible window.
func (m Model) Focused() (task.Task, bool) {
	win := m.engine.Window()
	if len(win) == 0 {
		return task.Task{}, false
	}
	i := m.engine.Visible() / 2
	if i >= len(win) {
		i = len(win) - 1
	}
	return win[i], true
}

func (m Model) Engine() *carousel.Engine[task.Task] { return m.engine }

func next[T comparable](all []T, cur T) T {
	for i, v := range all {
		if v == cur {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}

func statusFor(op string, t task.Task) string {
	switch op {
	case "toggle":
		if t.Completed {
			return "Completed: " + t.Title
		}
		return "Reopened: " + t.Title
	case "delete":
		return "Deleted: " + t.Title
	default:
		return ""
	}
}
