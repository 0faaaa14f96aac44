package carousel

import (
	"time"

	"taskloop/internal/clock"
)

type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

type Phase int

const (
	Idle Phase = iota
	Animating
)

func (p Phase) String() string {
	if p == Animating {
		return "animating"
	}
	return "idle"
}

// Source identifies the element that emitted a transition-completion signal.
// Only the track's own transitions settle the engine; signals bubbling up from
// cards inside it are ignored.
type Source int

const (
	SourceTrack Source = iota
	SourceChild
)

type Options struct {
	Breakpoints Breakpoints
	Duration    time.Duration
	Easing      string
	// LockTimeout force-settles a step whose completion signal never arrived.
	// Zero means four times Duration; a negative value disables the fallback.
	LockTimeout time.Duration
	Clock       clock.Clock
}

func (o Options) withDefaults() Options {
	if o.Breakpoints == (Breakpoints{}) {
		o.Breakpoints = DefaultBreakpoints()
	}
	if o.Duration <= 0 {
		o.Duration = DefaultDuration
	}
	if o.Easing == "" {
		o.Easing = DefaultEasing
	}
	if o.LockTimeout == 0 {
		o.LockTimeout = 4 * o.Duration
	}
	o.Clock = clock.Or(o.Clock)
	return o
}

// Engine is the carousel state machine over items of type T.
type Engine[T any] struct {
	opts Options

	items    []T
	width    float64
	visible  int
	origin   int
	index    int
	phase    Phase
	lockedAt time.Time
}

// New builds an engine for items shown in a viewport of the given pixel width.
func New[T any](items []T, viewportWidth float64, opts Options) *Engine[T] {
	e := &Engine[T]{opts: opts.withDefaults()}
	e.width = viewportWidth
	e.visible = e.opts.Breakpoints.Slots(viewportWidth)
	e.reset(items)
	return e
}

func (e *Engine[T]) reset(items []T) {
	e.items = append([]T(nil), items...)
	e.origin = len(e.items)
	e.index = e.origin
	e.phase = Idle
	e.lockedAt = time.Time{}
}

func (e *Engine[T]) Len() int { return len(e.items) }
func (e *Engine[T]) Visible() int { return e.visible }
func (e *Engine[T]) Origin() int { return e.origin }
func (e *Engine[T]) Index() int { return e.index }
func (e *Engine[T]) Phase() Phase { return e.phase }
func (e *Engine[T]) Locked() bool { return e.phase == Animating }
func (e *Engine[T]) ViewportWidth() float64 { return e.width }

// Active reports whether looping is enabled. With no more items than visible
// slots everything is shown statically.
func (e *Engine[T]) Active() bool {
	return len(e.items) > e.visible
}

// Items returns a copy of the source sequence.
func (e *Engine[T]) Items() []T {
	return append([]T(nil), e.items...)
}

// Slides is the sequence the renderer lays out: three copies of the items when
// active, the items alone otherwise.
func (e *Engine[T]) Slides() []T {
	if !e.Active() {
		return e.Items()
	}
	n := len(e.items)
	out := make([]T, 0, 3*n)
	for i := 0; i < 3; i++ {
		out = append(out, e.items...)
	}
	return out
}

// SlideWidth is recomputed from the viewport on every call. Pixel offsets
// derived from it avoid the rounding drift of percentage transforms.
func (e *Engine[T]) SlideWidth() float64 {
	return e.width / float64(e.visible)
}

// Offset is the displayed position within the source sequence.
func (e *Engine[T]) Offset() int {
	n := len(e.items)
	if n == 0 || !e.Active() {
		return 0
	}
	return ((e.index-e.origin)%n + n) % n
}

// Window returns the items currently in view, left to right.
func (e *Engine[T]) Window() []T {
	if !e.Active() {
		return e.Items()
	}
	n := len(e.items)
	off := e.Offset()
	out := make([]T, 0, e.visible)
	for k := 0; k < e.visible; k++ {
		out = append(out, e.items[(off+k)%n])
	}
	return out
}

func (e *Engine[T]) transformTo(index int, animate bool) Transform {
	t := Transform{Index: index}
	if e.Active() {
		t.X = -float64(index) * e.SlideWidth()
	}
	if animate {
		t.Animate = true
		t.Duration = e.opts.Duration
		t.Easing = e.opts.Easing
	}
	return t
}

// Current is an instant transform to the current index.
func (e *Engine[T]) Current() Transform {
	return e.transformTo(e.index, false)
}

// Step starts an animated move of one slide. It returns false and does
// nothing while a step is in flight or when the carousel is inactive.
func (e *Engine[T]) Step(dir Direction) (Transform, bool) {
	e.expireLock()
	if e.Locked() || !e.Active() {
		return Transform{}, false
	}
	if dir != Forward && dir != Backward {
		return Transform{}, false
	}

	e.phase = Animating
	e.lockedAt = e.opts.Clock.Now()
	e.index += int(dir)
	return e.transformTo(e.index, true), true
}

// TransitionEnd settles a finished step. When the index drifted out of the
// middle copy it returns an instant transform back into it (jumped=true).
// The engine unlocks either way.
func (e *Engine[T]) TransitionEnd(src Source) (t Transform, jumped bool) {
	if src != SourceTrack || !e.Locked() {
		return Transform{}, false
	}
	return e.settle()
}

func (e *Engine[T]) settle() (Transform, bool) {
	defer e.unlock()

	n := len(e.items)
	if n == 0 || !e.Active() {
		return Transform{}, false
	}
	offset := ((e.index-e.origin)%n + n) % n
	norm := e.origin + offset
	if norm == e.index {
		return Transform{}, false
	}
	t := e.transformTo(norm, false)
	t.Reflow = true
	e.index = norm
	return t, true
}

func (e *Engine[T]) unlock() {
	e.phase = Idle
	e.lockedAt = time.Time{}
}

// Tick applies the lock-timeout fallback. Renderers that cannot guarantee a
// completion signal should call it periodically.
func (e *Engine[T]) Tick() (Transform, bool) {
	return e.expireLock()
}

func (e *Engine[T]) expireLock() (Transform, bool) {
	if !e.Locked() || e.opts.LockTimeout < 0 {
		return Transform{}, false
	}
	if e.opts.Clock.Now().Sub(e.lockedAt) < e.opts.LockTimeout {
		return Transform{}, false
	}
	return e.settle()
}

// SetItems replaces the source sequence, for example after a refetch. The
// engine returns to the origin of the new sequence and unlocks.
func (e *Engine[T]) SetItems(items []T) Transform {
	e.reset(items)
	return e.Current()
}

// Resize recomputes the visible slot count for a new viewport width and
// repositions instantly. A step in flight is settled first because the
// instant jump cancels its transition. If the slot change switches looping
// on or off the engine returns to the origin.
func (e *Engine[T]) Resize(viewportWidth float64) Transform {
	wasActive := e.Active()
	if e.Locked() {
		e.settle()
	}

	e.width = viewportWidth
	e.visible = e.opts.Breakpoints.Slots(viewportWidth)
	if e.Active() != wasActive {
		e.index = e.origin
	}
	return e.Current()
}
