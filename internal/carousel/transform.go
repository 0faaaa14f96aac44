package carousel

import (
	"fmt"
	"time"
)

const (
	DefaultDuration = 500 * time.Millisecond
	DefaultEasing   = "ease"
)

// Transform is the visual position the renderer must move the track to.
type Transform struct {
	// Index is the slide the track's left edge lands on.
	Index int
	// X is the horizontal translation in pixels. It is zero or negative.
	X float64
	// Animate selects an eased transition; false means an instant jump.
	Animate  bool
	Duration time.Duration
	Easing   string
	// Reflow asks the renderer to flush layout right after applying an instant
	// jump, before any later transform can be observed.
	Reflow bool
}

// CSS renders the transform and transition as inline style declarations.
func (t Transform) CSS() (transform, transition string) {
	transform = fmt.Sprintf("translateX(%.2fpx)", t.X)
	if !t.Animate {
		return transform, "none"
	}
	return transform, fmt.Sprintf("transform %.3gs %s", t.Duration.Seconds(), t.Easing)
}
