package carousel

// Breakpoints maps a viewport width to the number of visible slots.
type Breakpoints struct {
	// NarrowBelow is the width under which Narrow slots are shown.
	NarrowBelow float64
	Narrow      int
	Wide        int
}

func DefaultBreakpoints() Breakpoints {
	return Breakpoints{NarrowBelow: 500, Narrow: 1, Wide: 3}
}

func (b Breakpoints) Slots(width float64) int {
	n := b.Wide
	if width < b.NarrowBelow {
		n = b.Narrow
	}
	if n < 1 {
		n = 1
	}
	return n
}
