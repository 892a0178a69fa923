package reveal

import (
	"fmt"
	"html/template"
	"math"
	"time"
)

// Timing controls how animated values transition once revealed.
type Timing struct {
	Duration time.Duration
	Stagger  time.Duration
}

// DefaultTiming matches the skill bar transition of the site stylesheet.
var DefaultTiming = Timing{
	Duration: 800 * time.Millisecond,
	Stagger:  150 * time.Millisecond,
}

// Clamp bounds a percentage to [0,100]. NaN becomes 0.
func Clamp(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// Stagger returns the transition start offsets for n siblings rendered
// together: 0, step, 2*step, ...
func Stagger(n int, step time.Duration) []time.Duration {
	if n <= 0 {
		return nil
	}
	out := make([]time.Duration, n)
	for i := range out {
		out[i] = time.Duration(i) * step
	}
	return out
}

// AnimatedValue is a percentage that rests at 0 until its target enters,
// then transitions to the clamped target value.
type AnimatedValue struct {
	name   string
	target float64
	index  int
	timing Timing
	owner  *Target
}

// NewAnimatedValue binds a target percentage to the reveal target that
// drives it. index is the position among the siblings rendered with it.
func NewAnimatedValue(name string, target float64, index int, owner *Target, timing Timing) *AnimatedValue {
	if index < 0 {
		index = 0
	}
	return &AnimatedValue{
		name:   name,
		target: target,
		index:  index,
		timing: timing,
		owner:  owner,
	}
}

// Name returns the animated attribute's label.
func (a *AnimatedValue) Name() string { return a.name }

// Target returns the raw target value as supplied.
func (a *AnimatedValue) Target() float64 { return a.target }

// Entered reports whether the owning reveal target has entered. A value
// with no owner is always shown.
func (a *AnimatedValue) Entered() bool {
	return a.owner == nil || a.owner.Entered()
}

// Value is the currently rendered percentage.
func (a *AnimatedValue) Value() float64 {
	if !a.Entered() {
		return 0
	}
	return Clamp(a.target)
}

// Animates reports whether revealing the value produces a visible transition.
func (a *AnimatedValue) Animates() bool {
	return Clamp(a.target) > 0
}

// Delay is the transition start offset derived from the sibling index.
func (a *AnimatedValue) Delay() time.Duration {
	return time.Duration(a.index) * a.timing.Stagger
}

// Completion returns when the transition finishes for a reveal at start.
// Values that do not animate complete at start.
func (a *AnimatedValue) Completion(start time.Time) time.Time {
	if !a.Animates() {
		return start
	}
	return start.Add(a.Delay() + a.timing.Duration)
}

// Style renders the inline CSS for the bar fill. The resting width is 0%;
// the CSS variable carries the destination so the stylesheet can flip it
// when the owning section gets its visible class.
func (a *AnimatedValue) Style() template.CSS {
	final := Clamp(a.target)
	if !a.Animates() {
		return template.CSS("width: 0%")
	}
	return template.CSS(fmt.Sprintf(
		"--target: %s%%; width: %s%%; transition: width %dms ease-out %dms",
		formatPct(final),
		formatPct(a.Value()),
		a.timing.Duration.Milliseconds(),
		a.Delay().Milliseconds(),
	))
}

func formatPct(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%d", int(v))
	}
	return fmt.Sprintf("%.1f", v)
}
