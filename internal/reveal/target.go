package reveal

import (
	"fmt"
	"sync"
)

// State is the lifecycle position of a Target.
type State int

const (
	Unobserved State = iota
	Observing
	Entered
)

func (s State) String() string {
	switch s {
	case Unobserved:
		return "unobserved"
	case Observing:
		return "observing"
	case Entered:
		return "entered"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Target is one revealable region. Entered never reverts.
type Target struct {
	el        Element
	threshold float64

	mu        sync.Mutex
	state     State
	sub       Subscription
	torn      bool
	listeners []func()
}

// NewTarget creates an unobserved target. The threshold is the fraction of
// the element that must be visible and is clamped to [0,1].
func NewTarget(el Element, threshold float64) *Target {
	switch {
	case threshold < 0 || threshold != threshold:
		threshold = 0
	case threshold > 1:
		threshold = 1
	}
	return &Target{el: el, threshold: threshold}
}

// Element returns the observed element.
func (t *Target) Element() Element { return t.el }

// Threshold returns the visibility fraction required to enter.
func (t *Target) Threshold() float64 { return t.threshold }

// State returns the current lifecycle state.
func (t *Target) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Entered reports whether the target has been revealed.
func (t *Target) Entered() bool {
	return t.State() == Entered
}

// OnEnter registers fn to run once when the target enters. If it already
// has, fn runs immediately.
func (t *Target) OnEnter(fn func()) {
	t.mu.Lock()
	if t.state == Entered {
		t.mu.Unlock()
		fn()
		return
	}
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Mount starts observing the element through src. A nil src, or one that
// cannot observe, reveals the target immediately. Mount on a target that is
// already mounted or torn down does nothing.
func (t *Target) Mount(src Source) {
	t.mu.Lock()
	if t.state != Unobserved || t.torn {
		t.mu.Unlock()
		return
	}
	t.state = Observing
	t.mu.Unlock()

	if src == nil {
		t.enter()
		return
	}
	sub, err := src.Observe(t.el, t.handle)
	if err != nil || sub == nil {
		t.enter()
		return
	}

	t.mu.Lock()
	if t.state == Observing && !t.torn {
		t.sub = sub
		t.mu.Unlock()
		return
	}
	t.mu.Unlock()
	// entered during Observe, or unmounted concurrently
	sub.Close()
}

// Unmount tears the target down. A target that has not entered yet stays
// not-entered for good; an entered one stays entered.
func (t *Target) Unmount() {
	t.mu.Lock()
	if t.torn {
		t.mu.Unlock()
		return
	}
	t.torn = true
	sub := t.sub
	t.sub = nil
	if t.state == Observing {
		t.state = Unobserved
	}
	t.listeners = nil
	t.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
}

func (t *Target) handle(e Entry) {
	if !e.Intersecting || e.Ratio < t.threshold {
		return
	}
	t.enter()
}

func (t *Target) enter() {
	t.mu.Lock()
	if t.state != Observing || t.torn {
		t.mu.Unlock()
		return
	}
	t.state = Entered
	sub := t.sub
	t.sub = nil
	listeners := t.listeners
	t.listeners = nil
	t.mu.Unlock()

	if sub != nil {
		sub.Close()
	}
	for _, fn := range listeners {
		fn()
	}
}
