package reveal

import (
	"math"
	"sync"
)

// Rect is the vertical extent of an element in page coordinates.
type Rect struct {
	Top    float64
	Height float64
}

// Bottom returns the page offset of the element's lower edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Viewport is an in-process intersection source: a window of fixed height
// scrolled over elements laid out on a page. Callbacks run on the goroutine
// that scrolls, outside the viewport's lock.
type Viewport struct {
	mu        sync.Mutex
	height    float64
	scrollY   float64
	layout    map[Element]Rect
	observers []*observation
	scrollers []*scrollObserver
}

type observation struct {
	el     Element
	fn     func(Entry)
	closed bool
}

type scrollObserver struct {
	fn     func(y float64)
	closed bool
}

// NewViewport creates a viewport of the given height scrolled to the top.
func NewViewport(height float64) *Viewport {
	if height < 0 {
		height = 0
	}
	return &Viewport{
		height: height,
		layout: make(map[Element]Rect),
	}
}

// Place records where el sits on the page.
func (v *Viewport) Place(el Element, r Rect) {
	v.mu.Lock()
	v.layout[el] = r
	v.mu.Unlock()
}

// Height returns the viewport height.
func (v *Viewport) Height() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.height
}

// ScrollY returns the current scroll offset.
func (v *Viewport) ScrollY() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.scrollY
}

// Ratio returns the visible fraction of el at the current scroll offset.
// Unplaced elements are never visible.
func (v *Viewport) Ratio(el Element) float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	e := v.entryLocked(el)
	return e.Ratio
}

func (v *Viewport) entryLocked(el Element) Entry {
	r, ok := v.layout[el]
	if !ok {
		return Entry{Element: el}
	}
	top := math.Max(r.Top, v.scrollY)
	bottom := math.Min(r.Bottom(), v.scrollY+v.height)
	if bottom < top {
		return Entry{Element: el}
	}
	if r.Height <= 0 {
		return Entry{Element: el, Intersecting: true, Ratio: 1}
	}
	return Entry{Element: el, Intersecting: true, Ratio: (bottom - top) / r.Height}
}

// Observe subscribes fn to intersection changes of el. The current state is
// delivered on the next Refresh or ScrollTo.
func (v *Viewport) Observe(el Element, fn func(Entry)) (Subscription, error) {
	o := &observation{el: el, fn: fn}
	v.mu.Lock()
	v.observers = append(v.observers, o)
	v.mu.Unlock()
	return SubscriptionFunc(func() { v.release(o) }), nil
}

func (v *Viewport) release(o *observation) {
	v.mu.Lock()
	defer v.mu.Unlock()
	o.closed = true
	for i, cur := range v.observers {
		if cur == o {
			v.observers = append(v.observers[:i], v.observers[i+1:]...)
			return
		}
	}
}

// Observers returns the number of live element observations.
func (v *Viewport) Observers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.observers)
}

// OnScroll subscribes fn to scroll position changes.
func (v *Viewport) OnScroll(fn func(y float64)) Subscription {
	s := &scrollObserver{fn: fn}
	v.mu.Lock()
	v.scrollers = append(v.scrollers, s)
	v.mu.Unlock()
	return SubscriptionFunc(func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		s.closed = true
		for i, cur := range v.scrollers {
			if cur == s {
				v.scrollers = append(v.scrollers[:i], v.scrollers[i+1:]...)
				return
			}
		}
	})
}

// ScrollTo moves the viewport and dispatches scroll and intersection
// callbacks. Offsets below zero are treated as zero.
func (v *Viewport) ScrollTo(y float64) {
	if y < 0 {
		y = 0
	}
	v.mu.Lock()
	v.scrollY = y
	scrollers := append([]*scrollObserver(nil), v.scrollers...)
	v.mu.Unlock()

	for _, s := range scrollers {
		v.mu.Lock()
		closed := s.closed
		v.mu.Unlock()
		if !closed {
			s.fn(y)
		}
	}
	v.Refresh()
}

// Refresh delivers the current intersection state to every observer, in
// subscription order. Observers closed by an earlier callback in the same
// pass are skipped.
func (v *Viewport) Refresh() {
	v.mu.Lock()
	pending := append([]*observation(nil), v.observers...)
	v.mu.Unlock()

	for _, o := range pending {
		v.mu.Lock()
		if o.closed {
			v.mu.Unlock()
			continue
		}
		e := v.entryLocked(o.el)
		v.mu.Unlock()
		o.fn(e)
	}
}
