// Package reveal implements the reveal-on-scroll controller: one-shot
// visibility targets and the animated values they drive.
//
// A Target watches a single element through a Source and flips to entered
// the first time the element crosses its visibility threshold. The
// subscription is disposed right after, or on Unmount if the element never
// showed up. When no Source is available the target fails open and counts
// as entered straight away.
package reveal

import (
	"errors"
	"sync"
)

// ErrUnsupported is returned by a Source that cannot track intersections.
var ErrUnsupported = errors.New("reveal: intersection tracking unsupported")

// Element identifies an observed region (its DOM id).
type Element string

// Entry is one intersection observation for an element.
type Entry struct {
	Element      Element
	Intersecting bool
	// Ratio is the visible fraction of the element, in [0,1].
	Ratio float64
}

// Source delivers intersection changes for elements.
type Source interface {
	Observe(el Element, fn func(Entry)) (Subscription, error)
}

// Subscription is a one-shot registration. Close is idempotent.
type Subscription interface {
	Close()
}

// SubscriptionFunc adapts a release function into a Subscription that runs
// it at most once.
func SubscriptionFunc(release func()) Subscription {
	return &onceSub{release: release}
}

type onceSub struct {
	once    sync.Once
	release func()
}

func (s *onceSub) Close() {
	s.once.Do(func() {
		if s.release != nil {
			s.release()
		}
	})
}

// Unsupported is a Source for environments without intersection tracking.
type Unsupported struct{}

// Observe always fails with ErrUnsupported.
func (Unsupported) Observe(Element, func(Entry)) (Subscription, error) {
	return nil, ErrUnsupported
}

// Deferred is a Source whose observation happens elsewhere (in the
// browser). Targets mounted on it stay in Observing until the page is torn
// down.
type Deferred struct{}

// Observe registers nothing and returns a no-op subscription.
func (Deferred) Observe(Element, func(Entry)) (Subscription, error) {
	return SubscriptionFunc(nil), nil
}
