package reveal

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"
)

// ScrollSource publishes scroll position changes.
type ScrollSource interface {
	OnScroll(fn func(y float64)) Subscription
}

// DefaultScrollInterval is the read cadence used when none is given.
const DefaultScrollInterval = 100 * time.Millisecond

// WatchScroll keeps one subscription to src and reports whether the page
// is scrolled past offset. Scroll events only record the latest position;
// it is read at most once per interval and fn is called when the derived
// state changes. The watch ends when ctx is done or stop is called; stop
// waits for the reader to exit and may be called more than once.
func WatchScroll(ctx context.Context, src ScrollSource, offset float64, interval time.Duration, fn func(scrolled bool)) (stop func()) {
	if interval <= 0 {
		interval = DefaultScrollInterval
	}
	ctx, cancel := context.WithCancel(ctx)

	var (
		latest atomic.Uint64
		dirty  atomic.Bool
	)
	sub := src.OnScroll(func(y float64) {
		latest.Store(math.Float64bits(y))
		dirty.Store(true)
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer sub.Close()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		scrolled := false
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !dirty.Swap(false) {
					continue
				}
				now := math.Float64frombits(latest.Load()) > offset
				if now != scrolled {
					scrolled = now
					fn(scrolled)
				}
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}
