package preview

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/site"
)

// ErrInvalidViewport is returned for a viewport height that is not positive.
var ErrInvalidViewport = errors.New("preview: viewport height must be > 0")

// Options control a preview run.
type Options struct {
	ViewportHeight float64
	// Step is how far each simulated scroll moves.
	Step float64
	// Pace is the wall-clock wait between steps. Reveal times in the report
	// are measured in steps of Pace from Start.
	Pace  time.Duration
	Start time.Time
	// NavInterval is the scroll watcher cadence.
	NavInterval time.Duration
	Layout      Layout
	Site        site.Options
}

// DefaultOptions scrolls a 900px viewport in 300px steps.
func DefaultOptions() Options {
	return Options{
		ViewportHeight: 900,
		Step:           300,
		Pace:           50 * time.Millisecond,
		NavInterval:    10 * time.Millisecond,
		Layout:         DefaultLayout(),
		Site:           site.DefaultOptions(),
	}
}

// Reveal is one block entering the viewport.
type Reveal struct {
	Element string
	Section string
	Step    int
	ScrollY float64
}

// BarTiming is when a skill bar starts and finishes filling.
type BarTiming struct {
	Name     string
	Target   float64
	Value    float64
	Delay    time.Duration
	Entered  bool
	Complete time.Time
}

// NavChange is a change of the navigation bar state seen by the watcher.
type NavChange struct {
	ScrollY  float64
	Scrolled bool
}

// Report is the outcome of a preview run.
type Report struct {
	Theme          string
	ViewportHeight float64
	PageHeight     float64
	Steps          int
	Reveals        []Reveal
	Bars           []BarTiming
	Nav            []NavChange
	// Hidden lists blocks that never entered.
	Hidden []string
}

// Run builds the page for p, lays it out and scrolls through it. Each block
// is reported once, at the step where it first enters. The run stops early
// when ctx is done.
func Run(ctx context.Context, p *content.Portfolio, theme site.Theme, opts Options) (*Report, error) {
	if !(opts.ViewportHeight > 0) {
		return nil, ErrInvalidViewport
	}
	if opts.Step <= 0 {
		opts.Step = opts.ViewportHeight / 3
	}
	if opts.Start.IsZero() {
		opts.Start = time.Now()
	}
	if opts.NavInterval <= 0 {
		opts.NavInterval = reveal.DefaultScrollInterval
	}

	vp := reveal.NewViewport(opts.ViewportHeight)
	page := site.Build(p, theme, vp, opts.Site)
	defer page.Close()

	report := &Report{
		Theme:          theme.Name,
		ViewportHeight: opts.ViewportHeight,
		PageHeight:     opts.Layout.Place(vp, page),
	}

	var (
		mu      sync.Mutex
		step    int
		entered = make(map[*reveal.Target]int)
	)
	for _, b := range page.Blocks() {
		b.Target().OnEnter(func() {
			mu.Lock()
			defer mu.Unlock()
			entered[b.Target()] = step
			report.Reveals = append(report.Reveals, Reveal{
				Element: b.ID(),
				Section: b.Section,
				Step:    step,
				ScrollY: vp.ScrollY(),
			})
		})
	}

	stopNav := reveal.WatchScroll(ctx, vp, opts.Site.NavOffset, opts.NavInterval, func(scrolled bool) {
		mu.Lock()
		defer mu.Unlock()
		report.Nav = append(report.Nav, NavChange{ScrollY: vp.ScrollY(), Scrolled: scrolled})
	})

	vp.Refresh()
	last := math.Max(0, report.PageHeight-opts.ViewportHeight)
	for y := opts.Step; ; y += opts.Step {
		if err := wait(ctx, opts.Pace); err != nil {
			stopNav()
			return nil, err
		}
		mu.Lock()
		step++
		mu.Unlock()
		vp.ScrollTo(math.Min(y, last))
		if y >= last {
			break
		}
	}
	// let the watcher catch up with the final position
	want := vp.ScrollY() > opts.Site.NavOffset
	for i := 0; i < 50 && !navSettled(&mu, report, want); i++ {
		if err := wait(ctx, opts.NavInterval); err != nil {
			stopNav()
			return nil, err
		}
	}
	stopNav()

	mu.Lock()
	defer mu.Unlock()
	report.Steps = step
	for _, bar := range page.Skills.Bars {
		bt := BarTiming{
			Name:    bar.Fill.Name(),
			Target:  bar.Fill.Target(),
			Value:   bar.Fill.Value(),
			Delay:   bar.Fill.Delay(),
			Entered: bar.Card.Entered(),
		}
		if s, ok := entered[bar.Card.Target()]; ok {
			bt.Complete = bar.Fill.Completion(opts.Start.Add(time.Duration(s) * opts.Pace))
		}
		report.Bars = append(report.Bars, bt)
	}
	for _, b := range page.Blocks() {
		if !b.Entered() {
			report.Hidden = append(report.Hidden, b.ID())
		}
	}
	return report, nil
}

func navSettled(mu *sync.Mutex, r *Report, want bool) bool {
	mu.Lock()
	defer mu.Unlock()
	if len(r.Nav) == 0 {
		return !want
	}
	return r.Nav[len(r.Nav)-1].Scrolled == want
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
