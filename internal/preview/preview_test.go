package preview

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/site"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func setup(t *testing.T) (*content.Portfolio, site.Theme) {
	t.Helper()
	p, err := content.Default()
	require.NoError(t, err)
	theme, err := site.LookupTheme("fabulous")
	require.NoError(t, err)
	return p, theme
}

func fastOptions() Options {
	opts := DefaultOptions()
	opts.Pace = 0
	opts.NavInterval = time.Millisecond
	opts.Start = time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	return opts
}

type recorder map[reveal.Element]reveal.Rect

func (r recorder) Place(el reveal.Element, rect reveal.Rect) { r[el] = rect }

func TestRunRevealsEveryBlockOnce(t *testing.T) {
	p, theme := setup(t)

	report, err := Run(context.Background(), p, theme, fastOptions())
	require.NoError(t, err)

	assert.Empty(t, report.Hidden)
	assert.Greater(t, report.Steps, 1)

	seen := make(map[string]bool)
	prev := 0
	for _, rv := range report.Reveals {
		assert.False(t, seen[rv.Element], "%s reported twice", rv.Element)
		seen[rv.Element] = true
		assert.GreaterOrEqual(t, rv.Step, prev, "reveals arrive in scroll order")
		prev = rv.Step
	}
	require.NotEmpty(t, report.Reveals)
	assert.Equal(t, "about-heading", report.Reveals[0].Element)
	assert.Positive(t, report.Reveals[0].Step, "nothing is visible behind the hero")
}

func TestRunFillsSkillBars(t *testing.T) {
	p, theme := setup(t)
	opts := fastOptions()

	report, err := Run(context.Background(), p, theme, opts)
	require.NoError(t, err)
	require.Len(t, report.Bars, len(p.Skills))

	for i, bar := range report.Bars {
		assert.True(t, bar.Entered, bar.Name)
		assert.Equal(t, reveal.Clamp(bar.Target), bar.Value, bar.Name)
		assert.Equal(t, time.Duration(i)*opts.Site.Timing.Stagger, bar.Delay, bar.Name)
		assert.True(t, bar.Complete.After(opts.Start), bar.Name)
	}
}

func TestRunTracksNavigation(t *testing.T) {
	p, theme := setup(t)

	report, err := Run(context.Background(), p, theme, fastOptions())
	require.NoError(t, err)

	require.NotEmpty(t, report.Nav)
	assert.True(t, report.Nav[len(report.Nav)-1].Scrolled)
}

func TestRunStopsWithContext(t *testing.T) {
	p, theme := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, p, theme, fastOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLayoutRows(t *testing.T) {
	p, theme := setup(t)
	page := site.Build(p, theme, reveal.Deferred{}, site.DefaultOptions())
	defer page.Close()

	rec := recorder{}
	height := DefaultLayout().Place(rec, page)

	for _, b := range page.Blocks() {
		_, ok := rec[reveal.Element(b.ID())]
		assert.True(t, ok, "%s not placed", b.ID())
	}

	photos := page.Gallery.Photos
	require.GreaterOrEqual(t, len(photos), 5)
	first := rec[reveal.Element(photos[0].ID())]
	assert.Equal(t, first.Top, rec[reveal.Element(photos[3].ID())].Top, "four photos per row")
	assert.Greater(t, rec[reveal.Element(photos[4].ID())].Top, first.Top)

	for _, bar := range page.Skills.Bars {
		assert.Equal(t, rec[reveal.Element(bar.ID())], rec[reveal.Element(bar.Card.ID())], bar.Label)
	}
	assert.Greater(t, height, first.Bottom())
}

func TestReportWrite(t *testing.T) {
	p, theme := setup(t)
	report, err := Run(context.Background(), p, theme, fastOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf))
	out := buf.String()

	assert.Contains(t, out, "reveal preview: fabulous theme")
	assert.Contains(t, out, "about-heading")
	assert.Contains(t, out, "skill bars")
	assert.Contains(t, out, "Network Engineering")
	assert.NotContains(t, out, "never revealed")
}

func TestRunRejectsEmptyViewport(t *testing.T) {
	p, theme := setup(t)

	for _, h := range []float64{0, -100} {
		opts := fastOptions()
		opts.ViewportHeight = h
		opts.Step = 0

		report, err := Run(context.Background(), p, theme, opts)
		assert.ErrorIs(t, err, ErrInvalidViewport, "height %v", h)
		assert.Nil(t, report)
	}
}
