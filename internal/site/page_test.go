package site

import (
	"bytes"
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
)

func defaultContent(t *testing.T) *content.Portfolio {
	t.Helper()
	p, err := content.Default()
	require.NoError(t, err)
	return p
}

func fabulous(t *testing.T) Theme {
	t.Helper()
	theme, err := LookupTheme("fabulous")
	require.NoError(t, err)
	return theme
}

func TestBuildMountsOneTargetPerBlock(t *testing.T) {
	p := defaultContent(t)
	page := Build(p, fabulous(t), reveal.Deferred{}, DefaultOptions())
	defer page.Close()

	blocks := page.Blocks()
	require.NotEmpty(t, blocks)

	ids := make(map[string]bool)
	for _, b := range blocks {
		assert.False(t, ids[b.ID()], "duplicate element id %s", b.ID())
		ids[b.ID()] = true
		assert.Equal(t, reveal.Observing, b.Target().State(), b.ID())
		assert.Contains(t, Sections, b.Section)
	}

	assert.Len(t, page.Gallery.Photos, len(p.Gallery.Photos))
	assert.Len(t, page.Skills.Bars, len(p.Skills))
	assert.Len(t, page.Skills.Languages, len(p.Languages))
	assert.Len(t, page.Experience.Quests, len(p.Quests))
	assert.Len(t, page.Targets(), len(blocks))
}

func TestBuildThresholds(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), reveal.Deferred{}, DefaultOptions())
	defer page.Close()

	assert.Equal(t, 0.15, page.About.Card.Threshold())
	for _, bar := range page.Skills.Bars {
		assert.Equal(t, 0.15, bar.Threshold(), bar.ID())
		assert.Equal(t, 0.3, bar.Card.Threshold(), bar.Card.ID())
	}
}

func TestBuildWithoutSourceRevealsEverything(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), nil, DefaultOptions())
	defer page.Close()

	for _, b := range page.Blocks() {
		assert.True(t, b.Entered(), b.ID())
		assert.Equal(t, "reveal visible", b.Class())
	}
	for _, bar := range page.SkillBars() {
		assert.Equal(t, reveal.Clamp(bar.Target()), bar.Value(), bar.Name())
	}
}

func TestSkillBarsStagger(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), nil, DefaultOptions())
	defer page.Close()

	for i, bar := range page.SkillBars() {
		assert.Equal(t, time.Duration(i)*150*time.Millisecond, bar.Delay(), bar.Name())
	}
}

func TestLanguageBarsAreStatic(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), reveal.Deferred{}, DefaultOptions())
	defer page.Close()

	require.NotEmpty(t, page.Skills.Languages)
	assert.Equal(t, "width: 100%", string(page.Skills.Languages[0].Fill))
	assert.False(t, page.Skills.Languages[0].Entered())
}

func TestCloseUnmountsTargets(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), reveal.Deferred{}, DefaultOptions())
	page.Close()

	for _, target := range page.Targets() {
		assert.Equal(t, reveal.Unobserved, target.State(), string(target.Element()))
	}
}

func TestDuplicateNamesGetSuffixes(t *testing.T) {
	p := defaultContent(t)
	p.Education = []content.Education{
		{School: "Same School", Degree: "BSc"},
		{School: "Same School", Degree: "MSc"},
	}
	page := Build(p, fabulous(t), reveal.Deferred{}, DefaultOptions())
	defer page.Close()

	require.Len(t, page.Education.Schools, 2)
	assert.Equal(t, "education-school-same-school", page.Education.Schools[0].ID())
	assert.Equal(t, "education-school-same-school-1", page.Education.Schools[1].ID())
}

func TestQuestCardsAlternate(t *testing.T) {
	page := Build(defaultContent(t), fabulous(t), reveal.Deferred{}, DefaultOptions())
	defer page.Close()

	quests := page.Experience.Quests
	require.NotEmpty(t, quests)
	for i, q := range quests {
		assert.Equal(t, i%2 == 1, q.Right)
		assert.Equal(t, i == len(quests)-1, q.Last)
		assert.NotEmpty(t, q.Style.Class, q.Company)
	}
	assert.Len(t, page.Experience.Tiers, len(content.Tiers))
}

func TestBalloonsAreDeterministic(t *testing.T) {
	a, b := balloons(), balloons()
	assert.Equal(t, a, b)
	assert.Len(t, a, balloonCount)
	assert.Equal(t, "left: 5%; animation: balloonFloat 18s 0s linear infinite", string(a[0].Style))
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Network Engineering":                      "network-engineering",
		"ITIL / ITSM":                              "itil-itsm",
		"Infrastructure (Cloud, Storage, Compute)": "infrastructure-cloud-storage-compute",
		"  leading":                                "leading",
		"":                                         "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}

func TestTrimFloat(t *testing.T) {
	assert.Equal(t, "0", trimFloat(0))
	assert.Equal(t, "-2.5", trimFloat(-2.5))
	assert.Equal(t, "33.33", trimFloat(33.333))
	assert.Equal(t, "100%", formatPct(150))
}

func TestExportStaticRevealsEverything(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	require.NoError(t, err)
	r.newID = func() string { return "view-1" }

	var buf bytes.Buffer
	require.NoError(t, r.Export(&buf, defaultContent(t), fabulous(t), true))
	html := buf.String()

	assert.Contains(t, html, `data-view="view-1"`)
	assert.Contains(t, html, `data-beacon="off"`)
	assert.Contains(t, html, "<style>")
	assert.NotContains(t, html, `href="/static/site.css"`)
	assert.NotContains(t, html, `class="reveal"`)
	assert.Contains(t, html, `class="reveal visible"`)
	assert.Contains(t, html, "width: 92%")
}

func TestExportDeferredStartsHidden(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.Export(&buf, defaultContent(t), fabulous(t), false))
	html := buf.String()

	assert.Contains(t, html, `class="reveal"`)
	assert.NotContains(t, html, `class="reveal visible"`)
	assert.Contains(t, html, "--target: 92%; width: 0%")
	assert.True(t, strings.Contains(html, "IntersectionObserver"), "script is inlined")
}

func TestRendererStampsYear(t *testing.T) {
	r, err := NewRenderer(DefaultOptions())
	require.NoError(t, err)
	r.now = func() time.Time { return time.Date(2031, 5, 1, 0, 0, 0, 0, time.UTC) }

	page := r.Page(defaultContent(t), fabulous(t), reveal.Deferred{})
	defer page.Close()
	assert.Equal(t, 2031, page.Year)
	assert.NotEmpty(t, page.ViewID)
}

func TestViewModelTypesAreDocumented(t *testing.T) {
	f, err := parser.ParseFile(token.NewFileSet(), "page.go", nil, parser.ParseComments)
	require.NoError(t, err)

	var types int
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.TYPE {
			continue
		}
		for _, spec := range gen.Specs {
			ts := spec.(*ast.TypeSpec)
			if !ts.Name.IsExported() {
				continue
			}
			types++
			doc := gen.Doc
			if ts.Doc != nil {
				doc = ts.Doc
			}
			if assert.NotNil(t, doc, ts.Name.Name) {
				assert.True(t, strings.HasPrefix(doc.Text(), ts.Name.Name+" "), ts.Name.Name)
			}
		}
	}
	assert.GreaterOrEqual(t, types, 20)
}
