// Package preview dry-runs the reveal behaviour of a rendered page without a
// browser. Blocks are laid out with estimated heights on a simulated
// viewport which is then scrolled from top to bottom.
package preview

import (
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/internal/site"
)

// Layout estimates block geometry.
type Layout struct {
	// Hero is the height of the unrevealed header above the first section.
	Hero       float64
	Gap        float64
	SectionGap float64
	Heights    map[site.Kind]float64
	// Columns is how many blocks of a kind share one row. Missing kinds
	// take a full row.
	Columns map[site.Kind]int
}

// DefaultLayout approximates a desktop browser.
func DefaultLayout() Layout {
	return Layout{
		Hero:       900,
		Gap:        24,
		SectionGap: 96,
		Heights: map[site.Kind]float64{
			site.KindHeading:   140,
			site.KindCard:      260,
			site.KindPhoto:     320,
			site.KindPhotoRow:  380,
			site.KindSkill:     110,
			site.KindLanguage:  170,
			site.KindLegend:    60,
			site.KindQuest:     240,
			site.KindEducation: 200,
			site.KindNote:      80,
		},
		Columns: map[site.Kind]int{
			site.KindPhoto:     4,
			site.KindSkill:     2,
			site.KindLanguage:  5,
			site.KindEducation: 2,
		},
	}
}

// Placer accepts element geometry. *reveal.Viewport is one.
type Placer interface {
	Place(el reveal.Element, r reveal.Rect)
}

// Place positions every block of page on vp and returns the page height.
// A skill bar's inner card shares the rectangle of its outer block.
func (l Layout) Place(vp Placer, page *site.Page) float64 {
	inner := make(map[string]string, len(page.Skills.Bars))
	for _, bar := range page.Skills.Bars {
		inner[bar.Card.ID()] = bar.ID()
	}

	var (
		y       = l.Hero
		rowTop  = l.Hero
		rowH    float64
		rowKind site.Kind
		rowUsed int
		section string
		placed  = make(map[string]reveal.Rect)
	)
	for _, b := range page.Blocks() {
		if outer, ok := inner[b.ID()]; ok {
			r := placed[outer]
			vp.Place(reveal.Element(b.ID()), r)
			placed[b.ID()] = r
			continue
		}

		h := l.Heights[b.Kind]
		cols := l.Columns[b.Kind]
		if cols < 1 {
			cols = 1
		}
		sameRow := rowUsed > 0 && b.Kind == rowKind && b.Section == section && rowUsed < cols
		if !sameRow {
			if rowUsed > 0 {
				y = rowTop + rowH + l.Gap
			}
			if b.Section != section && section != "" {
				y += l.SectionGap
			}
			rowTop, rowH, rowKind, rowUsed = y, 0, b.Kind, 0
		}
		section = b.Section

		r := reveal.Rect{Top: rowTop, Height: h}
		vp.Place(reveal.Element(b.ID()), r)
		placed[b.ID()] = r
		rowUsed++
		if h > rowH {
			rowH = h
		}
	}
	return rowTop + rowH + l.SectionGap
}
