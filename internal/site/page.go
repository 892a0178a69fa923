package site

import (
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
)

// Options tune how sections reveal.
type Options struct {
	SectionThreshold float64
	BarThreshold     float64
	Timing           reveal.Timing
	NavOffset        float64
	Beacons          bool
}

// DefaultOptions mirrors the stylesheet defaults.
func DefaultOptions() Options {
	return Options{
		SectionThreshold: 0.15,
		BarThreshold:     0.3,
		Timing:           reveal.DefaultTiming,
		NavOffset:        80,
	}
}

// Kind classifies a revealed block for layout estimates.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindCard      Kind = "card"
	KindPhoto     Kind = "photo"
	KindPhotoRow  Kind = "photo-row"
	KindSkill     Kind = "skill"
	KindLanguage  Kind = "language"
	KindLegend    Kind = "legend"
	KindQuest     Kind = "quest"
	KindEducation Kind = "education"
	KindNote      Kind = "note"
)

// Section ids in page order.
var Sections = []string{"about", "gallery", "skills", "quests", "education", "contact"}

// Reveal is the render-time view of one reveal target.
type Reveal struct {
	Section string
	Kind    Kind
	target  *reveal.Target
}

// ID is the element id the browser observes.
func (r Reveal) ID() string { return string(r.target.Element()) }

// Threshold is the visible fraction needed to reveal.
func (r Reveal) Threshold() float64 { return r.target.Threshold() }

// Entered reports whether the block is already revealed.
func (r Reveal) Entered() bool { return r.target.Entered() }

// Target exposes the underlying reveal target.
func (r Reveal) Target() *reveal.Target { return r.target }

// Class returns the CSS classes for the block's wrapper.
func (r Reveal) Class() string {
	if r.Entered() {
		return "reveal visible"
	}
	return "reveal"
}

// Heading is a section title block revealed on its own.
type Heading struct {
	Reveal
	Title    string
	Emoji    string
	Subtitle string
}

// NavLink is one entry of the fixed navigation bar.
type NavLink struct {
	Href  string
	Label string
}

// Balloon is one decorative balloon floating behind the hero.
type Balloon struct {
	Color string
	Size  int
	Style template.CSS
}

// PhotoCard is a captioned photo inside a gallery block.
type PhotoCard struct {
	Src     string
	Caption string
	Style   template.CSS
}

// GalleryPhoto is a photo revealed on its own.
type GalleryPhoto struct {
	Reveal
	PhotoCard
}

// Bar is a skill card whose fill animates once the card is revealed.
type Bar struct {
	Reveal
	// Card is the inner target that starts the fill transition.
	Card  Reveal
	Label string
	Pct   string
	Note  string
	Fill  *reveal.AnimatedValue
}

// LanguageCard is a spoken language with a static fill bar.
type LanguageCard struct {
	Reveal
	content.Language
	Fill template.CSS
}

// TierStyle is the CSS class and badge colors of a quest tier.
type TierStyle struct {
	Tier  content.Tier
	Class string
	Badge template.CSS
}

// QuestCard is one experience entry on the alternating timeline.
type QuestCard struct {
	Reveal
	content.Quest
	Style TierStyle
	Right bool
	Last  bool
}

// EducationCard is one school entry in the education section.
type EducationCard struct {
	Reveal
	content.Education
}

// ContactLink is one outbound link in the contact section.
type ContactLink struct {
	content.Link
	// URL is the trusted href; mailto and tel links need it unescaped.
	URL      template.URL
	External bool
}

// AboutView is the view model of the about section.
type AboutView struct {
	Heading Heading
	Card    Reveal
	content.About
}

// PhotoRow is a group of photos revealed together.
type PhotoRow struct {
	Reveal
	Title    string
	Subtitle string
	Photos   []PhotoCard
}

// GalleryView is the view model of the gallery section.
type GalleryView struct {
	Heading Heading
	Photos  []GalleryPhoto
	Feature *PhotoRow
	Party   *PhotoRow
}

// SkillsView is the view model of the skills section.
type SkillsView struct {
	Heading          Heading
	Bars             []Bar
	LanguagesHeading Heading
	Languages        []LanguageCard
}

// ExperienceView is the view model of the quests section.
type ExperienceView struct {
	Heading Heading
	Legend  Reveal
	Tiers   []TierStyle
	Quests  []QuestCard
}

// EducationView is the view model of the education section.
type EducationView struct {
	Heading       Heading
	Schools       []EducationCard
	Certificate   Reveal
	Certification string
}

// ContactView is the view model of the contact section.
type ContactView struct {
	Heading Heading
	Intro   Reveal
	Text    string
	List    Reveal
	Links   []ContactLink
}

// Page is the view model of one rendered page. Every block that fades in
// owns a reveal target; Close tears them all down.
type Page struct {
	ViewID   string
	Year     int
	Theme    Theme
	Themes   []Theme
	Options  Options
	Profile  content.Profile
	Nav      []NavLink
	Balloons []Balloon

	About      AboutView
	Gallery    GalleryView
	Skills     SkillsView
	Experience ExperienceView
	Education  EducationView
	Contact    ContactView

	// InlineCSS and InlineJS are set for self-contained exports.
	InlineCSS template.CSS
	InlineJS  template.JS

	blocks []Reveal
}

// Blocks returns every revealed block in document order.
func (p *Page) Blocks() []Reveal {
	return append([]Reveal(nil), p.blocks...)
}

// Targets returns the reveal targets in document order.
func (p *Page) Targets() []*reveal.Target {
	out := make([]*reveal.Target, len(p.blocks))
	for i, b := range p.blocks {
		out[i] = b.target
	}
	return out
}

// SkillBars returns the animated skill fills in list order.
func (p *Page) SkillBars() []*reveal.AnimatedValue {
	out := make([]*reveal.AnimatedValue, len(p.Skills.Bars))
	for i, b := range p.Skills.Bars {
		out[i] = b.Fill
	}
	return out
}

// Close unmounts every target on the page.
func (p *Page) Close() {
	for _, b := range p.blocks {
		b.target.Unmount()
	}
}

var balloonColors = []string{
	"#ff6b9d", "#c084fc", "#67d4fc", "#6ee7b7", "#fbbf24",
	"#fb7185", "#a78bfa", "#fda085", "#34d399", "#f472b6",
}

const balloonCount = 14

var tierStyles = map[content.Tier]TierStyle{
	content.Legendary: {Tier: content.Legendary, Class: "tier-legendary", Badge: "background: rgba(251, 191, 36, 0.2); color: #b45309"},
	content.Epic:      {Tier: content.Epic, Class: "tier-epic", Badge: "background: rgba(192, 132, 252, 0.2); color: #9333ea"},
	content.Rare:      {Tier: content.Rare, Class: "tier-rare", Badge: "background: rgba(103, 212, 252, 0.2); color: #0284c7"},
	content.Uncommon:  {Tier: content.Uncommon, Class: "tier-uncommon", Badge: "background: rgba(110, 231, 183, 0.2); color: #059669"},
	content.Common:    {Tier: content.Common, Class: "tier-common", Badge: "background: rgba(128, 128, 128, 0.1); color: #6b7280"},
}

// builder mounts one target per block as the page model is assembled.
type builder struct {
	src    reveal.Source
	opts   Options
	blocks []Reveal
	seen   map[string]int
}

func (b *builder) reveal(section string, kind Kind, name string, threshold float64) Reveal {
	id := section + "-" + name
	if n := b.seen[id]; n > 0 {
		id = fmt.Sprintf("%s-%d", id, n)
	}
	b.seen[section+"-"+name]++

	t := reveal.NewTarget(reveal.Element(id), threshold)
	t.Mount(b.src)
	r := Reveal{Section: section, Kind: kind, target: t}
	b.blocks = append(b.blocks, r)
	return r
}

func (b *builder) block(section string, kind Kind, name string) Reveal {
	return b.reveal(section, kind, name, b.opts.SectionThreshold)
}

func (b *builder) heading(section, title, emoji, subtitle string) Heading {
	return Heading{
		Reveal:   b.block(section, KindHeading, "heading"),
		Title:    title,
		Emoji:    emoji,
		Subtitle: subtitle,
	}
}

// Build assembles the page for p. Each block's target is mounted on src:
// a nil src reveals everything up front, reveal.Deferred leaves the
// observing to the browser.
func Build(p *content.Portfolio, theme Theme, src reveal.Source, opts Options) *Page {
	b := &builder{src: src, opts: opts, seen: make(map[string]int)}

	page := &Page{
		Theme:   theme,
		Themes:  Themes(),
		Options: opts,
		Profile: p.Profile,
		Nav: []NavLink{
			{Href: "#about", Label: "About"},
			{Href: "#gallery", Label: "Gallery"},
			{Href: "#skills", Label: "Skills"},
			{Href: "#quests", Label: "Experience"},
			{Href: "#contact", Label: "Contact"},
		},
		Balloons: balloons(),
	}

	page.About = buildAbout(b, p.About)
	page.Gallery = buildGallery(b, p.Gallery)
	page.Skills = buildSkills(b, p.Skills, p.Languages)
	page.Experience = buildExperience(b, p.Quests)
	page.Education = buildEducation(b, p.Education, p.Certification)
	page.Contact = buildContact(b, p.Contact)

	page.blocks = b.blocks
	return page
}

func buildAbout(b *builder, about content.About) AboutView {
	return AboutView{
		Heading: b.heading("about", "About Me", "💖", ""),
		Card:    b.block("about", KindCard, "card"),
		About:   about,
	}
}

func buildGallery(b *builder, g content.Gallery) GalleryView {
	var v GalleryView
	v.Heading = b.heading("gallery", "The Gallery", "📸", g.Subtitle)
	for i, ph := range g.Photos {
		v.Photos = append(v.Photos, GalleryPhoto{
			Reveal:    b.block("gallery", KindPhoto, fmt.Sprintf("photo-%d", i)),
			PhotoCard: PhotoCard{Src: ph.Src, Caption: ph.Caption, Style: rotate(ph.Rotate)},
		})
	}
	if len(g.Feature.Photos) > 0 {
		row := &PhotoRow{
			Reveal:   b.block("gallery", KindPhotoRow, "feature"),
			Title:    g.Feature.Title,
			Subtitle: g.Feature.Subtitle,
		}
		for _, ph := range g.Feature.Photos {
			row.Photos = append(row.Photos, PhotoCard{Src: ph.Src, Caption: ph.Caption, Style: rotate(ph.Rotate)})
		}
		v.Feature = row
	}
	if len(g.Party) > 0 {
		row := &PhotoRow{Reveal: b.block("gallery", KindPhotoRow, "party")}
		for i, ph := range g.Party {
			row.Photos = append(row.Photos, PhotoCard{Src: ph.Src, Caption: ph.Caption, Style: rotate(partyTilt(i))})
		}
		v.Party = row
	}
	return v
}

func buildSkills(b *builder, skills []content.Skill, langs []content.Language) SkillsView {
	var v SkillsView
	v.Heading = b.heading("skills", "Skills & Powers", "💪", "")
	for i, s := range skills {
		outer := b.block("skills", KindSkill, "skill-"+slug(s.Name))
		card := b.reveal("skills", KindSkill, "bar-"+slug(s.Name), b.opts.BarThreshold)
		v.Bars = append(v.Bars, Bar{
			Reveal: outer,
			Card:   card,
			Label:  s.Name,
			Pct:    formatPct(s.Level),
			Note:   s.Note,
			Fill:   reveal.NewAnimatedValue(s.Name, s.Level, i, card.target, b.opts.Timing),
		})
	}

	v.LanguagesHeading = Heading{
		Reveal: b.block("skills", KindHeading, "languages-heading"),
		Title:  "Languages I Slay In 🗣️",
	}
	for _, l := range langs {
		v.Languages = append(v.Languages, LanguageCard{
			Reveal:   b.block("skills", KindLanguage, "lang-"+slug(l.Name)),
			Language: l,
			Fill:     template.CSS("width: " + formatPct(l.Pct)),
		})
	}
	return v
}

func buildExperience(b *builder, quests []content.Quest) ExperienceView {
	var v ExperienceView
	v.Heading = b.heading("quests", "Experience", "🗂️", "")
	v.Legend = b.block("quests", KindLegend, "legend")
	for _, t := range content.Tiers {
		v.Tiers = append(v.Tiers, tierStyles[t])
	}
	for i, q := range quests {
		v.Quests = append(v.Quests, QuestCard{
			Reveal: b.block("quests", KindQuest, "quest-"+slug(q.Company+" "+q.Role)),
			Quest:  q,
			Style:  tierStyles[q.Tier],
			Right:  i%2 == 1,
			Last:   i == len(quests)-1,
		})
	}
	return v
}

func buildEducation(b *builder, schools []content.Education, cert string) EducationView {
	var v EducationView
	v.Heading = b.heading("education", "Education", "🎓", "")
	for _, e := range schools {
		v.Schools = append(v.Schools, EducationCard{
			Reveal:    b.block("education", KindEducation, "school-"+slug(e.School)),
			Education: e,
		})
	}
	if cert != "" {
		v.Certificate = b.block("education", KindNote, "certification")
		v.Certification = cert
	}
	return v
}

func buildContact(b *builder, c content.Contact) ContactView {
	v := ContactView{
		Heading: b.heading("contact", "Get In Touch", "💬", ""),
		Intro:   b.block("contact", KindNote, "intro"),
		Text:    c.Intro,
		List:    b.block("contact", KindNote, "links"),
	}
	for _, l := range c.Links {
		v.Links = append(v.Links, ContactLink{
			Link:     l,
			URL:      template.URL(l.Href),
			External: strings.HasPrefix(l.Href, "http"),
		})
	}
	return v
}

// balloons lays out the floating decoration. Positions and timings are
// derived from the index so every render matches.
func balloons() []Balloon {
	out := make([]Balloon, balloonCount)
	for i := range out {
		size := 28 + (i%5)*8
		left := 5 + (i*41)%90
		delay := math.Mod(float64(i)*2.3, 16)
		duration := 18 + (i*3)%12
		out[i] = Balloon{
			Color: balloonColors[i%len(balloonColors)],
			Size:  size,
			Style: template.CSS(fmt.Sprintf(
				"left: %d%%; animation: balloonFloat %ds %ss linear infinite",
				left, duration, trimFloat(delay),
			)),
		}
	}
	return out
}

func partyTilt(i int) float64 {
	sign := 1.0
	if i%2 == 0 {
		sign = -1
	}
	return sign * (1 + float64(i)*0.5)
}

func rotate(deg float64) template.CSS {
	return template.CSS("transform: rotate(" + trimFloat(deg) + "deg)")
}

func formatPct(v float64) string {
	return trimFloat(reveal.Clamp(v)) + "%"
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

func slug(s string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			dash = false
		case !dash && sb.Len() > 0:
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
