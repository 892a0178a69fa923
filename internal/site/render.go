package site

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/reveal"
	"github.com/Zachkp/portfolio/web"
)

// funcs are shared by the page and dashboard templates.
var funcs = template.FuncMap{
	"comma": humanize.Comma,
	"ago":   humanize.Time,
}

// Templates parses the embedded page, section and admin templates.
func Templates() (*template.Template, error) {
	tmpl, err := template.New("site").Funcs(funcs).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}

// StaticFS returns the embedded static assets rooted at their directory.
func StaticFS() (fs.FS, error) {
	sub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}
	return sub, nil
}

// Renderer builds page models and writes them through the templates.
type Renderer struct {
	tmpl  *template.Template
	opts  Options
	now   func() time.Time
	newID func() string
}

// NewRenderer creates a renderer over the embedded templates.
func NewRenderer(opts Options) (*Renderer, error) {
	tmpl, err := Templates()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		tmpl:  tmpl,
		opts:  opts,
		now:   time.Now,
		newID: uuid.NewString,
	}, nil
}

// Template returns the parsed template set.
func (r *Renderer) Template() *template.Template { return r.tmpl }

// Page builds the page model for one view. Pass reveal.Deferred for pages
// the browser will reveal, nil to reveal everything up front.
func (r *Renderer) Page(p *content.Portfolio, theme Theme, src reveal.Source) *Page {
	page := Build(p, theme, src, r.opts)
	page.ViewID = r.newID()
	page.Year = r.now().Year()
	return page
}

// Export writes a self-contained page to w: stylesheet and script are
// inlined. With static set every block is rendered already revealed.
func (r *Renderer) Export(w io.Writer, p *content.Portfolio, theme Theme, static bool) error {
	var src reveal.Source = reveal.Deferred{}
	if static {
		src = nil
	}
	page := r.Page(p, theme, src)
	defer page.Close()

	css, err := fs.ReadFile(web.StaticFS, "static/site.css")
	if err != nil {
		return fmt.Errorf("read stylesheet: %w", err)
	}
	js, err := fs.ReadFile(web.StaticFS, "static/reveal.js")
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	page.InlineCSS = template.CSS(css)
	page.InlineJS = template.JS(js)
	// an exported file has nowhere to send beacons
	page.Options.Beacons = false

	if err := r.tmpl.ExecuteTemplate(w, "page.html", page); err != nil {
		return fmt.Errorf("render page: %w", err)
	}
	return nil
}
