// Package site renders the portfolio page. Every section is assembled into
// a view model whose blocks each own a reveal target, then written through
// the embedded templates, either over HTTP or to a file.
package site

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/reveal"
)

// ContentSource yields the content to render for each request.
type ContentSource interface {
	Current() *content.Portfolio
}

// Config configures the HTTP site.
type Config struct {
	Theme       string
	Options     Options
	Middlewares []gin.HandlerFunc
}

// Server serves the page, its themes and section fragments.
type Server struct {
	engine   *gin.Engine
	renderer *Renderer
	content  ContentSource
	theme    Theme
	logger   *zap.Logger
}

// NewServer builds the gin engine with the site routes registered.
// Middlewares run before every route, including ones added later.
func NewServer(cfg Config, src ContentSource, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	theme, err := LookupTheme(cfg.Theme)
	if err != nil {
		return nil, err
	}
	renderer, err := NewRenderer(cfg.Options)
	if err != nil {
		return nil, err
	}
	static, err := StaticFS()
	if err != nil {
		return nil, err
	}

	metrics.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cfg.Middlewares...)
	r.SetHTMLTemplate(renderer.Template())
	r.StaticFS("/static", http.FS(static))

	s := &Server{
		engine:   r,
		renderer: renderer,
		content:  src,
		theme:    theme,
		logger:   logger,
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		s.renderPage(c, s.theme)
	})

	// Themed variants of the same page
	r.GET("/themes/:name", func(c *gin.Context) {
		theme, err := LookupTheme(c.Param("name"))
		if err != nil {
			c.String(http.StatusNotFound, "unknown theme")
			return
		}
		s.renderPage(c, theme)
	})

	// Single section fragments. No script observes a swapped-in fragment,
	// so its blocks are rendered already revealed.
	r.GET("/sections/:name", func(c *gin.Context) {
		name := c.Param("name")
		if !knownSection(name) {
			c.String(http.StatusNotFound, "unknown section")
			return
		}
		theme := s.theme
		if q := c.Query("theme"); q != "" {
			if t, err := LookupTheme(q); err == nil {
				theme = t
			}
		}
		page := s.renderer.Page(s.content.Current(), theme, nil)
		defer page.Close()
		metrics.ObserveRender(theme.Name, name, countSection(page, name))
		c.HTML(http.StatusOK, "section-"+name, page)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	return s, nil
}

// Engine exposes the gin engine so other route groups can be mounted.
func (s *Server) Engine() *gin.Engine { return s.engine }

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) renderPage(c *gin.Context, theme Theme) {
	page := s.renderer.Page(s.content.Current(), theme, reveal.Deferred{})
	// the browser owns observation from here on
	defer page.Close()

	metrics.ObserveRender(theme.Name, "page", len(page.Blocks()))
	s.logger.Debug("render page",
		zap.String("theme", theme.Name),
		zap.String("view", page.ViewID),
		zap.Int("targets", len(page.Blocks())))
	c.HTML(http.StatusOK, "page.html", page)
}

func knownSection(name string) bool {
	for _, s := range Sections {
		if s == name {
			return true
		}
	}
	return false
}

func countSection(p *Page, section string) int {
	n := 0
	for _, b := range p.Blocks() {
		if b.Section == section {
			n++
		}
	}
	return n
}
