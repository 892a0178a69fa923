package site

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/portfolio/internal/content"
)

type fixedContent struct {
	p *content.Portfolio
}

func (f fixedContent) Current() *content.Portfolio { return f.p }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	opts := DefaultOptions()
	opts.Beacons = true
	srv, err := NewServer(Config{Theme: "fabulous", Options: opts}, fixedContent{defaultContent(t)}, nil)
	require.NoError(t, err)
	return srv
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestServerHomePage(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Contains(t, body, `class="theme-fabulous"`)
	assert.Contains(t, body, `data-beacon="on"`)
	assert.Contains(t, body, `data-nav-offset="80"`)
	assert.Contains(t, body, `src="/static/reveal.js"`)
	assert.Contains(t, body, `id="about-card"`)
	assert.Contains(t, body, `data-threshold="0.3"`)
	assert.Contains(t, body, `class="reveal"`)
	assert.NotContains(t, body, `class="reveal visible"`)
	assert.Contains(t, body, `href="mailto:`)
}

func TestServerThemes(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv.Handler(), "/themes/noir")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `class="theme-noir"`)

	w = get(t, srv.Handler(), "/themes/vaporwave")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerSectionFragments(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv.Handler(), "/sections/skills")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<section id="skills">`)
	assert.Contains(t, body, `id="skills-bar-network-engineering"`)
	assert.NotContains(t, body, `<section id="about">`)
	assert.Contains(t, body, `class="gradient-card skill-card visible"`)
	assert.Contains(t, body, "--target: 92%; width: 92%")

	w = get(t, srv.Handler(), "/sections/contact")
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Equal(t, 3, strings.Count(body, `class="reveal visible"`))
	assert.NotContains(t, body, `class="reveal"`)

	w = get(t, srv.Handler(), "/sections/secrets")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServerStaticAndHealth(t *testing.T) {
	srv := newTestServer(t)

	w := get(t, srv.Handler(), "/static/reveal.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "IntersectionObserver")

	w = get(t, srv.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	get(t, srv.Handler(), "/")
	w = get(t, srv.Handler(), "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "portfolio_page_renders_total")
}

func TestNewServerRejectsUnknownTheme(t *testing.T) {
	_, err := NewServer(Config{Theme: "beige"}, fixedContent{defaultContent(t)}, nil)
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestServerRunsExtraMiddlewares(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var hits int
	mw := func(c *gin.Context) {
		hits++
		c.Next()
	}
	srv, err := NewServer(Config{Theme: "noir", Options: DefaultOptions(), Middlewares: []gin.HandlerFunc{mw}},
		fixedContent{defaultContent(t)}, nil)
	require.NoError(t, err)

	get(t, srv.Handler(), "/healthz")
	get(t, srv.Handler(), "/")
	assert.Equal(t, 2, hits)
}
