package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Zachkp/portfolio/internal/site"
)

const testView = "6f1c2f4e-8a4b-4c1e-9d53-2f0f5f3b9a10"

func newTestAdmin(t *testing.T) (*Admin, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := openTestStore(t)
	a, err := New(store, Config{Username: "drag", Password: "queen"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	tmpl, err := site.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(a.TrackingMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "home") })
	r.GET("/themes/:name", func(c *gin.Context) { c.String(http.StatusOK, c.Param("name")) })
	r.GET("/sections/:name", func(c *gin.Context) { c.String(http.StatusOK, c.Param("name")) })
	a.Register(r)
	return a, r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r http.Handler) *http.Cookie {
	t.Helper()
	form := url.Values{"username": {"drag"}, "password": {"queen"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	for _, c := range w.Result().Cookies() {
		if c.Name == tokenCookie {
			return c
		}
	}
	t.Fatal("no admin cookie set")
	return nil
}

func TestDashboardRequiresLogin(t *testing.T) {
	_, r := newTestAdmin(t)

	w := do(r, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookie, Value: "forged"})
	w = do(r, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestLoginAndDashboard(t *testing.T) {
	_, r := newTestAdmin(t)
	cookie := login(t, r)

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	req.AddCookie(cookie)
	w := do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sections revealed")

	req = httptest.NewRequest(http.MethodGet, "/admin/api/stats", nil)
	req.AddCookie(cookie)
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total_reveals":0`)

	req = httptest.NewRequest(http.MethodGet, "/admin/export/stats", nil)
	req.AddCookie(cookie)
	w = do(r, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "admin-stats.json")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	_, r := newTestAdmin(t)

	form := url.Values{"username": {"drag"}, "password": {"king"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := do(r, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginDisabledWithoutCredentialsInRelease(t *testing.T) {
	gin.SetMode(gin.ReleaseMode)
	defer gin.SetMode(gin.TestMode)

	a, err := New(openTestStore(t), Config{}, zaptest.NewLogger(t))
	require.NoError(t, err)
	assert.Empty(t, a.username)
	assert.Empty(t, a.password)
}

func TestRevealBeacon(t *testing.T) {
	a, r := newTestAdmin(t)

	post := func(body string, dnt bool) int {
		req := httptest.NewRequest(http.MethodPost, "/api/reveal", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if dnt {
			req.Header.Set("DNT", "1")
		}
		return do(r, req).Code
	}

	body := `{"view":"` + testView + `","element":"skills-bar-it-security"}`
	assert.Equal(t, http.StatusNoContent, post(body, false))
	assert.Equal(t, http.StatusNoContent, post(body, false))
	assert.Equal(t, http.StatusNoContent, post(`{"view":"`+testView+`","element":"about-card"}`, true))
	assert.Equal(t, http.StatusBadRequest, post(`{"view":"not-a-uuid","element":"about-card"}`, false))
	assert.Equal(t, http.StatusBadRequest, post(`{"view":"`+testView+`"}`, false))
	for _, el := range []string{"spam0-x", "spam1-x", "Skills-heading", "x"} {
		assert.Equal(t, http.StatusBadRequest, post(`{"view":"`+testView+`","element":"`+el+`"}`, false), el)
	}

	stats, err := a.store.Stats(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalReveals)
	assert.Equal(t, []SectionStat{{Section: "skills", Reveals: 1, Views: 1}}, stats.TopSections)
}

func TestTrackingMiddleware(t *testing.T) {
	a, r := newTestAdmin(t)

	do(r, httptest.NewRequest(http.MethodGet, "/themes/noir", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/sections/skills", nil))

	dnt := httptest.NewRequest(http.MethodGet, "/", nil)
	dnt.Header.Set("DNT", "1")
	do(r, dnt)
	do(r, httptest.NewRequest(http.MethodGet, "/static/site.css", nil))
	do(r, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Eventually(t, func() bool {
		visitors, err := a.store.RecentVisitors(context.Background(), 10)
		return err == nil && len(visitors) == 2
	}, time.Second, 10*time.Millisecond)

	visitors, err := a.store.RecentVisitors(context.Background(), 10)
	require.NoError(t, err)
	themes := make(map[string]string)
	for _, v := range visitors {
		themes[v.Path] = v.Theme
		assert.Len(t, v.HashedIP, 16)
	}
	assert.Equal(t, map[string]string{
		"/themes/noir":     "noir",
		"/sections/skills": "",
	}, themes)
}

func TestKnownSection(t *testing.T) {
	for _, s := range site.Sections {
		assert.True(t, knownSection(s), s)
	}
	assert.False(t, knownSection("spam0"))
	assert.False(t, knownSection(""))
}

func TestSectionOf(t *testing.T) {
	assert.Equal(t, "skills", sectionOf("skills-bar-it-security"))
	assert.Equal(t, "about", sectionOf("about"))
	assert.Equal(t, "-x", sectionOf("-x"))
}

func TestHashIPIsStablePerProcess(t *testing.T) {
	a, _ := newTestAdmin(t)
	assert.Equal(t, a.hashIP("192.0.2.1"), a.hashIP("192.0.2.1"))
	assert.NotEqual(t, a.hashIP("192.0.2.1"), a.hashIP("192.0.2.2"))
}
