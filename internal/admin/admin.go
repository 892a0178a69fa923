// Package admin is the privacy-conscious analytics side of the site:
// hashed-IP visitor tracking, reveal beacons and a cookie-protected
// dashboard.
package admin

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/site"
)

const (
	tokenCookie = "admin_token"
	themeRoute  = "/themes/:name"
)

// Config carries the dashboard credentials. Empty credentials fall back to
// development defaults in gin debug mode and disable login otherwise.
type Config struct {
	Username string
	Password string
}

// Admin wires tracking middleware and dashboard routes around a Store.
type Admin struct {
	store    *Store
	logger   *zap.Logger
	token    string
	salt     string
	username string
	password string
}

// New creates the admin system with a fresh session token and IP salt.
func New(store *Store, cfg Config, logger *zap.Logger) (*Admin, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics.Init()
	token, err := generateToken()
	if err != nil {
		return nil, err
	}
	salt, err := generateToken()
	if err != nil {
		return nil, err
	}

	a := &Admin{
		store:    store,
		logger:   logger,
		token:    token,
		salt:     salt,
		username: cfg.Username,
		password: cfg.Password,
	}
	if gin.Mode() == gin.DebugMode {
		if a.username == "" {
			a.username = "admin"
			logger.Warn("using default admin username, set ADMIN_USERNAME")
		}
		if a.password == "" {
			a.password = "admin123"
			logger.Warn("using default admin password, set ADMIN_PASSWORD")
		}
		logger.Debug("admin token (dev only)", zap.String("token", a.token))
	}

	logger.Info("admin access available", zap.String("path", "/admin/login"))
	logger.Info("visitor tracking enabled with hashed IP addresses")
	return a, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate admin token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// hashIP hashes an address with the per-process salt, consistent per IP.
func (a *Admin) hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + a.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// AuthMiddleware redirects requests without a valid admin cookie to login.
func (a *Admin) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(tokenCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(a.token)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

var untrackedPrefixes = []string{"/static/", "/admin/", "/api/", "/metrics", "/favicon", "/privacy", "/healthz"}

// TrackingMiddleware records page visits with hashed IPs. Static files,
// admin pages and requests sending DNT are skipped.
func (a *Admin) TrackingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || untracked(path) {
			c.Next()
			return
		}

		v := VisitorMetric{
			HashedIP:  a.hashIP(c.ClientIP()),
			UserAgent: c.GetHeader("User-Agent"),
			Path:      path,
			Timestamp: time.Now().UTC(),
		}
		if c.FullPath() == themeRoute {
			v.Theme = c.Param("name")
		}
		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		go a.recordVisit(v)
	}
}

func untracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func (a *Admin) recordVisit(v VisitorMetric) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.store.RecordVisit(ctx, v); err != nil {
		a.logger.Error("error recording visitor", zap.Error(err))
		return
	}
	metrics.ObserveVisitor()
}

// revealBeacon is posted by the page script when a block is revealed.
type revealBeacon struct {
	View    string `json:"view" binding:"required,uuid"`
	Element string `json:"element" binding:"required,max=120"`
}

func (a *Admin) handleRevealBeacon(c *gin.Context) {
	if c.GetHeader("DNT") == "1" {
		c.Status(http.StatusNoContent)
		return
	}
	var b revealBeacon
	if err := c.ShouldBindJSON(&b); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid beacon"})
		return
	}
	section := sectionOf(b.Element)
	if !knownSection(section) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown section"})
		return
	}
	recorded, err := a.store.RecordReveal(c.Request.Context(), b.View, b.Element, section)
	if err != nil {
		a.logger.Error("error recording reveal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record reveal"})
		return
	}
	if recorded {
		metrics.ObserveRevealBeacon(section)
	}
	c.Status(http.StatusNoContent)
}

// sectionOf maps an element id such as "skills-bar-it-security" to its
// section.
func sectionOf(element string) string {
	if i := strings.IndexByte(element, '-'); i > 0 {
		return element[:i]
	}
	return element
}

// knownSection bounds the stored sections and metric labels to the ones the
// page renders.
func knownSection(section string) bool {
	for _, s := range site.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// CleanupOld drops rows past the retention window.
func (a *Admin) CleanupOld(ctx context.Context) {
	visits, reveals, err := a.store.Cleanup(ctx)
	if err != nil {
		a.logger.Error("error cleaning up old analytics data", zap.Error(err))
		return
	}
	if visits > 0 || reveals > 0 {
		a.logger.Info("privacy cleanup",
			zap.Int64("visits_removed", visits),
			zap.Int64("reveals_removed", reveals))
	}
}

// Register mounts the beacon endpoint, privacy page and admin routes.
func (a *Admin) Register(r *gin.Engine) {
	r.POST("/api/reveal", a.handleRevealBeacon)

	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title": "Privacy Policy",
		})
	})

	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin-login.html", gin.H{
			"title": "Admin Login",
		})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if a.username != "" && a.password != "" &&
			subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1 {
			c.SetCookie(tokenCookie, a.token, 3600*24, "/admin", "", false, true)
			a.logger.Info("admin login successful", zap.String("from", a.hashIP(c.ClientIP())))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		a.logger.Warn("failed admin login attempt", zap.String("from", a.hashIP(c.ClientIP())))
		c.HTML(http.StatusUnauthorized, "admin-login.html", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(tokenCookie, "", -1, "/admin", "", false, true)
		a.logger.Info("admin logout", zap.String("from", a.hashIP(c.ClientIP())))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	group := r.Group("/admin")
	group.Use(a.AuthMiddleware())

	group.GET("/dashboard", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			a.logger.Error("error loading admin stats", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load statistics",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-dashboard.html", gin.H{
			"stats": stats,
		})
	})

	group.GET("/api/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	group.GET("/visitors", func(c *gin.Context) {
		visitors, err := a.store.RecentVisitors(c.Request.Context(), 200)
		if err != nil {
			a.logger.Error("error loading visitors", zap.Error(err))
			c.HTML(http.StatusInternalServerError, "admin-error.html", gin.H{
				"error": "Failed to load visitors",
			})
			return
		}
		c.HTML(http.StatusOK, "admin-visitors.html", gin.H{
			"visitors": visitors,
		})
	})

	group.POST("/privacy/cleanup", func(c *gin.Context) {
		a.CleanupOld(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup completed"})
	})

	group.GET("/export/stats", func(c *gin.Context) {
		stats, err := a.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		a.logger.Info("admin stats exported", zap.String("by", a.hashIP(c.ClientIP())))
		c.JSON(http.StatusOK, stats)
	})
}
