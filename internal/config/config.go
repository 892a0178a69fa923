// Package config loads portfolio configuration via Viper. A .env file in
// the working directory is applied to the environment first.
package config

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"

	"github.com/Zachkp/portfolio/internal/reveal"
)

// Config captures all service configuration knobs.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Site      SiteConfig      `mapstructure:"site"`
	Reveal    RevealConfig    `mapstructure:"reveal"`
	DB        DBConfig        `mapstructure:"db"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
	Admin     AdminConfig     `mapstructure:"admin"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

// SiteConfig selects the content and default theme.
type SiteConfig struct {
	Theme       string `mapstructure:"theme"`
	ContentPath string `mapstructure:"content_path"`
	Watch       bool   `mapstructure:"watch"`
}

// RevealConfig tunes the scroll reveal behavior.
type RevealConfig struct {
	SectionThreshold float64 `mapstructure:"section_threshold"`
	BarThreshold     float64 `mapstructure:"bar_threshold"`
	BarDurationMs    int     `mapstructure:"bar_duration_ms"`
	StaggerMs        int     `mapstructure:"stagger_ms"`
	NavOffset        float64 `mapstructure:"nav_offset"`
}

// DBConfig points at the sqlite analytics database.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// AnalyticsConfig toggles visitor and reveal tracking.
type AnalyticsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AdminConfig holds the dashboard credentials.
type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// LoggingConfig toggles zap development features.
type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PORTFOLIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// names the site has always read
	_ = v.BindEnv("server.port", "PORTFOLIO_SERVER_PORT", "PORT")
	_ = v.BindEnv("admin.username", "PORTFOLIO_ADMIN_USERNAME", "ADMIN_USERNAME")
	_ = v.BindEnv("admin.password", "PORTFOLIO_ADMIN_PASSWORD", "ADMIN_PASSWORD")

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("site.theme", "fabulous")
	v.SetDefault("site.content_path", "")
	v.SetDefault("site.watch", false)
	v.SetDefault("reveal.section_threshold", 0.15)
	v.SetDefault("reveal.bar_threshold", 0.3)
	v.SetDefault("reveal.bar_duration_ms", 800)
	v.SetDefault("reveal.stagger_ms", 150)
	v.SetDefault("reveal.nav_offset", 80)
	v.SetDefault("db.path", "portfolio.db")
	v.SetDefault("analytics.enabled", true)
	v.SetDefault("admin.username", "")
	v.SetDefault("admin.password", "")
	v.SetDefault("logging.development", true)
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be debug, release or test")
	}
	if c.Site.Theme == "" {
		return fmt.Errorf("site.theme must be set")
	}
	if c.Reveal.SectionThreshold < 0 || c.Reveal.SectionThreshold > 1 {
		return fmt.Errorf("reveal.section_threshold must be within [0,1]")
	}
	if c.Reveal.BarThreshold < 0 || c.Reveal.BarThreshold > 1 {
		return fmt.Errorf("reveal.bar_threshold must be within [0,1]")
	}
	if c.Reveal.BarDurationMs < 0 || c.Reveal.StaggerMs < 0 {
		return fmt.Errorf("reveal timings must be >= 0")
	}
	if c.Analytics.Enabled && c.DB.Path == "" {
		return fmt.Errorf("db.path must be set when analytics is enabled")
	}
	return nil
}

// Timing converts the reveal durations into animation timing.
func (c RevealConfig) Timing() reveal.Timing {
	return reveal.Timing{
		Duration: time.Duration(c.BarDurationMs) * time.Millisecond,
		Stagger:  time.Duration(c.StaggerMs) * time.Millisecond,
	}
}
