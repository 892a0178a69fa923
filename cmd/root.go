// Package cmd defines and implements the CLI commands for the portfolio
// executable.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Zachkp/portfolio/internal/config"
	"github.com/Zachkp/portfolio/internal/content"
	"github.com/Zachkp/portfolio/internal/logging"
	"github.com/Zachkp/portfolio/internal/site"
)

var cfgFile string

// appKeyType is the key for storing the App in the context.
type appKeyType string

const appKey appKeyType = "app"

// App carries the services every command needs.
type App struct {
	Config  config.Config
	Logger  *zap.Logger
	Content *content.Store
}

// Close flushes the logger.
func (a *App) Close() {
	_ = a.Logger.Sync()
}

// newApp is the application factory. Tests replace it.
var newApp = func(_ context.Context, path string) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return nil, err
	}
	store, err := content.NewStore(cfg.Site.ContentPath, logger)
	if err != nil {
		return nil, fmt.Errorf("load content: %w", err)
	}
	return &App{Config: cfg, Logger: logger, Content: store}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "portfolio",
		Short: "Personal portfolio site with scroll reveal animations.",
		Long: `portfolio serves a single page personal portfolio whose sections fade
in as they scroll into view. It can also export the page as one
self-contained file or dry-run the reveal sequence in the terminal.`,
		SilenceUsage: true,

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			appInstance, err := newApp(cmd.Context(), cfgFile)
			if err != nil {
				return fmt.Errorf("failed to initialize application services: %w", err)
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
			return nil
		},

		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if appInstance, ok := cmd.Context().Value(appKey).(*App); ok && appInstance != nil {
				appInstance.Close()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPreviewCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func resolveApp(ctx context.Context) (*App, error) {
	appInstance, ok := ctx.Value(appKey).(*App)
	if !ok || appInstance == nil {
		return nil, errors.New("application services not initialized")
	}
	return appInstance, nil
}

// siteOptions maps the reveal settings onto page options.
func siteOptions(cfg config.Config) site.Options {
	return site.Options{
		SectionThreshold: cfg.Reveal.SectionThreshold,
		BarThreshold:     cfg.Reveal.BarThreshold,
		Timing:           cfg.Reveal.Timing(),
		NavOffset:        cfg.Reveal.NavOffset,
		Beacons:          cfg.Analytics.Enabled,
	}
}

// themeFor resolves the --theme flag, falling back to the configured theme.
func themeFor(app *App, flag string) (site.Theme, error) {
	if flag == "" {
		flag = app.Config.Site.Theme
	}
	return site.LookupTheme(flag)
}
