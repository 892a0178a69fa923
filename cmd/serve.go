package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Zachkp/portfolio/internal/admin"
	"github.com/Zachkp/portfolio/internal/logging"
	"github.com/Zachkp/portfolio/internal/metrics"
	"github.com/Zachkp/portfolio/internal/site"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = 24 * time.Hour
	reloadDebounce  = 200 * time.Millisecond
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serves the portfolio over HTTP",
		Long: `Starts the web server. Sections are rendered hidden and the browser
reveals them as they scroll into view. With analytics enabled, visits and
reveal beacons are stored in sqlite and shown on the admin dashboard.`,
		RunE: runServeCommand,
	}
}

func runServeCommand(cmd *cobra.Command, _ []string) error {
	app, err := resolveApp(cmd.Context())
	if err != nil {
		return err
	}
	cfg := app.Config
	logger := app.Logger

	gin.SetMode(cfg.Server.Mode)

	middlewares := []gin.HandlerFunc{
		logging.Middleware(logger),
		metrics.Middleware(),
	}

	var adm *admin.Admin
	if cfg.Analytics.Enabled {
		store, err := admin.Open(cfg.DB.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		adm, err = admin.New(store, admin.Config{
			Username: cfg.Admin.Username,
			Password: cfg.Admin.Password,
		}, logger)
		if err != nil {
			return err
		}
		middlewares = append(middlewares, adm.TrackingMiddleware())
	}

	srv, err := site.NewServer(site.Config{
		Theme:       cfg.Site.Theme,
		Options:     siteOptions(cfg),
		Middlewares: middlewares,
	}, app.Content, logger)
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	if adm != nil {
		adm.Register(srv.Engine())
	}

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server starting",
			zap.String("addr", httpServer.Addr),
			zap.String("theme", cfg.Site.Theme),
			zap.Bool("analytics", cfg.Analytics.Enabled))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("server shutting down")
		return httpServer.Shutdown(shutdownCtx)
	})

	if cfg.Site.Watch {
		g.Go(func() error {
			return app.Content.Watch(gctx, reloadDebounce)
		})
	}

	if adm != nil {
		g.Go(func() error {
			runCleanup(gctx, adm)
			return nil
		})
	}

	return g.Wait()
}

// runCleanup enforces analytics retention at startup and once a day.
func runCleanup(ctx context.Context, adm *admin.Admin) {
	adm.CleanupOld(ctx)
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			adm.CleanupOld(ctx)
		}
	}
}
