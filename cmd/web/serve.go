package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/handlers"
	"github.com/themartincox/peartree-sub006/internal/render"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&a.addr, "addr", "", "HTTP listen address (default :$PORT)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	cfg := a.cfg
	store, err := content.NewStore(cfg.ContentDir, content.WithLogger(a.logger))
	if err != nil {
		return err
	}
	renderer, err := render.New(cfg.TemplatesDir, cfg.Dev)
	if err != nil {
		return err
	}
	s := &server{
		store:     store,
		renderer:  renderer,
		cfg:       cfg,
		analytics: handlers.AnalyticsFromConfig(cfg.Analytics),
		logger:    a.logger,
	}

	addr := cfg.Addr()
	if a.addr != "" {
		addr = a.addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(s),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("web listening",
			zap.String("addr", addr),
			zap.Bool("dev", cfg.Dev),
			zap.Int("pages", len(store.Site().Routes())),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Dev {
		g.Go(func() error {
			return store.Watch(gctx)
		})
	}
	err = g.Wait()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	a.logger.Info("web stopped", zap.Time("at", time.Now()))
	return nil
}
