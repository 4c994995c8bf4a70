package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/export"
	"github.com/themartincox/peartree-sub006/internal/handlers"
	"github.com/themartincox/peartree-sub006/internal/render"
)

func newBuildCmd(a *app) *cobra.Command {
	var concurrency int
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page to static files",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := a.cfg
			site, err := content.Load(cfg.ContentDir)
			if err != nil {
				return err
			}
			renderer, err := render.New(cfg.TemplatesDir, false)
			if err != nil {
				return err
			}
			res, err := export.Build(cmd.Context(), export.Options{
				Site:          site,
				Renderer:      renderer,
				PublicDir:     cfg.PublicDir,
				OutDir:        cfg.OutDir,
				BaseURL:       cfg.BaseURL,
				Analytics:     handlers.AnalyticsFromConfig(cfg.Analytics),
				AllowIndexing: cfg.Production(),
				Concurrency:   concurrency,
				Logger:        a.logger,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "build %s: %d pages and %d assets into %s\n", res.BuildID, res.Pages, res.Assets, cfg.OutDir)
			return nil
		},
	}
	cmd.Flags().StringVar(&a.outDir, "out", "", "output directory")
	cmd.Flags().IntVar(&concurrency, "concurrency", 0, "parallel page renders (default GOMAXPROCS)")
	return cmd
}
