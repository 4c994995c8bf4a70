package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themartincox/peartree-sub006/internal/config"
	"github.com/themartincox/peartree-sub006/internal/observability"
)

// app carries configuration and the logger shared by every subcommand.
type app struct {
	cfg    config.Config
	logger *zap.Logger

	// flag values; applied over env config when set
	addr         string
	templatesDir string
	publicDir    string
	contentDir   string
	outDir       string
	baseURL      string
	dev          bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "web",
		Short:         "Peartree Dental website: serve, build and check the content-driven site",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	f := root.PersistentFlags()
	f.StringVar(&a.templatesDir, "templates", "", "templates directory")
	f.StringVar(&a.publicDir, "public", "", "public assets directory")
	f.StringVar(&a.contentDir, "content", "", "content directory")
	f.StringVar(&a.baseURL, "base-url", "", "canonical base URL")
	f.BoolVar(&a.dev, "dev", false, "development mode: reparse templates and watch content")

	root.AddCommand(newServeCmd(a), newBuildCmd(a), newCheckCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("templates", &cfg.TemplatesDir, a.templatesDir)
	override("public", &cfg.PublicDir, a.publicDir)
	override("content", &cfg.ContentDir, a.contentDir)
	override("base-url", &cfg.BaseURL, a.baseURL)
	override("out", &cfg.OutDir, a.outDir)
	if flags.Changed("dev") {
		cfg.Dev = a.dev
	}
	a.cfg = cfg

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = logger.With(zap.String("env", cfg.Env))
	return nil
}
