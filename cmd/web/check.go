package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/handlers"
	"github.com/themartincox/peartree-sub006/internal/linkcheck"
	"github.com/themartincox/peartree-sub006/internal/render"
)

var errCheckFailed = errors.New("content check failed")

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate content, render every page and check rendered links",
		RunE: func(cmd *cobra.Command, _ []string) error {
			site, err := content.Load(a.cfg.ContentDir)
			if err != nil {
				var verr *content.ValidationError
				if errors.As(err, &verr) {
					for _, p := range verr.Problems {
						fmt.Fprintln(cmd.ErrOrStderr(), p.String())
					}
					return fmt.Errorf("%w: %d content problems", errCheckFailed, len(verr.Problems))
				}
				return err
			}
			renderer, err := render.New(a.cfg.TemplatesDir, false)
			if err != nil {
				return err
			}
			n, err := checkSite(cmd.ErrOrStderr(), site, renderer, a.cfg.BaseURL)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: %d broken links", errCheckFailed, n)
			}
			a.logger.Info("content ok", zap.Int("pages", len(site.Routes())), zap.Int("treatments", site.Pricing.Len()))
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d pages, %d treatments\n", len(site.Routes()), site.Pricing.Len())
			return nil
		},
	}
}

// checkSite renders every page plus the 404 page and reports link problems to w.
func checkSite(w io.Writer, site *content.Site, r *render.Renderer, baseURL string) (int, error) {
	opts := site.LinkOptions()
	var views []handlers.PageData
	for _, page := range site.Pages() {
		d, err := handlers.BuildPageData(site, page, baseURL, handlers.Analytics{})
		if err != nil {
			return 0, err
		}
		views = append(views, d)
	}
	views = append(views, handlers.NotFoundData(site, "/404", handlers.Analytics{}))

	var count int
	for _, d := range views {
		b, err := r.Bytes(render.Layout, d)
		if err != nil {
			return 0, err
		}
		problems, err := linkcheck.Check(bytes.NewReader(b), opts)
		if err != nil {
			return 0, fmt.Errorf("check %s: %w", d.Path, err)
		}
		for _, p := range problems {
			fmt.Fprintf(w, "%s: %s\n", d.Path, p)
		}
		count += len(problems)
	}
	return count, nil
}
