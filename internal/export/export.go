// Package export renders the whole site to static files.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/handlers"
	"github.com/themartincox/peartree-sub006/internal/render"
	"github.com/themartincox/peartree-sub006/internal/sitemap"
)

// Renderer executes a named template.
type Renderer interface {
	Bytes(name string, data any) ([]byte, error)
}

// Options configures a static build.
type Options struct {
	Site      *content.Site
	Renderer  Renderer
	PublicDir string
	OutDir    string
	BaseURL   string
	Analytics handlers.Analytics
	// AllowIndexing controls robots.txt.
	AllowIndexing bool
	// Concurrency bounds parallel page renders; <= 0 uses GOMAXPROCS.
	Concurrency int
	Logger      *zap.Logger
}

// Result summarises a build.
type Result struct {
	BuildID string
	Pages   int
	Assets  int
}

// Manifest is written to manifest.json so deploys can tell builds apart.
type Manifest struct {
	BuildID   string    `json:"build_id"`
	BuiltAt   time.Time `json:"built_at"`
	ContentAt time.Time `json:"content_loaded_at"`
	Routes    []string  `json:"routes"`
	Assets    int       `json:"assets"`
}

// Build writes every route to OutDir/<path>/index.html plus 404.html,
// sitemap.xml, robots.txt, manifest.json and the public assets.
func Build(ctx context.Context, opts Options) (Result, error) {
	if opts.Site == nil || opts.Renderer == nil {
		return Result{}, fmt.Errorf("export: site and renderer are required")
	}
	if opts.OutDir == "" {
		return Result{}, fmt.Errorf("export: output directory required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}
	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("export: create %s: %w", opts.OutDir, err)
	}

	var pages atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, page := range opts.Site.Pages() {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := handlers.BuildPageData(opts.Site, page, opts.BaseURL, opts.Analytics)
			if err != nil {
				return err
			}
			if err := writePage(opts, PagePath(opts.OutDir, page.Path), data); err != nil {
				return err
			}
			pages.Add(1)
			logger.Debug("page exported", zap.String("path", page.Path))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}

	if err := writePage(opts, filepath.Join(opts.OutDir, "404.html"), handlers.NotFoundData(opts.Site, "/404", opts.Analytics)); err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}
	base := opts.BaseURL
	if base == "" {
		base = opts.Site.Practice.URL
	}
	sm, err := sitemap.Build(base, opts.Site.Routes(), opts.Site.LoadedAt)
	if err != nil {
		return Result{}, fmt.Errorf("export: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, "sitemap.xml"), sm, 0o644); err != nil {
		return Result{}, fmt.Errorf("export: write sitemap: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, "robots.txt"), sitemap.Robots(base, opts.AllowIndexing), 0o644); err != nil {
		return Result{}, fmt.Errorf("export: write robots: %w", err)
	}

	res := Result{BuildID: ulid.Make().String(), Pages: int(pages.Load())}
	if opts.PublicDir != "" {
		n, err := copyTree(filepath.Join(opts.PublicDir, "assets"), filepath.Join(opts.OutDir, "assets"))
		if err != nil {
			return Result{}, fmt.Errorf("export: copy assets: %w", err)
		}
		res.Assets = n
	}
	manifest, err := json.MarshalIndent(Manifest{
		BuildID:   res.BuildID,
		BuiltAt:   time.Now().UTC(),
		ContentAt: opts.Site.LoadedAt,
		Routes:    opts.Site.Routes(),
		Assets:    res.Assets,
	}, "", "  ")
	if err != nil {
		return Result{}, fmt.Errorf("export: encode manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(opts.OutDir, "manifest.json"), append(manifest, '\n'), 0o644); err != nil {
		return Result{}, fmt.Errorf("export: write manifest: %w", err)
	}
	logger.Info("export complete",
		zap.String("build_id", res.BuildID),
		zap.String("out", opts.OutDir),
		zap.Int("pages", res.Pages),
		zap.Int("assets", res.Assets),
	)
	return res, nil
}

// PagePath maps a route to its index.html under out.
func PagePath(out, route string) string {
	route = strings.Trim(content.CleanPath(route), "/")
	if route == "" {
		return filepath.Join(out, "index.html")
	}
	return filepath.Join(out, filepath.FromSlash(route), "index.html")
}

func writePage(opts Options, dst string, data handlers.PageData) error {
	b, err := opts.Renderer.Bytes(render.Layout, data)
	if err != nil {
		return fmt.Errorf("render %s: %w", data.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, b, 0o644)
}

// copyTree copies regular files from src to dst. A missing src copies nothing.
func copyTree(src, dst string) (int, error) {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		return 0, nil
	}
	var n int
	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(path, target); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
