package export

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/linkcheck"
	"github.com/themartincox/peartree-sub006/internal/render"
)

func TestBuildWritesEveryRoute(t *testing.T) {
	t.Parallel()

	site, err := content.Load("../../content")
	require.NoError(t, err)
	r, err := render.New("../../templates", false)
	require.NoError(t, err)

	public := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(public, "assets", "css"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(public, "assets", "css", "site.css"), []byte("body{}"), 0o644))
	out := t.TempDir()

	res, err := Build(context.Background(), Options{
		Site:          site,
		Renderer:      r,
		PublicDir:     public,
		OutDir:        out,
		AllowIndexing: true,
		Concurrency:   2,
	})
	require.NoError(t, err)
	require.Equal(t, len(site.Routes()), res.Pages)
	require.Equal(t, 1, res.Assets)

	for _, route := range site.Routes() {
		f, err := os.Open(PagePath(out, route))
		require.NoError(t, err, route)
		problems, err := linkcheck.Check(f, site.LinkOptions())
		f.Close()
		require.NoError(t, err)
		require.Empty(t, problems, route)
	}

	f, err := os.Open(filepath.Join(out, "arnold", "composite-bonding", "index.html"))
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	require.Contains(t, doc.Find(`.option-card[data-treatment="Composite Edge Bonding"] .price`).Text(), "From £180 per tooth")

	for _, name := range []string{"404.html", "sitemap.xml", "robots.txt", filepath.Join("assets", "css", "site.css")} {
		_, err := os.Stat(filepath.Join(out, name))
		require.NoError(t, err, name)
	}
	raw, err := os.ReadFile(filepath.Join(out, "manifest.json"))
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	require.Equal(t, res.BuildID, m.BuildID)
	require.Len(t, m.BuildID, 26)
	require.Equal(t, site.Routes(), m.Routes)

	robots, err := os.ReadFile(filepath.Join(out, "robots.txt"))
	require.NoError(t, err)
	require.Contains(t, string(robots), "Sitemap: https://www.peartreedental.co.uk/sitemap.xml")
}

func TestBuildHonoursCancellation(t *testing.T) {
	t.Parallel()

	site, err := content.Load("../../content")
	require.NoError(t, err)
	r, err := render.New("../../templates", false)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Build(ctx, Options{Site: site, Renderer: r, OutDir: t.TempDir()})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPagePath(t *testing.T) {
	t.Parallel()

	require.Equal(t, filepath.Join("dist", "index.html"), PagePath("dist", "/"))
	require.Equal(t, filepath.Join("dist", "arnold", "composite-bonding", "index.html"), PagePath("dist", "/arnold/composite-bonding/"))
}
