package render

import (
	"bytes"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/handlers"
)

func pageData(t *testing.T, path string) handlers.PageData {
	t.Helper()
	site, err := content.Load("../../content")
	require.NoError(t, err)
	page, err := site.Page(path)
	require.NoError(t, err)
	d, err := handlers.BuildPageData(site, page, "", handlers.Analytics{})
	require.NoError(t, err)
	return d
}

func TestRenderIsIdempotent(t *testing.T) {
	t.Parallel()

	r, err := New("../../templates", false)
	require.NoError(t, err)
	d := pageData(t, "/arnold/composite-bonding")

	first, err := r.Bytes(Layout, d)
	require.NoError(t, err)
	second, err := r.Bytes(Layout, d)
	require.NoError(t, err)
	require.Equal(t, string(first), string(second))

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(first))
	require.NoError(t, err)
	require.Equal(t, "Composite Bonding in Arnold", strings.TrimSpace(doc.Find("h1").First().Text()))
	require.Equal(t, 4, doc.Find("ol.steps li").Length())
	require.Equal(t, 2, doc.Find(".gallery-featured figure").Length())
	require.Equal(t, 1, doc.Find(".gallery-other figure").Length())
	require.Equal(t, len(d.SEO.JSONLD), doc.Find(`script[type="application/ld+json"]`).Length())
	require.Zero(t, doc.Find(`a[href="#ZgotmplZ"]`).Length())
}

func TestDevModeReparses(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "base.tmpl")
	require.NoError(t, os.WriteFile(file, []byte(`{{define "base"}}one{{end}}`), 0o644))

	r, err := New(dir, true)
	require.NoError(t, err)
	require.True(t, r.Dev())
	out, err := r.Bytes(Layout, nil)
	require.NoError(t, err)
	require.Equal(t, "one", string(out))

	require.NoError(t, os.WriteFile(file, []byte(`{{define "base"}}two{{end}}`), 0o644))
	out, err = r.Bytes(Layout, nil)
	require.NoError(t, err)
	require.Equal(t, "two", string(out))
}

func TestRenderWritesNothingOnError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "base.tmpl"), []byte(`{{define "base"}}partial {{.Missing.Field}}{{end}}`), 0o644))
	r, err := New(dir, false)
	require.NoError(t, err)

	var buf bytes.Buffer
	err = r.Render(&buf, Layout, struct{}{})
	require.Error(t, err)
	require.Zero(t, buf.Len())
}

func TestNewWithoutTemplates(t *testing.T) {
	t.Parallel()

	_, err := New(t.TempDir(), false)
	require.ErrorContains(t, err, "no templates found")
}

func TestFuncs(t *testing.T) {
	t.Parallel()

	require.Equal(t, "★★★★☆", Stars(4))
	require.Equal(t, "☆☆☆☆☆", Stars(-1))
	require.Equal(t, "★★★★★", Stars(9))
	require.Equal(t, template.URL("tel:+441159312935"), Tel("+44 115 931 2935"))
	require.Equal(t, template.URL("tel:+441159312935"), Href("tel:+441159312935"))
	require.Equal(t, template.URL("/book"), Href("/book"))
	require.Equal(t, template.URL("#"), Href("javascript:alert(1)"))
	require.Equal(t, template.URL("#"), Href("book"))
}
