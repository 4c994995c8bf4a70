// Package render parses the site templates and executes them into complete pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/themartincox/peartree-sub006/internal/linkcheck"
)

// Layout is the entry template every page executes.
const Layout = "base"

// Renderer holds the parsed template set. In dev mode templates are
// reparsed on each Render call so edits show without a restart.
type Renderer struct {
	dir string
	dev bool

	mu    sync.RWMutex
	cache *template.Template
}

// New parses templates under dir. Parse errors surface immediately in both modes.
func New(dir string, dev bool) (*Renderer, error) {
	t, err := parse(dir)
	if err != nil {
		return nil, err
	}
	return &Renderer{dir: dir, dev: dev, cache: t}, nil
}

// Dev reports whether templates are reparsed per render.
func (r *Renderer) Dev() bool { return r.dev }

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		t, err := parse(r.dir)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache = t
		r.mu.Unlock()
		return t, nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.cache == nil {
		return nil, fmt.Errorf("render: templates not initialized")
	}
	return r.cache, nil
}

// Render executes the named template into a buffer and copies it to w only
// when execution succeeds, so a failing template never emits a partial page.
func (r *Renderer) Render(w io.Writer, name string, data any) error {
	b, err := r.Bytes(name, data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Bytes executes the named template and returns the output.
func (r *Renderer) Bytes(name string, data any) ([]byte, error) {
	t, err := r.templates()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("render: execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"now":   time.Now,
		"add":   func(a, b int) int { return a + b },
		"stars": Stars,
		"tel":   Tel,
		"href":  Href,
	}
}

// Stars renders a 1..5 rating as filled and empty stars.
func Stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}

// Tel builds a tel: URL from an E.164 number.
func Tel(e164 string) template.URL {
	return template.URL("tel:" + strings.ReplaceAll(e164, " ", ""))
}

// Href marks a content link as safe. Content links are validated at load
// time; html/template would otherwise rewrite tel: URLs to #ZgotmplZ.
func Href(s string) template.URL {
	if linkcheck.SafeHref(s) {
		return template.URL(strings.TrimSpace(s))
	}
	return "#"
}

func parse(dir string) (*template.Template, error) {
	// Recursively discover and parse all .tmpl files. Note: ParseGlob doesn't support **.
	var files []string
	if err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("render: walk %s: %w", dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("render: no templates found under %s", dir)
	}
	t, err := template.New("_root").Funcs(Funcs()).ParseFiles(files...)
	if err != nil {
		return nil, fmt.Errorf("render: parse: %w", err)
	}
	return t, nil
}
