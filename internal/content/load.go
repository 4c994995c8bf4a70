package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/themartincox/peartree-sub006/internal/pricing"
)

const (
	defaultContentDir = "content"
	practiceFile      = "practice.yaml"
	pricingFile       = "pricing.yaml"
	pagesDir          = "pages"
)

// Load reads a content directory:
//
//	practice.yaml   practice contact details
//	pricing.yaml    treatment price table
//	pages/*.yaml    one landing page per file
//
// The returned Site has passed validation.
func Load(dir string) (*Site, error) {
	if strings.TrimSpace(dir) == "" {
		dir = defaultContentDir
	}
	practice, err := loadPractice(filepath.Join(dir, practiceFile))
	if err != nil {
		return nil, err
	}
	table, err := pricing.Load(filepath.Join(dir, pricingFile))
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	pages, err := loadPages(filepath.Join(dir, pagesDir))
	if err != nil {
		return nil, err
	}
	return NewSite(practice, table, pages)
}

func loadPractice(path string) (Practice, error) {
	var p Practice
	if err := decodeFile(path, &p); err != nil {
		return Practice{}, err
	}
	p.Phone = strings.TrimSpace(p.Phone)
	p.PhoneE164 = strings.TrimSpace(p.PhoneE164)
	p.URL = strings.TrimRight(strings.TrimSpace(p.URL), "/")
	return p, nil
}

func loadPages(dir string) ([]Page, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("content: read pages: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isContentFile(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	pages := make([]Page, 0, len(names))
	for _, name := range names {
		var p Page
		if err := decodeFile(filepath.Join(dir, name), &p); err != nil {
			return nil, err
		}
		p.Source = filepath.ToSlash(filepath.Join(pagesDir, name))
		if err := preparePage(&p); err != nil {
			return nil, fmt.Errorf("content: %s: %w", p.Source, err)
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// preparePage tidies authored fields and parses dates once at load time.
// Markdown is rendered by NewSite after prices are expanded.
func preparePage(p *Page) error {
	for i := range p.FAQs {
		p.FAQs[i].Question = strings.TrimSpace(p.FAQs[i].Question)
	}
	for i := range p.Testimonials {
		t := &p.Testimonials[i]
		if t.DateRaw == "" {
			continue
		}
		d := parseContentDate(t.DateRaw)
		if d.IsZero() {
			return fmt.Errorf("testimonials[%d]: bad date %q", i, t.DateRaw)
		}
		t.Date = d
	}
	return nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("content: read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("content: parse %s: %w", path, err)
	}
	return nil
}

func isContentFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(name, ".")
}

func parseContentDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{
		time.RFC3339,
		"2006-01-02",
		"2006/01/02",
		"2 January 2006",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

// renderMarkdown renders the intro and FAQ answers.
func renderMarkdown(p *Page) error {
	intro, err := Markdown(strings.TrimSpace(p.Intro))
	if err != nil {
		return fmt.Errorf("intro: %w", err)
	}
	p.IntroHTML = intro
	for i := range p.FAQs {
		f := &p.FAQs[i]
		html, err := Markdown(strings.TrimSpace(f.Answer))
		if err != nil {
			return fmt.Errorf("faqs[%d]: %w", i, err)
		}
		f.AnswerHTML = html
	}
	return nil
}
