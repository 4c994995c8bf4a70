// Package content loads the practice details, pricing table and per-page
// landing configuration that drive every page on the site.
package content

import (
	"errors"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/themartincox/peartree-sub006/internal/pricing"
)

// ErrNotFound is returned when no page is configured for a path.
var ErrNotFound = errors.New("content: not found")

// Page kinds.
const (
	KindHome      = "home"
	KindHub       = "hub"
	KindLocation  = "location"
	KindTreatment = "treatment"
	KindAudience  = "audience"
	KindBooking   = "booking"
	KindInfo      = "info"
)

var knownKinds = map[string]struct{}{
	KindHome: {}, KindHub: {}, KindLocation: {}, KindTreatment: {},
	KindAudience: {}, KindBooking: {}, KindInfo: {},
}

// Practice holds the canonical contact details used in every page footer,
// CTA and schema block.
type Practice struct {
	Name         string         `yaml:"name"`
	LegalName    string         `yaml:"legal_name"`
	URL          string         `yaml:"url"`
	Logo         string         `yaml:"logo"`
	Image        string         `yaml:"image"`
	Phone        string         `yaml:"phone"`
	PhoneE164    string         `yaml:"phone_e164"`
	Email        string         `yaml:"email"`
	Address      Address        `yaml:"address"`
	Geo          Geo            `yaml:"geo"`
	OpeningHours []OpeningHours `yaml:"opening_hours"`
	SameAs       []string       `yaml:"same_as"`
}

// Tel returns the tel: URI for the practice number.
func (p Practice) Tel() string {
	return "tel:" + p.PhoneE164
}

// Address is a postal address.
type Address struct {
	Street     string `yaml:"street"`
	Locality   string `yaml:"locality"`
	Region     string `yaml:"region"`
	PostalCode string `yaml:"postal_code"`
	Country    string `yaml:"country"`
}

// Lines returns the non-empty address lines.
func (a Address) Lines() []string {
	var out []string
	for _, s := range []string{a.Street, a.Locality, a.Region, a.PostalCode} {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Geo is a latitude/longitude pair.
type Geo struct {
	Lat float64 `yaml:"lat"`
	Lng float64 `yaml:"lng"`
}

// OpeningHours is a block of days sharing the same hours ("08:30"-"17:30").
type OpeningHours struct {
	Days   []string `yaml:"days"`
	Opens  string   `yaml:"opens"`
	Closes string   `yaml:"closes"`
}

// Page is the content configuration for one landing page.
type Page struct {
	Path         string        `yaml:"path"`
	Kind         string        `yaml:"kind"`
	Label        string        `yaml:"label"`
	Location     string        `yaml:"location"`
	Treatment    string        `yaml:"treatment"`
	Audience     string        `yaml:"audience"`
	Title        string        `yaml:"title"`
	Summary      string        `yaml:"summary"`
	Intro        string        `yaml:"intro"`
	SEO          SEO           `yaml:"seo"`
	Hero         Hero          `yaml:"hero"`
	Benefits     []Benefit     `yaml:"benefits"`
	Options      []Option      `yaml:"options"`
	Process      []Step        `yaml:"process"`
	Comparison   *Comparison   `yaml:"comparison"`
	Testimonials []Testimonial `yaml:"testimonials"`
	FAQs         []FAQ         `yaml:"faqs"`
	Gallery      []GalleryItem `yaml:"gallery"`
	PriceList    bool          `yaml:"price_list"`
	Lists        string        `yaml:"lists"` // hub pages: kind of page to list
	CTA          *CTA          `yaml:"cta"`
	Related      []Link        `yaml:"related"`

	// Source is the file the page was loaded from.
	Source    string        `yaml:"-"`
	IntroHTML template.HTML `yaml:"-"`
}

// NavLabel is the short label used in breadcrumbs and link lists.
func (p Page) NavLabel() string {
	if l := strings.TrimSpace(p.Label); l != "" {
		return l
	}
	return p.Title
}

// TreatmentNames lists every treatment the page prices, in page order.
func (p Page) TreatmentNames() []string {
	var names []string
	if p.Treatment != "" {
		names = append(names, p.Treatment)
	}
	for _, o := range p.Options {
		names = append(names, o.Treatment)
	}
	for _, g := range p.Gallery {
		names = append(names, g.Treatment)
	}
	return names
}

// Links lists every authored link on the page. Links inside markdown are
// checked after rendering.
func (p Page) Links() []Link {
	var links []Link
	links = append(links, p.Hero.CTAs...)
	for _, o := range p.Options {
		if o.Href != "" {
			links = append(links, Link{Label: o.Title, Href: o.Href})
		}
	}
	if p.CTA != nil {
		links = append(links, p.CTA.Links...)
	}
	links = append(links, p.Related...)
	return links
}

// clone copies the slices NewSite rewrites so the caller's pages are untouched.
func (p Page) clone() Page {
	p.Hero.Badges = append([]string(nil), p.Hero.Badges...)
	p.Benefits = append([]Benefit(nil), p.Benefits...)
	p.Options = append([]Option(nil), p.Options...)
	p.Process = append([]Step(nil), p.Process...)
	p.FAQs = append([]FAQ(nil), p.FAQs...)
	p.Gallery = append([]GalleryItem(nil), p.Gallery...)
	if p.Comparison != nil {
		c := *p.Comparison
		c.Rows = make([]ComparisonRow, len(p.Comparison.Rows))
		for i, row := range p.Comparison.Rows {
			row.Cells = append([]string(nil), row.Cells...)
			c.Rows[i] = row
		}
		p.Comparison = &c
	}
	if p.CTA != nil {
		cta := *p.CTA
		p.CTA = &cta
	}
	return p
}

// SEO holds optional metadata overrides.
type SEO struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	OGImage     string `yaml:"og_image"`
}

// Hero is the page banner.
type Hero struct {
	Eyebrow  string   `yaml:"eyebrow"`
	Title    string   `yaml:"title"`
	Subtitle string   `yaml:"subtitle"`
	Image    string   `yaml:"image"`
	Badges   []string `yaml:"badges"`
	CTAs     []Link   `yaml:"ctas"`
}

// Link is a button or text link. Variant selects button styling.
type Link struct {
	Label   string `yaml:"label"`
	Href    string `yaml:"href"`
	Variant string `yaml:"variant"`
}

// Benefit is a badge/benefit grid card.
type Benefit struct {
	Icon  string `yaml:"icon"`
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Option is a treatment card. Its price always comes from the pricing table.
type Option struct {
	Treatment   string   `yaml:"treatment"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Features    []string `yaml:"features"`
	Badge       string   `yaml:"badge"`
	Featured    bool     `yaml:"featured"`
	Href        string   `yaml:"href"`
}

// Step is a numbered process step.
type Step struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
}

// Comparison is a static comparison table.
type Comparison struct {
	Caption string          `yaml:"caption"`
	Columns []string        `yaml:"columns"`
	Rows    []ComparisonRow `yaml:"rows"`
}

// ComparisonRow is one row; len(Cells) matches len(Columns).
type ComparisonRow struct {
	Label string   `yaml:"label"`
	Cells []string `yaml:"cells"`
}

// Testimonial is a patient review.
type Testimonial struct {
	Author   string `yaml:"author"`
	Location string `yaml:"location"`
	Text     string `yaml:"text"`
	Rating   int    `yaml:"rating"`
	DateRaw  string `yaml:"date"`

	Date time.Time `yaml:"-"`
}

// FAQ is a question with a markdown answer.
type FAQ struct {
	Question string `yaml:"question"`
	Answer   string `yaml:"answer"`

	AnswerHTML template.HTML `yaml:"-"`
}

// GalleryItem is a before/after case.
type GalleryItem struct {
	Treatment   string `yaml:"treatment"`
	Before      string `yaml:"before"`
	After       string `yaml:"after"`
	Description string `yaml:"description"`
	Featured    bool   `yaml:"featured"`
}

// CTA is the closing call to action.
type CTA struct {
	Title string `yaml:"title"`
	Body  string `yaml:"body"`
	Links []Link `yaml:"links"`
}

// Site is an immutable snapshot of all content.
type Site struct {
	Practice Practice
	Pricing  *pricing.Table
	LoadedAt time.Time

	pages  []Page
	byPath map[string]int
}

// NewSite expands price tokens, renders markdown, indexes pages by path
// and validates the whole site.
func NewSite(practice Practice, table *pricing.Table, pages []Page) (*Site, error) {
	s := &Site{
		Practice: practice,
		Pricing:  table,
		LoadedAt: time.Now().UTC(),
		pages:    make([]Page, len(pages)),
		byPath:   make(map[string]int, len(pages)),
	}
	copy(s.pages, pages)
	for i := range s.pages {
		p := &s.pages[i]
		*p = p.clone()
		p.Path = CleanPath(p.Path)
		p.expandPrices(table)
		if err := renderMarkdown(p); err != nil {
			return nil, fmt.Errorf("content: %s: %w", p.Path, err)
		}
	}
	sort.SliceStable(s.pages, func(i, j int) bool { return s.pages[i].Path < s.pages[j].Path })
	for i, p := range s.pages {
		if _, dup := s.byPath[p.Path]; !dup {
			s.byPath[p.Path] = i
		}
	}
	if err := Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}

// Page returns the page configured for path.
func (s *Site) Page(path string) (Page, error) {
	i, ok := s.byPath[CleanPath(path)]
	if !ok {
		return Page{}, ErrNotFound
	}
	return s.pages[i], nil
}

// Pages returns all pages sorted by path.
func (s *Site) Pages() []Page {
	out := make([]Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// Routes returns every page path, sorted.
func (s *Site) Routes() []string {
	out := make([]string, 0, len(s.pages))
	for _, p := range s.pages {
		out = append(out, p.Path)
	}
	return out
}

// HasRoute reports whether path is served by a page.
func (s *Site) HasRoute(path string) bool {
	_, ok := s.byPath[CleanPath(path)]
	return ok
}

// Label returns the short label for the page at path.
func (s *Site) Label(path string) (string, bool) {
	p, err := s.Page(path)
	if err != nil {
		return "", false
	}
	return p.NavLabel(), true
}

// PagesOfKind returns pages of the given kind in path order.
func (s *Site) PagesOfKind(kind string) []Page {
	var out []Page
	for _, p := range s.pages {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a page path: leading slash, no trailing slash, lower case.
func CleanPath(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	p = strings.Trim(p, "/")
	if p == "" {
		return "/"
	}
	return "/" + p
}
