package handlers

import (
	"errors"
	"fmt"
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/format"
	"github.com/themartincox/peartree-sub006/internal/nav"
	"github.com/themartincox/peartree-sub006/internal/pricing"
	"github.com/themartincox/peartree-sub006/internal/seo"
)

const otherCategory = "Other treatments"

// LandingView binds one page's content to the shared landing template.
type LandingView struct {
	Page         content.Page
	Options      []OptionView
	Steps        []StepView
	Testimonials []TestimonialView
	Gallery      GalleryView
	PriceList    []PriceGroup
	Directory    []content.Link
	Breadcrumbs  []nav.Crumb
	JSONLD       []template.JS
}

// OptionView is a treatment card with its resolved price.
type OptionView struct {
	content.Option
	Price string
}

// StepView is a numbered process step.
type StepView struct {
	Number int
	Title  string
	Body   string
}

// TestimonialView carries display and machine dates.
type TestimonialView struct {
	content.Testimonial
	DisplayDate string
	ISODate     string
}

// GalleryView splits cases into featured and other.
type GalleryView struct {
	Featured []GalleryItemView
	Other    []GalleryItemView
}

// Len is the total number of cases.
func (g GalleryView) Len() int { return len(g.Featured) + len(g.Other) }

// GalleryItemView is a before/after case labelled with its treatment.
type GalleryItemView struct {
	content.GalleryItem
	Title string
	Price string
}

// PriceGroup is one category of the full price list.
type PriceGroup struct {
	Category string
	Rows     []PriceRow
}

// PriceRow is one treatment in the price list.
type PriceRow struct {
	Treatment string
	Price     string
}

// BuildLanding resolves a page against the site. Every price shown comes
// from the site's pricing table.
func BuildLanding(site *content.Site, page content.Page, baseURL string) (LandingView, error) {
	if site == nil {
		return LandingView{}, fmt.Errorf("handlers: build landing %s: nil site", page.Path)
	}
	table := site.Pricing
	v := LandingView{
		Page:        page,
		Breadcrumbs: nav.Breadcrumbs(page.Path, site.Label),
	}
	for _, o := range page.Options {
		v.Options = append(v.Options, OptionView{Option: o, Price: table.Price(o.Treatment)})
	}
	for i, s := range page.Process {
		v.Steps = append(v.Steps, StepView{Number: i + 1, Title: s.Title, Body: s.Body})
	}
	for _, t := range page.Testimonials {
		tv := TestimonialView{Testimonial: t, DisplayDate: format.Date(t.Date)}
		if !t.Date.IsZero() {
			tv.ISODate = t.Date.Format("2006-01-02")
		}
		v.Testimonials = append(v.Testimonials, tv)
	}
	featured, other := content.PartitionGallery(page.Gallery)
	v.Gallery = GalleryView{
		Featured: galleryViews(table, featured),
		Other:    galleryViews(table, other),
	}
	if page.PriceList {
		v.PriceList = priceGroups(table)
	}
	if page.Lists != "" {
		v.Directory = directory(site, page)
	}

	ld, err := landingJSONLD(site, page, v.Breadcrumbs, baseURL)
	if err != nil {
		return LandingView{}, fmt.Errorf("handlers: build landing %s: %w", page.Path, err)
	}
	v.JSONLD = ld
	return v, nil
}

func galleryViews(table *pricing.Table, items []content.GalleryItem) []GalleryItemView {
	out := make([]GalleryItemView, 0, len(items))
	for _, it := range items {
		title := it.Treatment
		if e, ok := table.Lookup(it.Treatment); ok {
			title = e.Treatment
		}
		out = append(out, GalleryItemView{GalleryItem: it, Title: title, Price: table.Price(it.Treatment)})
	}
	return out
}

// priceGroups groups the table by category in order of first appearance.
func priceGroups(table *pricing.Table) []PriceGroup {
	var groups []PriceGroup
	index := map[string]int{}
	for _, e := range table.Entries() {
		cat := strings.TrimSpace(e.Category)
		if cat == "" {
			cat = otherCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(groups)
			index[cat] = i
			groups = append(groups, PriceGroup{Category: cat})
		}
		groups[i].Rows = append(groups[i].Rows, PriceRow{Treatment: e.Treatment, Price: e.DisplayPrice()})
	}
	return groups
}

func directory(site *content.Site, page content.Page) []content.Link {
	var links []content.Link
	for _, p := range site.PagesOfKind(page.Lists) {
		if p.Path == page.Path {
			continue
		}
		label := p.NavLabel()
		if p.Location != "" && p.Kind != content.KindLocation {
			label = p.Location + " " + label
		}
		links = append(links, content.Link{Label: label, Href: p.Path})
	}
	return links
}

func landingJSONLD(site *content.Site, page content.Page, crumbs []nav.Crumb, baseURL string) ([]template.JS, error) {
	practice := site.Practice
	base := siteBase(practice, baseURL)
	providerID := practice.URL + "/#practice"

	var areas []string
	if page.Location != "" {
		areas = append(areas, page.Location)
	}
	blocks := []any{seo.Dentist(practice, site.Pricing.PriceRange(), areas...)}

	if page.Kind == content.KindHome {
		blocks = append(blocks, seo.WebSite(practice.Name, base+"/"))
	}
	if page.Treatment != "" {
		entry, ok := site.Pricing.Lookup(page.Treatment)
		if !ok {
			return nil, fmt.Errorf("%w: %q", pricing.ErrUnknownTreatment, page.Treatment)
		}
		blocks = append(blocks, seo.MedicalProcedure(entry, page.Summary, absoluteURL(base, page.Path), providerID))
	}
	if len(page.FAQs) > 0 {
		qa := make([]seo.QA, 0, len(page.FAQs))
		for _, f := range page.FAQs {
			qa = append(qa, seo.QA{Question: f.Question, Answer: plainText(f.AnswerHTML)})
		}
		blocks = append(blocks, seo.FAQPage(qa))
	}
	if len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			it := seo.BreadcrumbItem{Name: c.Label}
			if c.Href != "" {
				it.Item = absoluteURL(base, c.Href)
			}
			items = append(items, it)
		}
		blocks = append(blocks, seo.BreadcrumbList(items))
	}

	out := make([]template.JS, 0, len(blocks))
	for _, b := range blocks {
		js := seo.Script(b)
		if js == "" {
			return nil, errors.New("encode json-ld")
		}
		out = append(out, js)
	}
	return out, nil
}

var textPolicy = bluemonday.StrictPolicy()

// plainText strips markup from rendered markdown for schema answers.
func plainText(h template.HTML) string {
	s := html.UnescapeString(textPolicy.Sanitize(string(h)))
	return strings.Join(strings.Fields(s), " ")
}

func siteBase(p content.Practice, baseURL string) string {
	if baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/"); baseURL != "" {
		return baseURL
	}
	return strings.TrimRight(p.URL, "/")
}

func absoluteURL(base, path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path == "/" {
		return base + "/"
	}
	return base + "/" + strings.TrimPrefix(path, "/")
}
