package handlers

import (
	"strings"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/nav"
	"github.com/themartincox/peartree-sub006/internal/seo"
)

const (
	defaultLang   = "en-GB"
	defaultOGType = "website"
)

// PageData is the view model for every page using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	FooterNav   []nav.RenderedItem
	Breadcrumbs []nav.Crumb
	Practice    content.Practice

	// Landing is nil for pages without content configuration (404).
	Landing *LandingView
}

// BuildPageData assembles the layout and landing view for a configured page.
func BuildPageData(site *content.Site, page content.Page, baseURL string, a Analytics) (PageData, error) {
	landing, err := BuildLanding(site, page, baseURL)
	if err != nil {
		return PageData{}, err
	}
	base := siteBase(site.Practice, baseURL)
	d := layout(site, page.Path, a)
	d.Title = pageTitle(page.SEO.Title, page.Title, site.Practice.Name)
	d.Breadcrumbs = landing.Breadcrumbs
	d.Landing = &landing

	desc := page.SEO.Description
	if desc == "" {
		desc = page.Summary
	}
	canonical := absoluteURL(base, page.Path)
	image := page.SEO.OGImage
	if image == "" {
		image = page.Hero.Image
	}
	if image != "" {
		image = absoluteURL(base, image)
	}
	d.SEO = seo.Meta{
		Title:       d.Title,
		Description: desc,
		Canonical:   canonical,
		Robots:      "index,follow",
		OG: seo.OpenGraph{
			Title:       d.Title,
			Description: desc,
			Image:       image,
			Type:        defaultOGType,
			URL:         canonical,
			SiteName:    site.Practice.Name,
		},
		Twitter: seo.Twitter{Card: twitterCard(image), Image: image},
		JSONLD:  landing.JSONLD,
	}
	return d, nil
}

// NotFoundData is the view model for the 404 page.
func NotFoundData(site *content.Site, path string, a Analytics) PageData {
	d := layout(site, path, a)
	d.Title = pageTitle("", "Page not found", site.Practice.Name)
	d.Breadcrumbs = []nav.Crumb{{Href: "/", Label: "Home"}, {Label: "Page not found", Active: true}}
	d.SEO = seo.Meta{
		Title:  d.Title,
		Robots: "noindex",
		OG:     seo.OpenGraph{Title: d.Title, Type: defaultOGType, SiteName: site.Practice.Name},
	}
	return d
}

func layout(site *content.Site, path string, a Analytics) PageData {
	return PageData{
		Lang:      defaultLang,
		Analytics: a,
		Path:      path,
		Nav:       nav.Build(nav.Main, path),
		FooterNav: nav.Build(nav.Footer, path),
		Practice:  site.Practice,
	}
}

func pageTitle(override, title, siteName string) string {
	if override = strings.TrimSpace(override); override != "" {
		return override
	}
	if siteName == "" || strings.Contains(title, siteName) {
		return title
	}
	return title + " | " + siteName
}

func twitterCard(image string) string {
	if image != "" {
		return "summary_large_image"
	}
	return "summary"
}
