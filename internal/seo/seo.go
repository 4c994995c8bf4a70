package seo

import "html/template"

// OpenGraph holds og:* tags.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Twitter holds twitter:* card tags.
type Twitter struct {
	Card  string
	Site  string
	Image string
}

// Meta is the head metadata for one page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []template.JS
}
