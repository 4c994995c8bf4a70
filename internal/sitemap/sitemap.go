// Package sitemap renders sitemaps.org XML and robots.txt for the site routes.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"time"
)

const xmlns = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlset struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []entry  `xml:"url"`
}

type entry struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod,omitempty"`
	Priority string `xml:"priority,omitempty"`
}

// Build returns a sitemap listing routes under baseURL in the given order.
func Build(baseURL string, routes []string, lastmod time.Time) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		return nil, fmt.Errorf("sitemap: base url required")
	}
	set := urlset{Xmlns: xmlns}
	for _, r := range routes {
		e := entry{Loc: base + r, Priority: priority(r)}
		if r == "/" {
			e.Loc = base + "/"
		}
		if !lastmod.IsZero() {
			e.LastMod = lastmod.UTC().Format("2006-01-02")
		}
		set.URLs = append(set.URLs, e)
	}
	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("sitemap: encode: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// priority ranks shallower pages higher.
func priority(route string) string {
	switch depth := strings.Count(strings.Trim(route, "/"), "/"); {
	case route == "/":
		return "1.0"
	case depth == 0:
		return "0.8"
	default:
		return "0.6"
	}
}

// Robots returns robots.txt content pointing crawlers at the sitemap.
// Non-production deployments disallow everything.
func Robots(baseURL string, allow bool) []byte {
	var b strings.Builder
	b.WriteString("User-agent: *\n")
	if allow {
		b.WriteString("Allow: /\n")
	} else {
		b.WriteString("Disallow: /\n")
	}
	if base := strings.TrimRight(baseURL, "/"); base != "" {
		fmt.Fprintf(&b, "\nSitemap: %s/sitemap.xml\n", base)
	}
	return []byte(b.String())
}
