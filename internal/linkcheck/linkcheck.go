// Package linkcheck verifies the links in rendered HTML: internal hrefs must
// point at a known route and tel: links must dial the practice number.
package linkcheck

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Options configures a check.
type Options struct {
	// HasRoute reports whether an internal path is served by the site.
	HasRoute func(path string) bool
	// Tel is the canonical tel: URI, e.g. "tel:+441159000000".
	Tel string
	// SkipPrefixes are internal path prefixes that are never checked.
	SkipPrefixes []string
}

// Problem is a single broken link.
type Problem struct {
	Href   string
	Reason string
}

func (p Problem) String() string { return fmt.Sprintf("%s: %s", p.Href, p.Reason) }

// Check tokenizes r and reports broken hrefs in document order.
func Check(r io.Reader, opts Options) ([]Problem, error) {
	z := html.NewTokenizer(r)
	var problems []Problem
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return problems, fmt.Errorf("linkcheck: tokenize: %w", err)
			}
			return problems, nil
		case html.StartTagToken, html.SelfClosingTagToken:
			name, hasAttr := z.TagName()
			if !hasAttr || string(name) != "a" {
				continue
			}
			for {
				key, val, more := z.TagAttr()
				if string(key) == "href" {
					if p, bad := CheckHref(string(val), opts); bad {
						problems = append(problems, p)
					}
				}
				if !more {
					break
				}
			}
		}
	}
}

// CheckHref validates a single href.
func CheckHref(href string, opts Options) (Problem, bool) {
	href = strings.TrimSpace(href)
	switch {
	case href == "":
		return Problem{Href: href, Reason: "empty href"}, true
	case strings.HasPrefix(href, "#"):
		return Problem{}, false
	case strings.HasPrefix(strings.ToLower(href), "tel:"):
		if opts.Tel != "" && NormalizeTel(href) != NormalizeTel(opts.Tel) {
			return Problem{Href: href, Reason: "tel link does not match practice number " + opts.Tel}, true
		}
		return Problem{}, false
	case strings.HasPrefix(href, "//"):
		return Problem{}, false
	case !SafeHref(href):
		return Problem{Href: href, Reason: "unsupported link; use /path, #fragment, tel:, mailto: or https://"}, true
	case strings.HasPrefix(href, "/"):
		u, err := url.Parse(href)
		if err != nil {
			return Problem{Href: href, Reason: "unparseable: " + err.Error()}, true
		}
		for _, prefix := range opts.SkipPrefixes {
			if strings.HasPrefix(u.Path, prefix) {
				return Problem{}, false
			}
		}
		if opts.HasRoute != nil && !opts.HasRoute(u.Path) {
			return Problem{Href: href, Reason: "no such route"}, true
		}
		return Problem{}, false
	}
	u, err := url.Parse(href)
	if err != nil {
		return Problem{Href: href, Reason: "unparseable: " + err.Error()}, true
	}
	if u.Scheme == "mailto" && u.Opaque == "" {
		return Problem{Href: href, Reason: "mailto link has no address"}, true
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return Problem{Href: href, Reason: "absolute link has no host"}, true
	}
	return Problem{}, false
}

var safePrefixes = []string{"/", "#", "tel:", "mailto:", "https://", "http://"}

// SafeHref reports whether href is a form the templates render as written:
// a site path, a fragment, or a tel:, mailto: or http(s) URL. Anything else
// renders as "#" and is reported by CheckHref.
func SafeHref(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range safePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// NormalizeTel strips a tel: URI down to "+" and digits.
func NormalizeTel(tel string) string {
	tel = strings.TrimSpace(tel)
	if len(tel) >= 4 && strings.EqualFold(tel[:4], "tel:") {
		tel = strings.TrimSpace(tel[4:])
	}
	var b strings.Builder
	for i, r := range tel {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
