package nav

import (
	"path"
	"strings"
)

// Item represents a top-level navigation item.
type Item struct {
	Path  string // e.g. "/treatments"
	Label string
}

// RenderedItem is a view model for templates.
type RenderedItem struct {
	Href   string
	Label  string
	Active bool
}

// Crumb represents a breadcrumb entry. Href is empty for path segments that
// have no page of their own.
type Crumb struct {
	Href   string
	Label  string
	Active bool
}

// Main is the primary navigation definition.
var Main = []Item{
	{Path: "/treatments", Label: "Treatments"},
	{Path: "/locations", Label: "Locations"},
	{Path: "/fees", Label: "Fees"},
	{Path: "/membership", Label: "Membership"},
	{Path: "/book", Label: "Book"},
}

// Footer lists secondary links rendered in every page footer.
var Footer = []Item{
	{Path: "/", Label: "Home"},
	{Path: "/treatments", Label: "Treatments"},
	{Path: "/fees", Label: "Fees"},
	{Path: "/nervous-patients", Label: "Nervous patients"},
	{Path: "/book", Label: "Book an appointment"},
}

// Build renders navigation items with active state given the current path.
func Build(items []Item, currentPath string) []RenderedItem {
	if currentPath == "" {
		currentPath = "/"
	}
	out := make([]RenderedItem, 0, len(items))
	for _, it := range items {
		out = append(out, RenderedItem{
			Href:   it.Path,
			Label:  it.Label,
			Active: isActive(it.Path, currentPath),
		})
	}
	return out
}

func isActive(itemPath, currentPath string) bool {
	if itemPath == "/" {
		return currentPath == "/"
	}
	// match exact or prefix boundary: "/fees" or "/fees/..."
	if currentPath == itemPath {
		return true
	}
	return strings.HasPrefix(currentPath, itemPath+"/")
}

// Labeler returns the label for a path that has a page.
type Labeler func(path string) (string, bool)

// Breadcrumbs builds breadcrumb entries from the current path.
// Rules:
// - Always start with Home
// - Segments with a page are linked and use the page label
// - Segments without a page use a prettified, unlinked label
func Breadcrumbs(currentPath string, label Labeler) []Crumb {
	if currentPath == "" {
		currentPath = "/"
	}
	crumbs := []Crumb{{Href: "/", Label: "Home", Active: currentPath == "/"}}
	if currentPath == "/" {
		return crumbs
	}

	clean := path.Clean("/" + strings.Trim(currentPath, "/"))
	parts := strings.Split(strings.TrimPrefix(clean, "/"), "/")
	href := ""
	for i, seg := range parts {
		if seg == "" {
			continue
		}
		href += "/" + seg
		c := Crumb{Label: titleFromSegment(seg), Active: i == len(parts)-1}
		if label != nil {
			if l, ok := label(href); ok {
				c.Href = href
				if l != "" {
					c.Label = l
				}
			}
		}
		crumbs = append(crumbs, c)
	}
	return crumbs
}

func titleFromSegment(seg string) string {
	if seg == "" {
		return seg
	}
	words := strings.FieldsFunc(seg, func(r rune) bool { return r == '-' || r == '_' })
	for i, w := range words {
		r := []rune(w)
		r[0] = toUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

func toUpper(r rune) rune {
	// ASCII only is sufficient for slugs here
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
