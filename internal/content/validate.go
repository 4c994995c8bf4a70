package content

import (
	"errors"
	"fmt"
	"strings"

	"github.com/themartincox/peartree-sub006/internal/linkcheck"
	"github.com/themartincox/peartree-sub006/internal/pricing"
)

// Problem is a single content authoring error.
type Problem struct {
	Source string
	Field  string
	Err    error
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s: %v", p.Source, p.Field, p.Err)
}

// ValidationError lists every problem found in a content snapshot.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	lines := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		lines = append(lines, p.String())
	}
	return fmt.Sprintf("content: %d problem(s):\n  %s", len(e.Problems), strings.Join(lines, "\n  "))
}

// Unwrap exposes the underlying errors to errors.Is and errors.As.
func (e *ValidationError) Unwrap() []error {
	out := make([]error, 0, len(e.Problems))
	for _, p := range e.Problems {
		out = append(out, p.Err)
	}
	return out
}

type validator struct {
	site     *Site
	links    linkcheck.Options
	problems []Problem
}

func (v *validator) addf(source, field, format string, args ...any) {
	v.problems = append(v.problems, Problem{Source: source, Field: field, Err: fmt.Errorf(format, args...)})
}

func (v *validator) add(source, field string, err error) {
	v.problems = append(v.problems, Problem{Source: source, Field: field, Err: err})
}

// LinkOptions returns the link rules applied to authored and rendered links.
func (s *Site) LinkOptions() linkcheck.Options {
	return linkcheck.Options{
		HasRoute:     s.HasRoute,
		Tel:          s.Practice.Tel(),
		SkipPrefixes: []string{"/assets/"},
	}
}

// Validate runs the static content checks: required fields, pricing
// totality, prices quoted in copy, internal routes and the canonical phone
// number.
func Validate(s *Site) error {
	v := &validator{site: s, links: s.LinkOptions()}
	v.practice(s.Practice)
	if s.Pricing == nil || s.Pricing.Len() == 0 {
		v.addf("pricing", "treatments", "pricing table is empty")
	}
	if !s.HasRoute("/") {
		v.addf("pages", "path", "no page configured for /")
	}
	seen := map[string]string{}
	for _, p := range s.pages {
		src := p.Source
		if src == "" {
			src = p.Path
		}
		if prev, dup := seen[p.Path]; dup {
			v.addf(src, "path", "%s already defined by %s", p.Path, prev)
		}
		seen[p.Path] = src
		v.page(src, p)
	}
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: v.problems}
}

func (v *validator) practice(p Practice) {
	const src = "practice"
	if strings.TrimSpace(p.Name) == "" {
		v.addf(src, "name", "required")
	}
	if strings.TrimSpace(p.Phone) == "" {
		v.addf(src, "phone", "required")
	}
	if !strings.HasPrefix(p.PhoneE164, "+") || len(linkcheck.NormalizeTel(p.PhoneE164)) < 8 {
		v.addf(src, "phone_e164", "must be an E.164 number, got %q", p.PhoneE164)
	}
	if strings.TrimSpace(p.URL) == "" {
		v.addf(src, "url", "required")
	}
}

func (v *validator) page(src string, p Page) {
	if _, ok := knownKinds[p.Kind]; !ok {
		v.addf(src, "kind", "unknown kind %q", p.Kind)
	}
	if p.Lists != "" {
		if _, ok := knownKinds[p.Lists]; !ok {
			v.addf(src, "lists", "unknown kind %q", p.Lists)
		}
	}
	if strings.TrimSpace(p.Title) == "" {
		v.addf(src, "title", "required")
	}
	if strings.TrimSpace(p.Hero.Title) == "" {
		v.addf(src, "hero.title", "required")
	}
	if p.Treatment != "" {
		v.treatment(src, "treatment", p.Treatment)
	}
	for i, o := range p.Options {
		field := fmt.Sprintf("options[%d]", i)
		if strings.TrimSpace(o.Title) == "" {
			v.addf(src, field+".title", "required")
		}
		if strings.TrimSpace(o.Treatment) == "" {
			v.addf(src, field+".treatment", "required")
			continue
		}
		v.treatment(src, field+".treatment", o.Treatment)
	}
	for i, g := range p.Gallery {
		field := fmt.Sprintf("gallery[%d]", i)
		v.treatment(src, field+".treatment", g.Treatment)
		if g.Before == "" || g.After == "" {
			v.addf(src, field, "before and after images are required")
		}
	}
	for i, s := range p.Process {
		if strings.TrimSpace(s.Title) == "" {
			v.addf(src, fmt.Sprintf("process[%d].title", i), "required")
		}
	}
	for i, f := range p.FAQs {
		field := fmt.Sprintf("faqs[%d]", i)
		if strings.TrimSpace(f.Question) == "" {
			v.addf(src, field+".question", "required")
		}
		if strings.TrimSpace(f.Answer) == "" {
			v.addf(src, field+".answer", "required")
		}
		v.rendered(src, field+".answer", string(f.AnswerHTML))
	}
	for i, t := range p.Testimonials {
		field := fmt.Sprintf("testimonials[%d]", i)
		if strings.TrimSpace(t.Author) == "" {
			v.addf(src, field+".author", "required")
		}
		if strings.TrimSpace(t.Text) == "" {
			v.addf(src, field+".text", "required")
		}
		if t.Rating < 1 || t.Rating > 5 {
			v.addf(src, field+".rating", "must be between 1 and 5, got %d", t.Rating)
		}
	}
	if c := p.Comparison; c != nil {
		if len(c.Columns) == 0 {
			v.addf(src, "comparison.columns", "required")
		}
		for i, row := range c.Rows {
			if len(row.Cells) != len(c.Columns) {
				v.addf(src, fmt.Sprintf("comparison.rows[%d]", i), "has %d cells for %d columns", len(row.Cells), len(c.Columns))
			}
		}
	}
	for i, l := range p.Links() {
		field := fmt.Sprintf("links[%d]", i)
		if strings.TrimSpace(l.Label) == "" {
			v.addf(src, field+".label", "required for %q", l.Href)
		}
		if prob, bad := linkcheck.CheckHref(l.Href, v.links); bad {
			v.addf(src, field, "%s", prob)
		}
	}
	v.rendered(src, "intro", string(p.IntroHTML))
	v.copyPrices(src, p)
}

// copyPrices rejects price tokens for unknown treatments and £ amounts typed
// into copy instead of quoted from the table.
func (v *validator) copyPrices(src string, p Page) {
	for _, f := range p.copyFields() {
		for _, name := range unresolvedPrices(*f.Text) {
			v.add(src, f.Name, fmt.Errorf("%w: %q", pricing.ErrUnknownTreatment, name))
		}
		if hardcodedPrice(*f.Text, v.site.Pricing) {
			v.addf(src, f.Name, "hardcoded price; quote the table with [[price:Treatment]]")
		}
	}
}

func (v *validator) treatment(src, field, name string) {
	if err := v.site.Pricing.Check(name); err != nil {
		v.add(src, field, err)
	}
}

func (v *validator) rendered(src, field, html string) {
	if html == "" {
		return
	}
	problems, err := linkcheck.Check(strings.NewReader(html), v.links)
	if err != nil {
		v.add(src, field, err)
		return
	}
	for _, prob := range problems {
		v.add(src, field, errors.New(prob.String()))
	}
}
