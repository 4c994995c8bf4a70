package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/themartincox/peartree-sub006/internal/pricing"
)

// Copy quotes prices with a token such as [[price:Composite Edge Bonding]],
// which expands to the table's display price.
var (
	priceToken   = regexp.MustCompile(`\[\[price:\s*([^\]]*?)\s*\]\]`)
	literalPrice = regexp.MustCompile(`£\s?\d`)
)

// copyField is a piece of authored page copy that may quote a price.
type copyField struct {
	Name string
	Text *string
}

// copyFields lists the page copy that goes through price expansion.
// Testimonials are quotes and are left alone.
func (p *Page) copyFields() []copyField {
	fields := []copyField{
		{"title", &p.Title},
		{"summary", &p.Summary},
		{"intro", &p.Intro},
		{"seo.title", &p.SEO.Title},
		{"seo.description", &p.SEO.Description},
		{"hero.subtitle", &p.Hero.Subtitle},
	}
	for i := range p.Hero.Badges {
		fields = append(fields, copyField{fieldf("hero.badges[%d]", i), &p.Hero.Badges[i]})
	}
	for i := range p.Benefits {
		fields = append(fields, copyField{fieldf("benefits[%d].body", i), &p.Benefits[i].Body})
	}
	for i := range p.Options {
		fields = append(fields, copyField{fieldf("options[%d].description", i), &p.Options[i].Description})
	}
	for i := range p.Process {
		fields = append(fields, copyField{fieldf("process[%d].body", i), &p.Process[i].Body})
	}
	if c := p.Comparison; c != nil {
		for i := range c.Rows {
			for j := range c.Rows[i].Cells {
				fields = append(fields, copyField{fieldf("comparison.rows[%d].cells[%d]", i, j), &c.Rows[i].Cells[j]})
			}
		}
	}
	for i := range p.FAQs {
		fields = append(fields, copyField{fieldf("faqs[%d].answer", i), &p.FAQs[i].Answer})
	}
	for i := range p.Gallery {
		fields = append(fields, copyField{fieldf("gallery[%d].description", i), &p.Gallery[i].Description})
	}
	if p.CTA != nil {
		fields = append(fields, copyField{"cta.body", &p.CTA.Body})
	}
	return fields
}

// ExpandPrices replaces price tokens with display prices from t. Tokens
// naming an unknown treatment are left in place for validation to report.
// A price in the middle of a sentence starts lower case ("from £180").
func ExpandPrices(text string, t *pricing.Table) string {
	if !strings.Contains(text, "[[") {
		return text
	}
	matches := priceToken.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m[0]])
		last = m[1]
		e, ok := t.Lookup(text[m[2]:m[3]])
		if !ok {
			b.WriteString(text[m[0]:m[1]])
			continue
		}
		price := e.DisplayPrice()
		if midSentence(b.String()) {
			price = lowerFirst(price)
		}
		b.WriteString(price)
	}
	b.WriteString(text[last:])
	return b.String()
}

// unresolvedPrices returns the treatment names of tokens left after expansion.
func unresolvedPrices(text string) []string {
	var names []string
	for _, m := range priceToken.FindAllStringSubmatch(text, -1) {
		names = append(names, m[1])
	}
	return names
}

// hardcodedPrice reports whether text quotes a £ amount that did not come
// from the table.
func hardcodedPrice(text string, t *pricing.Table) bool {
	if !literalPrice.MatchString(text) {
		return false
	}
	for _, e := range t.Entries() {
		d := e.DisplayPrice()
		text = strings.ReplaceAll(text, d, "")
		text = strings.ReplaceAll(text, lowerFirst(d), "")
	}
	return literalPrice.MatchString(text)
}

func (p *Page) expandPrices(t *pricing.Table) {
	for _, f := range p.copyFields() {
		*f.Text = ExpandPrices(*f.Text, t)
	}
}

func fieldf(format string, args ...any) string {
	return fmt.Sprintf(format, args...)
}

func midSentence(before string) bool {
	before = strings.TrimRightFunc(before, unicode.IsSpace)
	if before == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(before)
	return !strings.ContainsRune(".!?:\n", r)
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || !unicode.IsUpper(r) {
		return s
	}
	// Keep acronyms and names such as "NHS" as written.
	if next, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(next) {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}
