// Package pricing resolves treatment names to the display prices shown across
// every landing page. The table is built once from static content and is
// read-only afterwards, so it is safe to share between goroutines.
package pricing

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/themartincox/peartree-sub006/internal/format"
)

// ErrUnknownTreatment is returned when a treatment has no table entry.
var ErrUnknownTreatment = errors.New("pricing: unknown treatment")

// DefaultFallback is shown for treatments missing from the table.
const DefaultFallback = "Price on request"

// Entry is a single treatment price.
type Entry struct {
	Treatment string
	Display   string // optional override, e.g. "From £180"
	MinPence  int64
	MaxPence  int64 // 0 means open-ended ("From ...")
	Unit      string
	Category  string
}

// DisplayPrice returns the formatted price for the entry.
func (e Entry) DisplayPrice() string {
	if d := strings.TrimSpace(e.Display); d != "" {
		return d
	}
	var price string
	switch {
	case e.MaxPence == 0:
		price = format.From(e.MinPence)
	case e.MaxPence > e.MinPence:
		price = format.Range(e.MinPence, e.MaxPence)
	default:
		price = format.Pounds(e.MinPence)
	}
	return format.WithUnit(price, e.Unit)
}

// Table maps normalized treatment names to entries.
type Table struct {
	entries  map[string]Entry
	order    []string
	fallback string
}

// Option configures a Table.
type Option func(*Table)

// WithFallback overrides the string returned by Price for unknown names.
func WithFallback(fallback string) Option {
	return func(t *Table) {
		if fallback = strings.TrimSpace(fallback); fallback != "" {
			t.fallback = fallback
		}
	}
}

// NewTable validates entries and builds a lookup table. All problems are
// reported together.
func NewTable(entries []Entry, opts ...Option) (*Table, error) {
	t := &Table{
		entries:  make(map[string]Entry, len(entries)),
		order:    make([]string, 0, len(entries)),
		fallback: DefaultFallback,
	}
	for _, opt := range opts {
		opt(t)
	}

	var errs []error
	for i, e := range entries {
		e.Treatment = strings.Join(strings.Fields(e.Treatment), " ")
		key := Normalize(e.Treatment)
		if key == "" {
			errs = append(errs, fmt.Errorf("pricing: entry %d has no treatment name", i))
			continue
		}
		if prev, dup := t.entries[key]; dup {
			errs = append(errs, fmt.Errorf("pricing: %q duplicates %q", e.Treatment, prev.Treatment))
			continue
		}
		if strings.TrimSpace(e.Display) == "" && e.MinPence <= 0 {
			errs = append(errs, fmt.Errorf("pricing: %q has no price", e.Treatment))
			continue
		}
		if e.MaxPence != 0 && e.MaxPence < e.MinPence {
			errs = append(errs, fmt.Errorf("pricing: %q max %d below min %d", e.Treatment, e.MaxPence, e.MinPence))
			continue
		}
		t.entries[key] = e
		t.order = append(t.order, key)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return t, nil
}

// Normalize folds a treatment name into its lookup key: surrounding space is
// trimmed, inner runs of whitespace collapse to one space and case is folded.
func Normalize(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	return cases.Fold().String(name)
}

// Lookup returns the entry for name.
func (t *Table) Lookup(name string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[Normalize(name)]
	return e, ok
}

// Price returns the display price for name, or the fallback when unknown.
func (t *Table) Price(name string) string {
	if e, ok := t.Lookup(name); ok {
		return e.DisplayPrice()
	}
	return t.Fallback()
}

// Resolve is the strict form of Price.
func (t *Table) Resolve(name string) (string, error) {
	e, ok := t.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTreatment, name)
	}
	return e.DisplayPrice(), nil
}

// Check reports every name that does not resolve. Duplicates are reported once.
func (t *Table) Check(names ...string) error {
	seen := make(map[string]struct{}, len(names))
	var errs []error
	for _, name := range names {
		key := Normalize(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		if _, ok := t.Lookup(name); !ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownTreatment, name))
		}
	}
	return errors.Join(errs...)
}

// Fallback returns the string used for unknown treatments.
func (t *Table) Fallback() string {
	if t == nil || t.fallback == "" {
		return DefaultFallback
	}
	return t.fallback
}

// Entries returns all entries in definition order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.order))
	for _, key := range t.order {
		out = append(out, t.entries[key])
	}
	return out
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.order)
}

// Range returns the lowest and highest priced amounts in pence. Display-only
// entries are ignored.
func (t *Table) Range() (min, max int64) {
	for _, e := range t.Entries() {
		if e.MinPence <= 0 {
			continue
		}
		if min == 0 || e.MinPence < min {
			min = e.MinPence
		}
		top := e.MinPence
		if e.MaxPence > top {
			top = e.MaxPence
		}
		if top > max {
			max = top
		}
	}
	return min, max
}

// PriceRange formats Range for schema.org priceRange.
func (t *Table) PriceRange() string {
	min, max := t.Range()
	if min == 0 {
		return ""
	}
	return format.Range(min, max)
}
