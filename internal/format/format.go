package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// Pounds formats an amount in pence as sterling.
// Whole pounds drop the pence: Pounds(125000) => "£1,250", Pounds(1250) => "£12.50".
func Pounds(pence int64) string {
	neg := pence < 0
	if neg {
		pence = -pence
	}
	major := pence / 100
	minor := pence % 100
	out := "£" + printer.Sprintf("%d", major)
	if minor != 0 {
		out += fmt.Sprintf(".%02d", minor)
	}
	if neg {
		return "-" + out
	}
	return out
}

// From formats a starting price, e.g. "From £180".
func From(pence int64) string {
	return "From " + Pounds(pence)
}

// Range formats a price band, e.g. "£3,000–£4,500". Equal bounds collapse to a single price.
func Range(min, max int64) string {
	if max <= min {
		return Pounds(min)
	}
	return Pounds(min) + "–" + Pounds(max)
}

// WithUnit appends a unit such as "per tooth" when present.
func WithUnit(price, unit string) string {
	unit = strings.TrimSpace(unit)
	if unit == "" {
		return price
	}
	return price + " " + unit
}

// Date formats a date the way the practice writes them, e.g. "4 March 2025".
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2 January 2006")
}
