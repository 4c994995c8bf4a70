package seo

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/pricing"
)

const schemaContext = "https://schema.org"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
// Map keys are sorted, so output is stable across renders.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Script returns v as JSON safe to place inside a <script type="application/ld+json">.
// encoding/json escapes <, > and &, so the payload cannot close the script element.
func Script(v any) template.JS {
	return template.JS(JSON(v))
}

// Dentist returns the practice as a schema.org Dentist (a LocalBusiness).
func Dentist(p content.Practice, priceRange string, areaServed ...string) map[string]any {
	m := map[string]any{
		"@context":  schemaContext,
		"@type":     "Dentist",
		"name":      p.Name,
		"telephone": p.PhoneE164,
		"address": map[string]any{
			"@type":           "PostalAddress",
			"streetAddress":   p.Address.Street,
			"addressLocality": p.Address.Locality,
			"addressRegion":   p.Address.Region,
			"postalCode":      p.Address.PostalCode,
			"addressCountry":  p.Address.Country,
		},
	}
	if p.URL != "" {
		m["url"] = p.URL
		m["@id"] = p.URL + "/#practice"
	}
	if p.Email != "" {
		m["email"] = p.Email
	}
	if p.Logo != "" {
		m["logo"] = p.Logo
	}
	if p.Image != "" {
		m["image"] = p.Image
	}
	if p.Geo.Lat != 0 || p.Geo.Lng != 0 {
		m["geo"] = map[string]any{
			"@type":     "GeoCoordinates",
			"latitude":  p.Geo.Lat,
			"longitude": p.Geo.Lng,
		}
	}
	if len(p.OpeningHours) > 0 {
		hours := make([]map[string]any, 0, len(p.OpeningHours))
		for _, h := range p.OpeningHours {
			hours = append(hours, map[string]any{
				"@type":     "OpeningHoursSpecification",
				"dayOfWeek": h.Days,
				"opens":     h.Opens,
				"closes":    h.Closes,
			})
		}
		m["openingHoursSpecification"] = hours
	}
	if len(p.SameAs) > 0 {
		m["sameAs"] = p.SameAs
	}
	if priceRange != "" {
		m["priceRange"] = priceRange
	}
	if len(areaServed) > 0 {
		areas := make([]map[string]any, 0, len(areaServed))
		for _, a := range areaServed {
			areas = append(areas, map[string]any{"@type": "City", "name": a})
		}
		m["areaServed"] = areas
	}
	return m
}

// MedicalProcedure describes a treatment offered by the practice.
func MedicalProcedure(e pricing.Entry, description, url, providerID string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "MedicalProcedure",
		"name":     e.Treatment,
	}
	if description != "" {
		m["description"] = description
	}
	if url != "" {
		m["url"] = url
	}
	if offer := Offer(e); offer != nil {
		if providerID != "" {
			offer["offeredBy"] = map[string]any{"@id": providerID}
		}
		m["offers"] = offer
	}
	return m
}

// Offer returns a GBP Offer (or AggregateOffer for a range). Display-only
// prices have no structured amount and yield nil.
func Offer(e pricing.Entry) map[string]any {
	if e.MinPence <= 0 {
		return nil
	}
	if e.MaxPence > e.MinPence {
		return map[string]any{
			"@type":         "AggregateOffer",
			"priceCurrency": "GBP",
			"lowPrice":      decimal(e.MinPence),
			"highPrice":     decimal(e.MaxPence),
		}
	}
	return map[string]any{
		"@type":         "Offer",
		"priceCurrency": "GBP",
		"price":         decimal(e.MinPence),
	}
}

// QA is a question and plain-text answer.
type QA struct {
	Question string
	Answer   string
}

// FAQPage builds schema.org FAQPage.
func FAQPage(items []QA) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for _, it := range items {
		el = append(el, map[string]any{
			"@type": "Question",
			"name":  it.Question,
			"acceptedAnswer": map[string]any{
				"@type": "Answer",
				"text":  it.Answer,
			},
		})
	}
	return map[string]any{
		"@context":   schemaContext,
		"@type":      "FAQPage",
		"mainEntity": el,
	}
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": schemaContext,
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// BreadcrumbItem maps name and absolute item URL.
type BreadcrumbItem struct {
	Name string
	Item string
}

// BreadcrumbList builds schema.org BreadcrumbList.
func BreadcrumbList(items []BreadcrumbItem) map[string]any {
	el := make([]map[string]any, 0, len(items))
	for i, it := range items {
		entry := map[string]any{
			"@type":    "ListItem",
			"position": i + 1,
			"name":     it.Name,
		}
		if it.Item != "" {
			entry["item"] = it.Item
		}
		el = append(el, entry)
	}
	return map[string]any{
		"@context":        schemaContext,
		"@type":           "BreadcrumbList",
		"itemListElement": el,
	}
}

func decimal(pence int64) string {
	return fmt.Sprintf("%d.%02d", pence/100, pence%100)
}
