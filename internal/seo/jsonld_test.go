package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themartincox/peartree-sub006/internal/content"
	"github.com/themartincox/peartree-sub006/internal/pricing"
)

func decode(t *testing.T, v any) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(JSON(v)), &out))
	return out
}

func TestDentist(t *testing.T) {
	t.Parallel()

	p := content.Practice{
		Name:      "Peartree Dental",
		URL:       "https://www.peartreedental.co.uk",
		PhoneE164: "+441159312935",
		Address:   content.Address{Street: "1 Peartree Lane", Locality: "Arnold", PostalCode: "NG5 7AA", Country: "GB"},
		OpeningHours: []content.OpeningHours{
			{Days: []string{"Monday", "Tuesday"}, Opens: "08:30", Closes: "17:30"},
		},
	}
	got := decode(t, Dentist(p, "£65–£4,500", "Arnold"))

	require.Equal(t, "Dentist", got["@type"])
	require.Equal(t, "+441159312935", got["telephone"])
	require.Equal(t, "https://www.peartreedental.co.uk/#practice", got["@id"])
	require.Equal(t, "£65–£4,500", got["priceRange"])
	addr := got["address"].(map[string]any)
	require.Equal(t, "NG5 7AA", addr["postalCode"])
	hours := got["openingHoursSpecification"].([]any)
	require.Len(t, hours, 1)
	require.NotContains(t, got, "geo")
	areas := got["areaServed"].([]any)
	require.Equal(t, "Arnold", areas[0].(map[string]any)["name"])
}

func TestMedicalProcedureOffers(t *testing.T) {
	t.Parallel()

	fixed := decode(t, MedicalProcedure(pricing.Entry{Treatment: "Composite Edge Bonding", MinPence: 18000}, "Edge bonding", "https://x.test/arnold/composite-bonding", "https://x.test/#practice"))
	offer := fixed["offers"].(map[string]any)
	require.Equal(t, "Offer", offer["@type"])
	require.Equal(t, "180.00", offer["price"])
	require.Equal(t, "GBP", offer["priceCurrency"])
	require.Equal(t, "https://x.test/#practice", offer["offeredBy"].(map[string]any)["@id"])

	ranged := decode(t, MedicalProcedure(pricing.Entry{Treatment: "Invisalign", MinPence: 350000, MaxPence: 450000}, "", "", ""))
	agg := ranged["offers"].(map[string]any)
	require.Equal(t, "AggregateOffer", agg["@type"])
	require.Equal(t, "3500.00", agg["lowPrice"])
	require.Equal(t, "4500.00", agg["highPrice"])

	display := decode(t, MedicalProcedure(pricing.Entry{Treatment: "Consultation", Display: "Complimentary"}, "", "", ""))
	require.NotContains(t, display, "offers")
}

func TestFAQPage(t *testing.T) {
	t.Parallel()

	got := decode(t, FAQPage([]QA{{Question: "Does it hurt?", Answer: "No."}}))
	require.Equal(t, "FAQPage", got["@type"])
	q := got["mainEntity"].([]any)[0].(map[string]any)
	require.Equal(t, "Does it hurt?", q["name"])
	require.Equal(t, "No.", q["acceptedAnswer"].(map[string]any)["text"])
}

func TestBreadcrumbListPositions(t *testing.T) {
	t.Parallel()

	got := decode(t, BreadcrumbList([]BreadcrumbItem{
		{Name: "Home", Item: "https://x.test/"},
		{Name: "Nottingham"},
		{Name: "Composite Bonding", Item: "https://x.test/nottingham/composite-bonding"},
	}))
	items := got["itemListElement"].([]any)
	require.Len(t, items, 3)
	require.EqualValues(t, 2, items[1].(map[string]any)["position"])
	require.NotContains(t, items[1].(map[string]any), "item")
}

func TestScriptEscapesClosingTags(t *testing.T) {
	t.Parallel()

	out := string(Script(map[string]any{"text": "</script><b>"}))
	require.False(t, strings.Contains(out, "</script>"))
	require.Contains(t, out, `\u003c/script\u003e`)
}
