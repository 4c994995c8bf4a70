package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/themartincox/peartree-sub006/internal/pricing"
)

func testTable(t *testing.T, fromPounds float64) *pricing.Table {
	t.Helper()
	table, err := pricing.NewTable([]pricing.Entry{
		{Treatment: "Composite Edge Bonding", MinPence: int64(fromPounds * 100), Unit: "per tooth"},
		{Treatment: "Porcelain Veneers", MinPence: 75000, Unit: "per tooth"},
		{Treatment: "NHS Band 1", Display: "NHS Band 1 charge"},
	})
	require.NoError(t, err)
	return table
}

func TestExpandPrices(t *testing.T) {
	t.Parallel()

	table := testTable(t, 180)
	cases := map[string]string{
		"[[price:Composite Edge Bonding]].":                 "From £180 per tooth.",
		"Bonding starts [[price: composite edge bonding ]]": "Bonding starts from £180 per tooth",
		"Quick fix. [[price:Composite Edge Bonding]]":       "Quick fix. From £180 per tooth",
		"Check-ups: [[price:NHS Band 1]]":                   "Check-ups: NHS Band 1 charge",
		"Check-ups cost the [[price:NHS Band 1]]":           "Check-ups cost the NHS Band 1 charge",
		"Ask about [[price:Whitening]]":                     "Ask about [[price:Whitening]]",
		"No tokens here":                                    "No tokens here",
	}
	for in, want := range cases {
		require.Equal(t, want, ExpandPrices(in, table), in)
	}
}

func sitePages(t *testing.T) (*Site, []Page, int) {
	t.Helper()
	site, err := Load("testdata/site")
	require.NoError(t, err)
	pages := site.Pages()
	for i, p := range pages {
		if p.Path == "/arnold/composite-bonding" {
			return site, pages, i
		}
	}
	t.Fatal("bonding page missing")
	return nil, nil, 0
}

func TestNewSiteExpandsPriceTokens(t *testing.T) {
	t.Parallel()

	base, pages, i := sitePages(t)
	pages[i].SEO.Description = "Edge bonding in Arnold, [[price:Composite Edge Bonding]]."
	pages[i].FAQs = append(pages[i].FAQs, FAQ{
		Question: "How much is bonding?",
		Answer:   "Edge bonding starts [[price:Composite Edge Bonding]]. Book a [consultation](/book).",
	})

	site, err := NewSite(base.Practice, testTable(t, 200), pages)
	require.NoError(t, err)
	page, err := site.Page("/arnold/composite-bonding")
	require.NoError(t, err)
	require.Equal(t, "Edge bonding in Arnold, from £200 per tooth.", page.SEO.Description)
	answer := page.FAQs[len(page.FAQs)-1]
	require.Contains(t, string(answer.AnswerHTML), "starts from £200 per tooth")

	// The caller's pages keep their tokens, so the same copy follows a new table.
	require.Contains(t, pages[i].SEO.Description, "[[price:")
	site, err = NewSite(base.Practice, testTable(t, 220), pages)
	require.NoError(t, err)
	page, err = site.Page("/arnold/composite-bonding")
	require.NoError(t, err)
	require.Equal(t, "Edge bonding in Arnold, from £220 per tooth.", page.SEO.Description)
}

func TestValidationRejectsHardcodedPrices(t *testing.T) {
	t.Parallel()

	base, pages, i := sitePages(t)
	pages[i].SEO.Description = "Edge bonding in Arnold from £180 per tooth."

	// Matching the table is tolerated; a table change then fails validation
	// instead of leaving the page quoting a stale price.
	_, err := NewSite(base.Practice, testTable(t, 180), pages)
	require.NoError(t, err)

	_, err = NewSite(base.Practice, testTable(t, 200), pages)
	require.Error(t, err)
	require.Contains(t, err.Error(), "seo.description: hardcoded price")

	pages[i].SEO.Description = "Ask about [[price:Whitening]]."
	_, err = NewSite(base.Practice, testTable(t, 180), pages)
	require.ErrorIs(t, err, pricing.ErrUnknownTreatment)
	require.Contains(t, err.Error(), `"Whitening"`)
}

func TestRepositoryCopyFollowsPricingTable(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "content")
	require.NoError(t, os.CopyFS(dir, os.DirFS("../../content")))
	path := filepath.Join(dir, "pricing.yaml")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	edited := strings.Replace(string(data), "  - name: Composite Edge Bonding\n    from: 180\n", "  - name: Composite Edge Bonding\n    from: 200\n", 1)
	require.NotEqual(t, string(data), edited)
	require.NoError(t, os.WriteFile(path, []byte(edited), 0o644))

	site, err := Load(dir)
	require.NoError(t, err)
	for _, p := range site.Pages() {
		for _, f := range p.copyFields() {
			require.NotContains(t, *f.Text, "£180", "%s %s", p.Source, f.Name)
			require.NotContains(t, *f.Text, "[[price:", "%s %s", p.Source, f.Name)
		}
	}
	page, err := site.Page("/nottingham/composite-bonding")
	require.NoError(t, err)
	require.Contains(t, page.SEO.Description, "from £200 per tooth")
}
