package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := Load("testdata/pricing.yaml")
	require.NoError(t, err)
	return tbl
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	require.Equal(t, "composite edge bonding", Normalize("  Composite   Edge\tBonding "))
	require.Equal(t, Normalize("COMPOSITE EDGE BONDING"), Normalize("composite edge bonding"))
	require.Empty(t, Normalize(" \t "))
}

func TestLookupIsNormalized(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	want := "From £180 per tooth"
	for _, name := range []string{"Composite Edge Bonding", "composite edge bonding", " Composite  Edge Bonding "} {
		require.Equal(t, want, tbl.Price(name), "name=%q", name)
	}
	e, ok := tbl.Lookup("composite EDGE bonding")
	require.True(t, ok)
	require.Equal(t, "Composite Edge Bonding", e.Treatment)
	require.Equal(t, "cosmetic", e.Category)
}

func TestDisplayPriceShapes(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	require.Equal(t, "£3,000–£4,500", tbl.Price("Invisalign Comprehensive"))
	require.Equal(t, "£75", tbl.Price("Hygiene Appointment"))
	require.Equal(t, "Complimentary", tbl.Price("Smile Design Consultation"))
}

func TestUnknownTreatment(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	require.Equal(t, "Call for a quote", tbl.Price("Gold Crown"))

	_, err := tbl.Resolve("Gold Crown")
	require.ErrorIs(t, err, ErrUnknownTreatment)
	require.Contains(t, err.Error(), `"Gold Crown"`)

	got, err := tbl.Resolve("hygiene appointment")
	require.NoError(t, err)
	require.Equal(t, "£75", got)
}

func TestCheckReportsEveryMissingName(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	require.NoError(t, tbl.Check("Composite Edge Bonding", "Invisalign Comprehensive"))

	err := tbl.Check("Gold Crown", "Composite Edge Bonding", "gold crown", "Root Canal")
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrUnknownTreatment))
	require.Contains(t, err.Error(), `"Gold Crown"`)
	require.Contains(t, err.Error(), `"Root Canal"`)
	require.NotContains(t, err.Error(), `"gold crown"`)
}

func TestNewTableRejectsBadEntries(t *testing.T) {
	t.Parallel()

	_, err := NewTable([]Entry{
		{Treatment: "Composite Edge Bonding", MinPence: 18000},
		{Treatment: "composite  edge bonding", MinPence: 20000},
		{Treatment: "  ", MinPence: 100},
		{Treatment: "Whitening"},
		{Treatment: "Veneers", MinPence: 50000, MaxPence: 40000},
	})
	require.Error(t, err)
	msg := err.Error()
	require.Contains(t, msg, "duplicates")
	require.Contains(t, msg, "entry 2 has no treatment name")
	require.Contains(t, msg, `"Whitening" has no price`)
	require.Contains(t, msg, `"Veneers" max 40000 below min 50000`)
}

func TestEntriesKeepDefinitionOrder(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	var names []string
	for _, e := range tbl.Entries() {
		names = append(names, e.Treatment)
	}
	require.Equal(t, []string{
		"Composite Edge Bonding",
		"Invisalign Comprehensive",
		"Hygiene Appointment",
		"Smile Design Consultation",
	}, names)
	require.Equal(t, 4, tbl.Len())
}

func TestPriceRange(t *testing.T) {
	t.Parallel()
	tbl := newTestTable(t)

	min, max := tbl.Range()
	require.EqualValues(t, 7500, min)
	require.EqualValues(t, 450000, max)
	require.Equal(t, "£75–£4,500", tbl.PriceRange())
}

func TestParseRejectsForeignCurrency(t *testing.T) {
	t.Parallel()

	_, err := Parse([]byte("currency: EUR\ntreatments:\n  - name: Check-up\n    from: 50\n"))
	require.ErrorContains(t, err, "unsupported currency")
}

func TestNilTableFallsBack(t *testing.T) {
	t.Parallel()

	var tbl *Table
	require.Equal(t, DefaultFallback, tbl.Price("Composite Edge Bonding"))
	require.Zero(t, tbl.Len())
}
