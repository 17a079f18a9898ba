package wikitext

import (
	"strings"
	"testing"

	"civmcbot/internal/geometry"
	"civmcbot/internal/registry"
)

func rect(x1, z1, x2, z2 int) geometry.Shape {
	return geometry.Rect{P1: geometry.Point{X: x1, Z: z1}, P2: geometry.Point{X: x2, Z: z2}}
}

func testRegistry() *registry.Registry {
	return &registry.Registry{
		File: registry.File{
			Path:     "land_registry/lusitania",
			DataFile: "land_registry/lusitania/claims.json",
			OffsetX:  -100,
			OffsetY:  -100,
		},
		Entries: []registry.Entry{
			{Shape: rect(-100, -100, -90, -90), Owner: "Alice", Type: registry.ZoneResidential, Name: "Villa"},
			{Shape: rect(-80, -100, -70, -98), Owner: "bob", Type: registry.ZoneCommercial},
			{Shape: rect(0, 0, 1, 10), Owner: "Alice, bob", Type: registry.ZonePublic},
		},
	}
}

func TestImageMap(t *testing.T) {
	got := ImageMap(testRegistry())
	wantLines := []string{
		"{{#tag:imagemap|",
		"Image:lusitania civmc.png {{!}}{{{1|640px}}}",
		"rect 0 0 10 10 [[{{PAGENAME}}#Villa|Villa]]",
		"rect 20 0 30 2 [[bob|]]",
		"rect 100 100 101 110 [[Alice, bob|]]",
		"}}",
	}
	if got != strings.Join(wantLines, "\n") {
		t.Fatalf("imagemap:\n%s", got)
	}
}

func TestOwnershipTable(t *testing.T) {
	got := OwnershipTable(testRegistry())

	if !strings.HasPrefix(got, "{| class=\"wikitable sortable\"\n") {
		t.Fatalf("missing sortable table header:\n%s", got)
	}
	for _, h := range []string{"! Owner", "! Amount of Buildings Owned", "! Total Land Owned (m²)"} {
		if !strings.Contains(got, h) {
			t.Fatalf("missing header %q:\n%s", h, got)
		}
	}

	// Alice: 100 (solo) + 5 (half of the 10m² joint claim). bob: 20 + 5.
	aliceIdx := strings.Index(got, "| [[Alice]]\n| 2\n| 105")
	bobIdx := strings.Index(got, "| [[bob]]\n| 2\n| 25")
	if aliceIdx < 0 || bobIdx < 0 {
		t.Fatalf("rows missing or wrong:\n%s", got)
	}
	// Case-insensitive sort: Alice before bob.
	if aliceIdx > bobIdx {
		t.Fatalf("rows out of order:\n%s", got)
	}
}

func TestOwnershipTable_FirstSeenCasingWins(t *testing.T) {
	r := &registry.Registry{
		Entries: []registry.Entry{
			{Shape: rect(0, 0, 1, 1), Owner: "BOB", Type: registry.ZonePublic},
			{Shape: rect(0, 0, 2, 2), Owner: "bob", Type: registry.ZonePublic},
		},
	}
	got := OwnershipTable(r)
	if !strings.Contains(got, "| [[BOB]]\n| 2\n| 5") {
		t.Fatalf("expected one merged row displaying first-seen casing:\n%s", got)
	}
	if strings.Contains(got, "[[bob]]") {
		t.Fatalf("lowercase duplicate row should not exist:\n%s", got)
	}
}

func TestZoningDataset(t *testing.T) {
	ds := ZoningDataset(testRegistry())

	if ds.Title != "Land Usage Distribution (Lusitania)" {
		t.Fatalf("title %q", ds.Title)
	}
	if ds.FileName != "land_usage_distribution_lusitania.svg" {
		t.Fatalf("filename %q", ds.FileName)
	}
	// Areas: residential 100, commercial 20, public 10 → sorted desc.
	if ds.Labels[0] != "Residential" || ds.Values[0] != 76.92 {
		t.Fatalf("first slice %v %v", ds.Labels[0], ds.Values[0])
	}
	if ds.Colors[0] != "#4CAF50" {
		t.Fatalf("residential color %q", ds.Colors[0])
	}
	if len(ds.Labels) != 3 || ds.Labels[2] != "Public" {
		t.Fatalf("labels %v", ds.Labels)
	}
}
