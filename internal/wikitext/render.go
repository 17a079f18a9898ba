package wikitext

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"civmcbot/internal/chart"
	"civmcbot/internal/registry"
)

// ImageMap renders the registry as a wiki imagemap block: the published map
// image followed by one clickable primitive per claim.
func ImageMap(r *registry.Registry) string {
	lines := make([]string, 0, len(r.Entries))
	for i := range r.Entries {
		lines = append(lines, r.Entries[i].ImageMapEntry(r.File.OffsetX, r.File.OffsetY))
	}
	return "{{#tag:imagemap|\n" +
		fmt.Sprintf("Image:%s {{!}}{{{1|640px}}}\n", r.File.ImageMapName()) +
		strings.Join(lines, "\n") + "\n" +
		"}}"
}

type ownerRow struct {
	link      string
	buildings int
	landOwned float64
}

// OwnershipTable renders the per-owner stats as a sortable wiki table. Joint
// owners are split on ", " and each co-owner is credited an equal share of
// the claim's area; grouping is case-insensitive but rows display the casing
// the owner first appeared with.
func OwnershipTable(r *registry.Registry) string {
	rows := make(map[string]*ownerRow)
	for i := range r.Entries {
		e := &r.Entries[i]
		owners := strings.Split(e.Owner, ", ")
		share := e.Shape.Area() / float64(len(owners))
		for _, owner := range owners {
			key := strings.ToLower(owner)
			row, ok := rows[key]
			if !ok {
				row = &ownerRow{link: fmt.Sprintf("[[%s]]", owner)}
				rows[key] = row
			}
			row.buildings++
			row.landOwned += share
		}
	}

	sorted := make([]*ownerRow, 0, len(rows))
	for _, row := range rows {
		sorted = append(sorted, row)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return strings.ToLower(sorted[i].link) < strings.ToLower(sorted[j].link)
	})

	var b strings.Builder
	b.WriteString("{| class=\"wikitable sortable\"\n")
	b.WriteString("! Owner\n! Amount of Buildings Owned\n! Total Land Owned (m²)\n")
	for _, row := range sorted {
		b.WriteString("|-\n")
		fmt.Fprintf(&b, "| %s\n| %d\n| %s\n", row.link, row.buildings, formatArea(registry.Round2(row.landOwned)))
	}
	b.WriteString("|}")
	return b.String()
}

// formatArea prints whole areas without a trailing .00, fractional ones with
// up to two decimals.
func formatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ZoningDataset builds the labeled, colored zoning distribution the chart
// renderer consumes, plus the deterministic chart filename.
func ZoningDataset(r *registry.Registry) chart.Dataset {
	dist := r.ZoningDistribution()
	ds := chart.Dataset{
		Title:    fmt.Sprintf("Land Usage Distribution (%s)", TitleCase(r.File.RegistryName())),
		FileName: fmt.Sprintf("land_usage_distribution_%s.svg", strings.ReplaceAll(r.File.RegistryName(), " ", "_")),
	}
	for _, kv := range dist {
		ds.Labels = append(ds.Labels, string(kv.Key))
		ds.Values = append(ds.Values, kv.Value)
		ds.Colors = append(ds.Colors, kv.Key.Color())
	}
	return ds
}
