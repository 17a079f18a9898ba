// Package registry models land-ownership registries: one directory of claim
// data per named area, loaded once per publish run and read-only after that.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

// Registry is the full claim set for one named area.
type Registry struct {
	File    File
	Entries []Entry
}

// Load reads and validates the registry's JSON entry array.
func Load(file File) (*Registry, error) {
	b, err := os.ReadFile(file.DataFile)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.DataFile, err)
	}
	return &Registry{File: file, Entries: entries}, nil
}

// LandownersSorted sums claimed area per owner string, largest first. Joint
// owners are kept as one key here; the ownership table is where co-owner
// splitting happens.
func (r *Registry) LandownersSorted() []KV[string] {
	return AggregateAndSort(r.Entries,
		func(e Entry) string { return e.Owner },
		func(e Entry) float64 { return e.Shape.Area() },
		false)
}

// ZoningDistribution returns the share of claimed area per zone type, in
// percent.
func (r *Registry) ZoningDistribution() []KV[ZoneType] {
	return AggregateAndSort(r.Entries,
		func(e Entry) ZoneType { return e.Type },
		func(e Entry) float64 { return e.Shape.Area() },
		true)
}
