package registry

import "fmt"

// ZoneType classifies what a claim is used for. The set is closed: entries
// with any other value are rejected at load time.
type ZoneType string

const (
	ZoneResidential ZoneType = "Residential"
	ZoneCommercial  ZoneType = "Commercial"
	ZoneIndustrial  ZoneType = "Industrial"
	ZonePublic      ZoneType = "Public"
)

var zoneColors = map[ZoneType]string{
	ZoneResidential: "#4CAF50", // green
	ZoneCommercial:  "#42A5F5", // blue
	ZoneIndustrial:  "#FFCA28", // yellow
	ZonePublic:      "#9E9E9E",
}

// ParseZoneType validates a zone string against the closed set.
func ParseZoneType(s string) (ZoneType, error) {
	z := ZoneType(s)
	if _, ok := zoneColors[z]; !ok {
		return "", fmt.Errorf("unknown zone type %q", s)
	}
	return z, nil
}

// Color returns the chart color for the zone. Unknown zones render black
// rather than failing; coloring is presentation, not validation.
func (z ZoneType) Color() string {
	if c, ok := zoneColors[z]; ok {
		return c
	}
	return "#000000"
}
