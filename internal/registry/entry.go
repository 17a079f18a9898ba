package registry

import (
	"encoding/json"
	"fmt"
	"time"

	"civmcbot/internal/geometry"
)

// dateLayouts are the accepted entry date formats, tried in order. Data files
// mostly carry bare dates; a few carry full timestamps.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Entry is one land claim: a shape on the map, who owns it, and how the land
// is zoned. A comma-separated Owner denotes joint ownership.
type Entry struct {
	Shape   geometry.Shape
	Owner   string
	Date    time.Time
	Type    ZoneType
	Name    string
	Address string
	Details string
}

type entryJSON struct {
	Shape   json.RawMessage `json:"shape"`
	Owner   string          `json:"owner"`
	Date    string          `json:"date"`
	Type    string          `json:"type"`
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Details string          `json:"details"`
}

// UnmarshalJSON validates on decode: the shape must parse, the zone must be
// one of the closed set, and the date must match a known layout. Owner, name,
// address and details are free-form text.
func (e *Entry) UnmarshalJSON(b []byte) error {
	var raw entryJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	shape, err := geometry.ParseShape(raw.Shape)
	if err != nil {
		return err
	}
	zone, err := ParseZoneType(raw.Type)
	if err != nil {
		return err
	}
	date, err := parseDate(raw.Date)
	if err != nil {
		return err
	}
	*e = Entry{
		Shape:   shape,
		Owner:   raw.Owner,
		Date:    date,
		Type:    zone,
		Name:    raw.Name,
		Address: raw.Address,
		Details: raw.Details,
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable entry date %q", s)
}

// ImageMapEntry renders the entry's shape primitive followed by its link:
// a same-page anchor when the claim is named, otherwise the owner's page.
func (e *Entry) ImageMapEntry(offsetX, offsetY int) string {
	link := fmt.Sprintf("[[%s|]]", e.Owner)
	if e.Name != "" {
		link = fmt.Sprintf("[[{{PAGENAME}}#%s|%s]]", e.Name, e.Name)
	}
	return fmt.Sprintf("%s %s", e.Shape.ImageMapString(offsetX, offsetY), link)
}
