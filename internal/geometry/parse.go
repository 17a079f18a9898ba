package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Shapes arrive in two serialization eras: older entries store a flat
// coordinate string ("x1 z1 x2 z2"), newer ones a structured object keyed by
// variant fields. Both forms stay supported.

const (
	rectSchema = `{
	  "type": "object",
	  "required": ["p1", "p2"],
	  "properties": {
	    "p1": {"$ref": "#/$defs/point"},
	    "p2": {"$ref": "#/$defs/point"}
	  },
	  "$defs": {
	    "point": {
	      "type": "object",
	      "required": ["x", "z"],
	      "properties": {"x": {"type": "integer"}, "z": {"type": "integer"}}
	    }
	  }
	}`

	circleSchema = `{
	  "type": "object",
	  "required": ["center", "radius"],
	  "properties": {
	    "center": {
	      "type": "object",
	      "required": ["x", "z"],
	      "properties": {"x": {"type": "integer"}, "z": {"type": "integer"}}
	    },
	    "radius": {"type": "integer"}
	  }
	}`

	polygonSchema = `{
	  "type": "object",
	  "required": ["points"],
	  "properties": {
	    "points": {
	      "type": "array",
	      "minItems": 1,
	      "items": {
	        "type": "object",
	        "required": ["x", "z"],
	        "properties": {"x": {"type": "integer"}, "z": {"type": "integer"}}
	      }
	    }
	  }
	}`
)

// variantSchemas is tried in order; the first schema an object satisfies
// decides the variant.
var variantSchemas = []struct {
	name   string
	schema *jsonschema.Schema
	decode func([]byte) (Shape, error)
}{
	{"rect", jsonschema.MustCompileString("rect.schema.json", rectSchema), func(b []byte) (Shape, error) {
		var r Rect
		err := json.Unmarshal(b, &r)
		return r, err
	}},
	{"circle", jsonschema.MustCompileString("circle.schema.json", circleSchema), func(b []byte) (Shape, error) {
		var c Circle
		err := json.Unmarshal(b, &c)
		return c, err
	}},
	{"poly", jsonschema.MustCompileString("polygon.schema.json", polygonSchema), func(b []byte) (Shape, error) {
		var p Polygon
		err := json.Unmarshal(b, &p)
		return p, err
	}},
}

// ParseShape decodes a shape from raw entry JSON: either a coordinate string
// or a structured object matching one of the variant schemas.
func ParseShape(raw json.RawMessage) (Shape, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return parseCoordString(s)
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("shape is neither a coordinate string nor an object: %w", err)
	}
	for _, vs := range variantSchemas {
		if err := vs.schema.Validate(v); err != nil {
			continue
		}
		shape, err := vs.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s shape: %w", vs.name, err)
		}
		return shape, nil
	}
	names := make([]string, 0, len(variantSchemas))
	for _, vs := range variantSchemas {
		names = append(names, vs.name)
	}
	return nil, fmt.Errorf("no matching shape for %s, supported shapes are: %s", raw, strings.Join(names, ", "))
}

// parseCoordString resolves the flat string form by token count:
// 4 ints is a rect, 3 a circle, an even count above 5 a polygon.
func parseCoordString(s string) (Shape, error) {
	fields := strings.Fields(s)
	coords := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("shape string %q: bad coordinate %q", s, f)
		}
		coords = append(coords, n)
	}
	switch {
	case len(coords) == 4:
		return Rect{
			P1: Point{X: coords[0], Z: coords[1]},
			P2: Point{X: coords[2], Z: coords[3]},
		}, nil
	case len(coords) == 3:
		return Circle{Center: Point{X: coords[0], Z: coords[1]}, Radius: coords[2]}, nil
	case len(coords) > 5 && len(coords)%2 == 0:
		points := make([]Point, 0, len(coords)/2)
		for i := 0; i < len(coords); i += 2 {
			points = append(points, Point{X: coords[i], Z: coords[i+1]})
		}
		return Polygon{Points: points}, nil
	}
	return nil, fmt.Errorf("no valid shape for coordinate string %q", s)
}
