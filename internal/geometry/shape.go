package geometry

import (
	"fmt"
	"math"
	"strings"
)

// Point is a position on the map grid. X runs west-east, Z north-south,
// matching in-game coordinates.
type Point struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// PlainString renders the point as image pixel coordinates relative to the
// map image's offset anchor.
func (p Point) PlainString(offsetX, offsetY int) string {
	return fmt.Sprintf("%d %d", abs(offsetX-p.X), abs(offsetY-p.Z))
}

// Shape is a closed set of map shapes: Rect, Circle, Polygon.
type Shape interface {
	// Area returns the covered area in square blocks.
	Area() float64
	// ImageMapString renders the shape as a wiki imagemap primitive
	// (keyword plus pixel coordinates).
	ImageMapString(offsetX, offsetY int) string
}

type Rect struct {
	P1 Point `json:"p1"`
	P2 Point `json:"p2"`
}

func (r Rect) Area() float64 {
	width := abs(r.P2.X - r.P1.X)
	height := abs(r.P2.Z - r.P1.Z)
	return float64(width * height)
}

func (r Rect) ImageMapString(offsetX, offsetY int) string {
	return fmt.Sprintf("rect %s %s", r.P1.PlainString(offsetX, offsetY), r.P2.PlainString(offsetX, offsetY))
}

type Circle struct {
	Center Point `json:"center"`
	Radius int   `json:"radius"`
}

func (c Circle) Area() float64 {
	return math.Pi * float64(c.Radius) * float64(c.Radius)
}

func (c Circle) ImageMapString(offsetX, offsetY int) string {
	return fmt.Sprintf("circle %s %d", c.Center.PlainString(offsetX, offsetY), c.Radius)
}

type Polygon struct {
	Points []Point `json:"points"`
}

// Area uses the shoelace formula over the ordered points (wrap-around).
// Fewer than 3 points is not a polygon and covers nothing.
func (p Polygon) Area() float64 {
	n := len(p.Points)
	if n < 3 {
		return 0
	}
	sum := 0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p.Points[i].X * p.Points[j].Z
		sum -= p.Points[j].X * p.Points[i].Z
	}
	return math.Abs(float64(sum)) / 2
}

func (p Polygon) ImageMapString(offsetX, offsetY int) string {
	parts := make([]string, 0, len(p.Points)+1)
	parts = append(parts, "poly")
	for _, pt := range p.Points {
		parts = append(parts, pt.PlainString(offsetX, offsetY))
	}
	return strings.Join(parts, " ")
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
