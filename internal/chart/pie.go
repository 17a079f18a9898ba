// Package chart renders zoning statistics as standalone SVG pie charts.
package chart

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Dataset is a labeled, colored value series plus the filename the rendered
// chart is published under.
type Dataset struct {
	Labels   []string
	Values   []float64
	Colors   []string
	Title    string
	FileName string
}

const (
	width   = 640
	height  = 520
	pieCX   = 320
	pieCY   = 250
	pieR    = 170
	legendY = 470
)

// RenderPie writes the dataset as an SVG pie chart into dir and returns the
// written path. Slices are drawn proportionally to their values with white
// separators, percent labels at slice midpoints, and a horizontal legend.
func RenderPie(ds Dataset, dir string) (string, error) {
	if len(ds.Labels) != len(ds.Values) || len(ds.Labels) != len(ds.Colors) {
		return "", fmt.Errorf("dataset labels/values/colors length mismatch: %d/%d/%d",
			len(ds.Labels), len(ds.Values), len(ds.Colors))
	}
	path := filepath.Join(dir, ds.FileName)
	if err := os.WriteFile(path, []byte(renderSVG(ds)), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

func renderSVG(ds Dataset) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`+"\n",
		width, height, width, height)
	b.WriteString(`<rect width="100%" height="100%" fill="white"/>` + "\n")
	fmt.Fprintf(&b, `<text x="%d" y="48" text-anchor="middle" font-family="Roboto, Arial, sans-serif" font-size="26" fill="#333">%s</text>`+"\n",
		width/2, escape(ds.Title))

	total := 0.0
	for _, v := range ds.Values {
		total += v
	}
	if total <= 0 {
		// Nothing to slice; render an empty disc so the page still gets a chart.
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="#EEEEEE" stroke="white" stroke-width="2"/>`+"\n", pieCX, pieCY, pieR)
	} else if len(ds.Values) == 1 {
		// A single slice is a full disc; an arc from a point to itself collapses.
		fmt.Fprintf(&b, `<circle cx="%d" cy="%d" r="%d" fill="%s" stroke="white" stroke-width="2"/>`+"\n",
			pieCX, pieCY, pieR, ds.Colors[0])
		writeSliceLabel(&b, ds.Values[0], total, -math.Pi/2)
	} else {
		angle := -math.Pi / 2 // 12 o'clock start
		for i, v := range ds.Values {
			if v <= 0 {
				continue
			}
			sweep := v / total * 2 * math.Pi
			x1, y1 := arcPoint(angle)
			x2, y2 := arcPoint(angle + sweep)
			largeArc := 0
			if sweep > math.Pi {
				largeArc = 1
			}
			fmt.Fprintf(&b, `<path d="M %d %d L %.2f %.2f A %d %d 0 %d 1 %.2f %.2f Z" fill="%s" stroke="white" stroke-width="2"/>`+"\n",
				pieCX, pieCY, x1, y1, pieR, pieR, largeArc, x2, y2, ds.Colors[i])
			writeSliceLabel(&b, v, total, angle)
			angle += sweep
		}
	}

	// Legend: one swatch+label per slice, centered under the pie.
	const itemWidth = 150
	startX := width/2 - itemWidth*len(ds.Labels)/2
	for i, label := range ds.Labels {
		x := startX + i*itemWidth
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="14" height="14" fill="%s"/>`+"\n", x, legendY, ds.Colors[i])
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="Roboto, Arial, sans-serif" font-size="14" fill="#333">%s</text>`+"\n",
			x+20, legendY+12, escape(label))
	}
	b.WriteString("</svg>\n")
	return b.String()
}

// writeSliceLabel places the percent text at the slice's angular midpoint.
func writeSliceLabel(b *strings.Builder, v, total, startAngle float64) {
	mid := startAngle + v/total*math.Pi
	lx := float64(pieCX) + float64(pieR)*0.6*math.Cos(mid)
	ly := float64(pieCY) + float64(pieR)*0.6*math.Sin(mid)
	fmt.Fprintf(b, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="Roboto, Arial, sans-serif" font-size="16" fill="white">%.1f%%</text>`+"\n",
		lx, ly, v/total*100)
}

func arcPoint(angle float64) (float64, float64) {
	return float64(pieCX) + float64(pieR)*math.Cos(angle),
		float64(pieCY) + float64(pieR)*math.Sin(angle)
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
