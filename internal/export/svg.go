// Package export renders trajectories and canvases as SVG documents.
package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/solarsim/internal/viz"
	"gonum.org/v1/gonum/spatial/r2"
)

// Orbit is one body's path in simulation coordinates.
type Orbit struct {
	Label  string
	Color  string
	Points []r2.Vec
}

// CanvasToSVG converts a Braille canvas to SVG. Each lit sub-pixel becomes
// a dot in its cell color, or fg for uncolored cells.
func CanvasToSVG(canvas *viz.Canvas, scale float64, bg, fg string) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char
	dotRadius := scale * 0.4

	var sb strings.Builder
	header(&sb, width, height, bg)

	for y := 0; y < canvas.Height*4; y++ {
		for x := 0; x < canvas.Width*2; x++ {
			if !canvas.Lit(x, y) {
				continue
			}
			color := string(canvas.Colors[y/4][x/2])
			if color == "" {
				color = fg
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\" fill=\"%s\"/>\n", cx, cy, dotRadius, color)
		}
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// OrbitsSVG draws every orbit as a path on one square scale, so circular
// orbits stay circular. The last point of each orbit is marked with a dot.
func OrbitsSVG(orbits []Orbit, width, height int, bg string) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	toPixel, ok := fit(orbits, float64(width), float64(height))
	if !ok {
		return ""
	}

	var sb strings.Builder
	header(&sb, float64(width), float64(height), bg)

	for _, o := range orbits {
		if len(o.Points) == 0 {
			continue
		}
		if o.Label != "" {
			fmt.Fprintf(&sb, "<g><title>%s</title>\n", o.Label)
		} else {
			sb.WriteString("<g>\n")
		}
		if len(o.Points) > 1 {
			fmt.Fprintf(&sb, "<path fill=\"none\" stroke=\"%s\" stroke-width=\"1.5\" d=\"", o.Color)
			for i, p := range o.Points {
				x, y := toPixel(p)
				if i == 0 {
					fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
				} else {
					fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
				}
			}
			sb.WriteString("\"/>\n")
		}
		x, y := toPixel(o.Points[len(o.Points)-1])
		fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"3\" fill=\"%s\"/>\n</g>\n", x, y, o.Color)
	}

	sb.WriteString("</svg>\n")
	return sb.String()
}

// OrbitsCanvas draws the orbits onto a Braille canvas of cols x rows cells,
// on the same square scale as OrbitsSVG. It returns nil when there is
// nothing to draw.
func OrbitsCanvas(orbits []Orbit, cols, rows int) *viz.Canvas {
	if cols <= 0 || rows <= 0 {
		return nil
	}
	toPixel, ok := fit(orbits, float64(cols*2), float64(rows*4))
	if !ok {
		return nil
	}

	c := viz.NewCanvas(cols, rows)
	for _, o := range orbits {
		color := lipgloss.Color(o.Color)
		var px, py int
		for i, p := range o.Points {
			x, y := toPixel(p)
			ix, iy := int(math.Round(x)), int(math.Round(y))
			if i > 0 {
				c.DrawLine(px, py, ix, iy, color)
			}
			px, py = ix, iy
		}
		if len(o.Points) > 0 {
			c.Disc(px, py, 1, color)
		}
	}
	return c
}

// fit maps simulation coordinates onto a width x height pixel area, y up,
// with the bounding square of all points padded by a fifth.
func fit(orbits []Orbit, width, height float64) (func(r2.Vec) (float64, float64), bool) {
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, o := range orbits {
		for _, p := range o.Points {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minX, 1) {
		return nil, false
	}

	span := math.Max(maxX-minX, maxY-minY)
	if span == 0 {
		span = 1
	}
	span *= 1.2
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	pxPerUnit := math.Min(width, height) / span

	return func(p r2.Vec) (float64, float64) {
		return width/2 + (p.X-cx)*pxPerUnit,
			height/2 - (p.Y-cy)*pxPerUnit
	}, true
}

func header(sb *strings.Builder, width, height float64, bg string) {
	fmt.Fprintf(sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, bg)
}
