package analysis

import (
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"
)

// Relative returns the series of (xs, ys) taken relative to a reference
// series, typically the star the body orbits.
func Relative(xs, ys, refX, refY []float64) []r2.Vec {
	n := min(len(xs), len(ys), len(refX), len(refY))
	out := make([]r2.Vec, n)
	for i := 0; i < n; i++ {
		out[i] = r2.Vec{X: xs[i] - refX[i], Y: ys[i] - refY[i]}
	}
	return out
}

// Points zips two coordinate series.
func Points(xs, ys []float64) []r2.Vec {
	n := min(len(xs), len(ys))
	out := make([]r2.Vec, n)
	for i := 0; i < n; i++ {
		out[i] = r2.Vec{X: xs[i], Y: ys[i]}
	}
	return out
}

// Crossings returns the interpolated times at which the trajectory crosses
// y = 0 moving upward.
func Crossings(points []r2.Vec, times []float64) []float64 {
	n := min(len(points), len(times))
	out := make([]float64, 0)
	for i := 1; i < n; i++ {
		prev, curr := points[i-1].Y, points[i].Y
		if !(prev < 0 && curr >= 0) {
			continue
		}
		frac := -prev / (curr - prev)
		if math.IsNaN(frac) || math.IsInf(frac, 0) {
			frac = 0.5
		}
		out = append(out, times[i-1]+frac*(times[i]-times[i-1]))
	}
	return out
}

// CrossingPeriod is the mean interval between upward crossings.
func CrossingPeriod(points []r2.Vec, times []float64) (float64, error) {
	c := Crossings(points, times)
	if len(c) < 2 {
		return 0, ErrTooShort
	}
	return (c[len(c)-1] - c[0]) / float64(len(c)-1), nil
}

// OrbitToASCII draws the trajectory on a width x height character grid with
// axes through the origin when it is visible.
func OrbitToASCII(points []r2.Vec, width, height int) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	maxX += rangeX * 0.1
	minY -= rangeY * 0.1
	maxY += rangeY * 0.1
	rangeX = maxX - minX
	rangeY = maxY - minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	col := func(x float64) int { return int((x - minX) / rangeX * float64(width-1)) }
	row := func(y float64) int { return height - 1 - int((y-minY)/rangeY*float64(height-1)) }

	for _, p := range points {
		r, c := row(p.Y), col(p.X)
		if r >= 0 && r < height && c >= 0 && c < width {
			canvas[r][c] = '•'
		}
	}

	if minX <= 0 && maxX >= 0 {
		c := col(0)
		for r := 0; r < height; r++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '│'
			}
		}
	}
	if minY <= 0 && maxY >= 0 {
		r := row(0)
		for c := 0; c < width; c++ {
			if canvas[r][c] == ' ' {
				canvas[r][c] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, line := range canvas {
		sb.WriteString(string(line))
		sb.WriteRune('\n')
	}
	return sb.String()
}
