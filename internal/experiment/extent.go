package experiment

import (
	"math"

	"github.com/san-kum/solarsim/internal/cosmos"
	"gonum.org/v1/gonum/spatial/r2"
)

// Extent is the largest distance of any body from the origin, or 1 when
// every body sits at the origin.
func Extent(views []cosmos.View) float64 {
	ext := 0.0
	for _, v := range views {
		ext = math.Max(ext, r2.Norm(v.Pos))
	}
	if ext == 0 {
		return 1
	}
	return ext
}
