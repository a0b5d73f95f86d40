// Package smooth implements the windowed median trend smoother used for the
// report's trend lines: the median of all y observations whose x falls
// within a fixed-width window centered on each distinct x value.
package smooth

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"

	"pubreport/internal/errors"
)

// Knot is one computed (x, smoothed-y) point of the curve. Missing marks a
// knot whose window held no usable y value; it carries no y estimate and
// interpolation never substitutes a default for it.
type Knot struct {
	X       float64
	Y       float64
	Missing bool
}

// WindowedMedian smooths the (xs, ys) sample set with a symmetric window of
// the given width. Missing values are NaN: rows with NaN x are ignored
// entirely, NaN y values are excluded from window medians.
//
// One knot is produced per distinct non-missing x value. The window is the
// open interval (x-width/2, x+width/2); observations exactly width/2 away
// are excluded. The result depends only on the multiset of observations,
// not their order.
func WindowedMedian(xs, ys []float64, width float64) (*Curve, error) {
	if width <= 0 {
		return nil, errors.InvalidArgument("window width must be positive")
	}
	if len(xs) != len(ys) {
		return nil, errors.InvalidArgument("x and y slices differ in length")
	}
	if len(xs) == 0 {
		return nil, errors.InvalidArgument("sample set is empty")
	}

	distinct := distinctValues(xs)
	if len(distinct) == 0 {
		return nil, errors.InvalidArgument("sample set has no usable x values")
	}

	half := width / 2
	knots := make([]Knot, 0, len(distinct))
	for _, center := range distinct {
		var window []float64
		for i, x := range xs {
			if math.IsNaN(x) || math.IsNaN(ys[i]) {
				continue
			}
			if center-half < x && x < center+half {
				window = append(window, ys[i])
			}
		}

		median, err := stats.Median(window)
		if err != nil {
			// Empty window: the knot exists but carries no estimate.
			knots = append(knots, Knot{X: center, Missing: true})
			continue
		}
		knots = append(knots, Knot{X: center, Y: median})
	}

	return &Curve{knots: knots}, nil
}

// distinctValues returns the sorted distinct non-NaN values of xs
func distinctValues(xs []float64) []float64 {
	seen := make(map[float64]bool, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			seen[x] = true
		}
	}
	values := make([]float64, 0, len(seen))
	for x := range seen {
		values = append(values, x)
	}
	sort.Float64s(values)
	return values
}
