package smooth

import (
	"math"
	"sort"
)

// Curve is the smoothed trend: a piecewise-linear function over the sorted
// knot set computed by WindowedMedian. The zero value is an empty curve for
// which every query is missing.
type Curve struct {
	knots []Knot
}

// Knots returns the knot set in ascending x order
func (c *Curve) Knots() []Knot {
	out := make([]Knot, len(c.knots))
	copy(out, c.knots)
	return out
}

// Len returns the number of knots
func (c *Curve) Len() int {
	return len(c.knots)
}

// Domain returns the x range covered by the knots
func (c *Curve) Domain() (min, max float64, ok bool) {
	if len(c.knots) == 0 {
		return 0, 0, false
	}
	return c.knots[0].X, c.knots[len(c.knots)-1].X, true
}

// At evaluates the curve at q by linear interpolation between the two
// bracketing knots. It reports missing (ok=false) for queries outside the
// knot range, for NaN queries, and for segments touching a missing knot;
// there is no extrapolation and no default substitution.
func (c *Curve) At(q float64) (float64, bool) {
	n := len(c.knots)
	if n == 0 || math.IsNaN(q) {
		return 0, false
	}
	if q < c.knots[0].X || q > c.knots[n-1].X {
		return 0, false
	}

	i := sort.Search(n, func(i int) bool { return c.knots[i].X >= q })
	if c.knots[i].X == q {
		if c.knots[i].Missing {
			return 0, false
		}
		return c.knots[i].Y, true
	}

	lo, hi := c.knots[i-1], c.knots[i]
	if lo.Missing || hi.Missing {
		return 0, false
	}
	t := (q - lo.X) / (hi.X - lo.X)
	return lo.Y + t*(hi.Y-lo.Y), true
}

// Values evaluates the curve at every query point, with NaN standing in for
// missing results. Convenient for handing a sampled trend to the chart
// builder.
func (c *Curve) Values(qs []float64) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		v, ok := c.At(q)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// Broadcast maps each input x back to its knot value, the row-level form of
// the smoothed curve. Rows with a missing x or a missing knot get NaN. No
// interpolation happens here; only exact knot x values match.
func (c *Curve) Broadcast(xs []float64) []float64 {
	byX := make(map[float64]Knot, len(c.knots))
	for _, k := range c.knots {
		byX[k.X] = k
	}

	out := make([]float64, len(xs))
	for i, x := range xs {
		k, ok := byX[x]
		if !ok || k.Missing {
			out[i] = math.NaN()
			continue
		}
		out[i] = k.Y
	}
	return out
}
