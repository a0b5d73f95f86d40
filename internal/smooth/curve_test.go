package smooth

import (
	"math"
	"testing"
)

// buildCurve smooths with a window small enough that every knot keeps its
// own y value, giving tests an exact knot set to interpolate over.
func buildCurve(t *testing.T, xs, ys []float64) *Curve {
	t.Helper()
	curve, err := WindowedMedian(xs, ys, 0.5)
	if err != nil {
		t.Fatalf("WindowedMedian failed: %v", err)
	}
	return curve
}

func TestCurveAt_LinearInterpolation(t *testing.T) {
	curve := buildCurve(t, []float64{1, 2, 3}, []float64{15, 20, 30})

	v, ok := curve.At(1.5)
	if !ok || !approx(v, 17.5) {
		t.Errorf("At(1.5): expected 17.5, got %v (ok=%v)", v, ok)
	}
	v, ok = curve.At(2.5)
	if !ok || !approx(v, 25) {
		t.Errorf("At(2.5): expected 25, got %v (ok=%v)", v, ok)
	}
}

func TestCurveAt_ExactKnotHit(t *testing.T) {
	curve := buildCurve(t, []float64{1, 2, 3}, []float64{15, 20, 30})

	for x, want := range map[float64]float64{1: 15, 2: 20, 3: 30} {
		v, ok := curve.At(x)
		if !ok || !approx(v, want) {
			t.Errorf("At(%v): expected %v, got %v (ok=%v)", x, want, v, ok)
		}
	}
}

func TestCurveAt_OutOfRangeIsMissing(t *testing.T) {
	curve := buildCurve(t, []float64{1, 2, 3}, []float64{15, 20, 30})

	for _, q := range []float64{0, 0.999, 3.001, 100, math.NaN()} {
		if _, ok := curve.At(q); ok {
			t.Errorf("At(%v): expected missing for out-of-range query", q)
		}
	}
}

func TestCurveAt_MissingKnotPropagates(t *testing.T) {
	// The knot at x=5 has no usable y; both segments touching it must
	// report missing rather than bridge the gap.
	curve, err := WindowedMedian(
		[]float64{1, 5, 9},
		[]float64{10, math.NaN(), 30},
		2,
	)
	if err != nil {
		t.Fatalf("WindowedMedian failed: %v", err)
	}

	if _, ok := curve.At(5); ok {
		t.Error("At(5): expected missing for a missing knot")
	}
	if _, ok := curve.At(3); ok {
		t.Error("At(3): expected missing within a segment ending at a missing knot")
	}
	if _, ok := curve.At(7); ok {
		t.Error("At(7): expected missing within a segment starting at a missing knot")
	}
	if v, ok := curve.At(1); !ok || !approx(v, 10) {
		t.Errorf("At(1): expected 10, got %v (ok=%v)", v, ok)
	}
	if v, ok := curve.At(9); !ok || !approx(v, 30) {
		t.Errorf("At(9): expected 30, got %v (ok=%v)", v, ok)
	}
}

func TestCurveValues_NaNStandsInForMissing(t *testing.T) {
	curve := buildCurve(t, []float64{1, 2, 3}, []float64{15, 20, 30})

	got := curve.Values([]float64{0, 1.5, 4})
	if !math.IsNaN(got[0]) {
		t.Errorf("Values[0]: expected NaN below range, got %v", got[0])
	}
	if !approx(got[1], 17.5) {
		t.Errorf("Values[1]: expected 17.5, got %v", got[1])
	}
	if !math.IsNaN(got[2]) {
		t.Errorf("Values[2]: expected NaN above range, got %v", got[2])
	}
}

func TestCurveBroadcast_RowLevelOutput(t *testing.T) {
	xs := []float64{1, 1, 2, 3}
	ys := []float64{10, 20, math.NaN(), 30}
	curve, err := WindowedMedian(xs, ys, 4)
	if err != nil {
		t.Fatalf("WindowedMedian failed: %v", err)
	}

	rows := curve.Broadcast([]float64{1, 1, 2, 3, math.NaN()})
	want := []float64{15, 15, 20, 30}
	for i := range want {
		if !approx(rows[i], want[i]) {
			t.Errorf("Broadcast row %d: expected %v, got %v", i, want[i], rows[i])
		}
	}
	if !math.IsNaN(rows[4]) {
		t.Errorf("Broadcast row 4: expected NaN for missing x, got %v", rows[4])
	}
}

func TestCurve_ZeroValueIsEmpty(t *testing.T) {
	var curve Curve
	if _, ok := curve.At(1); ok {
		t.Error("Zero-value curve should report missing everywhere")
	}
	if _, _, ok := curve.Domain(); ok {
		t.Error("Zero-value curve should have no domain")
	}
}
