package contour

import (
	"math"
	"testing"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

func approxEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-2
}

func TestFlattenStraightLine(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	f := NewFlattener(DefaultThreshold)
	contours := f.Flatten(&p, geom.Identity())
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	pts := contours[0].Points()
	if len(pts) != 2 {
		t.Fatalf("expected 2 points for a straight line, got %d", len(pts))
	}
}

func TestFlattenSkipsZeroLengthContour(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.MoveTo(5, 5) // degenerate single-point contour
	p.LineTo(10, 5)

	f := NewFlattener(DefaultThreshold)
	contours := f.Flatten(&p, geom.Identity())
	if len(contours) != 1 {
		t.Fatalf("expected degenerate contour to be dropped, got %d contours", len(contours))
	}
}

func TestFlattenCubicProducesMultiplePoints(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.CubicTo(0, 100, 100, 100, 100, 0)

	f := NewFlattener(0.1)
	contours := f.Flatten(&p, geom.Identity())
	if len(contours) != 1 {
		t.Fatal("expected 1 contour")
	}
	if len(contours[0].Points()) < 4 {
		t.Errorf("expected curved cubic to flatten into several points, got %d", len(contours[0].Points()))
	}
}

func TestFlattenClosedMarksClosed(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)
	p.Close()

	f := NewFlattener(DefaultThreshold)
	contours := f.Flatten(&p, geom.Identity())
	if !contours[0].Closed() {
		t.Error("expected contour to be marked closed")
	}
}

func TestMeasureLineLength(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	iter := NewMeasureIter(&p, DefaultMeasureTolerance)
	m := iter.Next()
	if m == nil {
		t.Fatal("expected a measure")
	}
	if !approxEqual(m.Length(), 10) {
		t.Errorf("length = %v, want 10", m.Length())
	}
	if iter.Next() != nil {
		t.Error("expected only one contour")
	}
}

func TestMeasureGetPosTanMidpoint(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	m := NewMeasureIter(&p, DefaultMeasureTolerance).Next()
	pt := m.GetPosTan(5)
	if !approxEqual(pt.Pos.X, 5) || !approxEqual(pt.Pos.Y, 0) {
		t.Errorf("pos at midpoint = %v, want {5 0}", pt.Pos)
	}
	if !approxEqual(pt.Tan.X, 1) || !approxEqual(pt.Tan.Y, 0) {
		t.Errorf("tangent = %v, want {1 0}", pt.Tan)
	}
}

func TestMeasureGetPosTanClampsToLength(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	m := NewMeasureIter(&p, DefaultMeasureTolerance).Next()
	pt := m.GetPosTan(1000)
	if !approxEqual(pt.Pos.X, 10) {
		t.Errorf("pos past end = %v, want clamped to x=10", pt.Pos)
	}
}

func TestMeasureWarpOffsetsPerpendicular(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	m := NewMeasureIter(&p, DefaultMeasureTolerance).Next()
	warped := m.Warp(geom.Pt(5, 2))
	if !approxEqual(warped.X, 5) || !approxEqual(warped.Y, 2) {
		t.Errorf("warp = %v, want {5 2} for a straight horizontal contour", warped)
	}
}

func TestMeasureIterSkipsDegenerateContour(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0) // contour with no geometry: zero length.
	p.MoveTo(0, 0)
	p.LineTo(10, 0)

	iter := NewMeasureIter(&p, DefaultMeasureTolerance)
	m := iter.Next()
	if m == nil {
		t.Fatal("expected the real contour to be found")
	}
	if !approxEqual(m.Length(), 10) {
		t.Errorf("length = %v, want 10", m.Length())
	}
	if iter.Next() != nil {
		t.Error("expected no further contours")
	}
}

func TestMeasureGetSegmentExtractsRange(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.LineTo(10, 0)
	p.LineTo(10, 10)

	m := NewMeasureIter(&p, DefaultMeasureTolerance).Next()

	var dst path.RawPath
	m.GetSegment(5, 15, &dst, true)
	if dst.Empty() {
		t.Fatal("expected extracted sub-path to be non-empty")
	}
	b := dst.Bounds()
	if !approxEqual(b.MinX, 5) {
		t.Errorf("extracted bounds MinX = %v, want 5", b.MinX)
	}
}

func TestMeasureCubicLengthReasonable(t *testing.T) {
	var p path.RawPath
	p.MoveTo(0, 0)
	p.CubicTo(0, 50, 50, 50, 50, 0)

	m := NewMeasureIter(&p, 0.1).Next()
	// the cubic's length must exceed the straight-line chord (50) but
	// stay under the control polygon's total length (50+50+50=150).
	if m.Length() <= 50 || m.Length() >= 150 {
		t.Errorf("cubic length = %v, want in (50, 150)", m.Length())
	}
}
