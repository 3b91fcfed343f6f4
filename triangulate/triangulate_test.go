package triangulate

import (
	"math"
	"testing"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

func approxEqual(a, b, tol float32) bool {
	return math.Abs(float64(a-b)) < float64(tol)
}

func triListArea(tris []geom.Vec2D) float32 {
	var total float32
	for i := 0; i+2 < len(tris); i += 3 {
		a, b, c := tris[i], tris[i+1], tris[i+2]
		cross := (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
		total += cross / 2
	}
	return total
}

func square(x0, y0, x1, y1 float32) []geom.Vec2D {
	return []geom.Vec2D{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

// reversed returns a copy of ring wound in the opposite direction,
// the convention this package expects for a hole relative to the
// ring that encloses it under the non-zero fill rule.
func reversed(ring []geom.Vec2D) []geom.Vec2D {
	out := make([]geom.Vec2D, len(ring))
	for i, p := range ring {
		out[len(ring)-1-i] = p
	}
	return out
}

func TestTriangulateSimpleSquare(t *testing.T) {
	contours := [][]geom.Vec2D{square(0, 0, 10, 10)}
	tris, err := Triangulate(contours, path.FillNonZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tris)%3 != 0 {
		t.Fatalf("triangle list length must be a multiple of 3, got %d", len(tris))
	}
	area := triListArea(tris)
	if !approxEqual(area, 100, 0.5) {
		t.Errorf("triangulated area = %v, want ~100", area)
	}
}

func TestTriangulateConcavePolygon(t *testing.T) {
	// An "L" shape.
	contour := []geom.Vec2D{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 5},
		{X: 5, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 10},
	}
	tris, err := Triangulate([][]geom.Vec2D{contour}, path.FillNonZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	area := triListArea(tris)
	// L-shape area: 10x10 square minus the missing 5x5 corner = 75.
	if !approxEqual(area, 75, 1) {
		t.Errorf("triangulated concave area = %v, want ~75", area)
	}
}

func TestTriangulateWithHole(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := reversed(square(3, 3, 6, 6)) // 3x3 hole, wound opposite outer

	tris, err := Triangulate([][]geom.Vec2D{outer, hole}, path.FillNonZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	area := triListArea(tris)
	want := float32(100 - 9)
	if !approxEqual(area, want, 1) {
		t.Errorf("triangulated area with hole = %v, want ~%v", area, want)
	}
}

func TestTriangulateNestedIslandInsideHole(t *testing.T) {
	outer := square(0, 0, 20, 20)
	hole := reversed(square(4, 4, 16, 16)) // 12x12 hole, wound opposite outer
	island := square(8, 8, 12, 12)          // 4x4 solid island, wound like outer again

	tris, err := Triangulate([][]geom.Vec2D{outer, hole, island}, path.FillNonZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	area := triListArea(tris)
	want := float32(20*20 - 12*12 + 4*4)
	if !approxEqual(area, want, 2) {
		t.Errorf("nested island area = %v, want ~%v", area, want)
	}
}

func TestTriangulateDegenerateInputErrors(t *testing.T) {
	_, err := Triangulate([][]geom.Vec2D{{{X: 0, Y: 0}, {X: 1, Y: 1}}}, path.FillNonZero)
	if err == nil {
		t.Error("expected an error for a contour with fewer than 3 points")
	}
}

func TestTriangulateIgnoresOrientation(t *testing.T) {
	cw := square(0, 0, 10, 10)
	// reverse to CW explicitly
	for i, j := 0, len(cw)-1; i < j; i, j = i+1, j-1 {
		cw[i], cw[j] = cw[j], cw[i]
	}
	tris, err := Triangulate([][]geom.Vec2D{cw}, path.FillNonZero)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	area := triListArea(tris)
	if !approxEqual(area, 100, 0.5) {
		t.Errorf("area regardless of winding = %v, want ~100", area)
	}
}

// TestTriangulateOverlapHonorsFillRule is the case the scanline sweep
// exists to get right: two same-winding, partially overlapping rings
// merge into their union under FillNonZero but cancel out in their
// overlap under FillEvenOdd.
func TestTriangulateOverlapHonorsFillRule(t *testing.T) {
	a := square(0, 0, 10, 10)
	b := square(5, 5, 15, 15)

	nonZero, err := Triangulate([][]geom.Vec2D{a, b}, path.FillNonZero)
	if err != nil {
		t.Fatalf("nonzero: unexpected error: %v", err)
	}
	evenOdd, err := Triangulate([][]geom.Vec2D{a, b}, path.FillEvenOdd)
	if err != nil {
		t.Fatalf("evenodd: unexpected error: %v", err)
	}

	gotNonZero := triListArea(nonZero)
	gotEvenOdd := triListArea(evenOdd)
	wantNonZero := float32(100 + 100 - 25) // union, overlap counted once
	wantEvenOdd := float32(100 - 25 + 100 - 25) // overlap excluded entirely

	if !approxEqual(gotNonZero, wantNonZero, 1) {
		t.Errorf("nonzero overlap area = %v, want ~%v", gotNonZero, wantNonZero)
	}
	if !approxEqual(gotEvenOdd, wantEvenOdd, 1) {
		t.Errorf("evenodd overlap area = %v, want ~%v", gotEvenOdd, wantEvenOdd)
	}
	if approxEqual(gotNonZero, gotEvenOdd, 1) {
		t.Error("nonzero and evenodd should disagree on an overlapping same-winding pair")
	}
}

// TestTriangulateTooComplexAborts exercises the sweep's complexity
// guard with a single ring dense enough (many distinct Y rows, each
// re-scanning every edge) to blow past maxEdgeCrossingTests well
// before a legitimate flattened contour ever would.
func TestTriangulateTooComplexAborts(t *testing.T) {
	const n = 1200
	zigzag := make([]geom.Vec2D, n)
	for i := 0; i < n; i++ {
		x := float32(0)
		if i%2 == 1 {
			x = 10
		}
		zigzag[i] = geom.Pt(x, float32(i))
	}

	_, err := Triangulate([][]geom.Vec2D{zigzag}, path.FillNonZero)
	if err != ErrTooComplex {
		t.Fatalf("expected ErrTooComplex, got %v", err)
	}
}
