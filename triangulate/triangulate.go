// Package triangulate converts one or more flattened (polyline)
// contours into a triangle mesh suitable for GPU rasterization,
// honoring either the non-zero or even-odd fill rule and supporting
// holes formed by nested, oppositely-wound contours.
package triangulate

import (
	"errors"
	"sort"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

// ErrDegenerateInput is returned when none of the supplied contours
// have enough distinct vertices to form a polygon, or when the
// resulting edge set has no non-horizontal span to sweep.
var ErrDegenerateInput = errors.New("triangulate: no usable contours")

// ErrTooComplex is returned when the input's edge count against its
// own row count (a proxy for how self-intersecting/dense the input
// is) exceeds the sweep's complexity budget, or when the emitted
// triangle count blows past a small multiple of the input vertex
// count. Ordinary flattened vector-art contours never come close;
// this exists to bound the O(rows * edges) sweep against adversarial
// or accidentally pathological input (thousands of near-coincident
// rows, deeply self-intersecting strokes) rather than let it run
// unbounded.
var ErrTooComplex = errors.New("triangulate: input exceeds sweep complexity budget")

const epsilon = 1e-6

// maxEdgeCrossingTests bounds the total number of edge/row membership
// tests the sweep performs (sum over rows of the edge count), which is
// O(rows * edges) in the worst case.
const maxEdgeCrossingTests = 500_000

// maxTriangleBlowupFactor bounds emitted triangles to this multiple of
// the input vertex count; legitimate contours produce a small constant
// multiple of their vertex count in triangles; anything beyond this
// indicates pathological self-intersection density.
const maxTriangleBlowupFactor = 17

// Triangulate converts a set of flattened, closed polyline contours
// (as produced by contour.Flattener) into a flat triangle list: every
// three consecutive points form one triangle, with no shared index
// buffer, mirroring how the pipeline's fixed-function tessellation
// pass consumes per-triangle vertex output.
//
// rule selects the inside/outside test: FillNonZero accumulates a
// signed winding count per scanline row (each edge contributes +1 or
// -1 depending on whether it runs in increasing or decreasing Y) and
// treats a span as filled whenever that count is non-zero; FillEvenOdd
// instead treats a span as filled whenever the crossing count is odd,
// independent of edge direction. Holes are expressed as rings wound
// opposite their enclosing ring (the standard nonzero convention —
// each nesting level alternates winding direction); overlapping
// same-winding rings merge under FillNonZero but can cancel out under
// FillEvenOdd, which is the behavior this sweep is built to get right.
//
// The algorithm is a horizontal scanline sweep: edges are bucketed
// into non-overlapping rows bounded by every distinct Y coordinate
// among the input vertices, each row's active edges are sorted by X,
// and the fill rule's accumulated winding/parity determines which
// consecutive-edge spans are inside. Each inside span between two
// rows becomes a trapezoid, split into two triangles.
func Triangulate(contours [][]geom.Vec2D, rule path.FillRule) ([]geom.Vec2D, error) {
	rings := normalizeRings(contours)
	if len(rings) == 0 {
		return nil, ErrDegenerateInput
	}

	edges := buildEdges(rings)
	rows := sweepRows(edges)
	if len(edges) == 0 || len(rows) < 2 {
		return nil, ErrDegenerateInput
	}

	totalVerts := 0
	for _, r := range rings {
		totalVerts += len(r)
	}
	triangleBudget := totalVerts * maxTriangleBlowupFactor
	if triangleBudget < 64 {
		triangleBudget = 64
	}

	crossingTests := 0
	var out []geom.Vec2D
	var active []activeEdge
	for i := 0; i+1 < len(rows); i++ {
		y0, y1 := rows[i], rows[i+1]
		if y1-y0 < epsilon {
			continue
		}

		active = active[:0]
		mid := (y0 + y1) * 0.5
		crossingTests += len(edges)
		if crossingTests > maxEdgeCrossingTests {
			return nil, ErrTooComplex
		}
		for _, e := range edges {
			if e.y0 > mid || e.y1 < mid {
				continue
			}
			active = append(active, e.activeAt(y0, y1, mid))
		}
		if len(active) < 2 {
			continue
		}
		sort.Slice(active, func(a, b int) bool { return active[a].xMid < active[b].xMid })

		winding := 0
		for k := 0; k+1 < len(active); k++ {
			winding += active[k].dir
			if !fillInside(winding, rule) {
				continue
			}
			a, b := active[k], active[k+1]
			out = append(out,
				geom.Pt(a.xAtY0, y0), geom.Pt(b.xAtY0, y0), geom.Pt(b.xAtY1, y1),
				geom.Pt(a.xAtY0, y0), geom.Pt(b.xAtY1, y1), geom.Pt(a.xAtY1, y1),
			)
			if len(out)/3 > triangleBudget {
				return nil, ErrTooComplex
			}
		}
	}

	if len(out) == 0 {
		return nil, ErrDegenerateInput
	}
	return out, nil
}

func fillInside(winding int, rule path.FillRule) bool {
	if rule == path.FillEvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

// edge is one non-horizontal directed segment of an input contour, in
// the order its ring originally wound it: dir is +1 if the ring visits
// it in increasing Y, -1 if decreasing. This directed sign is what
// lets the sweep accumulate a true winding count rather than a mere
// containment/parity count.
type edge struct {
	x0, y0, x1, y1 float32 // y0 < y1 always
	dir            int
}

// activeEdge is an edge's resolved X position at a row's top (y0),
// bottom (y1), and midline (used only for the sort that establishes
// left-to-right span order within the row).
type activeEdge struct {
	xMid, xAtY0, xAtY1 float32
	dir                int
}

func (e edge) activeAt(y0, y1, mid float32) activeEdge {
	span := e.y1 - e.y0
	return activeEdge{
		xMid:  e.x0 + (e.x1-e.x0)*(mid-e.y0)/span,
		xAtY0: e.x0 + (e.x1-e.x0)*(y0-e.y0)/span,
		xAtY1: e.x0 + (e.x1-e.x0)*(y1-e.y0)/span,
		dir:   e.dir,
	}
}

// buildEdges flattens every ring's consecutive point pairs into
// directed, Y-sorted edges, dropping horizontal edges (they never
// start or end a scanline row and contribute no crossing).
func buildEdges(rings [][]geom.Vec2D) []edge {
	var edges []edge
	for _, r := range rings {
		n := len(r)
		for i := 0; i < n; i++ {
			a, b := r[i], r[(i+1)%n]
			if abs32(a.Y-b.Y) < epsilon {
				continue
			}
			dir := 1
			if a.Y > b.Y {
				a, b = b, a
				dir = -1
			}
			edges = append(edges, edge{x0: a.X, y0: a.Y, x1: b.X, y1: b.Y, dir: dir})
		}
	}
	return edges
}

// sweepRows returns every distinct Y coordinate among edges' endpoints,
// ascending, forming the row boundaries the sweep walks between.
func sweepRows(edges []edge) []float32 {
	seen := make(map[float32]bool, len(edges))
	var ys []float32
	for _, e := range edges {
		for _, y := range [2]float32{e.y0, e.y1} {
			if !seen[y] {
				seen[y] = true
				ys = append(ys, y)
			}
		}
	}
	sort.Slice(ys, func(i, j int) bool { return ys[i] < ys[j] })
	return ys
}

// normalizeRings drops consecutive duplicate points and degenerate
// (fewer than 3 distinct vertices) rings.
func normalizeRings(contours [][]geom.Vec2D) [][]geom.Vec2D {
	var rings [][]geom.Vec2D
	for _, c := range contours {
		var r []geom.Vec2D
		for _, p := range c {
			if len(r) > 0 && approxEqualPt(r[len(r)-1], p) {
				continue
			}
			r = append(r, p)
		}
		if len(r) > 1 && approxEqualPt(r[0], r[len(r)-1]) {
			r = r[:len(r)-1]
		}
		if len(r) >= 3 {
			rings = append(rings, r)
		}
	}
	return rings
}

func approxEqualPt(a, b geom.Vec2D) bool {
	return a.Sub(b).LengthSquared() < epsilon*epsilon
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
