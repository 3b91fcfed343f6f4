// Package contour flattens RawPath curves into polylines under a
// flatness threshold, and provides Measure for arc-length
// parametrized queries (position/tangent at distance, sub-range
// extraction, and warping points onto a contour) used for effects like
// text-on-a-path.
package contour

import (
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

// DefaultThreshold is the default maximum deviation, in local path
// units, allowed between a curve and the line segments approximating
// it.
const DefaultThreshold = 0.5

// maxRecursionDepth bounds subdivision so a degenerate or
// numerically unstable curve can't recurse forever.
const maxRecursionDepth = 24

// Contour is a single flattened, transformed contour: a sequence of
// polyline vertices plus the bounds they occupy.
type Contour struct {
	points []geom.Vec2D
	bounds geom.AABB
	closed bool
}

// Points returns the flattened vertices of the contour, in order.
func (c *Contour) Points() []geom.Vec2D { return c.points }

// Bounds returns the bounding box of the contour's vertices.
func (c *Contour) Bounds() geom.AABB { return c.bounds }

// Closed reports whether the source contour ended in a close verb.
func (c *Contour) Closed() bool { return c.closed }

// contourPoints returns a view of the contour's points, trimmed by
// endOffset vertices from the end. This mirrors the original
// contourPoints(endOffset) accessor, which callers use to exclude a
// synthetic closing vertex when they don't want it.
func (c *Contour) contourPoints(endOffset int) []geom.Vec2D {
	n := len(c.points) - endOffset
	if n < 0 {
		n = 0
	}
	return c.points[:n]
}

// Flattener converts RawPath contours into flattened polylines under a
// configurable threshold. It is reusable across multiple paths; each
// call to Flatten resets internal scratch state.
type Flattener struct {
	threshold        float32
	thresholdSquared float32
}

// NewFlattener creates a Flattener with the given flatness threshold.
func NewFlattener(threshold float32) *Flattener {
	f := &Flattener{}
	f.SetThreshold(threshold)
	return f
}

// Threshold returns the flattener's current flatness threshold.
func (f *Flattener) Threshold() float32 { return f.threshold }

// SetThreshold updates the flatness threshold used by subsequent
// Flatten calls.
func (f *Flattener) SetThreshold(value float32) {
	if value <= 0 {
		value = DefaultThreshold
	}
	f.threshold = value
	f.thresholdSquared = value * value
}

// Flatten segments every contour of rawPath, mapped through transform,
// into a slice of flattened Contours. Zero-length contours (a move
// with no following geometry) are skipped.
func (f *Flattener) Flatten(rawPath *path.RawPath, transform geom.Mat2D) []*Contour {
	var out []*Contour
	var cur *Contour
	var startPt geom.Vec2D

	flushIfNonTrivial := func() {
		if cur != nil && len(cur.points) > 1 {
			out = append(out, cur)
		}
	}

	for it := rawPath.Iter(); !it.Done(); it.Next() {
		verb, pts := it.Current()
		switch verb {
		case path.VerbMove:
			flushIfNonTrivial()
			startPt = transform.MapVec(pts[0])
			cur = &Contour{bounds: geom.EmptyAABB()}
			f.addVertex(cur, startPt)
		case path.VerbLine:
			to := transform.MapVec(pts[1])
			f.addVertex(cur, to)
		case path.VerbQuad:
			from := transform.MapVec(pts[0])
			ctrl := transform.MapVec(pts[1])
			to := transform.MapVec(pts[2])
			f.segmentQuad(cur, from, ctrl, to, 0)
		case path.VerbCubic:
			from := transform.MapVec(pts[0])
			c1 := transform.MapVec(pts[1])
			c2 := transform.MapVec(pts[2])
			to := transform.MapVec(pts[3])
			f.segmentCubic(cur, from, c1, c2, to, 0)
		case path.VerbClose:
			if cur != nil {
				f.addVertex(cur, startPt)
				cur.closed = true
			}
		}
	}
	flushIfNonTrivial()
	return out
}

func (f *Flattener) addVertex(c *Contour, v geom.Vec2D) {
	if c == nil {
		return
	}
	c.points = append(c.points, v)
	c.bounds = c.bounds.UnionPoint(v.X, v.Y)
}

func (f *Flattener) segmentQuad(c *Contour, from, ctrl, to geom.Vec2D, depth int) {
	if depth >= maxRecursionDepth || f.quadFlatEnough(from, ctrl, to) {
		f.addVertex(c, to)
		return
	}
	// De Casteljau split at t=0.5.
	p01 := from.Lerp(ctrl, 0.5)
	p12 := ctrl.Lerp(to, 0.5)
	mid := p01.Lerp(p12, 0.5)
	f.segmentQuad(c, from, p01, mid, depth+1)
	f.segmentQuad(c, mid, p12, to, depth+1)
}

func (f *Flattener) quadFlatEnough(from, ctrl, to geom.Vec2D) bool {
	// Distance from ctrl to the chord's midpoint, compared to threshold.
	mid := from.Lerp(to, 0.5)
	d := ctrl.Sub(mid)
	return d.LengthSquared() <= f.thresholdSquared
}

// segmentCubic flattens a cubic by recursive subdivision, mirroring
// SegmentedContour::segmentCubic: split at the midpoint whenever the
// control points deviate from the chord's trisection points by more
// than the threshold.
func (f *Flattener) segmentCubic(c *Contour, from, fromOut, toIn, to geom.Vec2D, depth int) {
	if depth >= maxRecursionDepth || !path.ShouldSplitCubic(from, fromOut, toIn, to, f.threshold) {
		f.addVertex(c, to)
		return
	}
	var hull [6]geom.Vec2D
	path.CubicHull(from, fromOut, toIn, to, 0.5, &hull)
	mid := hull[5]
	f.segmentCubic(c, from, hull[0], hull[3], mid, depth+1)
	f.segmentCubic(c, mid, hull[4], hull[2], to, depth+1)
}
