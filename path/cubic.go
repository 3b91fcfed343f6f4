package path

import "github.com/rivecore/rivecore/geom"

// CubicHull computes the 6-point De Casteljau control hull for
// subdividing the cubic (from, fromOut, toIn, to) at parameter t. The
// returned points are, in order: the two first-level lerps, the two
// second-level lerps, and finally the split point itself (hull[5]),
// which is shared by both resulting sub-cubics.
func CubicHull(from, fromOut, toIn, to geom.Vec2D, t float32, hull *[6]geom.Vec2D) {
	hull[0] = from.Lerp(fromOut, t)
	hull[1] = fromOut.Lerp(toIn, t)
	hull[2] = toIn.Lerp(to, t)

	hull[3] = hull[0].Lerp(hull[1], t)
	hull[4] = hull[1].Lerp(hull[2], t)

	hull[5] = hull[3].Lerp(hull[4], t)
}

// tooFar reports whether a and b differ by more than threshold along
// either axis.
func tooFar(a, b geom.Vec2D, threshold float32) bool {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	return dx > threshold || dy > threshold
}

// ShouldSplitCubic reports whether the cubic (from, fromOut, toIn, to)
// deviates from a straight chord by more than threshold, by comparing
// each control point's distance from the corresponding trisection
// point of the chord. This is a cheap, non-exact flatness test that
// the segmentation pass uses to decide whether to subdivide further.
func ShouldSplitCubic(from, fromOut, toIn, to geom.Vec2D, threshold float32) bool {
	oneThird := from.Lerp(to, 1.0/3.0)
	twoThird := from.Lerp(to, 2.0/3.0)
	return tooFar(fromOut, oneThird, threshold) || tooFar(toIn, twoThird, threshold)
}

// CubicAt evaluates a 1D cubic bezier with control values a, b, c, d
// at parameter t. Applying this independently to the x and y
// components of a cubic's four points evaluates the curve itself.
func CubicAt(t, a, b, c, d float32) float32 {
	ti := 1 - t
	return ti*ti*ti*a + 3*ti*ti*t*b + 3*ti*t*t*c + t*t*t*d
}

// CubicPointAt evaluates the 2D cubic (from, fromOut, toIn, to) at t.
func CubicPointAt(from, fromOut, toIn, to geom.Vec2D, t float32) geom.Vec2D {
	return geom.Pt(
		CubicAt(t, from.X, fromOut.X, toIn.X, to.X),
		CubicAt(t, from.Y, fromOut.Y, toIn.Y, to.Y),
	)
}

// QuadPointAt evaluates a quadratic bezier (from, ctrl, to) at t.
func QuadPointAt(from, ctrl, to geom.Vec2D, t float32) geom.Vec2D {
	ti := 1 - t
	a := ti * ti
	b := 2 * ti * t
	c := t * t
	return geom.Pt(
		a*from.X+b*ctrl.X+c*to.X,
		a*from.Y+b*ctrl.Y+c*to.Y,
	)
}
