package contour

import (
	"sort"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

// segType identifies which kind of curve a Measure segment covers.
type segType uint8

const (
	segLine segType = iota
	segQuad
	segCubic
)

// dot30Max and invScaleDot30 implement a 30-bit fixed point encoding
// for a segment's end-of-range t value, so that t and a 2-bit type tag
// share one uint32 (segment.packed); distance is stored separately.
const (
	dot30Max      = (1 << 30) - 1
	invScaleDot30 = 1.0 / float32(dot30Max)
)

// segment is one distance-ordered piece of a contour: either an
// entire line, or a [0,t] prefix of a quad/cubic curve whose full
// control points live in Measure.points at ptIndex. Successive
// segments over the same curve share ptIndex but have increasing t,
// which lets GetSegment re-derive any exact sub-range of the original
// curve instead of only the polyline approximation.
type segment struct {
	distance float32 // cumulative arc length up to the end of this segment
	ptIndex  uint32  // index into Measure.points for this segment's point window
	packed   uint32  // tValue (low 30 bits, Dot30) | segType (high 2 bits)
}

func packSegment(t float32, typ segType) uint32 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	tv := uint32(t * dot30Max)
	if tv > dot30Max {
		tv = dot30Max
	}
	return tv | (uint32(typ) << 30)
}

func (s segment) t() float32    { return float32(s.packed&dot30Max) * invScaleDot30 }
func (s segment) typ() segType  { return segType(s.packed >> 30) }

// PosTan is a position and tangent vector returned by GetPosTan.
type PosTan struct {
	Pos geom.Vec2D
	Tan geom.Vec2D
}

// Measure provides arc-length parametrized queries over a single
// contour: position/tangent at a given distance, extraction of an
// exact sub-range, and warping an arbitrary point onto the contour
// (used for effects like text set on a path).
type Measure struct {
	segments []segment
	points   []geom.Vec2D
	length   float32
	isClosed bool
}

// Length returns the total arc length of the contour.
func (m *Measure) Length() float32 { return m.length }

// IsClosed reports whether the contour ends in a close verb.
func (m *Measure) IsClosed() bool { return m.isClosed }

// GetPosTan returns the position and unit tangent at the given
// distance along the contour, clamped to [0, Length()].
func (m *Measure) GetPosTan(distance float32) PosTan {
	if len(m.segments) == 0 {
		return PosTan{}
	}
	if distance < 0 {
		distance = 0
	}
	if distance > m.length {
		distance = m.length
	}

	idx := m.findSegment(distance)
	seg := m.segments[idx]

	var prevDistance float32
	var prevT float32
	if idx > 0 {
		prevDistance = m.segments[idx-1].distance
		if m.segments[idx-1].ptIndex == seg.ptIndex {
			prevT = m.segments[idx-1].t()
		}
	}

	segLen := seg.distance - prevDistance
	localFrac := float32(0)
	if segLen > 1e-9 {
		localFrac = (distance - prevDistance) / segLen
	}
	t := prevT + (seg.t()-prevT)*localFrac

	return m.evalAt(seg, t)
}

// findSegment returns the index of the first segment whose cumulative
// distance is >= the query distance.
func (m *Measure) findSegment(distance float32) int {
	idx := sort.Search(len(m.segments), func(i int) bool {
		return m.segments[i].distance >= distance
	})
	if idx >= len(m.segments) {
		idx = len(m.segments) - 1
	}
	return idx
}

func (m *Measure) evalAt(seg segment, t float32) PosTan {
	switch seg.typ() {
	case segLine:
		from := m.points[seg.ptIndex]
		to := m.points[seg.ptIndex+1]
		pos := from.Lerp(to, t)
		tan := to.Sub(from).Normalize()
		return PosTan{Pos: pos, Tan: tan}
	case segQuad:
		from := m.points[seg.ptIndex]
		ctrl := m.points[seg.ptIndex+1]
		to := m.points[seg.ptIndex+2]
		pos := path.QuadPointAt(from, ctrl, to, t)
		ti := 1 - t
		tan := ctrl.Sub(from).Scale(2 * ti).Add(to.Sub(ctrl).Scale(2 * t)).Normalize()
		return PosTan{Pos: pos, Tan: tan}
	case segCubic:
		from := m.points[seg.ptIndex]
		c1 := m.points[seg.ptIndex+1]
		c2 := m.points[seg.ptIndex+2]
		to := m.points[seg.ptIndex+3]
		pos := path.CubicPointAt(from, c1, c2, to, t)
		ti := 1 - t
		tan := c1.Sub(from).Scale(3 * ti * ti).
			Add(c2.Sub(c1).Scale(6 * ti * t)).
			Add(to.Sub(c2).Scale(3 * t * t)).
			Normalize()
		return PosTan{Pos: pos, Tan: tan}
	default:
		return PosTan{}
	}
}

// Warp maps a local point src, expressed as (distance-along-contour,
// perpendicular-offset), onto world space by following the contour's
// tangent frame at src.X. This is the primitive behind drawing text
// or other content along a path.
func (m *Measure) Warp(src geom.Vec2D) geom.Vec2D {
	pt := m.GetPosTan(src.X)
	return geom.Pt(
		pt.Pos.X-pt.Tan.Y*src.Y,
		pt.Pos.Y+pt.Tan.X*src.Y,
	)
}

// GetSegment appends to dst the exact sub-path of the contour spanning
// [startDistance, endDistance], optionally preceded by a move to its
// start point.
func (m *Measure) GetSegment(startDistance, endDistance float32, dst *path.RawPath, startWithMove bool) {
	if startDistance < 0 {
		startDistance = 0
	}
	if endDistance > m.length {
		endDistance = m.length
	}
	if startDistance >= endDistance || len(m.segments) == 0 {
		return
	}

	startIdx := m.findSegment(startDistance)
	endIdx := m.findSegment(endDistance)

	moved := false
	for i := startIdx; i <= endIdx; i++ {
		seg := m.segments[i]
		var segStartDist float32
		var tLo float32
		if i > 0 {
			segStartDist = m.segments[i-1].distance
			if m.segments[i-1].ptIndex == seg.ptIndex {
				tLo = m.segments[i-1].t()
			}
		}
		segEndDist := seg.distance

		lo := tLo
		hi := seg.t()
		if i == startIdx && segEndDist > segStartDist {
			frac := (startDistance - segStartDist) / (segEndDist - segStartDist)
			lo = tLo + (seg.t()-tLo)*frac
		}
		if i == endIdx && segEndDist > segStartDist {
			frac := (endDistance - segStartDist) / (segEndDist - segStartDist)
			hi = tLo + (seg.t()-tLo)*frac
		}
		if hi <= lo {
			continue
		}

		m.extractRange(seg, lo, hi, dst, startWithMove && !moved)
		moved = true
	}
}

// extractRange appends the exact [lo, hi] sub-range of seg's curve to
// dst, splitting cubics/quads via De Casteljau trimming.
func (m *Measure) extractRange(seg segment, lo, hi float32, dst *path.RawPath, withMove bool) {
	switch seg.typ() {
	case segLine:
		from := m.points[seg.ptIndex]
		to := m.points[seg.ptIndex+1]
		a := from.Lerp(to, lo)
		b := from.Lerp(to, hi)
		if withMove {
			dst.Move(a)
		}
		dst.Line(b)
	case segQuad:
		from := m.points[seg.ptIndex]
		ctrl := m.points[seg.ptIndex+1]
		to := m.points[seg.ptIndex+2]
		f2, c2, t2 := trimQuad(from, ctrl, to, lo, hi)
		if withMove {
			dst.Move(f2)
		}
		dst.Quad(c2, t2)
	case segCubic:
		from := m.points[seg.ptIndex]
		c1 := m.points[seg.ptIndex+1]
		c2 := m.points[seg.ptIndex+2]
		to := m.points[seg.ptIndex+3]
		f2, o2, i2, t2 := trimCubic(from, c1, c2, to, lo, hi)
		if withMove {
			dst.Move(f2)
		}
		dst.Cubic(o2, i2, t2)
	}
}

// trimQuad returns the control points of the quad sub-curve over
// [lo, hi] of the original quad (from, ctrl, to).
func trimQuad(from, ctrl, to geom.Vec2D, lo, hi float32) (f2, c2, t2 geom.Vec2D) {
	// Trim the tail first (keep [0, hi]), then trim the head of that
	// result (keep [lo/hi, 1]).
	a := from.Lerp(ctrl, hi)
	b := ctrl.Lerp(to, hi)
	headTo := a.Lerp(b, hi)
	headFrom, headCtrl := from, a
	if hi <= 0 {
		headFrom, headCtrl, headTo = from, from, from
	}

	if hi <= 1e-9 {
		return from, from, from
	}
	loN := lo / hi
	a2 := headFrom.Lerp(headCtrl, loN)
	b2 := headCtrl.Lerp(headTo, loN)
	splitPt := a2.Lerp(b2, loN)
	return splitPt, b2, headTo
}

// trimCubic returns the control points of the cubic sub-curve over
// [lo, hi] of the original cubic (from, c1, c2, to).
func trimCubic(from, c1, c2, to geom.Vec2D, lo, hi float32) (f2, o2, i2, t2 geom.Vec2D) {
	var hull [6]geom.Vec2D
	path.CubicHull(from, c1, c2, to, hi, &hull)
	headFrom, headC1, headC2, headTo := from, hull[0], hull[3], hull[5]
	if hi <= 1e-9 {
		return from, from, from, from
	}

	loN := lo / hi
	var hull2 [6]geom.Vec2D
	path.CubicHull(headFrom, headC1, headC2, headTo, loN, &hull2)
	return hull2[5], hull2[4], hull2[2], headTo
}
