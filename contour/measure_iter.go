package contour

import (
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

// DefaultMeasureTolerance is the default maximum deviation, in local
// path units, between a curve and the polyline used to estimate its
// arc length. A smaller tolerance produces more segments per curve but
// a more accurate length and position/tangent queries.
const DefaultMeasureTolerance = 0.5

// MeasureIter produces a Measure for each contour of a RawPath in
// turn. Zero-length contours (a lone move, or a move immediately
// followed by close) are skipped.
type MeasureIter struct {
	it           path.Iter
	invTolerance float32
}

// NewMeasureIter creates a MeasureIter over rawPath using tol as the
// flattening tolerance for arc-length estimation. A non-positive tol
// falls back to DefaultMeasureTolerance.
func NewMeasureIter(rawPath *path.RawPath, tol float32) *MeasureIter {
	if tol <= 0 {
		tol = DefaultMeasureTolerance
	}
	return &MeasureIter{it: rawPath.Iter(), invTolerance: 1 / tol}
}

// Next returns the Measure for the next contour, or nil when the path
// is exhausted.
func (mi *MeasureIter) Next() *Measure {
	for !mi.it.Done() {
		m := mi.consumeContour()
		if m != nil {
			return m
		}
	}
	return nil
}

// consumeContour reads verbs up to (and including) the next move that
// starts a new contour, or end of stream, building a Measure from
// whatever geometry it found. Returns nil for a degenerate contour so
// Next can keep looking.
func (mi *MeasureIter) consumeContour() *Measure {
	b := &measureBuilder{tolerance: 1 / mi.invTolerance}

	// consume the leading move.
	if mi.it.Done() {
		return nil
	}
	verb, pts := mi.it.Current()
	if verb != path.VerbMove {
		mi.it.Next()
		return nil
	}
	start := pts[0]
	b.addPoint(start)
	mi.it.Next()

	for !mi.it.Done() {
		verb, pts := mi.it.Current()
		if verb == path.VerbMove {
			break // next contour begins; leave it for the next call.
		}
		mi.it.Next()
		switch verb {
		case path.VerbLine:
			b.addLine(pts[0], pts[1])
		case path.VerbQuad:
			b.addQuad(pts[0], pts[1], pts[2])
		case path.VerbCubic:
			b.addCubic(pts[0], pts[1], pts[2], pts[3])
		case path.VerbClose:
			if b.cur != start {
				b.addLine(b.cur, start)
			}
			b.isClosed = true
		}
	}

	if b.length <= 0 || len(b.segments) == 0 {
		return nil
	}
	return &Measure{
		segments: b.segments,
		points:   b.points,
		length:   b.length,
		isClosed: b.isClosed,
	}
}

// measureBuilder accumulates Measure state while walking one contour.
type measureBuilder struct {
	points    []geom.Vec2D
	segments  []segment
	length    float32
	cur       geom.Vec2D
	isClosed  bool
	tolerance float32
}

func (b *measureBuilder) addPoint(p geom.Vec2D) {
	b.points = append(b.points, p)
	b.cur = p
}

func (b *measureBuilder) addLine(from, to geom.Vec2D) {
	ptIndex := uint32(len(b.points) - 1) // "from" is already the last stored point.
	b.points = append(b.points, to)
	b.length += from.Distance(to)
	b.segments = append(b.segments, segment{
		distance: b.length,
		ptIndex:  ptIndex,
		packed:   packSegment(1, segLine),
	})
	b.cur = to
}

const maxMeasureDepth = 24

func (b *measureBuilder) addQuad(from, ctrl, to geom.Vec2D) {
	ptIndex := uint32(len(b.points) - 1)
	b.points = append(b.points, ctrl, to)
	b.subdivideQuad(from, ctrl, to, 0, 1, ptIndex, 0)
	b.cur = to
}

func (b *measureBuilder) subdivideQuad(from, ctrl, to geom.Vec2D, t0, t1 float32, ptIndex uint32, depth int) {
	if depth >= maxMeasureDepth || quadFlatEnough(from, ctrl, to, b.tolerance) {
		b.length += b.cur.Distance(to)
		b.cur = to
		b.segments = append(b.segments, segment{
			distance: b.length,
			ptIndex:  ptIndex,
			packed:   packSegment(t1, segQuad),
		})
		return
	}
	p01 := from.Lerp(ctrl, 0.5)
	p12 := ctrl.Lerp(to, 0.5)
	mid := p01.Lerp(p12, 0.5)
	tm := (t0 + t1) / 2
	b.subdivideQuad(from, p01, mid, t0, tm, ptIndex, depth+1)
	b.subdivideQuad(mid, p12, to, tm, t1, ptIndex, depth+1)
}

func quadFlatEnough(from, ctrl, to geom.Vec2D, threshold float32) bool {
	mid := from.Lerp(to, 0.5)
	return ctrl.Sub(mid).LengthSquared() <= threshold*threshold
}

func (b *measureBuilder) addCubic(from, c1, c2, to geom.Vec2D) {
	ptIndex := uint32(len(b.points) - 1)
	b.points = append(b.points, c1, c2, to)
	b.subdivideCubic(from, c1, c2, to, 0, 1, ptIndex, 0)
	b.cur = to
}

func (b *measureBuilder) subdivideCubic(from, c1, c2, to geom.Vec2D, t0, t1 float32, ptIndex uint32, depth int) {
	if depth >= maxMeasureDepth || !path.ShouldSplitCubic(from, c1, c2, to, b.tolerance) {
		b.length += b.cur.Distance(to)
		b.cur = to
		b.segments = append(b.segments, segment{
			distance: b.length,
			ptIndex:  ptIndex,
			packed:   packSegment(t1, segCubic),
		})
		return
	}
	var hull [6]geom.Vec2D
	path.CubicHull(from, c1, c2, to, 0.5, &hull)
	mid := hull[5]
	tm := (t0 + t1) / 2
	b.subdivideCubic(from, hull[0], hull[3], mid, t0, tm, ptIndex, depth+1)
	b.subdivideCubic(mid, hull[4], hull[2], to, tm, t1, ptIndex, depth+1)
}
