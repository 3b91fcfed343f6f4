package path

import "github.com/rivecore/rivecore/geom"

// ovalMagicConstant is the Bezier circle-approximation factor used by
// AddOval so that a 4-cubic approximation of a full circle deviates
// from the true circle by less than 0.0273% of the radius.
const ovalMagicConstant = 0.5519150244935105707435627

// RawPath is a flattened verb/point stream describing one or more
// contours. It carries no style (fill or stroke) of its own; it is the
// common geometric currency passed between path construction, contour
// segmentation, stroke extrusion and triangulation.
type RawPath struct {
	verbs  []Verb
	points []geom.Vec2D

	lastMoveIdx    int
	contourIsOpen  bool
	boundsValid    bool
	cachedBounds   geom.AABB
}

// Empty reports whether the path has no points.
func (p *RawPath) Empty() bool { return len(p.points) == 0 }

// Verbs returns the path's verb stream. The slice is owned by p and
// must not be retained across subsequent mutating calls.
func (p *RawPath) Verbs() []Verb { return p.verbs }

// Points returns the path's point stream. The slice is owned by p and
// must not be retained across subsequent mutating calls.
func (p *RawPath) Points() []geom.Vec2D { return p.points }

// Reset empties the path and releases its backing storage.
func (p *RawPath) Reset() {
	p.verbs = nil
	p.points = nil
	p.lastMoveIdx = 0
	p.contourIsOpen = false
	p.boundsValid = false
}

// Rewind empties the path but keeps the backing storage allocated, for
// reuse in a hot loop.
func (p *RawPath) Rewind() {
	p.verbs = p.verbs[:0]
	p.points = p.points[:0]
	p.lastMoveIdx = 0
	p.contourIsOpen = false
	p.boundsValid = false
}

func (p *RawPath) invalidate() { p.boundsValid = false }

// Bounds returns the axis-aligned bounding box of every point in the
// path, control points included.
func (p *RawPath) Bounds() geom.AABB {
	if p.boundsValid {
		return p.cachedBounds
	}
	b := geom.EmptyAABB()
	for _, pt := range p.points {
		b = b.UnionPoint(pt.X, pt.Y)
	}
	p.cachedBounds = b
	p.boundsValid = true
	return b
}

// Move starts a new contour at pt.
func (p *RawPath) Move(pt geom.Vec2D) {
	p.lastMoveIdx = len(p.points)
	p.verbs = append(p.verbs, VerbMove)
	p.points = append(p.points, pt)
	p.contourIsOpen = true
	p.invalidate()
}

// MoveTo is the x,y convenience form of Move.
func (p *RawPath) MoveTo(x, y float32) { p.Move(geom.Pt(x, y)) }

func (p *RawPath) injectImplicitMoveIfNeeded() {
	if !p.contourIsOpen {
		var start geom.Vec2D
		if len(p.points) > 0 {
			start = p.points[len(p.points)-1]
		}
		p.Move(start)
	}
}

// Line adds a straight segment to pt.
func (p *RawPath) Line(pt geom.Vec2D) {
	p.injectImplicitMoveIfNeeded()
	p.verbs = append(p.verbs, VerbLine)
	p.points = append(p.points, pt)
	p.invalidate()
}

// LineTo is the x,y convenience form of Line.
func (p *RawPath) LineTo(x, y float32) { p.Line(geom.Pt(x, y)) }

// Quad adds a quadratic bezier segment with control point ctrl ending
// at pt.
func (p *RawPath) Quad(ctrl, pt geom.Vec2D) {
	p.injectImplicitMoveIfNeeded()
	p.verbs = append(p.verbs, VerbQuad)
	p.points = append(p.points, ctrl, pt)
	p.invalidate()
}

// QuadTo is the x,y convenience form of Quad.
func (p *RawPath) QuadTo(cx, cy, x, y float32) {
	p.Quad(geom.Pt(cx, cy), geom.Pt(x, y))
}

// Cubic adds a cubic bezier segment with control points c1, c2 ending
// at pt.
func (p *RawPath) Cubic(c1, c2, pt geom.Vec2D) {
	p.injectImplicitMoveIfNeeded()
	p.verbs = append(p.verbs, VerbCubic)
	p.points = append(p.points, c1, c2, pt)
	p.invalidate()
}

// CubicTo is the x,y convenience form of Cubic.
func (p *RawPath) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	p.Cubic(geom.Pt(c1x, c1y), geom.Pt(c2x, c2y), geom.Pt(x, y))
}

// Close closes the current contour back to its starting point.
func (p *RawPath) Close() {
	if !p.contourIsOpen {
		return
	}
	p.verbs = append(p.verbs, VerbClose)
	p.contourIsOpen = false
	p.invalidate()
}

// AddRect appends a rectangle contour for box, wound in the given
// direction, starting at the top-left corner.
func (p *RawPath) AddRect(box geom.AABB, dir Direction) {
	p.Move(geom.Pt(box.MinX, box.MinY))
	if dir == DirectionCW {
		p.Line(geom.Pt(box.MaxX, box.MinY))
		p.Line(geom.Pt(box.MaxX, box.MaxY))
		p.Line(geom.Pt(box.MinX, box.MaxY))
	} else {
		p.Line(geom.Pt(box.MinX, box.MaxY))
		p.Line(geom.Pt(box.MaxX, box.MaxY))
		p.Line(geom.Pt(box.MaxX, box.MinY))
	}
	p.Close()
}

// AddOval appends an oval contour inscribed in box, approximated with
// four cubic beziers, wound in the given direction.
func (p *RawPath) AddOval(box geom.AABB, dir Direction) {
	cx := (box.MinX + box.MaxX) * 0.5
	cy := (box.MinY + box.MaxY) * 0.5
	rx := box.Width() * 0.5
	ry := box.Height() * 0.5
	k := float32(ovalMagicConstant)

	p.Move(geom.Pt(cx+rx, cy))
	if dir == DirectionCW {
		p.Cubic(geom.Pt(cx+rx, cy+ry*k), geom.Pt(cx+rx*k, cy+ry), geom.Pt(cx, cy+ry))
		p.Cubic(geom.Pt(cx-rx*k, cy+ry), geom.Pt(cx-rx, cy+ry*k), geom.Pt(cx-rx, cy))
		p.Cubic(geom.Pt(cx-rx, cy-ry*k), geom.Pt(cx-rx*k, cy-ry), geom.Pt(cx, cy-ry))
		p.Cubic(geom.Pt(cx+rx*k, cy-ry), geom.Pt(cx+rx, cy-ry*k), geom.Pt(cx+rx, cy))
	} else {
		p.Cubic(geom.Pt(cx+rx, cy-ry*k), geom.Pt(cx+rx*k, cy-ry), geom.Pt(cx, cy-ry))
		p.Cubic(geom.Pt(cx-rx*k, cy-ry), geom.Pt(cx-rx, cy-ry*k), geom.Pt(cx-rx, cy))
		p.Cubic(geom.Pt(cx-rx, cy+ry*k), geom.Pt(cx-rx*k, cy+ry), geom.Pt(cx, cy+ry))
		p.Cubic(geom.Pt(cx+rx*k, cy+ry), geom.Pt(cx+rx, cy+ry*k), geom.Pt(cx+rx, cy))
	}
	p.Close()
}

// AddPoly appends a polyline/polygon contour through pts. If isClosed
// is true a Close verb is emitted after the last point.
func (p *RawPath) AddPoly(pts []geom.Vec2D, isClosed bool) {
	if len(pts) == 0 {
		return
	}
	p.Move(pts[0])
	for _, pt := range pts[1:] {
		p.Line(pt)
	}
	if isClosed {
		p.Close()
	}
}

// AddPath appends the contents of src to p, optionally transformed by
// m first. A nil m leaves src untransformed.
func (p *RawPath) AddPath(src *RawPath, m *geom.Mat2D) {
	for it := src.Iter(); !it.Done(); it.Next() {
		verb, pts := it.Current()
		tp := func(v geom.Vec2D) geom.Vec2D {
			if m == nil {
				return v
			}
			return m.MapVec(v)
		}
		switch verb {
		case VerbMove:
			p.Move(tp(pts[0]))
		case VerbLine:
			p.Line(tp(pts[1]))
		case VerbQuad:
			p.Quad(tp(pts[1]), tp(pts[2]))
		case VerbCubic:
			p.Cubic(tp(pts[1]), tp(pts[2]), tp(pts[3]))
		case VerbClose:
			p.Close()
		}
	}
}

// Transform returns a copy of p with every point mapped through m.
func (p *RawPath) Transform(m geom.Mat2D) *RawPath {
	dst := &RawPath{}
	dst.AddPath(p, &m)
	return dst
}

// TransformInPlace maps every point of p through m without allocating
// a new verb stream.
func (p *RawPath) TransformInPlace(m geom.Mat2D) {
	for i := range p.points {
		p.points[i] = m.MapVec(p.points[i])
	}
	p.invalidate()
}

// Clone returns an independent deep copy of p.
func (p *RawPath) Clone() *RawPath {
	dst := &RawPath{
		verbs:         append([]Verb(nil), p.verbs...),
		points:        append([]geom.Vec2D(nil), p.points...),
		lastMoveIdx:   p.lastMoveIdx,
		contourIsOpen: p.contourIsOpen,
	}
	return dst
}

// Morph returns a copy of p with every on-curve and control point
// passed through proc. Unlike Transform, proc may be a non-affine
// function (e.g. per-point warp along a contour).
func (p *RawPath) Morph(proc func(geom.Vec2D) geom.Vec2D) *RawPath {
	dst := &RawPath{}
	for it := p.Iter(); !it.Done(); it.Next() {
		verb, pts := it.Current()
		switch verb {
		case VerbMove:
			dst.Move(proc(pts[0]))
		case VerbLine:
			dst.Line(proc(pts[1]))
		case VerbQuad:
			dst.Quad(proc(pts[1]), proc(pts[2]))
		case VerbCubic:
			dst.Cubic(proc(pts[1]), proc(pts[2]), proc(pts[3]))
		case VerbClose:
			dst.Close()
		}
	}
	return dst
}
