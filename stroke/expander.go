package stroke

import (
	"math"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
)

// elemKind tags entries in the expander's scratch outline builder.
type elemKind uint8

const (
	elemMove elemKind = iota
	elemLine
	elemQuad
	elemCubic
	elemClose
)

type elem struct {
	kind           elemKind
	ctrl1, ctrl2   Vec2D
	pt             Vec2D
}

// outline is a minimal append-only path builder used internally by the
// expander while it accumulates the forward and backward offset
// curves; unlike path.RawPath it supports indexed reverse traversal,
// which appendReversed needs to walk the backward curve tail-to-head.
type outline struct {
	elems []elem
	cur   Vec2D
}

func newOutline() *outline { return &outline{elems: make([]elem, 0, 64)} }

func (o *outline) isEmpty() bool { return len(o.elems) == 0 }

func (o *outline) moveTo(p Vec2D) {
	o.elems = append(o.elems, elem{kind: elemMove, pt: p})
	o.cur = p
}

func (o *outline) lineTo(p Vec2D) {
	o.elems = append(o.elems, elem{kind: elemLine, pt: p})
	o.cur = p
}

func (o *outline) quadTo(c, p Vec2D) {
	o.elems = append(o.elems, elem{kind: elemQuad, ctrl1: c, pt: p})
	o.cur = p
}

func (o *outline) cubicTo(c1, c2, p Vec2D) {
	o.elems = append(o.elems, elem{kind: elemCubic, ctrl1: c1, ctrl2: c2, pt: p})
	o.cur = p
}

func (o *outline) closeVerb() { o.elems = append(o.elems, elem{kind: elemClose}) }

func (o *outline) appendTo(dst *outline) {
	for i, e := range o.elems {
		if i == 0 && e.kind == elemMove {
			dst.elems = append(dst.elems, e)
			continue
		}
		dst.elems = append(dst.elems, e)
	}
}

func endPointOf(e elem) Vec2D { return e.pt }

// toRawPath replays the accumulated elements into a path.RawPath.
func (o *outline) toRawPath(dst *path.RawPath) {
	for _, e := range o.elems {
		switch e.kind {
		case elemMove:
			dst.Move(e.pt)
		case elemLine:
			dst.Line(e.pt)
		case elemQuad:
			dst.Quad(e.ctrl1, e.pt)
		case elemCubic:
			dst.Cubic(e.ctrl1, e.ctrl2, e.pt)
		case elemClose:
			dst.Close()
		}
	}
}

// Expander converts a centerline RawPath into a filled stroke outline.
// An Expander is reusable across calls to Expand; each call resets its
// internal state.
type Expander struct {
	style     Style
	tolerance float32

	forward  *outline
	backward *outline
	output   *outline

	startPt   Vec2D
	startNorm Vec2D
	startTan  Vec2D
	lastPt    Vec2D
	lastTan   Vec2D
	lastNorm  Vec2D

	joinThresh float32
}

// NewExpander creates an Expander for the given stroke style.
func NewExpander(style Style) *Expander {
	return &Expander{style: style, tolerance: 0.25}
}

// SetTolerance sets the curve-flattening tolerance used while
// expanding quadratic and cubic segments.
func (e *Expander) SetTolerance(tolerance float32) {
	if tolerance > 0 {
		e.tolerance = tolerance
	}
}

// Expand returns the filled outline of src under the expander's style.
func (e *Expander) Expand(src *path.RawPath) *path.RawPath {
	e.reset()

	for it := src.Iter(); !it.Done(); it.Next() {
		verb, pts := it.Current()
		switch verb {
		case path.VerbMove:
			e.finish()
			e.startPt = pts[0]
			e.lastPt = pts[0]
		case path.VerbLine:
			to := pts[1]
			if to != e.lastPt {
				tangent := to.Sub(e.lastPt)
				e.doJoin(tangent)
				e.lastTan = tangent
				e.doLine(tangent, to)
			}
		case path.VerbQuad:
			ctrl, to := pts[1], pts[2]
			if ctrl != e.lastPt || to != e.lastPt {
				e.doQuad(ctrl, to)
			}
		case path.VerbCubic:
			c1, c2, to := pts[1], pts[2], pts[3]
			if c1 != e.lastPt || c2 != e.lastPt || to != e.lastPt {
				e.doCubic(c1, c2, to)
			}
		case path.VerbClose:
			if e.lastPt != e.startPt {
				tangent := e.startPt.Sub(e.lastPt)
				e.doJoin(tangent)
				e.lastTan = tangent
				e.doLine(tangent, e.startPt)
			}
			e.finishClosed()
		}
	}

	e.finish()

	dst := &path.RawPath{}
	e.output.toRawPath(dst)
	return dst
}

func (e *Expander) reset() {
	e.forward = newOutline()
	e.backward = newOutline()
	e.output = newOutline()
	e.startPt, e.startNorm, e.startTan = Vec2D{}, Vec2D{}, Vec2D{}
	e.lastPt, e.lastTan, e.lastNorm = Vec2D{}, Vec2D{}, Vec2D{}
	if e.style.Width != 0 {
		e.joinThresh = 2 * e.tolerance / e.style.Width
	}
}

func (e *Expander) doJoin(tan0 Vec2D) {
	scale := 0.5 * e.style.Width / tan0.Length()
	norm := tan0.Perp().Scale(scale)
	p0 := e.lastPt

	if e.forward.isEmpty() {
		e.startFirstSegment(p0, norm, tan0)
		return
	}
	e.joinWithPrevious(p0, norm, tan0)
}

func (e *Expander) startFirstSegment(p0, norm, tan0 Vec2D) {
	e.forward.moveTo(p0.Add(norm.Neg()))
	e.backward.moveTo(p0.Add(norm))
	e.startTan = tan0
	e.startNorm = norm
}

func (e *Expander) joinWithPrevious(p0, norm, tan0 Vec2D) {
	ab := e.lastTan
	cd := tan0
	cross := ab.Cross(cd)
	dot := ab.Dot(cd)
	hypot := float32(math.Hypot(float64(cross), float64(dot)))

	// Skip the join geometry when the turn is negligible, but still
	// connect the offset paths so they don't gap at near-straight runs
	// (e.g. the cardinal points of a circle built from several arcs).
	if dot > 0 && float32(math.Abs(float64(cross))) < hypot*e.joinThresh {
		e.forward.lineTo(p0.Add(norm.Neg()))
		e.backward.lineTo(p0.Add(norm))
		return
	}

	switch e.style.Join {
	case JoinBevel:
		e.applyBevelJoin(p0, norm)
	case JoinMiter:
		e.applyMiterJoin(p0, norm, ab, cd, cross, dot, hypot)
	case JoinRound:
		e.applyRoundJoin(p0, norm, cross, dot)
	}
}

func (e *Expander) applyBevelJoin(p0, norm Vec2D) {
	e.forward.lineTo(p0.Add(norm.Neg()))
	e.backward.lineTo(p0.Add(norm))
}

func (e *Expander) applyMiterJoin(p0, norm, ab, cd Vec2D, cross, dot, hypot float32) {
	miterLimitSq := e.style.MiterLimit * e.style.MiterLimit
	if 2*hypot < (hypot+dot)*miterLimitSq {
		e.computeMiterPoint(p0, norm, ab, cd, cross)
	}
	e.forward.lineTo(p0.Add(norm.Neg()))
	e.backward.lineTo(p0.Add(norm))
}

func (e *Expander) computeMiterPoint(p0, norm, ab, cd Vec2D, cross float32) {
	lastScale := 0.5 * e.style.Width / ab.Length()
	lastNorm := ab.Perp().Scale(lastScale)

	if cross > 0 {
		fpLast := p0.Add(lastNorm.Neg())
		fpThis := p0.Add(norm.Neg())
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		miterPt := fpThis.Add(cd.Scale(-h))
		e.forward.lineTo(miterPt)
		e.backward.lineTo(p0)
	} else if cross < 0 {
		fpLast := p0.Add(lastNorm)
		fpThis := p0.Add(norm)
		h := ab.Cross(fpThis.Sub(fpLast)) / cross
		miterPt := fpThis.Add(cd.Scale(-h))
		e.backward.lineTo(miterPt)
		e.forward.lineTo(p0)
	}
}

func (e *Expander) applyRoundJoin(p0, norm Vec2D, cross, dot float32) {
	lastScale := 0.5 * e.style.Width / e.lastTan.Length()
	lastNorm := e.lastTan.Perp().Scale(lastScale)

	angle := float32(math.Atan2(float64(cross), float64(dot)))
	if angle > 0 {
		e.backward.lineTo(p0.Add(norm))
		e.roundJoin(e.forward, p0, lastNorm.Neg(), angle)
	} else {
		e.forward.lineTo(p0.Add(norm.Neg()))
		e.roundJoinRev(e.backward, p0, lastNorm, -angle)
	}
}

func (e *Expander) doLine(tangent, p1 Vec2D) {
	scale := 0.5 * e.style.Width / tangent.Length()
	norm := tangent.Perp().Scale(scale)

	e.forward.lineTo(p1.Add(norm.Neg()))
	e.backward.lineTo(p1.Add(norm))
	e.lastPt = p1
	e.lastNorm = norm
}

func (e *Expander) doQuad(control, end Vec2D) {
	points := flattenQuad(e.lastPt, control, end, e.tolerance)
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.LengthSquared() > 1e-10 {
			e.doJoin(tangent)
			e.lastTan = tangent
			e.doLine(tangent, points[i])
		}
	}
}

func (e *Expander) doCubic(c1, c2, end Vec2D) {
	points := flattenCubic(e.lastPt, c1, c2, end, e.tolerance)
	for i := 1; i < len(points); i++ {
		tangent := points[i].Sub(points[i-1])
		if tangent.LengthSquared() > 1e-10 {
			e.doJoin(tangent)
			e.lastTan = tangent
			e.doLine(tangent, points[i])
		}
	}
}

func (e *Expander) finish() {
	if e.forward.isEmpty() {
		return
	}

	e.forward.appendTo(e.output)

	// lastNorm points from the centerline toward the backward path;
	// the cap needs the normal pointing toward the forward path, hence
	// the negation.
	if len(e.backward.elems) > 0 {
		e.applyCap(e.style.Cap, e.lastPt, e.lastNorm.Neg(), false)
	}

	e.appendReversed(e.backward)
	e.applyCap(e.style.Cap, e.startPt, e.startNorm, true)

	e.forward = newOutline()
	e.backward = newOutline()
}

func (e *Expander) finishClosed() {
	if e.forward.isEmpty() {
		return
	}

	e.doJoin(e.startTan)

	e.forward.appendTo(e.output)
	e.output.closeVerb()

	if len(e.backward.elems) > 0 {
		last := e.backward.elems[len(e.backward.elems)-1]
		e.output.moveTo(endPointOf(last))
	}
	e.appendReversed(e.backward)
	e.output.closeVerb()

	e.forward = newOutline()
	e.backward = newOutline()
}

func (e *Expander) applyCap(cap Cap, center, norm Vec2D, closePath bool) {
	switch cap {
	case CapButt:
		if closePath {
			e.output.closeVerb()
		} else {
			e.output.lineTo(center.Add(norm.Neg()))
		}
	case CapRound:
		e.roundCap(e.output, center, norm)
		if closePath {
			e.output.closeVerb()
		}
	case CapSquare:
		e.squareCap(e.output, center, norm, closePath)
	}
}

func (e *Expander) roundCap(out *outline, center, norm Vec2D) {
	e.roundJoin(out, center, norm, math.Pi)
}

func (e *Expander) roundJoin(out *outline, center, norm Vec2D, angle float32) {
	numSegments := int(math.Ceil(math.Abs(float64(angle)) / (math.Pi / 2)))
	if numSegments < 1 {
		numSegments = 1
	}

	angleStep := angle / float32(numSegments)
	currentAngle := norm.Angle()
	radius := norm.Length()

	for i := 0; i < numSegments; i++ {
		a0 := currentAngle
		a1 := currentAngle + angleStep
		e.arcSegment(out, center, radius, a0, a1)
		currentAngle = a1
	}
}

func (e *Expander) roundJoinRev(out *outline, center, norm Vec2D, angle float32) {
	e.roundJoin(out, center, norm.Neg(), angle)
}

// arcSegment appends a cubic-bezier approximation of an arc of at most
// 90 degrees, centered on center, from angle a0 to a1.
func (e *Expander) arcSegment(out *outline, center Vec2D, radius, a0, a1 float32) {
	da := float64(a1 - a0)
	alpha := float32(math.Sin(da) * (math.Sqrt(4+3*math.Tan(da/2)*math.Tan(da/2)) - 1) / 3)

	cos0, sin0 := float32(math.Cos(float64(a0))), float32(math.Sin(float64(a0)))
	cos1, sin1 := float32(math.Cos(float64(a1))), float32(math.Sin(float64(a1)))

	p1 := geom.Pt(center.X+radius*cos0, center.Y+radius*sin0)
	p2 := geom.Pt(center.X+radius*cos1, center.Y+radius*sin1)

	c1 := geom.Pt(p1.X-alpha*radius*sin0, p1.Y+alpha*radius*cos0)
	c2 := geom.Pt(p2.X+alpha*radius*sin1, p2.Y-alpha*radius*cos1)

	out.cubicTo(c1, c2, p2)
}

func (e *Expander) squareCap(out *outline, center, norm Vec2D, closePath bool) {
	p1 := e.transformPoint(center, norm, geom.Pt(1, 1))
	p2 := e.transformPoint(center, norm, geom.Pt(-1, 1))

	out.lineTo(p1)
	out.lineTo(p2)

	if closePath {
		out.closeVerb()
	} else {
		p3 := e.transformPoint(center, norm, geom.Pt(-1, 0))
		out.lineTo(p3)
	}
}

func (e *Expander) transformPoint(center, norm, p Vec2D) Vec2D {
	return geom.Pt(
		norm.X*p.X-norm.Y*p.Y+center.X,
		norm.Y*p.X+norm.X*p.Y+center.Y,
	)
}

// appendReversed appends pb's elements to the output in reverse order,
// swapping cubic control points so the curve direction flips too.
func (e *Expander) appendReversed(pb *outline) {
	elems := pb.elems
	for i := len(elems) - 1; i >= 1; i-- {
		end := endPointOf(elems[i-1])
		switch el := elems[i]; el.kind {
		case elemLine:
			e.output.lineTo(end)
		case elemQuad:
			e.output.quadTo(el.ctrl1, end)
		case elemCubic:
			e.output.cubicTo(el.ctrl2, el.ctrl1, end)
		}
	}
}

func flattenQuad(p0, p1, p2 Vec2D, tolerance float32) []Vec2D {
	points := []Vec2D{p0}
	flattenQuadRec(p0, p1, p2, tolerance, &points)
	return points
}

func flattenQuadRec(p0, p1, p2 Vec2D, tolerance float32, points *[]Vec2D) {
	if distanceToLine(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)
	flattenQuadRec(p0, q0, q2, tolerance, points)
	flattenQuadRec(q2, q1, p2, tolerance, points)
}

func flattenCubic(p0, p1, p2, p3 Vec2D, tolerance float32) []Vec2D {
	points := []Vec2D{p0}
	flattenCubicRec(p0, p1, p2, p3, tolerance, &points)
	return points
}

func flattenCubicRec(p0, p1, p2, p3 Vec2D, tolerance float32, points *[]Vec2D) {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	dist := d1
	if d2 > dist {
		dist = d2
	}
	if dist < tolerance {
		*points = append(*points, p3)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubicRec(p0, q0, r0, s, tolerance, points)
	flattenCubicRec(s, r1, q2, p3, tolerance, points)
}

func distanceToLine(p, a, b Vec2D) float32 {
	ab := b.Sub(a)
	abLen := ab.Length()
	if abLen < 1e-10 {
		return p.Distance(a)
	}
	ap := p.Sub(a)
	t := ap.Dot(ab) / (abLen * abLen)
	if t < 0 {
		return p.Distance(a)
	}
	if t > 1 {
		return p.Distance(b)
	}
	closest := a.Add(ab.Scale(t))
	return p.Distance(closest)
}
