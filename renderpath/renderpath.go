// Package renderpath wraps path.RawPath with cached tessellation: the
// flattened-and-triangulated vertex buffers a CPU (or GPU) draw call
// actually consumes, recomputed only when the underlying path, fill
// rule, or stroke style changes.
package renderpath

import (
	"github.com/rivecore/rivecore/contour"
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/stroke"
	"github.com/rivecore/rivecore/triangulate"
)

// DefaultFlattenThreshold is the maximum deviation (in local path units)
// between a curve and its polyline approximation before subdivision,
// matching contour.DefaultThreshold.
const DefaultFlattenThreshold = contour.DefaultThreshold

// Path is a path made ready for rasterization: it can report geometry
// bounds and produce flat (non-indexed) triangle lists for both fill
// and stroke draws, caching the expensive flatten+triangulate work
// between calls as long as nothing has changed.
type Path struct {
	raw path.RawPath

	threshold float32

	fillValid bool
	fillRule  path.FillRule
	fillTris  []geom.Vec2D

	strokeValid bool
	strokeStyle stroke.Style
	strokeTris  []geom.Vec2D
}

// New returns an empty Path ready for building via its RawPath.
func New() *Path {
	return &Path{threshold: DefaultFlattenThreshold}
}

// FromRawPath wraps an existing RawPath. The RawPath is cloned so the
// caller's copy and the wrapper evolve independently.
func FromRawPath(src *path.RawPath) *Path {
	p := New()
	p.raw = *src.Clone()
	return p
}

// SetFlattenThreshold overrides the curve-flattening tolerance used for
// both fill and stroke tessellation, invalidating any cached geometry.
func (p *Path) SetFlattenThreshold(t float32) {
	if t <= 0 {
		t = DefaultFlattenThreshold
	}
	if t == p.threshold {
		return
	}
	p.threshold = t
	p.invalidate()
}

// Raw exposes the underlying RawPath for building. Callers that mutate
// it through the returned pointer must call Invalidate afterward.
func (p *Path) Raw() *path.RawPath {
	return &p.raw
}

// Invalidate discards any cached tessellation, forcing the next
// FillTriangles/StrokeTriangles call to recompute from the current
// RawPath contents. Call this after mutating the pointer from Raw.
func (p *Path) Invalidate() {
	p.invalidate()
}

func (p *Path) invalidate() {
	p.fillValid = false
	p.strokeValid = false
	p.fillTris = nil
	p.strokeTris = nil
}

// Bounds returns the path's control-point bounding box.
func (p *Path) Bounds() geom.AABB {
	return p.raw.Bounds()
}

// flattenContours flattens the given RawPath into polyline contours
// ready for triangulation.
func (p *Path) flattenContours(src *path.RawPath) [][]geom.Vec2D {
	f := contour.NewFlattener(p.threshold)
	cs := f.Flatten(src, geom.Identity())
	out := make([][]geom.Vec2D, len(cs))
	for i, c := range cs {
		out[i] = c.Points()
	}
	return out
}

// FillTriangles returns the cached flat triangle list for filling this
// path under rule, computing and caching it on first use or whenever
// the path or rule changed since the last call.
func (p *Path) FillTriangles(rule path.FillRule) ([]geom.Vec2D, error) {
	if p.fillValid && p.fillRule == rule {
		return p.fillTris, nil
	}

	contours := p.flattenContours(&p.raw)
	tris, err := triangulate.Triangulate(contours, rule)
	if err != nil {
		p.fillValid = false
		return nil, err
	}

	p.fillValid = true
	p.fillRule = rule
	p.fillTris = tris
	return tris, nil
}

// StrokeTriangles returns the cached flat triangle list for stroking
// this path with style, computing and caching it on first use or
// whenever the path or style changed since the last call.
//
// The stroke is first expanded into a fill outline (via stroke.Expander)
// and that outline is triangulated with the non-zero fill rule, since a
// correctly-built stroke outline never self-overlaps in a way that
// would need the even-odd rule to resolve.
func (p *Path) StrokeTriangles(style stroke.Style) ([]geom.Vec2D, error) {
	if p.strokeValid && p.strokeStyle == style {
		return p.strokeTris, nil
	}

	expander := stroke.NewExpander(style)
	expander.SetTolerance(p.threshold)
	outline := expander.Expand(&p.raw)

	contours := p.flattenContours(outline)
	tris, err := triangulate.Triangulate(contours, path.FillNonZero)
	if err != nil {
		p.strokeValid = false
		return nil, err
	}

	p.strokeValid = true
	p.strokeStyle = style
	p.strokeTris = tris
	return tris, nil
}

// Clone returns an independent copy of p, including its current raw
// path but none of its tessellation cache.
func (p *Path) Clone() *Path {
	c := New()
	c.threshold = p.threshold
	c.raw = *p.raw.Clone()
	return c
}
