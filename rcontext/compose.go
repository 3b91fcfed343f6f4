package rcontext

import (
	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/blend"
	"github.com/rivecore/rivecore/paint"
	"github.com/rivecore/rivecore/path"
	"github.com/rivecore/rivecore/pls"
	"github.com/rivecore/rivecore/target"
)

// clearPlanes resets the PLS color plane to clearColor and restores
// full clip coverage, as if desc.LoadAction were LoadClear.
func clearPlanes(ctx *pls.Context, clearColor [4]float32) {
	r, g, b, a := clearColor[0], clearColor[1], clearColor[2], clearColor[3]
	packed := [4]byte{f32ToByte(r), f32ToByte(g), f32ToByte(b), f32ToByte(a)}
	for y := 0; y < ctx.Planes.Height; y++ {
		for x := 0; x < ctx.Planes.Width; x++ {
			p := ctx.Planes.At(x, y)
			p.Color = [4]uint8(packed)
		}
	}
	ctx.Planes.ClearClip()
}

// composeBatch rasterizes b's fill triangles at pixel centers within
// the path's bounds and composes b's paint color into the PLS color
// plane wherever the winding rule says the pixel is covered, weighted
// by the clip plane's coverage for b.ClipID. composeBatch never writes
// the clip plane, so a DrawClipUpdate batch composes like any other
// draw and the plane keeps the full coverage it was cleared to.
func composeBatch(ctx *pls.Context, b *DrawBatch) error {
	if b.Path == nil {
		return nil
	}

	var tris []geom.Vec2D
	var err error
	switch b.DrawType {
	case pls.DrawImage:
		tris, err = b.Path.FillTriangles(path.FillNonZero)
	default:
		tris, err = b.Path.FillTriangles(b.FillRule)
	}
	if err != nil {
		return err
	}
	if len(tris) == 0 {
		return nil
	}

	bounds := geom.EmptyAABB()
	for i := 0; i < len(tris); i++ {
		p := b.Transform.MapVec(tris[i])
		bounds = bounds.UnionPoint(p.X, p.Y)
	}

	minX, minY := clampInt(bounds.MinX, 0, ctx.Planes.Width), clampInt(bounds.MinY, 0, ctx.Planes.Height)
	maxX, maxY := clampInt(bounds.MaxX+1, 0, ctx.Planes.Width), clampInt(bounds.MaxY+1, 0, ctx.Planes.Height)

	for y := minY; y < maxY; y++ {
		for x := minX; x < maxX; x++ {
			center := geom.Pt(float32(x)+0.5, float32(y)+0.5)
			if !coveredByTriangles(tris, b.Transform, b.FillRule, center) {
				continue
			}
			plane := ctx.Planes.At(x, y)
			_, coverage := pls.UnpackClip(plane.Clip)
			if coverage == 0 {
				continue
			}
			c := b.Paint.ColorAt(invertMap(b.Transform, center))
			alpha := c.A * b.Paint.Alpha * float32(coverage) / 0xFFFF
			src := [4]uint8{f32ToByte(c.R), f32ToByte(c.G), f32ToByte(c.B), f32ToByte(alpha)}
			if b.Paint.Blend == paint.BlendSourceOver {
				pls.ComposeColor(plane, src)
			} else {
				plane.Color = blend.Composite(b.Paint.Blend, src, plane.Color)
			}
		}
	}
	return nil
}

// coveredByTriangles sums signed winding contributions (or parity, for
// even-odd) across tris at pt, in world space, against fill rule rule.
func coveredByTriangles(tris []geom.Vec2D, xf geom.Mat2D, rule path.FillRule, pt geom.Vec2D) bool {
	winding := 0
	for i := 0; i+2 < len(tris); i += 3 {
		a := xf.MapVec(tris[i])
		b := xf.MapVec(tris[i+1])
		c := xf.MapVec(tris[i+2])
		if pointInTriangle(a, b, c, pt) {
			if signedArea2(a, b, c) >= 0 {
				winding++
			} else {
				winding--
			}
		}
	}
	if rule == path.FillEvenOdd {
		return winding%2 != 0
	}
	return winding != 0
}

func signedArea2(a, b, c geom.Vec2D) float32 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func pointInTriangle(a, b, c, p geom.Vec2D) bool {
	d1 := signedArea2(p, a, b)
	d2 := signedArea2(p, b, c)
	d3 := signedArea2(p, c, a)
	hasNeg := d1 < 0 || d2 < 0 || d3 < 0
	hasPos := d1 > 0 || d2 > 0 || d3 > 0
	return !(hasNeg && hasPos)
}

// invertMap approximates the inverse of an affine transform applied to
// pt, used only to evaluate a paint's gradient/image sampling in local
// space from a pixel center already mapped to world space by xf. Since
// geom.Mat2D has no general inverse helper, this solves the 2x2 linear
// system directly.
func invertMap(xf geom.Mat2D, worldPt geom.Vec2D) geom.Vec2D {
	det := xf.ScaleX*xf.ScaleY - xf.SkewX*xf.SkewY
	if det == 0 {
		return worldPt
	}
	dx := worldPt.X - xf.TransX
	dy := worldPt.Y - xf.TransY
	invDet := 1 / det
	return geom.Vec2D{
		X: (xf.ScaleY*dx - xf.SkewX*dy) * invDet,
		Y: (xf.ScaleX*dy - xf.SkewY*dx) * invDet,
	}
}

func clampInt(v float32, lo, hi int) int {
	i := int(v)
	if i < lo {
		return lo
	}
	if i > hi {
		return hi
	}
	return i
}

// copyPlanesToPixmap writes the PLS color plane's straight-alpha colors
// into pm's alpha-premultiplied *image.RGBA backing store.
func copyPlanesToPixmap(ctx *pls.Context, pm *target.PixmapTarget) {
	pix := pm.Pixels()
	stride := pm.Stride()
	for y := 0; y < ctx.Planes.Height; y++ {
		for x := 0; x < ctx.Planes.Width; x++ {
			p := ctx.Planes.At(x, y)
			i := y*stride + x*4
			if i+4 > len(pix) {
				continue
			}
			a := p.Color[3]
			if a == 0 {
				pix[i], pix[i+1], pix[i+2], pix[i+3] = 0, 0, 0, 0
				continue
			}
			// image.RGBA stores alpha-premultiplied channels; the plane
			// buffer keeps straight alpha, so convert on readout.
			pix[i+0] = premultiply(p.Color[0], a)
			pix[i+1] = premultiply(p.Color[1], a)
			pix[i+2] = premultiply(p.Color[2], a)
			pix[i+3] = a
		}
	}
}

func premultiply(c, a uint8) uint8 {
	return uint8((uint16(c)*uint16(a) + 127) / 255)
}
