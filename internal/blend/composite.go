package blend

import "github.com/rivecore/rivecore/paint"

// Composite blends src over dst under mode, where src and dst are
// straight-alpha RGBA bytes (the PLS color plane's convention) rather
// than the premultiplied alpha every BlendFunc operates on. It
// premultiplies both operands, dispatches to the mode's BlendFunc, then
// unpremultiplies the result back to straight alpha.
func Composite(mode paint.BlendMode, src, dst [4]uint8) [4]uint8 {
	sr, sg, sb, sa := premultiply(src)
	dr, dg, db, da := premultiply(dst)

	fn := GetBlendFunc(mode)
	rr, rg, rb, ra := fn(sr, sg, sb, sa, dr, dg, db, da)

	return unpremultiply(rr, rg, rb, ra)
}

func premultiply(c [4]uint8) (r, g, b, a byte) {
	a = c[3]
	return mulDiv255(c[0], a), mulDiv255(c[1], a), mulDiv255(c[2], a), a
}

func unpremultiply(r, g, b, a byte) [4]uint8 {
	if a == 0 {
		return [4]uint8{0, 0, 0, 0}
	}
	return [4]uint8{
		clamp255((uint16(r)*255 + uint16(a)/2) / uint16(a)),
		clamp255((uint16(g)*255 + uint16(a)/2) / uint16(a)),
		clamp255((uint16(b)*255 + uint16(a)/2) / uint16(a)),
		a,
	}
}
