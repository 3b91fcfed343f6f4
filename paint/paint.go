// Package paint describes what a filled or stroked path is painted
// with: solid colors, linear/radial/sweep gradients, and images, plus
// the blend mode a draw is composited with. It mirrors the brush model
// of the pipeline's scene encoding but works directly in the pipeline's
// geom/color types instead of a serialized command stream.
package paint

import (
	"sort"

	"github.com/rivecore/rivecore/geom"
	"github.com/rivecore/rivecore/internal/color"
)

// ExtendMode defines how a gradient extends beyond its defined [0,1] range.
type ExtendMode uint8

const (
	// ExtendPad clamps to the nearest edge color (default).
	ExtendPad ExtendMode = iota
	// ExtendRepeat tiles the gradient pattern.
	ExtendRepeat
	// ExtendReflect mirrors the gradient pattern on each tile.
	ExtendReflect
)

// BlendMode is a compositing operator for a draw against its destination.
type BlendMode uint8

const (
	BlendSourceOver BlendMode = iota
	BlendClear
	BlendCopy
	BlendDestination
	BlendSourceIn
	BlendDestinationIn
	BlendSourceOut
	BlendDestinationOut
	BlendSourceAtop
	BlendDestinationAtop
	BlendXor
	BlendPlus
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDarken
	BlendLighten
	BlendColorDodge
	BlendColorBurn
	BlendHardLight
	BlendSoftLight
	BlendDifference
	BlendExclusion
	BlendHue
	BlendSaturation
	BlendColor
	BlendLuminosity
)

// IsPorterDuff reports whether mode is one of the basic Porter-Duff
// compositing operators rather than an advanced separable/HSL blend.
func (mode BlendMode) IsPorterDuff() bool {
	return mode >= BlendClear && mode <= BlendPlus
}

// Stop is a color at a fractional offset along a gradient ramp.
type Stop struct {
	Offset float32
	Color  color.ColorF32
}

// sortedStops returns stops sorted by ascending offset, without
// mutating the caller's slice.
func sortedStops(stops []Stop) []Stop {
	out := append([]Stop(nil), stops...)
	sort.Slice(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func clamp01(t float32) float32 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

func applyExtend(t float32, mode ExtendMode) float32 {
	switch mode {
	case ExtendRepeat:
		t -= float32(int(t))
		if t < 0 {
			t++
		}
		return t
	case ExtendReflect:
		if t < 0 {
			t = -t
		}
		period := float32(int(t))
		t -= period
		if int(period)%2 == 1 {
			t = 1 - t
		}
		return t
	default:
		return clamp01(t)
	}
}

// lerpLinear interpolates two colors in linear light and returns the
// result re-encoded as sRGB. (Compositing at draw time blends the
// sRGB-encoded values directly.)
func lerpLinear(a, b color.ColorF32, t float32) color.ColorF32 {
	la := color.SRGBToLinearColor(a)
	lb := color.SRGBToLinearColor(b)
	mixed := color.ColorF32{
		R: la.R + t*(lb.R-la.R),
		G: la.G + t*(lb.G-la.G),
		B: la.B + t*(lb.B-la.B),
		A: la.A + t*(lb.A-la.A),
	}
	return color.LinearToSRGBColor(mixed)
}

// Ramp is a gradient color ramp with its stops sorted by offset, ready
// for evaluation at any extended t. Stops with equal offsets are kept.
type Ramp struct {
	stops []Stop
}

// NewRamp builds a Ramp from unsorted stops.
func NewRamp(stops []Stop) Ramp {
	return Ramp{stops: sortedStops(stops)}
}

// ColorAt evaluates the ramp at parameter t, applying mode to handle
// t outside [0,1].
func (r Ramp) ColorAt(t float32, mode ExtendMode) color.ColorF32 {
	if len(r.stops) == 0 {
		return color.ColorF32{}
	}
	if len(r.stops) == 1 {
		return r.stops[0].Color
	}

	t = applyExtend(t, mode)

	idx := sort.Search(len(r.stops), func(i int) bool { return r.stops[i].Offset >= t })
	if idx == 0 {
		return r.stops[0].Color
	}
	if idx >= len(r.stops) {
		return r.stops[len(r.stops)-1].Color
	}
	if r.stops[idx].Offset == t {
		return r.stops[idx].Color
	}

	s0, s1 := r.stops[idx-1], r.stops[idx]
	if s1.Offset == s0.Offset {
		return s0.Color
	}
	local := (t - s0.Offset) / (s1.Offset - s0.Offset)
	return lerpLinear(s0.Color, s1.Color, local)
}

// Kind identifies which paint variant a Paint value holds.
type Kind uint8

const (
	KindSolid Kind = iota
	KindLinearGradient
	KindRadialGradient
	KindSweepGradient
	KindImage
)

// LinearGradient transitions colors along the line from Start to End.
type LinearGradient struct {
	Start, End geom.Vec2D
	Ramp       Ramp
	Extend     ExtendMode
}

// ColorAt projects p onto the gradient axis and samples the ramp.
func (g LinearGradient) ColorAt(p geom.Vec2D) color.ColorF32 {
	axis := g.End.Sub(g.Start)
	lenSq := axis.LengthSquared()
	if lenSq == 0 {
		return g.Ramp.ColorAt(0, g.Extend)
	}
	t := p.Sub(g.Start).Dot(axis) / lenSq
	return g.Ramp.ColorAt(t, g.Extend)
}

// RadialGradient transitions colors outward from Focus across the
// radii StartRadius..EndRadius, measured from Focus. ColorAt does not
// read Center.
type RadialGradient struct {
	Center, Focus          geom.Vec2D
	StartRadius, EndRadius float32
	Ramp                   Ramp
	Extend                 ExtendMode
}

// ColorAt computes t for p as the fraction of the way from the start
// radius (measured from Focus) to the end radius, and samples the ramp.
func (g RadialGradient) ColorAt(p geom.Vec2D) color.ColorF32 {
	radiusDiff := g.EndRadius - g.StartRadius
	if radiusDiff == 0 {
		return g.Ramp.ColorAt(0, g.Extend)
	}
	dist := p.Sub(g.Focus).Length()
	t := (dist - g.StartRadius) / radiusDiff
	return g.Ramp.ColorAt(t, g.Extend)
}

// SweepGradient sweeps colors angularly around Center between
// StartAngle and EndAngle (radians).
type SweepGradient struct {
	Center                 geom.Vec2D
	StartAngle, EndAngle   float32
	Ramp                   Ramp
	Extend                 ExtendMode
}

// ColorAt computes the angular fraction of p around Center and samples
// the ramp.
func (g SweepGradient) ColorAt(p geom.Vec2D) color.ColorF32 {
	span := g.EndAngle - g.StartAngle
	if span == 0 {
		return g.Ramp.ColorAt(0, g.Extend)
	}
	angle := p.Sub(g.Center).Angle()
	t := (angle - g.StartAngle) / span
	return g.Ramp.ColorAt(t, g.Extend)
}

// Image is a source of sampled pixels, decoupled from any one image
// decoder so that renderpath/renderer can treat it opaquely.
type Image struct {
	Width, Height int
	Pixels        []color.ColorF32 // row-major, premultiplied-alpha-free straight color
}

// At samples the image at integer pixel coordinates, returning
// transparent black out of bounds.
func (img Image) At(x, y int) color.ColorF32 {
	if x < 0 || y < 0 || x >= img.Width || y >= img.Height {
		return color.ColorF32{}
	}
	return img.Pixels[y*img.Width+x]
}

// ImagePaint paints with a sampled Image under a local-to-image transform.
type ImagePaint struct {
	Image  Image
	ToLocal geom.Mat2D // maps paint space into image pixel space
	Extend  ExtendMode
}

// Paint is a tagged union of solid color, gradient, and image paint
// sources, plus the blend mode and overall alpha a draw composites with.
type Paint struct {
	Kind   Kind
	Solid  color.ColorF32
	Linear LinearGradient
	Radial RadialGradient
	Sweep  SweepGradient
	Image  ImagePaint
	Blend  BlendMode
	Alpha  float32
}

// SolidPaint builds an opaque solid-color Paint with BlendSourceOver.
func SolidPaint(c color.ColorF32) Paint {
	return Paint{Kind: KindSolid, Solid: c, Blend: BlendSourceOver, Alpha: 1}
}

// LinearGradientPaint builds a Paint from a LinearGradient.
func LinearGradientPaint(g LinearGradient) Paint {
	return Paint{Kind: KindLinearGradient, Linear: g, Blend: BlendSourceOver, Alpha: 1}
}

// RadialGradientPaint builds a Paint from a RadialGradient.
func RadialGradientPaint(g RadialGradient) Paint {
	return Paint{Kind: KindRadialGradient, Radial: g, Blend: BlendSourceOver, Alpha: 1}
}

// SweepGradientPaint builds a Paint from a SweepGradient.
func SweepGradientPaint(g SweepGradient) Paint {
	return Paint{Kind: KindSweepGradient, Sweep: g, Blend: BlendSourceOver, Alpha: 1}
}

// ImagePaintOf builds a Paint from an ImagePaint.
func ImagePaintOf(img ImagePaint) Paint {
	return Paint{Kind: KindImage, Image: img, Blend: BlendSourceOver, Alpha: 1}
}

// ColorAt evaluates the paint at a point in the paint's local space,
// dispatching to the appropriate source.
func (p Paint) ColorAt(pt geom.Vec2D) color.ColorF32 {
	switch p.Kind {
	case KindLinearGradient:
		return p.Linear.ColorAt(pt)
	case KindRadialGradient:
		return p.Radial.ColorAt(pt)
	case KindSweepGradient:
		return p.Sweep.ColorAt(pt)
	case KindImage:
		local := p.Image.ToLocal.MapVec(pt)
		x, y := int(local.X), int(local.Y)
		return p.Image.At(x, y)
	default:
		return p.Solid
	}
}
