// Package stroke expands a centerline RawPath into a filled outline
// RawPath representing its stroke: the outer offset curve forward, the
// inner offset curve reversed, joined by caps and joins. The resulting
// outline is itself an ordinary fill path and is handed to triangulate
// the same way any other filled contour would be.
package stroke

import "github.com/rivecore/rivecore/geom"

// Cap specifies the shape drawn at the open ends of a stroked subpath.
type Cap uint8

const (
	// CapButt ends the stroke flush with the endpoint, no extension.
	CapButt Cap = iota
	// CapRound ends the stroke with a semicircle centered on the endpoint.
	CapRound
	// CapSquare ends the stroke with a half-square extension.
	CapSquare
)

// Join specifies the shape drawn where two stroked segments meet.
type Join uint8

const (
	// JoinMiter extends the segments' outer edges to a point, falling
	// back to a bevel when the miter ratio exceeds MiterLimit.
	JoinMiter Join = iota
	// JoinRound joins segments with an arc.
	JoinRound
	// JoinBevel joins segments by connecting their outer corners directly.
	JoinBevel
)

// Style describes how a centerline path should be expanded into a
// stroke outline.
type Style struct {
	Width      float32
	Cap        Cap
	Join       Join
	MiterLimit float32
}

// DefaultStyle returns a 1-unit-wide butt-capped miter-joined style.
func DefaultStyle() Style {
	return Style{Width: 1, Cap: CapButt, Join: JoinMiter, MiterLimit: 4}
}

// Vec2D is a local alias for the shared 2D vector type.
type Vec2D = geom.Vec2D
