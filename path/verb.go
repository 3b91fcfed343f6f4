// Package path implements RawPath: a flat, verb/point-stream
// representation of a 2D vector path, mirroring the contour geometry
// model the rest of the pipeline (contour, stroke, triangulate) consumes.
package path

import "github.com/rivecore/rivecore/geom"

// Verb identifies a single path command.
type Verb uint8

const (
	// VerbMove starts a new contour at a point. Always the first verb
	// of any contour.
	VerbMove Verb = iota
	// VerbLine draws a straight segment to a point.
	VerbLine
	// VerbQuad draws a quadratic bezier segment (1 control point).
	VerbQuad
	// VerbCubic draws a cubic bezier segment (2 control points).
	VerbCubic
	// VerbClose closes the current contour back to its start point.
	VerbClose
)

// String returns a human-readable verb name.
func (v Verb) String() string {
	switch v {
	case VerbMove:
		return "move"
	case VerbLine:
		return "line"
	case VerbQuad:
		return "quad"
	case VerbCubic:
		return "cubic"
	case VerbClose:
		return "close"
	default:
		return "unknown"
	}
}

// PointsAdvance returns how many points are consumed by the verb,
// i.e. how far the point cursor should move past this verb's points.
func (v Verb) PointsAdvance() int {
	switch v {
	case VerbMove:
		return 1
	case VerbLine:
		return 1
	case VerbQuad:
		return 2
	case VerbCubic:
		return 3
	case VerbClose:
		return 0
	default:
		return 0
	}
}

// pointsBackset returns how far to back up from the current point
// cursor to find the start point of the segment described by verb.
// Every verb but move implicitly starts at the point left behind by
// the previous verb, so peeking backset points lets Iter report a
// segment's start point without tracking separate cursor state.
func (v Verb) pointsBackset() int {
	if v == VerbMove {
		return 0
	}
	return -1
}

// Direction specifies winding direction for path-building helpers like
// AddRect and AddOval.
type Direction uint8

const (
	// DirectionCW is clockwise winding.
	DirectionCW Direction = iota
	// DirectionCCW is counter-clockwise winding.
	DirectionCCW
)

// Vec2D is a local alias so callers in this package don't need to
// import geom for the common case.
type Vec2D = geom.Vec2D

// FillRule determines which regions of a self-overlapping or
// multi-contour path are considered "inside" for filling.
type FillRule uint8

const (
	// FillNonZero fills a point if the sum of signed contour windings
	// around it is non-zero. This is the common default for vector art.
	FillNonZero FillRule = iota
	// FillEvenOdd fills a point if an odd number of contours wind
	// around it, regardless of direction.
	FillEvenOdd
)
