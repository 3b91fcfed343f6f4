// Package geom provides the leaf 2D geometry primitives the rest of the
// rendering pipeline is built on: points/vectors, affine matrices, and
// axis-aligned bounding boxes.
package geom

import "math"

// Vec2D is a 2D point or vector.
type Vec2D struct {
	X, Y float32
}

// Pt is a convenience constructor for Vec2D.
func Pt(x, y float32) Vec2D { return Vec2D{X: x, Y: y} }

// Add returns v+w.
func (v Vec2D) Add(w Vec2D) Vec2D { return Vec2D{v.X + w.X, v.Y + w.Y} }

// Sub returns v-w.
func (v Vec2D) Sub(w Vec2D) Vec2D { return Vec2D{v.X - w.X, v.Y - w.Y} }

// Scale returns v scaled by s.
func (v Vec2D) Scale(s float32) Vec2D { return Vec2D{v.X * s, v.Y * s} }

// Neg returns -v.
func (v Vec2D) Neg() Vec2D { return Vec2D{-v.X, -v.Y} }

// Dot returns the dot product of v and w.
func (v Vec2D) Dot(w Vec2D) float32 { return v.X*w.X + v.Y*w.Y }

// Cross returns the z-component of the 3D cross product of v and w.
func (v Vec2D) Cross(w Vec2D) float32 { return v.X*w.Y - v.Y*w.X }

// Length returns the Euclidean length of v.
func (v Vec2D) Length() float32 { return float32(math.Sqrt(float64(v.LengthSquared()))) }

// LengthSquared returns the squared length of v, avoiding the sqrt.
func (v Vec2D) LengthSquared() float32 { return v.X*v.X + v.Y*v.Y }

// Normalize returns a unit vector in the direction of v, or the zero
// vector if v is (near) zero length.
func (v Vec2D) Normalize() Vec2D {
	l := v.Length()
	if l < 1e-10 {
		return Vec2D{}
	}
	return Vec2D{v.X / l, v.Y / l}
}

// Perp returns v rotated 90 degrees counter-clockwise: (-y, x).
func (v Vec2D) Perp() Vec2D { return Vec2D{-v.Y, v.X} }

// Lerp linearly interpolates between v and w at parameter t.
func (v Vec2D) Lerp(w Vec2D, t float32) Vec2D {
	return Vec2D{v.X + (w.X-v.X)*t, v.Y + (w.Y-v.Y)*t}
}

// Distance returns the Euclidean distance between v and w.
func (v Vec2D) Distance(w Vec2D) float32 { return v.Sub(w).Length() }

// Angle returns the angle of v in radians, in [-pi, pi].
func (v Vec2D) Angle() float32 { return float32(math.Atan2(float64(v.Y), float64(v.X))) }

// Mat2D is a 2x3 affine matrix:
//
//	| scaleX skewX  transX |
//	| skewY  scaleY transY |
//
// applied to a point as:
//
//	x' = scaleX*x + skewX*y + transX
//	y' = skewY*x + scaleY*y + transY
type Mat2D struct {
	ScaleX, SkewY, SkewX, ScaleY, TransX, TransY float32
}

// Identity returns the identity affine matrix.
func Identity() Mat2D {
	return Mat2D{ScaleX: 1, ScaleY: 1}
}

// Translate returns a translation matrix.
func Translate(x, y float32) Mat2D {
	return Mat2D{ScaleX: 1, ScaleY: 1, TransX: x, TransY: y}
}

// Scaling returns a scale matrix.
func Scaling(sx, sy float32) Mat2D {
	return Mat2D{ScaleX: sx, ScaleY: sy}
}

// Rotation returns a rotation matrix (radians).
func Rotation(radians float32) Mat2D {
	c := float32(math.Cos(float64(radians)))
	s := float32(math.Sin(float64(radians)))
	return Mat2D{ScaleX: c, SkewY: s, SkewX: -s, ScaleY: c}
}

// Map transforms a point by the matrix.
func (m Mat2D) Map(x, y float32) Vec2D {
	return Vec2D{
		X: m.ScaleX*x + m.SkewX*y + m.TransX,
		Y: m.SkewY*x + m.ScaleY*y + m.TransY,
	}
}

// MapVec transforms a Vec2D by the matrix.
func (m Mat2D) MapVec(v Vec2D) Vec2D { return m.Map(v.X, v.Y) }

// MapVector transforms a direction vector by the matrix, ignoring
// translation. Used for tangents and normals.
func (m Mat2D) MapVector(v Vec2D) Vec2D {
	return Vec2D{
		X: m.ScaleX*v.X + m.SkewX*v.Y,
		Y: m.SkewY*v.X + m.ScaleY*v.Y,
	}
}

// Mul returns m applied after other: for a point p, m.Mul(other).Map(p)
// equals m.Map(other.Map(p)).
func (m Mat2D) Mul(other Mat2D) Mat2D {
	return Mat2D{
		ScaleX: m.ScaleX*other.ScaleX + m.SkewX*other.SkewY,
		SkewY:  m.SkewY*other.ScaleX + m.ScaleY*other.SkewY,
		SkewX:  m.ScaleX*other.SkewX + m.SkewX*other.ScaleY,
		ScaleY: m.SkewY*other.SkewX + m.ScaleY*other.ScaleY,
		TransX: m.ScaleX*other.TransX + m.SkewX*other.TransY + m.TransX,
		TransY: m.SkewY*other.TransX + m.ScaleY*other.TransY + m.TransY,
	}
}

// WorstCaseScale returns a conservative upper bound on how much this
// matrix can stretch a unit vector, used to scale flattening tolerances
// so that on-screen flatness is preserved under zoom (spec.md 4.2).
func (m Mat2D) WorstCaseScale() float32 {
	sx := Vec2D{m.ScaleX, m.SkewY}.Length()
	sy := Vec2D{m.SkewX, m.ScaleY}.Length()
	if sx > sy {
		return sx
	}
	return sy
}

// AABB is an axis-aligned bounding box. An empty AABB has MinX > MaxX.
type AABB struct {
	MinX, MinY, MaxX, MaxY float32
}

// EmptyAABB returns an AABB with inverted bounds, suitable as the
// identity element for Union/UnionPoint accumulation.
func EmptyAABB() AABB {
	return AABB{
		MinX: math.MaxFloat32,
		MinY: math.MaxFloat32,
		MaxX: -math.MaxFloat32,
		MaxY: -math.MaxFloat32,
	}
}

// IsEmpty reports whether the box has no area.
func (b AABB) IsEmpty() bool { return b.MinX >= b.MaxX || b.MinY >= b.MaxY }

// UnionPoint expands b to include (x, y).
func (b AABB) UnionPoint(x, y float32) AABB {
	return AABB{
		MinX: min32(b.MinX, x),
		MinY: min32(b.MinY, y),
		MaxX: max32(b.MaxX, x),
		MaxY: max32(b.MaxY, y),
	}
}

// Union returns the smallest box containing both b and other.
func (b AABB) Union(other AABB) AABB {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return AABB{
		MinX: min32(b.MinX, other.MinX),
		MinY: min32(b.MinY, other.MinY),
		MaxX: max32(b.MaxX, other.MaxX),
		MaxY: max32(b.MaxY, other.MaxY),
	}
}

// Intersect returns the overlapping region of b and other. The result
// may be empty (IsEmpty() true) if they do not overlap.
func (b AABB) Intersect(other AABB) AABB {
	return AABB{
		MinX: max32(b.MinX, other.MinX),
		MinY: max32(b.MinY, other.MinY),
		MaxX: min32(b.MaxX, other.MaxX),
		MaxY: min32(b.MaxY, other.MaxY),
	}
}

// Outset grows the box by dx horizontally and dy vertically on every side.
func (b AABB) Outset(dx, dy float32) AABB {
	return AABB{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Contains reports whether (x, y) lies within the box.
func (b AABB) Contains(x, y float32) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Width returns MaxX-MinX, or 0 for an empty box.
func (b AABB) Width() float32 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxX - b.MinX
}

// Height returns MaxY-MinY, or 0 for an empty box.
func (b AABB) Height() float32 {
	if b.IsEmpty() {
		return 0
	}
	return b.MaxY - b.MinY
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
