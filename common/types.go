// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

// Vector3 is a plain 3-component float32 vector used for occluder and
// occludee geometry before it is packed into SIMD-friendly layouts.
type Vector3 struct {
	X, Y, Z float32
}

// Add returns the component-wise sum of v and o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns the component-wise difference v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vector3) Scale(s float32) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

// AABB is a world-space axis-aligned bounding box expressed as a center and
// half-extents, matching the layout occludee packets are built from.
type AABB struct {
	Center Vector3
	Half   Vector3
}

// Min returns the box's minimum corner.
func (b AABB) Min() Vector3 {
	return b.Center.Sub(b.Half)
}

// Max returns the box's maximum corner.
func (b AABB) Max() Vector3 {
	return b.Center.Add(b.Half)
}

// Corners returns the eight world-space corners of the box in a fixed order:
// the low-XYZ corner first, then flipping X, then Y, then Z bits in turn
// (standard bounding-box corner enumeration order).
func (b AABB) Corners() [8]Vector3 {
	lo, hi := b.Min(), b.Max()
	return [8]Vector3{
		{X: lo.X, Y: lo.Y, Z: lo.Z},
		{X: hi.X, Y: lo.Y, Z: lo.Z},
		{X: lo.X, Y: hi.Y, Z: lo.Z},
		{X: hi.X, Y: hi.Y, Z: lo.Z},
		{X: lo.X, Y: lo.Y, Z: hi.Z},
		{X: hi.X, Y: lo.Y, Z: hi.Z},
		{X: lo.X, Y: hi.Y, Z: hi.Z},
		{X: hi.X, Y: hi.Y, Z: hi.Z},
	}
}

// IsZero reports whether the box has zero volume in every dimension.
func (b AABB) IsZero() bool {
	return b.Half.X == 0 && b.Half.Y == 0 && b.Half.Z == 0
}

// TransformAABB re-bounds box under a column-major 4x4 transform: the
// center moves like a point, and each half-extent axis becomes the sum of
// the matrix's corresponding row magnitudes dotted with the original
// half-extents. This is the standard conservative AABB-under-matrix
// re-bound (an axis-aligned box around a rotated/scaled box is itself
// axis-aligned and at least as large), avoiding a full eight-corner
// transform and min/max scan.
func TransformAABB(m [16]float32, box AABB) AABB {
	cx, cy, cz := box.Center.X, box.Center.Y, box.Center.Z
	hx, hy, hz := box.Half.X, box.Half.Y, box.Half.Z

	return AABB{
		Center: Vector3{
			X: m[0]*cx + m[4]*cy + m[8]*cz + m[12],
			Y: m[1]*cx + m[5]*cy + m[9]*cz + m[13],
			Z: m[2]*cx + m[6]*cy + m[10]*cz + m[14],
		},
		Half: Vector3{
			X: abs32(m[0])*hx + abs32(m[4])*hy + abs32(m[8])*hz,
			Y: abs32(m[1])*hx + abs32(m[5])*hy + abs32(m[9])*hz,
			Z: abs32(m[2])*hx + abs32(m[6])*hy + abs32(m[10])*hz,
		},
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
