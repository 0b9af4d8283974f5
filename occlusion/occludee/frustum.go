package occludee

import (
	"math"

	"github.com/Carmen-Shannon/oxy-occlusion/common"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/simd"
)

// signBit is the IEEE-754 sign bit, used to flip the sign of a
// half-extent component to match a plane normal's sign without a
// conditional — the "positive corner" trick.
const signBit = uint32(1) << 31

func signBitOf(v float32) uint32 {
	return math.Float32bits(v) & signBit
}

// CullPacket tests one packet of four AABBs against all six frustum
// planes and returns a 4-bit mask, one bit per lane, set where that
// occludee is OUTSIDE the frustum (and therefore does not need a depth
// test at all).
//
// Grounded directly on the reference algorithm's per-plane "positive
// corner" construction: for each plane, the corner of the box that
// projects furthest along the plane normal is chosen by XOR-ing the
// normal's sign bit into the half-extent before adding it to the center,
// so the comparison only ever needs that one corner rather than all
// eight.
func CullPacket(frustum common.Frustum, cx, cy, cz, hx, hy, hz simd.Vec4f) int {
	outsideMask := simd.Vec4i{}

	for _, plane := range frustum.Planes {
		nx, ny, nz := plane.Normal[0], plane.Normal[1], plane.Normal[2]

		halfSignX := xorSignVec4f(hx, signBitOf(nx))
		halfSignY := xorSignVec4f(hy, signBitOf(ny))
		halfSignZ := xorSignVec4f(hz, signBitOf(nz))

		// The corner of the box that projects furthest ALONG the plane
		// normal: the one most likely to still be inside. If even this
		// corner is outside, the whole box is.
		cornerX := cx.Add(halfSignX)
		cornerY := cy.Add(halfSignY)
		cornerZ := cz.Add(halfSignZ)

		dot := simd.SplatF(plane.Distance).
			Add(cornerX.Mul(simd.SplatF(nx))).
			Add(cornerY.Mul(simd.SplatF(ny))).
			Add(cornerZ.Mul(simd.SplatF(nz)))

		// dot < 0 means this corner is outside the plane; since it's the
		// corner closest to being inside, the whole box is outside.
		outsideMask = outsideMask.Or(signVec4i(dot))
	}

	return outsideMask.SignMask()
}

// xorSignVec4f flips the sign of every lane in v whose sign should match
// signBits (either 0 or signBit, applied uniformly to all four lanes).
func xorSignVec4f(v simd.Vec4f, signBits uint32) simd.Vec4f {
	var r simd.Vec4f
	for i := range v {
		r[i] = math.Float32frombits(math.Float32bits(v[i]) ^ signBits)
	}
	return r
}

// signVec4i returns, lane-wise, -1 where v's lane is negative and 0
// otherwise — a Vec4i whose sign bits encode v's sign bits, suitable for
// ORing into a running outside-mask.
func signVec4i(v simd.Vec4f) simd.Vec4i {
	var r simd.Vec4i
	for i := range v {
		if v[i] < 0 {
			r[i] = -1
		}
	}
	return r
}
