// Package simd provides a narrow, exact 4-lane vector abstraction used by
// the occluder rasterizer and the occludee frustum/depth tests. Every
// operation is lane-parallel across exactly four lanes, matching the
// SSE __m128 semantics the pipeline's math is defined in terms of: a
// width-generic SIMD library cannot guarantee the same lane count or
// expose a movmskps-style 4-bit sign mask, so this package is a plain
// array-backed stand-in for that fixed-width register.
package simd

// Vec4i is a 4-lane 32-bit integer vector. Every arithmetic method is
// lane-parallel.
type Vec4i [4]int32

// Vec4f is a 4-lane single-precision floating-point vector. Every
// arithmetic method is lane-parallel.
type Vec4f [4]float32

// SplatI returns a Vec4i with all four lanes set to v.
func SplatI(v int32) Vec4i {
	return Vec4i{v, v, v, v}
}

// SplatF returns a Vec4f with all four lanes set to v.
func SplatF(v float32) Vec4f {
	return Vec4f{v, v, v, v}
}

// Add returns the lane-wise sum a + b.
func (a Vec4i) Add(b Vec4i) Vec4i {
	return Vec4i{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// Sub returns the lane-wise difference a - b.
func (a Vec4i) Sub(b Vec4i) Vec4i {
	return Vec4i{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

// Mul returns the lane-wise product a * b.
func (a Vec4i) Mul(b Vec4i) Vec4i {
	return Vec4i{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// And returns the lane-wise bitwise AND of a and b.
func (a Vec4i) And(b Vec4i) Vec4i {
	return Vec4i{a[0] & b[0], a[1] & b[1], a[2] & b[2], a[3] & b[3]}
}

// Or returns the lane-wise bitwise OR of a and b.
func (a Vec4i) Or(b Vec4i) Vec4i {
	return Vec4i{a[0] | b[0], a[1] | b[1], a[2] | b[2], a[3] | b[3]}
}

// Xor returns the lane-wise bitwise XOR of a and b.
func (a Vec4i) Xor(b Vec4i) Vec4i {
	return Vec4i{a[0] ^ b[0], a[1] ^ b[1], a[2] ^ b[2], a[3] ^ b[3]}
}

// ShiftLeft shifts every lane left by shift bits (compile-time constant in
// the original SSE code, a plain parameter here since Go has no
// template-style constant shift).
func (a Vec4i) ShiftLeft(shift uint) Vec4i {
	return Vec4i{a[0] << shift, a[1] << shift, a[2] << shift, a[3] << shift}
}

// ShiftRightArithmetic shifts every lane right by shift bits, preserving sign.
func (a Vec4i) ShiftRightArithmetic(shift uint) Vec4i {
	return Vec4i{a[0] >> shift, a[1] >> shift, a[2] >> shift, a[3] >> shift}
}

// Min returns the lane-wise minimum of a and b.
func (a Vec4i) Min(b Vec4i) Vec4i {
	var r Vec4i
	for i := range a {
		if a[i] < b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Max returns the lane-wise maximum of a and b.
func (a Vec4i) Max(b Vec4i) Vec4i {
	var r Vec4i
	for i := range a {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// ToFloat converts every lane from int32 to float32.
func (a Vec4i) ToFloat() Vec4f {
	return Vec4f{float32(a[0]), float32(a[1]), float32(a[2]), float32(a[3])}
}

// SignMask returns a 4-bit mask, one bit per lane, set where the lane's
// sign bit is set (lane < 0). Bit i corresponds to lane i. This is the
// Go equivalent of _mm_movemask_ps/_mm_movemask_epi8's sign extraction.
func (a Vec4i) SignMask() int {
	mask := 0
	for i, v := range a {
		if v < 0 {
			mask |= 1 << uint(i)
		}
	}
	return mask
}

// IsAllNegative reports whether every lane has its sign bit set. Used by
// the rasterizer to early-out a 2x2 quad whose edge-function OR mask
// shows every pixel outside the triangle.
func (a Vec4i) IsAllNegative() bool {
	return a.SignMask() == 0xF
}

// Select returns, lane-wise, a[i] where mask lane i is negative (sign bit
// set) and b[i] otherwise — the Go equivalent of SSE's blend/select on a
// sign-bit mask.
func Select(a, b Vec4f, mask Vec4i) Vec4f {
	var r Vec4f
	for i := range r {
		if mask[i] < 0 {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Add returns the lane-wise sum a + b.
func (a Vec4f) Add(b Vec4f) Vec4f {
	return Vec4f{a[0] + b[0], a[1] + b[1], a[2] + b[2], a[3] + b[3]}
}

// Sub returns the lane-wise difference a - b.
func (a Vec4f) Sub(b Vec4f) Vec4f {
	return Vec4f{a[0] - b[0], a[1] - b[1], a[2] - b[2], a[3] - b[3]}
}

// Mul returns the lane-wise product a * b.
func (a Vec4f) Mul(b Vec4f) Vec4f {
	return Vec4f{a[0] * b[0], a[1] * b[1], a[2] * b[2], a[3] * b[3]}
}

// Div returns the lane-wise quotient a / b.
func (a Vec4f) Div(b Vec4f) Vec4f {
	return Vec4f{a[0] / b[0], a[1] / b[1], a[2] / b[2], a[3] / b[3]}
}

// MulAdd returns a*b + c lane-wise (fused multiply-add semantics are not
// required here, only the combined operation's shape).
func (a Vec4f) MulAdd(b, c Vec4f) Vec4f {
	return Vec4f{
		a[0]*b[0] + c[0],
		a[1]*b[1] + c[1],
		a[2]*b[2] + c[2],
		a[3]*b[3] + c[3],
	}
}

// Max returns the lane-wise maximum of a and b.
func (a Vec4f) Max(b Vec4f) Vec4f {
	var r Vec4f
	for i := range a {
		if a[i] > b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Min returns the lane-wise minimum of a and b.
func (a Vec4f) Min(b Vec4f) Vec4f {
	var r Vec4f
	for i := range a {
		if a[i] < b[i] {
			r[i] = a[i]
		} else {
			r[i] = b[i]
		}
	}
	return r
}

// Load reads four consecutive float32 values starting at data[0] into a
// Vec4f. Panics if data has fewer than four elements, matching the
// unchecked-pointer-arithmetic contract of the SSE load it replaces.
func Load(data []float32) Vec4f {
	return Vec4f{data[0], data[1], data[2], data[3]}
}

// Store writes v's four lanes into data[0:4].
func Store(v Vec4f, data []float32) {
	data[0], data[1], data[2], data[3] = v[0], v[1], v[2], v[3]
}
