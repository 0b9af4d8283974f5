package occluder

import "math"

// DepthBuffer is the CPU depth buffer occluders rasterize into. It holds
// post-projection reciprocal depth (larger values are nearer) and is
// merged with a pointwise max, which is commutative and associative —
// occluders can rasterize into it in any order, or concurrently, with no
// locking, as long as each tile's pixels have exactly one writer.
//
// Pixels are stored in quad-contiguous order: every 2x2 block of pixels
// is laid out as four consecutive float32s, so the tile rasterizer's
// 2x2-quad SIMD traversal reads and writes one contiguous lane group per
// quad instead of four scattered rows.
type DepthBuffer struct {
	width, height int
	samples       []float32
}

// NewDepthBuffer allocates a cleared depth buffer. Both width and height
// must be even; config.Config.Validate already enforces this for the
// screen as a whole.
//
// Parameters:
//   - width: buffer width in pixels, must be even
//   - height: buffer height in pixels, must be even
//
// Returns:
//   - *DepthBuffer: the newly allocated, cleared depth buffer
func NewDepthBuffer(width, height int) *DepthBuffer {
	db := &DepthBuffer{
		width:   width,
		height:  height,
		samples: make([]float32, width*height),
	}
	db.Clear()
	return db
}

// Width returns the buffer's width in pixels.
func (db *DepthBuffer) Width() int { return db.width }

// Height returns the buffer's height in pixels.
func (db *DepthBuffer) Height() int { return db.height }

// Clear resets every sample to zero, the farthest possible reciprocal
// depth (since larger values are nearer, an empty scene's depth buffer is
// all zero and merges forward from there).
func (db *DepthBuffer) Clear() {
	for i := range db.samples {
		db.samples[i] = 0
	}
}

// offset returns the quad-contiguous sample index for pixel (x, y):
// the 2x2 block (x&^1, y&^1) is stored at base = (y&^1)*width + 2*(x&^1),
// and the four pixels within the block follow at base+0..base+3 ordered
// by (row, col) within the block.
func offset(x, y, width int) int {
	return ((y &^ 1) * width) + 2*(x&^1) + 2*(y&1) + (x & 1)
}

// Sample returns the stored depth value at pixel (x, y).
func (db *DepthBuffer) Sample(x, y int) float32 {
	return db.samples[offset(x, y, db.width)]
}

// Set stores a depth value at pixel (x, y), unconditionally. Most callers
// want Merge instead; Set exists for tests and diagnostic tooling.
func (db *DepthBuffer) Set(x, y int, depth float32) {
	db.samples[offset(x, y, db.width)] = depth
}

// Merge writes max(existing, depth) at pixel (x, y). A max-merge is the
// only mutation the rasterizer performs against committed pixels (it
// does the same merge four lanes at a time through RawQuadContiguous),
// and it is idempotent: merging the same triangle's contribution twice
// leaves the buffer unchanged.
func (db *DepthBuffer) Merge(x, y int, depth float32) {
	idx := offset(x, y, db.width)
	if depth > db.samples[idx] {
		db.samples[idx] = depth
	}
}

// RawQuadContiguous exposes the buffer's backing storage in its native
// quad-contiguous layout, for the rasterizer's inner loop to read and
// write four lanes at a time without going through Sample/Merge's
// per-pixel offset math.
func (db *DepthBuffer) RawQuadContiguous() []float32 {
	return db.samples
}

// MaxInRegion returns the maximum stored depth over the rectangular
// pixel region [x0,x1) x [y0,y1), clamped to the buffer's bounds. Used by
// the occludee depth test to compare an occludee's nearest point against
// every pixel its projected bounding box covers.
func (db *DepthBuffer) MaxInRegion(x0, y0, x1, y1 int) float32 {
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > db.width {
		x1 = db.width
	}
	if y1 > db.height {
		y1 = db.height
	}
	maxDepth := float32(math.Inf(-1))
	found := false
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			d := db.Sample(x, y)
			if !found || d > maxDepth {
				maxDepth = d
				found = true
			}
		}
	}
	if !found {
		return 0
	}
	return maxDepth
}
