package occluder

import "github.com/Carmen-Shannon/oxy-occlusion/occlusion/simd"

// vertexScreen returns a clip-space vertex's rounded screen-space
// position and reciprocal depth (1/w). 1/w is affine across a triangle in
// screen space, the same property that makes the classic z/w depth trick
// work, so it interpolates correctly with the edge-function barycentric
// weights below. Larger values are nearer, matching the depth buffer's
// convention.
func vertexScreen(scratch *ClipBuffer, i, screenWidth, screenHeight int) (x, y int32, invW float32) {
	w := scratch.W[i]
	ndcX := scratch.X[i] / w
	ndcY := scratch.Y[i] / w
	x = int32roundf((ndcX*0.5 + 0.5) * float32(screenWidth))
	y = int32roundf((1 - (ndcY*0.5 + 0.5)) * float32(screenHeight))
	return x, y, 1 / w
}

func int32roundf(v float32) int32 {
	if v >= 0 {
		return int32(v + 0.5)
	}
	return int32(v - 0.5)
}

// edgeCoeffs holds a triangle's three edge-function coefficients:
// A = y_a - y_b, B = x_b - x_a, C = x_a*y_b - x_b*y_a for each of the
// three edges (v0->v1, v1->v2, v2->v0).
type edgeCoeffs struct {
	a0, b0, c0 int32
	a1, b1, c1 int32
	a2, b2, c2 int32
}

func setupEdges(x0, y0, x1, y1, x2, y2 int32) edgeCoeffs {
	return edgeCoeffs{
		a0: y0 - y1, b0: x1 - x0, c0: x0*y1 - x1*y0,
		a1: y1 - y2, b1: x2 - x1, c1: x1*y2 - x2*y1,
		a2: y2 - y0, b2: x0 - x2, c2: x2*y0 - x0*y2,
	}
}

// RasterizeTile rasterizes every triangle binned to (tileX, tileY) across
// all producer bins into depth, using depth-only fixed-point edge-function
// scan conversion in 2x2 pixel quads. Each tile task owns its pixels
// exclusively; no other task ever writes into this tile's region of
// depth, so no locking is required.
//
// The reference algorithm gathers four triangles at a time into a single
// SIMD register so triangle setup (edge coefficients, screen bbox) runs
// four-wide; this implementation instead gets its SIMD parallelism from
// the four pixels of each 2x2 quad, since Go has no triangle-parallel
// SIMD register to gather into. The two are semantically equivalent: the
// depth buffer's max-merge is commutative and associative, so the order
// triangles are rasterized in does not affect the result.
//
// Returns the number of triangles actually rasterized in this tile
// (after degenerate and off-tile rejection). The per-model rasterized
// flag does not come from this count; see Bins.ModelsPresent.
func RasterizeTile(set *Set, bins *Bins, depth *DepthBuffer, tileX, tileY, tileWidth, tileHeight, producerCount int) int {
	tileStartX := tileX * tileWidth
	tileEndX := tileStartX + tileWidth - 1
	tileStartY := tileY * tileHeight
	tileEndY := tileStartY + tileHeight - 1

	screenWidth, screenHeight := depth.Width(), depth.Height()
	scratch := set.Scratch()

	rasterized := 0
	for producer := 0; producer < producerCount; producer++ {
		for _, ref := range bins.Slot(tileX, tileY, producer) {
			model := set.models[ref.ModelID]
			vertexOffset, _ := set.vertexRangeForModel(ref.ModelID)
			mesh := model.Meshes[ref.MeshID]
			meshBase := vertexOffset + mesh.VertexOffset

			i0 := int(mesh.Indices[ref.TriIdx*3+0]) + meshBase
			i1 := int(mesh.Indices[ref.TriIdx*3+1]) + meshBase
			i2 := int(mesh.Indices[ref.TriIdx*3+2]) + meshBase

			x0, y0, z0 := vertexScreen(scratch, i0, screenWidth, screenHeight)
			x1, y1, z1 := vertexScreen(scratch, i1, screenWidth, screenHeight)
			x2, y2, z2 := vertexScreen(scratch, i2, screenWidth, screenHeight)

			e := setupEdges(x0, y0, x1, y1, x2, y2)
			triArea := e.b2*e.a1 - e.b1*e.a2
			if triArea <= 0 {
				continue // degenerate or back-facing; already filtered at binning in the common case
			}
			oneOverArea := 1.0 / float32(triArea)
			zZ0 := z0
			zZ1 := (z1 - z0) * oneOverArea
			zZ2 := (z2 - z0) * oneOverArea

			minX, maxX := minMax3i(x0, x1, x2)
			minY, maxY := minMax3i(y0, y1, y2)

			startX := clampInt32(maxInt32(minX, int32(tileStartX)), 0, int32(screenWidth-1))
			endX := clampInt32(minInt32(maxX, int32(tileEndX)), 0, int32(screenWidth-1))
			startY := clampInt32(maxInt32(minY, int32(tileStartY)), 0, int32(screenHeight-1))
			endY := clampInt32(minInt32(maxY, int32(tileEndY)), 0, int32(screenHeight-1))
			startX &^= 1
			startY &^= 1
			if startX > endX || startY > endY {
				continue
			}

			rasterizeQuads(depth, e, zZ0, zZ1, zZ2, startX, endX, startY, endY, screenWidth)
			rasterized++
		}
	}
	return rasterized
}

// rasterizeQuads walks the triangle's screen bbox (already clamped to the
// tile and rounded down to an even start) two rows and two columns at a
// time, testing each 2x2 quad's coverage with one lane-parallel OR of the
// three edge functions before merging depth.
func rasterizeQuads(depth *DepthBuffer, e edgeCoeffs, z0, z1, z2 float32, startX, endX, startY, endY int32, screenWidth int) {
	colOffset := simd.Vec4i{0, 1, 0, 1}
	rowOffset := simd.Vec4i{0, 0, 1, 1}

	splatA0, splatB0, splatC0 := simd.SplatI(e.a0), simd.SplatI(e.b0), simd.SplatI(e.c0)
	splatA1, splatB1, splatC1 := simd.SplatI(e.a1), simd.SplatI(e.b1), simd.SplatI(e.c1)
	splatA2, splatB2, splatC2 := simd.SplatI(e.a2), simd.SplatI(e.b2), simd.SplatI(e.c2)

	raw := depth.RawQuadContiguous()

	for row := startY; row <= endY; row += 2 {
		ys := simd.SplatI(row).Add(rowOffset)
		for col := startX; col <= endX; col += 2 {
			xs := simd.SplatI(col).Add(colOffset)

			edge0 := splatA0.Mul(xs).Add(splatB0.Mul(ys)).Add(splatC0)
			edge1 := splatA1.Mul(xs).Add(splatB1.Mul(ys)).Add(splatC1)
			edge2 := splatA2.Mul(xs).Add(splatB2.Mul(ys)).Add(splatC2)

			mask := edge0.Or(edge1).Or(edge2)
			if mask.IsAllNegative() {
				continue
			}

			depthVals := simd.SplatF(z0).
				Add(edge2.ToFloat().Mul(simd.SplatF(z1))).
				Add(edge0.ToFloat().Mul(simd.SplatF(z2)))

			base := offset(int(col), int(row), screenWidth)
			previous := simd.Load(raw[base:])
			merged := depthVals.Max(previous)
			result := simd.Select(previous, merged, mask)
			simd.Store(result, raw[base:])
		}
	}
}

func minMax3i(a, b, c int32) (min, max int32) {
	min, max = a, a
	for _, v := range [2]int32{b, c} {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}

func minInt32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
