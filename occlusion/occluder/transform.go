package occluder

import (
	"github.com/Carmen-Shannon/oxy-occlusion/common"
	"github.com/ajroetker/go-highway/hwy"
)

// batchTransformPositions applies a 4x4 column-major matrix to a batch of
// homogeneous positions (w implicit 1), writing clip-space x/y/z/w into
// dst. Follows the usual structure-of-arrays batch multiply pattern for
// 3x3 transforms, extended to a full 4x4
// homogeneous transform since occluder vertices need clip-space w for the
// guard band.
func batchTransformPositions[T hwy.Floats](m [16]T, srcX, srcY, srcZ []T, dstX, dstY, dstZ, dstW []T) {
	size := min(len(srcX), len(srcY), len(srcZ), len(dstX), len(dstY), len(dstZ), len(dstW))

	// m is column-major: m[col*4+row]. Broadcast every row's coefficients.
	vM00, vM01, vM02, vM03 := hwy.Set(m[0]), hwy.Set(m[4]), hwy.Set(m[8]), hwy.Set(m[12])
	vM10, vM11, vM12, vM13 := hwy.Set(m[1]), hwy.Set(m[5]), hwy.Set(m[9]), hwy.Set(m[13])
	vM20, vM21, vM22, vM23 := hwy.Set(m[2]), hwy.Set(m[6]), hwy.Set(m[10]), hwy.Set(m[14])
	vM30, vM31, vM32, vM33 := hwy.Set(m[3]), hwy.Set(m[7]), hwy.Set(m[11]), hwy.Set(m[15])

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			x := hwy.Load(srcX[offset:])
			y := hwy.Load(srcY[offset:])
			z := hwy.Load(srcZ[offset:])

			resX := hwy.Mul(x, vM00)
			resX = hwy.FMA(y, vM01, resX)
			resX = hwy.FMA(z, vM02, resX)
			resX = hwy.Add(resX, vM03)

			resY := hwy.Mul(x, vM10)
			resY = hwy.FMA(y, vM11, resY)
			resY = hwy.FMA(z, vM12, resY)
			resY = hwy.Add(resY, vM13)

			resZ := hwy.Mul(x, vM20)
			resZ = hwy.FMA(y, vM21, resZ)
			resZ = hwy.FMA(z, vM22, resZ)
			resZ = hwy.Add(resZ, vM23)

			resW := hwy.Mul(x, vM30)
			resW = hwy.FMA(y, vM31, resW)
			resW = hwy.FMA(z, vM32, resW)
			resW = hwy.Add(resW, vM33)

			hwy.Store(resX, dstX[offset:])
			hwy.Store(resY, dstY[offset:])
			hwy.Store(resZ, dstZ[offset:])
			hwy.Store(resW, dstW[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			x := hwy.MaskLoad(mask, srcX[offset:])
			y := hwy.MaskLoad(mask, srcY[offset:])
			z := hwy.MaskLoad(mask, srcZ[offset:])

			resX := hwy.Mul(x, vM00)
			resX = hwy.FMA(y, vM01, resX)
			resX = hwy.FMA(z, vM02, resX)
			resX = hwy.Add(resX, vM03)

			resY := hwy.Mul(x, vM10)
			resY = hwy.FMA(y, vM11, resY)
			resY = hwy.FMA(z, vM12, resY)
			resY = hwy.Add(resY, vM13)

			resZ := hwy.Mul(x, vM20)
			resZ = hwy.FMA(y, vM21, resZ)
			resZ = hwy.FMA(z, vM22, resZ)
			resZ = hwy.Add(resZ, vM23)

			resW := hwy.Mul(x, vM30)
			resW = hwy.FMA(y, vM31, resW)
			resW = hwy.FMA(z, vM32, resW)
			resW = hwy.Add(resW, vM33)

			hwy.MaskStore(mask, resX, dstX[offset:])
			hwy.MaskStore(mask, resY, dstY[offset:])
			hwy.MaskStore(mask, resZ, dstZ[offset:])
			hwy.MaskStore(mask, resW, dstW[offset:])
		},
	)
}

// TransformVertexRange transforms occluder vertices with global indices in
// [start, end) into set's clip-space scratch buffer, using the combined
// view-projection matrix. Work is partitioned by a global vertex-index
// range spanning every model rather than one task per model, since
// occluder sizes vary by orders of magnitude and per-model partitioning
// would starve small occluders' tasks while large ones lag.
//
// Parameters:
//   - set: the occluder set whose models and scratch buffer to use
//   - viewProj: the combined view-projection matrix, column-major
//   - visible: per-model visibility mask from CullModels; a model whose
//     index is false is skipped entirely. nil treats every model as
//     visible.
//   - start: the first global vertex index this call is responsible for
//   - end: one past the last global vertex index this call is responsible for
func TransformVertexRange(set *Set, viewProj [16]float32, visible []bool, start, end int) {
	scratch := set.Scratch()
	for modelIdx, model := range set.models {
		if visible != nil && !visible[modelIdx] {
			continue
		}
		modelStart, modelEnd := set.vertexRangeForModel(modelIdx)
		lo := max(start, modelStart)
		hi := min(end, modelEnd)
		if lo >= hi {
			continue
		}

		var mvp [16]float32
		common.Mul4(mvp[:], viewProj[:], model.Transform[:])
		localLo, localHi := lo-modelStart, hi-modelStart

		batchTransformPositions(mvp,
			model.VertexX[localLo:localHi], model.VertexY[localLo:localHi], model.VertexZ[localLo:localHi],
			scratch.X[lo:hi], scratch.Y[lo:hi], scratch.Z[lo:hi], scratch.W[lo:hi],
		)
		for i := lo; i < hi; i++ {
			scratch.OutCode[i] = computeOutCode(scratch.X[i], scratch.Y[i], scratch.Z[i], scratch.W[i])
		}
	}
}

// PartitionVertexRange divides the set's total vertex count into
// taskCount roughly equal, contiguous global ranges and returns the range
// for taskID (0-based). Balances load by partitioning on global vertex
// index rather than by model.
func PartitionVertexRange(set *Set, taskID, taskCount int) (start, end int) {
	total := set.TotalVertexCount()
	perTask := (total + taskCount - 1) / taskCount
	start = taskID * perTask
	end = min(start+perTask, total)
	if start > total {
		start = total
	}
	return start, end
}
