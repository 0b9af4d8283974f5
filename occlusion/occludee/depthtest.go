package occludee

import (
	"github.com/Carmen-Shannon/oxy-occlusion/common"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/occluder"
)

// DepthRegion abstracts the subset of *occluder.DepthBuffer the depth test
// needs, so tests can exercise TestAABB against a hand-built stand-in
// without going through a full rasterize pass.
type DepthRegion interface {
	Width() int
	Height() int
	MaxInRegion(x0, y0, x1, y1 int) float32
}

var _ DepthRegion = (*occluder.DepthBuffer)(nil)

// TestAABB projects an occludee's eight corners through viewProj,
// conservative-rejects if every corner is behind the near plane or off
// the same side of the screen, applies the too-small heuristic, then
// compares the box's nearest point (max 1/w over its corners) against
// the depth buffer's stored max depth across the screen region the box's
// bbox covers.
//
// Returns true if the box is potentially visible (survives every check);
// false if it can be conservative-rejected or is occluded.
//
// Parameters:
//   - box: the occludee's world-space AABB
//   - viewProj: the combined view-projection matrix (model is identity;
//     occludees have no per-instance world transform the way occluders do)
//   - depth: the rasterized occluder depth buffer to test against
//   - sizeThresholdSq: the too-small cutoff, in squared screen pixels
func TestAABB(box common.AABB, viewProj [16]float32, depth DepthRegion, sizeThresholdSq float32) bool {
	corners := box.Corners()

	screenWidth, screenHeight := depth.Width(), depth.Height()

	var sx, sy [8]float32
	var valid [8]bool
	var nearestInvW float32
	anyInFront := false
	allLeft, allRight, allAbove, allBelow := true, true, true, true

	for i, c := range corners {
		clipX, clipY, clipZ, clipW := transformPoint(viewProj, c)
		if clipW <= 0 {
			continue
		}
		anyInFront = true
		valid[i] = true

		invW := 1 / clipW
		if invW > nearestInvW {
			nearestInvW = invW
		}

		ndcX := clipX * invW
		ndcY := clipY * invW
		_ = clipZ

		x := (ndcX*0.5 + 0.5) * float32(screenWidth)
		y := (1 - (ndcY*0.5 + 0.5)) * float32(screenHeight)
		sx[i], sy[i] = x, y

		if ndcX > -1 {
			allLeft = false
		}
		if ndcX < 1 {
			allRight = false
		}
		if ndcY < 1 {
			allAbove = false
		}
		if ndcY > -1 {
			allBelow = false
		}
	}

	if !anyInFront {
		return false
	}
	// Every corner sits off the same edge of the screen in NDC space: the
	// box cannot possibly contribute a visible pixel.
	if allLeft || allRight || allAbove || allBelow {
		return false
	}

	// Corners behind the near plane never had sx/sy assigned; only scan
	// the valid ones, or a stale zero-value slot would pollute the bbox
	// for a box straddling the near plane.
	var minX, maxX, minY, maxY float32
	first := true
	for i := 0; i < 8; i++ {
		if !valid[i] {
			continue
		}
		if first {
			minX, maxX = sx[i], sx[i]
			minY, maxY = sy[i], sy[i]
			first = false
			continue
		}
		if sx[i] < minX {
			minX = sx[i]
		}
		if sx[i] > maxX {
			maxX = sx[i]
		}
		if sy[i] < minY {
			minY = sy[i]
		}
		if sy[i] > maxY {
			maxY = sy[i]
		}
	}

	area := (maxX - minX) * (maxY - minY)
	if area < sizeThresholdSq {
		return false
	}

	x0, x1 := clampScreen(minX, screenWidth), clampScreen(maxX+1, screenWidth)
	y0, y1 := clampScreen(minY, screenHeight), clampScreen(maxY+1, screenHeight)
	if x0 >= x1 || y0 >= y1 {
		return false
	}

	storedMax := depth.MaxInRegion(x0, y0, x1, y1)
	return nearestInvW > storedMax
}

func clampScreen(v float32, limit int) int {
	i := int(v)
	if i < 0 {
		return 0
	}
	if i > limit {
		return limit
	}
	return i
}

// transformPoint applies a column-major 4x4 matrix to a homogeneous point
// with implicit w=1.
func transformPoint(m [16]float32, p common.Vector3) (x, y, z, w float32) {
	x = m[0]*p.X + m[4]*p.Y + m[8]*p.Z + m[12]
	y = m[1]*p.X + m[5]*p.Y + m[9]*p.Z + m[13]
	z = m[2]*p.X + m[6]*p.Y + m[10]*p.Z + m[14]
	w = m[3]*p.X + m[7]*p.Y + m[11]*p.Z + m[15]
	return x, y, z, w
}
