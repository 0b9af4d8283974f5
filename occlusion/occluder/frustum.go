package occluder

import "github.com/Carmen-Shannon/oxy-occlusion/common"

// CullModels tests every model's world-space bounding box against
// frustum and reports, per model index, whether it is potentially
// visible. A model the frustum provably does not touch is excluded from
// that frame's vertex transform and triangle binning altogether, the way
// the reference rasterizer runs a model-visibility pass ahead of its
// transform/bin/rasterize task chain rather than feeding every occluder
// into it unconditionally.
//
// Parameters:
//   - models: the occluder models to test, in Set registration order
//   - frustum: the camera's current view frustum
//
// Returns:
//   - []bool: visible[i] is true unless models[i] is provably outside
//     at least one frustum plane
func CullModels(models []*Model, frustum common.Frustum) []bool {
	visible := make([]bool, len(models))
	for i, m := range models {
		visible[i] = ModelVisible(m, frustum)
	}
	return visible
}

// ModelVisible re-bounds m's model-space box under its current world
// transform, then runs the "positive corner" test per frustum plane: the
// corner of the box that projects furthest along the plane's normal is
// the one most likely to be inside, so if even that corner is outside,
// the whole box is.
func ModelVisible(m *Model, frustum common.Frustum) bool {
	box := common.TransformAABB(m.Transform, m.localBounds)

	for _, plane := range frustum.Planes {
		nx, ny, nz := plane.Normal[0], plane.Normal[1], plane.Normal[2]

		px := box.Center.X + signedHalf(box.Half.X, nx)
		py := box.Center.Y + signedHalf(box.Half.Y, ny)
		pz := box.Center.Z + signedHalf(box.Half.Z, nz)

		if plane.Distance+px*nx+py*ny+pz*nz < 0 {
			return false
		}
	}
	return true
}

// signedHalf returns h with n's sign applied, so center+signedHalf(h,n)
// is the box corner that maximizes the dot product with a normal whose
// component along this axis is n.
func signedHalf(h, n float32) float32 {
	if n < 0 {
		return -h
	}
	return h
}
