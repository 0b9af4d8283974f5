package occlusion

import (
	"github.com/Carmen-Shannon/oxy-occlusion/common"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/occludee"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/occluder"
)

// FrameInput is everything CullFrame needs for one frame: the combined
// view-projection matrix and frustum derived from the caller's camera, the
// occluder scene (assembled once at scene load, its models' Transform
// fields mutated by the caller between frames), and the occludee packets
// (also assembled once at scene load).
type FrameInput struct {
	ViewProj  [16]float32
	Frustum   common.Frustum
	Occluders *occluder.Set
	Occludees *occludee.Packets
}

// FrameResult is CullFrame's output.
type FrameResult struct {
	// Visible holds one entry per occludee, in registration order.
	Visible []bool

	// Rasterized holds one entry per occluder model, in Set registration
	// order, true if any of that model's triangles survived to contribute
	// to the depth buffer this frame.
	Rasterized []bool

	// NumCulled is the count of occludees this frame determined were not
	// visible (by frustum, too-small, or depth test).
	NumCulled int

	// DroppedTriangles is the total triangle count dropped for bin
	// overflow this frame, summed across every producer.
	DroppedTriangles int

	// BinHighWatermark is the largest single-bin occupancy observed this
	// frame, across the whole tile grid.
	BinHighWatermark int
}
