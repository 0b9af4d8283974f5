package occluder

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-occlusion/common"
)

// cubeFrustum returns the six planes of an axis-aligned cube of
// half-extent half centered at the origin, oriented so the interior is
// the positive half-space.
func cubeFrustum(half float32) common.Frustum {
	return common.Frustum{
		Planes: [6]common.Plane{
			{Normal: [3]float32{1, 0, 0}, Distance: half},
			{Normal: [3]float32{-1, 0, 0}, Distance: half},
			{Normal: [3]float32{0, 1, 0}, Distance: half},
			{Normal: [3]float32{0, -1, 0}, Distance: half},
			{Normal: [3]float32{0, 0, 1}, Distance: half},
			{Normal: [3]float32{0, 0, -1}, Distance: half},
		},
	}
}

func TestCullModelsInsideFrustumIsVisible(t *testing.T) {
	model := NewModel([]common.Vector3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: 1}}, nil)
	visible := CullModels([]*Model{model}, cubeFrustum(10))
	if have, want := visible[0], true; have != want {
		t.Fatalf("visible[0]: have %v want %v", have, want)
	}
}

func TestCullModelsFarOutsideFrustumIsCulled(t *testing.T) {
	model := NewModel([]common.Vector3{{X: 999, Y: 0, Z: 0}, {X: 1001, Y: 1, Z: 1}}, nil)
	visible := CullModels([]*Model{model}, cubeFrustum(10))
	if have, want := visible[0], false; have != want {
		t.Fatalf("visible[0]: have %v want %v", have, want)
	}
}

func TestCullModelsStraddlingPlaneIsVisible(t *testing.T) {
	// Box spans [9, 11] on x against a frustum boundary at x=10: part
	// inside, part outside, so it must not be culled.
	model := NewModel([]common.Vector3{{X: 9, Y: -1, Z: -1}, {X: 11, Y: 1, Z: 1}}, nil)
	visible := CullModels([]*Model{model}, cubeFrustum(10))
	if have, want := visible[0], true; have != want {
		t.Fatalf("visible[0]: have %v want %v (box straddles the frustum boundary)", have, want)
	}
}

func TestCullModelsUsesWorldTransformNotLocalBounds(t *testing.T) {
	// Model-space bounds sit at the origin (inside), but the world
	// transform translates it far outside the frustum.
	model := NewModel([]common.Vector3{{X: -1, Y: -1, Z: -1}, {X: 1, Y: 1, Z: 1}}, nil)
	var translate [16]float32
	common.Identity(translate[:])
	translate[12] = 1000 // translate x by 1000
	model.Transform = translate

	visible := CullModels([]*Model{model}, cubeFrustum(10))
	if have, want := visible[0], false; have != want {
		t.Fatalf("visible[0]: have %v want %v (world-space position should be culled)", have, want)
	}
}
