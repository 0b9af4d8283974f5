package occluder

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-occlusion/common"
)

func TestNewModelConvertsToSoA(t *testing.T) {
	vertices := []common.Vector3{
		{X: 1, Y: 2, Z: 3},
		{X: 4, Y: 5, Z: 6},
	}
	mesh := Mesh{VertexCount: 2, Indices: []uint32{0, 1, 0}}
	m := NewModel(vertices, []Mesh{mesh})

	if have, want := m.VertexX, []float32{1, 4}; have[0] != want[0] || have[1] != want[1] {
		t.Fatalf("VertexX: have %v want %v", have, want)
	}
	if have, want := m.VertexY, []float32{2, 5}; have[0] != want[0] || have[1] != want[1] {
		t.Fatalf("VertexY: have %v want %v", have, want)
	}
	if have, want := m.VertexZ, []float32{3, 6}; have[0] != want[0] || have[1] != want[1] {
		t.Fatalf("VertexZ: have %v want %v", have, want)
	}
	if have, want := m.VertexCount(), 2; have != want {
		t.Fatalf("VertexCount: have %d want %d", have, want)
	}
}

func TestNewModelDefaultTransformIsIdentity(t *testing.T) {
	m := NewModel(nil, nil)
	var identity [16]float32
	common.Identity(identity[:])
	if m.Transform != identity {
		t.Fatalf("Transform: have %v want identity %v", m.Transform, identity)
	}
}

func TestModelTriangleCountAcrossMeshes(t *testing.T) {
	m := NewModel(nil, []Mesh{
		{Indices: []uint32{0, 1, 2}},
		{Indices: []uint32{0, 1, 2, 2, 1, 3}},
	})
	if have, want := m.TriangleCount(), 3; have != want {
		t.Fatalf("TriangleCount: have %d want %d", have, want)
	}
}

func TestNewModelComputesLocalBounds(t *testing.T) {
	vertices := []common.Vector3{
		{X: -1, Y: -2, Z: -3},
		{X: 5, Y: 2, Z: 1},
	}
	m := NewModel(vertices, nil)

	bounds := m.Bounds()
	if have, want := bounds.Center, (common.Vector3{X: 2, Y: 0, Z: -1}); have != want {
		t.Fatalf("Bounds().Center: have %v want %v", have, want)
	}
	if have, want := bounds.Half, (common.Vector3{X: 3, Y: 2, Z: 2}); have != want {
		t.Fatalf("Bounds().Half: have %v want %v", have, want)
	}
}

func TestNewModelWithNoVerticesHasZeroBounds(t *testing.T) {
	m := NewModel(nil, nil)
	if !m.Bounds().IsZero() {
		t.Fatalf("Bounds(): have %v want zero", m.Bounds())
	}
}

func TestModelBuilderWithTransform(t *testing.T) {
	var custom [16]float32
	common.Identity(custom[:])
	custom[12] = 7 // translate x by 7

	m := NewModel(nil, nil, WithTransform(custom))
	if m.Transform != custom {
		t.Fatalf("Transform: have %v want %v", m.Transform, custom)
	}
}
