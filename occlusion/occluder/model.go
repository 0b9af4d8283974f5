// Package occluder implements the occluder depth pipeline: vertex
// transform, triangle binning, and tiled rasterization into a CPU depth
// buffer.
package occluder

import "github.com/Carmen-Shannon/oxy-occlusion/common"

// Mesh is one sub-mesh of an OccluderModel: a triangle index buffer over
// a contiguous vertex range of the model's shared position buffer.
type Mesh struct {
	// VertexOffset is the index into the owning Model's vertex buffer
	// (VertexX/VertexY/VertexZ) where this mesh's vertices begin.
	VertexOffset int

	// VertexCount is the number of vertices this mesh owns, starting at
	// VertexOffset.
	VertexCount int

	// Indices is the triangle index list, relative to VertexOffset (index
	// 0 refers to the vertex at VertexOffset).
	Indices []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Model is an occluder: a static mesh that only rasterizes into the CPU
// depth buffer, never shaded or drawn. Its vertex buffer holds positions
// only and is immutable after construction; only the world Transform
// animates from frame to frame — occluder topology (vertex/index data)
// never changes after registration.
type Model struct {
	id int

	// VertexX, VertexY, VertexZ are the model's positions-only vertex
	// buffer, structure-of-arrays, shared across all of its meshes.
	// Immutable after construction so the batch matrix transform can read
	// them without synchronization.
	VertexX, VertexY, VertexZ []float32

	// Meshes is the model's sub-meshes, each indexing a sub-range of the
	// vertex buffer.
	Meshes []Mesh

	// Transform is the model's current world transform, column-major.
	// This is the only field that changes between frames.
	Transform [16]float32

	// localBounds is the model-space AABB of its vertex buffer, computed
	// once at construction since the vertex buffer never changes.
	// CullModels transforms it by Transform each frame to decide whether
	// the model enters the transform/bin/rasterize stages at all.
	localBounds common.AABB
}

// Bounds returns the model's model-space axis-aligned bounding box.
func (m *Model) Bounds() common.AABB {
	return m.localBounds
}

// ID returns the model's identifier within the Set it was added to.
func (m *Model) ID() int {
	return m.id
}

// VertexCount returns the number of vertices in the model's shared
// position buffer.
func (m *Model) VertexCount() int {
	return len(m.VertexX)
}

// TriangleCount returns the total triangle count across all of the
// model's meshes.
func (m *Model) TriangleCount() int {
	total := 0
	for _, mesh := range m.Meshes {
		total += mesh.TriangleCount()
	}
	return total
}

// NewModel builds an occluder Model from a positions-only vertex buffer
// and one or more meshes. Vertices are copied into the model's internal
// structure-of-arrays layout; the caller's slice is not retained.
//
// Parameters:
//   - vertices: the model's positions-only vertex buffer
//   - meshes: the model's sub-meshes, each referencing a range of vertices
//   - options: functional options to configure the model
//
// Returns:
//   - *Model: the newly constructed occluder model
func NewModel(vertices []common.Vector3, meshes []Mesh, options ...ModelBuilderOption) *Model {
	m := &Model{
		VertexX: make([]float32, len(vertices)),
		VertexY: make([]float32, len(vertices)),
		VertexZ: make([]float32, len(vertices)),
		Meshes:  meshes,
	}
	for i, v := range vertices {
		m.VertexX[i] = v.X
		m.VertexY[i] = v.Y
		m.VertexZ[i] = v.Z
	}
	if len(vertices) > 0 {
		lo, hi := vertices[0], vertices[0]
		for _, v := range vertices[1:] {
			lo.X, hi.X = min(lo.X, v.X), max(hi.X, v.X)
			lo.Y, hi.Y = min(lo.Y, v.Y), max(hi.Y, v.Y)
			lo.Z, hi.Z = min(lo.Z, v.Z), max(hi.Z, v.Z)
		}
		m.localBounds = common.AABB{
			Center: lo.Add(hi).Scale(0.5),
			Half:   hi.Sub(lo).Scale(0.5),
		}
	}
	common.Identity(m.Transform[:])
	for _, option := range options {
		option(m)
	}
	return m
}
