package occluder

// ClipBuffer holds transformed vertex positions in clip space,
// structure-of-arrays, undivided by w so the perspective divide can be
// deferred to binning: large, partly off-screen triangles are kept as a
// guard band rather than clipped against the screen edges. SoA layout
// lets the batch matrix transform operate on contiguous per-component
// slices.
type ClipBuffer struct {
	X, Y, Z, W []float32

	// OutCode is a Cohen-Sutherland-style bitmask, one entry per vertex,
	// of the clip planes that vertex lies outside of (bit order:
	// -X,+X,-Y,+Y,-Z,+Z). The binner ANDs the three vertices' OutCodes
	// together; a nonzero result means all three share an outside plane
	// and the triangle is dropped.
	OutCode []uint8
}

func newClipBuffer(n int) ClipBuffer {
	return ClipBuffer{
		X:       make([]float32, n),
		Y:       make([]float32, n),
		Z:       make([]float32, n),
		W:       make([]float32, n),
		OutCode: make([]uint8, n),
	}
}

const (
	outCodeLeft = 1 << iota
	outCodeRight
	outCodeBottom
	outCodeTop
	outCodeNear
	outCodeFar
)

// computeOutCode derives a ClipVertex's OutCode from its clip-space
// coordinates.
func computeOutCode(x, y, z, w float32) uint8 {
	var code uint8
	if w <= 0 {
		// Behind the eye entirely; treat as outside every plane, so the
		// shared-plane test rejects a triangle with such a vertex whenever
		// its other vertices share any outside plane (in particular when
		// all three are behind the eye).
		return outCodeLeft | outCodeRight | outCodeBottom | outCodeTop | outCodeNear | outCodeFar
	}
	if x < -w {
		code |= outCodeLeft
	}
	if x > w {
		code |= outCodeRight
	}
	if y < -w {
		code |= outCodeBottom
	}
	if y > w {
		code |= outCodeTop
	}
	if z < 0 {
		code |= outCodeNear
	}
	if z > w {
		code |= outCodeFar
	}
	return code
}

// Set is the full occluder scene: the models the frame will rasterize,
// plus the per-frame transformed-vertex scratch buffer reused across
// frames. Vertex transform and triangle binning both partition work by a
// GLOBAL vertex/triangle index spanning every model in the Set, so work
// is balanced across tasks regardless of how unevenly sized individual
// occluders are.
type Set struct {
	models []*Model

	// vertexOffset[i] is the global vertex index at which models[i]'s
	// vertices begin in the flattened index space; vertexOffset[len(models)]
	// is the total vertex count.
	vertexOffset []int

	// triangleOffset[i] is the global triangle index at which models[i]'s
	// triangles begin; triangleOffset[len(models)] is the total triangle
	// count.
	triangleOffset []int

	// scratch holds the transformed clip-space position for every global
	// vertex index, reused every frame.
	scratch ClipBuffer
}

// NewSet builds a Set over the given models and allocates its
// transformed-vertex scratch buffer.
//
// Parameters:
//   - models: the occluder models that make up the scene
//
// Returns:
//   - *Set: the newly constructed occluder set
func NewSet(models []*Model) *Set {
	s := &Set{models: models}
	s.vertexOffset = make([]int, len(models)+1)
	s.triangleOffset = make([]int, len(models)+1)
	for i, m := range models {
		m.id = i
		s.vertexOffset[i+1] = s.vertexOffset[i] + m.VertexCount()
		s.triangleOffset[i+1] = s.triangleOffset[i] + m.TriangleCount()
	}
	s.scratch = newClipBuffer(s.vertexOffset[len(models)])
	return s
}

// Models returns the models in the set, in registration order.
func (s *Set) Models() []*Model {
	return s.models
}

// TotalVertexCount returns the total vertex count across every model.
func (s *Set) TotalVertexCount() int {
	return s.vertexOffset[len(s.models)]
}

// TotalTriangleCount returns the total triangle count across every model.
func (s *Set) TotalTriangleCount() int {
	return s.triangleOffset[len(s.models)]
}

// Scratch returns the set's transformed-vertex scratch buffer, indexed
// by global vertex index.
func (s *Set) Scratch() *ClipBuffer {
	return &s.scratch
}

// vertexRangeForModel returns the global [start,end) vertex range owned
// by models[idx].
func (s *Set) vertexRangeForModel(idx int) (start, end int) {
	return s.vertexOffset[idx], s.vertexOffset[idx+1]
}

// triangleRangeForModel returns the global [start,end) triangle range
// owned by models[idx].
func (s *Set) triangleRangeForModel(idx int) (start, end int) {
	return s.triangleOffset[idx], s.triangleOffset[idx+1]
}
