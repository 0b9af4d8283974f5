package occluder

// TriangleRef identifies one triangle within an occluder Set: which
// model, which of that model's meshes, and which triangle within that
// mesh.
type TriangleRef struct {
	ModelID int
	MeshID  int
	TriIdx  int
}

// Bins holds, per (tile, producer task), the triangles that task binned
// into that tile. The rasterizer's tile task is the sole reader of its
// row of bins; the binner task that produced a given (tile, producer)
// slot is its sole writer — no locking is needed once the binning task
// set has completed.
type Bins struct {
	tileCountX, tileCountY int
	producerCount          int
	maxTrisPerBin          int

	// entries[(tileY*tileCountX+tileX)*producerCount+producer] is the
	// triangle list for that (tile, producer) slot, capped at
	// maxTrisPerBin.
	entries [][]TriangleRef

	// dropped counts triangles that overflowed a bin's capacity and were
	// discarded rather than rasterized, per producer task. An overflowing
	// bin drops the excess rather than growing, to keep bin memory
	// bounded and predictable per frame.
	dropped []int
}

// NewBins allocates an empty bin grid.
//
// Parameters:
//   - tileCountX: number of tile columns
//   - tileCountY: number of tile rows
//   - producerCount: number of binning tasks (bin producers)
//   - maxTrisPerBin: capacity of each (tile, producer) bin
//
// Returns:
//   - *Bins: the newly allocated bin grid
func NewBins(tileCountX, tileCountY, producerCount, maxTrisPerBin int) *Bins {
	return &Bins{
		tileCountX:    tileCountX,
		tileCountY:    tileCountY,
		producerCount: producerCount,
		maxTrisPerBin: maxTrisPerBin,
		entries:       make([][]TriangleRef, tileCountX*tileCountY*producerCount),
		dropped:       make([]int, producerCount),
	}
}

func (b *Bins) slotIndex(tileX, tileY, producer int) int {
	return (tileY*b.tileCountX+tileX)*b.producerCount + producer
}

// ResetProducer clears every bin this producer task previously wrote,
// ahead of a new binning pass. Each producer only ever touches its own
// slots, so this never races with other producers resetting theirs.
func (b *Bins) ResetProducer(producer int) {
	for tileY := 0; tileY < b.tileCountY; tileY++ {
		for tileX := 0; tileX < b.tileCountX; tileX++ {
			b.entries[b.slotIndex(tileX, tileY, producer)] = b.entries[b.slotIndex(tileX, tileY, producer)][:0]
		}
	}
	b.dropped[producer] = 0
}

// Append adds a triangle to the (tileX, tileY, producer) bin, dropping it
// and incrementing the producer's drop counter if the bin is already at
// capacity.
func (b *Bins) Append(tileX, tileY, producer int, ref TriangleRef) {
	idx := b.slotIndex(tileX, tileY, producer)
	if len(b.entries[idx]) >= b.maxTrisPerBin {
		b.dropped[producer]++
		return
	}
	b.entries[idx] = append(b.entries[idx], ref)
}

// Slot returns the triangle list for (tileX, tileY, producer).
func (b *Bins) Slot(tileX, tileY, producer int) []TriangleRef {
	return b.entries[b.slotIndex(tileX, tileY, producer)]
}

// DroppedByProducer returns how many triangles producer's bins have
// dropped due to overflow since its last ResetProducer.
func (b *Bins) DroppedByProducer(producer int) int {
	return b.dropped[producer]
}

// TotalDropped sums the dropped-triangle counters across every producer.
func (b *Bins) TotalDropped() int {
	total := 0
	for _, d := range b.dropped {
		total += d
	}
	return total
}

// HighWatermark returns the largest single-bin occupancy across the
// entire grid, a "bin high-watermark" diagnostic for sizing maxTrisPerBin.
func (b *Bins) HighWatermark() int {
	max := 0
	for _, e := range b.entries {
		if len(e) > max {
			max = len(e)
		}
	}
	return max
}

// ModelsPresent returns, for each of modelCount occluder model IDs,
// whether at least one of that model's triangles was binned into any
// (tile, producer) slot. Because binning's signed-area rejection and the
// rasterizer's edge-function coverage test agree on sign (both derive from
// the same triangle winding), a triangle that reached a bin is guaranteed
// to rasterize successfully, so this doubles as the per-model
// rasterized-flag diagnostic without needing the tile rasterizer to
// report per-model detail back through its per-tile triangle count.
func (b *Bins) ModelsPresent(modelCount int) []bool {
	present := make([]bool, modelCount)
	for _, entries := range b.entries {
		for _, ref := range entries {
			present[ref.ModelID] = true
		}
	}
	return present
}

// screenBBox is an inclusive integer pixel bounding box.
type screenBBox struct {
	minX, minY, maxX, maxY int
}

// BinTriangleRange bins triangles with global indices in [start, end)
// from set into bins, using producer as both the binning task's
// identity (which slots it owns) and its position in the round-robin
// gather order the rasterizer uses. screenWidth/screenHeight/tileWidth/
// tileHeight describe the destination tile grid. visible is the
// per-model mask from CullModels; a model whose index is false
// contributes no triangles, since TransformVertexRange never refreshed
// its scratch entries this frame either. nil treats every model as
// visible.
//
// For each triangle, this gathers its three transformed clip vertices,
// perspective-divides to screen space, computes a signed area to reject
// back-facing/degenerate triangles, then appends a TriangleRef to every
// tile its screen bbox overlaps.
func BinTriangleRange(set *Set, bins *Bins, producer int, visible []bool, start, end int, screenWidth, screenHeight, tileWidth, tileHeight int) {
	scratch := set.Scratch()

	for modelIdx, model := range set.models {
		if visible != nil && !visible[modelIdx] {
			continue
		}
		triStart, triEnd := set.triangleRangeForModel(modelIdx)
		lo := max(start, triStart)
		hi := min(end, triEnd)
		if lo >= hi {
			continue
		}
		vertexOffset, _ := set.vertexRangeForModel(modelIdx)

		localTri := lo - triStart
		remaining := hi - lo
		meshID, meshTriStart := meshForTriangle(model, localTri)

		for remaining > 0 {
			mesh := model.Meshes[meshID]
			meshTriCount := mesh.TriangleCount()
			triInMesh := localTri - meshTriStart
			meshBase := vertexOffset + mesh.VertexOffset

			for triInMesh < meshTriCount && remaining > 0 {
				i0 := int(mesh.Indices[triInMesh*3+0]) + meshBase
				i1 := int(mesh.Indices[triInMesh*3+1]) + meshBase
				i2 := int(mesh.Indices[triInMesh*3+2]) + meshBase

				combined := scratch.OutCode[i0] & scratch.OutCode[i1] & scratch.OutCode[i2]
				if combined == 0 {
					if bbox, area, ok := projectTriangle(scratch, i0, i1, i2, screenWidth, screenHeight); ok && area > 0 {
						ref := TriangleRef{ModelID: model.ID(), MeshID: meshID, TriIdx: triInMesh}
						binToTiles(bins, producer, bbox, tileWidth, tileHeight, ref)
					}
				}

				triInMesh++
				localTri++
				remaining--
			}
			meshTriStart += meshTriCount
			meshID++
		}
	}
}

// meshForTriangle finds the mesh index and that mesh's starting local
// triangle index for a model-local triangle index.
func meshForTriangle(model *Model, localTri int) (meshID, meshTriStart int) {
	running := 0
	for i, mesh := range model.Meshes {
		count := mesh.TriangleCount()
		if localTri < running+count {
			return i, running
		}
		running += count
	}
	return len(model.Meshes) - 1, running - model.Meshes[len(model.Meshes)-1].TriangleCount()
}

// projectTriangle perspective-divides the three clip-space vertices at
// i0,i1,i2 into screen space and returns their integer bounding box along
// with the signed screen-space area (zero or negative area is rejected
// as back-facing or degenerate). ok is false if any vertex has
// non-positive w (behind the eye, already excluded by the OutCode check
// in the common case, but degenerate matrices are not detected upstream,
// so this is the tolerant last line of defense).
func projectTriangle(scratch *ClipBuffer, i0, i1, i2, screenWidth, screenHeight int) (screenBBox, float32, bool) {
	x0, y0, ok0 := toScreen(scratch, i0, screenWidth, screenHeight)
	x1, y1, ok1 := toScreen(scratch, i1, screenWidth, screenHeight)
	x2, y2, ok2 := toScreen(scratch, i2, screenWidth, screenHeight)
	if !ok0 || !ok1 || !ok2 {
		return screenBBox{}, 0, false
	}

	area := float32((x1-x0)*(y2-y0)-(x2-x0)*(y1-y0)) / 2

	minX, maxX := minMax3(x0, x1, x2)
	minY, maxY := minMax3(y0, y1, y2)
	if maxX < 0 {
		maxX = 0
	}
	if maxY < 0 {
		maxY = 0
	}
	bbox := screenBBox{
		minX: clampInt(minX, 0, screenWidth-1),
		minY: clampInt(minY, 0, screenHeight-1),
		maxX: clampInt(maxX, 0, screenWidth-1),
		maxY: clampInt(maxY, 0, screenHeight-1),
	}
	return bbox, area, true
}

func toScreen(scratch *ClipBuffer, i, screenWidth, screenHeight int) (x, y int, ok bool) {
	w := scratch.W[i]
	if w <= 0 {
		return 0, 0, false
	}
	ndcX := scratch.X[i] / w
	ndcY := scratch.Y[i] / w
	x = int(int32roundf((ndcX*0.5 + 0.5) * float32(screenWidth)))
	y = int(int32roundf((1 - (ndcY*0.5 + 0.5)) * float32(screenHeight)))
	return x, y, true
}

func minMax3(a, b, c int) (min, max int) {
	min, max = a, a
	for _, v := range [2]int{b, c} {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// binToTiles appends ref to producer's bin for every tile bbox overlaps.
func binToTiles(bins *Bins, producer int, bbox screenBBox, tileWidth, tileHeight int, ref TriangleRef) {
	tileX0 := bbox.minX / tileWidth
	tileX1 := bbox.maxX / tileWidth
	tileY0 := bbox.minY / tileHeight
	tileY1 := bbox.maxY / tileHeight

	for tileY := tileY0; tileY <= tileY1; tileY++ {
		for tileX := tileX0; tileX <= tileX1; tileX++ {
			bins.Append(tileX, tileY, producer, ref)
		}
	}
}

// PartitionTriangleRange divides the set's total triangle count into
// taskCount roughly equal, contiguous, SIMD-lane-aligned global ranges
// and returns the range for taskID (0-based). Every task boundary falls
// on a multiple of four triangles, the SIMD lane count; only the last
// non-empty range can end on a partial group of four.
func PartitionTriangleRange(set *Set, taskID, taskCount int) (start, end int) {
	const lanes = 4
	total := set.TotalTriangleCount()
	groups := (total + lanes - 1) / lanes
	groupsPerTask := (groups + taskCount - 1) / taskCount
	start = taskID * groupsPerTask * lanes
	end = min(start+groupsPerTask*lanes, total)
	if start > total {
		start = total
	}
	return start, end
}
