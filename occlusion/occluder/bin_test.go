package occluder

import "testing"

// singleTriangleSet builds a Set with one model, one mesh, one triangle,
// and scratch clip-space values set directly (bypassing TransformVertexRange)
// so binning tests can place a triangle at an exact, hand-computed screen
// position.
func singleTriangleSet(x0, y0, x1, y1, x2, y2 float32) *Set {
	model := NewModel(nil, []Mesh{{Indices: []uint32{0, 1, 2}}})
	model.VertexX = make([]float32, 3)
	model.VertexY = make([]float32, 3)
	model.VertexZ = make([]float32, 3)
	set := NewSet([]*Model{model})

	scratch := set.Scratch()
	xs, ys := [3]float32{x0, x1, x2}, [3]float32{y0, y1, y2}
	for i := 0; i < 3; i++ {
		scratch.X[i] = xs[i]
		scratch.Y[i] = ys[i]
		scratch.Z[i] = 0.5
		scratch.W[i] = 1
		scratch.OutCode[i] = computeOutCode(xs[i], ys[i], 0.5, 1)
	}
	return set
}

func TestBinTriangleRangeCoversOverlappingTiles(t *testing.T) {
	// NDC (-0.5,-0.5), (0.5,0.5), (0.5,-0.5): front-facing in screen space
	// (y flips between NDC and screen), screen bbox [2,6]x[2,6] on an 8x8
	// screen split into 4x4 tiles -- overlaps all four tiles.
	set := singleTriangleSet(-0.5, -0.5, 0.5, 0.5, 0.5, -0.5)
	bins := NewBins(2, 2, 1, 16)

	BinTriangleRange(set, bins, 0, nil, 0, set.TotalTriangleCount(), 8, 8, 4, 4)

	for tileY := 0; tileY < 2; tileY++ {
		for tileX := 0; tileX < 2; tileX++ {
			if have, want := len(bins.Slot(tileX, tileY, 0)), 1; have != want {
				t.Fatalf("Slot(%d,%d,0): have %d triangles want %d", tileX, tileY, have, want)
			}
		}
	}
	if have, want := bins.TotalDropped(), 0; have != want {
		t.Fatalf("TotalDropped: have %d want %d", have, want)
	}
}

func TestBinTriangleRangeRejectsBackfacing(t *testing.T) {
	// Same three NDC positions, opposite winding: negative signed area.
	set := singleTriangleSet(-0.5, -0.5, 0.5, -0.5, 0.5, 0.5)
	bins := NewBins(2, 2, 1, 16)

	BinTriangleRange(set, bins, 0, nil, 0, set.TotalTriangleCount(), 8, 8, 4, 4)

	for tileY := 0; tileY < 2; tileY++ {
		for tileX := 0; tileX < 2; tileX++ {
			if have, want := len(bins.Slot(tileX, tileY, 0)), 0; have != want {
				t.Fatalf("Slot(%d,%d,0): have %d triangles want %d (back-facing should be rejected)", tileX, tileY, have, want)
			}
		}
	}
}

func TestBinTriangleRangeRejectsAllOutsideSharedPlane(t *testing.T) {
	model := NewModel(nil, []Mesh{{Indices: []uint32{0, 1, 2}}})
	model.VertexX = make([]float32, 3)
	model.VertexY = make([]float32, 3)
	model.VertexZ = make([]float32, 3)
	set := NewSet([]*Model{model})

	scratch := set.Scratch()
	for i := 0; i < 3; i++ {
		// All three vertices sit beyond the left plane (x < -w).
		scratch.X[i] = -10
		scratch.Y[i] = 0
		scratch.Z[i] = 0.5
		scratch.W[i] = 1
		scratch.OutCode[i] = computeOutCode(-10, 0, 0.5, 1)
	}

	bins := NewBins(2, 2, 1, 16)
	BinTriangleRange(set, bins, 0, nil, 0, set.TotalTriangleCount(), 8, 8, 4, 4)

	if have, want := bins.HighWatermark(), 0; have != want {
		t.Fatalf("HighWatermark: have %d want %d", have, want)
	}
}

func TestBinTriangleRangeSkipsInvisibleModel(t *testing.T) {
	set := singleTriangleSet(-0.5, -0.5, 0.5, 0.5, 0.5, -0.5)
	bins := NewBins(2, 2, 1, 16)

	BinTriangleRange(set, bins, 0, []bool{false}, 0, set.TotalTriangleCount(), 8, 8, 4, 4)

	if have, want := bins.HighWatermark(), 0; have != want {
		t.Fatalf("HighWatermark: have %d want %d (culled model's triangles should not be binned)", have, want)
	}
}

func TestBinsAppendDropsOnOverflow(t *testing.T) {
	bins := NewBins(1, 1, 1, 2)
	bins.Append(0, 0, 0, TriangleRef{TriIdx: 0})
	bins.Append(0, 0, 0, TriangleRef{TriIdx: 1})
	bins.Append(0, 0, 0, TriangleRef{TriIdx: 2})

	if have, want := len(bins.Slot(0, 0, 0)), 2; have != want {
		t.Fatalf("Slot occupancy: have %d want %d", have, want)
	}
	if have, want := bins.DroppedByProducer(0), 1; have != want {
		t.Fatalf("DroppedByProducer: have %d want %d", have, want)
	}
}

func TestResetProducerClearsSlotsAndDropCounter(t *testing.T) {
	bins := NewBins(1, 1, 1, 1)
	bins.Append(0, 0, 0, TriangleRef{TriIdx: 0})
	bins.Append(0, 0, 0, TriangleRef{TriIdx: 1}) // dropped, over capacity

	bins.ResetProducer(0)

	if have, want := len(bins.Slot(0, 0, 0)), 0; have != want {
		t.Fatalf("Slot after reset: have %d want %d", have, want)
	}
	if have, want := bins.DroppedByProducer(0), 0; have != want {
		t.Fatalf("DroppedByProducer after reset: have %d want %d", have, want)
	}
}

func TestModelsPresentReflectsBinnedTriangles(t *testing.T) {
	set := singleTriangleSet(-0.5, -0.5, 0.5, 0.5, 0.5, -0.5)
	bins := NewBins(2, 2, 1, 16)
	BinTriangleRange(set, bins, 0, nil, 0, set.TotalTriangleCount(), 8, 8, 4, 4)

	present := bins.ModelsPresent(len(set.Models()))
	if have, want := present, []bool{true}; have[0] != want[0] {
		t.Fatalf("ModelsPresent: have %v want %v", have, want)
	}
}

func TestModelsPresentFalseWhenNothingBinned(t *testing.T) {
	bins := NewBins(2, 2, 1, 16)
	present := bins.ModelsPresent(2)
	for i, p := range present {
		if p {
			t.Fatalf("ModelsPresent[%d]: have true want false (nothing was binned)", i)
		}
	}
}

func TestPartitionTriangleRangeCoversWholeSetWithoutOverlap(t *testing.T) {
	model := NewModel(nil, []Mesh{{Indices: make([]uint32, 30)}}) // 10 triangles
	set := NewSet([]*Model{model})

	const taskCount = 3
	covered := make([]bool, set.TotalTriangleCount())
	for taskID := 0; taskID < taskCount; taskID++ {
		start, end := PartitionTriangleRange(set, taskID, taskCount)
		for i := start; i < end; i++ {
			if covered[i] {
				t.Fatalf("triangle %d covered by more than one task", i)
			}
			covered[i] = true
		}
	}
	for i, c := range covered {
		if !c {
			t.Fatalf("triangle %d never covered by any task", i)
		}
	}
}
