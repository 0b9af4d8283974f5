package occluder

import "testing"

// A triangle with screen vertices (2,6), (6,2), (6,6) on an 8x8 depth
// buffer split into 4x4 tiles, all at w=1 (flat depth 1 across the
// triangle). Set up once via singleTriangleSet + BinTriangleRange so each
// test below can rasterize whichever tile(s) it needs.
func rasterizeFixture() (*Set, *Bins, *DepthBuffer) {
	set := singleTriangleSet(-0.5, -0.5, 0.5, 0.5, 0.5, -0.5)
	bins := NewBins(2, 2, 1, 16)
	BinTriangleRange(set, bins, 0, nil, 0, set.TotalTriangleCount(), 8, 8, 4, 4)
	depth := NewDepthBuffer(8, 8)
	return set, bins, depth
}

func TestRasterizeTileFillsInteriorPixel(t *testing.T) {
	set, bins, depth := rasterizeFixture()

	rasterized := RasterizeTile(set, bins, depth, 1, 1, 4, 4, 1)
	if have, want := rasterized, 1; have != want {
		t.Fatalf("RasterizeTile returned count: have %d want %d", have, want)
	}

	if have, want := depth.Sample(5, 4), float32(1); have != want {
		t.Fatalf("Sample(5,4) (interior pixel): have %v want %v", have, want)
	}
}

func TestRasterizeTileLeavesExteriorTileUntouched(t *testing.T) {
	set, bins, depth := rasterizeFixture()

	RasterizeTile(set, bins, depth, 0, 0, 4, 4, 1)

	if have, want := depth.Sample(0, 0), float32(0); have != want {
		t.Fatalf("Sample(0,0) (outside the triangle): have %v want %v", have, want)
	}
}

func TestRasterizeTileOnlyTouchesItsOwnTile(t *testing.T) {
	set, bins, depth := rasterizeFixture()

	RasterizeTile(set, bins, depth, 1, 1, 4, 4, 1)

	// Tile (0,0) never ran; even though the triangle's bbox reaches into
	// it, none of its pixels should have been written by tile (1,1)'s call.
	if have, want := depth.Sample(1, 1), float32(0); have != want {
		t.Fatalf("Sample(1,1) outside tile (1,1)'s ownership: have %v want %v", have, want)
	}
}

func TestRasterizeTileEmptyBinReturnsZero(t *testing.T) {
	set := singleTriangleSet(-0.5, -0.5, 0.5, 0.5, 0.5, -0.5)
	bins := NewBins(2, 2, 1, 16) // never binned into
	depth := NewDepthBuffer(8, 8)

	have := RasterizeTile(set, bins, depth, 0, 0, 4, 4, 1)
	if want := 0; have != want {
		t.Fatalf("RasterizeTile on empty bin: have %d want %d", have, want)
	}
}

func TestRasterizeTileNoSeamAtTileBoundary(t *testing.T) {
	set, bins, depth := rasterizeFixture()

	// (3,5) belongs to tile (0,1); (4,5) belongs to tile (1,1). Both are
	// interior points of the same triangle, one pixel apart across the
	// vertical tile seam at x=4. Rasterizing each tile independently must
	// still cover both: a consistent rounding convention between the
	// binner and the rasterizer is what keeps this seam gap-free.
	RasterizeTile(set, bins, depth, 0, 1, 4, 4, 1)
	RasterizeTile(set, bins, depth, 1, 1, 4, 4, 1)

	if have, want := depth.Sample(3, 5), float32(1); have != want {
		t.Fatalf("Sample(3,5) on the tile(0,1) side of the seam: have %v want %v", have, want)
	}
	if have, want := depth.Sample(4, 5), float32(1); have != want {
		t.Fatalf("Sample(4,5) on the tile(1,1) side of the seam: have %v want %v", have, want)
	}
}

func TestRasterizeTileMergeIsIdempotentAcrossRepeatedCalls(t *testing.T) {
	set, bins, depth := rasterizeFixture()

	RasterizeTile(set, bins, depth, 1, 1, 4, 4, 1)
	first := depth.Sample(5, 4)
	RasterizeTile(set, bins, depth, 1, 1, 4, 4, 1)
	second := depth.Sample(5, 4)

	if first != second {
		t.Fatalf("Sample(5,4) changed across repeated rasterize passes: have %v then %v", first, second)
	}
}
