// Package diag tracks the per-frame quality counters that are the
// caller's only signal for occlusion-pipeline regressions: dropped
// triangles, the bin high-watermark, and the culled-occludee count. It
// logs a rolled-up summary at a fixed one-second interval rather than
// once per frame, mirroring the rendering engine's frame-rate profiler.
// The interval cannot be changed after construction.
package diag

import (
	"log"
	"runtime"
	"time"
)

// Diagnostics accumulates per-frame occlusion counters and logs a summary
// once per update interval. It never causes the pipeline to fail or
// panic — the engine never throws to the caller, and callers are
// expected to read these counters to catch quality regressions, not to
// have the engine enforce anything on their behalf.
type Diagnostics struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration

	binHighWatermark int

	totalDroppedTriangles uint64
	totalCulled           uint64
	totalOccludees        uint64

	lastTotalDropped uint64
	lastTotalCulled  uint64
}

// NewDiagnostics creates a new Diagnostics with a one-second update
// interval.
//
// Returns:
//   - *Diagnostics: the newly created diagnostics tracker
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// RecordFrame folds one frame's counters into the running totals and
// logs a summary if the update interval has elapsed.
//
// Parameters:
//   - droppedTriangles: triangles dropped this frame due to bin overflow
//   - binWatermark: the highest per-bin triangle count observed this frame
//   - numCulled: occludees determined not potentially visible this frame
//   - numOccludees: total occludees tested this frame
//
// Returns:
//   - bool: true if a summary was logged this call, false otherwise
func (d *Diagnostics) RecordFrame(droppedTriangles, binWatermark, numCulled, numOccludees int) bool {
	d.frameCount++
	d.totalDroppedTriangles += uint64(droppedTriangles)
	d.totalCulled += uint64(numCulled)
	d.totalOccludees += uint64(numOccludees)
	if binWatermark > d.binHighWatermark {
		d.binHighWatermark = binWatermark
	}

	currentTime := time.Now()
	elapsed := currentTime.Sub(d.lastTime)
	if elapsed < d.updateInterval {
		return false
	}

	fps := float64(d.frameCount) / elapsed.Seconds()

	droppedDelta := d.totalDroppedTriangles - d.lastTotalDropped
	culledDelta := d.totalCulled - d.lastTotalCulled

	var heapMB float64
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	heapMB = float64(mem.Alloc) / 1024 / 1024

	log.Printf("[Occlusion] FPS: %.2f | Dropped tris: %d (bin watermark: %d) | Culled: %d of %d occludees | Heap: %.2f MB",
		fps, droppedDelta, d.binHighWatermark, culledDelta, d.totalOccludees, heapMB)

	d.frameCount = 0
	d.lastTime = currentTime
	d.lastTotalDropped = d.totalDroppedTriangles
	d.lastTotalCulled = d.totalCulled
	d.totalOccludees = 0
	return true
}

// TotalDroppedTriangles returns the cumulative count of triangles dropped
// due to bin overflow since the Diagnostics was created.
func (d *Diagnostics) TotalDroppedTriangles() uint64 {
	return d.totalDroppedTriangles
}

// BinHighWatermark returns the highest per-bin triangle count observed
// since the Diagnostics was created.
func (d *Diagnostics) BinHighWatermark() int {
	return d.binHighWatermark
}

// TotalCulled returns the cumulative count of occludees determined not
// potentially visible since the Diagnostics was created.
func (d *Diagnostics) TotalCulled() uint64 {
	return d.totalCulled
}
