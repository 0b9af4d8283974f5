// Package occlusion wires the occluder depth pipeline (occlusion/occluder)
// and the occludee culling pipeline (occlusion/occludee) onto a task
// graph (occlusion/taskgraph).
package occlusion

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/config"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/diag"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/occludee"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/occluder"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/taskgraph"
)

// Culler runs the full per-frame occlusion pipeline: transform occluder
// vertices, bin their triangles, rasterize depth, frustum-cull occludees,
// and depth-test every occludee that survives the frustum, all dispatched
// across a shared task graph runner.
type Culler interface {
	// CullFrame runs one frame of the pipeline and returns its results.
	CullFrame(input FrameInput) FrameResult

	// Diagnostics returns the culler's running diagnostic counters.
	Diagnostics() *diag.Diagnostics
}

type culler struct {
	config config.Config
	runner *taskgraph.Runner
	diag   *diag.Diagnostics

	depth *occluder.DepthBuffer
	bins  *occluder.Bins
}

var _ Culler = &culler{}

// NewCuller constructs a Culler from cfg, validating it up front: a
// configuration violation fails here, before any pipeline state is built,
// rather than surfacing mid-frame.
//
// Parameters:
//   - cfg: the Configuration Surface
//   - options: functional options to customize construction (e.g. a
//     caller-supplied taskgraph.Runner)
//
// Returns:
//   - Culler: the constructed culler
//   - error: a configuration violation, if cfg.Validate fails
func NewCuller(cfg config.Config, options ...CullerBuilderOption) (Culler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("occlusion: cannot construct culler: %w", err)
	}

	c := &culler{
		config: cfg,
		diag:   diag.NewDiagnostics(),
		depth:  occluder.NewDepthBuffer(cfg.ScreenWidth, cfg.ScreenHeight),
		bins:   occluder.NewBins(cfg.TileCountX(), cfg.TileCountY(), cfg.ProducerTaskCount, cfg.MaxTrisInBin),
	}
	for _, option := range options {
		option(c)
	}
	if c.runner == nil {
		c.runner = taskgraph.NewRunner()
	}
	return c, nil
}

// Diagnostics returns the culler's running diagnostic counters.
func (c *culler) Diagnostics() *diag.Diagnostics {
	return c.diag
}

// CullFrame implements Culler.
//
// The task graph is a linear chain: [modelCull, frustumCull] → transform
// → bin → rasterize → depthTest. modelCull frustum-tests every occluder
// model's world-space bounding box up front, the way the reference
// rasterizer runs a dedicated model-visibility pass before its
// transform/bin/rasterize chain rather than feeding every occluder into
// it unconditionally; transform and bin both skip a model modelCull
// rejected. Binning only reads the occluder transform's output, but it
// is scheduled behind both frustumCull and transform so the setup phases
// never compete with the binning/rasterization phases for worker slots
// mid-frame; by the time depthTest runs, the frustum-cull results it
// needs are long since committed to outsideMasks.
func (c *culler) CullFrame(input FrameInput) FrameResult {
	set := input.Occluders
	packets := input.Occludees
	producers := c.config.ProducerTaskCount
	models := set.Models()

	c.depth.Clear()

	outsideMasks := make([]int, packets.PacketCount())
	modelVisible := make([]bool, len(models))

	modelCullHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		start, end := partitionRange(len(models), taskID, taskCount)
		for i := start; i < end; i++ {
			modelVisible[i] = occluder.ModelVisible(models[i], input.Frustum)
		}
	}, producers)

	transformHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		start, end := occluder.PartitionVertexRange(set, taskID, taskCount)
		occluder.TransformVertexRange(set, input.ViewProj, modelVisible, start, end)
	}, producers, modelCullHandle)

	frustumHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		start, end := partitionRange(packets.PacketCount(), taskID, taskCount)
		for i := start; i < end; i++ {
			cx, cy, cz, hx, hy, hz := packets.Packet(i)
			outsideMasks[i] = occludee.CullPacket(input.Frustum, cx, cy, cz, hx, hy, hz)
		}
	}, producers)

	binHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		c.bins.ResetProducer(taskID)
		start, end := occluder.PartitionTriangleRange(set, taskID, taskCount)
		occluder.BinTriangleRange(set, c.bins, taskID, modelVisible, start, end,
			c.config.ScreenWidth, c.config.ScreenHeight, c.config.TileWidth, c.config.TileHeight)
	}, producers, transformHandle, frustumHandle)

	rasterizeHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		tileX, tileY := taskID%c.config.TileCountX(), taskID/c.config.TileCountX()
		occluder.RasterizeTile(set, c.bins, c.depth, tileX, tileY, c.config.TileWidth, c.config.TileHeight, producers)
	}, c.config.TileCount(), binHandle)

	visible := make([]bool, packets.Count())
	culledPerTask := make([]int, producers)

	depthTestHandle := c.runner.CreateTaskSet(func(taskID, taskCount int) {
		start, end := partitionRange(packets.Count(), taskID, taskCount)
		for i := start; i < end; i++ {
			lane := i % 4
			if outsideMasks[i/4]&(1<<lane) != 0 {
				visible[i] = false
				culledPerTask[taskID]++
				continue
			}
			ok := occludee.TestAABB(packets.Box(i), input.ViewProj, c.depth, c.config.OccludeeSizeThreshold)
			visible[i] = ok
			if !ok {
				culledPerTask[taskID]++
			}
		}
	}, producers, rasterizeHandle)

	c.runner.WaitForSet(depthTestHandle)
	c.runner.ReleaseHandle(modelCullHandle)
	c.runner.ReleaseHandle(transformHandle)
	c.runner.ReleaseHandle(frustumHandle)
	c.runner.ReleaseHandle(binHandle)
	c.runner.ReleaseHandle(rasterizeHandle)
	c.runner.ReleaseHandle(depthTestHandle)

	numCulled := 0
	for _, n := range culledPerTask {
		numCulled += n
	}

	result := FrameResult{
		Visible:          visible,
		Rasterized:       c.bins.ModelsPresent(len(set.Models())),
		NumCulled:        numCulled,
		DroppedTriangles: c.bins.TotalDropped(),
		BinHighWatermark: c.bins.HighWatermark(),
	}
	c.diag.RecordFrame(result.DroppedTriangles, result.BinHighWatermark, result.NumCulled, packets.Count())
	return result
}

// partitionRange divides total items into taskCount roughly equal,
// contiguous ranges and returns the range for taskID (0-based). Shared by
// the frustum-cull and depth-test stages, which partition by occludee
// packet and occludee index respectively rather than by the occluder
// package's vertex/triangle-count partitioning.
func partitionRange(total, taskID, taskCount int) (start, end int) {
	perTask := (total + taskCount - 1) / taskCount
	start = taskID * perTask
	end = min(start+perTask, total)
	if start > total {
		start = total
	}
	return start, end
}
