package occlusion

import "github.com/Carmen-Shannon/oxy-occlusion/occlusion/taskgraph"

// CullerBuilderOption configures a culler at construction time.
type CullerBuilderOption func(*culler)

// WithRunner overrides the culler's task graph runner, e.g. to share one
// runner across several cullers rather than each spinning up its own
// worker pool.
func WithRunner(runner *taskgraph.Runner) CullerBuilderOption {
	return func(c *culler) {
		c.runner = runner
	}
}
