// Package config defines and validates the occlusion culler's
// Configuration Surface: the set of values that must be chosen once at
// construction time and never change during a frame.
package config

import "fmt"

// Config holds the Configuration Surface for the occlusion culler.
type Config struct {
	// ScreenWidth and ScreenHeight size the depth buffer. Both must be even.
	ScreenWidth, ScreenHeight int

	// TileWidth and TileHeight size the screen-space rasterization tiles.
	// Both must be even and must evenly divide ScreenWidth/ScreenHeight.
	TileWidth, TileHeight int

	// ProducerTaskCount controls transform/bin task parallelism.
	ProducerTaskCount int

	// MaxTrisInBin is the per (tile, producer) bin capacity. Triangles
	// beyond this count are dropped for that bin.
	MaxTrisInBin int

	// OccludeeSizeThreshold is the squared-pixel screen-space area below
	// which an occludee is culled unconditionally, regardless of depth.
	OccludeeSizeThreshold float32
}

// Default returns a Config with reasonable defaults for a 1280x720
// screen and typical tile sizes.
func Default() Config {
	return Config{
		ScreenWidth:           1280,
		ScreenHeight:          720,
		TileWidth:             320,
		TileHeight:            90,
		ProducerTaskCount:     4,
		MaxTrisInBin:          4096,
		OccludeeSizeThreshold: 1.0,
	}
}

// Validate reports a configuration violation as an error, per the Error
// Handling Design's first failure kind: configuration violations fail at
// initialization with a diagnostic and no pipeline construction.
func (c Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenWidth%2 != 0 {
		return fmt.Errorf("config: screen width %d must be even and positive", c.ScreenWidth)
	}
	if c.ScreenHeight <= 0 || c.ScreenHeight%2 != 0 {
		return fmt.Errorf("config: screen height %d must be even and positive", c.ScreenHeight)
	}
	if c.TileWidth <= 0 || c.TileWidth%2 != 0 {
		return fmt.Errorf("config: tile width %d must be even and positive", c.TileWidth)
	}
	if c.TileHeight <= 0 || c.TileHeight%2 != 0 {
		return fmt.Errorf("config: tile height %d must be even and positive", c.TileHeight)
	}
	if c.ScreenWidth%c.TileWidth != 0 {
		return fmt.Errorf("config: tile width %d does not divide screen width %d", c.TileWidth, c.ScreenWidth)
	}
	if c.ScreenHeight%c.TileHeight != 0 {
		return fmt.Errorf("config: tile height %d does not divide screen height %d", c.TileHeight, c.ScreenHeight)
	}
	if c.ProducerTaskCount <= 0 {
		return fmt.Errorf("config: producer task count %d must be positive", c.ProducerTaskCount)
	}
	if c.MaxTrisInBin <= 0 {
		return fmt.Errorf("config: max tris in bin %d must be positive", c.MaxTrisInBin)
	}
	if c.OccludeeSizeThreshold < 0 {
		return fmt.Errorf("config: occludee size threshold %f must not be negative", c.OccludeeSizeThreshold)
	}
	return nil
}

// TileCountX returns the number of tile columns.
func (c Config) TileCountX() int {
	return c.ScreenWidth / c.TileWidth
}

// TileCountY returns the number of tile rows.
func (c Config) TileCountY() int {
	return c.ScreenHeight / c.TileHeight
}

// TileCount returns the total number of screen tiles.
func (c Config) TileCount() int {
	return c.TileCountX() * c.TileCountY()
}
