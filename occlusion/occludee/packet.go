// Package occludee implements the occludee culling pipeline: frustum
// culling and depth-buffer occlusion testing against packets of four
// AABBs at a time.
package occludee

import (
	"github.com/Carmen-Shannon/oxy-occlusion/common"
	"github.com/Carmen-Shannon/oxy-occlusion/occlusion/simd"
)

// Record is a caller-registered occludee: a world-space AABB plus a
// reference back to whatever the caller's renderer associates with it.
// The culler never dereferences RenderNodeRef, and NewPackets does not
// keep it: the visibility result is indexed in registration order, so
// the caller maps Visible[i] back to its own i-th Record.
type Record struct {
	Box           common.AABB
	RenderNodeRef any
}

// Packets holds occludee AABBs as structure-of-arrays packets of four:
// center.x[0..3], center.y[0..3], center.z[0..3], half.x[0..3],
// half.y[0..3], half.z[0..3] per packet.
// When the registered occludee count is not a multiple of four, the
// trailing lanes of the last packet are zero-initialized (zero half-
// extent AABBs at the origin). The frustum test runs on those lanes like
// any other, but only indices below Count() are read back, so padding
// never reaches the depth test or the visibility result and a partial
// last packet needs no special case.
type Packets struct {
	centerX, centerY, centerZ []simd.Vec4f
	halfX, halfY, halfZ       []simd.Vec4f
	count                     int
}

// NewPackets packs records into SoA packets of four.
//
// Parameters:
//   - records: the occludees to pack, in the caller's registration order
//
// Returns:
//   - *Packets: the packed occludee set
func NewPackets(records []Record) *Packets {
	packetCount := (len(records) + 3) / 4
	p := &Packets{
		centerX: make([]simd.Vec4f, packetCount),
		centerY: make([]simd.Vec4f, packetCount),
		centerZ: make([]simd.Vec4f, packetCount),
		halfX:   make([]simd.Vec4f, packetCount),
		halfY:   make([]simd.Vec4f, packetCount),
		halfZ:   make([]simd.Vec4f, packetCount),
		count:   len(records),
	}
	for i, r := range records {
		packet, lane := i/4, i%4
		p.centerX[packet][lane] = r.Box.Center.X
		p.centerY[packet][lane] = r.Box.Center.Y
		p.centerZ[packet][lane] = r.Box.Center.Z
		p.halfX[packet][lane] = r.Box.Half.X
		p.halfY[packet][lane] = r.Box.Half.Y
		p.halfZ[packet][lane] = r.Box.Half.Z
	}
	return p
}

// Count returns the number of registered occludees (not counting padding
// lanes in a partial trailing packet).
func (p *Packets) Count() int {
	return p.count
}

// PacketCount returns the number of four-wide packets, including any
// padding lanes in the final packet.
func (p *Packets) PacketCount() int {
	return len(p.centerX)
}

// Packet returns the six SoA lanes making up packet i: center x/y/z and
// half-extent x/y/z, each a Vec4f of four occludees' values.
func (p *Packets) Packet(i int) (cx, cy, cz, hx, hy, hz simd.Vec4f) {
	return p.centerX[i], p.centerY[i], p.centerZ[i], p.halfX[i], p.halfY[i], p.halfZ[i]
}

// Box reconstructs occludee index i's AABB. Used by the depth test, which
// needs a single box's eight corners rather than a SIMD-packed lane.
func (p *Packets) Box(i int) common.AABB {
	packet, lane := i/4, i%4
	return common.AABB{
		Center: common.Vector3{X: p.centerX[packet][lane], Y: p.centerY[packet][lane], Z: p.centerZ[packet][lane]},
		Half:   common.Vector3{X: p.halfX[packet][lane], Y: p.halfY[packet][lane], Z: p.halfZ[packet][lane]},
	}
}
