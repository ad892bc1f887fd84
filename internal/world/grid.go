package world

import (
	"math"

	"github.com/udisondev/zsurvive/internal/model"
)

// DefaultCellSize is used when the arena config leaves cell_size unset.
const DefaultCellSize = 8.0

// Grid maps arena coordinates on the XZ plane to region indices.
// Regions are square cells of Size units starting at Min.
type Grid struct {
	Min    model.Vec3
	Size   float64
	CellsX int32
	CellsZ int32
}

// NewGrid creates a grid covering [lo, hi] with cells of size units.
func NewGrid(lo, hi model.Vec3, size float64) Grid {
	if size <= 0 {
		size = DefaultCellSize
	}
	return Grid{
		Min:    lo,
		Size:   size,
		CellsX: max(1, int32(math.Ceil((hi.X-lo.X)/size))),
		CellsZ: max(1, int32(math.Ceil((hi.Z-lo.Z)/size))),
	}
}

// CoordToRegionIndex converts an arena position to a region index.
// Positions outside the grid are clamped to the border regions.
func (g Grid) CoordToRegionIndex(pos model.Vec3) (rx, rz int32) {
	rx = int32(math.Floor((pos.X - g.Min.X) / g.Size))
	rz = int32(math.Floor((pos.Z - g.Min.Z) / g.Size))
	return clamp32(rx, 0, g.CellsX-1), clamp32(rz, 0, g.CellsZ-1)
}

// IsValidRegionIndex checks if region index is within grid bounds.
func (g Grid) IsValidRegionIndex(rx, rz int32) bool {
	return rx >= 0 && rx < g.CellsX && rz >= 0 && rz < g.CellsZ
}

// RegionIndexToCoord returns the centre of region (rx, rz) at Y=0.
func (g Grid) RegionIndexToCoord(rx, rz int32) model.Vec3 {
	return model.Vec3{
		X: g.Min.X + (float64(rx)+0.5)*g.Size,
		Z: g.Min.Z + (float64(rz)+0.5)*g.Size,
	}
}

// RegionsWithin returns the index range of regions touched by a circle.
func (g Grid) RegionsWithin(center model.Vec3, radius float64) (minX, minZ, maxX, maxZ int32) {
	minX, minZ = g.CoordToRegionIndex(model.Vec3{X: center.X - radius, Z: center.Z - radius})
	maxX, maxZ = g.CoordToRegionIndex(model.Vec3{X: center.X + radius, Z: center.Z + radius})
	return minX, minZ, maxX, maxZ
}

func clamp32(v, lo, hi int32) int32 {
	return max(lo, min(v, hi))
}
