package collider

import (
	"math"
	"sort"

	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/go-gl/mathgl/mgl64"
)

// maxCellsPerEntry bounds how many cells one collider is inserted into.
// Larger colliders (floors, outer walls) are kept in a list returned by every query.
const maxCellsPerEntry = 512

// CellKey - Coordinates of a cell in 3D space
type CellKey struct {
	X, Y, Z int
}

// Cell - Container of collider indices within a cell
type Cell struct {
	indices []int
}

// SpatialGrid - Uniform hashed grid used as the broad phase of static colliders
type SpatialGrid struct {
	cellSize  float64
	cells     []Cell
	cellMask  int
	oversized []int
}

// NewSpatialGrid - Creates a new spatial grid
func NewSpatialGrid(cellSize float64, numCells int) *SpatialGrid {
	numCells = nextPowerOfTwo(numCells)
	if cellSize <= 0 {
		cellSize = 1
	}

	cells := make([]Cell, numCells)
	for i := range cells {
		cells[i].indices = make([]int, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cells:    cells,
		cellMask: numCells - 1,
	}
}

// nextPowerOfTwo - Rounds up to the next power of 2
func nextPowerOfTwo(n int) int {
	if n <= 0 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n++
	return n
}

// Insert - Inserts an index into every cell its box occupies
func (sg *SpatialGrid) Insert(index int, aabb bounds.AABB) {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	if cellCount(minCell, maxCell) > maxCellsPerEntry {
		sg.oversized = append(sg.oversized, index)
		return
	}

	for x := minCell.X; x <= maxCell.X; x++ {
		for y := minCell.Y; y <= maxCell.Y; y++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cellIdx := sg.hashCell(CellKey{x, y, z})
				sg.cells[cellIdx].indices = append(sg.cells[cellIdx].indices, index)
			}
		}
	}
}

func (sg *SpatialGrid) Clear() {
	for i := range sg.cells {
		sg.cells[i].indices = sg.cells[i].indices[:0]
	}
	sg.oversized = sg.oversized[:0]
}

// Query - Returns the indices of every entry whose cells overlap the box, in ascending order.
// Hash collisions may add candidates that do not actually overlap; callers run the exact test.
func (sg *SpatialGrid) Query(aabb bounds.AABB) []int {
	minCell := sg.worldToCell(aabb.Min)
	maxCell := sg.worldToCell(aabb.Max)

	seen := make(map[int]struct{})
	result := make([]int, 0, 8)
	add := func(idx int) {
		if _, ok := seen[idx]; ok {
			return
		}
		seen[idx] = struct{}{}
		result = append(result, idx)
	}

	for _, idx := range sg.oversized {
		add(idx)
	}

	if cellCount(minCell, maxCell) > float64(len(sg.cells)) {
		// The query covers more cells than the table holds: visit the table once instead
		for i := range sg.cells {
			for _, idx := range sg.cells[i].indices {
				add(idx)
			}
		}
	} else {
		for x := minCell.X; x <= maxCell.X; x++ {
			for y := minCell.Y; y <= maxCell.Y; y++ {
				for z := minCell.Z; z <= maxCell.Z; z++ {
					for _, idx := range sg.cells[sg.hashCell(CellKey{x, y, z})].indices {
						add(idx)
					}
				}
			}
		}
	}

	// Deterministic order: colliders are resolved in registration order
	sort.Ints(result)
	return result
}

// cellCount is computed in floating point so that huge boxes cannot overflow
func cellCount(minCell, maxCell CellKey) float64 {
	return float64(maxCell.X-minCell.X+1) * float64(maxCell.Y-minCell.Y+1) * float64(maxCell.Z-minCell.Z+1)
}

// worldToCell - Converts a world position into cell coordinates
func (sg *SpatialGrid) worldToCell(pos mgl64.Vec3) CellKey {
	return CellKey{
		X: int(math.Floor(pos.X() / sg.cellSize)),
		Y: int(math.Floor(pos.Y() / sg.cellSize)),
		Z: int(math.Floor(pos.Z() / sg.cellSize)),
	}
}

// hashCell - Hashes a cell to an index in the array
func (sg *SpatialGrid) hashCell(key CellKey) int {
	h := (key.X * 73856093) ^ (key.Y * 19349663) ^ (key.Z * 83492791)
	return h & sg.cellMask
}
