// Package heightfield stores the per-cell ground elevation of a level.
package heightfield

import (
	"math"
)

// HeightField is a width x depth grid of ground elevations in world units.
// World X maps to columns and world Z to rows; a cell covers CellSize world units on each side.
// It is immutable once built.
type HeightField struct {
	width    int
	depth    int
	cellSize float64
	cells    []float64
}

// New builds a height field from row-major elevations (index z*width + x).
// Missing trailing cells and NaN entries are treated as unset, which reads as zero.
func New(width, depth int, cellSize float64, elevations []float64) *HeightField {
	width = max(width, 0)
	depth = max(depth, 0)
	if cellSize <= 0 {
		cellSize = 1
	}

	cells := make([]float64, width*depth)
	for i := range cells {
		if i < len(elevations) && !math.IsNaN(elevations[i]) && !math.IsInf(elevations[i], 0) {
			cells[i] = elevations[i]
		}
	}

	return &HeightField{
		width:    width,
		depth:    depth,
		cellSize: cellSize,
		cells:    cells,
	}
}

func (h *HeightField) Width() int {
	if h == nil {
		return 0
	}
	return h.width
}

func (h *HeightField) Depth() int {
	if h == nil {
		return 0
	}
	return h.depth
}

func (h *HeightField) CellSize() float64 {
	if h == nil {
		return 1
	}
	return h.cellSize
}

// Cell converts a world position to grid indices by flooring
func (h *HeightField) Cell(x, z float64) (int, int) {
	return int(math.Floor(x / h.CellSize())), int(math.Floor(z / h.CellSize()))
}

// At returns the elevation stored at grid indices, zero when out of range
func (h *HeightField) At(i, j int) float64 {
	if h == nil || i < 0 || j < 0 || i >= h.width || j >= h.depth {
		return 0
	}
	return h.cells[j*h.width+i]
}

// Height returns the ground elevation under a world position.
// A nil height field reads as flat ground at zero.
func (h *HeightField) Height(x, z float64) float64 {
	if h == nil {
		return 0
	}
	i, j := h.Cell(x, z)
	return h.At(i, j)
}
