// Package collider holds the static colliders of a level: walls, pillars, door panels and furniture.
package collider

import (
	"log/slog"
	"reflect"

	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/go-gl/mathgl/mgl64"
)

// Handle identifies a registered collider. The zero handle is never issued.
type Handle int

// Collider is one world-fixed obstacle
type Collider struct {
	Handle Handle
	// Shape is the world-space volume used by resolution, an AABB or an OBB
	Shape bounds.Shape
	// Source is the world-space box snapshot the shape was built from
	Source bounds.OBB
	// Active colliders block movement, projectiles and sight; an open door is inactive
	Active bool
	// Owner maps the collider back to its game object (door, wall, furniture piece)
	Owner any

	aabb bounds.AABB
}

// AABB returns the broad-phase box computed when the shape was last built
func (c *Collider) AABB() bounds.AABB {
	return c.aabb
}

// Registry owns the static colliders, in registration order
type Registry struct {
	colliders     []*Collider
	byOwner       map[any][]Handle
	grid          *SpatialGrid
	minHalfExtent float64
	logger        *slog.Logger
}

// NewRegistry creates an empty registry whose broad phase uses cells of cellSize world units
func NewRegistry(cellSize, minHalfExtent float64, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}

	return &Registry{
		byOwner:       make(map[any][]Handle),
		grid:          NewSpatialGrid(cellSize, 4096),
		minHalfExtent: minHalfExtent,
		logger:        logger,
	}
}

// Register adds a collider built from a world-space box. Oriented colliders keep the box rotation;
// the others are reduced to the axis-aligned box enclosing it. New colliders start active.
func (r *Registry) Register(box bounds.OBB, oriented bool, owner any) Handle {
	c := &Collider{
		Handle: Handle(len(r.colliders) + 1),
		Active: true,
		Owner:  owner,
	}
	r.build(c, box, oriented)

	r.colliders = append(r.colliders, c)
	if isHashable(owner) {
		r.byOwner[owner] = append(r.byOwner[owner], c.Handle)
	}
	r.grid.Insert(int(c.Handle)-1, c.aabb)

	return c.Handle
}

func (r *Registry) build(c *Collider, box bounds.OBB, oriented bool) {
	if box.Rotation == (mgl64.Mat3{}) {
		box.Rotation = mgl64.Ident3()
	}
	box, repaired := box.Sanitize(r.minHalfExtent)
	if repaired {
		r.logger.Warn("collider geometry repaired",
			slog.Int("handle", int(c.Handle)),
			slog.Any("half_extents", box.HalfExtents))
	}

	c.Source = box
	if oriented {
		c.Shape = box
	} else {
		c.Shape = box.ToAABB()
	}
	c.aabb = c.Shape.ToAABB()
}

// Get returns the collider for a handle
func (r *Registry) Get(h Handle) (*Collider, bool) {
	if h < 1 || int(h) > len(r.colliders) {
		return nil, false
	}
	return r.colliders[h-1], true
}

// SetActive toggles a collider without reallocating it
func (r *Registry) SetActive(h Handle, active bool) bool {
	c, ok := r.Get(h)
	if !ok {
		return false
	}
	c.Active = active
	return true
}

// SetOwnerActive toggles every collider registered for an owner, e.g. all panels of a door
func (r *Registry) SetOwnerActive(owner any, active bool) int {
	if !isHashable(owner) {
		return 0
	}
	for _, h := range r.byOwner[owner] {
		r.SetActive(h, active)
	}
	return len(r.byOwner[owner])
}

// ByOwner returns the colliders registered for an owner
func (r *Registry) ByOwner(owner any) []*Collider {
	if !isHashable(owner) {
		return nil
	}
	handles := r.byOwner[owner]
	out := make([]*Collider, 0, len(handles))
	for _, h := range handles {
		c, _ := r.Get(h)
		out = append(out, c)
	}
	return out
}

// Refresh rebuilds a collider from the new world transform of its owner, such as a moving platform
func (r *Registry) Refresh(h Handle, box bounds.OBB) bool {
	c, ok := r.Get(h)
	if !ok {
		return false
	}

	_, oriented := c.Shape.(bounds.OBB)
	r.build(c, box, oriented)
	r.reindex()
	return true
}

func (r *Registry) reindex() {
	r.grid.Clear()
	for i, c := range r.colliders {
		r.grid.Insert(i, c.aabb)
	}
}

func (r *Registry) Len() int {
	return len(r.colliders)
}

// All returns every collider in registration order
func (r *Registry) All() []*Collider {
	return r.colliders
}

// Query returns the colliders whose broad-phase box overlaps aabb, in registration order.
// Inactive colliders are skipped unless includeInactive is set.
func (r *Registry) Query(aabb bounds.AABB, includeInactive bool) []*Collider {
	indices := r.grid.Query(aabb)
	out := make([]*Collider, 0, len(indices))
	for _, idx := range indices {
		c := r.colliders[idx]
		if !c.Active && !includeInactive {
			continue
		}
		if c.aabb.Overlaps(aabb) {
			out = append(out, c)
		}
	}
	return out
}

// Clear releases every collider, as when a level unloads
func (r *Registry) Clear() {
	r.colliders = nil
	clear(r.byOwner)
	r.grid.Clear()
}

// isHashable rejects owners that would panic as map keys (slices, maps, funcs)
func isHashable(v any) bool {
	return v != nil && reflect.TypeOf(v).Comparable()
}
