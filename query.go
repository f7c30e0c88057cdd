package physics

import (
	"math"

	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/constraint"
	"github.com/go-gl/mathgl/mgl64"
)

// HasLineOfSight reports whether nothing active stands between start and end.
// Inactive colliders, such as open doors, never block sight.
func (w *World) HasLineOfSight(start, end mgl64.Vec3) bool {
	for _, c := range w.Colliders.Query(bounds.NewAABB(start, end), false) {
		if _, hit := c.Shape.IntersectSegment(start, end); hit {
			return false
		}
	}
	return true
}

// Blocked reports whether a volume overlaps an active collider, e.g. to check that a door can
// close or a prop can be placed.
func (w *World) Blocked(shape bounds.Shape) bool {
	for _, c := range w.Colliders.Query(shape.ToAABB(), false) {
		if bounds.Intersects(shape, c.Shape, w.Tuning.Collision.SATEpsilon) {
			return true
		}
	}
	return false
}

// ResolveInteractionAt activates the interactable nearest to position on the ground plane, within
// the tuned radius. It reports whether something was triggered.
func (w *World) ResolveInteractionAt(position mgl64.Vec3) bool {
	origin := constraint.Horizontal(position)

	best := -1
	bestDistance := math.Inf(1)
	for i, it := range w.Interactables {
		d := origin.Distance(constraint.Horizontal(it.InteractionPoint()))
		if d <= w.Tuning.Interact.Radius && d < bestDistance {
			best, bestDistance = i, d
		}
	}
	if best == -1 {
		return false
	}

	return w.Interactables[best].Interact()
}
