package constraint

import (
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// Horizontal projects a world position onto the ground plane (X, Z)
func Horizontal(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v.X(), Y: v.Z()}
}

// ActorContact is the horizontal overlap of two actors; height is ignored
type ActorContact struct {
	A, B *actor.Actor
	// Normal points from A to B on the ground plane
	Normal  cp.Vector
	Overlap float64
}

// DetectActors tests two actors for horizontal overlap.
// Dead or malformed actors never collide, nor do two immovable actors.
func DetectActors(a, b *actor.Actor) (*ActorContact, bool) {
	if a == b || !a.Collides() || !b.Collides() {
		return nil, false
	}
	if a.IsImmovable() && b.IsImmovable() {
		return nil, false
	}

	pa, pb := Horizontal(a.Position), Horizontal(b.Position)
	if !cp.NewBBForCircle(pa, a.Radius).Intersects(cp.NewBBForCircle(pb, b.Radius)) {
		return nil, false
	}

	delta := pb.Sub(pa)
	dist := delta.Length()
	sum := a.Radius + b.Radius
	if dist >= sum {
		return nil, false
	}

	// Stacked centers have no direction; any axis separates them
	normal := cp.Vector{X: 1, Y: 0}
	if dist > degenerateLength {
		normal = delta.Mult(1 / dist)
	}

	return &ActorContact{A: a, B: b, Normal: normal, Overlap: sum - dist}, true
}

// Shares returns the fraction of the overlap each actor moves. Each side moves in proportion to the
// other's weight, so the heavier actor moves less and the two shares add up to one.
func (c *ActorContact) Shares() (shareA, shareB float64) {
	wa, wb := c.A.Weight, c.B.Weight

	switch {
	case c.A.IsImmovable():
		return 0, 1
	case c.B.IsImmovable():
		return 1, 0
	case wa+wb <= 0:
		return 0.5, 0.5
	}

	return wb / (wa + wb), wa / (wa + wb)
}

func (c *ActorContact) SolvePosition() {
	shareA, shareB := c.Shares()

	moveA := c.Normal.Mult(-c.Overlap * shareA)
	moveB := c.Normal.Mult(c.Overlap * shareB)

	c.A.Position[0] += moveA.X
	c.A.Position[2] += moveA.Y
	c.B.Position[0] += moveB.X
	c.B.Position[2] += moveB.Y
}
