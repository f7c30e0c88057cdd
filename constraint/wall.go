package constraint

import (
	"fmt"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/collider"
	"github.com/go-gl/mathgl/mgl64"
)

const degenerateLength = 1e-9

var worldUp = mgl64.Vec3{0, 1, 0}

// Penetration measures how deep a sphere sinks into a shape.
// The normal is the push-out direction and depth the distance to move along it; ok is false when
// the sphere does not penetrate. A sphere whose center lies inside the shape escapes through the
// nearest face.
func Penetration(center mgl64.Vec3, radius float64, shape bounds.Shape) (normal mgl64.Vec3, depth float64, point mgl64.Vec3, ok bool) {
	point = closestPoint(shape, center)
	v := center.Sub(point)
	dist := v.Len()

	if dist > degenerateLength {
		depth = radius - dist
		if depth <= 0 {
			return mgl64.Vec3{}, 0, point, false
		}
		return v.Mul(1 / dist), depth, point, true
	}

	// The center is on or inside the box: the clamp gives no direction
	normal, faceDist := faceEscape(shape, center)
	return normal, faceDist + radius, point, true
}

func closestPoint(shape bounds.Shape, p mgl64.Vec3) mgl64.Vec3 {
	switch s := shape.(type) {
	case bounds.AABB:
		return s.ClampPoint(p)
	case bounds.OBB:
		return s.ClampPoint(p)
	}
	panic(fmt.Sprintf("constraint: unknown shape %T", shape))
}

func faceEscape(shape bounds.Shape, p mgl64.Vec3) (mgl64.Vec3, float64) {
	switch s := shape.(type) {
	case bounds.AABB:
		return s.FaceEscape(p)
	case bounds.OBB:
		return s.FaceEscape(p)
	}
	panic(fmt.Sprintf("constraint: unknown shape %T", shape))
}

// WallContact is the penetration of an actor's sphere into a static collider
type WallContact struct {
	Actor    *actor.Actor
	Collider *collider.Collider
	Normal   mgl64.Vec3
	Depth    float64
	Point    mgl64.Vec3

	// GroundUpDot is the threshold above which the push direction counts as standing on the collider
	GroundUpDot float64

	// Set by SolvePosition
	Grounded bool
	Landed   bool
	Fall     float64
}

// DetectWall tests an actor against an active collider
func DetectWall(a *actor.Actor, c *collider.Collider, groundUpDot float64) (*WallContact, bool) {
	if !c.Active {
		return nil, false
	}
	if !c.Shape.ToAABB().IntersectsSphere(a.Position, a.Radius) {
		return nil, false
	}

	normal, depth, point, ok := Penetration(a.Position, a.Radius, c.Shape)
	if !ok {
		return nil, false
	}

	return &WallContact{
		Actor:       a,
		Collider:    c,
		Normal:      normal,
		Depth:       depth,
		Point:       point,
		GroundUpDot: groundUpDot,
	}, true
}

// SolvePosition pushes the actor out along the normal. A push that is mostly upward means the actor
// stands on the collider: downward velocity is cancelled and the actor lands. A rising actor, such as
// one taking off for a jump, is pushed out but not grounded.
func (c *WallContact) SolvePosition() {
	a := c.Actor
	a.Position = a.Position.Add(c.Normal.Mul(c.Depth))

	if c.Normal.Dot(worldUp) <= c.GroundUpDot || a.Velocity.Y() > 0 {
		return
	}

	c.Grounded = true
	if a.Velocity.Y() < 0 {
		a.Velocity[1] = 0
	}
	c.Fall, c.Landed = a.Land()
}
