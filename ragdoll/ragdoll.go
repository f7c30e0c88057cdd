// Package ragdoll simulates the loose body parts that replace a character when it dies.
//
// Each body part becomes an independent fragment with its own velocity, spin and lifetime. Fragments
// bounce on the height field, fade out near the end of their life and are disposed when it runs out.
// The pool caps how many ragdolls exist at once and evicts the oldest first.
package ragdoll

import (
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is a detached visual owned by a fragment
type Mesh interface {
	SetTransform(t actor.Transform)
	// SetOpacity takes a value in [0, 1]; the mesh materials are transparency capable
	SetOpacity(alpha float64)
	// Dispose frees the geometry, materials and textures of the mesh
	Dispose()
}

// BodyPart is one visual piece of a live character
type BodyPart interface {
	WorldMatrix() mgl64.Mat4
	// Detach clones the part into a standalone mesh with its own transparency-capable materials
	Detach() Mesh
}

// Character is a character visual about to be replaced by a ragdoll
type Character interface {
	BodyParts() []BodyPart
}

// Scene is the scene graph fragments are added to and removed from
type Scene interface {
	Add(m Mesh)
	Remove(m Mesh)
}

// Ground gives the floor height under a position
type Ground interface {
	Height(x, z float64) float64
}

// Fragment is a free rigid piece of a ragdoll
type Fragment struct {
	Mesh      Mesh
	Transform actor.Transform
	// Velocity is per step; AngularVelocity is in radians per step
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3
	// Lifetime is the number of steps left
	Lifetime int
	Opacity  float64

	disposed bool
}

// Ragdoll is the group of fragments spawned from one character
type Ragdoll struct {
	ID        uint64
	Fragments []*Fragment

	prev, next *Ragdoll
}

// Alive reports whether any fragment is left
func (r *Ragdoll) Alive() bool {
	return len(r.Fragments) > 0
}

func (f *Fragment) integrate(gravity float64, bounce, friction float64, ground Ground) {
	f.Velocity[1] -= gravity
	f.Transform.Position = f.Transform.Position.Add(f.Velocity)

	// Quaternion derivative: q' = 0.5 * omega * q
	omegaQuat := mgl64.Quat{V: f.AngularVelocity, W: 0}
	qDot := omegaQuat.Mul(f.Transform.Rotation).Scale(0.5)
	f.Transform.Rotation = f.Transform.Rotation.Add(qDot).Normalize()

	floor := ground.Height(f.Transform.Position.X(), f.Transform.Position.Z())
	if f.Transform.Position.Y() > floor {
		return
	}

	f.Transform.Position[1] = floor
	if f.Velocity.Y() < 0 {
		f.Velocity[1] = -f.Velocity.Y() * bounce
	}
	f.Velocity[0] *= friction
	f.Velocity[2] *= friction
	f.AngularVelocity = f.AngularVelocity.Mul(friction)
}
