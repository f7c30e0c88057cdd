package actor

import "github.com/go-gl/mathgl/mgl64"

// BodyPart is the name given to the implicit hit sphere of actors without explicit parts
const BodyPart = "body"

// HitSphere is a named body part used by projectile narrow-phase tests
type HitSphere struct {
	Name   string
	Offset mgl64.Vec3
	Radius float64
	// DamageMultiplier scales the damage of projectiles hitting this part (e.g. 2 for the head)
	DamageMultiplier float64
}

// Parts returns the hit spheres of the actor, or a single body sphere when none are set
func (a *Actor) Parts() []HitSphere {
	if len(a.HitSpheres) > 0 {
		return a.HitSpheres
	}

	return []HitSphere{{Name: BodyPart, Radius: a.BoundingRadius(), DamageMultiplier: 1}}
}

// HitTest returns the first part, in declaration order, touched by the sphere
func (a *Actor) HitTest(center mgl64.Vec3, radius float64) (HitSphere, bool) {
	for _, part := range a.Parts() {
		r := part.Radius + radius
		d := center.Sub(a.Position.Add(part.Offset))
		if d.Dot(d) <= r*r {
			return part, true
		}
	}

	return HitSphere{}, false
}
