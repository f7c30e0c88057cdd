package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Kind identifies who an actor fights for
type Kind int

const (
	KindPlayer Kind = iota
	KindAlly
	KindEnemy
	KindNeutral
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindAlly:
		return "ally"
	case KindEnemy:
		return "enemy"
	case KindNeutral:
		return "neutral"
	}
	return "unknown"
}

// ImmovableWeight marks an actor that other actors can never push
var ImmovableWeight = math.Inf(1)

// Actor is a mobile collider approximated by a sphere: the player, NPCs and physics props.
type Actor struct {
	Kind Kind

	Position mgl64.Vec3
	// Velocity is the displacement applied each step, not a per-second rate
	Velocity mgl64.Vec3

	Radius float64
	Height float64
	// Weight splits the separation between two overlapping actors; heavier moves less
	Weight float64

	// ClimbHeight is the tallest step up a grounded actor may take
	ClimbHeight float64
	// GroundOffset is the height of Position above the ground for non-player actors
	GroundOffset float64

	OnGround bool
	// Immobile actors are neither integrated nor pulled by gravity
	Immobile bool
	Dead     bool

	// HitSpheres are the named body parts tested by projectiles, offset from Position
	HitSpheres []HitSphere

	// Entity is the owning game object
	Entity any

	airborne bool
	fallPeak float64
	stride   float64
}

// New creates a grounded actor
func New(kind Kind, position mgl64.Vec3, radius, height, weight float64) *Actor {
	return &Actor{
		Kind:     kind,
		Position: position,
		Radius:   radius,
		Height:   height,
		Weight:   weight,
		OnGround: true,
	}
}

func (a *Actor) IsPlayer() bool {
	return a.Kind == KindPlayer
}

func (a *Actor) IsImmovable() bool {
	return math.IsInf(a.Weight, 1)
}

// Valid reports whether the actor can take part in resolution
func (a *Actor) Valid() bool {
	if a == nil || !(a.Radius > 0) || math.IsInf(a.Radius, 0) {
		return false
	}
	for _, v := range a.Position {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	for _, v := range a.Velocity {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// Collides reports whether the actor takes part in actor-actor resolution
func (a *Actor) Collides() bool {
	return !a.Dead && a.Valid()
}

// Integrate advances the horizontal position by the velocity and returns the distance covered.
// Vertical motion belongs to the gravity phase.
func (a *Actor) Integrate() float64 {
	if a.Immobile {
		return 0
	}

	a.Position[0] += a.Velocity[0]
	a.Position[2] += a.Velocity[2]

	return math.Hypot(a.Velocity[0], a.Velocity[2])
}

// BoundingRadius is the radius of the sphere enclosing the whole body and every hit sphere,
// centered on Position
func (a *Actor) BoundingRadius() float64 {
	r := math.Max(a.Radius, a.Height/2)
	for _, part := range a.HitSpheres {
		r = math.Max(r, part.Offset.Len()+part.Radius)
	}
	return r
}

// GroundClearance is how far above the ground the actor's Position rests
func (a *Actor) GroundClearance() float64 {
	if a.IsPlayer() {
		return a.Height / 2
	}
	return a.GroundOffset
}

// LeaveGround marks the start of a fall, remembering the height it started from
func (a *Actor) LeaveGround() {
	if !a.airborne {
		a.airborne = true
		a.fallPeak = a.Position.Y()
	}
	a.OnGround = false
}

// TrackAirborne raises the remembered fall start while the actor is still climbing (e.g. a jump)
func (a *Actor) TrackAirborne() {
	if a.airborne && a.Position.Y() > a.fallPeak {
		a.fallPeak = a.Position.Y()
	}
}

// Airborne reports whether a fall is being tracked
func (a *Actor) Airborne() bool {
	return a.airborne
}

// Land flags the actor as grounded. The fall distance is only reported on the first landing
// after LeaveGround, so a long fall produces exactly one landing.
func (a *Actor) Land() (fall float64, landed bool) {
	a.OnGround = true
	if !a.airborne {
		return 0, false
	}

	a.airborne = false
	return math.Max(a.fallPeak-a.Position.Y(), 0), true
}

// AdvanceStride accumulates walked distance and reports when a full stride has been covered
func (a *Actor) AdvanceStride(distance, stride float64) bool {
	if stride <= 0 || !a.OnGround {
		return false
	}

	a.stride += distance
	if a.stride < stride {
		return false
	}
	a.stride = math.Mod(a.stride, stride)
	return true
}
