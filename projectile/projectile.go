// Package projectile describes the bullets, bolts and leaflets resolved by the world each step.
package projectile

import (
	"math"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// OwnerKind is the side that fired a projectile; it decides who the projectile may hit
type OwnerKind int

const (
	OwnerPlayer OwnerKind = iota
	OwnerAlly
	OwnerEnemy
	// OwnerSpecial projectiles hit every actor except their owner
	OwnerSpecial
)

func (k OwnerKind) String() string {
	switch k {
	case OwnerPlayer:
		return "player"
	case OwnerAlly:
		return "ally"
	case OwnerEnemy:
		return "enemy"
	case OwnerSpecial:
		return "special"
	}
	return "unknown"
}

// Disposer frees the visual of a projectile once it is removed
type Disposer interface {
	Dispose()
}

// Projectile is a small sphere moving at a constant per-step velocity
type Projectile struct {
	ID       uint64
	Position mgl64.Vec3
	Velocity mgl64.Vec3
	Radius   float64

	// Owner is the entity that fired the projectile, compared against actor.Actor.Entity
	Owner     any
	OwnerKind OwnerKind
	Damage    float64

	// Embeds projectiles get stuck where they hit instead of vanishing
	Embeds bool
	Stuck  bool
	// StuckTo is the collider owner or actor entity the projectile is embedded in
	StuckTo any
	// Reflected projectiles were sent back by a defender and cannot be reflected again
	Reflected bool

	// Lifetime is the number of steps a flying projectile has left
	Lifetime int
	Visual   Disposer
}

// New creates a flying projectile
func New(position, velocity mgl64.Vec3, radius, damage float64, owner any, kind OwnerKind) *Projectile {
	return &Projectile{
		Position:  position,
		Velocity:  velocity,
		Radius:    radius,
		Damage:    damage,
		Owner:     owner,
		OwnerKind: kind,
	}
}

// Integrate advances a flying projectile. Stuck projectiles never move.
func (p *Projectile) Integrate() {
	if p.Stuck {
		return
	}
	p.Position = p.Position.Add(p.Velocity)
}

// Valid reports whether the projectile has a finite position and velocity and a usable radius
func (p *Projectile) Valid() bool {
	if !(p.Radius >= 0) || math.IsInf(p.Radius, 0) {
		return false
	}
	for i := 0; i < 3; i++ {
		if math.IsNaN(p.Position[i]) || math.IsInf(p.Position[i], 0) ||
			math.IsNaN(p.Velocity[i]) || math.IsInf(p.Velocity[i], 0) {
			return false
		}
	}
	return true
}

// Stick embeds the projectile in target at its current position
func (p *Projectile) Stick(target any) {
	p.Stuck = true
	p.StuckTo = target
	p.Velocity = mgl64.Vec3{}
}

// Reflect sends the projectile back towards where it came from, now fired by defender.
// It returns false when the projectile was already reflected once.
func (p *Projectile) Reflect(defender any, kind OwnerKind) bool {
	if p.Reflected || p.Stuck {
		return false
	}

	p.Reflected = true
	p.Velocity = p.Velocity.Mul(-1)
	p.Owner = defender
	p.OwnerKind = kind
	return true
}

// CanHit reports whether the projectile may damage the actor
func (p *Projectile) CanHit(a *actor.Actor) bool {
	if a == nil || a.Dead || !a.Valid() {
		return false
	}
	if p.Owner != nil && a.Entity == p.Owner {
		return false
	}

	switch p.OwnerKind {
	case OwnerPlayer, OwnerAlly:
		return a.Kind != actor.KindPlayer && a.Kind != actor.KindAlly
	case OwnerEnemy:
		return a.Kind != actor.KindEnemy
	}

	return true
}

// CanHitSpawnPoint reports whether the projectile damages destructible spawn points
func (p *Projectile) CanHitSpawnPoint() bool {
	return p.OwnerKind == OwnerPlayer || p.OwnerKind == OwnerAlly
}

// Dispose frees the visual; it is safe to call more than once
func (p *Projectile) Dispose() {
	if p.Visual != nil {
		p.Visual.Dispose()
		p.Visual = nil
	}
}
