package physics

import (
	"log/slog"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/projectile"
)

// SpawnProjectile adds a flying projectile. A zero lifetime is replaced by the tuned one.
func (w *World) SpawnProjectile(p *projectile.Projectile) *projectile.Projectile {
	if p == nil {
		return nil
	}

	w.nextProjectileID++
	p.ID = w.nextProjectileID
	if p.Lifetime <= 0 {
		p.Lifetime = w.Tuning.Projectile.Lifetime
	}
	w.Projectiles = append(w.Projectiles, p)
	return p
}

// RemoveProjectile removes a projectile, flying or stuck, and disposes its visual
func (w *World) RemoveProjectile(p *projectile.Projectile) bool {
	for i, existing := range w.Projectiles {
		if existing == p {
			w.Projectiles = append(w.Projectiles[:i], w.Projectiles[i+1:]...)
			p.Dispose()
			return true
		}
	}
	return false
}

// resolveProjectiles moves every flying projectile and tests it, in order, against walls,
// the deflection hook, actors, spawn points and pickups. The first hit consumes the projectile
// unless it embeds. Stuck projectiles are left alone.
func (w *World) resolveProjectiles(live []*actor.Actor) {
	n := 0
	for _, p := range w.Projectiles {
		if w.resolveProjectile(p, live) {
			w.Projectiles[n] = p
			n++
			continue
		}
		p.Dispose()
	}
	clear(w.Projectiles[n:])
	w.Projectiles = w.Projectiles[:n]
}

// resolveProjectile returns false once the projectile is consumed or expired
func (w *World) resolveProjectile(p *projectile.Projectile, live []*actor.Actor) bool {
	if p.Stuck {
		return true
	}

	p.Integrate()
	if !p.Valid() {
		w.Logger.Warn("dropping malformed projectile", slog.Uint64("id", p.ID), slog.Any("position", p.Position))
		return false
	}

	// A projectile on its last step still hits what it reaches
	if !w.collideProjectile(p, live) {
		return false
	}
	if p.Stuck {
		return true
	}

	p.Lifetime--
	return p.Lifetime > 0
}

// collideProjectile runs the hit tests in order and returns false once the projectile is consumed
func (w *World) collideProjectile(p *projectile.Projectile, live []*actor.Actor) bool {
	// (a) static colliders
	for _, c := range w.Colliders.Query(bounds.AABBForSphere(p.Position, p.Radius), false) {
		if !c.Shape.IntersectsSphere(p.Position, p.Radius) {
			continue
		}
		return w.impact(p, ProjectileImpactEvent{Target: ImpactWall, Collider: c}, c.Owner)
	}

	// (b) a defender sends it back, once; it flies on next step
	if w.Deflect != nil && !p.Reflected && w.Deflect(p) {
		p.Reflected = true
		w.Events.emit(ProjectileImpactEvent{Projectile: p, Target: ImpactDeflected, Position: p.Position})
		return true
	}

	// (c) actors: bounding sphere first, then the named hit spheres
	for _, a := range live {
		if !p.CanHit(a) {
			continue
		}
		r := a.BoundingRadius() + p.Radius
		if d := p.Position.Sub(a.Position); d.Dot(d) > r*r {
			continue
		}
		part, ok := a.HitTest(p.Position, p.Radius)
		if !ok {
			continue
		}

		damage := p.Damage * part.DamageMultiplier
		if d, ok := a.Entity.(Damageable); ok {
			d.ApplyDamage(damage, p.Owner)
		}
		return w.impact(p, ProjectileImpactEvent{Target: ImpactActor, Actor: a, Part: part.Name, Damage: damage}, a.Entity)
	}

	// (d) destructible spawn points
	if p.CanHitSpawnPoint() {
		for _, sp := range w.SpawnPoints {
			if sp.Destroyed || !sp.Volume.IntersectsSphere(p.Position, p.Radius) {
				continue
			}
			if d, ok := sp.Entity.(Damageable); ok {
				d.ApplyDamage(p.Damage, p.Owner)
			}
			return w.impact(p, ProjectileImpactEvent{Target: ImpactSpawnPoint, SpawnPoint: sp, Damage: p.Damage}, sp.Entity)
		}
	}

	// (e) pickups, by distance between centers
	for _, pk := range w.Pickups {
		r := pk.Radius + p.Radius
		if p.Position.Sub(pk.Position).Len() >= r {
			continue
		}
		if d, ok := pk.Entity.(Damageable); ok {
			d.ApplyDamage(p.Damage, p.Owner)
		}
		return w.impact(p, ProjectileImpactEvent{Target: ImpactPickup, Pickup: pk, Damage: p.Damage}, pk.Entity)
	}

	return true
}

// impact reports a hit and either embeds the projectile in target or consumes it
func (w *World) impact(p *projectile.Projectile, event ProjectileImpactEvent, target any) bool {
	if p.Embeds {
		p.Stick(target)
	}

	event.Projectile = p
	event.Position = p.Position
	event.Stuck = p.Stuck
	w.Events.emit(event)
	return p.Stuck
}
