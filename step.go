package physics

import (
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/go-gl/mathgl/mgl64"
)

// groundSlack absorbs rounding when comparing an actor snapped to the ground with its target height
const groundSlack = 1e-6

// Step advances the simulation by one frame of dt seconds. Phases run in a fixed order, each one
// working on the positions corrected by the previous ones:
// integration, actor-actor, actor-wall, gravity and ground, ragdolls, projectiles, publication.
// Listeners are notified once every phase is done.
func (w *World) Step(dt float64, input Input, camera Camera) {
	w.Workers = max(DEFAULT_WORKERS, w.Workers)
	w.checkHeightField()

	live := w.liveActors()

	// Phase 1: horizontal integration, player input and climb checks
	w.integrate(dt, input, live)

	// Phase 2: push overlapping actors apart
	w.resolveActors(live)

	// Phase 3: push actors out of the static colliders
	supported := w.resolveWalls(live)

	// Phase 4: vertical integration against the height field
	w.applyGravity(live, supported)

	// Phase 5: ragdoll fragments
	w.updateRagdolls()

	// Phase 6: projectiles
	w.resolveProjectiles(live)

	// Phase 7: hand the resolved positions back to the game
	w.publish(live, camera)

	w.Events.flush()
}

func (w *World) integrate(dt float64, input Input, live []*actor.Actor) {
	for _, a := range live {
		if a.Immobile {
			continue
		}

		if a == w.Player {
			w.applyInput(dt, input)
		}
		if a.OnGround {
			w.limitClimb(a)
		}

		distance := a.Integrate()
		if a == w.Player && distance > 0 && a.AdvanceStride(distance, w.Tuning.Player.FootstepStride) {
			w.Events.emit(FootstepEvent{Actor: a, Position: a.Position})
		}
	}
}

// applyInput turns the player's intent into this step's velocity
func (w *World) applyInput(dt float64, input Input) {
	p := w.Player

	move := input.Move
	if l := move.Len(); l > 1 {
		move = move.Mul(1 / l)
	}
	speed := w.Tuning.Player.Speed * dt
	if input.Sprint {
		speed *= w.Tuning.Player.SprintMultiplier
	}
	p.Velocity[0] = move.X() * speed
	p.Velocity[2] = move.Y() * speed

	if input.Jump && p.OnGround {
		p.LeaveGround()
		p.Velocity[1] = w.Tuning.Player.JumpVelocity
	}
}

// limitClimb cancels horizontal moves onto terrain higher than the actor can step.
// The player stops outright; other actors first try sliding along X, then along Z.
func (w *World) limitClimb(a *actor.Actor) {
	dx, dz := a.Velocity.X(), a.Velocity.Z()
	if dx == 0 && dz == 0 || w.canStep(a, dx, dz) {
		return
	}

	switch {
	case a.IsPlayer():
		dx, dz = 0, 0
	case dx != 0 && w.canStep(a, dx, 0):
		dz = 0
	case dz != 0 && w.canStep(a, 0, dz):
		dx = 0
	default:
		dx, dz = 0, 0
	}
	a.Velocity[0], a.Velocity[2] = dx, dz
}

func (w *World) canStep(a *actor.Actor, dx, dz float64) bool {
	from := w.HeightField.Height(a.Position.X(), a.Position.Z())
	to := w.HeightField.Height(a.Position.X()+dx, a.Position.Z()+dz)
	return to-from <= a.ClimbHeight
}

// applyGravity integrates the vertical motion of every mobile actor and snaps it to the ground.
// Actors held up by a collider this step are not considered to be leaving the ground.
func (w *World) applyGravity(live []*actor.Actor, supported []bool) {
	for i, a := range live {
		if a.Immobile {
			continue
		}

		target := w.HeightField.Height(a.Position.X(), a.Position.Z()) + a.GroundClearance()
		if !supported[i] && a.Position.Y() > target+groundSlack {
			a.LeaveGround()
		}

		gravity := w.Tuning.Gravity.Actor
		if a.IsPlayer() {
			gravity = w.Tuning.Gravity.Player
		}
		a.Velocity[1] -= gravity
		a.Position[1] += a.Velocity[1]
		a.TrackAirborne()

		if a.Position.Y() > target {
			continue
		}

		a.Position[1] = target
		if a.Velocity.Y() < 0 {
			a.Velocity[1] = 0
		}
		if fall, landed := a.Land(); landed {
			w.landed(a, fall)
		}
	}
}

// landed reports a finished fall. Only the player takes fall damage.
func (w *World) landed(a *actor.Actor, fall float64) {
	w.Events.emit(LandedEvent{Actor: a, Fall: fall})

	threshold := w.Tuning.FallDamageThreshold()
	if !a.IsPlayer() || fall <= threshold {
		return
	}

	damage := (fall - threshold) * w.Tuning.Ground.FallDamagePerUnit
	if d, ok := a.Entity.(Damageable); ok {
		d.ApplyDamage(damage, nil)
	}
	w.Events.emit(FallDamageEvent{Actor: a, Fall: fall, Damage: damage})
}

func (w *World) updateRagdolls() {
	w.Ragdolls.Workers = w.Workers
	for _, r := range w.Ragdolls.Update(w.HeightField) {
		w.Events.emit(RagdollExpireEvent{Ragdoll: r})
	}
}

func (w *World) publish(live []*actor.Actor, camera Camera) {
	for _, a := range live {
		if p, ok := a.Entity.(Positioner); ok {
			p.SetPosition(a.Position)
		}
	}

	if camera != nil {
		camera.SetPosition(w.Player.Position.Add(mgl64.Vec3{0, w.Tuning.Player.EyeOffset, 0}))
	}
}
