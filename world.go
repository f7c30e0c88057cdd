// Package physics is the collision and movement-resolution core of the game.
//
// A World owns the static colliders of a level, its height field, the mobile actors, the ragdoll pool
// and the live projectiles. The game loop sets actor velocities, calls Step once per frame and reads
// back the resolved positions; every mutation goes through the World.
package physics

import (
	"log/slog"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/collider"
	"github.com/gitchub12/gonk12new-sub000/config"
	"github.com/gitchub12/gonk12new-sub000/heightfield"
	"github.com/gitchub12/gonk12new-sub000/projectile"
	"github.com/gitchub12/gonk12new-sub000/ragdoll"
	"github.com/go-gl/mathgl/mgl64"
)

const DEFAULT_WORKERS = 1

// PlayerWeight is the push-apart weight of the player actor built by NewWorld
const PlayerWeight = 100

// Damageable receives damage from falls and projectiles
type Damageable interface {
	ApplyDamage(amount float64, source any)
}

// Positioner receives the resolved position of an actor at the end of each step
type Positioner interface {
	SetPosition(position mgl64.Vec3)
}

// Camera follows the player's eye
type Camera interface {
	SetPosition(position mgl64.Vec3)
}

// Interactable is anything the player can use: doors, terminals, NPCs, furniture
type Interactable interface {
	InteractionPoint() mgl64.Vec3
	// Interact activates the object and reports whether something happened
	Interact() bool
}

// Input is the player's intent for one step
type Input struct {
	// Move is the wished direction on the ground plane, X then Z; longer than one is normalized
	Move   mgl64.Vec2
	Sprint bool
	Jump   bool
}

// SpawnPoint is a destructible enemy spawner hit by player-side projectiles
type SpawnPoint struct {
	Volume    bounds.AABB
	Entity    any
	Destroyed bool
}

// Pickup is an item lying in the level that projectiles can hit
type Pickup struct {
	Position mgl64.Vec3
	Radius   float64
	Entity   any
}

type World struct {
	Tuning config.Tuning

	Colliders   *collider.Registry
	HeightField *heightfield.HeightField
	// Actors in registration order; the player is always first
	Actors []*actor.Actor
	Player *actor.Actor

	Ragdolls      *ragdoll.Pool
	Projectiles   []*projectile.Projectile
	SpawnPoints   []*SpawnPoint
	Pickups       []*Pickup
	Interactables []Interactable

	// Deflect lets a defender reflect a flying projectile before it reaches the actors.
	// It returns true when the projectile was reflected.
	Deflect func(p *projectile.Projectile) bool

	Workers int
	// Strict turns programming errors, such as stepping a loaded level without a height field, into panics
	Strict bool
	Logger *slog.Logger

	Events Events

	nextProjectileID  uint64
	warned            map[*actor.Actor]bool
	missingHeightWarn bool
}

// NewWorld creates an empty world around the permanent player actor.
// A nil player is built from the tuning, standing on the origin.
func NewWorld(tuning config.Tuning, player *actor.Actor, scene ragdoll.Scene, logger *slog.Logger) *World {
	if logger == nil {
		logger = slog.Default()
	}
	if player == nil {
		player = actor.New(actor.KindPlayer, mgl64.Vec3{0, tuning.Player.Height / 2, 0},
			tuning.Player.Radius, tuning.Player.Height, PlayerWeight)
		player.ClimbHeight = tuning.Player.ClimbHeight
	}

	return &World{
		Tuning:    tuning,
		Colliders: collider.NewRegistry(tuning.Collision.GridCellSize, tuning.Collision.MinHalfExtent, logger),
		Actors:    []*actor.Actor{player},
		Player:    player,
		Ragdolls:  ragdoll.NewPool(tuning.Ragdoll, tuning.Gravity.Ragdoll, scene, nil),
		Workers:   DEFAULT_WORKERS,
		Logger:    logger,
		Events:    NewEvents(),
		warned:    make(map[*actor.Actor]bool),
	}
}

// SetTuning swaps the tuning between two steps. An invalid tuning is rejected and the current one kept.
// The player's size follows the new tuning; the next step snaps it back onto the ground.
// The broad-phase cell size only applies to worlds created afterwards.
func (w *World) SetTuning(t config.Tuning) error {
	if err := t.Validate(); err != nil {
		return err
	}

	w.Tuning = t
	w.Ragdolls.Tuning = t.Ragdoll
	w.Ragdolls.Gravity = t.Gravity.Ragdoll
	w.Player.ClimbHeight = t.Player.ClimbHeight
	w.Player.Radius = t.Player.Radius
	w.Player.Height = t.Player.Height
	w.Logger.Info("tuning applied",
		slog.Float64("player_speed", t.Player.Speed),
		slog.Float64("fall_damage_threshold", t.FallDamageThreshold()))
	return nil
}

// InitHeightField (re)builds the ground grid from row-major elevations (index z*width + x)
func (w *World) InitHeightField(width, depth int, elevations []float64) {
	w.HeightField = heightfield.New(width, depth, w.Tuning.Ground.CellSize, elevations)
	w.missingHeightWarn = false
}

// GroundHeight returns the ground elevation under a world position, zero outside the grid
func (w *World) GroundHeight(x, z float64) float64 {
	return w.HeightField.Height(x, z)
}

// RegisterStaticCollider adds a level obstacle built from its world-space box
func (w *World) RegisterStaticCollider(box bounds.OBB, oriented bool, owner any) collider.Handle {
	return w.Colliders.Register(box, oriented, owner)
}

// SetColliderActive opens or closes a collider, e.g. a door panel
func (w *World) SetColliderActive(h collider.Handle, active bool) bool {
	return w.Colliders.SetActive(h, active)
}

// SetOwnerActive opens or closes every collider registered for an owner, e.g. both panels of a double door.
// It returns how many colliders were toggled.
func (w *World) SetOwnerActive(owner any, active bool) int {
	return w.Colliders.SetOwnerActive(owner, active)
}

// RefreshCollider rebuilds a collider after its owner moved
func (w *World) RefreshCollider(h collider.Handle, box bounds.OBB) bool {
	return w.Colliders.Refresh(h, box)
}

// RegisterActor adds a mobile actor. Registering the same actor twice has no effect.
func (w *World) RegisterActor(a *actor.Actor) {
	if a == nil {
		return
	}
	for _, existing := range w.Actors {
		if existing == a {
			return
		}
	}
	w.Actors = append(w.Actors, a)
}

// RemoveActor removes an actor, e.g. when its entity is destroyed. The player cannot be removed.
func (w *World) RemoveActor(a *actor.Actor) bool {
	if a == nil || a == w.Player {
		return false
	}

	k := -1
	for i, existing := range w.Actors {
		if existing == a {
			k = i
			break
		}
	}
	if k == -1 {
		return false
	}

	w.Actors = append(w.Actors[:k], w.Actors[k+1:]...)
	w.Events.forget(a)
	delete(w.warned, a)
	return true
}

// SpawnRagdoll replaces a dying character with loose fragments. The spawn event is sent at the
// end of the next step.
func (w *World) SpawnRagdoll(c ragdoll.Character, velocity mgl64.Vec3) *ragdoll.Ragdoll {
	spawned, evicted := w.Ragdolls.Spawn(c, velocity)
	for _, r := range evicted {
		w.Logger.Debug("ragdoll evicted", slog.Uint64("id", r.ID))
	}
	if spawned == nil {
		return nil
	}

	w.Events.emit(RagdollSpawnEvent{Ragdoll: spawned, Evicted: evicted})
	return spawned
}

// RegisterInteractable adds something the player can use
func (w *World) RegisterInteractable(i Interactable) {
	w.Interactables = append(w.Interactables, i)
}

// RegisterSpawnPoint adds a destructible spawner volume
func (w *World) RegisterSpawnPoint(volume bounds.AABB, entity any) *SpawnPoint {
	sp := &SpawnPoint{Volume: volume, Entity: entity}
	w.SpawnPoints = append(w.SpawnPoints, sp)
	return sp
}

func (w *World) RegisterPickup(position mgl64.Vec3, radius float64, entity any) *Pickup {
	p := &Pickup{Position: position, Radius: radius, Entity: entity}
	w.Pickups = append(w.Pickups, p)
	return p
}

// RemovePickup removes a collected pickup
func (w *World) RemovePickup(p *Pickup) bool {
	for i, existing := range w.Pickups {
		if existing == p {
			w.Pickups = append(w.Pickups[:i], w.Pickups[i+1:]...)
			return true
		}
	}
	return false
}

// Clear releases the level: colliders, height field, non-player actors, ragdolls, projectiles,
// spawn points, pickups and interactables. Only the player remains.
func (w *World) Clear() {
	w.Colliders.Clear()
	w.HeightField = nil
	w.missingHeightWarn = false

	clear(w.Actors)
	w.Actors = append(w.Actors[:0], w.Player)
	clear(w.warned)

	w.Ragdolls.Clear()
	for _, p := range w.Projectiles {
		p.Dispose()
	}
	w.Projectiles = nil
	w.SpawnPoints = nil
	w.Pickups = nil
	w.Interactables = nil

	w.Events.reset()
}

// loaded reports whether level content has been registered
func (w *World) loaded() bool {
	return w.Colliders.Len() > 0 || len(w.Actors) > 1
}

// checkHeightField guards against stepping a loaded level whose height field was never built.
// Release builds carry on with a flat ground at zero.
func (w *World) checkHeightField() {
	if w.HeightField != nil || !w.loaded() {
		return
	}
	if w.Strict {
		panic("physics: Step on a loaded level before InitHeightField")
	}
	if !w.missingHeightWarn {
		w.missingHeightWarn = true
		w.Logger.Error("stepping a loaded level without a height field, ground is flat at zero",
			slog.Int("colliders", w.Colliders.Len()),
			slog.Int("actors", len(w.Actors)))
	}
}

// liveActors returns the actors taking part in this step. Malformed ones are skipped and
// reported once.
func (w *World) liveActors() []*actor.Actor {
	live := make([]*actor.Actor, 0, len(w.Actors))
	for _, a := range w.Actors {
		if a.Valid() {
			delete(w.warned, a)
			live = append(live, a)
			continue
		}
		if !w.warned[a] {
			w.warned[a] = true
			w.Logger.Warn("skipping malformed actor",
				slog.String("kind", a.Kind.String()),
				slog.Any("position", a.Position),
				slog.Float64("radius", a.Radius))
		}
	}
	return live
}
