package physics

import (
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/collider"
	"github.com/gitchub12/gonk12new-sub000/projectile"
	"github.com/gitchub12/gonk12new-sub000/ragdoll"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	COLLISION_ENTER EventType = iota
	COLLISION_STAY
	COLLISION_EXIT
	LANDED
	FALL_DAMAGE
	FOOTSTEP
	PROJECTILE_IMPACT
	RAGDOLL_SPAWN
	RAGDOLL_EXPIRE
)

type EventType uint8

func (t EventType) String() string {
	switch t {
	case COLLISION_ENTER:
		return "collision_enter"
	case COLLISION_STAY:
		return "collision_stay"
	case COLLISION_EXIT:
		return "collision_exit"
	case LANDED:
		return "landed"
	case FALL_DAMAGE:
		return "fall_damage"
	case FOOTSTEP:
		return "footstep"
	case PROJECTILE_IMPACT:
		return "projectile_impact"
	case RAGDOLL_SPAWN:
		return "ragdoll_spawn"
	case RAGDOLL_EXPIRE:
		return "ragdoll_expire"
	}
	return "unknown"
}

// Event interface - all events implement this
type Event interface {
	Type() EventType
}

// Actor-wall contact events
type CollisionEnterEvent struct {
	Actor    *actor.Actor
	Collider *collider.Collider
}

func (e CollisionEnterEvent) Type() EventType { return COLLISION_ENTER }

type CollisionStayEvent struct {
	Actor    *actor.Actor
	Collider *collider.Collider
}

func (e CollisionStayEvent) Type() EventType { return COLLISION_STAY }

type CollisionExitEvent struct {
	Actor    *actor.Actor
	Collider *collider.Collider
}

func (e CollisionExitEvent) Type() EventType { return COLLISION_EXIT }

// LandedEvent is sent once per fall, when an airborne actor touches the ground again
type LandedEvent struct {
	Actor *actor.Actor
	Fall  float64
}

func (e LandedEvent) Type() EventType { return LANDED }

// FallDamageEvent is sent when the player lands from higher than the fall damage threshold
type FallDamageEvent struct {
	Actor  *actor.Actor
	Fall   float64
	Damage float64
}

func (e FallDamageEvent) Type() EventType { return FALL_DAMAGE }

type FootstepEvent struct {
	Actor    *actor.Actor
	Position mgl64.Vec3
}

func (e FootstepEvent) Type() EventType { return FOOTSTEP }

// ImpactTarget tells what a projectile hit
type ImpactTarget uint8

const (
	ImpactWall ImpactTarget = iota
	ImpactDeflected
	ImpactActor
	ImpactSpawnPoint
	ImpactPickup
)

func (t ImpactTarget) String() string {
	switch t {
	case ImpactWall:
		return "wall"
	case ImpactDeflected:
		return "deflected"
	case ImpactActor:
		return "actor"
	case ImpactSpawnPoint:
		return "spawn_point"
	case ImpactPickup:
		return "pickup"
	}
	return "unknown"
}

// ProjectileImpactEvent describes one projectile hit. Only the field matching Target is set.
type ProjectileImpactEvent struct {
	Projectile *projectile.Projectile
	Target     ImpactTarget
	Position   mgl64.Vec3

	Collider   *collider.Collider
	Actor      *actor.Actor
	Part       string
	SpawnPoint *SpawnPoint
	Pickup     *Pickup

	Damage float64
	Stuck  bool
}

func (e ProjectileImpactEvent) Type() EventType { return PROJECTILE_IMPACT }

type RagdollSpawnEvent struct {
	Ragdoll *ragdoll.Ragdoll
	Evicted []*ragdoll.Ragdoll
}

func (e RagdollSpawnEvent) Type() EventType { return RAGDOLL_SPAWN }

type RagdollExpireEvent struct {
	Ragdoll *ragdoll.Ragdoll
}

func (e RagdollExpireEvent) Type() EventType { return RAGDOLL_EXPIRE }

// EventListener - callback for events
type EventListener func(event Event)

type pairKey struct {
	actor    *actor.Actor
	collider collider.Handle
}

type contactPair struct {
	actor    *actor.Actor
	collider *collider.Collider
}

func (p contactPair) key() pairKey {
	return pairKey{actor: p.actor, collider: p.collider.Handle}
}

// Events buffers what happens during a step and hands it to the listeners when the step ends,
// in the order it happened.
type Events struct {
	// Listeners by event type
	listeners map[EventType][]EventListener

	// Event buffer to send at flush
	buffer []Event

	// Contact tracking for Enter/Stay/Exit detection, kept in detection order
	previousPairs []contactPair
	currentPairs  []contactPair
	previousSet   map[pairKey]bool
	currentSet    map[pairKey]bool
}

func NewEvents() Events {
	return Events{
		listeners:   make(map[EventType][]EventListener),
		buffer:      make([]Event, 0, 256),
		previousSet: make(map[pairKey]bool),
		currentSet:  make(map[pairKey]bool),
	}
}

// Subscribe adds a listener for an event type
func (e *Events) Subscribe(eventType EventType, listener EventListener) {
	e.listeners[eventType] = append(e.listeners[eventType], listener)
}

func (e *Events) emit(event Event) {
	e.buffer = append(e.buffer, event)
}

// recordContact marks an actor-wall pair as touching during the current step
func (e *Events) recordContact(a *actor.Actor, c *collider.Collider) {
	pair := contactPair{actor: a, collider: c}
	if e.currentSet[pair.key()] {
		return
	}
	e.currentSet[pair.key()] = true
	e.currentPairs = append(e.currentPairs, pair)
}

// processCollisionEvents compares current and previous pairs to detect Enter/Stay/Exit
func (e *Events) processCollisionEvents() {
	for _, pair := range e.currentPairs {
		if e.previousSet[pair.key()] {
			e.buffer = append(e.buffer, CollisionStayEvent{Actor: pair.actor, Collider: pair.collider})
		} else {
			e.buffer = append(e.buffer, CollisionEnterEvent{Actor: pair.actor, Collider: pair.collider})
		}
	}

	for _, pair := range e.previousPairs {
		if !e.currentSet[pair.key()] {
			e.buffer = append(e.buffer, CollisionExitEvent{Actor: pair.actor, Collider: pair.collider})
		}
	}

	// Swap for next frame and clear current
	clear(e.previousPairs)
	e.previousPairs, e.currentPairs = e.currentPairs, e.previousPairs[:0]
	e.previousSet, e.currentSet = e.currentSet, e.previousSet
	clear(e.currentSet)
}

// forget drops the contact tracking of a removed actor, so no exit event is sent for it
func (e *Events) forget(a *actor.Actor) {
	e.previousPairs = dropActor(e.previousPairs, e.previousSet, a)
	e.currentPairs = dropActor(e.currentPairs, e.currentSet, a)
}

func dropActor(pairs []contactPair, set map[pairKey]bool, a *actor.Actor) []contactPair {
	n := 0
	for _, pair := range pairs {
		if pair.actor == a {
			delete(set, pair.key())
			continue
		}
		pairs[n] = pair
		n++
	}
	clear(pairs[n:])
	return pairs[:n]
}

// reset forgets every tracked contact and pending event, as when a level unloads
func (e *Events) reset() {
	clear(e.previousPairs)
	clear(e.currentPairs)
	e.previousPairs = e.previousPairs[:0]
	e.currentPairs = e.currentPairs[:0]
	clear(e.previousSet)
	clear(e.currentSet)
	clear(e.buffer)
	e.buffer = e.buffer[:0]
}

// flush sends all buffered events and clears the buffer
func (e *Events) flush() {
	e.processCollisionEvents()

	// Listeners may emit while being notified; those events wait for the next flush
	pending := e.buffer
	e.buffer = make([]Event, 0, cap(pending))
	for _, event := range pending {
		if listeners, ok := e.listeners[event.Type()]; ok {
			for _, listener := range listeners {
				listener(event)
			}
		}
	}
}
