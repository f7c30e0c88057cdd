package main

import (
	physics "github.com/gitchub12/gonk12new-sub000"
	"github.com/gitchub12/gonk12new-sub000/actor"
)

// Snapshot is the state streamed to debug viewers after every step
type Snapshot struct {
	Type        string          `json:"type"`
	Step        int             `json:"step"`
	Actors      []ActorState    `json:"actors"`
	Projectiles []ProjectileRef `json:"projectiles"`
	Ragdolls    int             `json:"ragdolls"`
	Fragments   int             `json:"fragments"`
	Events      []string        `json:"events,omitempty"`
}

type ActorState struct {
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Velocity [3]float64 `json:"velocity"`
	OnGround bool       `json:"onGround"`
}

type ProjectileRef struct {
	ID       uint64     `json:"id"`
	Position [3]float64 `json:"position"`
	Stuck    bool       `json:"stuck"`
}

func takeSnapshot(w *physics.World, step int, events []string) Snapshot {
	s := Snapshot{
		Type:        "state",
		Step:        step,
		Actors:      make([]ActorState, 0, len(w.Actors)),
		Projectiles: make([]ProjectileRef, 0, len(w.Projectiles)),
		Ragdolls:    w.Ragdolls.Len(),
		Fragments:   w.Ragdolls.FragmentCount(),
		Events:      events,
	}

	for _, a := range w.Actors {
		// NaN and Inf have no JSON encoding
		if !a.Valid() {
			continue
		}
		s.Actors = append(s.Actors, ActorState{
			Name:     nameOf(a),
			Kind:     a.Kind.String(),
			Position: a.Position,
			Velocity: a.Velocity,
			OnGround: a.OnGround,
		})
	}
	for _, p := range w.Projectiles {
		s.Projectiles = append(s.Projectiles, ProjectileRef{ID: p.ID, Position: p.Position, Stuck: p.Stuck})
	}

	return s
}

func nameOf(a *actor.Actor) string {
	if e, ok := a.Entity.(*entity); ok {
		return e.Name
	}
	return a.Kind.String()
}

// eventLog collects the names of the events sent during one step
type eventLog struct {
	names []string
}

func (l *eventLog) subscribe(events *physics.Events) {
	for t := physics.COLLISION_ENTER; t <= physics.RAGDOLL_EXPIRE; t++ {
		// Stay events fire every step while touching; the viewer only wants transitions
		if t == physics.COLLISION_STAY {
			continue
		}
		events.Subscribe(t, func(e physics.Event) {
			l.names = append(l.names, e.Type().String())
		})
	}
}

func (l *eventLog) drain() []string {
	out := l.names
	l.names = nil
	return out
}
