package main

import (
	"encoding/json"
	"io"
	"math"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	physics "github.com/gitchub12/gonk12new-sub000"
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/config"
	"github.com/gitchub12/gonk12new-sub000/projectile"
)

const corridor = `
name: corridor
height_field:
  width: 2
  depth: 2
  elevations: [0, 0, 0, 0]
player:
  position: [-4, 0.9, 0]
input:
  move: [0, 1]
colliders:
  - name: wall
    center: [1, 1, 0]
    half_extents: [0.2, 1, 1]
  - name: door
    center: [3, 1, 0]
    half_extents: [0.1, 1, 1]
    yaw: 90
    inactive: true
actors:
  - name: guard
    kind: enemy
    position: [4, 1, 4]
    radius: 0.5
    weight: 80
  - name: pillar
    kind: neutral
    position: [-2, 1, -2]
    radius: 1
    immovable: true
projectiles:
  - position: [0, 1, 0]
    velocity: [0.5, 0, 0]
    radius: 0.1
    damage: 10
    owner: player
spawn_points:
  - name: nest
    min: [6, 0, 6]
    max: [7, 2, 7]
pickups:
  - name: medkit
    position: [-6, 0.5, 0]
    radius: 0.5
`

func createWorld(t *testing.T, source string) (*physics.World, *Scenario) {
	t.Helper()

	sc, err := ParseScenario([]byte(source))
	if err != nil {
		t.Fatalf("ParseScenario: %v", err)
	}
	w := physics.NewWorld(config.Default(), nil, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	sc.Build(w)
	return w, sc
}

func TestParseScenario(t *testing.T) {
	w, sc := createWorld(t, corridor)

	if sc.Name != "corridor" {
		t.Errorf("Name = %q, want corridor", sc.Name)
	}
	if len(w.Actors) != 3 {
		t.Fatalf("actors = %d, want the player and 2 others", len(w.Actors))
	}
	if w.Colliders.Len() != 2 {
		t.Errorf("colliders = %d, want 2", w.Colliders.Len())
	}
	if len(w.Projectiles) != 1 || len(w.SpawnPoints) != 1 || len(w.Pickups) != 1 {
		t.Errorf("projectiles, spawn points, pickups = %d, %d, %d, want 1 each",
			len(w.Projectiles), len(w.SpawnPoints), len(w.Pickups))
	}

	doors := 0
	for _, c := range w.Colliders.All() {
		if !c.Active {
			doors++
		}
	}
	if doors != 1 {
		t.Errorf("inactive colliders = %d, want the door only", doors)
	}

	guard, pillar := w.Actors[1], w.Actors[2]
	if nameOf(guard) != "guard" || guard.Kind != actor.KindEnemy {
		t.Errorf("guard = %s %v", nameOf(guard), guard.Kind)
	}
	if guard.Height != 1 {
		t.Errorf("guard height = %v, want twice the radius", guard.Height)
	}
	if !pillar.IsImmovable() {
		t.Error("pillar should be immovable")
	}
	if nameOf(w.Player) != "player" {
		t.Errorf("player name = %q", nameOf(w.Player))
	}
	if w.Projectiles[0].OwnerKind != projectile.OwnerPlayer {
		t.Errorf("owner = %v, want player", w.Projectiles[0].OwnerKind)
	}

	in := sc.Input.toInput()
	if in.Move.Y() != 1 || in.Sprint || in.Jump {
		t.Errorf("input = %+v", in)
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []string
	}{
		{
			name:   "unknown kind",
			source: "actors:\n  - kind: dragon\n    radius: 1\n",
			want:   []string{`unknown actor kind "dragon"`},
		},
		{
			name:   "unknown owner",
			source: "projectiles:\n  - owner: turret\n",
			want:   []string{`unknown projectile owner "turret"`},
		},
		{
			name:   "every problem is reported",
			source: "height_field:\n  width: 1\n  depth: 1\n  elevations: [0, 1]\nactors:\n  - kind: ally\n    radius: 0\n",
			want:   []string{"2 elevations for 1 cells", "actors[0]: radius must be positive"},
		},
		{
			name:   "not yaml",
			source: "actors: [",
			want:   []string{"unmarshal"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.source))
			if err == nil {
				t.Fatal("expected an error")
			}
			for _, want := range tt.want {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("error %q does not mention %q", err, want)
				}
			}
		})
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corridor.yaml")
	if err := os.WriteFile(path, []byte(corridor), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadScenario(path); err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestEventLog_RecordsStepEvents(t *testing.T) {
	w, _ := createWorld(t, corridor)

	var log eventLog
	log.subscribe(&w.Events)

	var names []string
	for i := 0; i < 3; i++ {
		w.Step(1.0/60, physics.Input{}, nil)
		names = append(names, log.drain()...)
	}

	if !slices.Contains(names, "projectile_impact") {
		t.Errorf("events = %v, want the projectile hitting the wall", names)
	}
	if slices.Contains(names, "collision_stay") {
		t.Error("stay events should not be recorded")
	}
	if len(log.drain()) != 0 {
		t.Error("drain should empty the log")
	}

	s := takeSnapshot(w, 3, names)
	if s.Step != 3 || len(s.Actors) != 3 || s.Actors[1].Name != "guard" {
		t.Errorf("snapshot = %+v", s)
	}
	if len(s.Projectiles) != 0 {
		t.Errorf("projectiles = %v, the wall should have consumed it", s.Projectiles)
	}
}

func TestSnapshot_SkipsMalformedActor(t *testing.T) {
	w, _ := createWorld(t, corridor)
	w.Actors[1].Position[0] = math.NaN()

	s := takeSnapshot(w, 1, nil)
	if len(s.Actors) != 2 {
		t.Fatalf("actors = %d, want the malformed guard left out", len(s.Actors))
	}
	for _, a := range s.Actors {
		if a.Name == "guard" {
			t.Error("the malformed guard should not be in the snapshot")
		}
	}
	if _, err := json.Marshal(s); err != nil {
		t.Errorf("snapshot should encode: %v", err)
	}
}
