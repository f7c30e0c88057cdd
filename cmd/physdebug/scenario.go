package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	physics "github.com/gitchub12/gonk12new-sub000"
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/projectile"
	"github.com/go-gl/mathgl/mgl64"
)

// Scenario is a small hand-written level used to exercise the world without the game
type Scenario struct {
	Name        string          `yaml:"name" json:"name"`
	HeightField HeightFieldDef  `yaml:"height_field" json:"height_field"`
	Player      PlayerDef       `yaml:"player" json:"player"`
	Input       InputDef        `yaml:"input" json:"input" jsonschema:"description=input held for the whole run"`
	Colliders   []ColliderDef   `yaml:"colliders" json:"colliders,omitempty"`
	Actors      []ActorDef      `yaml:"actors" json:"actors,omitempty"`
	Projectiles []ProjectileDef `yaml:"projectiles" json:"projectiles,omitempty"`
	SpawnPoints []SpawnPointDef `yaml:"spawn_points" json:"spawn_points,omitempty"`
	Pickups     []PickupDef     `yaml:"pickups" json:"pickups,omitempty"`
}

type HeightFieldDef struct {
	Width      int       `yaml:"width" json:"width"`
	Depth      int       `yaml:"depth" json:"depth"`
	Elevations []float64 `yaml:"elevations" json:"elevations" jsonschema:"description=row-major world elevations, index z*width+x"`
}

type PlayerDef struct {
	Position [3]float64 `yaml:"position" json:"position"`
}

type InputDef struct {
	Move   [2]float64 `yaml:"move" json:"move"`
	Sprint bool       `yaml:"sprint" json:"sprint"`
	Jump   bool       `yaml:"jump" json:"jump"`
}

type ColliderDef struct {
	Name        string     `yaml:"name" json:"name"`
	Center      [3]float64 `yaml:"center" json:"center"`
	HalfExtents [3]float64 `yaml:"half_extents" json:"half_extents"`
	Yaw         float64    `yaml:"yaw" json:"yaw" jsonschema:"description=rotation around Y in degrees"`
	Oriented    bool       `yaml:"oriented" json:"oriented"`
	Inactive    bool       `yaml:"inactive" json:"inactive"`
}

type ActorDef struct {
	Name         string     `yaml:"name" json:"name"`
	Kind         string     `yaml:"kind" json:"kind" jsonschema:"enum=ally,enum=enemy,enum=neutral"`
	Position     [3]float64 `yaml:"position" json:"position"`
	Velocity     [3]float64 `yaml:"velocity" json:"velocity"`
	Radius       float64    `yaml:"radius" json:"radius"`
	Height       float64    `yaml:"height" json:"height"`
	Weight       float64    `yaml:"weight" json:"weight"`
	Immovable    bool       `yaml:"immovable" json:"immovable"`
	Immobile     bool       `yaml:"immobile" json:"immobile"`
	GroundOffset float64    `yaml:"ground_offset" json:"ground_offset"`
	ClimbHeight  float64    `yaml:"climb_height" json:"climb_height"`
}

type ProjectileDef struct {
	Position [3]float64 `yaml:"position" json:"position"`
	Velocity [3]float64 `yaml:"velocity" json:"velocity"`
	Radius   float64    `yaml:"radius" json:"radius"`
	Damage   float64    `yaml:"damage" json:"damage"`
	Owner    string     `yaml:"owner" json:"owner" jsonschema:"enum=player,enum=ally,enum=enemy,enum=special"`
	Embeds   bool       `yaml:"embeds" json:"embeds"`
}

type SpawnPointDef struct {
	Name string     `yaml:"name" json:"name"`
	Min  [3]float64 `yaml:"min" json:"min"`
	Max  [3]float64 `yaml:"max" json:"max"`
}

type PickupDef struct {
	Name     string     `yaml:"name" json:"name"`
	Position [3]float64 `yaml:"position" json:"position"`
	Radius   float64    `yaml:"radius" json:"radius"`
}

// entity names what the debug runner registers, so snapshots can label it
type entity struct {
	Name string
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scenario: load %s: %w", path, err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("scenario: unmarshal: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scenario: invalid: %w", err)
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	var errs []error

	hf := s.HeightField
	if hf.Width < 0 || hf.Depth < 0 {
		errs = append(errs, fmt.Errorf("height_field: negative size %dx%d", hf.Width, hf.Depth))
	} else if len(hf.Elevations) > hf.Width*hf.Depth {
		errs = append(errs, fmt.Errorf("height_field: %d elevations for %d cells", len(hf.Elevations), hf.Width*hf.Depth))
	}

	for i, a := range s.Actors {
		if _, err := parseKind(a.Kind); err != nil {
			errs = append(errs, fmt.Errorf("actors[%d]: %w", i, err))
		}
		if a.Radius <= 0 {
			errs = append(errs, fmt.Errorf("actors[%d]: radius must be positive, got %v", i, a.Radius))
		}
	}
	for i, p := range s.Projectiles {
		if _, err := parseOwner(p.Owner); err != nil {
			errs = append(errs, fmt.Errorf("projectiles[%d]: %w", i, err))
		}
	}

	return errors.Join(errs...)
}

func parseKind(s string) (actor.Kind, error) {
	switch strings.ToLower(s) {
	case "ally":
		return actor.KindAlly, nil
	case "enemy", "":
		return actor.KindEnemy, nil
	case "neutral":
		return actor.KindNeutral, nil
	}
	return 0, fmt.Errorf("unknown actor kind %q", s)
}

func parseOwner(s string) (projectile.OwnerKind, error) {
	switch strings.ToLower(s) {
	case "player", "":
		return projectile.OwnerPlayer, nil
	case "ally":
		return projectile.OwnerAlly, nil
	case "enemy":
		return projectile.OwnerEnemy, nil
	case "special":
		return projectile.OwnerSpecial, nil
	}
	return 0, fmt.Errorf("unknown projectile owner %q", s)
}

// Build registers the scenario content in an empty world
func (s *Scenario) Build(w *physics.World) {
	if s.HeightField.Width > 0 && s.HeightField.Depth > 0 {
		w.InitHeightField(s.HeightField.Width, s.HeightField.Depth, s.HeightField.Elevations)
	}

	w.Player.Position = mgl64.Vec3(s.Player.Position)
	w.Player.Entity = &entity{Name: "player"}

	for _, c := range s.Colliders {
		rotation := mgl64.Rotate3DY(mgl64.DegToRad(c.Yaw))
		box := bounds.NewOBB(mgl64.Vec3(c.Center), mgl64.Vec3(c.HalfExtents), rotation)
		h := w.RegisterStaticCollider(box, c.Oriented, &entity{Name: c.Name})
		if c.Inactive {
			w.SetColliderActive(h, false)
		}
	}

	for _, def := range s.Actors {
		kind, _ := parseKind(def.Kind)
		weight := def.Weight
		if def.Immovable {
			weight = actor.ImmovableWeight
		}
		height := def.Height
		if height <= 0 {
			height = 2 * def.Radius
		}

		a := actor.New(kind, mgl64.Vec3(def.Position), def.Radius, height, weight)
		a.Velocity = mgl64.Vec3(def.Velocity)
		a.Immobile = def.Immobile
		a.GroundOffset = def.GroundOffset
		a.ClimbHeight = def.ClimbHeight
		a.Entity = &entity{Name: def.Name}
		w.RegisterActor(a)
	}

	for _, def := range s.Projectiles {
		owner, _ := parseOwner(def.Owner)
		p := projectile.New(mgl64.Vec3(def.Position), mgl64.Vec3(def.Velocity), def.Radius, def.Damage, nil, owner)
		p.Embeds = def.Embeds
		w.SpawnProjectile(p)
	}

	for _, def := range s.SpawnPoints {
		w.RegisterSpawnPoint(bounds.NewAABB(mgl64.Vec3(def.Min), mgl64.Vec3(def.Max)), &entity{Name: def.Name})
	}
	for _, def := range s.Pickups {
		w.RegisterPickup(mgl64.Vec3(def.Position), def.Radius, &entity{Name: def.Name})
	}
}

func (in InputDef) toInput() physics.Input {
	move := mgl64.Vec2(in.Move)
	if math.IsNaN(move.X()) || math.IsNaN(move.Y()) {
		move = mgl64.Vec2{}
	}
	return physics.Input{Move: move, Sprint: in.Sprint, Jump: in.Jump}
}
