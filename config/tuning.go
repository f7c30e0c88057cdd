// Package config holds the tuned constants of the collision core and loads them from YAML.
//
// Velocities and gravities are expressed per simulation step, not per second, the same way the
// actors store them. Thresholds are gameplay-feel values; Default returns the shipped tuning.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	Gravity    GravityTuning    `yaml:"gravity" json:"gravity"`
	Player     PlayerTuning     `yaml:"player" json:"player"`
	Collision  CollisionTuning  `yaml:"collision" json:"collision"`
	Ground     GroundTuning     `yaml:"ground" json:"ground"`
	Ragdoll    RagdollTuning    `yaml:"ragdoll" json:"ragdoll"`
	Projectile ProjectileTuning `yaml:"projectile" json:"projectile"`
	Interact   InteractTuning   `yaml:"interact" json:"interact"`
}

type GravityTuning struct {
	Player  float64 `yaml:"player" json:"player"`
	Actor   float64 `yaml:"actor" json:"actor"`
	Ragdoll float64 `yaml:"ragdoll" json:"ragdoll"`
}

type PlayerTuning struct {
	Speed            float64 `yaml:"speed" json:"speed" jsonschema:"description=horizontal speed in world units per second"`
	SprintMultiplier float64 `yaml:"sprint_multiplier" json:"sprint_multiplier"`
	JumpVelocity     float64 `yaml:"jump_velocity" json:"jump_velocity"`
	Height           float64 `yaml:"height" json:"height"`
	Radius           float64 `yaml:"radius" json:"radius"`
	ClimbHeight      float64 `yaml:"climb_height" json:"climb_height"`
	EyeOffset        float64 `yaml:"eye_offset" json:"eye_offset" jsonschema:"description=camera height above the player center"`
	FootstepStride   float64 `yaml:"footstep_stride" json:"footstep_stride"`
}

type CollisionTuning struct {
	// GroundUpDot is the minimum dot product between a push-out direction and world up
	// for a wall contact to count as standing on the collider.
	GroundUpDot   float64 `yaml:"ground_up_dot" json:"ground_up_dot"`
	SATEpsilon    float64 `yaml:"sat_epsilon" json:"sat_epsilon"`
	MinHalfExtent float64 `yaml:"min_half_extent" json:"min_half_extent"`
	GridCellSize  float64 `yaml:"grid_cell_size" json:"grid_cell_size"`
}

type GroundTuning struct {
	CellSize float64 `yaml:"cell_size" json:"cell_size"`
	// StepHeight is the world height of one elevation step of the level grid.
	StepHeight        float64 `yaml:"step_height" json:"step_height"`
	FallDamageSteps   float64 `yaml:"fall_damage_steps" json:"fall_damage_steps"`
	FallDamagePerUnit float64 `yaml:"fall_damage_per_unit" json:"fall_damage_per_unit"`
}

type RagdollTuning struct {
	MaxActive  int     `yaml:"max_active" json:"max_active"`
	Lifetime   int     `yaml:"lifetime" json:"lifetime" jsonschema:"description=frames before a fragment is disposed"`
	FadeFrames int     `yaml:"fade_frames" json:"fade_frames"`
	Bounce     float64 `yaml:"bounce" json:"bounce"`
	Friction   float64 `yaml:"friction" json:"friction"`
	Spin       float64 `yaml:"spin" json:"spin"`
}

type ProjectileTuning struct {
	Lifetime int `yaml:"lifetime" json:"lifetime"`
}

type InteractTuning struct {
	Radius float64 `yaml:"radius" json:"radius"`
}

// Default returns the shipped tuning
func Default() Tuning {
	return Tuning{
		Gravity: GravityTuning{
			Player:  0.012,
			Actor:   0.02,
			Ragdoll: 0.015,
		},
		Player: PlayerTuning{
			Speed:            5,
			SprintMultiplier: 1.6,
			JumpVelocity:     0.2,
			Height:           1.8,
			Radius:           0.4,
			ClimbHeight:      0.55,
			EyeOffset:        0.7,
			FootstepStride:   1.6,
		},
		Collision: CollisionTuning{
			GroundUpDot:   0.7,
			SATEpsilon:    1e-9,
			MinHalfExtent: 0.01,
			GridCellSize:  4,
		},
		Ground: GroundTuning{
			CellSize:          1,
			StepHeight:        0.5,
			FallDamageSteps:   6,
			FallDamagePerUnit: 10,
		},
		Ragdoll: RagdollTuning{
			MaxActive:  4,
			Lifetime:   300,
			FadeFrames: 60,
			Bounce:     0.3,
			Friction:   0.8,
			Spin:       0.08,
		},
		Projectile: ProjectileTuning{
			Lifetime: 240,
		},
		Interact: InteractTuning{
			Radius: 2,
		},
	}
}

// FallDamageThreshold is the fall distance, in world units, above which landing hurts
func (t Tuning) FallDamageThreshold() float64 {
	return t.Ground.FallDamageSteps * t.Ground.StepHeight
}

// Validate reports every field that would make the simulation misbehave
func (t Tuning) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, v))
		}
	}

	positive("player.speed", t.Player.Speed)
	positive("player.height", t.Player.Height)
	positive("player.radius", t.Player.Radius)
	positive("collision.min_half_extent", t.Collision.MinHalfExtent)
	positive("collision.grid_cell_size", t.Collision.GridCellSize)
	positive("ground.cell_size", t.Ground.CellSize)
	positive("ground.step_height", t.Ground.StepHeight)
	unit("collision.ground_up_dot", t.Collision.GroundUpDot)
	unit("ragdoll.bounce", t.Ragdoll.Bounce)
	unit("ragdoll.friction", t.Ragdoll.Friction)

	if t.Collision.SATEpsilon < 0 {
		errs = append(errs, fmt.Errorf("collision.sat_epsilon must not be negative, got %v", t.Collision.SATEpsilon))
	}
	if t.Ragdoll.MaxActive < 1 {
		errs = append(errs, fmt.Errorf("ragdoll.max_active must be at least 1, got %d", t.Ragdoll.MaxActive))
	}
	if t.Ragdoll.Lifetime < 1 {
		errs = append(errs, fmt.Errorf("ragdoll.lifetime must be at least 1, got %d", t.Ragdoll.Lifetime))
	}
	if t.Ragdoll.FadeFrames < 0 || t.Ragdoll.FadeFrames > t.Ragdoll.Lifetime {
		errs = append(errs, fmt.Errorf("ragdoll.fade_frames must be within [0, lifetime], got %d", t.Ragdoll.FadeFrames))
	}
	if t.Projectile.Lifetime < 1 {
		errs = append(errs, fmt.Errorf("projectile.lifetime must be at least 1, got %d", t.Projectile.Lifetime))
	}

	return errors.Join(errs...)
}

// Parse overlays YAML data on the default tuning and validates the result
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("config: invalid tuning: %w", err)
	}

	return t, nil
}

// Load reads a tuning file. Fields absent from the file keep their default value.
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("config: load %s: %w", path, err)
	}

	t, err := Parse(data)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}

	return t, nil
}
