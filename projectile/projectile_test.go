package projectile

import (
	"math"
	"testing"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/go-gl/mathgl/mgl64"
)

type countingDisposer struct {
	calls int
}

func (d *countingDisposer) Dispose() { d.calls++ }

func createActor(kind actor.Kind, entity any) *actor.Actor {
	a := actor.New(kind, mgl64.Vec3{}, 0.5, 1.8, 80)
	a.Entity = entity
	return a
}

func TestCanHit_TeamFilter(t *testing.T) {
	owner := "shooter"

	tests := []struct {
		name  string
		kind  OwnerKind
		actor *actor.Actor
		want  bool
	}{
		{"player hits enemy", OwnerPlayer, createActor(actor.KindEnemy, 1), true},
		{"player spares ally", OwnerPlayer, createActor(actor.KindAlly, 2), false},
		{"ally spares player", OwnerAlly, createActor(actor.KindPlayer, 3), false},
		{"ally hits neutral", OwnerAlly, createActor(actor.KindNeutral, 4), true},
		{"enemy hits player", OwnerEnemy, createActor(actor.KindPlayer, 5), true},
		{"enemy spares enemy", OwnerEnemy, createActor(actor.KindEnemy, 6), false},
		{"special hits enemy", OwnerSpecial, createActor(actor.KindEnemy, 7), true},
		{"special hits player", OwnerSpecial, createActor(actor.KindPlayer, 8), true},
		{"never the owner", OwnerSpecial, createActor(actor.KindEnemy, owner), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0.1, 10, owner, tt.kind)
			if got := p.CanHit(tt.actor); got != tt.want {
				t.Errorf("CanHit() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanHit_DeadActor(t *testing.T) {
	a := createActor(actor.KindEnemy, 1)
	a.Dead = true

	p := New(mgl64.Vec3{}, mgl64.Vec3{}, 0.1, 10, nil, OwnerPlayer)
	if p.CanHit(a) {
		t.Error("dead actors cannot be hit")
	}
}

func TestCanHitSpawnPoint(t *testing.T) {
	for kind, want := range map[OwnerKind]bool{
		OwnerPlayer:  true,
		OwnerAlly:    true,
		OwnerEnemy:   false,
		OwnerSpecial: false,
	} {
		p := New(mgl64.Vec3{}, mgl64.Vec3{}, 0.1, 10, nil, kind)
		if got := p.CanHitSpawnPoint(); got != want {
			t.Errorf("%v: CanHitSpawnPoint() = %v, want %v", kind, got, want)
		}
	}
}

func TestIntegrate_Stuck(t *testing.T) {
	p := New(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0.5, 0, 0}, 0.1, 10, nil, OwnerPlayer)

	p.Integrate()
	if !p.Position.ApproxEqual(mgl64.Vec3{1.5, 1, 1}) {
		t.Fatalf("Position = %v, want [1.5 1 1]", p.Position)
	}

	p.Stick("wall")
	p.Integrate()
	if !p.Position.ApproxEqual(mgl64.Vec3{1.5, 1, 1}) {
		t.Errorf("stuck projectile moved to %v", p.Position)
	}
	if p.StuckTo != "wall" {
		t.Errorf("StuckTo = %v, want wall", p.StuckTo)
	}
}

func TestReflect_Once(t *testing.T) {
	p := New(mgl64.Vec3{}, mgl64.Vec3{0, 0, 1}, 0.1, 10, "enemy", OwnerEnemy)

	if !p.Reflect("player", OwnerPlayer) {
		t.Fatal("first reflection should succeed")
	}
	if !p.Velocity.ApproxEqual(mgl64.Vec3{0, 0, -1}) || p.Owner != "player" || p.OwnerKind != OwnerPlayer {
		t.Errorf("after reflection: velocity %v owner %v kind %v", p.Velocity, p.Owner, p.OwnerKind)
	}
	if p.Reflect("enemy", OwnerEnemy) {
		t.Error("a reflected projectile cannot be reflected again")
	}
}

func TestDispose_Idempotent(t *testing.T) {
	d := &countingDisposer{}
	p := New(mgl64.Vec3{}, mgl64.Vec3{}, 0.1, 10, nil, OwnerPlayer)
	p.Visual = d

	p.Dispose()
	p.Dispose()

	if d.calls != 1 {
		t.Errorf("Dispose called %d times, want 1", d.calls)
	}
}

func TestValid(t *testing.T) {
	p := New(mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, 0.1, 10, nil, OwnerPlayer)
	if !p.Valid() {
		t.Fatal("a finite projectile is valid")
	}

	p.Velocity[2] = math.NaN()
	if p.Valid() {
		t.Error("a NaN velocity is not valid")
	}

	p.Velocity[2] = 0
	p.Radius = -1
	if p.Valid() {
		t.Error("a negative radius is not valid")
	}
}
