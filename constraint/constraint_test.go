package constraint

import (
	"math"
	"math/rand"
	"testing"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/collider"
	"github.com/go-gl/mathgl/mgl64"
)

const tolerance = 1e-9

func createCollider(shape bounds.Shape) *collider.Collider {
	return &collider.Collider{Handle: 1, Shape: shape, Active: true}
}

func createActor(position mgl64.Vec3, radius, weight float64) *actor.Actor {
	return actor.New(actor.KindEnemy, position, radius, 2*radius, weight)
}

func distanceToSurface(center mgl64.Vec3, shape bounds.Shape) float64 {
	return center.Sub(shape.ClampPoint(center)).Len()
}

// =============================================================================
// Wall contacts
// =============================================================================

func TestWallContact_TangentAfterResolution(t *testing.T) {
	box := bounds.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}}
	// Radius 0.5, overlapping the +X face by exactly 0.3
	a := createActor(mgl64.Vec3{1.2, 0.5, 0.5}, 0.5, 100)

	contact, ok := DetectWall(a, createCollider(box), 0.7)
	if !ok {
		t.Fatal("expected a contact")
	}
	if math.Abs(contact.Depth-0.3) > tolerance {
		t.Errorf("Depth = %v, want 0.3", contact.Depth)
	}
	if !contact.Normal.ApproxEqual(mgl64.Vec3{1, 0, 0}) {
		t.Errorf("Normal = %v, want +X", contact.Normal)
	}

	contact.SolvePosition()

	if got := distanceToSurface(a.Position, box); math.Abs(got-0.5) > tolerance {
		t.Errorf("distance to surface = %v, want the radius 0.5", got)
	}
	if _, ok := DetectWall(a, createCollider(box), 0.7); ok {
		t.Error("no penetration should remain after resolution")
	}
	if contact.Grounded {
		t.Error("a sideways push is not a ground contact")
	}
}

func TestWallContact_NoResidualOverlap(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 500; i++ {
		box := bounds.NewAABB(
			mgl64.Vec3{rng.Float64() * 4, rng.Float64() * 4, rng.Float64() * 4},
			mgl64.Vec3{rng.Float64() * 4, rng.Float64() * 4, rng.Float64() * 4},
		)
		center := mgl64.Vec3{rng.Float64()*6 - 1, rng.Float64()*6 - 1, rng.Float64()*6 - 1}
		radius := 0.1 + rng.Float64()

		normal, depth, _, ok := Penetration(center, radius, box)
		if !ok {
			continue
		}
		resolved := center.Add(normal.Mul(depth))

		if got := distanceToSurface(resolved, box); got < radius-1e-6 {
			t.Fatalf("residual overlap: center %v radius %v box %+v resolved to distance %v", center, radius, box, got)
		}
	}
}

func TestPenetration_CenterInside(t *testing.T) {
	box := bounds.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{4, 1, 4}}

	normal, depth, _, ok := Penetration(mgl64.Vec3{2, 0.8, 2}, 0.5, box)
	if !ok {
		t.Fatal("a sphere centered inside the box penetrates")
	}
	if !normal.ApproxEqual(mgl64.Vec3{0, 1, 0}) {
		t.Errorf("Normal = %v, want the nearest face +Y", normal)
	}
	if math.Abs(depth-0.7) > tolerance {
		t.Errorf("Depth = %v, want 0.7 (face distance + radius)", depth)
	}
}

func TestPenetration_OBB(t *testing.T) {
	box := bounds.NewOBB(mgl64.Vec3{}, mgl64.Vec3{1, 1, 1}, mgl64.Rotate3DY(math.Pi/4))
	center := mgl64.Vec3{1.2, 0, 0}

	normal, depth, _, ok := Penetration(center, 0.5, box)
	if !ok {
		t.Fatal("sphere near the rotated corner should penetrate")
	}
	resolved := center.Add(normal.Mul(depth))
	if got := distanceToSurface(resolved, box); math.Abs(got-0.5) > 1e-6 {
		t.Errorf("distance after resolution = %v, want 0.5", got)
	}
}

func TestWallContact_GroundContact(t *testing.T) {
	floor := bounds.AABB{Min: mgl64.Vec3{-5, -1, -5}, Max: mgl64.Vec3{5, 0, 5}}
	a := createActor(mgl64.Vec3{0, 0.4, 0}, 0.5, 100)
	a.Velocity = mgl64.Vec3{0.1, -0.3, 0}
	a.LeaveGround()

	contact, ok := DetectWall(a, createCollider(floor), 0.7)
	if !ok {
		t.Fatal("expected a ground contact")
	}
	contact.SolvePosition()

	if !contact.Grounded || !a.OnGround {
		t.Error("upward push should ground the actor")
	}
	if !contact.Landed {
		t.Error("an airborne actor should land")
	}
	if a.Velocity.Y() != 0 || a.Velocity.X() != 0.1 {
		t.Errorf("Velocity = %v, want only the downward component cancelled", a.Velocity)
	}
}

func TestWallContact_RisingNotGrounded(t *testing.T) {
	floor := bounds.AABB{Min: mgl64.Vec3{-5, -1, -5}, Max: mgl64.Vec3{5, 0, 5}}
	a := createActor(mgl64.Vec3{0, 0.45, 0}, 0.5, 100)
	a.Velocity = mgl64.Vec3{0, 0.2, 0}
	a.LeaveGround()

	contact, ok := DetectWall(a, createCollider(floor), 0.7)
	if !ok {
		t.Fatal("expected a contact")
	}
	contact.SolvePosition()

	if contact.Grounded || contact.Landed || a.OnGround {
		t.Error("a jumping actor should not land on the floor it leaves")
	}
	if math.Abs(a.Position.Y()-0.5) > tolerance {
		t.Errorf("Y = %v, want pushed out to 0.5", a.Position.Y())
	}
	if a.Velocity.Y() != 0.2 {
		t.Errorf("upward velocity changed to %v", a.Velocity.Y())
	}
}

func TestDetectWall_InactiveSkipped(t *testing.T) {
	c := createCollider(bounds.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}})
	c.Active = false

	if _, ok := DetectWall(createActor(mgl64.Vec3{0.5, 0.5, 0.5}, 0.5, 1), c, 0.7); ok {
		t.Error("inactive colliders should not resolve")
	}
}

// =============================================================================
// Actor contacts
// =============================================================================

func TestActorContact_WeightedSplit(t *testing.T) {
	light := createActor(mgl64.Vec3{0, 0, 0}, 1, 100)
	heavy := createActor(mgl64.Vec3{1, 0, 0}, 1, 200)

	contact, ok := DetectActors(light, heavy)
	if !ok {
		t.Fatal("expected overlap")
	}
	if math.Abs(contact.Overlap-1) > tolerance {
		t.Fatalf("Overlap = %v, want 1", contact.Overlap)
	}

	contact.SolvePosition()

	moveLight := light.Position.X()
	moveHeavy := heavy.Position.X() - 1
	if math.Abs(moveLight+2.0/3) > tolerance {
		t.Errorf("light actor moved %v, want -0.667", moveLight)
	}
	if math.Abs(moveHeavy-1.0/3) > tolerance {
		t.Errorf("heavy actor moved %v, want +0.333", moveHeavy)
	}
	if math.Abs(-moveLight+moveHeavy-1) > tolerance {
		t.Errorf("corrections sum to %v, want the overlap 1", -moveLight+moveHeavy)
	}
	if light.Position.Y() != 0 || light.Position.Z() != 0 || heavy.Position.Z() != 0 {
		t.Error("separation should stay on the line between the centers")
	}
}

func TestActorContact_IgnoresHeight(t *testing.T) {
	a := createActor(mgl64.Vec3{0, 0, 0}, 0.5, 1)
	b := createActor(mgl64.Vec3{0.5, 10, 0}, 0.5, 1)

	if _, ok := DetectActors(a, b); !ok {
		t.Error("actors overlapping horizontally should collide regardless of height")
	}
}

func TestActorContact_Immovable(t *testing.T) {
	pillar := createActor(mgl64.Vec3{0, 0, 0}, 1, actor.ImmovableWeight)
	npc := createActor(mgl64.Vec3{0, 0, 1.5}, 1, 80)

	contact, ok := DetectActors(pillar, npc)
	if !ok {
		t.Fatal("expected overlap")
	}
	contact.SolvePosition()

	if !pillar.Position.ApproxEqual(mgl64.Vec3{0, 0, 0}) {
		t.Errorf("immovable actor moved to %v", pillar.Position)
	}
	if math.Abs(npc.Position.Z()-2) > tolerance {
		t.Errorf("npc Z = %v, want 2", npc.Position.Z())
	}

	other := createActor(mgl64.Vec3{0, 0, 0.5}, 1, actor.ImmovableWeight)
	if _, ok := DetectActors(pillar, other); ok {
		t.Error("two immovable actors should not be resolved")
	}
}

func TestActorContact_Degenerate(t *testing.T) {
	a := createActor(mgl64.Vec3{2, 0, 2}, 0.5, 1)
	b := createActor(mgl64.Vec3{2, 0, 2}, 0.5, 1)

	contact, ok := DetectActors(a, b)
	if !ok {
		t.Fatal("stacked actors overlap")
	}
	contact.SolvePosition()

	if got := Horizontal(a.Position).Distance(Horizontal(b.Position)); math.Abs(got-1) > tolerance {
		t.Errorf("distance after separation = %v, want 1", got)
	}
}

func TestActorContact_DeadExcluded(t *testing.T) {
	a := createActor(mgl64.Vec3{0, 0, 0}, 0.5, 1)
	b := createActor(mgl64.Vec3{0.2, 0, 0}, 0.5, 1)
	b.Dead = true

	if _, ok := DetectActors(a, b); ok {
		t.Error("dead actors should not be resolved")
	}

	b.Dead = false
	b.Position[0] = math.NaN()
	if _, ok := DetectActors(a, b); ok {
		t.Error("malformed actors should not be resolved")
	}
}
