package physics

import (
	"testing"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/collider"
	"github.com/go-gl/mathgl/mgl64"
)

// createTestActor creates a minimal NPC for event testing
func createTestActor(entity any) *actor.Actor {
	a := actor.New(actor.KindEnemy, mgl64.Vec3{}, 0.5, 1.8, 80)
	a.Entity = entity
	return a
}

func createTestCollider(handle collider.Handle) *collider.Collider {
	return &collider.Collider{
		Handle: handle,
		Shape:  bounds.AABB{Min: mgl64.Vec3{0, 0, 0}, Max: mgl64.Vec3{1, 1, 1}},
		Active: true,
	}
}

type eventCapture struct {
	events []Event
}

func (ec *eventCapture) capture(event Event) {
	ec.events = append(ec.events, event)
}

func (ec *eventCapture) reset() {
	ec.events = ec.events[:0]
}

func (ec *eventCapture) count() int {
	return len(ec.events)
}

func (ec *eventCapture) countType(eventType EventType) int {
	n := 0
	for _, e := range ec.events {
		if e.Type() == eventType {
			n++
		}
	}
	return n
}

func (ec *eventCapture) hasEventType(eventType EventType) bool {
	return ec.countType(eventType) > 0
}

func (ec *eventCapture) subscribeAll(events *Events) {
	for t := COLLISION_ENTER; t <= RAGDOLL_EXPIRE; t++ {
		events.Subscribe(t, ec.capture)
	}
}

// =============================================================================
// Subscribe and Listeners Tests
// =============================================================================

func TestEvents_Subscribe(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture.capture)

	if len(events.listeners[COLLISION_ENTER]) != 1 {
		t.Errorf("Expected 1 listener for COLLISION_ENTER, got %d", len(events.listeners[COLLISION_ENTER]))
	}
}

func TestEvents_MultipleListeners(t *testing.T) {
	events := NewEvents()
	capture1 := &eventCapture{}
	capture2 := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, capture1.capture)
	events.Subscribe(COLLISION_ENTER, capture2.capture)

	events.recordContact(createTestActor("A"), createTestCollider(1))
	events.flush()

	if capture1.count() != 1 || capture2.count() != 1 {
		t.Errorf("Expected 1 event per listener, got %d and %d", capture1.count(), capture2.count())
	}
}

func TestEvents_DifferentEventTypes(t *testing.T) {
	events := NewEvents()
	captureCollision := &eventCapture{}
	captureLanded := &eventCapture{}

	events.Subscribe(COLLISION_ENTER, captureCollision.capture)
	events.Subscribe(LANDED, captureLanded.capture)

	events.recordContact(createTestActor("A"), createTestCollider(1))
	events.flush()

	if captureCollision.count() != 1 {
		t.Errorf("Collision capture expected 1 event, got %d", captureCollision.count())
	}
	if captureLanded.count() != 0 {
		t.Errorf("Landed capture expected 0 events, got %d", captureLanded.count())
	}
}

// =============================================================================
// Contact tracking Tests
// =============================================================================

func TestEvents_RecordContact_Deduplicates(t *testing.T) {
	events := NewEvents()
	a := createTestActor("A")
	c := createTestCollider(1)

	events.recordContact(a, c)
	events.recordContact(a, c)

	if len(events.currentPairs) != 1 {
		t.Errorf("Expected 1 pair recorded, got %d", len(events.currentPairs))
	}
}

func TestEvents_CollisionLifecycle(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	capture.subscribeAll(&events)

	a := createTestActor("A")
	c := createTestCollider(1)

	// Frame 1: Enter
	events.recordContact(a, c)
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_ENTER) {
		t.Fatalf("frame 1: expected a single COLLISION_ENTER, got %v", capture.events)
	}
	enter := capture.events[0].(CollisionEnterEvent)
	if enter.Actor != a || enter.Collider != c {
		t.Error("CollisionEnterEvent should carry the actor and the collider")
	}
	capture.reset()

	// Frame 2: Stay
	events.recordContact(a, c)
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_STAY) {
		t.Fatalf("frame 2: expected a single COLLISION_STAY, got %v", capture.events)
	}
	capture.reset()

	// Frame 3: Exit
	events.flush()
	if capture.count() != 1 || !capture.hasEventType(COLLISION_EXIT) {
		t.Fatalf("frame 3: expected a single COLLISION_EXIT, got %v", capture.events)
	}
	capture.reset()

	// Frame 4: nothing left
	events.flush()
	if capture.count() != 0 {
		t.Errorf("frame 4: expected no events, got %v", capture.events)
	}
}

func TestEvents_ContactOrder(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_ENTER, capture.capture)

	a := createTestActor("A")
	for h := collider.Handle(1); h <= 5; h++ {
		events.recordContact(a, createTestCollider(h))
	}
	events.flush()

	for i, e := range capture.events {
		if got := e.(CollisionEnterEvent).Collider.Handle; got != collider.Handle(i+1) {
			t.Fatalf("event %d is for collider %d, want detection order", i, got)
		}
	}
}

func TestEvents_Forget(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(COLLISION_EXIT, capture.capture)

	a := createTestActor("A")
	b := createTestActor("B")
	events.recordContact(a, createTestCollider(1))
	events.recordContact(b, createTestCollider(1))
	events.flush()

	events.forget(a)
	events.flush()

	if capture.count() != 1 {
		t.Fatalf("Expected 1 exit event, got %d", capture.count())
	}
	if capture.events[0].(CollisionExitEvent).Actor != b {
		t.Error("a forgotten actor should not produce an exit event")
	}
}

func TestEvents_Reset(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	capture.subscribeAll(&events)

	events.recordContact(createTestActor("A"), createTestCollider(1))
	events.flush()
	events.emit(LandedEvent{})
	capture.reset()

	events.reset()
	events.flush()

	if capture.count() != 0 {
		t.Errorf("Expected no events after reset, got %v", capture.events)
	}
}

// =============================================================================
// Flush Tests
// =============================================================================

func TestEvents_FlushClearsBuffer(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(FOOTSTEP, capture.capture)

	events.emit(FootstepEvent{})
	events.flush()
	events.flush()

	if capture.count() != 1 {
		t.Errorf("Expected 1 event across two flushes, got %d", capture.count())
	}
}

func TestEvents_EmitDuringFlush(t *testing.T) {
	events := NewEvents()
	capture := &eventCapture{}
	events.Subscribe(LANDED, func(e Event) {
		events.emit(FootstepEvent{})
	})
	events.Subscribe(FOOTSTEP, capture.capture)

	events.emit(LandedEvent{})
	events.flush()
	if capture.count() != 0 {
		t.Fatal("events emitted by a listener should wait for the next flush")
	}

	events.flush()
	if capture.count() != 1 {
		t.Errorf("Expected the deferred event on the next flush, got %d", capture.count())
	}
}

func TestEventType_String(t *testing.T) {
	for et := COLLISION_ENTER; et <= RAGDOLL_EXPIRE; et++ {
		if et.String() == "unknown" {
			t.Errorf("EventType(%d) has no name", et)
		}
	}
}
