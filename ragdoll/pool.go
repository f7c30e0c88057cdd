package ragdoll

import (
	"math/rand"
	"time"

	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/config"
	"github.com/gitchub12/gonk12new-sub000/pipeline"
	"github.com/go-gl/mathgl/mgl64"
)

// Pool owns every live ragdoll, linked in spawn order so the oldest is evicted in O(1)
type Pool struct {
	Tuning  config.RagdollTuning
	Gravity float64
	Workers int

	scene Scene
	rng   *rand.Rand

	head, tail *Ragdoll
	count      int
	nextID     uint64
}

// NewPool creates an empty pool. A nil rng is seeded from the clock.
func NewPool(tuning config.RagdollTuning, gravity float64, scene Scene, rng *rand.Rand) *Pool {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return &Pool{
		Tuning:  tuning,
		Gravity: gravity,
		Workers: 1,
		scene:   scene,
		rng:     rng,
	}
}

// Len returns the number of live ragdolls
func (p *Pool) Len() int {
	return p.count
}

// FragmentCount returns the number of live fragments across all ragdolls
func (p *Pool) FragmentCount() int {
	n := 0
	for r := p.head; r != nil; r = r.next {
		n += len(r.Fragments)
	}
	return n
}

// Ragdolls returns the live ragdolls, oldest first
func (p *Pool) Ragdolls() []*Ragdoll {
	out := make([]*Ragdoll, 0, p.count)
	for r := p.head; r != nil; r = r.next {
		out = append(out, r)
	}
	return out
}

// Spawn bakes one fragment per body part of the character, from its current world transform.
// When the pool is full the oldest ragdolls are disposed first and returned as evicted.
func (p *Pool) Spawn(c Character, velocity mgl64.Vec3) (spawned *Ragdoll, evicted []*Ragdoll) {
	parts := c.BodyParts()
	if len(parts) == 0 {
		return nil, nil
	}

	for p.count >= max(p.Tuning.MaxActive, 1) {
		oldest := p.head
		p.dispose(oldest)
		p.unlink(oldest)
		evicted = append(evicted, oldest)
	}

	p.nextID++
	r := &Ragdoll{ID: p.nextID, Fragments: make([]*Fragment, 0, len(parts))}
	for _, part := range parts {
		mesh := part.Detach()
		if mesh == nil {
			continue
		}

		f := &Fragment{
			Mesh:            mesh,
			Transform:       actor.Decompose(part.WorldMatrix()),
			Velocity:        velocity,
			AngularVelocity: p.randomSpin(),
			Lifetime:        p.Tuning.Lifetime,
			Opacity:         1,
		}
		mesh.SetTransform(f.Transform)
		mesh.SetOpacity(1)
		if p.scene != nil {
			p.scene.Add(mesh)
		}
		r.Fragments = append(r.Fragments, f)
	}

	if len(r.Fragments) == 0 {
		return nil, evicted
	}
	p.link(r)
	return r, evicted
}

func (p *Pool) randomSpin() mgl64.Vec3 {
	s := p.Tuning.Spin
	return mgl64.Vec3{
		(p.rng.Float64()*2 - 1) * s,
		(p.rng.Float64()*2 - 1) * s,
		(p.rng.Float64()*2 - 1) * s,
	}
}

// Update advances every fragment one step and returns the ragdolls whose last fragment expired.
func (p *Pool) Update(ground Ground) (expired []*Ragdoll) {
	if ground == nil {
		ground = flatGround{}
	}

	var live []*Fragment
	for r := p.head; r != nil; r = r.next {
		for _, f := range r.Fragments {
			f.Lifetime--
			if f.Lifetime > 0 {
				live = append(live, f)
			}
		}
	}

	pipeline.Task(p.Workers, live, func(f *Fragment) {
		f.integrate(p.Gravity, p.Tuning.Bounce, p.Tuning.Friction, ground)
	})

	// Scene-graph and disposal calls stay on the caller's goroutine, in spawn order
	for r := p.head; r != nil; {
		next := r.next

		n := 0
		for _, f := range r.Fragments {
			if f.Lifetime <= 0 {
				p.disposeFragment(f)
				continue
			}
			if f.Lifetime < p.Tuning.FadeFrames {
				f.Opacity = float64(f.Lifetime) / float64(p.Tuning.FadeFrames)
				f.Mesh.SetOpacity(f.Opacity)
			}
			f.Mesh.SetTransform(f.Transform)
			r.Fragments[n] = f
			n++
		}
		clear(r.Fragments[n:])
		r.Fragments = r.Fragments[:n]

		if !r.Alive() {
			p.unlink(r)
			expired = append(expired, r)
		}
		r = next
	}

	return expired
}

// Clear disposes every ragdoll
func (p *Pool) Clear() {
	for r := p.head; r != nil; {
		next := r.next
		p.dispose(r)
		p.unlink(r)
		r = next
	}
}

func (p *Pool) dispose(r *Ragdoll) {
	for _, f := range r.Fragments {
		p.disposeFragment(f)
	}
	r.Fragments = nil
}

func (p *Pool) disposeFragment(f *Fragment) {
	if f.disposed {
		return
	}
	f.disposed = true
	if p.scene != nil {
		p.scene.Remove(f.Mesh)
	}
	f.Mesh.Dispose()
}

func (p *Pool) link(r *Ragdoll) {
	r.prev = p.tail
	r.next = nil
	if p.tail != nil {
		p.tail.next = r
	} else {
		p.head = r
	}
	p.tail = r
	p.count++
}

func (p *Pool) unlink(r *Ragdoll) {
	if r.prev != nil {
		r.prev.next = r.next
	} else {
		p.head = r.next
	}
	if r.next != nil {
		r.next.prev = r.prev
	} else {
		p.tail = r.prev
	}
	r.prev, r.next = nil, nil
	p.count--
}

type flatGround struct{}

func (flatGround) Height(x, z float64) float64 { return 0 }
