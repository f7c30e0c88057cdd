package physics

import (
	"github.com/gitchub12/gonk12new-sub000/actor"
	"github.com/gitchub12/gonk12new-sub000/bounds"
	"github.com/gitchub12/gonk12new-sub000/constraint"
	"github.com/gitchub12/gonk12new-sub000/pipeline"
)

// resolveActors separates every overlapping pair in registration order. Each correction is applied
// before the next pair is tested, so later pairs see the corrected positions.
func (w *World) resolveActors(live []*actor.Actor) {
	for i := 0; i < len(live); i++ {
		for j := i + 1; j < len(live); j++ {
			if contact, ok := constraint.DetectActors(live[i], live[j]); ok {
				contact.SolvePosition()
			}
		}
	}
}

type wallJob struct {
	index    int
	actor    *actor.Actor
	contacts []*constraint.WallContact
}

// resolveWalls pushes every actor out of the active colliders around it, colliders in registration
// order. Actors only depend on the static geometry here, so they are resolved independently; the
// contacts are published afterwards in actor order. It returns which actors stood on a collider.
func (w *World) resolveWalls(live []*actor.Actor) []bool {
	jobs := make([]*wallJob, 0, len(live))
	for i, a := range live {
		if !a.Immobile {
			jobs = append(jobs, &wallJob{index: i, actor: a})
		}
	}

	upDot := w.Tuning.Collision.GroundUpDot
	pipeline.Task(w.Workers, jobs, func(job *wallJob) {
		a := job.actor
		// Pushes are at most one radius deep, so colliders within two radii are enough
		candidates := w.Colliders.Query(bounds.AABBForSphere(a.Position, 2*a.Radius), false)
		for _, c := range candidates {
			contact, ok := constraint.DetectWall(a, c, upDot)
			if !ok {
				continue
			}
			contact.SolvePosition()
			job.contacts = append(job.contacts, contact)
		}
	})

	supported := make([]bool, len(live))
	for _, job := range jobs {
		for _, contact := range job.contacts {
			w.Events.recordContact(job.actor, contact.Collider)
			if contact.Grounded {
				supported[job.index] = true
			}
			if contact.Landed {
				w.landed(job.actor, contact.Fall)
			}
		}
	}

	return supported
}
