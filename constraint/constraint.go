// Package constraint resolves interpenetration: actors against static colliders,
// and actors against each other.
package constraint

type Constraint interface {
	SolvePosition()
}
