package bounds

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeAABB ShapeType = iota
	ShapeTypeOBB
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeAABB:
		return "aabb"
	case ShapeTypeOBB:
		return "obb"
	}
	return fmt.Sprintf("ShapeType(%d)", int(t))
}

// Shape is the closed set of static collider volumes: AABB or OBB.
// The unexported marker keeps other packages from adding variants, so a type switch
// over AABB and OBB is exhaustive.
type Shape interface {
	isShape()
	ToAABB() AABB
	ClampPoint(point mgl64.Vec3) mgl64.Vec3
	ContainsPoint(point mgl64.Vec3) bool
	IntersectsSphere(center mgl64.Vec3, radius float64) bool
	FaceEscape(point mgl64.Vec3) (mgl64.Vec3, float64)
	IntersectSegment(start, end mgl64.Vec3) (float64, bool)
}

// TypeOf reports which variant a shape is
func TypeOf(s Shape) ShapeType {
	switch s.(type) {
	case AABB:
		return ShapeTypeAABB
	case OBB:
		return ShapeTypeOBB
	}
	panic(fmt.Sprintf("bounds: unknown shape %T", s))
}

// Intersects tests two shapes against each other, picking the cheapest test for the pair
func Intersects(a, b Shape, epsilon float64) bool {
	switch sa := a.(type) {
	case AABB:
		switch sb := b.(type) {
		case AABB:
			return sa.Overlaps(sb)
		case OBB:
			return sa.IntersectsOBB(sb, epsilon)
		}
	case OBB:
		switch sb := b.(type) {
		case AABB:
			return sb.IntersectsOBB(sa, epsilon)
		case OBB:
			return sa.IntersectsOBB(sb, epsilon)
		}
	}
	panic(fmt.Sprintf("bounds: unknown shape pair %T, %T", a, b))
}

// Transform moves a shape by an affine matrix. An AABB stays axis aligned and grows to enclose
// its rotated corners; an OBB keeps its orientation.
func Transform(s Shape, m mgl64.Mat4) Shape {
	switch v := s.(type) {
	case AABB:
		return v.ApplyTransform(m)
	case OBB:
		return v.ApplyTransform(m)
	}
	panic(fmt.Sprintf("bounds: unknown shape %T", s))
}
