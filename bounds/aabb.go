package bounds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// NewAABB builds a box from two opposite corners, in any order.
func NewAABB(a, b mgl64.Vec3) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		Max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}
}

// AABBForSphere returns the box enclosing a sphere
func AABBForSphere(center mgl64.Vec3, radius float64) AABB {
	r := mgl64.Vec3{radius, radius, radius}
	return AABB{Min: center.Sub(r), Max: center.Add(r)}
}

func (a AABB) isShape() {}

func (a AABB) Center() mgl64.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

func (a AABB) HalfExtents() mgl64.Vec3 {
	return a.Max.Sub(a.Min).Mul(0.5)
}

// ToAABB returns the box itself, so that AABB satisfies Shape
func (a AABB) ToAABB() AABB {
	return a
}

// ToOBB returns the same volume as an oriented box with an identity basis
func (a AABB) ToOBB() OBB {
	return OBB{Center: a.Center(), HalfExtents: a.HalfExtents(), Rotation: mgl64.Ident3()}
}

// ContainsPoint checks if a point is inside the AABB
func (a AABB) ContainsPoint(point mgl64.Vec3) bool {
	return point.X() >= a.Min.X() && point.X() <= a.Max.X() &&
		point.Y() >= a.Min.Y() && point.Y() <= a.Max.Y() &&
		point.Z() >= a.Min.Z() && point.Z() <= a.Max.Z()
}

// Overlaps checks if two AABBs overlap
func (a AABB) Overlaps(other AABB) bool {
	// AABBs overlap if they overlap on all three axes
	return a.Max.X() >= other.Min.X() && a.Min.X() <= other.Max.X() &&
		a.Max.Y() >= other.Min.Y() && a.Min.Y() <= other.Max.Y() &&
		a.Max.Z() >= other.Min.Z() && a.Min.Z() <= other.Max.Z()
}

// Union returns the smallest box enclosing both boxes
func (a AABB) Union(other AABB) AABB {
	return AABB{
		Min: mgl64.Vec3{math.Min(a.Min[0], other.Min[0]), math.Min(a.Min[1], other.Min[1]), math.Min(a.Min[2], other.Min[2])},
		Max: mgl64.Vec3{math.Max(a.Max[0], other.Max[0]), math.Max(a.Max[1], other.Max[1]), math.Max(a.Max[2], other.Max[2])},
	}
}

// ClampPoint returns the point of the box closest to point. Points inside the box are returned unchanged.
func (a AABB) ClampPoint(point mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{
		mgl64.Clamp(point[0], a.Min[0], a.Max[0]),
		mgl64.Clamp(point[1], a.Min[1], a.Max[1]),
		mgl64.Clamp(point[2], a.Min[2], a.Max[2]),
	}
}

func (a AABB) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	d := center.Sub(a.ClampPoint(center))
	return d.Dot(d) <= radius*radius
}

// EnclosingSphereOverlaps is a broad-phase test of the sphere around the box against another sphere
func (a AABB) EnclosingSphereOverlaps(center mgl64.Vec3, radius float64) bool {
	r := a.HalfExtents().Len() + radius
	d := center.Sub(a.Center())
	return d.Dot(d) <= r*r
}

// IntersectsOBB runs the separating axis test against an oriented box
func (a AABB) IntersectsOBB(other OBB, epsilon float64) bool {
	return a.ToOBB().IntersectsOBB(other, epsilon)
}

// FaceEscape returns the outward normal of the face nearest to an interior point, and the distance to it.
func (a AABB) FaceEscape(point mgl64.Vec3) (mgl64.Vec3, float64) {
	return a.ToOBB().FaceEscape(point)
}

// IntersectSegment reports whether the segment start->end crosses the box (slab method).
// The returned fraction is the entry point along the segment, in [0, 1].
func (a AABB) IntersectSegment(start, end mgl64.Vec3) (float64, bool) {
	return slab(start, end.Sub(start), a.Min, a.Max)
}

// ApplyTransform transforms the 8 corners and returns the box enclosing them
func (a AABB) ApplyTransform(m mgl64.Mat4) AABB {
	var out AABB
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{a.Min[0], a.Min[1], a.Min[2]}
		if i&1 != 0 {
			corner[0] = a.Max[0]
		}
		if i&2 != 0 {
			corner[1] = a.Max[1]
		}
		if i&4 != 0 {
			corner[2] = a.Max[2]
		}
		world := mgl64.TransformCoordinate(corner, m)
		if i == 0 {
			out = AABB{Min: world, Max: world}
			continue
		}
		for k := 0; k < 3; k++ {
			out.Min[k] = math.Min(out.Min[k], world[k])
			out.Max[k] = math.Max(out.Max[k], world[k])
		}
	}

	return out
}

func slab(origin, dir, min, max mgl64.Vec3) (float64, bool) {
	tMin, tMax := 0.0, 1.0
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			// Ray is parallel to slab
			if origin[i] < min[i] || origin[i] > max[i] {
				return 0, false
			}
			continue
		}

		inv := 1.0 / dir[i]
		t1 := (min[i] - origin[i]) * inv
		t2 := (max[i] - origin[i]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}

	return tMin, true
}
