package bounds

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultEpsilon is added to the projected radii of the separating axis test, so that
// near-parallel edges whose cross product degenerates do not produce false separations.
const DefaultEpsilon = 1e-9

// OBB represents an oriented box
// The box is defined by its center, its half-extents along its local axes, and the
// rotation whose columns are those local axes expressed in world space.
type OBB struct {
	Center      mgl64.Vec3
	HalfExtents mgl64.Vec3
	Rotation    mgl64.Mat3
}

// NewOBB creates an oriented box. A zero rotation matrix is treated as the identity.
func NewOBB(center, halfExtents mgl64.Vec3, rotation mgl64.Mat3) OBB {
	if rotation == (mgl64.Mat3{}) {
		rotation = mgl64.Ident3()
	}

	return OBB{Center: center, HalfExtents: halfExtents, Rotation: rotation}
}

func (b OBB) isShape() {}

// Axis returns the i-th local axis in world space
func (b OBB) Axis(i int) mgl64.Vec3 {
	return b.Rotation.Col(i)
}

// Sanitize repairs a malformed box: negative extents are made positive, extents below
// minHalfExtent are raised to it, and a non-orthonormal basis is replaced by the identity.
// The second return value reports whether anything had to be repaired.
func (b OBB) Sanitize(minHalfExtent float64) (OBB, bool) {
	repaired := false
	for i := 0; i < 3; i++ {
		h := b.HalfExtents[i]
		if math.IsNaN(h) || math.IsInf(h, 0) {
			h = minHalfExtent
			repaired = true
		}
		if h < 0 {
			h = -h
			repaired = true
		}
		if h < minHalfExtent {
			h = minHalfExtent
			repaired = true
		}
		b.HalfExtents[i] = h
	}

	if !isOrthonormal(b.Rotation) {
		b.Rotation = mgl64.Ident3()
		repaired = true
	}

	return b, repaired
}

func isOrthonormal(m mgl64.Mat3) bool {
	const tolerance = 1e-6
	for i := 0; i < 3; i++ {
		if math.Abs(m.Col(i).Len()-1) > tolerance {
			return false
		}
		for j := i + 1; j < 3; j++ {
			if math.Abs(m.Col(i).Dot(m.Col(j))) > tolerance {
				return false
			}
		}
	}

	return true
}

// ToLocal transforms a world point into box-local coordinates
func (b OBB) ToLocal(point mgl64.Vec3) mgl64.Vec3 {
	return b.Rotation.Transpose().Mul3x1(point.Sub(b.Center))
}

// ToWorld transforms a box-local point into world coordinates
func (b OBB) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return b.Rotation.Mul3x1(local).Add(b.Center)
}

// ToAABB returns the world-space axis-aligned box enclosing the oriented box
func (b OBB) ToAABB() AABB {
	var extent mgl64.Vec3
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			extent[row] += math.Abs(b.Rotation.At(row, col)) * b.HalfExtents[col]
		}
	}

	return AABB{Min: b.Center.Sub(extent), Max: b.Center.Add(extent)}
}

func (b OBB) ContainsPoint(point mgl64.Vec3) bool {
	local := b.ToLocal(point)
	for i := 0; i < 3; i++ {
		if math.Abs(local[i]) > b.HalfExtents[i] {
			return false
		}
	}

	return true
}

// ClampPoint returns the closest point of the box to point: the point is moved into local space,
// each axis is clamped to [-halfExtent, +halfExtent], and the result is moved back to world space.
func (b OBB) ClampPoint(point mgl64.Vec3) mgl64.Vec3 {
	local := b.ToLocal(point)
	for i := 0; i < 3; i++ {
		local[i] = mgl64.Clamp(local[i], -b.HalfExtents[i], b.HalfExtents[i])
	}

	return b.ToWorld(local)
}

func (b OBB) IntersectsSphere(center mgl64.Vec3, radius float64) bool {
	d := center.Sub(b.ClampPoint(center))
	return d.Dot(d) <= radius*radius
}

// EnclosingSphereOverlaps is a broad-phase test of the sphere around the box against another sphere
func (b OBB) EnclosingSphereOverlaps(center mgl64.Vec3, radius float64) bool {
	r := b.HalfExtents.Len() + radius
	d := center.Sub(b.Center)
	return d.Dot(d) <= r*r
}

// FaceEscape returns the outward normal of the face nearest to a point inside the box,
// and the distance from the point to that face.
func (b OBB) FaceEscape(point mgl64.Vec3) (mgl64.Vec3, float64) {
	local := b.ToLocal(point)

	bestDist := math.MaxFloat64
	bestAxis := 0
	bestSign := 1.0
	for i := 0; i < 3; i++ {
		if d := b.HalfExtents[i] - local[i]; d < bestDist {
			bestDist, bestAxis, bestSign = d, i, 1
		}
		if d := b.HalfExtents[i] + local[i]; d < bestDist {
			bestDist, bestAxis, bestSign = d, i, -1
		}
	}

	return b.Axis(bestAxis).Mul(bestSign), math.Max(bestDist, 0)
}

// IntersectSegment reports whether the segment start->end crosses the box.
// The returned fraction is the entry point along the segment, in [0, 1].
func (b OBB) IntersectSegment(start, end mgl64.Vec3) (float64, bool) {
	localStart := b.ToLocal(start)
	localEnd := b.ToLocal(end)

	return slab(localStart, localEnd.Sub(localStart), b.HalfExtents.Mul(-1), b.HalfExtents)
}

// IntersectsOBB tests two oriented boxes with the separating axis theorem.
// The 15 candidate axes are the 3 face normals of each box and the 9 cross products of their edges.
func (b OBB) IntersectsOBB(other OBB, epsilon float64) bool {
	var R, AbsR [3][3]float64

	// Rotation expressing other in b's coordinate frame
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			R[i][j] = b.Axis(i).Dot(other.Axis(j))
			AbsR[i][j] = math.Abs(R[i][j]) + epsilon
		}
	}

	d := other.Center.Sub(b.Center)
	t := mgl64.Vec3{d.Dot(b.Axis(0)), d.Dot(b.Axis(1)), d.Dot(b.Axis(2))}

	a := b.HalfExtents
	e := other.HalfExtents

	// Axes L = A0, A1, A2
	for i := 0; i < 3; i++ {
		ra := a[i]
		rb := e[0]*AbsR[i][0] + e[1]*AbsR[i][1] + e[2]*AbsR[i][2]
		if math.Abs(t[i]) > ra+rb {
			return false
		}
	}

	// Axes L = B0, B1, B2
	for j := 0; j < 3; j++ {
		ra := a[0]*AbsR[0][j] + a[1]*AbsR[1][j] + a[2]*AbsR[2][j]
		rb := e[j]
		if math.Abs(t[0]*R[0][j]+t[1]*R[1][j]+t[2]*R[2][j]) > ra+rb {
			return false
		}
	}

	// Axes L = Ai x Bj
	for i := 0; i < 3; i++ {
		i1, i2 := (i+1)%3, (i+2)%3
		for j := 0; j < 3; j++ {
			j1, j2 := (j+1)%3, (j+2)%3
			ra := a[i1]*AbsR[i2][j] + a[i2]*AbsR[i1][j]
			rb := e[j1]*AbsR[i][j2] + e[j2]*AbsR[i][j1]
			if math.Abs(t[i2]*R[i1][j]-t[i1]*R[i2][j]) > ra+rb {
				return false
			}
		}
	}

	return true
}

// ApplyTransform returns the box moved by an affine matrix. Scale is folded into the half-extents,
// so the resulting basis stays orthonormal; shear is not representable and is discarded.
func (b OBB) ApplyTransform(m mgl64.Mat4) OBB {
	linear := m.Mat3()
	out := OBB{Center: mgl64.TransformCoordinate(b.Center, m)}

	var axes [3]mgl64.Vec3
	for i := 0; i < 3; i++ {
		v := linear.Mul3x1(b.Axis(i))
		out.HalfExtents[i] = b.HalfExtents[i] * v.Len()
		axes[i] = v
	}

	out.Rotation = orthonormalize(axes)
	return out
}

// orthonormalize runs Gram-Schmidt over three axes, falling back to world axes for degenerate input
func orthonormalize(axes [3]mgl64.Vec3) mgl64.Mat3 {
	x := axes[0]
	if x.Len() < 1e-12 {
		x = mgl64.Vec3{1, 0, 0}
	}
	x = x.Normalize()

	y := axes[1].Sub(x.Mul(axes[1].Dot(x)))
	if y.Len() < 1e-12 {
		y = anyPerpendicular(x)
	}
	y = y.Normalize()

	z := x.Cross(y)
	if axes[2].Dot(z) < 0 {
		z = z.Mul(-1)
	}

	return mgl64.Mat3FromCols(x, y, z)
}

func anyPerpendicular(v mgl64.Vec3) mgl64.Vec3 {
	var helper mgl64.Vec3
	if math.Abs(v.X()) > 0.9 {
		helper = mgl64.Vec3{0, 1, 0}
	} else {
		helper = mgl64.Vec3{1, 0, 0}
	}

	return helper.Sub(v.Mul(helper.Dot(v)))
}
