package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a position, orientation and scale in 3D space
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position: mgl64.Vec3{0, 0, 0},
		Rotation: mgl64.QuatIdent(),
		Scale:    mgl64.Vec3{1, 1, 1},
	}
}

// Decompose splits an affine world matrix into translation, rotation and scale.
// A zero scale column leaves that axis unrotated.
func Decompose(m mgl64.Mat4) Transform {
	t := Transform{Position: m.Col(3).Vec3()}

	var cols [3]mgl64.Vec3
	for i := 0; i < 3; i++ {
		c := m.Col(i).Vec3()
		t.Scale[i] = c.Len()
		if t.Scale[i] > 1e-12 {
			cols[i] = c.Mul(1 / t.Scale[i])
		} else {
			cols[i][i] = 1
		}
	}

	// A mirrored basis cannot be a rotation: fold the reflection into the scale
	if cols[0].Cross(cols[1]).Dot(cols[2]) < 0 {
		t.Scale[0] = -t.Scale[0]
		cols[0] = cols[0].Mul(-1)
	}

	t.Rotation = mgl64.Mat4ToQuat(mgl64.Mat3FromCols(cols[0], cols[1], cols[2]).Mat4()).Normalize()
	return t
}

// Matrix recomposes the transform as translation * rotation * scale
func (t Transform) Matrix() mgl64.Mat4 {
	return mgl64.Translate3D(t.Position.X(), t.Position.Y(), t.Position.Z()).
		Mul4(t.Rotation.Mat4()).
		Mul4(mgl64.Scale3D(t.Scale.X(), t.Scale.Y(), t.Scale.Z()))
}
