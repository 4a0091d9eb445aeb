package annotation

import "github.com/NilsSchnorr/MeshNotes/pkg/math"

// UpAxis declares which axis a document treats as "up". Conversion
// between conventions is a fixed axis permutation with a sign flip,
// not a general rotation.
type UpAxis string

// Supported up-axis conventions.
const (
	UpY UpAxis = "y"
	UpZ UpAxis = "z"
)

// Valid reports whether the tag names a known convention.
func (u UpAxis) Valid() bool {
	return u == UpY || u == UpZ
}

// ConvertPoint transforms a point from the u convention into the to
// convention. Same-convention conversion is the identity.
func (u UpAxis) ConvertPoint(p math.Vec3, to UpAxis) math.Vec3 {
	switch {
	case u == to:
		return p
	case u == UpZ && to == UpY:
		return math.Vec3{X: p.X, Y: p.Z, Z: -p.Y}
	case u == UpY && to == UpZ:
		return math.Vec3{X: p.X, Y: -p.Z, Z: p.Y}
	default:
		return p
	}
}

// ConvertQuat transforms a rotation between conventions by converting
// its vector part the same way points convert.
func (u UpAxis) ConvertQuat(q math.Quat, to UpAxis) math.Quat {
	v := u.ConvertPoint(math.Vec3{X: q.X, Y: q.Y, Z: q.Z}, to)
	return math.Quat{X: v.X, Y: v.Y, Z: v.Z, W: q.W}
}
