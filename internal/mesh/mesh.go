// Package mesh models the read-only triangle geometry annotations are
// anchored to: sub-meshes with world transforms, compact face
// identifiers, and the scene-wide bounds other subsystems measure
// against.
package mesh

import (
	"github.com/NilsSchnorr/MeshNotes/internal/spatial"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// Bounds is an axis-aligned bounding box tracked while ingesting
// geometry.
type Bounds struct {
	Min, Max math.Vec3
}

func emptyBounds() Bounds {
	return Bounds{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Expand grows the bounds to contain p.
func (b *Bounds) Expand(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Diagonal returns the length of the box diagonal.
func (b Bounds) Diagonal() float32 {
	return b.Max.Sub(b.Min).Length()
}

// Transform holds a mesh's placement in the world.
type Transform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3
}

// IdentityTransform returns a no-op placement.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// Mesh is one immutable triangle set with a world transform and an
// optional surface index. Positions are local space, 9 floats per
// triangle.
type Mesh struct {
	Name      string
	positions []float32
	transform Transform

	world      math.Mat4
	worldInv   math.Mat4
	localBound Bounds

	index spatial.SurfaceIndex
}

// NewMesh creates a mesh from a flat local-space position array
// (9 floats per triangle). The array is referenced, not copied.
func NewMesh(name string, positions []float32, transform Transform) *Mesh {
	m := &Mesh{
		Name:       name,
		positions:  positions,
		transform:  transform,
		localBound: emptyBounds(),
	}
	m.world = math.TRS(transform.Position, transform.Rotation, transform.Scale)
	m.worldInv = m.world.Inverse()
	for i := 0; i+2 < len(positions); i += 3 {
		m.localBound.Expand(math.Vec3{X: positions[i], Y: positions[i+1], Z: positions[i+2]})
	}
	return m
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.positions) / 9
}

// Positions returns the local-space position array.
func (m *Mesh) Positions() []float32 {
	return m.positions
}

// Triangle returns the local-space corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c math.Vec3) {
	o := i * 9
	a = math.Vec3{X: m.positions[o], Y: m.positions[o+1], Z: m.positions[o+2]}
	b = math.Vec3{X: m.positions[o+3], Y: m.positions[o+4], Z: m.positions[o+5]}
	c = math.Vec3{X: m.positions[o+6], Y: m.positions[o+7], Z: m.positions[o+8]}
	return
}

// Centroid returns the local-space centroid of triangle i.
func (m *Mesh) Centroid(i int) math.Vec3 {
	a, b, c := m.Triangle(i)
	return a.Add(b).Add(c).Scale(1.0 / 3.0)
}

// WorldTriangle returns the world-space corners of triangle i.
func (m *Mesh) WorldTriangle(i int) (a, b, c math.Vec3) {
	la, lb, lc := m.Triangle(i)
	return m.world.TransformPoint(la), m.world.TransformPoint(lb), m.world.TransformPoint(lc)
}

// LocalToWorld transforms a local-space point to world space.
func (m *Mesh) LocalToWorld(p math.Vec3) math.Vec3 {
	return m.world.TransformPoint(p)
}

// WorldToLocal transforms a world-space point to the mesh's local space.
func (m *Mesh) WorldToLocal(p math.Vec3) math.Vec3 {
	return m.worldInv.TransformPoint(p)
}

// AverageScale returns the mean of the world-transform scale factors.
// Brush radii given in world units are divided by this before local
// comparisons so non-uniform scaling is respected approximately.
func (m *Mesh) AverageScale() float32 {
	s := m.world.ScaleFactors()
	avg := (s.X + s.Y + s.Z) / 3
	if avg <= 0 {
		return 1
	}
	return avg
}

// LocalBounds returns the local-space bounding box.
func (m *Mesh) LocalBounds() Bounds {
	return m.localBound
}

// WorldBounds returns the bounds of the transformed box corners.
func (m *Mesh) WorldBounds() Bounds {
	wb := emptyBounds()
	lo, hi := m.localBound.Min, m.localBound.Max
	for _, x := range []float32{lo.X, hi.X} {
		for _, y := range []float32{lo.Y, hi.Y} {
			for _, z := range []float32{lo.Z, hi.Z} {
				wb.Expand(m.world.TransformPoint(math.Vec3{X: x, Y: y, Z: z}))
			}
		}
	}
	return wb
}

// Index returns the mesh's surface index, or nil when none was built.
func (m *Mesh) Index() spatial.SurfaceIndex {
	return m.index
}

// SetIndex attaches a surface index built over this mesh's positions.
func (m *Mesh) SetIndex(idx spatial.SurfaceIndex) {
	m.index = idx
}
