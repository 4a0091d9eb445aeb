// Package spatial provides surface acceleration structures for
// closest-point and brush-region queries against triangle meshes.
package spatial

import "github.com/NilsSchnorr/MeshNotes/pkg/math"

// SurfaceHit is the result of a closest-point query.
type SurfaceHit struct {
	Point    math.Vec3 // Closest point on the surface, local space
	Distance float32   // Distance from the query point
	Triangle int       // Index of the triangle containing Point
}

// SurfaceIndex answers surface queries for one mesh, in the mesh's
// local space. Implementations are read-only after construction.
type SurfaceIndex interface {
	// ClosestPoint returns the nearest surface point to p. The second
	// return is false only for an empty index.
	ClosestPoint(p math.Vec3) (SurfaceHit, bool)

	// ForEachTriangleInSphere calls fn for every triangle whose
	// bounding region intersects the sphere. fn returning false stops
	// the walk. Candidates are pruned by bounds, so fn may still see
	// triangles outside the sphere and must do its own exact test.
	ForEachTriangleInSphere(center math.Vec3, radius float32, fn func(triangle int) bool)
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// emptyAABB returns a box that any point will expand.
func emptyAABB() AABB {
	return AABB{
		Min: math.Vec3{X: 1e10, Y: 1e10, Z: 1e10},
		Max: math.Vec3{X: -1e10, Y: -1e10, Z: -1e10},
	}
}

// Expand grows the box to contain p.
func (b *AABB) Expand(p math.Vec3) {
	b.Min = b.Min.Min(p)
	b.Max = b.Max.Max(p)
}

// Merge grows the box to contain another box.
func (b *AABB) Merge(other AABB) {
	b.Min = b.Min.Min(other.Min)
	b.Max = b.Max.Max(other.Max)
}

// Size returns the box extents.
func (b AABB) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// DistanceSq returns the squared distance from p to the box
// (zero when p is inside).
func (b AABB) DistanceSq(p math.Vec3) float32 {
	clamped := p.Max(b.Min).Min(b.Max)
	return clamped.DistanceSq(p)
}

// IntersectsSphere reports whether the sphere overlaps the box.
func (b AABB) IntersectsSphere(center math.Vec3, radius float32) bool {
	return b.DistanceSq(center) <= radius*radius
}
