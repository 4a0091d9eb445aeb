package spatial

import (
	"sort"

	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// bvhLeafSize is the maximum triangle count per leaf node.
const bvhLeafSize = 4

// BVH is a bounding-volume hierarchy over a triangle soup. Triangles
// are referenced by index into the position array they were built from.
type BVH struct {
	positions []float32 // 9 floats per triangle, not owned
	nodes     []bvhNode
	order     []int // triangle indices, permuted so leaves are contiguous
}

type bvhNode struct {
	bounds AABB
	// Interior nodes store child indices; leaves store a range into order.
	left, right  int32
	start, count int32
	leaf         bool
}

// NewBVH builds a hierarchy over a flat triangle position array
// (9 floats per triangle). The array is referenced, not copied.
func NewBVH(positions []float32) *BVH {
	n := len(positions) / 9
	b := &BVH{
		positions: positions,
		order:     make([]int, n),
	}
	for i := range b.order {
		b.order[i] = i
	}
	if n == 0 {
		return b
	}

	centroids := make([]math.Vec3, n)
	for i := 0; i < n; i++ {
		a, p, q := b.triangle(i)
		centroids[i] = a.Add(p).Add(q).Scale(1.0 / 3.0)
	}

	b.nodes = make([]bvhNode, 0, 2*n)
	b.build(0, n, centroids)
	return b
}

// triangle returns the corners of triangle i.
func (b *BVH) triangle(i int) (math.Vec3, math.Vec3, math.Vec3) {
	o := i * 9
	return math.Vec3{X: b.positions[o], Y: b.positions[o+1], Z: b.positions[o+2]},
		math.Vec3{X: b.positions[o+3], Y: b.positions[o+4], Z: b.positions[o+5]},
		math.Vec3{X: b.positions[o+6], Y: b.positions[o+7], Z: b.positions[o+8]}
}

// build creates the subtree for order[start:end] and returns its node index.
func (b *BVH) build(start, end int, centroids []math.Vec3) int32 {
	idx := int32(len(b.nodes))
	b.nodes = append(b.nodes, bvhNode{})

	bounds := emptyAABB()
	centroidBounds := emptyAABB()
	for _, tri := range b.order[start:end] {
		p0, p1, p2 := b.triangle(tri)
		bounds.Expand(p0)
		bounds.Expand(p1)
		bounds.Expand(p2)
		centroidBounds.Expand(centroids[tri])
	}

	if end-start <= bvhLeafSize {
		b.nodes[idx] = bvhNode{
			bounds: bounds,
			start:  int32(start),
			count:  int32(end - start),
			leaf:   true,
		}
		return idx
	}

	// Median split along the longest centroid axis.
	size := centroidBounds.Size()
	axis := 0
	if size.Y > size.X {
		axis = 1
	}
	if size.Z > size.X && size.Z > size.Y {
		axis = 2
	}
	span := b.order[start:end]
	sort.Slice(span, func(i, j int) bool {
		return axisValue(centroids[span[i]], axis) < axisValue(centroids[span[j]], axis)
	})
	mid := start + (end-start)/2

	left := b.build(start, mid, centroids)
	right := b.build(mid, end, centroids)
	b.nodes[idx] = bvhNode{bounds: bounds, left: left, right: right}
	return idx
}

func axisValue(v math.Vec3, axis int) float32 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// ClosestPoint implements SurfaceIndex.
func (b *BVH) ClosestPoint(p math.Vec3) (SurfaceHit, bool) {
	if len(b.nodes) == 0 {
		return SurfaceHit{}, false
	}
	best := SurfaceHit{Distance: 1e30, Triangle: -1}
	b.closest(0, p, &best)
	if best.Triangle < 0 {
		return SurfaceHit{}, false
	}
	return best, true
}

func (b *BVH) closest(node int32, p math.Vec3, best *SurfaceHit) {
	n := &b.nodes[node]
	if n.bounds.DistanceSq(p) >= best.Distance*best.Distance {
		return
	}
	if n.leaf {
		for _, tri := range b.order[n.start : n.start+n.count] {
			a, q, r := b.triangle(tri)
			cp := ClosestPointOnTriangle(p, a, q, r)
			d := cp.Distance(p)
			if d < best.Distance {
				best.Point = cp
				best.Distance = d
				best.Triangle = tri
			}
		}
		return
	}
	// Descend into the nearer child first to tighten the bound early.
	dl := b.nodes[n.left].bounds.DistanceSq(p)
	dr := b.nodes[n.right].bounds.DistanceSq(p)
	if dl <= dr {
		b.closest(n.left, p, best)
		b.closest(n.right, p, best)
	} else {
		b.closest(n.right, p, best)
		b.closest(n.left, p, best)
	}
}

// ForEachTriangleInSphere implements SurfaceIndex.
func (b *BVH) ForEachTriangleInSphere(center math.Vec3, radius float32, fn func(triangle int) bool) {
	if len(b.nodes) == 0 {
		return
	}
	b.sphereWalk(0, center, radius, fn)
}

func (b *BVH) sphereWalk(node int32, center math.Vec3, radius float32, fn func(triangle int) bool) bool {
	n := &b.nodes[node]
	if !n.bounds.IntersectsSphere(center, radius) {
		return true
	}
	if n.leaf {
		for _, tri := range b.order[n.start : n.start+n.count] {
			if !fn(tri) {
				return false
			}
		}
		return true
	}
	if !b.sphereWalk(n.left, center, radius, fn) {
		return false
	}
	return b.sphereWalk(n.right, center, radius, fn)
}
