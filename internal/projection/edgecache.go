package projection

import "github.com/NilsSchnorr/MeshNotes/pkg/math"

// EdgeFunc produces the polyline for one logical edge.
type EdgeFunc func(a, b math.Vec3) []math.Vec3

// EdgeCache stores the projected polyline of every logical edge of an
// annotation. Edge i joins points[i] to points[i+1]; a closed cache has
// one extra edge joining the last point back to the first.
//
// Invariant: len(edges) == len(points)-1 for an open polyline and
// len(edges) == len(points) for a closed one.
type EdgeCache struct {
	edges  [][]math.Vec3
	closed bool
}

// NewEdgeCache creates an empty cache. closed selects polygon wraparound.
func NewEdgeCache(closed bool) *EdgeCache {
	return &EdgeCache{closed: closed}
}

// Closed reports whether the cache wraps around.
func (c *EdgeCache) Closed() bool {
	return c.closed
}

// Edges returns the cached polylines in edge order.
func (c *EdgeCache) Edges() [][]math.Vec3 {
	return c.edges
}

// edgeCount returns the number of logical edges for n points.
func (c *EdgeCache) edgeCount(n int) int {
	if n < 2 {
		return 0
	}
	if c.closed {
		return n
	}
	return n - 1
}

// Rebuild recomputes every edge from scratch.
func (c *EdgeCache) Rebuild(points []math.Vec3, project EdgeFunc) {
	n := c.edgeCount(len(points))
	c.edges = make([][]math.Vec3, n)
	for i := 0; i < n; i++ {
		c.edges[i] = project(points[i], points[(i+1)%len(points)])
	}
}

// RecomputePoint refreshes only the edges incident to the moved point:
// the edge leaving it and the edge arriving at it. All other cached
// edges are left untouched.
func (c *EdgeCache) RecomputePoint(points []math.Vec3, moved int, project EdgeFunc) {
	n := len(points)
	if moved < 0 || moved >= n || c.edgeCount(n) != len(c.edges) {
		// Cache out of step with the points; rebuild rather than guess.
		c.Rebuild(points, project)
		return
	}
	if len(c.edges) == 0 {
		return
	}

	// Outgoing edge: points[moved] -> points[moved+1].
	if moved < n-1 || c.closed {
		i := moved % len(c.edges)
		c.edges[i] = project(points[i], points[(i+1)%n])
	}
	// Incoming edge: points[moved-1] -> points[moved].
	if moved > 0 || c.closed {
		i := (moved - 1 + len(c.edges)) % len(c.edges)
		c.edges[i] = project(points[i], points[(i+1)%n])
	}
}

// AppendPoint extends the cache after a point is added at the end of
// the polyline while drawing.
func (c *EdgeCache) AppendPoint(points []math.Vec3, project EdgeFunc) {
	n := len(points)
	want := c.edgeCount(n)
	if want == len(c.edges) {
		return
	}
	if want != len(c.edges)+1 || want < 1 {
		c.Rebuild(points, project)
		return
	}
	if c.closed && n > 2 {
		// The previous wraparound edge now points at the new vertex.
		c.edges[len(c.edges)-1] = project(points[n-2], points[n-1])
		c.edges = append(c.edges, project(points[n-1], points[0]))
		return
	}
	c.edges = append(c.edges, project(points[n-2], points[n-1]))
}
