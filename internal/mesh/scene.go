package mesh

import (
	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/spatial"
)

// Scene is the ordered set of sub-meshes a model is made of. The order
// is significant: FaceIDs and document faceData refer to meshes by
// position in this list.
type Scene struct {
	meshes []*Mesh
	log    *zap.Logger
}

// NewScene creates an empty scene. A nil logger disables logging.
func NewScene(log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{log: log}
}

// Add appends a mesh and returns its index.
func (s *Scene) Add(m *Mesh) int {
	s.meshes = append(s.meshes, m)
	return len(s.meshes) - 1
}

// Meshes returns the mesh list in index order.
func (s *Scene) Meshes() []*Mesh {
	return s.meshes
}

// Mesh returns the mesh at index i, or nil when out of range.
func (s *Scene) Mesh(i int) *Mesh {
	if i < 0 || i >= len(s.meshes) {
		return nil
	}
	return s.meshes[i]
}

// Len returns the number of meshes.
func (s *Scene) Len() int {
	return len(s.meshes)
}

// BoundingSize returns the diagonal of the combined world bounds of all
// meshes. Used as the model-size reference for projection acceptance.
func (s *Scene) BoundingSize() float32 {
	if len(s.meshes) == 0 {
		return 0
	}
	combined := emptyBounds()
	for _, m := range s.meshes {
		wb := m.WorldBounds()
		combined.Expand(wb.Min)
		combined.Expand(wb.Max)
	}
	return combined.Diagonal()
}

// BuildIndexes constructs a BVH for every mesh at or under the triangle
// budget. Meshes over budget keep a nil index and degrade to
// brute-force painting and straight-line projection. A budget <= 0
// indexes everything.
func (s *Scene) BuildIndexes(maxTriangles int) {
	for i, m := range s.meshes {
		if m.index != nil {
			continue
		}
		if maxTriangles > 0 && m.TriangleCount() > maxTriangles {
			s.log.Debug("skipping surface index, mesh over budget",
				zap.Int("mesh", i),
				zap.String("name", m.Name),
				zap.Int("triangles", m.TriangleCount()),
				zap.Int("budget", maxTriangles))
			continue
		}
		m.SetIndex(spatial.NewBVH(m.Positions()))
	}
}
