// Package paint maintains the painted-face set of an active surface
// annotation session and the incremental highlight buffer behind its
// live preview.
package paint

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/mesh"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// ErrNothingPainted is reported when a surface session finishes with an
// empty painted set.
var ErrNothingPainted = errors.New("nothing painted")

// Result is a finalized surface selection.
type Result struct {
	// Centroid is the unweighted average of the painted triangles'
	// world-space centroids, used as the annotation's anchor point.
	Centroid math.Vec3
	// Faces lists the painted faces in ascending FaceID order.
	Faces []mesh.FaceID
}

// Engine owns the painted set and highlight buffer for one surface
// drawing session. It is reset by Finish or Cancel; no other component
// touches its state while a session runs.
type Engine struct {
	scene   *mesh.Scene
	painted map[mesh.FaceID]struct{}
	buffer  *HighlightBuffer
	log     *zap.Logger

	warnedNoIndex bool
}

// NewEngine creates a paint engine over the scene. A nil logger
// disables logging.
func NewEngine(scene *mesh.Scene, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		scene:   scene,
		painted: make(map[mesh.FaceID]struct{}),
		buffer:  NewHighlightBuffer(),
		log:     log,
	}
}

// PaintedCount returns the size of the painted set.
func (e *Engine) PaintedCount() int {
	return len(e.painted)
}

// Contains reports whether a face is currently painted.
func (e *Engine) Contains(id mesh.FaceID) bool {
	_, ok := e.painted[id]
	return ok
}

// Buffer returns the highlight buffer the renderer consumes.
func (e *Engine) Buffer() *HighlightBuffer {
	return e.buffer
}

// Paint applies one brush evaluation: every triangle of the target mesh
// whose centroid lies within radius of the world-space center is added
// to (or, with erase, removed from) the painted set. Returns the number
// of faces that changed.
//
// Newly painted triangles are appended to the highlight buffer; an
// erase that removed anything triggers one full buffer rebuild, since
// append-only updates cannot represent holes.
func (e *Engine) Paint(center math.Vec3, meshIndex int, radius float32, erase bool) int {
	m := e.scene.Mesh(meshIndex)
	if m == nil || radius <= 0 {
		return 0
	}

	local := m.WorldToLocal(center)
	localRadius := radius / m.AverageScale()

	changed := 0
	visit := func(tri int) bool {
		if m.Centroid(tri).Distance(local) > localRadius {
			return true
		}
		id := mesh.EncodeFaceID(meshIndex, tri)
		if erase {
			if _, ok := e.painted[id]; ok {
				delete(e.painted, id)
				changed++
			}
			return true
		}
		if _, ok := e.painted[id]; !ok {
			e.painted[id] = struct{}{}
			a, b, c := m.WorldTriangle(tri)
			e.buffer.AppendTriangle(a, b, c)
			changed++
		}
		return true
	}

	if idx := m.Index(); idx != nil {
		idx.ForEachTriangleInSphere(local, localRadius, visit)
	} else {
		if !e.warnedNoIndex {
			e.warnedNoIndex = true
			e.log.Debug("mesh has no surface index, brush falls back to full scan",
				zap.Int("mesh", meshIndex))
		}
		for tri := 0; tri < m.TriangleCount(); tri++ {
			visit(tri)
		}
	}

	if erase && changed > 0 {
		e.rebuildBuffer()
	}
	return changed
}

// rebuildBuffer regenerates the highlight buffer from the painted set.
// Faces are emitted in FaceID order so rebuilds are deterministic.
func (e *Engine) rebuildBuffer() {
	e.buffer.Reset()
	for _, id := range e.sortedFaces() {
		meshIdx, tri := id.Split()
		m := e.scene.Mesh(meshIdx)
		if m == nil || tri >= m.TriangleCount() {
			continue
		}
		a, b, c := m.WorldTriangle(tri)
		e.buffer.AppendTriangle(a, b, c)
	}
}

func (e *Engine) sortedFaces() []mesh.FaceID {
	faces := make([]mesh.FaceID, 0, len(e.painted))
	for id := range e.painted {
		faces = append(faces, id)
	}
	sort.Slice(faces, func(i, j int) bool { return faces[i] < faces[j] })
	return faces
}

// Finish converts the painted set into a Result and resets all session
// state. An empty set returns ErrNothingPainted and mutates nothing.
func (e *Engine) Finish() (*Result, error) {
	if len(e.painted) == 0 {
		return nil, ErrNothingPainted
	}

	faces := e.sortedFaces()
	var sum math.Vec3
	counted := 0
	for _, id := range faces {
		meshIdx, tri := id.Split()
		m := e.scene.Mesh(meshIdx)
		if m == nil || tri >= m.TriangleCount() {
			continue
		}
		sum = sum.Add(m.LocalToWorld(m.Centroid(tri)))
		counted++
	}
	res := &Result{Faces: faces}
	if counted > 0 {
		res.Centroid = sum.Scale(1 / float32(counted))
	}

	e.log.Debug("surface selection finished", zap.Int("faces", len(faces)))
	e.reset()
	return res, nil
}

// Cancel discards the session synchronously: painted set, highlight
// buffer and any pending state are all released.
func (e *Engine) Cancel() {
	e.reset()
}

func (e *Engine) reset() {
	e.painted = make(map[mesh.FaceID]struct{})
	e.buffer.Reset()
}
