// Package projection drapes annotation edges onto the nearest mesh
// surface and keeps per-edge polyline caches current as endpoints move.
package projection

import (
	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/mesh"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// Config holds the projection tuning knobs. The deviation factors are
// empirical; they bound how far a projected polyline may wander from
// the straight chord before the projection is discarded.
type Config struct {
	// Segments is the number of subdivisions per edge.
	Segments int
	// RelDeviation scales with the chord length.
	RelDeviation float32
	// AbsDeviation scales with the scene bounding size.
	AbsDeviation float32
}

// DefaultConfig returns the stock projection settings.
func DefaultConfig() Config {
	return Config{
		Segments:     24,
		RelDeviation: 0.35,
		AbsDeviation: 0.05,
	}
}

// Projector projects edges onto the surfaces of a scene.
type Projector struct {
	scene *mesh.Scene
	cfg   Config
	log   *zap.Logger

	warnedNoIndex bool
}

// New creates a projector over the given scene. A nil logger disables
// logging.
func New(scene *mesh.Scene, cfg Config, log *zap.Logger) *Projector {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Segments < 1 {
		cfg.Segments = 1
	}
	return &Projector{scene: scene, cfg: cfg, log: log}
}

// ProjectEdge samples segments+1 evenly spaced points along the
// straight line from a to b and snaps each to the globally nearest
// surface point across all indexed meshes. Samples no mesh can answer
// stay on the straight line. The polyline is returned regardless of
// acceptance; use Acceptable to decide whether to keep it.
func (p *Projector) ProjectEdge(a, b math.Vec3, segments int) []math.Vec3 {
	if segments < 1 {
		segments = p.cfg.Segments
	}
	out := make([]math.Vec3, 0, segments+1)
	for i := 0; i <= segments; i++ {
		t := float32(i) / float32(segments)
		sample := a.Lerp(b, t)
		out = append(out, p.snapToSurface(sample))
	}
	return out
}

// snapToSurface returns the nearest surface point to the world-space
// sample, or the sample itself when no mesh has an index.
func (p *Projector) snapToSurface(sample math.Vec3) math.Vec3 {
	best := sample
	bestDist := float32(-1)
	indexed := false
	for _, m := range p.scene.Meshes() {
		idx := m.Index()
		if idx == nil {
			continue
		}
		indexed = true
		hit, ok := idx.ClosestPoint(m.WorldToLocal(sample))
		if !ok {
			continue
		}
		world := m.LocalToWorld(hit.Point)
		d := world.Distance(sample)
		if bestDist < 0 || d < bestDist {
			best = world
			bestDist = d
		}
	}
	if !indexed && !p.warnedNoIndex {
		p.warnedNoIndex = true
		p.log.Debug("no surface index in scene, projection degrades to straight lines")
	}
	return best
}

// Acceptable reports whether a projected polyline hugs the a-to-b chord
// closely enough to use. The limit is the smaller of a chord-relative
// and a model-size-relative bound, so short and long edges are both
// kept in check.
func (p *Projector) Acceptable(a, b math.Vec3, polyline []math.Vec3) bool {
	chord := b.Sub(a)
	chordLen := chord.Length()
	if chordLen == 0 {
		return true
	}
	dir := chord.Scale(1 / chordLen)

	limit := p.cfg.RelDeviation * chordLen
	if abs := p.cfg.AbsDeviation * p.scene.BoundingSize(); abs > 0 && abs < limit {
		limit = abs
	}

	for _, pt := range polyline {
		along := pt.Sub(a).Dot(dir)
		if along < 0 {
			along = 0
		} else if along > chordLen {
			along = chordLen
		}
		foot := a.Add(dir.Scale(along))
		if pt.Distance(foot) > limit {
			return false
		}
	}
	return true
}

// Edge projects the edge from a to b and applies the acceptance test,
// falling back to the straight two-point segment on rejection.
func (p *Projector) Edge(a, b math.Vec3) []math.Vec3 {
	poly := p.ProjectEdge(a, b, p.cfg.Segments)
	if p.Acceptable(a, b, poly) {
		return poly
	}
	return []math.Vec3{a, b}
}
