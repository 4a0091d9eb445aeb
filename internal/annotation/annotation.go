// Package annotation holds the in-memory document model: annotations,
// groups, entries and their append-only version histories.
package annotation

import (
	"time"

	"github.com/google/uuid"

	"github.com/NilsSchnorr/MeshNotes/internal/mesh"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// Kind tags the geometry variant of an annotation.
type Kind string

// Geometry kinds as they appear in the document format.
const (
	KindPoint   Kind = "point"
	KindLine    Kind = "line"
	KindPolygon Kind = "polygon"
	KindSurface Kind = "surface"
	KindBox     Kind = "box"
)

// Geometry is the payload of one annotation. Exactly one variant is
// attached per annotation; consumers dispatch with a type switch.
type Geometry interface {
	Kind() Kind
}

// PointGeometry marks a single location.
type PointGeometry struct {
	Point math.Vec3
}

// Kind implements Geometry.
func (PointGeometry) Kind() Kind { return KindPoint }

// LineGeometry is an open polyline. Measurement lines come from the
// measure tool and render with a length label.
type LineGeometry struct {
	Points      []math.Vec3
	Measurement bool
}

// Kind implements Geometry.
func (LineGeometry) Kind() Kind { return KindLine }

// PolygonGeometry is a closed polyline.
type PolygonGeometry struct {
	Points []math.Vec3
}

// Kind implements Geometry.
func (PolygonGeometry) Kind() Kind { return KindPolygon }

// SurfaceGeometry is a painted set of mesh faces plus its anchor point.
type SurfaceGeometry struct {
	Faces    []mesh.FaceID
	Centroid math.Vec3
}

// Kind implements Geometry.
func (SurfaceGeometry) Kind() Kind { return KindSurface }

// BoxGeometry is an oriented box.
type BoxGeometry struct {
	Center   math.Vec3
	Size     math.Vec3
	Rotation math.Quat
}

// Kind implements Geometry.
func (BoxGeometry) Kind() Kind { return KindBox }

// NameVersion is a snapshot of a previous display name.
type NameVersion struct {
	Name    string
	SavedAt time.Time
}

// GroupVersion is a snapshot of a previous group assignment.
type GroupVersion struct {
	GroupUUID uuid.UUID
	SavedAt   time.Time
}

// Annotation is one documented feature anchored to the model.
//
// The UUID is assigned once and survives edits, export and merge. The
// LocalID is a session-scoped numeric handle for fast UI lookup and is
// regenerated on every load.
type Annotation struct {
	UUID      uuid.UUID
	LocalID   int
	Name      string
	GroupUUID uuid.UUID
	Geometry  Geometry
	Entries   []*Entry

	// Append-only histories of previous names and group assignments.
	NameVersions  []NameVersion
	GroupVersions []GroupVersion
}

// Points returns the geometry's point list, or nil for kinds without
// one.
func (a *Annotation) Points() []math.Vec3 {
	switch g := a.Geometry.(type) {
	case PointGeometry:
		return []math.Vec3{g.Point}
	case LineGeometry:
		return g.Points
	case PolygonGeometry:
		return g.Points
	default:
		return nil
	}
}

// LatestEntryTime returns the newest effective timestamp over all
// entries, or the zero time when the annotation has none. The merge
// engine compares these to decide which side's metadata wins.
func (a *Annotation) LatestEntryTime() time.Time {
	var latest time.Time
	for _, e := range a.Entries {
		if t := e.EffectiveTime(); t.After(latest) {
			latest = t
		}
	}
	return latest
}
