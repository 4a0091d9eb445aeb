package merge

import (
	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// normalizeAxes rewrites every point of the imported document from its
// declared up-axis convention into the target convention, box centers
// and rotations included. The document's tag is updated so the
// transform is applied at most once.
func normalizeAxes(doc *annotation.Document, to annotation.UpAxis) {
	from := doc.UpAxis
	if !from.Valid() || from == to {
		doc.UpAxis = to
		return
	}
	for _, a := range doc.Annotations {
		a.Geometry = convertGeometry(a.Geometry, from, to)
	}
	doc.UpAxis = to
}

func convertGeometry(g annotation.Geometry, from, to annotation.UpAxis) annotation.Geometry {
	switch geo := g.(type) {
	case annotation.PointGeometry:
		geo.Point = from.ConvertPoint(geo.Point, to)
		return geo
	case annotation.LineGeometry:
		geo.Points = convertPoints(geo.Points, from, to)
		return geo
	case annotation.PolygonGeometry:
		geo.Points = convertPoints(geo.Points, from, to)
		return geo
	case annotation.SurfaceGeometry:
		geo.Centroid = from.ConvertPoint(geo.Centroid, to)
		return geo
	case annotation.BoxGeometry:
		geo.Center = from.ConvertPoint(geo.Center, to)
		geo.Size = convertSize(geo.Size, from, to)
		geo.Rotation = from.ConvertQuat(geo.Rotation, to)
		return geo
	default:
		return g
	}
}

func convertPoints(pts []math.Vec3, from, to annotation.UpAxis) []math.Vec3 {
	for i := range pts {
		pts[i] = from.ConvertPoint(pts[i], to)
	}
	return pts
}

// convertSize permutes box extents without the sign flip; extents are
// magnitudes.
func convertSize(s math.Vec3, from, to annotation.UpAxis) math.Vec3 {
	p := from.ConvertPoint(s, to)
	if p.X < 0 {
		p.X = -p.X
	}
	if p.Y < 0 {
		p.Y = -p.Y
	}
	if p.Z < 0 {
		p.Z = -p.Z
	}
	return p
}

// geometryEqual compares two geometry payloads by value.
func geometryEqual(a, b annotation.Geometry) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch ga := a.(type) {
	case annotation.PointGeometry:
		gb, ok := b.(annotation.PointGeometry)
		return ok && ga.Point == gb.Point
	case annotation.LineGeometry:
		gb, ok := b.(annotation.LineGeometry)
		return ok && ga.Measurement == gb.Measurement && pointsEqual(ga.Points, gb.Points)
	case annotation.PolygonGeometry:
		gb, ok := b.(annotation.PolygonGeometry)
		return ok && pointsEqual(ga.Points, gb.Points)
	case annotation.SurfaceGeometry:
		gb, ok := b.(annotation.SurfaceGeometry)
		if !ok || ga.Centroid != gb.Centroid || len(ga.Faces) != len(gb.Faces) {
			return false
		}
		for i := range ga.Faces {
			if ga.Faces[i] != gb.Faces[i] {
				return false
			}
		}
		return true
	case annotation.BoxGeometry:
		gb, ok := b.(annotation.BoxGeometry)
		return ok && ga.Center == gb.Center && ga.Size == gb.Size && ga.Rotation == gb.Rotation
	default:
		return false
	}
}

func pointsEqual(a, b []math.Vec3) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
