// Package docio reads and writes the interchange document format: a
// JSON file carrying groups, annotations, model info entries and the
// up-axis convention the coordinates are expressed in.
package docio

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
	"github.com/NilsSchnorr/MeshNotes/internal/mesh"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

// ErrInvalidFormat is reported when the top-level document shape is
// unrecognized. The local document is never mutated in that case.
var ErrInvalidFormat = errors.New("invalid document format")

type vecJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type quatJSON struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
	W float32 `json:"w"`
}

type boxJSON struct {
	Center   vecJSON  `json:"center"`
	Size     vecJSON  `json:"size"`
	Rotation quatJSON `json:"rotation"`
}

type groupJSON struct {
	UUID    string `json:"uuid"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Visible bool   `json:"visible"`
}

type versionJSON struct {
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Links       []string  `json:"links,omitempty"`
	SavedAt     time.Time `json:"savedAt"`
}

type entryJSON struct {
	UUID        string        `json:"uuid,omitempty"`
	Description string        `json:"description"`
	Author      string        `json:"author"`
	CreatedAt   time.Time     `json:"createdAt"`
	ModifiedAt  *time.Time    `json:"modifiedAt,omitempty"`
	Links       []string      `json:"links,omitempty"`
	Versions    []versionJSON `json:"versions,omitempty"`
}

type nameVersionJSON struct {
	Name    string    `json:"name"`
	SavedAt time.Time `json:"savedAt"`
}

type groupVersionJSON struct {
	Group   string    `json:"group"`
	SavedAt time.Time `json:"savedAt"`
}

type annotationJSON struct {
	UUID        string             `json:"uuid,omitempty"`
	Type        string             `json:"type"`
	Name        string             `json:"name"`
	Group       string             `json:"group,omitempty"`
	Points      []vecJSON          `json:"points,omitempty"`
	Measurement bool               `json:"measurement,omitempty"`
	FaceData    []string           `json:"faceData,omitempty"`
	Centroid    *vecJSON           `json:"centroid,omitempty"`
	Box         *boxJSON           `json:"box,omitempty"`
	Entries     []entryJSON        `json:"entries,omitempty"`
	NameHist    []nameVersionJSON  `json:"nameVersions,omitempty"`
	GroupHist   []groupVersionJSON `json:"groupVersions,omitempty"`
}

type documentJSON struct {
	UpAxis      string           `json:"upAxis,omitempty"`
	Groups      []groupJSON      `json:"groups"`
	Annotations []annotationJSON `json:"annotations"`
	ModelInfo   []entryJSON      `json:"modelInfo,omitempty"`
}

// ImportReport describes what import had to repair or drop.
type ImportReport struct {
	SkippedAnnotations int
	SkippedFaces       int
	GeneratedUUIDs     int
}

func toVec(v vecJSON) math.Vec3     { return math.Vec3{X: v.X, Y: v.Y, Z: v.Z} }
func fromVec(v math.Vec3) vecJSON   { return vecJSON{X: v.X, Y: v.Y, Z: v.Z} }
func toQuat(q quatJSON) math.Quat   { return math.Quat{X: q.X, Y: q.Y, Z: q.Z, W: q.W} }
func fromQuat(q math.Quat) quatJSON { return quatJSON{X: q.X, Y: q.Y, Z: q.Z, W: q.W} }

func fromVecs(p []math.Vec3) []vecJSON {
	out := make([]vecJSON, len(p))
	for i, v := range p {
		out[i] = fromVec(v)
	}
	return out
}
func toVecs(p []vecJSON) []math.Vec3 {
	out := make([]math.Vec3, len(p))
	for i, v := range p {
		out[i] = toVec(v)
	}
	return out
}

// Export serializes a document to the interchange JSON form.
func Export(d *annotation.Document) ([]byte, error) {
	out := documentJSON{
		UpAxis:      string(d.UpAxis),
		Groups:      make([]groupJSON, 0, len(d.Groups)),
		Annotations: make([]annotationJSON, 0, len(d.Annotations)),
	}
	for _, g := range d.Groups {
		out.Groups = append(out.Groups, groupJSON{
			UUID:    g.UUID.String(),
			Name:    g.Name,
			Color:   g.Color,
			Visible: g.Visible,
		})
	}
	for _, a := range d.Annotations {
		aj, err := exportAnnotation(a)
		if err != nil {
			return nil, err
		}
		out.Annotations = append(out.Annotations, aj)
	}
	for _, e := range d.ModelInfo {
		out.ModelInfo = append(out.ModelInfo, exportEntry(e))
	}
	return json.MarshalIndent(out, "", "  ")
}

func exportAnnotation(a *annotation.Annotation) (annotationJSON, error) {
	aj := annotationJSON{
		UUID:  a.UUID.String(),
		Name:  a.Name,
		Group: a.GroupUUID.String(),
	}
	switch g := a.Geometry.(type) {
	case annotation.PointGeometry:
		aj.Type = string(annotation.KindPoint)
		aj.Points = []vecJSON{fromVec(g.Point)}
	case annotation.LineGeometry:
		aj.Type = string(annotation.KindLine)
		aj.Points = fromVecs(g.Points)
		aj.Measurement = g.Measurement
	case annotation.PolygonGeometry:
		aj.Type = string(annotation.KindPolygon)
		aj.Points = fromVecs(g.Points)
	case annotation.SurfaceGeometry:
		aj.Type = string(annotation.KindSurface)
		faces := make([]mesh.FaceID, len(g.Faces))
		copy(faces, g.Faces)
		sort.Slice(faces, func(i, j int) bool { return faces[i] < faces[j] })
		aj.FaceData = make([]string, 0, len(faces))
		for _, f := range faces {
			aj.FaceData = append(aj.FaceData, f.LegacyString())
		}
		c := fromVec(g.Centroid)
		aj.Centroid = &c
	case annotation.BoxGeometry:
		aj.Type = string(annotation.KindBox)
		aj.Box = &boxJSON{
			Center:   fromVec(g.Center),
			Size:     fromVec(g.Size),
			Rotation: fromQuat(g.Rotation),
		}
	default:
		return aj, fmt.Errorf("annotation %s: unknown geometry %T", a.UUID, a.Geometry)
	}
	for _, e := range a.Entries {
		aj.Entries = append(aj.Entries, exportEntry(e))
	}
	for _, v := range a.NameVersions {
		aj.NameHist = append(aj.NameHist, nameVersionJSON{Name: v.Name, SavedAt: v.SavedAt})
	}
	for _, v := range a.GroupVersions {
		aj.GroupHist = append(aj.GroupHist, groupVersionJSON{Group: v.GroupUUID.String(), SavedAt: v.SavedAt})
	}
	return aj, nil
}

func exportEntry(e *annotation.Entry) entryJSON {
	ej := entryJSON{
		UUID:        e.UUID.String(),
		Description: e.Description,
		Author:      e.Author,
		CreatedAt:   e.CreatedAt,
		ModifiedAt:  e.ModifiedAt,
		Links:       e.Links,
	}
	for _, v := range e.Versions {
		ej.Versions = append(ej.Versions, versionJSON{
			Description: v.Description,
			Author:      v.Author,
			Links:       v.Links,
			SavedAt:     v.SavedAt,
		})
	}
	return ej
}

// Import parses interchange JSON into a fresh document. Unrecognized
// top-level shapes return ErrInvalidFormat; individual malformed
// entities are skipped or repaired (fresh UUID, default group) and
// counted in the report, never fatal. A nil logger disables logging.
func Import(data []byte, log *zap.Logger) (*annotation.Document, *ImportReport, error) {
	if log == nil {
		log = zap.NewNop()
	}
	var in documentJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if in.Groups == nil && in.Annotations == nil && in.ModelInfo == nil {
		return nil, nil, fmt.Errorf("%w: no recognizable sections", ErrInvalidFormat)
	}
	up := annotation.UpAxis(in.UpAxis)
	if in.UpAxis == "" {
		up = annotation.UpY
	}
	if !up.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown up axis %q", ErrInvalidFormat, in.UpAxis)
	}

	report := &ImportReport{}
	doc := annotation.NewDocument()
	doc.UpAxis = up

	for _, gj := range in.Groups {
		id := parseUUID(gj.UUID, report)
		if g := doc.GroupByName(gj.Name); g != nil && gj.Name == annotation.DefaultGroupName {
			// The importing document brings its own default group;
			// adopt its UUID so annotation references resolve.
			continue
		}
		doc.InsertGroup(&annotation.Group{
			UUID:    id,
			Name:    gj.Name,
			Color:   gj.Color,
			Visible: gj.Visible,
		})
	}

	for _, aj := range in.Annotations {
		a, err := importAnnotation(aj, report)
		if err != nil {
			report.SkippedAnnotations++
			log.Warn("skipping malformed annotation",
				zap.String("name", aj.Name),
				zap.Error(err))
			continue
		}
		doc.InsertAnnotation(a)
	}

	for _, ej := range in.ModelInfo {
		doc.ModelInfo = append(doc.ModelInfo, importEntry(ej, report))
	}
	return doc, report, nil
}

func parseUUID(s string, report *ImportReport) uuid.UUID {
	if s != "" {
		if id, err := uuid.Parse(s); err == nil {
			return id
		}
	}
	report.GeneratedUUIDs++
	return uuid.New()
}

func importAnnotation(aj annotationJSON, report *ImportReport) (*annotation.Annotation, error) {
	a := &annotation.Annotation{
		UUID: parseUUID(aj.UUID, report),
		Name: aj.Name,
	}
	if aj.Group != "" {
		if id, err := uuid.Parse(aj.Group); err == nil {
			a.GroupUUID = id
		}
	}

	switch annotation.Kind(aj.Type) {
	case annotation.KindPoint:
		if len(aj.Points) < 1 {
			return nil, fmt.Errorf("point annotation without a point")
		}
		a.Geometry = annotation.PointGeometry{Point: toVec(aj.Points[0])}
	case annotation.KindLine:
		if len(aj.Points) < 2 {
			return nil, fmt.Errorf("line annotation with %d points", len(aj.Points))
		}
		a.Geometry = annotation.LineGeometry{Points: toVecs(aj.Points), Measurement: aj.Measurement}
	case annotation.KindPolygon:
		if len(aj.Points) < 3 {
			return nil, fmt.Errorf("polygon annotation with %d points", len(aj.Points))
		}
		a.Geometry = annotation.PolygonGeometry{Points: toVecs(aj.Points)}
	case annotation.KindSurface:
		faces := make([]mesh.FaceID, 0, len(aj.FaceData))
		for _, s := range aj.FaceData {
			f, err := mesh.ParseLegacyFaceID(s)
			if err != nil {
				report.SkippedFaces++
				continue
			}
			faces = append(faces, f)
		}
		if len(faces) == 0 {
			return nil, fmt.Errorf("surface annotation without usable faces")
		}
		geo := annotation.SurfaceGeometry{Faces: faces}
		if aj.Centroid != nil {
			geo.Centroid = toVec(*aj.Centroid)
		}
		a.Geometry = geo
	case annotation.KindBox:
		if aj.Box == nil {
			return nil, fmt.Errorf("box annotation without box data")
		}
		a.Geometry = annotation.BoxGeometry{
			Center:   toVec(aj.Box.Center),
			Size:     toVec(aj.Box.Size),
			Rotation: toQuat(aj.Box.Rotation),
		}
	default:
		return nil, fmt.Errorf("unknown annotation type %q", aj.Type)
	}

	for _, ej := range aj.Entries {
		a.Entries = append(a.Entries, importEntry(ej, report))
	}
	for _, v := range aj.NameHist {
		a.NameVersions = append(a.NameVersions, annotation.NameVersion{Name: v.Name, SavedAt: v.SavedAt})
	}
	for _, v := range aj.GroupHist {
		gv := annotation.GroupVersion{SavedAt: v.SavedAt}
		if id, err := uuid.Parse(v.Group); err == nil {
			gv.GroupUUID = id
		}
		a.GroupVersions = append(a.GroupVersions, gv)
	}
	return a, nil
}

func importEntry(ej entryJSON, report *ImportReport) *annotation.Entry {
	e := &annotation.Entry{
		UUID:        parseUUID(ej.UUID, report),
		Description: ej.Description,
		Author:      ej.Author,
		CreatedAt:   ej.CreatedAt,
		ModifiedAt:  ej.ModifiedAt,
		Links:       ej.Links,
	}
	for _, v := range ej.Versions {
		e.Versions = append(e.Versions, annotation.EntryVersion{
			Description: v.Description,
			Author:      v.Author,
			Links:       v.Links,
			SavedAt:     v.SavedAt,
		})
	}
	return e
}
