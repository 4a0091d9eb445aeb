package docio

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
	"github.com/NilsSchnorr/MeshNotes/internal/mesh"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

func ts(sec int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, sec, 0, time.UTC)
}

// sampleDocument builds a document exercising every geometry kind.
func sampleDocument(t *testing.T) *annotation.Document {
	t.Helper()
	d := annotation.NewDocument()
	g := d.AddGroup("damage", "#ff0000")

	line := d.AddAnnotation("crack", annotation.LineGeometry{
		Points: []math.Vec3{{X: 0}, {X: 1, Y: 0.5}},
	}, g.UUID)
	e := d.AddEntry(line.UUID, "first look", "nils", ts(1), []string{"img://1"})
	d.EditEntry(e, "grew since", "nils", ts(5), []string{"img://1", "img://2"})

	d.AddAnnotation("marker", annotation.PointGeometry{Point: math.Vec3{X: 2, Y: 3, Z: 4}}, g.UUID)
	d.AddAnnotation("outline", annotation.PolygonGeometry{
		Points: []math.Vec3{{X: 0}, {X: 1}, {X: 1, Y: 1}},
	}, uuid.Nil)
	d.AddAnnotation("patch", annotation.SurfaceGeometry{
		Faces:    []mesh.FaceID{mesh.EncodeFaceID(0, 3), mesh.EncodeFaceID(1, 7)},
		Centroid: math.Vec3{X: 0.5, Y: 0.5},
	}, uuid.Nil)
	d.AddAnnotation("region", annotation.BoxGeometry{
		Center:   math.Vec3{X: 1, Y: 2, Z: 3},
		Size:     math.Vec3{X: 2, Y: 2, Z: 2},
		Rotation: math.QuatFromAxisAngle(math.Vec3{Y: 1}, 0.3),
	}, uuid.Nil)

	d.AddModelInfo("full scan", "ada", ts(2), nil)
	return d
}

func TestRoundTrip(t *testing.T) {
	d := sampleDocument(t)
	data, err := Export(d)
	require.NoError(t, err)

	got, report, err := Import(data, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, report.SkippedAnnotations)
	assert.Equal(t, 0, report.GeneratedUUIDs)

	require.Len(t, got.Annotations, len(d.Annotations))
	for i, want := range d.Annotations {
		gotA := got.Annotations[i]
		assert.Equal(t, want.UUID, gotA.UUID, "annotation UUID must survive")
		assert.Equal(t, want.Name, gotA.Name)
		assert.Equal(t, want.Geometry, gotA.Geometry)
		require.Len(t, gotA.Entries, len(want.Entries))
		for j, we := range want.Entries {
			ge := gotA.Entries[j]
			assert.Equal(t, we.UUID, ge.UUID)
			assert.Equal(t, we.Description, ge.Description)
			assert.Equal(t, we.Links, ge.Links)
			assert.True(t, we.CreatedAt.Equal(ge.CreatedAt))
			require.Len(t, ge.Versions, len(we.Versions))
		}
	}

	// Named groups keep their UUID.
	want := d.GroupByName("damage")
	gotG := got.GroupByName("damage")
	require.NotNil(t, gotG)
	assert.Equal(t, want.UUID, gotG.UUID)

	require.Len(t, got.ModelInfo, 1)
	assert.Equal(t, "full scan", got.ModelInfo[0].Description)
}

func TestImportRejectsUnrecognizedShape(t *testing.T) {
	for _, data := range []string{
		`not json at all`,
		`[1, 2, 3]`,
		`{"something": "else"}`,
		`{"upAxis": "w", "annotations": []}`,
	} {
		_, _, err := Import([]byte(data), nil)
		assert.ErrorIs(t, err, ErrInvalidFormat, "input: %s", data)
	}
}

func TestImportLegacyDocumentGeneratesUUIDs(t *testing.T) {
	legacy := `{
	  "groups": [{"name": "damage", "color": "#f00", "visible": true}],
	  "annotations": [{
	    "type": "line",
	    "name": "crack",
	    "points": [{"x":0,"y":0,"z":0},{"x":1,"y":0,"z":0}],
	    "entries": [{"description":"old note","author":"nils","createdAt":"2021-06-01T10:00:00Z"}]
	  }]
	}`
	doc, report, err := Import([]byte(legacy), nil)
	require.NoError(t, err)

	require.Len(t, doc.Annotations, 1)
	a := doc.Annotations[0]
	assert.NotEqual(t, uuid.Nil, a.UUID)
	require.Len(t, a.Entries, 1)
	assert.NotEqual(t, uuid.Nil, a.Entries[0].UUID)
	assert.GreaterOrEqual(t, report.GeneratedUUIDs, 3)
	// Missing upAxis defaults to Y-up.
	assert.Equal(t, annotation.UpY, doc.UpAxis)
}

func TestImportSkipsMalformedEntities(t *testing.T) {
	data := `{
	  "groups": [],
	  "annotations": [
	    {"type": "line", "name": "too short", "points": [{"x":0,"y":0,"z":0}]},
	    {"type": "alien", "name": "unknown kind"},
	    {"type": "surface", "name": "mixed faces", "faceData": ["0_1", "garbage", "1_2"]},
	    {"type": "point", "name": "ok", "points": [{"x":1,"y":2,"z":3}]}
	  ]
	}`
	doc, report, err := Import([]byte(data), nil)
	require.NoError(t, err, "per-entity damage must not fail the import")

	assert.Equal(t, 2, report.SkippedAnnotations)
	assert.Equal(t, 1, report.SkippedFaces)
	require.Len(t, doc.Annotations, 2)

	surf := doc.Annotations[0].Geometry.(annotation.SurfaceGeometry)
	assert.Len(t, surf.Faces, 2)
}

func TestImportBoxAndFaceData(t *testing.T) {
	d := annotation.NewDocument()
	d.AddAnnotation("patch", annotation.SurfaceGeometry{
		Faces: []mesh.FaceID{mesh.EncodeFaceID(2, 917)},
	}, uuid.Nil)
	data, err := Export(d)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"2_917"`, "faceData must use the legacy string form")

	got, _, err := Import(data, nil)
	require.NoError(t, err)
	surf := got.Annotations[0].Geometry.(annotation.SurfaceGeometry)
	assert.Equal(t, []mesh.FaceID{mesh.EncodeFaceID(2, 917)}, surf.Faces)
}

func TestImportPreservesUpAxisTag(t *testing.T) {
	data := `{"upAxis": "z", "annotations": []}`
	doc, _, err := Import([]byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, annotation.UpZ, doc.UpAxis)
}

func TestRoundTripThenMergeIsNeutral(t *testing.T) {
	// Exporting and re-importing yields entry UUIDs and timestamps that
	// match the originals exactly, so version lists keep their length.
	d := sampleDocument(t)
	data, err := Export(d)
	require.NoError(t, err)
	got, _, err := Import(data, nil)
	require.NoError(t, err)

	for i, want := range d.Annotations {
		assert.Len(t, got.Annotations[i].NameVersions, len(want.NameVersions))
		for j, e := range want.Entries {
			assert.Len(t, got.Annotations[i].Entries[j].Versions, len(e.Versions))
		}
	}
}
