package merge

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
	"github.com/NilsSchnorr/MeshNotes/pkg/math"
)

func ts(sec int) time.Time {
	return time.Date(2026, 3, 1, 12, 0, sec, 0, time.UTC)
}

// entryWith builds an entry with a fixed UUID and timestamps.
func entryWith(id uuid.UUID, desc, author string, created time.Time, modified *time.Time) *annotation.Entry {
	return &annotation.Entry{
		UUID:        id,
		Description: desc,
		Author:      author,
		CreatedAt:   created,
		ModifiedAt:  modified,
	}
}

// twinDocuments returns two structurally identical documents sharing
// all UUIDs, as an export/import round trip would produce.
func twinDocuments(t *testing.T) (*annotation.Document, *annotation.Document) {
	t.Helper()
	annID := uuid.New()
	entryID := uuid.New()
	groupID := uuid.New()

	build := func() *annotation.Document {
		d := annotation.NewDocument()
		d.InsertGroup(&annotation.Group{UUID: groupID, Name: "damage", Color: "#f00", Visible: true})
		a := &annotation.Annotation{
			UUID:      annID,
			Name:      "crack",
			GroupUUID: groupID,
			Geometry:  annotation.LineGeometry{Points: []math.Vec3{{X: 0}, {X: 1}}},
			Entries:   []*annotation.Entry{entryWith(entryID, "first look", "nils", ts(1), nil)},
		}
		d.InsertAnnotation(a)
		return d
	}
	return build(), build()
}

func TestMergeIdenticalDocumentIsNeutral(t *testing.T) {
	local, imported := twinDocuments(t)
	before := len(local.Annotations[0].Entries[0].Versions)

	st := New(nil).Merge(local, imported)

	assert.Equal(t, 0, st.Added)
	assert.Equal(t, 0, st.Updated)
	assert.Equal(t, 1, st.Unchanged)
	assert.Equal(t, 0, st.GroupsAdded)
	assert.Empty(t, st.Reproject)
	assert.Len(t, local.Annotations, 1)
	assert.Len(t, local.Annotations[0].Entries, 1)
	assert.Len(t, local.Annotations[0].Entries[0].Versions, before)
}

func TestMergeNewerImportWinsAndSnapshotsLocal(t *testing.T) {
	local, imported := twinDocuments(t)

	t1, t2 := ts(10), ts(20)
	locEntry := local.Annotations[0].Entries[0]
	locEntry.Description = "A"
	locEntry.ModifiedAt = &t1

	impEntry := imported.Annotations[0].Entries[0]
	impEntry.Description = "B"
	impEntry.ModifiedAt = &t2

	st := New(nil).Merge(local, imported)

	assert.Equal(t, 1, st.Updated)
	assert.Equal(t, "B", locEntry.Description)
	require.NotNil(t, locEntry.ModifiedAt)
	assert.Equal(t, t2, *locEntry.ModifiedAt)

	// Exactly one new snapshot preserving "A", stamped before t2.
	require.Len(t, locEntry.Versions, 1)
	assert.Equal(t, "A", locEntry.Versions[0].Description)
	assert.True(t, locEntry.Versions[0].SavedAt.Before(t2))
}

func TestMergeOlderImportLosesButVersionsSurvive(t *testing.T) {
	local, imported := twinDocuments(t)

	t1, t2 := ts(20), ts(10)
	locEntry := local.Annotations[0].Entries[0]
	locEntry.Description = "A"
	locEntry.ModifiedAt = &t1

	impEntry := imported.Annotations[0].Entries[0]
	impEntry.Description = "B"
	impEntry.ModifiedAt = &t2
	impEntry.Versions = []annotation.EntryVersion{
		{Description: "ancient", Author: "nils", SavedAt: ts(2)},
	}

	st := New(nil).Merge(local, imported)

	// Local content stays, but the imported history is unioned in.
	assert.Equal(t, "A", locEntry.Description)
	assert.Equal(t, t1, *locEntry.ModifiedAt)
	require.Len(t, locEntry.Versions, 1)
	assert.Equal(t, "ancient", locEntry.Versions[0].Description)
	assert.Equal(t, 1, st.Updated)
}

func TestMergeTieLeavesLocalUntouched(t *testing.T) {
	local, imported := twinDocuments(t)

	t1 := ts(10)
	local.Annotations[0].Entries[0].Description = "A"
	local.Annotations[0].Entries[0].ModifiedAt = &t1
	imported.Annotations[0].Entries[0].Description = "B"
	imported.Annotations[0].Entries[0].ModifiedAt = &t1

	New(nil).Merge(local, imported)
	assert.Equal(t, "A", local.Annotations[0].Entries[0].Description)
	assert.Empty(t, local.Annotations[0].Entries[0].Versions)
}

func TestMergeVersionUnionDeduplicatesAndSorts(t *testing.T) {
	local, imported := twinDocuments(t)

	shared := annotation.EntryVersion{Description: "v1", SavedAt: ts(3)}
	local.Annotations[0].Entries[0].Versions = []annotation.EntryVersion{
		shared, {Description: "v3", SavedAt: ts(7)},
	}
	imported.Annotations[0].Entries[0].Versions = []annotation.EntryVersion{
		shared, {Description: "v2", SavedAt: ts(5)},
	}

	New(nil).Merge(local, imported)

	vs := local.Annotations[0].Entries[0].Versions
	require.Len(t, vs, 3)
	assert.Equal(t, "v1", vs[0].Description)
	assert.Equal(t, "v2", vs[1].Description)
	assert.Equal(t, "v3", vs[2].Description)
}

func TestMergeUnmatchedAnnotationInserted(t *testing.T) {
	local, imported := twinDocuments(t)

	extra := &annotation.Annotation{
		UUID:     uuid.New(),
		Name:     "dent",
		Geometry: annotation.PointGeometry{Point: math.Vec3{X: 5}},
		Entries:  []*annotation.Entry{entryWith(uuid.New(), "found it", "ada", ts(9), nil)},
	}
	imported.InsertAnnotation(extra)

	st := New(nil).Merge(local, imported)

	assert.Equal(t, 1, st.Added)
	got := local.AnnotationByUUID(extra.UUID)
	require.NotNil(t, got, "imported UUID must be retained")
	assert.Contains(t, st.Reproject, extra.UUID)
	// Fresh local id, distinct from the existing annotation's.
	assert.NotEqual(t, local.Annotations[0].LocalID, got.LocalID)
}

func TestMergeLegacyEntryMatchByContent(t *testing.T) {
	local, imported := twinDocuments(t)

	// Simulate a legacy import: the entry UUID was regenerated, so it
	// no longer matches, but description+author+created do.
	imported.Annotations[0].Entries[0].UUID = uuid.New()

	st := New(nil).Merge(local, imported)

	assert.Len(t, local.Annotations[0].Entries, 1, "content-equal entry must not duplicate")
	assert.Equal(t, 0, st.Added)
}

func TestMergeNewerImportOverwritesMetadata(t *testing.T) {
	local, imported := twinDocuments(t)

	imported.Annotations[0].Name = "sealed crack"
	imported.Annotations[0].Geometry = annotation.LineGeometry{
		Points: []math.Vec3{{X: 0}, {X: 2}},
	}
	imported.Annotations[0].Entries = append(imported.Annotations[0].Entries,
		entryWith(uuid.New(), "resealed", "ada", ts(30), nil))

	st := New(nil).Merge(local, imported)

	loc := local.Annotations[0]
	assert.Equal(t, "sealed crack", loc.Name)
	require.Len(t, loc.NameVersions, 1)
	assert.Equal(t, "crack", loc.NameVersions[0].Name)
	assert.Contains(t, st.Reproject, loc.UUID)
	assert.Len(t, loc.Entries, 2)
}

func TestMergeOlderImportKeepsLocalMetadata(t *testing.T) {
	local, imported := twinDocuments(t)

	// Local has the newer entry; imported renamed the annotation.
	local.Annotations[0].Entries = append(local.Annotations[0].Entries,
		entryWith(uuid.New(), "latest", "nils", ts(50), nil))
	imported.Annotations[0].Name = "sealed crack"

	New(nil).Merge(local, imported)
	assert.Equal(t, "crack", local.Annotations[0].Name)
	assert.Empty(t, local.Annotations[0].NameVersions)
}

func TestMergeGroupMatchByNameThenInsert(t *testing.T) {
	local, imported := twinDocuments(t)

	// Same name, different UUID: treated as the same group.
	imported.Groups[1].UUID = uuid.New()
	// A genuinely new group comes along too.
	fresh := &annotation.Group{UUID: uuid.New(), Name: "repairs", Color: "#0f0", Visible: true}
	imported.InsertGroup(fresh)

	st := New(nil).Merge(local, imported)

	assert.Equal(t, 1, st.GroupsAdded)
	assert.NotNil(t, local.GroupByName("repairs"))
	// The annotation still points at the name-matched local group.
	assert.Equal(t, local.GroupByName("damage").UUID, local.Annotations[0].GroupUUID)
}

func TestMergeSkipsAnnotationWithoutGeometry(t *testing.T) {
	local, imported := twinDocuments(t)
	imported.InsertAnnotation(&annotation.Annotation{UUID: uuid.New(), Name: "broken"})

	st := New(nil).Merge(local, imported)
	assert.Equal(t, 1, st.Skipped)
	assert.Len(t, local.Annotations, 1)
}

func TestMergeNormalizesUpAxis(t *testing.T) {
	local, imported := twinDocuments(t)
	imported.UpAxis = annotation.UpZ
	imported.Annotations[0].Geometry = annotation.LineGeometry{
		Points: []math.Vec3{{X: 1, Y: 2, Z: 3}},
	}
	imported.Annotations[0].Entries = append(imported.Annotations[0].Entries,
		entryWith(uuid.New(), "moved", "ada", ts(30), nil))

	box := &annotation.Annotation{
		UUID: uuid.New(),
		Name: "region",
		Geometry: annotation.BoxGeometry{
			Center:   math.Vec3{X: 1, Y: 2, Z: 3},
			Size:     math.Vec3{X: 1, Y: 2, Z: 3},
			Rotation: math.QuatIdentity(),
		},
	}
	imported.InsertAnnotation(box)

	New(nil).Merge(local, imported)

	line := local.Annotations[0].Geometry.(annotation.LineGeometry)
	assert.Equal(t, math.Vec3{X: 1, Y: 3, Z: -2}, line.Points[0])

	got := local.AnnotationByUUID(box.UUID).Geometry.(annotation.BoxGeometry)
	assert.Equal(t, math.Vec3{X: 1, Y: 3, Z: -2}, got.Center)
	assert.Equal(t, math.Vec3{X: 1, Y: 3, Z: 2}, got.Size, "extents keep their magnitude")
}

func TestMergeModelInfoEntries(t *testing.T) {
	local, imported := twinDocuments(t)
	imported.ModelInfo = append(imported.ModelInfo,
		entryWith(uuid.New(), "scanned 2026-02", "ada", ts(4), nil))

	New(nil).Merge(local, imported)
	require.Len(t, local.ModelInfo, 1)
	assert.Equal(t, "scanned 2026-02", local.ModelInfo[0].Description)
}
