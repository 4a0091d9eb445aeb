// Package merge reconciles an imported annotation document with the
// live one: UUID identity, timestamp conflict resolution and
// append-only version-history preservation.
package merge

import (
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/NilsSchnorr/MeshNotes/internal/annotation"
)

// Stats summarizes one merge.
type Stats struct {
	Added     int // annotations inserted as new
	Updated   int // annotations whose content or history changed
	Unchanged int // annotations matched with nothing to take over

	GroupsAdded int
	Skipped     int // imported entities dropped as unusable

	// Reproject lists annotations whose geometry was inserted or
	// overwritten; their projected-edge caches are invalid and must be
	// recomputed before rendering.
	Reproject []uuid.UUID
}

// Engine merges imported documents into a local one.
type Engine struct {
	log *zap.Logger
}

// New creates a merge engine. A nil logger disables logging.
func New(log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{log: log}
}

// Merge folds imported into local, mutating local in place. The
// imported document is consumed and must not be reused. Imported
// geometry is normalized from the imported up-axis convention into the
// local one before any comparison or storage.
func (e *Engine) Merge(local, imported *annotation.Document) *Stats {
	st := &Stats{}

	if imported.UpAxis != local.UpAxis {
		normalizeAxes(imported, local.UpAxis)
	}

	groupMap := e.mergeGroups(local, imported, st)

	for _, in := range imported.Annotations {
		if in.Geometry == nil {
			st.Skipped++
			e.log.Warn("skipping imported annotation without geometry",
				zap.String("uuid", in.UUID.String()),
				zap.String("name", in.Name))
			continue
		}
		if mapped, ok := groupMap[in.GroupUUID]; ok {
			in.GroupUUID = mapped
		}

		loc := local.AnnotationByUUID(in.UUID)
		if loc == nil {
			// Identity is UUID only: a shared display name is not a
			// match, two authors may name annotations alike.
			local.InsertAnnotation(in)
			st.Added++
			st.Reproject = append(st.Reproject, in.UUID)
			continue
		}
		if e.mergeAnnotation(local, loc, in, st) {
			st.Updated++
		} else {
			st.Unchanged++
		}
	}

	if mergeEntryList(&local.ModelInfo, imported.ModelInfo) {
		e.log.Debug("model info entries merged")
	}

	e.log.Info("merge finished",
		zap.Int("added", st.Added),
		zap.Int("updated", st.Updated),
		zap.Int("unchanged", st.Unchanged),
		zap.Int("groups_added", st.GroupsAdded),
		zap.Int("skipped", st.Skipped))
	return st
}

// mergeGroups matches imported groups by UUID, then by exact name, and
// inserts the rest as new. Returns the imported-to-local UUID mapping
// for annotation group references.
func (e *Engine) mergeGroups(local, imported *annotation.Document, st *Stats) map[uuid.UUID]uuid.UUID {
	groupMap := make(map[uuid.UUID]uuid.UUID)
	for _, in := range imported.Groups {
		if g := local.GroupByUUID(in.UUID); g != nil {
			groupMap[in.UUID] = g.UUID
			continue
		}
		if g := local.GroupByName(in.Name); g != nil {
			groupMap[in.UUID] = g.UUID
			continue
		}
		importedUUID := in.UUID
		local.InsertGroup(in)
		groupMap[importedUUID] = in.UUID
		st.GroupsAdded++
	}
	return groupMap
}

// mergeAnnotation folds one matched imported annotation into its local
// counterpart. Reports whether anything changed.
func (e *Engine) mergeAnnotation(local *annotation.Document, loc, in *annotation.Annotation, st *Stats) bool {
	localLatest := loc.LatestEntryTime()
	importedNewer := in.LatestEntryTime().After(localLatest)

	changed := mergeEntryList(&loc.Entries, in.Entries)

	// Metadata moves wholesale only when the imported side's newest
	// entry is strictly newer; ties leave local untouched.
	if importedNewer {
		if loc.Name != in.Name {
			loc.NameVersions = append(loc.NameVersions,
				annotation.NameVersion{Name: loc.Name, SavedAt: localLatest})
			loc.Name = in.Name
			changed = true
		}
		if loc.GroupUUID != in.GroupUUID && local.GroupByUUID(in.GroupUUID) != nil {
			loc.GroupVersions = append(loc.GroupVersions,
				annotation.GroupVersion{GroupUUID: loc.GroupUUID, SavedAt: localLatest})
			loc.GroupUUID = in.GroupUUID
			changed = true
		}
		if !geometryEqual(loc.Geometry, in.Geometry) {
			loc.Geometry = in.Geometry
			st.Reproject = append(st.Reproject, loc.UUID)
			changed = true
		}
	}

	// Histories survive no matter which side won the content.
	var grew bool
	loc.NameVersions, grew = unionNameVersions(loc.NameVersions, in.NameVersions)
	changed = changed || grew
	loc.GroupVersions, grew = unionGroupVersions(loc.GroupVersions, in.GroupVersions)
	changed = changed || grew

	return changed
}

// mergeEntryList folds imported entries into a local entry list.
// Reports whether the list changed.
func mergeEntryList(localEntries *[]*annotation.Entry, imported []*annotation.Entry) bool {
	changed := false
	for _, in := range imported {
		loc := findEntry(*localEntries, in)
		if loc == nil {
			*localEntries = append(*localEntries, in)
			changed = true
			continue
		}
		if mergeEntry(loc, in) {
			changed = true
		}
	}
	return changed
}

// findEntry locates the local counterpart of an imported entry: first
// by UUID, then by content equality (description, author and creation
// time all equal) for legacy documents whose entries had no stable
// identity. The legacy triple can in principle collide for distinct
// entries authored at the same instant with identical text; that is an
// accepted limitation of legacy compatibility.
func findEntry(entries []*annotation.Entry, in *annotation.Entry) *annotation.Entry {
	for _, e := range entries {
		if e.UUID == in.UUID {
			return e
		}
	}
	for _, e := range entries {
		if e.Description == in.Description &&
			e.Author == in.Author &&
			e.CreatedAt.Equal(in.CreatedAt) {
			return e
		}
	}
	return nil
}

// mergeEntry resolves one matched entry pair. The imported side wins
// the content only when its effective timestamp is strictly newer;
// version histories are unioned either way so no history is ever lost.
func mergeEntry(loc, in *annotation.Entry) bool {
	changed := false

	if in.EffectiveTime().After(loc.EffectiveTime()) {
		// Preserve the losing local content as a version stamped with
		// its own effective time, which precedes the winner's.
		loc.Versions = append(loc.Versions, annotation.EntryVersion{
			Description: loc.Description,
			Author:      loc.Author,
			Links:       append([]string(nil), loc.Links...),
			SavedAt:     loc.EffectiveTime(),
		})
		loc.Description = in.Description
		loc.Author = in.Author
		loc.Links = append([]string(nil), in.Links...)
		loc.ModifiedAt = in.ModifiedAt
		changed = true
	}

	var grew bool
	loc.Versions, grew = unionEntryVersions(loc.Versions, in.Versions)
	return changed || grew
}

// unionEntryVersions merges two version logs keyed by SavedAt,
// dropping duplicates and re-sorting chronologically. Reports whether
// the result grew past a.
func unionEntryVersions(a, b []annotation.EntryVersion) ([]annotation.EntryVersion, bool) {
	if len(b) == 0 {
		return a, false
	}
	seen := make(map[int64]bool, len(a))
	for _, v := range a {
		seen[v.SavedAt.UnixNano()] = true
	}
	out := a
	grew := false
	for _, v := range b {
		if !seen[v.SavedAt.UnixNano()] {
			seen[v.SavedAt.UnixNano()] = true
			out = append(out, v)
			grew = true
		}
	}
	if grew {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	}
	return out, grew
}

func unionNameVersions(a, b []annotation.NameVersion) ([]annotation.NameVersion, bool) {
	if len(b) == 0 {
		return a, false
	}
	seen := make(map[int64]bool, len(a))
	for _, v := range a {
		seen[v.SavedAt.UnixNano()] = true
	}
	out := a
	grew := false
	for _, v := range b {
		if !seen[v.SavedAt.UnixNano()] {
			seen[v.SavedAt.UnixNano()] = true
			out = append(out, v)
			grew = true
		}
	}
	if grew {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	}
	return out, grew
}

func unionGroupVersions(a, b []annotation.GroupVersion) ([]annotation.GroupVersion, bool) {
	if len(b) == 0 {
		return a, false
	}
	seen := make(map[int64]bool, len(a))
	for _, v := range a {
		seen[v.SavedAt.UnixNano()] = true
	}
	out := a
	grew := false
	for _, v := range b {
		if !seen[v.SavedAt.UnixNano()] {
			seen[v.SavedAt.UnixNano()] = true
			out = append(out, v)
			grew = true
		}
	}
	if grew {
		sort.SliceStable(out, func(i, j int) bool { return out[i].SavedAt.Before(out[j].SavedAt) })
	}
	return out, grew
}
