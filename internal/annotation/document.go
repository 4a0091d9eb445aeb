package annotation

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DefaultGroupName is the bucket annotations fall back to when their
// group is deleted.
const DefaultGroupName = "Default"

// Document is the in-memory annotation document: groups, annotations
// and model-wide info entries, indexed by UUID. All mutation happens
// through its methods so version logging stays consistent.
type Document struct {
	UpAxis      UpAxis
	Groups      []*Group
	Annotations []*Annotation
	ModelInfo   []*Entry

	byUUID      map[uuid.UUID]*Annotation
	groupByUUID map[uuid.UUID]*Group

	nextAnnotationID int
	nextGroupID      int
}

// NewDocument creates an empty document in the Y-up convention with
// the default group.
func NewDocument() *Document {
	d := &Document{
		UpAxis:      UpY,
		byUUID:      make(map[uuid.UUID]*Annotation),
		groupByUUID: make(map[uuid.UUID]*Group),
	}
	d.AddGroup(DefaultGroupName, "#ffffff")
	return d
}

// DefaultGroup returns the fallback group, creating it if it was
// deleted out from under us by a legacy import.
func (d *Document) DefaultGroup() *Group {
	if g := d.GroupByName(DefaultGroupName); g != nil {
		return g
	}
	return d.AddGroup(DefaultGroupName, "#ffffff")
}

// AddGroup creates a group with a fresh UUID and local id.
func (d *Document) AddGroup(name, color string) *Group {
	g := &Group{
		UUID:    uuid.New(),
		LocalID: d.nextGroupID,
		Name:    name,
		Color:   color,
		Visible: true,
	}
	d.nextGroupID++
	d.Groups = append(d.Groups, g)
	d.groupByUUID[g.UUID] = g
	return g
}

// InsertGroup adds an externally created group (import/merge), keeping
// its UUID but assigning a fresh local id. A nil UUID gets a generated
// one.
func (d *Document) InsertGroup(g *Group) *Group {
	if g.UUID == uuid.Nil {
		g.UUID = uuid.New()
	}
	g.LocalID = d.nextGroupID
	d.nextGroupID++
	d.Groups = append(d.Groups, g)
	d.groupByUUID[g.UUID] = g
	return g
}

// GroupByUUID returns the group with the given UUID, or nil.
func (d *Document) GroupByUUID(id uuid.UUID) *Group {
	return d.groupByUUID[id]
}

// GroupByName returns the first group with an exactly matching name,
// or nil.
func (d *Document) GroupByName(name string) *Group {
	for _, g := range d.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// DeleteGroup removes a group and reassigns its annotations to the
// default group. Deleting the default group is rejected.
func (d *Document) DeleteGroup(id uuid.UUID, now time.Time) error {
	g := d.groupByUUID[id]
	if g == nil {
		return fmt.Errorf("group %s: not found", id)
	}
	def := d.DefaultGroup()
	if g == def {
		return fmt.Errorf("group %q cannot be deleted", g.Name)
	}
	for _, a := range d.Annotations {
		if a.GroupUUID == id {
			d.assignGroup(a, def.UUID, now)
		}
	}
	delete(d.groupByUUID, id)
	for i, other := range d.Groups {
		if other == g {
			d.Groups = append(d.Groups[:i], d.Groups[i+1:]...)
			break
		}
	}
	return nil
}

// AddAnnotation creates an annotation with a fresh UUID in the given
// group (the default group when groupID is nil).
func (d *Document) AddAnnotation(name string, geom Geometry, groupID uuid.UUID) *Annotation {
	if d.groupByUUID[groupID] == nil {
		groupID = d.DefaultGroup().UUID
	}
	a := &Annotation{
		UUID:      uuid.New(),
		LocalID:   d.nextAnnotationID,
		Name:      name,
		GroupUUID: groupID,
		Geometry:  geom,
	}
	d.nextAnnotationID++
	d.Annotations = append(d.Annotations, a)
	d.byUUID[a.UUID] = a
	return a
}

// InsertAnnotation adds an externally created annotation (import or
// merge), keeping its UUID but assigning a fresh local id. A nil UUID
// gets a generated one; an unknown group reference falls back to the
// default group.
func (d *Document) InsertAnnotation(a *Annotation) *Annotation {
	if a.UUID == uuid.Nil {
		a.UUID = uuid.New()
	}
	if d.groupByUUID[a.GroupUUID] == nil {
		a.GroupUUID = d.DefaultGroup().UUID
	}
	a.LocalID = d.nextAnnotationID
	d.nextAnnotationID++
	d.Annotations = append(d.Annotations, a)
	d.byUUID[a.UUID] = a
	return a
}

// AnnotationByUUID returns the annotation with the given UUID, or nil.
func (d *Document) AnnotationByUUID(id uuid.UUID) *Annotation {
	return d.byUUID[id]
}

// DeleteAnnotation removes an annotation and, with it, all its entries.
func (d *Document) DeleteAnnotation(id uuid.UUID) bool {
	a := d.byUUID[id]
	if a == nil {
		return false
	}
	delete(d.byUUID, id)
	for i, other := range d.Annotations {
		if other == a {
			d.Annotations = append(d.Annotations[:i], d.Annotations[i+1:]...)
			break
		}
	}
	a.Entries = nil
	return true
}

// Rename changes an annotation's display name, recording the previous
// name in the version history. Renaming to the current name records
// nothing.
func (d *Document) Rename(id uuid.UUID, name string, now time.Time) bool {
	a := d.byUUID[id]
	if a == nil || a.Name == name {
		return false
	}
	a.NameVersions = append(a.NameVersions, NameVersion{Name: a.Name, SavedAt: now})
	a.Name = name
	return true
}

// MoveToGroup reassigns an annotation, recording the previous group in
// the version history. A move to the current group records nothing.
func (d *Document) MoveToGroup(id uuid.UUID, groupID uuid.UUID, now time.Time) bool {
	a := d.byUUID[id]
	if a == nil || d.groupByUUID[groupID] == nil || a.GroupUUID == groupID {
		return false
	}
	d.assignGroup(a, groupID, now)
	return true
}

func (d *Document) assignGroup(a *Annotation, groupID uuid.UUID, now time.Time) {
	a.GroupVersions = append(a.GroupVersions, GroupVersion{GroupUUID: a.GroupUUID, SavedAt: now})
	a.GroupUUID = groupID
}

// AddEntry appends a new entry to an annotation.
func (d *Document) AddEntry(id uuid.UUID, description, author string, now time.Time, links []string) *Entry {
	a := d.byUUID[id]
	if a == nil {
		return nil
	}
	e := NewEntry(description, author, now, links)
	a.Entries = append(a.Entries, e)
	return e
}

// AddModelInfo appends a model-wide info entry.
func (d *Document) AddModelInfo(description, author string, now time.Time, links []string) *Entry {
	e := NewEntry(description, author, now, links)
	d.ModelInfo = append(d.ModelInfo, e)
	return e
}

// EditEntry replaces an entry's content, snapshotting the previous
// content into the version list and stamping the modification time.
// An edit that changes nothing records no version and keeps the
// timestamps untouched.
func (d *Document) EditEntry(e *Entry, description, author string, now time.Time, links []string) bool {
	if e == nil || e.contentEquals(description, author, links) {
		return false
	}
	e.Versions = append(e.Versions, e.snapshot(now))
	e.Description = description
	e.Author = author
	e.Links = append([]string(nil), links...)
	t := now
	e.ModifiedAt = &t
	return true
}

// DeleteEntry removes an entry from an annotation.
func (d *Document) DeleteEntry(id uuid.UUID, entryID uuid.UUID) bool {
	a := d.byUUID[id]
	if a == nil {
		return false
	}
	for i, e := range a.Entries {
		if e.UUID == entryID {
			a.Entries = append(a.Entries[:i], a.Entries[i+1:]...)
			return true
		}
	}
	return false
}
