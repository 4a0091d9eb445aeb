package annotation

import (
	"time"

	"github.com/google/uuid"
)

// Entry is one timestamped observation, attached to an annotation or
// to the model as a whole.
type Entry struct {
	UUID        uuid.UUID
	Description string
	Author      string
	CreatedAt   time.Time
	ModifiedAt  *time.Time
	Links       []string

	// Versions is the append-only log of previous content states,
	// oldest first. The live fields above hold the current state.
	Versions []EntryVersion
}

// EntryVersion is an immutable snapshot of prior entry content.
type EntryVersion struct {
	Description string
	Author      string
	Links       []string
	SavedAt     time.Time
}

// NewEntry creates an entry with a fresh UUID.
func NewEntry(description, author string, createdAt time.Time, links []string) *Entry {
	return &Entry{
		UUID:        uuid.New(),
		Description: description,
		Author:      author,
		CreatedAt:   createdAt,
		Links:       append([]string(nil), links...),
	}
}

// EffectiveTime returns the modification time when set, else the
// creation time. Merge conflict resolution compares these.
func (e *Entry) EffectiveTime() time.Time {
	if e.ModifiedAt != nil {
		return *e.ModifiedAt
	}
	return e.CreatedAt
}

// snapshot captures the entry's current content as a version record.
func (e *Entry) snapshot(savedAt time.Time) EntryVersion {
	return EntryVersion{
		Description: e.Description,
		Author:      e.Author,
		Links:       append([]string(nil), e.Links...),
		SavedAt:     savedAt,
	}
}

// contentEquals reports whether the live content matches the given
// fields. Used to suppress no-op version records.
func (e *Entry) contentEquals(description, author string, links []string) bool {
	if e.Description != description || e.Author != author {
		return false
	}
	if len(e.Links) != len(links) {
		return false
	}
	for i := range links {
		if e.Links[i] != links[i] {
			return false
		}
	}
	return true
}

// Group is a named, colored, visibility-toggleable bucket of
// annotations.
type Group struct {
	UUID    uuid.UUID
	LocalID int
	Name    string
	Color   string
	Visible bool
}
